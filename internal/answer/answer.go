// Package answer grades a submitted color-name answer against a dataset entry.
package answer

import (
	"strings"

	"github.com/abhisek/iroquiz/internal/dataset"
)

// Result is the outcome of grading one submission.
type Result struct {
	NameCorrect   bool
	SystemCorrect bool
	AllCorrect    bool
}

// Evaluate compares the submitted answer pair with the expected entry.
//
// Grading rules:
// - Both inputs are trimmed of surrounding whitespace
// - The color name is accepted when the entry's name contains the submitted
//   text (case-sensitive substring), so "赤" is accepted for "赤系"
// - An empty color name is never accepted
// - The system color name must match exactly (case-sensitive)
func Evaluate(q dataset.ColorEntry, name, system string) Result {
	name = strings.TrimSpace(name)
	system = strings.TrimSpace(system)

	nameOK := name != "" && strings.Contains(q.Name, name)
	systemOK := system == q.SystemColorName

	return Result{
		NameCorrect:   nameOK,
		SystemCorrect: systemOK,
		AllCorrect:    nameOK && systemOK,
	}
}

// Verdict summarizes a Result for display.
type Verdict int

const (
	VerdictWrong Verdict = iota
	VerdictNameOnly
	VerdictSystemOnly
	VerdictCorrect
)

// Verdict classifies the result.
func (r Result) Verdict() Verdict {
	switch {
	case r.AllCorrect:
		return VerdictCorrect
	case r.NameCorrect:
		return VerdictNameOnly
	case r.SystemCorrect:
		return VerdictSystemOnly
	default:
		return VerdictWrong
	}
}

// Title is the headline shown after an answer.
func (v Verdict) Title() string {
	switch v {
	case VerdictCorrect:
		return "Correct!"
	case VerdictNameOnly:
		return "So close! The system color name is off"
	case VerdictSystemOnly:
		return "So close! The color name is off"
	default:
		return "Not quite..."
	}
}

// Mark is the compact status used in the summary table.
func (v Verdict) Mark() string {
	switch v {
	case VerdictCorrect:
		return "◎"
	case VerdictNameOnly:
		return "name ◯"
	case VerdictSystemOnly:
		return "system ◯"
	default:
		return "✕"
	}
}

// Check renders a single field's correctness mark.
func Check(ok bool) string {
	if ok {
		return "◯"
	}
	return "✕"
}
