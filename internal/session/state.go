package session

import (
	"errors"
	"time"

	"github.com/abhisek/iroquiz/internal/answer"
	"github.com/abhisek/iroquiz/internal/dataset"
)

var (
	// ErrNoQuestion is returned when an answer is recorded before a question was drawn.
	ErrNoQuestion = errors.New("session: no current question")

	// ErrAlreadyAnswered is returned when the current question already has a record.
	ErrAlreadyAnswered = errors.New("session: current question already answered")
)

// Phase represents where the session is in its draw/answer cycle.
type Phase int

const (
	PhaseIdle     Phase = iota // No dataset started yet
	PhaseAsking                // A question is current and unanswered
	PhaseAnswered              // The current question has a record
	PhaseDrained               // The pool is empty and nothing is pending
)

func (p Phase) String() string {
	switch p {
	case PhaseAsking:
		return "asking"
	case PhaseAnswered:
		return "answered"
	case PhaseDrained:
		return "drained"
	default:
		return "idle"
	}
}

// AnswerRecord is one graded submission. Records are never mutated once
// appended to the history.
type AnswerRecord struct {
	Question        dataset.ColorEntry
	SubmittedName   string
	SubmittedSystem string
	Result          answer.Result
	AnsweredAt      time.Time
}

// Option configures a Session.
type Option func(*Session)

// WithPicker replaces the random index source. pick(n) must return a value
// in [0, n).
func WithPicker(pick func(n int) int) Option {
	return func(s *Session) {
		if pick != nil {
			s.pick = pick
		}
	}
}

// WithClock sets the time source used for record and start timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}
