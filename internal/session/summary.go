package session

import (
	"time"

	"github.com/abhisek/iroquiz/internal/answer"
)

// Summary holds the data displayed on the summary screen.
type Summary struct {
	Correct  int
	Total    int
	Accuracy float64
	Duration time.Duration
	Records  []AnswerRecord
	Verdicts map[answer.Verdict]int
}

// Summary aggregates the history. Correct counts fully correct records.
func (s *Session) Summary() Summary {
	sum := Summary{
		Total:    len(s.history),
		Records:  s.History(),
		Verdicts: make(map[answer.Verdict]int),
	}
	for _, r := range s.history {
		if r.Result.AllCorrect {
			sum.Correct++
		}
		sum.Verdicts[r.Result.Verdict()]++
	}
	if sum.Total > 0 {
		sum.Accuracy = float64(sum.Correct) / float64(sum.Total)
	}
	if !s.startedAt.IsZero() {
		sum.Duration = s.now().Sub(s.startedAt)
	}
	return sum
}
