// Package session holds the state of one quiz run: the master entries, the
// pool of questions not yet asked, the current question and the answer history.
package session

import (
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/iroquiz/internal/answer"
	"github.com/abhisek/iroquiz/internal/dataset"
)

// Session tracks a single pass over a dataset. Questions are drawn without
// replacement; Remaining()+len(History()) equals DatasetSize() once every
// drawn question has been answered.
type Session struct {
	id        string
	source    string
	master    []dataset.ColorEntry
	pool      []dataset.ColorEntry
	current   *dataset.ColorEntry
	answered  bool
	history   []AnswerRecord
	startedAt time.Time

	pick func(n int) int
	now  func() time.Time
}

// New creates an idle session. Call Start before drawing.
func New(opts ...Option) *Session {
	s := &Session{
		pick: rand.IntN,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start begins a new game on ds. The pool is a fresh copy of the entries,
// the history is cleared and no question is current.
func (s *Session) Start(ds *dataset.Dataset) {
	var entries []dataset.ColorEntry
	if ds != nil {
		entries = ds.Entries
		s.source = ds.Source
	} else {
		s.source = ""
	}

	s.master = entries
	s.pool = make([]dataset.ColorEntry, len(entries))
	copy(s.pool, entries)
	s.current = nil
	s.answered = false
	s.history = nil
	s.id = uuid.New().String()
	s.startedAt = s.now()
}

// DrawNext picks a uniformly random entry from the pool, removes it and makes
// it the current question. It returns false when the pool is empty, leaving
// the current question unchanged.
func (s *Session) DrawNext() (dataset.ColorEntry, bool) {
	if len(s.pool) == 0 {
		return dataset.ColorEntry{}, false
	}

	i := s.pick(len(s.pool))
	if i < 0 || i >= len(s.pool) {
		i = 0
	}
	q := s.pool[i]

	s.pool = append(s.pool[:i], s.pool[i+1:]...)

	s.current = &q
	s.answered = false
	return q, true
}

// RecordAnswer grades the submission against the current question and
// appends it to the history.
func (s *Session) RecordAnswer(name, system string) (AnswerRecord, error) {
	if s.current == nil {
		return AnswerRecord{}, ErrNoQuestion
	}
	if s.answered {
		return AnswerRecord{}, ErrAlreadyAnswered
	}

	name = strings.TrimSpace(name)
	system = strings.TrimSpace(system)

	rec := AnswerRecord{
		Question:        *s.current,
		SubmittedName:   name,
		SubmittedSystem: system,
		Result:          answer.Evaluate(*s.current, name, system),
		AnsweredAt:      s.now(),
	}
	s.history = append(s.history, rec)
	s.answered = true
	return rec, nil
}

// Remaining is the number of entries not yet drawn.
func (s *Session) Remaining() int { return len(s.pool) }

// Current returns the current question, or nil before the first draw.
func (s *Session) Current() *dataset.ColorEntry {
	if s.current == nil {
		return nil
	}
	q := *s.current
	return &q
}

// Answered reports whether the current question already has a record.
func (s *Session) Answered() bool { return s.answered }

// History returns a copy of the answer records in submission order.
func (s *Session) History() []AnswerRecord {
	out := make([]AnswerRecord, len(s.history))
	copy(out, s.history)
	return out
}

// LastRecord returns the most recent answer record.
func (s *Session) LastRecord() (AnswerRecord, bool) {
	if len(s.history) == 0 {
		return AnswerRecord{}, false
	}
	return s.history[len(s.history)-1], true
}

// Master returns the entries the session was started with.
func (s *Session) Master() []dataset.ColorEntry { return s.master }

// DatasetSize is the number of entries in the master dataset.
func (s *Session) DatasetSize() int { return len(s.master) }

// Source is the dataset source the session was started with.
func (s *Session) Source() string { return s.source }

// ID is regenerated on every Start.
func (s *Session) ID() string { return s.id }

// StartedAt is when the current game began.
func (s *Session) StartedAt() time.Time { return s.startedAt }

// Phase derives the cycle phase from the current state.
func (s *Session) Phase() Phase {
	switch {
	case s.id == "":
		return PhaseIdle
	case s.current != nil && !s.answered:
		return PhaseAsking
	case len(s.pool) == 0 && (s.current == nil || s.answered):
		return PhaseDrained
	case s.current != nil:
		return PhaseAnswered
	default:
		return PhaseIdle
	}
}
