package controller

import (
	"context"

	"github.com/abhisek/iroquiz/internal/dataset"
	"github.com/abhisek/iroquiz/internal/session"
)

// Display is implemented by the front end. The controller calls it to
// render whatever state it has just entered.
type Display interface {
	ShowLoading(source string)
	ShowLoadError(msg string)
	RenderQuestion(v QuestionView)
	RenderResult(rec session.AnswerRecord, advanceLabel string)
	RenderSummary(v SummaryView)
	ShowValidationError(msg string)
}

// Loader fetches and filters a dataset.
type Loader interface {
	Load(ctx context.Context, source string) (*dataset.Dataset, error)
}

// Executor runs task away from the caller and then invokes the function
// task returns on the caller's event loop. A nil continuation is skipped.
type Executor interface {
	Execute(task func() func())
}

// Confirmer gates destructive actions. proceed is called only if the user
// accepts; it may be called later, from the event loop.
type Confirmer interface {
	Confirm(prompt string, proceed func())
}

// QuestionView is what the quiz screen shows for the current question.
type QuestionView struct {
	Text      string // the entry's description
	Remaining int    // questions left, counting this one
	Index     int    // 1-based position in this run
	Total     int    // dataset size
}

// SummaryView is what the summary screen shows.
type SummaryView struct {
	Correct   int
	Total     int
	Records   []session.AnswerRecord
	CanReturn bool
	Finished  bool
}

// SyncExecutor runs the task and its continuation inline.
type SyncExecutor struct{}

func (SyncExecutor) Execute(task func() func()) {
	if then := task(); then != nil {
		then()
	}
}

// AutoConfirm accepts every prompt.
type AutoConfirm struct{}

func (AutoConfirm) Confirm(_ string, proceed func()) { proceed() }
