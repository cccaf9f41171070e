// Package controller drives the quiz screens. It owns the session and moves
// between the no-data, quiz, result and summary states in response to user
// requests, telling a Display what to render.
//
// All methods must be called from one goroutine (the UI event loop). Dataset
// loads run through the Executor and their results are applied back on the
// loop; a load superseded by a newer request is discarded.
package controller

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/abhisek/iroquiz/internal/dataset"
	"github.com/abhisek/iroquiz/internal/session"
)

// ScreenState is the screen the controller is showing.
type ScreenState int

const (
	StateNoData ScreenState = iota
	StateQuiz
	StateResult
	StateSummary
)

func (s ScreenState) String() string {
	switch s {
	case StateQuiz:
		return "quiz"
	case StateResult:
		return "result"
	case StateSummary:
		return "summary"
	default:
		return "no-data"
	}
}

// Advance labels.
const (
	LabelSeeResults   = "See results"
	LabelNextQuestion = "Next question"
)

// Confirmation prompts.
const (
	PromptDatasetChange = "Changing the dataset clears your current results. Continue?"
	PromptRestart       = "Start over? Your current results will be cleared."
)

// DefaultLoadTimeout bounds a single dataset load.
const DefaultLoadTimeout = 15 * time.Second

// AdvanceLabel is the advance action's label given the pool size when the
// result is shown.
func AdvanceLabel(remaining int) string {
	if remaining == 0 {
		return LabelSeeResults
	}
	return LabelNextQuestion
}

// Controller is the quiz state machine.
type Controller struct {
	display Display
	loader  Loader
	exec    Executor
	confirm Confirmer
	log     *slog.Logger

	sess         *session.Session
	ds           *dataset.Dataset
	state        ScreenState
	finished     bool
	advanceLabel string

	loadTimeout time.Duration
	loadGen     atomic.Uint64
	cancelLoad  context.CancelFunc
	loading     string
}

// Option configures a Controller.
type Option func(*Controller)

// WithExecutor sets how loads are run. The default runs them inline.
func WithExecutor(e Executor) Option {
	return func(c *Controller) {
		if e != nil {
			c.exec = e
		}
	}
}

// WithConfirmer sets the confirmation gate. The default accepts everything.
func WithConfirmer(cf Confirmer) Option {
	return func(c *Controller) {
		if cf != nil {
			c.confirm = cf
		}
	}
}

// WithSession supplies the session to drive.
func WithSession(s *session.Session) Option {
	return func(c *Controller) {
		if s != nil {
			c.sess = s
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// WithLoadTimeout bounds each load. Zero means no deadline.
func WithLoadTimeout(d time.Duration) Option {
	return func(c *Controller) { c.loadTimeout = d }
}

// New creates a controller in the no-data state.
func New(display Display, loader Loader, opts ...Option) *Controller {
	c := &Controller{
		display:     display,
		loader:      loader,
		exec:        SyncExecutor{},
		confirm:     AutoConfirm{},
		log:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		loadTimeout: DefaultLoadTimeout,
		state:       StateNoData,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.sess == nil {
		c.sess = session.New()
	}
	return c
}

// State returns the current screen state.
func (c *Controller) State() ScreenState { return c.state }

// Finished reports whether the pool ran out; return is disabled until the
// next restart or dataset change.
func (c *Controller) Finished() bool { return c.finished }

// Session exposes the session for read-only inspection.
func (c *Controller) Session() *session.Session { return c.sess }

// Dataset is the dataset currently being played, or nil.
func (c *Controller) Dataset() *dataset.Dataset { return c.ds }

// Loading returns the source of the in-flight load, or "".
func (c *Controller) Loading() string { return c.loading }

// CanReturn reports whether the summary may go back to the session.
func (c *Controller) CanReturn() bool {
	return !c.finished &&
		c.sess.Current() != nil &&
		len(c.sess.History()) < c.sess.DatasetSize()
}

// RequestDatasetChange loads source and starts a new game on it. If answers
// have been recorded the user is asked first.
func (c *Controller) RequestDatasetChange(source string) {
	source = strings.TrimSpace(source)
	if len(c.sess.History()) > 0 {
		c.confirm.Confirm(PromptDatasetChange, func() { c.startLoad(source) })
		return
	}
	c.startLoad(source)
}

func (c *Controller) startLoad(source string) {
	gen := c.loadGen.Add(1)
	if c.cancelLoad != nil {
		c.cancelLoad()
	}

	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if c.loadTimeout > 0 {
		ctx, cancel = context.WithTimeout(context.Background(), c.loadTimeout)
	} else {
		ctx, cancel = context.WithCancel(context.Background())
	}
	c.cancelLoad = cancel
	c.loading = source

	c.log.Info("dataset change requested", "source", source, "generation", gen)
	c.display.ShowLoading(source)

	loader := c.loader
	c.exec.Execute(func() func() {
		ds, err := loader.Load(ctx, source)
		return func() { c.finishLoad(gen, source, ds, err, cancel) }
	})
}

func (c *Controller) finishLoad(gen uint64, source string, ds *dataset.Dataset, err error, cancel context.CancelFunc) {
	cancel()
	if current := c.loadGen.Load(); gen != current {
		c.log.Debug("stale dataset load discarded", "source", source, "generation", gen, "current", current)
		return
	}
	c.cancelLoad = nil
	c.loading = ""

	if err != nil {
		c.log.Warn("dataset load failed", "source", source, "error", err)
		c.render()
		c.display.ShowLoadError(LoadErrorMessage(err))
		return
	}

	c.log.Info("dataset loaded", "source", source, "entries", ds.Len())
	c.ds = ds
	c.startGame()
}

// SubmitAnswer grades the answer to the current question and shows the
// result. Blank fields are rejected with a *ValidationError and the quiz
// screen stays up.
func (c *Controller) SubmitAnswer(name, system string) error {
	if c.state != StateQuiz {
		return ErrUnavailable
	}

	var verr *ValidationError
	switch {
	case strings.TrimSpace(name) == "":
		verr = &ValidationError{Field: FieldName}
	case strings.TrimSpace(system) == "":
		verr = &ValidationError{Field: FieldSystem}
	}
	if verr != nil {
		c.display.ShowValidationError(verr.Message())
		return verr
	}

	rec, err := c.sess.RecordAnswer(name, system)
	if err != nil {
		return err
	}
	c.log.Debug("answer recorded",
		"session_id", c.sess.ID(),
		"entry", rec.Question.ID,
		"name_correct", rec.Result.NameCorrect,
		"system_correct", rec.Result.SystemCorrect,
	)

	c.advanceLabel = AdvanceLabel(c.sess.Remaining())
	c.state = StateResult
	c.render()
	return nil
}

// Advance moves from the result to the next question, or to the finished
// summary when the pool is empty.
func (c *Controller) Advance() {
	if c.state != StateResult {
		return
	}
	c.nextQuestion()
}

// RequestSummary shows the summary mid-session.
func (c *Controller) RequestSummary() {
	if c.state != StateQuiz && c.state != StateResult {
		return
	}
	if c.sess.Remaining() == 0 && c.sess.Answered() {
		c.finished = true
	}
	c.state = StateSummary
	c.render()
}

// RequestReturn goes back from the summary to the result of the question
// just answered, or to the unanswered current question.
func (c *Controller) RequestReturn() {
	if c.state != StateSummary || !c.CanReturn() {
		return
	}
	cur := c.sess.Current()
	if last, ok := c.sess.LastRecord(); ok && last.Question.ID == cur.ID {
		c.state = StateResult
	} else {
		c.state = StateQuiz
	}
	c.render()
}

// RequestRestart starts a new game on the same dataset after confirmation.
func (c *Controller) RequestRestart() {
	if c.ds == nil {
		return
	}
	c.confirm.Confirm(PromptRestart, func() {
		if c.ds == nil {
			return
		}
		c.log.Info("session restarted", "source", c.ds.Source, "previous_session_id", c.sess.ID())
		c.startGame()
	})
}

func (c *Controller) startGame() {
	c.sess.Start(c.ds)
	c.finished = false
	c.advanceLabel = ""
	c.log.Info("session started", "session_id", c.sess.ID(), "source", c.ds.Source, "entries", c.ds.Len())
	c.nextQuestion()
}

func (c *Controller) nextQuestion() {
	if _, ok := c.sess.DrawNext(); !ok {
		c.finished = true
		c.state = StateSummary
		c.log.Info("session finished", "session_id", c.sess.ID(), "answered", len(c.sess.History()))
		c.render()
		return
	}
	c.state = StateQuiz
	c.render()
}

// render redraws the current state.
func (c *Controller) render() {
	switch c.state {
	case StateQuiz:
		c.display.RenderQuestion(c.questionView())
	case StateResult:
		if rec, ok := c.sess.LastRecord(); ok {
			c.display.RenderResult(rec, c.advanceLabel)
		}
	case StateSummary:
		c.display.RenderSummary(c.summaryView())
	}
}

func (c *Controller) questionView() QuestionView {
	cur := c.sess.Current()
	if cur == nil {
		return QuestionView{}
	}
	return QuestionView{
		Text:      cur.Description,
		Remaining: c.sess.Remaining() + 1,
		Index:     len(c.sess.History()) + 1,
		Total:     c.sess.DatasetSize(),
	}
}

func (c *Controller) summaryView() SummaryView {
	sum := c.sess.Summary()
	return SummaryView{
		Correct:   sum.Correct,
		Total:     sum.Total,
		Records:   sum.Records,
		CanReturn: c.CanReturn(),
		Finished:  c.finished,
	}
}
