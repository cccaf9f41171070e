// Package quiz is the terminal front end of the quiz controller. The screen
// is the controller's Display, Executor and Confirmer: loads run as Bubble Tea
// commands and confirmations are shown as an inline y/n dialog.
package quiz

import (
	"errors"
	"fmt"
	"log/slog"
	"path"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/iroquiz/internal/controller"
	"github.com/abhisek/iroquiz/internal/router"
	"github.com/abhisek/iroquiz/internal/screen"
	"github.com/abhisek/iroquiz/internal/screens/datasets"
	"github.com/abhisek/iroquiz/internal/session"
	"github.com/abhisek/iroquiz/internal/ui/components"
	"github.com/abhisek/iroquiz/internal/ui/layout"
)

// Options wires the screen to its collaborators.
type Options struct {
	Loader      controller.Loader
	Lister      datasets.Lister
	StartSource string
	Logger      *slog.Logger
	LoadTimeout time.Duration
	Session     *session.Session

	// Executor overrides the screen's own command-based executor.
	Executor controller.Executor
}

// QuizScreen implements screen.Screen for the quiz.
type QuizScreen struct {
	ctrl    *controller.Controller
	lister  datasets.Lister
	start   string
	pending []tea.Cmd

	mode         mode
	errMsg       string
	validation   string
	question     controller.QuestionView
	record       session.AnswerRecord
	advanceLabel string
	summary      controller.SummaryView
	confirm      *pendingConfirm

	name   components.TextInput
	system components.TextInput
	focus  int
}

var (
	_ screen.Screen          = (*QuizScreen)(nil)
	_ screen.KeyHintProvider = (*QuizScreen)(nil)
	_ screen.StatusProvider  = (*QuizScreen)(nil)
	_ controller.Display     = (*QuizScreen)(nil)
	_ controller.Executor    = (*QuizScreen)(nil)
	_ controller.Confirmer   = (*QuizScreen)(nil)
)

// New creates the quiz screen. The start source, if any, is loaded on Init.
func New(opts Options) *QuizScreen {
	s := &QuizScreen{
		lister: opts.Lister,
		start:  opts.StartSource,
		name:   components.NewTextInput("Color name", "e.g. 藍色", 64),
		system: components.NewTextInput("System color name", "e.g. 暗い青", 64),
	}

	var exec controller.Executor = s
	if opts.Executor != nil {
		exec = opts.Executor
	}
	copts := []controller.Option{
		controller.WithExecutor(exec),
		controller.WithConfirmer(s),
		controller.WithLogger(opts.Logger),
		controller.WithSession(opts.Session),
	}
	if opts.LoadTimeout > 0 {
		copts = append(copts, controller.WithLoadTimeout(opts.LoadTimeout))
	}
	s.ctrl = controller.New(s, opts.Loader, copts...)
	return s
}

// Controller exposes the underlying controller.
func (s *QuizScreen) Controller() *controller.Controller { return s.ctrl }

func (s *QuizScreen) Init() tea.Cmd {
	if s.start != "" {
		s.ctrl.RequestDatasetChange(s.start)
	}
	return s.flush()
}

func (s *QuizScreen) Title() string {
	switch s.mode {
	case modeQuestion:
		return "Quiz"
	case modeResult:
		return "Result"
	case modeSummary:
		return "Summary"
	default:
		return "Welcome"
	}
}

func (s *QuizScreen) Status() string {
	ds := s.ctrl.Dataset()
	if ds == nil {
		return ""
	}
	sum := s.ctrl.Session().Summary()
	return fmt.Sprintf("%s  ◎ %d/%d", sourceLabel(ds.Source), sum.Correct, sum.Total)
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	if s.confirm != nil {
		return []layout.KeyHint{
			{Key: "Y", Description: "Yes"},
			{Key: "N", Description: "No"},
		}
	}
	switch s.mode {
	case modeQuestion:
		return []layout.KeyHint{
			{Key: "Tab", Description: "Switch field"},
			{Key: "Enter", Description: "Answer"},
			{Key: "^S", Description: "Summary"},
			{Key: "^R", Description: "Restart"},
			{Key: "^O", Description: "Datasets"},
		}
	case modeResult:
		return []layout.KeyHint{
			{Key: "Enter", Description: s.advanceLabel},
			{Key: "S", Description: "Summary"},
			{Key: "R", Description: "Restart"},
			{Key: "D", Description: "Datasets"},
		}
	case modeSummary:
		hints := []layout.KeyHint{}
		if s.summary.CanReturn {
			hints = append(hints, layout.KeyHint{Key: "B", Description: "Back to quiz"})
		}
		return append(hints,
			layout.KeyHint{Key: "R", Description: "Restart"},
			layout.KeyHint{Key: "D", Description: "Datasets"},
		)
	default:
		return []layout.KeyHint{
			{Key: "D", Description: "Choose dataset"},
			{Key: "R", Description: "Retry"},
		}
	}
}

// Execute runs task as a command and applies its continuation on the
// event loop.
func (s *QuizScreen) Execute(task func() func()) {
	s.pending = append(s.pending, func() tea.Msg {
		return continueMsg{then: task()}
	})
}

// Confirm shows a y/n dialog; proceed runs on yes.
func (s *QuizScreen) Confirm(prompt string, proceed func()) {
	s.confirm = &pendingConfirm{prompt: prompt, proceed: proceed}
}

func (s *QuizScreen) ShowLoading(string) {
	s.errMsg = ""
}

func (s *QuizScreen) ShowLoadError(msg string) {
	s.errMsg = msg
}

func (s *QuizScreen) RenderQuestion(v controller.QuestionView) {
	fresh := s.mode == modeResult || s.mode == modeNoData || v != s.question
	s.mode = modeQuestion
	s.question = v
	s.errMsg = ""
	s.validation = ""
	if fresh {
		s.name.Reset()
		s.system.Reset()
		s.focus = focusName
	}
	s.pending = append(s.pending, s.applyFocus())
}

func (s *QuizScreen) RenderResult(rec session.AnswerRecord, advanceLabel string) {
	s.mode = modeResult
	s.record = rec
	s.advanceLabel = advanceLabel
	s.errMsg = ""
	s.validation = ""
	s.name.Blur()
	s.system.Blur()
}

func (s *QuizScreen) RenderSummary(v controller.SummaryView) {
	s.mode = modeSummary
	s.summary = v
	s.errMsg = ""
	s.name.Blur()
	s.system.Blur()
}

func (s *QuizScreen) ShowValidationError(msg string) {
	s.validation = msg
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case continueMsg:
		if msg.then != nil {
			msg.then()
		}
		return s, s.flush()

	case datasets.SelectedMsg:
		s.ctrl.RequestDatasetChange(msg.Source)
		return s, s.flush()

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}

	if s.mode == modeQuestion && s.confirm == nil {
		return s, s.updateFocused(msg)
	}
	return s, nil
}

func (s *QuizScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.confirm != nil {
		switch key {
		case "y", "Y", "enter":
			c := s.confirm
			s.confirm = nil
			c.proceed()
			return s, s.flush()
		case "n", "N", "esc":
			s.confirm = nil
		}
		return s, nil
	}

	switch key {
	case "ctrl+s":
		s.ctrl.RequestSummary()
		return s, s.flush()
	case "ctrl+r":
		s.ctrl.RequestRestart()
		return s, s.flush()
	case "ctrl+o":
		return s, s.openPicker()
	}

	switch s.mode {
	case modeQuestion:
		return s.handleQuestionKey(msg)

	case modeResult:
		switch key {
		case "enter", "space", "n":
			s.ctrl.Advance()
		case "s":
			s.ctrl.RequestSummary()
		case "r":
			s.ctrl.RequestRestart()
		case "d":
			return s, s.openPicker()
		}

	case modeSummary:
		switch key {
		case "b", "enter":
			s.ctrl.RequestReturn()
		case "r":
			s.ctrl.RequestRestart()
		case "d":
			return s, s.openPicker()
		}

	default:
		switch key {
		case "d", "enter":
			return s, s.openPicker()
		case "r":
			if s.start != "" && s.ctrl.Loading() == "" {
				s.ctrl.RequestDatasetChange(s.start)
			}
		}
	}
	return s, s.flush()
}

func (s *QuizScreen) handleQuestionKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab", "up", "down":
		s.focus = 1 - s.focus
		return s, s.applyFocus()

	case "enter":
		if s.focus == focusName && s.system.Value() == "" && s.name.Value() != "" {
			s.focus = focusSystem
			return s, s.applyFocus()
		}
		err := s.ctrl.SubmitAnswer(s.name.Value(), s.system.Value())
		var verr *controller.ValidationError
		if errors.As(err, &verr) {
			if verr.Field == controller.FieldName {
				s.focus = focusName
			} else {
				s.focus = focusSystem
			}
			return s, tea.Batch(s.applyFocus(), s.flush())
		}
		return s, s.flush()
	}

	return s, s.updateFocused(msg)
}

func (s *QuizScreen) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if s.focus == focusName {
		s.name, cmd = s.name.Update(msg)
	} else {
		s.system, cmd = s.system.Update(msg)
	}
	return cmd
}

func (s *QuizScreen) applyFocus() tea.Cmd {
	if s.focus == focusName {
		s.system.Blur()
		return s.name.Focus()
	}
	s.name.Blur()
	return s.system.Focus()
}

func (s *QuizScreen) openPicker() tea.Cmd {
	current := ""
	if ds := s.ctrl.Dataset(); ds != nil {
		current = ds.Source
	}
	return router.Push(datasets.New(s.lister, current))
}

// flush batches extra with any commands queued by the Executor.
func (s *QuizScreen) flush(extra ...tea.Cmd) tea.Cmd {
	cmds := append(extra, s.pending...)
	s.pending = nil
	return tea.Batch(cmds...)
}

// sourceLabel shortens a source for the header.
func sourceLabel(source string) string {
	base := path.Base(source)
	if base == "." || base == "/" || base == "" {
		return source
	}
	return base
}
