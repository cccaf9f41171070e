package controller

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/iroquiz/internal/dataset"
	"github.com/abhisek/iroquiz/internal/session"
)

// fakeDisplay records every call the controller makes.
type fakeDisplay struct {
	calls      []string
	loading    string
	loadErr    string
	validation string
	question   QuestionView
	result     session.AnswerRecord
	label      string
	summary    SummaryView
}

func (d *fakeDisplay) ShowLoading(source string) {
	d.calls = append(d.calls, "loading")
	d.loading = source
}

func (d *fakeDisplay) ShowLoadError(msg string) {
	d.calls = append(d.calls, "load-error")
	d.loadErr = msg
}

func (d *fakeDisplay) RenderQuestion(v QuestionView) {
	d.calls = append(d.calls, "question")
	d.question = v
}

func (d *fakeDisplay) RenderResult(rec session.AnswerRecord, label string) {
	d.calls = append(d.calls, "result")
	d.result = rec
	d.label = label
}

func (d *fakeDisplay) RenderSummary(v SummaryView) {
	d.calls = append(d.calls, "summary")
	d.summary = v
}

func (d *fakeDisplay) ShowValidationError(msg string) {
	d.calls = append(d.calls, "validation")
	d.validation = msg
}

func (d *fakeDisplay) last() string {
	if len(d.calls) == 0 {
		return ""
	}
	return d.calls[len(d.calls)-1]
}

// fakeLoader serves canned datasets and errors by source.
type fakeLoader struct {
	datasets map[string]*dataset.Dataset
	errs     map[string]error
}

func (l *fakeLoader) Load(ctx context.Context, source string) (*dataset.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := l.errs[source]; ok {
		return nil, err
	}
	if ds, ok := l.datasets[source]; ok {
		return ds, nil
	}
	return nil, &dataset.LoadError{Source: source, Kind: dataset.KindTransport}
}

// queueExecutor holds tasks until flushed, so tests control completion order.
type queueExecutor struct {
	tasks []func() func()
}

func (q *queueExecutor) Execute(task func() func()) { q.tasks = append(q.tasks, task) }

func (q *queueExecutor) run(i int) {
	if then := q.tasks[i](); then != nil {
		then()
	}
}

// scriptedConfirm answers prompts with a fixed decision and records them.
type scriptedConfirm struct {
	accept  bool
	prompts []string
}

func (s *scriptedConfirm) Confirm(prompt string, proceed func()) {
	s.prompts = append(s.prompts, prompt)
	if s.accept {
		proceed()
	}
}

func colors(source string, names ...string) *dataset.Dataset {
	ds := &dataset.Dataset{Source: source}
	for i, n := range names {
		ds.Entries = append(ds.Entries, dataset.ColorEntry{
			ID:              i,
			Name:            n,
			SystemColorName: "sys-" + n,
			RGB:             "#112233",
			Description:     "desc-" + n,
		})
	}
	return ds
}

func newTestController(t *testing.T, opts ...Option) (*Controller, *fakeDisplay, *fakeLoader) {
	t.Helper()
	d := &fakeDisplay{}
	l := &fakeLoader{
		datasets: map[string]*dataset.Dataset{
			"three.json": colors("three.json", "赤", "青", "黄"),
			"two.json":   colors("two.json", "白", "黒"),
		},
		errs: map[string]error{},
	}
	sess := session.New(session.WithPicker(func(int) int { return 0 }))
	opts = append([]Option{WithSession(sess)}, opts...)
	return New(d, l, opts...), d, l
}

func TestThreeEntryRun(t *testing.T) {
	c, d, _ := newTestController(t)
	assert.Equal(t, StateNoData, c.State())

	c.RequestDatasetChange("three.json")
	require.Equal(t, StateQuiz, c.State())
	assert.Equal(t, []string{"loading", "question"}, d.calls)
	assert.Equal(t, QuestionView{Text: "desc-赤", Remaining: 3, Index: 1, Total: 3}, d.question)

	answers := [][2]string{{"赤", "sys-赤"}, {"青", "wrong"}, {"x", "sys-黄"}}
	labels := []string{LabelNextQuestion, LabelNextQuestion, LabelSeeResults}
	for i, a := range answers {
		require.NoError(t, c.SubmitAnswer(a[0], a[1]))
		require.Equal(t, StateResult, c.State())
		assert.Equal(t, labels[i], d.label)
		c.Advance()
	}

	assert.Equal(t, StateSummary, c.State())
	assert.True(t, c.Finished())
	assert.Equal(t, 3, d.summary.Total)
	assert.Equal(t, 1, d.summary.Correct)
	assert.True(t, d.summary.Finished)
	assert.False(t, d.summary.CanReturn)

	// Return is suppressed once finished.
	c.RequestReturn()
	assert.Equal(t, StateSummary, c.State())
}

func TestSubmitAnswer_BlankField(t *testing.T) {
	c, d, _ := newTestController(t)
	c.RequestDatasetChange("three.json")

	err := c.SubmitAnswer("   ", "sys-赤")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, FieldName, verr.Field)
	assert.ErrorIs(t, err, ErrBlankField)
	assert.Equal(t, StateQuiz, c.State())
	assert.Equal(t, "validation", d.last())
	assert.Empty(t, c.Session().History())

	err = c.SubmitAnswer("赤", "")
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, FieldSystem, verr.Field)
	assert.Empty(t, c.Session().History())
}

func TestSubmitAnswer_WrongState(t *testing.T) {
	c, _, _ := newTestController(t)
	assert.ErrorIs(t, c.SubmitAnswer("a", "b"), ErrUnavailable)

	c.RequestDatasetChange("three.json")
	require.NoError(t, c.SubmitAnswer("赤", "sys-赤"))
	assert.ErrorIs(t, c.SubmitAnswer("赤", "sys-赤"), ErrUnavailable)
	assert.Len(t, c.Session().History(), 1)
}

func TestReturnFromSummary(t *testing.T) {
	c, d, _ := newTestController(t)
	c.RequestDatasetChange("three.json")

	// Mid-question: summary then return lands on the quiz.
	c.RequestSummary()
	require.Equal(t, StateSummary, c.State())
	assert.True(t, d.summary.CanReturn)
	assert.False(t, d.summary.Finished)
	c.RequestReturn()
	assert.Equal(t, StateQuiz, c.State())
	assert.Equal(t, "question", d.last())

	// After answering: summary then return lands on the result.
	require.NoError(t, c.SubmitAnswer("赤", "sys-赤"))
	c.RequestSummary()
	c.RequestReturn()
	assert.Equal(t, StateResult, c.State())
	assert.Equal(t, "result", d.last())
	assert.Equal(t, LabelNextQuestion, d.label)
}

func TestSummaryAfterLastAnswerIsFinished(t *testing.T) {
	c, d, _ := newTestController(t)
	c.RequestDatasetChange("two.json")
	require.NoError(t, c.SubmitAnswer("白", "sys-白"))
	c.Advance()
	require.NoError(t, c.SubmitAnswer("黒", "sys-黒"))

	c.RequestSummary()
	assert.True(t, d.summary.Finished)
	assert.False(t, d.summary.CanReturn)
	c.RequestReturn()
	assert.Equal(t, StateSummary, c.State())
}

func TestSummaryOnLastUnansweredQuestionCanReturn(t *testing.T) {
	c, d, _ := newTestController(t)
	c.RequestDatasetChange("two.json")
	require.NoError(t, c.SubmitAnswer("白", "sys-白"))
	c.Advance()
	require.Equal(t, 0, c.Session().Remaining(), "last question drawn")

	// The pool is empty but the question is still open, so the summary is
	// not final.
	c.RequestSummary()
	assert.False(t, c.Finished())
	assert.False(t, d.summary.Finished)
	assert.True(t, d.summary.CanReturn)

	c.RequestReturn()
	require.Equal(t, StateQuiz, c.State())
	assert.Equal(t, "desc-黒", d.question.Text)

	require.NoError(t, c.SubmitAnswer("黒", "sys-黒"))
	c.RequestSummary()
	assert.True(t, d.summary.Finished)
}

func TestRestart(t *testing.T) {
	confirm := &scriptedConfirm{}
	c, d, _ := newTestController(t, WithConfirmer(confirm))
	c.RequestDatasetChange("three.json")
	require.NoError(t, c.SubmitAnswer("赤", "sys-赤"))
	c.RequestSummary()
	firstID := c.Session().ID()

	// Declined: nothing changes.
	c.RequestRestart()
	assert.Equal(t, []string{PromptRestart}, confirm.prompts)
	assert.Equal(t, StateSummary, c.State())
	assert.Len(t, c.Session().History(), 1)

	// Accepted: fresh game on the same dataset.
	confirm.accept = true
	c.RequestRestart()
	assert.Equal(t, StateQuiz, c.State())
	assert.Empty(t, c.Session().History())
	assert.Equal(t, 2, c.Session().Remaining())
	assert.NotEqual(t, firstID, c.Session().ID())
	assert.Equal(t, 3, d.question.Remaining)
	assert.False(t, c.Finished())
}

func TestRestart_NoData(t *testing.T) {
	confirm := &scriptedConfirm{accept: true}
	c, _, _ := newTestController(t, WithConfirmer(confirm))
	c.RequestRestart()
	assert.Empty(t, confirm.prompts)
	assert.Equal(t, StateNoData, c.State())
}

func TestDatasetChange_ConfirmsWhenHistoryExists(t *testing.T) {
	confirm := &scriptedConfirm{}
	c, _, _ := newTestController(t, WithConfirmer(confirm))

	c.RequestDatasetChange("three.json")
	assert.Empty(t, confirm.prompts, "no prompt without history")

	require.NoError(t, c.SubmitAnswer("赤", "sys-赤"))
	c.RequestDatasetChange("two.json")
	assert.Equal(t, []string{PromptDatasetChange}, confirm.prompts)
	assert.Equal(t, "three.json", c.Dataset().Source, "declined change keeps dataset")
	assert.Equal(t, StateResult, c.State())

	confirm.accept = true
	c.RequestDatasetChange("two.json")
	assert.Equal(t, "two.json", c.Dataset().Source)
	assert.Equal(t, StateQuiz, c.State())
	assert.Empty(t, c.Session().History())
}

func TestDatasetChange_FailureKeepsPriorSession(t *testing.T) {
	c, d, l := newTestController(t)
	l.errs["broken.json"] = &dataset.LoadError{Source: "broken.json", Kind: dataset.KindEmpty}

	c.RequestDatasetChange("three.json")
	require.NoError(t, c.SubmitAnswer("赤", "sys-赤"))

	c.RequestDatasetChange("broken.json")
	assert.Equal(t, "load-error", d.last())
	assert.Equal(t, LoadErrorMessage(l.errs["broken.json"]), d.loadErr)
	assert.Equal(t, StateResult, c.State())
	assert.Equal(t, "three.json", c.Dataset().Source)
	assert.Len(t, c.Session().History(), 1)
	assert.Equal(t, 2, c.Session().Remaining())
}

func TestInitialLoadFailure_StaysNoData(t *testing.T) {
	c, d, _ := newTestController(t)
	c.RequestDatasetChange("missing.json")
	assert.Equal(t, StateNoData, c.State())
	assert.Equal(t, []string{"loading", "load-error"}, d.calls)
	assert.Nil(t, c.Dataset())

	// Recovers on retry.
	c.RequestDatasetChange("two.json")
	assert.Equal(t, StateQuiz, c.State())
}

func TestStaleLoadDiscarded(t *testing.T) {
	exec := &queueExecutor{}
	c, d, _ := newTestController(t, WithExecutor(exec))

	c.RequestDatasetChange("three.json")
	c.RequestDatasetChange("two.json")
	assert.Equal(t, "two.json", c.Loading())
	require.Len(t, exec.tasks, 2)

	// The newer load completes first.
	exec.run(1)
	require.Equal(t, "two.json", c.Dataset().Source)
	callsAfterNewer := len(d.calls)

	// The older one was cancelled; whatever it returns is dropped.
	exec.run(0)
	assert.Equal(t, "two.json", c.Dataset().Source)
	assert.Equal(t, callsAfterNewer, len(d.calls))
	assert.Equal(t, "", c.Loading())
}

// loopExecutor runs tasks on goroutines and hands their continuations back
// to the test goroutine, the way the terminal event loop does.
type loopExecutor struct {
	done chan func()
}

func (e *loopExecutor) Execute(task func() func()) {
	go func() { e.done <- task() }()
}

func (e *loopExecutor) drain(n int) {
	for i := 0; i < n; i++ {
		if then := <-e.done; then != nil {
			then()
		}
	}
}

func TestDatasetChange_SameSourceWhileLoading(t *testing.T) {
	started, release := make(chan struct{}), make(chan struct{})
	var once sync.Once
	slow := dataset.FetcherFunc(func(ctx context.Context, _ string) ([]dataset.Record, error) {
		once.Do(func() { close(started) })
		select {
		case <-release:
			return []dataset.Record{{
				"name": "藍色", "systemcolorname": "暗い青", "munsell": "2PB 3/5",
				"rgb": "#0D5661", "description": "藍で染めた色",
			}}, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	})
	loader := dataset.NewLoader(dataset.WithFetcher("slow", slow))
	exec := &loopExecutor{done: make(chan func(), 2)}
	d := &fakeDisplay{}
	c := New(d, loader, WithExecutor(exec))

	c.RequestDatasetChange("slow:a")
	<-started
	c.RequestDatasetChange("slow:a")
	close(release)
	exec.drain(2)

	require.Equal(t, StateQuiz, c.State())
	assert.Empty(t, d.loadErr)
	assert.Equal(t, "slow:a", c.Dataset().Source)
	assert.Equal(t, "藍で染めた色", d.question.Text)
}

func TestStaleLoadDiscarded_OldSuccessAfterNewFailure(t *testing.T) {
	exec := &queueExecutor{}
	c, d, _ := newTestController(t, WithExecutor(exec))

	c.RequestDatasetChange("three.json")
	c.RequestDatasetChange("missing.json")

	exec.run(1)
	assert.Equal(t, "load-error", d.last())
	assert.Equal(t, StateNoData, c.State())

	exec.run(0)
	assert.Equal(t, StateNoData, c.State())
	assert.Nil(t, c.Dataset())
}

func TestAdvanceLabel(t *testing.T) {
	assert.Equal(t, LabelSeeResults, AdvanceLabel(0))
	assert.Equal(t, LabelNextQuestion, AdvanceLabel(1))
	assert.Equal(t, LabelNextQuestion, AdvanceLabel(42))
}

func TestLoadErrorMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&dataset.LoadError{Kind: dataset.KindEmpty}, "The dataset has no playable colors."},
		{&dataset.LoadError{Kind: dataset.KindMalformed}, "The dataset is not a list of color records."},
		{&dataset.LoadError{Kind: dataset.KindTransport}, "Could not load the dataset. Check the source and try again."},
		{errors.New("boom"), "Could not load the dataset. Check the source and try again."},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LoadErrorMessage(tt.err))
	}
}
