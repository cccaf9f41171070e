package quiz

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/iroquiz/internal/answer"
	"github.com/abhisek/iroquiz/internal/controller"
	"github.com/abhisek/iroquiz/internal/ui/components"
	"github.com/abhisek/iroquiz/internal/ui/layout"
	"github.com/abhisek/iroquiz/internal/ui/theme"
)

const maxContentWidth = 76

func (s *QuizScreen) View(width, height int) string {
	var b strings.Builder

	if src := s.ctrl.Loading(); src != "" {
		b.WriteString(layout.Center(width, theme.Hint.Render(fmt.Sprintf("Loading %s...", src))))
		b.WriteString("\n")
	}
	if s.errMsg != "" {
		b.WriteString(layout.Center(width, theme.Incorrect.Render(s.errMsg)))
		b.WriteString("\n")
	}

	switch {
	case s.confirm != nil:
		b.WriteString(renderConfirm(width, s.confirm.prompt))
	case s.mode == modeQuestion:
		b.WriteString(s.renderQuestion(width))
	case s.mode == modeResult:
		b.WriteString(s.renderResult(width))
	case s.mode == modeSummary:
		b.WriteString(s.renderSummary(width, height))
	default:
		b.WriteString(s.renderNoData(width))
	}
	return b.String()
}

func contentWidth(width int) int {
	return max(min(width-4, maxContentWidth), 20)
}

func (s *QuizScreen) renderNoData(width int) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(layout.Center(width, renderBanner(width)))
	b.WriteString("\n\n")
	b.WriteString(theme.Title.Width(width).Render("色名クイズ"))
	b.WriteString("\n\n")
	msg := "Choose a dataset to start."
	if s.ctrl.Loading() != "" {
		msg = "Preparing your quiz..."
	}
	b.WriteString(theme.Subtitle.Width(width).Render(msg))
	return b.String()
}

func (s *QuizScreen) renderQuestion(width int) string {
	q := s.question
	cw := contentWidth(width)

	var b strings.Builder
	progress := components.NewProgressBar(fmt.Sprintf("Q%d", q.Index), q.Index-1, q.Total, cw)
	b.WriteString(layout.Center(width, progress.View()))
	b.WriteString("\n")
	b.WriteString(layout.Center(width, theme.Hint.Render(fmt.Sprintf("%d remaining", q.Remaining))))
	b.WriteString("\n\n")

	text := lipgloss.NewStyle().
		Width(cw).
		Foreground(theme.Text).
		Bold(true).
		Render(q.Text)
	b.WriteString(layout.Center(width, theme.Card.Width(cw).Render(text)))
	b.WriteString("\n\n")

	inputs := lipgloss.JoinVertical(lipgloss.Left, s.name.View(), "", s.system.View())
	b.WriteString(layout.Center(width, lipgloss.NewStyle().Width(cw).Render(inputs)))

	if s.validation != "" {
		b.WriteString("\n\n")
		b.WriteString(layout.Center(width, theme.Incorrect.Render(s.validation)))
	}
	return b.String()
}

func verdictStyle(v answer.Verdict) lipgloss.Style {
	switch v {
	case answer.VerdictCorrect:
		return theme.Correct
	case answer.VerdictWrong:
		return theme.Incorrect
	default:
		return theme.Partial
	}
}

func mark(ok bool) string {
	if ok {
		return theme.Correct.Render(answer.Check(true))
	}
	return theme.Incorrect.Render(answer.Check(false))
}

func (s *QuizScreen) renderResult(width int) string {
	rec := s.record
	q := rec.Question
	v := rec.Result.Verdict()
	cw := contentWidth(width)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(verdictStyle(v).Width(width).Align(lipgloss.Center).Render(v.Title()))
	b.WriteString("\n\n")

	label := theme.Label.Width(14)
	rows := []string{
		label.Render("Color name") + q.Name + " " + mark(rec.Result.NameCorrect),
		label.Render("System name") + q.SystemColorName + " " + mark(rec.Result.SystemCorrect),
		label.Render("Your answer") + theme.Hint.Render(rec.SubmittedName+" / "+rec.SubmittedSystem),
		label.Render("Munsell") + q.Munsell,
		label.Render("RGB") + q.RGB,
	}
	details := strings.Join(rows, "\n")
	if q.Description != "" {
		desc := lipgloss.NewStyle().Width(cw - 24).Foreground(theme.TextDim).Render(q.Description)
		details += "\n\n" + desc
	}

	swatch := renderSwatch(q.RGB, 18, 7)
	card := lipgloss.JoinHorizontal(lipgloss.Top, swatch, "   ", details)
	b.WriteString(layout.Center(width, theme.Card.Render(card)))
	b.WriteString("\n\n")

	buttons := components.ButtonRow(
		components.NewButton("Enter", s.advanceLabel, true),
		components.NewButton("s", "Summary", false),
	)
	b.WriteString(layout.Center(width, buttons))
	return b.String()
}

func (s *QuizScreen) renderSummary(width, height int) string {
	sum := s.summary
	cw := contentWidth(width)

	var b strings.Builder
	b.WriteString("\n")
	title := "Results so far"
	if sum.Finished {
		title = "All questions answered!"
	}
	b.WriteString(theme.Title.Width(width).Render(title))
	b.WriteString("\n")

	pct := 0
	if sum.Total > 0 {
		pct = sum.Correct * 100 / sum.Total
	}
	b.WriteString(theme.Subtitle.Width(width).Render(
		fmt.Sprintf("%d / %d fully correct (%d%%)", sum.Correct, sum.Total, pct)))
	b.WriteString("\n\n")

	if sum.Total == 0 {
		b.WriteString(theme.Hint.Width(width).Align(lipgloss.Center).Render("No answers yet."))
	} else {
		// Keep room for title, totals and buttons.
		maxRows := max(height-10, 3)
		b.WriteString(layout.Center(width, renderHistoryTable(sum, cw, maxRows)))
	}
	b.WriteString("\n\n")

	buttons := []components.Button{}
	if sum.CanReturn {
		buttons = append(buttons, components.NewButton("b", "Back to quiz", true))
	}
	buttons = append(buttons, components.NewButton("r", "Restart", !sum.CanReturn))
	b.WriteString(layout.Center(width, components.ButtonRow(buttons...)))
	return b.String()
}

// renderHistoryTable lists the most recent maxRows answers, newest last.
func renderHistoryTable(sum controller.SummaryView, width, maxRows int) string {
	records := sum.Records
	skipped := 0
	if len(records) > maxRows {
		skipped = len(records) - maxRows
		records = records[skipped:]
	}

	numW, markW := 4, 10
	colorW := max(width-numW-markW, 10) / 2
	answerW := max(width-numW-markW-colorW, 10)

	cell := func(w int) lipgloss.Style { return lipgloss.NewStyle().Width(w).MaxWidth(w) }
	header := lipgloss.JoinHorizontal(lipgloss.Top,
		cell(numW).Render("#"),
		cell(colorW).Render("Color"),
		cell(answerW).Render("Your answer"),
		cell(markW).Render("Result"),
	)

	lines := []string{theme.Label.Render(header)}
	if skipped > 0 {
		lines = append(lines, theme.Hint.Render(fmt.Sprintf("… %d earlier answers", skipped)))
	}
	for i, r := range records {
		v := r.Result.Verdict()
		row := lipgloss.JoinHorizontal(lipgloss.Top,
			cell(numW).Render(fmt.Sprintf("%d", skipped+i+1)),
			cell(colorW).Render(r.Question.Name+" / "+r.Question.SystemColorName),
			cell(answerW).Foreground(theme.TextDim).Render(r.SubmittedName+" / "+r.SubmittedSystem),
			cell(markW).Inherit(verdictStyle(v)).Render(v.Mark()),
		)
		lines = append(lines, row)
	}
	return strings.Join(lines, "\n")
}

func renderConfirm(width int, prompt string) string {
	box := theme.Dialog.Render(
		lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(prompt) +
			"\n\n" +
			theme.Hint.Render("y: yes   n: no"))
	return "\n\n" + layout.Center(width, box)
}
