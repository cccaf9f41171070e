// Package datasets is the dataset picker. It lists the configured catalog and
// the datasets stored in the local library, and also accepts a typed path or
// URL.
package datasets

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/iroquiz/internal/router"
	"github.com/abhisek/iroquiz/internal/screen"
	"github.com/abhisek/iroquiz/internal/ui/components"
	"github.com/abhisek/iroquiz/internal/ui/layout"
	"github.com/abhisek/iroquiz/internal/ui/theme"
)

const listTimeout = 5 * time.Second

// Entry is one pickable dataset.
type Entry struct {
	Label  string
	Source string
	Detail string
}

// Lister returns the pickable datasets.
type Lister func(ctx context.Context) ([]Entry, error)

// SelectedMsg is emitted after the picker closes with a choice.
type SelectedMsg struct {
	Source string
}

type entriesMsg struct {
	entries []Entry
	err     error
}

// PickerScreen implements screen.Screen for choosing a dataset.
type PickerScreen struct {
	lister  Lister
	current string
	entries []Entry
	menu    components.Menu
	loaded  bool
	errMsg  string

	typing bool
	input  components.TextInput
}

var _ screen.Screen = (*PickerScreen)(nil)
var _ screen.KeyHintProvider = (*PickerScreen)(nil)

// New creates a picker. current is the source being played, marked in the list.
func New(lister Lister, current string) *PickerScreen {
	return &PickerScreen{
		lister:  lister,
		current: current,
		input:   components.NewTextInput("Path or URL", "colors.json, https://…, db:name", 512),
	}
}

func (p *PickerScreen) Init() tea.Cmd {
	lister := p.lister
	return func() tea.Msg {
		if lister == nil {
			return entriesMsg{}
		}
		ctx, cancel := context.WithTimeout(context.Background(), listTimeout)
		defer cancel()
		entries, err := lister(ctx)
		return entriesMsg{entries: entries, err: err}
	}
}

func (p *PickerScreen) Title() string {
	return "Datasets"
}

func (p *PickerScreen) KeyHints() []layout.KeyHint {
	if p.typing {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Load"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
	}
}

func (p *PickerScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case entriesMsg:
		p.loaded = true
		p.entries = msg.entries
		if msg.err != nil {
			p.errMsg = msg.err.Error()
		}
		p.menu = components.NewMenu(p.menuItems())
		return p, nil

	case tea.KeyPressMsg:
		if p.typing {
			return p.updateTyping(msg)
		}
		var cmd tea.Cmd
		p.menu, cmd = p.menu.Update(msg)
		return p, cmd
	}

	if p.typing {
		var cmd tea.Cmd
		p.input, cmd = p.input.Update(msg)
		return p, cmd
	}
	return p, nil
}

func (p *PickerScreen) updateTyping(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "enter":
		src := strings.TrimSpace(p.input.Value())
		if src == "" {
			return p, nil
		}
		return p, choose(src)
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

func (p *PickerScreen) menuItems() []components.MenuItem {
	items := make([]components.MenuItem, 0, len(p.entries)+1)
	for _, e := range p.entries {
		label := e.Label
		if e.Source == p.current {
			label += " ●"
		}
		items = append(items, components.MenuItem{
			Label:  label,
			Detail: e.Detail,
			Action: func() tea.Cmd { return choose(e.Source) },
		})
	}
	items = append(items, components.MenuItem{
		Label: "Enter a path or URL…",
		Action: func() tea.Cmd {
			p.typing = true
			return p.input.Focus()
		},
	})
	return items
}

// choose closes the picker and hands the source to the screen below.
func choose(source string) tea.Cmd {
	return tea.Sequence(
		router.Pop(),
		func() tea.Msg { return SelectedMsg{Source: source} },
	)
}

func (p *PickerScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(theme.Title.Width(width).Render("Choose a dataset"))
	b.WriteString("\n\n")

	if !p.loaded {
		b.WriteString(theme.Subtitle.Width(width).Render("Loading datasets..."))
		return b.String()
	}

	if p.errMsg != "" {
		b.WriteString(layout.Center(width, theme.Incorrect.Render(fmt.Sprintf("Could not list datasets: %s", p.errMsg))))
		b.WriteString("\n\n")
	}

	if p.typing {
		box := theme.Card.Width(min(width-8, 70)).Render(p.input.View())
		b.WriteString(layout.Center(width, box))
		return b.String()
	}

	menu := lipgloss.NewStyle().Width(min(width-8, 70)).Render(p.menu.View())
	b.WriteString(layout.Center(width, menu))
	return b.String()
}
