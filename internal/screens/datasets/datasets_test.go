package datasets

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staticLister(entries []Entry, err error) Lister {
	return func(context.Context) ([]Entry, error) { return entries, err }
}

func loaded(t *testing.T, p *PickerScreen) *PickerScreen {
	t.Helper()
	cmd := p.Init()
	require.NotNil(t, cmd)
	msg := cmd()
	_, ok := msg.(entriesMsg)
	require.True(t, ok, "Init should deliver the listed entries")
	updated, _ := p.Update(msg)
	return updated.(*PickerScreen)
}

func TestPicker_ListsEntries(t *testing.T) {
	p := loaded(t, New(staticLister([]Entry{
		{Label: "JIS慣用色名", Source: "jis.json", Detail: "269 colors"},
		{Label: "db:traditional", Source: "db:traditional"},
	}, nil), "jis.json"))

	view := p.View(100, 30)
	assert.Contains(t, view, "JIS慣用色名 ●")
	assert.Contains(t, view, "269 colors")
	assert.Contains(t, view, "db:traditional")
	assert.Contains(t, view, "Enter a path or URL")
	assert.Len(t, p.menu.Items, 3)
}

func TestPicker_ListError(t *testing.T) {
	p := loaded(t, New(staticLister(nil, errors.New("library unavailable")), ""))

	view := p.View(100, 30)
	assert.Contains(t, view, "Could not list datasets: library unavailable")
	assert.Len(t, p.menu.Items, 1, "typed entry stays available")
}

func TestPicker_NilLister(t *testing.T) {
	p := loaded(t, New(nil, ""))
	assert.Len(t, p.menu.Items, 1)
	assert.Equal(t, "Datasets", p.Title())
}

func TestPicker_SelectEntryReturnsCommand(t *testing.T) {
	p := loaded(t, New(staticLister([]Entry{{Label: "a", Source: "a.json"}}, nil), ""))

	_, cmd := p.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.NotNil(t, cmd)
	assert.False(t, p.typing)
}

func TestPicker_TypedSource(t *testing.T) {
	p := loaded(t, New(staticLister([]Entry{{Label: "a", Source: "a.json"}}, nil), ""))

	p.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	p.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.True(t, p.typing)
	assert.Equal(t, "Load", p.KeyHints()[0].Description)

	// Blank input is ignored.
	_, cmd := p.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Nil(t, cmd)

	p.input.Model.SetValue("  https://example.com/colors.json ")
	_, cmd = p.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.NotNil(t, cmd)
	assert.True(t, strings.Contains(p.View(100, 30), "Path or URL"))
}
