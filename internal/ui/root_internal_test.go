package ui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/decktui/deck-tui/internal/config"
	"github.com/decktui/deck-tui/internal/deck"
	"github.com/decktui/deck-tui/internal/guard"
	"github.com/decktui/deck-tui/internal/store"
	"github.com/stretchr/testify/require"
)

type noopSurface struct{}

func (noopSurface) Navigate(_ context.Context, _ string) error { return nil }
func (noopSurface) Reload(_ context.Context) error             { return nil }
func (noopSurface) URL() string                                { return "" }
func (noopSurface) OnSourceChanged(_ func(url string))         {}

type noopLoader struct{}

func (noopLoader) Write(_ config.Config) error { return nil }
func (noopLoader) Path() string                { return "/tmp/deck-tui.yaml" }

func newTestRoot(t *testing.T) tea.Model {
	t.Helper()

	navGuard := guard.New([]string{"x.com"}, []string{"/status/"})
	controller := deck.New(navGuard, func() deck.Surface { return noopSurface{} })
	t.Cleanup(controller.Close)

	root := newRootModel(config.Config{Profile: "default"}, controller, noopLoader{},
		nil, nil, "v1.0.0", "2026-01-01", "abcdef12")

	model, _ := root.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	return model
}

// Page toggle keys must reach a focused settings field instead of switching
// pages, otherwise '?' and 'E' cannot be typed into URL fields.
func TestRootKeysReachFocusedConfigField(t *testing.T) {
	model := newTestRoot(t)

	model, _ = model.Update(pageConfig)
	rm, ok := model.(rootModel)
	require.True(t, ok)
	require.Equal(t, pageConfig, rm.currentView)

	conf, ok := rm.configModel.(*configModel)
	require.True(t, ok)
	require.True(t, conf.inputFocused())

	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	rm, ok = model.(rootModel)
	require.True(t, ok)
	require.Equal(t, pageConfig, rm.currentView)
	require.Contains(t, conf.fields[fieldProfile].input.Value(), "?")
}

func TestHelpPageShowsRecentVisits(t *testing.T) {
	visited := time.Now().Add(-time.Minute)
	helper := newHelpModel(func(_ context.Context) ([]store.HistoryRow, error) {
		return []store.HistoryRow{{URL: "https://x.com/home", VisitedOn: visited}}, nil
	}, "v1.0.0", "2026-01-01", "abcdef12", "/tmp/deck-tui.yaml")

	model, cmd := helper.Update(pageHelp)
	require.NotNil(t, cmd)

	msg := cmd()
	visits, ok := msg.(historyMsg)
	require.True(t, ok)
	require.Len(t, visits, 1)

	model, _ = model.Update(msg)
	view := model.View()
	require.Contains(t, view, "Recent Visits")
	require.Contains(t, view, "https://x.com/home")
}
