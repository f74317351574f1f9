package ui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/decktui/deck-tui/internal/deck"
	"github.com/decktui/deck-tui/internal/ui/styles"
	"github.com/muesli/reflow/wordwrap"
)

// focusModel renders the shared focus surface full width. Scrolling is plain
// viewport behavior; esc leaves focus mode.
type focusModel struct {
	controller *deck.Deck
	viewport   viewport.Model
	width      int
	height     int
	mode       deck.Mode
	url        string
}

func newFocusModel(controller *deck.Deck) focusModel {
	return focusModel{controller: controller, viewport: viewport.New(0, 0)}
}

func (m focusModel) Init() tea.Cmd {
	return nil
}

func (m focusModel) Update(msg tea.Msg) (focusModel, tea.Cmd) {
	switch msg := msg.(type) {
	case contentSizeMsg:
		m.width = msg.width
		m.height = msg.height
		m.viewport.Width = m.width
		m.viewport.Height = max(0, m.height-2)
		m.viewport.SetContent(m.content())
	case deck.State:
		entering := msg.Mode == deck.ModeFocus && m.mode != deck.ModeFocus
		retargeted := msg.FocusURL != m.url
		m.mode = msg.Mode
		m.url = msg.FocusURL
		if m.mode == deck.ModeFocus {
			m.viewport.SetContent(m.content())
			if entering || retargeted {
				m.viewport.GotoTop()
			}
		}
	case tea.KeyMsg:
		if m.mode != deck.ModeFocus {
			break
		}

		switch {
		case key.Matches(msg, defaultKeyMap.back):
			return m, exitFocus(m.controller)
		case key.Matches(msg, defaultKeyMap.refresh):
			return m, refreshFocus(m.controller)
		}

		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)

		return m, cmd
	}

	return m, nil
}

func refreshFocus(controller *deck.Deck) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := deckCtx()
		defer cancel()

		if err := controller.FocusSurface().Reload(ctx); err != nil {
			return statusMsg{Message: "Refresh failed: " + err.Error(), Err: true}
		}

		return refreshPanes(controller)()
	}
}

func (m focusModel) content() string {
	src, ok := m.controller.FocusSurface().(snapshotSource)
	if !ok {
		return m.url
	}

	snap := src.Current()
	inner := max(20, m.width-4)

	lines := []string{styles.ColumnURL.Render(snap.URL), ""}
	if snap.Description != "" {
		lines = append(lines, styles.ColumnMeta.Render(wordwrap.String(snap.Description, inner)), "")
	}
	for _, paragraph := range snap.Paragraphs {
		lines = append(lines, styles.ColumnParagraph.Render(wordwrap.String(paragraph, inner)), "")
	}
	for _, link := range snap.Links {
		lines = append(lines, styles.LinkUnselected.Render("→ "+link.Text+" "+styles.ColumnURL.Render(link.URL)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m focusModel) title() string {
	if src, ok := m.controller.FocusSurface().(snapshotSource); ok {
		if snap := src.Current(); snap.Title != "" {
			return snap.Title
		}
	}

	return m.url
}

func (m focusModel) Render(height int) string {
	m.viewport.Height = max(0, height-2)

	header := styles.FocusTitle.Render(m.title()) + "  " +
		styles.StatusHelp.Render(defaultKeyMap.back.Help().Key+" "+defaultKeyMap.back.Help().Desc)

	return lipgloss.JoinVertical(lipgloss.Left, header, m.viewport.View())
}
