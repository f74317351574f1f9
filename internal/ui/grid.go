package ui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/decktui/deck-tui/internal/deck"
	"github.com/decktui/deck-tui/internal/surface"
	"github.com/decktui/deck-tui/internal/ui/styles"
	"github.com/dustin/go-humanize"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"
)

const intervalStepSeconds = 30

type inputMode int

const (
	inputNone inputMode = iota
	inputAdd
	inputGoto
)

// snapshotSource is satisfied by the HTTP surface; test fakes usually aren't,
// in which case panes simply render empty.
type snapshotSource interface {
	Current() surface.Snapshot
}

type columnPane struct {
	state deck.ColumnState
	snap  surface.Snapshot
}

// gridModel renders all columns side by side and handles every grid mode key.
type gridModel struct {
	controller      *deck.Deck
	width           int
	height          int
	mode            deck.Mode
	panes           []columnPane
	selected        int
	linkIdx         int
	inputMode       inputMode
	input           textinput.Model
	defaultInterval int
}

func newGridModel(controller *deck.Deck, defaultIntervalSeconds int) gridModel {
	input := textinput.New()
	input.Placeholder = "https://x.com/..."
	input.CharLimit = 512

	return gridModel{
		controller:      controller,
		input:           input,
		defaultInterval: defaultIntervalSeconds,
	}
}

func (m gridModel) Init() tea.Cmd {
	return refreshPanes(m.controller)
}

// refreshPanes re-publishes the current deck state so panes pick up surface
// content that changed without a state transition.
func refreshPanes(controller *deck.Deck) tea.Cmd {
	return func() tea.Msg {
		return controller.State()
	}
}

func (m gridModel) inputActive() bool {
	return m.inputMode != inputNone
}

func (m gridModel) Update(msg tea.Msg) (gridModel, tea.Cmd) {
	switch msg := msg.(type) {
	case contentSizeMsg:
		m.width = msg.width
		m.height = msg.height
	case deck.State:
		m.mode = msg.Mode
		m.panes = m.buildPanes(msg)
		if m.selected >= len(m.panes) {
			m.selected = max(0, len(m.panes)-1)
		}
		m.clampLinkIdx()
	case tea.MouseMsg:
		if msg.Action == tea.MouseActionRelease && msg.Button == tea.MouseButtonLeft {
			for i := range m.panes {
				if zone.Get(paneZoneID(i)).InBounds(msg) {
					m.selected = i
					m.clampLinkIdx()

					break
				}
			}
		}
	case tea.KeyMsg:
		if m.mode == deck.ModeFocus {
			break
		}

		if m.inputMode != inputNone {
			return m.updateURLInput(msg)
		}

		return m.handleKey(msg)
	}

	return m, nil
}

func (m gridModel) updateURLInput(msg tea.KeyMsg) (gridModel, tea.Cmd) {
	switch {
	case key.Matches(msg, defaultKeyMap.back):
		m.inputMode = inputNone
		m.input.Reset()
		m.input.Blur()

		return m, nil
	case key.Matches(msg, defaultKeyMap.accept):
		url := m.input.Value()
		mode := m.inputMode
		m.inputMode = inputNone
		m.input.Reset()
		m.input.Blur()
		if url == "" {
			return m, nil
		}

		if mode == inputGoto {
			if pane, ok := m.selectedPane(); ok {
				return m, openLink(m.controller, pane.state.ID, url)
			}

			return m, nil
		}

		return m, addColumn(m.controller, url, m.defaultInterval)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m gridModel) handleKey(msg tea.KeyMsg) (gridModel, tea.Cmd) {
	switch {
	case key.Matches(msg, defaultKeyMap.addColumn):
		m.inputMode = inputAdd
		m.input.Prompt = "add column> "

		return m, m.input.Focus()
	case key.Matches(msg, defaultKeyMap.goTo):
		if _, ok := m.selectedPane(); !ok {
			break
		}
		m.inputMode = inputGoto
		m.input.Prompt = "go to> "

		return m, m.input.Focus()
	case key.Matches(msg, defaultKeyMap.left):
		if m.selected > 0 {
			m.selected--
			m.linkIdx = 0
		}
	case key.Matches(msg, defaultKeyMap.right):
		if m.selected < len(m.panes)-1 {
			m.selected++
			m.linkIdx = 0
		}
	case key.Matches(msg, defaultKeyMap.up):
		if m.linkIdx > 0 {
			m.linkIdx--
		}
	case key.Matches(msg, defaultKeyMap.down):
		m.linkIdx++
		m.clampLinkIdx()
	case key.Matches(msg, defaultKeyMap.accept):
		if pane, link, ok := m.selectedLink(); ok {
			return m, openLink(m.controller, pane.state.ID, link.URL)
		}
	case key.Matches(msg, defaultKeyMap.refresh):
		if pane, ok := m.selectedPane(); ok {
			return m, refreshColumn(m.controller, pane.state.ID)
		}
	case key.Matches(msg, defaultKeyMap.refreshAll):
		return m, refreshAll(m.controller)
	case key.Matches(msg, defaultKeyMap.toggle):
		if pane, ok := m.selectedPane(); ok {
			return m, toggleColumn(m.controller, pane.state.ID)
		}
	case key.Matches(msg, defaultKeyMap.faster):
		if pane, ok := m.selectedPane(); ok {
			return m, adjustInterval(m.controller, pane.state.ID, -intervalStepSeconds)
		}
	case key.Matches(msg, defaultKeyMap.slower):
		if pane, ok := m.selectedPane(); ok {
			return m, adjustInterval(m.controller, pane.state.ID, intervalStepSeconds)
		}
	case key.Matches(msg, defaultKeyMap.dropColumn):
		if pane, ok := m.selectedPane(); ok {
			return m, removeColumn(m.controller, pane.state.ID)
		}
	}

	return m, nil
}

func (m gridModel) buildPanes(state deck.State) []columnPane {
	panes := make([]columnPane, 0, len(state.Columns))
	for _, colState := range state.Columns {
		pane := columnPane{state: colState}
		if col, found := m.controller.Column(colState.ID); found {
			if src, ok := col.Surface().(snapshotSource); ok {
				pane.snap = src.Current()
			}
		}
		panes = append(panes, pane)
	}

	return panes
}

func (m gridModel) selectedPane() (columnPane, bool) {
	if m.selected < 0 || m.selected >= len(m.panes) {
		return columnPane{}, false
	}

	return m.panes[m.selected], true
}

func (m gridModel) selectedLink() (columnPane, surface.Link, bool) {
	pane, ok := m.selectedPane()
	if !ok || m.linkIdx < 0 || m.linkIdx >= len(pane.snap.Links) {
		return columnPane{}, surface.Link{}, false
	}

	return pane, pane.snap.Links[m.linkIdx], true
}

func (m *gridModel) clampLinkIdx() {
	pane, ok := m.selectedPane()
	if !ok || len(pane.snap.Links) == 0 {
		m.linkIdx = 0

		return
	}

	if m.linkIdx >= len(pane.snap.Links) {
		m.linkIdx = len(pane.snap.Links) - 1
	}
	if m.linkIdx < 0 {
		m.linkIdx = 0
	}
}

func paneZoneID(idx int) string {
	return "column-" + strconv.Itoa(idx)
}

func (m gridModel) Render(height int) string {
	if len(m.panes) == 0 {
		empty := styles.InfoMessage.Render("No columns. Press 'a' to add one.")
		if m.inputMode != inputNone {
			return lipgloss.JoinVertical(lipgloss.Left, m.input.View(), empty)
		}

		return empty
	}

	paneWidth := max(20, m.width/len(m.panes)-2)
	paneHeight := height - 2
	if m.inputMode != inputNone {
		paneHeight--
	}

	rendered := make([]string, 0, len(m.panes))
	for i, pane := range m.panes {
		rendered = append(rendered, zone.Mark(paneZoneID(i), m.renderPane(i, pane, paneWidth, paneHeight)))
	}

	row := lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
	if m.inputMode != inputNone {
		return lipgloss.JoinVertical(lipgloss.Left, m.input.View(), row)
	}

	return row
}

func (m gridModel) renderPane(idx int, pane columnPane, width int, height int) string {
	style := styles.ContainerStyle
	if idx == m.selected {
		style = styles.ContainerStyleActive
	}

	if countdown := pane.state.Display; countdown != "" {
		style = style.Border(styles.TitleBorder(styles.ContainerBorder, width, " "+countdown+" "))
	}

	inner := width - 2
	lines := []string{
		styles.ColumnTitle.Render(truncate.StringWithTail(paneTitle(pane), uint(inner), "…")),
		styles.ColumnURL.Render(truncate.StringWithTail(pane.state.URL, uint(inner), "…")),
		styles.ColumnMeta.Render(paneMeta(pane)),
		"",
	}

	for _, paragraph := range pane.snap.Paragraphs {
		lines = append(lines, styles.ColumnParagraph.Render(wordwrap.String(paragraph, inner)), "")
		if len(lines) > height-4 {
			break
		}
	}

	linkBudget := height - len(lines) - 1
	lines = append(lines, m.renderLinks(idx, pane, inner, linkBudget)...)

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)

	return style.Width(width).Height(height).Render(content)
}

// renderLinks windows the link list around the selection so it stays visible
// in short panes.
func (m gridModel) renderLinks(idx int, pane columnPane, width int, budget int) []string {
	links := pane.snap.Links
	if len(links) == 0 || budget <= 0 {
		return nil
	}

	start := 0
	if idx == m.selected && m.linkIdx >= budget {
		start = m.linkIdx - budget + 1
	}

	var lines []string
	for i := start; i < len(links) && len(lines) < budget; i++ {
		text := truncate.StringWithTail("→ "+links[i].Text, uint(width), "…")
		if idx == m.selected && i == m.linkIdx {
			lines = append(lines, styles.LinkSelected.Render(text))
		} else {
			lines = append(lines, styles.LinkUnselected.Render(text))
		}
	}

	return lines
}

func paneTitle(pane columnPane) string {
	if pane.snap.Title != "" {
		return pane.snap.Title
	}

	return pane.state.URL
}

func paneMeta(pane columnPane) string {
	refreshed := "never"
	if !pane.state.LastRefreshed.IsZero() {
		refreshed = humanize.Time(pane.state.LastRefreshed)
	}

	if !pane.state.Enabled {
		return fmt.Sprintf("refreshed %s · paused", refreshed)
	}

	return fmt.Sprintf("refreshed %s · every %ds", refreshed, pane.state.Interval)
}
