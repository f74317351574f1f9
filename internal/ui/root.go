package ui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/decktui/deck-tui/internal/config"
	"github.com/decktui/deck-tui/internal/deck"
	"github.com/decktui/deck-tui/internal/ui/styles"
	zone "github.com/lrstanley/bubblezone"
)

// rootModel is the top level model for the ui side of the app.
type rootModel struct {
	currentView  page
	previousView page
	height       int
	width        int
	controller   *deck.Deck
	state        deck.State
	gridModel    gridModel
	focusModel   focusModel
	configModel  tea.Model
	helpModel    tea.Model
	statusModel  tea.Model
	onResize     func(width int, height int)
	headerHeight int
	footerHeight int
}

func newRootModel(userConfig config.Config, controller *deck.Deck, loader ConfigWriter,
	onResize func(width int, height int), history HistoryFunc,
	buildVersion string, buildDate string, buildCommit string,
) *rootModel {
	return &rootModel{
		onResize:     onResize,
		currentView:  pageDeck,
		previousView: pageDeck,
		controller:   controller,
		state:        controller.State(),
		gridModel:    newGridModel(controller, userConfig.DefaultIntervalSeconds),
		focusModel:   newFocusModel(controller),
		configModel:  newConfigModel(userConfig, loader),
		helpModel:    newHelpModel(history, buildVersion, buildDate, buildCommit, loader.Path()),
		statusModel:  newStatusBarModel(buildVersion, userConfig.Profile),
		headerHeight: 1,
		footerHeight: 1,
	}
}

func (m rootModel) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("deck-tui"),
		textinput.Blink,
		m.gridModel.Init(),
		m.focusModel.Init(),
		m.configModel.Init(),
		m.helpModel.Init(),
		m.statusModel.Init(),
	)
}

func (m rootModel) Update(inMsg tea.Msg) (tea.Model, tea.Cmd) {
	logMsg(inMsg)

	if !m.isInitialized() {
		if _, ok := inMsg.(tea.WindowSizeMsg); !ok {
			return m, nil
		}
	}

	switch msg := inMsg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		m.width = msg.Width
		if m.onResize != nil {
			m.onResize(msg.Width, msg.Height)
		}

		size := contentSizeMsg{width: m.width, height: m.height - m.headerHeight - m.footerHeight}
		model, cmd := m.propagate(size)

		return model, cmd
	case deck.State:
		m.state = msg
	case tea.KeyMsg:
		if m.currentView == pageDeck && m.gridModel.inputActive() {
			break
		}
		if conf, ok := m.configModel.(*configModel); ok && conf.inputFocused() {
			break
		}
		switch {
		case key.Matches(msg, defaultKeyMap.quit):
			if m.currentView != pageDeck {
				break
			}

			return m, tea.Quit
		case key.Matches(msg, defaultKeyMap.help):
			if m.currentView == pageHelp {
				m.currentView = m.previousView
			} else {
				m.previousView = m.currentView
				m.currentView = pageHelp
			}
		case key.Matches(msg, defaultKeyMap.config):
			if m.currentView == pageConfig {
				m.currentView = m.previousView
			} else {
				m.previousView = m.currentView
				m.currentView = pageConfig
			}
		}
	case page:
		m.currentView = msg
	}

	return m.propagate(inMsg)
}

func (m rootModel) View() string {
	header := styles.HeaderContainerStyle.Width(m.width).
		Render(styles.ContainerTitle.Render("deck-tui") + " " +
			styles.StatusMode.Render(m.state.Mode.String()))
	footer := styles.FooterContainerStyle.Width(m.width).Render(m.statusModel.View())

	_, hdrHeight := lipgloss.Size(header)
	_, ftrHeight := lipgloss.Size(footer)
	contentHeight := m.height - hdrHeight - ftrHeight

	var content string
	switch m.currentView {
	case pageConfig:
		content = m.configModel.View()
	case pageHelp:
		content = m.helpModel.View()
	case pageDeck:
		if m.state.Mode == deck.ModeFocus {
			content = m.focusModel.Render(contentHeight)
		} else {
			content = m.gridModel.Render(contentHeight)
		}
	}

	body := styles.ContentContainerStyle.Height(contentHeight).Render(content)

	return zone.Scan(lipgloss.JoinVertical(lipgloss.Left, header, body, footer))
}

func (m rootModel) isInitialized() bool {
	return m.height != 0 && m.width != 0
}

func (m rootModel) propagate(msg tea.Msg, _ ...tea.Cmd) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, 5)

	m.gridModel, cmds[0] = m.gridModel.Update(msg)
	m.focusModel, cmds[1] = m.focusModel.Update(msg)
	m.configModel, cmds[2] = m.configModel.Update(msg)
	m.helpModel, cmds[3] = m.helpModel.Update(msg)
	m.statusModel, cmds[4] = m.statusModel.Update(msg)

	return m, tea.Batch(cmds...)
}
