package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/decktui/deck-tui/internal/config"
	"github.com/decktui/deck-tui/internal/deck"
	"github.com/decktui/deck-tui/internal/ui/styles"
)

type statusBarModel struct {
	width        int
	version      string
	profile      string
	mode         deck.Mode
	columns      int
	statusMsg    string
	statusError  bool
	updateNotice string
}

func newStatusBarModel(version string, profile string) *statusBarModel {
	return &statusBarModel{version: version, profile: profile}
}

func (m statusBarModel) Init() tea.Cmd {
	return nil
}

func (m statusBarModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case deck.State:
		m.mode = msg.Mode
		m.columns = len(msg.Columns)
	case config.Config:
		m.profile = msg.Profile
	case statusMsg:
		m.statusMsg = msg.Message
		m.statusError = msg.Err

		return m, clearErrorAfter(clearMessageTimeout)
	case clearStatusMessageMsg:
		m.statusError = false
		m.statusMsg = ""
	case UpdateNoticeMsg:
		m.updateNotice = "Update available: " + msg.Version
	case contentSizeMsg:
		m.width = msg.width
	}

	return m, nil
}

func (m statusBarModel) View() string {
	args := []string{
		styles.StatusMode.Render(m.mode.String()),
		styles.StatusProfile.Render(m.profile),
		styles.StatusVersion.Render(m.version),
		styles.StatusHelp.Render(fmt.Sprintf("%d columns", m.columns)),
		styles.StatusHelp.Render(defaultKeyMap.help.Help().Key + " " + defaultKeyMap.help.Help().Desc),
		m.status(),
	}

	if m.updateNotice != "" {
		args = append(args, styles.StatusUpdate.Render(m.updateNotice))
	}

	return lipgloss.NewStyle().Width(m.width).Background(styles.Black).
		Render(lipgloss.JoinHorizontal(lipgloss.Top, args...))
}

func (m statusBarModel) status() string {
	if m.statusMsg == "" {
		return ""
	}

	if m.statusError {
		return styles.StatusError.Render(m.statusMsg)
	}

	return styles.StatusMessage.Render(m.statusMsg)
}
