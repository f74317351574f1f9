package ui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/decktui/deck-tui/internal/config"
	"github.com/decktui/deck-tui/internal/store"
	"github.com/decktui/deck-tui/internal/ui/styles"
	"github.com/dustin/go-humanize"
)

func newHelpModel(history HistoryFunc, buildVersion string, buildDate string, buildCommit string, configPath string) helpModel {
	return helpModel{
		history:      history,
		configPath:   configPath,
		dataPath:     config.PathData(config.DefaultDBName),
		buildVersion: buildVersion,
		buildDate:    buildDate,
		buildCommit:  buildCommit,
	}
}

type helpModel struct {
	helpView     help.Model
	view         page
	history      HistoryFunc
	visits       []store.HistoryRow
	configPath   string
	dataPath     string
	buildVersion string
	buildDate    string
	buildCommit  string
}

func (m helpModel) Init() tea.Cmd {
	return nil
}

func (m helpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch { //nolint:gocritic
		case key.Matches(msg, defaultKeyMap.back):
			if m.view == pageHelp {
				m.view = pageDeck

				return m, setContentView(pageDeck)
			}
		}
	case page:
		m.view = msg
		if m.view == pageHelp {
			return m, loadHistory(m.history)
		}
	case historyMsg:
		m.visits = msg
	}

	return m, nil
}

func (m helpModel) View() string {
	left := m.helpView.FullHelpView([][]key.Binding{
		{
			defaultKeyMap.quit,
			defaultKeyMap.help,
			defaultKeyMap.config,
			defaultKeyMap.accept,
			defaultKeyMap.back,
		},
	})

	middle := m.helpView.FullHelpView([][]key.Binding{
		{
			defaultKeyMap.refresh,
			defaultKeyMap.refreshAll,
			defaultKeyMap.toggle,
			defaultKeyMap.faster,
			defaultKeyMap.slower,
		},
	})

	right := m.helpView.FullHelpView([][]key.Binding{
		{
			defaultKeyMap.addColumn,
			defaultKeyMap.dropColumn,
			defaultKeyMap.goTo,
			defaultKeyMap.up,
			defaultKeyMap.down,
			defaultKeyMap.left,
			defaultKeyMap.right,
		},
	})

	helpContent := lipgloss.JoinHorizontal(lipgloss.Top,
		styles.HelpBox.Render(left), styles.HelpBox.Render(middle), styles.HelpBox.Render(right))

	commit := m.buildCommit
	if len(commit) > 8 {
		commit = m.buildCommit[0:8]
	}

	rows := []string{
		helpContent,
		styles.DetailRow("Version", m.buildVersion),
		styles.DetailRow("Commit", commit),
		styles.DetailRow("Date", m.buildDate),
		styles.DetailRow("Config Path", m.configPath),
		styles.DetailRow("Data Path", m.dataPath),
	}

	for i, visit := range m.visits {
		label := ""
		if i == 0 {
			label = "Recent Visits"
		}
		rows = append(rows, styles.DetailRow(label,
			visit.URL+" ("+humanize.Time(visit.VisitedOn)+")"))
	}

	content := lipgloss.JoinVertical(lipgloss.Center, rows...)

	return lipgloss.Place(lipgloss.Width(content), lipgloss.Height(content),
		lipgloss.Center, lipgloss.Center, content)
}
