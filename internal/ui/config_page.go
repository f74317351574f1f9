package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/decktui/deck-tui/internal/config"
	"github.com/decktui/deck-tui/internal/ui/styles"
)

type configIdx int

const (
	fieldProfile configIdx = iota
	fieldAllowedDomains
	fieldHomeURLs
	fieldDefaultInterval
	fieldAutosave
	fieldSave
)

type configModel struct {
	fields     []*validatingTextInputModel
	focusIndex configIdx
	config     config.Config
	activeView page
	width      int
	height     int
	loader     ConfigWriter
}

func newConfigModel(userConfig config.Config, loader ConfigWriter) tea.Model {
	return &configModel{
		config: userConfig,
		fields: []*validatingTextInputModel{
			newValidatingTextInputModel("Profile", userConfig.Profile, "default", requiredValidator{}),
			newValidatingTextInputModel("Allowed domains", strings.Join(userConfig.AllowedDomains, ", "), "x.com, twitter.com", domainListValidator{}),
			newValidatingTextInputModel("Home URLs", strings.Join(userConfig.HomeURLs, ", "), "https://x.com/home", urlListValidator{emptyOk: true}),
			newValidatingTextInputModel("Refresh interval (s)", strconv.Itoa(userConfig.DefaultIntervalSeconds), "300", minIntValidator{min: 0}),
			newValidatingTextInputModel("Autosave (s)", strconv.Itoa(userConfig.AutosaveSeconds), "60", minIntValidator{min: 0}),
		},
		activeView: pageDeck,
		focusIndex: fieldProfile,
		loader:     loader,
	}
}

func (m *configModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, func() tea.Msg {
		return m.config
	})
}

func (m *configModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, len(m.fields))
	for i := range m.fields {
		m.fields[i], cmds[i] = m.fields[i].Update(msg)
	}

	switch msg := msg.(type) {
	case page:
		m.activeView = msg
		if m.activeView == pageConfig {
			cmds = append(cmds, m.fields[fieldProfile].focus()) //nolint:makezero
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tea.KeyMsg:
		if m.activeView != pageConfig {
			break
		}
		switch {
		case key.Matches(msg, defaultKeyMap.back):
			m.activeView = pageDeck
			cmds = append(cmds, setContentView(pageDeck)) //nolint:makezero
		case key.Matches(msg, defaultKeyMap.up):
			if m.focusIndex > 0 && m.focusIndex <= fieldSave {
				cmds = append(cmds, m.changeInput(up)) //nolint:makezero
			}
		case key.Matches(msg, defaultKeyMap.down):
			if m.focusIndex >= 0 && m.focusIndex < fieldSave {
				cmds = append(cmds, m.changeInput(down)) //nolint:makezero
			}
		case key.Matches(msg, defaultKeyMap.accept):
			if m.focusIndex != fieldSave {
				cmds = append(cmds, m.changeInput(down)) //nolint:makezero

				break
			}

			for _, field := range m.fields {
				if field.input.Err != nil {
					return m, setStatusMessage("Config is not valid, cannot save", true)
				}
			}

			cfg := m.config
			cfg.Profile = strings.TrimSpace(m.fields[fieldProfile].input.Value())
			cfg.AllowedDomains = splitCSV(m.fields[fieldAllowedDomains].input.Value())
			cfg.HomeURLs = splitCSV(m.fields[fieldHomeURLs].input.Value())
			cfg.DefaultIntervalSeconds, _ = strconv.Atoi(strings.TrimSpace(m.fields[fieldDefaultInterval].input.Value()))
			cfg.AutosaveSeconds, _ = strconv.Atoi(strings.TrimSpace(m.fields[fieldAutosave].input.Value()))

			if err := m.loader.Write(cfg); err != nil {
				return m, setStatusMessage(err.Error(), true)
			}

			m.config = cfg

			return m, tea.Batch(
				setConfig(cfg),
				setStatusMessage("Saved config", false),
				setContentView(pageDeck))
		}
	}

	return m, tea.Batch(cmds...)
}

// inputFocused reports whether a text field currently owns the keyboard, in
// which case page toggle keys must reach the field instead.
func (m *configModel) inputFocused() bool {
	return m.activeView == pageConfig && m.focusIndex < fieldSave
}

func (m *configModel) changeInput(dir direction) tea.Cmd {
	switch dir { //nolint:exhaustive
	case up:
		m.focusIndex--
	case down:
		m.focusIndex++
	default:
		return nil
	}

	var cmd tea.Cmd
	for i := range m.fields {
		if configIdx(i) == m.focusIndex {
			cmd = m.fields[i].focus()
		} else {
			m.fields[i].blur()
		}
	}

	return cmd
}

func (m *configModel) View() string {
	fields := make([]string, 0, len(m.fields)+1)
	for _, field := range m.fields {
		fields = append(fields, field.View())
	}

	if m.focusIndex == fieldSave {
		fields = append(fields, styles.FocusedSubmitButton)
	} else {
		fields = append(fields, styles.BlurredSubmitButton)
	}

	return lipgloss.NewStyle().Width(m.width).Align(lipgloss.Left).
		Render(lipgloss.JoinVertical(lipgloss.Top, fields...))
}
