package ui

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/decktui/deck-tui/internal/ui/styles"
)

var (
	errValueEmpty    = errors.New("value cannot be empty")
	errInvalidURL    = errors.New("invalid URL")
	errInvalidDomain = errors.New("invalid domain")
	errInvalidNumber = errors.New("invalid number")
)

type inputValidator interface {
	Validate(string) error
}

func newValidatingTextInputModel(label string, value string, placeholder string, validators ...inputValidator) *validatingTextInputModel {
	input := textinput.New()
	input.SetValue(value)
	input.Placeholder = placeholder
	input.CharLimit = 512
	input.Width = 60

	if len(validators) > 0 {
		input.Validate = func(s string) error {
			for _, validator := range validators {
				if err := validator.Validate(s); err != nil {
					return err //nolint:wrapcheck
				}
			}

			return nil
		}
	}

	return &validatingTextInputModel{input: input, label: label}
}

type validatingTextInputModel struct {
	label string
	input textinput.Model
}

func (m *validatingTextInputModel) Update(msg tea.Msg) (*validatingTextInputModel, tea.Cmd) {
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m *validatingTextInputModel) View() string {
	var errRow string
	if m.input.Err != nil {
		errRow = lipgloss.NewStyle().Foreground(styles.Red).Render("Validation Error: " + m.input.Err.Error())
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		styles.BlurredStyle.Render(m.label+": "),
		lipgloss.JoinVertical(lipgloss.Top, m.input.View(), errRow))
}

func (m *validatingTextInputModel) focus() tea.Cmd {
	m.input.PromptStyle = styles.FocusedStyle
	m.input.TextStyle = styles.FocusedStyle

	return m.input.Focus()
}

func (m *validatingTextInputModel) blur() {
	m.input.PromptStyle = styles.NoStyle
	m.input.TextStyle = styles.NoStyle
	m.input.Blur()
}

func splitCSV(value string) []string {
	var parts []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}

	return parts
}

type requiredValidator struct{}

func (v requiredValidator) Validate(value string) error {
	if strings.TrimSpace(value) == "" {
		return errValueEmpty
	}

	return nil
}

type domainListValidator struct{}

func (v domainListValidator) Validate(value string) error {
	domains := splitCSV(value)
	if len(domains) == 0 {
		return fmt.Errorf("%w: need at least one domain", errInvalidDomain)
	}

	for _, domain := range domains {
		if strings.ContainsAny(domain, "/: ") || !strings.Contains(domain, ".") {
			return fmt.Errorf("%w: %s", errInvalidDomain, domain)
		}
	}

	return nil
}

type urlListValidator struct {
	emptyOk bool
}

func (v urlListValidator) Validate(value string) error {
	urls := splitCSV(value)
	if len(urls) == 0 {
		if v.emptyOk {
			return nil
		}

		return errInvalidURL
	}

	for _, raw := range urls {
		parsed, errParse := url.Parse(raw)
		if errParse != nil {
			return errors.Join(errParse, errInvalidURL)
		}
		if parsed.Scheme != "http" && parsed.Scheme != "https" {
			return fmt.Errorf("%w: %s", errInvalidURL, raw)
		}
	}

	return nil
}

type minIntValidator struct {
	min int
}

func (v minIntValidator) Validate(value string) error {
	parsed, errParse := strconv.Atoi(strings.TrimSpace(value))
	if errParse != nil {
		return errors.Join(errParse, errInvalidNumber)
	}

	if parsed < v.min {
		return fmt.Errorf("%w: must be >= %d", errInvalidNumber, v.min)
	}

	return nil
}
