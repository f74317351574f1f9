package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	Accent = lipgloss.Color("#1d9bf0")

	Black       = lipgloss.Color("#111111")
	Gray        = lipgloss.Color("#3e3e3e")
	GrayDark    = lipgloss.Color("#2f3030")
	GrayDarkAlt = lipgloss.Color("#0f0f0f")
	White       = lipgloss.Color("#cccccc")
	Whiter      = lipgloss.Color("#aaaaaa")

	Green  = lipgloss.Color("#4d7455")
	Yellow = lipgloss.Color("#ffd700")
	Red    = lipgloss.Color("#B8383B")
	Purple = lipgloss.Color("#8650ac")

	ContainerTitle       = lipgloss.NewStyle().Bold(true)
	ContainerBorder      = lipgloss.RoundedBorder()
	ContainerStyle       = lipgloss.NewStyle().Border(ContainerBorder).BorderForeground(Gray)
	ContainerStyleActive = lipgloss.NewStyle().Border(ContainerBorder).BorderForeground(Accent)

	HeaderContainerStyle  = lipgloss.NewStyle().Align(lipgloss.Center)
	ContentContainerStyle = lipgloss.NewStyle().Align(lipgloss.Center)
	FooterContainerStyle  = lipgloss.NewStyle().Align(lipgloss.Center)

	FocusedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	BlurredStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Background(Black)
	NoStyle      = lipgloss.NewStyle()

	FocusedSubmitButton = lipgloss.NewStyle().Foreground(Accent).Render("[ Save ]")
	BlurredSubmitButton = "[ " + BlurredStyle.Render("Save") + " ]"

	ColumnTitle     = lipgloss.NewStyle().Foreground(Accent).Bold(true)
	ColumnURL       = lipgloss.NewStyle().Foreground(Gray)
	ColumnParagraph = lipgloss.NewStyle().Foreground(White)
	ColumnMeta      = lipgloss.NewStyle().Foreground(Whiter).Italic(true)

	LinkSelected   = lipgloss.NewStyle().Bold(true).Foreground(Black).Background(Accent).Inline(true)
	LinkUnselected = lipgloss.NewStyle().Foreground(White).Inline(true)

	StatusMode    = lipgloss.NewStyle().Foreground(Purple).PaddingRight(2).PaddingLeft(1).Bold(true)
	StatusProfile = lipgloss.NewStyle().Foreground(Green).PaddingRight(2).PaddingLeft(1).Bold(true)
	StatusError   = lipgloss.NewStyle().Foreground(Red).Align(lipgloss.Right).Bold(true).PaddingRight(2)
	StatusMessage = lipgloss.NewStyle().Foreground(Green).Align(lipgloss.Right).Bold(true).PaddingRight(2)
	StatusHelp    = lipgloss.NewStyle().Foreground(Gray).Bold(true).Align(lipgloss.Center)
	StatusVersion = lipgloss.NewStyle().Foreground(Green).Bold(true).Align(lipgloss.Center)
	StatusUpdate  = lipgloss.NewStyle().Foreground(Yellow).Bold(true).PaddingRight(2)

	FocusTitle = lipgloss.NewStyle().Foreground(Purple).Bold(true)

	PanelLabel = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Align(lipgloss.Right).Width(16)
	PanelValue = lipgloss.NewStyle().Width(60)

	InfoMessage = lipgloss.NewStyle().Align(lipgloss.Center).Padding(1)

	HelpBox = lipgloss.NewStyle().Padding(3)
)

func DetailRow(label string, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		PanelLabel.Render(label+" "),
		PanelValue.Render(value))
}

// WrapX will wrap a centered string with the supplied character up to the length specified.
func WrapX(width int, value string, character string) string {
	all := width - lipgloss.Width(value)
	if all < 2 {
		return value
	}

	return strings.Repeat(character, all/2) + value + strings.Repeat(character, all/2)
}

func TitleBorder(border lipgloss.Border, width int, title string) lipgloss.Border {
	border.Top = WrapX(width, "┤"+title+"├", border.Top)

	return border
}
