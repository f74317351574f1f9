// Package ui renders the deck with bubbletea. All deck mutations happen
// through commands; fresh deck state arrives back as messages via Send.
package ui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/decktui/deck-tui/internal/config"
	"github.com/decktui/deck-tui/internal/deck"
	"github.com/decktui/deck-tui/internal/store"
	zone "github.com/lrstanley/bubblezone"
)

const (
	clearMessageTimeout = time.Second * 10
	deckOpTimeout       = time.Second * 20
)

var ErrUIExit = errors.New("ui error returned")

type page int

const (
	pageDeck page = iota
	pageConfig
	pageHelp
)

// ConfigWriter is the part of the config loader the UI needs for the
// settings page.
type ConfigWriter interface {
	Write(config.Config) error
	Path() string
}

// HistoryFunc supplies the most recent visits for the active profile, shown
// on the help page.
type HistoryFunc func(ctx context.Context) ([]store.HistoryRow, error)

type UI struct {
	program *tea.Program
}

// New builds the tea program. onResize, when non nil, is told about terminal
// size changes so the session store can remember the geometry.
func New(ctx context.Context, userConfig config.Config, controller *deck.Deck, loader ConfigWriter,
	onResize func(width int, height int), history HistoryFunc,
	buildVersion string, buildDate string, buildCommit string,
) *UI {
	zone.NewGlobal()

	return &UI{
		program: tea.NewProgram(
			newRootModel(userConfig, controller, loader, onResize, history, buildVersion, buildDate, buildCommit),
			tea.WithMouseCellMotion(),
			tea.WithAltScreen(),
			tea.WithContext(ctx),
			tea.WithFPS(30)),
	}
}

func (t UI) Run() error {
	if _, err := t.program.Run(); err != nil {
		return errors.Join(err, ErrUIExit)
	}

	return nil
}

func (t UI) Send(msg tea.Msg) {
	t.program.Send(msg)
}
