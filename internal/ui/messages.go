package ui

import (
	"context"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/decktui/deck-tui/internal/config"
	"github.com/decktui/deck-tui/internal/deck"
	"github.com/decktui/deck-tui/internal/store"
	"github.com/google/uuid"
)

type clearStatusMessageMsg struct{}

func clearErrorAfter(t time.Duration) tea.Cmd {
	return tea.Tick(t, func(_ time.Time) tea.Msg {
		return clearStatusMessageMsg{}
	})
}

type statusMsg struct {
	Message string
	Err     bool
}

func setStatusMessage(msg string, err bool) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{Message: msg, Err: err}
	}
}

func setContentView(view page) tea.Cmd {
	return func() tea.Msg { return view }
}

func setConfig(userConfig config.Config) tea.Cmd {
	return func() tea.Msg { return userConfig }
}

// UpdateNoticeMsg is sent by the app when the startup release check found a
// newer published version.
type UpdateNoticeMsg struct {
	Version string
	URL     string
}

// contentSizeMsg carries the size of the content area between header and
// footer, recomputed on every terminal resize.
type contentSizeMsg struct {
	width  int
	height int
}

// historyMsg delivers the recent visits fetched for the help page.
type historyMsg []store.HistoryRow

func loadHistory(history HistoryFunc) tea.Cmd {
	if history == nil {
		return nil
	}

	return func() tea.Msg {
		ctx, cancel := deckCtx()
		defer cancel()

		visits, err := history(ctx)
		if err != nil {
			slog.Warn("Failed to load history", slog.String("error", err.Error()))

			return nil
		}

		return historyMsg(visits)
	}
}

func deckCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), deckOpTimeout)
}

// The deck command wrappers below mutate the deck off the ui loop. Results
// come back asynchronously as deck.State messages through UI.Send; only
// failures produce an immediate statusMsg.

func openLink(controller *deck.Deck, columnID uuid.UUID, url string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := deckCtx()
		defer cancel()

		if err := controller.OpenLink(ctx, columnID, url); err != nil {
			return statusMsg{Message: "Blocked: " + url, Err: true}
		}

		return nil
	}
}

func exitFocus(controller *deck.Deck) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := deckCtx()
		defer cancel()

		controller.ExitFocus(ctx)

		return nil
	}
}

func refreshColumn(controller *deck.Deck, columnID uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		col, found := controller.Column(columnID)
		if !found {
			return nil
		}

		ctx, cancel := deckCtx()
		defer cancel()

		if err := col.Reload(ctx); err != nil {
			return statusMsg{Message: "Refresh failed: " + err.Error(), Err: true}
		}

		return statusMsg{Message: "Refreshed " + col.URL(), Err: false}
	}
}

func refreshAll(controller *deck.Deck) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := deckCtx()
		defer cancel()

		if err := controller.RefreshAll(ctx); err != nil {
			return statusMsg{Message: "Refresh failed: " + err.Error(), Err: true}
		}

		return statusMsg{Message: "Refreshed all columns", Err: false}
	}
}

func addColumn(controller *deck.Deck, url string, intervalSeconds int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := deckCtx()
		defer cancel()

		if _, err := controller.AddColumn(ctx, url, intervalSeconds > 0, intervalSeconds); err != nil {
			return statusMsg{Message: "Cannot add column: " + url, Err: true}
		}

		return statusMsg{Message: "Added " + url, Err: false}
	}
}

func removeColumn(controller *deck.Deck, columnID uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		if !controller.RemoveColumn(columnID) {
			return nil
		}

		return statusMsg{Message: "Column removed", Err: false}
	}
}

func toggleColumn(controller *deck.Deck, columnID uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		col, found := controller.Column(columnID)
		if !found {
			return nil
		}

		col.SetEnabled(!col.Enabled())

		return nil
	}
}

func adjustInterval(controller *deck.Deck, columnID uuid.UUID, deltaSeconds int) tea.Cmd {
	return func() tea.Msg {
		col, found := controller.Column(columnID)
		if !found {
			return nil
		}

		col.SetInterval(col.Interval() + deltaSeconds)

		return nil
	}
}

// logMsg is useful for debugging events. Tail the log file ~/.config/deck-tui/deck-tui.log
func logMsg(inMsg tea.Msg) {
	// Filter out very noisy stuff
	switch inMsg.(type) {
	case deck.State:
	case tea.MouseMsg:
	default:
		slog.Debug("tea.Msg", slog.Any("msg", inMsg))
	}
}
