package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/decktui/deck-tui/internal/config"
	"github.com/decktui/deck-tui/internal/deck"
	"github.com/decktui/deck-tui/internal/profile"
	"github.com/decktui/deck-tui/internal/session"
	"github.com/decktui/deck-tui/internal/store"
	"github.com/decktui/deck-tui/internal/ui"
	"github.com/decktui/deck-tui/internal/update"
)

type geometry struct {
	width  int
	height int
}

// App is the main application container. It owns the two tickers that drive
// everything periodic: the 1s countdown tick and the session autosave.
type App struct {
	ui            *ui.UI
	config        config.Config
	deck          *deck.Deck
	sessions      *session.Manager
	jar           *profile.Jar
	store         *store.Store
	configUpdates chan config.Config
	uiUpdates     chan any
	lastGeometry  atomic.Value
}

// NewApp returns a new application instance. To actually start the app you
// must call Start().
func NewApp(conf config.Config, columns *deck.Deck, sessions *session.Manager, jar *profile.Jar,
	deckStore *store.Store, configUpdates chan config.Config,
) *App {
	app := &App{
		config:        conf,
		deck:          columns,
		sessions:      sessions,
		jar:           jar,
		store:         deckStore,
		configUpdates: configUpdates,
		uiUpdates:     make(chan any),
	}
	app.lastGeometry.Store(geometry{})

	return app
}

// Start brings up the background goroutines and runs the main event loop
// until the UI exits or the context is cancelled.
func (app *App) Start(ctx context.Context, done <-chan any) {
	go app.uiSender(ctx)
	go app.checkForUpdate(ctx)

	countdown := time.NewTicker(time.Second)
	defer countdown.Stop()

	var autosaveC <-chan time.Time
	if app.config.AutosaveSeconds > 0 {
		autosave := time.NewTicker(time.Duration(app.config.AutosaveSeconds) * time.Second)
		defer autosave.Stop()
		autosaveC = autosave.C
	}

	for {
		select {
		case <-countdown.C:
			app.deck.TickCountdowns()
		case <-autosaveC:
			app.saveSession(ctx)
		case conf := <-app.configUpdates:
			// Domain and marker changes take effect on restart; everything
			// else applies immediately.
			app.config = conf
			app.uiUpdates <- conf
		case <-ctx.Done():
			app.saveSession(context.Background())

			return
		case <-done:
			app.saveSession(context.Background())

			return
		}
	}
}

// uiSender handles forwarding all events to the UI.
func (app *App) uiSender(ctx context.Context) {
	for {
		select {
		case msg := <-app.uiUpdates:
			if app.ui != nil {
				app.ui.Send(msg)
			}
		case <-ctx.Done():
			return
		}
	}
}

// restoreSession rebuilds the deck from the stored snapshot, or seeds it from
// the configured home URLs on first run.
func (app *App) restoreSession(ctx context.Context) error {
	snapshot, errLoad := app.sessions.Load(ctx)
	if errLoad != nil {
		if !errors.Is(errLoad, store.ErrNotFound) {
			return errLoad
		}

		snapshot = session.Snapshot{Mode: deck.ModeGrid.String()}
		for _, url := range app.config.HomeURLs {
			snapshot.Columns = append(snapshot.Columns, session.ColumnSnapshot{
				URL:             url,
				AutoRefresh:     app.config.DefaultIntervalSeconds > 0,
				IntervalSeconds: app.config.DefaultIntervalSeconds,
			})
		}
	}

	app.lastGeometry.Store(geometry{width: snapshot.Width, height: snapshot.Height})

	return session.Restore(ctx, app.deck, snapshot)
}

func (app *App) saveSession(ctx context.Context) {
	geo, _ := app.lastGeometry.Load().(geometry)

	snapshot := session.FromState(app.sessions.Profile(), app.deck.State(), geo.width, geo.height)
	if err := app.sessions.Save(ctx, snapshot); err != nil {
		slog.Error("Failed to save session", slog.String("error", err.Error()))
	}

	if err := app.store.SaveCookies(ctx, app.sessions.Profile(), app.jar.Export()); err != nil {
		slog.Error("Failed to save cookies", slog.String("error", err.Error()))
	}
}

const recentVisitLimit = 5

// recentVisits backs the help page's visit list.
func (app *App) recentVisits(ctx context.Context) ([]store.HistoryRow, error) {
	return app.store.RecentHistory(ctx, app.sessions.Profile(), recentVisitLimit)
}

// recordVisit is wired as the deck's visit hook and writes history rows off
// the caller's goroutine.
func (app *App) recordVisit(url string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := app.store.AddHistory(ctx, app.sessions.Profile(), url, time.Now()); err != nil {
			slog.Warn("Failed to record visit", slog.String("error", err.Error()))
		}
	}()
}

// checkForUpdate runs the non blocking release check at startup.
func (app *App) checkForUpdate(ctx context.Context) {
	if !app.config.UpdateCheckEnabled || app.config.UpdateCheckURL == "" {
		return
	}

	checkCtx, cancel := context.WithTimeout(ctx, config.DefaultHTTPTimeout)
	defer cancel()

	client := &http.Client{Timeout: config.DefaultHTTPTimeout}
	release, newer, errCheck := update.Check(checkCtx, client, app.config.UpdateCheckURL, BuildVersion)
	if errCheck != nil {
		slog.Warn("Update check failed", slog.String("error", errCheck.Error()))

		return
	}

	if newer {
		app.uiUpdates <- ui.UpdateNoticeMsg{Version: release.TagName, URL: release.HTMLURL}
	}
}

func (app *App) onResize(width int, height int) {
	app.lastGeometry.Store(geometry{width: width, height: height})
}

func (app *App) createUI(ctx context.Context, loader ui.ConfigWriter) *ui.UI {
	if app.ui == nil {
		app.ui = ui.New(ctx, app.config, app.deck, loader, app.onResize, app.recentVisits, BuildVersion, BuildDate, BuildCommit)
	}

	return app.ui
}
