// Package session saves and restores the deck between runs.
package session

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/decktui/deck-tui/internal/deck"
	"github.com/decktui/deck-tui/internal/store"
	"github.com/google/uuid"
)

var (
	ErrLoad    = errors.New("failed to load session")
	ErrSave    = errors.New("failed to save session")
	ErrRestore = errors.New("failed to restore session")
)

// Snapshot is the restorable shape of a deck. Countdown positions are not
// part of it, restored columns always begin a fresh cycle.
type Snapshot struct {
	Profile  string           `json:"profile"`
	Mode     string           `json:"mode"`
	FocusURL string           `json:"focus_url,omitempty"`
	Width    int              `json:"width"`
	Height   int              `json:"height"`
	SavedOn  time.Time        `json:"saved_on"`
	Columns  []ColumnSnapshot `json:"columns"`
}

type ColumnSnapshot struct {
	URL             string `json:"url"`
	AutoRefresh     bool   `json:"auto_refresh"`
	IntervalSeconds int    `json:"interval_seconds"`
}

// FromState reduces live deck state to a snapshot.
func FromState(profile string, state deck.State, width int, height int) Snapshot {
	snapshot := Snapshot{
		Profile: profile,
		Mode:    state.Mode.String(),
		Width:   width,
		Height:  height,
		SavedOn: time.Now(),
		Columns: make([]ColumnSnapshot, 0, len(state.Columns)),
	}

	if state.Mode == deck.ModeFocus {
		snapshot.FocusURL = state.FocusURL
	}

	for _, column := range state.Columns {
		snapshot.Columns = append(snapshot.Columns, ColumnSnapshot{
			URL:             column.URL,
			AutoRefresh:     column.Enabled,
			IntervalSeconds: column.Interval,
		})
	}

	return snapshot
}

// Manager loads and saves snapshots for a single profile.
type Manager struct {
	store   *store.Store
	profile string
}

func NewManager(sessionStore *store.Store, profile string) *Manager {
	return &Manager{store: sessionStore, profile: profile}
}

func (m *Manager) Profile() string {
	return m.profile
}

// Load reads the stored snapshot. A profile that was never saved returns
// store.ErrNotFound, callers treat that as a first run.
func (m *Manager) Load(ctx context.Context) (Snapshot, error) {
	row, errRow := m.store.Session(ctx, m.profile)
	if errRow != nil {
		if errors.Is(errRow, store.ErrNotFound) {
			return Snapshot{}, errRow
		}

		return Snapshot{}, errors.Join(errRow, ErrLoad)
	}

	snapshot := Snapshot{
		Profile:  row.Profile,
		Mode:     row.Mode,
		FocusURL: row.FocusURL,
		Width:    row.Width,
		Height:   row.Height,
		SavedOn:  row.SavedOn,
		Columns:  make([]ColumnSnapshot, 0, len(row.Columns)),
	}

	for _, column := range row.Columns {
		snapshot.Columns = append(snapshot.Columns, ColumnSnapshot{
			URL:             column.URL,
			AutoRefresh:     column.AutoRefresh,
			IntervalSeconds: column.IntervalSeconds,
		})
	}

	return snapshot, nil
}

// Save writes the snapshot, replacing any previous one for the profile.
func (m *Manager) Save(ctx context.Context, snapshot Snapshot) error {
	row := store.SessionRow{
		Profile:  m.profile,
		Mode:     snapshot.Mode,
		FocusURL: snapshot.FocusURL,
		Width:    snapshot.Width,
		Height:   snapshot.Height,
		SavedOn:  snapshot.SavedOn,
		Columns:  make([]store.ColumnRow, 0, len(snapshot.Columns)),
	}

	if row.SavedOn.IsZero() {
		row.SavedOn = time.Now()
	}

	for position, column := range snapshot.Columns {
		row.Columns = append(row.Columns, store.ColumnRow{
			Position:        position,
			URL:             column.URL,
			AutoRefresh:     column.AutoRefresh,
			IntervalSeconds: column.IntervalSeconds,
		})
	}

	if errSave := m.store.SaveSession(ctx, row); errSave != nil {
		return errors.Join(errSave, ErrSave)
	}

	return nil
}

// Restore applies a snapshot onto an empty deck. Columns whose URLs no longer
// pass the guard are skipped with a warning rather than failing the whole
// restore. A snapshot saved in focus mode re-enters focus on its URL with no
// remembered column; exiting focus then resumes the grid without a redundant
// re-navigation.
func Restore(ctx context.Context, target *deck.Deck, snapshot Snapshot) error {
	for _, column := range snapshot.Columns {
		if _, errAdd := target.AddColumn(ctx, column.URL, column.AutoRefresh, column.IntervalSeconds); errAdd != nil {
			slog.Warn("Skipping restored column", slog.String("url", column.URL),
				slog.String("error", errAdd.Error()))
		}
	}

	if deck.ParseMode(snapshot.Mode) == deck.ModeFocus && snapshot.FocusURL != "" {
		if errFocus := target.EnterFocus(ctx, snapshot.FocusURL, uuid.Nil); errFocus != nil {
			return errors.Join(errFocus, ErrRestore)
		}
	}

	return nil
}
