package session_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/decktui/deck-tui/internal/deck"
	"github.com/decktui/deck-tui/internal/guard"
	"github.com/decktui/deck-tui/internal/session"
	"github.com/decktui/deck-tui/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func newManager(t *testing.T, profile string) *session.Manager {
	t.Helper()

	database, errOpen := store.Open(t.Context(), "", true)
	require.NoError(t, errOpen)
	t.Cleanup(func() {
		_ = database.Close()
	})

	return session.NewManager(store.New(database), profile)
}

func TestManagerRoundTrip(t *testing.T) {
	manager := newManager(t, "default")
	ctx := t.Context()

	_, errFirst := manager.Load(ctx)
	require.ErrorIs(t, errFirst, store.ErrNotFound)

	saved := session.Snapshot{
		Mode:    deck.ModeGrid.String(),
		Width:   160,
		Height:  50,
		SavedOn: time.Now().Truncate(time.Second),
		Columns: []session.ColumnSnapshot{
			{URL: "https://x.com/home", AutoRefresh: true, IntervalSeconds: 300},
			{URL: "https://x.com/notifications", AutoRefresh: false, IntervalSeconds: 60},
		},
	}
	require.NoError(t, manager.Save(ctx, saved))

	loaded, errLoad := manager.Load(ctx)
	require.NoError(t, errLoad)
	require.Equal(t, "default", loaded.Profile)
	require.Equal(t, saved.Columns, loaded.Columns)
	require.Equal(t, 160, loaded.Width)
}

type stubSurface struct {
	mu       sync.Mutex
	url      string
	navs     int
	onSource func(url string)
}

func (s *stubSurface) Navigate(_ context.Context, url string) error {
	s.mu.Lock()
	s.url = url
	s.navs++
	fn := s.onSource
	s.mu.Unlock()

	if fn != nil {
		fn(url)
	}

	return nil
}

func (s *stubSurface) navigations() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.navs
}

func (s *stubSurface) Reload(_ context.Context) error { return nil }

func (s *stubSurface) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.url
}

func (s *stubSurface) OnSourceChanged(fn func(url string)) {
	s.mu.Lock()
	s.onSource = fn
	s.mu.Unlock()
}

func newTestDeck() *deck.Deck {
	navGuard := guard.New([]string{"x.com"}, []string{"/status/"})

	return deck.New(navGuard, func() deck.Surface { return &stubSurface{} })
}

func TestRestoreGrid(t *testing.T) {
	target := newTestDeck()
	defer target.Close()

	snapshot := session.Snapshot{
		Mode: deck.ModeGrid.String(),
		Columns: []session.ColumnSnapshot{
			{URL: "https://x.com/home", AutoRefresh: true, IntervalSeconds: 120},
			{URL: "https://blocked.example.com/", AutoRefresh: true, IntervalSeconds: 60},
			{URL: "https://x.com/explore", AutoRefresh: false, IntervalSeconds: 300},
		},
	}
	require.NoError(t, session.Restore(t.Context(), target, snapshot))

	// The blocked column is skipped, the rest come back in order.
	cols := target.Columns()
	require.Len(t, cols, 2)
	require.Equal(t, "https://x.com/home", cols[0].URL())
	require.Equal(t, 120, cols[0].Remaining())
	require.Equal(t, "https://x.com/explore", cols[1].URL())
	require.Equal(t, deck.ModeGrid, target.Mode())
}

func TestRestoreFocus(t *testing.T) {
	target := newTestDeck()
	defer target.Close()

	snapshot := session.Snapshot{
		Mode:     deck.ModeFocus.String(),
		FocusURL: "https://x.com/user/status/123",
		Columns: []session.ColumnSnapshot{
			{URL: "https://x.com/home", AutoRefresh: true, IntervalSeconds: 300},
		},
	}
	require.NoError(t, session.Restore(t.Context(), target, snapshot))
	require.Equal(t, deck.ModeFocus, target.Mode())
	require.False(t, target.Columns()[0].TimerRunning())

	// A restored focus URL remembers no column, so leaving focus must not
	// re-navigate any of them.
	require.Equal(t, uuid.Nil, target.State().ReturnColumn)
	col := target.Columns()[0]
	navsBefore := col.Surface().(*stubSurface).navigations()
	target.ExitFocus(t.Context())
	require.Equal(t, deck.ModeGrid, target.Mode())
	require.Equal(t, navsBefore, col.Surface().(*stubSurface).navigations())
	require.True(t, col.TimerRunning())
}

func TestRestoreRejectsNonFocusURL(t *testing.T) {
	target := newTestDeck()
	defer target.Close()

	snapshot := session.Snapshot{
		Mode:     deck.ModeFocus.String(),
		FocusURL: "https://x.com/home",
	}
	require.ErrorIs(t, session.Restore(t.Context(), target, snapshot), session.ErrRestore)
}

func TestFromState(t *testing.T) {
	target := newTestDeck()
	defer target.Close()

	_, errAdd := target.AddColumn(t.Context(), "https://x.com/home", true, 300)
	require.NoError(t, errAdd)

	snapshot := session.FromState("work", target.State(), 120, 40)
	require.Equal(t, "work", snapshot.Profile)
	require.Equal(t, deck.ModeGrid.String(), snapshot.Mode)
	require.Empty(t, snapshot.FocusURL)
	require.Len(t, snapshot.Columns, 1)
	require.Equal(t, session.ColumnSnapshot{URL: "https://x.com/home", AutoRefresh: true, IntervalSeconds: 300}, snapshot.Columns[0])
}

func TestSealedExportRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.deck")

	export := session.ExportFile{
		Session: session.Snapshot{
			Profile: "default",
			Mode:    deck.ModeGrid.String(),
			Columns: []session.ColumnSnapshot{{URL: "https://x.com/home", AutoRefresh: true, IntervalSeconds: 300}},
		},
		Cookies: []store.CookieRow{{Host: "x.com", Name: "session", Value: "abc", Path: "/"}},
	}

	require.NoError(t, session.Export(path, export, "hunter2"))

	_, errWrong := session.Import(path, "wrong")
	require.ErrorIs(t, errWrong, session.ErrPassphrase)

	imported, errImport := session.Import(path, "hunter2")
	require.NoError(t, errImport)
	require.Equal(t, export.Session.Columns, imported.Session.Columns)
	require.Equal(t, export.Cookies, imported.Cookies)
}

func TestPlainExportRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")

	export := session.ExportFile{
		Session: session.Snapshot{Profile: "default", Mode: deck.ModeGrid.String()},
	}

	require.NoError(t, session.Export(path, export, ""))

	imported, errImport := session.Import(path, "")
	require.NoError(t, errImport)
	require.Equal(t, "default", imported.Session.Profile)
}
