package store_test

import (
	"testing"
	"time"

	"github.com/decktui/deck-tui/internal/store"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	database, errOpen := store.Open(t.Context(), "", true)
	require.NoError(t, errOpen)
	t.Cleanup(func() {
		_ = database.Close()
	})

	return store.New(database)
}

func TestSessionRoundTrip(t *testing.T) {
	testStore := newTestStore(t)
	ctx := t.Context()

	_, errMissing := testStore.Session(ctx, "default")
	require.ErrorIs(t, errMissing, store.ErrNotFound)

	saved := store.SessionRow{
		Profile:  "default",
		Mode:     "grid",
		FocusURL: "",
		Width:    120,
		Height:   40,
		SavedOn:  time.Now().Truncate(time.Second),
		Columns: []store.ColumnRow{
			{Position: 0, URL: "https://x.com/home", AutoRefresh: true, IntervalSeconds: 300},
			{Position: 1, URL: "https://x.com/notifications", AutoRefresh: false, IntervalSeconds: 120},
		},
	}
	require.NoError(t, testStore.SaveSession(ctx, saved))

	loaded, errLoad := testStore.Session(ctx, "default")
	require.NoError(t, errLoad)
	require.Equal(t, saved.Columns, loaded.Columns)
	require.Equal(t, 120, loaded.Width)

	// Saving again replaces columns rather than appending.
	saved.Columns = saved.Columns[:1]
	require.NoError(t, testStore.SaveSession(ctx, saved))

	loaded, errLoad = testStore.Session(ctx, "default")
	require.NoError(t, errLoad)
	require.Len(t, loaded.Columns, 1)
}

func TestProfilesSeparate(t *testing.T) {
	testStore := newTestStore(t)
	ctx := t.Context()

	for _, profile := range []string{"work", "personal"} {
		require.NoError(t, testStore.SaveSession(ctx, store.SessionRow{
			Profile: profile,
			Mode:    "grid",
			SavedOn: time.Now(),
			Columns: []store.ColumnRow{{Position: 0, URL: "https://x.com/home", AutoRefresh: true, IntervalSeconds: 300}},
		}))
	}

	profiles, errProfiles := testStore.Profiles(ctx)
	require.NoError(t, errProfiles)
	require.Equal(t, []string{"personal", "work"}, profiles)
}

func TestCookieRoundTrip(t *testing.T) {
	testStore := newTestStore(t)
	ctx := t.Context()

	cookies := []store.CookieRow{
		{Host: "x.com", Name: "session", Value: "abc", Path: "/", Secure: true, HTTPOnly: true},
		{Host: "x.com", Name: "stale", Value: "old", Path: "/", Expires: time.Now().Add(-time.Hour)},
		{Host: "twitter.com", Name: "pref", Value: "1", Path: "/", Expires: time.Now().Add(time.Hour).Truncate(time.Second)},
	}
	require.NoError(t, testStore.SaveCookies(ctx, "default", cookies))

	loaded, errLoad := testStore.Cookies(ctx, "default")
	require.NoError(t, errLoad)

	// The expired cookie is dropped on load.
	require.Len(t, loaded, 2)
	names := []string{loaded[0].Name, loaded[1].Name}
	require.NotContains(t, names, "stale")

	// Other profiles see nothing.
	other, errOther := testStore.Cookies(ctx, "work")
	require.NoError(t, errOther)
	require.Empty(t, other)
}

func TestHistory(t *testing.T) {
	testStore := newTestStore(t)
	ctx := t.Context()

	base := time.Now().Truncate(time.Second)
	for i, url := range []string{"https://x.com/a", "https://x.com/b", "https://x.com/c"} {
		require.NoError(t, testStore.AddHistory(ctx, "default", url, base.Add(time.Duration(i)*time.Second)))
	}

	visits, errVisits := testStore.RecentHistory(ctx, "default", 2)
	require.NoError(t, errVisits)
	require.Len(t, visits, 2)
	require.Equal(t, "https://x.com/c", visits[0].URL)
	require.Equal(t, "https://x.com/b", visits[1].URL)
}
