package update_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/decktui/deck-tui/internal/update"
	"github.com/stretchr/testify/require"
)

func TestCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"tag_name": "v1.2.0", "name": "v1.2.0", "html_url": "https://example.com/releases/v1.2.0"}`))
	}))
	defer server.Close()

	release, newer, errCheck := update.Check(t.Context(), server.Client(), server.URL, "v1.1.0")
	require.NoError(t, errCheck)
	require.True(t, newer)
	require.Equal(t, "v1.2.0", release.TagName)

	_, newer, errCheck = update.Check(t.Context(), server.Client(), server.URL, "1.2.0")
	require.NoError(t, errCheck)
	require.False(t, newer)
}

func TestCheckSkipsDevBuilds(t *testing.T) {
	_, newer, errCheck := update.Check(t.Context(), http.DefaultClient, "http://127.0.0.1:1/releases", "dev")
	require.NoError(t, errCheck)
	require.False(t, newer)
}

func TestCheckBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, _, errCheck := update.Check(t.Context(), server.Client(), server.URL, "v1.0.0")
	require.ErrorIs(t, errCheck, update.ErrCheck)
}
