package surface_test

import (
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/decktui/deck-tui/internal/guard"
	"github.com/decktui/deck-tui/internal/surface"
	"github.com/stretchr/testify/require"
)

const testPage = `<!DOCTYPE html>
<html>
<head>
  <title>Home / Deck</title>
  <meta name="description" content="Latest posts">
</head>
<body>
  <script>ignore_me();</script>
  <h1>Timeline</h1>
  <p>First   post
  body</p>
  <a href="/user/status/123">a post</a>
  <a href="https://elsewhere.example.com/page">offsite</a>
  <a href="#frag">skip</a>
</body>
</html>`

func TestNavigateSnapshot(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(testPage))
	}))
	defer server.Close()

	browser := surface.New(nil, 5*time.Second, "deck-tui-test")

	var mu sync.Mutex
	var events []string
	browser.OnSourceChanged(func(url string) {
		mu.Lock()
		events = append(events, url)
		mu.Unlock()
	})

	require.NoError(t, browser.Navigate(t.Context(), server.URL+"/home"))

	snap := browser.Current()
	require.Equal(t, "Home / Deck", snap.Title)
	require.Equal(t, "Latest posts", snap.Description)
	require.Equal(t, []string{"Timeline", "First post body"}, snap.Paragraphs)
	require.Len(t, snap.Links, 2)
	require.Equal(t, server.URL+"/user/status/123", snap.Links[0].URL)
	require.Equal(t, "a post", snap.Links[0].Text)
	require.Equal(t, "offsite", snap.Links[1].Text)
	require.False(t, snap.Blank())

	mu.Lock()
	require.Equal(t, []string{server.URL + "/home"}, events)
	mu.Unlock()
}

func TestNavigateFollowsRedirects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/new", http.StatusFound)
	})
	mux.HandleFunc("/new", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html><head><title>new</title></head><body></body></html>"))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	browser := surface.New(nil, 5*time.Second, "deck-tui-test")

	var mu sync.Mutex
	var last string
	browser.OnSourceChanged(func(url string) {
		mu.Lock()
		last = url
		mu.Unlock()
	})

	require.NoError(t, browser.Navigate(t.Context(), server.URL+"/old"))
	require.Equal(t, server.URL+"/new", browser.URL())

	mu.Lock()
	require.Equal(t, server.URL+"/new", last)
	mu.Unlock()
}

func TestNavigateErrorKeepsSnapshot(t *testing.T) {
	var failing bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if failing {
			w.WriteHeader(http.StatusInternalServerError)

			return
		}
		_, _ = w.Write([]byte("<html><head><title>ok</title></head><body></body></html>"))
	}))
	defer server.Close()

	browser := surface.New(nil, 5*time.Second, "deck-tui-test")
	require.NoError(t, browser.Navigate(t.Context(), server.URL))
	require.Equal(t, "ok", browser.Current().Title)

	failing = true
	require.ErrorIs(t, browser.Reload(t.Context()), surface.ErrBadState)
	require.Equal(t, "ok", browser.Current().Title)
}

func TestNavigateBlankPlaceholder(t *testing.T) {
	browser := surface.New(nil, 5*time.Second, "deck-tui-test")

	require.NoError(t, browser.Navigate(t.Context(), guard.BlankURL))
	require.Equal(t, guard.BlankURL, browser.URL())
	require.True(t, browser.Current().Blank())

	// Reload of a never-navigated surface is a no-op.
	fresh := surface.New(nil, 5*time.Second, "deck-tui-test")
	require.NoError(t, fresh.Reload(t.Context()))
}

func TestCookieJarRoundTrip(t *testing.T) {
	var mu sync.Mutex
	var sawCookie bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie("session"); err == nil && cookie.Value == "abc" {
			mu.Lock()
			sawCookie = true
			mu.Unlock()
		}
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "abc"})
		_, _ = w.Write([]byte("<html></html>"))
	}))
	defer server.Close()

	jar, errJar := cookiejar.New(nil)
	require.NoError(t, errJar)

	browser := surface.New(jar, 5*time.Second, "deck-tui-test")
	require.NoError(t, browser.Navigate(t.Context(), server.URL))
	require.NoError(t, browser.Reload(t.Context()))

	mu.Lock()
	defer mu.Unlock()
	require.True(t, sawCookie)
}
