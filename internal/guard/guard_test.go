package guard_test

import (
	"testing"

	"github.com/decktui/deck-tui/internal/guard"
	"github.com/stretchr/testify/require"
)

func newTestGuard() guard.Guard {
	return guard.New(
		[]string{"x.com", "twitter.com"},
		[]string{"/status/", "/compose/", "/intent/"})
}

func TestClassifyRestingURLs(t *testing.T) {
	g := newTestGuard()

	require.True(t, g.Classify("https://x.com/home", false))
	require.True(t, g.Classify("https://twitter.com/explore", false))
	require.True(t, g.Classify("https://mobile.x.com/home", false))

	// Detail links are not resting URLs.
	require.False(t, g.Classify("https://x.com/user/status/123", false))
	require.True(t, g.Classify("https://x.com/user/status/123", true))
	require.True(t, g.Classify("https://x.com/intent/post?text=hi", true))
}

func TestClassifyApexBoundary(t *testing.T) {
	g := newTestGuard()

	require.False(t, g.Classify("https://evilx.com/home", false))
	require.False(t, g.Classify("https://nottwitter.com/home", false))
	require.False(t, g.Classify("https://x.com.evil.net/home", false))
	require.True(t, g.Classify("https://api.x.com/home", false))
}

func TestClassifySchemes(t *testing.T) {
	g := newTestGuard()

	require.True(t, g.Classify(guard.BlankURL, false))
	require.True(t, g.Classify(guard.BlankURL, true))
	require.True(t, g.Classify("extension://toolbar/panel.html", false))
	require.False(t, g.Classify("javascript:alert(1)", false))
	require.False(t, g.Classify("data:text/html,hello", false))
	require.False(t, g.Classify("ftp://x.com/file", false))
}

func TestClassifyMalformed(t *testing.T) {
	g := newTestGuard()

	require.False(t, g.Classify("http://[::1", false))
	require.False(t, g.Classify("", false))
	require.False(t, g.Classify("https://", false))
}

func TestFocusWorthy(t *testing.T) {
	g := newTestGuard()

	require.True(t, g.FocusWorthy("https://x.com/user/status/123"))
	require.False(t, g.FocusWorthy("https://x.com/home"))
	require.False(t, g.FocusWorthy(guard.BlankURL))
	require.False(t, g.FocusWorthy("extension://toolbar/panel.html"))
	require.False(t, g.FocusWorthy("https://evilx.com/user/status/123"))
}

func TestZeroGuardBlocks(t *testing.T) {
	var g guard.Guard

	require.False(t, g.Classify("https://x.com/home", false))
	require.True(t, g.Classify(guard.BlankURL, false))
}
