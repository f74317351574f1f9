package deck_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/decktui/deck-tui/internal/deck"
	"github.com/stretchr/testify/require"
)

type fakeSurface struct {
	mu        sync.Mutex
	url       string
	navigated []string
	reloads   int
	onSource  func(url string)
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{}
}

func (f *fakeSurface) Navigate(_ context.Context, url string) error {
	f.mu.Lock()
	f.url = url
	f.navigated = append(f.navigated, url)
	fn := f.onSource
	f.mu.Unlock()

	if fn != nil {
		fn(url)
	}

	return nil
}

func (f *fakeSurface) Reload(_ context.Context) error {
	f.mu.Lock()
	f.reloads++
	f.mu.Unlock()

	return nil
}

func (f *fakeSurface) URL() string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.url
}

func (f *fakeSurface) OnSourceChanged(fn func(url string)) {
	f.mu.Lock()
	f.onSource = fn
	f.mu.Unlock()
}

// emit simulates the surface navigating on its own, eg. a redirect.
func (f *fakeSurface) emit(url string) {
	f.mu.Lock()
	f.url = url
	fn := f.onSource
	f.mu.Unlock()

	if fn != nil {
		fn(url)
	}
}

func (f *fakeSurface) reloadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.reloads
}

func TestColumnReconfigure(t *testing.T) {
	col := deck.NewColumn("https://x.com/home", true, 300, newFakeSurface())
	defer col.Dispose()

	require.Equal(t, 300, col.Remaining())
	require.True(t, col.TimerRunning())

	col.SetEnabled(false)
	require.Equal(t, 0, col.Remaining())
	require.False(t, col.TimerRunning())

	col.SetEnabled(true)
	require.Equal(t, 300, col.Remaining())
	require.True(t, col.TimerRunning())

	col.SetInterval(0)
	require.Equal(t, 0, col.Remaining())
	require.False(t, col.TimerRunning())
}

func TestColumnTickFloorsAtZero(t *testing.T) {
	col := deck.NewColumn("https://x.com/home", true, 10, newFakeSurface())
	defer col.Dispose()

	for range 5 {
		col.Tick()
	}
	require.Equal(t, 5, col.Remaining())

	for range 10 {
		col.Tick()
	}
	require.Equal(t, 0, col.Remaining())
}

func TestColumnTickDisabledNoop(t *testing.T) {
	col := deck.NewColumn("https://x.com/home", false, 10, newFakeSurface())
	defer col.Dispose()

	col.Tick()
	require.Equal(t, 0, col.Remaining())
}

func TestColumnDisplay(t *testing.T) {
	col := deck.NewColumn("https://x.com/home", true, 299, newFakeSurface())
	defer col.Dispose()

	require.Equal(t, "4:59", col.Display())

	col.SetInterval(61)
	require.Equal(t, "1:01", col.Display())

	col.SetEnabled(false)
	require.Empty(t, col.Display())

	col.SetEnabled(true)
	for range 61 {
		col.Tick()
	}
	require.Empty(t, col.Display())
}

func TestColumnReloadFiredRestartsCycle(t *testing.T) {
	surf := newFakeSurface()
	col := deck.NewColumn("https://x.com/home", true, 1, surf)
	defer col.Dispose()

	// The cycle restarts after the fire.
	require.Eventually(t, func() bool {
		return surf.reloadCount() >= 1 && col.TimerRunning() && col.Remaining() == 1
	}, 3*time.Second, 50*time.Millisecond)
}

func TestColumnDisposeIdempotent(t *testing.T) {
	col := deck.NewColumn("https://x.com/home", true, 300, newFakeSurface())

	col.Dispose()
	require.False(t, col.TimerRunning())
	require.Equal(t, 0, col.Remaining())

	col.Dispose()
	require.False(t, col.TimerRunning())
	require.Equal(t, 0, col.Remaining())

	// A disposed column ignores further ticks and reconfigures.
	col.Tick()
	require.Equal(t, 0, col.Remaining())
}

func TestColumnChangeNotification(t *testing.T) {
	surf := newFakeSurface()
	col := deck.NewColumn("https://x.com/home", true, 10, surf)
	defer col.Dispose()

	state := col.State()
	require.Equal(t, "https://x.com/home", state.URL)
	require.Equal(t, 10, state.Interval)
	require.Equal(t, 10, state.Remaining)
	require.Equal(t, "0:10", state.Display)

	col.Tick()
	require.Equal(t, 9, col.State().Remaining)
}

func TestRefreshTimerStopStart(t *testing.T) {
	fired := make(chan struct{}, 8)
	timer := deck.NewRefreshTimer(func() { fired <- struct{}{} })

	timer.Start(1)
	require.True(t, timer.IsRunning())

	timer.Stop()
	require.False(t, timer.IsRunning())

	select {
	case <-fired:
		t.Fatal("stopped timer fired")
	case <-time.After(1200 * time.Millisecond):
	}

	timer.Dispose()
	timer.Dispose()
	timer.Start(1)
	require.False(t, timer.IsRunning())
}
