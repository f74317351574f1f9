package deck

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type countingSurface struct {
	reloads int
}

func (s *countingSurface) Navigate(_ context.Context, _ string) error { return nil }

func (s *countingSurface) Reload(_ context.Context) error {
	s.reloads++

	return nil
}

func (s *countingSurface) URL() string { return "" }

func (s *countingSurface) OnSourceChanged(_ func(url string)) {}

// A timer firing that races disposal must not reload or restart the cycle.
func TestReloadFiredAfterDispose(t *testing.T) {
	surf := &countingSurface{}
	col := NewColumn("https://x.com/home", true, 60, surf)
	require.Equal(t, 60, col.Remaining())

	col.Dispose()
	col.onReloadFired()

	require.Equal(t, 0, surf.reloads)
	require.Equal(t, 0, col.Remaining())
	require.False(t, col.TimerRunning())
}
