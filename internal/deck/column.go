package deck

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

const reloadTimeout = 15 * time.Second

// Surface is the minimal browsing surface contract the deck needs. The
// concrete implementation lives in internal/surface; tests use fakes.
type Surface interface {
	Navigate(ctx context.Context, url string) error
	Reload(ctx context.Context) error
	URL() string
	OnSourceChanged(fn func(url string))
}

// Column is one browsing surface with its own resting URL and auto refresh
// configuration. The countdown fields are display state only; the actual
// reload is driven by the column's RefreshTimer.
type Column struct {
	id uuid.UUID

	mu            sync.Mutex
	url           string
	enabled       bool
	interval      int
	remaining     int
	lastRefreshed time.Time
	timer         *RefreshTimer
	surface       Surface
	onChange      func()
}

func NewColumn(url string, enabled bool, intervalSeconds int, surface Surface) *Column {
	col := &Column{
		id:       uuid.New(),
		url:      url,
		enabled:  enabled,
		interval: max(0, intervalSeconds),
		surface:  surface,
	}
	col.timer = NewRefreshTimer(col.onReloadFired)
	col.reconfigureLocked()

	return col
}

func (c *Column) ID() uuid.UUID {
	return c.id
}

func (c *Column) URL() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.url
}

// Surface returns the column's browsing surface, nil once disposed.
func (c *Column) Surface() Surface {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.surface
}

func (c *Column) Enabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.enabled
}

func (c *Column) Interval() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.interval
}

func (c *Column) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.remaining
}

func (c *Column) SetEnabled(enabled bool) {
	c.mu.Lock()
	c.enabled = enabled
	c.reconfigureLocked()
	c.mu.Unlock()

	c.notify()
}

func (c *Column) SetInterval(seconds int) {
	c.mu.Lock()
	c.interval = max(0, seconds)
	c.reconfigureLocked()
	c.mu.Unlock()

	c.notify()
}

// Reconfigure resets the countdown and restarts or stops the timer according
// to the current enabled/interval configuration.
func (c *Column) Reconfigure() {
	c.mu.Lock()
	c.reconfigureLocked()
	c.mu.Unlock()

	c.notify()
}

func (c *Column) reconfigureLocked() {
	if c.timer == nil {
		return
	}

	if c.enabled && c.interval > 0 {
		c.remaining = c.interval
		c.timer.Start(c.interval)

		return
	}

	c.remaining = 0
	c.timer.Stop()
}

// Tick decrements the countdown by one second, flooring at zero. Called once
// per elapsed second by the deck's countdown driver, never by the timer.
func (c *Column) Tick() {
	c.mu.Lock()
	changed := false
	if c.enabled && c.remaining > 0 {
		c.remaining--
		changed = true
	}
	c.mu.Unlock()

	if changed {
		c.notify()
	}
}

// TimerRunning reports whether the reload timer is currently armed.
func (c *Column) TimerRunning() bool {
	c.mu.Lock()
	timer := c.timer
	c.mu.Unlock()

	return timer != nil && timer.IsRunning()
}

// StopTimer suspends the reload timer without touching the enabled/interval
// configuration. Used when entering focus mode.
func (c *Column) StopTimer() {
	c.mu.Lock()
	timer := c.timer
	c.mu.Unlock()

	if timer != nil {
		timer.Stop()
	}
}

// Navigate points the column at a new resting URL and restarts its cycle.
func (c *Column) Navigate(ctx context.Context, url string) error {
	c.mu.Lock()
	surf := c.surface
	c.mu.Unlock()

	if surf == nil {
		return nil
	}

	if err := surf.Navigate(ctx, url); err != nil {
		return err
	}

	c.mu.Lock()
	c.url = url
	c.lastRefreshed = time.Now()
	c.reconfigureLocked()
	c.mu.Unlock()

	c.notify()

	return nil
}

// Reload refreshes the surface in place and resets the countdown.
func (c *Column) Reload(ctx context.Context) error {
	c.mu.Lock()
	surf := c.surface
	c.mu.Unlock()

	if surf == nil {
		return nil
	}

	if err := surf.Reload(ctx); err != nil {
		return err
	}

	c.mu.Lock()
	c.lastRefreshed = time.Now()
	c.reconfigureLocked()
	c.mu.Unlock()

	c.notify()

	return nil
}

// onReloadFired runs when the refresh timer elapses. Reload failures are
// logged and swallowed; the countdown cycle restarts either way. A firing
// that races Dispose finds the surface gone and must not revive the cycle.
func (c *Column) onReloadFired() {
	c.mu.Lock()
	surf := c.surface
	c.mu.Unlock()

	if surf == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), reloadTimeout)
	if err := surf.Reload(ctx); err != nil {
		slog.Warn("Column reload failed", slog.String("error", err.Error()),
			slog.String("column", c.id.String()))
	}
	cancel()

	c.mu.Lock()
	c.lastRefreshed = time.Now()
	c.reconfigureLocked()
	c.mu.Unlock()

	c.notify()
}

// setRestingURL records a navigation that happened on the surface itself,
// for example following a redirect. The countdown is left untouched.
func (c *Column) setRestingURL(url string) {
	c.mu.Lock()
	c.url = url
	c.mu.Unlock()

	c.notify()
}

// Dispose stops and detaches the timer and releases the surface. Idempotent;
// a disposed column never receives ticks or reloads again.
func (c *Column) Dispose() {
	c.mu.Lock()
	if c.timer != nil {
		c.timer.Dispose()
	}
	c.surface = nil
	c.remaining = 0
	c.onChange = nil
	c.mu.Unlock()
}

// Display renders the countdown as M:SS, or an empty string when the column
// is disabled or the countdown has hit zero.
func (c *Column) Display() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.displayLocked()
}

func (c *Column) displayLocked() string {
	if !c.enabled || c.remaining <= 0 {
		return ""
	}

	return fmt.Sprintf("%d:%02d", c.remaining/60, c.remaining%60)
}

// State captures the column for display and persistence.
func (c *Column) State() ColumnState {
	c.mu.Lock()
	defer c.mu.Unlock()

	return ColumnState{
		ID:            c.id,
		URL:           c.url,
		Enabled:       c.enabled,
		Interval:      c.interval,
		Remaining:     c.remaining,
		Display:       c.displayLocked(),
		LastRefreshed: c.lastRefreshed,
	}
}

func (c *Column) subscribe(fn func()) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

func (c *Column) notify() {
	c.mu.Lock()
	fn := c.onChange
	c.mu.Unlock()

	if fn != nil {
		fn()
	}
}
