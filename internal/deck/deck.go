// Package deck owns the column grid, the per column refresh timers, the
// shared countdown driver and the grid/focus mode state machine.
package deck

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/decktui/deck-tui/internal/guard"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

var (
	ErrBlockedURL     = errors.New("url blocked by navigation guard")
	ErrUnknownColumn  = errors.New("unknown column")
	ErrColumnNavigate = errors.New("column navigation failed")
)

// Deck coordinates all columns and the focus surface. All mutating entry
// points serialize on the deck mutex; navigation itself always happens with
// the lock released so surface callbacks can re-enter safely.
type Deck struct {
	mu           sync.RWMutex
	guard        guard.Guard
	columns      []*Column
	controller   focusController
	focusSurface Surface
	newSurface   func() Surface
	subscribers  []func(State)
	onVisit      func(url string)
}

func New(navGuard guard.Guard, newSurface func() Surface) *Deck {
	deck := &Deck{
		guard:        navGuard,
		newSurface:   newSurface,
		focusSurface: newSurface(),
		controller:   focusController{mode: ModeGrid, guard: navGuard},
	}
	deck.focusSurface.OnSourceChanged(deck.onFocusSourceChanged)

	return deck
}

// Subscribe registers a callback invoked with a fresh State after every
// change. Callbacks run on whatever goroutine caused the change.
func (d *Deck) Subscribe(fn func(State)) {
	d.mu.Lock()
	d.subscribers = append(d.subscribers, fn)
	d.mu.Unlock()
}

// OnVisit registers a hook invoked for every accepted navigation, used for
// history recording.
func (d *Deck) OnVisit(fn func(url string)) {
	d.mu.Lock()
	d.onVisit = fn
	d.mu.Unlock()
}

// AddColumn creates a column resting on url. The URL must pass the guard as a
// resting URL. The initial fetch failure is non fatal; the column simply
// shows an empty surface until its first successful reload.
func (d *Deck) AddColumn(ctx context.Context, url string, enabled bool, intervalSeconds int) (*Column, error) {
	if !d.guard.Classify(url, false) {
		return nil, ErrBlockedURL
	}

	col := NewColumn(url, enabled, intervalSeconds, d.newSurface())
	col.subscribe(d.publish)

	d.mu.Lock()
	surf := col.surface
	d.columns = append(d.columns, col)
	d.mu.Unlock()

	surf.OnSourceChanged(func(sourceURL string) {
		d.onColumnSourceChanged(col, sourceURL)
	})

	if err := col.Navigate(ctx, url); err != nil {
		slog.Warn("Initial column fetch failed", slog.String("url", url),
			slog.String("error", err.Error()))
	}

	d.visit(url)
	d.publish()

	return col, nil
}

// RemoveColumn disposes the column's timer and surface and drops it from the
// grid. Returns false when the id is unknown.
func (d *Deck) RemoveColumn(id uuid.UUID) bool {
	d.mu.Lock()
	idx := -1
	for i, col := range d.columns {
		if col.ID() == id {
			idx = i

			break
		}
	}
	if idx < 0 {
		d.mu.Unlock()

		return false
	}

	col := d.columns[idx]
	d.columns = append(d.columns[:idx], d.columns[idx+1:]...)
	d.mu.Unlock()

	col.Dispose()
	d.publish()

	return true
}

func (d *Deck) Column(id uuid.UUID) (*Column, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, col := range d.columns {
		if col.ID() == id {
			return col, true
		}
	}

	return nil, false
}

func (d *Deck) Columns() []*Column {
	d.mu.RLock()
	defer d.mu.RUnlock()

	cols := make([]*Column, len(d.columns))
	copy(cols, d.columns)

	return cols
}

func (d *Deck) Mode() Mode {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.controller.mode
}

func (d *Deck) FocusSurface() Surface {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.focusSurface
}

// State builds a point in time snapshot of the whole deck.
func (d *Deck) State() State {
	d.mu.RLock()
	cols := make([]*Column, len(d.columns))
	copy(cols, d.columns)
	state := State{
		Mode:         d.controller.mode,
		FocusURL:     d.controller.targetURL,
		ReturnColumn: d.controller.returnColumn,
	}
	d.mu.RUnlock()

	for _, col := range cols {
		state.Columns = append(state.Columns, col.State())
	}

	return state
}

// TickCountdowns advances every live countdown by one second. Driven by the
// app's single 1s ticker; a no-op while in focus mode. This only updates the
// display counters, reloads are fired by each column's own timer.
func (d *Deck) TickCountdowns() {
	d.mu.RLock()
	if d.controller.mode == ModeFocus {
		d.mu.RUnlock()

		return
	}
	cols := make([]*Column, len(d.columns))
	copy(cols, d.columns)
	d.mu.RUnlock()

	for _, col := range cols {
		col.Tick()
	}
}

// OpenLink routes a link activated inside a column: detail links switch into
// focus mode, resting URLs re-point the column, everything else is blocked.
func (d *Deck) OpenLink(ctx context.Context, columnID uuid.UUID, url string) error {
	if d.guard.FocusWorthy(url) {
		return d.EnterFocus(ctx, url, columnID)
	}

	if !d.guard.Classify(url, false) {
		return ErrBlockedURL
	}

	col, found := d.Column(columnID)
	if !found {
		return ErrUnknownColumn
	}

	if err := col.Navigate(ctx, url); err != nil {
		return errors.Join(err, ErrColumnNavigate)
	}

	d.visit(url)

	return nil
}

// RefreshAll reloads every enabled column concurrently and resets their
// countdowns. Individual fetch failures abort the group but leave the other
// columns' state intact.
func (d *Deck) RefreshAll(ctx context.Context) error {
	group, groupCtx := errgroup.WithContext(ctx)
	for _, col := range d.Columns() {
		if !col.Enabled() {
			continue
		}
		group.Go(func() error {
			return col.Reload(groupCtx)
		})
	}

	return group.Wait()
}

// EnterFocus switches into focus mode on url. Only focus worthy URLs pass;
// restored session URLs go through the same validation. Re-entering focus
// retargets the surface without touching the already stopped timers.
func (d *Deck) EnterFocus(ctx context.Context, url string, from uuid.UUID) error {
	d.mu.Lock()
	fresh, errEnter := d.controller.enter(url, from)
	if errEnter != nil {
		d.mu.Unlock()

		return errEnter
	}
	cols := make([]*Column, len(d.columns))
	copy(cols, d.columns)
	surf := d.focusSurface
	d.mu.Unlock()

	if fresh {
		for _, col := range cols {
			col.StopTimer()
		}
	}

	if err := surf.Navigate(ctx, url); err != nil {
		slog.Warn("Focus surface navigation failed", slog.String("url", url),
			slog.String("error", err.Error()))
	}

	d.visit(url)
	d.publish()

	return nil
}

// ExitFocus returns to the grid: the focus surface parks on the blank
// placeholder, every column reconfigures per its own settings, and the column
// that triggered focus re-navigates to its last resting URL.
func (d *Deck) ExitFocus(ctx context.Context) {
	d.mu.Lock()
	returnColumn, ok := d.controller.exit()
	if !ok {
		d.mu.Unlock()

		return
	}
	cols := make([]*Column, len(d.columns))
	copy(cols, d.columns)
	surf := d.focusSurface
	d.mu.Unlock()

	if err := surf.Navigate(ctx, guard.BlankURL); err != nil {
		slog.Warn("Failed to park focus surface", slog.String("error", err.Error()))
	}

	for _, col := range cols {
		if col.ID() == returnColumn {
			if err := col.Navigate(ctx, col.URL()); err != nil {
				slog.Warn("Failed to restore column", slog.String("error", err.Error()),
					slog.String("column", col.ID().String()))
				col.Reconfigure()
			}

			continue
		}
		col.Reconfigure()
	}

	d.publish()
}

// Close stops all timers and releases every surface. The deck is unusable
// afterwards; meant for process shutdown.
func (d *Deck) Close() {
	d.mu.Lock()
	cols := d.columns
	d.columns = nil
	d.mu.Unlock()

	for _, col := range cols {
		col.Dispose()
	}
}

// onColumnSourceChanged classifies every navigation reported by a column
// surface: detail links promote into focus mode, allowed resting URLs update
// the column, anything else is dropped.
func (d *Deck) onColumnSourceChanged(col *Column, url string) {
	if d.guard.FocusWorthy(url) {
		ctx, cancel := context.WithTimeout(context.Background(), reloadTimeout)
		defer cancel()

		if err := d.EnterFocus(ctx, url, col.ID()); err != nil {
			slog.Warn("Focus transition rejected", slog.String("url", url),
				slog.String("error", err.Error()))
		}

		return
	}

	if d.guard.Classify(url, false) {
		if url != col.URL() {
			col.setRestingURL(url)
			d.visit(url)
		}

		return
	}

	slog.Info("Blocked column navigation", slog.String("url", url))
}

// onFocusSourceChanged watches the shared focus surface: navigating anywhere
// that is neither focus worthy nor the blank placeholder exits focus mode.
func (d *Deck) onFocusSourceChanged(url string) {
	if url == guard.BlankURL {
		return
	}

	if d.guard.FocusWorthy(url) {
		d.mu.Lock()
		d.controller.targetURL = url
		d.mu.Unlock()

		d.visit(url)
		d.publish()

		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), reloadTimeout)
	defer cancel()
	d.ExitFocus(ctx)
}

func (d *Deck) publish() {
	d.mu.RLock()
	subs := make([]func(State), len(d.subscribers))
	copy(subs, d.subscribers)
	d.mu.RUnlock()

	if len(subs) == 0 {
		return
	}

	state := d.State()
	for _, fn := range subs {
		fn(state)
	}
}

func (d *Deck) visit(url string) {
	d.mu.RLock()
	fn := d.onVisit
	d.mu.RUnlock()

	if fn != nil {
		fn(url)
	}
}
