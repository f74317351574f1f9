package deck

import (
	"sync"
	"time"
)

// RefreshTimer is a single shot wall clock timer owned by exactly one column.
// It is always stopped before being restarted so a column can never see
// overlapping firings. The repeat cycle comes from the column reconfiguring
// the timer after each fire, not from the timer itself.
type RefreshTimer struct {
	mu       sync.Mutex
	timer    *time.Timer
	fire     func()
	running  bool
	disposed bool
}

func NewRefreshTimer(fire func()) *RefreshTimer {
	return &RefreshTimer{fire: fire}
}

// Start arms the timer for intervalSeconds. A non positive interval leaves
// the timer stopped.
func (t *RefreshTimer) Start(intervalSeconds int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopLocked()

	if t.disposed || intervalSeconds <= 0 {
		return
	}

	t.running = true
	t.timer = time.AfterFunc(time.Duration(intervalSeconds)*time.Second, t.onFire)
}

func (t *RefreshTimer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopLocked()
}

func (t *RefreshTimer) IsRunning() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.running
}

// Dispose stops the timer and detaches the fire callback. Safe to call any
// number of times.
func (t *RefreshTimer) Dispose() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopLocked()
	t.disposed = true
	t.fire = nil
}

func (t *RefreshTimer) stopLocked() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.running = false
}

func (t *RefreshTimer) onFire() {
	t.mu.Lock()
	if t.disposed || !t.running {
		t.mu.Unlock()

		return
	}
	t.running = false
	fire := t.fire
	t.mu.Unlock()

	if fire != nil {
		fire()
	}
}
