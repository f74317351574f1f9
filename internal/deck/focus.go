package deck

import (
	"errors"

	"github.com/decktui/deck-tui/internal/guard"
	"github.com/google/uuid"
)

// Mode is the application wide view mode. Exactly one is active at a time;
// column timers only run in ModeGrid.
type Mode int

const (
	ModeGrid Mode = iota
	ModeFocus
)

func (m Mode) String() string {
	if m == ModeFocus {
		return "focus"
	}

	return "grid"
}

func ParseMode(value string) Mode {
	if value == "focus" {
		return ModeFocus
	}

	return ModeGrid
}

var ErrNotFocusWorthy = errors.New("url is not a focus target")

// focusController carries the grid/focus state machine. It holds no locking
// of its own; the owning Deck serializes all transitions.
type focusController struct {
	mode Mode
	// returnColumn is the column that triggered the transition into focus
	// mode, or uuid.Nil when focus was entered from a restored session URL.
	returnColumn uuid.UUID
	targetURL    string
	guard        guard.Guard
}

// enter validates url and moves the machine into ModeFocus. The second return
// reports whether this was a fresh Grid->Focus transition; re-entering focus
// only retargets the URL and must not stop timers a second time.
func (f *focusController) enter(url string, from uuid.UUID) (bool, error) {
	if !f.guard.FocusWorthy(url) {
		return false, ErrNotFocusWorthy
	}

	if f.mode == ModeFocus {
		f.targetURL = url

		return false, nil
	}

	f.mode = ModeFocus
	f.targetURL = url
	f.returnColumn = from

	return true, nil
}

// exit moves back to ModeGrid and returns the column that should have its
// browsing state restored, or uuid.Nil.
func (f *focusController) exit() (uuid.UUID, bool) {
	if f.mode != ModeFocus {
		return uuid.Nil, false
	}

	f.mode = ModeGrid
	f.targetURL = ""
	ret := f.returnColumn
	f.returnColumn = uuid.Nil

	return ret, true
}
