package deck

import (
	"time"

	"github.com/google/uuid"
)

// ColumnState is an immutable view of a column, safe to hand to the UI or the
// session store. Remaining/Display are runtime only and never persisted.
type ColumnState struct {
	ID            uuid.UUID
	URL           string
	Enabled       bool
	Interval      int
	Remaining     int
	Display       string
	LastRefreshed time.Time
}

// State is a full snapshot of the deck, broadcast to subscribers after every
// change. The UI receives these as bubbletea messages.
type State struct {
	Mode         Mode
	FocusURL     string
	ReturnColumn uuid.UUID
	Columns      []ColumnState
}
