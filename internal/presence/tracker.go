package presence

import (
	"sort"
	"time"

	"github.com/samber/lo"
)

// Position: canvas coordinates of a cursor
type Position struct {
	X float64
	Y float64
}

// Cursor: last known presence of one client
type Cursor struct {
	ClientID    string
	Position    Position
	DisplayName string
	Color       string
	LastSeen    time.Time
}

// Tracker: ephemeral cursor records of one board.
// Not safe for concurrent use; a board hub is its only caller.
type Tracker struct {
	cursors map[string]Cursor
	now     func() time.Time
}

// NewTracker: creates an empty tracker. now defaults to time.Now.
func NewTracker(now func() time.Time) *Tracker {
	if now == nil {
		now = time.Now
	}
	return &Tracker{
		cursors: make(map[string]Cursor),
		now:     now,
	}
}

// Touch: upserts the cursor and refreshes its liveness
func (t *Tracker) Touch(clientID string, pos Position, displayName, color string) Cursor {
	c := Cursor{
		ClientID:    clientID,
		Position:    pos,
		DisplayName: displayName,
		Color:       color,
		LastSeen:    t.now(),
	}
	t.cursors[clientID] = c
	return c
}

// Remove: deletes the cursor, reports whether it existed
func (t *Tracker) Remove(clientID string) bool {
	if _, ok := t.cursors[clientID]; !ok {
		return false
	}
	delete(t.cursors, clientID)
	return true
}

// Sweep: removes and returns (sorted) every cursor not seen within ttl of now
func (t *Tracker) Sweep(now time.Time, ttl time.Duration) []string {
	var expired []string
	for id, c := range t.cursors {
		if now.Sub(c.LastSeen) > ttl {
			expired = append(expired, id)
		}
	}
	for _, id := range expired {
		delete(t.cursors, id)
	}
	sort.Strings(expired)
	return expired
}

// Snapshot: all cursors except exclude, sorted by client id
func (t *Tracker) Snapshot(exclude string) []Cursor {
	out := lo.Filter(lo.Values(t.cursors), func(c Cursor, _ int) bool {
		return c.ClientID != exclude
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ClientID < out[j].ClientID })
	return out
}

// Get: single cursor lookup
func (t *Tracker) Get(clientID string) (Cursor, bool) {
	c, ok := t.cursors[clientID]
	return c, ok
}

// Len: number of live cursors
func (t *Tracker) Len() int {
	return len(t.cursors)
}
