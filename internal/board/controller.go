// internal/board/controller.go
//
// The controller owns the in-session ticket collection for one project and
// guarantees the UI never keeps a state the server is known to have
// rejected. Status moves are applied optimistically and reconciled by a full
// reload on failure; deletes are the opposite, only applied locally after
// the server confirms.
//
// The controller is pure state. All network I/O is issued by the caller
// (the TUI dispatches it as bubbletea commands) so every mutation here
// happens on the single update loop.

package board

import "github.com/kingrea/loomboard/internal/track"

// SyncState tracks one ticket's standing against the server.
type SyncState int

const (
	// Confirmed: local state matches the last server acknowledgement.
	Confirmed SyncState = iota
	// Pending: an optimistic mutation is visible locally, awaiting the
	// server's answer.
	Pending
	// Reconciling: the server rejected a mutation; a full reload is owed
	// and local state for this item is untrusted until it lands.
	Reconciling
)

func (s SyncState) String() string {
	switch s {
	case Confirmed:
		return "confirmed"
	case Pending:
		return "pending"
	case Reconciling:
		return "reconciling"
	}
	return "unknown"
}

// Controller holds the board for one project.
type Controller struct {
	projectID int64
	items     []track.Ticket
	sync      map[int64]SyncState

	// reloadOwed guards against issuing a redundant reconciliation reload
	// when several in-flight mutations fail back-to-back.
	reloadOwed bool
}

// NewController creates an empty controller for a project.
func NewController(projectID int64) *Controller {
	return &Controller{
		projectID: projectID,
		sync:      map[int64]SyncState{},
	}
}

// ProjectID returns the project this board belongs to.
func (c *Controller) ProjectID() int64 { return c.projectID }

// Items returns the current collection in service order.
func (c *Controller) Items() []track.Ticket {
	out := make([]track.Ticket, len(c.items))
	copy(out, c.items)
	return out
}

// Item returns the ticket with the given id, if present.
func (c *Controller) Item(id int64) (track.Ticket, bool) {
	for _, t := range c.items {
		if t.ID == id {
			return t, true
		}
	}
	return track.Ticket{}, false
}

// Len returns the number of tickets on the board.
func (c *Controller) Len() int { return len(c.items) }

// Sync returns the sync state for a ticket. Unknown ids are Confirmed: a
// ticket with no outstanding mutation is trusted.
func (c *Controller) Sync(id int64) SyncState {
	if s, ok := c.sync[id]; ok {
		return s
	}
	return Confirmed
}

// ApplyLoad replaces the whole collection with authoritative server state.
// Every outstanding mark is discarded: after a load there is nothing
// optimistic left to distrust.
func (c *Controller) ApplyLoad(items []track.Ticket) {
	c.items = make([]track.Ticket, len(items))
	copy(c.items, items)
	c.sync = map[int64]SyncState{}
	c.reloadOwed = false
}

// Column returns the tickets in one column, preserving collection order.
// The board is derived from the collection on every call, never stored.
func (c *Controller) Column(status track.Status) []track.Ticket {
	var out []track.Ticket
	for _, t := range c.items {
		if t.Status == status {
			out = append(out, t)
		}
	}
	return out
}

// BeginTransition applies a resolved drag instruction optimistically: the
// item's status becomes the destination column immediately, before any
// network response, and the item is marked Pending. Returns false when the
// item no longer exists (e.g. deleted while the gesture was in progress).
func (c *Controller) BeginTransition(tr Transition) bool {
	for i := range c.items {
		if c.items[i].ID == tr.ItemID {
			c.items[i].Status = tr.To
			c.sync[tr.ItemID] = Pending
			return true
		}
	}
	return false
}

// CompleteTransition records the server's answer for a status update.
//
// On success the item returns to Confirmed; local state already reflects
// the change so nothing else happens. On failure the item is marked
// Reconciling and the return value tells the caller a full reload is owed.
// Only the first failure while a reload is already owed reports true, so
// rapid repeated failures do not pile up redundant reloads.
func (c *Controller) CompleteTransition(itemID int64, failed bool) (needsReload bool) {
	if !failed {
		// A reconciling item stays reconciling until the reload lands;
		// a late success for it cannot restore trust on its own.
		if c.sync[itemID] != Reconciling {
			delete(c.sync, itemID)
		}
		return false
	}
	c.sync[itemID] = Reconciling
	if c.reloadOwed {
		return false
	}
	c.reloadOwed = true
	return true
}

// RemoveItem drops a ticket from local state. Deletion is never optimistic:
// callers invoke this only after the server confirmed the delete, so there
// is no partial-failure ambiguity to reconcile.
func (c *Controller) RemoveItem(id int64) bool {
	for i := range c.items {
		if c.items[i].ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			delete(c.sync, id)
			return true
		}
	}
	return false
}
