// internal/board/resolver.go
//
// The drag resolver turns a completed grab-and-drop gesture into either a
// no-op or a concrete status-change instruction. It deliberately performs no
// workflow-legality checks: any column-to-column move is accepted and the
// remote service has the final word on permissions.

package board

import "github.com/kingrea/loomboard/internal/track"

// Location identifies a slot on the board: a column plus a row index within
// that column.
type Location struct {
	Column track.Status
	Index  int
}

// Drag describes a completed gesture. Dest is nil when the gesture was
// cancelled (dropped outside any column).
type Drag struct {
	ItemID int64
	Source Location
	Dest   *Location
}

// Transition is the resolved instruction: set the item's status to the
// destination column. The column key doubles as the new status value.
type Transition struct {
	ItemID int64
	To     track.Status
}

// Resolve maps a drag to a transition. The second return is false for the
// two no-op cases: no destination, or destination identical to the source
// (same column and same index). No state is mutated and no network call is
// owed for a no-op.
func Resolve(d Drag) (Transition, bool) {
	if d.Dest == nil {
		return Transition{}, false
	}
	if d.Dest.Column == d.Source.Column && d.Dest.Index == d.Source.Index {
		return Transition{}, false
	}
	return Transition{ItemID: d.ItemID, To: d.Dest.Column}, true
}
