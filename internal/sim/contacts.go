package sim

import (
	"sort"

	"github.com/Garsondee/Sensor-Fog/internal/vision"
)

// ContactKind classifies a change in what the friendly side knows.
type ContactKind int

const (
	ContactAcquired   ContactKind = iota // non-friendly unit came into view
	ContactLost                          // non-friendly unit dropped out of view
	ContactGhost                         // ghost created for a hostile
	ContactReacquired                    // ghost cleared because the hostile is visible again
	ContactFaded                         // ghost faded out
)

func (k ContactKind) String() string {
	switch k {
	case ContactAcquired:
		return "acquired"
	case ContactLost:
		return "lost"
	case ContactGhost:
		return "created"
	case ContactReacquired:
		return "reacquired"
	case ContactFaded:
		return "faded"
	default:
		return "unknown"
	}
}

// Category is the FrameLog category the kind belongs to.
func (k ContactKind) Category() string {
	if k == ContactAcquired || k == ContactLost {
		return "vision"
	}
	return "ghost"
}

// ContactEvent is one change observed between two frames.
type ContactEvent struct {
	Kind      ContactKind
	TargetID  string
	Alliance  vision.Alliance
	Position  vision.Vec2
	FadeClock float64 // seconds the ghost existed, for ghost removals
}

// ContactWatch diffs a vision system's visibility and ghost state between
// frames. Hosts call Observe right after each System.Update.
type ContactWatch struct {
	visible map[string]bool
	ghosts  map[string]vision.Ghost
}

// NewContactWatch returns an empty watch.
func NewContactWatch() *ContactWatch {
	return &ContactWatch{
		visible: make(map[string]bool),
		ghosts:  make(map[string]vision.Ghost),
	}
}

// Observe returns the events since the previous call, visibility changes
// first, in unit order, then ghost changes sorted by id. Units missing from
// units are forgotten, so one that returns in view is acquired again.
func (w *ContactWatch) Observe(sys *vision.System, units []vision.Unit) []ContactEvent {
	var out []ContactEvent
	present := make(map[string]struct{}, len(units))
	for _, u := range units {
		if u.Alliance == vision.AllianceFriendly || u.TargetID == "" {
			continue
		}
		present[u.TargetID] = struct{}{}
		now := sys.IsVisible(u.TargetID)
		was, seen := w.visible[u.TargetID]
		w.visible[u.TargetID] = now
		if (seen && was == now) || (!seen && !now) {
			continue
		}
		kind := ContactAcquired
		if !now {
			kind = ContactLost
		}
		out = append(out, ContactEvent{Kind: kind, TargetID: u.TargetID, Alliance: u.Alliance, Position: u.Position})
	}
	for id := range w.visible {
		if _, ok := present[id]; !ok {
			delete(w.visible, id)
		}
	}

	current := sys.Ghosts()
	next := make(map[string]vision.Ghost, len(current))
	for _, g := range current {
		next[g.TargetID] = g
		if _, ok := w.ghosts[g.TargetID]; !ok {
			out = append(out, ContactEvent{Kind: ContactGhost, TargetID: g.TargetID, Alliance: vision.AllianceHostile, Position: g.Position})
		}
	}
	gone := make([]string, 0, len(w.ghosts))
	for id := range w.ghosts {
		if _, ok := next[id]; !ok {
			gone = append(gone, id)
		}
	}
	sort.Strings(gone)
	final := make(map[string]vision.GhostRemoval, len(gone))
	for _, r := range sys.RemovedGhosts() {
		final[r.Ghost.TargetID] = r
	}
	for _, id := range gone {
		g := w.ghosts[id]
		reacquired := sys.IsVisible(id)
		// The tracker's record carries the clock of the frame that dropped it.
		if r, ok := final[id]; ok {
			g = r.Ghost
			reacquired = r.Reacquired
		}
		kind := ContactFaded
		if reacquired {
			kind = ContactReacquired
		}
		out = append(out, ContactEvent{Kind: kind, TargetID: id, Alliance: vision.AllianceHostile, Position: g.Position, FadeClock: g.FadeClock})
	}
	w.ghosts = next
	return out
}

// Visible counts non-friendly units seen on the last observed frame.
func (w *ContactWatch) Visible() int {
	n := 0
	for _, v := range w.visible {
		if v {
			n++
		}
	}
	return n
}

// Ghosts returns the number of ghosts on the last observed frame.
func (w *ContactWatch) Ghosts() int {
	return len(w.ghosts)
}
