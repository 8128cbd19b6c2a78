package vision

import (
	"math"
	"sort"
)

// GhostFadeSeconds is how long a ghost takes to fade from full opacity to gone.
const GhostFadeSeconds = 30.0

// Ghost is the remembered last-known position of a hostile unit.
type Ghost struct {
	TargetID  string
	Position  Vec2
	Opacity   float64 // 1 at creation, 0 when forgotten
	FadeClock float64 // seconds since the ghost was created
	CreatedAt float64 // tracker clock, seconds
	UpdatedAt float64 // tracker clock, seconds
}

// Observation is one hostile unit's sensing result for a single update.
type Observation struct {
	TargetID string
	Position Vec2
	Visible  bool
}

// GhostTracker remembers hostile units that dropped out of view.
// The zero value is not usable; construct with NewGhostTracker.
type GhostTracker struct {
	ghosts map[string]*Ghost
	seen   map[string]Vec2 // hostiles visible on the previous update
	// expired holds hostiles whose ghost faded out while they stayed hidden.
	// They get no new ghost until seen again or dropped from the feed.
	expired map[string]struct{}
	clock   float64

	// OnCreate and OnRemove are optional hooks fired during Update.
	OnCreate func(Ghost)
	OnRemove func(g Ghost, reacquired bool)
}

// NewGhostTracker creates an empty tracker.
func NewGhostTracker() *GhostTracker {
	return &GhostTracker{
		ghosts:  make(map[string]*Ghost),
		seen:    make(map[string]Vec2),
		expired: make(map[string]struct{}),
	}
}

// Update applies one frame of observations. Ghosts that existed before this
// call have their fade clock advanced by dt; ghosts created by this call
// start at full opacity.
func (t *GhostTracker) Update(obs []Observation, dt float64) {
	dt = finite(dt)
	if dt < 0 {
		dt = 0
	}
	t.clock += dt

	present := make(map[string]struct{}, len(obs))
	created := make(map[string]struct{})

	for _, o := range obs {
		if o.TargetID == "" {
			continue
		}
		present[o.TargetID] = struct{}{}
		pos := o.Position.sanitized()

		if o.Visible {
			if g, ok := t.ghosts[o.TargetID]; ok {
				delete(t.ghosts, o.TargetID)
				t.removed(*g, true)
			}
			delete(t.expired, o.TargetID)
			t.seen[o.TargetID] = pos
			continue
		}

		if _, ok := t.ghosts[o.TargetID]; ok {
			continue
		}
		if _, ok := t.expired[o.TargetID]; ok {
			continue
		}
		if last, ok := t.seen[o.TargetID]; ok {
			pos = last
			delete(t.seen, o.TargetID)
		}
		t.create(o.TargetID, pos)
		created[o.TargetID] = struct{}{}
	}

	// Hostiles that were in view last update and have vanished from the feed.
	for id, pos := range t.seen {
		if _, ok := present[id]; ok {
			continue
		}
		delete(t.seen, id)
		if _, ok := t.ghosts[id]; ok {
			continue
		}
		t.create(id, pos)
		created[id] = struct{}{}
	}

	for id, g := range t.ghosts {
		if _, ok := created[id]; ok {
			continue
		}
		g.FadeClock += dt
		g.Opacity = math.Max(0, 1-g.FadeClock/GhostFadeSeconds)
		g.UpdatedAt = t.clock
		if g.Opacity <= 0 {
			delete(t.ghosts, id)
			if _, ok := present[id]; ok {
				t.expired[id] = struct{}{}
			}
			t.removed(*g, false)
		}
	}

	for id := range t.expired {
		if _, ok := present[id]; !ok {
			delete(t.expired, id)
		}
	}
}

func (t *GhostTracker) create(id string, pos Vec2) {
	g := &Ghost{
		TargetID:  id,
		Position:  pos,
		Opacity:   1,
		CreatedAt: t.clock,
		UpdatedAt: t.clock,
	}
	t.ghosts[id] = g
	if t.OnCreate != nil {
		t.OnCreate(*g)
	}
}

func (t *GhostTracker) removed(g Ghost, reacquired bool) {
	if t.OnRemove != nil {
		t.OnRemove(g, reacquired)
	}
}

// Get returns a copy of the ghost for id.
func (t *GhostTracker) Get(id string) (Ghost, bool) {
	g, ok := t.ghosts[id]
	if !ok {
		return Ghost{}, false
	}
	return *g, true
}

// All returns every tracked ghost sorted by target id.
func (t *GhostTracker) All() []Ghost {
	out := make([]Ghost, 0, len(t.ghosts))
	for _, g := range t.ghosts {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TargetID < out[j].TargetID })
	return out
}

// Len returns the number of tracked ghosts.
func (t *GhostTracker) Len() int {
	return len(t.ghosts)
}

// Reset forgets every ghost and every previously seen hostile.
func (t *GhostTracker) Reset() {
	t.ghosts = make(map[string]*Ghost)
	t.seen = make(map[string]Vec2)
	t.expired = make(map[string]struct{})
}
