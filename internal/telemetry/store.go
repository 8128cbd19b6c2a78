// Package telemetry keeps the current picture of units on the map and feeds
// it from scenario patrols or a live websocket source.
package telemetry

import (
	"math"
	"sync"

	"github.com/Garsondee/Sensor-Fog/internal/vision"
)

// arriveDist is how close a patrol must get to a waypoint to advance.
const arriveDist = 0.5

type track struct {
	unit  vision.Unit
	route []vision.Vec2
	speed float64
	leg   int
}

// Store is a concurrency-safe set of units keyed by TargetID. Snapshot order
// is insertion order so frames are deterministic.
type Store struct {
	mu     sync.RWMutex
	tracks map[string]*track
	order  []string
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{tracks: make(map[string]*track)}
}

// Upsert inserts or replaces a stationary unit. An existing patrol route for
// the same id is kept.
func (s *Store) Upsert(u vision.Unit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upsertLocked(u)
}

func (s *Store) upsertLocked(u vision.Unit) *track {
	tr, ok := s.tracks[u.TargetID]
	if !ok {
		tr = &track{}
		s.tracks[u.TargetID] = tr
		s.order = append(s.order, u.TargetID)
	}
	tr.unit = u
	return tr
}

// Patrol inserts u and makes it walk route in a loop at speed m/s.
func (s *Store) Patrol(u vision.Unit, route []vision.Vec2, speed float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tr := s.upsertLocked(u)
	tr.route = append([]vision.Vec2(nil), route...)
	tr.speed = speed
	tr.leg = 0
}

// Remove drops a unit. Unknown ids are ignored.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tracks[id]; !ok {
		return
	}
	delete(s.tracks, id)
	for i, o := range s.order {
		if o == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Replace swaps the whole unit set, dropping all patrols.
func (s *Store) Replace(units []vision.Unit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tracks = make(map[string]*track, len(units))
	s.order = s.order[:0]
	for _, u := range units {
		s.upsertLocked(u)
	}
}

// Len returns the number of units.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Snapshot returns a copy of every unit in insertion order.
func (s *Store) Snapshot() []vision.Unit {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]vision.Unit, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.tracks[id].unit)
	}
	return out
}

// Advance moves every patrolling unit dt seconds along its route. Heading
// follows the direction of travel.
func (s *Store) Advance(dt float64) {
	if dt <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.order {
		tr := s.tracks[id]
		if len(tr.route) == 0 || tr.speed <= 0 {
			continue
		}
		tr.step(dt)
	}
}

func (tr *track) step(dt float64) {
	budget := tr.speed * dt
	// Bounded so a degenerate route of identical points cannot spin.
	for i := 0; i < len(tr.route)+1 && budget > 0; i++ {
		pos := tr.unit.Position
		wp := tr.route[tr.leg%len(tr.route)]
		dx, dy := wp.X-pos.X, wp.Y-pos.Y
		d := math.Hypot(dx, dy)
		if d <= arriveDist {
			tr.leg = (tr.leg + 1) % len(tr.route)
			continue
		}
		tr.unit.Heading = vision.BearingTo(pos.X, pos.Y, wp.X, wp.Y)
		if budget >= d {
			tr.unit.Position = wp
			budget -= d
			tr.leg = (tr.leg + 1) % len(tr.route)
			continue
		}
		tr.unit.Position = vision.Vec2{X: pos.X + dx/d*budget, Y: pos.Y + dy/d*budget}
		budget = 0
	}
}
