package vision

import (
	"image/color"

	"github.com/rs/zerolog"
)

// Style holds the colours used for the fog layer and cone edges.
type Style struct {
	Fog       color.Color
	Edge      color.Color
	EdgeWidth float64
}

// DefaultStyle is a near-black fog with a teal cone outline.
var DefaultStyle = Style{
	Fog:       color.RGBA{R: 10, G: 13, B: 10, A: 217},
	Edge:      color.RGBA{R: 79, G: 209, B: 197, A: 200},
	EdgeWidth: 1,
}

// Option configures a System at construction.
type Option func(*System)

// WithLogger sets the logger used for lifecycle and ghost events.
func WithLogger(l zerolog.Logger) Option {
	return func(s *System) { s.log = l }
}

// WithProfiles sets the vision-profile registry.
func WithProfiles(r *ProfileRegistry) Option {
	return func(s *System) { s.profiles = r }
}

// WithStyle sets fog and edge colours.
func WithStyle(st Style) Option {
	return func(s *System) { s.style = st }
}

// WithSurface sets the drawing surface the fog is rendered onto.
func WithSurface(ds DrawingSurface) Option {
	return func(s *System) { s.surface = ds }
}

// WithTransforms injects the host's world->screen and meters->pixels transforms.
func WithTransforms(worldToScreen func(Vec2) Vec2, metersToPixels func(float64) float64) Option {
	return func(s *System) { s.SetTransforms(worldToScreen, metersToPixels) }
}

// WithBuildingOcclusion makes stored buildings block sight lines and clip cones.
func WithBuildingOcclusion(on bool) Option {
	return func(s *System) { s.occlusion = on }
}

// WithOccluder replaces the building-derived occluder. Implies occlusion.
func WithOccluder(o Occluder) Option {
	return func(s *System) {
		s.occluder = o
		s.customOccluder = o != nil
		s.occlusion = o != nil
	}
}

// System computes per-frame visibility, tracks ghosts and draws the fog
// overlay. It is not safe for concurrent use; the host drives it from its
// frame loop.
type System struct {
	log      zerolog.Logger
	profiles *ProfileRegistry
	style    Style
	surface  DrawingSurface

	worldToScreen  func(Vec2) Vec2
	metersToPixels func(float64) float64

	buildings      []Building
	occluder       Occluder
	customOccluder bool
	occlusion      bool

	enabled  bool
	disposed bool
	phase    GamePhase
	frame    uint64

	sweeps  map[string]float64
	visible map[string]bool
	ghosts  *GhostTracker
	removed []GhostRemoval // ghosts dropped by the last processed update
}

// GhostRemoval is a ghost as it stood when the tracker dropped it.
type GhostRemoval struct {
	Ghost      Ghost
	Reacquired bool
}

// NewSystem returns a disabled System.
func NewSystem(opts ...Option) *System {
	s := &System{
		log:            zerolog.Nop(),
		profiles:       NewProfileRegistry(nil),
		style:          DefaultStyle,
		worldToScreen:  identityPoint,
		metersToPixels: identityScale,
		phase:          PhaseSetup,
		sweeps:         make(map[string]float64),
		visible:        make(map[string]bool),
		ghosts:         NewGhostTracker(),
	}
	for _, o := range opts {
		o(s)
	}
	s.ghosts.OnCreate = func(g Ghost) {
		s.log.Debug().Str("target", g.TargetID).
			Float64("x", g.Position.X).Float64("y", g.Position.Y).
			Msg("ghost created")
	}
	s.ghosts.OnRemove = func(g Ghost, reacquired bool) {
		s.removed = append(s.removed, GhostRemoval{Ghost: g, Reacquired: reacquired})
		s.log.Debug().Str("target", g.TargetID).
			Bool("reacquired", reacquired).
			Float64("fade", g.FadeClock).
			Msg("ghost removed")
	}
	return s
}

func identityPoint(v Vec2) Vec2 { return v }

func identityScale(m float64) float64 { return m }

// Enable starts fog processing. No effect after Dispose.
func (s *System) Enable() {
	if s.disposed || s.enabled {
		return
	}
	s.enabled = true
	s.log.Info().Msg("vision enabled")
}

// Disable pauses fog processing. Enable resumes it.
func (s *System) Disable() {
	if s.disposed || !s.enabled {
		return
	}
	s.enabled = false
	s.log.Info().Msg("vision disabled")
}

// Dispose permanently stops the system. The enabled flag is left as is.
func (s *System) Dispose() {
	if s.disposed {
		return
	}
	s.disposed = true
	s.surface = nil
	s.log.Info().Uint64("frames", s.frame).Msg("vision disposed")
}

// Enabled reports the enabled flag.
func (s *System) Enabled() bool { return s.enabled }

// Disposed reports whether Dispose has been called.
func (s *System) Disposed() bool { return s.disposed }

// Phase returns the game phase passed to the most recent processed Update.
func (s *System) Phase() GamePhase { return s.phase }

// Frames returns how many updates have been processed.
func (s *System) Frames() uint64 { return s.frame }

// SetSurface replaces the drawing surface. A nil surface skips drawing.
func (s *System) SetSurface(ds DrawingSurface) {
	if s.disposed {
		return
	}
	s.surface = ds
}

// SetTransforms replaces the coordinate transforms. Nil functions fall back
// to the identity.
func (s *System) SetTransforms(worldToScreen func(Vec2) Vec2, metersToPixels func(float64) float64) {
	if worldToScreen == nil {
		worldToScreen = identityPoint
	}
	if metersToPixels == nil {
		metersToPixels = identityScale
	}
	s.worldToScreen = worldToScreen
	s.metersToPixels = metersToPixels
}

// SetBuildings replaces the stored building list. Nil and empty are valid.
func (s *System) SetBuildings(list []Building) {
	s.buildings = list
	if s.customOccluder {
		return
	}
	if len(list) == 0 {
		s.occluder = nil
		return
	}
	occ, err := NewBuildingOccluder(list)
	if err != nil {
		s.log.Warn().Err(err).Int("usable", occ.Len()).Msg("skipped invalid buildings")
	}
	s.occluder = occ
}

// Buildings returns the stored building list.
func (s *System) Buildings() []Building { return s.buildings }

// SetOcclusion toggles building occlusion at runtime.
func (s *System) SetOcclusion(on bool) { s.occlusion = on }

// Occlusion reports whether building occlusion is active.
func (s *System) Occlusion() bool { return s.occlusion }

// Ghost returns the ghost tracked for targetID.
func (s *System) Ghost(targetID string) (Ghost, bool) {
	return s.ghosts.Get(targetID)
}

// Ghosts returns every tracked ghost, sorted by target id.
func (s *System) Ghosts() []Ghost {
	return s.ghosts.All()
}

// IsVisible reports whether targetID was visible on the last processed update.
func (s *System) IsVisible(targetID string) bool {
	return s.visible[targetID]
}

// RemovedGhosts returns the ghosts dropped during the last processed update,
// with the fade clock they reached on that frame.
func (s *System) RemovedGhosts() []GhostRemoval {
	return s.removed
}

// SweepAngle returns the current sweep bearing for targetID.
func (s *System) SweepAngle(targetID string) (float64, bool) {
	a, ok := s.sweeps[targetID]
	return a, ok
}

// Update runs one frame: sweeps, visibility and ghosts, then the fog and
// cone-edge passes. It is a no-op while disabled or after Dispose and never
// panics.
func (s *System) Update(units []Unit, phase GamePhase, dt float64) {
	if !s.enabled || s.disposed {
		return
	}
	defer s.recoverFrame()

	s.frame++
	s.removed = nil
	if phase != s.phase {
		s.log.Info().Stringer("from", s.phase).Stringer("to", phase).Msg("game phase changed")
		s.phase = phase
	}
	dt = finite(dt)
	if dt < 0 {
		dt = 0
	}

	s.advanceSweeps(units, dt)
	s.updateVisibility(units)
	s.ghosts.Update(s.observeHostiles(units), dt)

	if s.surface == nil {
		return
	}
	w, h := s.surface.Bounds()
	s.drawFog(s.surface, w, h, units)
	s.drawConeEdges(s.surface, units)
}

// recoverFrame swallows a panic raised while processing a frame so the host
// render loop keeps running.
func (s *System) recoverFrame() {
	r := recover()
	if r == nil {
		return
	}
	s.log.Error().Interface("panic", r).Uint64("frame", s.frame).Msg("vision frame aborted")
	if s.surface == nil {
		return
	}
	func() {
		defer func() { _ = recover() }()
		s.surface.SetCompositeMode(CompositeSourceOver)
	}()
}

// advanceSweeps turns every sweeping cone by one frame. Bearings of units
// missing from the frame are dropped; a returning unit restarts on its heading.
func (s *System) advanceSweeps(units []Unit, dt float64) {
	present := make(map[string]struct{}, len(units))
	for _, u := range units {
		if u.TargetID == "" {
			continue
		}
		present[u.TargetID] = struct{}{}
		p := s.profiles.Lookup(u.AssetType)
		if !p.ConeSweeps {
			continue
		}
		a, ok := s.sweeps[u.TargetID]
		if !ok {
			s.sweeps[u.TargetID] = normalizeDeg(finite(u.Heading))
			continue
		}
		s.sweeps[u.TargetID] = UpdateSweepAngle(a, p.ConeSweepRPM, dt)
	}
	for id := range s.sweeps {
		if _, ok := present[id]; !ok {
			delete(s.sweeps, id)
		}
	}
}

// coneBearing is the direction a unit's cone points this frame.
func (s *System) coneBearing(u Unit, p VisionProfile) float64 {
	if p.ConeSweeps {
		if a, ok := s.sweeps[u.TargetID]; ok {
			return a
		}
	}
	return normalizeDeg(finite(u.Heading))
}

func (s *System) updateVisibility(units []Unit) {
	clear(s.visible)
	var sensors []Unit
	for _, u := range units {
		if u.Alliance == AllianceFriendly {
			sensors = append(sensors, u)
		}
	}
	for _, u := range units {
		if u.TargetID == "" {
			continue
		}
		switch u.Visibility {
		case Visible:
			s.visible[u.TargetID] = true
		case Hidden:
			s.visible[u.TargetID] = false
		default:
			s.visible[u.TargetID] = u.Alliance == AllianceFriendly || s.sensed(sensors, u)
		}
	}
}

// sensed reports whether any sensor's ambient circle or cone covers target.
func (s *System) sensed(sensors []Unit, target Unit) bool {
	tp := target.Position.sanitized()
	for _, sensor := range sensors {
		if sensor.TargetID == target.TargetID {
			continue
		}
		p := s.profiles.Lookup(sensor.AssetType)
		sp := sensor.Position.sanitized()
		in := InRadius(sp.X, sp.Y, p.Ambient, tp.X, tp.Y)
		if !in && p.HasCone() {
			in = IsInCone(sp.X, sp.Y, s.coneBearing(sensor, p), p.ConeAngle, p.ConeRange, tp.X, tp.Y)
		}
		if !in {
			continue
		}
		if s.occlusion && s.occluder != nil && s.occluder.Blocks(sp, tp) {
			continue
		}
		return true
	}
	return false
}

// observeHostiles builds ghost-tracker input. Only hostile units are tracked.
func (s *System) observeHostiles(units []Unit) []Observation {
	obs := make([]Observation, 0, len(units))
	for _, u := range units {
		if u.Alliance != AllianceHostile || u.TargetID == "" {
			continue
		}
		obs = append(obs, Observation{
			TargetID: u.TargetID,
			Position: u.Position,
			Visible:  s.visible[u.TargetID],
		})
	}
	return obs
}
