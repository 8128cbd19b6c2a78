// Package sim runs the vision system without a window, for tests and the
// headless report.
package sim

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Garsondee/Sensor-Fog/internal/config"
	"github.com/Garsondee/Sensor-Fog/internal/telemetry"
	"github.com/Garsondee/Sensor-Fog/internal/vision"
)

// HeadlessSim mirrors the viewer's frame loop against a RecordingSurface.
// Frames use a fixed timestep so runs are reproducible.
type HeadlessSim struct {
	Width   float64
	Height  float64
	Store   *telemetry.Store
	System  *vision.System
	Surface *vision.RecordingSurface
	Log     *FrameLog
	Frame   int

	dt        float64
	phase     vision.GamePhase
	profiles  *vision.ProfileRegistry
	buildings []vision.Building
	occlusion bool
	logger    zerolog.Logger

	watch *ContactWatch
}

// simOptionKind controls the pass in which an option is applied.
type simOptionKind int

const (
	simOptInfra simOptionKind = iota // map size, timestep, profiles, buildings; applied first
	simOptUnit                       // add units; applied after the store exists
)

// SimOption is a builder function applied to a HeadlessSim during construction.
type SimOption struct {
	kind simOptionKind
	fn   func(*HeadlessSim)
}

// WithMapSize sets the surface dimensions.
func WithMapSize(w, h float64) SimOption {
	return SimOption{simOptInfra, func(hs *HeadlessSim) {
		hs.Width = w
		hs.Height = h
	}}
}

// WithTimestep sets the seconds advanced per frame.
func WithTimestep(dt float64) SimOption {
	return SimOption{simOptInfra, func(hs *HeadlessSim) {
		hs.dt = dt
	}}
}

// WithPhase sets the game phase passed to every frame.
func WithPhase(p vision.GamePhase) SimOption {
	return SimOption{simOptInfra, func(hs *HeadlessSim) {
		hs.phase = p
	}}
}

// WithVerbose enables per-frame draw statistics in the log.
func WithVerbose(v bool) SimOption {
	return SimOption{simOptInfra, func(hs *HeadlessSim) {
		hs.Log = NewFrameLog(v)
	}}
}

// WithProfiles replaces the profile registry.
func WithProfiles(r *vision.ProfileRegistry) SimOption {
	return SimOption{simOptInfra, func(hs *HeadlessSim) {
		hs.profiles = r
	}}
}

// WithBuilding adds an occluding outline.
func WithBuilding(b vision.Building) SimOption {
	return SimOption{simOptInfra, func(hs *HeadlessSim) {
		hs.buildings = append(hs.buildings, b)
	}}
}

// WithOcclusion turns building occlusion on or off.
func WithOcclusion(on bool) SimOption {
	return SimOption{simOptInfra, func(hs *HeadlessSim) {
		hs.occlusion = on
	}}
}

// WithLogger routes vision-system logs.
func WithLogger(l zerolog.Logger) SimOption {
	return SimOption{simOptInfra, func(hs *HeadlessSim) {
		hs.logger = l
	}}
}

// WithScenario loads units and buildings from a scenario config.
func WithScenario(sc config.ScenarioConfig) SimOption {
	return SimOption{simOptInfra, func(hs *HeadlessSim) {
		if sc.Width > 0 && sc.Height > 0 {
			hs.Width, hs.Height = sc.Width, sc.Height
		}
		hs.Store = telemetry.FromScenario(sc)
		cfg := config.Config{Scenario: sc}
		hs.buildings = append(hs.buildings, cfg.Buildings()...)
	}}
}

// WithUnit adds a stationary unit.
func WithUnit(u vision.Unit) SimOption {
	return SimOption{simOptUnit, func(hs *HeadlessSim) {
		hs.Store.Upsert(u)
	}}
}

// WithPatrol adds a unit walking route in a loop at speed m/s.
func WithPatrol(u vision.Unit, speed float64, route ...vision.Vec2) SimOption {
	return SimOption{simOptUnit, func(hs *HeadlessSim) {
		if len(route) > 0 {
			u.Position = route[0]
		}
		hs.Store.Patrol(u, route, speed)
	}}
}

// NewHeadlessSim constructs a HeadlessSim from the given options in two
// ordered passes:
//  1. Infrastructure (map size, timestep, profiles, buildings, scenario)
//  2. Units
//
// The vision system is enabled before returning.
func NewHeadlessSim(opts ...SimOption) *HeadlessSim {
	hs := &HeadlessSim{
		Width:  1600,
		Height: 1000,
		Log:    NewFrameLog(false),
		dt:     1.0 / 30.0,
		phase:  vision.PhaseLive,
		logger: zerolog.Nop(),
		watch:  NewContactWatch(),
	}
	for _, o := range opts {
		if o.kind == simOptInfra {
			o.fn(hs)
		}
	}
	if hs.Store == nil {
		hs.Store = telemetry.NewStore()
	}
	for _, o := range opts {
		if o.kind == simOptUnit {
			o.fn(hs)
		}
	}

	hs.Surface = vision.NewRecordingSurface(hs.Width, hs.Height)
	sysOpts := []vision.Option{
		vision.WithLogger(hs.logger),
		vision.WithSurface(hs.Surface),
		vision.WithBuildingOcclusion(hs.occlusion),
	}
	if hs.profiles != nil {
		sysOpts = append(sysOpts, vision.WithProfiles(hs.profiles))
	}
	hs.System = vision.NewSystem(sysOpts...)
	hs.System.SetBuildings(hs.buildings)
	hs.System.Enable()
	return hs
}

// RunFrames advances the simulation by n frames.
func (hs *HeadlessSim) RunFrames(n int) {
	for i := 0; i < n; i++ {
		hs.runOneFrame()
	}
}

// RunUntil advances frames until predicate returns true or maxFrames is
// reached. It returns the number of frames run.
func (hs *HeadlessSim) RunUntil(predicate func(*HeadlessSim) bool, maxFrames int) int {
	for i := 0; i < maxFrames; i++ {
		if predicate(hs) {
			return i
		}
		hs.runOneFrame()
	}
	return maxFrames
}

func (hs *HeadlessSim) runOneFrame() {
	hs.Frame++
	hs.Store.Advance(hs.dt)
	units := hs.Store.Snapshot()

	hs.Surface.Reset()
	hs.System.Update(units, hs.phase, hs.dt)

	hs.record(hs.watch.Observe(hs.System, units))

	hs.Log.AddVerbose(hs.Frame, "--", "--", "frame", "draw",
		fmt.Sprintf("ops=%d fills=%d strokes=%d", len(hs.Surface.Ops),
			hs.Surface.Count("Fill"), hs.Surface.Count("Stroke")),
		float64(len(hs.Surface.Ops)))
}

func (hs *HeadlessSim) record(events []ContactEvent) {
	for _, e := range events {
		value := fmt.Sprintf("at (%.0f,%.0f)", e.Position.X, e.Position.Y)
		if e.Kind == ContactReacquired || e.Kind == ContactFaded {
			value = fmt.Sprintf("after %.1fs", e.FadeClock)
		}
		hs.Log.Add(hs.Frame, e.TargetID, e.Alliance.String(), e.Kind.Category(), e.Kind.String(), value, e.FadeClock)
	}
}

// Snapshot is a point-in-time summary of a run.
type Snapshot struct {
	Frame      int
	Units      int
	Visible    int
	Ghosts     int
	Acquired   int
	Lost       int
	GhostsMade int
	Reacquired int
	Faded      int
	FirstGhost int // frame of first ghost, -1 if none
	DrawOps    int // ops recorded on the last frame
}

// Snapshot summarises the run so far.
func (hs *HeadlessSim) Snapshot() Snapshot {
	s := Snapshot{
		Frame:      hs.Frame,
		Units:      hs.Store.Len(),
		Visible:    hs.watch.Visible(),
		Ghosts:     hs.watch.Ghosts(),
		Acquired:   hs.Log.CountCategory("vision", "acquired"),
		Lost:       hs.Log.CountCategory("vision", "lost"),
		GhostsMade: hs.Log.CountCategory("ghost", "created"),
		Reacquired: hs.Log.CountCategory("ghost", "reacquired"),
		Faded:      hs.Log.CountCategory("ghost", "faded"),
		FirstGhost: -1,
		DrawOps:    len(hs.Surface.Ops),
	}
	if e, ok := hs.Log.FirstOf("ghost", "created"); ok {
		s.FirstGhost = e.Frame
	}
	return s
}

// Report returns the ghost report for the current frame.
func (hs *HeadlessSim) Report() string {
	return GhostReport(hs.System.Frames(), hs.System.Phase(), hs.System.Ghosts())
}
