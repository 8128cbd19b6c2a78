package term

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rs/zerolog"

	"github.com/Garsondee/Sensor-Fog/internal/sim"
	"github.com/Garsondee/Sensor-Fog/internal/telemetry"
	"github.com/Garsondee/Sensor-Fog/internal/vision"
)

const statusRows = 1

var groundColor = colorful.Color{R: 0.10, G: 0.14, B: 0.10}

// Viewer draws a store's units and the fog into a tcell screen.
type Viewer struct {
	screen tcell.Screen
	store  *telemetry.Store
	vision *vision.System
	watch  *sim.ContactWatch
	grid   *GridSurface
	log    zerolog.Logger
	phase  vision.GamePhase

	// World meters per surface unit and the world point at screen centre.
	metersPerUnit float64
	camX, camY    float64

	units  []vision.Unit
	bg     []tcell.Color // per-cell background of the last fog pass
	paused bool
	status string

	// OnContact, if set, receives every contact event after a frame.
	OnContact func(sim.ContactEvent)
}

// ViewerOptions configures a Viewer.
type ViewerOptions struct {
	Profiles  *vision.ProfileRegistry
	Style     vision.Style
	Buildings []vision.Building
	Occlusion bool
	Phase     vision.GamePhase
	WorldW    float64
	WorldH    float64
	Logger    zerolog.Logger
}

// NewViewer wires a vision system to a grid sized to the screen.
func NewViewer(screen tcell.Screen, store *telemetry.Store, opts ViewerOptions) *Viewer {
	cols, rows := screen.Size()
	v := &Viewer{
		screen: screen,
		store:  store,
		watch:  sim.NewContactWatch(),
		grid:   NewGridSurface(cols, max(rows-statusRows, 0)),
		log:    opts.Logger,
		phase:  opts.Phase,
		camX:   opts.WorldW / 2,
		camY:   opts.WorldH / 2,
	}
	v.fit(opts.WorldW, opts.WorldH)

	sysOpts := []vision.Option{
		vision.WithLogger(opts.Logger),
		vision.WithStyle(opts.Style),
		vision.WithSurface(v.grid),
		vision.WithTransforms(v.worldToSurface, v.metersToUnits),
		vision.WithBuildingOcclusion(opts.Occlusion),
	}
	if opts.Profiles != nil {
		sysOpts = append(sysOpts, vision.WithProfiles(opts.Profiles))
	}
	v.vision = vision.NewSystem(sysOpts...)
	v.vision.SetBuildings(opts.Buildings)
	v.vision.Enable()
	return v
}

// fit picks a scale that shows the whole world rectangle.
func (v *Viewer) fit(worldW, worldH float64) {
	w, h := v.grid.Bounds()
	v.metersPerUnit = 1
	if worldW <= 0 || worldH <= 0 || w <= 0 || h <= 0 {
		return
	}
	v.metersPerUnit = math.Max(worldW/w, worldH/h)
}

func (v *Viewer) worldToSurface(p vision.Vec2) vision.Vec2 {
	w, h := v.grid.Bounds()
	return vision.Vec2{
		X: (p.X-v.camX)/v.metersPerUnit + w/2,
		Y: h/2 - (p.Y-v.camY)/v.metersPerUnit,
	}
}

func (v *Viewer) metersToUnits(m float64) float64 {
	return m / v.metersPerUnit
}

// Vision exposes the fog system.
func (v *Viewer) Vision() *vision.System { return v.vision }

// Grid exposes the raster the fog was drawn into.
func (v *Viewer) Grid() *GridSurface { return v.grid }

// Step advances the store by dt, runs one vision frame and redraws.
func (v *Viewer) Step(dt float64) {
	if v.paused {
		dt = 0
	}
	v.store.Advance(dt)
	v.units = v.store.Snapshot()

	v.grid.Clear()
	v.vision.Update(v.units, v.phase, dt)
	for _, e := range v.watch.Observe(v.vision, v.units) {
		v.log.Debug().Str("target", e.TargetID).Stringer("kind", e.Kind).Msg("contact")
		if v.OnContact != nil {
			v.OnContact(e)
		}
		if e.Kind == sim.ContactGhost || e.Kind == sim.ContactFaded {
			v.status = fmt.Sprintf("%s %s", e.TargetID, e.Kind)
		}
	}
	v.draw()
}

// HandleEvent applies one terminal event. It returns false when the user
// asked to quit.
func (v *Viewer) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyUp:
			v.camY += 4 * v.metersPerUnit
		case tcell.KeyDown:
			v.camY -= 4 * v.metersPerUnit
		case tcell.KeyLeft:
			v.camX -= 4 * v.metersPerUnit
		case tcell.KeyRight:
			v.camX += 4 * v.metersPerUnit
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case 'f':
				if v.vision.Enabled() {
					v.vision.Disable()
				} else {
					v.vision.Enable()
				}
			case 'o':
				v.vision.SetOcclusion(!v.vision.Occlusion())
			case 'p':
				v.paused = !v.paused
			case '+', '=':
				v.metersPerUnit /= 1.25
			case '-':
				v.metersPerUnit *= 1.25
			}
		}
	case *tcell.EventResize:
		cols, rows := v.screen.Size()
		v.grid.Resize(cols, max(rows-statusRows, 0))
		v.screen.Sync()
	}
	return true
}

// Run drives the viewer at the given frame interval until ctx is done or
// the user quits.
func (v *Viewer) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	dt := interval.Seconds()
	for {
		select {
		case <-ctx.Done():
			v.vision.Dispose()
			return
		case ev := <-events:
			if !v.HandleEvent(ev) {
				v.vision.Dispose()
				return
			}
		case <-ticker.C:
			v.Step(dt)
		}
	}
}

func toTcell(c colorful.Color) tcell.Color {
	r, g, b := c.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

func fromRGBA(c color.RGBA) colorful.Color {
	cc, _ := colorful.MakeColor(color.RGBA{R: c.R, G: c.G, B: c.B, A: 255})
	return cc
}

func allianceColor(a vision.Alliance) colorful.Color {
	switch a {
	case vision.AllianceFriendly:
		return colorful.Color{R: 0.31, G: 0.59, B: 0.90}
	case vision.AllianceHostile:
		return colorful.Color{R: 0.86, G: 0.27, B: 0.27}
	case vision.AllianceNeutral:
		return colorful.Color{R: 0.35, G: 0.78, B: 0.43}
	default:
		return colorful.Color{R: 0.78, G: 0.78, B: 0.35}
	}
}

func allianceGlyph(a vision.Alliance) rune {
	switch a {
	case vision.AllianceFriendly:
		return 'F'
	case vision.AllianceHostile:
		return 'H'
	case vision.AllianceNeutral:
		return 'N'
	default:
		return 'U'
	}
}

func (v *Viewer) draw() {
	v.screen.Clear()
	fog := fromRGBA(v.grid.FogColor())
	edge := fromRGBA(v.grid.EdgeColor())

	if n := v.grid.Cols * v.grid.Rows; len(v.bg) != n {
		v.bg = make([]tcell.Color, n)
	}
	for r := 0; r < v.grid.Rows; r++ {
		for c := 0; c < v.grid.Cols; c++ {
			bg := toTcell(groundColor.BlendRgb(fog, v.grid.Fog(c, r)).Clamped())
			v.bg[r*v.grid.Cols+c] = bg
			st := tcell.StyleDefault.Background(bg)
			ch := ' '
			if v.grid.Edge(c, r) {
				ch = '·'
				st = st.Foreground(toTcell(edge))
			}
			v.screen.SetContent(c, r, ch, nil, st)
		}
	}

	v.drawBuildings()

	fogOn := v.vision.Enabled()
	for _, u := range v.units {
		if fogOn && u.Alliance != vision.AllianceFriendly && !v.vision.IsVisible(u.TargetID) {
			continue
		}
		v.putGlyph(u.Position, allianceGlyph(u.Alliance), allianceColor(u.Alliance))
	}
	for _, g := range v.vision.Ghosts() {
		dim := groundColor.BlendRgb(allianceColor(vision.AllianceHostile), g.Opacity).Clamped()
		v.putGlyph(g.Position, '?', dim)
	}

	status := fmt.Sprintf(" frame %d  ghosts %d  fog %v  occl %v  [f]og [o]ccl [p]ause +/- zoom q quit  %s",
		v.vision.Frames(), len(v.vision.Ghosts()), v.vision.Enabled(), v.vision.Occlusion(), v.status)
	v.putString(0, v.grid.Rows, status)
	v.screen.Show()
}

func (v *Viewer) drawBuildings() {
	st := tcell.StyleDefault.Foreground(tcell.NewRGBColor(150, 140, 120))
	for _, b := range v.vision.Buildings() {
		for i := range b {
			a := v.worldToSurface(b[i])
			z := v.worldToSurface(b[(i+1)%len(b)])
			steps := int(math.Ceil(math.Hypot(z.X-a.X, z.Y-a.Y)/0.5)) + 1
			for k := 0; k <= steps && k < 2048; k++ {
				t := float64(k) / float64(steps)
				c, r := CellAt(vision.Vec2{X: a.X + (z.X-a.X)*t, Y: a.Y + (z.Y-a.Y)*t})
				if c < 0 || r < 0 || c >= v.grid.Cols || r >= v.grid.Rows {
					continue
				}
				v.screen.SetContent(c, r, '#', nil, st.Background(v.bg[r*v.grid.Cols+c]))
			}
		}
	}
}

func (v *Viewer) putGlyph(world vision.Vec2, ch rune, col colorful.Color) {
	c, r := CellAt(v.worldToSurface(world))
	if c < 0 || r < 0 || c >= v.grid.Cols || r >= v.grid.Rows {
		return
	}
	st := tcell.StyleDefault.Foreground(toTcell(col)).Background(v.bg[r*v.grid.Cols+c]).Bold(true)
	v.screen.SetContent(c, r, ch, nil, st)
}

func (v *Viewer) putString(x, y int, s string) {
	st := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	for _, ch := range s {
		if x >= v.grid.Cols {
			return
		}
		v.screen.SetContent(x, y, ch, nil, st)
		x++
	}
}
