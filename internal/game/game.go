// Package game hosts the vision system in an ebiten window: it owns the
// camera, feeds unit snapshots into the fog each tick and draws the map,
// the fog overlay and ghost markers.
package game

import (
	"fmt"
	"image/color"
	"math"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/rs/zerolog"
	"golang.org/x/image/font/basicfont"

	"github.com/Garsondee/Sensor-Fog/internal/config"
	"github.com/Garsondee/Sensor-Fog/internal/logging"
	"github.com/Garsondee/Sensor-Fog/internal/sim"
	"github.com/Garsondee/Sensor-Fog/internal/telemetry"
	"github.com/Garsondee/Sensor-Fog/internal/vision"
)

const (
	borderWidth = 8
	viewWidth   = 1280
	viewHeight  = 800
	statusTicks = 120
)

var simSpeeds = []float64{0.5, 1, 2, 4, 8}

// Game implements ebiten.Game.
type Game struct {
	width      int
	height     int
	viewW      int
	viewH      int
	offX, offY int

	worldW, worldH float64

	log    zerolog.Logger
	store  *telemetry.Store
	vision *vision.System
	watch  *sim.ContactWatch
	events *EventLog
	phase  vision.GamePhase
	units  []vision.Unit

	cam     *Camera
	viewBuf *ebiten.Image // map, units and fog composited at viewport size
	fogBuf  *ebiten.Image // vision passes draw here; cleared every tick
	face    text.Face

	showHUD   bool
	paused    bool
	speedIdx  int
	prevKeys  map[ebiten.Key]bool
	status    string
	statusTTL int

	copyText func(string) error
}

// New builds a Game from config, reading units from store.
func New(cfg config.Config, store *telemetry.Store, log zerolog.Logger) (*Game, error) {
	style, err := cfg.Style()
	if err != nil {
		return nil, fmt.Errorf("fog style: %w", err)
	}

	worldW, worldH := cfg.Scenario.Width, cfg.Scenario.Height
	if worldW <= 0 || worldH <= 0 {
		worldW, worldH = 1600, 1000
	}

	g := &Game{
		width:    borderWidth + viewWidth + borderWidth + logPanelWidth,
		height:   borderWidth + viewHeight + borderWidth,
		viewW:    viewWidth,
		viewH:    viewHeight,
		offX:     borderWidth,
		offY:     borderWidth,
		worldW:   worldW,
		worldH:   worldH,
		log:      log,
		store:    store,
		watch:    sim.NewContactWatch(),
		events:   NewEventLog(),
		phase:    vision.ParseGamePhase(cfg.Phase),
		showHUD:  true,
		speedIdx: 1,
		prevKeys: make(map[ebiten.Key]bool),
		copyText: clipboard.WriteAll,
		face:     text.NewGoXFace(basicfont.Face7x13),
	}
	g.cam = NewCamera(worldW, worldH, float64(g.viewW), float64(g.viewH), cfg.PixelsPerMeter)
	g.viewBuf = ebiten.NewImage(g.viewW, g.viewH)
	g.fogBuf = ebiten.NewImage(g.viewW, g.viewH)

	g.vision = vision.NewSystem(
		vision.WithLogger(logging.Component(log, "vision")),
		vision.WithProfiles(cfg.Registry()),
		vision.WithStyle(style),
		vision.WithSurface(NewImageSurface(g.fogBuf)),
		vision.WithTransforms(g.cam.WorldToScreen, g.cam.MetersToPixels),
		vision.WithBuildingOcclusion(cfg.Occlusion),
	)
	g.vision.SetBuildings(cfg.Buildings())
	g.vision.Enable()
	return g, nil
}

// Vision exposes the fog system, mainly for the command to dispose it.
func (g *Game) Vision() *vision.System { return g.vision }

func (g *Game) Update() error {
	if g.handleInput() {
		g.vision.Dispose()
		return ebiten.Termination
	}

	dt := 0.0
	if !g.paused {
		dt = simSpeeds[g.speedIdx] / float64(ebiten.TPS())
		g.store.Advance(dt)
	}
	g.units = g.store.Snapshot()

	g.fogBuf.Clear()
	g.vision.Update(g.units, g.phase, dt)
	g.events.AddContacts(g.vision.Frames(), g.watch.Observe(g.vision, g.units))

	if g.statusTTL > 0 {
		g.statusTTL--
	}
	return nil
}

// handleInput applies keyboard and mouse controls. It reports whether the
// user asked to quit.
func (g *Game) handleInput() bool {
	currentKeys := map[ebiten.Key]bool{}
	justPressed := func(k ebiten.Key) bool {
		currentKeys[k] = ebiten.IsKeyPressed(k)
		return currentKeys[k] && !g.prevKeys[k]
	}
	defer func() { g.prevKeys = currentKeys }()

	if justPressed(ebiten.KeyEscape) {
		return true
	}

	// F: fog on/off.
	if justPressed(ebiten.KeyF) {
		if g.vision.Enabled() {
			g.vision.Disable()
			g.setStatus("fog off")
		} else {
			g.vision.Enable()
			g.setStatus("fog on")
		}
	}
	// O: building occlusion.
	if justPressed(ebiten.KeyO) {
		g.vision.SetOcclusion(!g.vision.Occlusion())
		g.setStatus(fmt.Sprintf("occlusion %s", onOff(g.vision.Occlusion())))
	}
	if justPressed(ebiten.KeyC) {
		g.copyReport()
	}
	if justPressed(ebiten.KeyH) {
		g.showHUD = !g.showHUD
	}
	if justPressed(ebiten.KeyP) {
		g.paused = !g.paused
	}
	if justPressed(ebiten.KeyComma) && g.speedIdx > 0 {
		g.speedIdx--
	}
	if justPressed(ebiten.KeyPeriod) && g.speedIdx < len(simSpeeds)-1 {
		g.speedIdx++
	}

	// Camera pan: WASD or arrow keys, in screen pixels.
	const panSpeed = 8.0
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		g.cam.Pan(0, -panSpeed)
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		g.cam.Pan(0, panSpeed)
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		g.cam.Pan(-panSpeed, 0)
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		g.cam.Pan(panSpeed, 0)
	}

	// Zoom: Q/E or mouse wheel.
	if ebiten.IsKeyPressed(ebiten.KeyE) {
		g.cam.ZoomBy(1.02)
	}
	if ebiten.IsKeyPressed(ebiten.KeyQ) {
		g.cam.ZoomBy(1 / 1.02)
	}
	if _, wy := ebiten.Wheel(); wy != 0 {
		g.cam.ZoomBy(math.Pow(1.12, wy))
	}
	return false
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func (g *Game) setStatus(s string) {
	g.status = s
	g.statusTTL = statusTicks
}

// copyReport puts the ghost report on the system clipboard.
func (g *Game) copyReport() {
	report := sim.GhostReport(g.vision.Frames(), g.vision.Phase(), g.vision.Ghosts())
	if err := g.copyText(report); err != nil {
		g.log.Warn().Err(err).Msg("clipboard copy failed")
		g.setStatus("clipboard unavailable")
		return
	}
	g.log.Info().Int("ghosts", len(g.vision.Ghosts())).Msg("ghost report copied")
	g.setStatus("ghost report copied")
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 12, G: 14, B: 12, A: 255})

	g.viewBuf.Fill(color.RGBA{R: 38, G: 52, B: 38, A: 255})
	g.drawGrid(g.viewBuf)
	g.drawBuildings(g.viewBuf)
	g.drawUnits(g.viewBuf)
	g.viewBuf.DrawImage(g.fogBuf, nil)
	g.drawGhosts(g.viewBuf)

	var blit ebiten.DrawImageOptions
	blit.GeoM.Translate(float64(g.offX), float64(g.offY))
	screen.DrawImage(g.viewBuf, &blit)

	ox, oy := float32(g.offX), float32(g.offY)
	vw, vh := float32(g.viewW), float32(g.viewH)
	vector.StrokeRect(screen, ox-1, oy-1, vw+2, vh+2, 2.0, color.RGBA{R: 65, G: 90, B: 65, A: 255}, false)

	g.events.Draw(screen, g.offX+g.viewW+g.offX, g.height)

	if g.showHUD {
		g.drawHUD(screen)
	}
	if g.statusTTL > 0 {
		ebitenutil.DebugPrintAt(screen, g.status, g.offX+6, g.offY+6)
	}
}

func (g *Game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}

// Size returns the window size the game lays out to.
func (g *Game) Size() (int, int) {
	return g.width, g.height
}
