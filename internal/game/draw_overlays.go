package game

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/Sensor-Fog/internal/vision"
)

const (
	unitRadius  = 5
	gridSpacing = 100.0 // meters
)

// unitShown reports whether a unit marker may be drawn. With fog on, only
// friendlies and currently sensed units are revealed.
func unitShown(fogOn bool, u vision.Unit, visible bool) bool {
	if !fogOn || u.Alliance == vision.AllianceFriendly {
		return true
	}
	return visible
}

func (g *Game) drawGrid(dst *ebiten.Image) {
	c := color.RGBA{R: 60, G: 78, B: 60, A: 90}
	for x := 0.0; x <= g.worldW; x += gridSpacing {
		a := g.cam.WorldToScreen(vision.Vec2{X: x, Y: 0})
		b := g.cam.WorldToScreen(vision.Vec2{X: x, Y: g.worldH})
		vector.StrokeLine(dst, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), 1, c, false)
	}
	for y := 0.0; y <= g.worldH; y += gridSpacing {
		a := g.cam.WorldToScreen(vision.Vec2{X: 0, Y: y})
		b := g.cam.WorldToScreen(vision.Vec2{X: g.worldW, Y: y})
		vector.StrokeLine(dst, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), 1, c, false)
	}
}

func (g *Game) drawBuildings(dst *ebiten.Image) {
	fill := color.RGBA{R: 92, G: 88, B: 80, A: 255}
	edge := color.RGBA{R: 140, G: 134, B: 120, A: 255}
	if g.vision.Occlusion() {
		edge = color.RGBA{R: 230, G: 180, B: 90, A: 255}
	}
	for _, b := range g.vision.Buildings() {
		if len(b) < 3 {
			continue
		}
		var path vector.Path
		for i, p := range b {
			s := g.cam.WorldToScreen(p)
			if i == 0 {
				path.MoveTo(float32(s.X), float32(s.Y))
				continue
			}
			path.LineTo(float32(s.X), float32(s.Y))
		}
		path.Close()

		op := &vector.DrawPathOptions{AntiAlias: true}
		op.ColorScale.ScaleWithColor(fill)
		vector.FillPath(dst, &path, &vector.FillOptions{}, op)

		op = &vector.DrawPathOptions{AntiAlias: true}
		op.ColorScale.ScaleWithColor(edge)
		vector.StrokePath(dst, &path, &vector.StrokeOptions{Width: 1.5}, op)
	}
}

func (g *Game) drawUnits(dst *ebiten.Image) {
	fogOn := g.vision.Enabled()
	for _, u := range g.units {
		if !unitShown(fogOn, u, g.vision.IsVisible(u.TargetID)) {
			continue
		}
		s := g.cam.WorldToScreen(u.Position)
		sx, sy := float32(s.X), float32(s.Y)
		c := allianceColor(u.Alliance)

		vector.FillCircle(dst, sx, sy, unitRadius, c, true)
		vector.StrokeCircle(dst, sx, sy, unitRadius, 1, color.RGBA{A: 200}, true)

		// Heading tick: 0 deg is north, clockwise.
		h := u.Heading * math.Pi / 180
		hx := sx + float32(math.Sin(h))*unitRadius*2.2
		hy := sy - float32(math.Cos(h))*unitRadius*2.2
		vector.StrokeLine(dst, sx, sy, hx, hy, 1.5, c, true)

		g.drawLabel(dst, u.TargetID, s.X+unitRadius+3, s.Y-6, color.RGBA{R: 220, G: 230, B: 220, A: 255}, 1)
	}
}

// drawGhosts marks the last known position of lost hostiles, fading with
// the ghost's opacity.
func (g *Game) drawGhosts(dst *ebiten.Image) {
	for _, gh := range g.vision.Ghosts() {
		s := g.cam.WorldToScreen(gh.Position)
		sx, sy := float32(s.X), float32(s.Y)
		a := uint8(math.Round(220 * gh.Opacity))
		c := color.RGBA{R: 230, G: 90, B: 90, A: a}

		vector.StrokeCircle(dst, sx, sy, unitRadius+2, 1.5, c, true)
		vector.StrokeLine(dst, sx-4, sy-4, sx+4, sy+4, 1, c, true)
		vector.StrokeLine(dst, sx-4, sy+4, sx+4, sy-4, 1, c, true)

		label := fmt.Sprintf("%s -%.0fs", gh.TargetID, gh.FadeClock)
		g.drawLabel(dst, label, s.X+unitRadius+4, s.Y-6, color.RGBA{R: 240, G: 150, B: 150, A: 255}, gh.Opacity)
	}
}

func (g *Game) drawLabel(dst *ebiten.Image, s string, x, y float64, c color.Color, alpha float64) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(c)
	op.ColorScale.ScaleAlpha(float32(alpha))
	text.Draw(dst, s, g.face, op)
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	speed := fmt.Sprintf("%gx", simSpeeds[g.speedIdx])
	if g.paused {
		speed = "PAUSED"
	}
	visible := g.watch.Visible()
	lines := []string{
		fmt.Sprintf("SIM: %s  P=pause  ,/. speed", speed),
		fmt.Sprintf("phase: %s  frame: %d", g.vision.Phase(), g.vision.Frames()),
		fmt.Sprintf("contacts: %d  ghosts: %d", visible, len(g.vision.Ghosts())),
		fmt.Sprintf("[F] fog %s  [O] occlusion %s", onOff(g.vision.Enabled()), onOff(g.vision.Occlusion())),
		"[C] copy ghost report  [H] HUD",
		"WASD/arrows=pan  Q/E/scroll=zoom",
		fmt.Sprintf("zoom: %.2fx", g.cam.Zoom),
	}

	const lineH = 12
	const charW = 6
	const padX = 5
	const padY = 4

	maxLen := 0
	for _, l := range lines {
		if len(l) > maxLen {
			maxLen = len(l)
		}
	}
	boxW := float32(maxLen*charW + padX*2)
	boxH := float32(len(lines)*lineH + padY*2)
	bx := float32(g.offX + 6)
	by := float32(g.offY+g.viewH) - boxH - 6

	vector.FillRect(screen, bx, by, boxW, boxH, color.RGBA{R: 6, G: 10, B: 6, A: 210}, false)
	vector.StrokeRect(screen, bx, by, boxW, boxH, 1.0, color.RGBA{R: 60, G: 100, B: 60, A: 180}, false)
	for i, line := range lines {
		ebitenutil.DebugPrintAt(screen, line, int(bx)+padX, int(by)+padY+i*lineH)
	}
}
