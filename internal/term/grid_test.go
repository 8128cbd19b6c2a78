package term

import (
	"image/color"
	"math"
	"testing"

	"github.com/Garsondee/Sensor-Fog/internal/vision"
)

func fogAll(g *GridSurface, a uint8) {
	w, h := g.Bounds()
	g.SetCompositeMode(vision.CompositeSourceOver)
	g.SetFillColor(color.RGBA{R: 10, G: 10, B: 10, A: a})
	g.FillRect(0, 0, w, h)
}

func TestGridSurface_FillRectFogsEveryCell(t *testing.T) {
	g := NewGridSurface(10, 5)
	if w, h := g.Bounds(); w != 10 || h != 10 {
		t.Fatalf("expected 10x10 surface units, got %.0fx%.0f", w, h)
	}
	fogAll(g, 255)
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			if g.Fog(c, r) != 1 {
				t.Fatalf("cell %d,%d fog=%.2f, expected 1", c, r, g.Fog(c, r))
			}
		}
	}
	if g.FogColor().A != 255 {
		t.Fatalf("fog colour not recorded: %+v", g.FogColor())
	}
}

func TestGridSurface_DestinationOutArcClearsCircle(t *testing.T) {
	g := NewGridSurface(10, 5)
	fogAll(g, 255)

	g.SetCompositeMode(vision.CompositeDestinationOut)
	g.SetFillColor(color.White)
	g.BeginPath()
	g.Arc(5, 5, 3, 0, 2*math.Pi)
	g.ClosePath()
	g.Fill()

	if g.Fog(5, 2) != 0 {
		t.Fatalf("centre cell should be clear, fog=%.2f", g.Fog(5, 2))
	}
	if g.Fog(0, 0) != 1 {
		t.Fatalf("corner cell should stay fogged, fog=%.2f", g.Fog(0, 0))
	}
}

func TestGridSurface_PartialAlphaComposites(t *testing.T) {
	g := NewGridSurface(2, 1)
	fogAll(g, 128)
	first := g.Fog(0, 0)
	fogAll(g, 128)
	if second := g.Fog(0, 0); second <= first || second >= 1 {
		t.Fatalf("second source-over pass should thicken fog: %.3f -> %.3f", first, second)
	}
}

func TestGridSurface_StrokeMarksEdges(t *testing.T) {
	g := NewGridSurface(10, 5)
	g.SetStrokeColor(color.RGBA{R: 79, G: 209, B: 197, A: 200})
	g.BeginPath()
	g.MoveTo(0.2, 1)
	g.LineTo(9.8, 1)
	g.Stroke()

	for c := 0; c < g.Cols; c++ {
		if !g.Edge(c, 0) {
			t.Fatalf("cell %d,0 should carry the edge", c)
		}
	}
	if g.Edge(0, 3) {
		t.Fatal("cell off the line should not be marked")
	}
	if g.EdgeColor().G != 209 {
		t.Fatalf("edge colour not recorded: %+v", g.EdgeColor())
	}

	g.Clear()
	if g.Edge(5, 0) || g.Fog(5, 0) != 0 {
		t.Fatal("Clear should reset edges and fog")
	}
}

func TestGridSurface_OutOfRangeIsSafe(t *testing.T) {
	g := NewGridSurface(4, 4)
	if g.Fog(-1, 0) != 0 || g.Edge(10, 10) {
		t.Fatal("out-of-range lookups should read as clear")
	}
	g.BeginPath()
	g.Arc(0, 0, math.NaN(), 0, math.Pi)
	g.Arc(100, 100, 5, 0, 2*math.Pi)
	g.Fill()
	g.Stroke()
	g.Resize(-3, 2)
	if g.Cols != 0 {
		t.Fatalf("negative size should clamp to zero, got %d", g.Cols)
	}
}

func TestGridSurface_DrivenByVisionSystem(t *testing.T) {
	g := NewGridSurface(40, 20)
	sys := vision.NewSystem(
		vision.WithSurface(g),
		vision.WithTransforms(func(p vision.Vec2) vision.Vec2 { return p }, func(m float64) float64 { return m / 10 }),
	)
	sys.Enable()

	units := []vision.Unit{{
		TargetID:  "sensor",
		Alliance:  vision.AllianceFriendly,
		AssetType: "ground_sensor",
		Position:  vision.Vec2{X: 20, Y: 20},
	}}
	sys.Update(units, vision.PhaseLive, 0.1)

	if g.Fog(20, 10) != 0 {
		t.Fatalf("cell under the sensor should be clear, fog=%.2f", g.Fog(20, 10))
	}
	if g.Fog(0, 0) == 0 {
		t.Fatal("far corner should be fogged")
	}
}

func TestGridSurface_FillsSelfTouchingFan(t *testing.T) {
	g := NewGridSurface(20, 10)
	fogAll(g, 255)

	// Two lobes meeting at one point, the shape a cone fan takes when a
	// wall clips its middle rays back to the origin.
	g.SetCompositeMode(vision.CompositeDestinationOut)
	g.SetFillColor(color.White)
	g.BeginPath()
	g.MoveTo(10, 10)
	g.LineTo(2, 2)
	g.LineTo(6, 2)
	g.LineTo(10, 10)
	g.LineTo(14, 18)
	g.LineTo(18, 18)
	g.ClosePath()
	g.Fill()

	if g.Fog(4, 1) != 0 {
		t.Fatalf("upper lobe should be cut, fog=%.2f", g.Fog(4, 1))
	}
	if g.Fog(16, 8) != 0 {
		t.Fatalf("lower lobe should be cut, fog=%.2f", g.Fog(16, 8))
	}
	if g.Fog(0, 9) != 1 {
		t.Fatalf("cell outside both lobes should stay fogged, fog=%.2f", g.Fog(0, 9))
	}
}
