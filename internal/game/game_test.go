package game

import (
	"math"
	"testing"

	"github.com/Garsondee/Sensor-Fog/internal/sim"
	"github.com/Garsondee/Sensor-Fog/internal/vision"
	"github.com/hajimehoshi/ebiten/v2"
)

func TestCamera_RoundTrip(t *testing.T) {
	c := NewCamera(1000, 500, 800, 600, 2)
	for _, p := range []vision.Vec2{{X: 0, Y: 0}, {X: 123, Y: 456}, {X: 1000, Y: 500}} {
		back := c.ScreenToWorld(c.WorldToScreen(p))
		if math.Abs(back.X-p.X) > 1e-9 || math.Abs(back.Y-p.Y) > 1e-9 {
			t.Fatalf("round trip of %+v gave %+v", p, back)
		}
	}
}

func TestCamera_NorthIsUp(t *testing.T) {
	c := &Camera{Zoom: 1, PixelsPerMeter: 1, ViewW: 100, ViewH: 100}
	centre := c.WorldToScreen(vision.Vec2{})
	north := c.WorldToScreen(vision.Vec2{Y: 10})
	east := c.WorldToScreen(vision.Vec2{X: 10})
	if centre != (vision.Vec2{X: 50, Y: 50}) {
		t.Fatalf("camera origin should map to viewport centre, got %+v", centre)
	}
	if north.Y >= centre.Y {
		t.Fatalf("+Y world should be up on screen, got %+v", north)
	}
	if east.X <= centre.X {
		t.Fatalf("+X world should be right on screen, got %+v", east)
	}
}

func TestCamera_FitsWorldAndClampsZoom(t *testing.T) {
	c := NewCamera(1600, 1000, 800, 400, 1)
	if c.Zoom != 0.4 {
		t.Fatalf("expected zoom 0.4 to fit 1000m into 400px, got %.3f", c.Zoom)
	}
	if got := c.MetersToPixels(100); math.Abs(got-40) > 1e-9 {
		t.Fatalf("100m at zoom 0.4 should be 40px, got %.3f", got)
	}
	c.ZoomBy(100)
	if c.Zoom != zoomMax {
		t.Fatalf("zoom should clamp at %.2f, got %.2f", zoomMax, c.Zoom)
	}
	c.ZoomBy(0)
	c.ZoomBy(math.NaN())
	if c.Zoom != zoomMax {
		t.Fatalf("invalid zoom factors should be ignored, got %.2f", c.Zoom)
	}
}

func TestCamera_PanMovesWithScreen(t *testing.T) {
	c := &Camera{Zoom: 2, PixelsPerMeter: 1, ViewW: 100, ViewH: 100}
	c.Pan(20, -20) // right and up on screen
	if c.X != 10 || c.Y != 10 {
		t.Fatalf("expected camera at (10,10), got (%.1f,%.1f)", c.X, c.Y)
	}
}

func TestUnitShown(t *testing.T) {
	hostile := vision.Unit{TargetID: "h", Alliance: vision.AllianceHostile}
	friendly := vision.Unit{TargetID: "f", Alliance: vision.AllianceFriendly}
	if unitShown(true, hostile, false) {
		t.Fatal("unsensed hostile must stay hidden under fog")
	}
	if !unitShown(true, hostile, true) || !unitShown(false, hostile, false) {
		t.Fatal("hostile should show when sensed or with fog off")
	}
	if !unitShown(true, friendly, false) {
		t.Fatal("friendlies are always shown")
	}
}

func TestBlendFor(t *testing.T) {
	if blendFor(vision.CompositeDestinationOut) != ebiten.BlendDestinationOut {
		t.Fatal("destination-out should erase")
	}
	if blendFor(vision.CompositeSourceOver) != ebiten.BlendSourceOver {
		t.Fatal("source-over should paint")
	}
}

func TestEventLog_RingKeepsNewest(t *testing.T) {
	el := NewEventLog()
	for i := 0; i < logMaxEntries+5; i++ {
		el.Add(EventEntry{Frame: uint64(i)})
	}
	if el.Len() != logMaxEntries {
		t.Fatalf("expected %d entries, got %d", logMaxEntries, el.Len())
	}
	recent := el.Recent()
	if recent[0].Frame != 5 || recent[len(recent)-1].Frame != uint64(logMaxEntries+4) {
		t.Fatalf("expected oldest 5 and newest %d, got %d..%d",
			logMaxEntries+4, recent[0].Frame, recent[len(recent)-1].Frame)
	}
}

func TestEventLog_AddContacts(t *testing.T) {
	el := NewEventLog()
	el.AddContacts(9, []sim.ContactEvent{
		{Kind: sim.ContactGhost, TargetID: "h1", Alliance: vision.AllianceHostile, Position: vision.Vec2{X: 10, Y: 20}},
		{Kind: sim.ContactReacquired, TargetID: "h1", Alliance: vision.AllianceHostile, FadeClock: 4},
	})
	got := el.Recent()
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].Message != "last seen 10,20" || got[1].Message != "reacquired after 4s" {
		t.Fatalf("unexpected messages %q / %q", got[0].Message, got[1].Message)
	}
}
