package vision

import (
	"errors"
	"math"
	"testing"
)

func square(x, y, size float64) Building {
	return Building{{X: x, Y: y}, {X: x + size, Y: y}, {X: x + size, Y: y + size}, {X: x, Y: y + size}}
}

func TestBuildingOccluder_BlocksSightLine(t *testing.T) {
	occ, err := NewBuildingOccluder([]Building{square(-5, 20, 10)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !occ.Blocks(Vec2{X: 0, Y: 0}, Vec2{X: 0, Y: 50}) {
		t.Fatal("building between observer and target should block")
	}
	if occ.Blocks(Vec2{X: 0, Y: 0}, Vec2{X: 0, Y: 10}) {
		t.Fatal("target short of the building should be visible")
	}
	if occ.Blocks(Vec2{X: 0, Y: 0}, Vec2{X: 40, Y: 0}) {
		t.Fatal("sight line away from the building should be clear")
	}
}

func TestBuildingOccluder_ObserverInsideIgnoresOwnBuilding(t *testing.T) {
	occ, _ := NewBuildingOccluder([]Building{square(-5, -5, 10)})
	if occ.Blocks(Vec2{X: 0, Y: 0}, Vec2{X: 0, Y: 40}) {
		t.Fatal("an observer inside a building should see out of it")
	}
}

func TestBuildingOccluder_ClipStopsShortOfWall(t *testing.T) {
	occ, _ := NewBuildingOccluder([]Building{square(-5, 20, 10)})
	end := occ.Clip(Vec2{X: 0, Y: 0}, Vec2{X: 0, Y: 50})
	if end.X != 0 || end.Y >= 20 || end.Y < 19 {
		t.Fatalf("expected ray clipped just short of y=20, got %+v", end)
	}
	free := occ.Clip(Vec2{X: 0, Y: 0}, Vec2{X: 50, Y: 0})
	if free != (Vec2{X: 50, Y: 0}) {
		t.Fatalf("unobstructed ray should be unchanged, got %+v", free)
	}
}

func TestNewBuildingOccluder_SkipsDegenerate(t *testing.T) {
	occ, err := NewBuildingOccluder([]Building{
		{{X: 0, Y: 0}, {X: 1, Y: 1}},
		square(0, 0, 4),
	})
	if !errors.Is(err, ErrDegeneratePolygon) {
		t.Fatalf("expected ErrDegeneratePolygon, got %v", err)
	}
	if occ.Len() != 1 {
		t.Fatalf("expected the valid building to be kept, got %d", occ.Len())
	}
}

func TestBuildingOccluder_NilSafe(t *testing.T) {
	var occ *BuildingOccluder
	if occ.Blocks(Vec2{}, Vec2{X: 1}) {
		t.Fatal("nil occluder blocks nothing")
	}
	if occ.Clip(Vec2{}, Vec2{X: 3}) != (Vec2{X: 3}) {
		t.Fatal("nil occluder clips nothing")
	}
}

func TestSystem_OcclusionHidesHostileBehindBuilding(t *testing.T) {
	s, _ := newTestSystem(WithBuildingOcclusion(true))
	s.SetBuildings([]Building{square(-5, 20, 10)})
	s.Enable()
	s.Update([]Unit{friendly("f1", "eye", 0, 0, 0), hostile("h1", 0, 40)}, PhaseLive, 0.1)
	if s.IsVisible("h1") {
		t.Fatal("hostile behind a building should be hidden with occlusion on")
	}

	s.SetOcclusion(false)
	s.Update([]Unit{friendly("f1", "eye", 0, 0, 0), hostile("h1", 0, 40)}, PhaseLive, 0.1)
	if !s.IsVisible("h1") {
		t.Fatal("buildings are advisory with occlusion off")
	}
}

func TestSystem_OcclusionClipsConeOutline(t *testing.T) {
	s, rs := newTestSystem(WithBuildingOcclusion(true))
	s.SetBuildings([]Building{square(-100, 20, 200)})
	s.Enable()
	s.Update([]Unit{friendly("f1", "eye", 0, 0, 0)}, PhaseLive, 0.1)
	for _, op := range rs.Ops {
		if op.Name == "LineTo" && math.Hypot(op.Args[0], op.Args[1]) > 50 {
			t.Fatalf("cone point beyond range: %v", op.Args)
		}
		if op.Name == "LineTo" && op.Args[1] > 20 {
			t.Fatalf("cone ray passed through the wall: %v", op.Args)
		}
	}
}

type stubOccluder struct{ calls int }

func (s *stubOccluder) Blocks(_, _ Vec2) bool { s.calls++; return true }

func (s *stubOccluder) Clip(_, to Vec2) Vec2 { return to }

func TestSystem_CustomOccluder(t *testing.T) {
	occ := &stubOccluder{}
	s, _ := newTestSystem(WithOccluder(occ))
	s.SetBuildings([]Building{square(0, 0, 1)})
	s.Enable()
	s.Update([]Unit{friendly("f1", "eye", 0, 0, 0), hostile("h1", 0, 10)}, PhaseLive, 0.1)
	if occ.calls == 0 || s.IsVisible("h1") {
		t.Fatal("custom occluder should be consulted and block")
	}
}

func TestNewBuildingOccluder_RejectsSelfIntersectingOutline(t *testing.T) {
	bowtie := Building{{X: 0, Y: 0}, {X: 4, Y: 4}, {X: 4, Y: 0}, {X: 0, Y: 4}}
	occ, err := NewBuildingOccluder([]Building{bowtie, square(10, 10, 4)})
	if err == nil {
		t.Fatal("expected an error for a self-intersecting outline")
	}
	if occ.Len() != 1 {
		t.Fatalf("expected only the square to compile, got %d", occ.Len())
	}
	if !occ.Blocks(Vec2{X: 12, Y: 0}, Vec2{X: 12, Y: 30}) {
		t.Fatal("the valid building should still block")
	}
}
