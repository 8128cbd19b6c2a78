package vision

import (
	"math"
	"testing"
)

func hidden(id string, x, y float64) Observation {
	return Observation{TargetID: id, Position: Vec2{X: x, Y: y}}
}

func seen(id string, x, y float64) Observation {
	return Observation{TargetID: id, Position: Vec2{X: x, Y: y}, Visible: true}
}

func TestGhostTracker_HiddenHostileFades(t *testing.T) {
	gt := NewGhostTracker()
	for i := 0; i < 3; i++ {
		gt.Update([]Observation{hidden("h1", 10, 20)}, 0.1)
	}
	g, ok := gt.Get("h1")
	if !ok {
		t.Fatal("expected a ghost after 3 hidden updates")
	}
	if g.Opacity >= 1 || g.Opacity <= 0 {
		t.Fatalf("expected 0 < opacity < 1, got %.4f", g.Opacity)
	}
	if g.Position != (Vec2{X: 10, Y: 20}) {
		t.Fatalf("ghost should sit at (10,20), got %+v", g.Position)
	}

	for i := 3; i < 310; i++ {
		gt.Update([]Observation{hidden("h1", 10, 20)}, 0.1)
	}
	if _, ok := gt.Get("h1"); ok {
		t.Fatal("ghost should be gone after 31s")
	}
}

func TestGhostTracker_StartsAtFullOpacity(t *testing.T) {
	gt := NewGhostTracker()
	gt.Update([]Observation{hidden("h1", 0, 0)}, 0.5)
	g, ok := gt.Get("h1")
	if !ok {
		t.Fatal("expected ghost")
	}
	if g.Opacity != 1 || g.FadeClock != 0 {
		t.Fatalf("new ghost should be opacity 1 fade 0, got %.3f / %.3f", g.Opacity, g.FadeClock)
	}
}

func TestGhostTracker_OpacityStrictlyDecreasing(t *testing.T) {
	gt := NewGhostTracker()
	gt.Update([]Observation{hidden("h1", 0, 0)}, 0.1)
	prev := 1.0
	for i := 0; i < 299; i++ {
		gt.Update([]Observation{hidden("h1", 0, 0)}, 0.1)
		g, ok := gt.Get("h1")
		if !ok {
			t.Fatalf("ghost vanished early at step %d", i)
		}
		if g.Opacity >= prev {
			t.Fatalf("opacity not decreasing at step %d: %.6f >= %.6f", i, g.Opacity, prev)
		}
		prev = g.Opacity
	}
}

func TestGhostTracker_RemovedAtFadeWindow(t *testing.T) {
	gt := NewGhostTracker()
	var removed []Ghost
	gt.OnRemove = func(g Ghost, reacquired bool) {
		if reacquired {
			t.Fatal("fade-out should not report reacquired")
		}
		removed = append(removed, g)
	}
	gt.Update([]Observation{hidden("h1", 0, 0)}, 0)
	gt.Update([]Observation{hidden("h1", 0, 0)}, 29)
	if _, ok := gt.Get("h1"); !ok {
		t.Fatal("ghost should survive 29s")
	}
	gt.Update([]Observation{hidden("h1", 0, 0)}, 1)
	if _, ok := gt.Get("h1"); ok {
		t.Fatal("ghost should be removed at exactly 30s")
	}
	if len(removed) != 1 || removed[0].Opacity != 0 {
		t.Fatalf("expected one removal at opacity 0, got %+v", removed)
	}
}

func TestGhostTracker_VisibleToHiddenCreatesOneGhostAtLastPosition(t *testing.T) {
	gt := NewGhostTracker()
	created := 0
	gt.OnCreate = func(Ghost) { created++ }

	gt.Update([]Observation{seen("h1", 5, 5)}, 0.1)
	if gt.Len() != 0 {
		t.Fatal("visible hostile must not have a ghost")
	}
	gt.Update([]Observation{hidden("h1", 7, 9)}, 0.1)
	gt.Update([]Observation{hidden("h1", 9, 12)}, 0.1)

	if created != 1 || gt.Len() != 1 {
		t.Fatalf("expected exactly one ghost, created=%d len=%d", created, gt.Len())
	}
	g, _ := gt.Get("h1")
	if g.Position != (Vec2{X: 5, Y: 5}) {
		t.Fatalf("ghost should stay at last seen position (5,5), got %+v", g.Position)
	}
}

func TestGhostTracker_ReappearRemovesSameUpdate(t *testing.T) {
	gt := NewGhostTracker()
	gt.Update([]Observation{hidden("h1", 1, 1)}, 0.1)
	gt.Update([]Observation{hidden("h1", 1, 1)}, 0.1)
	reacq := false
	gt.OnRemove = func(_ Ghost, r bool) { reacq = r }
	gt.Update([]Observation{seen("h1", 2, 2)}, 0.1)
	if _, ok := gt.Get("h1"); ok {
		t.Fatal("ghost should be removed when unit is visible again")
	}
	if !reacq {
		t.Fatal("removal should be flagged as reacquired")
	}
}

func TestGhostTracker_VanishedUnitLeavesGhost(t *testing.T) {
	gt := NewGhostTracker()
	gt.Update([]Observation{seen("h1", 3, 4)}, 0.1)
	gt.Update(nil, 0.1)
	g, ok := gt.Get("h1")
	if !ok {
		t.Fatal("a seen hostile that leaves the feed should leave a ghost")
	}
	if g.Position != (Vec2{X: 3, Y: 4}) || g.Opacity != 1 {
		t.Fatalf("unexpected ghost %+v", g)
	}

	// Keeps fading while absent, position unchanged.
	gt.Update(nil, 15)
	g, _ = gt.Get("h1")
	if math.Abs(g.Opacity-0.5) > 1e-9 || g.Position != (Vec2{X: 3, Y: 4}) {
		t.Fatalf("expected half-faded ghost at (3,4), got %+v", g)
	}
}

func TestGhostTracker_EmptyInput(t *testing.T) {
	gt := NewGhostTracker()
	gt.Update(nil, 0.1)
	gt.Update([]Observation{}, 0.1)
	if len(gt.All()) != 0 {
		t.Fatal("no input should produce no ghosts")
	}
}

func TestGhostTracker_AllSorted(t *testing.T) {
	gt := NewGhostTracker()
	gt.Update([]Observation{hidden("c", 0, 0), hidden("a", 0, 0), hidden("b", 0, 0)}, 0.1)
	all := gt.All()
	if len(all) != 3 || all[0].TargetID != "a" || all[1].TargetID != "b" || all[2].TargetID != "c" {
		t.Fatalf("expected sorted a,b,c got %+v", all)
	}
}

func TestGhostTracker_NaNDtIgnored(t *testing.T) {
	gt := NewGhostTracker()
	gt.Update([]Observation{hidden("h1", 0, 0)}, 0.1)
	gt.Update([]Observation{hidden("h1", 0, 0)}, math.NaN())
	g, _ := gt.Get("h1")
	if math.IsNaN(g.Opacity) || g.Opacity != 1 {
		t.Fatalf("NaN dt should not advance the fade, got %.4f", g.Opacity)
	}
}

func TestGhostTracker_FadedGhostNotRecreatedWhileHidden(t *testing.T) {
	gt := NewGhostTracker()
	created := 0
	gt.OnCreate = func(Ghost) { created++ }

	for i := 0; i < 400; i++ {
		gt.Update([]Observation{hidden("h1", 1, 1)}, 0.1)
	}
	if gt.Len() != 0 || created != 1 {
		t.Fatalf("expected one ghost, faded for good; len=%d created=%d", gt.Len(), created)
	}

	gt.Update([]Observation{seen("h1", 5, 5)}, 0.1)
	gt.Update([]Observation{hidden("h1", 6, 6)}, 0.1)
	g, ok := gt.Get("h1")
	if !ok || created != 2 {
		t.Fatalf("losing the unit again should start a new ghost, created=%d", created)
	}
	if g.Position != (Vec2{X: 5, Y: 5}) {
		t.Fatalf("new ghost should sit at the last seen position, got %+v", g.Position)
	}
}
