package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Garsondee/Sensor-Fog/internal/vision"
)

func kindsOf(events []ContactEvent) []ContactKind {
	out := make([]ContactKind, 0, len(events))
	for _, e := range events {
		out = append(out, e.Kind)
	}
	return out
}

func TestContactWatch_FadedEventCarriesFinalClock(t *testing.T) {
	sys := vision.NewSystem(vision.WithProfiles(postRegistry()))
	sys.Enable()
	w := NewContactWatch()
	units := []vision.Unit{friendlyPost("f1", "post", 0, 0), hostileAt("h1", 500, 0)}

	var faded []ContactEvent
	for i := 0; i < 40; i++ {
		sys.Update(units, vision.PhaseLive, 1)
		for _, e := range w.Observe(sys, units) {
			if e.Kind == ContactFaded {
				faded = append(faded, e)
			}
		}
	}

	require.Len(t, faded, 1)
	assert.Equal(t, "h1", faded[0].TargetID)
	assert.Equal(t, vision.GhostFadeSeconds, faded[0].FadeClock, "clock of the frame that dropped the ghost, not the one before")
}

func TestContactWatch_ReacquiredAfterGhost(t *testing.T) {
	sys := vision.NewSystem(vision.WithProfiles(postRegistry()))
	sys.Enable()
	w := NewContactWatch()
	f := friendlyPost("f1", "post", 0, 0)

	step := func(h vision.Unit) []ContactKind {
		units := []vision.Unit{f, h}
		sys.Update(units, vision.PhaseLive, 0.5)
		return kindsOf(w.Observe(sys, units))
	}

	assert.Equal(t, []ContactKind{ContactAcquired}, step(hostileAt("h1", 5, 0)))
	assert.Equal(t, []ContactKind{ContactLost, ContactGhost}, step(hostileAt("h1", 200, 0)))
	assert.Empty(t, step(hostileAt("h1", 200, 0)))

	events := func() []ContactEvent {
		units := []vision.Unit{f, hostileAt("h1", 5, 0)}
		sys.Update(units, vision.PhaseLive, 0.5)
		return w.Observe(sys, units)
	}()
	require.Len(t, events, 2)
	assert.Equal(t, ContactAcquired, events[0].Kind)
	assert.Equal(t, ContactReacquired, events[1].Kind)
	assert.InDelta(t, 0.5, events[1].FadeClock, 1e-9, "one fade step between the ghost frame and the reacquire")
}

func TestContactWatch_ForgetsUnitsMissingFromFrame(t *testing.T) {
	sys := vision.NewSystem(vision.WithProfiles(postRegistry()))
	sys.Enable()
	w := NewContactWatch()
	f := friendlyPost("f1", "post", 0, 0)
	n := vision.Unit{TargetID: "n1", Alliance: vision.AllianceNeutral, Position: vision.Vec2{X: 5}}

	sys.Update([]vision.Unit{f, n}, vision.PhaseLive, 0.1)
	assert.Equal(t, []ContactKind{ContactAcquired}, kindsOf(w.Observe(sys, []vision.Unit{f, n})))
	assert.Equal(t, 1, w.Visible())

	sys.Update([]vision.Unit{f}, vision.PhaseLive, 0.1)
	assert.Empty(t, w.Observe(sys, []vision.Unit{f}))
	assert.Equal(t, 0, w.Visible(), "units gone from the feed are no longer counted")

	sys.Update([]vision.Unit{f, n}, vision.PhaseLive, 0.1)
	assert.Equal(t, []ContactKind{ContactAcquired}, kindsOf(w.Observe(sys, []vision.Unit{f, n})),
		"a unit returning in view is acquired again")
}
