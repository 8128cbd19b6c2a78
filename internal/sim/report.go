package sim

import (
	"fmt"
	"strings"

	"github.com/Garsondee/Sensor-Fog/internal/vision"
)

// GhostReport renders the tracked ghosts as plain text, suitable for the
// clipboard or a terminal.
func GhostReport(frame uint64, phase vision.GamePhase, ghosts []vision.Ghost) string {
	var b strings.Builder
	fmt.Fprintf(&b, "--- Sensor-Fog ghost report ---\n")
	fmt.Fprintf(&b, "frame=%d phase=%s ghosts=%d\n", frame, phase, len(ghosts))
	if len(ghosts) == 0 {
		b.WriteString("(no lost contacts)\n")
		return b.String()
	}
	b.WriteByte('\n')
	for _, g := range ghosts {
		remaining := vision.GhostFadeSeconds - g.FadeClock
		if remaining < 0 {
			remaining = 0
		}
		fmt.Fprintf(&b, "%-16s last=(%.0f,%.0f) opacity=%.2f lost=%.1fs fades_in=%.1fs\n",
			g.TargetID, g.Position.X, g.Position.Y, g.Opacity, g.FadeClock, remaining)
	}
	return b.String()
}
