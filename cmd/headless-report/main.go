package main

import (
	"flag"
	"fmt"
	"sort"
	"strings"

	"github.com/Garsondee/Sensor-Fog/internal/config"
	"github.com/Garsondee/Sensor-Fog/internal/sim"
	"github.com/Garsondee/Sensor-Fog/internal/telemetry"
)

type runStats struct {
	runIndex int
	seed     int64
	hostiles int

	firstAcquireFrame int
	firstLostFrame    int
	firstGhostFrame   int
	firstFadeFrame    int

	acquired   int
	lost       int
	ghostsMade int
	reacquired int
	faded      int

	reacquireDelays []float64 // seconds a ghost stood before the hostile was seen again
	ghosted         map[string]struct{}
	neverSeen       map[string]struct{}

	final sim.Snapshot
}

func main() {
	var runs int
	var frames int
	var seedBase int64
	var seedStep int64
	var hostiles int
	var dt float64
	var occlusion bool

	flag.IntVar(&runs, "runs", 5, "number of headless runs")
	flag.IntVar(&frames, "frames", 3600, "frames per run")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.IntVar(&hostiles, "hostiles", 6, "random hostile patrols per run")
	flag.Float64Var(&dt, "dt", 1.0/30.0, "seconds per frame")
	flag.BoolVar(&occlusion, "occlusion", false, "let buildings block sensor cones")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if frames <= 0 {
		fmt.Println("error: -frames must be > 0")
		return
	}
	if dt <= 0 {
		fmt.Println("error: -dt must be > 0")
		return
	}

	fmt.Printf("=== Headless Fog Report ===\n")
	fmt.Printf("runs=%d frames=%d dt=%.4f hostiles=%d seed_base=%d seed_step=%d occlusion=%v\n\n",
		runs, frames, dt, hostiles, seedBase, seedStep, occlusion)

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		stats := runRandomPatrols(i+1, seed, frames, hostiles, dt, occlusion)
		all = append(all, stats)
		printRun(stats)
	}

	printAggregate(all)
}

func runRandomPatrols(runIndex int, seed int64, frames, hostiles int, dt float64, occlusion bool) runStats {
	sc := telemetry.RandomScenario(seed, hostiles, 1600, 1000)
	hs := sim.NewHeadlessSim(
		sim.WithScenario(sc),
		sim.WithTimestep(dt),
		sim.WithOcclusion(occlusion),
	)
	hs.RunFrames(frames)
	return collectStats(runIndex, seed, hostiles, hs.Log, hs.Snapshot(), hostileIDs(sc.Units))
}

func hostileIDs(units []config.UnitConfig) []string {
	var ids []string
	for _, u := range units {
		if u.Alliance == "hostile" {
			ids = append(ids, u.ID)
		}
	}
	return ids
}

func collectStats(runIndex int, seed int64, hostiles int, log *sim.FrameLog, final sim.Snapshot, hostileIDs []string) runStats {
	rs := runStats{
		runIndex:          runIndex,
		seed:              seed,
		hostiles:          hostiles,
		firstAcquireFrame: firstFrame(log, "vision", "acquired"),
		firstLostFrame:    firstFrame(log, "vision", "lost"),
		firstGhostFrame:   firstFrame(log, "ghost", "created"),
		firstFadeFrame:    firstFrame(log, "ghost", "faded"),
		acquired:          log.CountCategory("vision", "acquired"),
		lost:              log.CountCategory("vision", "lost"),
		ghostsMade:        log.CountCategory("ghost", "created"),
		reacquired:        log.CountCategory("ghost", "reacquired"),
		faded:             log.CountCategory("ghost", "faded"),
		ghosted:           map[string]struct{}{},
		neverSeen:         map[string]struct{}{},
		final:             final,
	}
	for _, e := range log.Filter("ghost", "created") {
		rs.ghosted[e.Target] = struct{}{}
	}
	for _, e := range log.Filter("ghost", "reacquired") {
		rs.reacquireDelays = append(rs.reacquireDelays, e.NumVal)
	}
	seen := map[string]bool{}
	for _, e := range log.Filter("vision", "acquired") {
		seen[e.Target] = true
	}
	for _, id := range hostileIDs {
		if !seen[id] {
			rs.neverSeen[id] = struct{}{}
		}
	}
	return rs
}

func firstFrame(log *sim.FrameLog, category, key string) int {
	if e, ok := log.FirstOf(category, key); ok {
		return e.Frame
	}
	return -1
}

// detectCoverageGap flags runs where friendly sensors lose track of the
// enemy for good: contacts that fade out without ever being picked up
// again, or hostiles that were never sensed at all.
func detectCoverageGap(rs runStats) (bool, string) {
	var reasons []string
	if rs.faded > 0 && rs.faded >= rs.reacquired {
		reasons = append(reasons, fmt.Sprintf("fades_outnumber_reacquires(%d>=%d)", rs.faded, rs.reacquired))
	}
	if rs.hostiles > 0 && len(rs.neverSeen)*2 > rs.hostiles {
		reasons = append(reasons, fmt.Sprintf("majority_never_sensed(%d/%d)", len(rs.neverSeen), rs.hostiles))
	}
	if len(reasons) == 0 {
		return false, "coverage_ok"
	}
	return true, strings.Join(reasons, ",")
}

func printRun(rs runStats) {
	fmt.Printf("--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Printf("phase_markers: first_acquire=%d first_lost=%d first_ghost=%d first_fade=%d\n",
		rs.firstAcquireFrame, rs.firstLostFrame, rs.firstGhostFrame, rs.firstFadeFrame)
	fmt.Printf("event_totals: acquired=%d lost=%d ghost_created=%d reacquired=%d faded=%d\n",
		rs.acquired, rs.lost, rs.ghostsMade, rs.reacquired, rs.faded)
	fmt.Printf("reacquire_delay_avg=%s ghosted_targets=%s never_sensed=%s\n",
		avgSecondsString(rs.reacquireDelays), joinSet(rs.ghosted), joinSet(rs.neverSeen))
	fmt.Printf("final: frame=%d units=%d visible=%d ghosts=%d draw_ops=%d\n",
		rs.final.Frame, rs.final.Units, rs.final.Visible, rs.final.Ghosts, rs.final.DrawOps)
	gap, reason := detectCoverageGap(rs)
	fmt.Printf("coverage_gap=%v reason=%s\n", gap, reason)
	fmt.Println()
}

func printAggregate(all []runStats) {
	totalAcquired := 0
	totalLost := 0
	totalGhosts := 0
	totalReacquired := 0
	totalFaded := 0
	gapRuns := 0

	acquireFrames := make([]int, 0, len(all))
	ghostFrames := make([]int, 0, len(all))
	fadeFrames := make([]int, 0, len(all))
	var delays []float64

	// How often each target was ghosted across runs.
	ghostedCounts := map[string]int{}
	neverSeenGlobal := map[string]struct{}{}

	for _, rs := range all {
		totalAcquired += rs.acquired
		totalLost += rs.lost
		totalGhosts += rs.ghostsMade
		totalReacquired += rs.reacquired
		totalFaded += rs.faded
		if rs.firstAcquireFrame >= 0 {
			acquireFrames = append(acquireFrames, rs.firstAcquireFrame)
		}
		if rs.firstGhostFrame >= 0 {
			ghostFrames = append(ghostFrames, rs.firstGhostFrame)
		}
		if rs.firstFadeFrame >= 0 {
			fadeFrames = append(fadeFrames, rs.firstFadeFrame)
		}
		delays = append(delays, rs.reacquireDelays...)
		for id := range rs.ghosted {
			ghostedCounts[id]++
		}
		for id := range rs.neverSeen {
			neverSeenGlobal[id] = struct{}{}
		}
		if gap, _ := detectCoverageGap(rs); gap {
			gapRuns++
		}
	}

	fmt.Println("=== Aggregate Coverage ===")
	fmt.Printf("runs=%d coverage_gap_runs=%d\n", len(all), gapRuns)
	fmt.Printf("avg_events_per_run: acquired=%.1f lost=%.1f ghost_created=%.1f reacquired=%.1f faded=%.1f\n",
		avg(totalAcquired, len(all)), avg(totalLost, len(all)), avg(totalGhosts, len(all)),
		avg(totalReacquired, len(all)), avg(totalFaded, len(all)))
	fmt.Printf("phase_marker_avg_frames: first_acquire=%s first_ghost=%s first_fade=%s\n",
		avgFrameString(acquireFrames), avgFrameString(ghostFrames), avgFrameString(fadeFrames))
	fmt.Printf("reacquire_delay_avg=%s samples=%d\n", avgSecondsString(delays), len(delays))
	fmt.Printf("never_sensed_labels=%d [%s]\n", len(neverSeenGlobal), joinSet(neverSeenGlobal))

	if len(ghostedCounts) > 0 {
		fmt.Println("\n--- Ghosted Targets (runs with a ghost) ---")
		labels := make([]string, 0, len(ghostedCounts))
		for id := range ghostedCounts {
			labels = append(labels, id)
		}
		sort.Strings(labels)
		for _, id := range labels {
			fmt.Printf("  %-12s %d/%d\n", id, ghostedCounts[id], len(all))
		}
	}
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func avgFrameString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}

func avgSecondsString(vals []float64) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1fs", sum/float64(len(vals)))
}

func joinSet(s map[string]struct{}) string {
	if len(s) == 0 {
		return "none"
	}
	labels := make([]string, 0, len(s))
	for k := range s {
		labels = append(labels, k)
	}
	sort.Strings(labels)
	return strings.Join(labels, ",")
}
