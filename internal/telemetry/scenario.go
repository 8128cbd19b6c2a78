package telemetry

import (
	"fmt"
	"math/rand"

	"github.com/Garsondee/Sensor-Fog/internal/config"
	"github.com/Garsondee/Sensor-Fog/internal/vision"
)

// FromScenario builds a store from configured units. Units with a route of
// at least one valid point patrol it; the rest stand still.
func FromScenario(sc config.ScenarioConfig) *Store {
	s := NewStore()
	for i, uc := range sc.Units {
		id := uc.ID
		if id == "" {
			id = fmt.Sprintf("unit-%d", i+1)
		}
		u := vision.Unit{
			TargetID:  id,
			Alliance:  vision.ParseAlliance(uc.Alliance),
			AssetType: uc.AssetType,
			Position:  vision.Vec2{X: uc.X, Y: uc.Y},
			Heading:   uc.Heading,
		}
		route := make([]vision.Vec2, 0, len(uc.Route))
		for _, p := range uc.Route {
			if len(p) < 2 {
				continue
			}
			route = append(route, vision.Vec2{X: p[0], Y: p[1]})
		}
		if len(route) > 0 && uc.Speed > 0 {
			if uc.X == 0 && uc.Y == 0 {
				u.Position = route[0]
			}
			s.Patrol(u, route, uc.Speed)
			continue
		}
		s.Upsert(u)
	}
	return s
}

// ResolveScenario returns sc, or the demo map when sc names no units and
// no buildings.
func ResolveScenario(sc config.ScenarioConfig) config.ScenarioConfig {
	if len(sc.Units) > 0 || len(sc.Buildings) > 0 {
		return sc
	}
	return DemoScenario()
}

// DemoScenario is the built-in map used when the config names no units: a
// friendly outpost with a sweeping radar and a camera, and hostile patrols
// that cross in and out of coverage.
func DemoScenario() config.ScenarioConfig {
	return config.ScenarioConfig{
		Width:  1600,
		Height: 1000,
		Units: []config.UnitConfig{
			{ID: "hq-radar", Alliance: "friendly", AssetType: "radar", X: 400, Y: 500},
			{ID: "gate-cam", Alliance: "friendly", AssetType: "sentry_camera", X: 700, Y: 300},
			{ID: "alpha-1", Alliance: "friendly", AssetType: "infantry", Speed: 1.5,
				Route: [][]float64{{300, 350}, {600, 350}, {600, 650}, {300, 650}}},
			{ID: "overwatch", Alliance: "friendly", AssetType: "uav", X: 1100, Y: 800},
			{ID: "red-scout", Alliance: "hostile", AssetType: "recon", Speed: 6,
				Route: [][]float64{{1400, 150}, {500, 450}, {1400, 850}}},
			{ID: "red-armor", Alliance: "hostile", AssetType: "armor", Speed: 4,
				Route: [][]float64{{1500, 500}, {800, 500}}},
			{ID: "red-team", Alliance: "hostile", AssetType: "infantry", Speed: 1.2,
				Route: [][]float64{{900, 100}, {900, 900}}},
			{ID: "farmer", Alliance: "neutral", AssetType: "civilian", X: 1200, Y: 300},
		},
		Buildings: []config.BuildingConfig{
			{Points: [][]float64{{750, 420}, {820, 420}, {820, 560}, {750, 560}}},
			{Points: [][]float64{{1000, 200}, {1120, 200}, {1120, 260}, {1000, 260}}},
		},
	}
}

// RandomScenario scatters n hostile patrols around a fixed friendly outpost.
// The same seed always yields the same map.
func RandomScenario(seed int64, n int, width, height float64) config.ScenarioConfig {
	rng := rand.New(rand.NewSource(seed))
	sc := DemoScenario()
	sc.Width, sc.Height = width, height

	units := sc.Units[:0:0]
	for _, u := range sc.Units {
		if u.Alliance == "friendly" {
			units = append(units, u)
		}
	}
	assets := []string{"infantry", "recon", "armor"}
	for i := 0; i < n; i++ {
		legs := 2 + rng.Intn(3)
		route := make([][]float64, 0, legs)
		for j := 0; j < legs; j++ {
			route = append(route, []float64{rng.Float64() * width, rng.Float64() * height})
		}
		units = append(units, config.UnitConfig{
			ID:        fmt.Sprintf("hostile-%02d", i+1),
			Alliance:  "hostile",
			AssetType: assets[rng.Intn(len(assets))],
			Speed:     1 + rng.Float64()*7,
			Route:     route,
		})
	}
	sc.Units = units
	return sc
}
