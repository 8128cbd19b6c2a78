package vision

import (
	"math"
	"strings"
)

// Vec2 is a point in world meters or screen pixels depending on context.
type Vec2 struct {
	X float64
	Y float64
}

// Alliance is the side a unit belongs to.
type Alliance uint8

const (
	AllianceUnknown Alliance = iota // zero value: anything the feed could not classify
	AllianceFriendly
	AllianceHostile
	AllianceNeutral
)

// ParseAlliance maps a telemetry alliance string to an Alliance.
// Unrecognised strings map to AllianceUnknown.
func ParseAlliance(s string) Alliance {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "friendly", "friend", "blufor":
		return AllianceFriendly
	case "hostile", "enemy", "opfor":
		return AllianceHostile
	case "neutral", "civilian":
		return AllianceNeutral
	default:
		return AllianceUnknown
	}
}

func (a Alliance) String() string {
	switch a {
	case AllianceFriendly:
		return "friendly"
	case AllianceHostile:
		return "hostile"
	case AllianceNeutral:
		return "neutral"
	default:
		return "unknown"
	}
}

// Visibility is the host's verdict on whether a unit is currently sensed.
type Visibility uint8

const (
	// VisibilityUnset asks the system to derive visibility from friendly sensors.
	VisibilityUnset Visibility = iota
	Visible
	Hidden
)

// Unit is a read-only view of one tracked entity for a single frame.
type Unit struct {
	TargetID   string
	Alliance   Alliance
	AssetType  string
	Position   Vec2    // world meters; zero value is the origin
	Heading    float64 // degrees, 0 = +Y, clockwise
	Visibility Visibility
}

// GamePhase is the host's mission phase, recorded for diagnostics.
type GamePhase uint8

const (
	PhaseSetup GamePhase = iota
	PhaseLive
	PhaseDebrief
)

// ParseGamePhase maps a phase name to a GamePhase, defaulting to PhaseLive.
func ParseGamePhase(s string) GamePhase {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "setup", "planning", "briefing":
		return PhaseSetup
	case "debrief", "review", "ended":
		return PhaseDebrief
	default:
		return PhaseLive
	}
}

func (p GamePhase) String() string {
	switch p {
	case PhaseSetup:
		return "setup"
	case PhaseDebrief:
		return "debrief"
	default:
		return "live"
	}
}

// finite replaces NaN and ±Inf with 0.
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func (v Vec2) sanitized() Vec2 {
	return Vec2{X: finite(v.X), Y: finite(v.Y)}
}
