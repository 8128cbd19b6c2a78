package vision

import "strings"

// VisionProfile describes what a sensor of one asset type can see.
type VisionProfile struct {
	Ambient      float64 `mapstructure:"ambient"`      // unconditional radius, meters
	ConeRange    float64 `mapstructure:"coneRange"`    // meters, 0 = no directional cone
	ConeAngle    float64 `mapstructure:"coneAngle"`    // full aperture, degrees
	ConeSweeps   bool    `mapstructure:"coneSweeps"`   // cone rotates instead of following heading
	ConeSweepRPM float64 `mapstructure:"coneSweepRPM"` // only used when ConeSweeps is set
}

// HasCone reports whether the profile has a directional cone.
func (p VisionProfile) HasCone() bool {
	return p.ConeRange > 0
}

// DefaultProfile is returned for asset types the registry does not know.
var DefaultProfile = VisionProfile{Ambient: 10}

// builtinProfiles are the asset types every registry starts with.
var builtinProfiles = map[string]VisionProfile{
	"infantry":      {Ambient: 25, ConeRange: 150, ConeAngle: 120},
	"recon":         {Ambient: 40, ConeRange: 350, ConeAngle: 60},
	"armor":         {Ambient: 20, ConeRange: 250, ConeAngle: 90},
	"radar":         {Ambient: 15, ConeRange: 600, ConeAngle: 20, ConeSweeps: true, ConeSweepRPM: 6},
	"sentry_camera": {Ambient: 0, ConeRange: 120, ConeAngle: 70, ConeSweeps: true, ConeSweepRPM: 2},
	"uav":           {Ambient: 200},
	"ground_sensor": {Ambient: 60},
}

// ProfileRegistry resolves asset types to vision profiles.
type ProfileRegistry struct {
	profiles map[string]VisionProfile
	fallback VisionProfile
}

// BuiltinProfiles returns a copy of the asset types every registry starts with.
func BuiltinProfiles() map[string]VisionProfile {
	out := make(map[string]VisionProfile, len(builtinProfiles))
	for k, p := range builtinProfiles {
		out[k] = p
	}
	return out
}

// NewProfileRegistry returns a registry seeded with the built-in asset types,
// with overrides applied on top. An override replaces the whole profile for
// its asset type; config.Load merges file values field by field first.
func NewProfileRegistry(overrides map[string]VisionProfile) *ProfileRegistry {
	r := &ProfileRegistry{
		profiles: make(map[string]VisionProfile, len(builtinProfiles)+len(overrides)),
		fallback: DefaultProfile,
	}
	for k, p := range builtinProfiles {
		r.profiles[k] = p
	}
	for k, p := range overrides {
		r.profiles[strings.ToLower(k)] = p
	}
	return r
}

// Register adds or replaces a profile.
func (r *ProfileRegistry) Register(assetType string, p VisionProfile) {
	r.profiles[strings.ToLower(assetType)] = p
}

// Lookup returns the profile for assetType, or DefaultProfile when unknown.
// Asset types match case-insensitively.
// A nil registry always yields DefaultProfile.
func (r *ProfileRegistry) Lookup(assetType string) VisionProfile {
	if r == nil {
		return DefaultProfile
	}
	if p, ok := r.profiles[strings.ToLower(assetType)]; ok {
		return p
	}
	return r.fallback
}

// Known reports whether assetType has an explicit profile.
func (r *ProfileRegistry) Known(assetType string) bool {
	if r == nil {
		return false
	}
	_, ok := r.profiles[strings.ToLower(assetType)]
	return ok
}
