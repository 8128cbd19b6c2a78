package config

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/spf13/viper"

	"github.com/Garsondee/Sensor-Fog/internal/vision"
)

// ErrInvalidColor is returned when a colour string is not #rrggbb.
var ErrInvalidColor = errors.New("invalid colour")

// FogConfig holds the overlay appearance.
type FogConfig struct {
	Color     string  `mapstructure:"color"`
	Opacity   float64 `mapstructure:"opacity"`
	EdgeColor string  `mapstructure:"edgeColor"`
	EdgeWidth float64 `mapstructure:"edgeWidth"`
}

// UnitConfig is one scenario unit. Route points are [x, y] pairs in meters;
// a unit with a route patrols it in a loop at Speed m/s.
type UnitConfig struct {
	ID        string      `mapstructure:"id"`
	Alliance  string      `mapstructure:"alliance"`
	AssetType string      `mapstructure:"assetType"`
	X         float64     `mapstructure:"x"`
	Y         float64     `mapstructure:"y"`
	Heading   float64     `mapstructure:"heading"`
	Speed     float64     `mapstructure:"speed"`
	Route     [][]float64 `mapstructure:"route"`
}

// BuildingConfig is a building outline as [x, y] pairs in meters.
type BuildingConfig struct {
	Points [][]float64 `mapstructure:"points"`
}

// ScenarioConfig is the map content used when no live feed is configured.
type ScenarioConfig struct {
	Width     float64          `mapstructure:"width"`
	Height    float64          `mapstructure:"height"`
	Units     []UnitConfig     `mapstructure:"units"`
	Buildings []BuildingConfig `mapstructure:"buildings"`
}

// FeedConfig points at a websocket telemetry source.
type FeedConfig struct {
	URL string `mapstructure:"url"`
}

// Config is the full application configuration.
type Config struct {
	LogLevel       string                          `mapstructure:"logLevel"`
	Phase          string                          `mapstructure:"phase"`
	Occlusion      bool                            `mapstructure:"occlusion"`
	PixelsPerMeter float64                         `mapstructure:"pixelsPerMeter"`
	Fog            FogConfig                       `mapstructure:"fog"`
	Profiles       map[string]vision.VisionProfile `mapstructure:"profiles"`
	Scenario       ScenarioConfig                  `mapstructure:"scenario"`
	Feed           FeedConfig                      `mapstructure:"feed"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logLevel", "info")
	v.SetDefault("phase", "live")
	v.SetDefault("occlusion", false)
	v.SetDefault("pixelsPerMeter", 1.0)

	v.SetDefault("fog.color", "#0a0d0a")
	v.SetDefault("fog.opacity", 0.85)
	v.SetDefault("fog.edgeColor", "#4fd1c5")
	v.SetDefault("fog.edgeWidth", 1.0)

	v.SetDefault("scenario.width", 1600.0)
	v.SetDefault("scenario.height", 1000.0)

	v.SetDefault("feed.url", "")

	// Built-in profiles as leaf defaults, so a file that sets one field of
	// a known asset type keeps the rest.
	for name, p := range vision.BuiltinProfiles() {
		key := "profiles." + name + "."
		v.SetDefault(key+"ambient", p.Ambient)
		v.SetDefault(key+"coneRange", p.ConeRange)
		v.SetDefault(key+"coneAngle", p.ConeAngle)
		v.SetDefault(key+"coneSweeps", p.ConeSweeps)
		v.SetDefault(key+"coneSweepRPM", p.ConeSweepRPM)
	}
}

// Load reads the config file at path (YAML, JSON or TOML by extension) over
// the defaults. An empty path loads defaults only.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("error decoding config: %w", err)
	}
	return cfg, nil
}

// ParseColor parses a #rrggbb string and applies alpha in [0,1].
func ParseColor(hex string, alpha float64) (color.RGBA, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w %q: %v", ErrInvalidColor, hex, err)
	}
	r, g, b := c.RGB255()
	a := uint8(math.Round(math.Max(0, math.Min(1, alpha)) * 255))
	return color.RGBA{R: r, G: g, B: b, A: a}, nil
}

// Style converts the fog section into a vision style.
func (c Config) Style() (vision.Style, error) {
	fog, err := ParseColor(c.Fog.Color, c.Fog.Opacity)
	if err != nil {
		return vision.Style{}, fmt.Errorf("fog.color: %w", err)
	}
	edge, err := ParseColor(c.Fog.EdgeColor, 0.8)
	if err != nil {
		return vision.Style{}, fmt.Errorf("fog.edgeColor: %w", err)
	}
	width := c.Fog.EdgeWidth
	if width <= 0 {
		width = 1
	}
	return vision.Style{Fog: fog, Edge: edge, EdgeWidth: width}, nil
}

// Registry builds the vision-profile registry with configured overrides.
func (c Config) Registry() *vision.ProfileRegistry {
	return vision.NewProfileRegistry(c.Profiles)
}

// Buildings converts configured outlines to vision buildings. Points with
// fewer than two coordinates are dropped.
func (c Config) Buildings() []vision.Building {
	out := make([]vision.Building, 0, len(c.Scenario.Buildings))
	for _, b := range c.Scenario.Buildings {
		poly := make(vision.Building, 0, len(b.Points))
		for _, p := range b.Points {
			if len(p) < 2 {
				continue
			}
			poly = append(poly, vision.Vec2{X: p[0], Y: p[1]})
		}
		out = append(out, poly)
	}
	return out
}
