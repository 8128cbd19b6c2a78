package config

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultValues(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "live", cfg.Phase)
	assert.False(t, cfg.Occlusion)
	assert.Equal(t, 1.0, cfg.PixelsPerMeter)
	assert.Equal(t, "#0a0d0a", cfg.Fog.Color)
	assert.Equal(t, 0.85, cfg.Fog.Opacity)
	assert.Equal(t, 1600.0, cfg.Scenario.Width)
	assert.Empty(t, cfg.Feed.URL)
	assert.Equal(t, 600.0, cfg.Profiles["radar"].ConeRange, "built-in profiles are part of the defaults")
}

func TestLoad_ProfileOverrideMergesFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fogview.yaml")
	doc := `
profiles:
  radar:
    coneSweepRPM: 12
  Infantry:
    ambient: 0
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	reg := cfg.Registry()

	radar := reg.Lookup("radar")
	assert.Equal(t, 12.0, radar.ConeSweepRPM)
	assert.Equal(t, 600.0, radar.ConeRange, "fields the file leaves out keep the built-in value")
	assert.Equal(t, 20.0, radar.ConeAngle)
	assert.True(t, radar.ConeSweeps)

	inf := reg.Lookup("infantry")
	assert.Equal(t, 0.0, inf.Ambient, "an explicit zero still overrides")
	assert.Equal(t, 150.0, inf.ConeRange)

	assert.Equal(t, 200.0, reg.Lookup("uav").Ambient, "untouched profiles stay built in")
}

func TestLoad_WithYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fogview.yaml")
	doc := `
logLevel: debug
occlusion: true
fog:
  color: "#202020"
  opacity: 0.5
profiles:
  watchtower:
    ambient: 30
    coneRange: 400
    coneAngle: 45
    coneSweeps: true
    coneSweepRPM: 3
scenario:
  units:
    - id: f1
      alliance: friendly
      assetType: watchtower
      x: 10
      y: 20
    - id: h1
      alliance: hostile
      assetType: infantry
      speed: 2.5
      route: [[0, 0], [100, 0]]
  buildings:
    - points: [[0, 0], [10, 0], [10, 10], [0, 10]]
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.Occlusion)
	assert.Equal(t, "#202020", cfg.Fog.Color)
	assert.Equal(t, "#4fd1c5", cfg.Fog.EdgeColor, "unset keys keep defaults")

	p := cfg.Registry().Lookup("watchtower")
	assert.Equal(t, 30.0, p.Ambient)
	assert.Equal(t, 400.0, p.ConeRange)
	assert.True(t, p.ConeSweeps)
	assert.Equal(t, 3.0, p.ConeSweepRPM)

	require.Len(t, cfg.Scenario.Units, 2)
	assert.Equal(t, "watchtower", cfg.Scenario.Units[0].AssetType)
	assert.Equal(t, 2.5, cfg.Scenario.Units[1].Speed)
	assert.Equal(t, [][]float64{{0, 0}, {100, 0}}, cfg.Scenario.Units[1].Route)

	bs := cfg.Buildings()
	require.Len(t, bs, 1)
	assert.Len(t, bs[0], 4)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/fogview.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#ff8000", 1)
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 255, G: 128, B: 0, A: 255}, c)

	c, err = ParseColor("#000000", 2)
	require.NoError(t, err)
	assert.Equal(t, uint8(255), c.A, "alpha is clamped")

	_, err = ParseColor("teal", 1)
	assert.True(t, errors.Is(err, ErrInvalidColor))
}

func TestStyle_BadColor(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	cfg.Fog.Color = "nope"
	_, err = cfg.Style()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fog.color")
}

func TestStyle_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	st, err := cfg.Style()
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 10, G: 13, B: 10, A: 217}, st.Fog)
	assert.Equal(t, 1.0, st.EdgeWidth)
}
