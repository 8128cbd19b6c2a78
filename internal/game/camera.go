package game

import (
	"math"

	"github.com/Garsondee/Sensor-Fog/internal/vision"
)

const (
	zoomMin = 0.25
	zoomMax = 6.0
)

// Camera maps world meters (north-up, +Y is north) to viewport pixels
// (+Y is down). X, Y is the world point at the viewport centre.
type Camera struct {
	X, Y           float64
	Zoom           float64
	PixelsPerMeter float64
	ViewW, ViewH   float64
}

// NewCamera returns a camera centred on the world rectangle.
func NewCamera(worldW, worldH, viewW, viewH, pixelsPerMeter float64) *Camera {
	if pixelsPerMeter <= 0 {
		pixelsPerMeter = 1
	}
	c := &Camera{
		X:              worldW / 2,
		Y:              worldH / 2,
		PixelsPerMeter: pixelsPerMeter,
		ViewW:          viewW,
		ViewH:          viewH,
	}
	c.Zoom = c.fitZoom(worldW, worldH)
	return c
}

// fitZoom is the zoom at which the whole world fits the viewport.
func (c *Camera) fitZoom(worldW, worldH float64) float64 {
	if worldW <= 0 || worldH <= 0 {
		return 1
	}
	z := math.Min(c.ViewW/(worldW*c.PixelsPerMeter), c.ViewH/(worldH*c.PixelsPerMeter))
	return clampZoom(z)
}

func clampZoom(z float64) float64 {
	return math.Max(zoomMin, math.Min(zoomMax, z))
}

func (c *Camera) scale() float64 {
	return c.PixelsPerMeter * c.Zoom
}

// WorldToScreen converts a world position to viewport pixels.
func (c *Camera) WorldToScreen(p vision.Vec2) vision.Vec2 {
	s := c.scale()
	return vision.Vec2{
		X: (p.X-c.X)*s + c.ViewW/2,
		Y: c.ViewH/2 - (p.Y-c.Y)*s,
	}
}

// ScreenToWorld is the inverse of WorldToScreen.
func (c *Camera) ScreenToWorld(p vision.Vec2) vision.Vec2 {
	s := c.scale()
	return vision.Vec2{
		X: (p.X-c.ViewW/2)/s + c.X,
		Y: (c.ViewH/2-p.Y)/s + c.Y,
	}
}

// MetersToPixels converts a world distance to viewport pixels.
func (c *Camera) MetersToPixels(m float64) float64 {
	return m * c.scale()
}

// Pan moves the camera by a viewport-pixel offset (+dy is down on screen).
func (c *Camera) Pan(dxPixels, dyPixels float64) {
	s := c.scale()
	c.X += dxPixels / s
	c.Y -= dyPixels / s
}

// ZoomBy multiplies the zoom, keeping the world point under the viewport
// centre fixed.
func (c *Camera) ZoomBy(factor float64) {
	if factor <= 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return
	}
	c.Zoom = clampZoom(c.Zoom * factor)
}
