package game

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/Sensor-Fog/internal/vision"
)

// ImageSurface draws vision passes onto an offscreen ebiten image. Paths are
// built with vector.Path and filled or stroked with the blend that matches
// the current composite mode, so DestinationOut punches holes in the fog.
type ImageSurface struct {
	img       *ebiten.Image
	mode      vision.CompositeMode
	fill      color.Color
	stroke    color.Color
	lineWidth float64
	path      vector.Path
}

// NewImageSurface wraps img. The caller owns the image and clears it.
func NewImageSurface(img *ebiten.Image) *ImageSurface {
	return &ImageSurface{
		img:       img,
		fill:      color.Black,
		stroke:    color.White,
		lineWidth: 1,
	}
}

func (s *ImageSurface) Bounds() (float64, float64) {
	b := s.img.Bounds()
	return float64(b.Dx()), float64(b.Dy())
}

func (s *ImageSurface) SetCompositeMode(m vision.CompositeMode) { s.mode = m }

func (s *ImageSurface) SetFillColor(c color.Color) { s.fill = c }

func (s *ImageSurface) SetStrokeColor(c color.Color) { s.stroke = c }

func (s *ImageSurface) SetLineWidth(w float64) {
	if w > 0 {
		s.lineWidth = w
	}
}

func (s *ImageSurface) FillRect(x, y, w, h float64) {
	var p vector.Path
	p.MoveTo(float32(x), float32(y))
	p.LineTo(float32(x+w), float32(y))
	p.LineTo(float32(x+w), float32(y+h))
	p.LineTo(float32(x), float32(y+h))
	p.Close()
	vector.FillPath(s.img, &p, &vector.FillOptions{}, s.drawOptions(s.fill))
}

func (s *ImageSurface) BeginPath() { s.path = vector.Path{} }

func (s *ImageSurface) MoveTo(x, y float64) { s.path.MoveTo(float32(x), float32(y)) }

func (s *ImageSurface) LineTo(x, y float64) { s.path.LineTo(float32(x), float32(y)) }

func (s *ImageSurface) Arc(x, y, radius, start, end float64) {
	if radius <= 0 || math.IsNaN(radius) {
		return
	}
	s.path.Arc(float32(x), float32(y), float32(radius), float32(start), float32(end), vector.Clockwise)
}

func (s *ImageSurface) ClosePath() { s.path.Close() }

func (s *ImageSurface) Fill() {
	vector.FillPath(s.img, &s.path, &vector.FillOptions{}, s.drawOptions(s.fill))
}

func (s *ImageSurface) Stroke() {
	vector.StrokePath(s.img, &s.path, &vector.StrokeOptions{
		Width:    float32(s.lineWidth),
		LineJoin: vector.LineJoinRound,
		LineCap:  vector.LineCapRound,
	}, s.drawOptions(s.stroke))
}

func (s *ImageSurface) drawOptions(c color.Color) *vector.DrawPathOptions {
	op := &vector.DrawPathOptions{AntiAlias: true}
	op.ColorScale.ScaleWithColor(c)
	op.Blend = blendFor(s.mode)
	return op
}

func blendFor(m vision.CompositeMode) ebiten.Blend {
	if m == vision.CompositeDestinationOut {
		return ebiten.BlendDestinationOut
	}
	return ebiten.BlendSourceOver
}
