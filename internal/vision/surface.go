package vision

import "image/color"

// CompositeMode selects how newly drawn shapes combine with existing pixels.
type CompositeMode uint8

const (
	// CompositeSourceOver paints over existing pixels (normal drawing).
	CompositeSourceOver CompositeMode = iota
	// CompositeDestinationOut erases existing pixels where the shape is drawn.
	CompositeDestinationOut
)

func (m CompositeMode) String() string {
	if m == CompositeDestinationOut {
		return "destination-out"
	}
	return "source-over"
}

// DrawingSurface is the subset of a 2D canvas the fog renderer needs.
// Angles passed to Arc are radians in screen space.
type DrawingSurface interface {
	Bounds() (width, height float64)
	SetCompositeMode(CompositeMode)
	SetFillColor(color.Color)
	SetStrokeColor(color.Color)
	SetLineWidth(float64)
	FillRect(x, y, w, h float64)
	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	Arc(x, y, radius, startAngle, endAngle float64)
	ClosePath()
	Fill()
	Stroke()
}
