package vision

import (
	"fmt"
	"image/color"
)

// DrawOp is one call recorded by a RecordingSurface.
type DrawOp struct {
	Name  string
	Args  []float64
	Mode  CompositeMode // composite mode in effect when the call was made
	Color color.Color   // fill or stroke colour in effect, for Fill/FillRect/Stroke
}

func (op DrawOp) String() string {
	return fmt.Sprintf("%s%v [%s]", op.Name, op.Args, op.Mode)
}

// RecordingSurface is a DrawingSurface that records every call instead of
// drawing. Headless runs use it to count draw work per frame.
type RecordingSurface struct {
	Width  float64
	Height float64
	Ops    []DrawOp

	mode   CompositeMode
	fill   color.Color
	stroke color.Color
}

// NewRecordingSurface returns a recorder reporting the given bounds.
func NewRecordingSurface(w, h float64) *RecordingSurface {
	return &RecordingSurface{Width: w, Height: h, fill: color.Black, stroke: color.Black}
}

func (r *RecordingSurface) add(name string, c color.Color, args ...float64) {
	r.Ops = append(r.Ops, DrawOp{Name: name, Args: args, Mode: r.mode, Color: c})
}

func (r *RecordingSurface) Bounds() (float64, float64) { return r.Width, r.Height }

func (r *RecordingSurface) SetCompositeMode(m CompositeMode) {
	r.mode = m
	r.add("SetCompositeMode", nil, float64(m))
}

func (r *RecordingSurface) SetFillColor(c color.Color) {
	r.fill = c
	r.add("SetFillColor", c)
}

func (r *RecordingSurface) SetStrokeColor(c color.Color) {
	r.stroke = c
	r.add("SetStrokeColor", c)
}

func (r *RecordingSurface) SetLineWidth(w float64) { r.add("SetLineWidth", nil, w) }

func (r *RecordingSurface) FillRect(x, y, w, h float64) { r.add("FillRect", r.fill, x, y, w, h) }

func (r *RecordingSurface) BeginPath() { r.add("BeginPath", nil) }

func (r *RecordingSurface) MoveTo(x, y float64) { r.add("MoveTo", nil, x, y) }

func (r *RecordingSurface) LineTo(x, y float64) { r.add("LineTo", nil, x, y) }

func (r *RecordingSurface) Arc(x, y, radius, start, end float64) {
	r.add("Arc", nil, x, y, radius, start, end)
}

func (r *RecordingSurface) ClosePath() { r.add("ClosePath", nil) }

func (r *RecordingSurface) Fill() { r.add("Fill", r.fill) }

func (r *RecordingSurface) Stroke() { r.add("Stroke", r.stroke) }

// Reset discards recorded calls and restores the initial drawing state.
func (r *RecordingSurface) Reset() {
	r.Ops = r.Ops[:0]
	r.mode = CompositeSourceOver
	r.fill = color.Black
	r.stroke = color.Black
}

// Count returns how many calls named name were recorded.
func (r *RecordingSurface) Count(name string) int {
	n := 0
	for _, op := range r.Ops {
		if op.Name == name {
			n++
		}
	}
	return n
}

// Index returns the position of the first call named name, or -1.
func (r *RecordingSurface) Index(name string) int {
	for i, op := range r.Ops {
		if op.Name == name {
			return i
		}
	}
	return -1
}
