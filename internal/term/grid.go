// Package term renders the fog overlay into terminal cells with tcell.
package term

import (
	"image/color"
	"math"

	geom "github.com/peterstace/simplefeatures/geom"

	"github.com/Garsondee/Sensor-Fog/internal/vision"
)

// arcSegments is how many chords approximate a full circle.
const arcSegments = 48

// GridSurface rasterises vision draw calls into a cols x rows cell grid.
// A cell covers one surface unit horizontally and two vertically, so units
// come out roughly square on a terminal with 1:2 cells.
type GridSurface struct {
	Cols, Rows int

	fog    []float64 // fog alpha per cell, 0 = clear
	fogCol color.RGBA
	edge   []bool
	edgeCl color.RGBA

	mode   vision.CompositeMode
	fill   color.RGBA
	stroke color.RGBA
	width  float64

	subpaths [][]vision.Vec2
	closed   []bool
}

// NewGridSurface returns a clear grid.
func NewGridSurface(cols, rows int) *GridSurface {
	g := &GridSurface{}
	g.Resize(cols, rows)
	return g
}

// Resize changes the grid size and clears it.
func (g *GridSurface) Resize(cols, rows int) {
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	g.Cols, g.Rows = cols, rows
	g.fog = make([]float64, cols*rows)
	g.edge = make([]bool, cols*rows)
}

// Clear resets every cell to clear with no edges.
func (g *GridSurface) Clear() {
	clear(g.fog)
	clear(g.edge)
}

// Fog returns the fog alpha of a cell in [0,1].
func (g *GridSurface) Fog(col, row int) float64 {
	if !g.in(col, row) {
		return 0
	}
	return g.fog[row*g.Cols+col]
}

// FogColor is the colour of the most recent source-over fill.
func (g *GridSurface) FogColor() color.RGBA { return g.fogCol }

// Edge reports whether a cone edge passes through a cell.
func (g *GridSurface) Edge(col, row int) bool {
	if !g.in(col, row) {
		return false
	}
	return g.edge[row*g.Cols+col]
}

// EdgeColor is the colour of the most recent stroke.
func (g *GridSurface) EdgeColor() color.RGBA { return g.edgeCl }

func (g *GridSurface) in(col, row int) bool {
	return col >= 0 && row >= 0 && col < g.Cols && row < g.Rows
}

// CellCenter returns the surface coordinates of a cell's centre.
func CellCenter(col, row int) vision.Vec2 {
	return vision.Vec2{X: float64(col) + 0.5, Y: float64(row)*2 + 1}
}

// CellAt returns the cell containing a surface point.
func CellAt(p vision.Vec2) (int, int) {
	return int(math.Floor(p.X)), int(math.Floor(p.Y / 2))
}

func (g *GridSurface) Bounds() (float64, float64) {
	return float64(g.Cols), float64(g.Rows * 2)
}

func (g *GridSurface) SetCompositeMode(m vision.CompositeMode) { g.mode = m }

func (g *GridSurface) SetFillColor(c color.Color) { g.fill = toRGBA(c) }

func (g *GridSurface) SetStrokeColor(c color.Color) { g.stroke = toRGBA(c) }

func (g *GridSurface) SetLineWidth(w float64) { g.width = w }

func toRGBA(c color.Color) color.RGBA {
	if c == nil {
		return color.RGBA{}
	}
	r, gg, b, a := c.RGBA()
	return color.RGBA{R: uint8(r >> 8), G: uint8(gg >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}
}

func (g *GridSurface) FillRect(x, y, w, h float64) {
	c0, r0 := CellAt(vision.Vec2{X: x, Y: y})
	c1, r1 := CellAt(vision.Vec2{X: x + w, Y: y + h})
	for r := max(r0, 0); r <= min(r1, g.Rows-1); r++ {
		for c := max(c0, 0); c <= min(c1, g.Cols-1); c++ {
			p := CellCenter(c, r)
			if p.X < x || p.X > x+w || p.Y < y || p.Y > y+h {
				continue
			}
			g.paint(c, r)
		}
	}
}

func (g *GridSurface) paint(col, row int) {
	i := row*g.Cols + col
	a := float64(g.fill.A) / 255
	if g.mode == vision.CompositeDestinationOut {
		g.fog[i] *= 1 - a
		return
	}
	g.fog[i] = a + g.fog[i]*(1-a)
	g.fogCol = g.fill
}

func (g *GridSurface) BeginPath() {
	g.subpaths = g.subpaths[:0]
	g.closed = g.closed[:0]
}

func (g *GridSurface) MoveTo(x, y float64) {
	g.subpaths = append(g.subpaths, []vision.Vec2{{X: x, Y: y}})
	g.closed = append(g.closed, false)
}

func (g *GridSurface) LineTo(x, y float64) {
	if len(g.subpaths) == 0 || g.closed[len(g.closed)-1] {
		g.MoveTo(x, y)
		return
	}
	last := len(g.subpaths) - 1
	g.subpaths[last] = append(g.subpaths[last], vision.Vec2{X: x, Y: y})
}

func (g *GridSurface) Arc(x, y, radius, start, end float64) {
	if radius <= 0 || math.IsNaN(radius) || math.IsInf(radius, 0) {
		return
	}
	sweep := end - start
	n := int(math.Ceil(math.Abs(sweep) / (2 * math.Pi) * arcSegments))
	if n < 1 {
		n = 1
	}
	for i := 0; i <= n; i++ {
		a := start + sweep*float64(i)/float64(n)
		g.LineTo(x+radius*math.Cos(a), y+radius*math.Sin(a))
	}
}

func (g *GridSurface) ClosePath() {
	if len(g.closed) > 0 {
		g.closed[len(g.closed)-1] = true
	}
}

// Fill paints every cell whose centre lies inside any subpath polygon.
func (g *GridSurface) Fill() {
	for _, sp := range g.subpaths {
		if len(sp) < 3 {
			continue
		}
		poly, ok := ringPolygon(sp)
		if !ok {
			continue
		}
		minX, minY, maxX, maxY := bbox(sp)
		c0, r0 := CellAt(vision.Vec2{X: minX, Y: minY})
		c1, r1 := CellAt(vision.Vec2{X: maxX, Y: maxY})
		for r := max(r0, 0); r <= min(r1, g.Rows-1); r++ {
			for c := max(c0, 0); c <= min(c1, g.Cols-1); c++ {
				p := CellCenter(c, r)
				pt, err := geom.NewPoint(geom.Coordinates{XY: geom.XY{X: p.X, Y: p.Y}})
				if err != nil {
					continue
				}
				if geom.Intersects(pt.AsGeometry(), poly) {
					g.paint(c, r)
				}
			}
		}
	}
}

// Stroke marks every cell crossed by the path outline.
func (g *GridSurface) Stroke() {
	g.edgeCl = g.stroke
	for i, sp := range g.subpaths {
		for j := 1; j < len(sp); j++ {
			g.markSegment(sp[j-1], sp[j])
		}
		if g.closed[i] && len(sp) > 2 {
			g.markSegment(sp[len(sp)-1], sp[0])
		}
	}
}

func (g *GridSurface) markSegment(a, b vision.Vec2) {
	d := math.Hypot(b.X-a.X, b.Y-a.Y)
	steps := int(math.Ceil(d/0.5)) + 1
	if steps > 4096 {
		steps = 4096
	}
	for k := 0; k <= steps; k++ {
		t := float64(k) / float64(steps)
		c, r := CellAt(vision.Vec2{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t})
		if g.in(c, r) {
			g.edge[r*g.Cols+c] = true
		}
	}
}

// ringPolygon closes pts into a polygon. Validation is skipped: clipped cone
// fans are often not simple rings, and a point-in-ring test still fills them.
func ringPolygon(pts []vision.Vec2) (geom.Geometry, bool) {
	flat := make([]float64, 0, (len(pts)+1)*2)
	for _, p := range pts {
		flat = append(flat, p.X, p.Y)
	}
	if pts[0] != pts[len(pts)-1] {
		flat = append(flat, pts[0].X, pts[0].Y)
	}
	ring, err := geom.NewLineString(geom.NewSequence(flat, geom.DimXY), geom.DisableAllValidations)
	if err != nil {
		return geom.Geometry{}, false
	}
	poly, err := geom.NewPolygon([]geom.LineString{ring}, geom.DisableAllValidations)
	if err != nil {
		return geom.Geometry{}, false
	}
	return poly.AsGeometry(), true
}

func bbox(pts []vision.Vec2) (minX, minY, maxX, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, p := range pts {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	return
}
