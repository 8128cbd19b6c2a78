package vision

import (
	"errors"
	"fmt"
	"math"

	geom "github.com/peterstace/simplefeatures/geom"
)

// ErrDegeneratePolygon is returned for building outlines with fewer than three points.
var ErrDegeneratePolygon = errors.New("building polygon needs at least 3 points")

// Building is a building footprint: an ordered polygon outline in world meters.
type Building []Vec2

// Occluder decides whether terrain blocks sight between two world points.
type Occluder interface {
	// Blocks reports whether the sight line from -> to is obstructed.
	Blocks(from, to Vec2) bool
	// Clip returns the farthest unobstructed point on the segment from -> to.
	Clip(from, to Vec2) Vec2
}

// BuildingOccluder treats building polygons as opaque.
type BuildingOccluder struct {
	polys []geom.Polygon
}

// NewBuildingOccluder compiles building outlines into polygons. Outlines that
// cannot form a valid polygon are skipped; their errors are joined into err.
func NewBuildingOccluder(buildings []Building) (*BuildingOccluder, error) {
	o := &BuildingOccluder{}
	var errs []error
	for i, b := range buildings {
		p, err := buildingPolygon(b)
		if err != nil {
			errs = append(errs, fmt.Errorf("building %d: %w", i, err))
			continue
		}
		o.polys = append(o.polys, p)
	}
	return o, errors.Join(errs...)
}

func buildingPolygon(b Building) (geom.Polygon, error) {
	if len(b) < 3 {
		return geom.Polygon{}, ErrDegeneratePolygon
	}
	flat := make([]float64, 0, (len(b)+1)*2)
	for _, p := range b {
		p = p.sanitized()
		flat = append(flat, p.X, p.Y)
	}
	// Rings must be closed.
	if b[0] != b[len(b)-1] {
		flat = append(flat, finite(b[0].X), finite(b[0].Y))
	}
	ring, err := geom.NewLineString(geom.NewSequence(flat, geom.DimXY))
	if err != nil {
		return geom.Polygon{}, err
	}
	poly, err := geom.NewPolygon([]geom.LineString{ring})
	if err != nil {
		return geom.Polygon{}, err
	}
	return poly, nil
}

// Len returns how many buildings compiled successfully.
func (o *BuildingOccluder) Len() int {
	if o == nil {
		return 0
	}
	return len(o.polys)
}

// sightGeoms returns the observer point and the sight line as geometries.
// ok is false when the coordinates cannot form them.
func sightGeoms(from, to Vec2) (origin, line geom.Geometry, ok bool) {
	pt, err := geom.NewPoint(geom.Coordinates{XY: geom.XY{X: from.X, Y: from.Y}})
	if err != nil {
		return geom.Geometry{}, geom.Geometry{}, false
	}
	ls, err := geom.NewLineString(geom.NewSequence([]float64{from.X, from.Y, to.X, to.Y}, geom.DimXY))
	if err != nil {
		return geom.Geometry{}, geom.Geometry{}, false
	}
	return pt.AsGeometry(), ls.AsGeometry(), true
}

// Blocks reports whether any building other than one containing the observer
// intersects the sight line.
func (o *BuildingOccluder) Blocks(from, to Vec2) bool {
	if o == nil || len(o.polys) == 0 || from == to {
		return false
	}
	origin, line, ok := sightGeoms(from, to)
	if !ok {
		return false
	}
	for _, p := range o.polys {
		pg := p.AsGeometry()
		if geom.Intersects(origin, pg) {
			continue
		}
		if geom.Intersects(line, pg) {
			return true
		}
	}
	return false
}

// Clip shortens from -> to at the nearest building boundary, pulled back by
// one percent of the segment so fills do not bleed into walls.
func (o *BuildingOccluder) Clip(from, to Vec2) Vec2 {
	if o == nil || len(o.polys) == 0 || from == to {
		return to
	}
	total := math.Hypot(to.X-from.X, to.Y-from.Y)
	origin, line, ok := sightGeoms(from, to)
	if !ok {
		return to
	}

	best := 1.0
	for _, p := range o.polys {
		pg := p.AsGeometry()
		if geom.Intersects(origin, pg) || !geom.Intersects(line, pg) {
			continue
		}
		hit, err := geom.Intersection(line, pg)
		if err != nil || hit.IsEmpty() {
			continue
		}
		seq := hit.DumpCoordinates()
		for i := 0; i < seq.Length(); i++ {
			xy := seq.GetXY(i)
			t := math.Hypot(xy.X-from.X, xy.Y-from.Y) / total
			if t < best {
				best = t
			}
		}
	}
	if best >= 1 {
		return to
	}
	t := math.Max(0, best-0.01)
	return Vec2{X: from.X + (to.X-from.X)*t, Y: from.Y + (to.Y-from.Y)*t}
}
