package vision

import (
	"image/color"
	"math"
)

// coneArcSteps is the number of segments used to approximate a cone's arc.
const coneArcSteps = 36

// cutColor is painted in destination-out mode; only its alpha matters.
var cutColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// drawFog fills the whole surface with fog, then erases the ambient circle
// and cone of every friendly sensor. The composite mode is SourceOver again
// when it returns.
func (s *System) drawFog(ds DrawingSurface, width, height float64, units []Unit) {
	ds.SetCompositeMode(CompositeSourceOver)
	ds.SetFillColor(s.style.Fog)
	ds.FillRect(0, 0, width, height)

	for _, u := range units {
		if u.Alliance != AllianceFriendly {
			continue
		}
		p := s.profiles.Lookup(u.AssetType)
		if p.Ambient <= 0 && !p.HasCone() {
			continue
		}
		ds.SetCompositeMode(CompositeDestinationOut)
		ds.SetFillColor(cutColor)
		pos := u.Position.sanitized()

		if p.Ambient > 0 {
			c := s.worldToScreen(pos)
			ds.BeginPath()
			ds.Arc(c.X, c.Y, s.metersToPixels(p.Ambient), 0, 2*math.Pi)
			ds.ClosePath()
			ds.Fill()
		}
		if p.HasCone() {
			s.traceCone(ds, pos, s.coneOutline(pos, s.coneBearing(u, p), p))
			ds.ClosePath()
			ds.Fill()
		}
	}

	ds.SetCompositeMode(CompositeSourceOver)
}

// coneOutline returns world points along the cone's arc, from the
// counter-clockwise edge to the clockwise edge. With occlusion on, each ray
// stops at the first building it meets.
func (s *System) coneOutline(origin Vec2, bearing float64, p VisionProfile) []Vec2 {
	aperture := math.Min(math.Max(p.ConeAngle, 0), 360)
	start := bearing - aperture/2
	pts := make([]Vec2, 0, coneArcSteps+1)
	for i := 0; i <= coneArcSteps; i++ {
		a := start + aperture*float64(i)/coneArcSteps
		end := pointAt(origin, a, p.ConeRange)
		if s.occlusion && s.occluder != nil {
			end = s.occluder.Clip(origin, end)
		}
		pts = append(pts, end)
	}
	return pts
}

// traceCone starts a path at the origin and follows the outline in screen space.
func (s *System) traceCone(ds DrawingSurface, origin Vec2, outline []Vec2) {
	c := s.worldToScreen(origin)
	ds.BeginPath()
	ds.MoveTo(c.X, c.Y)
	for _, w := range outline {
		p := s.worldToScreen(w)
		ds.LineTo(p.X, p.Y)
	}
}
