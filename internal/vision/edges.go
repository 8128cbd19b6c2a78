package vision

// drawConeEdges strokes the two boundary rays and the arc of every friendly
// cone. Ambient-only sensors are skipped.
func (s *System) drawConeEdges(ds DrawingSurface, units []Unit) {
	styled := false
	for _, u := range units {
		if u.Alliance != AllianceFriendly {
			continue
		}
		p := s.profiles.Lookup(u.AssetType)
		if !p.HasCone() {
			continue
		}
		if !styled {
			ds.SetStrokeColor(s.style.Edge)
			ds.SetLineWidth(s.style.EdgeWidth)
			styled = true
		}
		pos := u.Position.sanitized()
		s.traceCone(ds, pos, s.coneOutline(pos, s.coneBearing(u, p), p))
		c := s.worldToScreen(pos)
		ds.LineTo(c.X, c.Y)
		ds.Stroke()
	}
}
