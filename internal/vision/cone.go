package vision

import "math"

// IsInCone returns true if (targetX,targetY) lies within rangeMeters of the
// origin and within coneAngleDeg/2 of headingDeg. Both limits are inclusive.
// Headings and bearings are degrees clockwise from the +Y axis.
func IsInCone(originX, originY, headingDeg, coneAngleDeg, rangeMeters, targetX, targetY float64) bool {
	if !(rangeMeters > 0) {
		return false
	}
	dx := targetX - originX
	dy := targetY - originY
	dist := math.Hypot(dx, dy)
	if !(dist <= rangeMeters) {
		return false
	}
	if coneAngleDeg >= 360 || dist < 1e-9 {
		return true
	}
	diff := math.Abs(angleDiff(BearingTo(originX, originY, targetX, targetY), headingDeg))
	return diff <= coneAngleDeg/2+1e-9
}

// InRadius reports whether the target is within radius of the origin (inclusive).
func InRadius(originX, originY, radius, targetX, targetY float64) bool {
	if !(radius > 0) {
		return false
	}
	return math.Hypot(targetX-originX, targetY-originY) <= radius
}

// BearingTo returns the bearing in degrees [0, 360) from origin to target.
func BearingTo(originX, originY, targetX, targetY float64) float64 {
	return normalizeDeg(math.Atan2(targetX-originX, targetY-originY) * 180 / math.Pi)
}

// angleDiff returns the shortest signed difference a-b in degrees, in [-180, 180).
func angleDiff(a, b float64) float64 {
	d := math.Mod(a-b+180, 360)
	if d < 0 {
		d += 360
	}
	return d - 180
}

// normalizeDeg wraps an angle to [0, 360).
func normalizeDeg(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	if a >= 360 {
		a = 0
	}
	return a
}

// pointAt returns the world point at distance d along bearing deg from origin.
func pointAt(origin Vec2, deg, d float64) Vec2 {
	rad := deg * math.Pi / 180
	return Vec2{X: origin.X + math.Sin(rad)*d, Y: origin.Y + math.Cos(rad)*d}
}
