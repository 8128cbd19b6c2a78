package vision

// UpdateSweepAngle advances a rotating sensor's bearing by rpm revolutions per
// minute over dtSeconds. The result is always in [0, 360).
func UpdateSweepAngle(currentAngleDeg, rpm, dtSeconds float64) float64 {
	current := finite(currentAngleDeg)
	if rpm == 0 {
		return normalizeDeg(current)
	}
	return normalizeDeg(current + finite(rpm)*360*finite(dtSeconds)/60)
}
