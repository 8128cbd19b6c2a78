package vision

import (
	"math"
	"testing"
)

func TestUpdateSweepAngle_ZeroRPM(t *testing.T) {
	for _, dt := range []float64{0, 0.016, 1, 1000} {
		if got := UpdateSweepAngle(123.5, 0, dt); got != 123.5 {
			t.Fatalf("rpm 0 should leave angle unchanged for dt=%.3f, got %.4f", dt, got)
		}
	}
}

func TestUpdateSweepAngle_WrapsPast360(t *testing.T) {
	// 2 rpm for 1 s is 12°.
	got := UpdateSweepAngle(358, 2, 1.0)
	if math.Abs(got-10) > 1e-9 {
		t.Fatalf("expected ~10, got %.6f", got)
	}
}

func TestUpdateSweepAngle_OneRevolution(t *testing.T) {
	for _, rpm := range []float64{1, 6, 13.5, 60} {
		got := UpdateSweepAngle(0, rpm, 60/rpm)
		if math.Min(got, 360-got) > 1e-6 {
			t.Fatalf("one revolution at %.1f rpm should return to 0, got %.9f", rpm, got)
		}
	}
}

func TestUpdateSweepAngle_LargeValuesStayInRange(t *testing.T) {
	cases := [][3]float64{
		{0, 1000, 3600},
		{359.9, 7, 12345.6},
		{10, -3, 1},
		{-725, 0, 5},
	}
	for _, c := range cases {
		got := UpdateSweepAngle(c[0], c[1], c[2])
		if got < 0 || got >= 360 {
			t.Fatalf("UpdateSweepAngle(%v) = %.6f, want [0,360)", c, got)
		}
	}
}

func TestUpdateSweepAngle_NegativeRPMRotatesBack(t *testing.T) {
	got := UpdateSweepAngle(5, -1, 60.0/36) // -10°
	if math.Abs(got-355) > 1e-9 {
		t.Fatalf("expected 355, got %.6f", got)
	}
}
