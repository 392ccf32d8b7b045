package common

import "math"

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Falloff is the linear influence 1 - d/r clamped to [0,1]. A non-positive
// radius has no influence.
func Falloff(d, r float64) float64 {
	if r <= 0 {
		return 0
	}
	return Clamp(1-d/r, 0, 1)
}

// Finite reports whether every value is neither NaN nor infinite.
func Finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
