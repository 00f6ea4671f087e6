package tdboost

import "math"

// roundTo rounds half away from zero to the given number of decimal places.
func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

func round1(v float64) float64 { return roundTo(v, 1) }

func round2(v float64) float64 { return roundTo(v, 2) }

func floatPtr(v float64) *float64 { return &v }
