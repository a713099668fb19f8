// Package rounding holds the numeric helpers shared by the progression engine
// and the calculators. Every function is total: NaN and infinities pass
// through math.Floor/math.Round unchanged and never panic.
package rounding

import "math"

// BarWeight is the empty Olympic bar in kg and the floor for any working weight.
const BarWeight = 20.0

// WarmupUnit is the step warm-up weights are rounded to.
const WarmupUnit = 2.5

// FloorToUnit returns the largest multiple of unit that is <= x.
// A non-positive unit returns x unchanged.
func FloorToUnit(x, unit float64) float64 {
	if unit <= 0 {
		return x
	}
	return math.Floor(x/unit) * unit
}

// RoundToNearest rounds x to the nearest multiple of unit, halves rounding up
// (away from zero for positive weights).
func RoundToNearest(x, unit float64) float64 {
	if unit <= 0 {
		return x
	}
	return math.Round(x/unit) * unit
}

// AtLeastBar clamps w to the bar weight.
func AtLeastBar(w float64) float64 {
	return math.Max(BarWeight, w)
}
