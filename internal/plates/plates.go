// Package plates computes which plates to load on each side of the bar.
package plates

import (
	"math"

	"github.com/claude/barbell/internal/models"
	"github.com/claude/barbell/internal/rounding"
)

// Denominations available in the gym, heaviest first.
var Denominations = []float64{20, 15, 10, 5, 2.5, 1.25}

// PerSide returns the greedy plate breakdown for one side of the bar.
//
// Greedy is exact only when (target-bar)/2 is a multiple of 1.25, which the
// working-weight rounding guarantees. Other inputs leave a remainder that is
// silently not loaded. Targets that would need more than math.MaxInt32 of
// the smallest plate per side have no breakdown.
func PerSide(target float64) []models.PlateLoad {
	if !(target > rounding.BarWeight) || math.IsInf(target, 1) {
		return nil
	}
	remaining := (target - rounding.BarWeight) / 2
	if remaining/Denominations[len(Denominations)-1] > math.MaxInt32 {
		return nil
	}
	var loads []models.PlateLoad
	for _, d := range Denominations {
		n := math.Floor(remaining / d)
		if n > 0 {
			loads = append(loads, models.PlateLoad{Plate: d, Count: int(n)})
			remaining -= n * d
		}
	}
	return loads
}

// Total returns the bar load produced by a per-side breakdown.
func Total(loads []models.PlateLoad) float64 {
	total := rounding.BarWeight
	for _, l := range loads {
		total += 2 * l.Plate * float64(l.Count)
	}
	return total
}
