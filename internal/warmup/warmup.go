// Package warmup builds the warm-up ramp performed before the working sets.
package warmup

import (
	"github.com/claude/barbell/internal/models"
	"github.com/claude/barbell/internal/rounding"
)

// Ramp: two empty-bar sets, then 40%, 60% and 80% of the work weight.
var (
	rampPercentages = []float64{0, 0, 0.40, 0.60, 0.80}
	rampReps        = []string{"5", "5", "5", "3", "2"}
)

// Sets returns the ordered warm-up ramp for workWeight.
//
// Steps are clamped to the bar and rounded to the nearest 2.5 (halves up).
// A step whose weight equals the previously kept step is dropped, so the rep
// label of the first occurrence wins.
func Sets(workWeight float64) []models.WarmupSet {
	if workWeight <= rounding.BarWeight {
		return []models.WarmupSet{
			{Weight: rounding.BarWeight, Reps: "5"},
			{Weight: rounding.BarWeight, Reps: "5"},
		}
	}

	sets := make([]models.WarmupSet, 0, len(rampPercentages))
	for i, pct := range rampPercentages {
		w := rounding.AtLeastBar(workWeight * pct)
		w = rounding.RoundToNearest(w, rounding.WarmupUnit)
		if n := len(sets); n > 0 && sets[n-1].Weight == w {
			continue
		}
		sets = append(sets, models.WarmupSet{Weight: w, Reps: rampReps[i]})
	}
	return sets
}
