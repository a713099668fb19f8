package plates

import (
	"math"
	"reflect"
	"testing"

	"github.com/claude/barbell/internal/models"
)

// TestPerSide pins down the greedy breakdown for typical bar loads.
func TestPerSide(t *testing.T) {
	tests := []struct {
		target float64
		want   []models.PlateLoad
	}{
		{100, []models.PlateLoad{{Plate: 20, Count: 2}}},
		{62.5, []models.PlateLoad{{Plate: 20, Count: 1}, {Plate: 1.25, Count: 1}}},
		{47.5, []models.PlateLoad{{Plate: 10, Count: 1}, {Plate: 2.5, Count: 1}, {Plate: 1.25, Count: 1}}},
		{135, []models.PlateLoad{{Plate: 20, Count: 2}, {Plate: 15, Count: 1}, {Plate: 2.5, Count: 1}}},
		{30, []models.PlateLoad{{Plate: 5, Count: 1}}},
	}
	for _, tt := range tests {
		if got := PerSide(tt.target); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("PerSide(%v) = %v, want %v", tt.target, got, tt.want)
		}
	}
}

// TestPerSideBarOrLess verifies the empty bar needs no plates.
func TestPerSideBarOrLess(t *testing.T) {
	for _, w := range []float64{20, 15, 0, -10, math.NaN(), math.Inf(1)} {
		if got := PerSide(w); len(got) != 0 {
			t.Errorf("PerSide(%v) = %v, want empty", w, got)
		}
	}
}

// TestPerSideHugeTarget verifies targets too large to count in plates yield
// no breakdown instead of overflowing counts.
func TestPerSideHugeTarget(t *testing.T) {
	for _, w := range []float64{1e308, math.MaxFloat64, 1e12} {
		loads := PerSide(w)
		if len(loads) != 0 {
			t.Errorf("PerSide(%v) = %v, want empty", w, loads)
		}
		if got := Total(loads); got != 20 {
			t.Errorf("Total(PerSide(%v)) = %v, want 20", w, got)
		}
	}
	// Largest target still counted: every count stays positive.
	loads := PerSide(1e9)
	if len(loads) == 0 {
		t.Fatal("PerSide(1e9) is empty")
	}
	for _, l := range loads {
		if l.Count <= 0 {
			t.Errorf("PerSide(1e9) has count %d for plate %v", l.Count, l.Plate)
		}
	}
}

// TestPerSideIsExactForWorkingWeights verifies the greedy breakdown reloads
// the exact target for every weight the engine can prescribe, with plates
// in strictly descending order.
func TestPerSideIsExactForWorkingWeights(t *testing.T) {
	for w := 22.5; w <= 400; w += 2.5 {
		loads := PerSide(w)
		if got := Total(loads); got != w {
			t.Fatalf("Total(PerSide(%v)) = %v", w, got)
		}
		for i := 1; i < len(loads); i++ {
			if loads[i].Plate >= loads[i-1].Plate {
				t.Fatalf("PerSide(%v) not descending: %v", w, loads)
			}
		}
	}
}
