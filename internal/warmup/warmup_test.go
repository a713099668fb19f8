package warmup

import (
	"reflect"
	"testing"

	"github.com/claude/barbell/internal/models"
)

// TestSets covers the bar-only case, duplicate collapsing and the full ramp.
func TestSets(t *testing.T) {
	tests := []struct {
		name string
		work float64
		want []models.WarmupSet
	}{
		{
			name: "bar weight returns two bar sets",
			work: 20,
			want: []models.WarmupSet{{Weight: 20, Reps: "5"}, {Weight: 20, Reps: "5"}},
		},
		{
			name: "below bar returns two bar sets",
			work: 0,
			want: []models.WarmupSet{{Weight: 20, Reps: "5"}, {Weight: 20, Reps: "5"}},
		},
		{
			name: "just above bar collapses to a single bar set",
			work: 22.5,
			want: []models.WarmupSet{{Weight: 20, Reps: "5"}},
		},
		{
			name: "light weight keeps first label of collapsed steps",
			work: 30,
			want: []models.WarmupSet{{Weight: 20, Reps: "5"}, {Weight: 25, Reps: "2"}},
		},
		{
			name: "60kg ramp",
			work: 60,
			want: []models.WarmupSet{
				{Weight: 20, Reps: "5"},
				{Weight: 25, Reps: "5"},
				{Weight: 35, Reps: "3"},
				{Weight: 47.5, Reps: "2"},
			},
		},
		{
			name: "100kg ramp",
			work: 100,
			want: []models.WarmupSet{
				{Weight: 20, Reps: "5"},
				{Weight: 40, Reps: "5"},
				{Weight: 60, Reps: "3"},
				{Weight: 80, Reps: "2"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sets(tt.work)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Sets(%v) = %v, want %v", tt.work, got, tt.want)
			}
		})
	}
}

// TestSetsNoAdjacentDuplicates verifies collapsing holds across a sweep of
// valid working weights.
func TestSetsNoAdjacentDuplicates(t *testing.T) {
	for w := 22.5; w <= 300; w += 2.5 {
		sets := Sets(w)
		for i := 1; i < len(sets); i++ {
			if sets[i].Weight == sets[i-1].Weight {
				t.Fatalf("Sets(%v) has adjacent duplicate %v", w, sets[i].Weight)
			}
			if sets[i].Weight < sets[i-1].Weight {
				t.Fatalf("Sets(%v) is not increasing: %v", w, sets)
			}
		}
	}
}
