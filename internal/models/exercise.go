package models

import "fmt"

// ExerciseKind identifies one of the fixed barbell lifts. The value is the
// display name that is also written to the persisted log.
type ExerciseKind string

const (
	Squat         ExerciseKind = "Squat"
	BenchPress    ExerciseKind = "Bench Press"
	BarbellRow    ExerciseKind = "Barbell Row"
	OverheadPress ExerciseKind = "Overhead Press"
	Deadlift      ExerciseKind = "Deadlift"
)

// KindSpec holds the compile-time constants of an exercise kind.
type KindSpec struct {
	Sets        int     `json:"sets"`
	Reps        int     `json:"reps"`
	Unit        float64 `json:"unit"`      // rounding unit for the working weight
	Increment   float64 `json:"increment"` // added after a fully successful session
	StartWeight float64 `json:"start_weight"`
	Slug        string  `json:"slug"`
}

var kindSpecs = map[ExerciseKind]KindSpec{
	Squat:         {Sets: 5, Reps: 5, Unit: 2.5, Increment: 2.5, StartWeight: 20, Slug: "squat"},
	BenchPress:    {Sets: 5, Reps: 5, Unit: 2.5, Increment: 2.5, StartWeight: 20, Slug: "bench-press"},
	BarbellRow:    {Sets: 5, Reps: 5, Unit: 2.5, Increment: 2.5, StartWeight: 30, Slug: "barbell-row"},
	OverheadPress: {Sets: 5, Reps: 5, Unit: 2.5, Increment: 2.5, StartWeight: 20, Slug: "overhead-press"},
	Deadlift:      {Sets: 1, Reps: 5, Unit: 5.0, Increment: 5.0, StartWeight: 40, Slug: "deadlift"},
}

// AllKinds returns every exercise kind in display order.
func AllKinds() []ExerciseKind {
	return []ExerciseKind{Squat, BenchPress, BarbellRow, OverheadPress, Deadlift}
}

// Valid reports whether k is one of the fixed kinds.
func (k ExerciseKind) Valid() bool {
	_, ok := kindSpecs[k]
	return ok
}

// Spec returns the constants for k. Unknown kinds yield the zero KindSpec.
func (k ExerciseKind) Spec() KindSpec {
	return kindSpecs[k]
}

func (k ExerciseKind) Sets() int          { return kindSpecs[k].Sets }
func (k ExerciseKind) Reps() int          { return kindSpecs[k].Reps }
func (k ExerciseKind) Unit() float64      { return kindSpecs[k].Unit }
func (k ExerciseKind) Increment() float64 { return kindSpecs[k].Increment }

// Slug returns the URL/key-safe form of k, e.g. "bench-press".
func (k ExerciseKind) Slug() string { return kindSpecs[k].Slug }

// ParseExerciseKind accepts either the display name or the slug.
func ParseExerciseKind(s string) (ExerciseKind, error) {
	if k := ExerciseKind(s); k.Valid() {
		return k, nil
	}
	for k, spec := range kindSpecs {
		if spec.Slug == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown exercise %q", s)
}

// WorkoutType is the A/B alternation tag of a session.
type WorkoutType string

const (
	WorkoutA WorkoutType = "A"
	WorkoutB WorkoutType = "B"
)

// Next returns the type that follows t.
func (t WorkoutType) Next() WorkoutType {
	if t == WorkoutB {
		return WorkoutA
	}
	return WorkoutB
}

// Valid reports whether t is A or B.
func (t WorkoutType) Valid() bool {
	return t == WorkoutA || t == WorkoutB
}
