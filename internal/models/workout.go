package models

import "time"

// ExerciseResult is the recorded outcome of one planned lift in a session.
// Weight is the weight attempted, before any progression update.
type ExerciseResult struct {
	ID      string       `json:"id"`
	Kind    ExerciseKind `json:"name"`
	Weight  float64      `json:"weight"`
	Sets    int          `json:"sets"`
	Reps    int          `json:"reps"`
	Success bool         `json:"success"`
}

// AccessoryCompletion records accessory work whose sets were all completed.
type AccessoryCompletion struct {
	ID    string `json:"id"`
	Label string `json:"name"`
}

// WorkoutLogEntry is one finished session. Entries are never edited in place.
type WorkoutLogEntry struct {
	ID            string                `json:"id"`
	Date          time.Time             `json:"date"`
	WorkoutType   WorkoutType           `json:"workoutType"`
	Exercises     []ExerciseResult      `json:"exercises"`
	AccessoryWork []AccessoryCompletion `json:"accessoryWork"`
}

// Clone returns a copy of e that shares no slices with it.
func (e WorkoutLogEntry) Clone() WorkoutLogEntry {
	c := e
	c.Exercises = append([]ExerciseResult(nil), e.Exercises...)
	c.AccessoryWork = append([]AccessoryCompletion(nil), e.AccessoryWork...)
	return c
}

// Accessory is a fixed piece of assistance work attached to a workout type.
type Accessory struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Sets  int    `json:"sets"`
}

var (
	accessoriesA = []Accessory{
		{ID: "dips", Label: "Dips 3×8", Sets: 3},
		{ID: "hanging-leg-raise", Label: "Hanging Leg Raise 3×10", Sets: 3},
	}
	accessoriesB = []Accessory{
		{ID: "chin-ups", Label: "Chin-ups 3×8", Sets: 3},
		{ID: "back-extension", Label: "Back Extension 3×10", Sets: 3},
	}
)

// PlannedKinds returns the lifts performed in a session of type t.
func PlannedKinds(t WorkoutType) []ExerciseKind {
	if t == WorkoutA {
		return []ExerciseKind{Squat, BenchPress, BarbellRow}
	}
	return []ExerciseKind{Squat, OverheadPress, Deadlift}
}

// PlannedAccessories returns the accessory set of a session of type t.
func PlannedAccessories(t WorkoutType) []Accessory {
	src := accessoriesB
	if t == WorkoutA {
		src = accessoriesA
	}
	return append([]Accessory(nil), src...)
}
