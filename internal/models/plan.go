package models

// WarmupSet is one step of a warm-up ramp.
type WarmupSet struct {
	Weight float64 `json:"weight"`
	Reps   string  `json:"reps"`
}

// PlateLoad is a plate denomination and how many go on one side of the bar.
type PlateLoad struct {
	Plate float64 `json:"plate"`
	Count int     `json:"count"`
}

// PlannedExercise is one lift in today's plan with its per-set completion flags.
type PlannedExercise struct {
	Kind      ExerciseKind `json:"name"`
	Weight    float64      `json:"weight"`
	Reps      int          `json:"reps"`
	Completed []bool       `json:"completed"`
	Warmup    []WarmupSet  `json:"warmup,omitempty"`
	Plates    []PlateLoad  `json:"plates_per_side,omitempty"`
}

// PlannedAccessory is one accessory item in today's plan.
type PlannedAccessory struct {
	Accessory
	Completed []bool `json:"completed"`
}

// TodaysPlan is the presentation-facing projection of the next session.
// It is rebuilt wholesale on every plan change and never persisted.
type TodaysPlan struct {
	WorkoutType WorkoutType        `json:"workout_type"`
	Exercises   []PlannedExercise  `json:"exercises"`
	Accessories []PlannedAccessory `json:"accessories"`
}

// Clone returns a deep copy of p.
func (p TodaysPlan) Clone() TodaysPlan {
	c := TodaysPlan{WorkoutType: p.WorkoutType}
	for _, ex := range p.Exercises {
		ex.Completed = append([]bool(nil), ex.Completed...)
		ex.Warmup = append([]WarmupSet(nil), ex.Warmup...)
		ex.Plates = append([]PlateLoad(nil), ex.Plates...)
		c.Exercises = append(c.Exercises, ex)
	}
	for _, a := range p.Accessories {
		a.Completed = append([]bool(nil), a.Completed...)
		c.Accessories = append(c.Accessories, a)
	}
	return c
}

// AllDone reports whether every flag is set. An empty slice is not done.
func AllDone(flags []bool) bool {
	if len(flags) == 0 {
		return false
	}
	for _, f := range flags {
		if !f {
			return false
		}
	}
	return true
}
