// Package progression owns the per-exercise working weight and failure count
// and applies the linear-progression rule to session outcomes.
package progression

import (
	"errors"
	"fmt"
	"math"

	"github.com/claude/barbell/internal/models"
	"github.com/claude/barbell/internal/rounding"
)

const (
	// FailureLimit is the number of consecutive failed sessions that triggers a deload.
	FailureLimit = 3
	// DeloadFactor is applied to the attempted weight on deload.
	DeloadFactor = 0.9
)

var (
	ErrBelowBarWeight  = errors.New("weight is below the bar weight")
	ErrUnknownExercise = errors.New("unknown exercise")
)

// LiftState is the working weight and consecutive failure count of one lift.
type LiftState struct {
	Weight   float64 `json:"weight"`
	Failures int     `json:"failures"`
}

// WorkingState is everything the engine knows. Weights are always a multiple
// of the kind's unit and never below the bar; failures stay in [0, FailureLimit).
type WorkingState struct {
	Lifts           map[models.ExerciseKind]LiftState `json:"lifts"`
	LastWorkoutType models.WorkoutType                `json:"last_workout_type"`
}

// Clone returns a copy of s that does not share the lift map.
func (s WorkingState) Clone() WorkingState {
	c := WorkingState{
		Lifts:           make(map[models.ExerciseKind]LiftState, len(s.Lifts)),
		LastWorkoutType: s.LastWorkoutType,
	}
	for k, v := range s.Lifts {
		c.Lifts[k] = v
	}
	return c
}

// DefaultState is the cold-start state: starting weights, no failures, and
// last type B so the first plan is A.
func DefaultState() WorkingState {
	s := WorkingState{
		Lifts:           make(map[models.ExerciseKind]LiftState, len(models.AllKinds())),
		LastWorkoutType: models.WorkoutB,
	}
	for _, k := range models.AllKinds() {
		s.Lifts[k] = LiftState{Weight: k.Spec().StartWeight}
	}
	return s
}

// Deload returns the weight after a deload: 90% of w floored to the kind's
// unit, never below the bar.
func Deload(w float64, kind models.ExerciseKind) float64 {
	return rounding.AtLeastBar(rounding.FloorToUnit(w*DeloadFactor, kind.Unit()))
}

// Engine applies results to a WorkingState. It is not safe for concurrent
// use; callers serialize access.
type Engine struct {
	state WorkingState
}

// New returns an engine at DefaultState.
func New() *Engine {
	return &Engine{state: DefaultState()}
}

// State returns a copy of the current state.
func (e *Engine) State() WorkingState {
	return e.state.Clone()
}

// Lift returns the state of a single lift.
func (e *Engine) Lift(kind models.ExerciseKind) LiftState {
	return e.state.Lifts[kind]
}

// LastWorkoutType returns the type of the most recently finished session.
func (e *Engine) LastWorkoutType() models.WorkoutType {
	return e.state.LastWorkoutType
}

// NextWorkoutType returns the type of the session to plan next.
func (e *Engine) NextWorkoutType() models.WorkoutType {
	return e.state.LastWorkoutType.Next()
}

// ApplyResult applies one session outcome for kind.
//
// Success sets the weight to attempted+increment, floored to the unit, and
// clears failures. Failure increments the count; the third consecutive one
// deloads from the attempted weight and clears the count.
func (e *Engine) ApplyResult(kind models.ExerciseKind, attempted float64, success bool) (WorkingState, error) {
	if !kind.Valid() {
		return e.State(), fmt.Errorf("%w: %q", ErrUnknownExercise, kind)
	}
	lift := e.state.Lifts[kind]
	if success {
		lift.Weight = rounding.AtLeastBar(rounding.FloorToUnit(attempted+kind.Increment(), kind.Unit()))
		lift.Failures = 0
	} else {
		lift.Failures++
		if lift.Failures >= FailureLimit {
			lift.Weight = Deload(attempted, kind)
			lift.Failures = 0
		}
	}
	e.state.Lifts[kind] = lift
	return e.State(), nil
}

// ManualOverride sets the working weight directly, floored to the unit, and
// clears failures. Overrides are not part of the workout log, so a later
// replay of the log discards them.
func (e *Engine) ManualOverride(kind models.ExerciseKind, weight float64) (WorkingState, error) {
	if !kind.Valid() {
		return e.State(), fmt.Errorf("%w: %q", ErrUnknownExercise, kind)
	}
	if math.IsNaN(weight) || math.IsInf(weight, 0) || weight < rounding.BarWeight {
		return e.State(), fmt.Errorf("%w: %v", ErrBelowBarWeight, weight)
	}
	e.state.Lifts[kind] = LiftState{Weight: rounding.FloorToUnit(weight, kind.Unit())}
	return e.State(), nil
}

// ResetToDefaults restores DefaultState.
func (e *Engine) ResetToDefaults() {
	e.state = DefaultState()
}

// SetLastWorkoutType records the type of a session that has just been
// logged or replayed.
func (e *Engine) SetLastWorkoutType(t models.WorkoutType) {
	if t.Valid() {
		e.state.LastWorkoutType = t
	}
}

// Restore loads a previously persisted state. Values that would break the
// state invariants are normalized: weights are floored to their unit and
// clamped to the bar, failure counts are clamped into range, missing lifts
// and an invalid workout type fall back to the defaults.
func (e *Engine) Restore(s WorkingState) {
	next := DefaultState()
	for _, k := range models.AllKinds() {
		lift, ok := s.Lifts[k]
		if !ok || math.IsNaN(lift.Weight) || math.IsInf(lift.Weight, 0) {
			continue
		}
		lift.Weight = rounding.AtLeastBar(rounding.FloorToUnit(lift.Weight, k.Unit()))
		lift.Failures = min(max(lift.Failures, 0), FailureLimit-1)
		next.Lifts[k] = lift
	}
	if s.LastWorkoutType.Valid() {
		next.LastWorkoutType = s.LastWorkoutType
	}
	e.state = next
}
