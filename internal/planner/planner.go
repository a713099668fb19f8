// Package planner alternates A/B sessions and turns a completed plan into a
// log entry.
package planner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/claude/barbell/internal/history"
	"github.com/claude/barbell/internal/models"
	"github.com/claude/barbell/internal/plates"
	"github.com/claude/barbell/internal/progression"
	"github.com/claude/barbell/internal/warmup"
	"github.com/google/uuid"
)

// ErrSetIndex is returned when a toggle names a set that is not in the plan.
var ErrSetIndex = errors.New("no such set in today's plan")

// Planner holds today's plan. Not safe for concurrent use.
type Planner struct {
	engine  *progression.Engine
	history *history.Store
	now     func() time.Time
	plan    models.TodaysPlan
}

// New creates a Planner and builds the first plan from the engine state.
func New(engine *progression.Engine, hist *history.Store, now func() time.Time) *Planner {
	if now == nil {
		now = time.Now
	}
	p := &Planner{engine: engine, history: hist, now: now}
	p.GeneratePlan()
	return p
}

// GeneratePlan rebuilds today's plan from the current working weights with
// every completion flag cleared.
func (p *Planner) GeneratePlan() models.TodaysPlan {
	t := p.engine.NextWorkoutType()
	plan := models.TodaysPlan{WorkoutType: t}
	for _, k := range models.PlannedKinds(t) {
		w := p.engine.Lift(k).Weight
		plan.Exercises = append(plan.Exercises, models.PlannedExercise{
			Kind:      k,
			Weight:    w,
			Reps:      k.Reps(),
			Completed: make([]bool, k.Sets()),
			Warmup:    warmup.Sets(w),
			Plates:    plates.PerSide(w),
		})
	}
	for _, a := range models.PlannedAccessories(t) {
		plan.Accessories = append(plan.Accessories, models.PlannedAccessory{
			Accessory: a,
			Completed: make([]bool, a.Sets),
		})
	}
	p.plan = plan
	return plan.Clone()
}

// Plan returns a copy of today's plan.
func (p *Planner) Plan() models.TodaysPlan {
	return p.plan.Clone()
}

// ToggleSet flips one working-set flag and returns its new value.
func (p *Planner) ToggleSet(kind models.ExerciseKind, set int) (bool, error) {
	for i := range p.plan.Exercises {
		ex := &p.plan.Exercises[i]
		if ex.Kind != kind {
			continue
		}
		if set < 0 || set >= len(ex.Completed) {
			break
		}
		ex.Completed[set] = !ex.Completed[set]
		return ex.Completed[set], nil
	}
	return false, fmt.Errorf("%w: %s set %d", ErrSetIndex, kind, set)
}

// ToggleAccessory flips one accessory-set flag and returns its new value.
func (p *Planner) ToggleAccessory(id string, set int) (bool, error) {
	for i := range p.plan.Accessories {
		a := &p.plan.Accessories[i]
		if a.ID != id {
			continue
		}
		if set < 0 || set >= len(a.Completed) {
			break
		}
		a.Completed[set] = !a.Completed[set]
		return a.Completed[set], nil
	}
	return false, fmt.Errorf("%w: %s set %d", ErrSetIndex, id, set)
}

// FinishSession records today's plan. Each lift succeeds only when all its
// sets are done; its result carries the weight attempted, before the engine
// update. Accessories are recorded only when all their sets are done. The
// entry is logged under the type just performed and the next plan is built.
//
// A persistence error is returned after the in-memory state has moved on,
// together with the entry that was logged.
func (p *Planner) FinishSession(ctx context.Context) (models.WorkoutLogEntry, error) {
	plan := p.plan
	entry := models.WorkoutLogEntry{
		ID:          uuid.NewString(),
		Date:        p.now(),
		WorkoutType: plan.WorkoutType,
	}

	for _, ex := range plan.Exercises {
		success := models.AllDone(ex.Completed)
		if _, err := p.engine.ApplyResult(ex.Kind, ex.Weight, success); err != nil {
			return models.WorkoutLogEntry{}, err
		}
		entry.Exercises = append(entry.Exercises, models.ExerciseResult{
			ID:      uuid.NewString(),
			Kind:    ex.Kind,
			Weight:  ex.Weight,
			Sets:    ex.Kind.Sets(),
			Reps:    ex.Kind.Reps(),
			Success: success,
		})
	}
	for _, a := range plan.Accessories {
		if models.AllDone(a.Completed) {
			entry.AccessoryWork = append(entry.AccessoryWork, models.AccessoryCompletion{ID: a.ID, Label: a.Label})
		}
	}

	err := p.history.Append(ctx, entry)
	p.GeneratePlan()
	if err != nil {
		return entry, fmt.Errorf("logging session: %w", err)
	}
	return entry, nil
}
