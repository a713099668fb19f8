// Package records derives personal records and progression series from the
// workout log.
package records

import (
	"time"

	"github.com/claude/barbell/internal/models"
)

// Source supplies the log, newest first.
type Source interface {
	Entries() []models.WorkoutLogEntry
}

// Point is one logged attempt of a lift.
type Point struct {
	Date    time.Time `json:"date"`
	Weight  float64   `json:"weight"`
	Success bool      `json:"success"`
}

// Record summarizes the best successful lift of a kind.
type Record struct {
	Kind               models.ExerciseKind `json:"name"`
	Weight             float64             `json:"weight"`
	Date               time.Time           `json:"date"`
	EstimatedOneRepMax float64             `json:"estimated_one_rep_max"`
}

// WorkingReps is the rep count every working set is performed at.
const WorkingReps = 5

// EstimateOneRepMax applies the Epley formula to a weight lifted for
// WorkingReps.
func EstimateOneRepMax(weight float64) float64 {
	return weight * (1 + float64(WorkingReps)/30)
}

// PersonalRecord returns the heaviest successful weight logged for kind.
// The earliest session reaching it wins ties. ok is false when kind has no
// successful result.
func PersonalRecord(src Source, kind models.ExerciseKind) (rec Record, ok bool) {
	entries := src.Entries()
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		for _, r := range e.Exercises {
			if r.Kind != kind || !r.Success {
				continue
			}
			if !ok || r.Weight > rec.Weight {
				rec = Record{Kind: kind, Weight: r.Weight, Date: e.Date}
				ok = true
			}
		}
	}
	if ok {
		rec.EstimatedOneRepMax = EstimateOneRepMax(rec.Weight)
	}
	return rec, ok
}

// EstimatedOneRepMax returns the Epley estimate from the personal record of
// kind, or false when there is none.
func EstimatedOneRepMax(src Source, kind models.ExerciseKind) (float64, bool) {
	rec, ok := PersonalRecord(src, kind)
	return rec.EstimatedOneRepMax, ok
}

// All returns the personal record of every kind that has one, in the fixed
// kind order.
func All(src Source) []Record {
	var out []Record
	for _, k := range models.AllKinds() {
		if rec, ok := PersonalRecord(src, k); ok {
			out = append(out, rec)
		}
	}
	return out
}

// Progression returns every logged attempt of kind, oldest first.
func Progression(src Source, kind models.ExerciseKind) []Point {
	entries := src.Entries()
	out := []Point{}
	for i := len(entries) - 1; i >= 0; i-- {
		for _, r := range entries[i].Exercises {
			if r.Kind == kind {
				out = append(out, Point{Date: entries[i].Date, Weight: r.Weight, Success: r.Success})
			}
		}
	}
	return out
}
