package storage

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/claude/barbell/internal/models"
	"github.com/claude/barbell/internal/progression"
)

// KeyLastWorkoutType holds "A" or "B".
const KeyLastWorkoutType = "workout/last_type"

// WeightKey is the key of a lift's working weight, e.g. "weight/squat".
func WeightKey(k models.ExerciseKind) string { return "weight/" + k.Slug() }

// FailuresKey is the key of a lift's consecutive failure count.
func FailuresKey(k models.ExerciseKind) string { return "failures/" + k.Slug() }

// SaveSnapshot writes every weight, failure count and the workout type as
// independent keys.
func SaveSnapshot(ctx context.Context, s BlobStore, st progression.WorkingState) error {
	for _, k := range models.AllKinds() {
		lift := st.Lifts[k]
		w := strconv.FormatFloat(lift.Weight, 'f', -1, 64)
		if err := s.SetBytes(ctx, WeightKey(k), []byte(w)); err != nil {
			return fmt.Errorf("saving %s weight: %w", k, err)
		}
		if err := s.SetBytes(ctx, FailuresKey(k), []byte(strconv.Itoa(lift.Failures))); err != nil {
			return fmt.Errorf("saving %s failures: %w", k, err)
		}
	}
	if err := s.SetBytes(ctx, KeyLastWorkoutType, []byte(st.LastWorkoutType)); err != nil {
		return fmt.Errorf("saving workout type: %w", err)
	}
	return nil
}

// LoadSnapshot reads the snapshot keys. The returned state is always usable:
// a missing key silently keeps its default, an unreadable or undecodable key
// keeps its default and is reported in the joined error.
func LoadSnapshot(ctx context.Context, s BlobStore) (progression.WorkingState, error) {
	st := progression.DefaultState()
	var errs []error

	read := func(key string) (string, bool) {
		b, err := s.GetBytes(ctx, key)
		if errors.Is(err, ErrNotFound) {
			return "", false
		}
		if err != nil {
			errs = append(errs, err)
			return "", false
		}
		return strings.TrimSpace(string(b)), true
	}

	for _, k := range models.AllKinds() {
		lift := st.Lifts[k]
		if v, ok := read(WeightKey(k)); ok {
			if w, err := strconv.ParseFloat(v, 64); err == nil {
				lift.Weight = w
			} else {
				errs = append(errs, fmt.Errorf("decoding %s: %w", WeightKey(k), err))
			}
		}
		if v, ok := read(FailuresKey(k)); ok {
			if n, err := strconv.Atoi(v); err == nil {
				lift.Failures = n
			} else {
				errs = append(errs, fmt.Errorf("decoding %s: %w", FailuresKey(k), err))
			}
		}
		st.Lifts[k] = lift
	}
	if v, ok := read(KeyLastWorkoutType); ok {
		if t := models.WorkoutType(v); t.Valid() {
			st.LastWorkoutType = t
		} else {
			errs = append(errs, fmt.Errorf("decoding %s: invalid workout type %q", KeyLastWorkoutType, v))
		}
	}
	return st, errors.Join(errs...)
}
