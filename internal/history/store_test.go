package history

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"reflect"
	"testing"
	"time"

	"github.com/claude/barbell/internal/models"
	"github.com/claude/barbell/internal/progression"
	"github.com/claude/barbell/internal/storage"
)

func newTestStore(t *testing.T) (*Store, *progression.Engine, *storage.Memory) {
	t.Helper()
	engine := progression.New()
	blobs := storage.NewMemory()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(engine, blobs, log), engine, blobs
}

type lift struct {
	kind    models.ExerciseKind
	success bool
}

// finish mimics the planner: results use the engine's current weight, are
// applied in order and then the entry is appended.
func finish(t *testing.T, s *Store, engine *progression.Engine, id string, date time.Time, lifts ...lift) models.WorkoutLogEntry {
	t.Helper()
	entry := models.WorkoutLogEntry{
		ID:          id,
		Date:        date,
		WorkoutType: engine.NextWorkoutType(),
	}
	for _, l := range lifts {
		w := engine.Lift(l.kind).Weight
		if _, err := engine.ApplyResult(l.kind, w, l.success); err != nil {
			t.Fatalf("ApplyResult: %v", err)
		}
		entry.Exercises = append(entry.Exercises, models.ExerciseResult{
			ID: id + "-" + l.kind.Slug(), Kind: l.kind, Weight: w,
			Sets: l.kind.Sets(), Reps: l.kind.Reps(), Success: l.success,
		})
	}
	if err := s.Append(context.Background(), entry); err != nil {
		t.Fatalf("Append: %v", err)
	}
	return entry
}

func day(n int) time.Time {
	return time.Date(2026, 3, n, 18, 0, 0, 0, time.UTC)
}

func sampleLog(t *testing.T, s *Store, engine *progression.Engine) []progression.WorkingState {
	t.Helper()
	var states []progression.WorkingState
	states = append(states, engine.State())
	finish(t, s, engine, "s1", day(1), lift{models.Squat, true}, lift{models.BenchPress, true}, lift{models.BarbellRow, false})
	states = append(states, engine.State())
	finish(t, s, engine, "s2", day(3), lift{models.Squat, true}, lift{models.OverheadPress, false}, lift{models.Deadlift, true})
	states = append(states, engine.State())
	finish(t, s, engine, "s3", day(5), lift{models.Squat, false}, lift{models.BenchPress, true}, lift{models.BarbellRow, false})
	states = append(states, engine.State())
	finish(t, s, engine, "s4", day(7), lift{models.Squat, true}, lift{models.OverheadPress, false}, lift{models.Deadlift, true})
	states = append(states, engine.State())
	return states
}

// TestAppendInsertsAtHead verifies the display order is newest first and the
// workout type advances.
func TestAppendInsertsAtHead(t *testing.T) {
	s, engine, _ := newTestStore(t)
	finish(t, s, engine, "s1", day(1), lift{models.Squat, true})
	finish(t, s, engine, "s2", day(3), lift{models.Squat, true})

	entries := s.Entries()
	if len(entries) != 2 || entries[0].ID != "s2" || entries[1].ID != "s1" {
		t.Fatalf("entries = %v", entries)
	}
	if entries[0].WorkoutType != models.WorkoutB || entries[1].WorkoutType != models.WorkoutA {
		t.Errorf("types = %s,%s, want B,A", entries[0].WorkoutType, entries[1].WorkoutType)
	}
	if engine.LastWorkoutType() != models.WorkoutB {
		t.Errorf("last type = %s, want B", engine.LastWorkoutType())
	}
}

// TestRecomputeMatchesLiveState verifies replaying the log from defaults
// reproduces the state built incrementally.
func TestRecomputeMatchesLiveState(t *testing.T) {
	s, engine, _ := newTestStore(t)
	states := sampleLog(t, s, engine)

	if err := s.Recompute(); err != nil {
		t.Fatalf("Recompute: %v", err)
	}
	if got := engine.State(); !reflect.DeepEqual(got, states[len(states)-1]) {
		t.Errorf("replayed = %+v, want %+v", got, states[len(states)-1])
	}
}

// TestRecomputeIdempotent verifies two consecutive replays agree.
func TestRecomputeIdempotent(t *testing.T) {
	s, engine, _ := newTestStore(t)
	sampleLog(t, s, engine)

	if err := s.Recompute(); err != nil {
		t.Fatalf("Recompute: %v", err)
	}
	first := engine.State()
	if err := s.Recompute(); err != nil {
		t.Fatalf("Recompute: %v", err)
	}
	if second := engine.State(); !reflect.DeepEqual(first, second) {
		t.Errorf("second replay = %+v, first = %+v", second, first)
	}
}

// TestRecomputeReplaysOldestFirst verifies replay order is the reverse of the
// stored order. Replaying newest first would end on the success and clear
// the failure.
func TestRecomputeReplaysOldestFirst(t *testing.T) {
	s, engine, _ := newTestStore(t)
	finish(t, s, engine, "old", day(1), lift{models.Squat, true})
	finish(t, s, engine, "new", day(3), lift{models.Squat, false})

	if err := s.Recompute(); err != nil {
		t.Fatalf("Recompute: %v", err)
	}
	got := engine.Lift(models.Squat)
	if got.Weight != 22.5 || got.Failures != 1 {
		t.Errorf("squat = %+v, want 22.5 with 1 failure", got)
	}
}

// TestRemoveMostRecentRestoresPriorState verifies deleting the head entry
// rewinds the engine to the state before that entry was appended, for every
// depth of the sample log.
func TestRemoveMostRecentRestoresPriorState(t *testing.T) {
	s, engine, _ := newTestStore(t)
	states := sampleLog(t, s, engine)

	for i := len(states) - 2; i >= 0; i-- {
		head := s.Entries()[0]
		removed, err := s.RemoveByID(context.Background(), head.ID)
		if err != nil || !removed {
			t.Fatalf("RemoveByID(%s) = %v, %v", head.ID, removed, err)
		}
		if got := engine.State(); !reflect.DeepEqual(got, states[i]) {
			t.Fatalf("after removing %s state = %+v, want %+v", head.ID, got, states[i])
		}
	}
	if s.Len() != 0 {
		t.Errorf("len = %d, want 0", s.Len())
	}
}

// TestRemoveAbsentIDIsNoop verifies an unknown id changes nothing, including
// a manual override that a replay would discard.
func TestRemoveAbsentIDIsNoop(t *testing.T) {
	s, engine, blobs := newTestStore(t)
	sampleLog(t, s, engine)
	engine.ManualOverride(models.Squat, 100)
	before, _ := blobs.GetBytes(context.Background(), LogKey)

	removed, err := s.RemoveByID(context.Background(), "missing")
	if err != nil || removed {
		t.Fatalf("RemoveByID(missing) = %v, %v", removed, err)
	}
	if s.Len() != 4 {
		t.Errorf("len = %d, want 4", s.Len())
	}
	if w := engine.Lift(models.Squat).Weight; w != 100 {
		t.Errorf("squat = %v, want override 100 kept", w)
	}
	after, _ := blobs.GetBytes(context.Background(), LogKey)
	if string(before) != string(after) {
		t.Error("log blob rewritten for absent id")
	}
}

// TestRemoveDiscardsManualOverride documents that overrides are not part of
// the log and are lost when a deletion triggers a replay.
func TestRemoveDiscardsManualOverride(t *testing.T) {
	s, engine, _ := newTestStore(t)
	finish(t, s, engine, "s1", day(1), lift{models.Squat, true})
	finish(t, s, engine, "s2", day(3), lift{models.Squat, true})
	engine.ManualOverride(models.Squat, 100)

	if _, err := s.RemoveByID(context.Background(), "s2"); err != nil {
		t.Fatalf("RemoveByID: %v", err)
	}
	if w := engine.Lift(models.Squat).Weight; w != 22.5 {
		t.Errorf("squat = %v, want 22.5 from replay", w)
	}
}

// TestPersistAndLoad verifies the log survives a reload through the blob
// store and is written with the documented field names.
func TestPersistAndLoad(t *testing.T) {
	s, engine, blobs := newTestStore(t)
	sampleLog(t, s, engine)

	raw, err := blobs.GetBytes(context.Background(), LogKey)
	if err != nil {
		t.Fatalf("GetBytes: %v", err)
	}
	var generic []map[string]any
	if err := json.Unmarshal(raw, &generic); err != nil {
		t.Fatalf("log is not a JSON array: %v", err)
	}
	for _, field := range []string{"id", "date", "workoutType", "exercises", "accessoryWork"} {
		if _, ok := generic[0][field]; !ok {
			t.Errorf("entry missing field %q", field)
		}
	}
	ex := generic[0]["exercises"].([]any)[0].(map[string]any)
	for _, field := range []string{"id", "name", "weight", "sets", "reps", "success"} {
		if _, ok := ex[field]; !ok {
			t.Errorf("exercise missing field %q", field)
		}
	}

	reloaded := New(progression.New(), blobs, slog.New(slog.NewTextHandler(io.Discard, nil)))
	reloaded.Load(context.Background())
	if !reflect.DeepEqual(reloaded.Entries(), s.Entries()) {
		t.Errorf("reloaded log differs from original")
	}
}

// TestLoadColdStart verifies unreadable blobs start an empty log.
func TestLoadColdStart(t *testing.T) {
	tests := map[string]string{
		"not json":         `{{{`,
		"unknown exercise": `[{"id":"x","date":"2026-03-01T00:00:00Z","workoutType":"A","exercises":[{"id":"r","name":"Curl","weight":20,"sets":5,"reps":5,"success":true}],"accessoryWork":[]}]`,
		"bad type":         `[{"id":"x","date":"2026-03-01T00:00:00Z","workoutType":"C","exercises":[],"accessoryWork":[]}]`,
	}
	for name, blob := range tests {
		t.Run(name, func(t *testing.T) {
			s, _, blobs := newTestStore(t)
			blobs.SetBytes(context.Background(), LogKey, []byte(blob))
			s.Load(context.Background())
			if s.Len() != 0 {
				t.Errorf("len = %d, want 0", s.Len())
			}
		})
	}
}

// TestEntryFor verifies calendar-day lookup.
func TestEntryFor(t *testing.T) {
	s, engine, _ := newTestStore(t)
	sampleLog(t, s, engine)

	e, ok := s.EntryFor(time.Date(2026, 3, 3, 7, 30, 0, 0, time.UTC))
	if !ok || e.ID != "s2" {
		t.Errorf("EntryFor(3rd) = %v, %v, want s2", e.ID, ok)
	}
	if _, ok := s.EntryFor(day(2)); ok {
		t.Error("EntryFor(2nd) found an entry")
	}
}

// TestEntriesIsACopy verifies callers cannot edit logged entries in place.
func TestEntriesIsACopy(t *testing.T) {
	s, engine, _ := newTestStore(t)
	finish(t, s, engine, "s1", day(1), lift{models.Squat, true})
	entries := s.Entries()
	entries[0].Exercises[0].Weight = 500
	if got, _ := s.Get("s1"); got.Exercises[0].Weight != 20 {
		t.Errorf("stored weight = %v, want 20", got.Exercises[0].Weight)
	}
}
