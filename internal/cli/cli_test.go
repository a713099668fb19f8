package cli

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/claude/barbell/internal/models"
	"github.com/claude/barbell/internal/storage"
	"github.com/claude/barbell/internal/tracker"
	"github.com/fatih/color"
)

// memoryOpener reopens a tracker over the same in-memory store on each
// command, like separate barbellctl invocations against one database.
func memoryOpener(store *storage.Memory) Opener {
	return func(ctx context.Context, _ string) (*tracker.Tracker, func(), error) {
		log := slog.New(slog.NewTextHandler(io.Discard, nil))
		return tracker.Open(ctx, store, tracker.Options{}, log), func() {}, nil
	}
}

func run(t *testing.T, store *storage.Memory, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true
	var out bytes.Buffer
	root := RootCmd("test", memoryOpener(store))
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

// TestPlanCommand verifies the cold-start plan is printed.
func TestPlanCommand(t *testing.T) {
	out, err := run(t, storage.NewMemory(), "plan")
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	for _, want := range []string{"Workout A", "Squat", "Barbell Row  30 kg  5×5", "plates:  1×5", "Dips 3×8"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

// TestFinishCommand verifies --failed lifts are logged as failures and the
// next invocation sees the advanced state.
func TestFinishCommand(t *testing.T) {
	store := storage.NewMemory()
	out, err := run(t, store, "finish", "--failed", "barbell-row")
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if !strings.Contains(out, "✗ Barbell Row 30") || !strings.Contains(out, "✓ Squat 20") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if !strings.Contains(out, "Next: workout B") {
		t.Errorf("next workout missing:\n%s", out)
	}

	out, err = run(t, store, "plan")
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if !strings.Contains(out, "Workout B") || !strings.Contains(out, "Squat  22.5 kg") {
		t.Errorf("plan after finish:\n%s", out)
	}
}

// TestFinishUnknownLift verifies a bad --failed name is rejected before any change.
func TestFinishUnknownLift(t *testing.T) {
	store := storage.NewMemory()
	if _, err := run(t, store, "finish", "--failed", "curl"); err == nil {
		t.Fatal("expected error for unknown lift")
	}
	out, _ := run(t, store, "history")
	if !strings.Contains(out, "No workouts logged") {
		t.Errorf("history after rejected finish:\n%s", out)
	}
}

// TestSetWeightAndRecompute verifies an override sticks until a recompute.
func TestSetWeightAndRecompute(t *testing.T) {
	store := storage.NewMemory()
	if _, err := run(t, store, "set-weight", "deadlift", "103"); err != nil {
		t.Fatalf("set-weight: %v", err)
	}
	out, _ := run(t, store, "finish")
	if !strings.Contains(out, "Next: workout B") {
		t.Fatalf("finish output:\n%s", out)
	}
	out, _ = run(t, store, "plan")
	if !strings.Contains(out, "Deadlift  100 kg  1×5") {
		t.Errorf("override lost:\n%s", out)
	}

	out, err := run(t, store, "recompute")
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}
	if !strings.Contains(out, "Replayed 1 workouts") || !strings.Contains(out, "Deadlift            40 kg") {
		t.Errorf("recompute output:\n%s", out)
	}
}

// TestSetWeightRejects verifies invalid weights fail without output.
func TestSetWeightRejects(t *testing.T) {
	for _, w := range []string{"heavy", "15"} {
		if _, err := run(t, storage.NewMemory(), "set-weight", "squat", w); err == nil {
			t.Errorf("set-weight %s: expected error", w)
		}
	}
}

// TestHistoryDeleteAndRecords verifies listing, records and deleting a workout.
func TestHistoryDeleteAndRecords(t *testing.T) {
	store := storage.NewMemory()
	if _, err := run(t, store, "finish"); err != nil {
		t.Fatal(err)
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	entries := tracker.Open(context.Background(), store, tracker.Options{}, log).Entries()
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	id := entries[0].ID

	out, _ := run(t, store, "history")
	if !strings.Contains(out, id) {
		t.Errorf("history missing %s:\n%s", id, out)
	}
	out, _ = run(t, store, "records")
	if !strings.Contains(out, "20 kg") || !strings.Contains(out, "23.3 kg") {
		t.Errorf("records:\n%s", out)
	}

	if _, err := run(t, store, "delete", "missing"); err == nil {
		t.Error("expected error deleting unknown id")
	}
	out, err := run(t, store, "delete", id)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !strings.Contains(out, "next workout: A") {
		t.Errorf("delete output:\n%s", out)
	}
	if _, ok := tracker.Open(context.Background(), store, tracker.Options{}, log).PersonalRecord(models.Squat); ok {
		t.Error("record survived deleting its only workout")
	}
}

// TestCalculatorCommands verifies warm-up and plate output.
func TestCalculatorCommands(t *testing.T) {
	out, err := run(t, storage.NewMemory(), "warmup", "60")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Count(out, "\n") != 4 || !strings.Contains(out, "47.5 kg × 2") {
		t.Errorf("warmup 60:\n%s", out)
	}

	out, _ = run(t, storage.NewMemory(), "plates", "62,5")
	if !strings.Contains(out, "1×20 + 1×1.25") {
		t.Errorf("plates 62.5:\n%s", out)
	}
	out, _ = run(t, storage.NewMemory(), "plates", "20")
	if !strings.Contains(out, "Empty bar") {
		t.Errorf("plates 20:\n%s", out)
	}
}

// TestExportCommand verifies both export formats and format validation.
func TestExportCommand(t *testing.T) {
	store := storage.NewMemory()
	if _, err := run(t, store, "finish", "--failed", "squat"); err != nil {
		t.Fatalf("finish: %v", err)
	}

	out, err := run(t, store, "export")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("csv lines = %d, want header + 3:\n%s", len(lines), out)
	}
	if !strings.HasSuffix(lines[1], ",A,squat,20,5,5,false") {
		t.Errorf("first row = %q", lines[1])
	}

	out, err = run(t, store, "export", "--format", "json")
	if err != nil {
		t.Fatalf("export json: %v", err)
	}
	if !strings.HasPrefix(out, "[{") || !strings.Contains(out, `"workoutType":"A"`) {
		t.Errorf("json export = %s", out)
	}

	if _, err := run(t, store, "export", "--format", "xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

// TestCalculatorCommandsRejectNonFinite verifies NaN and infinities are
// rejected before any calculation.
func TestCalculatorCommandsRejectNonFinite(t *testing.T) {
	for _, cmd := range []string{"warmup", "plates"} {
		for _, w := range []string{"NaN", "Inf"} {
			if _, err := run(t, storage.NewMemory(), cmd, w); err == nil {
				t.Errorf("%s %s: expected error", cmd, w)
			}
		}
	}
}
