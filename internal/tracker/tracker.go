// Package tracker is the single logical actor over the progression engine,
// the workout log and today's plan. Every mutation is persisted before it
// returns and then announced to subscribers.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/claude/barbell/internal/history"
	"github.com/claude/barbell/internal/models"
	"github.com/claude/barbell/internal/planner"
	"github.com/claude/barbell/internal/progression"
	"github.com/claude/barbell/internal/records"
	"github.com/claude/barbell/internal/restclock"
	"github.com/claude/barbell/internal/storage"
)

// ErrInvalidWeight is returned when a weight edit is not a number.
var ErrInvalidWeight = errors.New("weight is not a number")

// Default rest periods.
const (
	DefaultSuccessRest = 90 * time.Second
	DefaultFailureRest = 5 * time.Minute
)

// EventKind names what changed.
type EventKind string

const (
	PlanChanged    EventKind = "plan_changed"
	HistoryChanged EventKind = "history_changed"
	WeightsChanged EventKind = "weights_changed"
)

// Event is delivered to subscribers after a mutation has been persisted.
type Event struct {
	Kind EventKind `json:"kind"`
}

// Options configures a Tracker. Zero values take the defaults.
type Options struct {
	SuccessRest time.Duration
	FailureRest time.Duration
	Now         func() time.Time
}

// Tracker is safe for concurrent use; calls are serialized.
type Tracker struct {
	mu      sync.Mutex
	blobs   storage.BlobStore
	log     *slog.Logger
	opts    Options
	engine  *progression.Engine
	history *history.Store
	planner *planner.Planner
	timer   *restclock.Timer

	subMu   sync.Mutex
	subs    map[int]func(Event)
	nextSub int
}

// Open loads the weight snapshot and the log from blobs and builds today's
// plan. Unreadable data never fails startup: each snapshot key falls back to
// its default and an undecodable log starts empty. The log is not replayed,
// so manual overrides held in the snapshot survive a restart.
func Open(ctx context.Context, blobs storage.BlobStore, opts Options, log *slog.Logger) *Tracker {
	if opts.SuccessRest <= 0 {
		opts.SuccessRest = DefaultSuccessRest
	}
	if opts.FailureRest <= 0 {
		opts.FailureRest = DefaultFailureRest
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	engine := progression.New()
	st, err := storage.LoadSnapshot(ctx, blobs)
	if err != nil {
		log.Warn("weight snapshot partly unreadable, using defaults for those keys", "error", err)
	}
	engine.Restore(st)

	hist := history.New(engine, blobs, log)
	hist.Load(ctx)

	t := &Tracker{
		blobs:   blobs,
		log:     log,
		opts:    opts,
		engine:  engine,
		history: hist,
		planner: planner.New(engine, hist, opts.Now),
		timer:   restclock.New(opts.Now),
		subs:    make(map[int]func(Event)),
	}
	log.Info("tracker ready",
		"sessions", hist.Len(),
		"next_workout", engine.NextWorkoutType(),
	)
	return t
}

// Plan returns today's plan.
func (t *Tracker) Plan() models.TodaysPlan {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.planner.Plan()
}

// ToggleSet flips a working-set flag. Marking a set done starts the success
// rest period.
func (t *Tracker) ToggleSet(kind models.ExerciseKind, set int) (bool, error) {
	t.mu.Lock()
	done, err := t.planner.ToggleSet(kind, set)
	if err == nil && done {
		t.timer.Start(t.opts.SuccessRest)
	}
	t.mu.Unlock()
	if err != nil {
		return false, err
	}
	t.publish(PlanChanged)
	return done, nil
}

// ToggleAccessory flips an accessory-set flag.
func (t *Tracker) ToggleAccessory(id string, set int) (bool, error) {
	t.mu.Lock()
	done, err := t.planner.ToggleAccessory(id, set)
	t.mu.Unlock()
	if err != nil {
		return false, err
	}
	t.publish(PlanChanged)
	return done, nil
}

// ParseWeight reads user input such as " 62,5 " as a weight. NaN and
// infinities are not weights.
func ParseWeight(input string) (float64, error) {
	s := strings.ReplaceAll(strings.TrimSpace(input), ",", ".")
	w, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(w) || math.IsInf(w, 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidWeight, input)
	}
	return w, nil
}

// EditWeight sets a lift's working weight from user input and rebuilds
// today's plan. The edit is not recorded in the log; deleting a session or
// recomputing later discards it.
func (t *Tracker) EditWeight(ctx context.Context, kind models.ExerciseKind, input string) (progression.LiftState, error) {
	w, err := ParseWeight(input)
	if err != nil {
		return progression.LiftState{}, err
	}

	t.mu.Lock()
	st, err := t.engine.ManualOverride(kind, w)
	if err != nil {
		t.mu.Unlock()
		return progression.LiftState{}, err
	}
	t.planner.GeneratePlan()
	err = storage.SaveSnapshot(ctx, t.blobs, st)
	t.mu.Unlock()

	lift := st.Lifts[kind]
	t.log.Info("working weight edited", "exercise", kind, "weight", lift.Weight)
	t.publish(WeightsChanged, PlanChanged)
	if err != nil {
		return lift, fmt.Errorf("saving weights: %w", err)
	}
	return lift, nil
}

// FinishSession logs today's plan, advances the weights and builds the next
// plan. Any running rest timer is cancelled.
func (t *Tracker) FinishSession(ctx context.Context) (models.WorkoutLogEntry, error) {
	t.mu.Lock()
	entry, err := t.planner.FinishSession(ctx)
	if entry.ID == "" {
		t.mu.Unlock()
		return entry, err
	}
	t.timer.Cancel()
	if serr := storage.SaveSnapshot(ctx, t.blobs, t.engine.State()); serr != nil {
		err = errors.Join(err, fmt.Errorf("saving weights: %w", serr))
	}
	t.mu.Unlock()

	t.log.Info("session finished", "id", entry.ID, "type", entry.WorkoutType)
	t.publish(HistoryChanged, WeightsChanged, PlanChanged)
	return entry, err
}

// DeleteLog removes a session and rebuilds the weights from the remaining
// log. An unknown id changes nothing and reports false.
func (t *Tracker) DeleteLog(ctx context.Context, id string) (bool, error) {
	t.mu.Lock()
	removed, err := t.history.RemoveByID(ctx, id)
	if !removed {
		t.mu.Unlock()
		return false, err
	}
	t.planner.GeneratePlan()
	if serr := storage.SaveSnapshot(ctx, t.blobs, t.engine.State()); serr != nil {
		err = errors.Join(err, fmt.Errorf("saving weights: %w", serr))
	}
	t.mu.Unlock()

	t.log.Info("session deleted", "id", id)
	t.publish(HistoryChanged, WeightsChanged, PlanChanged)
	return true, err
}

// Recompute replays the whole log from the default state, discarding manual
// overrides, and rebuilds today's plan.
func (t *Tracker) Recompute(ctx context.Context) (progression.WorkingState, error) {
	t.mu.Lock()
	if err := t.history.Recompute(); err != nil {
		t.mu.Unlock()
		return progression.WorkingState{}, err
	}
	t.planner.GeneratePlan()
	st := t.engine.State()
	err := storage.SaveSnapshot(ctx, t.blobs, st)
	t.mu.Unlock()

	t.publish(WeightsChanged, PlanChanged)
	if err != nil {
		return st, fmt.Errorf("saving weights: %w", err)
	}
	return st, nil
}

// State returns the current working state.
func (t *Tracker) State() progression.WorkingState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.engine.State()
}

// Entries returns the log, newest first.
func (t *Tracker) Entries() []models.WorkoutLogEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.history.Entries()
}

// EntryFor returns the session logged on date's calendar day.
func (t *Tracker) EntryFor(date time.Time) (models.WorkoutLogEntry, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.history.EntryFor(date)
}

// PersonalRecord returns the best successful lift of kind.
func (t *Tracker) PersonalRecord(kind models.ExerciseKind) (records.Record, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return records.PersonalRecord(t.history, kind)
}

// Records returns every kind's personal record.
func (t *Tracker) Records() []records.Record {
	t.mu.Lock()
	defer t.mu.Unlock()
	return records.All(t.history)
}

// Progression returns every attempt of kind, oldest first.
func (t *Tracker) Progression(kind models.ExerciseKind) []records.Point {
	t.mu.Lock()
	defer t.mu.Unlock()
	return records.Progression(t.history, kind)
}

// RestStatus describes the rest timer.
type RestStatus struct {
	Running   bool      `json:"running"`
	Remaining float64   `json:"remaining_seconds"`
	Deadline  time.Time `json:"deadline,omitzero"`
}

// StartRest starts the rest timer, using the longer period after a failed set.
func (t *Tracker) StartRest(failed bool) RestStatus {
	d := t.opts.SuccessRest
	if failed {
		d = t.opts.FailureRest
	}
	t.timer.Start(d)
	return t.Rest()
}

// Rest reports the rest timer.
func (t *Tracker) Rest() RestStatus {
	deadline, left, running := t.timer.Status()
	if !running {
		return RestStatus{}
	}
	return RestStatus{
		Running:   true,
		Remaining: left.Seconds(),
		Deadline:  deadline,
	}
}

// CancelRest stops the rest timer. Working state is untouched.
func (t *Tracker) CancelRest() {
	t.timer.Cancel()
}

// Subscribe registers fn for change events and returns a function that
// removes it. fn runs on the mutating goroutine and must not block.
func (t *Tracker) Subscribe(fn func(Event)) (unsubscribe func()) {
	t.subMu.Lock()
	defer t.subMu.Unlock()
	id := t.nextSub
	t.nextSub++
	t.subs[id] = fn
	return func() {
		t.subMu.Lock()
		defer t.subMu.Unlock()
		delete(t.subs, id)
	}
}

func (t *Tracker) publish(kinds ...EventKind) {
	t.subMu.Lock()
	fns := make([]func(Event), 0, len(t.subs))
	for _, fn := range t.subs {
		fns = append(fns, fn)
	}
	t.subMu.Unlock()
	for _, k := range kinds {
		for _, fn := range fns {
			fn(Event{Kind: k})
		}
	}
}
