package mcp

import (
	"context"
	"time"

	"github.com/claude/barbell/internal/models"
	"github.com/claude/barbell/internal/records"
	"github.com/claude/barbell/internal/tracker"
)

// DataSource abstracts the data layer for MCP tools. Both Local (in-process
// tracker) and HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	Plan(ctx context.Context) (models.TodaysPlan, error)
	History(ctx context.Context) ([]models.WorkoutLogEntry, error)
	HistoryOn(ctx context.Context, date time.Time) (models.WorkoutLogEntry, bool, error)
	PersonalRecord(ctx context.Context, kind models.ExerciseKind) (records.Record, bool, error)
	Progression(ctx context.Context, kind models.ExerciseKind) ([]records.Point, error)
}

// Local serves a tracker running in the same process.
type Local struct {
	Tracker *tracker.Tracker
}

// Compile-time check: Local satisfies DataSource.
var _ DataSource = Local{}

func (l Local) Plan(context.Context) (models.TodaysPlan, error) {
	return l.Tracker.Plan(), nil
}

func (l Local) History(context.Context) ([]models.WorkoutLogEntry, error) {
	return l.Tracker.Entries(), nil
}

func (l Local) HistoryOn(_ context.Context, date time.Time) (models.WorkoutLogEntry, bool, error) {
	e, ok := l.Tracker.EntryFor(date)
	return e, ok, nil
}

func (l Local) PersonalRecord(_ context.Context, kind models.ExerciseKind) (records.Record, bool, error) {
	rec, ok := l.Tracker.PersonalRecord(kind)
	return rec, ok, nil
}

func (l Local) Progression(_ context.Context, kind models.ExerciseKind) ([]records.Point, error) {
	return l.Tracker.Progression(kind), nil
}
