// Package history owns the workout log and rebuilds progression state from it.
package history

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/claude/barbell/internal/models"
	"github.com/claude/barbell/internal/progression"
	"github.com/claude/barbell/internal/storage"
)

// LogKey is the blob key the whole log is written under.
const LogKey = "history/log"

// Store holds the log newest first. Index 0 is the most recent session;
// replay walks the slice backwards. Not safe for concurrent use.
type Store struct {
	engine  *progression.Engine
	blobs   storage.BlobStore
	log     *slog.Logger
	entries []models.WorkoutLogEntry
}

// New creates an empty Store that replays into engine and persists to blobs.
func New(engine *progression.Engine, blobs storage.BlobStore, log *slog.Logger) *Store {
	return &Store{engine: engine, blobs: blobs, log: log}
}

// Load reads the persisted log. A missing, unreadable or undecodable blob
// leaves the log empty; startup never fails because of it.
func (s *Store) Load(ctx context.Context) {
	s.entries = nil
	data, err := s.blobs.GetBytes(ctx, LogKey)
	if errors.Is(err, storage.ErrNotFound) {
		return
	}
	if err != nil {
		s.log.Warn("history read failed, starting with empty log", "error", err)
		return
	}
	entries, err := Decode(data)
	if err != nil {
		s.log.Warn("history decode failed, starting with empty log", "error", err)
		return
	}
	s.entries = entries
}

// Entries returns a copy of the log, newest first.
func (s *Store) Entries() []models.WorkoutLogEntry {
	out := make([]models.WorkoutLogEntry, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.Clone()
	}
	return out
}

// Len returns the number of logged sessions.
func (s *Store) Len() int { return len(s.entries) }

// Append inserts entry at the head of the log, records its workout type as
// the last one performed and writes the whole log.
func (s *Store) Append(ctx context.Context, entry models.WorkoutLogEntry) error {
	s.entries = append([]models.WorkoutLogEntry{entry.Clone()}, s.entries...)
	s.engine.SetLastWorkoutType(entry.WorkoutType)
	return s.persist(ctx)
}

// RemoveByID deletes the entry with id, replays the remaining log and writes
// it. An absent id is a no-op: nothing is replayed or written and removed is
// false.
func (s *Store) RemoveByID(ctx context.Context, id string) (removed bool, err error) {
	idx := -1
	for i, e := range s.entries {
		if e.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, nil
	}
	s.entries = append(s.entries[:idx:idx], s.entries[idx+1:]...)
	if err := s.Recompute(); err != nil {
		return true, err
	}
	return true, s.persist(ctx)
}

// Recompute resets the engine and replays the log oldest first, applying
// each entry's results in the order they were recorded. Replaying the same
// log always yields the same state.
func (s *Store) Recompute() error {
	s.engine.ResetToDefaults()
	for i := len(s.entries) - 1; i >= 0; i-- {
		e := s.entries[i]
		for _, r := range e.Exercises {
			if _, err := s.engine.ApplyResult(r.Kind, r.Weight, r.Success); err != nil {
				return fmt.Errorf("replaying entry %s: %w", e.ID, err)
			}
		}
		s.engine.SetLastWorkoutType(e.WorkoutType)
	}
	return nil
}

// EntryFor returns the entry logged on the same calendar day as date, in
// date's location. At most one entry per day is expected; the newest wins.
func (s *Store) EntryFor(date time.Time) (models.WorkoutLogEntry, bool) {
	y, m, d := date.Date()
	for _, e := range s.entries {
		ey, em, ed := e.Date.In(date.Location()).Date()
		if ey == y && em == m && ed == d {
			return e.Clone(), true
		}
	}
	return models.WorkoutLogEntry{}, false
}

// Get returns the entry with id.
func (s *Store) Get(id string) (models.WorkoutLogEntry, bool) {
	for _, e := range s.entries {
		if e.ID == id {
			return e.Clone(), true
		}
	}
	return models.WorkoutLogEntry{}, false
}

func (s *Store) persist(ctx context.Context) error {
	data, err := Encode(s.entries)
	if err != nil {
		return err
	}
	if err := s.blobs.SetBytes(ctx, LogKey, data); err != nil {
		return fmt.Errorf("persisting log: %w", err)
	}
	return nil
}
