package history

import (
	"encoding/json"
	"fmt"

	"github.com/claude/barbell/internal/models"
)

// Encode serializes the log, newest first, as a JSON array of entries.
func Encode(entries []models.WorkoutLogEntry) ([]byte, error) {
	out := make([]models.WorkoutLogEntry, len(entries))
	for i, e := range entries {
		e = e.Clone()
		if e.Exercises == nil {
			e.Exercises = []models.ExerciseResult{}
		}
		if e.AccessoryWork == nil {
			e.AccessoryWork = []models.AccessoryCompletion{}
		}
		out[i] = e
	}
	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encoding log: %w", err)
	}
	return data, nil
}

// Decode parses a log blob. Any entry with an unknown workout type or
// exercise name rejects the whole blob.
func Decode(data []byte) ([]models.WorkoutLogEntry, error) {
	var entries []models.WorkoutLogEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decoding log: %w", err)
	}
	for i, e := range entries {
		if !e.WorkoutType.Valid() {
			return nil, fmt.Errorf("entry %d (%s): invalid workout type %q", i, e.ID, e.WorkoutType)
		}
		for _, r := range e.Exercises {
			if !r.Kind.Valid() {
				return nil, fmt.Errorf("entry %d (%s): unknown exercise %q", i, e.ID, r.Kind)
			}
		}
	}
	return entries, nil
}
