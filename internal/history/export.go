package history

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/claude/barbell/internal/models"
)

// csvHeader is the column layout written by WriteCSV.
var csvHeader = []string{"id", "date", "workout_type", "exercise", "weight", "sets", "reps", "success"}

// WriteCSV writes one row per recorded lift, in log order. Sessions with no
// lifts produce no rows.
func WriteCSV(w io.Writer, entries []models.WorkoutLogEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, e := range entries {
		for _, r := range e.Exercises {
			row := []string{
				e.ID,
				e.Date.UTC().Format(time.RFC3339),
				string(e.WorkoutType),
				r.Kind.Slug(),
				strconv.FormatFloat(r.Weight, 'f', -1, 64),
				strconv.Itoa(r.Sets),
				strconv.Itoa(r.Reps),
				strconv.FormatBool(r.Success),
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("writing entry %s: %w", e.ID, err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
