package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/claude/barbell/internal/models"
	"github.com/claude/barbell/internal/planner"
	"github.com/claude/barbell/internal/plates"
	"github.com/claude/barbell/internal/progression"
	"github.com/claude/barbell/internal/tracker"
	"github.com/claude/barbell/internal/warmup"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userInfoFromContext(r))
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.tracker.Plan())
}

func (s *Server) handleToggleSet(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindParam(w, r)
	if !ok {
		return
	}
	index, ok := indexParam(w, r)
	if !ok {
		return
	}
	done, err := s.tracker.ToggleSet(kind, index)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"completed": done, "plan": s.tracker.Plan()})
}

func (s *Server) handleToggleAccessory(w http.ResponseWriter, r *http.Request) {
	index, ok := indexParam(w, r)
	if !ok {
		return
	}
	done, err := s.tracker.ToggleAccessory(chi.URLParam(r, "id"), index)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"completed": done, "plan": s.tracker.Plan()})
}

// weightRequest accepts the weight as typed by the user ("62,5") or as a
// JSON number.
type weightRequest struct {
	Weight any `json:"weight"`
}

func (s *Server) handleEditWeight(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindParam(w, r)
	if !ok {
		return
	}
	var req weightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	var input string
	switch v := req.Weight.(type) {
	case string:
		input = v
	case float64:
		input = strconv.FormatFloat(v, 'f', -1, 64)
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "weight is required"})
		return
	}

	lift, err := s.tracker.EditWeight(r.Context(), kind, input)
	if err != nil {
		if errors.Is(err, tracker.ErrInvalidWeight) || errors.Is(err, progression.ErrBelowBarWeight) {
			writeError(w, err)
			return
		}
		s.log.Error("saving weight edit", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"name": kind, "weight": lift.Weight, "failures": lift.Failures})
}

func (s *Server) handleFinish(w http.ResponseWriter, r *http.Request) {
	entry, err := s.tracker.FinishSession(r.Context())
	if err != nil {
		s.log.Error("finish session", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		writeJSON(w, http.StatusOK, s.tracker.Entries())
		return
	}
	date, err := time.ParseInLocation("2006-01-02", dateStr, time.Local)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid date format, use YYYY-MM-DD"})
		return
	}
	entry, ok := s.tracker.EntryFor(date)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no workout on " + dateStr})
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleDeleteLog(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	removed, err := s.tracker.DeleteLog(r.Context(), id)
	if err != nil {
		s.log.Error("delete log entry", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if !removed {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "workout not found"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRecompute(w http.ResponseWriter, r *http.Request) {
	st, err := s.tracker.Recompute(r.Context())
	if err != nil {
		s.log.Error("recompute", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// recordResponse reports "no data" as nulls rather than an error.
type recordResponse struct {
	Kind               models.ExerciseKind `json:"name"`
	PersonalRecord     *float64            `json:"personal_record"`
	EstimatedOneRepMax *float64            `json:"estimated_one_rep_max"`
	Date               *time.Time          `json:"date"`
}

func (s *Server) handleRecord(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindParam(w, r)
	if !ok {
		return
	}
	resp := recordResponse{Kind: kind}
	if rec, ok := s.tracker.PersonalRecord(kind); ok {
		resp.PersonalRecord = &rec.Weight
		resp.EstimatedOneRepMax = &rec.EstimatedOneRepMax
		resp.Date = &rec.Date
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAllRecords(w http.ResponseWriter, r *http.Request) {
	recs := s.tracker.Records()
	if recs == nil {
		writeJSON(w, http.StatusOK, []any{})
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

func (s *Server) handleProgression(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindParam(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.tracker.Progression(kind))
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	st := s.tracker.State()
	writeJSON(w, http.StatusOK, map[string]any{
		"lifts":             st.Lifts,
		"last_workout_type": st.LastWorkoutType,
		"next_workout_type": st.LastWorkoutType.Next(),
	})
}

func (s *Server) handleWarmup(w http.ResponseWriter, r *http.Request) {
	weight, ok := weightQuery(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, warmup.Sets(weight))
}

func (s *Server) handlePlates(w http.ResponseWriter, r *http.Request) {
	weight, ok := weightQuery(w, r)
	if !ok {
		return
	}
	perSide := plates.PerSide(weight)
	if perSide == nil {
		perSide = []models.PlateLoad{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"weight":   weight,
		"per_side": perSide,
		"loaded":   plates.Total(perSide),
	})
}

func (s *Server) handleTimer(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.tracker.Rest())
}

func (s *Server) handleStartTimer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Failed bool `json:"failed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, s.tracker.StartRest(req.Failed))
}

func (s *Server) handleCancelTimer(w http.ResponseWriter, r *http.Request) {
	s.tracker.CancelRest()
	writeJSON(w, http.StatusOK, s.tracker.Rest())
}

func kindParam(w http.ResponseWriter, r *http.Request) (models.ExerciseKind, bool) {
	raw := chi.URLParam(r, "kind")
	kind, err := models.ParseExerciseKind(raw)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return "", false
	}
	return kind, true
}

func indexParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "set index must be an integer"})
		return 0, false
	}
	return index, true
}

func weightQuery(w http.ResponseWriter, r *http.Request) (float64, bool) {
	weight, err := tracker.ParseWeight(r.URL.Query().Get("weight"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "weight parameter required"})
		return 0, false
	}
	return weight, true
}

// writeError maps domain errors to client status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, planner.ErrSetIndex):
		status = http.StatusNotFound
	case errors.Is(err, tracker.ErrInvalidWeight),
		errors.Is(err, progression.ErrBelowBarWeight),
		errors.Is(err, progression.ErrUnknownExercise):
		status = http.StatusBadRequest
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf(`{"error":%q}`, err.Error())
	}
	return string(b)
}
