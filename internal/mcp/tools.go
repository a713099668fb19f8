package mcp

import (
	"context"
	"time"

	"github.com/claude/barbell/internal/models"
	"github.com/claude/barbell/internal/plates"
	"github.com/claude/barbell/internal/tracker"
	"github.com/claude/barbell/internal/warmup"
	"github.com/mark3labs/mcp-go/mcp"
)

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	t, err = time.ParseInLocation("2006-01-02", s, time.Local)
	if err == nil {
		return t, nil
	}
	return time.Time{}, err
}

// --- Tool definitions ---

const exerciseDescription = "Exercise name or slug: Squat, Bench Press, Barbell Row, Overhead Press, Deadlift (or squat, bench-press, barbell-row, overhead-press, deadlift)"

var toolGetPlan = mcp.NewTool("get_plan",
	mcp.WithDescription("Today's workout: A or B session type, each lift's working weight, reps, set completion flags, warm-up ramp and plates per side, plus accessory work."),
)

var toolGetHistory = mcp.NewTool("get_history",
	mcp.WithDescription("Logged sessions, newest first. Each entry lists the lifts attempted with weight, sets, reps and success, and the accessory work completed."),
	mcp.WithString("date", mcp.Description("Only the session on this day (YYYY-MM-DD or ISO 8601). Defaults to the whole log.")),
)

var toolGetPersonalRecord = mcp.NewTool("get_personal_record",
	mcp.WithDescription("Heaviest successful working weight for a lift and its Epley estimated one-rep max. Returns null values when the lift has never succeeded."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description(exerciseDescription)),
)

var toolGetProgression = mcp.NewTool("get_progression",
	mcp.WithDescription("Every logged attempt of a lift, oldest first, with date, weight and success. Suited for charting progress."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description(exerciseDescription)),
)

var toolCalculateWarmup = mcp.NewTool("calculate_warmup",
	mcp.WithDescription("Warm-up sets for a working weight: empty bar twice, then 40%, 60% and 80% rounded to 2.5 kg, skipping repeated weights."),
	mcp.WithString("weight", mcp.Required(), mcp.Description("Working weight in kg (e.g. 62.5)")),
)

var toolCalculatePlates = mcp.NewTool("calculate_plates",
	mcp.WithDescription("Plates to load on each side of a 20 kg bar for a target weight, largest first."),
	mcp.WithString("weight", mcp.Required(), mcp.Description("Target bar weight in kg (e.g. 100)")),
)

// --- Tool handlers ---

func (h *handlers) getPlan(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	plan, err := h.ds.Plan(ctx)
	if err != nil {
		h.log.Error("mcp get_plan", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(plan)
}

func (h *handlers) getHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dateStr := req.GetString("date", "")
	if dateStr == "" {
		entries, err := h.ds.History(ctx)
		if err != nil {
			h.log.Error("mcp get_history", "error", err)
			return mcp.NewToolResultError("query failed: " + err.Error()), nil
		}
		if entries == nil {
			entries = []models.WorkoutLogEntry{}
		}
		return jsonResult(entries)
	}

	date, err := parseFlexTime(dateStr)
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}
	entry, ok, err := h.ds.HistoryOn(ctx, date)
	if err != nil {
		h.log.Error("mcp get_history date", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if !ok {
		return jsonResult([]models.WorkoutLogEntry{})
	}
	return jsonResult([]models.WorkoutLogEntry{entry})
}

func (h *handlers) getPersonalRecord(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind, errResult := exerciseArg(req)
	if errResult != nil {
		return errResult, nil
	}
	rec, ok, err := h.ds.PersonalRecord(ctx, kind)
	if err != nil {
		h.log.Error("mcp get_personal_record", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	out := map[string]any{
		"name":                  kind,
		"personal_record":       nil,
		"estimated_one_rep_max": nil,
		"date":                  nil,
	}
	if ok {
		out["personal_record"] = rec.Weight
		out["estimated_one_rep_max"] = rec.EstimatedOneRepMax
		out["date"] = rec.Date
	}
	return jsonResult(out)
}

func (h *handlers) getProgression(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind, errResult := exerciseArg(req)
	if errResult != nil {
		return errResult, nil
	}
	points, err := h.ds.Progression(ctx, kind)
	if err != nil {
		h.log.Error("mcp get_progression", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(points)
}

func (h *handlers) calculateWarmup(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	weight, errResult := weightArg(req)
	if errResult != nil {
		return errResult, nil
	}
	return jsonResult(warmup.Sets(weight))
}

func (h *handlers) calculatePlates(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	weight, errResult := weightArg(req)
	if errResult != nil {
		return errResult, nil
	}
	perSide := plates.PerSide(weight)
	if perSide == nil {
		perSide = []models.PlateLoad{}
	}
	return jsonResult(map[string]any{
		"weight":   weight,
		"per_side": perSide,
		"loaded":   plates.Total(perSide),
	})
}

func exerciseArg(req mcp.CallToolRequest) (models.ExerciseKind, *mcp.CallToolResult) {
	name, err := req.RequireString("exercise")
	if err != nil {
		return "", mcp.NewToolResultError("exercise parameter is required")
	}
	kind, err := models.ParseExerciseKind(name)
	if err != nil {
		return "", mcp.NewToolResultError(err.Error())
	}
	return kind, nil
}

func weightArg(req mcp.CallToolRequest) (float64, *mcp.CallToolResult) {
	raw, err := req.RequireString("weight")
	if err != nil {
		return 0, mcp.NewToolResultError("weight parameter is required")
	}
	w, err := tracker.ParseWeight(raw)
	if err != nil {
		return 0, mcp.NewToolResultError(err.Error())
	}
	return w, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(v)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
