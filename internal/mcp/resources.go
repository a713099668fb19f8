package mcp

import (
	"context"
	"encoding/json"

	"github.com/claude/barbell/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
)

const recentWorkoutLimit = 10

func (h *handlers) todaysPlan(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	plan, err := h.ds.Plan(ctx)
	if err != nil {
		return nil, err
	}
	return jsonContents(req, plan)
}

func (h *handlers) recentWorkouts(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	entries, err := h.ds.History(ctx)
	if err != nil {
		return nil, err
	}
	if len(entries) > recentWorkoutLimit {
		entries = entries[:recentWorkoutLimit]
	}
	if entries == nil {
		entries = []models.WorkoutLogEntry{}
	}
	return jsonContents(req, entries)
}

func (h *handlers) exerciseCatalog(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	type entry struct {
		Name models.ExerciseKind `json:"name"`
		models.KindSpec
	}
	catalog := make([]entry, 0, len(models.AllKinds()))
	for _, k := range models.AllKinds() {
		catalog = append(catalog, entry{Name: k, KindSpec: k.Spec()})
	}
	accessories := map[models.WorkoutType][]models.Accessory{
		models.WorkoutA: models.PlannedAccessories(models.WorkoutA),
		models.WorkoutB: models.PlannedAccessories(models.WorkoutB),
	}
	return jsonContents(req, map[string]any{
		"exercises":   catalog,
		"accessories": accessories,
	})
}

func jsonContents(req mcp.ReadResourceRequest, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
