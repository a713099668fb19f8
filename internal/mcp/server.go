package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("Barbell", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("Barbell strength training tracker. Read today's A/B workout plan, the workout log, personal records and per-lift progression, and calculate warm-up ramps and plate loading. All tools are read-only; weights are kilograms."),
	)

	h := &handlers{ds: ds, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGetPlan, Handler: h.getPlan},
		server.ServerTool{Tool: toolGetHistory, Handler: h.getHistory},
		server.ServerTool{Tool: toolGetPersonalRecord, Handler: h.getPersonalRecord},
		server.ServerTool{Tool: toolGetProgression, Handler: h.getProgression},
		server.ServerTool{Tool: toolCalculateWarmup, Handler: h.calculateWarmup},
		server.ServerTool{Tool: toolCalculatePlates, Handler: h.calculatePlates},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resTodaysPlan, Handler: h.todaysPlan},
		server.ServerResource{Resource: resRecentWorkouts, Handler: h.recentWorkouts},
		server.ServerResource{Resource: resExerciseCatalog, Handler: h.exerciseCatalog},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

// --- Resource definitions ---

var resTodaysPlan = mcp.NewResource(
	"barbell://todays_plan",
	"Today's Plan",
	mcp.WithResourceDescription("The next A/B session with working weights, set completion, warm-up ramps and plates per side"),
	mcp.WithMIMEType("application/json"),
)

var resRecentWorkouts = mcp.NewResource(
	"barbell://recent_workouts",
	"Recent Workouts",
	mcp.WithResourceDescription("The ten most recent logged sessions, newest first"),
	mcp.WithMIMEType("application/json"),
)

var resExerciseCatalog = mcp.NewResource(
	"barbell://exercise_catalog",
	"Exercise Catalog",
	mcp.WithResourceDescription("Every lift with its sets, reps, rounding unit, increment and starting weight"),
	mcp.WithMIMEType("application/json"),
)
