package server

import (
	"log/slog"
	"net/http"

	"github.com/claude/barbell/internal/tracker"
	"github.com/go-chi/chi/v5"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	tracker *tracker.Tracker
	log     *slog.Logger
	apiKey  string
	whois   WhoIser
	router  chi.Router
}

// New creates a Server. Call SetTailscale before serving to resolve callers
// on a tailnet; otherwise every caller is the local dev user.
func New(tr *tracker.Tracker, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		tracker: tr,
		log:     log,
		apiKey:  apiKey,
	}
	s.routes()
	return s
}

// SetTailscale enables tailnet identity resolution.
func (s *Server) SetTailscale(lc WhoIser) {
	s.whois = lc
	s.routes()
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(RequestLogging(s.log))
	r.Use(CORS)
	if s.whois != nil {
		r.Use(TailscaleIdentity(s.whois, s.log))
	} else {
		r.Use(DevIdentity)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/me", s.handleMe)
		r.Get("/plan", s.handlePlan)
		r.Get("/history", s.handleHistory)
		r.Get("/records", s.handleAllRecords)
		r.Get("/records/{kind}", s.handleRecord)
		r.Get("/progression/{kind}", s.handleProgression)
		r.Get("/state", s.handleState)
		r.Get("/warmup", s.handleWarmup)
		r.Get("/plates", s.handlePlates)
		r.Get("/timer", s.handleTimer)
		r.Get("/events", s.handleEvents)

		// Mutations (API key required when configured)
		r.Group(func(r chi.Router) {
			r.Use(APIKeyAuth(s.apiKey))
			r.Post("/plan/exercises/{kind}/sets/{index}/toggle", s.handleToggleSet)
			r.Post("/plan/accessories/{id}/sets/{index}/toggle", s.handleToggleAccessory)
			r.Put("/weights/{kind}", s.handleEditWeight)
			r.Post("/sessions/finish", s.handleFinish)
			r.Delete("/history/{id}", s.handleDeleteLog)
			r.Post("/recompute", s.handleRecompute)
			r.Post("/timer", s.handleStartTimer)
			r.Delete("/timer", s.handleCancelTimer)
		})
	})
	s.router = r
}
