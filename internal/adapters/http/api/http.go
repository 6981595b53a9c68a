// Package api exposes the lead dashboard over HTTP.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	service "github.com/okian/leadboard/internal/app"
	"github.com/okian/leadboard/internal/domain/model"
	"github.com/okian/leadboard/internal/domain/query"
	"github.com/okian/leadboard/pkg/logger"
)

// Dependencies required by HTTP handlers. *service.Service satisfies it.
type Dependencies interface {
	LeadDependencies
	ActionDependencies
	StatsDependencies
	DashboardDependencies
	StatsProvider
}

// LeadDependencies serves the lead list and detail routes.
type LeadDependencies interface {
	Leads(ctx context.Context, c query.Criteria) ([]model.Lead, error)
	Lead(ctx context.Context, id string) (model.Lead, error)
	Overdue(ctx context.Context, now time.Time) ([]model.Lead, error)
	Top(ctx context.Context, n int) ([]model.Lead, error)
	Assignees(ctx context.Context) ([]string, error)
}

// ActionDependencies accepts write actions.
type ActionDependencies interface {
	Submit(ctx context.Context, a model.Action) (service.Receipt, error)
}

// StatsDependencies serves the lead statistics routes.
type StatsDependencies interface {
	Stats(ctx context.Context) (service.LeadStats, error)
	Distribution(ctx context.Context, field string) ([]query.Group[string], error)
}

// DashboardDependencies serves the dashboard snapshot routes.
type DashboardDependencies interface {
	DashboardMetrics(ctx context.Context) (model.DashboardMetrics, error)
	SourceConversion(ctx context.Context) ([]query.SourceConversionRow, error)
}

var _ Dependencies = (*service.Service)(nil)

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	leadsHandler     *LeadsHandler
	actionsHandler   *ActionsHandler
	dashboardHandler *DashboardHandler

	corsOrigins []string
	logger      logger.Logger
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(deps, deps),
		leadsHandler:     NewLeadsHandler(deps),
		actionsHandler:   NewActionsHandler(deps),
		dashboardHandler: NewDashboardHandler(deps),
		corsOrigins:      []string{"*"},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("http")
	}
	return s
}

// Routes builds the router with every API route and the shared middleware.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	s.Register(r)
	return r
}

// Register attaches all API routes to r.
func (s *Server) Register(r chi.Router) {
	r.Get("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	r.Get("/metrics", MetricsMiddleware(s.healthHandler.HandleHealth, "metrics"))
	r.Get("/stats", MetricsMiddleware(s.statsHandler.HandleServiceStats, "stats"))

	r.Get("/leads", MetricsMiddleware(s.leadsHandler.HandleList, "leads"))
	r.Get("/leads/overdue", MetricsMiddleware(s.leadsHandler.HandleOverdue, "leads_overdue"))
	r.Get("/leads/top", MetricsMiddleware(s.leadsHandler.HandleTop, "leads_top"))
	r.Get("/leads/assignees", MetricsMiddleware(s.leadsHandler.HandleAssignees, "leads_assignees"))
	r.Post("/leads/bulk", MetricsMiddleware(s.actionsHandler.HandleBulk, "leads_bulk"))
	r.Get("/leads/{id}", MetricsMiddleware(s.leadsHandler.HandleGet, "lead"))
	r.Post("/leads/{id}/notes", MetricsMiddleware(s.actionsHandler.HandleAddNote, "lead_notes"))
	r.Put("/leads/{id}/status", MetricsMiddleware(s.actionsHandler.HandleUpdateStatus, "lead_status"))

	r.Get("/stats/leads", MetricsMiddleware(s.statsHandler.HandleLeadStats, "stats_leads"))
	r.Get("/stats/distribution", MetricsMiddleware(s.statsHandler.HandleDistribution, "stats_distribution"))

	r.Get("/dashboard/metrics", MetricsMiddleware(s.dashboardHandler.HandleMetrics, "dashboard_metrics"))
	r.Get("/dashboard/source-conversion", MetricsMiddleware(s.dashboardHandler.HandleSourceConversion, "dashboard_source_conversion"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err to its status and writes the error body.
func writeError(w http.ResponseWriter, err error) {
	status, code := statusFor(err)
	msg := http.StatusText(status)
	if err != nil && status != http.StatusInternalServerError {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
