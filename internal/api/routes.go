// Route registration and go-chi router setup.
package api

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/startupcopilot/copilot/internal/api/handlers"
	apmiddleware "github.com/startupcopilot/copilot/internal/api/middleware"
	"github.com/startupcopilot/copilot/internal/domain/generate"
	"github.com/startupcopilot/copilot/internal/domain/project"
	"github.com/startupcopilot/copilot/internal/domain/usage"
	"github.com/startupcopilot/copilot/internal/infra/cache"
	"github.com/startupcopilot/copilot/internal/infra/eventbus"
)

// Deps carries everything the router needs that is built outside the API
// layer: the database, the model fallback controller and the response cache
// backend are all chosen from config in cmd, so the router stays wireable
// with stubs in tests.
type Deps struct {
	DB        *sql.DB
	Completer generate.Completer
	Cache     cache.Store
	Bus       *eventbus.Bus
}

// NewRouter creates and configures a new chi router with all routes.
// Public routes (/health) carry no owner scoping; everything under /api/v1
// requires the X-Owner-ID header.
func NewRouter(d Deps) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware (runs on all routes)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check, unauthenticated, used by load balancers and health probes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`)) //nolint:errcheck
	})

	// All /api/v1/* routes require the owner header. OwnerMiddleware
	// validates it and injects the owner id into context.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(apmiddleware.OwnerMiddleware)

		bus := d.Bus
		if bus == nil {
			bus = eventbus.New()
		}

		usageSvc := usage.NewService(d.DB)
		go usageSvc.Consume(context.Background(), bus.Subscribe(eventbus.TopicGeneration))

		generateHandler := handlers.NewGenerateHandler(generate.NewService(d.Completer, d.Cache, bus))
		r.Route("/generate", func(r chi.Router) {
			r.Post("/ideas", generateHandler.Ideas)       // POST /api/v1/generate/ideas
			r.Post("/analysis", generateHandler.Analysis) // POST /api/v1/generate/analysis
			r.Post("/budget", generateHandler.Budget)     // POST /api/v1/generate/budget
			r.Post("/bom", generateHandler.BOM)           // POST /api/v1/generate/bom
			r.Post("/timeline", generateHandler.Timeline) // POST /api/v1/generate/timeline
		})

		projectHandler := handlers.NewProjectHandler(project.NewService(d.DB))
		r.Route("/projects", func(r chi.Router) {
			r.Post("/", projectHandler.CreateProject)       // POST /api/v1/projects
			r.Get("/", projectHandler.ListProjects)         // GET /api/v1/projects
			r.Get("/{id}", projectHandler.GetProject)       // GET /api/v1/projects/{id}
			r.Patch("/{id}", projectHandler.UpdateProject)  // PATCH /api/v1/projects/{id}
			r.Delete("/{id}", projectHandler.DeleteProject) // DELETE /api/v1/projects/{id}
		})

		usageHandler := handlers.NewUsageHandler(usageSvc)
		r.Get("/usage", usageHandler.ListUsage) // GET /api/v1/usage
	})

	return r
}
