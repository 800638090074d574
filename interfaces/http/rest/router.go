package rest

import (
	"net/http"

	"studio-backend/application/services"
	"studio-backend/infrastructure/config"
	"studio-backend/interfaces/http/rest/handlers"
	"studio-backend/interfaces/http/rest/middleware"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Router creates and configures the HTTP router
type Router struct {
	dashboard *services.DashboardService
	cfg       *config.Config
	logger    *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(dashboard *services.DashboardService, cfg *config.Config, logger *zap.Logger) *Router {
	return &Router{
		dashboard: dashboard,
		cfg:       cfg,
		logger:    logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	if rt.cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000", "https://*.studio.app"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	router.Route("/api/v1", func(r chi.Router) {
		sessionHandler := handlers.NewSessionHandler(rt.dashboard, rt.logger)
		entityHandler := handlers.NewEntityHandler(rt.dashboard, rt.logger)

		// Edit session lifecycle
		r.Route("/session", func(r chi.Router) {
			r.Post("/load", sessionHandler.Load)
			r.Get("/state", sessionHandler.State)
			r.Post("/revert", sessionHandler.Revert)
			r.Post("/save", sessionHandler.Save)
			r.Get("/export", sessionHandler.Export)
			r.Post("/import", sessionHandler.Import)
		})

		// Working-copy mutations
		r.Route("/creators", func(r chi.Router) {
			r.Post("/", entityHandler.CreateCreator)
			r.Put("/{creatorID}", entityHandler.UpdateCreator)
			r.Delete("/{creatorID}", entityHandler.DeleteCreator)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Post("/", entityHandler.CreateCategory)
			r.Put("/{categoryID}", entityHandler.UpdateCategory)
			r.Delete("/{categoryID}", entityHandler.DeleteCategory)
			r.Post("/reorder", entityHandler.ReorderCategories)
		})

		r.Route("/posts", func(r chi.Router) {
			r.Post("/", entityHandler.CreatePost)
			r.Put("/{postID}", entityHandler.UpdatePost)
			r.Delete("/{postID}", entityHandler.DeletePost)
			r.Post("/{postID}/relocate", entityHandler.RelocatePost)
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
