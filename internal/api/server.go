package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog/v3"
	httpSwagger "github.com/swaggo/http-swagger"

	api "citysync-v0/internal/api/application"
	"citysync-v0/internal/api/handlers"
	apimiddleware "citysync-v0/internal/api/middleware"
	configapp "citysync-v0/internal/config/application"
	engineapp "citysync-v0/internal/engine/application"
	journaldomain "citysync-v0/internal/journal/domain"
	"citysync-v0/internal/metrics"
	sharedlogger "citysync-v0/internal/shared/logger"
)

// Server represents the API server
type Server struct {
	httpServer *http.Server
	logger     sharedlogger.Logger
}

// NewServer creates a new API server
func NewServer(
	logger sharedlogger.Logger,
	runtimeCfg *configapp.RuntimeConfig,
	cache *engineapp.Cache,
	poller *engineapp.Poller,
	journalRepo journaldomain.Repository,
	attributesFetcher api.AttributesFetcher,
) (*Server, error) {
	// Validate API key is set
	if runtimeCfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required (set CITYSYNC_API_KEY or use --api-key flag)")
	}

	// Initialize services
	buildingService := api.NewBuildingService(cache, attributesFetcher)
	journalService := api.NewJournalService(journalRepo)
	engineService := api.NewEngineService(poller, cache)

	// Initialize handlers
	buildingHandler := handlers.NewBuildingHandler(buildingService, runtimeCfg.LookupTolerance)
	journalHandler := handlers.NewJournalHandler(journalService)
	engineHandler := handlers.NewEngineHandler(engineService)

	// Setup chi router
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	// HTTP logging middleware - need concrete slog.Logger for httplog
	// Type assert to infrastructure logger to get underlying slog.Logger
	var slogLogger *slog.Logger
	if infraLogger, ok := logger.(interface{ SLog() *slog.Logger }); ok {
		slogLogger = infraLogger.SLog()
	} else {
		// Fallback to default if type assertion fails
		slogLogger = slog.Default()
	}

	r.Use(httplog.RequestLogger(slogLogger, &httplog.Options{
		Level:             slog.LevelDebug,
		Schema:            httplog.SchemaECS.Concise(true),
		LogRequestHeaders: []string{}, // Log no headers by default to reduce verbosity
	}))

	// Prometheus scrape endpoint, no auth so collectors can reach it
	r.Handle("/metrics", metrics.Handler())

	// Swagger UI (only in dev mode, no auth required)
	if runtimeCfg.DevMode {
		swaggerHandler := httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		)
		r.Handle("/swagger/*", swaggerHandler)
		r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/swagger/", http.StatusMovedPermanently)
		})
	}

	// API v1 routes (with authentication)
	r.Route("/api/v1", func(r chi.Router) {
		// Apply API key auth middleware with configured API key
		r.Use(apimiddleware.APIKeyAuthWithKey(runtimeCfg.APIKey))

		// Routes
		r.Get("/buildings", buildingHandler.ListBuildings)
		r.Get("/buildings/lookup", buildingHandler.LookupBuilding)
		r.Get("/buildings/{key}", buildingHandler.GetBuilding)
		r.Delete("/buildings/{key}", buildingHandler.DeleteBuilding)
		r.Get("/buildings/{key}/attributes", buildingHandler.GetAttributes)
		r.Get("/changes", journalHandler.ListChanges)
		r.Get("/cycles", journalHandler.ListCycles)
		r.Get("/status", engineHandler.GetStatus)
		r.Post("/refresh", engineHandler.Refresh)
		r.Post("/cache/clear", engineHandler.ClearCache)
		r.Post("/poller/start", engineHandler.StartPoller)
		r.Post("/poller/stop", engineHandler.StopPoller)
	})

	httpServer := &http.Server{
		Addr:         ":" + runtimeCfg.APIPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Debug("Server configured",
		"port", runtimeCfg.APIPort,
		"dev_mode", runtimeCfg.DevMode,
		"middleware", []string{"RequestID", "RealIP", "Recoverer", "httplog"},
	)

	return &Server{
		httpServer: httpServer,
		logger:     logger,
	}, nil
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server", "addr", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		s.logger.Error("Server error", "err", err)
	}
	return err
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	err := s.httpServer.Shutdown(ctx)
	if err != nil {
		s.logger.Error("Server shutdown error", "err", err)
	} else {
		s.logger.Info("Server shutdown complete")
	}
	return err
}
