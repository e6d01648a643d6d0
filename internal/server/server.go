// Package server wires the store, services, handlers and routes together and
// runs the HTTP server.
//
// ROUTE LAYOUT:
// Everything the front-end calls lives under /api. The admin subtree sits
// behind middleware.RequireAdmin unless ADMIN_ENFORCE is off. /healthz and
// /metrics are for operators. Any other path is a static file from
// STATIC_DIR, falling back to index.html so client-side routes like
// /profile/Луна_Лавгуд survive a page reload.
//
// MIDDLEWARE ORDER:
//
//	RequestID → RealIP → Logger → Recoverer → route
//
// Logger sits outside Recoverer, so a panicking handler is still logged
// (as the 500 Recoverer writes) and counted in the HTTP metrics.
//
// DEPENDENCY FLOW:
// main.go loads config.Config and passes it to New, which builds
//
//	catalog + validator
//	sqlite.DB → service.Set (auth, admin, logs, skills) → handlers → routes
//
// and nothing else in the program constructs these. internal/client reuses
// the same service.Set when it runs against the database directly.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sakif/skill-log/internal/catalog"
	"github.com/sakif/skill-log/internal/config"
	"github.com/sakif/skill-log/internal/handler"
	"github.com/sakif/skill-log/internal/middleware"
	"github.com/sakif/skill-log/internal/observability"
	sqliteRepo "github.com/sakif/skill-log/internal/repository/sqlite"
	"github.com/sakif/skill-log/internal/service"
	"github.com/sakif/skill-log/internal/validation"
)

// Server owns the database connection and the router.
type Server struct {
	router   *chi.Mux
	config   config.Config
	logger   *slog.Logger
	db       *sqliteRepo.DB
	services *service.Set
}

// New opens the database and builds the full dependency chain:
// sqlite.DB → services → handlers → routes.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	cat, err := catalog.Load(cfg.CatalogFile)
	if err != nil {
		return nil, err
	}
	validator, err := validation.New(cfg.NameAlphabet)
	if err != nil {
		return nil, err
	}

	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router:   chi.NewRouter(),
		config:   cfg,
		logger:   logger,
		db:       db,
		services: service.NewSet(db, db, validator, cat, logger),
	}
	observability.RegisterMetrics()
	s.setupRoutes()

	return s, nil
}

// Handler exposes the router, e.g. for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Services exposes the service set for in-process clients.
func (s *Server) Services() *service.Set {
	return s.services
}

// Close releases the database.
func (s *Server) Close() error {
	return s.db.Close()
}

// setupRoutes mounts every endpoint:
//
//	/api/auth/*          sign-up and sign-in
//	/api/users...        public directory and profiles
//	/api/logs...         owner-scoped practice logs
//	/api/admin/*         moderation and account management
//	/healthz, /metrics   operations
//	everything else      static files with index.html fallback
func (s *Server) setupRoutes() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)

	authHandler := handler.NewAuthHandler(s.services.Auth, s.logger)
	adminHandler := handler.NewAdminHandler(s.services.Admin, s.logger)
	logHandler := handler.NewLogHandler(s.services.Logs, s.logger)
	skillHandler := handler.NewSkillHandler(s.services.Skills, s.logger)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/auth/signup", authHandler.HandleSignUp)
		r.Post("/auth/login", authHandler.HandleLogin)

		r.Get("/users", authHandler.HandleListUsers)
		r.Get("/users/{name}", authHandler.HandleGetUser)
		r.Get("/users/{name}/skills", skillHandler.HandleProfile)
		r.Get("/skills/catalog", skillHandler.HandleCatalog)

		r.Get("/logs", logHandler.HandleList)
		r.Post("/logs", logHandler.HandleCreate)
		r.Delete("/logs/{id}", logHandler.HandleDelete)

		r.Route("/admin", func(r chi.Router) {
			if s.config.AdminEnforce {
				r.Use(middleware.RequireAdmin(s.services.Auth, s.logger))
			}

			r.Get("/users", adminHandler.HandleListUsers)
			r.Post("/users", adminHandler.HandleCreateUser)
			r.Patch("/users/{id}", adminHandler.HandleUpdateUser)
			r.Delete("/users/{id}", adminHandler.HandleDeleteUser)

			r.Get("/logs", logHandler.HandleListAll)
			r.Patch("/logs/{id}/status", logHandler.HandleUpdateStatus)
			r.Delete("/logs/{id}", logHandler.HandleAdminDelete)

			r.Get("/skills", skillHandler.HandleAdminOverview)
		})

		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"not_found","message":"no such endpoint"}`))
		})
	})

	s.router.Get("/healthz", s.handleHealth)
	s.router.Handle("/metrics", promhttp.Handler())

	s.router.NotFound(s.serveSPA)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := s.db.Ping(r.Context()); err != nil {
		s.logger.Error("health check failed", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"status":"unavailable"}`))
		return
	}
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// serveSPA serves a file from StaticDir when one matches the path and
// index.html otherwise, so client-side routes survive a reload.
func (s *Server) serveSPA(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.NotFound(w, r)
		return
	}

	root := s.config.StaticDir
	clean := filepath.Clean("/" + strings.TrimPrefix(r.URL.Path, "/"))
	path := filepath.Join(root, filepath.FromSlash(clean))
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		http.ServeFile(w, r, path)
		return
	}

	index := filepath.Join(root, "index.html")
	if _, err := os.Stat(index); err != nil {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, index)
}

// Start serves until SIGINT or SIGTERM, then drains in-flight requests for
// up to 30 seconds and closes the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         s.config.Addr(),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
			slog.Bool("admin_enforce", s.config.AdminEnforce),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
