// Package server wires the application together: it builds the dependency
// chain (sqlite → services → handlers), defines the routes, and runs the
// HTTP server with graceful shutdown. main.go stays minimal; everything
// the app is made of is assembled here, in one place.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sakif/washday/internal/auth"
	"github.com/sakif/washday/internal/handler"
	"github.com/sakif/washday/internal/middleware"
	sqliteRepo "github.com/sakif/washday/internal/repository/sqlite"
	"github.com/sakif/washday/internal/service"
)

// Config holds server configuration.
type Config struct {
	Port      int
	DBPath    string
	JWTSecret string
}

// Server owns the router and the database connection; the connection is
// closed during graceful shutdown.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates the server and assembles the whole dependency chain:
// database → repositories → services → handlers → routes. Each layer only
// receives what it needs — services get repository interfaces, handlers
// get services.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures middleware and the route table:
//
//	POST   /auth/register   create account + session     (public)
//	POST   /auth/login      establish session             (public)
//	POST   /auth/logout     clear session                 (public)
//	GET    /auth/user       current user                  (auth)
//	GET    /items           own items, newest first       (auth)
//	POST   /items           create item                   (auth)
//	PATCH  /items/{id}      {"action":"wash"|"retire"}    (auth)
//	DELETE /items/{id}      delete item                   (auth)
//	GET    /leaderboard     all items, all users          (public)
//	GET    /metrics         prometheus metrics            (public)
func (s *Server) setupRoutes() error {
	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	authService := service.NewAuthService(s.db, tokens, passwords, s.logger)
	itemService := service.NewItemService(s.db, s.logger)

	authHandler := handler.NewAuthHandler(authService, s.logger)
	itemHandler := handler.NewItemHandler(itemService, s.logger)

	// Middleware runs in registration order on every request.
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(middleware.Metrics())

	s.router.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.HandleRegister)
		r.Post("/login", authHandler.HandleLogin)
		r.Post("/logout", authHandler.HandleLogout)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))
			r.Get("/user", authHandler.HandleCurrentUser)
		})
	})

	s.router.Route("/items", func(r chi.Router) {
		r.Use(auth.RequireAuth(tokens))
		r.Get("/", itemHandler.HandleList)
		r.Post("/", itemHandler.HandleCreate)
		r.Patch("/{id}", itemHandler.HandleAction)
		r.Delete("/{id}", itemHandler.HandleDelete)
	})

	// Public, unauthenticated cross-user read.
	s.router.Get("/leaderboard", itemHandler.HandleLeaderboard)

	s.router.Handle("/metrics", promhttp.Handler())

	return nil
}

// Handler returns the root http.Handler. Used by the end-to-end tests to
// drive the full stack through httptest without opening a port.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the database connection. Start does this itself; Close
// exists for callers (tests) that never run Start.
func (s *Server) Close() error {
	return s.db.Close()
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, give in-flight requests 30
// seconds, close the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
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
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
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
