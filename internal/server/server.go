// Package server wires the store, services, handlers and routes together and
// runs the HTTP server.
//
// DEPENDENCY INJECTION FLOW:
//
//	config.Config
//	  → repository.Store (sqlite or postgres, chosen by DATABASE_URL)
//	  → auth.TokenService, auth.PasswordService, validation.Validator
//	  → service.AuthService, ContentService, ShareService
//	  → handler.AuthHandler, ContentHandler, ShareHandler, HealthHandler
//	  → chi routes
//
// Everything is assembled in New (the composition root); no other package
// constructs its own dependencies.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sakif/second-brain/internal/auth"
	"github.com/sakif/second-brain/internal/config"
	"github.com/sakif/second-brain/internal/handler"
	"github.com/sakif/second-brain/internal/middleware"
	"github.com/sakif/second-brain/internal/repository"
	"github.com/sakif/second-brain/internal/repository/postgres"
	sqliteRepo "github.com/sakif/second-brain/internal/repository/sqlite"
	"github.com/sakif/second-brain/internal/service"
	"github.com/sakif/second-brain/internal/validation"
)

const shutdownTimeout = 30 * time.Second

// Server owns the router and the store. The store is closed when Start
// returns.
type Server struct {
	router *chi.Mux
	config config.Config
	logger *slog.Logger
	store  repository.Store
}

// New opens the store named by cfg.DatabaseURL and builds the router.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Server, error) {
	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	s, err := NewWithStore(cfg, store, logger)
	if err != nil {
		store.Close()
		return nil, err
	}
	return s, nil
}

// NewWithStore builds the server around an already-open store. Tests use it
// with in-memory SQLite.
func NewWithStore(cfg config.Config, store repository.Store, logger *slog.Logger) (*Server, error) {
	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		store:  store,
	}
	if err := s.setupRoutes(); err != nil {
		return nil, fmt.Errorf("setting up routes: %w", err)
	}
	return s, nil
}

func openStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (repository.Store, error) {
	if cfg.UsesPostgres() {
		logger.Info("using postgres store")
		return postgres.Open(ctx, cfg.DatabaseURL, logger)
	}
	logger.Info("using sqlite store", slog.String("path", cfg.DatabaseURL))
	return sqliteRepo.New(ctx, cfg.DatabaseURL)
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes configures middleware and routes.
//
// ROUTE STRUCTURE:
//
//	GET    /healthz                        → store ping
//	POST   /api/v1/signup                  → create account
//	POST   /api/v1/signin                  → bearer token
//	GET    /api/v1/auth/github/login       → GitHub redirect   (when configured)
//	GET    /api/v1/auth/github/callback    → bearer token      (when configured)
//	GET    /api/v1/brain/~{hash}           → public shared collection
//	--- bearer token required below ---
//	GET    /api/v1/me
//	POST   /api/v1/content
//	GET    /api/v1/content?category=&platform=
//	PUT    /api/v1/content/{id}
//	DELETE /api/v1/content/{id}
//	GET    /api/v1/dashboard/counts
//	POST   /api/v1/brain/share
//
// MIDDLEWARE ORDER MATTERS:
// RequestID first so the logger can see it, Recoverer innermost of the
// global set so a panic still produces a logged 500, CORS before routing so
// preflight requests never reach RequireAuth.
func (s *Server) setupRoutes() error {
	tokens, err := auth.NewTokenService(s.config.JWTSecret, s.config.TokenTTL)
	if err != nil {
		return fmt.Errorf("token service: %w", err)
	}
	passwords, err := auth.NewPasswordService(s.config.BcryptCost)
	if err != nil {
		return fmt.Errorf("password service: %w", err)
	}
	validator := validation.New()

	var github handler.GitHubExchanger
	if s.config.GitHubEnabled() {
		github = auth.NewGitHubProvider(s.config.GitHubClientID, s.config.GitHubClientSecret, s.config.GitHubCallbackURL)
	}

	authService := service.NewAuthService(s.store.Users(), tokens, passwords, validator, s.logger)
	contentService := service.NewContentService(s.store.Contents(), validator, s.logger)
	shareService := service.NewShareService(s.store.ShareLinks(), s.store.Contents(), s.store.Users(), s.logger)

	authHandler := handler.NewAuthHandler(authService, github, s.logger)
	contentHandler := handler.NewContentHandler(contentService, s.logger)
	shareHandler := handler.NewShareHandler(shareService, s.logger)
	healthHandler := handler.NewHealthHandler(s.store, s.logger)

	// === Global Middleware ===
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.config.CORSAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeNotFound(w)
	})

	s.router.Get("/healthz", healthHandler.HandleHealth)

	requireAuth := auth.RequireAuth(tokens, s.logger)

	s.router.Route("/api/v1", func(r chi.Router) {
		// Public
		r.Post("/signup", authHandler.HandleSignup)
		r.Post("/signin", authHandler.HandleSignin)
		if github != nil {
			r.Get("/auth/github/login", authHandler.HandleGitHubLogin)
			r.Get("/auth/github/callback", authHandler.HandleGitHubCallback)
		}
		// "share" is matched first as a static segment, so the public
		// wildcard never swallows POST /brain/share.
		r.Get("/brain/{shareLink}", shareHandler.HandleView)

		// Owner-scoped
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Get("/me", authHandler.HandleMe)

			r.Post("/content", contentHandler.HandleCreate)
			r.Get("/content", contentHandler.HandleList)
			r.Put("/content/{id}", contentHandler.HandleUpdate)
			r.Delete("/content/{id}", contentHandler.HandleDelete)
			r.Get("/dashboard/counts", contentHandler.HandleCounts)

			r.Post("/brain/share", shareHandler.HandleToggle)
		})
	})

	return nil
}

func writeNotFound(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte(`{"error":"not_found","message":"route not found"}` + "\n"))
}

// Start runs the HTTP server until SIGINT/SIGTERM, then drains in-flight
// requests for up to 30 seconds and closes the store.
func (s *Server) Start() error {
	defer func() {
		if err := s.store.Close(); err != nil {
			s.logger.Error("closing store", slog.String("error", err.Error()))
		}
	}()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorLog:     slog.NewLogLogger(s.logger.Handler(), slog.LevelError),
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			slog.Bool("github", s.config.GitHubEnabled()),
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

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
