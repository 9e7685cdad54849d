// Package server is the composition root: it wires the repositories,
// services and handlers together and owns the route table. main.go only
// reads configuration and calls New/Start.
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

	"github.com/devhuddle/doubtboard/internal/auth"
	"github.com/devhuddle/doubtboard/internal/handler"
	"github.com/devhuddle/doubtboard/internal/middleware"
	sqliteRepo "github.com/devhuddle/doubtboard/internal/repository/sqlite"
	"github.com/devhuddle/doubtboard/internal/service"
)

// Config holds everything the server needs from the environment.
type Config struct {
	Port      int
	DBPath    string
	UploadDir string

	JWTSecret string

	GitHubClientID     string
	GitHubClientSecret string
	GitHubCallbackURL  string
}

// Server owns the router, the database connection and the background
// session cleanup. The database is closed on shutdown.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
	authSv *service.AuthService
}

// New builds the full dependency graph: database, repositories,
// services, handlers, routes.
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

// Router exposes the route table, mainly so tests can drive the full
// stack through httptest without binding a port.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	// Repositories.
	users := sqliteRepo.NewUserRepo(s.db)
	sessions := sqliteRepo.NewSessionRepo(s.db)
	posts := sqliteRepo.NewPostRepo(s.db)
	comments := sqliteRepo.NewCommentRepo(s.db)
	tips := sqliteRepo.NewTipRepo(s.db)
	stats := sqliteRepo.NewStatsRepo(s.db)

	// Auth plumbing.
	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	github := auth.NewGitHubProvider(
		s.config.GitHubClientID,
		s.config.GitHubClientSecret,
		s.config.GitHubCallbackURL,
	)
	requireAuth := auth.RequireAuth(tokens, sessions)
	optionalAuth := auth.OptionalAuth(tokens, sessions)

	// Services.
	s.authSv = service.NewAuthService(users, sessions, tokens, s.logger)
	postSv := service.NewPostService(posts, s.logger)
	commentSv := service.NewCommentService(comments, posts, s.logger)
	tipSv := service.NewTipService(tips, s.logger)
	statsSv := service.NewStatsService(stats)

	// Handlers.
	images, err := handler.NewImageStore(s.config.UploadDir)
	if err != nil {
		return fmt.Errorf("creating image store: %w", err)
	}
	authHandler := handler.NewAuthHandler(github, s.authSv, s.logger)
	postHandler := handler.NewPostHandler(postSv, images, s.logger)
	commentHandler := handler.NewCommentHandler(commentSv, s.logger)
	tipHandler := handler.NewTipHandler(tipSv, s.logger)
	statsHandler := handler.NewStatsHandler(statsSv)

	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Uploaded images are public once stored.
	fileServer := http.FileServer(http.Dir(images.Dir()))
	s.router.Handle("/uploads/*", http.StripPrefix("/uploads/", fileServer))

	s.router.Get("/auth/github/login", authHandler.HandleGitHubLogin)
	s.router.Get("/auth/github/callback", authHandler.HandleGitHubCallback)
	s.router.With(requireAuth).Post("/auth/logout", authHandler.HandleLogout)

	s.router.Route("/api", func(r chi.Router) {
		// Reads are public; a valid cookie still attaches the caller's
		// identity without gating the route.
		r.Group(func(r chi.Router) {
			r.Use(optionalAuth)

			r.Get("/posts", postHandler.HandleList)
			r.Get("/posts/{id}", postHandler.HandleGet)
			r.Get("/posts/{id}/comments", commentHandler.HandleListByPost)
			r.Get("/tips", tipHandler.HandleList)
			r.Get("/stats", statsHandler.HandleStats)
		})

		// Writes need a login.
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Get("/auth/user", authHandler.HandleCurrentUser)

			r.Post("/posts", postHandler.HandleCreate)
			r.Patch("/posts/{id}/resolve", postHandler.HandleToggleResolved)

			r.Post("/posts/{id}/comments", commentHandler.HandleCreate)
			r.Post("/comments/{id}/vote", commentHandler.HandleVote)
			r.Delete("/comments/{id}/vote", commentHandler.HandleRemoveVote)

			r.Post("/tips", tipHandler.HandleCreate)
			r.Post("/tips/{id}/like", tipHandler.HandleLike)
			r.Delete("/tips/{id}/like", tipHandler.HandleUnlike)
		})
	})

	return nil
}

// Start runs the server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, drain in-flight requests,
// close the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Expired sessions pile up silently; sweep them every hour.
	cleanupCtx, stopCleanup := context.WithCancel(context.Background())
	defer stopCleanup()
	go s.cleanupSessions(cleanupCtx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
			slog.String("uploads", s.config.UploadDir),
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

func (s *Server) cleanupSessions(ctx context.Context) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.authSv.CleanupExpiredSessions(ctx); err != nil {
				s.logger.Error("session cleanup failed", slog.String("error", err.Error()))
			}
		}
	}
}
