// Package server wires the application together: it builds the dependency
// graph (database → repositories → services → handlers), declares the
// route table, and runs the HTTP server with graceful shutdown.
//
// This is the composition root — the only place that knows every concrete
// type. Handlers see services, services see repository interfaces, and
// nothing below this package imports chi.
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
	"github.com/go-chi/cors"

	"github.com/sakif/blog-platform/internal/auth"
	"github.com/sakif/blog-platform/internal/handler"
	"github.com/sakif/blog-platform/internal/middleware"
	sqliteRepo "github.com/sakif/blog-platform/internal/repository/sqlite"
	"github.com/sakif/blog-platform/internal/service"
)

// Config holds server configuration, loaded from the environment in
// cmd/server/main.go.
type Config struct {
	Port        int
	TemplateDir string
	StaticDir   string
	DBPath      string
	JWTSecret   string
	TokenTTL    time.Duration
	BcryptCost  int
	// Environment toggles production behavior: Secure cookies and a
	// closed CORS policy.
	Environment string
}

// Server owns the router and the resources that need closing on shutdown.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates a Server: opens the database, builds the dependency chain,
// and registers all routes.
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

// Handler exposes the router; the end-to-end tests mount it on httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) production() bool {
	return s.config.Environment == "production"
}

// setupRoutes builds the auth core, services, and handlers, then declares
// the route table.
//
// Route groups:
//   - public API reads (posts, comments, profiles) behind OptionalAuth
//   - mutating API routes behind RequireAuth
//   - auth endpoints (register/login/logout public, /me protected)
//   - HTML pages and static files
func (s *Server) setupRoutes() error {
	tokens, err := auth.NewTokenService(s.config.JWTSecret, s.config.TokenTTL)
	if err != nil {
		return err
	}
	passwords := auth.NewPasswordService(s.config.BcryptCost)

	authService := service.NewAuthService(s.db.Users(), tokens, passwords, s.logger)
	postService := service.NewPostService(s.db.Posts(), s.logger)
	commentService := service.NewCommentService(s.db.Comments(), s.db.Posts(), s.logger)
	userService := service.NewUserService(s.db.Users(), s.logger)

	authHandler := handler.NewAuthHandler(authService, tokens.TTL(), s.production(), s.logger)
	postHandler := handler.NewPostHandler(postService, s.logger)
	commentHandler := handler.NewCommentHandler(commentService, s.logger)
	userHandler := handler.NewUserHandler(userService, s.logger)

	s.router.Use(middleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	// The browser frontend is same-origin; CORS only admits the local
	// dev origins, and nothing in production.
	allowedOrigins := []string{}
	if !s.production() {
		allowedOrigins = []string{"http://localhost:8080", "http://127.0.0.1:8080"}
	}
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
	}))

	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"healthy"}`))
	})

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.HandleRegister)
			r.Post("/login", authHandler.HandleLogin)
			r.Post("/logout", authHandler.HandleLogout)
			r.With(auth.RequireAuth(tokens)).Get("/me", authHandler.HandleMe)
		})

		// Public reads.
		r.Group(func(r chi.Router) {
			r.Use(auth.OptionalAuth(tokens))
			r.Get("/posts", postHandler.HandleList)
			r.Get("/posts/{id}", postHandler.HandleGet)
			r.Get("/posts/{id}/comments", commentHandler.HandleListByPost)
			r.Get("/users/{id}", userHandler.HandleProfile)
		})

		// Mutations require a session.
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))
			r.Post("/posts", postHandler.HandleCreate)
			r.Put("/posts/{id}", postHandler.HandleUpdate)
			r.Delete("/posts/{id}", postHandler.HandleDelete)
			r.Post("/posts/{id}/comments", commentHandler.HandleCreate)
			r.Put("/comments/{id}", commentHandler.HandleUpdate)
			r.Delete("/comments/{id}", commentHandler.HandleDelete)
		})
	})

	// HTML pages + static assets.
	pageHandler, err := handler.NewPageHandler(s.config.TemplateDir, postService, userService, s.logger)
	if err != nil {
		return fmt.Errorf("creating page handler: %w", err)
	}

	fileServer := http.FileServer(http.Dir(s.config.StaticDir))
	s.router.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	s.router.Get("/", pageHandler.HandleIndex)
	s.router.Get("/register", pageHandler.HandleRegister)
	s.router.Get("/login", pageHandler.HandleLogin)
	s.router.Get("/posts/new", pageHandler.HandleNewPost)
	s.router.Get("/posts/{id}", pageHandler.HandlePostDetail)
	s.router.Get("/posts/{id}/edit", pageHandler.HandleEditPost)
	s.router.Get("/users/{id}", pageHandler.HandleUserProfile)

	return nil
}

// Start runs the server until SIGINT/SIGTERM, then drains in-flight
// requests (30s) and closes the database so the WAL is flushed.
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
			slog.String("environment", s.config.Environment),
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
