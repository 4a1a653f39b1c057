package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shelflog/appserver/config"
	"github.com/shelflog/appserver/internal/db"
	"github.com/shelflog/appserver/internal/handlers"
	"github.com/shelflog/appserver/internal/services"
	"github.com/shelflog/appserver/internal/storage"
	"github.com/shelflog/appserver/internal/store"
)

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
}

// New constructs a Server: opens the database, applies the embedded
// migrations, wires the services, and mounts the routes.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(dbConn); err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	userRepo := store.NewUserRepository(dbConn)
	bookRepo := store.NewBookRepository(dbConn)
	goalRepo := store.NewGoalRepository(dbConn)

	userService := services.NewUserService(userRepo)
	bookService := services.NewBookService(bookRepo)
	goalService := services.NewGoalService(goalRepo)

	sessionSecret := strings.TrimSpace(os.Getenv("SESSION_SECRET"))
	if sessionSecret == "" {
		_ = dbConn.Close()
		return nil, errors.New("SESSION_SECRET is required")
	}
	secret := []byte(sessionSecret)

	covers, err := storage.NewFromConfig(ctx, cfg.Storage)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}
	if covers != nil {
		if err := covers.EnsureBucket(ctx); err != nil {
			_ = dbConn.Close()
			return nil, err
		}
	}

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
	)
	router.Get("/healthz", handlers.Healthz)
	handlers.AuthRouter(router, userService, secret)
	router.Group(func(r chi.Router) {
		r.Use(handlers.RequireSession(secret))
		handlers.BookRouter(r, bookService, goalService, userService, covers)
		handlers.GoalRouter(r, goalService)
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
	}, nil
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown attempts a graceful shutdown.
func (s *Server) Shutdown() error {
	if s.db != nil {
		_ = s.db.Close()
	}
	return s.httpServer.Close()
}
