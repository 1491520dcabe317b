package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/hongminglow/notes-be/internal/auth"
	"github.com/hongminglow/notes-be/internal/config"
	"github.com/hongminglow/notes-be/internal/http/handlers"
	"github.com/hongminglow/notes-be/internal/middleware"
	"github.com/hongminglow/notes-be/internal/service"
	"github.com/hongminglow/notes-be/internal/storage"
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware, routes, and returns a ready server. It fails only
// on invalid auth configuration.
func New(cfg config.Config, store storage.Store, logger *slog.Logger) (*Server, error) {
	handler, err := NewHandler(cfg, store, logger)
	if err != nil {
		return nil, err
	}

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       120 * time.Second,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	return &Server{inner: httpServer}, nil
}

// NewHandler builds the full routed handler chain.
func NewHandler(cfg config.Config, store storage.Store, logger *slog.Logger) (http.Handler, error) {
	hasher, err := auth.NewPasswordHasher(cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("password hasher: %w", err)
	}
	tokens, err := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	if err != nil {
		return nil, fmt.Errorf("token manager: %w", err)
	}

	accounts := service.NewAccountService(store, hasher, tokens, service.AccountOptions{
		UnifiedLoginErrors: cfg.UnifiedLoginErrors,
	}, logger)
	notes := service.NewNoteService(store, logger)

	guard := middleware.NewAuthenticator(tokens, store, logger).Require
	limit := middleware.NewRateLimiter(cfg.AuthRatePerMinute, cfg.AuthRateBurst).Limit

	mux := http.NewServeMux()
	handlers.NewHealthHandler(time.Now(), cfg.StoreDriver).Register(mux)
	users := handlers.NewUserHandler(accounts, logger)
	noteHandler := handlers.NewNoteHandler(notes, logger)

	prefixes := []string{""}
	if cfg.APIPrefix != "" {
		prefixes = append(prefixes, cfg.APIPrefix)
	}
	for _, prefix := range prefixes {
		users.Register(mux, prefix, limit, guard)
		noteHandler.Register(mux, prefix, guard)
	}

	return middleware.Chain(mux,
		middleware.Logging(logger),
		middleware.CORS(cfg.CORSOrigins),
		middleware.Timeout(cfg.RequestTimeout),
	), nil
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
