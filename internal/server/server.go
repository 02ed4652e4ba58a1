package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/zappabad/actibourse/internal/game"
	"github.com/zappabad/actibourse/internal/metrics"
	"go.uber.org/zap"
)

// Scheduler is the part of the cadence runner the server needs.
type Scheduler interface {
	Reschedule()
	NextUpdate() time.Time
}

// Config holds the HTTP server configuration.
type Config struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		Addr:         ":8080",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// Server exposes a game session over JSON/HTTP.
type Server struct {
	httpServer *http.Server
	session    *game.Session
	scheduler  Scheduler
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

// New registers every route. scheduler and m may be nil.
func New(cfg Config, session *game.Session, scheduler Scheduler, m *metrics.Metrics, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		session:   session,
		scheduler: scheduler,
		metrics:   m,
		logger:    logger.Named("server"),
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", s.health)
	mux.HandleFunc("GET /api/status", s.status)

	// Market
	mux.HandleFunc("GET /api/market", s.getMarket)
	mux.HandleFunc("POST /api/market/update", s.updatePrices)
	mux.HandleFunc("PUT /api/market/{id}/price", s.overridePrice)

	// Teams
	mux.HandleFunc("GET /api/teams", s.listTeams)
	mux.HandleFunc("GET /api/teams/{id}", s.getTeam)
	mux.HandleFunc("POST /api/teams/{id}/adjust", s.adjustCash)
	mux.HandleFunc("GET /api/leaderboard", s.leaderboard)

	// Ledger and trades
	mux.HandleFunc("GET /api/ledger", s.getLedger)
	mux.HandleFunc("POST /api/trades", s.submitTrade)

	// Lifecycle
	mux.HandleFunc("POST /api/game/start", s.start)
	mux.HandleFunc("POST /api/game/pause", s.pause)
	mux.HandleFunc("POST /api/game/reset", s.reset)
	mux.HandleFunc("PUT /api/game/mode", s.setMode)

	if m != nil {
		mux.Handle("GET /metrics", m.Handler())
	}

	var h http.Handler = mux
	h = logging(s.logger)(h)

	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      h,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return s
}

// Handler returns the root handler, middleware included.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start listens until the server fails or is shut down.
func (s *Server) Start() error {
	s.logger.Info("starting", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server: listen: %w", err)
	}
	return nil
}

// Shutdown waits for in-flight requests within ctx's deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
