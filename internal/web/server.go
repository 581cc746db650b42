// Package web exposes the engine's read surface and control endpoints
// over HTTP. Every response is JSON; Prometheus metrics are served in
// text exposition format at /metrics.
package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tallmansamadam/ladybug-trading/internal/domain"
	"github.com/tallmansamadam/ladybug-trading/internal/ports"
	"github.com/tallmansamadam/ladybug-trading/internal/state"
)

// ProfitBooker is the slice of the engine the control endpoints use.
type ProfitBooker interface {
	BookProfit(ctx context.Context, symbol string) (*domain.Position, error)
	BookAllProfits(ctx context.Context) []*domain.Position
}

// Config holds the dependencies and settings for the HTTP server.
type Config struct {
	Addr      string
	Logger    ports.Logger
	Booker    ProfitBooker
	Equities  ports.MarketDataGateway
	Crypto    ports.MarketDataGateway
	TradeRepo ports.TradeRepository
	Runtime   *state.Runtime
	Activity  *state.ActivityLog
	History   *state.PortfolioHistory
	IsPaper   bool
}

// Server serves the dashboard API.
type Server struct {
	cfg       Config
	logger    ports.Logger
	startedAt time.Time
	srv       *http.Server
}

// NewServer validates the configuration and builds the route table.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("listen address is required")
	}
	if cfg.Logger == nil || cfg.Booker == nil || cfg.Equities == nil || cfg.Crypto == nil ||
		cfg.TradeRepo == nil || cfg.Runtime == nil || cfg.Activity == nil || cfg.History == nil {
		return nil, fmt.Errorf("missing required dependencies for web server")
	}

	s := &Server{cfg: cfg, logger: cfg.Logger, startedAt: time.Now()}
	s.srv = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.routes(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return s, nil
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /status", s.handleStatus)
	mux.HandleFunc("GET /account", s.handleAccount)
	mux.HandleFunc("GET /positions", s.handlePositions)
	mux.HandleFunc("GET /positions/crypto", s.handleCryptoPositions)
	mux.HandleFunc("GET /logs", s.handleLogs)
	mux.HandleFunc("GET /portfolio/history", s.handlePortfolioHistory)
	mux.HandleFunc("GET /trades/history", s.handleTradeHistory)
	mux.HandleFunc("GET /news/symbols", s.handleGetNewsSymbols)
	mux.HandleFunc("POST /news/symbols", s.handleSetNewsSymbols)
	mux.HandleFunc("GET /trading-mode", s.handleGetTradingMode)
	mux.HandleFunc("POST /trading-mode", s.handleSetTradingMode)
	mux.HandleFunc("POST /toggle", s.handleToggleEquity)
	mux.HandleFunc("POST /toggle/crypto", s.handleToggleCrypto)
	mux.HandleFunc("POST /book-profit/{symbol}", s.handleBookProfit)
	mux.HandleFunc("POST /book-all-profits", s.handleBookAllProfits)
	mux.Handle("GET /metrics", promhttp.Handler())

	return mux
}

// Start serves until the context is canceled, then shuts down
// gracefully. It blocks for the lifetime of the server.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "HTTP server listening", map[string]interface{}{"addr": s.cfg.Addr})
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error(shutdownCtx, err, "HTTP server graceful shutdown failed")
		return err
	}
	s.logger.Info(shutdownCtx, "HTTP server stopped")
	return nil
}

// writeJSON marshals v into the response with the given status code.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error(context.Background(), err, "Failed to encode response body")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
