package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tallmansamadam/ladybug-trading/internal/domain"
	"github.com/tallmansamadam/ladybug-trading/internal/ports"
)

// positionDTO is the wire form of an open position.
type positionDTO struct {
	Symbol        string  `json:"symbol"`
	AssetClass    string  `json:"asset_class"`
	Quantity      float64 `json:"quantity"`
	EntryPrice    float64 `json:"entry_price"`
	CurrentPrice  float64 `json:"current_price"`
	MarketValue   float64 `json:"market_value"`
	UnrealizedPNL float64 `json:"unrealized_pnl"`
	ProfitPercent float64 `json:"profit_percent"`
}

func toPositionDTO(p *domain.Position) positionDTO {
	return positionDTO{
		Symbol:        p.Symbol,
		AssetClass:    string(p.AssetClass),
		Quantity:      p.Quantity,
		EntryPrice:    p.EntryPrice,
		CurrentPrice:  p.CurrentPrice,
		MarketValue:   p.MarketValue(),
		UnrealizedPNL: p.UnrealizedPNL,
		ProfitPercent: p.ProfitPercent(),
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"service": "ladybug-trading",
		"endpoints": []string{
			"/health", "/status", "/account", "/positions", "/positions/crypto",
			"/logs", "/portfolio/history", "/trades/history", "/news/symbols",
			"/trading-mode", "/toggle", "/toggle/crypto",
			"/book-profit/{symbol}", "/book-all-profits", "/metrics",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"equity_trading_enabled": s.cfg.Runtime.EquityTradingEnabled(),
		"crypto_trading_enabled": s.cfg.Runtime.CryptoTradingEnabled(),
		"trading_mode":           string(s.cfg.Runtime.Mode()),
		"paper":                  s.cfg.IsPaper,
		"started_at":             s.startedAt.UTC().Format(time.RFC3339),
		"uptime_seconds":         int64(time.Since(s.startedAt).Seconds()),
	})
}

func (s *Server) handleAccount(w http.ResponseWriter, r *http.Request) {
	account, err := s.cfg.Equities.GetAccount(r.Context())
	if err != nil {
		s.writeError(w, http.StatusBadGateway, fmt.Sprintf("account unavailable: %v", err))
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]float64{
		"buying_power":    account.BuyingPower,
		"cash":            account.Cash,
		"portfolio_value": account.PortfolioValue,
	})
}

func (s *Server) handlePositions(w http.ResponseWriter, r *http.Request) {
	positions, err := s.cfg.Equities.GetPositions(r.Context())
	if err != nil {
		s.writeError(w, http.StatusBadGateway, fmt.Sprintf("positions unavailable: %v", err))
		return
	}
	out := make([]positionDTO, 0, len(positions))
	for _, p := range positions {
		if p.AssetClass != domain.AssetEquity {
			continue
		}
		out = append(out, toPositionDTO(p))
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCryptoPositions(w http.ResponseWriter, r *http.Request) {
	positions, err := s.cfg.Crypto.GetPositions(r.Context())
	if err != nil {
		s.writeError(w, http.StatusBadGateway, fmt.Sprintf("positions unavailable: %v", err))
		return
	}
	out := make([]positionDTO, 0, len(positions))
	for _, p := range positions {
		out = append(out, toPositionDTO(p))
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	entries := s.cfg.Activity.ReadAll()
	out := make([]map[string]interface{}, 0, len(entries))
	for _, e := range entries {
		out = append(out, map[string]interface{}{
			"id":        e.ID,
			"timestamp": e.Timestamp.UTC().Format(time.RFC3339),
			"level":     string(e.Level),
			"category":  e.Category,
			"message":   e.Message,
			"symbol":    e.Symbol,
		})
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handlePortfolioHistory(w http.ResponseWriter, r *http.Request) {
	snaps := s.cfg.History.ReadAll()
	out := make([]map[string]interface{}, 0, len(snaps))
	for _, snap := range snaps {
		out = append(out, map[string]interface{}{
			"timestamp":       snap.Timestamp.UTC().Format(time.RFC3339),
			"total_value":     snap.TotalValue,
			"cash":            snap.Cash,
			"positions_value": snap.PositionsValue,
		})
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleTradeHistory(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			s.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	trades, err := s.cfg.TradeRepo.FindRecent(r.Context(), limit)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, fmt.Sprintf("trade history unavailable: %v", err))
		return
	}
	out := make([]map[string]interface{}, 0, len(trades))
	for _, tr := range trades {
		out = append(out, map[string]interface{}{
			"id":           tr.ID,
			"timestamp":    tr.Timestamp.UTC().Format(time.RFC3339),
			"symbol":       tr.Symbol,
			"action":       string(tr.Action),
			"quantity":     tr.Quantity,
			"price":        tr.Price,
			"realized_pnl": tr.RealizedPNL,
		})
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetNewsSymbols(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string][]string{"symbols": s.cfg.Runtime.NewsSymbols()})
}

func (s *Server) handleSetNewsSymbols(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Symbols []string `json:"symbols"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	cleaned := make([]string, 0, len(req.Symbols))
	for _, sym := range req.Symbols {
		sym = strings.ToUpper(strings.TrimSpace(sym))
		if sym == "" {
			continue
		}
		cleaned = append(cleaned, sym)
	}
	if len(cleaned) == 0 {
		s.writeError(w, http.StatusBadRequest, "at least one symbol is required")
		return
	}
	s.cfg.Runtime.SetNewsSymbols(cleaned)
	s.cfg.Activity.Info("settings", fmt.Sprintf("Sentiment watch list updated: %s", strings.Join(cleaned, ", ")))
	s.writeJSON(w, http.StatusOK, map[string][]string{"symbols": cleaned})
}

func (s *Server) handleGetTradingMode(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"mode": string(s.cfg.Runtime.Mode())})
}

func (s *Server) handleSetTradingMode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mode string `json:"mode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	mode, err := domain.ParseTradingMode(req.Mode)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.cfg.Runtime.SetMode(mode)
	s.cfg.Activity.Info("settings", fmt.Sprintf("Trading mode set to %s", mode))
	s.writeJSON(w, http.StatusOK, map[string]string{"mode": string(mode)})
}

func (s *Server) handleToggleEquity(w http.ResponseWriter, r *http.Request) {
	enabled := !s.cfg.Runtime.EquityTradingEnabled()
	s.cfg.Runtime.SetEquityTradingEnabled(enabled)
	s.cfg.Activity.Info("settings", fmt.Sprintf("Equity trading %s", enabledWord(enabled)))
	s.writeJSON(w, http.StatusOK, map[string]bool{"equity_trading_enabled": enabled})
}

func (s *Server) handleToggleCrypto(w http.ResponseWriter, r *http.Request) {
	enabled := !s.cfg.Runtime.CryptoTradingEnabled()
	s.cfg.Runtime.SetCryptoTradingEnabled(enabled)
	s.cfg.Activity.Info("settings", fmt.Sprintf("Crypto trading %s", enabledWord(enabled)))
	s.writeJSON(w, http.StatusOK, map[string]bool{"crypto_trading_enabled": enabled})
}

func (s *Server) handleBookProfit(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(r.PathValue("symbol"))
	pos, err := s.cfg.Booker.BookProfit(r.Context(), symbol)
	if err != nil {
		if errors.Is(err, ports.ErrPositionNotFound) {
			s.writeError(w, http.StatusNotFound, fmt.Sprintf("no open position for %s", symbol))
			return
		}
		s.writeError(w, http.StatusBadGateway, fmt.Sprintf("close failed: %v", err))
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"closed": toPositionDTO(pos),
	})
}

func (s *Server) handleBookAllProfits(w http.ResponseWriter, r *http.Request) {
	closed := s.cfg.Booker.BookAllProfits(r.Context())
	out := make([]positionDTO, 0, len(closed))
	for _, p := range closed {
		out = append(out, toPositionDTO(p))
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"closed_count": len(out),
		"closed":       out,
	})
}

func enabledWord(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled"
}
