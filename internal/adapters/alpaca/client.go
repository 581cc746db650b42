package alpaca

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/tallmansamadam/ladybug-trading/internal/domain"
	"github.com/tallmansamadam/ladybug-trading/internal/ports"
)

// Client implements ports.MarketDataGateway for Alpaca equities.
type Client struct {
	api *api
}

// New creates the equities gateway adapter.
func New(cfg Config) (*Client, error) {
	a, err := newAPI(cfg)
	if err != nil {
		return nil, err
	}
	a.logger.Info(context.Background(), "Alpaca equities client configured", map[string]interface{}{"tradingURL": a.tradingURL})
	return &Client{api: a}, nil
}

// GetAccount retrieves the current account summary.
func (c *Client) GetAccount(ctx context.Context) (*domain.AccountSnapshot, error) {
	body, err := c.api.do(ctx, http.MethodGet, c.api.tradingURL+"/account", nil)
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	var dto accountDTO
	if err := json.Unmarshal(body, &dto); err != nil {
		return nil, fmt.Errorf("get account: %w: %v", ports.ErrVenueUnavailable, err)
	}
	return &domain.AccountSnapshot{
		BuyingPower:    parseFloat(dto.BuyingPower),
		Cash:           parseFloat(dto.Cash),
		PortfolioValue: parseFloat(dto.PortfolioValue),
	}, nil
}

// GetPositions retrieves all open positions. Venue errors yield an empty
// slice so a flaky positions endpoint reads as a flat book, not a fault.
func (c *Client) GetPositions(ctx context.Context) ([]*domain.Position, error) {
	body, err := c.api.do(ctx, http.MethodGet, c.api.tradingURL+"/positions", nil)
	if err != nil {
		c.api.logger.Warn(ctx, "Positions fetch failed, treating as empty", map[string]interface{}{"error": err.Error()})
		return []*domain.Position{}, nil
	}
	var dtos []positionDTO
	if err := json.Unmarshal(body, &dtos); err != nil {
		c.api.logger.Warn(ctx, "Positions parse failed, treating as empty", map[string]interface{}{"error": err.Error()})
		return []*domain.Position{}, nil
	}
	positions := make([]*domain.Position, 0, len(dtos))
	for _, dto := range dtos {
		positions = append(positions, &domain.Position{
			Symbol:        dto.Symbol,
			AssetClass:    domain.ClassifySymbol(dto.Symbol),
			Quantity:      parseFloat(dto.Qty),
			EntryPrice:    parseFloat(dto.AvgEntryPrice),
			CurrentPrice:  parseFloat(dto.CurrentPrice),
			UnrealizedPNL: parseFloat(dto.UnrealizedPL),
		})
	}
	return positions, nil
}

// GetBars retrieves historical bars for the symbol, oldest first. Returns
// an empty slice on HTTP or parse failure.
func (c *Client) GetBars(ctx context.Context, symbol, timeframe string, limit int) ([]*domain.Bar, error) {
	q := url.Values{}
	q.Set("timeframe", timeframe)
	q.Set("limit", fmt.Sprintf("%d", limit))
	q.Set("adjustment", "raw")
	q.Set("feed", "iex")
	reqURL := fmt.Sprintf("%s/stocks/%s/bars?%s", stockDataURL, url.PathEscape(symbol), q.Encode())

	body, err := c.api.do(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		c.api.logger.Warn(ctx, "Bars fetch failed", map[string]interface{}{"symbol": symbol, "error": err.Error()})
		return []*domain.Bar{}, nil
	}
	var dto stockBarsDTO
	if err := json.Unmarshal(body, &dto); err != nil {
		c.api.logger.Warn(ctx, "Bars parse failed", map[string]interface{}{"symbol": symbol, "error": err.Error()})
		return []*domain.Bar{}, nil
	}
	return convertBars(dto.Bars), nil
}

// GetLatestPrice prefers the last executed trade over bid/ask quotes and
// falls back to the latest minute bar close.
func (c *Client) GetLatestPrice(ctx context.Context, symbol string) (float64, error) {
	reqURL := fmt.Sprintf("%s/stocks/%s/trades/latest?feed=iex", stockDataURL, url.PathEscape(symbol))
	body, err := c.api.do(ctx, http.MethodGet, reqURL, nil)
	if err == nil {
		var dto latestTradeDTO
		if jsonErr := json.Unmarshal(body, &dto); jsonErr == nil && dto.Trade.P > 0 {
			return dto.Trade.P, nil
		}
	}

	c.api.logger.Warn(ctx, "No latest trade price, falling back to bar close", map[string]interface{}{"symbol": symbol})
	bars, err := c.GetBars(ctx, symbol, "1Min", 1)
	if err == nil && len(bars) > 0 {
		return bars[len(bars)-1].Close, nil
	}
	return 0, fmt.Errorf("%w: %s", ports.ErrNoPriceData, symbol)
}

// PlaceOrder submits a market order.
func (c *Client) PlaceOrder(ctx context.Context, req ports.OrderRequest) (*ports.OrderResponse, error) {
	return placeOrder(ctx, c.api, req)
}

// ClosePosition liquidates the entire position for the symbol.
func (c *Client) ClosePosition(ctx context.Context, symbol string) error {
	return closePosition(ctx, c.api, symbol)
}

// placeOrder and closePosition hit the trading API, which is shared by
// the equity and crypto adapters.

func placeOrder(ctx context.Context, a *api, req ports.OrderRequest) (*ports.OrderResponse, error) {
	side := "buy"
	if req.Side == domain.ActionSell {
		side = "sell"
	}
	dto := orderRequestDTO{
		Symbol:      req.Symbol,
		Qty:         req.Quantity,
		Side:        side,
		Type:        "market",
		TimeInForce: req.TimeInForce,
	}
	body, err := a.do(ctx, http.MethodPost, a.tradingURL+"/orders", dto)
	if err != nil {
		return nil, fmt.Errorf("place order %s: %w", req.Symbol, err)
	}
	var resp orderDTO
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("place order %s: %w: %v", req.Symbol, ports.ErrVenueUnavailable, err)
	}
	return &ports.OrderResponse{
		ID:     resp.ID,
		Symbol: resp.Symbol,
		Qty:    resp.Qty,
		Side:   resp.Side,
		Status: resp.Status,
	}, nil
}

func closePosition(ctx context.Context, a *api, symbol string) error {
	reqURL := fmt.Sprintf("%s/positions/%s", a.tradingURL, url.PathEscape(symbol))
	if _, err := a.do(ctx, http.MethodDelete, reqURL, nil); err != nil {
		return fmt.Errorf("close position %s: %w", symbol, err)
	}
	return nil
}

func convertBars(dtos []barDTO) []*domain.Bar {
	bars := make([]*domain.Bar, 0, len(dtos))
	for _, dto := range dtos {
		ts, err := time.Parse(time.RFC3339, dto.T)
		if err != nil {
			continue
		}
		bars = append(bars, &domain.Bar{
			Timestamp: ts,
			Open:      dto.O,
			High:      dto.H,
			Low:       dto.L,
			Close:     dto.C,
			Volume:    dto.V,
		})
	}
	return bars
}
