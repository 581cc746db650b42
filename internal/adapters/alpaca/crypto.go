package alpaca

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/tallmansamadam/ladybug-trading/internal/domain"
	"github.com/tallmansamadam/ladybug-trading/internal/ports"
)

// CryptoClient implements ports.MarketDataGateway for Alpaca crypto
// pairs. Orders and positions go through the same trading API as
// equities; market data lives under the v1beta3 crypto endpoints.
type CryptoClient struct {
	api *api
}

// NewCrypto creates the crypto gateway adapter.
func NewCrypto(cfg Config) (*CryptoClient, error) {
	a, err := newAPI(cfg)
	if err != nil {
		return nil, err
	}
	a.logger.Info(context.Background(), "Alpaca crypto client configured", map[string]interface{}{"tradingURL": a.tradingURL})
	return &CryptoClient{api: a}, nil
}

// GetAccount retrieves the current account summary.
func (c *CryptoClient) GetAccount(ctx context.Context) (*domain.AccountSnapshot, error) {
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

// GetPositions retrieves open positions, restricted to crypto pairs.
func (c *CryptoClient) GetPositions(ctx context.Context) ([]*domain.Position, error) {
	body, err := c.api.do(ctx, http.MethodGet, c.api.tradingURL+"/positions", nil)
	if err != nil {
		c.api.logger.Warn(ctx, "Crypto positions fetch failed, treating as empty", map[string]interface{}{"error": err.Error()})
		return []*domain.Position{}, nil
	}
	var dtos []positionDTO
	if err := json.Unmarshal(body, &dtos); err != nil {
		c.api.logger.Warn(ctx, "Crypto positions parse failed, treating as empty", map[string]interface{}{"error": err.Error()})
		return []*domain.Position{}, nil
	}
	positions := make([]*domain.Position, 0, len(dtos))
	for _, dto := range dtos {
		if domain.ClassifySymbol(dto.Symbol) != domain.AssetCrypto {
			continue
		}
		positions = append(positions, &domain.Position{
			Symbol:        dto.Symbol,
			AssetClass:    domain.AssetCrypto,
			Quantity:      parseFloat(dto.Qty),
			EntryPrice:    parseFloat(dto.AvgEntryPrice),
			CurrentPrice:  parseFloat(dto.CurrentPrice),
			UnrealizedPNL: parseFloat(dto.UnrealizedPL),
		})
	}
	return positions, nil
}

// GetBars retrieves historical crypto bars, oldest first. Empty on failure.
func (c *CryptoClient) GetBars(ctx context.Context, symbol, timeframe string, limit int) ([]*domain.Bar, error) {
	q := url.Values{}
	q.Set("symbols", symbol)
	q.Set("timeframe", timeframe)
	q.Set("limit", fmt.Sprintf("%d", limit))
	reqURL := fmt.Sprintf("%s/crypto/us/bars?%s", cryptoDataURL, q.Encode())

	body, err := c.api.do(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		c.api.logger.Warn(ctx, "Crypto bars fetch failed", map[string]interface{}{"symbol": symbol, "error": err.Error()})
		return []*domain.Bar{}, nil
	}
	var dto cryptoBarsDTO
	if err := json.Unmarshal(body, &dto); err != nil {
		c.api.logger.Warn(ctx, "Crypto bars parse failed", map[string]interface{}{"symbol": symbol, "error": err.Error()})
		return []*domain.Bar{}, nil
	}
	return convertBars(dto.Bars[symbol]), nil
}

// GetLatestPrice tries the latest quote (ask, then bid) and falls back to
// the latest minute bar close.
func (c *CryptoClient) GetLatestPrice(ctx context.Context, symbol string) (float64, error) {
	q := url.Values{}
	q.Set("symbols", symbol)
	reqURL := fmt.Sprintf("%s/crypto/us/latest/quotes?%s", cryptoDataURL, q.Encode())

	body, err := c.api.do(ctx, http.MethodGet, reqURL, nil)
	if err == nil {
		var dto cryptoQuotesDTO
		if jsonErr := json.Unmarshal(body, &dto); jsonErr == nil {
			if quote, ok := dto.Quotes[symbol]; ok {
				if quote.AskPrice > 0 {
					return quote.AskPrice, nil
				}
				if quote.BidPrice > 0 {
					return quote.BidPrice, nil
				}
			}
		}
	}

	c.api.logger.Warn(ctx, "No crypto quote, falling back to bar close", map[string]interface{}{"symbol": symbol})
	bars, err := c.GetBars(ctx, symbol, "1Min", 1)
	if err == nil && len(bars) > 0 {
		return bars[len(bars)-1].Close, nil
	}
	return 0, fmt.Errorf("%w: %s", ports.ErrNoPriceData, symbol)
}

// PlaceOrder submits a market order.
func (c *CryptoClient) PlaceOrder(ctx context.Context, req ports.OrderRequest) (*ports.OrderResponse, error) {
	return placeOrder(ctx, c.api, req)
}

// ClosePosition liquidates the entire position for the symbol.
func (c *CryptoClient) ClosePosition(ctx context.Context, symbol string) error {
	return closePosition(ctx, c.api, symbol)
}
