package alpaca

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/tallmansamadam/ladybug-trading/internal/ports"
)

const (
	tradingURLLive  = "https://api.alpaca.markets/v2"
	tradingURLPaper = "https://paper-api.alpaca.markets/v2"
	stockDataURL    = "https://data.alpaca.markets/v2"
	cryptoDataURL   = "https://data.alpaca.markets/v1beta3"
)

// Config holds configuration shared by the Alpaca gateway adapters.
type Config struct {
	APIKey          string
	APISecret       string
	IsPaper         bool
	Logger          ports.Logger
	RequestTimeout  time.Duration // per-request timeout, default 15s
	RateLimitPerSec float64       // request pacing, default 3/s
	RateLimitBurst  int           // default 2
}

// api is the HTTP core shared by the equity and crypto adapters: keyed
// headers, request pacing and venue error mapping in one place.
type api struct {
	httpClient *http.Client
	apiKey     string
	apiSecret  string
	tradingURL string
	limiter    *rate.Limiter
	logger     ports.Logger
}

func newAPI(cfg Config) (*api, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for Alpaca client")
	}
	if cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, fmt.Errorf("%w: Alpaca API credentials missing", ports.ErrConfigurationError)
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	perSec := cfg.RateLimitPerSec
	if perSec <= 0 {
		perSec = 3
	}
	burst := cfg.RateLimitBurst
	if burst <= 0 {
		burst = 2
	}

	tradingURL := tradingURLLive
	if cfg.IsPaper {
		tradingURL = tradingURLPaper
	}

	return &api{
		httpClient: &http.Client{Timeout: timeout},
		apiKey:     cfg.APIKey,
		apiSecret:  cfg.APISecret,
		tradingURL: tradingURL,
		limiter:    rate.NewLimiter(rate.Limit(perSec), burst),
		logger:     cfg.Logger,
	}, nil
}

// do performs one paced, authenticated request and returns the response
// body. Non-2xx statuses are mapped onto the standard ports errors with
// the venue's message preserved in the wrap.
func (a *api) do(ctx context.Context, method, url string, body interface{}) ([]byte, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ports.ErrContextCanceled, err)
	}

	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%w: encoding request body: %v", ports.ErrInvalidRequest, err)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ports.ErrInvalidRequest, err)
	}
	req.Header.Set("APCA-API-KEY-ID", a.apiKey)
	req.Header.Set("APCA-API-SECRET-KEY", a.apiSecret)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ports.ErrConnectionFailed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ports.ErrVenueUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return respBody, a.mapStatus(resp.StatusCode, respBody)
	}
	return respBody, nil
}

// mapStatus translates venue HTTP statuses into standardized ports errors.
func (a *api) mapStatus(status int, body []byte) error {
	msg := string(body)
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w: %s", ports.ErrAuthenticationFailed, msg)
	case status == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ports.ErrNotFound, msg)
	case status == http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %s", ports.ErrOrderRejected, msg)
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", ports.ErrRateLimited, msg)
	case status >= 500:
		return fmt.Errorf("%w: status %d: %s", ports.ErrVenueUnavailable, status, msg)
	default:
		return fmt.Errorf("%w: status %d: %s", ports.ErrUnknown, status, msg)
	}
}

// parseFloat converts the venue's stringly-typed numeric fields. Alpaca
// reports money and quantities as JSON strings.
func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
