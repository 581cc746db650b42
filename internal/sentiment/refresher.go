package sentiment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/tallmansamadam/ladybug-trading/internal/metrics"
	"github.com/tallmansamadam/ladybug-trading/internal/ports"
)

const redditSearchURL = "https://www.reddit.com/r/wallstreetbets/search.json"

// SymbolSource supplies the symbols the refresher should track. The
// runtime state implements it, so dashboard edits to the tracked list
// are picked up on the next refresh pass.
type SymbolSource interface {
	NewsSymbols() []string
}

// RefresherConfig holds configuration for the sentiment refresher.
type RefresherConfig struct {
	Interval  time.Duration // refresh period, default 5m
	UserAgent string
	Logger    ports.Logger
}

// Refresher periodically derives a crude sentiment score per tracked
// symbol from Reddit search results and writes it into the cache. It is
// the cache's sole producer.
type Refresher struct {
	cache      *Cache
	symbols    SymbolSource
	httpClient *http.Client
	limiter    *rate.Limiter
	interval   time.Duration
	userAgent  string
	logger     ports.Logger
}

// NewRefresher creates the sentiment refresh producer.
func NewRefresher(cfg RefresherConfig, cache *Cache, symbols SymbolSource) (*Refresher, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for sentiment refresher")
	}
	if cache == nil || symbols == nil {
		return nil, fmt.Errorf("cache and symbol source are required for sentiment refresher")
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "LadyBug Trading Engine 1.0"
	}
	return &Refresher{
		cache:      cache,
		symbols:    symbols,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(1), 1), // reddit is unauthenticated, keep it slow
		interval:   interval,
		userAgent:  userAgent,
		logger:     cfg.Logger,
	}, nil
}

// Run refreshes sentiment on a fixed interval until the context is
// canceled. Fetch failures are logged and never stop the loop.
func (r *Refresher) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info(ctx, "Sentiment refresher stopped")
			return
		case <-ticker.C:
		}

		for _, symbol := range r.symbols.NewsSymbols() {
			score, err := r.fetch(ctx, symbol)
			if err != nil {
				r.logger.Warn(ctx, "Sentiment fetch failed", map[string]interface{}{"symbol": symbol, "error": err.Error()})
				continue
			}
			r.cache.Set(symbol, score)
			metrics.SentimentScore.WithLabelValues(symbol).Set(score)
			r.logger.Debug(ctx, "Sentiment updated", map[string]interface{}{"symbol": symbol, "score": score})
		}
	}
}

type redditListing struct {
	Data struct {
		Children []struct {
			Data struct {
				Score int `json:"score"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// fetch derives a sentiment score from the mean post score of the
// symbol's hot search results, scaled down and clamped to [-1, 1].
func (r *Refresher) fetch(ctx context.Context, symbol string) (float64, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return 0, fmt.Errorf("%w: %v", ports.ErrContextCanceled, err)
	}

	q := url.Values{}
	q.Set("q", symbol)
	q.Set("sort", "hot")
	q.Set("limit", "25")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, redditSearchURL+"?"+q.Encode(), nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ports.ErrConnectionFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Treat a throttled or unavailable source as neutral, not an error.
		return 0, nil
	}

	var listing redditListing
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return 0, fmt.Errorf("decoding reddit response: %w", err)
	}

	posts := listing.Data.Children
	if len(posts) == 0 {
		return 0, nil
	}
	total := 0
	for _, post := range posts {
		total += post.Data.Score
	}
	score := (float64(total) / float64(len(posts))) / 100.0
	if score > 1 {
		score = 1
	} else if score < -1 {
		score = -1
	}
	return score, nil
}
