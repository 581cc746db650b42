package sentiment

import "sync"

// Cache is an owned concurrent store of per-symbol sentiment scores in
// [-1, 1]. The refresher is the only writer; the decision pipeline only
// reads. Get never blocks on a refresh and defaults to neutral.
type Cache struct {
	mu     sync.RWMutex
	scores map[string]float64
}

// NewCache creates an empty sentiment cache.
func NewCache() *Cache {
	return &Cache{scores: make(map[string]float64)}
}

// Get returns the cached score for the symbol, or 0.0 (neutral) when
// nothing has been cached yet.
func (c *Cache) Get(symbol string) float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.scores[symbol]
}

// Set stores the score for the symbol.
func (c *Cache) Set(symbol string, score float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scores[symbol] = score
}
