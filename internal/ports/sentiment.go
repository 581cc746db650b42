package ports

// SentimentProvider supplies a scalar sentiment score in [-1, 1] per
// instrument. Get is a synchronous cache read and always returns a value
// (0.0 when nothing has been cached yet); updates arrive asynchronously
// from a refresh producer the decision pipeline never sees.
type SentimentProvider interface {
	Get(symbol string) float64
}
