package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/tallmansamadam/ladybug-trading/internal/adapters/logger"
	"github.com/tallmansamadam/ladybug-trading/internal/domain"
)

// Config holds all application configuration.
type Config struct {
	// Alpaca API
	APIKey    string
	APISecret string
	IsPaper   bool

	// Cycle intervals
	EquityCycleInterval    time.Duration // e.g., 5m
	CryptoCycleInterval    time.Duration // e.g., 10m
	PortfolioSnapInterval  time.Duration // e.g., 60s
	SentimentRefreshPeriod time.Duration // e.g., 5m
	EquityInstrumentDelay  time.Duration // pause between instruments in an equity cycle
	CryptoInstrumentDelay  time.Duration // pause between instruments in a crypto cycle

	// Decision thresholds
	EquityBuyThreshold      float64 // signal above which to buy (e.g., 0.15)
	CryptoBuyThreshold      float64 // e.g., 0.20
	EquityProfitTakePercent float64 // e.g., 15.0
	CryptoProfitTakePercent float64 // e.g., 20.0

	// Position sizing
	EquityRiskFraction float64 // fraction of buying power per order (e.g., 0.05)
	CryptoRiskFraction float64 // e.g., 0.02
	EquityOrderCap     float64 // max dollars per order (e.g., 5000)
	CryptoOrderCap     float64 // e.g., 2000

	// Signal engine
	SignalJitter bool // optional bounded perturbation, off by default

	// Initial runtime state
	TradingMode          domain.TradingMode
	EquityTradingEnabled bool
	CryptoTradingEnabled bool

	// Database
	DBPath string

	// HTTP API
	ListenAddr string

	// Logging
	LogLevel logger.LogLevel
}

// LoadConfig loads configuration from environment variables (.env file).
func LoadConfig() (*Config, error) {
	// Load .env file, but don't fail if it doesn't exist (allow pure env vars)
	_ = godotenv.Load()

	cfg := &Config{}
	var errs []string

	// Alpaca API
	cfg.APIKey = getEnv("ALPACA_API_KEY", "")
	cfg.APISecret = getEnv("ALPACA_API_SECRET", "")
	cfg.IsPaper = getEnvAsBool("IS_PAPER", true) // Default to paper trading for safety
	if cfg.APIKey == "" {
		errs = append(errs, "ALPACA_API_KEY must be set")
	}
	if cfg.APISecret == "" {
		errs = append(errs, "ALPACA_API_SECRET must be set")
	}

	// Cycle intervals
	cfg.EquityCycleInterval = getEnvAsDuration("EQUITY_CYCLE_INTERVAL", 5*time.Minute)
	cfg.CryptoCycleInterval = getEnvAsDuration("CRYPTO_CYCLE_INTERVAL", 10*time.Minute)
	cfg.PortfolioSnapInterval = getEnvAsDuration("PORTFOLIO_SNAPSHOT_INTERVAL", time.Minute)
	cfg.SentimentRefreshPeriod = getEnvAsDuration("SENTIMENT_REFRESH_INTERVAL", 5*time.Minute)
	cfg.EquityInstrumentDelay = getEnvAsDuration("EQUITY_INSTRUMENT_DELAY", 300*time.Millisecond)
	cfg.CryptoInstrumentDelay = getEnvAsDuration("CRYPTO_INSTRUMENT_DELAY", 500*time.Millisecond)
	if cfg.EquityCycleInterval <= 0 || cfg.CryptoCycleInterval <= 0 || cfg.PortfolioSnapInterval <= 0 {
		errs = append(errs, "cycle intervals must be positive")
	}

	// Decision thresholds
	cfg.EquityBuyThreshold = getEnvAsFloat("EQUITY_BUY_THRESHOLD", 0.15)
	cfg.CryptoBuyThreshold = getEnvAsFloat("CRYPTO_BUY_THRESHOLD", 0.20)
	cfg.EquityProfitTakePercent = getEnvAsFloat("EQUITY_PROFIT_TAKE_PERCENT", 15.0)
	cfg.CryptoProfitTakePercent = getEnvAsFloat("CRYPTO_PROFIT_TAKE_PERCENT", 20.0)
	if cfg.EquityBuyThreshold <= 0 || cfg.EquityBuyThreshold >= 1 {
		errs = append(errs, "EQUITY_BUY_THRESHOLD must be between 0 and 1 (exclusive)")
	}
	if cfg.CryptoBuyThreshold <= 0 || cfg.CryptoBuyThreshold >= 1 {
		errs = append(errs, "CRYPTO_BUY_THRESHOLD must be between 0 and 1 (exclusive)")
	}
	if cfg.EquityProfitTakePercent <= 0 || cfg.CryptoProfitTakePercent <= 0 {
		errs = append(errs, "profit-take percentages must be positive")
	}

	// Position sizing
	cfg.EquityRiskFraction = getEnvAsFloat("EQUITY_RISK_FRACTION", 0.05)
	cfg.CryptoRiskFraction = getEnvAsFloat("CRYPTO_RISK_FRACTION", 0.02)
	cfg.EquityOrderCap = getEnvAsFloat("EQUITY_ORDER_CAP", 5000.0)
	cfg.CryptoOrderCap = getEnvAsFloat("CRYPTO_ORDER_CAP", 2000.0)
	if cfg.EquityRiskFraction <= 0 || cfg.EquityRiskFraction >= 1 {
		errs = append(errs, "EQUITY_RISK_FRACTION must be between 0 and 1 (exclusive)")
	}
	if cfg.CryptoRiskFraction <= 0 || cfg.CryptoRiskFraction >= 1 {
		errs = append(errs, "CRYPTO_RISK_FRACTION must be between 0 and 1 (exclusive)")
	}
	if cfg.EquityOrderCap <= 0 || cfg.CryptoOrderCap <= 0 {
		errs = append(errs, "order caps must be positive")
	}

	// Signal engine
	cfg.SignalJitter = getEnvAsBool("SIGNAL_JITTER", false)

	// Initial runtime state
	modeStr := getEnv("TRADING_MODE", string(domain.ModeHybrid))
	mode, err := domain.ParseTradingMode(modeStr)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid TRADING_MODE: %v", err))
	} else {
		cfg.TradingMode = mode
	}
	cfg.EquityTradingEnabled = getEnvAsBool("EQUITY_TRADING_ENABLED", true)
	cfg.CryptoTradingEnabled = getEnvAsBool("CRYPTO_TRADING_ENABLED", true)

	// Database
	cfg.DBPath = getEnv("DB_PATH", "./data/ladybug.db")
	if cfg.DBPath == "" {
		errs = append(errs, "DB_PATH must be set")
	}

	// HTTP API
	cfg.ListenAddr = getEnv("LISTEN_ADDR", ":8080")

	// Logging
	cfg.LogLevel = logger.ParseLevel(getEnv("LOG_LEVEL", "INFO"))

	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}

	return cfg, nil
}

// --- Env Var Helpers ---

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
