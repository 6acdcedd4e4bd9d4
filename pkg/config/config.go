package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Screening policy
	Screener ScreenerConfig

	// External APIs
	Quotes   QuotesConfig
	NSE      NSEConfig
	Twitter  TwitterConfig
	Reddit   RedditConfig
	Telegram TelegramConfig

	// Notifications
	Notify NotifyConfig

	// Scheduler
	ScanSchedule string

	// Logging
	LogLevel  string
	LogFormat string
}

// ScreenerConfig holds the screening thresholds and scan policy.
// The numeric defaults are business policy; override via env, do not edit here.
type ScreenerConfig struct {
	Universe        []string // tracked tickers (Yahoo symbols)
	BenchmarkSymbol string   // sector/index benchmark

	MinPumpPercent          float64 // minimum change% to qualify as a mover
	MaxDeliveryPercent      float64 // delivery% below this is speculative
	R2ProximityPercent      float64 // "near R2" when proximity <= this
	MinSectorOutperformance float64 // change% minus benchmark%, in points
	MaxMentions             int     // total mentions allowed for a silent surge

	ScanTimeout   time.Duration // wall-clock ceiling for one scan cycle
	MaxConcurrent int           // movers enriched in parallel
}

// QuotesConfig holds the quote/candle source configuration
type QuotesConfig struct {
	BaseURL string
}

// NSEConfig holds the delivery-data source configuration
type NSEConfig struct {
	BaseURL  string
	CacheTTL time.Duration
}

// TwitterConfig holds Twitter API configuration.
// An empty BearerToken disables the adapter (it returns no mentions).
type TwitterConfig struct {
	BaseURL     string
	BearerToken string
	CacheTTL    time.Duration
}

// RedditConfig holds Reddit search configuration
type RedditConfig struct {
	BaseURL   string
	UserAgent string
	CacheTTL  time.Duration
}

// TelegramConfig holds the public-channel mention source configuration.
// Channels is the list of t.me channel names to scan.
type TelegramConfig struct {
	BaseURL  string
	Channels []string
	CacheTTL time.Duration
}

// NotifyConfig holds the Telegram bot used for outbound alerts.
// Empty BotToken or ChatID means alerts are composed but never sent.
type NotifyConfig struct {
	BotToken string
	ChatID   string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8087"),
		Env:  getEnv("ENV", "development"),

		Screener: ScreenerConfig{
			Universe:        getEnvAsList("UNIVERSE", defaultUniverse),
			BenchmarkSymbol: getEnv("BENCHMARK_SYMBOL", "^NSEI"),

			MinPumpPercent:          getEnvAsFloat("MIN_PUMP_PERCENT", 4.0),
			MaxDeliveryPercent:      getEnvAsFloat("MAX_DELIVERY_PERCENT", 30.0),
			R2ProximityPercent:      getEnvAsFloat("R2_PROXIMITY_PERCENT", 1.0),
			MinSectorOutperformance: getEnvAsFloat("MIN_SECTOR_OUTPERFORMANCE", 2.0),
			MaxMentions:             getEnvAsInt("MAX_MENTIONS", 0),

			ScanTimeout:   getEnvAsDuration("SCAN_TIMEOUT", "60s"),
			MaxConcurrent: getEnvAsInt("SCAN_MAX_CONCURRENT", 8),
		},

		Quotes: QuotesConfig{
			BaseURL: getEnv("QUOTES_BASE_URL", "https://query1.finance.yahoo.com"),
		},

		NSE: NSEConfig{
			BaseURL:  getEnv("NSE_BASE_URL", "https://www.nseindia.com"),
			CacheTTL: getEnvAsDuration("NSE_CACHE_TTL", "3m"),
		},

		Twitter: TwitterConfig{
			BaseURL:     getEnv("TWITTER_BASE_URL", "https://api.twitter.com/2"),
			BearerToken: getEnv("TWITTER_BEARER_TOKEN", ""),
			CacheTTL:    getEnvAsDuration("TWITTER_CACHE_TTL", "2m"),
		},

		Reddit: RedditConfig{
			BaseURL:   getEnv("REDDIT_BASE_URL", "https://www.reddit.com"),
			UserAgent: getEnv("REDDIT_USER_AGENT", "surgescan/1.0"),
			CacheTTL:  getEnvAsDuration("REDDIT_CACHE_TTL", "2m"),
		},

		Telegram: TelegramConfig{
			BaseURL:  getEnv("TELEGRAM_FEED_BASE_URL", "https://t.me/s"),
			Channels: getEnvAsList("TELEGRAM_CHANNELS", nil),
			CacheTTL: getEnvAsDuration("TELEGRAM_CACHE_TTL", "2m"),
		},

		Notify: NotifyConfig{
			BotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
			ChatID:   getEnv("TELEGRAM_CHAT_ID", ""),
		},

		// Every 15 minutes (cron expression with seconds field)
		ScanSchedule: getEnv("SCAN_SCHEDULE", "0 */15 * * * *"),

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// defaultUniverse is the tracked NSE large/mid-cap set (Yahoo symbols)
var defaultUniverse = []string{
	"RELIANCE.NS", "TCS.NS", "HDFCBANK.NS", "INFY.NS", "ICICIBANK.NS",
	"SBIN.NS", "BHARTIARTL.NS", "ITC.NS", "LT.NS", "HINDUNILVR.NS",
	"BAJFINANCE.NS", "ADANIENT.NS", "TATAMOTORS.NS", "TATASTEEL.NS",
	"AXISBANK.NS", "KOTAKBANK.NS", "MARUTI.NS", "SUNPHARMA.NS",
	"WIPRO.NS", "HCLTECH.NS",
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if len(c.Screener.Universe) == 0 {
		return fmt.Errorf("UNIVERSE must contain at least one symbol")
	}

	if c.Screener.MinPumpPercent < 0 {
		return fmt.Errorf("MIN_PUMP_PERCENT must be >= 0")
	}

	if c.Screener.R2ProximityPercent <= 0 {
		return fmt.Errorf("R2_PROXIMITY_PERCENT must be > 0")
	}

	if c.Screener.MaxConcurrent <= 0 {
		return fmt.Errorf("SCAN_MAX_CONCURRENT must be > 0")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
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

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}

// getEnvAsList parses a comma-separated env var, trimming whitespace
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	parts := strings.Split(valueStr, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			values = append(values, p)
		}
	}

	if len(values) == 0 {
		return defaultValue
	}

	return values
}
