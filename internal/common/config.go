package common

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string        `toml:"environment"` // "development" or "production"
	Server      ServerConfig  `toml:"server"`
	Storage     StorageConfig `toml:"storage"`
	Logging     LoggingConfig `toml:"logging"`
	Monitor     MonitorConfig `toml:"monitor"`
	Tickers     TickersConfig `toml:"tickers"`
	Market      MarketConfig  `toml:"market"`
}

type ServerConfig struct {
	Enabled bool   `toml:"enabled"`
	Port    int    `toml:"port" validate:"gte=0,lte=65535"`
	Host    string `toml:"host"`
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path string `toml:"path" validate:"required"` // Database directory path
}

type LoggingConfig struct {
	Level  string   `toml:"level" validate:"oneof=debug info warn error"` // "debug", "info", "warn", "error"
	Output []string `toml:"output"`                                      // "stdout", "file"
}

// MonitorConfig contains configuration for the filing monitor loop
type MonitorConfig struct {
	Source         string `toml:"source" validate:"oneof=feed scrape"` // Ingestion strategy
	FeedURL        string `toml:"feed_url" validate:"required"`        // Atom feed endpoint
	ScrapeURL      string `toml:"scrape_url"`                          // HTML listing page (scrape strategy)
	Window         string `toml:"window"`                              // Recency window, e.g. "60m"
	Schedule       string `toml:"schedule"`                            // Cron schedule format
	RequestTimeout string `toml:"request_timeout"`                     // Per-fetch HTTP timeout, e.g. "30s"
	UserAgent      string `toml:"user_agent"`                          // SEC requires a descriptive user agent
}

// TickersConfig contains configuration for the CIK to ticker mapping
type TickersConfig struct {
	Path string `toml:"path"` // Path to company_tickers.json
}

// MarketConfig contains configuration for the market data client
type MarketConfig struct {
	BaseURL        string `toml:"base_url"`
	RequestTimeout string `toml:"request_timeout"`
	RateLimit      int    `toml:"rate_limit" validate:"gte=1"` // Requests per second
	MaxHeadlines   int    `toml:"max_headlines" validate:"gte=0,lte=10"`
}

// NewDefaultConfig returns the default configuration
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Enabled: true,
			Port:    8360,
			Host:    "localhost",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data/edgar",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout"},
		},
		Monitor: MonitorConfig{
			Source:         "feed",
			FeedURL:        "https://www.sec.gov/cgi-bin/browse-edgar?action=getcurrent&type=&company=&dateb=&owner=include&start=0&count=100&output=atom",
			ScrapeURL:      "https://www.sec.gov/cgi-bin/browse-edgar?action=getcurrent&type=&company=&dateb=&owner=include&start=0&count=100",
			Window:         "60m",
			Schedule:       "*/1 * * * *",
			RequestTimeout: "30s",
			UserAgent:      "edgar-monitor/1.0 (research; contact@example.com)",
		},
		Tickers: TickersConfig{
			Path: "./company_tickers.json",
		},
		Market: MarketConfig{
			BaseURL:        "https://query2.finance.yahoo.com",
			RequestTimeout: "30s",
			RateLimit:      5,
			MaxHeadlines:   3,
		},
	}
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> env. Later files override earlier
// files; environment variables override all files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the configuration against struct validation tags plus
// the duration fields that cannot be expressed as tags.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	for name, value := range map[string]string{
		"monitor.window":          c.Monitor.Window,
		"monitor.request_timeout": c.Monitor.RequestTimeout,
		"market.request_timeout":  c.Market.RequestTimeout,
	} {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid configuration: %s %q: %w", name, value, err)
		}
	}

	if c.Monitor.Source == "scrape" && c.Monitor.ScrapeURL == "" {
		return fmt.Errorf("invalid configuration: monitor.scrape_url is required when monitor.source is \"scrape\"")
	}

	return nil
}

// WindowDuration returns the parsed recency window.
func (c *MonitorConfig) WindowDuration() time.Duration {
	d, err := time.ParseDuration(c.Window)
	if err != nil {
		return 60 * time.Minute
	}
	return d
}

// RequestTimeoutDuration returns the parsed per-fetch timeout.
func (c *MonitorConfig) RequestTimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.RequestTimeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// RequestTimeoutDuration returns the parsed market client timeout.
func (c *MarketConfig) RequestTimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.RequestTimeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("EDGAR_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Server configuration
	if port := os.Getenv("EDGAR_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("EDGAR_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	// Storage configuration
	if badgerPath := os.Getenv("EDGAR_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}

	// Logging configuration
	if level := os.Getenv("EDGAR_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	// Monitor configuration
	if source := os.Getenv("EDGAR_MONITOR_SOURCE"); source != "" {
		config.Monitor.Source = source
	}
	if feedURL := os.Getenv("EDGAR_MONITOR_FEED_URL"); feedURL != "" {
		config.Monitor.FeedURL = feedURL
	}
	if scrapeURL := os.Getenv("EDGAR_MONITOR_SCRAPE_URL"); scrapeURL != "" {
		config.Monitor.ScrapeURL = scrapeURL
	}
	if window := os.Getenv("EDGAR_MONITOR_WINDOW"); window != "" {
		config.Monitor.Window = window
	}
	if schedule := os.Getenv("EDGAR_MONITOR_SCHEDULE"); schedule != "" {
		config.Monitor.Schedule = schedule
	}
	if timeout := os.Getenv("EDGAR_MONITOR_REQUEST_TIMEOUT"); timeout != "" {
		config.Monitor.RequestTimeout = timeout
	}
	if userAgent := os.Getenv("EDGAR_MONITOR_USER_AGENT"); userAgent != "" {
		config.Monitor.UserAgent = userAgent
	}

	// Tickers configuration
	if path := os.Getenv("EDGAR_TICKERS_PATH"); path != "" {
		config.Tickers.Path = path
	}

	// Market configuration
	if baseURL := os.Getenv("EDGAR_MARKET_BASE_URL"); baseURL != "" {
		config.Market.BaseURL = baseURL
	}
	if timeout := os.Getenv("EDGAR_MARKET_REQUEST_TIMEOUT"); timeout != "" {
		config.Market.RequestTimeout = timeout
	}
	if rateLimit := os.Getenv("EDGAR_MARKET_RATE_LIMIT"); rateLimit != "" {
		if rl, err := strconv.Atoi(rateLimit); err == nil {
			config.Market.RateLimit = rl
		}
	}
}

// ApplyFlagOverrides applies command-line flag overrides (highest priority)
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port != 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}
