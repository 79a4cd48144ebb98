package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
)

// ErrMissingToken is returned when the bot token is not configured.
var ErrMissingToken = errors.New("DISCORD_TOKEN not found")

const (
	ProviderYahoo    = "yahoo"
	ProviderLongport = "longport"
)

type Config struct {
	DiscordToken   string        `json:"-"`
	ChannelID      string        `json:"channel_id"`
	CommandPrefix  string        `json:"command_prefix"`
	ReportInterval time.Duration `json:"report_interval"`
	Presence       string        `json:"presence"`

	QuoteProvider    string `json:"quote_provider"`
	WatchlistFile    string `json:"watchlist_file"`
	ConversionSymbol string `json:"conversion_symbol"`

	// Longport API Configuration
	LongportAppKey      string `json:"-"`
	LongportAppSecret   string `json:"-"`
	LongportAccessToken string `json:"-"`

	NewsEndpoint string        `json:"news_endpoint"`
	NewsLanguage string        `json:"news_language"`
	NewsCountry  string        `json:"news_country"`
	NewsLimit    int           `json:"news_limit"`
	HTTPTimeout  time.Duration `json:"http_timeout"`

	LogLevel string `json:"log_level"`
	Debug    bool   `json:"debug"`
}

func DefaultConfig() *Config {
	cfg := &Config{
		ChannelID:      "1466556480395280424",
		CommandPrefix:  "!",
		ReportInterval: time.Hour,
		Presence:       "Stock Market 📉",

		QuoteProvider:    ProviderYahoo,
		ConversionSymbol: "USDTHB=X",

		NewsEndpoint: "https://news.google.com/rss/search",
		NewsLanguage: "en-US",
		NewsCountry:  "US",
		NewsLimit:    5,
		HTTPTimeout:  30 * time.Second,

		LogLevel: "info",
	}

	// Load environment variables from .env file
	_ = godotenv.Load()

	// Override with environment variables if they exist
	cfg.loadFromEnv()

	return cfg
}

func (c *Config) loadFromEnv() {
	if val := os.Getenv("DISCORD_TOKEN"); val != "" {
		c.DiscordToken = val
	}
	if val := os.Getenv("STOCK_CHANNEL_ID"); val != "" {
		c.ChannelID = val
	}
	if val := os.Getenv("COMMAND_PREFIX"); val != "" {
		c.CommandPrefix = val
	}
	if val := os.Getenv("REPORT_INTERVAL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			c.ReportInterval = d
		}
	}
	if val := os.Getenv("BOT_PRESENCE"); val != "" {
		c.Presence = val
	}

	if val := os.Getenv("QUOTE_PROVIDER"); val != "" {
		c.QuoteProvider = strings.ToLower(strings.TrimSpace(val))
	}
	if val := os.Getenv("WATCHLIST_FILE"); val != "" {
		c.WatchlistFile = val
	}
	if val := os.Getenv("CONVERSION_SYMBOL"); val != "" {
		c.ConversionSymbol = val
	}

	if val := os.Getenv("LONGPORT_APP_KEY"); val != "" {
		c.LongportAppKey = val
	}
	if val := os.Getenv("LONGPORT_APP_SECRET"); val != "" {
		c.LongportAppSecret = val
	}
	if val := os.Getenv("LONGPORT_ACCESS_TOKEN"); val != "" {
		c.LongportAccessToken = val
	}

	if val := os.Getenv("NEWS_ENDPOINT"); val != "" {
		c.NewsEndpoint = val
	}
	if val := os.Getenv("NEWS_LANGUAGE"); val != "" {
		c.NewsLanguage = val
	}
	if val := os.Getenv("NEWS_COUNTRY"); val != "" {
		c.NewsCountry = val
	}
	if val := os.Getenv("NEWS_LIMIT"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.NewsLimit = v
		}
	}
	if val := os.Getenv("HTTP_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			c.HTTPTimeout = d
		}
	}

	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.LogLevel = val
	}
	if val := os.Getenv("MARKETWATCH_DEBUG"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.Debug = enabled
		}
	}
}

// DefaultWatchlistPath is where a custom watchlist is picked up when
// WATCHLIST_FILE is not set.
func DefaultWatchlistPath() string {
	return filepath.Join(xdg.ConfigHome, "marketwatch", "watchlist.yaml")
}

// Validate checks value ranges. The token is checked separately by
// RequireToken because one-shot CLI commands do not need it.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.CommandPrefix) == "" {
		return fmt.Errorf("command prefix cannot be empty")
	}
	if c.ReportInterval < time.Minute {
		return fmt.Errorf("report interval must be at least 1m, got %s", c.ReportInterval)
	}
	switch c.QuoteProvider {
	case ProviderYahoo, ProviderLongport:
	default:
		return fmt.Errorf("unknown quote provider %q", c.QuoteProvider)
	}
	if c.NewsLimit <= 0 || c.NewsLimit > 25 {
		return fmt.Errorf("news limit must be between 1 and 25, got %d", c.NewsLimit)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http timeout must be positive")
	}
	return nil
}

// RequireToken fails when the bot cannot authenticate.
func (c *Config) RequireToken() error {
	if strings.TrimSpace(c.DiscordToken) == "" {
		return ErrMissingToken
	}
	return nil
}

// Masked returns the token with everything but the last four characters hidden.
func (c *Config) Masked() string {
	t := c.DiscordToken
	if len(t) <= 4 {
		return strings.Repeat("*", len(t))
	}
	return strings.Repeat("*", len(t)-4) + t[len(t)-4:]
}
