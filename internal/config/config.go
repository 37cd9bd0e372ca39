package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Scrape target and markup layout. These are not read from the environment.
const (
	TargetURL = "https://qazaqrepublic.com/en/shop?category=sale"
	Origin    = "https://qazaqrepublic.com"

	ItemSelector  = ".catalog_item"
	NameSelector  = ".catalog_item__name"
	PriceSelector = ".catalog_item__price"

	UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

	FetchTimeout = 10 * time.Second
	FetchRetries = 3

	// Minute 0 of every hour.
	Schedule = "0 * * * *"
)

const (
	FetchModeHTTP    = "http"
	FetchModeBrowser = "browser"
)

type Config struct {
	// Port maps to PORT.
	Port int `envconfig:"PORT" default:"3000"`

	// SnapshotPath is where each run writes its products.
	SnapshotPath string `envconfig:"SNAPSHOT_PATH" default:"products.json"`

	// FetchMode selects a plain HTTP client or a headless browser.
	FetchMode string `envconfig:"FETCH_MODE" default:"http"`

	// RespectRobots consults robots.txt before each fetch.
	RespectRobots bool `envconfig:"RESPECT_ROBOTS" default:"false"`

	// KeepOnEmpty leaves the previous snapshot in place when a run finds nothing.
	KeepOnEmpty bool `envconfig:"KEEP_ON_EMPTY" default:"false"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load processes environment variables and populates the Config struct.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err != nil {
		if _, statErr := os.Stat(".env"); statErr == nil {
			log.Warn("found .env but could not load it", "err", err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	c.FetchMode = strings.ToLower(strings.TrimSpace(c.FetchMode))
	switch c.FetchMode {
	case FetchModeHTTP, FetchModeBrowser:
	default:
		return fmt.Errorf("invalid FETCH_MODE %q: want %q or %q", c.FetchMode, FetchModeHTTP, FetchModeBrowser)
	}
	if strings.TrimSpace(c.SnapshotPath) == "" {
		return fmt.Errorf("SNAPSHOT_PATH must not be empty")
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
