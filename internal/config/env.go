package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// ConfigPathVar names the variable pointing at an optional YAML config file
const ConfigPathVar = "SONGDL_CONFIG"

// Env is deployment configuration: backend endpoints and credentials.
// User-facing choices live in Settings.
type Env struct {
	YouTube     YouTubeEnv `yaml:"youtube"`
	Cache       CacheEnv   `yaml:"search_cache"`
	Bridge      BridgeEnv  `yaml:"bridge"`
	DownloadDir string     `yaml:"download_dir" envconfig:"SONGDL_DOWNLOAD_DIR"`
}

// YouTubeEnv configures the YouTube Data API client
type YouTubeEnv struct {
	APIKey    string        `yaml:"api_key" envconfig:"YOUTUBE_API_KEY"`
	SearchURL string        `yaml:"search_url" envconfig:"YOUTUBE_SEARCH_URL"`
	Timeout   time.Duration `yaml:"timeout" envconfig:"YOUTUBE_TIMEOUT"`
	RateLimit float64       `yaml:"rate_limit" envconfig:"YOUTUBE_RATE_LIMIT"` // requests per second, 0 disables
}

// CacheEnv configures the search result cache
type CacheEnv struct {
	Size int           `yaml:"size" envconfig:"SEARCH_CACHE_SIZE"`
	TTL  time.Duration `yaml:"ttl" envconfig:"SEARCH_CACHE_TTL"`
}

// BridgeEnv configures the HTTP bridge between the UI and the backend
type BridgeEnv struct {
	ListenAddr string        `yaml:"listen_addr" envconfig:"SONGDL_LISTEN_ADDR"`
	URL        string        `yaml:"url" envconfig:"SONGDL_BRIDGE_URL"` // remote backend for the desktop app
	Timeout    time.Duration `yaml:"timeout" envconfig:"SONGDL_BRIDGE_TIMEOUT"`
}

// DefaultEnv returns the configuration used when nothing overrides it
func DefaultEnv() Env {
	return Env{
		YouTube: YouTubeEnv{
			SearchURL: "https://www.googleapis.com/youtube/v3/search",
			Timeout:   10 * time.Second,
			RateLimit: 5,
		},
		Cache: CacheEnv{
			Size: 128,
			TTL:  10 * time.Minute,
		},
		Bridge: BridgeEnv{
			ListenAddr: "127.0.0.1:8765",
			Timeout:    30 * time.Minute,
		},
	}
}

// LoadEnv reads configuration from an optional YAML file and the environment.
// Environment variables override file values, which override defaults.
func LoadEnv(configPath string) (*Env, error) {
	cfg := DefaultEnv()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

// Validate rejects values no component can work with
func (e *Env) Validate() error {
	if e.YouTube.Timeout < 0 {
		return fmt.Errorf("YOUTUBE_TIMEOUT must not be negative")
	}
	if e.YouTube.RateLimit < 0 {
		return fmt.Errorf("YOUTUBE_RATE_LIMIT must not be negative")
	}
	if e.Cache.Size < 0 {
		return fmt.Errorf("SEARCH_CACHE_SIZE must not be negative")
	}
	if e.Bridge.Timeout < 0 {
		return fmt.Errorf("SONGDL_BRIDGE_TIMEOUT must not be negative")
	}
	return nil
}

// UsesRemoteBridge reports whether the desktop app should talk to a remote backend
func (e *Env) UsesRemoteBridge() bool {
	return e.Bridge.URL != ""
}
