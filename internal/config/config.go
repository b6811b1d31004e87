// Package config loads the YAML configuration file: the roster, API and
// pacing settings, cache lifetimes, and the server address.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from YAML strings like
// "500ms" or "1h".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the top-level configuration document.
type Config struct {
	Players    map[string]int64 `yaml:"players"`
	API        APIConfig        `yaml:"api"`
	WindowDays int              `yaml:"window_days"`
	Cache      CacheConfig      `yaml:"cache"`
	AvatarDir  string           `yaml:"avatar_dir"`
	Server     ServerConfig     `yaml:"server"`
}

// APIConfig configures the Stratz client and fetch pacing.
type APIConfig struct {
	URL         string   `yaml:"url"`
	Token       string   `yaml:"token"`
	PageSize    int      `yaml:"page_size"`
	PageCeiling int      `yaml:"page_ceiling"`
	Timeout     Duration `yaml:"timeout"`
	PagePace    Duration `yaml:"page_pace"`
	PlayerPace  Duration `yaml:"player_pace"`
}

// CacheConfig selects the cache backend and lifetimes. An empty Path
// selects the in-memory store.
type CacheConfig struct {
	Path      string   `yaml:"path"`
	MergedTTL Duration `yaml:"merged_ttl"`
	RawTTL    Duration `yaml:"raw_ttl"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// Load reads and validates the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()

	if len(cfg.Players) == 0 {
		return nil, fmt.Errorf("config: no players defined")
	}
	if cfg.API.PageSize > 100 {
		return nil, fmt.Errorf("config: page_size %d exceeds the API maximum of 100", cfg.API.PageSize)
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.API.PageSize <= 0 {
		c.API.PageSize = 50
	}
	if c.API.PageCeiling <= 0 {
		c.API.PageCeiling = 5
	}
	if c.API.Timeout <= 0 {
		c.API.Timeout = Duration(10 * time.Second)
	}
	if c.API.PagePace == 0 {
		c.API.PagePace = Duration(500 * time.Millisecond)
	}
	if c.API.PlayerPace == 0 {
		c.API.PlayerPace = Duration(2 * time.Second)
	}
	if c.WindowDays <= 0 {
		c.WindowDays = 365
	}
	if c.Cache.MergedTTL <= 0 {
		c.Cache.MergedTTL = Duration(time.Hour)
	}
	if c.Cache.RawTTL <= 0 {
		c.Cache.RawTTL = Duration(15 * time.Minute)
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
}

// ResolveToken returns the Stratz bearer token from the STRATZ_API_TOKEN
// environment variable, the config file, or ~/.dotastats/stratz_token,
// in that order.
func (c *Config) ResolveToken() (string, error) {
	if v := os.Getenv("STRATZ_API_TOKEN"); v != "" {
		return v, nil
	}
	if c.API.Token != "" {
		return c.API.Token, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(filepath.Join(home, ".dotastats", "stratz_token"))
	if err != nil {
		return "", fmt.Errorf("stratz token not found: set STRATZ_API_TOKEN, api.token in the config, or create ~/.dotastats/stratz_token")
	}
	return strings.TrimSpace(string(data)), nil
}
