// Package config loads the service configuration from an optional YAML file
// and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/naka-gawa/github-leaderboard-badge/internal/usecase"
)

// Config is the top-level configuration for the badge service.
type Config struct {
	Port            int           `yaml:"port"`
	BadgePath       string        `yaml:"badge_path"`
	APIBaseURL      string        `yaml:"api_base_url"`     // Empty means api.github.com
	UserAgent       string        `yaml:"user_agent"`       // Sent on every upstream call
	Token           string        `yaml:"token"`            // Inline or ${ENV_VAR}; empty means anonymous
	Concurrency     int           `yaml:"concurrency"`      // Max simultaneous contributor fetches
	LeaderboardSize int           `yaml:"leaderboard_size"` // Rows on the badge
	RequestTimeout  time.Duration `yaml:"request_timeout"`  // Deadline for a whole badge request
	UpstreamTimeout time.Duration `yaml:"upstream_timeout"` // Deadline for a single upstream call
	CacheMaxAge     time.Duration `yaml:"cache_max_age"`    // Advertised in Cache-Control
}

// Default returns the configuration used when nothing else is specified.
func Default() Config {
	return Config{
		Port:            5000,
		BadgePath:       "/leaderboard-badge",
		UserAgent:       "github-leaderboard-badge",
		Concurrency:     4,
		LeaderboardSize: usecase.DefaultLeaderboardSize,
		RequestTimeout:  60 * time.Second,
		UpstreamTimeout: 10 * time.Second,
		CacheMaxAge:     time.Hour,
	}
}

// Load builds a configuration from defaults, the YAML file at path (skipped
// when path is empty) and the environment, in that order.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}
	cfg.Token = os.ExpandEnv(cfg.Token)

	if err := cfg.applyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnv overrides fields from PORT, GITHUB_TOKEN and GITHUB_API_URL.
func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		c.Port = port
	}
	if v := getenv("GITHUB_TOKEN"); v != "" {
		c.Token = v
	}
	if v := getenv("GITHUB_API_URL"); v != "" {
		c.APIBaseURL = v
	}
	return nil
}

// Validate rejects configurations the service cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if !strings.HasPrefix(c.BadgePath, "/") {
		errs = append(errs, fmt.Errorf("badge_path %q must start with /", c.BadgePath))
	}
	if c.Concurrency < 1 {
		errs = append(errs, errors.New("concurrency must be at least 1"))
	}
	if c.LeaderboardSize < 1 || c.LeaderboardSize > usecase.DefaultLeaderboardSize {
		errs = append(errs, fmt.Errorf("leaderboard_size must be between 1 and %d", usecase.DefaultLeaderboardSize))
	}
	if c.RequestTimeout <= 0 || c.UpstreamTimeout <= 0 {
		errs = append(errs, errors.New("timeouts must be positive"))
	}
	if c.CacheMaxAge < 0 {
		errs = append(errs, errors.New("cache_max_age must not be negative"))
	}
	if c.UserAgent == "" {
		errs = append(errs, errors.New("user_agent must not be empty"))
	}
	return errors.Join(errs...)
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}
