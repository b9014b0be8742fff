package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config holds runtime settings for the blog terminal client.
//
// Fields:
//   - APIBaseURL: base of the REST API, e.g. http://localhost:5000/api.
//   - RequestTimeout: upper bound for a single API request.
//   - OnlineCheckInterval: how often the client probes server reachability.
//   - DatabaseDSN: SQLite file that keeps the session between runs.
type Config struct {
	APIBaseURL          string
	RequestTimeout      time.Duration
	OnlineCheckInterval time.Duration
	DatabaseDSN         string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:5000/api"
	c.RequestTimeout = 10 * time.Second
	c.OnlineCheckInterval = 3 * time.Second
	c.DatabaseDSN = "blog.db"
}

// HealthURL is the server health endpoint, which lives next to /api rather
// than under it.
func (c *Config) HealthURL() string {
	u, err := url.Parse(strings.TrimRight(c.APIBaseURL, "/"))
	if err != nil {
		return strings.TrimRight(c.APIBaseURL, "/") + "/health"
	}
	u.Path = strings.TrimSuffix(u.Path, "/api") + "/health"
	u.RawQuery = ""
	return u.String()
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	if err := cfg.Validate(); err != nil {
		panic(err)
	}
	return cfg
}

// Validate rejects settings the client cannot run with.
func (c *Config) Validate() error {
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.OnlineCheckInterval <= 0 {
		return fmt.Errorf("online check interval must be positive, got %s", c.OnlineCheckInterval)
	}
	return nil
}
