// Package config handles configuration for the blog server, including
// defaults, a .env/environment overlay, a JSON file overlay and
// command-line flags.
package config

import "time"

// Config holds runtime settings for the blog server.
//
// Fields:
//   - EndpointAddrHTTP: bind address for the REST API.
//   - AllowedOrigin: the single browser origin allowed by CORS.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty selects in-memory storage.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use the default in prod.
//   - AccessTokenValidityDuration / RefreshTokenValidityDuration: token lifetimes.
//   - RateLimitRPS / RateLimitBurst: per-client request budget; RPS <= 0 disables limiting.
//   - SeedPosts: put the welcome post into an empty in-memory store.
//   - S3*: optional snapshot target for the in-memory store; empty S3Bucket disables it.
type Config struct {
	EndpointAddrHTTP             string
	AllowedOrigin                string
	DatabaseDSN                  string
	SecretKey                    string
	AccessTokenValidityDuration  time.Duration
	RefreshTokenValidityDuration time.Duration
	RateLimitRPS                 float64
	RateLimitBurst               int
	SeedPosts                    bool
	S3RootUser                   string
	S3RootPassword               string
	S3Bucket                     string
	S3Region                     string
	S3BaseEndpoint               string
	S3SnapshotKey                string
}

// LoadDefaults populates Config with development defaults.
// NOTE: SecretKey must be overridden outside of development.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":5000"
	c.AllowedOrigin = "http://localhost:5173"
	c.DatabaseDSN = ""
	c.SecretKey = "secretKey"
	c.AccessTokenValidityDuration = 24 * time.Hour
	c.RefreshTokenValidityDuration = 7 * 24 * time.Hour
	c.RateLimitRPS = 20
	c.RateLimitBurst = 40
	c.SeedPosts = true
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = ""
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
	c.S3SnapshotKey = "snapshots/posts.json"
}

// LoadConfig builds a Config by applying defaults, then the environment
// (including a .env file in the working directory), then an optional JSON
// file and finally command-line flags. Later sources win.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
