package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// envFile is loaded before the process environment is read. Existing
// environment variables are never overridden by it.
var envFile = ".env"

// parseEnv overlays Config with the variables a typical deployment of the
// blog sets:
//
//	PORT          listen port, becomes ":<PORT>"
//	CLIENT_URL    allowed CORS origin
//	DATABASE_URL  PostgreSQL DSN
//	JWT_SECRET    token signing secret
//	S3_BUCKET     snapshot bucket
//
// A missing .env file is not an error.
func parseEnv(cfg *Config) {
	_ = godotenv.Load(envFile)

	if v, ok := lookup("PORT"); ok {
		if strings.Contains(v, ":") {
			cfg.EndpointAddrHTTP = v
		} else {
			cfg.EndpointAddrHTTP = ":" + v
		}
	}
	if v, ok := lookup("CLIENT_URL"); ok {
		cfg.AllowedOrigin = v
	}
	if v, ok := lookup("DATABASE_URL"); ok {
		cfg.DatabaseDSN = v
	}
	if v, ok := lookup("JWT_SECRET"); ok {
		cfg.SecretKey = v
	}
	if v, ok := lookup("S3_BUCKET"); ok {
		cfg.S3Bucket = v
	}
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return strings.TrimSpace(v), true
}
