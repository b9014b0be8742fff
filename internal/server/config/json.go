package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/gophblog/internal/flagx"
	"github.com/dmitrijs2005/gophblog/internal/timex"
)

// JsonConfig is the on-disk shape of the server config file. Durations use
// timex.Duration so "24h" and integer nanoseconds are both accepted. Pointer
// fields distinguish "absent" from a zero value.
type JsonConfig struct {
	EndpointAddrHTTP             string          `json:"endpoint_addr_http"`
	AllowedOrigin                string          `json:"allowed_origin"`
	DatabaseDSN                  string          `json:"database_dsn"`
	SecretKey                    string          `json:"secret_key"`
	AccessTokenValidityDuration  *timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration *timex.Duration `json:"refresh_token_validity_duration"`
	RateLimitRPS                 *float64        `json:"rate_limit_rps"`
	RateLimitBurst               *int            `json:"rate_limit_burst"`
	SeedPosts                    *bool           `json:"seed_posts"`
	S3RootUser                   string          `json:"s3_root_user"`
	S3RootPassword               string          `json:"s3_root_password"`
	S3Bucket                     string          `json:"s3_bucket"`
	S3Region                     string          `json:"s3_region"`
	S3BaseEndpoint               string          `json:"s3_base_endpoint"`
	S3SnapshotKey                string          `json:"s3_snapshot_key"`
}

// parseJson overlays Config with the file named by -c/-config. Fields absent
// from the file keep their current value. It panics when the file cannot be
// read or parsed, since the server cannot start with a broken config.
func parseJson(cfg *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.EndpointAddrHTTP, jc.EndpointAddrHTTP)
	setString(&cfg.AllowedOrigin, jc.AllowedOrigin)
	setString(&cfg.DatabaseDSN, jc.DatabaseDSN)
	setString(&cfg.SecretKey, jc.SecretKey)
	if jc.AccessTokenValidityDuration != nil {
		cfg.AccessTokenValidityDuration = jc.AccessTokenValidityDuration.Duration
	}
	if jc.RefreshTokenValidityDuration != nil {
		cfg.RefreshTokenValidityDuration = jc.RefreshTokenValidityDuration.Duration
	}
	if jc.RateLimitRPS != nil {
		cfg.RateLimitRPS = *jc.RateLimitRPS
	}
	if jc.RateLimitBurst != nil {
		cfg.RateLimitBurst = *jc.RateLimitBurst
	}
	if jc.SeedPosts != nil {
		cfg.SeedPosts = *jc.SeedPosts
	}
	setString(&cfg.S3RootUser, jc.S3RootUser)
	setString(&cfg.S3RootPassword, jc.S3RootPassword)
	setString(&cfg.S3Bucket, jc.S3Bucket)
	setString(&cfg.S3Region, jc.S3Region)
	setString(&cfg.S3BaseEndpoint, jc.S3BaseEndpoint)
	setString(&cfg.S3SnapshotKey, jc.S3SnapshotKey)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
