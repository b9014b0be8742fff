package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/gophblog/internal/flagx"
	"github.com/dmitrijs2005/gophblog/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
type JsonConfig struct {
	APIBaseURL          string          `json:"api_base_url"`
	RequestTimeout      *timex.Duration `json:"request_timeout"`
	OnlineCheckInterval *timex.Duration `json:"online_check_interval"`
	DatabaseDSN         string          `json:"database_dsn"`
}

// parseJson overlays Config with values loaded from the file named by -c or
// -config. Absent fields keep their current value. Panics on read or
// unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigFileFlag()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.APIBaseURL != "" {
		cfg.APIBaseURL = jc.APIBaseURL
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	if jc.DatabaseDSN != "" {
		cfg.DatabaseDSN = jc.DatabaseDSN
	}
}
