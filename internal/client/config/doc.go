// Package config loads runtime configuration for the blog terminal client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Both durations must end up positive; LoadConfig panics otherwise.
//
// Supported flags
//
//	-a string   base URL of the REST API
//	-t int      request timeout (seconds)
//	-i int      online status check interval (seconds)
//	-d string   path of the local SQLite session database
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "3s" or integer nanoseconds:
//
//	{
//	  "api_base_url": "http://localhost:5000/api",
//	  "request_timeout": "10s",
//	  "online_check_interval": "3s",
//	  "database_dsn": "blog.db"
//	}
package config
