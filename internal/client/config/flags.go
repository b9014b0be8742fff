package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/gophblog/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags. Only
// the flags listed here are passed to the flag set, see flagx.FilterArgs.
// Durations are overwritten only when their flag is actually given, so
// sub-second values from JSON survive.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t", "-i", "-d"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the blog API")
	requestTimeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "local session database file")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			cfg.RequestTimeout = positiveSeconds("t", *requestTimeout)
		case "i":
			cfg.OnlineCheckInterval = positiveSeconds("i", *onlineCheckInterval)
		}
	})
}

func positiveSeconds(name string, n int) time.Duration {
	if n <= 0 {
		panic(fmt.Sprintf("flag -%s must be a positive number of seconds, got %d", name, n))
	}
	return time.Duration(n) * time.Second
}
