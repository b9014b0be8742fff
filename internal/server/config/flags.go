package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/gophblog/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g. ":5000")
//	-o string   allowed CORS origin
//	-d string   PostgreSQL DSN; empty keeps posts in memory
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-r int      refresh token validity, minutes
//	-q float    rate limit, requests per second per client (<= 0 disables)
//	-k int      rate limit burst
//	-w bool     seed the welcome post (use -w=false to disable)
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket for snapshots (empty disables)
//	-g string   S3 region
//	-e string   S3 base endpoint
//	-n string   S3 snapshot object key
//
// os.Args is first filtered with flagx.FilterArgs so -c/-config and other
// loaders' flags do not make parsing fail.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{
		"-a", "-o", "-d", "-s", "-t", "-r", "-q", "-k", "-w",
		"-u", "-p", "-b", "-g", "-e", "-n",
	})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.EndpointAddrHTTP, "a", cfg.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&cfg.AllowedOrigin, "o", cfg.AllowedOrigin, "allowed CORS origin")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database DSN")
	fs.StringVar(&cfg.SecretKey, "s", cfg.SecretKey, "secret key")

	accessTokenValidity := fs.Int("t", int(cfg.AccessTokenValidityDuration.Minutes()), "access token validity (in minutes)")
	refreshTokenValidity := fs.Int("r", int(cfg.RefreshTokenValidityDuration.Minutes()), "refresh token validity (in minutes)")

	fs.Float64Var(&cfg.RateLimitRPS, "q", cfg.RateLimitRPS, "requests per second per client")
	fs.IntVar(&cfg.RateLimitBurst, "k", cfg.RateLimitBurst, "rate limit burst")
	fs.BoolVar(&cfg.SeedPosts, "w", cfg.SeedPosts, "seed the welcome post")

	fs.StringVar(&cfg.S3RootUser, "u", cfg.S3RootUser, "S3 root user")
	fs.StringVar(&cfg.S3RootPassword, "p", cfg.S3RootPassword, "S3 root password")
	fs.StringVar(&cfg.S3Bucket, "b", cfg.S3Bucket, "S3 snapshot bucket")
	fs.StringVar(&cfg.S3Region, "g", cfg.S3Region, "S3 region")
	fs.StringVar(&cfg.S3BaseEndpoint, "e", cfg.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&cfg.S3SnapshotKey, "n", cfg.S3SnapshotKey, "S3 snapshot object key")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.AccessTokenValidityDuration = time.Duration(*accessTokenValidity) * time.Minute
	cfg.RefreshTokenValidityDuration = time.Duration(*refreshTokenValidity) * time.Minute
}
