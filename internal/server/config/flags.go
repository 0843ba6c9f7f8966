package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/auctionhouse/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string     gRPC bind address (e.g., ":50051")
//	-d string     PostgreSQL DSN ("" for the in-memory ledger)
//	-s string     JWT HMAC secret key
//	-t int        access token validity, minutes
//	-w duration   soft close window (e.g., "5m")
//	-x duration   soft close extension
//	-i duration   lifecycle sweep interval
//	-o duration   notification delivery timeout
//	-l string     log level
//	-n string     NATS URL
//	-r string     Redis address
//	-k string     Redis password
//	-j int        Redis database
//	-b string     S3 archive bucket
//	-g string     S3 region
//	-e string     S3 base endpoint
//	-u string     S3 user
//	-p string     S3 password
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{
		"-a", "-d", "-s", "-t", "-w", "-x", "-i", "-o", "-l", "-n", "-r", "-k", "-j", "-b", "-g", "-e", "-u", "-p",
	})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access_token_validity_duration (in minutes)")

	fs.DurationVar(&config.SoftCloseWindow, "w", config.SoftCloseWindow, "soft close window")
	fs.DurationVar(&config.SoftCloseExtension, "x", config.SoftCloseExtension, "soft close extension")
	fs.DurationVar(&config.SweepInterval, "i", config.SweepInterval, "lifecycle sweep interval")
	fs.DurationVar(&config.NotifyTimeout, "o", config.NotifyTimeout, "notification delivery timeout")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	fs.StringVar(&config.NatsURL, "n", config.NatsURL, "NATS URL")
	fs.StringVar(&config.RedisAddr, "r", config.RedisAddr, "Redis address")
	fs.StringVar(&config.RedisPassword, "k", config.RedisPassword, "Redis password")
	fs.IntVar(&config.RedisDB, "j", config.RedisDB, "Redis database")

	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 archive bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 password")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
}
