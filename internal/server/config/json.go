package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/auctionhouse/internal/flagx"
	"github.com/dmitrijs2005/auctionhouse/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations
// accept both "5m" strings and integer nanoseconds.
type JsonConfig struct {
	EndpointAddrGRPC            *string         `json:"endpoint_addr_grpc"`
	DatabaseDSN                 *string         `json:"database_dsn"`
	SecretKey                   *string         `json:"secret_key"`
	AccessTokenValidityDuration *timex.Duration `json:"access_token_validity_duration"`
	SoftCloseWindow             *timex.Duration `json:"soft_close_window"`
	SoftCloseExtension          *timex.Duration `json:"soft_close_extension"`
	SweepInterval               *timex.Duration `json:"sweep_interval"`
	NotifyTimeout               *timex.Duration `json:"notify_timeout"`
	LogLevel                    *string         `json:"log_level"`
	NatsURL                     *string         `json:"nats_url"`
	RedisAddr                   *string         `json:"redis_addr"`
	RedisPassword               *string         `json:"redis_password"`
	RedisDB                     *int            `json:"redis_db"`
	S3RootUser                  *string         `json:"s3_root_user"`
	S3RootPassword              *string         `json:"s3_root_password"`
	S3Bucket                    *string         `json:"s3_bucket"`
	S3Region                    *string         `json:"s3_region"`
	S3BaseEndpoint              *string         `json:"s3_base_endpoint"`
}

// parseJson overlays values from the JSON file named by -c/-config (or
// $AUCTION_CONFIG) onto config. Keys missing from the file keep their
// current values. An unreadable or malformed file panics: the server must
// not start on a half-understood configuration.
func parseJson(config *Config) {
	path := flagx.ConfigFile()
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setDuration(&config.AccessTokenValidityDuration, c.AccessTokenValidityDuration)
	setDuration(&config.SoftCloseWindow, c.SoftCloseWindow)
	setDuration(&config.SoftCloseExtension, c.SoftCloseExtension)
	setDuration(&config.SweepInterval, c.SweepInterval)
	setDuration(&config.NotifyTimeout, c.NotifyTimeout)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.NatsURL, c.NatsURL)
	setString(&config.RedisAddr, c.RedisAddr)
	setString(&config.RedisPassword, c.RedisPassword)
	if c.RedisDB != nil {
		config.RedisDB = *c.RedisDB
	}
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v *timex.Duration) {
	if v != nil {
		*dst = v.Duration
	}
}
