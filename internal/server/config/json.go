package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/framekeeper/internal/flagx"
	"github.com/dmitrijs2005/framekeeper/internal/timex"
)

// JsonConfig is the DTO for JSON config files. Durations accept "4s" style
// strings through timex.Duration; pointers distinguish "absent" from false/0.
type JsonConfig struct {
	EndpointAddrGRPC            string         `json:"endpoint_addr_grpc"`
	EndpointAddrHTTP            string         `json:"endpoint_addr_http"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	S3RootUser                  string         `json:"s3_root_user"`
	S3RootPassword              string         `json:"s3_root_password"`
	S3Bucket                    string         `json:"s3_bucket"`
	S3Region                    string         `json:"s3_region"`
	S3BaseEndpoint              string         `json:"s3_base_endpoint"`
	S3PublicURL                 string         `json:"s3_public_url"`
	ImagePrefix                 string         `json:"image_prefix"`
	MaxUploadSize               string         `json:"max_upload_size"`
	AlertDelay                  timex.Duration `json:"alert_delay"`
	SessionTTL                  timex.Duration `json:"session_ttl"`
	MaxSessions                 int            `json:"max_sessions"`
	LogLevel                    string         `json:"log_level"`
	EnableCORS                  *bool          `json:"enable_cors"`
}

// parseJson loads the file named by -c/-config (if any) and copies every
// value present in it over config.
func parseJson(config *Config) error {
	path := flagx.ConfigFileFlags()
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	c.apply(config)
	return nil
}

func (c *JsonConfig) apply(config *Config) {
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.S3PublicURL, c.S3PublicURL)
	setString(&config.ImagePrefix, c.ImagePrefix)
	setString(&config.MaxUploadSize, c.MaxUploadSize)
	setString(&config.LogLevel, c.LogLevel)

	if c.AccessTokenValidityDuration.Duration > 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.AlertDelay.Duration > 0 {
		config.AlertDelay = c.AlertDelay.Duration
	}
	if c.SessionTTL.Duration > 0 {
		config.SessionTTL = c.SessionTTL.Duration
	}
	if c.MaxSessions > 0 {
		config.MaxSessions = c.MaxSessions
	}
	if c.EnableCORS != nil {
		config.EnableCORS = *c.EnableCORS
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
