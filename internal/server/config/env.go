package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/framekeeper/internal/flagx"
	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment variable the server reads.
const EnvPrefix = "FRAMEKEEPER_"

// loadDotenv is a seam for tests.
var loadDotenv = godotenv.Load

// parseEnv overlays FRAMEKEEPER_* variables. A dotenv file named by -env is
// loaded first and must exist; otherwise ./.env is loaded when present.
// Variables already set in the process environment win over the file.
func parseEnv(config *Config) error {
	if path := flagx.EnvFileFlags(); path != "" {
		if err := loadDotenv(path); err != nil {
			return fmt.Errorf("load env file: %w", err)
		}
	} else if err := loadDotenv(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	envString(&config.EndpointAddrGRPC, "GRPC_ADDR")
	envString(&config.EndpointAddrHTTP, "HTTP_ADDR")
	envString(&config.DatabaseDSN, "DATABASE_DSN")
	envString(&config.SecretKey, "SECRET_KEY")
	envString(&config.S3RootUser, "S3_ROOT_USER")
	envString(&config.S3RootPassword, "S3_ROOT_PASSWORD")
	envString(&config.S3Bucket, "S3_BUCKET")
	envString(&config.S3Region, "S3_REGION")
	envString(&config.S3BaseEndpoint, "S3_BASE_ENDPOINT")
	envString(&config.S3PublicURL, "S3_PUBLIC_URL")
	envString(&config.ImagePrefix, "IMAGE_PREFIX")
	envString(&config.MaxUploadSize, "MAX_UPLOAD_SIZE")
	envString(&config.LogLevel, "LOG_LEVEL")

	if err := envDuration(&config.AccessTokenValidityDuration, "ACCESS_TOKEN_TTL"); err != nil {
		return err
	}
	if err := envDuration(&config.AlertDelay, "ALERT_DELAY"); err != nil {
		return err
	}
	if err := envDuration(&config.SessionTTL, "SESSION_TTL"); err != nil {
		return err
	}
	if v, ok := os.LookupEnv(EnvPrefix + "MAX_SESSIONS"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sMAX_SESSIONS: %w", EnvPrefix, err)
		}
		config.MaxSessions = n
	}
	if v, ok := os.LookupEnv(EnvPrefix + "ENABLE_CORS"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sENABLE_CORS: %w", EnvPrefix, err)
		}
		config.EnableCORS = b
	}
	return nil
}

func envString(dst *string, name string) {
	if v, ok := os.LookupEnv(EnvPrefix + name); ok && v != "" {
		*dst = v
	}
}

func envDuration(dst *time.Duration, name string) error {
	v, ok := os.LookupEnv(EnvPrefix + name)
	if !ok || v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
	}
	*dst = d
	return nil
}
