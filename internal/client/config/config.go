package config

import (
	"fmt"
	"time"

	"github.com/docker/go-units"
)

// Config holds runtime settings for the framekeeper CLI.
//
// Fields:
//   - ServerEndpointAddr: host:port of the backend gRPC endpoint.
//   - OnlineCheckInterval: how often the client probes server reachability.
//   - RequestTimeout: deadline for each unary call.
//   - UploadChunkSize: human readable size of one upload stream message ("64KB").
type Config struct {
	ServerEndpointAddr  string
	OnlineCheckInterval time.Duration
	RequestTimeout      time.Duration
	UploadChunkSize     string

	uploadChunkSizeBytes int
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.OnlineCheckInterval = 3 * time.Second
	c.RequestTimeout = 10 * time.Second
	c.UploadChunkSize = "64KB"
}

// Finalize validates c and resolves derived values.
func (c *Config) Finalize() error {
	if c.ServerEndpointAddr == "" {
		return fmt.Errorf("server address must not be empty")
	}
	if c.OnlineCheckInterval <= 0 {
		return fmt.Errorf("online check interval must be positive")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive")
	}
	n, err := units.FromHumanSize(c.UploadChunkSize)
	if err != nil {
		return fmt.Errorf("upload chunk size: %w", err)
	}
	if n <= 0 {
		return fmt.Errorf("upload chunk size must be positive")
	}
	c.uploadChunkSizeBytes = int(n)
	return nil
}

// UploadChunkSizeBytes is UploadChunkSize in bytes; valid after Finalize.
func (c *Config) UploadChunkSizeBytes() int {
	return c.uploadChunkSizeBytes
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}
