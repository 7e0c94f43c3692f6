package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/framekeeper/internal/flagx"
	"github.com/dmitrijs2005/framekeeper/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
type JsonConfig struct {
	ServerEndpointAddr  string         `json:"server_endpoint_addr"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	RequestTimeout      timex.Duration `json:"request_timeout"`
	UploadChunkSize     string         `json:"upload_chunk_size"`
}

// parseJson overlays cfg with the values present in the file named by -c or
// -config. Absent keys keep their current value.
func parseJson(cfg *Config) error {
	path := flagx.ConfigFileFlags()
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	if jc.ServerEndpointAddr != "" {
		cfg.ServerEndpointAddr = jc.ServerEndpointAddr
	}
	if jc.OnlineCheckInterval.Duration != 0 {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.UploadChunkSize != "" {
		cfg.UploadChunkSize = jc.UploadChunkSize
	}
	return nil
}
