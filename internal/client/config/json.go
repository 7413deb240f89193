package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/pestcrm/internal/flagx"
	"github.com/dmitrijs2005/pestcrm/internal/timex"
)

// JSONConfig is a DTO used exclusively for JSON unmarshalling.
// RequestTimeout relies on timex.Duration, so the file may give either a
// string like "15s" or integer nanoseconds.
type JSONConfig struct {
	APIBaseURL     string         `json:"api_base_url"`
	APIKey         string         `json:"api_key"`
	AppVersion     string         `json:"app_version"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	DataDir        string         `json:"data_dir"`
	LogLevel       string         `json:"log_level"`
}

// parseJSON overlays cfg with the non-empty values of the JSON file named by
// -c or -config. Without either flag it does nothing.
func parseJSON(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	var jc JSONConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	overlay(&cfg.APIBaseURL, jc.APIBaseURL)
	overlay(&cfg.APIKey, jc.APIKey)
	overlay(&cfg.AppVersion, jc.AppVersion)
	overlay(&cfg.DataDir, jc.DataDir)
	overlay(&cfg.LogLevel, jc.LogLevel)
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	return nil
}

func overlay(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
