package config

import (
	"os"
	"time"

	"github.com/dmitrijs2005/pestcrm/internal/buildinfo"
)

// Config holds runtime settings for the CRM admin CLI.
//
// Fields:
//   - APIBaseURL: REST API root, including any /api prefix.
//   - APIKey: static x-api-key sent with every request.
//   - AppVersion: static x-app-version sent with every request.
//   - RequestTimeout: per-request HTTP timeout.
//   - DataDir: directory holding the local session database.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	APIBaseURL     string
	APIKey         string
	AppVersion     string
	RequestTimeout time.Duration
	DataDir        string
	LogLevel       string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:5000/api"
	c.APIKey = ""
	c.AppVersion = buildinfo.AppVersion()
	c.RequestTimeout = 15 * time.Second
	c.DataDir = ".pestcrm"
	c.LogLevel = "warn"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() (*Config, error) {
	return load(os.Args[1:])
}

func load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
