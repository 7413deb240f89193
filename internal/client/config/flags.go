package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/pestcrm/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   REST API base URL
//	-k string   API key
//	-t int      request timeout in seconds
//	-d string   data directory
//	-l string   log level
//
// Only the flags listed above are passed to the FlagSet, see flagx.FilterArgs.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-k", "-t", "-d", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "REST API base URL")
	fs.StringVar(&cfg.APIKey, "k", cfg.APIKey, "API key")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "data directory")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	if *timeout <= 0 {
		return fmt.Errorf("parse flags: timeout must be positive, got %d", *timeout)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
	return nil
}
