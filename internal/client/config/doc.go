// Package config loads runtime configuration for the CRM admin CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   REST API base URL
//	-k string   API key (x-api-key)
//	-t int      request timeout (seconds)
//	-d string   data directory for the local session database
//	-l string   log level
//
// # JSON schema
//
// Empty strings in the file leave the earlier value alone. The timeout uses
// timex.Duration, so it may be a string like "15s" or integer nanoseconds:
//
//	{
//	  "api_base_url": "https://crm.example.com/api",
//	  "api_key": "replace-me",
//	  "app_version": "1.0.0",
//	  "request_timeout": "15s",
//	  "data_dir": "/var/lib/pestcrm",
//	  "log_level": "info"
//	}
//
// This package does not read environment variables.
package config
