// Package config loads runtime configuration for the desktop client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Command-line flags, which override earlier values.
package config

import "time"

// Config holds runtime settings for the desktop client.
//
// Fields:
//   - ServerEndpointAddr: base URL of the vault service.
//   - ServerUser / ServerPassword: operator credentials for the vault service.
//   - DatabaseDSN: path of the on-device SQLite database.
//   - RequestTimeout: per-call timeout applied by the remote adapter.
type Config struct {
	ServerEndpointAddr string
	ServerUser         string
	ServerPassword     string
	DatabaseDSN        string
	RequestTimeout     time.Duration
}

// LoadDefaults populates c with sensible development defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "http://127.0.0.1:8080"
	c.ServerUser = "operator"
	c.ServerPassword = "operator"
	c.DatabaseDSN = "profiles.db"
	c.RequestTimeout = 10 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags. Later sources take precedence.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
