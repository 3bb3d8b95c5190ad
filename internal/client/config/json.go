package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/progitman/progitman/internal/flagx"
	"github.com/progitman/progitman/internal/timex"
)

// JsonConfig is the DTO for the optional JSON config file. It uses
// timex.Duration so intervals parse from either "10s" strings or integer
// nanoseconds.
type JsonConfig struct {
	ServerEndpointAddr string         `json:"server_endpoint_addr"`
	ServerUser         string         `json:"server_user"`
	ServerPassword     string         `json:"server_password"`
	DatabaseDSN        string         `json:"database_dsn"`
	RequestTimeout     timex.Duration `json:"request_timeout"`
}

// parseJson overlays values from the JSON file named by -c/-config, if any.
// A missing flag means no file is loaded; an unreadable or invalid file
// panics, configuration errors are not recoverable.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.ServerEndpointAddr != "" {
		config.ServerEndpointAddr = c.ServerEndpointAddr
	}
	if c.ServerUser != "" {
		config.ServerUser = c.ServerUser
	}
	if c.ServerPassword != "" {
		config.ServerPassword = c.ServerPassword
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.RequestTimeout.Duration != 0 {
		config.RequestTimeout = time.Duration(c.RequestTimeout.Duration)
	}
}
