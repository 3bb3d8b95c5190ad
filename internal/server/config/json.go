package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/progitman/progitman/internal/flagx"
	"github.com/progitman/progitman/internal/timex"
)

// JsonConfig is the DTO for the optional JSON config file.
type JsonConfig struct {
	EndpointAddr                string         `json:"endpoint_addr"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	OperatorUser                string         `json:"operator_user"`
	OperatorPassword            string         `json:"operator_password"`
}

// parseJson overlays values from the JSON file named by -c/-config, if any.
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

	if c.EndpointAddr != "" {
		config.EndpointAddr = c.EndpointAddr
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.AccessTokenValidityDuration.Duration != 0 {
		config.AccessTokenValidityDuration = time.Duration(c.AccessTokenValidityDuration.Duration)
	}
	if c.OperatorUser != "" {
		config.OperatorUser = c.OperatorUser
	}
	if c.OperatorPassword != "" {
		config.OperatorPassword = c.OperatorPassword
	}
}
