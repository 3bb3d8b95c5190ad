package config

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://127.0.0.1:8080", c.ServerEndpointAddr)
	assert.Equal(t, "operator", c.ServerUser)
	assert.Equal(t, "profiles.db", c.DatabaseDSN)
	assert.Equal(t, 10*time.Second, c.RequestTimeout)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, "http://127.0.0.1:8080", cfg.ServerEndpointAddr)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
}

func TestJsonConfig_DurationForms(t *testing.T) {
	var c JsonConfig
	require.NoError(t, json.Unmarshal([]byte(`{"request_timeout":"15s"}`), &c))
	assert.Equal(t, 15*time.Second, c.RequestTimeout.Duration)

	require.NoError(t, json.Unmarshal([]byte(`{"request_timeout":2000000000}`), &c))
	assert.Equal(t, 2*time.Second, c.RequestTimeout.Duration)
}
