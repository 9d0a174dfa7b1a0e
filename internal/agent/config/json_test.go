package config

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJsonConfig_UnmarshalDurationsAndOverrides(t *testing.T) {
	data := []byte(`{
		"remote_host": "ris.example.org",
		"site_id": 3,
		"poll_interval": "30s",
		"session_lifetime": "12h",
		"lookback": "2h",
		"page_size": 200,
		"migrate_on_start": false
	}`)

	var jc JsonConfig
	require.NoError(t, json.Unmarshal(data, &jc))

	var c Config
	c.LoadDefaults()

	// Apply the same copy rules parseJson uses.
	if jc.RemoteHost != "" {
		c.RemoteHost = jc.RemoteHost
	}
	if jc.SiteID != nil {
		c.SiteID = *jc.SiteID
	}
	if jc.PollInterval.Duration != 0 {
		c.PollInterval = jc.PollInterval.Duration
	}
	if jc.SessionLifetime.Duration != 0 {
		c.SessionLifetime = jc.SessionLifetime.Duration
	}
	if jc.Lookback.Duration != 0 {
		c.Lookback = jc.Lookback.Duration
	}
	if jc.PageSize != nil {
		c.PageSize = *jc.PageSize
	}
	if jc.MigrateOnStart != nil {
		c.MigrateOnStart = *jc.MigrateOnStart
	}

	assert.Equal(t, "ris.example.org", c.RemoteHost)
	assert.Equal(t, 3, c.SiteID)
	assert.Equal(t, 30*time.Second, c.PollInterval)
	assert.Equal(t, 12*time.Hour, c.SessionLifetime)
	assert.Equal(t, 2*time.Hour, c.Lookback)
	assert.Equal(t, 200, c.PageSize)
	assert.False(t, c.MigrateOnStart)

	// Fields the file did not name keep their defaults.
	assert.Equal(t, 60*time.Second, c.RetryBackoff)
	assert.Equal(t, "en-NZ", c.Locale)
}

func TestJsonConfig_HasNoPasswordField(t *testing.T) {
	data := []byte(`{"password": "leaked"}`)

	var jc JsonConfig
	require.NoError(t, json.Unmarshal(data, &jc))

	b, err := json.Marshal(jc)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "leaked")
}
