package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/pswatch/internal/flagx"
	"github.com/dmitrijs2005/pswatch/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like "60s"
// or as integer nanoseconds. After parsing, values are copied into the
// runtime Config (which uses time.Duration).
//
// Credentials are intentionally absent: the password never lives in a config
// file, only in the environment or an interactive prompt.
type JsonConfig struct {
	RemoteHost      string         `json:"remote_host"`
	Username        string         `json:"username"`
	SinkDSN         string         `json:"sink_dsn"`
	SiteID          *int           `json:"site_id"`
	PollInterval    timex.Duration `json:"poll_interval"`
	SessionLifetime timex.Duration `json:"session_lifetime"`
	RetryBackoff    timex.Duration `json:"retry_backoff"`
	Lookback        timex.Duration `json:"lookback"`
	RemoteTimeout   timex.Duration `json:"remote_timeout"`
	PageSize        *int           `json:"page_size"`
	ClientVersion   string         `json:"client_version"`
	Locale          string         `json:"locale"`
	TimeZoneID      string         `json:"time_zone_id"`
	Workstation     string         `json:"workstation"`
	MigrateOnStart  *bool          `json:"migrate_on_start"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// Lookup order for the JSON file path:
//  1. Command-line flags (-c or -config) via flagx.JsonConfigFlags().
//  2. If empty, no JSON is loaded and the function returns.
//
// Zero-value strings and nil pointers leave the corresponding Config field
// untouched, so a partial file overrides only what it names. Panics on read
// or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.RemoteHost != "" {
		cfg.RemoteHost = jc.RemoteHost
	}
	if jc.Username != "" {
		cfg.Username = jc.Username
	}
	if jc.SinkDSN != "" {
		cfg.SinkDSN = jc.SinkDSN
	}
	if jc.SiteID != nil {
		cfg.SiteID = *jc.SiteID
	}
	if jc.PollInterval.Duration != 0 {
		cfg.PollInterval = time.Duration(jc.PollInterval.Duration)
	}
	if jc.SessionLifetime.Duration != 0 {
		cfg.SessionLifetime = time.Duration(jc.SessionLifetime.Duration)
	}
	if jc.RetryBackoff.Duration != 0 {
		cfg.RetryBackoff = time.Duration(jc.RetryBackoff.Duration)
	}
	if jc.Lookback.Duration != 0 {
		cfg.Lookback = time.Duration(jc.Lookback.Duration)
	}
	if jc.RemoteTimeout.Duration != 0 {
		cfg.RemoteTimeout = time.Duration(jc.RemoteTimeout.Duration)
	}
	if jc.PageSize != nil {
		cfg.PageSize = *jc.PageSize
	}
	if jc.ClientVersion != "" {
		cfg.ClientVersion = jc.ClientVersion
	}
	if jc.Locale != "" {
		cfg.Locale = jc.Locale
	}
	if jc.TimeZoneID != "" {
		cfg.TimeZoneID = jc.TimeZoneID
	}
	if jc.Workstation != "" {
		cfg.Workstation = jc.Workstation
	}
	if jc.MigrateOnStart != nil {
		cfg.MigrateOnStart = *jc.MigrateOnStart
	}
}
