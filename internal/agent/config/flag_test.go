package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func withArgs(t *testing.T, args []string, fn func()) {
	t.Helper()
	orig := os.Args
	os.Args = append([]string{"pswatch"}, args...)
	defer func() { os.Args = orig }()
	fn()
}

func TestParseFlags_OverridesDefaults(t *testing.T) {
	withArgs(t, []string{"-a", "ris.example.org", "-u", "svc", "-i", "30", "-t", "12", "-l", "120", "-n", "250"}, func() {
		var c Config
		c.LoadDefaults()
		parseFlags(&c)

		assert.Equal(t, "ris.example.org", c.RemoteHost)
		assert.Equal(t, "svc", c.Username)
		assert.Equal(t, 30*time.Second, c.PollInterval)
		assert.Equal(t, 12*time.Hour, c.SessionLifetime)
		assert.Equal(t, 120*time.Minute, c.Lookback)
		assert.Equal(t, 250, c.PageSize)
	})
}

func TestParseFlags_NoFlagsKeepsDefaults(t *testing.T) {
	withArgs(t, nil, func() {
		var c Config
		c.LoadDefaults()
		parseFlags(&c)

		assert.Equal(t, "localhost", c.RemoteHost)
		assert.Equal(t, 60*time.Second, c.PollInterval)
	})
}

func TestParseFlags_IgnoresForeignFlags(t *testing.T) {
	withArgs(t, []string{"-c", "conf.json", "-a", "ris.example.org"}, func() {
		var c Config
		c.LoadDefaults()
		parseFlags(&c)

		assert.Equal(t, "ris.example.org", c.RemoteHost)
	})
}
