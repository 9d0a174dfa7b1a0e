package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/pswatch/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   remote service host
//	-u string   sign-in user name
//	-d string   sink database DSN
//	-s int      site ID
//	-i int      poll interval, seconds
//	-t int      session lifetime, hours
//	-r int      retry backoff, seconds
//	-l int      lookback window, minutes
//	-n int      order browsing page size
//	-m bool     run sink migrations on start
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with the JSON config flags.
// Duration flags are accepted as integers and converted to time.Duration.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-u", "-d", "-s", "-i", "-t", "-r", "-l", "-n", "-m"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.RemoteHost, "a", cfg.RemoteHost, "remote service host")
	fs.StringVar(&cfg.Username, "u", cfg.Username, "sign-in user name")
	fs.StringVar(&cfg.SinkDSN, "d", cfg.SinkDSN, "sink database DSN")
	fs.IntVar(&cfg.SiteID, "s", cfg.SiteID, "site ID")

	pollInterval := fs.Int("i", int(cfg.PollInterval.Seconds()), "poll interval (in seconds)")
	sessionLifetime := fs.Int("t", int(cfg.SessionLifetime.Hours()), "session lifetime (in hours)")
	retryBackoff := fs.Int("r", int(cfg.RetryBackoff.Seconds()), "retry backoff (in seconds)")
	lookback := fs.Int("l", int(cfg.Lookback.Minutes()), "lookback window (in minutes)")

	fs.IntVar(&cfg.PageSize, "n", cfg.PageSize, "order browsing page size")
	fs.BoolVar(&cfg.MigrateOnStart, "m", cfg.MigrateOnStart, "run sink migrations on start")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.PollInterval = time.Duration(*pollInterval) * time.Second
	cfg.SessionLifetime = time.Duration(*sessionLifetime) * time.Hour
	cfg.RetryBackoff = time.Duration(*retryBackoff) * time.Second
	cfg.Lookback = time.Duration(*lookback) * time.Minute
}
