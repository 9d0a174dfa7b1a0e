package config

import "os"

// parseEnv overlays Config with values from the environment. These are the
// variables the deployment has always used, so they keep working regardless
// of JSON or flag configuration.
//
// Recognized variables:
//
//	PS360_HOST       remote service host
//	PS360_USER       sign-in user name
//	PS360_PASSWORD   sign-in password
//	AUTOTRIAGE_CONN  sink database DSN
func parseEnv(cfg *Config) {
	if v, ok := os.LookupEnv("PS360_HOST"); ok {
		cfg.RemoteHost = v
	}
	if v, ok := os.LookupEnv("PS360_USER"); ok {
		cfg.Username = v
	}
	if v, ok := os.LookupEnv("PS360_PASSWORD"); ok {
		cfg.Password = v
	}
	if v, ok := os.LookupEnv("AUTOTRIAGE_CONN"); ok {
		cfg.SinkDSN = v
	}
}
