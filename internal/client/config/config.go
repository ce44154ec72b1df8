package config

import "time"

// Config holds runtime settings for the Shadow Shield terminal client.
//
// Fields:
//   - ServerURL: base URL of the Shadow Shield HTTP API.
//   - RequestTimeout: upper bound for a single API call.
//   - OnlineCheckInterval: how often the client probes server reachability.
//   - LoginAttempts: failed logins allowed before the client exits.
//   - KeystrokeKeys: number of password keys whose timings are sent.
type Config struct {
	ServerURL           string
	RequestTimeout      time.Duration
	OnlineCheckInterval time.Duration
	LoginAttempts       int
	KeystrokeKeys       int
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:5000"
	c.RequestTimeout = 30 * time.Second
	c.OnlineCheckInterval = 3 * time.Second
	c.LoginAttempts = 3
	c.KeystrokeKeys = 4
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
