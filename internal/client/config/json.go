package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/shadowshield/internal/flagx"
	"github.com/dmitrijs2005/shadowshield/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
type JsonConfig struct {
	ServerURL           string         `json:"server_url"`
	RequestTimeout      timex.Duration `json:"request_timeout"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	LoginAttempts       int            `json:"login_attempts"`
	KeystrokeKeys       int            `json:"keystroke_keys"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. Only fields present with a non-zero value are applied.
// Panics on read or unmarshal errors.
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

	if jc.ServerURL != "" {
		cfg.ServerURL = jc.ServerURL
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.OnlineCheckInterval.Duration > 0 {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	if jc.LoginAttempts > 0 {
		cfg.LoginAttempts = jc.LoginAttempts
	}
	if jc.KeystrokeKeys > 0 {
		cfg.KeystrokeKeys = jc.KeystrokeKeys
	}
}
