// Package config loads runtime configuration for the Shadow Shield client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the server API
//	-i int      online status check interval (seconds)
//	-t int      request timeout (seconds)
//	-r int      login attempts before exit
//	-n int      number of password keys to time
//
// # JSON schema
//
// Durations use timex.Duration, so values can be either strings like "3s"
// or integer nanoseconds:
//
//	{
//	  "server_url": "http://127.0.0.1:5000",
//	  "request_timeout": "30s",
//	  "online_check_interval": "3s",
//	  "login_attempts": 3,
//	  "keystroke_keys": 4
//	}
package config
