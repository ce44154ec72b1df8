package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/shadowshield/internal/flagx"
	"github.com/dmitrijs2005/shadowshield/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations may
// be given as "10s" or as integer nanoseconds.
type JsonConfig struct {
	EndpointAddrHTTP   string         `json:"endpoint_addr_http"`
	DataDir            string         `json:"data_dir"`
	StorageBackend     string         `json:"storage_backend"`
	DatabaseDSN        string         `json:"database_dsn"`
	VaultBackend       string         `json:"vault_backend"`
	S3RootUser         string         `json:"s3_root_user"`
	S3RootPassword     string         `json:"s3_root_password"`
	S3Bucket           string         `json:"s3_bucket"`
	S3Region           string         `json:"s3_region"`
	S3BaseEndpoint     string         `json:"s3_base_endpoint"`
	S3Prefix           *string        `json:"s3_prefix"`
	Username           string         `json:"username"`
	Password           *string        `json:"password"`
	KeystrokeThreshold float64        `json:"keystroke_threshold"`
	KeystrokeKeys      int            `json:"keystroke_keys"`
	MaxUploadSize      int64          `json:"max_upload_size"`
	ShutdownTimeout    timex.Duration `json:"shutdown_timeout"`
	LogLevel           string         `json:"log_level"`
}

// parseJson overlays values from the JSON file named by -c/-config onto
// config. Fields missing from the file keep their current value; the prefix
// and the password may be set to "" explicitly. An unreadable or invalid
// file panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
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

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.DataDir, c.DataDir)
	setString(&config.StorageBackend, c.StorageBackend)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.VaultBackend, c.VaultBackend)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	if c.S3Prefix != nil {
		config.S3Prefix = *c.S3Prefix
	}
	setString(&config.Username, c.Username)
	if c.Password != nil {
		config.Password = *c.Password
	}
	if c.KeystrokeThreshold > 0 {
		config.KeystrokeThreshold = c.KeystrokeThreshold
	}
	if c.KeystrokeKeys > 0 {
		config.KeystrokeKeys = c.KeystrokeKeys
	}
	if c.MaxUploadSize > 0 {
		config.MaxUploadSize = c.MaxUploadSize
	}
	if c.ShutdownTimeout.Duration > 0 {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
	setString(&config.LogLevel, c.LogLevel)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
