package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/shadowshield/internal/flagx"
)

// parseFlags populates server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string    HTTP bind address (e.g., "127.0.0.1:5000")
//	-d string    data directory for the file backends
//	-s string    profile/key storage backend: file | postgres
//	-D string    PostgreSQL DSN
//	-v string    vault backend: file | s3
//	-u string    S3 root user
//	-p string    S3 root password
//	-b string    S3 bucket name
//	-g string    S3 region
//	-e string    S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-x string    S3 key prefix
//	-U string    accepted username
//	-P string    accepted password
//	-k float     keystroke anomaly threshold
//	-n int       keystroke sample size
//	-m int       maximum upload size, bytes
//	-t duration  graceful shutdown timeout
//	-l string    log level: debug | info | warn | error
//
// Only the flags listed above are picked out of os.Args (flagx.FilterArgs),
// so -c/-config and unknown flags do not break parsing.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{
		"-a", "-d", "-s", "-D", "-v", "-u", "-p", "-b", "-g", "-e", "-x",
		"-U", "-P", "-k", "-n", "-m", "-t", "-l",
	})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DataDir, "d", config.DataDir, "data directory")
	fs.StringVar(&config.StorageBackend, "s", config.StorageBackend, "profile and key storage backend (file|postgres)")
	fs.StringVar(&config.DatabaseDSN, "D", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.VaultBackend, "v", config.VaultBackend, "vault backend (file|s3)")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.S3Prefix, "x", config.S3Prefix, "S3 key prefix")

	fs.StringVar(&config.Username, "U", config.Username, "accepted username")
	fs.StringVar(&config.Password, "P", config.Password, "accepted password")

	fs.Float64Var(&config.KeystrokeThreshold, "k", config.KeystrokeThreshold, "keystroke anomaly threshold")
	fs.IntVar(&config.KeystrokeKeys, "n", config.KeystrokeKeys, "keystroke sample size")
	fs.Int64Var(&config.MaxUploadSize, "m", config.MaxUploadSize, "maximum upload size in bytes")
	fs.DurationVar(&config.ShutdownTimeout, "t", config.ShutdownTimeout, "graceful shutdown timeout")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
