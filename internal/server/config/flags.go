package config

import (
	"flag"
	"os"

	"github.com/progitman/progitman/internal/flagx"
)

// parseFlags overlays command-line flags onto config.
//
// Supported flags:
//
//	-a string   bind address for the HTTP API
//	-d string   PostgreSQL DSN
//	-k string   JWT signing secret
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-k"})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)

	addr := fs.String("a", "", "bind address for the HTTP API")
	dsn := fs.String("d", "", "PostgreSQL DSN")
	key := fs.String("k", "", "JWT signing secret")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	if *addr != "" {
		config.EndpointAddr = *addr
	}
	if *dsn != "" {
		config.DatabaseDSN = *dsn
	}
	if *key != "" {
		config.SecretKey = *key
	}
}
