package config

import (
	"flag"
	"os"
	"strconv"
	"time"

	"github.com/progitman/progitman/internal/flagx"
)

// parseFlags overlays command-line flags onto config.
//
// Supported flags:
//
//	-a string   base URL of the vault service
//	-u string   vault service user
//	-p string   vault service password
//	-d string   path of the on-device SQLite database
//	-t int      request timeout (seconds)
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-u", "-p", "-d", "-t"})

	fs := flag.NewFlagSet("client", flag.ContinueOnError)

	addr := fs.String("a", "", "base URL of the vault service")
	user := fs.String("u", "", "vault service user")
	password := fs.String("p", "", "vault service password")
	dsn := fs.String("d", "", "path of the on-device database")
	timeout := fs.String("t", "", "request timeout in seconds")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	if *addr != "" {
		config.ServerEndpointAddr = *addr
	}
	if *user != "" {
		config.ServerUser = *user
	}
	if *password != "" {
		config.ServerPassword = *password
	}
	if *dsn != "" {
		config.DatabaseDSN = *dsn
	}
	if *timeout != "" {
		seconds, err := strconv.Atoi(*timeout)
		if err != nil {
			panic(err)
		}
		config.RequestTimeout = time.Duration(seconds) * time.Second
	}
}
