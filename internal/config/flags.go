package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/vaxscheduler/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-r string   database driver (pgx, postgres, sqlite)
//	-d string   database DSN
//	-l string   log level
//	-i string   transaction isolation level
//	-n int      transaction retries
//	-t int      transaction timeout, seconds
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-r", "-d", "-l", "-i", "-n", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.DatabaseDriver, "r", config.DatabaseDriver, "database driver")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.TxIsolation, "i", config.TxIsolation, "transaction isolation level")
	fs.IntVar(&config.TxRetries, "n", config.TxRetries, "transaction retries")

	txTimeout := fs.Int("t", int(config.TxTimeout.Seconds()), "transaction timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.TxTimeout = time.Duration(*txTimeout) * time.Second
}
