package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/vaxscheduler/internal/flagx"
	"github.com/dmitrijs2005/vaxscheduler/internal/timex"
)

// JsonConfig is the on-disk form of Config. Durations use timex.Duration so
// both "5s" and integer nanoseconds are accepted.
type JsonConfig struct {
	DatabaseDriver string          `json:"database_driver"`
	DatabaseDSN    string          `json:"database_dsn"`
	LogLevel       string          `json:"log_level"`
	TxIsolation    string          `json:"tx_isolation"`
	TxRetries      *int            `json:"tx_retries"`
	TxTimeout      *timex.Duration `json:"tx_timeout"`
}

// parseJson overlays values from the JSON file named by -c or -config.
// Keys missing from the file keep their current value. An unreadable file
// or invalid JSON panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigPath(os.Args[1:])

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	setString(&config.DatabaseDriver, c.DatabaseDriver)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.TxIsolation, c.TxIsolation)
	if c.TxRetries != nil {
		config.TxRetries = *c.TxRetries
	}
	if c.TxTimeout != nil {
		config.TxTimeout = c.TxTimeout.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
