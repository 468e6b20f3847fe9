package dbx

import (
	"database/sql"
	"fmt"
	"strings"
)

// Dialect selects SQL that differs between the supported databases.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// DialectFor maps a database/sql driver name to its dialect.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case "pgx", "postgres":
		return DialectPostgres, nil
	case "sqlite":
		return DialectSQLite, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", driver)
	}
}

// ParseIsolation maps a config string to a database/sql isolation level.
func ParseIsolation(s string) (sql.IsolationLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "default":
		return sql.LevelDefault, nil
	case "read_committed":
		return sql.LevelReadCommitted, nil
	case "repeatable_read":
		return sql.LevelRepeatableRead, nil
	case "serializable":
		return sql.LevelSerializable, nil
	default:
		return sql.LevelDefault, fmt.Errorf("unknown isolation level %q", s)
	}
}

// TxOptionsFor returns the transaction options to use with d. SQLite
// serializes writers on its own and gets nil.
func TxOptionsFor(d Dialect, isolation string) (*sql.TxOptions, error) {
	level, err := ParseIsolation(isolation)
	if err != nil {
		return nil, err
	}
	if d == DialectSQLite || level == sql.LevelDefault {
		return nil, nil
	}
	return &sql.TxOptions{Isolation: level}, nil
}
