package uploader

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"
)

// Dialect describes the SQL differences between the supported databases
type Dialect interface {
	// Name returns the dialect name
	Name() string
	// QuoteIdentifier quotes a (possibly schema qualified) identifier
	QuoteIdentifier(name string) string
	// Placeholder returns the arg placeholder for the n-th (1-based) arg
	Placeholder(n int) string
	// Returning reports whether generated keys are read using a RETURNING clause (rather than sql.Result.LastInsertId)
	Returning() bool
	// DefaultValues returns the insert statement used when no columns are assigned
	DefaultValues(table string) string
}

var (
	Postgres Dialect = postgresDialect{}
	MySQL    Dialect = mysqlDialect{}
	SQLite   Dialect = sqliteDialect{}
)

// DialectFor returns the dialect for a database/sql driver name
func DialectFor(driverName string) (Dialect, error) {
	switch strings.ToLower(driverName) {
	case "postgres", "postgresql", "pq":
		return Postgres, nil
	case "mysql":
		return MySQL, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	}
	return nil, fmt.Errorf("unsupported database driver %q", driverName)
}

func quoteParts(name string, quote func(string) string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = quote(p)
	}
	return strings.Join(parts, ".")
}

type postgresDialect struct{}

func (postgresDialect) Name() string {
	return "postgres"
}

func (postgresDialect) QuoteIdentifier(name string) string {
	return quoteParts(name, pq.QuoteIdentifier)
}

func (postgresDialect) Placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}

func (postgresDialect) Returning() bool {
	return true
}

func (d postgresDialect) DefaultValues(table string) string {
	return "INSERT INTO " + d.QuoteIdentifier(table) + " DEFAULT VALUES"
}

type mysqlDialect struct{}

func (mysqlDialect) Name() string {
	return "mysql"
}

func (mysqlDialect) QuoteIdentifier(name string) string {
	return quoteParts(name, func(s string) string {
		return "`" + strings.ReplaceAll(s, "`", "``") + "`"
	})
}

func (mysqlDialect) Placeholder(int) string {
	return "?"
}

func (mysqlDialect) Returning() bool {
	return false
}

func (d mysqlDialect) DefaultValues(table string) string {
	return "INSERT INTO " + d.QuoteIdentifier(table) + " () VALUES ()"
}

type sqliteDialect struct{}

func (sqliteDialect) Name() string {
	return "sqlite"
}

func (sqliteDialect) QuoteIdentifier(name string) string {
	return quoteParts(name, func(s string) string {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	})
}

func (sqliteDialect) Placeholder(int) string {
	return "?"
}

func (sqliteDialect) Returning() bool {
	return false
}

func (d sqliteDialect) DefaultValues(table string) string {
	return "INSERT INTO " + d.QuoteIdentifier(table) + " DEFAULT VALUES"
}
