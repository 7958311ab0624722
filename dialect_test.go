package uploader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialectFor(t *testing.T) {
	testCases := map[string]Dialect{
		"postgres":   Postgres,
		"PostgreSQL": Postgres,
		"pq":         Postgres,
		"mysql":      MySQL,
		"sqlite":     SQLite,
		"sqlite3":    SQLite,
	}
	for name, expect := range testCases {
		d, err := DialectFor(name)
		require.NoError(t, err)
		assert.Equal(t, expect, d)
	}
	_, err := DialectFor("oracle")
	assert.Error(t, err)
}

func TestDialects(t *testing.T) {
	assert.Equal(t, "postgres", Postgres.Name())
	assert.Equal(t, `"public"."users"`, Postgres.QuoteIdentifier("public.users"))
	assert.Equal(t, `"we""ird"`, Postgres.QuoteIdentifier(`we"ird`))
	assert.Equal(t, "$3", Postgres.Placeholder(3))
	assert.True(t, Postgres.Returning())
	assert.Equal(t, `INSERT INTO "users" DEFAULT VALUES`, Postgres.DefaultValues("users"))

	assert.Equal(t, "mysql", MySQL.Name())
	assert.Equal(t, "`db`.`users`", MySQL.QuoteIdentifier("db.users"))
	assert.Equal(t, "`we``ird`", MySQL.QuoteIdentifier("we`ird"))
	assert.Equal(t, "?", MySQL.Placeholder(3))
	assert.False(t, MySQL.Returning())
	assert.Equal(t, "INSERT INTO `users` () VALUES ()", MySQL.DefaultValues("users"))

	assert.Equal(t, "sqlite", SQLite.Name())
	assert.Equal(t, `"users"`, SQLite.QuoteIdentifier("users"))
	assert.Equal(t, "?", SQLite.Placeholder(1))
	assert.False(t, SQLite.Returning())
	assert.Equal(t, `INSERT INTO "users" DEFAULT VALUES`, SQLite.DefaultValues("users"))
}
