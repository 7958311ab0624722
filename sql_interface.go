package uploader

import (
	"context"
	"database/sql"
)

// SqlInterface is the database handle used by SqlStore and LoadValueList
//
// both *sql.DB and *sql.Tx implement it - so the caller decides whether writes participate in a transaction
type SqlInterface interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
