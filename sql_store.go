package uploader

import (
	"context"
	"strings"
)

// SqlStore is a Store that inserts records into database tables (one table per schema)
type SqlStore struct {
	sqli    SqlInterface
	dialect Dialect
}

var _ Store = (*SqlStore)(nil)

// NewSqlStore creates a new SqlStore
//
// sqli is typically a *sql.Tx owned by the caller
func NewSqlStore(sqli SqlInterface, dialect Dialect) *SqlStore {
	return &SqlStore{
		sqli:    sqli,
		dialect: dialect,
	}
}

func (s *SqlStore) Insert(ctx context.Context, rec *Record) (key any, err error) {
	schema := rec.Schema()
	query, args := s.insertStatement(rec)
	keyIdx := schema.KeyIndex()
	if keyIdx >= 0 && s.dialect.Returning() {
		query += " RETURNING " + s.dialect.QuoteIdentifier(schema.Field(keyIdx).ColumnName())
		err = s.sqli.QueryRowContext(ctx, query, args...).Scan(&key)
		return normalizeKey(key), err
	}
	res, err := s.sqli.ExecContext(ctx, query, args...)
	if err != nil || keyIdx < 0 {
		return nil, err
	}
	if v, ok := rec.Get(schema.Field(keyIdx).Name); ok && v != nil {
		return v, nil
	}
	return res.LastInsertId()
}

func (s *SqlStore) insertStatement(rec *Record) (string, []any) {
	schema := rec.Schema()
	assigned := rec.Assigned()
	if len(assigned) == 0 {
		return s.dialect.DefaultValues(schema.Table()), nil
	}
	cols := make([]string, len(assigned))
	markers := make([]string, len(assigned))
	args := make([]any, len(assigned))
	for i, idx := range assigned {
		cols[i] = s.dialect.QuoteIdentifier(schema.Field(idx).ColumnName())
		markers[i] = s.dialect.Placeholder(i + 1)
		args[i] = rec.Value(idx)
	}
	return "INSERT INTO " + s.dialect.QuoteIdentifier(schema.Table()) +
		" (" + strings.Join(cols, ",") + ") VALUES (" + strings.Join(markers, ",") + ")", args
}

func normalizeKey(key any) any {
	if b, ok := key.([]byte); ok {
		return string(b)
	}
	return key
}
