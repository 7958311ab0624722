package uploader

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// TxPolicy determines how RunInTransaction scopes transactions
type TxPolicy int

const (
	// TxPerRun runs the whole upload in one transaction, with a savepoint per row (so failed rows are
	// rolled back individually) - committed if the run completes, rolled back if it aborts
	TxPerRun TxPolicy = iota
	// TxPerRow commits each successful row in its own transaction (failed rows are rolled back)
	TxPerRow
)

func (p TxPolicy) String() string {
	if p == TxPerRow {
		return "row"
	}
	return "run"
}

// ParseTxPolicy parses "run" or "row" (empty means "run")
func ParseTxPolicy(s string) (TxPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "run":
		return TxPerRun, nil
	case "row":
		return TxPerRow, nil
	}
	return TxPerRun, fmt.Errorf("unknown transaction policy %q", s)
}

// TxBeginner is implemented by *sql.DB
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// RunInTransaction runs the upload against the database using the given transaction policy
func RunInTransaction(ctx context.Context, db TxBeginner, up Uploader, source RowSource, dialect Dialect, policy TxPolicy) (*Summary, error) {
	if policy == TxPerRow {
		return up.Run(ctx, source, &rowTxStore{db: db, dialect: dialect})
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	summary, err := up.Run(ctx, source, &savepointStore{SqlStore: NewSqlStore(tx, dialect), tx: tx})
	if err != nil {
		_ = tx.Rollback()
		return summary, err
	}
	if err = tx.Commit(); err != nil {
		summary.State = Aborted
		summary.Cause = err
		return summary, err
	}
	return summary, nil
}

const rowSavepoint = "upload_row"

type savepointStore struct {
	*SqlStore
	tx *sql.Tx
}

var _ RowScope = (*savepointStore)(nil)

func (s *savepointStore) BeginRow(ctx context.Context) error {
	_, err := s.tx.ExecContext(ctx, "SAVEPOINT "+rowSavepoint)
	return err
}

func (s *savepointStore) EndRow(ctx context.Context, failed bool) error {
	if failed {
		if _, err := s.tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+rowSavepoint); err != nil {
			return err
		}
	}
	_, err := s.tx.ExecContext(ctx, "RELEASE SAVEPOINT "+rowSavepoint)
	return err
}

type rowTxStore struct {
	db      TxBeginner
	dialect Dialect
	tx      *sql.Tx
	store   *SqlStore
}

var _ Store = (*rowTxStore)(nil)
var _ RowScope = (*rowTxStore)(nil)

func (s *rowTxStore) BeginRow(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	s.tx = tx
	s.store = NewSqlStore(tx, s.dialect)
	return nil
}

func (s *rowTxStore) EndRow(ctx context.Context, failed bool) error {
	tx := s.tx
	s.tx, s.store = nil, nil
	if tx == nil {
		return nil
	}
	if failed {
		return tx.Rollback()
	}
	return tx.Commit()
}

func (s *rowTxStore) Insert(ctx context.Context, rec *Record) (any, error) {
	if s.store == nil {
		return nil, errors.New("no row transaction")
	}
	return s.store.Insert(ctx, rec)
}
