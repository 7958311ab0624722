package uploader

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestDefaultFatalClassifier(t *testing.T) {
	testCases := []struct {
		err    error
		expect bool
	}{
		{nil, false},
		{errDummy, false},
		{&EvaluationError{Code: LookupMiss, Name: "status"}, false},
		{&EvaluationError{Code: FunctionFailure, Name: "fn", Err: context.Canceled}, false},
		{&PersistenceError{Schema: "user", Err: driver.ErrBadConn}, true},
		{&PersistenceError{Schema: "user", Err: errDummy}, false},
		{sql.ErrConnDone, true},
		{fmt.Errorf("wrapped: %w", sql.ErrTxDone), true},
		{context.Canceled, true},
		{context.DeadlineExceeded, true},
		{&PersistenceError{Err: mysql.ErrInvalidConn}, true},
		{&PersistenceError{Err: &pq.Error{Code: "08006"}}, true},
		{&PersistenceError{Err: &pq.Error{Code: "57P01"}}, true},
		{&PersistenceError{Err: &pq.Error{Code: "23505"}}, false},
	}
	for i, tc := range testCases {
		t.Run(fmt.Sprintf("[%d]", i+1), func(t *testing.T) {
			assert.Equal(t, tc.expect, DefaultFatalClassifier.IsFatal(tc.err))
		})
	}
}
