package uploader

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
)

// FatalClassifier is an option that can be passed to NewUploader
//
// and decides whether a row failure is fatal (aborting the remainder of the run) or row scoped
// (recorded in the Summary and the run continues)
type FatalClassifier interface {
	IsFatal(err error) bool
}

// FatalClassifierFunc is an adapter to allow the use of an ordinary function as a FatalClassifier
type FatalClassifierFunc func(err error) bool

var _ FatalClassifier = FatalClassifierFunc(nil)

func (f FatalClassifierFunc) IsFatal(err error) bool {
	return f(err)
}

// DefaultFatalClassifier is the FatalClassifier used when none is passed to NewUploader
//
// evaluation errors are never fatal. Lost connections, finished transactions and cancelled contexts are.
var DefaultFatalClassifier FatalClassifier = FatalClassifierFunc(isConnectionError)

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) || errors.Is(err, sql.ErrTxDone) ||
		errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, mysql.ErrInvalidConn) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "57P01", "57P02", "57P03":
			// admin_shutdown, crash_shutdown, cannot_connect_now
			return true
		}
		// class 08 - connection exception
		return pqErr.Code.Class() == "08"
	}
	return false
}
