package uploader

import "context"

// Store is the persistence handle that an Uploader writes records to
//
// a Store participates in whatever transaction its owner (the caller of Uploader.Run) has opened -
// the Uploader never begins, commits or rolls back itself
type Store interface {
	// Insert persists the record and returns the generated key (nil if the schema has no generated key)
	Insert(ctx context.Context, rec *Record) (key any, err error)
}

// RowScope is an optional interface that a Store can implement to be told of row boundaries
//
// BeginRow is called before the first insert of each row, EndRow after the last (with failed set if any
// part of the row failed). Errors from either are treated as persistence errors for the row.
type RowScope interface {
	BeginRow(ctx context.Context) error
	EndRow(ctx context.Context, failed bool) error
}
