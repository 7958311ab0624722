package uploader

import (
	"context"
	"fmt"
)

// RecordPostProcessor is an option that can be passed to NewUploader
//
// Any RecordPostProcessor(s) are executed, in order, after a record has been built from a row and before it
// is persisted - returning an error fails the row
type RecordPostProcessor interface {
	PostProcess(ctx context.Context, jc *JobContext, rec *Record) error
}

// RecordPostProcessorFunc is an adapter to allow the use of an ordinary function as a RecordPostProcessor
type RecordPostProcessorFunc func(ctx context.Context, jc *JobContext, rec *Record) error

var _ RecordPostProcessor = RecordPostProcessorFunc(nil)

func (f RecordPostProcessorFunc) PostProcess(ctx context.Context, jc *JobContext, rec *Record) error {
	return f(ctx, jc, rec)
}

// RequireFields returns a RecordPostProcessor that fails the row if any of the named fields is unassigned or nil
func RequireFields(names ...string) RecordPostProcessor {
	return RecordPostProcessorFunc(func(ctx context.Context, jc *JobContext, rec *Record) error {
		for _, name := range names {
			if v, ok := rec.Get(name); !ok || v == nil {
				return fmt.Errorf("field %q is required", name)
			}
		}
		return nil
	})
}
