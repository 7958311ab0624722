package uploader

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Uploader is the main upload driver interface
type Uploader interface {
	// Run reads rows from the source, maps each through the compiled mappings (in order) and inserts the
	// resulting records into the store
	//
	// the run continues past row scoped failures (recorded in the Summary) and aborts on a fatal failure -
	// in which case the error is also returned. The Summary is always returned.
	//
	// the store is owned by the caller - the Uploader never begins, commits or rolls back transactions
	Run(ctx context.Context, source RowSource, store Store) (*Summary, error)
	// Validate is a dry run - rows are read, mapped and post-processed but nothing is persisted
	//
	// generated keys are never available during validation
	Validate(ctx context.Context, source RowSource) *Summary
	// Mappings returns the compiled mappings used for each row
	Mappings() []*Mapping
}

// NewUploader creates a new upload driver for the compiled mappings
//
// options can be any of: *zap.Logger, FatalClassifier, Limiter, ErrorTranslator, RecordPostProcessor, FieldExclusion or NullAsZero
func NewUploader(mappings []*Mapping, options ...any) (Uploader, error) {
	return newUploader(mappings, options...)
}

// MustNewUploader is the same as NewUploader, except it panics on error
func MustNewUploader(mappings []*Mapping, options ...any) Uploader {
	u, err := NewUploader(mappings, options...)
	if err != nil {
		panic(err)
	}
	return u
}

func newUploader(mappings []*Mapping, options ...any) (*uploader, error) {
	if len(mappings) == 0 {
		return nil, errors.New("at least one mapping is required")
	}
	for i, m := range mappings {
		if m == nil {
			return nil, fmt.Errorf("mapping %d is nil", i)
		}
	}
	result := &uploader{
		mappings:   append([]*Mapping{}, mappings...),
		logger:     zap.NewNop(),
		fatal:      DefaultFatalClassifier,
		limiter:    defaultLimiter,
		translator: defaultErrorTranslator,
	}
	if err := result.addOptions(options...); err != nil {
		return nil, err
	}
	return result, nil
}

type uploader struct {
	mappings       []*Mapping
	logger         *zap.Logger
	fatal          FatalClassifier
	limiter        Limiter
	translator     ErrorTranslator
	postProcessors []RecordPostProcessor
	exclusions     []FieldExclusion
	converter      ValueConverter
}

var _ Uploader = (*uploader)(nil)

func (u *uploader) addOptions(options ...any) error {
	for _, o := range options {
		if o != nil {
			switch option := o.(type) {
			case *zap.Logger:
				u.logger = option
			case FatalClassifier:
				u.fatal = option
			case Limiter:
				u.limiter = option
			case ErrorTranslator:
				u.translator = option
			case RecordPostProcessor:
				u.postProcessors = append(u.postProcessors, option)
			case FieldExclusion:
				u.exclusions = append(u.exclusions, option)
			case NullAsZero:
				u.converter.NullAsZero = bool(option)
			default:
				return fmt.Errorf("unknown option type: %T", o)
			}
		}
	}
	return nil
}

func (u *uploader) Mappings() []*Mapping {
	return append([]*Mapping{}, u.mappings...)
}

func (u *uploader) Run(ctx context.Context, source RowSource, store Store) (*Summary, error) {
	if store == nil {
		return nil, errors.New("store is required")
	}
	return u.run(ctx, source, store)
}

func (u *uploader) Validate(ctx context.Context, source RowSource) *Summary {
	summary, _ := u.run(ctx, source, nil)
	return summary
}

func (u *uploader) run(ctx context.Context, source RowSource, store Store) (*Summary, error) {
	jc := NewJobContext(ctx, u.logger)
	summary := &Summary{
		JobID:     jc.jobID,
		State:     Running,
		StartedAt: time.Now(),
		Failures:  []Failure{},
	}
	scope, _ := store.(RowScope)
	for {
		row, err := source.NextRow(jc)
		if err != nil {
			return u.abort(jc, summary, fmt.Errorf("reading row %d: %w", summary.Attempted+1, err))
		}
		if row == nil || u.limiter.LimitReached(summary.Attempted+1) {
			break
		}
		summary.Attempted++
		jc.row = summary.Attempted
		err = u.processRow(jc, row.Clone(), store, scope)
		jc.lastRowFailed = err != nil
		if err == nil {
			summary.Succeeded++
			continue
		}
		fatal := u.fatal.IsFatal(err)
		var pErr *PersistenceError
		if errors.As(err, &pErr) {
			pErr.Fatal = fatal
		}
		summary.Failures = append(summary.Failures, Failure{Row: jc.row, Err: translateError(err, u.translator)})
		if fatal {
			return u.abort(jc, summary, err)
		}
		jc.logger.Warn("row failed", zap.Int("row", jc.row), zap.Error(err))
	}
	summary.State = Completed
	summary.DoneAt = time.Now()
	jc.logger.Info("upload completed",
		zap.Stringer("state", summary.State),
		zap.Int("attempted", summary.Attempted),
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("failed", summary.Failed()))
	return summary, nil
}

func (u *uploader) abort(jc *JobContext, summary *Summary, cause error) (*Summary, error) {
	summary.State = Aborted
	summary.Cause = cause
	summary.DoneAt = time.Now()
	jc.logger.Error("upload aborted",
		zap.Int("row", jc.row),
		zap.Int("attempted", summary.Attempted),
		zap.Int("succeeded", summary.Succeeded),
		zap.Error(cause))
	return summary, cause
}

// processRow runs every mapping for the row - stopping at the first failure
//
// store is nil when validating
func (u *uploader) processRow(jc *JobContext, row Row, store Store, scope RowScope) (err error) {
	ctx := jc.ctx
	if scope != nil {
		if bErr := scope.BeginRow(ctx); bErr != nil {
			return &PersistenceError{Err: bErr}
		}
		defer func() {
			if eErr := scope.EndRow(ctx, err != nil); eErr != nil && err == nil {
				err = &PersistenceError{Err: eErr}
			}
		}()
	}
	for _, m := range u.mappings {
		rec, rErr := m.Record(row, jc, u.converter)
		if rErr != nil {
			return rErr
		}
		applyExclusions(rec, u.exclusions)
		for _, pp := range u.postProcessors {
			if pErr := pp.PostProcess(ctx, jc, rec); pErr != nil {
				return pErr
			}
		}
		if store == nil {
			continue
		}
		key, iErr := store.Insert(ctx, rec)
		if iErr != nil {
			return &PersistenceError{Schema: m.schema.name, Err: iErr}
		}
		if m.generatedKeyName != "" {
			if key != nil {
				jc.SetVar(m.generatedKeyName, keyString(key))
			} else {
				jc.UnsetVar(m.generatedKeyName)
			}
		}
	}
	return nil
}

func keyString(key any) string {
	switch k := key.(type) {
	case string:
		return k
	case []byte:
		return string(k)
	}
	return fmt.Sprint(key)
}
