package uploader

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// JobContext is the shared context of a single upload run
//
// it is passed to the RowSource on every call and to every Function invoked while evaluating a row.
// Generated keys are placed in its variables before the next row is requested.
type JobContext struct {
	ctx           context.Context
	jobID         uuid.UUID
	logger        *zap.Logger
	vars          map[string]string
	row           int
	lastRowFailed bool
}

// NewJobContext creates a new JobContext
//
// a nil logger is replaced with a no-op logger
func NewJobContext(ctx context.Context, logger *zap.Logger) *JobContext {
	if ctx == nil {
		ctx = context.Background()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	id := uuid.New()
	return &JobContext{
		ctx:    ctx,
		jobID:  id,
		logger: logger.With(zap.String("job", id.String())),
		vars:   map[string]string{},
	}
}

func (jc *JobContext) Context() context.Context {
	return jc.ctx
}

func (jc *JobContext) JobID() uuid.UUID {
	return jc.jobID
}

// Logger returns the job logger (already tagged with the job id)
func (jc *JobContext) Logger() *zap.Logger {
	return jc.logger
}

// Var returns a job variable (e.g. a generated key put back by an earlier insert)
func (jc *JobContext) Var(name string) (string, bool) {
	v, ok := jc.vars[name]
	return v, ok
}

// SetVar sets a job variable
func (jc *JobContext) SetVar(name string, value string) {
	jc.vars[name] = value
}

// UnsetVar removes a job variable
func (jc *JobContext) UnsetVar(name string) {
	delete(jc.vars, name)
}

// RowIndex returns the 1-based index of the row currently being processed (0 before the first row)
func (jc *JobContext) RowIndex() int {
	return jc.row
}

// LastRowFailed reports whether the previously processed row failed
func (jc *JobContext) LastRowFailed() bool {
	return jc.lastRowFailed
}
