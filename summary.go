package uploader

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// State is the state of an upload run
type State int

const (
	Idle State = iota
	Running
	Completed
	Aborted
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Aborted:
		return "aborted"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Failure is a single failed row
type Failure struct {
	// Row is the 1-based index of the row (in the order supplied by the RowSource)
	Row int
	Err error
}

// Summary is the outcome of an upload run
//
// a Summary is always returned - even when the run is aborted - so that partially uploaded data is auditable
type Summary struct {
	JobID     uuid.UUID
	State     State
	StartedAt time.Time
	DoneAt    time.Time
	// Attempted is the number of rows read from the RowSource
	Attempted int
	// Succeeded is the number of rows fully processed
	Succeeded int
	// Failures is the failed rows, in row order
	Failures []Failure
	// Cause is the error that aborted the run (nil unless State is Aborted)
	Cause error
}

// Failed returns the number of failed rows
func (s *Summary) Failed() int {
	return len(s.Failures)
}

func (s *Summary) String() string {
	return fmt.Sprintf("%s: %d attempted, %d succeeded, %d failed", s.State, s.Attempted, s.Succeeded, len(s.Failures))
}
