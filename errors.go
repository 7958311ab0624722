package uploader

import (
	"fmt"
	"strings"
)

// CompileErrorCode identifies the reason a mapping failed to compile
type CompileErrorCode int

const (
	UnknownSchema CompileErrorCode = iota + 1
	UnknownField
	BadExpression
	MalformedCall
	UndefinedParameter
	UnknownFunction
	UnknownLookup
	WrongArgCount
)

func (c CompileErrorCode) String() string {
	switch c {
	case UnknownSchema:
		return "unknown schema"
	case UnknownField:
		return "unknown field"
	case BadExpression:
		return "bad expression"
	case MalformedCall:
		return "malformed call"
	case UndefinedParameter:
		return "undefined parameter"
	case UnknownFunction:
		return "unknown function"
	case UnknownLookup:
		return "unknown lookup"
	case WrongArgCount:
		return "wrong argument count"
	}
	return fmt.Sprintf("CompileErrorCode(%d)", int(c))
}

// CompileError is returned when a mapping (or job) cannot be compiled
//
// compile errors are fatal to the whole job - no partial mapping is ever produced
type CompileError struct {
	Code CompileErrorCode
	// Form is the target schema name of the mapping being compiled
	Form string
	// Field is the field whose expression failed (empty if not field specific)
	Field string
	// Expression is the raw expression text of the field
	Expression string
	// Name is the parameter, function or lookup name involved (if any)
	Name   string
	Detail string
}

func (e *CompileError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Code.String())
	if e.Name != "" {
		sb.WriteString(fmt.Sprintf(" %q", e.Name))
	}
	if e.Form != "" {
		sb.WriteString(fmt.Sprintf(" in form %q", e.Form))
	}
	if e.Field != "" {
		sb.WriteString(fmt.Sprintf(" field %q", e.Field))
	}
	if e.Expression != "" {
		sb.WriteString(fmt.Sprintf(" expression %q", e.Expression))
	}
	if e.Detail != "" {
		sb.WriteString(": " + e.Detail)
	}
	return sb.String()
}

// EvaluationErrorCode identifies the reason a ValueProvider could not produce a value for a row
type EvaluationErrorCode int

const (
	LookupMiss EvaluationErrorCode = iota + 1
	FunctionFailure
)

func (c EvaluationErrorCode) String() string {
	switch c {
	case LookupMiss:
		return "lookup miss"
	case FunctionFailure:
		return "function failure"
	}
	return fmt.Sprintf("EvaluationErrorCode(%d)", int(c))
}

// EvaluationError is a row scoped error raised while evaluating a ValueProvider
type EvaluationError struct {
	Code EvaluationErrorCode
	// Name is the lookup or function name
	Name string
	// Input is the (flattened) value looked up, for LookupMiss
	Input string
	Err   error
}

func (e *EvaluationError) Error() string {
	switch e.Code {
	case LookupMiss:
		return fmt.Sprintf("lookup miss: %q not found in %q", e.Input, e.Name)
	case FunctionFailure:
		if e.Err != nil {
			return fmt.Sprintf("function %q failed: %s", e.Name, e.Err.Error())
		}
		return fmt.Sprintf("function %q failed", e.Name)
	}
	return e.Code.String()
}

func (e *EvaluationError) Unwrap() error {
	return e.Err
}

// PersistenceError is raised when a record cannot be written to the Store
type PersistenceError struct {
	// Schema is the name of the schema whose record failed to persist
	Schema string
	Err    error
	// Fatal is set by the Uploader when the FatalClassifier deems the error fatal
	Fatal bool
}

func (e *PersistenceError) Error() string {
	if e.Schema == "" {
		return "persistence: " + e.Err.Error()
	}
	return fmt.Sprintf("persisting %q: %s", e.Schema, e.Err.Error())
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
