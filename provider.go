package uploader

import (
	"fmt"
	"strings"
)

// ValueProvider is a compiled node of a mapping expression that produces one string value for a row
//
// it is a closed set of variants: Constant, RowVariable, Parameter, FunctionCall and LookupCall
type ValueProvider interface {
	fmt.Stringer
	valueProvider()
}

// Constant always provides Value
type Constant struct {
	Value string
}

// RowVariable provides the value of Column from the current row
//
// if the row has no such column, a job variable of the same name is used (if set) - otherwise empty
type RowVariable struct {
	Column string
}

// Parameter provides the value of a job parameter
//
// parameters defined for the job are resolved at compile time (Value). A Runtime parameter names a
// generated key output and is resolved from the job variables each time it is evaluated.
type Parameter struct {
	Name    string
	Value   string
	Runtime bool
}

// FunctionCall invokes Fn with the values of Args
type FunctionCall struct {
	Name string
	Fn   Function
	Args []ValueProvider
}

// LookupCall looks up the value of Value (qualified by the value of Key for keyed lists) in Table
type LookupCall struct {
	Name  string
	Table map[string]string
	Keyed bool
	Key   ValueProvider
	Value ValueProvider
}

func (Constant) valueProvider()     {}
func (RowVariable) valueProvider()  {}
func (Parameter) valueProvider()    {}
func (FunctionCall) valueProvider() {}
func (LookupCall) valueProvider()   {}

func (p Constant) String() string {
	return "=" + p.Value
}

func (p RowVariable) String() string {
	return "@" + p.Column
}

func (p Parameter) String() string {
	return "$" + p.Name
}

func (p FunctionCall) String() string {
	return "%" + p.Name + argsString(p.Args...)
}

func (p LookupCall) String() string {
	if p.Keyed {
		return "#" + p.Name + argsString(p.Key, p.Value)
	}
	return "#" + p.Name + argsString(p.Value)
}

func argsString(args ...ValueProvider) string {
	s := "("
	for i, a := range args {
		if i > 0 {
			s += ","
		}
		s += a.String()
	}
	return s + ")"
}

// Evaluate evaluates the provider against the row
func Evaluate(p ValueProvider, row Row, jc *JobContext) (string, error) {
	switch vp := p.(type) {
	case Constant:
		return vp.Value, nil
	case RowVariable:
		if v, ok := row[vp.Column]; ok {
			return v, nil
		}
		if jc != nil {
			if v, ok := jc.Var(vp.Column); ok {
				return v, nil
			}
		}
		return "", nil
	case Parameter:
		if vp.Runtime {
			if jc != nil {
				v, _ := jc.Var(vp.Name)
				return v, nil
			}
			return "", nil
		}
		return vp.Value, nil
	case FunctionCall:
		args := make([]string, len(vp.Args))
		for i, a := range vp.Args {
			v, err := Evaluate(a, row, jc)
			if err != nil {
				return "", err
			}
			args[i] = v
		}
		result, err := callFunction(vp.Fn, jc, args)
		if err != nil {
			return "", &EvaluationError{Code: FunctionFailure, Name: vp.Name, Err: err}
		}
		if result == nil {
			return "", nil
		}
		return fmt.Sprint(result), nil
	case LookupCall:
		text, err := Evaluate(vp.Value, row, jc)
		if err != nil {
			return "", err
		}
		if vp.Keyed {
			key, err := Evaluate(vp.Key, row, jc)
			if err != nil {
				return "", err
			}
			if strings.Contains(key, KeySeparator) {
				return "", &EvaluationError{Code: LookupMiss, Name: vp.Name, Input: KeyedEntry(key, text)}
			}
			text = KeyedEntry(key, text)
		}
		if v, ok := vp.Table[text]; ok {
			return v, nil
		}
		return "", &EvaluationError{Code: LookupMiss, Name: vp.Name, Input: text}
	}
	return "", fmt.Errorf("unknown value provider type: %T", p)
}

// callFunction calls the function, converting a panic into an error
func callFunction(fn Function, jc *JobContext, args []string) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn.Call(jc, args)
}
