package uploader

// Function is a named function that can be invoked from a mapping expression (e.g. `%concat(@first, =" ", @last)`)
//
// functions should be pure - the JobContext is available for emitting diagnostics only.
// A nil result is treated as an empty string; an error (or a panic) fails the row.
type Function interface {
	Call(jc *JobContext, args []string) (any, error)
}

// FunctionFunc is an adapter to allow the use of an ordinary function as a Function
type FunctionFunc func(jc *JobContext, args []string) (any, error)

var _ Function = FunctionFunc(nil)

func (f FunctionFunc) Call(jc *JobContext, args []string) (any, error) {
	return f(jc, args)
}

// FunctionArity is an optional interface that a Function can implement
//
// if implemented, the number of arguments in a call is checked at compile time
type FunctionArity interface {
	// NumArgs returns the minimum and maximum number of args (most < 0 means unlimited)
	NumArgs() (least int, most int)
}

// FixedArity wraps a Function so that compile time checks the number of args
func FixedArity(fn Function, least int, most int) Function {
	return &arityFunction{Function: fn, least: least, most: most}
}

type arityFunction struct {
	Function
	least int
	most  int
}

var _ FunctionArity = (*arityFunction)(nil)

func (a *arityFunction) NumArgs() (int, int) {
	return a.least, a.most
}
