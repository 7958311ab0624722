package uploader

import (
	"fmt"
	"strings"
)

const (
	sigilVariable  = '@'
	sigilConstant  = '='
	sigilParameter = '$'
	sigilLookup    = '#'
	sigilFunction  = '%'
)

type expressionParser struct {
	env     *Environment
	runtime map[string]bool
}

// parseExpression parses a single field expression into a ValueProvider
//
// the returned error (if any) does not have Form, Field or Expression set - the caller fills those in
func (p *expressionParser) parseExpression(text string, callsAllowed bool) (ValueProvider, *CompileError) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Constant{}, nil
	}
	rest := text[1:]
	switch text[0] {
	case sigilConstant:
		return Constant{Value: rest}, nil
	case sigilVariable:
		if rest == "" {
			return nil, &CompileError{Code: BadExpression, Detail: "variable name is missing"}
		}
		return RowVariable{Column: rest}, nil
	case sigilParameter:
		if v, ok := p.env.Params[rest]; ok {
			return Parameter{Name: rest, Value: v}, nil
		}
		if p.runtime[rest] {
			return Parameter{Name: rest, Runtime: true}, nil
		}
		return nil, &CompileError{Code: UndefinedParameter, Name: rest, Detail: "not defined in the parameters list"}
	case sigilLookup, sigilFunction:
		if !callsAllowed {
			return nil, &CompileError{Code: BadExpression, Detail: fmt.Sprintf("%q - argument of a function/lookup can not be a function/lookup", text)}
		}
		return p.parseCall(text[0], rest)
	}
	return Constant{Value: text}, nil
}

func (p *expressionParser) parseCall(sigil byte, text string) (ValueProvider, *CompileError) {
	open := strings.IndexByte(text, '(')
	if open == -1 {
		return nil, malformedCall("'(' not found")
	}
	if end := strings.IndexByte(text[open:], ')'); end == -1 {
		return nil, malformedCall("')' not found")
	} else if open+end != len(text)-1 {
		return nil, malformedCall("not ending with ')'")
	}
	name := strings.TrimSpace(text[:open])
	if name == "" {
		return nil, malformedCall("name is missing")
	}
	inner := strings.TrimSpace(text[open+1 : len(text)-1])
	if inner == "" {
		return nil, malformedCall("at least one argument is required")
	}
	parts := strings.Split(inner, ",")
	args := make([]ValueProvider, len(parts))
	for i, part := range parts {
		arg, err := p.parseExpression(part, false)
		if err != nil {
			return nil, err
		}
		args[i] = arg
	}
	if sigil == sigilFunction {
		return p.functionCall(name, args)
	}
	return p.lookupCall(name, args)
}

func (p *expressionParser) functionCall(name string, args []ValueProvider) (ValueProvider, *CompileError) {
	fn, ok := p.env.Functions[name]
	if !ok || fn == nil {
		return nil, &CompileError{Code: UnknownFunction, Name: name, Detail: "not declared as a function"}
	}
	if arity, ok := fn.(FunctionArity); ok {
		least, most := arity.NumArgs()
		if len(args) < least || (most >= 0 && len(args) > most) {
			return nil, &CompileError{Code: WrongArgCount, Name: name, Detail: arityDetail(len(args), least, most)}
		}
	}
	return FunctionCall{Name: name, Fn: fn, Args: args}, nil
}

func (p *expressionParser) lookupCall(name string, args []ValueProvider) (ValueProvider, *CompileError) {
	table, ok := p.env.ValueLists[name]
	if !ok {
		return nil, &CompileError{Code: UnknownLookup, Name: name, Detail: "not a valid lookup name"}
	}
	if p.env.KeyedLists[name] {
		if len(args) != 2 {
			return nil, &CompileError{Code: WrongArgCount, Name: name, Detail: fmt.Sprintf("used with %d args - it is a keyed list and requires 2 (key, value)", len(args))}
		}
		return LookupCall{Name: name, Table: table, Keyed: true, Key: args[0], Value: args[1]}, nil
	}
	if len(args) != 1 {
		return nil, &CompileError{Code: WrongArgCount, Name: name, Detail: fmt.Sprintf("used with %d args - it is not a keyed list and requires 1", len(args))}
	}
	return LookupCall{Name: name, Table: table, Value: args[0]}, nil
}

func malformedCall(detail string) *CompileError {
	return &CompileError{Code: MalformedCall, Detail: detail + " - expected name(arg1, arg2, ...)"}
}

func arityDetail(n int, least int, most int) string {
	if most < 0 {
		return fmt.Sprintf("used with %d args - requires at least %d", n, least)
	}
	if least == most {
		return fmt.Sprintf("used with %d args - requires %d", n, least)
	}
	return fmt.Sprintf("used with %d args - requires %d to %d", n, least, most)
}
