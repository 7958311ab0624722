package uploader

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"

	"go.uber.org/zap"
)

// Params is an option that can be passed to ParseJob
//
// and supplies job parameters in addition to (and overriding) those declared in the job's "params"
type Params map[string]string

// Job is a compiled upload job - the inserts (mappings) run, in order, for every row
type Job struct {
	env      Environment
	mappings []*Mapping
}

// Mappings returns the compiled inserts, in order
func (j *Job) Mappings() []*Mapping {
	return append([]*Mapping{}, j.mappings...)
}

// Environment returns the environment the job was compiled against
func (j *Job) Environment() Environment {
	return j.env
}

// NewUploader creates an Uploader for the job's inserts
//
// options are as for NewUploader
func (j *Job) NewUploader(options ...any) (Uploader, error) {
	return NewUploader(j.mappings, options...)
}

// ParseJob parses and compiles a JSON upload job
//
// the job JSON has the form:
//
//	{
//	  "params": {"operator": "admin", "batch": 42},
//	  "lookups": {
//	    "status": {"Active": "A", "Inactive": "I"},
//	    "city": {"IN": {"Mumbai": "BOM"}, "US": {"Boston": "BOS"}},
//	    "country": "countries"
//	  },
//	  "functions": {"join": "concat"},
//	  "inserts": [
//	    {"form": "customer", "generatedKeyOutputName": "customerId", "fields": {...}},
//	    {"form": "address", "fields": {"customer": "$customerId", ...}}
//	  ]
//	}
//
// a lookup whose value is a string names a list obtained from the ValueListProvider. Functions map an
// alias used in expressions to a name in the functions registry - if "functions" is omitted, every
// registered function is available by its own name.
//
// options can be any of: *zap.Logger or Params
func ParseJob(ctx context.Context, data []byte, catalog SchemaCatalog, functions map[string]Function, lists ValueListProvider, options ...any) (*Job, error) {
	logger := zap.NewNop()
	var extraParams Params
	for _, o := range options {
		if o != nil {
			switch option := o.(type) {
			case *zap.Logger:
				logger = option
			case Params:
				extraParams = option
			default:
				return nil, fmt.Errorf("unknown option type: %T", o)
			}
		}
	}
	var raw struct {
		Params    map[string]json.RawMessage `json:"params"`
		Lookups   map[string]json.RawMessage `json:"lookups"`
		Functions map[string]json.RawMessage `json:"functions"`
		Inserts   []json.RawMessage          `json:"inserts"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid upload job: %w", err)
	}
	env := Environment{
		Params:     map[string]string{},
		ValueLists: map[string]map[string]string{},
		KeyedLists: map[string]bool{},
		Functions:  map[string]Function{},
	}
	for _, name := range slices.Sorted(maps.Keys(raw.Params)) {
		v, ok := primitiveString(raw.Params[name])
		if !ok {
			return nil, fmt.Errorf("parameter %q has an invalid value", name)
		}
		env.Params[name] = v
	}
	for k, v := range extraParams {
		env.Params[k] = v
	}
	for _, name := range slices.Sorted(maps.Keys(raw.Lookups)) {
		if err := parseLookup(ctx, name, raw.Lookups[name], lists, &env); err != nil {
			return nil, err
		}
	}
	if raw.Functions == nil {
		maps.Copy(env.Functions, functions)
	}
	for _, alias := range slices.Sorted(maps.Keys(raw.Functions)) {
		name, ok := primitiveString(raw.Functions[alias])
		if !ok {
			return nil, fmt.Errorf("function %q should have a string value", alias)
		}
		fn, ok := functions[name]
		if !ok {
			return nil, &CompileError{Code: UnknownFunction, Name: name, Detail: "not defined as a function in this application"}
		}
		env.Functions[alias] = fn
	}
	if len(raw.Inserts) == 0 {
		return nil, errors.New("inserts attribute is missing or empty")
	}
	specs := make([]MappingSpec, len(raw.Inserts))
	runtime := make(RuntimeParams, 0, len(raw.Inserts))
	for i, ins := range raw.Inserts {
		spec, err := ParseMappingSpec(ins)
		if err != nil {
			return nil, fmt.Errorf("insert %d: %w", i, err)
		}
		specs[i] = spec
		if spec.GeneratedKeyOutputName != "" {
			runtime = append(runtime, spec.GeneratedKeyOutputName)
		}
	}
	result := &Job{
		env:      env,
		mappings: make([]*Mapping, len(specs)),
	}
	for i, spec := range specs {
		m, err := Compile(spec, catalog, env, logger, runtime)
		if err != nil {
			return nil, err
		}
		result.mappings[i] = m
	}
	logger.Debug("upload job compiled",
		zap.Int("inserts", len(result.mappings)),
		zap.Int("params", len(env.Params)),
		zap.Int("lookups", len(env.ValueLists)),
		zap.Int("functions", len(env.Functions)))
	return result, nil
}

func parseLookup(ctx context.Context, name string, data json.RawMessage, lists ValueListProvider, env *Environment) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var listName string
		_ = json.Unmarshal(data, &listName)
		var vl *ValueList
		var err error
		if lists != nil {
			if vl, err = lists.ValueList(ctx, listName); err != nil {
				return err
			}
		}
		if vl == nil {
			return &CompileError{Code: UnknownLookup, Name: listName, Detail: "not defined as a value list in this application"}
		}
		env.ValueLists[name] = vl.Values
		if vl.Keyed {
			env.KeyedLists[name] = true
		}
		return nil
	}
	var entries map[string]json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil || entries == nil {
		return fmt.Errorf("lookup %q is invalid", name)
	}
	keyed := false
	for _, v := range entries {
		if v = bytes.TrimSpace(v); len(v) > 0 && v[0] == '{' {
			keyed = true
			break
		}
	}
	if !keyed {
		list := make(map[string]string, len(entries))
		for text, v := range entries {
			s, ok := primitiveString(v)
			if !ok {
				return fmt.Errorf("lookup %q: entry %q has an invalid value", name, text)
			}
			list[text] = s
		}
		env.ValueLists[name] = list
		return nil
	}
	nested := make(map[string]map[string]string, len(entries))
	for key, v := range entries {
		var inner map[string]json.RawMessage
		if err := json.Unmarshal(v, &inner); err != nil || inner == nil {
			return fmt.Errorf("lookup %q: key %q in a keyed list should have an object value", name, key)
		}
		nested[key] = make(map[string]string, len(inner))
		for text, iv := range inner {
			s, ok := primitiveString(iv)
			if !ok {
				return fmt.Errorf("lookup %q: entry %q of key %q has an invalid value", name, text, key)
			}
			nested[key][text] = s
		}
	}
	flat, err := FlattenKeyed(nested)
	if err != nil {
		return fmt.Errorf("lookup %q: %w", name, err)
	}
	env.ValueLists[name] = flat
	env.KeyedLists[name] = true
	return nil
}

// primitiveString returns the string form of a JSON string, number or boolean
func primitiveString(data json.RawMessage) (string, bool) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return "", false
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return "", false
		}
		return s, true
	case '{', '[', 'n':
		return "", false
	}
	return string(data), true
}
