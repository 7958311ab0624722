package uploader

import (
	"fmt"

	"go.uber.org/zap"
)

// Environment is everything, other than the schema catalog, that mapping expressions are resolved against
type Environment struct {
	// Params is the job parameters (referenced as `$name`)
	Params map[string]string
	// ValueLists is the lookup tables (referenced as `#name(...)`) - keyed lists are flattened (see FlattenKeyed)
	ValueLists map[string]map[string]string
	// KeyedLists is the set of value list names that require two lookup args (key, value)
	KeyedLists map[string]bool
	// Functions is the function registry (referenced as `%name(...)`)
	Functions map[string]Function
}

// RuntimeParams is an option that can be passed to Compile
//
// and names generated key outputs (of this or other mappings in the same job) that `$name` expressions
// may refer to - these are resolved from job variables when the row is evaluated
type RuntimeParams []string

// Compile compiles the mapping spec into a Mapping
//
// options can be any of: *zap.Logger or RuntimeParams
func Compile(spec MappingSpec, catalog SchemaCatalog, env Environment, options ...any) (*Mapping, error) {
	logger := zap.NewNop()
	runtime := map[string]bool{}
	for _, o := range options {
		if o != nil {
			switch option := o.(type) {
			case *zap.Logger:
				logger = option
			case RuntimeParams:
				for _, name := range option {
					runtime[name] = true
				}
			default:
				return nil, fmt.Errorf("unknown option type: %T", o)
			}
		}
	}
	if spec.GeneratedKeyOutputName != "" {
		runtime[spec.GeneratedKeyOutputName] = true
	}
	m, cerr := compile(spec, catalog, &expressionParser{env: &env, runtime: runtime})
	if cerr != nil {
		logger.Warn("mapping compile failed",
			zap.String("form", cerr.Form),
			zap.String("field", cerr.Field),
			zap.String("expression", cerr.Expression),
			zap.Stringer("code", cerr.Code),
			zap.String("detail", cerr.Detail))
		return nil, cerr
	}
	logger.Debug("mapping compiled", zap.String("form", spec.Form), zap.Int("fields", len(spec.Fields)))
	return m, nil
}

// MustCompile is the same as Compile, except it panics on error
func MustCompile(spec MappingSpec, catalog SchemaCatalog, env Environment, options ...any) *Mapping {
	m, err := Compile(spec, catalog, env, options...)
	if err != nil {
		panic(err)
	}
	return m
}

// CompileJSON parses the JSON mapping spec and compiles it
func CompileJSON(data []byte, catalog SchemaCatalog, env Environment, options ...any) (*Mapping, error) {
	spec, err := ParseMappingSpec(data)
	if err != nil {
		return nil, err
	}
	return Compile(spec, catalog, env, options...)
}

func compile(spec MappingSpec, catalog SchemaCatalog, parser *expressionParser) (*Mapping, *CompileError) {
	if spec.Form == "" {
		return nil, &CompileError{Code: UnknownSchema, Detail: "form is required for a mapping"}
	}
	schema, ok := catalog.Schema(spec.Form)
	if !ok {
		return nil, &CompileError{Code: UnknownSchema, Name: spec.Form, Detail: "not a valid record name"}
	}
	if !schema.Persistable() {
		return nil, &CompileError{Code: UnknownSchema, Name: spec.Form, Detail: "record is not persistable"}
	}
	result := &Mapping{
		schema:           schema,
		generatedKeyName: spec.GeneratedKeyOutputName,
		providers:        make([]ValueProvider, schema.NumFields()),
	}
	for _, fe := range spec.Fields {
		idx, ok := schema.FieldIndex(fe.Field)
		if !ok {
			return nil, &CompileError{Code: UnknownField, Form: spec.Form, Field: fe.Field, Detail: "not a valid field name"}
		}
		vp, err := parser.parseExpression(fe.Expression, true)
		if err != nil {
			err.Form = spec.Form
			err.Field = fe.Field
			err.Expression = fe.Expression
			return nil, err
		}
		result.providers[idx] = vp
	}
	return result, nil
}
