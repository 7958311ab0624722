package uploader

import (
	"errors"
	"fmt"
	"strings"
)

// Kind is the primitive value kind of a schema field
type Kind int

const (
	KindText Kind = iota
	KindInteger
	KindDecimal
	KindBoolean
	KindDate
	KindTimestamp
)

var kindNames = map[Kind]string{
	KindText:      "text",
	KindInteger:   "integer",
	KindDecimal:   "decimal",
	KindBoolean:   "boolean",
	KindDate:      "date",
	KindTimestamp: "timestamp",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind parses a kind name (e.g. "text", "integer", "decimal", "boolean", "date", "timestamp")
//
// an empty string is treated as "text"
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return KindText, nil
	}
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return KindText, fmt.Errorf("unknown field kind %q", s)
}

// Field is a single field of a Schema
type Field struct {
	// Name is the name by which mappings refer to the field
	Name string
	// Column is the database column name - if empty, Name is used
	Column string
	// Kind is the primitive kind used to convert mapped values
	Kind Kind
}

// ColumnName returns the column name of the field
func (f Field) ColumnName() string {
	if f.Column != "" {
		return f.Column
	}
	return f.Name
}

// GeneratedKey is an option that can be passed to NewSchema
//
// and names the field whose value is generated by the database on insert
type GeneratedKey string

// Persistable is an option that can be passed to NewSchema
//
// by default, schemas are persistable - a non-persistable schema cannot be the target of a mapping
type Persistable bool

// Schema describes a record type that mappings are compiled against
//
// a Schema is immutable once created
type Schema struct {
	name         string
	table        string
	fields       []Field
	index        map[string]int
	generatedKey string
	keyIndex     int
	persistable  bool
}

// NewSchema creates a new schema
//
// options can be any of: GeneratedKey or Persistable
func NewSchema(name string, table string, fields []Field, options ...any) (*Schema, error) {
	if name == "" {
		return nil, errors.New("schema name must not be empty")
	}
	result := &Schema{
		name:        name,
		table:       table,
		fields:      append([]Field{}, fields...),
		index:       make(map[string]int, len(fields)),
		keyIndex:    -1,
		persistable: true,
	}
	if result.table == "" {
		result.table = name
	}
	for i, f := range result.fields {
		if f.Name == "" {
			return nil, fmt.Errorf("schema %q: field %d has no name", name, i)
		}
		if _, ok := result.index[f.Name]; ok {
			return nil, fmt.Errorf("schema %q: duplicate field %q", name, f.Name)
		}
		result.index[f.Name] = i
	}
	for _, o := range options {
		if o != nil {
			switch option := o.(type) {
			case GeneratedKey:
				result.generatedKey = string(option)
			case Persistable:
				result.persistable = bool(option)
			default:
				return nil, fmt.Errorf("unknown option type: %T", o)
			}
		}
	}
	if result.generatedKey != "" {
		idx, ok := result.index[result.generatedKey]
		if !ok {
			return nil, fmt.Errorf("schema %q: generated key %q is not a field", name, result.generatedKey)
		}
		result.keyIndex = idx
	}
	return result, nil
}

// MustNewSchema is the same as NewSchema, except it panics on error
func MustNewSchema(name string, table string, fields []Field, options ...any) *Schema {
	s, err := NewSchema(name, table, fields, options...)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Schema) Name() string {
	return s.name
}

func (s *Schema) Table() string {
	return s.table
}

// NumFields returns the number of fields
func (s *Schema) NumFields() int {
	return len(s.fields)
}

// Field returns the field at the given ordinal
func (s *Schema) Field(idx int) Field {
	return s.fields[idx]
}

// Fields returns a copy of the schema fields, in ordinal order
func (s *Schema) Fields() []Field {
	return append([]Field{}, s.fields...)
}

// FieldIndex returns the ordinal of the named field
func (s *Schema) FieldIndex(name string) (int, bool) {
	idx, ok := s.index[name]
	return idx, ok
}

// GeneratedKey returns the name of the generated key field (empty if the schema has none)
func (s *Schema) GeneratedKey() string {
	return s.generatedKey
}

// KeyIndex returns the ordinal of the generated key field, or -1
func (s *Schema) KeyIndex() int {
	return s.keyIndex
}

func (s *Schema) Persistable() bool {
	return s.persistable
}

// SchemaCatalog resolves schemas by name
type SchemaCatalog interface {
	// Schema returns the named schema - second return arg is false if not known
	Schema(name string) (*Schema, bool)
}

// Schemas is a SchemaCatalog of schemas by name
type Schemas map[string]*Schema

var _ SchemaCatalog = Schemas{}

func (s Schemas) Schema(name string) (*Schema, bool) {
	sch, ok := s[name]
	return sch, ok && sch != nil
}

// NewSchemas creates a catalog from the given schemas (keyed by schema name)
func NewSchemas(schemas ...*Schema) Schemas {
	result := make(Schemas, len(schemas))
	for _, s := range schemas {
		result[s.name] = s
	}
	return result
}
