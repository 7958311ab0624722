package uploader

import "fmt"

// Record is a typed row of a Schema, ready to be persisted
//
// fields that have not been assigned are omitted when persisting (so they take the store's default)
type Record struct {
	schema   *Schema
	values   []any
	assigned []bool
}

// NewRecord creates a new record with no fields assigned
func NewRecord(schema *Schema) *Record {
	return &Record{
		schema:   schema,
		values:   make([]any, schema.NumFields()),
		assigned: make([]bool, schema.NumFields()),
	}
}

func (r *Record) Schema() *Schema {
	return r.schema
}

// Get returns the value of the named field - second return arg is false if the field is unknown or unassigned
func (r *Record) Get(name string) (any, bool) {
	if idx, ok := r.schema.FieldIndex(name); ok && r.assigned[idx] {
		return r.values[idx], true
	}
	return nil, false
}

// Set assigns the value of the named field
func (r *Record) Set(name string, value any) error {
	idx, ok := r.schema.FieldIndex(name)
	if !ok {
		return fmt.Errorf("%q is not a field of %q", name, r.schema.name)
	}
	r.assign(idx, value)
	return nil
}

// Unset removes the assignment of the named field
func (r *Record) Unset(name string) {
	if idx, ok := r.schema.FieldIndex(name); ok {
		r.values[idx] = nil
		r.assigned[idx] = false
	}
}

// Assigned returns the ordinals of the assigned fields, in order
func (r *Record) Assigned() []int {
	result := make([]int, 0, len(r.assigned))
	for i, a := range r.assigned {
		if a {
			result = append(result, i)
		}
	}
	return result
}

// Value returns the value at the field ordinal
func (r *Record) Value(idx int) any {
	return r.values[idx]
}

// Map returns the assigned values by field name
func (r *Record) Map() map[string]any {
	result := make(map[string]any, len(r.values))
	for i, a := range r.assigned {
		if a {
			result[r.schema.fields[i].Name] = r.values[i]
		}
	}
	return result
}

func (r *Record) assign(idx int, value any) {
	r.values[idx] = value
	r.assigned[idx] = true
}
