package uploader

// FieldExclusion is an option that can be passed to NewUploader
//
// and determines which mapped fields are unassigned (so take the store's default) before a record is
// post-processed and persisted
type FieldExclusion interface {
	// Exclude should return true if the field of the named schema is to be excluded
	Exclude(schema string, field string) bool
}

// FieldExclusions is a FieldExclusion that excludes a field if any of its exclusions do
type FieldExclusions []FieldExclusion

var _ FieldExclusion = FieldExclusions{}

func (xs FieldExclusions) Exclude(schema string, field string) bool {
	for _, x := range xs {
		if x.Exclude(schema, field) {
			return true
		}
	}
	return false
}

type ConditionalExclude func(schema string, field string) bool

// AllowedFields is a FieldExclusion that excludes any field not in the map
//
// a non-nil ConditionalExclude decides whether an allowed field is excluded
type AllowedFields map[string]ConditionalExclude

var _ FieldExclusion = AllowedFields{}

func (af AllowedFields) Exclude(schema string, field string) bool {
	if cx, ok := af[field]; ok {
		if cx != nil {
			return cx(schema, field)
		}
		return false
	}
	return true
}

// ExcludeSchemaFields is a FieldExclusion of field names by schema name
type ExcludeSchemaFields map[string][]string

var _ FieldExclusion = ExcludeSchemaFields{}

func (x ExcludeSchemaFields) Exclude(schema string, field string) bool {
	for _, f := range x[schema] {
		if f == field {
			return true
		}
	}
	return false
}

func applyExclusions(rec *Record, exclusions []FieldExclusion) {
	if len(exclusions) == 0 {
		return
	}
	schema := rec.Schema()
	for _, idx := range rec.Assigned() {
		name := schema.Field(idx).Name
		for _, x := range exclusions {
			if x.Exclude(schema.Name(), name) {
				rec.Unset(name)
				break
			}
		}
	}
}
