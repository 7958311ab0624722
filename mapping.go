package uploader

// Mapping is a compiled mapping spec - one ValueProvider slot per field of the target schema
//
// a Mapping is read-only once compiled and can be reused by any number of sequential upload runs
type Mapping struct {
	schema           *Schema
	generatedKeyName string
	providers        []ValueProvider
}

func (m *Mapping) Schema() *Schema {
	return m.schema
}

// GeneratedKeyOutputName returns the job variable name that generated keys are put into (empty if none)
func (m *Mapping) GeneratedKeyOutputName() string {
	return m.generatedKeyName
}

// Provider returns the provider for the field ordinal (nil if the field is not mapped)
func (m *Mapping) Provider(idx int) ValueProvider {
	return m.providers[idx]
}

// Providers returns a copy of the provider slots, in field ordinal order
func (m *Mapping) Providers() []ValueProvider {
	return append([]ValueProvider{}, m.providers...)
}

// Record evaluates every mapped field, in field order, for the row and returns the typed record
//
// unmapped fields are left unassigned
func (m *Mapping) Record(row Row, jc *JobContext, conv ValueConverter) (*Record, error) {
	rec := NewRecord(m.schema)
	for i, vp := range m.providers {
		if vp == nil {
			continue
		}
		raw, err := Evaluate(vp, row, jc)
		if err != nil {
			return nil, err
		}
		rec.assign(i, conv.Convert(m.schema.fields[i].Kind, raw))
	}
	return rec, nil
}
