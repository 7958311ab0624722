package uploader

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// FieldExpression is a single field mapping - the target field name and its (uncompiled) expression
type FieldExpression struct {
	Field      string
	Expression string
}

// FieldExpressions is an ordered list of field mappings
//
// when unmarshalled from a JSON object, document order is preserved (duplicate keys - last wins)
type FieldExpressions []FieldExpression

// MappingSpec is the declarative description of how input columns become record field values
type MappingSpec struct {
	// Form is the name of the target schema
	Form string `json:"form"`
	// GeneratedKeyOutputName, if set, is the job variable into which the generated key of each inserted record is put
	GeneratedKeyOutputName string `json:"generatedKeyOutputName,omitempty"`
	// Fields is the field mappings
	Fields FieldExpressions `json:"fields"`
}

// ParseMappingSpec parses a JSON mapping spec
func ParseMappingSpec(data []byte) (MappingSpec, error) {
	var raw struct {
		Form                   json.RawMessage `json:"form"`
		GeneratedKeyOutputName json.RawMessage `json:"generatedKeyOutputName"`
		Fields                 json.RawMessage `json:"fields"`
	}
	result := MappingSpec{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return result, fmt.Errorf("invalid mapping spec: %w", err)
	}
	if raw.Form != nil {
		if err := json.Unmarshal(raw.Form, &result.Form); err != nil {
			return result, errors.New("form has an invalid value")
		}
	}
	if raw.GeneratedKeyOutputName != nil {
		if err := json.Unmarshal(raw.GeneratedKeyOutputName, &result.GeneratedKeyOutputName); err != nil {
			return result, errors.New("generatedKeyOutputName has an invalid value")
		}
	}
	if raw.Fields == nil || bytes.Equal(bytes.TrimSpace(raw.Fields), []byte("null")) {
		return result, errors.New("fields attribute is missing")
	}
	if err := json.Unmarshal(raw.Fields, &result.Fields); err != nil {
		return result, err
	}
	return result, nil
}

func (f *FieldExpressions) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tkn, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tkn.(json.Delim); !ok || d != '{' {
		return errors.New("fields must be an object")
	}
	result := FieldExpressions{}
	seen := map[string]int{}
	for dec.More() {
		if tkn, err = dec.Token(); err != nil {
			return err
		}
		name := tkn.(string)
		var value json.RawMessage
		if err = dec.Decode(&value); err != nil {
			return err
		}
		var expr string
		if err = json.Unmarshal(value, &expr); err != nil {
			return fmt.Errorf("field %q has an invalid value", name)
		}
		if idx, ok := seen[name]; ok {
			result[idx].Expression = expr
		} else {
			seen[name] = len(result)
			result = append(result, FieldExpression{Field: name, Expression: expr})
		}
	}
	*f = result
	return nil
}

func (f FieldExpressions) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, fe := range f {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, _ := json.Marshal(fe.Field)
		v, _ := json.Marshal(fe.Expression)
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
