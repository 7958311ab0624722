package uploader

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const sqlTag = "sql"

// UseTagName is a type that can be passed as an option to SchemaFromStruct
// and determines the field tag name to use for field column mappings
//
// If this option is not passed to SchemaFromStruct, then the default "sql" tag is used
type UseTagName string

// SchemaFromStruct derives a Schema from the exported, tagged fields of struct type T
//
// the tag format is `sql:"column[,kind][,key]"` - where kind is any name accepted by ParseKind
// (if omitted, the kind is deduced from the Go field type) and "key" marks the generated key field.
// Fields tagged "-" or untagged are ignored.
//
// options can be any of: UseTagName, Persistable or GeneratedKey
func SchemaFromStruct[T any](name string, table string, options ...any) (*Schema, error) {
	rt := reflect.TypeOf((*T)(nil)).Elem()
	if rt.Kind() != reflect.Struct {
		return nil, errors.New("SchemaFromStruct can only be used with struct types")
	}
	tagName := sqlTag
	schemaOptions := make([]any, 0, len(options)+1)
	for _, o := range options {
		switch option := o.(type) {
		case UseTagName:
			tagName = string(option)
		default:
			schemaOptions = append(schemaOptions, o)
		}
	}
	fields := make([]Field, 0, rt.NumField())
	keyField := ""
	if err := walkStructFields(rt, tagName, &fields, &keyField); err != nil {
		return nil, err
	}
	if keyField != "" {
		schemaOptions = append(schemaOptions, GeneratedKey(keyField))
	}
	return NewSchema(name, table, fields, schemaOptions...)
}

func walkStructFields(rt reflect.Type, tagName string, fields *[]Field, keyField *string) error {
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if !f.IsExported() {
			continue
		}
		t := f.Type
		for t.Kind() == reflect.Ptr {
			t = t.Elem()
		}
		tag, tagged := f.Tag.Lookup(tagName)
		if !tagged && t.Kind() == reflect.Struct && !isValueStruct(t) {
			if err := walkStructFields(t, tagName, fields, keyField); err != nil {
				return err
			}
			continue
		}
		if !tagged || tag == "-" || tag == "" {
			continue
		}
		parts := strings.Split(tag, ",")
		fld := Field{Name: strings.TrimSpace(parts[0])}
		if fld.Name == "" {
			return fmt.Errorf("field %q has an empty column name", f.Name)
		}
		kind, deduced := kindOf(t)
		for _, p := range parts[1:] {
			switch p = strings.TrimSpace(p); p {
			case "key":
				if *keyField != "" {
					return fmt.Errorf("multiple generated keys (%q and %q)", *keyField, fld.Name)
				}
				*keyField = fld.Name
			case "":
			default:
				k, err := ParseKind(p)
				if err != nil {
					return fmt.Errorf("field %q: %w", f.Name, err)
				}
				kind, deduced = k, true
			}
		}
		if !deduced {
			return fmt.Errorf("field %q: cannot deduce kind for type %s", f.Name, f.Type)
		}
		fld.Kind = kind
		*fields = append(*fields, fld)
	}
	return nil
}

var (
	timeType    = reflect.TypeOf(time.Time{})
	decimalType = reflect.TypeOf(decimal.Decimal{})
)

func isValueStruct(t reflect.Type) bool {
	return t == timeType || t == decimalType
}

func kindOf(t reflect.Type) (Kind, bool) {
	switch t {
	case timeType:
		return KindTimestamp, true
	case decimalType:
		return KindDecimal, true
	}
	switch t.Kind() {
	case reflect.String:
		return KindText, true
	case reflect.Bool:
		return KindBoolean, true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return KindInteger, true
	case reflect.Float32, reflect.Float64:
		return KindDecimal, true
	}
	return KindText, false
}
