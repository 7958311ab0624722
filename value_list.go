package uploader

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
)

// KeySeparator separates the key and text of a flattened keyed value list entry
const KeySeparator = "|"

// KeyedEntry returns the flattened lookup key for a keyed value list entry
func KeyedEntry(key string, text string) string {
	return key + KeySeparator + text
}

// FlattenKeyed flattens a keyed value list (key -> text -> value) into a single level lookup map
//
// keys must not contain the KeySeparator
func FlattenKeyed(lists map[string]map[string]string) (map[string]string, error) {
	result := make(map[string]string)
	for key, list := range lists {
		if err := checkKey(key); err != nil {
			return nil, err
		}
		for text, value := range list {
			result[KeyedEntry(key, text)] = value
		}
	}
	return result, nil
}

// MustFlattenKeyed is the same as FlattenKeyed, except that it panics on error
func MustFlattenKeyed(lists map[string]map[string]string) map[string]string {
	result, err := FlattenKeyed(lists)
	if err != nil {
		panic(err)
	}
	return result
}

func checkKey(key string) error {
	if strings.Contains(key, KeySeparator) {
		return fmt.Errorf("keyed value list key %q must not contain %q", key, KeySeparator)
	}
	return nil
}

// ValueList is a lookup table - mapping the text used in input rows to the internal value
//
// keyed lists are stored flattened (see KeyedEntry)
type ValueList struct {
	Values map[string]string
	Keyed  bool
}

// ValueListProvider supplies value lists that are defined outside of the upload job (aka "system lists")
type ValueListProvider interface {
	// ValueList returns the named list, or nil if there is no such list
	ValueList(ctx context.Context, name string) (*ValueList, error)
}

// StaticValueLists is a ValueListProvider over a fixed set of lists
type StaticValueLists map[string]*ValueList

var _ ValueListProvider = StaticValueLists{}

func (s StaticValueLists) ValueList(ctx context.Context, name string) (*ValueList, error) {
	return s[name], nil
}

// LoadValueList reads a value list using the supplied query
//
// the query must return either two columns (text, value) - giving a simple list - or three columns
// (key, text, value) - giving a keyed list
func LoadValueList(ctx context.Context, sqli SqlInterface, query string, args ...any) (*ValueList, error) {
	rows, err := sqli.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	if len(cols) != 2 && len(cols) != 3 {
		return nil, fmt.Errorf("value list query must return 2 or 3 columns (returned %d)", len(cols))
	}
	result := &ValueList{
		Values: map[string]string{},
		Keyed:  len(cols) == 3,
	}
	values := make([]sql.NullString, len(cols))
	scanArgs := make([]any, len(cols))
	for i := range values {
		scanArgs[i] = &values[i]
	}
	for rows.Next() {
		if err = rows.Scan(scanArgs...); err != nil {
			return nil, err
		}
		if result.Keyed {
			if err = checkKey(values[0].String); err != nil {
				return nil, err
			}
			result.Values[KeyedEntry(values[0].String, values[1].String)] = values[2].String
		} else {
			result.Values[values[0].String] = values[1].String
		}
	}
	return result, rows.Err()
}

// SqlValueLists is a ValueListProvider that loads lists from the database (using LoadValueList)
//
// loaded lists are cached for the life of the SqlValueLists
type SqlValueLists struct {
	mutex   sync.RWMutex
	sqli    SqlInterface
	queries map[string]string
	loaded  map[string]*ValueList
}

var _ ValueListProvider = (*SqlValueLists)(nil)

// NewSqlValueLists creates a new SqlValueLists with the queries by list name
func NewSqlValueLists(sqli SqlInterface, queries map[string]string) *SqlValueLists {
	return &SqlValueLists{
		sqli:    sqli,
		queries: queries,
		loaded:  map[string]*ValueList{},
	}
}

func (s *SqlValueLists) ValueList(ctx context.Context, name string) (*ValueList, error) {
	s.mutex.RLock()
	if vl, ok := s.loaded[name]; ok {
		s.mutex.RUnlock()
		return vl, nil
	}
	s.mutex.RUnlock()
	query, ok := s.queries[name]
	if !ok {
		return nil, nil
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	vl, err := LoadValueList(ctx, s.sqli, query)
	if err != nil {
		return nil, fmt.Errorf("loading value list %q: %w", name, err)
	}
	s.loaded[name] = vl
	return vl, nil
}
