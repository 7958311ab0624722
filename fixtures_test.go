package uploader

import (
	"context"
	"errors"
	"strings"
)

var (
	testUserSchema = MustNewSchema("user", "users", []Field{
		{Name: "id", Kind: KindInteger},
		{Name: "name", Kind: KindText},
		{Name: "role", Kind: KindText},
		{Name: "active", Kind: KindBoolean},
		{Name: "parent", Column: "parent_id", Kind: KindInteger},
	}, GeneratedKey("id"))
	testCountrySchema = MustNewSchema("country", "countries", []Field{
		{Name: "code", Kind: KindText},
		{Name: "name", Kind: KindText},
	})
	testViewSchema = MustNewSchema("userView", "user_view", []Field{
		{Name: "name", Kind: KindText},
	}, Persistable(false))
	testCatalog = NewSchemas(testUserSchema, testCountrySchema, testViewSchema)
)

func testEnvironment() Environment {
	return Environment{
		Params: map[string]string{
			"operator": "admin",
			"region":   "EU",
		},
		ValueLists: map[string]map[string]string{
			"status": {"Active": "A", "Inactive": "I"},
			"city":   MustFlattenKeyed(map[string]map[string]string{"IN": {"Mumbai": "BOM"}, "US": {"Boston": "BOS"}}),
		},
		KeyedLists: map[string]bool{"city": true},
		Functions: map[string]Function{
			"upper": FunctionFunc(func(jc *JobContext, args []string) (any, error) {
				return strings.ToUpper(args[0]), nil
			}),
			"concat": FunctionFunc(func(jc *JobContext, args []string) (any, error) {
				return strings.Join(args, ""), nil
			}),
			"nothing": FunctionFunc(func(jc *JobContext, args []string) (any, error) {
				return nil, nil
			}),
			"fail": FunctionFunc(func(jc *JobContext, args []string) (any, error) {
				return nil, errors.New("fooey")
			}),
			"pair": FixedArity(FunctionFunc(func(jc *JobContext, args []string) (any, error) {
				return args[0] + ":" + args[1], nil
			}), 2, 2),
		},
	}
}

// recordingStore is a Store that records inserted records and hands out sequential keys
//
// errs holds errors to return by (1-based) insert call number
type recordingStore struct {
	records []map[string]any
	nextKey int64
	errs    map[int]error
	calls   int
}

var _ Store = (*recordingStore)(nil)

func (s *recordingStore) Insert(ctx context.Context, rec *Record) (any, error) {
	s.calls++
	if err, ok := s.errs[s.calls]; ok {
		return nil, err
	}
	s.records = append(s.records, rec.Map())
	if rec.Schema().KeyIndex() < 0 {
		return nil, nil
	}
	s.nextKey++
	return s.nextKey, nil
}
