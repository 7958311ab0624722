package uploader

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate(t *testing.T) {
	env := testEnvironment()
	jc := NewJobContext(ctx, nil)
	jc.SetVar("userId", "42")
	jc.SetVar("name", "from var")
	row := Row{"name": "Alice", "status": "Active", "country": "IN", "city": "Mumbai"}
	testCases := []struct {
		vp     ValueProvider
		expect string
	}{
		{Constant{Value: "x"}, "x"},
		{RowVariable{Column: "name"}, "Alice"},
		{RowVariable{Column: "userId"}, "42"},
		{RowVariable{Column: "missing"}, ""},
		{Parameter{Name: "operator", Value: "admin"}, "admin"},
		{Parameter{Name: "userId", Runtime: true}, "42"},
		{Parameter{Name: "other", Runtime: true}, ""},
		{FunctionCall{Name: "upper", Fn: env.Functions["upper"], Args: []ValueProvider{RowVariable{Column: "name"}}}, "ALICE"},
		{FunctionCall{Name: "nothing", Fn: env.Functions["nothing"], Args: []ValueProvider{Constant{}}}, ""},
		{FunctionCall{Name: "len", Fn: FunctionFunc(func(jc *JobContext, args []string) (any, error) {
			return len(args[0]), nil
		}), Args: []ValueProvider{RowVariable{Column: "name"}}}, "5"},
		{LookupCall{Name: "status", Table: env.ValueLists["status"], Value: RowVariable{Column: "status"}}, "A"},
		{LookupCall{Name: "city", Table: env.ValueLists["city"], Keyed: true, Key: RowVariable{Column: "country"}, Value: RowVariable{Column: "city"}}, "BOM"},
	}
	for _, tc := range testCases {
		t.Run(tc.vp.String(), func(t *testing.T) {
			v, err := Evaluate(tc.vp, row, jc)
			require.NoError(t, err)
			assert.Equal(t, tc.expect, v)
			again, err := Evaluate(tc.vp, row, jc)
			require.NoError(t, err)
			assert.Equal(t, v, again)
		})
	}
}

func TestEvaluate_NilJobContext(t *testing.T) {
	v, err := Evaluate(RowVariable{Column: "x"}, Row{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "", v)
	v, err = Evaluate(Parameter{Name: "x", Runtime: true}, Row{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "", v)
}

func TestEvaluate_Errors(t *testing.T) {
	env := testEnvironment()
	_, err := Evaluate(FunctionCall{Name: "fail", Fn: env.Functions["fail"], Args: []ValueProvider{Constant{}}}, Row{}, nil)
	require.Error(t, err)
	assert.Equal(t, `function "fail" failed: fooey`, err.Error())
	var evalErr *EvaluationError
	require.True(t, errors.As(err, &evalErr))
	assert.Equal(t, FunctionFailure, evalErr.Code)
	assert.Equal(t, "fooey", errors.Unwrap(err).Error())

	keyed := LookupCall{Name: "city", Table: env.ValueLists["city"], Keyed: true, Key: Constant{Value: "US"}, Value: Constant{Value: "Mumbai"}}
	_, err = Evaluate(keyed, Row{}, nil)
	require.Error(t, err)
	assert.Equal(t, `lookup miss: "US|Mumbai" not found in "city"`, err.Error())

	nested := FunctionCall{Name: "upper", Fn: env.Functions["upper"], Args: []ValueProvider{keyed}}
	_, err = Evaluate(nested, Row{}, nil)
	require.True(t, errors.As(err, &evalErr))
	assert.Equal(t, LookupMiss, evalErr.Code)
}

func TestEvaluate_FunctionPanics(t *testing.T) {
	fn := FunctionFunc(func(jc *JobContext, args []string) (any, error) {
		panic("boom")
	})
	_, err := Evaluate(FunctionCall{Name: "boom", Fn: fn, Args: []ValueProvider{Constant{}}}, Row{}, nil)
	require.Error(t, err)
	var evalErr *EvaluationError
	require.True(t, errors.As(err, &evalErr))
	assert.Equal(t, FunctionFailure, evalErr.Code)
	assert.Equal(t, `function "boom" failed: panic: boom`, err.Error())
}

func TestEvaluate_KeyWithSeparator(t *testing.T) {
	table := MustFlattenKeyed(map[string]map[string]string{"a": {"b|c": "Y"}})
	keyed := LookupCall{Name: "l", Table: table, Keyed: true, Key: RowVariable{Column: "k"}, Value: RowVariable{Column: "t"}}
	v, err := Evaluate(keyed, Row{"k": "a", "t": "b|c"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Y", v)
	_, err = Evaluate(keyed, Row{"k": "a|b", "t": "c"}, nil)
	var evalErr *EvaluationError
	require.True(t, errors.As(err, &evalErr))
	assert.Equal(t, LookupMiss, evalErr.Code)
}

func TestValueProvider_String(t *testing.T) {
	assert.Equal(t, "=abc", Constant{Value: "abc"}.String())
	assert.Equal(t, "@col", RowVariable{Column: "col"}.String())
	assert.Equal(t, "$p", Parameter{Name: "p"}.String())
	assert.Equal(t, "%f(@a,=b)", FunctionCall{Name: "f", Args: []ValueProvider{RowVariable{Column: "a"}, Constant{Value: "b"}}}.String())
	assert.Equal(t, "#l(@a)", LookupCall{Name: "l", Value: RowVariable{Column: "a"}}.String())
}
