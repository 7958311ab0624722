package uploader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testParser() *expressionParser {
	env := testEnvironment()
	return &expressionParser{env: &env, runtime: map[string]bool{"parentId": true}}
}

func TestParseExpression_Variants(t *testing.T) {
	p := testParser()
	testCases := []struct {
		text   string
		expect ValueProvider
	}{
		{"", Constant{}},
		{"   ", Constant{}},
		{"@fullName", RowVariable{Column: "fullName"}},
		{"  @fullName  ", RowVariable{Column: "fullName"}},
		{"=guest", Constant{Value: "guest"}},
		{"guest", Constant{Value: "guest"}},
		{"hello world", Constant{Value: "hello world"}},
		{"$operator", Parameter{Name: "operator", Value: "admin"}},
		{"$parentId", Parameter{Name: "parentId", Runtime: true}},
	}
	for _, tc := range testCases {
		t.Run(tc.text, func(t *testing.T) {
			vp, err := p.parseExpression(tc.text, true)
			require.Nil(t, err)
			assert.Equal(t, tc.expect, vp)
		})
	}
}

func TestParseExpression_EscapedConstants(t *testing.T) {
	p := testParser()
	testCases := map[string]string{
		"==":          "=",
		"=@x":         "@x",
		"=$operator":  "$operator",
		"=#status(a)": "#status(a)",
		"=%upper(a)":  "%upper(a)",
		"=":           "",
		"= spaced":    " spaced",
	}
	for text, expect := range testCases {
		t.Run(text, func(t *testing.T) {
			vp, err := p.parseExpression(text, true)
			require.Nil(t, err)
			assert.Equal(t, Constant{Value: expect}, vp)
			v, eerr := Evaluate(vp, Row{"x": "not me"}, nil)
			require.NoError(t, eerr)
			assert.Equal(t, expect, v)
		})
	}
}

func TestParseExpression_Function(t *testing.T) {
	p := testParser()
	vp, err := p.parseExpression("%concat( @first, =-, $operator )", true)
	require.Nil(t, err)
	fc, ok := vp.(FunctionCall)
	require.True(t, ok)
	assert.Equal(t, "concat", fc.Name)
	assert.NotNil(t, fc.Fn)
	assert.Equal(t, []ValueProvider{
		RowVariable{Column: "first"},
		Constant{Value: "-"},
		Parameter{Name: "operator", Value: "admin"},
	}, fc.Args)
	assert.Equal(t, "%concat(@first,=-,$operator)", fc.String())
}

func TestParseExpression_Lookup(t *testing.T) {
	p := testParser()
	vp, err := p.parseExpression("#status(@status)", true)
	require.Nil(t, err)
	lc, ok := vp.(LookupCall)
	require.True(t, ok)
	assert.False(t, lc.Keyed)
	assert.Nil(t, lc.Key)
	assert.Equal(t, RowVariable{Column: "status"}, lc.Value)

	vp, err = p.parseExpression("#city(@country, @city)", true)
	require.Nil(t, err)
	lc, ok = vp.(LookupCall)
	require.True(t, ok)
	assert.True(t, lc.Keyed)
	assert.Equal(t, RowVariable{Column: "country"}, lc.Key)
	assert.Equal(t, RowVariable{Column: "city"}, lc.Value)
	assert.Equal(t, "#city(@country,@city)", lc.String())
}

func TestParseExpression_KeyedLookupArgCount(t *testing.T) {
	p := testParser()
	for _, text := range []string{"#city(@city)", "#city(@a,@b,@c)"} {
		_, err := p.parseExpression(text, true)
		require.NotNil(t, err)
		assert.Equal(t, WrongArgCount, err.Code)
		assert.Equal(t, "city", err.Name)
	}
	_, err := p.parseExpression("#status(@a,@b)", true)
	require.NotNil(t, err)
	assert.Equal(t, WrongArgCount, err.Code)
}

func TestParseExpression_Errors(t *testing.T) {
	p := testParser()
	testCases := []struct {
		text string
		code CompileErrorCode
		name string
	}{
		{"@", BadExpression, ""},
		{"$undefined", UndefinedParameter, "undefined"},
		{"%unknown(@a)", UnknownFunction, "unknown"},
		{"#unknown(@a)", UnknownLookup, "unknown"},
		{"%unknown()", MalformedCall, ""},
		{"%upper", MalformedCall, ""},
		{"%upper(@a", MalformedCall, ""},
		{"%(@a)", MalformedCall, ""},
		{"#status()", MalformedCall, ""},
		{"%upper(a))", MalformedCall, ""},
		{"%upper(a)x)", MalformedCall, ""},
		{"#status(a)b)", MalformedCall, ""},
		{"%upper(%upper(@a))", MalformedCall, ""},
		{"%concat(@a, #status(@b))", MalformedCall, ""},
		{"%concat(@a, #status)", BadExpression, ""},
		{"%upper(%upper)", BadExpression, ""},
		{"%upper($undefined)", UndefinedParameter, "undefined"},
		{"%pair(@a)", WrongArgCount, "pair"},
		{"%pair(@a,@b,@c)", WrongArgCount, "pair"},
	}
	for _, tc := range testCases {
		t.Run(tc.text, func(t *testing.T) {
			vp, err := p.parseExpression(tc.text, true)
			require.NotNil(t, err)
			assert.Nil(t, vp)
			assert.Equal(t, tc.code, err.Code)
			assert.Equal(t, tc.name, err.Name)
		})
	}
}

func TestParseExpression_FixedArity(t *testing.T) {
	p := testParser()
	vp, err := p.parseExpression("%pair(@a, =b)", true)
	require.Nil(t, err)
	v, eerr := Evaluate(vp, Row{"a": "x"}, nil)
	require.NoError(t, eerr)
	assert.Equal(t, "x:b", v)
}

func TestArityDetail(t *testing.T) {
	assert.Equal(t, "used with 0 args - requires at least 1", arityDetail(0, 1, -1))
	assert.Equal(t, "used with 3 args - requires 2", arityDetail(3, 2, 2))
	assert.Equal(t, "used with 4 args - requires 1 to 3", arityDetail(4, 1, 3))
}
