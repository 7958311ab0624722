package uploader

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlattenKeyed(t *testing.T) {
	flat, err := FlattenKeyed(map[string]map[string]string{
		"IN": {"Mumbai": "BOM", "Delhi": "DEL"},
		"US": {"Boston": "BOS"},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"IN|Mumbai": "BOM", "IN|Delhi": "DEL", "US|Boston": "BOS"}, flat)
	assert.Equal(t, "IN|Mumbai", KeyedEntry("IN", "Mumbai"))
}

func TestFlattenKeyed_KeyWithSeparator(t *testing.T) {
	_, err := FlattenKeyed(map[string]map[string]string{
		"a|b": {"c": "X"},
		"a":   {"b|c": "Y"},
	})
	require.Error(t, err)
	assert.Equal(t, `keyed value list key "a|b" must not contain "|"`, err.Error())
	assert.Panics(t, func() {
		MustFlattenKeyed(map[string]map[string]string{"a|b": {"c": "X"}})
	})
	assert.Equal(t, map[string]string{"a|b|c": "Y"}, MustFlattenKeyed(map[string]map[string]string{"a": {"b|c": "Y"}}))
}

func TestStaticValueLists(t *testing.T) {
	lists := StaticValueLists{"status": {Values: map[string]string{"Active": "A"}}}
	vl, err := lists.ValueList(ctx, "status")
	require.NoError(t, err)
	assert.Equal(t, "A", vl.Values["Active"])
	vl, err = lists.ValueList(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, vl)
}

func TestLoadValueList(t *testing.T) {
	db, mock := newTestDb(t)
	mock.ExpectQuery(`SELECT text,value FROM statuses`).
		WillReturnRows(sqlmock.NewRows([]string{"text", "value"}).AddRow("Active", "A").AddRow("Inactive", nil))
	vl, err := LoadValueList(ctx, db, `SELECT text,value FROM statuses`)
	require.NoError(t, err)
	assert.False(t, vl.Keyed)
	assert.Equal(t, map[string]string{"Active": "A", "Inactive": ""}, vl.Values)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadValueList_Keyed(t *testing.T) {
	db, mock := newTestDb(t)
	mock.ExpectQuery(`SELECT country,city,code FROM cities WHERE region = $1`).
		WithArgs("APAC").
		WillReturnRows(sqlmock.NewRows([]string{"country", "city", "code"}).AddRow("IN", "Mumbai", "BOM"))
	vl, err := LoadValueList(ctx, db, `SELECT country,city,code FROM cities WHERE region = $1`, "APAC")
	require.NoError(t, err)
	assert.True(t, vl.Keyed)
	assert.Equal(t, map[string]string{"IN|Mumbai": "BOM"}, vl.Values)
}

func TestLoadValueList_Errors(t *testing.T) {
	db, mock := newTestDb(t)
	mock.ExpectQuery(`SELECT a FROM t`).
		WillReturnRows(sqlmock.NewRows([]string{"a"}).AddRow("x"))
	_, err := LoadValueList(ctx, db, `SELECT a FROM t`)
	require.Error(t, err)
	assert.Equal(t, "value list query must return 2 or 3 columns (returned 1)", err.Error())

	mock.ExpectQuery(`SELECT k,a,b FROM t`).
		WillReturnRows(sqlmock.NewRows([]string{"k", "a", "b"}).AddRow("x|y", "a", "b"))
	_, err = LoadValueList(ctx, db, `SELECT k,a,b FROM t`)
	require.Error(t, err)
	assert.Equal(t, `keyed value list key "x|y" must not contain "|"`, err.Error())

	mock.ExpectQuery(`SELECT a,b FROM t`).WillReturnError(errDummy)
	_, err = LoadValueList(ctx, db, `SELECT a,b FROM t`)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errDummy))
}

func TestSqlValueLists(t *testing.T) {
	db, mock := newTestDb(t)
	mock.ExpectQuery(`SELECT text,value FROM statuses`).
		WillReturnRows(sqlmock.NewRows([]string{"text", "value"}).AddRow("Active", "A"))
	lists := NewSqlValueLists(db, map[string]string{
		"status": `SELECT text,value FROM statuses`,
		"broken": `SELECT broken`,
	})
	for i := 0; i < 2; i++ {
		vl, err := lists.ValueList(ctx, "status")
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"Active": "A"}, vl.Values)
	}
	require.NoError(t, mock.ExpectationsWereMet())

	vl, err := lists.ValueList(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, vl)

	mock.ExpectQuery(`SELECT broken`).WillReturnError(errDummy)
	_, err = lists.ValueList(ctx, "broken")
	require.Error(t, err)
	assert.Equal(t, `loading value list "broken": dummy`, err.Error())
}
