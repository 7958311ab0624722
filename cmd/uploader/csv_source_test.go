package main

import (
	"strings"
	"testing"

	"github.com/go-andiamo/uploader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCsvSource(t *testing.T) {
	src, err := newCsvSource(strings.NewReader("\ufeffname, city\nalice,London\nbob\n\"carol, jr\",\"Paris\"\n"))
	require.NoError(t, err)
	jc := uploader.NewJobContext(nil, nil)

	row, err := src.NextRow(jc)
	require.NoError(t, err)
	assert.Equal(t, uploader.Row{"name": "alice", "city": "London"}, row)
	row, err = src.NextRow(jc)
	require.NoError(t, err)
	assert.Equal(t, uploader.Row{"name": "bob"}, row)
	row, err = src.NextRow(jc)
	require.NoError(t, err)
	assert.Equal(t, uploader.Row{"name": "carol, jr", "city": "Paris"}, row)
	row, err = src.NextRow(jc)
	require.NoError(t, err)
	assert.Nil(t, row)
}

func TestCsvSource_Errors(t *testing.T) {
	_, err := newCsvSource(strings.NewReader(""))
	assert.EqualError(t, err, "input has no header")
	_, err = newCsvSource(strings.NewReader("a,,b\n"))
	assert.EqualError(t, err, "header column 2 is empty")

	src, err := newCsvSource(strings.NewReader("a\n\"unterminated\n"))
	require.NoError(t, err)
	_, err = src.NextRow(nil)
	assert.Error(t, err)
}
