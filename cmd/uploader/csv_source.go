package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-andiamo/uploader"
	"go.uber.org/zap"
)

// csvSource is a RowSource over CSV data - the first record is the header of column names
//
// the same Row is reused for every record
type csvSource struct {
	reader *csv.Reader
	header []string
	row    uploader.Row
	line   int
}

var _ uploader.RowSource = (*csvSource)(nil)

func newCsvSource(r io.Reader) (*csvSource, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true
	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("input has no header")
		}
		return nil, err
	}
	result := &csvSource{
		reader: reader,
		header: make([]string, len(header)),
		row:    make(uploader.Row, len(header)),
		line:   1,
	}
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if h == "" {
			return nil, fmt.Errorf("header column %d is empty", i+1)
		}
		result.header[i] = h
	}
	return result, nil
}

func (s *csvSource) NextRow(jc *uploader.JobContext) (uploader.Row, error) {
	if jc != nil && jc.LastRowFailed() {
		jc.Logger().Debug("input line failed", zap.Int("line", s.line))
	}
	record, err := s.reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}
	s.line++
	clear(s.row)
	for i, h := range s.header {
		if i < len(record) {
			s.row[h] = record[i]
		}
	}
	return s.row, nil
}
