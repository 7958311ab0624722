package uploader

// Row is a single input row - column name to raw value
type Row map[string]string

// Clone returns a copy of the row
func (r Row) Clone() Row {
	if r == nil {
		return nil
	}
	result := make(Row, len(r))
	for k, v := range r {
		result[k] = v
	}
	return result
}

// RowSource supplies input rows to an Uploader, one at a time
//
// NextRow returns a nil row at end of data. The returned row is borrowed - it is only valid until the
// next call to NextRow, so the source is free to clear and reuse it. The outcome of the previous row is
// available through the JobContext (JobContext.LastRowFailed and any generated key variables).
//
// An error returned by NextRow aborts the upload.
type RowSource interface {
	NextRow(jc *JobContext) (Row, error)
}

// RowSourceFunc is an adapter to allow the use of an ordinary function as a RowSource
type RowSourceFunc func(jc *JobContext) (Row, error)

var _ RowSource = RowSourceFunc(nil)

func (f RowSourceFunc) NextRow(jc *JobContext) (Row, error) {
	return f(jc)
}

// Rows is a RowSource over a slice of rows
type Rows struct {
	rows []Row
	next int
}

var _ RowSource = (*Rows)(nil)

// NewRows creates a RowSource that supplies the given rows in order
func NewRows(rows ...Row) *Rows {
	return &Rows{rows: rows}
}

func (r *Rows) NextRow(jc *JobContext) (Row, error) {
	if r.next >= len(r.rows) {
		return nil, nil
	}
	row := r.rows[r.next]
	r.next++
	if row == nil {
		row = Row{}
	}
	return row, nil
}
