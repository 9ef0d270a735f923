package feed

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"github.com/farofertas/backend/internal/domain"
)

const utf8BOM = "\ufeff"

// RowReader streams a delimited feed one row at a time. The first line is the
// header; each following record is mapped to its columns by position.
//
// Usage follows bufio.Scanner:
//
//	for rr.Next() {
//		row := rr.Row()
//		...
//	}
//	if err := rr.Err(); err != nil { ... }
//
// A reader is not resumable: once it reaches a terminal state a new one has to
// be built over a fresh stream.
type RowReader struct {
	ctx      context.Context
	src      io.ReadCloser
	csv      *csv.Reader
	header   []string
	rowCap   int
	row      domain.RawRow
	rowsSeen int
	state    domain.ParseOutcome
	err      error
	closed   bool
}

// NewRowReader reads the header line from src and returns a reader positioned
// at the first data row. rowCap <= 0 disables the row cap.
func NewRowReader(ctx context.Context, src io.ReadCloser, rowCap int) (*RowReader, error) {
	cr := csv.NewReader(src)
	cr.FieldsPerRecord = -1 // rows with a wrong column count are tolerated
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	r := &RowReader{
		ctx:    ctx,
		src:    src,
		csv:    cr,
		rowCap: rowCap,
		state:  domain.ParseIdle,
	}

	header, err := cr.Read()
	switch {
	case errors.Is(err, io.EOF):
		// empty feed: nothing to stream
		r.finish(domain.ParseCompleted)
		return r, nil
	case err != nil:
		r.fail(&domain.ParseError{Err: err})
		return nil, r.err
	}

	r.header = make([]string, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}
		r.header[i] = strings.TrimSpace(name)
	}
	r.state = domain.ParseStreaming

	return r, nil
}

// Next advances to the next data row. It returns false once the stream is
// exhausted, the row cap is hit, Stop was called or an error occurred.
func (r *RowReader) Next() bool {
	if r.state != domain.ParseStreaming {
		return false
	}

	for {
		if err := r.ctx.Err(); err != nil {
			r.fail(err)
			return false
		}

		record, err := r.csv.Read()
		if errors.Is(err, io.EOF) {
			r.finish(domain.ParseCompleted)
			return false
		}
		if err != nil {
			r.fail(&domain.ParseError{Row: r.rowsSeen, Err: err})
			return false
		}

		if isBlank(record) {
			continue
		}

		// A record beyond the cap proves the feed is longer; it is not counted.
		if r.rowCap > 0 && r.rowsSeen >= r.rowCap {
			r.finish(domain.ParseCapped)
			return false
		}

		r.rowsSeen++
		r.row = r.toRow(record)
		return true
	}
}

// Row returns the row read by the last successful call to Next
func (r *RowReader) Row() domain.RawRow {
	return r.row
}

// Stop ends the parse early and releases the underlying stream.
func (r *RowReader) Stop() {
	if r.state.Terminal() {
		return
	}
	r.finish(domain.ParseEarlyStopped)
}

// Close releases the underlying stream. Closing a reader that is still
// streaming counts as an early stop.
func (r *RowReader) Close() error {
	if r.state == domain.ParseStreaming || r.state == domain.ParseIdle {
		r.state = domain.ParseEarlyStopped
	}
	return r.closeSource()
}

// Err returns the error that ended the parse, if any
func (r *RowReader) Err() error {
	return r.err
}

// Stats reports the rows observed so far and the current state
func (r *RowReader) Stats() domain.ParseStats {
	return domain.ParseStats{RowsSeen: r.rowsSeen, Outcome: r.state}
}

// Header returns the trimmed column names
func (r *RowReader) Header() []string {
	return r.header
}

func (r *RowReader) toRow(record []string) domain.RawRow {
	row := make(domain.RawRow, len(r.header))
	for i, name := range r.header {
		if i >= len(record) {
			break
		}
		if _, dup := row[name]; dup {
			continue
		}
		row[name] = record[i]
	}
	return row
}

func (r *RowReader) finish(state domain.ParseOutcome) {
	r.state = state
	r.row = nil
	r.closeSource()
}

func (r *RowReader) fail(err error) {
	r.err = err
	r.finish(domain.ParseFailed)
}

func (r *RowReader) closeSource() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return r.src.Close()
}

func isBlank(record []string) bool {
	return len(record) == 1 && strings.TrimSpace(record[0]) == ""
}
