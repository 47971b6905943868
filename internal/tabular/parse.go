// Package tabular parses the pipe-delimited tables of the rules export into
// ordered, flat records.
package tabular

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"codex-backend/pkg/htmlutil"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("codex.internal.tabular")

const (
	fieldDelimiter = "|"
	rowDelimiter   = "\r\n"
	byteOrderMark  = "\ufeff"
)

var (
	ErrEmptyTable  = errors.New("table has no header row")
	ErrColumnCount = errors.New("column count does not match header")
)

// RowError describes a data row that does not line up with the header.
type RowError struct {
	Table    string
	Line     int
	Expected int
	Got      int
}

func (e *RowError) Error() string {
	return fmt.Sprintf(
		"table %s line %d: expected %d columns, got %d",
		e.Table, e.Line, e.Expected, e.Got,
	)
}

func (e *RowError) Unwrap() error {
	return ErrColumnCount
}

// Record is one row of a table keyed by camelCase column name. Values are
// kept as strings, "None" is a perfectly valid cost.
type Record map[string]string

// Table is an ordered sequence of records, the order is the one of the
// source and must be kept for slugs to be reproducible.
type Table struct {
	Name    string
	Records []Record
}

// Parse converts the raw text of one table into records.
//
// The text may start with a byte order mark. Rows are separated by CRLF, the
// first row is the header and the last row is a terminator that is always
// discarded. Every row ends with a trailing delimiter whose empty column is
// dropped. Each cell is passed through htmlutil.Sanitize.
//
// A data row with a different number of columns than the header fails with
// a *RowError instead of being padded or truncated.
func Parse(ctx context.Context, name, text string) (Table, error) {
	_, span := tracer.Start(ctx, "Parse")
	defer span.End()
	span.SetAttributes(attribute.String("table", name))

	text = strings.TrimPrefix(text, byteOrderMark)
	rows := strings.Split(text, rowDelimiter)
	if len(rows) < 2 || strings.TrimSpace(rows[0]) == "" {
		err := fmt.Errorf("table %s: %w", name, ErrEmptyTable)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Table{}, err
	}

	headers := splitHeader(rows[0])
	for i, h := range headers {
		headers[i] = CamelCase(h)
	}

	// rows[0] is the header, rows[len-1] the terminator
	data := rows[1 : len(rows)-1]
	records := make([]Record, 0, len(data))
	for i, row := range data {
		columns := splitRow(row)
		if len(columns) != len(headers) {
			err := &RowError{
				Table:    name,
				Line:     i + 2,
				Expected: len(headers),
				Got:      len(columns),
			}
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return Table{}, err
		}

		record := make(Record, len(headers))
		for j, value := range columns {
			record[headers[j]] = htmlutil.Sanitize(value)
		}
		records = append(records, record)
	}

	span.SetAttributes(attribute.Int("records", len(records)))
	return Table{Name: name, Records: records}, nil
}

// splitHeader tolerates a header row with or without the closing delimiter.
func splitHeader(row string) []string {
	columns := strings.Split(row, fieldDelimiter)
	if strings.TrimSpace(columns[len(columns)-1]) == "" {
		columns = columns[:len(columns)-1]
	}
	return columns
}

// splitRow splits on the delimiter and drops the trailing column left by the
// delimiter that closes every row.
func splitRow(row string) []string {
	columns := strings.Split(row, fieldDelimiter)
	return columns[:len(columns)-1]
}
