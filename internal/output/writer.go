// Package output provides report formatters.
package output

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/openvax/isovar-go/internal/report"
)

// Format selects the delimiter convention of a RecordWriter.
type Format string

const (
	FormatTSV Format = "tsv"
	FormatCSV Format = "csv"
)

// ParseFormat maps a user-supplied format name to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "tsv", "tab":
		return FormatTSV, nil
	case "csv":
		return FormatCSV, nil
	}
	return "", fmt.Errorf("unknown output format %q (want tsv or csv)", s)
}

// RecordWriter streams records as delimited rows. The first record fixes
// the column set; later records are projected onto it, with missing keys
// rendered like nil values.
type RecordWriter struct {
	format  Format
	w       *bufio.Writer
	csv     *csv.Writer
	columns []string
}

// NewRecordWriter creates a writer emitting the given format.
func NewRecordWriter(w io.Writer, format Format) *RecordWriter {
	rw := &RecordWriter{format: format}
	if format == FormatCSV {
		rw.csv = csv.NewWriter(w)
	} else {
		rw.w = bufio.NewWriter(w)
	}
	return rw
}

// Write emits one record, preceded by the header row when it is the first.
func (rw *RecordWriter) Write(rec *report.Record) error {
	if rw.columns == nil {
		rw.columns = rec.Keys()
		if err := rw.writeRow(rw.columns); err != nil {
			return err
		}
	}

	row := make([]string, len(rw.columns))
	for i, col := range rw.columns {
		value, _ := rec.Get(col)
		row[i] = rw.formatValue(value)
	}
	return rw.writeRow(row)
}

func (rw *RecordWriter) writeRow(fields []string) error {
	if rw.csv != nil {
		return rw.csv.Write(fields)
	}
	_, err := rw.w.WriteString(strings.Join(fields, "\t") + "\n")
	return err
}

// Flush flushes any buffered rows to the underlying writer.
func (rw *RecordWriter) Flush() error {
	if rw.csv != nil {
		rw.csv.Flush()
		return rw.csv.Error()
	}
	return rw.w.Flush()
}

// formatValue renders one cell. Missing data is "-" in TSV and empty in
// CSV; NaN statistics always render as NaN.
func (rw *RecordWriter) formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		if rw.format == FormatCSV {
			return ""
		}
		return "-"
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		if math.IsNaN(x) {
			return "NaN"
		}
		return strconv.FormatFloat(x, 'g', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}
