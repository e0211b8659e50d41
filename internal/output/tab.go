// Package output provides score output formatters.
package output

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// Row is one scored sample.
type Row struct {
	Sample string
	Score  float64
	Call   bool
}

// ScoreWriter writes signature scores in tab-delimited format, one sample
// per line. With calls enabled it appends the binary classification column.
type ScoreWriter struct {
	w         *bufio.Writer
	withCalls bool
}

// NewScoreWriter creates a new tab-delimited score writer.
func NewScoreWriter(w io.Writer, withCalls bool) *ScoreWriter {
	return &ScoreWriter{
		w:         bufio.NewWriter(w),
		withCalls: withCalls,
	}
}

// WriteHeader writes the header line.
func (sw *ScoreWriter) WriteHeader() error {
	columns := []string{"#sample", "score"}
	if sw.withCalls {
		columns = append(columns, "call")
	}
	_, err := sw.w.WriteString(strings.Join(columns, "\t") + "\n")
	return err
}

// Write writes a single scored sample. The call column is "1" or "0".
func (sw *ScoreWriter) Write(r Row) error {
	values := []string{
		r.Sample,
		strconv.FormatFloat(r.Score, 'g', -1, 64),
	}
	if sw.withCalls {
		call := "0"
		if r.Call {
			call = "1"
		}
		values = append(values, call)
	}
	_, err := sw.w.WriteString(strings.Join(values, "\t") + "\n")
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (sw *ScoreWriter) Flush() error {
	return sw.w.Flush()
}
