// Package expr provides labeled numeric containers for expression data: a
// one-dimensional Vector and a two-dimensional Frame, both backed by dense
// float64 data with label→index maps.
package expr

import (
	"errors"
	"fmt"
)

var (
	// ErrLabelNotFound is returned when a requested label is absent.
	ErrLabelNotFound = errors.New("label not found")

	// ErrDuplicateLabel is returned when a label list repeats an entry.
	// A repeated gene column in expression input is a data defect.
	ErrDuplicateLabel = errors.New("duplicate label")

	// ErrLengthMismatch is returned when labels and values disagree in count.
	ErrLengthMismatch = errors.New("label count does not match value count")
)

// Vector is a labeled one-dimensional series, e.g. one sample's expression
// values keyed by gene identifier. Read-only after construction.
type Vector struct {
	index  map[string]int
	labels []string
	data   []float64
}

// NewVector builds a vector from parallel label and value slices.
func NewVector(labels []string, data []float64) (*Vector, error) {
	if len(labels) != len(data) {
		return nil, fmt.Errorf("%d labels for %d values: %w", len(labels), len(data), ErrLengthMismatch)
	}
	index, err := buildIndex(labels)
	if err != nil {
		return nil, err
	}
	v := &Vector{
		index:  index,
		labels: make([]string, len(labels)),
		data:   make([]float64, len(data)),
	}
	copy(v.labels, labels)
	copy(v.data, data)
	return v, nil
}

// Len returns the number of entries.
func (v *Vector) Len() int {
	return len(v.data)
}

// Labels returns the labels in order.
func (v *Vector) Labels() []string {
	labels := make([]string, len(v.labels))
	copy(labels, v.labels)
	return labels
}

// Values returns the values in label order.
func (v *Vector) Values() []float64 {
	data := make([]float64, len(v.data))
	copy(data, v.data)
	return data
}

// Value returns the entry for a label.
func (v *Vector) Value(label string) (float64, error) {
	i, ok := v.index[label]
	if !ok {
		return 0, fmt.Errorf("label %q: %w", label, ErrLabelNotFound)
	}
	return v.data[i], nil
}

// Has reports whether a label is present.
func (v *Vector) Has(label string) bool {
	_, ok := v.index[label]
	return ok
}

// Frame is a labeled two-dimensional table: rows are samples, columns are
// gene identifiers. Read-only after construction.
type Frame struct {
	rowIndex map[string]int
	rows     []string
	colIndex map[string]int
	cols     []string
	data     [][]float64
}

// NewFrame builds a frame from row labels, column labels and row-major data.
func NewFrame(rows, cols []string, data [][]float64) (*Frame, error) {
	if len(rows) != len(data) {
		return nil, fmt.Errorf("%d row labels for %d rows: %w", len(rows), len(data), ErrLengthMismatch)
	}
	for i, row := range data {
		if len(row) != len(cols) {
			return nil, fmt.Errorf("row %q has %d values for %d columns: %w", rows[i], len(row), len(cols), ErrLengthMismatch)
		}
	}
	rowIndex, err := buildIndex(rows)
	if err != nil {
		return nil, err
	}
	colIndex, err := buildIndex(cols)
	if err != nil {
		return nil, err
	}

	f := &Frame{
		rowIndex: rowIndex,
		rows:     make([]string, len(rows)),
		colIndex: colIndex,
		cols:     make([]string, len(cols)),
		data:     make([][]float64, len(data)),
	}
	copy(f.rows, rows)
	copy(f.cols, cols)
	for i, row := range data {
		f.data[i] = make([]float64, len(row))
		copy(f.data[i], row)
	}
	return f, nil
}

// Rows returns the row labels in order.
func (f *Frame) Rows() []string {
	rows := make([]string, len(f.rows))
	copy(rows, f.rows)
	return rows
}

// Cols returns the column labels in order.
func (f *Frame) Cols() []string {
	cols := make([]string, len(f.cols))
	copy(cols, f.cols)
	return cols
}

// Value returns the entry at a row and column label pair.
func (f *Frame) Value(row, col string) (float64, error) {
	i, ok := f.rowIndex[row]
	if !ok {
		return 0, fmt.Errorf("row %q: %w", row, ErrLabelNotFound)
	}
	j, ok := f.colIndex[col]
	if !ok {
		return 0, fmt.Errorf("column %q: %w", col, ErrLabelNotFound)
	}
	return f.data[i][j], nil
}

// Row returns one sample's values as a vector labeled by the frame columns.
// The vector shares the frame's storage; neither type mutates it.
func (f *Frame) Row(row string) (*Vector, error) {
	i, ok := f.rowIndex[row]
	if !ok {
		return nil, fmt.Errorf("row %q: %w", row, ErrLabelNotFound)
	}
	return &Vector{index: f.colIndex, labels: f.cols, data: f.data[i]}, nil
}

// buildIndex maps labels to positions, rejecting duplicates.
func buildIndex(labels []string) (map[string]int, error) {
	index := make(map[string]int, len(labels))
	for i, label := range labels {
		if _, seen := index[label]; seen {
			return nil, fmt.Errorf("label %q: %w", label, ErrDuplicateLabel)
		}
		index[label] = i
	}
	return index, nil
}
