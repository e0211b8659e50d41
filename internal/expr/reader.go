package expr

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ReadTSV reads an expression frame from a tab-delimited file. Layout: a
// header line with a corner label followed by gene IDs, then one line per
// sample holding the sample ID and one value per gene. Gzipped input is
// detected by the .gz suffix.
func ReadTSV(path string) (*Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open expression file: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open gzip reader: %w", err)
		}
		defer gz.Close()
		r = gz
	}

	return parseTSV(r)
}

// parseTSV reads the header then the sample rows. The corner label is
// ignored; every data row must match the header width.
func parseTSV(r io.Reader) (*Frame, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var cols []string
	width := 0
	lineNum := 0

	// Header: corner label + at least one gene column.
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 2 {
			return nil, &ParseError{
				Line:    lineNum,
				Message: "header needs a corner label and at least one gene column",
			}
		}
		cols = fields[1:]
		width = len(fields)
		break
	}
	if cols == nil {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("scan expression file: %w", err)
		}
		return nil, &ParseError{Line: lineNum, Message: "no header line found"}
	}

	var rows []string
	var data [][]float64
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if line == "" {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) != width {
			return nil, &ParseError{
				Line:    lineNum,
				Message: fmt.Sprintf("expected %d fields, found %d", width, len(fields)),
			}
		}

		values := make([]float64, len(fields)-1)
		for i, field := range fields[1:] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, &ParseError{
					Line:    lineNum,
					Message: fmt.Sprintf("invalid value %q", field),
				}
			}
			values[i] = v
		}

		rows = append(rows, fields[0])
		data = append(data, values)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan expression file: %w", err)
	}

	frame, err := NewFrame(rows, cols, data)
	if err != nil {
		return nil, fmt.Errorf("build expression frame: %w", err)
	}
	return frame, nil
}

// ParseError reports a malformed expression row with its line number.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("expression parse error at line %d: %s", e.Line, e.Message)
}
