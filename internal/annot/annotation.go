// Package annot provides a genome annotation lookup table: a minimal view of
// a gene annotation keyed by Entrez ID, with a derived symbol index for the
// reverse lookup.
package annot

import (
	"bufio"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrNotFound is returned when an identifier or symbol is absent from the table.
var ErrNotFound = errors.New("not found in annotation table")

// Annotation table column order: [EntrezID, Symbol, SymbolAlt, ChrPos, Synonyms, Title].
const numFields = 6

// missingField is the source sentinel for an absent value.
const missingField = "-"

// Record holds the annotation for a single gene. Empty string means the
// source marked the field as missing.
type Record struct {
	EntrezID  string // stable numeric gene identifier, kept as text
	Symbol    string // official gene symbol
	SymbolAlt string // alternate symbol
	ChrPos    string // chromosomal position (e.g. "17p13.1")
	Synonyms  string // pipe-separated synonym list
	Title     string // short gene description
}

// SynonymList splits the pipe-separated synonyms into a slice.
// Returns nil when no synonyms are recorded.
func (r Record) SynonymList() []string {
	if r.Synonyms == "" {
		return nil
	}
	return strings.Split(r.Synonyms, "|")
}

// Table is an annotation lookup table. It is built once from a source file or
// a stored copy and is read-only afterwards, except for the version tag.
type Table struct {
	version string
	rows    map[string]Record
	order   []string          // Entrez IDs in source order
	symToID map[string]string // derived reverse index, symbol → Entrez ID
}

// FromRecords builds a table from parsed records. Duplicate identifiers
// collapse to one row (last row wins, first position kept). The reverse
// index maps each non-empty symbol to its identifier; when two identifiers
// share a symbol the later row wins.
func FromRecords(recs []Record, version string) *Table {
	t := &Table{
		version: version,
		rows:    make(map[string]Record, len(recs)),
	}
	for _, rec := range recs {
		if _, seen := t.rows[rec.EntrezID]; !seen {
			t.order = append(t.order, rec.EntrezID)
		}
		t.rows[rec.EntrezID] = rec
	}
	t.rebuildIndex()
	return t
}

// rebuildIndex derives the symbol → identifier map from the primary rows.
// It is never mutated independently of them.
func (t *Table) rebuildIndex() {
	t.symToID = make(map[string]string, len(t.rows))
	for _, id := range t.order {
		sym := t.rows[id].Symbol
		if sym == "" {
			continue
		}
		t.symToID[sym] = id
	}
}

// Version returns the table's version tag.
func (t *Table) Version() string {
	return t.version
}

// SetVersion reassigns the version tag. This is the only mutation allowed
// after construction.
func (t *Table) SetVersion(v string) {
	t.version = v
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.order)
}

// IDs returns the Entrez IDs in source order.
func (t *Table) IDs() []string {
	ids := make([]string, len(t.order))
	copy(ids, t.order)
	return ids
}

// IDFromSymbol resolves an official symbol to its Entrez ID.
func (t *Table) IDFromSymbol(symbol string) (string, error) {
	id, ok := t.symToID[symbol]
	if !ok {
		return "", fmt.Errorf("symbol %q: %w", symbol, ErrNotFound)
	}
	return id, nil
}

// GeneFromID resolves an Entrez ID to its official symbol.
func (t *Table) GeneFromID(id string) (string, error) {
	rec, ok := t.rows[id]
	if !ok {
		return "", fmt.Errorf("identifier %q: %w", id, ErrNotFound)
	}
	return rec.Symbol, nil
}

// InfoByID returns the full annotation row for an Entrez ID.
func (t *Table) InfoByID(id string) (Record, error) {
	rec, ok := t.rows[id]
	if !ok {
		return Record{}, fmt.Errorf("identifier %q: %w", id, ErrNotFound)
	}
	return rec, nil
}

// InfoBySymbol returns the full annotation row for a symbol, resolving the
// symbol through the reverse index first.
func (t *Table) InfoBySymbol(symbol string) (Record, error) {
	id, err := t.IDFromSymbol(symbol)
	if err != nil {
		return Record{}, err
	}
	return t.InfoByID(id)
}

// IDToGeneMap returns a copy of the identifier → symbol mapping.
func (t *Table) IDToGeneMap() map[string]string {
	m := make(map[string]string, len(t.rows))
	for id, rec := range t.rows {
		m[id] = rec.Symbol
	}
	return m
}

// GeneToIDMap returns a copy of the symbol → identifier reverse index.
func (t *Table) GeneToIDMap() map[string]string {
	m := make(map[string]string, len(t.symToID))
	for sym, id := range t.symToID {
		m[sym] = id
	}
	return m
}

// Records returns the rows in source order.
func (t *Table) Records() []Record {
	recs := make([]Record, 0, len(t.order))
	for _, id := range t.order {
		recs = append(recs, t.rows[id])
	}
	return recs
}

// ReadTable reads an annotation table from a tab-delimited file with exactly
// six fields per row in the order [EntrezID, Symbol, SymbolAlt, ChrPos,
// Synonyms, Title] and no header. The literal "-" marks a missing value.
// Gzipped input is detected by the .gz suffix.
func ReadTable(path, version string) (*Table, error) {
	r, closeFn, err := openSource(path)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	return Parse(r, version)
}

// Parse reads the six-column annotation format from r. Identifiers are kept
// as opaque text; no numeric coercion happens, so leading zeros and
// alphanumeric IDs survive.
func Parse(r io.Reader, version string) (*Table, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var recs []Record
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if line == "" {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) != numFields {
			return nil, &ParseError{
				Line:    lineNum,
				Message: fmt.Sprintf("expected %d fields, found %d", numFields, len(fields)),
			}
		}

		recs = append(recs, Record{
			EntrezID:  clean(fields[0]),
			Symbol:    clean(fields[1]),
			SymbolAlt: clean(fields[2]),
			ChrPos:    clean(fields[3]),
			Synonyms:  clean(fields[4]),
			Title:     clean(fields[5]),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan annotation table: %w", err)
	}

	return FromRecords(recs, version), nil
}

// clean maps the missing-value sentinel to the empty string.
func clean(field string) string {
	if field == missingField {
		return ""
	}
	return field
}

// openSource opens a possibly gzipped file and returns the reader plus a
// close function for both layers.
func openSource(path string) (io.Reader, func(), error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open annotation source: %w", err)
	}

	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, nil, fmt.Errorf("open gzip reader: %w", err)
		}
		return gz, func() {
			gz.Close()
			f.Close()
		}, nil
	}

	return f, func() { f.Close() }, nil
}

// ParseError reports a malformed row with its line number.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("annotation parse error at line %d: %s", e.Line, e.Message)
}
