// Package genesigdb provides gene signature loading from GeneSigDB
// tab-delimited exports.
package genesigdb

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sigtools/sigscore/internal/annot"
	"github.com/sigtools/sigscore/internal/sig"
)

// organismPrefix marks human signatures. GeneSigDB qualifies the organism
// field with tissue ("Human Breast"), so a prefix match is required.
const organismPrefix = "Human"

// publicationSearchURL prefixes the info link stored on every signature.
const publicationSearchURL = "http://compbio.dfci.harvard.edu/genesigdb/publicationSearch.jsp?searchQuery="

// Load reads a whole GeneSigDB export: one signature per line as
// [ID, organism, symbols...]. Plain and gzipped files are both accepted,
// detected by content. Gene symbols are resolved to Entrez IDs through the
// annotation table; a line with any unresolvable symbol is discarded
// whole, so no partial signatures are produced. Keys are "GS_<ID>" and the
// info field carries the publication search URL.
func Load(path string, table *annot.Table) (map[string]*sig.Signature, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open genesigdb file: %w", err)
	}
	defer f.Close()

	// Check for gzip magic number (0x1f, 0x8b)
	buf := make([]byte, 2)
	if _, err := f.Read(buf); err != nil {
		return nil, nil, fmt.Errorf("read genesigdb header: %w", err)
	}
	if _, err := f.Seek(0, 0); err != nil {
		return nil, nil, fmt.Errorf("seek genesigdb file: %w", err)
	}

	var r io.Reader = f
	if buf[0] == 0x1f && buf[1] == 0x8b {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, nil, fmt.Errorf("create gzip reader: %w", err)
		}
		defer gz.Close()
		r = gz
	}

	return Parse(r, table)
}

// Parse reads the tab-delimited export from r. Discards, in source order:
// lines with fewer than three fields, organisms not starting with "Human",
// and lines with unresolvable symbols.
func Parse(r io.Reader, table *annot.Table) (map[string]*sig.Signature, []string, error) {
	db := make(map[string]*sig.Signature)
	var discarded []string

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if line == "" {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < 3 {
			discarded = append(discarded, fields[0])
			continue
		}
		id, marker := fields[0], fields[1]
		if !strings.HasPrefix(marker, organismPrefix) {
			discarded = append(discarded, id)
			continue
		}

		genes, err := resolve(fields[2:], table)
		if err != nil {
			discarded = append(discarded, id)
			continue
		}

		db["GS_"+id] = sig.New(genes, publicationSearchURL+id)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("scan genesigdb file: %w", err)
	}

	return db, discarded, nil
}

// resolve maps every symbol to its Entrez ID, failing on the first symbol
// the table does not know.
func resolve(symbols []string, table *annot.Table) ([]string, error) {
	genes := make([]string, 0, len(symbols))
	for _, sym := range symbols {
		id, err := table.IDFromSymbol(sym)
		if err != nil {
			return nil, err
		}
		genes = append(genes, id)
	}
	return genes, nil
}
