package annot

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// NCBI gene_info column layout (16 tab-separated columns).
const (
	giColGeneID     = 1
	giColSymbol     = 2
	giColSynonyms   = 4
	giColMapLoc     = 7
	giColDesc       = 8
	giColAuthSymbol = 10

	giNumFields = 16
)

// giHeaderTag is the first field of the gene_info column heading line.
const giHeaderTag = "#tax_id"

// ReadGeneInfo builds an annotation table from an NCBI gene_info dump,
// typically Homo_sapiens.gene_info.gz. Gzipped input is detected by the
// .gz suffix.
func ReadGeneInfo(path, version string) (*Table, error) {
	r, closeFn, err := openSource(path)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	return ParseGeneInfo(r, version)
}

// ParseGeneInfo reads the gene_info format from r. The first line must be
// the column heading line starting with "#tax_id". Rows with a wrong column
// count and NEWENTRY placeholder records are skipped. Only the columns that
// map onto Record are kept: GeneID, Symbol, the nomenclature-authority
// symbol, map location, synonyms and description.
func ParseGeneInfo(r io.Reader, version string) (*Table, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("scan gene_info: %w", err)
		}
		return nil, &ParseError{Line: 0, Message: "empty gene_info input"}
	}
	header := strings.Split(scanner.Text(), "\t")
	if len(header) != giNumFields || header[0] != giHeaderTag {
		return nil, &ParseError{Line: 1, Message: "unrecognized gene_info header"}
	}

	var recs []Record
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) != giNumFields {
			continue
		}
		// NEWENTRY rows are tax-level placeholders without gene data.
		if fields[giColSymbol] == "NEWENTRY" {
			continue
		}

		recs = append(recs, Record{
			EntrezID:  clean(fields[giColGeneID]),
			Symbol:    clean(fields[giColSymbol]),
			SymbolAlt: clean(fields[giColAuthSymbol]),
			ChrPos:    clean(fields[giColMapLoc]),
			Synonyms:  clean(fields[giColSynonyms]),
			Title:     clean(fields[giColDesc]),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan gene_info: %w", err)
	}

	return FromRecords(recs, version), nil
}
