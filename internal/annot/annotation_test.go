package annot

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const annotFixture = `672	BRCA1	RNF53	17q21.31	IRIS|PSCP|BRCAI	BRCA1 DNA repair associated
7157	TP53	p53	17p13.1	BCC7|LFS1	tumor protein p53
100	ADA	-	20q13.12	-	adenosine deaminase
`

func TestParse(t *testing.T) {
	table, err := Parse(strings.NewReader(annotFixture), "2026a")
	require.NoError(t, err)

	assert.Equal(t, "2026a", table.Version())
	assert.Equal(t, 3, table.Len())
	assert.Equal(t, []string{"672", "7157", "100"}, table.IDs())

	rec, err := table.InfoByID("7157")
	require.NoError(t, err)
	assert.Equal(t, "TP53", rec.Symbol)
	assert.Equal(t, "p53", rec.SymbolAlt)
	assert.Equal(t, "17p13.1", rec.ChrPos)
	assert.Equal(t, "tumor protein p53", rec.Title)
}

func TestParse_MissingSentinel(t *testing.T) {
	table, err := Parse(strings.NewReader(annotFixture), "")
	require.NoError(t, err)

	rec, err := table.InfoByID("100")
	require.NoError(t, err)
	assert.Empty(t, rec.SymbolAlt, "dash field should read as empty")
	assert.Empty(t, rec.Synonyms, "dash field should read as empty")
	assert.Equal(t, "ADA", rec.Symbol)
}

func TestParse_FieldCount(t *testing.T) {
	tests := []struct {
		name  string
		input string
		line  int
	}{
		{"too few", "672\tBRCA1\tRNF53\t17q21.31\tIRIS\n", 1},
		{"too many", "672\tBRCA1\tRNF53\t17q21.31\tIRIS\ttitle\textra\n", 1},
		{"after valid row", annotFixture + "bad\trow\n", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input), "")
			var perr *ParseError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.line, perr.Line)
		})
	}
}

func TestParse_SkipsBlankLines(t *testing.T) {
	input := "672\tBRCA1\tRNF53\t17q21.31\tIRIS\tBRCA1 DNA repair associated\n\n\n7157\tTP53\tp53\t17p13.1\tBCC7\ttumor protein p53\n"

	table, err := Parse(strings.NewReader(input), "")
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())
}

func TestTable_SymbolRoundTrip(t *testing.T) {
	table, err := Parse(strings.NewReader(annotFixture), "")
	require.NoError(t, err)

	// Every indexed symbol resolves to an ID that resolves back to it.
	for sym, wantID := range table.GeneToIDMap() {
		id, err := table.IDFromSymbol(sym)
		require.NoError(t, err)
		assert.Equal(t, wantID, id)

		got, err := table.GeneFromID(id)
		require.NoError(t, err)
		assert.Equal(t, sym, got)
	}
}

func TestTable_NotFound(t *testing.T) {
	table, err := Parse(strings.NewReader(annotFixture), "")
	require.NoError(t, err)

	_, err = table.IDFromSymbol("NOSUCH")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = table.GeneFromID("999999")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = table.InfoByID("999999")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = table.InfoBySymbol("NOSUCH")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFromRecords_DuplicateID(t *testing.T) {
	table := FromRecords([]Record{
		{EntrezID: "1", Symbol: "A1BG", Title: "first"},
		{EntrezID: "2", Symbol: "A2M", Title: "second"},
		{EntrezID: "1", Symbol: "A1BG", Title: "updated"},
	}, "")

	// Last row wins, first position kept.
	assert.Equal(t, 2, table.Len())
	assert.Equal(t, []string{"1", "2"}, table.IDs())

	rec, err := table.InfoByID("1")
	require.NoError(t, err)
	assert.Equal(t, "updated", rec.Title)
}

func TestFromRecords_DuplicateSymbol(t *testing.T) {
	table := FromRecords([]Record{
		{EntrezID: "10", Symbol: "NAT2"},
		{EntrezID: "11", Symbol: "NAT2"},
	}, "")

	// Later row wins in the reverse index.
	id, err := table.IDFromSymbol("NAT2")
	require.NoError(t, err)
	assert.Equal(t, "11", id)
}

func TestFromRecords_EmptySymbolUnindexed(t *testing.T) {
	table := FromRecords([]Record{
		{EntrezID: "1", Symbol: "A1BG"},
		{EntrezID: "2", Symbol: ""},
	}, "")

	assert.Equal(t, 2, table.Len(), "row without symbol stays in the table")
	assert.NotContains(t, table.GeneToIDMap(), "")

	sym, err := table.GeneFromID("2")
	require.NoError(t, err)
	assert.Empty(t, sym)
}

func TestTable_MapsAreCopies(t *testing.T) {
	table, err := Parse(strings.NewReader(annotFixture), "")
	require.NoError(t, err)

	idToGene := table.IDToGeneMap()
	assert.Equal(t, "BRCA1", idToGene["672"])
	idToGene["672"] = "mutated"

	sym, err := table.GeneFromID("672")
	require.NoError(t, err)
	assert.Equal(t, "BRCA1", sym)

	geneToID := table.GeneToIDMap()
	assert.Equal(t, "7157", geneToID["TP53"])
	geneToID["TP53"] = "0"

	id, err := table.IDFromSymbol("TP53")
	require.NoError(t, err)
	assert.Equal(t, "7157", id)
}

func TestTable_SetVersion(t *testing.T) {
	table, err := Parse(strings.NewReader(annotFixture), "draft")
	require.NoError(t, err)

	table.SetVersion("2026b")
	assert.Equal(t, "2026b", table.Version())
}

func TestRecord_SynonymList(t *testing.T) {
	assert.Equal(t, []string{"IRIS", "PSCP", "BRCAI"}, Record{Synonyms: "IRIS|PSCP|BRCAI"}.SynonymList())
	assert.Nil(t, Record{}.SynonymList())
}

func TestReadTable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "annot.tsv")
	require.NoError(t, os.WriteFile(path, []byte(annotFixture), 0o644))

	table, err := ReadTable(path, "2026a")
	require.NoError(t, err)
	assert.Equal(t, 3, table.Len())
}

func TestReadTable_Gzip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "annot.tsv.gz")

	f, err := os.Create(path)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte(annotFixture))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	table, err := ReadTable(path, "2026a")
	require.NoError(t, err)
	assert.Equal(t, 3, table.Len())

	id, err := table.IDFromSymbol("BRCA1")
	require.NoError(t, err)
	assert.Equal(t, "672", id)
}

func TestReadTable_MissingFile(t *testing.T) {
	_, err := ReadTable(filepath.Join(t.TempDir(), "absent.tsv"), "")
	require.Error(t, err)
}
