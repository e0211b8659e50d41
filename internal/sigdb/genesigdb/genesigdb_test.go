package genesigdb

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigtools/sigscore/internal/annot"
)

func newTestTable(t *testing.T) *annot.Table {
	t.Helper()
	return annot.FromRecords([]annot.Record{
		{EntrezID: "7157", Symbol: "TP53"},
		{EntrezID: "672", Symbol: "BRCA1"},
		{EntrezID: "100", Symbol: "ADA"},
	}, "test")
}

func TestParse(t *testing.T) {
	input := "SIG1\tHuman Breast\tTP53\tBRCA1\nSIG2\tHuman\tADA\n"

	db, discarded, err := Parse(strings.NewReader(input), newTestTable(t))
	require.NoError(t, err)

	assert.Empty(t, discarded)
	require.Len(t, db, 2)

	s := db["GS_SIG1"]
	require.NotNil(t, s, "key is the source ID with a GS_ prefix")
	assert.Equal(t, []string{"7157", "672"}, s.Genes(), "symbols resolved to IDs")
	assert.Equal(t, []float64{1, 1}, s.Weights())
	assert.Zero(t, s.Bias())
	assert.Equal(t, publicationSearchURL+"SIG1", s.Info())
}

func TestParse_OrganismPrefix(t *testing.T) {
	input := "SIG1\tHuman Ovarian\tTP53\nSIG2\tMouse Mammary\tTP53\nSIG3\thuman\tTP53\n"

	db, discarded, err := Parse(strings.NewReader(input), newTestTable(t))
	require.NoError(t, err)

	assert.Equal(t, []string{"SIG2", "SIG3"}, discarded, "prefix match is case sensitive")
	require.Len(t, db, 1)
	assert.Contains(t, db, "GS_SIG1")
}

func TestParse_UnresolvableSymbolDiscardsWholeLine(t *testing.T) {
	input := "SIG1\tHuman\tTP53\tGENE_B\tBRCA1\nSIG2\tHuman\tBRCA1\n"

	db, discarded, err := Parse(strings.NewReader(input), newTestTable(t))
	require.NoError(t, err)

	assert.Equal(t, []string{"SIG1"}, discarded, "no partial signatures")
	require.Len(t, db, 1)
	assert.Contains(t, db, "GS_SIG2")
}

func TestParse_ShortLine(t *testing.T) {
	input := "SIG1\tHuman\nSIG2\tHuman\tTP53\n"

	db, discarded, err := Parse(strings.NewReader(input), newTestTable(t))
	require.NoError(t, err)

	assert.Equal(t, []string{"SIG1"}, discarded)
	assert.Contains(t, db, "GS_SIG2")
}

func TestParse_CRLF(t *testing.T) {
	input := "SIG1\tHuman\tTP53\tBRCA1\r\n"

	db, discarded, err := Parse(strings.NewReader(input), newTestTable(t))
	require.NoError(t, err)

	assert.Empty(t, discarded, "trailing carriage return must not break the last symbol")
	require.Contains(t, db, "GS_SIG1")
	assert.Equal(t, []string{"7157", "672"}, db["GS_SIG1"].Genes())
}

func TestParse_BlankLines(t *testing.T) {
	input := "\nSIG1\tHuman\tTP53\n\n"

	db, discarded, err := Parse(strings.NewReader(input), newTestTable(t))
	require.NoError(t, err)

	assert.Empty(t, discarded)
	assert.Len(t, db, 1)
}

func TestParse_DiscardOrder(t *testing.T) {
	input := "A\tMouse\tTP53\nB\tHuman\tNOPE\nC\tRat\tTP53\nD\tHuman\tTP53\n"

	db, discarded, err := Parse(strings.NewReader(input), newTestTable(t))
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B", "C"}, discarded, "source order")
	assert.Len(t, db, 1)
}

func TestParse_DuplicateSymbols(t *testing.T) {
	input := "SIG1\tHuman\tTP53\tTP53\tBRCA1\n"

	db, _, err := Parse(strings.NewReader(input), newTestTable(t))
	require.NoError(t, err)

	require.Contains(t, db, "GS_SIG1")
	assert.Equal(t, []string{"7157", "672"}, db["GS_SIG1"].Genes(), "duplicates collapse")
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "genesigdb.txt")
	require.NoError(t, os.WriteFile(path, []byte("SIG1\tHuman\tTP53\n"), 0o644))

	db, discarded, err := Load(path, newTestTable(t))
	require.NoError(t, err)
	assert.Empty(t, discarded)
	assert.Contains(t, db, "GS_SIG1")
}

func TestLoad_Gzip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "genesigdb.txt.gz")

	f, err := os.Create(path)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte("SIG1\tHuman\tTP53\tBRCA1\n"))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	db, discarded, err := Load(path, newTestTable(t))
	require.NoError(t, err)
	assert.Empty(t, discarded)
	require.Contains(t, db, "GS_SIG1")
	assert.Equal(t, []string{"7157", "672"}, db["GS_SIG1"].Genes())
}

func TestLoad_MissingFile(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "absent.txt"), newTestTable(t))
	require.Error(t, err)
}
