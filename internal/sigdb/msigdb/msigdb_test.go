package msigdb

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const msigdbFixture = `<?xml version="1.0"?>
<MSIGDB NAME="msigdb" VERSION="7.5">
  <GENESET STANDARD_NAME="P53_PATHWAY" SYSTEMATIC_NAME="M100" ORGANISM="Homo sapiens" CATEGORY_CODE="C2" MEMBERS_EZID="7157,672,100"/>
  <GENESET STANDARD_NAME="MOUSE_APOPTOSIS" SYSTEMATIC_NAME="M200" ORGANISM="Mus musculus" CATEGORY_CODE="C2" MEMBERS_EZID="22059"/>
  <GENESET STANDARD_NAME="NUCLEOPLASM" SYSTEMATIC_NAME="M300" ORGANISM="Homo sapiens" CATEGORY_CODE="C5" MEMBERS_EZID="672"/>
</MSIGDB>
`

func TestParse(t *testing.T) {
	db, discarded, err := Parse(strings.NewReader(msigdbFixture))
	require.NoError(t, err)

	require.Len(t, db, 2)
	assert.Equal(t, []string{"M200"}, discarded)

	s := db["C2_M100"]
	require.NotNil(t, s, "key is collection code plus systematic name")
	assert.Equal(t, []string{"7157", "672", "100"}, s.Genes())
	assert.Equal(t, []float64{1, 1, 1}, s.Weights())
	assert.Zero(t, s.Bias())
	assert.Equal(t, geneSetPageURL+"P53_PATHWAY", s.Info())

	require.NotNil(t, db["C5_M300"])
}

func TestParse_OrganismExactMatch(t *testing.T) {
	input := `<MSIGDB>
  <GENESET STANDARD_NAME="A" SYSTEMATIC_NAME="M1" ORGANISM="homo sapiens" CATEGORY_CODE="C1" MEMBERS_EZID="1"/>
  <GENESET STANDARD_NAME="B" SYSTEMATIC_NAME="M2" ORGANISM="Homo sapiens " CATEGORY_CODE="C1" MEMBERS_EZID="2"/>
  <GENESET STANDARD_NAME="C" SYSTEMATIC_NAME="M3" CATEGORY_CODE="C1" MEMBERS_EZID="3"/>
</MSIGDB>`

	db, discarded, err := Parse(strings.NewReader(input))
	require.NoError(t, err)

	// Case variants, padding and a missing attribute all fail the match.
	assert.Empty(t, db)
	assert.Equal(t, []string{"M1", "M2", "M3"}, discarded)
}

func TestParse_FormatDiscards(t *testing.T) {
	input := `<MSIGDB>
  <GENESET STANDARD_NAME="NO_MEMBERS" SYSTEMATIC_NAME="M1" ORGANISM="Homo sapiens" CATEGORY_CODE="C1" MEMBERS_EZID=""/>
  <GENESET STANDARD_NAME="ONLY_COMMAS" SYSTEMATIC_NAME="M2" ORGANISM="Homo sapiens" CATEGORY_CODE="C1" MEMBERS_EZID=",,"/>
  <GENESET STANDARD_NAME="NO_SYSTEMATIC" SYSTEMATIC_NAME="" ORGANISM="Homo sapiens" CATEGORY_CODE="C1" MEMBERS_EZID="7157"/>
  <GENESET STANDARD_NAME="OK" SYSTEMATIC_NAME="M4" ORGANISM="Homo sapiens" CATEGORY_CODE="C1" MEMBERS_EZID="7157, 672"/>
</MSIGDB>`

	db, discarded, err := Parse(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"M1", "M2", "NO_SYSTEMATIC"}, discarded,
		"systematic name recorded when present, standard name otherwise")

	require.Len(t, db, 1)
	assert.Equal(t, []string{"7157", "672"}, db["C1_M4"].Genes(), "stray spaces trimmed")
}

func TestParse_MalformedXML(t *testing.T) {
	input := `<MSIGDB><GENESET STANDARD_NAME="A" SYSTEMATIC_NAME="M1"`

	_, _, err := Parse(strings.NewReader(input))
	require.Error(t, err)
}

func TestParse_Empty(t *testing.T) {
	db, discarded, err := Parse(strings.NewReader("<MSIGDB></MSIGDB>"))
	require.NoError(t, err)
	assert.Empty(t, db)
	assert.Empty(t, discarded)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "msigdb.xml")
	require.NoError(t, os.WriteFile(path, []byte(msigdbFixture), 0o644))

	db, discarded, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, db, 2)
	assert.Len(t, discarded, 1)
}

func TestLoad_MissingFile(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "absent.xml"))
	require.Error(t, err)
}
