package expr

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const exprFixture = `sample	7157	672	100
S1	1.5	2.5	3.5
S2	-0.5	0	1e2
`

func TestParseTSV(t *testing.T) {
	f, err := parseTSV(strings.NewReader(exprFixture))
	require.NoError(t, err)

	assert.Equal(t, []string{"S1", "S2"}, f.Rows())
	assert.Equal(t, []string{"7157", "672", "100"}, f.Cols())

	got, err := f.Value("S1", "672")
	require.NoError(t, err)
	assert.Equal(t, 2.5, got)

	got, err = f.Value("S2", "100")
	require.NoError(t, err)
	assert.Equal(t, 100.0, got)
}

func TestParseTSV_EmptyCornerLabel(t *testing.T) {
	f, err := parseTSV(strings.NewReader("\t7157\t672\nS1\t1\t2\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"7157", "672"}, f.Cols())
}

func TestParseTSV_SkipsBlankLines(t *testing.T) {
	input := "\nsample\t7157\n\nS1\t1\n\nS2\t2\n"

	f, err := parseTSV(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []string{"S1", "S2"}, f.Rows())
}

func TestParseTSV_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		line  int
	}{
		{"empty input", "", 0},
		{"header too narrow", "sample\nS1\n", 1},
		{"ragged row", "sample\t7157\t672\nS1\t1\n", 2},
		{"bad number", "sample\t7157\nS1\tNA\n", 2},
		{"ragged later row", "sample\t7157\nS1\t1\nS2\t1\t2\n", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseTSV(strings.NewReader(tt.input))
			var perr *ParseError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.line, perr.Line)
		})
	}
}

func TestParseTSV_DuplicateColumn(t *testing.T) {
	_, err := parseTSV(strings.NewReader("sample\t7157\t7157\nS1\t1\t2\n"))
	assert.ErrorIs(t, err, ErrDuplicateLabel)
}

func TestParseTSV_DuplicateSample(t *testing.T) {
	_, err := parseTSV(strings.NewReader("sample\t7157\nS1\t1\nS1\t2\n"))
	assert.ErrorIs(t, err, ErrDuplicateLabel)
}

func TestReadTSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "expr.tsv")
	require.NoError(t, os.WriteFile(path, []byte(exprFixture), 0o644))

	f, err := ReadTSV(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"S1", "S2"}, f.Rows())
}

func TestReadTSV_Gzip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "expr.tsv.gz")

	out, err := os.Create(path)
	require.NoError(t, err)
	gz := gzip.NewWriter(out)
	_, err = gz.Write([]byte(exprFixture))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, out.Close())

	f, err := ReadTSV(path)
	require.NoError(t, err)

	got, err := f.Value("S2", "7157")
	require.NoError(t, err)
	assert.Equal(t, -0.5, got)
}

func TestReadTSV_MissingFile(t *testing.T) {
	_, err := ReadTSV(filepath.Join(t.TempDir(), "absent.tsv"))
	require.Error(t, err)
}
