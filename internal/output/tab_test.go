package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewScoreWriter(&buf, false)

	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.Write(Row{Sample: "S1", Score: 2.5}))
	require.NoError(t, w.Write(Row{Sample: "S2", Score: -0.125}))
	require.NoError(t, w.Flush())

	assert.Equal(t, "#sample\tscore\nS1\t2.5\nS2\t-0.125\n", buf.String())
}

func TestScoreWriter_WithCalls(t *testing.T) {
	var buf bytes.Buffer
	w := NewScoreWriter(&buf, true)

	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.Write(Row{Sample: "S1", Score: 1.5, Call: true}))
	require.NoError(t, w.Write(Row{Sample: "S2", Score: -1.5, Call: false}))
	require.NoError(t, w.Flush())

	assert.Equal(t, "#sample\tscore\tcall\nS1\t1.5\t1\nS2\t-1.5\t0\n", buf.String())
}

func TestScoreWriter_FlushRequired(t *testing.T) {
	var buf bytes.Buffer
	w := NewScoreWriter(&buf, false)

	require.NoError(t, w.Write(Row{Sample: "S1", Score: 1}))
	assert.Empty(t, buf.String(), "rows are buffered until Flush")

	require.NoError(t, w.Flush())
	assert.Equal(t, "S1\t1\n", buf.String())
}
