package analyze

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/owarelab/oware/notation"
	"github.com/owarelab/oware/oware"
	"github.com/owarelab/oware/owaretest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const capture = "39,0,0,0,0,2/2,1,4,0,0,0 0-0 1"

func TestMinimaxAnalysis(t *testing.T) {
	c := &Command{quiet: true, position: true}
	c.mmopt.Depth = 1
	a, err := c.buildAnalysis()
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, c.run(&out, a, capture))
	assert.Contains(t, out.String(), " pv=f\n")
	assert.Contains(t, out.String(), `[Position "`+capture+`"]`)
}

func TestEvaluateOnly(t *testing.T) {
	c := &Command{quiet: true, eval: true}
	a, err := c.buildAnalysis()
	require.NoError(t, err)
	var out bytes.Buffer
	require.NoError(t, c.run(&out, a, ""))
	assert.Equal(t, " Val=0\n", out.String())
}

func TestBeginnerAnalysis(t *testing.T) {
	c := &Command{quiet: true, beginner: true}
	a, err := c.buildAnalysis()
	require.NoError(t, err)
	var out bytes.Buffer
	require.NoError(t, c.run(&out, a, capture))
	lines := strings.Split(out.String(), "\n")
	require.True(t, len(lines) > 1)
	assert.Equal(t, " f score=50", lines[1])
}

func TestVariation(t *testing.T) {
	c := &Command{quiet: true, eval: true, variation: "c"}
	a, err := c.buildAnalysis()
	require.NoError(t, err)
	var out bytes.Buffer
	require.NoError(t, c.run(&out, a, ""))

	c.variation = "c c"
	assert.Error(t, c.run(&out, a, ""))
	assert.Error(t, c.run(&out, a, "1,2,3"))
}

func TestAnalyzeRecord(t *testing.T) {
	moves := owaretest.Moves("c C f")
	path := filepath.Join(t.TempDir(), "game.txt")
	rec := notation.NewRecord(oware.New(), moves, nil)
	require.NoError(t, os.WriteFile(path, []byte(rec.Render()), 0644))

	c := &Command{quiet: true, eval: true, record: path, move: 1, position: true}
	a, err := c.buildAnalysis()
	require.NoError(t, err)
	var out bytes.Buffer
	require.NoError(t, c.run(&out, a, ""))
	assert.Equal(t, " Val=2\n", out.String())

	c.all = true
	out.Reset()
	require.NoError(t, c.run(&out, a, ""))
	assert.Equal(t, "1. c\n Val=0\n1. ... C\n Val=2\n2. f\n Val=0\n", out.String())

	c.record = filepath.Join(t.TempDir(), "missing.txt")
	assert.Error(t, c.run(&out, a, ""))
}
