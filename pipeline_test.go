package velac

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velalang/velac/internal/ast"
)

func TestCompile_WellTypedSourceProducesNoDiagnostics(t *testing.T) {
	prog, bag := Compile(strings.NewReader(`let x: Number = 1 in x + 2 * 3;`))
	require.True(t, bag.Empty(), "%v", bag.All())
	require.Len(t, prog.Expressions, 1)
	_, ok := prog.Expressions[0].(ast.Let)
	assert.True(t, ok)
}

func TestCompile_LexErrorShortCircuitsParseAndCheck(t *testing.T) {
	_, bag := Compile(strings.NewReader("`"))
	assert.False(t, bag.Empty())
}

func TestCompile_SemanticErrorIsReported(t *testing.T) {
	_, bag := Compile(strings.NewReader(`1 + "two";`))
	require.False(t, bag.Empty())
}

func TestCompile_NormalizesSourceToNFC(t *testing.T) {
	// "é" as e + combining acute (NFD) vs. the precomposed form (NFC) must
	// scan identically once normalized, inside a string literal.
	nfd := "\"é\";"
	_, bag := Compile(strings.NewReader(nfd))
	assert.True(t, bag.Empty(), "%v", bag.All())
}

func TestTableCache_WriteThenWarmProducesAWorkingPipeline(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "table.rezi")

	require.NoError(t, WriteTableCache(path))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	// WarmTableCache only takes effect before the first Compile call in a
	// process; this test only exercises that it loads and decodes without
	// error against the live grammar, not that it replaces an
	// already-memoized pipeline within this same test binary.
	assert.NoError(t, WarmTableCache(path))
}
