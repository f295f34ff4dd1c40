package lex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRules() []Rule {
	return []Rule{
		{Name: "ws", Pattern: `[ \t\n\r]+`, Skip: true},
		{Name: "kw-if", Pattern: `if`, Class: NewTokenClass("KW_IF", "'if'")},
		{Name: "id", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`, Class: NewTokenClass("ID", "identifier")},
		{Name: "num", Pattern: `[0-9]+`, Class: NewTokenClass("NUM", "number literal")},
		{Name: "plus", Pattern: `\+`, Class: NewTokenClass("PLUS", "'+'")},
	}
}

func TestScan_MaximalMunchAndTieBreak(t *testing.T) {
	lx, err := Generate(testRules())
	require.NoError(t, err)

	// "if" matches both kw-if and id at the same length; kw-if is declared
	// first so it must win (spec.md 4.2 earliest-declared-rule tie-break).
	toks, bag := lx.Scan("if iffy 12 + 3")
	require.True(t, bag.Empty())

	var classIDs []string
	for _, tok := range toks {
		classIDs = append(classIDs, tok.Class.ID())
	}
	assert.Equal(t, []string{"KW_IF", "ID", "NUM", "PLUS", "NUM", "$end"}, classIDs)
	assert.Equal(t, "if", toks[0].Lexeme)
	assert.Equal(t, "iffy", toks[1].Lexeme)
}

func TestScan_SkipRulesDropped(t *testing.T) {
	lx, err := Generate(testRules())
	require.NoError(t, err)

	toks, bag := lx.Scan("  12   34  ")
	require.True(t, bag.Empty())
	require.Len(t, toks, 3) // two NUMs plus $end
	assert.Equal(t, "12", toks[0].Lexeme)
	assert.Equal(t, "34", toks[1].Lexeme)
	assert.Equal(t, EndOfText, toks[2].Class)
}

func TestScan_InvalidCharacterRecovers(t *testing.T) {
	lx, err := Generate(testRules())
	require.NoError(t, err)

	toks, bag := lx.Scan("12 @ 34")
	assert.Equal(t, 1, bag.Len())
	var lexemes []string
	for _, tok := range toks {
		if tok.Class != EndOfText {
			lexemes = append(lexemes, tok.Lexeme)
		}
	}
	assert.Equal(t, []string{"12", "34"}, lexemes)
}

func TestScan_LineAndColumnTracking(t *testing.T) {
	lx, err := Generate(testRules())
	require.NoError(t, err)

	toks, bag := lx.Scan("1\n22 33")
	require.True(t, bag.Empty())
	require.GreaterOrEqual(t, len(toks), 3)

	assert.Equal(t, 1, toks[0].Line)
	assert.Equal(t, 1, toks[0].Col)
	assert.Equal(t, 2, toks[1].Line)
	assert.Equal(t, 1, toks[1].Col)
	assert.Equal(t, 2, toks[2].Line)
	assert.Equal(t, 4, toks[2].Col)
}
