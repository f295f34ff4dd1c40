package parser

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velalang/velac/internal/grammar"
	"github.com/velalang/velac/internal/lalr"
	"github.com/velalang/velac/internal/lex"
)

// arithGrammar builds E -> E + T | T; T -> T * F | F; F -> ( E ) | num, with
// reduce closures that actually evaluate the expression, so a passing test
// demonstrates real left-to-right value propagation rather than just table
// shape.
func arithGrammar() *grammar.Grammar {
	g := grammar.New("E")
	for _, t := range []string{"+", "*", "(", ")", "num"} {
		g.AddTerminal(t)
	}
	g.AddProduction("E", []string{"E", "+", "T"}, func(v []any) (any, error) {
		return v[0].(float64) + v[2].(float64), nil
	})
	g.AddProduction("E", []string{"T"}, nil)
	g.AddProduction("T", []string{"T", "*", "F"}, func(v []any) (any, error) {
		return v[0].(float64) * v[2].(float64), nil
	})
	g.AddProduction("T", []string{"F"}, nil)
	g.AddProduction("F", []string{"(", "E", ")"}, func(v []any) (any, error) {
		return v[1], nil
	})
	g.AddProduction("F", []string{"num"}, nil)
	return g
}

func tok(class, lexeme string, offset int) lex.Token {
	return lex.Token{Class: lex.NewTokenClass(class, class), Lexeme: lexeme, Offset: offset, Line: 1, Col: offset + 1}
}

func numValue(tok lex.Token) (any, error) {
	var f float64
	_, err := fmt.Sscanf(tok.Lexeme, "%g", &f)
	return f, err
}

func TestParse_EvaluatesArithmeticExpression(t *testing.T) {
	g := arithGrammar()
	table, conflicts := lalr.Build(g)
	require.Empty(t, conflicts)

	tokens := []lex.Token{
		tok("num", "2", 0),
		tok("+", "+", 1),
		tok("num", "3", 2),
		tok("*", "*", 3),
		tok("num", "4", 4),
		{Class: lex.EndOfText, Offset: 5, Line: 1, Col: 6},
	}

	result, bag := Parse(tokens, table, map[string]TerminalValue{"num": numValue})
	require.True(t, bag.Empty())
	assert.Equal(t, float64(14), result)
}

func TestParse_ReportsUnrecognizedToken(t *testing.T) {
	g := arithGrammar()
	table, conflicts := lalr.Build(g)
	require.Empty(t, conflicts)

	tokens := []lex.Token{
		tok("+", "+", 0),
		tok("num", "2", 1),
		{Class: lex.EndOfText, Offset: 2, Line: 1, Col: 3},
	}

	result, bag := Parse(tokens, table, map[string]TerminalValue{"num": numValue})
	require.False(t, bag.Empty())
	assert.Nil(t, result)
	assert.Equal(t, "UnrecognizedToken", string(bag.All()[0].Kind))
}

func TestParse_ReportsUnrecognizedEof(t *testing.T) {
	g := arithGrammar()
	table, conflicts := lalr.Build(g)
	require.Empty(t, conflicts)

	tokens := []lex.Token{
		tok("num", "2", 0),
		tok("+", "+", 1),
		{Class: lex.EndOfText, Offset: 2, Line: 1, Col: 3},
	}

	_, bag := Parse(tokens, table, map[string]TerminalValue{"num": numValue})
	require.False(t, bag.Empty())
	assert.Equal(t, "UnrecognizedEof", string(bag.All()[0].Kind))
}

func TestParse_EmptyInputReportsUnrecognizedEof(t *testing.T) {
	g := arithGrammar()
	table, conflicts := lalr.Build(g)
	require.Empty(t, conflicts)

	_, bag := Parse(nil, table, nil)
	require.False(t, bag.Empty())
	assert.Equal(t, "UnrecognizedEof", string(bag.All()[0].Kind))
}

func TestParse_ParenthesizedExpression(t *testing.T) {
	g := arithGrammar()
	table, conflicts := lalr.Build(g)
	require.Empty(t, conflicts)

	tokens := []lex.Token{
		tok("(", "(", 0),
		tok("num", "2", 1),
		tok("+", "+", 2),
		tok("num", "3", 3),
		tok(")", ")", 4),
		tok("*", "*", 5),
		tok("num", "4", 6),
		{Class: lex.EndOfText, Offset: 7, Line: 1, Col: 8},
	}

	result, bag := Parse(tokens, table, map[string]TerminalValue{"num": numValue})
	require.True(t, bag.Empty())
	assert.Equal(t, float64(20), result)
}
