package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exprGrammar() *Grammar {
	g := New("E")
	for _, t := range []string{"+", "*", "(", ")", "id"} {
		g.AddTerminal(t)
	}
	g.AddProduction("E", []string{"E", "+", "T"}, nil)
	g.AddProduction("E", []string{"T"}, nil)
	g.AddProduction("T", []string{"T", "*", "F"}, nil)
	g.AddProduction("T", []string{"F"}, nil)
	g.AddProduction("F", []string{"(", "E", ")"}, nil)
	g.AddProduction("F", []string{"id"}, nil)
	return g
}

func TestAddProduction_AssignsDenseIDsAndRegistersNonTerminal(t *testing.T) {
	g := exprGrammar()
	all := g.AllProductions()
	require.Len(t, all, 6)
	for i, p := range all {
		assert.Equal(t, i, p.ID)
	}
	assert.Equal(t, []string{"E", "T", "F"}, g.NonTerminals())
	assert.True(t, g.IsNonTerminal("E"))
	assert.True(t, g.IsTerminal("id"))
	assert.False(t, g.IsTerminal("E"))
	assert.False(t, g.IsNonTerminal("id"))
}

func TestProduction_String(t *testing.T) {
	p := Production{LHS: "F", RHS: []string{"(", "E", ")"}}
	assert.Equal(t, "F -> ( E )", p.String())

	epsilon := Production{LHS: "X", RHS: nil}
	assert.Equal(t, "X -> ε", epsilon.String())
}

func TestValidate_CatchesUndefinedSymbol(t *testing.T) {
	g := New("S")
	g.AddTerminal("a")
	g.AddProduction("S", []string{"a", "Missing"}, nil)
	err := g.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Missing")
}

func TestValidate_CatchesStartWithNoProductions(t *testing.T) {
	g := New("S")
	g.AddTerminal("a")
	err := g.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "S")
}

func TestValidate_AcceptsWellFormedGrammar(t *testing.T) {
	g := exprGrammar()
	assert.NoError(t, g.Validate())
}

func TestFIRST_OfExpressionGrammar(t *testing.T) {
	g := exprGrammar()
	want := []string{"(", "id"}
	for _, sym := range []string{"E", "T", "F"} {
		assert.ElementsMatch(t, want, g.FIRST(sym).Elements(), "FIRST(%s)", sym)
	}
	assert.ElementsMatch(t, []string{"id"}, g.FIRST("id").Elements())
}

func TestFIRST_ToleratesLeftRecursionWithoutLooping(t *testing.T) {
	g := New("E")
	g.AddTerminal("+")
	g.AddTerminal("id")
	g.AddProduction("E", []string{"E", "+", "id"}, nil)
	g.AddProduction("E", []string{"id"}, nil)

	assert.ElementsMatch(t, []string{"id"}, g.FIRST("E").Elements())
}

func TestFIRST_EpsilonProduction(t *testing.T) {
	g := New("S")
	g.AddTerminal("a")
	g.AddProduction("S", []string{"a", "B"}, nil)
	g.AddProduction("B", nil, nil)
	first := g.FIRST("B")
	assert.True(t, first.Has(Epsilon))
}

func TestFIRSTOfSequence(t *testing.T) {
	g := exprGrammar()
	got := g.FIRSTOfSequence([]string{"T", "+"})
	assert.ElementsMatch(t, []string{"(", "id"}, got.Elements())
}
