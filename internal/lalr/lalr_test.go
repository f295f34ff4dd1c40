package lalr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velalang/velac/internal/grammar"
)

// exprGrammar builds the classic unambiguous expression grammar (Dragon
// Book Algorithm 4.63's own running example):
//
//	E -> E + T | T
//	T -> T * F | F
//	F -> ( E ) | id
func exprGrammar() *grammar.Grammar {
	g := grammar.New("E")
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

func TestBuild_NoConflictsOnUnambiguousGrammar(t *testing.T) {
	g := exprGrammar()
	table, conflicts := Build(g)
	require.Empty(t, conflicts)
	assert.Greater(t, table.NumStates, 0)
	assert.NotEmpty(t, table.Action[table.Start])
}

// drive runs tokens (terminated implicitly by "$") through table starting
// from its start state, returning true if the input is accepted.
func drive(t *testing.T, table *Table, tokens []string) bool {
	t.Helper()
	stack := []int{table.Start}
	pos := 0
	next := func() string {
		if pos >= len(tokens) {
			return grammar.EndOfInput
		}
		return tokens[pos]
	}

	for steps := 0; steps < 10000; steps++ {
		s := stack[len(stack)-1]
		a := next()
		act, ok := table.Action[s][a]
		if !ok {
			return false
		}
		switch act.Kind {
		case Shift:
			stack = append(stack, act.State)
			pos++
		case Reduce:
			for i := 0; i < len(act.Production.RHS); i++ {
				stack = stack[:len(stack)-1]
			}
			top := stack[len(stack)-1]
			target, ok := table.Goto[top][act.Production.LHS]
			require.True(t, ok, "no GOTO[%d, %s]", top, act.Production.LHS)
			stack = append(stack, target)
		case Accept:
			return true
		}
	}
	t.Fatal("drive: exceeded step limit, likely infinite loop")
	return false
}

func TestTable_AcceptsValidExpressions(t *testing.T) {
	g := exprGrammar()
	table, conflicts := Build(g)
	require.Empty(t, conflicts)

	valid := [][]string{
		{"id"},
		{"id", "+", "id"},
		{"id", "*", "id"},
		{"id", "+", "id", "*", "id"},
		{"(", "id", "+", "id", ")", "*", "id"},
	}
	for _, toks := range valid {
		assert.Truef(t, drive(t, table, toks), "expected %v to be accepted", toks)
	}
}

func TestTable_RejectsInvalidExpressions(t *testing.T) {
	g := exprGrammar()
	table, conflicts := Build(g)
	require.Empty(t, conflicts)

	invalid := [][]string{
		{"+", "id"},
		{"id", "id"},
		{"(", "id", "+", "id"},
		{"id", "+"},
	}
	for _, toks := range invalid {
		assert.Falsef(t, drive(t, table, toks), "expected %v to be rejected", toks)
	}
}

// ambiguousGrammar is the classic dangling-if-else shift/reduce conflict.
func ambiguousGrammar() *grammar.Grammar {
	g := grammar.New("S")
	for _, t := range []string{"if", "then", "else", "a"} {
		g.AddTerminal(t)
	}
	g.AddProduction("S", []string{"if", "S", "then", "S"}, nil)
	g.AddProduction("S", []string{"if", "S", "then", "S", "else", "S"}, nil)
	g.AddProduction("S", []string{"a"}, nil)
	return g
}

func TestBuild_ReportsShiftReduceConflict(t *testing.T) {
	g := ambiguousGrammar()
	_, conflicts := Build(g)
	require.NotEmpty(t, conflicts)
	assert.Equal(t, "shift/reduce", conflicts[0].Kind())
}
