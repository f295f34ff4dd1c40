package lex

import (
	"fmt"

	"github.com/velalang/velac/internal/automaton"
	"github.com/velalang/velac/internal/regex"
)

// Rule declares one named lexical pattern. Rules are matched in the order
// given here, which doubles as the tie-break order for maximal-munch
// conflicts (spec.md section 4.2: "ties... broken by declaration order,
// earliest rule wins"). A Skip rule (e.g. whitespace) matches but produces
// no Token.
type Rule struct {
	Name    string
	Pattern string
	Class   TokenClass
	Skip    bool
}

// Lexer is a compiled super-DFA ready to scan input (spec.md section 4.2).
// Grounded on the teacher's lexerTemplate/lazyLex split in
// internal/ictiobus/lex/lazy.go: Generate plays the role of LazyLex's
// one-time "compose all patterns into one super pattern" step, done here at
// the automaton level instead of by gluing regexp sources together.
type Lexer struct {
	dfa   *automaton.DFA[map[string]int]
	rules []Rule
}

// Generate compiles rules into a Lexer. Rules are tried in the order given;
// the first rule's pattern becomes NFA accept-state value 0, the second's
// 1, and so on, which Scan uses to break same-length-match ties.
func Generate(rules []Rule) (*Lexer, error) {
	if len(rules) == 0 {
		return nil, fmt.Errorf("lex: no rules given")
	}

	super := automaton.NewNFA[int]()
	start := super.FreshState(false)
	super.Start = start

	for i, r := range rules {
		node, err := regex.Parse(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("lex: rule %q: %w", r.Name, err)
		}
		ruleStart, ruleAccept := regex.BuildInto(super, node)
		super.AddEpsilon(start, ruleStart)
		super.SetValue(ruleAccept, i)
	}

	dfa := super.ToDFA()
	return &Lexer{dfa: dfa, rules: rules}, nil
}

// winningRule returns the index of the highest-priority rule (lowest
// declaration index) among the NFA accept states folded into a DFA state,
// implementing spec.md 4.2's "earliest rule wins" tie-break.
func (l *Lexer) winningRule(state string) (int, bool) {
	values := l.dfa.Value(state)
	if len(values) == 0 {
		return 0, false
	}
	best := -1
	for _, ruleIdx := range values {
		if best == -1 || ruleIdx < best {
			best = ruleIdx
		}
	}
	return best, true
}
