// Package grammar builds the context-free grammar the parser-table builder
// consumes: string-named symbols, productions with attached reduce closures, and
// FIRST sets computed by fixed-point iteration (spec.md sections 3 and 4.3).
//
// Grounded on the teacher's internal/tunascript/grammar.go (Grammar/Rule/
// Production shapes, AddTerm/AddRule validation rules, FIRST) — the sibling
// internal/ictiobus/grammar package was retrieved without its own Grammar/
// Epsilon definitions (only item.go's LR0Item/LR1Item survive in this
// snapshot), so item.go's dotted-item shape is grounded there while the
// Grammar container itself follows tunascript's complete, self-contained
// version instead.
package grammar

import (
	"fmt"
	"sort"

	"github.com/velalang/velac/internal/util"
)

// Reserved symbol names (spec.md section 3: "Reserved ids: ε and $").
const (
	Epsilon = ""
	EndOfInput = "$"
)

// Symbol is a grammar symbol's plain string name. Terminal names are
// whatever token-class ids the lexer declares; non-terminal names are
// whatever the grammar's productions declare on their left-hand side.
type Symbol = string

// ReduceFunc combines the semantic values of a production's right-hand side
// (in left-to-right order) into the value for its left-hand side (spec.md
// section 3: "Production. (lhs, rhs, reduce: fn(values) -> value)").
type ReduceFunc func(values []any) (any, error)

// Production is lhs -> rhs with an attached semantic action and a dense id
// assigned when it is added to a Grammar.
type Production struct {
	ID     int
	LHS    Symbol
	RHS    []Symbol
	Reduce ReduceFunc
}

// IsEpsilon reports whether this production's right-hand side is empty.
func (p Production) IsEpsilon() bool { return len(p.RHS) == 0 }

func (p Production) String() string {
	rhs := ""
	for i, s := range p.RHS {
		if i > 0 {
			rhs += " "
		}
		rhs += s
	}
	if rhs == "" {
		rhs = "ε"
	}
	return fmt.Sprintf("%s -> %s", p.LHS, rhs)
}

// Grammar is a context-free grammar: a terminal set, a set of non-terminals
// each with one or more productions, and a start non-terminal. Dense
// production ids are assigned in declaration order, matching the teacher's
// ordered []Rule store (tunascript/grammar.go's Grammar.rules) rather than a
// bare map, so table output is deterministic across builds.
type Grammar struct {
	start       Symbol
	terminals   util.StringSet
	nonTerms    []Symbol // declaration order
	productions []*Production
	byLHS       map[Symbol][]*Production
}

// New creates an empty grammar with the given start non-terminal. The
// builder synthesizes the augmented start production S' -> start itself
// (spec.md 4.3: "synthesizes the augmented start production S' -> S").
func New(start Symbol) *Grammar {
	return &Grammar{
		start:     start,
		terminals: util.NewStringSet(),
		byLHS:     map[Symbol][]*Production{},
	}
}

// StartSymbol returns the grammar's declared start non-terminal (not the
// augmented S').
func (g *Grammar) StartSymbol() Symbol { return g.start }

// AddTerminal declares name as a terminal symbol (spec.md 4.3: "a
// terminal-to-regex mapping" — the regex itself lives in the lexer rule
// that shares this name; Grammar only needs to know the name is terminal).
func (g *Grammar) AddTerminal(name Symbol) {
	g.terminals.Add(name)
}

// AddProduction adds lhs -> rhs with the given reduce closure, assigning it
// the next dense production id, and registers lhs as a non-terminal if this
// is its first production.
func (g *Grammar) AddProduction(lhs Symbol, rhs []Symbol, reduce ReduceFunc) *Production {
	if _, ok := g.byLHS[lhs]; !ok {
		g.nonTerms = append(g.nonTerms, lhs)
	}
	p := &Production{ID: len(g.productions), LHS: lhs, RHS: append([]Symbol(nil), rhs...), Reduce: reduce}
	g.productions = append(g.productions, p)
	g.byLHS[lhs] = append(g.byLHS[lhs], p)
	return p
}

// IsTerminal reports whether sym was declared via AddTerminal.
func (g *Grammar) IsTerminal(sym Symbol) bool {
	return sym != Epsilon && sym != EndOfInput && g.terminals.Has(sym)
}

// IsNonTerminal reports whether sym has at least one production.
func (g *Grammar) IsNonTerminal(sym Symbol) bool {
	_, ok := g.byLHS[sym]
	return ok
}

// Productions returns every production for non-terminal lhs, in declaration
// order.
func (g *Grammar) Productions(lhs Symbol) []*Production {
	return g.byLHS[lhs]
}

// AllProductions returns every production in the grammar, in declaration
// (dense-id) order.
func (g *Grammar) AllProductions() []*Production {
	return g.productions
}

// NonTerminals returns every declared non-terminal, in declaration order.
func (g *Grammar) NonTerminals() []Symbol {
	return append([]Symbol(nil), g.nonTerms...)
}

// Terminals returns every declared terminal, sorted for determinism.
func (g *Grammar) Terminals() []Symbol {
	return g.terminals.Sorted()
}

// Validate checks that the grammar is well-formed: the start symbol has at
// least one production, and every non-terminal referenced on some
// production's right-hand side has at least one production of its own
// (spec.md 4.3: "validates that every referenced non-terminal has at least
// one production").
func (g *Grammar) Validate() error {
	if !g.IsNonTerminal(g.start) {
		return fmt.Errorf("grammar: start symbol %q has no productions", g.start)
	}

	var missing []string
	seen := util.NewStringSet()
	for _, p := range g.productions {
		for _, sym := range p.RHS {
			if sym == Epsilon || g.IsTerminal(sym) || g.IsNonTerminal(sym) {
				continue
			}
			if !seen.Has(sym) {
				seen.Add(sym)
				missing = append(missing, sym)
			}
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("grammar: undefined symbol(s) referenced: %v", missing)
	}
	return nil
}

// FIRST computes FIRST(X) by fixed-point iteration over productions
// (spec.md 4.3): FIRST(t) = {t} for terminals; for A -> X1 X2 ... Xn, add
// FIRST(X1) \ {ε} to FIRST(A), continuing to X2 if ε ∈ FIRST(X1), and so on;
// if ε ∈ FIRST(Xi) for every i, add ε to FIRST(A).
func (g *Grammar) FIRST(X Symbol) util.StringSet {
	return g.firstSets()[X]
}

// FIRSTOfSequence extends FIRST to a string of symbols the same way, used
// to compute LALR(1) lookahead sets during closure (spec.md 4.3).
func (g *Grammar) FIRSTOfSequence(seq []Symbol) util.StringSet {
	sets := g.firstSets()
	out := util.NewStringSet()
	allEpsilon := true
	for _, sym := range seq {
		var s util.StringSet
		if sym == Epsilon {
			s = util.NewStringSet([]string{Epsilon})
		} else {
			s = sets[sym]
		}
		for _, t := range s.Elements() {
			if t != Epsilon {
				out.Add(t)
			}
		}
		if !s.Has(Epsilon) {
			allEpsilon = false
			break
		}
	}
	if allEpsilon {
		out.Add(Epsilon)
	}
	return out
}

// firstSets computes FIRST for every terminal and non-terminal by repeated
// fixed-point passes until no set changes, rather than tunascript's
// recursive FIRST (which can loop forever on a left-recursive non-terminal
// — a shape this grammar builder must accept, since LR parsing handles left
// recursion and the LALR(1) builder raises no conflict for it).
func (g *Grammar) firstSets() map[string]util.StringSet {
	sets := map[string]util.StringSet{}
	for _, t := range g.terminals.Elements() {
		sets[t] = util.NewStringSet([]string{t})
	}
	sets[EndOfInput] = util.NewStringSet([]string{EndOfInput})
	for _, nt := range g.nonTerms {
		sets[nt] = util.NewStringSet()
	}

	changed := true
	for changed {
		changed = false
		for _, nt := range g.nonTerms {
			cur := sets[nt]
			for _, p := range g.byLHS[nt] {
				allEpsilon := true
				for _, sym := range p.RHS {
					var s util.StringSet
					if sym == Epsilon {
						s = util.NewStringSet([]string{Epsilon})
					} else {
						s = sets[sym]
					}
					for _, t := range s.Elements() {
						if t != Epsilon && !cur.Has(t) {
							cur.Add(t)
							changed = true
						}
					}
					if !s.Has(Epsilon) {
						allEpsilon = false
						break
					}
				}
				if len(p.RHS) == 0 || allEpsilon {
					if !cur.Has(Epsilon) {
						cur.Add(Epsilon)
						changed = true
					}
				}
			}
			sets[nt] = cur
		}
	}
	return sets
}
