package lalr

import (
	"fmt"
	"sort"
	"strings"

	"github.com/velalang/velac/internal/grammar"
)

// ActionKind distinguishes the three kinds of ACTION table entry (spec.md
// 4.3: "ACTION: (state, terminal) -> {shift(state), reduce(p), accept}").
type ActionKind int

const (
	Shift ActionKind = iota
	Reduce
	Accept
)

// Action is one ACTION table entry.
type Action struct {
	Kind       ActionKind
	State      int                 // target state, when Kind == Shift
	Production *grammar.Production // production to reduce, when Kind == Reduce
}

func (a Action) String() string {
	switch a.Kind {
	case Shift:
		return fmt.Sprintf("shift %d", a.State)
	case Reduce:
		return fmt.Sprintf("reduce %s", a.Production.String())
	case Accept:
		return "accept"
	default:
		return "?"
	}
}

// Conflict records every competing action recorded for (state, terminal)
// when more than one survives — spec.md 4.3: "Conflicts are fatal.
// Shift-reduce and reduce-reduce conflicts are accumulated and returned as
// a list with human-readable renderings."
type Conflict struct {
	State    int
	Terminal grammar.Symbol
	Actions  []Action
}

// Kind reports whether this is a shift/reduce or reduce/reduce conflict,
// grounded on the teacher's internal/ictiobus/parse/lraction.go
// makeLRConflictError's classification (but accumulated here instead of
// returned as the first error found).
func (c Conflict) Kind() string {
	shifts, reduces := 0, 0
	for _, a := range c.Actions {
		switch a.Kind {
		case Shift:
			shifts++
		case Reduce:
			reduces++
		}
	}
	switch {
	case shifts > 0 && reduces > 0:
		return "shift/reduce"
	case reduces > 1:
		return "reduce/reduce"
	default:
		return "conflict"
	}
}

func (c Conflict) String() string {
	var parts []string
	for _, a := range c.Actions {
		parts = append(parts, a.String())
	}
	return fmt.Sprintf("%s conflict in state %d on terminal %q: %s", c.Kind(), c.State, c.Terminal, strings.Join(parts, " vs "))
}

// Table is a complete LALR(1) ACTION/GOTO parser table (spec.md 4.3/4.4).
type Table struct {
	NumStates int
	Start     int
	Action    map[int]map[grammar.Symbol]Action
	Goto      map[int]map[grammar.Symbol]int
}

// Build constructs the LALR(1) parser table for g: the LR(0) canonical
// collection, LALR(1) kernel lookaheads (Algorithm 4.63), and ACTION/GOTO
// table assembly (spec.md 4.3). If any ACTION cell would need more than one
// action, it is omitted from the table and reported as a Conflict instead —
// a grammar with any conflicts is not LALR(1) and Build's caller should
// treat a non-empty conflict list as a fatal build failure (spec.md 4.3:
// "no precedence/associativity annotations: the grammar must be LALR(1) as
// written").
func Build(g *grammar.Grammar) (*Table, []Conflict) {
	prods := buildAugmented(g)
	lhsIndex := byLHS(prods)
	states := buildLR0Collection(prods, lhsIndex)
	lookaheads := computeLookaheads(g, prods, lhsIndex, states)

	type candidate struct {
		state    int
		terminal grammar.Symbol
		action   Action
	}
	var candidates []candidate
	gotoTable := map[int]map[grammar.Symbol]int{}

	for _, s := range states {
		gotoTable[s.id] = map[grammar.Symbol]int{}
		for X, target := range s.trans {
			if g.IsNonTerminal(X) {
				gotoTable[s.id][X] = target
			}
		}

		seed := map[lr1Item]struct{}{}
		for it := range s.kernel {
			las := lookaheads[kernelItemKey{state: s.id, it: it}]
			for la := range las {
				seed[lr1Item{item: it, la: la}] = struct{}{}
			}
		}
		finalItems := closureLR1(g, prods, lhsIndex, seed)

		for li := range finalItems {
			if li.atEnd(prods) {
				if li.p == 0 {
					if li.la == grammar.EndOfInput {
						candidates = append(candidates, candidate{s.id, grammar.EndOfInput, Action{Kind: Accept}})
					}
					continue
				}
				candidates = append(candidates, candidate{s.id, li.la, Action{Kind: Reduce, Production: prods[li.p]}})
				continue
			}
			X, _ := li.nextSymbol(prods)
			if !g.IsTerminal(X) {
				continue
			}
			target, ok := s.trans[X]
			if !ok {
				continue
			}
			candidates = append(candidates, candidate{s.id, X, Action{Kind: Shift, State: target}})
		}
	}

	grouped := map[int]map[grammar.Symbol][]Action{}
	for _, c := range candidates {
		if grouped[c.state] == nil {
			grouped[c.state] = map[grammar.Symbol][]Action{}
		}
		if !containsAction(grouped[c.state][c.terminal], c.action) {
			grouped[c.state][c.terminal] = append(grouped[c.state][c.terminal], c.action)
		}
	}

	actionTable := map[int]map[grammar.Symbol]Action{}
	var conflicts []Conflict
	for stateID, byTerm := range grouped {
		actionTable[stateID] = map[grammar.Symbol]Action{}
		for term, actions := range byTerm {
			if len(actions) == 1 {
				actionTable[stateID][term] = actions[0]
				continue
			}
			sort.Slice(actions, func(i, j int) bool { return actions[i].String() < actions[j].String() })
			conflicts = append(conflicts, Conflict{State: stateID, Terminal: term, Actions: actions})
		}
	}

	table := &Table{
		NumStates: len(states),
		Start:     0,
		Action:    actionTable,
		Goto:      gotoTable,
	}

	sort.Slice(conflicts, func(i, j int) bool {
		if conflicts[i].State != conflicts[j].State {
			return conflicts[i].State < conflicts[j].State
		}
		return conflicts[i].Terminal < conflicts[j].Terminal
	})

	return table, conflicts
}

func containsAction(actions []Action, a Action) bool {
	for _, existing := range actions {
		if existing.Kind == a.Kind && existing.State == a.State && existing.Production == a.Production {
			return true
		}
	}
	return false
}
