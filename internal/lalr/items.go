// Package lalr builds LALR(1) ACTION/GOTO parser tables from an
// internal/grammar.Grammar: LR(0) canonical collection, LALR(1) kernel
// lookahead propagation (Dragon Book Algorithm 4.63), table assembly, and
// shift-reduce/reduce-reduce conflict detection (spec.md section 4.3).
//
// Grounded on the teacher's internal/ictiobus/parse/lalr.go, whose
// computeLALR1Kernels is an acknowledged implementation of Algorithm 4.63 —
// but its propagation pass (step 4 of the algorithm) is commented out in its
// entirety and the function falls through to "TODO: actually convert the
// table results to this" before returning an empty result unconditionally.
// This package completes that algorithm: the spontaneous/propagated
// lookahead distinction in determineLookaheads is the same rule implemented
// here, re-expressed over dense (production-index, dot) items instead of
// the teacher's canonical-string-keyed item sets.
package lalr

import (
	"sort"
	"strconv"
	"strings"

	"github.com/velalang/velac/internal/grammar"
)

// augStart is the synthesized start non-terminal name S' (spec.md 4.3:
// "synthesizes the augmented start production S' -> S").
const augStart = "$accept"

// item is an LR(0) item keyed by an index into the augmented production
// list (index 0 is always S' -> Start) rather than a grammar-wide dense
// production id, so the augmented production needs no place in the
// caller's Grammar.
type item struct {
	p   int
	dot int
}

func (i item) String() string {
	return strconv.Itoa(i.p) + "." + strconv.Itoa(i.dot)
}

func (i item) atEnd(prods []*grammar.Production) bool {
	return i.dot >= len(prods[i.p].RHS)
}

func (i item) nextSymbol(prods []*grammar.Production) (grammar.Symbol, bool) {
	rhs := prods[i.p].RHS
	if i.dot >= len(rhs) {
		return "", false
	}
	return rhs[i.dot], true
}

func (i item) advance() item { return item{p: i.p, dot: i.dot + 1} }

// itemSet is an unordered, deduplicated set of items.
type itemSet map[item]struct{}

func newItemSet(items ...item) itemSet {
	s := itemSet{}
	for _, it := range items {
		s[it] = struct{}{}
	}
	return s
}

func (s itemSet) add(it item) bool {
	if _, ok := s[it]; ok {
		return false
	}
	s[it] = struct{}{}
	return true
}

func (s itemSet) sorted() []item {
	out := make([]item, 0, len(s))
	for it := range s {
		out = append(out, it)
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].p != out[b].p {
			return out[a].p < out[b].p
		}
		return out[a].dot < out[b].dot
	})
	return out
}

// key renders the canonical form of the set used as a hash key for state
// identity (spec.md 4.3: "canonical subset representation is used for
// equality").
func (s itemSet) key() string {
	var sb strings.Builder
	for i, it := range s.sorted() {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(it.String())
	}
	return sb.String()
}

// buildAugmented returns the augmented production list: index 0 is
// S' -> Start, followed by every production of g in declaration order
// (whose own .ID fields are preserved so reduce actions reference the
// caller's real production ids, not augmented-list indices).
func buildAugmented(g *grammar.Grammar) []*grammar.Production {
	prods := make([]*grammar.Production, 0, len(g.AllProductions())+1)
	prods = append(prods, &grammar.Production{ID: -1, LHS: augStart, RHS: []grammar.Symbol{g.StartSymbol()}})
	prods = append(prods, g.AllProductions()...)
	return prods
}

// byLHS groups augmented-list indices by their production's LHS symbol, so
// closure can find every production for a non-terminal in O(1).
func byLHS(prods []*grammar.Production) map[grammar.Symbol][]int {
	m := map[grammar.Symbol][]int{}
	for i, p := range prods {
		m[p.LHS] = append(m[p.LHS], i)
	}
	return m
}

// closureLR0 computes closure(I): repeatedly, for every item [A -> alpha .
// B beta] in I and every production B -> gamma, add [B -> . gamma]
// (spec.md 4.3).
func closureLR0(prods []*grammar.Production, lhsIndex map[grammar.Symbol][]int, kernel itemSet) itemSet {
	result := kernel.copy()
	worklist := kernel.sorted()
	for len(worklist) > 0 {
		it := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]

		sym, ok := it.nextSymbol(prods)
		if !ok {
			continue
		}
		for _, pIdx := range lhsIndex[sym] {
			newItem := item{p: pIdx, dot: 0}
			if result.add(newItem) {
				worklist = append(worklist, newItem)
			}
		}
	}
	return result
}

// copy returns a shallow duplicate of the set.
func (s itemSet) copy() itemSet {
	n := make(itemSet, len(s))
	for it := range s {
		n[it] = struct{}{}
	}
	return n
}

// gotoLR0 computes goto(I, X) = closure({[A -> alpha X . beta] | [A ->
// alpha . X beta] in I}) (spec.md 4.3).
func gotoLR0(prods []*grammar.Production, lhsIndex map[grammar.Symbol][]int, items itemSet, X grammar.Symbol) itemSet {
	moved := itemSet{}
	for it := range items {
		sym, ok := it.nextSymbol(prods)
		if ok && sym == X {
			moved.add(it.advance())
		}
	}
	if len(moved) == 0 {
		return nil
	}
	return closureLR0(prods, lhsIndex, moved)
}

// alphabet returns every terminal and non-terminal symbol appearing
// anywhere in prods, used to enumerate goto transitions to try from a
// state.
func alphabet(prods []*grammar.Production) []grammar.Symbol {
	seen := map[grammar.Symbol]struct{}{}
	var out []grammar.Symbol
	for _, p := range prods {
		for _, sym := range p.RHS {
			if sym == grammar.Epsilon {
				continue
			}
			if _, ok := seen[sym]; !ok {
				seen[sym] = struct{}{}
				out = append(out, sym)
			}
		}
	}
	sort.Strings(out)
	return out
}
