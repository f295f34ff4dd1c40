package lalr

import "github.com/velalang/velac/internal/grammar"

// lr0State is one state of the canonical LR(0) collection: its kernel
// (items with the dot not at position 0, plus the single augmented-start
// kernel item), the full closure over that kernel, and its goto
// transitions to other state ids (spec.md 4.3: "States are identified by
// their kernels... canonical subset representation is used for equality").
type lr0State struct {
	id     int
	kernel itemSet
	items  itemSet
	trans  map[grammar.Symbol]int
}

// buildLR0Collection runs the standard BFS worklist construction of the
// canonical collection of LR(0) item sets, starting from the closure of
// {[S' -> . S]}.
func buildLR0Collection(prods []*grammar.Production, lhsIndex map[grammar.Symbol][]int) []*lr0State {
	alpha := alphabet(prods)

	startKernel := newItemSet(item{p: 0, dot: 0})
	startItems := closureLR0(prods, lhsIndex, startKernel)

	states := []*lr0State{{id: 0, kernel: startKernel, items: startItems, trans: map[grammar.Symbol]int{}}}
	index := map[string]int{startKernel.key(): 0}

	worklist := []int{0}
	for len(worklist) > 0 {
		curID := worklist[0]
		worklist = worklist[1:]
		cur := states[curID]

		for _, X := range alpha {
			moved := gotoLR0(prods, lhsIndex, cur.items, X)
			if len(moved) == 0 {
				continue
			}

			// gotoLR0 already applied closure; the true kernel of
			// goto(I, X) is just the raw shifted items before that
			// closure step.
			shiftKernel := shiftOnly(prods, cur.items, X)
			key := shiftKernel.key()

			targetID, ok := index[key]
			if !ok {
				targetID = len(states)
				index[key] = targetID
				states = append(states, &lr0State{
					id:     targetID,
					kernel: shiftKernel,
					items:  moved,
					trans:  map[grammar.Symbol]int{},
				})
				worklist = append(worklist, targetID)
			}
			cur.trans[X] = targetID
		}
	}

	return states
}

// shiftOnly returns the raw advanced items for a shift on X, without
// applying closure — this is the true kernel of goto(I, X).
func shiftOnly(prods []*grammar.Production, items itemSet, X grammar.Symbol) itemSet {
	out := itemSet{}
	for it := range items {
		sym, ok := it.nextSymbol(prods)
		if ok && sym == X {
			out.add(it.advance())
		}
	}
	return out
}
