package lalr

import "github.com/velalang/velac/internal/grammar"

// nonGrammarSymbol is the "#" placeholder of Algorithm 4.62: a lookahead
// that cannot appear in the grammar, used to distinguish spontaneously
// generated lookaheads from propagated ones.
const nonGrammarSymbol = "\x00#"

// kernelItemKey identifies one kernel item within one LR(0) state.
type kernelItemKey struct {
	state int
	it    item
}

// computeLookaheads implements Dragon Book Algorithm 4.63 ("Efficient
// computation of the kernels of the LALR(1) collection of sets of items"):
// for each state and each grammar symbol X, Algorithm 4.62 is used to find
// which lookaheads are generated spontaneously for kernel items of
// goto(state, X), and which kernel items propagate their lookaheads there;
// then the spontaneous lookaheads are propagated to a fixed point.
//
// Returns, for every (state, kernel item), the final set of lookahead
// terminals.
func computeLookaheads(g *grammar.Grammar, prods []*grammar.Production, lhsIndex map[grammar.Symbol][]int, states []*lr0State) map[kernelItemKey]map[grammar.Symbol]struct{} {
	spontaneous := map[kernelItemKey]map[grammar.Symbol]struct{}{}
	propagates := map[kernelItemKey][]kernelItemKey{}

	addSpontaneous := func(k kernelItemKey, la grammar.Symbol) {
		set, ok := spontaneous[k]
		if !ok {
			set = map[grammar.Symbol]struct{}{}
			spontaneous[k] = set
		}
		set[la] = struct{}{}
	}

	// Special case: lookahead $ is always spontaneously generated for the
	// kernel item [S' -> . S] in the initial state.
	addSpontaneous(kernelItemKey{state: 0, it: item{p: 0, dot: 0}}, grammar.EndOfInput)

	for _, s := range states {
		for k := range s.kernel {
			// J := closure({[A -> alpha . beta, #]})
			seed := map[lr1Item]struct{}{{item: k, la: nonGrammarSymbol}: {}}
			J := closureLR1(g, prods, lhsIndex, seed)

			for b := range J {
				X, ok := b.it.nextSymbol(prods)
				if !ok {
					continue
				}
				target, ok := s.trans[X]
				if !ok {
					continue
				}
				shifted := b.it.advance()
				toKey := kernelItemKey{state: target, it: shifted}

				if b.la == nonGrammarSymbol {
					fromKey := kernelItemKey{state: s.id, it: k}
					propagates[fromKey] = append(propagates[fromKey], toKey)
				} else {
					addSpontaneous(toKey, b.la)
				}
			}
		}
	}

	// Initialize the result table with the spontaneous generations, then
	// repeatedly propagate until no new lookahead is added anywhere.
	final := map[kernelItemKey]map[grammar.Symbol]struct{}{}
	for k, las := range spontaneous {
		cp := map[grammar.Symbol]struct{}{}
		for la := range las {
			cp[la] = struct{}{}
		}
		final[k] = cp
	}

	changed := true
	for changed {
		changed = false
		for from, tos := range propagates {
			fromLas, ok := final[from]
			if !ok {
				continue
			}
			for _, to := range tos {
				toLas, ok := final[to]
				if !ok {
					toLas = map[grammar.Symbol]struct{}{}
					final[to] = toLas
				}
				for la := range fromLas {
					if _, has := toLas[la]; !has {
						toLas[la] = struct{}{}
						changed = true
					}
				}
			}
		}
	}

	return final
}

// lr1Item pairs an LR(0) item with a single lookahead terminal (or the
// placeholder nonGrammarSymbol while running Algorithm 4.62).
type lr1Item struct {
	item
	la grammar.Symbol
}

// closureLR1 computes the LR(1) closure of I: for [A -> alpha . B beta, a]
// in I, add [B -> . gamma, b] for every production B -> gamma and every b
// in FIRST(beta a) (spec.md 4.3's "LR(1) lift").
func closureLR1(g *grammar.Grammar, prods []*grammar.Production, lhsIndex map[grammar.Symbol][]int, seed map[lr1Item]struct{}) map[lr1Item]struct{} {
	result := map[lr1Item]struct{}{}
	var worklist []lr1Item
	for it := range seed {
		result[it] = struct{}{}
		worklist = append(worklist, it)
	}

	for len(worklist) > 0 {
		cur := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]

		B, ok := cur.nextSymbol(prods)
		if !ok {
			continue
		}

		beta := append([]grammar.Symbol(nil), prods[cur.p].RHS[cur.dot+1:]...)
		seq := append(beta, cur.la)
		lookaheads := firstOfSequence(g, seq, cur.la)

		for _, pIdx := range lhsIndex[B] {
			for la := range lookaheads {
				newItem := lr1Item{item: item{p: pIdx, dot: 0}, la: la}
				if _, ok := result[newItem]; !ok {
					result[newItem] = struct{}{}
					worklist = append(worklist, newItem)
				}
			}
		}
	}

	return result
}

// firstOfSequence computes FIRST(seq), treating the "#" placeholder and "$"
// as opaque terminals-of-themselves (the grammar package's FIRSTOfSequence
// only knows about symbols declared via AddTerminal/AddProduction, not
// Algorithm 4.62's out-of-band placeholder). seq always ends in a real
// lookahead terminal (never epsilon), so the result never contains epsilon.
func firstOfSequence(g *grammar.Grammar, seq []grammar.Symbol, placeholder grammar.Symbol) map[grammar.Symbol]struct{} {
	out := map[grammar.Symbol]struct{}{}
	for _, sym := range seq {
		var firsts map[grammar.Symbol]struct{}
		switch {
		case sym == placeholder || sym == grammar.EndOfInput || g.IsTerminal(sym):
			firsts = map[grammar.Symbol]struct{}{sym: {}}
		default:
			firsts = map[grammar.Symbol]struct{}{}
			for _, t := range g.FIRST(sym).Elements() {
				firsts[t] = struct{}{}
			}
		}

		hasEpsilon := false
		for t := range firsts {
			if t == grammar.Epsilon {
				hasEpsilon = true
				continue
			}
			out[t] = struct{}{}
		}
		if !hasEpsilon {
			break
		}
	}
	return out
}
