package regex

import "github.com/velalang/velac/internal/automaton"

// Fragment is a two-state-boundary Thompson NFA fragment: a single start and
// a single accept state within some NFA (spec.md 3: "exactly one accept
// state per NFA fragment produced by Thompson construction").
type Fragment struct {
	NFA    *automaton.NFA[struct{}]
	Start  string
	Accept string
}

// ToNFA builds the Thompson-construction NFA fragment for node, following
// the combinator shapes sketched (but left unwired) in the teacher's
// internal/ictiobus/lex/regex.go: atom gives a two-state fragment, a|b joins
// two fragments under a fresh start/accept, ab glues accept(a) to start(b),
// a* / a+ / a? add the Kleene/Plus/Optional epsilon edges.
func ToNFA(n Node) Fragment {
	nfa := automaton.NewNFA[struct{}]()
	start, accept := BuildInto(nfa, n)
	nfa.Start = start
	return Fragment{NFA: nfa, Start: start, Accept: accept}
}

// BuildInto recursively constructs the fragment for n directly within nfa
// and returns its (start, accept) state pair, grafting new states onto
// whatever nfa already contains. Generic over the NFA's per-state value type
// so a caller building a combined automaton out of several independently
// parsed patterns (the lexer's super-NFA, spec.md section 4.2) can graft each
// rule's fragment into one shared NFA and tag its accept state with E itself,
// rather than building N separate NFAs and having nothing to copy them with.
func BuildInto[E any](nfa *automaton.NFA[E], n Node) (start, accept string) {
	switch t := n.(type) {
	case Atom:
		return buildAtom(nfa, t.Sym)
	case Concat:
		return buildConcat(nfa, t)
	case Union:
		return buildUnion(nfa, t)
	case Kleene:
		return buildKleene(nfa, t)
	case Plus:
		return buildPlus(nfa, t)
	case Optional:
		return buildOptional(nfa, t)
	default:
		panic("regex: unknown node type in Thompson construction")
	}
}

// buildAtom: for any subexpression r in sigma, or epsilon.
func buildAtom[E any](nfa *automaton.NFA[E], sym Symbol) (string, string) {
	a := nfa.FreshState(false)
	b := nfa.FreshState(true)
	if sym.Kind == SymEpsilon {
		nfa.AddEpsilon(a, b)
	} else {
		nfa.AddTransition(a, sym.Matches, symbolLabel(sym), b)
	}
	return a, b
}

func symbolLabel(sym Symbol) string {
	switch sym.Kind {
	case SymChar:
		return string(sym.Char)
	case SymDot:
		return "."
	case SymClass:
		return "[class]"
	default:
		return "eps"
	}
}

// buildConcat: for any expression st, glue accept(s) to start(t) by eps.
func buildConcat[E any](nfa *automaton.NFA[E], c Concat) (string, string) {
	lStart, lAccept := BuildInto(nfa, c.Left)
	rStart, rAccept := BuildInto(nfa, c.Right)
	nfa.SetAccepting(lAccept, false)
	nfa.AddEpsilon(lAccept, rStart)
	return lStart, rAccept
}

// buildUnion: for s|t, a new start eps-branches to both, both join a new
// shared accept.
func buildUnion[E any](nfa *automaton.NFA[E], u Union) (string, string) {
	lStart, lAccept := BuildInto(nfa, u.Left)
	rStart, rAccept := BuildInto(nfa, u.Right)

	start := nfa.FreshState(false)
	accept := nfa.FreshState(true)

	nfa.AddEpsilon(start, lStart)
	nfa.AddEpsilon(start, rStart)

	nfa.SetAccepting(lAccept, false)
	nfa.SetAccepting(rAccept, false)
	nfa.AddEpsilon(lAccept, accept)
	nfa.AddEpsilon(rAccept, accept)

	return start, accept
}

// buildKleene: a* adds eps edges that both skip and loop a.
func buildKleene[E any](nfa *automaton.NFA[E], k Kleene) (string, string) {
	innerStart, innerAccept := BuildInto(nfa, k.Inner)

	start := nfa.FreshState(false)
	accept := nfa.FreshState(true)

	nfa.AddEpsilon(start, innerStart)
	nfa.AddEpsilon(start, accept)

	nfa.SetAccepting(innerAccept, false)
	nfa.AddEpsilon(innerAccept, innerStart)
	nfa.AddEpsilon(innerAccept, accept)

	return start, accept
}

// buildPlus: a+ is aa*, expressed directly as "loop back but never skip".
func buildPlus[E any](nfa *automaton.NFA[E], pl Plus) (string, string) {
	innerStart, innerAccept := BuildInto(nfa, pl.Inner)

	start := nfa.FreshState(false)
	accept := nfa.FreshState(true)

	nfa.AddEpsilon(start, innerStart)

	nfa.SetAccepting(innerAccept, false)
	nfa.AddEpsilon(innerAccept, innerStart)
	nfa.AddEpsilon(innerAccept, accept)

	return start, accept
}

// buildOptional: a? adds an eps edge that skips a.
func buildOptional[E any](nfa *automaton.NFA[E], o Optional) (string, string) {
	innerStart, innerAccept := BuildInto(nfa, o.Inner)

	start := nfa.FreshState(false)
	accept := nfa.FreshState(true)

	nfa.AddEpsilon(start, innerStart)
	nfa.AddEpsilon(start, accept)

	nfa.SetAccepting(innerAccept, false)
	nfa.AddEpsilon(innerAccept, accept)

	return start, accept
}

// CompileToDFA parses pattern and runs it through Thompson construction and
// subset construction, returning the resulting DFA. The per-state "value" is
// unused (struct{} folded into a map) since a lone pattern's DFA carries no
// extra per-accept-state data; the lexer builds its own combined DFA instead
// of calling this per rule (see internal/lex).
func CompileToDFA(pattern string) (*automaton.DFA[map[string]struct{}], error) {
	node, err := Parse(pattern)
	if err != nil {
		return nil, err
	}
	frag := ToNFA(node)
	return frag.NFA.ToDFA(), nil
}
