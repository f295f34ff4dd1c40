package automaton

import "github.com/velalang/velac/internal/util"

type dfaState[V any] struct {
	name        string
	accepting   bool
	value       V
	transitions map[byte]string
}

// DFA is a deterministic finite automaton over the byte alphabet, produced
// by NFA.ToDFA via subset construction. V is the per-state value type (the
// lexer uses map[string]int rule indices to recover which sub-NFA(s) folded into
// a given DFA state).
type DFA[V any] struct {
	Start  string
	states map[string]dfaState[V]
}

// States returns the set of all DFA state names.
func (d *DFA[V]) States() util.StringSet {
	s := util.NewStringSet()
	for k := range d.states {
		s.Add(k)
	}
	return s
}

// Accepting reports whether the named state is an accept state.
func (d *DFA[V]) Accepting(name string) bool {
	return d.states[name].accepting
}

// Value returns the value folded into the named state.
func (d *DFA[V]) Value(name string) V {
	return d.states[name].value
}

// Step returns the next state for (state, b), and whether a transition is
// defined at all (a DFA, unlike the NFA it was built from, need not be
// total: an undefined transition means "dead").
func (d *DFA[V]) Step(state string, b byte) (string, bool) {
	st, ok := d.states[state]
	if !ok {
		return "", false
	}
	next, ok := st.transitions[b]
	return next, ok
}

// Match reports whether the DFA accepts the entirety of s, starting from
// Start and following one transition per byte. Used by the regex/DFA
// equivalence property in tests (spec.md section 8: "DFA(R).match(s) =
// NFA(R).match(s)").
func (d *DFA[V]) Match(s string) bool {
	state := d.Start
	for i := 0; i < len(s); i++ {
		next, ok := d.Step(state, s[i])
		if !ok {
			return false
		}
		state = next
	}
	return d.Accepting(state)
}
