// Package automaton implements the generic nondeterministic and
// deterministic finite automata used by the regex engine and the lexer
// generator: Thompson-construction NFA fragments, epsilon-closure, MOVE, and
// subset construction (Dragon Book Algorithm 3.20), grounded on the
// teacher's internal/ictiobus/automaton package but specialized to a
// concrete byte alphabet (0..255) instead of the teacher's string-labeled,
// partially-stubbed version.
package automaton

import (
	"fmt"
	"strconv"

	"github.com/velalang/velac/internal/util"
)

// ByteMatcher reports whether a single input byte satisfies a transition's
// symbol (a literal character, the dot, or a character class).
type ByteMatcher func(b byte) bool

// Epsilon is the reserved label used for epsilon transitions.
const Epsilon = ""

type nfaTransition struct {
	label string // human-readable source form, used only for debugging/printing
	match ByteMatcher
	to    string
}

type nfaState[E any] struct {
	name        string
	accepting   bool
	value       E
	transitions []nfaTransition
	eps         []string
}

func (s nfaState[E]) Copy() nfaState[E] {
	cp := s
	cp.transitions = append([]nfaTransition(nil), s.transitions...)
	cp.eps = append([]string(nil), s.eps...)
	return cp
}

// NFA is a nondeterministic finite automaton over the byte alphabet. E is
// the type of value attached to each state; Thompson fragments built by the
// regex engine leave it as struct{}, while the lexer's super-NFA uses it to
// record which token kind a given sub-NFA's accept state belongs to.
type NFA[E any] struct {
	Start    string
	states   map[string]nfaState[E]
	counter  int
}

// NewNFA returns an empty NFA with no states.
func NewNFA[E any]() *NFA[E] {
	return &NFA[E]{states: map[string]nfaState[E]{}}
}

// FreshState allocates and adds a new, uniquely-named state to the NFA and
// returns its name. Used when joining fragments so state names never
// collide within a single NFA.
func (n *NFA[E]) FreshState(accepting bool) string {
	name := "q" + strconv.Itoa(n.counter)
	n.counter++
	n.AddState(name, accepting)
	return name
}

// AddState adds a state with the given name if it is not already present.
func (n *NFA[E]) AddState(name string, accepting bool) {
	if _, ok := n.states[name]; ok {
		return
	}
	n.states[name] = nfaState[E]{name: name, accepting: accepting}
}

// SetValue attaches a value to an existing state (e.g. a token kind on a
// sub-NFA's accept state).
func (n *NFA[E]) SetValue(name string, v E) {
	st := n.states[name]
	st.value = v
	n.states[name] = st
}

func (n *NFA[E]) GetValue(name string) E {
	return n.states[name].value
}

func (n *NFA[E]) SetAccepting(name string, accepting bool) {
	st := n.states[name]
	st.accepting = accepting
	n.states[name] = st
}

// AddTransition adds a transition on a concrete-byte matcher from "from" to
// "to". label is kept only for String()/debugging.
func (n *NFA[E]) AddTransition(from string, match ByteMatcher, label string, to string) {
	st, ok := n.states[from]
	if !ok {
		panic(fmt.Sprintf("automaton: no such state %q", from))
	}
	st.transitions = append(st.transitions, nfaTransition{label: label, match: match, to: to})
	n.states[from] = st
}

// AddEpsilon adds an epsilon transition from "from" to "to".
func (n *NFA[E]) AddEpsilon(from, to string) {
	st, ok := n.states[from]
	if !ok {
		panic(fmt.Sprintf("automaton: no such state %q", from))
	}
	st.eps = append(st.eps, to)
	n.states[from] = st
}

// States returns the set of all state names.
func (n *NFA[E]) States() util.StringSet {
	s := util.NewStringSet()
	for k := range n.states {
		s.Add(k)
	}
	return s
}

// AcceptingStates returns the set of accepting state names.
func (n *NFA[E]) AcceptingStates() util.StringSet {
	s := util.NewStringSet()
	for k, st := range n.states {
		if st.accepting {
			s.Add(k)
		}
	}
	return s
}

// Copy returns a deep-ish duplicate of the NFA (transitions/eps slices are
// copied; matcher closures are shared, since they are pure).
func (n *NFA[E]) Copy() *NFA[E] {
	cp := &NFA[E]{Start: n.Start, counter: n.counter, states: make(map[string]nfaState[E], len(n.states))}
	for k, v := range n.states {
		cp.states[k] = v.Copy()
	}
	return cp
}

// Merge copies every state and transition of o into n, renaming nothing.
// Caller is responsible for ensuring state names from the two NFAs do not
// collide (FreshState-allocated fragments never collide with each other).
func (n *NFA[E]) Merge(o *NFA[E]) {
	for k, v := range o.states {
		n.states[k] = v.Copy()
	}
	if n.counter < o.counter {
		n.counter = o.counter
	}
}

// EpsilonClosure returns the set of states reachable from s via zero or more
// epsilon transitions.
func (n *NFA[E]) EpsilonClosure(s string) util.StringSet {
	closure := util.NewStringSet()
	var stack util.Stack[string]
	stack.Push(s)

	for stack.Len() > 0 {
		cur := stack.Pop()
		if closure.Has(cur) {
			continue
		}
		closure.Add(cur)

		st, ok := n.states[cur]
		if !ok {
			continue
		}
		for _, next := range st.eps {
			if !closure.Has(next) {
				stack.Push(next)
			}
		}
	}
	return closure
}

// EpsilonClosureOfSet is EpsilonClosure extended over every state in X.
func (n *NFA[E]) EpsilonClosureOfSet(x util.StringSet) util.StringSet {
	all := util.NewStringSet()
	for _, s := range x.Elements() {
		all.AddAll(n.EpsilonClosure(s))
	}
	return all
}

// Move returns the set of states reachable from some state in X via exactly
// one transition on concrete byte b (purple dragon book MOVE(T, a)).
func (n *NFA[E]) Move(x util.StringSet, b byte) util.StringSet {
	out := util.NewStringSet()
	for _, s := range x.Elements() {
		st, ok := n.states[s]
		if !ok {
			continue
		}
		for _, tr := range st.transitions {
			if tr.match != nil && tr.match(b) {
				out.Add(tr.to)
			}
		}
	}
	return out
}

// ToDFA performs subset construction (Dragon Book Algorithm 3.20),
// exhaustively trying every concrete byte 0..255 at each unmarked subset.
// The resulting DFA's per-state value is the set of original NFA state
// names folded into that DFA state, keyed by name, so callers (the lexer)
// can recover which sub-NFA(s) accepted and apply priority rules.
func (n *NFA[E]) ToDFA() *DFA[map[string]E] {
	dfa := &DFA[map[string]E]{states: map[string]dfaState[map[string]E]{}}

	startSet := n.EpsilonClosure(n.Start)
	startName := startSet.StringOrdered()

	type pending struct {
		name string
		set  util.StringSet
	}
	queue := []pending{{startName, startSet}}
	seen := util.NewStringSet()
	seen.Add(startName)
	dfa.Start = startName

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		value := map[string]E{}
		accepting := false
		for _, s := range cur.set.Elements() {
			st := n.states[s]
			if st.accepting {
				accepting = true
				value[s] = st.value
			}
		}

		dfa.states[cur.name] = dfaState[map[string]E]{
			name:        cur.name,
			accepting:   accepting,
			value:       value,
			transitions: map[byte]string{},
		}

		for b := 0; b < 256; b++ {
			moved := n.Move(cur.set, byte(b))
			if moved.Empty() {
				continue
			}
			closure := n.EpsilonClosureOfSet(moved)
			if closure.Empty() {
				continue
			}
			name := closure.StringOrdered()

			st := dfa.states[cur.name]
			st.transitions[byte(b)] = name
			dfa.states[cur.name] = st

			if !seen.Has(name) {
				seen.Add(name)
				queue = append(queue, pending{name, closure})
			}
		}
	}

	return dfa
}
