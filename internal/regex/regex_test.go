package regex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAndMatch(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		accept  []string
		reject  []string
	}{
		{"literal", "cat", []string{"cat"}, []string{"ca", "cats", "dog"}},
		{"alternation", "cat|dog", []string{"cat", "dog"}, []string{"catdog", ""}},
		{"kleene", "ab*", []string{"a", "ab", "abbb"}, []string{"b", "abc"}},
		{"plus", "ab+", []string{"ab", "abbb"}, []string{"a", ""}},
		{"optional", "ab?c", []string{"ac", "abc"}, []string{"abbc"}},
		{"dot", "a.c", []string{"abc", "aXc"}, []string{"a\nc", "ac"}},
		{"class", "[a-c]+", []string{"a", "abc", "cba"}, []string{"d", ""}},
		{"negated class", "[^a-c]", []string{"d", "Z"}, []string{"a", "b", "c"}},
		{"grouping", "(ab)+", []string{"ab", "abab"}, []string{"a", "aba"}},
		{"escape literal", `a\+b`, []string{"a+b"}, []string{"ab"}},
		{"whitespace class", `\s+`, []string{" ", "\t\n"}, []string{"x"}},
		{"number literal", `[0-9]+(\.[0-9]+)?`, []string{"3", "3.14", "007"}, []string{"", "."}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dfa, err := CompileToDFA(tc.pattern)
			if !assert.NoError(t, err) {
				return
			}
			for _, s := range tc.accept {
				assert.Truef(t, dfa.Match(s), "expected %q to match /%s/", s, tc.pattern)
			}
			for _, s := range tc.reject {
				assert.Falsef(t, dfa.Match(s), "expected %q NOT to match /%s/", s, tc.pattern)
			}
		})
	}
}

func TestNFA_DFA_Equivalence(t *testing.T) {
	// spec.md section 8: "for all regex R, for all string s: DFA(R).match(s)
	// = NFA(R).match(s)". Exercise by also walking the NFA via
	// epsilon-closure/MOVE directly and comparing to the DFA's verdict.
	pattern := `(foo|bar)+baz?`
	node, err := Parse(pattern)
	if !assert.NoError(t, err) {
		return
	}
	frag := ToNFA(node)
	dfa := frag.NFA.ToDFA()

	inputs := []string{"foo", "foobaz", "foobarbaz", "bar", "bazbaz", "", "foobarbazbaz"}
	for _, s := range inputs {
		nfaAccepts := simulateNFA(frag, s)
		assert.Equalf(t, nfaAccepts, dfa.Match(s), "mismatch for input %q", s)
	}
}

// simulateNFA walks frag directly via epsilon-closure/MOVE, independent of
// ToDFA, so the comparison in TestNFA_DFA_Equivalence is meaningful.
func simulateNFA(frag Fragment, s string) bool {
	current := frag.NFA.EpsilonClosure(frag.Start)
	for i := 0; i < len(s); i++ {
		moved := frag.NFA.Move(current, s[i])
		if moved.Empty() {
			return false
		}
		current = frag.NFA.EpsilonClosureOfSet(moved)
	}
	return current.Has(frag.Accept) || hasAccepting(frag, current)
}

func hasAccepting(frag Fragment, states interface{ Elements() []string }) bool {
	for _, s := range states.Elements() {
		if frag.NFA.AcceptingStates().Has(s) {
			return true
		}
	}
	return false
}
