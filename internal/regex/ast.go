// Package regex implements the regex sub-language used to declare lexer
// token patterns: a recursive-descent parser to an AST, and a Thompson
// construction from that AST to an NFA (spec.md sections 3 and 4.1).
//
// Grounded on the teacher's internal/ictiobus/lex/regex.go, which sketches
// the same fragment-combinator shapes (createSingleSymbolFA,
// createJuxtapositionFA, createKleeneStarFA, createAlternationFA) but
// leaves RegexToNFA a stub and never implements `+`/`?` or character
// classes; this package completes and wires what that file only sketched.
package regex

import "sort"

// SymbolKind distinguishes the four kinds of atomic match a Symbol can be.
type SymbolKind int

const (
	SymChar SymbolKind = iota
	SymDot
	SymClass
	SymEpsilon
)

// Range is an inclusive byte range, Lo <= Hi.
type Range struct {
	Lo, Hi byte
}

// CharSet is a character class: a list of inclusive ranges plus a negated
// flag. Ranges are kept sorted and merged so structural equality can be
// computed over the canonical form (spec.md section 3's "Invariants").
type CharSet struct {
	Ranges  []Range
	Negated bool
}

// NewCharSet builds a CharSet from unsorted, possibly-overlapping ranges,
// normalizing them into sorted, non-overlapping canonical form.
func NewCharSet(negated bool, ranges ...Range) CharSet {
	cs := CharSet{Negated: negated, Ranges: append([]Range(nil), ranges...)}
	cs.normalize()
	return cs
}

func (cs *CharSet) normalize() {
	sort.Slice(cs.Ranges, func(i, j int) bool {
		if cs.Ranges[i].Lo != cs.Ranges[j].Lo {
			return cs.Ranges[i].Lo < cs.Ranges[j].Lo
		}
		return cs.Ranges[i].Hi < cs.Ranges[j].Hi
	})

	merged := cs.Ranges[:0]
	for _, r := range cs.Ranges {
		if len(merged) > 0 && int(r.Lo) <= int(merged[len(merged)-1].Hi)+1 {
			last := &merged[len(merged)-1]
			if r.Hi > last.Hi {
				last.Hi = r.Hi
			}
			continue
		}
		merged = append(merged, r)
	}
	cs.Ranges = merged
}

// Contains reports whether b falls in the class, honoring Negated.
func (cs CharSet) Contains(b byte) bool {
	in := false
	for _, r := range cs.Ranges {
		if b >= r.Lo && b <= r.Hi {
			in = true
			break
		}
	}
	if cs.Negated {
		return !in
	}
	return in
}

// Equal compares two CharSets structurally over their canonical form.
func (cs CharSet) Equal(o CharSet) bool {
	if cs.Negated != o.Negated || len(cs.Ranges) != len(o.Ranges) {
		return false
	}
	for i := range cs.Ranges {
		if cs.Ranges[i] != o.Ranges[i] {
			return false
		}
	}
	return true
}

// Symbol is a single atomic match: a literal character, the dot (any
// character), a character class, or epsilon.
type Symbol struct {
	Kind  SymbolKind
	Char  byte
	Class CharSet
}

func CharSymbol(b byte) Symbol     { return Symbol{Kind: SymChar, Char: b} }
func DotSymbol() Symbol            { return Symbol{Kind: SymDot} }
func ClassSymbol(cs CharSet) Symbol { return Symbol{Kind: SymClass, Class: cs} }
func EpsilonSymbol() Symbol        { return Symbol{Kind: SymEpsilon} }

// Matches reports whether the symbol matches concrete byte b. Dot matches
// every byte except newline, matching the teacher's "all but newline"
// design note in internal/ictiobus/lex/regex.go.
func (s Symbol) Matches(b byte) bool {
	switch s.Kind {
	case SymChar:
		return b == s.Char
	case SymDot:
		return b != '\n'
	case SymClass:
		return s.Class.Contains(b)
	default:
		return false
	}
}

// Node is a regex AST node: Atom(Symbol) | Concat(a,b) | Union(a,b) |
// Kleene(a) | Plus(a) | Optional(a).
type Node interface {
	isNode()
}

type Atom struct{ Sym Symbol }
type Concat struct{ Left, Right Node }
type Union struct{ Left, Right Node }
type Kleene struct{ Inner Node }
type Plus struct{ Inner Node }
type Optional struct{ Inner Node }

func (Atom) isNode()     {}
func (Concat) isNode()   {}
func (Union) isNode()    {}
func (Kleene) isNode()   {}
func (Plus) isNode()     {}
func (Optional) isNode() {}
