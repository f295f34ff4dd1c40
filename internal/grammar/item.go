package grammar

import "fmt"

// LR0Item is a dotted item: a production plus a dot position in
// 0..len(rhs) (spec.md 3: "(production-id, dot-position ∈ 0..|rhs|)").
// Grounded on the teacher's internal/ictiobus/grammar/item.go LR0Item, which
// stores the dot as a split of the production's RHS into Left/Right symbol
// slices rather than a production id + integer offset; this version keeps
// the production id (needed to recover the reduce closure and LHS without a
// side table) and recovers the Left/Right split on demand in String().
type LR0Item struct {
	ProductionID int
	Dot          int
}

// LR1Item pairs an LR(0) core with a single lookahead terminal (spec.md 3).
type LR1Item struct {
	LR0Item
	Lookahead Symbol
}

func (i LR0Item) String(g *Grammar) string {
	p := g.productions[i.ProductionID]
	left := p.RHS[:i.Dot]
	right := p.RHS[i.Dot:]
	return fmt.Sprintf("%s -> %s . %s", p.LHS, joinSymbols(left), joinSymbols(right))
}

func (i LR1Item) String(g *Grammar) string {
	return fmt.Sprintf("%s, %s", i.LR0Item.String(g), i.Lookahead)
}

// AtEnd reports whether the dot has reached the end of the production's
// right-hand side (a candidate reduce item).
func (i LR0Item) AtEnd(g *Grammar) bool {
	return i.Dot >= len(g.productions[i.ProductionID].RHS)
}

// NextSymbol returns the symbol immediately after the dot and true, or
// ("", false) if the dot is at the end.
func (i LR0Item) NextSymbol(g *Grammar) (Symbol, bool) {
	p := g.productions[i.ProductionID]
	if i.Dot >= len(p.RHS) {
		return "", false
	}
	return p.RHS[i.Dot], true
}

// Advance returns the item with the dot moved one position to the right.
func (i LR0Item) Advance() LR0Item {
	return LR0Item{ProductionID: i.ProductionID, Dot: i.Dot + 1}
}

func joinSymbols(syms []Symbol) string {
	out := ""
	for i, s := range syms {
		if i > 0 {
			out += " "
		}
		out += s
	}
	return out
}
