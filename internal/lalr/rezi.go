package lalr

import (
	"fmt"

	"github.com/dekarrin/rezi"

	"github.com/velalang/velac/internal/grammar"
)

// This file adds on-disk caching of a built Table via github.com/dekarrin/
// rezi (the teacher's save-data codec, server/dao/sqlite/sqlite.go's
// rezi.EncBinary/rezi.DecBinary around *game.State). Table itself can't be
// handed to rezi directly: Action.Production is a *grammar.Production, and a
// Production carries a ReduceFunc closure that has no binary representation.
// actionWire/tableWire strip every Action down to a bare production id, and
// Marshal/Unmarshal translate to and from it around rezi's reflection-based
// Enc/Dec, re-resolving ids back to the *grammar.Production pointers of
// whatever Grammar the caller built the cache against.

type actionWire struct {
	Kind         ActionKind
	State        int
	ProductionID int // -1 when Kind != Reduce
}

type tableWire struct {
	NumStates int
	Start     int
	Action    map[int]map[grammar.Symbol]actionWire
	Goto      map[int]map[grammar.Symbol]int
}

// MarshalREZI encodes t in the teacher's rezi format, suitable for writing
// to a --table-cache file. The encoding is only ever valid alongside the
// grammar.Grammar it was built from (UnmarshalTableREZI re-resolves
// production ids against a Grammar's own AllProductions(), in declaration
// order, so a stale cache built from a changed grammar must be rejected by
// the caller comparing some other fingerprint of the grammar, e.g. the
// grammar source's hash, before trusting the result).
func (t *Table) MarshalREZI() ([]byte, error) {
	w := tableWire{
		NumStates: t.NumStates,
		Start:     t.Start,
		Action:    map[int]map[grammar.Symbol]actionWire{},
		Goto:      t.Goto,
	}
	for state, row := range t.Action {
		wrow := map[grammar.Symbol]actionWire{}
		for term, a := range row {
			aw := actionWire{Kind: a.Kind, State: a.State, ProductionID: -1}
			if a.Kind == Reduce && a.Production != nil {
				aw.ProductionID = a.Production.ID
			}
			wrow[term] = aw
		}
		w.Action[state] = wrow
	}
	return rezi.Enc(w)
}

// UnmarshalTableREZI decodes a Table previously written by MarshalREZI,
// resolving its reduce actions' production ids against g.AllProductions().
func UnmarshalTableREZI(data []byte, g *grammar.Grammar) (*Table, error) {
	var w tableWire
	n, err := rezi.Dec(data, &w)
	if err != nil {
		return nil, fmt.Errorf("rezi decode table: %w", err)
	}
	if n != len(data) {
		return nil, fmt.Errorf("rezi decode table: consumed %d/%d bytes", n, len(data))
	}

	prods := g.AllProductions()
	t := &Table{
		NumStates: w.NumStates,
		Start:     w.Start,
		Action:    map[int]map[grammar.Symbol]Action{},
		Goto:      w.Goto,
	}
	for state, row := range w.Action {
		trow := map[grammar.Symbol]Action{}
		for term, aw := range row {
			a := Action{Kind: aw.Kind, State: aw.State}
			if aw.Kind == Reduce {
				if aw.ProductionID < 0 || aw.ProductionID >= len(prods) {
					return nil, fmt.Errorf("rezi decode table: production id %d out of range for state %d terminal %q", aw.ProductionID, state, term)
				}
				a.Production = prods[aw.ProductionID]
			}
			trow[term] = a
		}
		t.Action[state] = trow
	}
	return t, nil
}
