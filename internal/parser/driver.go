// Package parser implements the shift-reduce driver that walks a token
// stream against an ACTION/GOTO table, producing the single semantic value
// the start production reduces to (spec.md section 4.4).
//
// Grounded on internal/ictiobus/parse/lr.go's lrParser.Parse (Dragon Book
// Algorithm 4.44): the same state-stack/value-stack shape and ACTION/GOTO
// consultation loop, adapted to call grammar.Production.Reduce closures
// directly instead of assembling a types.ParseTree, and to report
// diag.Diagnostic values instead of icterrors.SyntaxError.
package parser

import (
	"sort"
	"strings"

	"github.com/velalang/velac/internal/diag"
	"github.com/velalang/velac/internal/grammar"
	"github.com/velalang/velac/internal/lalr"
	"github.com/velalang/velac/internal/lex"
)

// TerminalValue converts a scanned token into the semantic value pushed onto
// the value stack on shift (spec.md 4.4: "apply the terminal's reduce-action
// to the token to produce a semantic value"). A terminal class absent from
// the termActions map given to Parse pushes the raw lex.Token instead.
type TerminalValue func(tok lex.Token) (any, error)

// tokenClassID maps a token's class to the grammar symbol name the table was
// built with. The scanner's end-of-text sentinel ("$end", chosen so its
// Human() text reads naturally) is renamed to the grammar's reserved
// end-of-input symbol here, rather than forcing lex.EndOfText itself to
// carry grammar's "$" spelling — the two packages don't otherwise need to
// agree on a shared constant.
func tokenClassID(tok lex.Token) grammar.Symbol {
	if tok.Class == lex.EndOfText {
		return grammar.EndOfInput
	}
	return tok.Class.ID()
}

// Parse runs the driver over tokens against table. tokens must end with
// exactly one lex.EndOfText token (as produced by lex.Scan).
func Parse(tokens []lex.Token, table *lalr.Table, termActions map[string]TerminalValue) (any, *diag.Bag) {
	bag := &diag.Bag{}
	if len(tokens) == 0 {
		bag.Add(diag.New(diag.UnrecognizedEof, diag.Position{}, "empty input"))
		return nil, bag
	}

	stateStack := []int{table.Start}
	var valueStack []any
	pos := 0

	for {
		state := stateStack[len(stateStack)-1]
		tok := tokens[pos]
		lookahead := tokenClassID(tok)

		act, ok := table.Action[state][lookahead]
		if !ok {
			reportUnexpected(bag, table, state, tok)
			return nil, bag
		}

		switch act.Kind {
		case lalr.Shift:
			val, err := applyTerminalValue(tok, termActions)
			if err != nil {
				bag.Add(diag.New(diag.UserError, diag.Position{Offset: tok.Offset}, "%s", err))
				return nil, bag
			}
			stateStack = append(stateStack, act.State)
			valueStack = append(valueStack, val)
			pos++

		case lalr.Reduce:
			n := len(act.Production.RHS)
			args := append([]any(nil), valueStack[len(valueStack)-n:]...)
			stateStack = stateStack[:len(stateStack)-n]
			valueStack = valueStack[:len(valueStack)-n]

			result, err := reduceWith(act.Production, args)
			if err != nil {
				bag.Add(diag.New(diag.UserError, diag.Position{Offset: tok.Offset}, "%s", err))
				return nil, bag
			}

			top := stateStack[len(stateStack)-1]
			target, ok := table.Goto[top][act.Production.LHS]
			if !ok {
				bag.Add(diag.New(diag.InvalidToken, diag.Position{Offset: tok.Offset},
					"no GOTO[%d, %s] after reducing %s", top, act.Production.LHS, act.Production))
				return nil, bag
			}
			stateStack = append(stateStack, target)
			valueStack = append(valueStack, result)

		case lalr.Accept:
			if pos != len(tokens)-1 {
				bag.Add(diag.New(diag.ExtraToken, diag.Position{Offset: tokens[pos+1].Offset},
					"unexpected %q after a complete program", tokens[pos+1].Lexeme))
				return nil, bag
			}
			if len(valueStack) != 1 {
				bag.Add(diag.New(diag.InvalidToken, diag.Position{Offset: tok.Offset},
					"parser accepted with %d values on the stack, want 1", len(valueStack)))
				return nil, bag
			}
			return valueStack[0], bag
		}
	}
}

func applyTerminalValue(tok lex.Token, termActions map[string]TerminalValue) (any, error) {
	if fn, ok := termActions[tok.Class.ID()]; ok {
		return fn(tok)
	}
	return tok, nil
}

func reduceWith(p *grammar.Production, args []any) (any, error) {
	if p.Reduce == nil {
		if len(args) == 1 {
			return args[0], nil
		}
		return nil, nil
	}
	return p.Reduce(args)
}

// reportUnexpected emits UnrecognizedEof or UnrecognizedToken with the
// expected-symbol set, per spec.md 4.4: "Error output includes the token's
// line:column... and the expected-symbol set." tok already carries
// line:column computed during scanning (lex.Scan's advanceLineCol), so no
// separate newline-index scan is needed here; the CLI's diagnostic renderer
// performs that lazy scan for diagnostics that only carry a byte offset
// (semantic diagnostics raised deep in the AST with no token at hand).
func reportUnexpected(bag *diag.Bag, table *lalr.Table, state int, tok lex.Token) {
	expected := expectedSymbols(table, state)
	pos := diag.Position{Offset: tok.Offset}
	extra := map[string]any{"expected": expected}

	if tok.Class == lex.EndOfText {
		bag.Add(diag.Newf(diag.UnrecognizedEof, pos, extra,
			"unexpected end of input at line %d, column %d; expected %s", tok.Line, tok.Col, describe(expected)))
		return
	}

	extra["slice"] = tok.Lexeme
	bag.Add(diag.Newf(diag.UnrecognizedToken, pos, extra,
		"unexpected %q at line %d, column %d; expected %s", tok.Lexeme, tok.Line, tok.Col, describe(expected)))
}

func expectedSymbols(table *lalr.Table, state int) []string {
	var out []string
	for sym := range table.Action[state] {
		out = append(out, sym)
	}
	sort.Strings(out)
	return out
}

func describe(expected []string) string {
	switch len(expected) {
	case 0:
		return "nothing (this state has no valid continuation)"
	case 1:
		return expected[0]
	default:
		return strings.Join(expected[:len(expected)-1], ", ") + " or " + expected[len(expected)-1]
	}
}
