package vela

import (
	"fmt"
	"strings"

	"github.com/velalang/velac/internal/ast"
	"github.com/velalang/velac/internal/diag"
	"github.com/velalang/velac/internal/lalr"
	"github.com/velalang/velac/internal/lex"
	"github.com/velalang/velac/internal/parser"
)

// Pipeline bundles the compiled Vela lexer, grammar and parser table: the
// fixed, reusable output of Build that a source-by-source Compile call
// drives repeatedly (spec.md 4.1's "a compiled lexer is reusable across
// many scans").
type Pipeline struct {
	Lexer *lex.Lexer
	Table *lalr.Table
}

// Build compiles the Vela lexer and LALR(1) parser table once. A non-nil
// error means the grammar is not LALR(1) as written (spec.md 4.3: "no
// precedence/associativity annotations: the grammar must be LALR(1) as
// written" — any conflict is a build-time failure, not something resolved
// by a default shift/prefer-rule-order convention).
func Build() (*Pipeline, error) {
	lexer, err := lex.Generate(Rules())
	if err != nil {
		return nil, fmt.Errorf("vela: building lexer: %w", err)
	}

	g := Grammar()
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("vela: invalid grammar: %w", err)
	}

	table, conflicts := lalr.Build(g)
	if len(conflicts) > 0 {
		var lines []string
		for _, c := range conflicts {
			lines = append(lines, c.String())
		}
		return nil, fmt.Errorf("vela: grammar is not LALR(1):\n%s", strings.Join(lines, "\n"))
	}

	return &Pipeline{Lexer: lexer, Table: table}, nil
}

// Parse scans and parses src, returning the resulting program along with
// every diagnostic raised during either phase. No TerminalValue conversions
// are registered: every production that needs a literal's value (NUMBER,
// STRING) parses the raw lex.Token's Lexeme itself inside its own Reduce
// closure, so Parse has nothing left to convert on shift.
func (p *Pipeline) Parse(src string) (ast.Program, *diag.Bag) {
	tokens, bag := p.Lexer.Scan(src)
	if !bag.Empty() {
		return ast.Program{}, bag
	}

	result, parseBag := parser.Parse(tokens, p.Table, nil)
	bag.Merge(parseBag)
	if !bag.Empty() {
		return ast.Program{}, bag
	}

	prog, ok := result.(ast.Program)
	if !ok {
		bag.Add(diag.New(diag.InvalidToken, diag.Position{}, "parse did not produce a Program"))
		return ast.Program{}, bag
	}
	return prog, bag
}
