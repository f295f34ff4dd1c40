// Package velac is the top-level Vela compiler front-end: source bytes in,
// a checked ast.Program and every diagnostic raised along the way out.
// Compile wires the pipeline's stages together in the same order they're
// built in internal/ — vela.Build's lexer/table, then parsing, then
// internal/check's three-pass semantic analysis.
package velac

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"github.com/velalang/velac/internal/ast"
	"github.com/velalang/velac/internal/check"
	"github.com/velalang/velac/internal/diag"
	"github.com/velalang/velac/internal/lalr"
	"github.com/velalang/velac/internal/lex"
	"github.com/velalang/velac/internal/vela"
)

// buildOnce/pipeline memoize the compiled Vela lexer and LALR table across
// Compile calls within one process — they are immutable after construction
// (spec.md §4.3/§9), so there is no reason to rebuild them per call. A
// --table-cache file (loaded via WarmTableCache before the first Compile)
// short-circuits even the in-process build.
var (
	buildOnce   sync.Once
	pipeline    *vela.Pipeline
	buildErr    error
)

func ensurePipeline() (*vela.Pipeline, error) {
	buildOnce.Do(func() {
		if pipeline == nil {
			pipeline, buildErr = vela.Build()
		}
	})
	return pipeline, buildErr
}

// WarmTableCache loads a previously cached LALR table from path (written by
// a prior WriteTableCache call) instead of building it from scratch, and
// installs it as the pipeline every subsequent Compile call in this process
// uses. Must be called before the first Compile call; calling it after has
// no effect, since ensurePipeline's sync.Once has already fired.
func WarmTableCache(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("velac: reading table cache: %w", err)
	}
	table, err := lalr.UnmarshalTableREZI(data, vela.Grammar())
	if err != nil {
		return fmt.Errorf("velac: decoding table cache: %w", err)
	}
	lexer, err := lex.Generate(vela.Rules())
	if err != nil {
		return fmt.Errorf("velac: building lexer: %w", err)
	}
	buildOnce.Do(func() {
		pipeline = &vela.Pipeline{Lexer: lexer, Table: table}
	})
	return nil
}

// WriteTableCache builds the Vela pipeline (if not already built) and
// writes its LALR table to path in the teacher's rezi format, for a later
// process's WarmTableCache to load.
func WriteTableCache(path string) error {
	p, err := ensurePipeline()
	if err != nil {
		return err
	}
	data, err := p.Table.MarshalREZI()
	if err != nil {
		return fmt.Errorf("velac: encoding table cache: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Compile reads all of src, normalizes it to NFC, and runs it through the
// full Vela pipeline: scan, parse, then semantic-check. Any diagnostic from
// any stage is returned in the same Bag; later stages don't run once an
// earlier one reports a problem (a malformed token stream or parse tree
// gives the checker nothing meaningful to walk).
//
// Every call is tagged with a fresh correlation id (mirroring
// server/api's per-request uuid, re-homed here onto compile invocations)
// logged at start and completion so concurrent Compile calls' log lines
// can be told apart.
func Compile(src io.Reader) (*ast.Program, *diag.Bag) {
	id := uuid.New()

	raw, err := io.ReadAll(src)
	if err != nil {
		bag := &diag.Bag{}
		bag.Addf(diag.UserError, diag.Position{}, "reading source: %s", err)
		log.Printf("compile %s: ERROR: %s", id, err)
		return nil, bag
	}
	log.Printf("compile %s: read %d bytes", id, len(raw))

	normalized := norm.NFC.String(string(raw))

	p, err := ensurePipeline()
	if err != nil {
		bag := &diag.Bag{}
		bag.Addf(diag.UserError, diag.Position{}, "building compiler: %s", err)
		log.Printf("compile %s: ERROR: %s", id, err)
		return nil, bag
	}

	prog, bag := p.Parse(normalized)
	if !bag.Empty() {
		log.Printf("compile %s: %d diagnostic(s) during scan/parse", id, bag.Len())
		return &prog, bag
	}

	checkBag := check.Check(prog)
	bag.Merge(checkBag)
	if !bag.Empty() {
		log.Printf("compile %s: %d diagnostic(s) during semantic check", id, bag.Len())
	} else {
		log.Printf("compile %s: ok", id)
	}

	return &prog, bag
}
