/*
Velac compiles a single Vela source file through the front end: lexing,
LALR(1) parsing, and semantic checking. It does not generate code or run
anything — its job ends at "is this program well-formed," reporting every
diagnostic it finds.

Usage:

	velac [flags] [FILE]

FILE defaults to stdin when omitted. The flags are:

	-v, --verbose
		Log progress (bytes read, diagnostics found) to
		stderr, and print a byte/timing summary on success.

	-c, --config FILE
		Load compiler options from a TOML file. Defaults to "velac.toml" in
		the current directory if present; silently skipped if missing and
		not explicitly given.

	-t, --table-cache FILE
		Load the LALR table from FILE if it exists, building and writing it
		there otherwise. Speeds up repeated invocations at the cost of a
		stale cache if FILE survives a velac upgrade.

	-r, --repl
		Start an interactive session instead: read one top-level expression
		at a time, run it through the pipeline, and print its inferred type
		or diagnostics.

	--version
		Print the current version and exit.

Exit status is 0 if the input is well-formed, 1 if any diagnostic was
reported, 2 if velac itself could not start (bad flags, unreadable file).
*/
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/chzyer/readline"
	"github.com/dekarrin/rosed"
	"github.com/dustin/go-humanize"
	"github.com/spf13/pflag"

	"github.com/velalang/velac"
	"github.com/velalang/velac/internal/check"
	"github.com/velalang/velac/internal/diag"
)

const (
	ExitSuccess = iota
	ExitDiagnostics
	ExitInitError
)

const consoleOutputWidth = 80

const Version = "0.1.0-dev"

var (
	returnCode     = ExitSuccess
	flagVersion    = pflag.Bool("version", false, "Print the current version and exit")
	flagVerbose    = pflag.BoolP("verbose", "v", false, "Log progress to stderr and print a summary on success")
	flagConfig     = pflag.StringP("config", "c", "velac.toml", "Compiler options file (TOML)")
	flagTableCache = pflag.StringP("table-cache", "t", "", "Load/save the built LALR table at this path")
	flagRepl       = pflag.BoolP("repl", "r", false, "Start an interactive REPL instead of compiling a file")
)

// fileConfig is the shape of an optional velac.toml. Every field is
// optional; a zero value means "use the flag/default instead."
type fileConfig struct {
	TableCache     string `toml:"table_cache"`
	MaxDiagnostics int    `toml:"max_diagnostics"`
}

func loadConfig(path string, explicit bool) (fileConfig, error) {
	var cfg fileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occurred: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("velac %s\n", Version)
		return
	}

	log.SetFlags(0)
	if !*flagVerbose {
		log.SetOutput(discard{})
	}

	cfg, err := loadConfig(*flagConfig, pflag.Lookup("config").Changed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		returnCode = ExitInitError
		return
	}

	tableCache := *flagTableCache
	if tableCache == "" {
		tableCache = cfg.TableCache
	}
	maxDiagnostics := cfg.MaxDiagnostics
	if maxDiagnostics <= 0 {
		maxDiagnostics = 20
	}

	if tableCache != "" {
		if err := velac.WarmTableCache(tableCache); err != nil {
			if err := velac.WriteTableCache(tableCache); err != nil {
				fmt.Fprintf(os.Stderr, "ERROR: table cache: %s\n", err)
				returnCode = ExitInitError
				return
			}
		}
	}

	if *flagRepl {
		runRepl(maxDiagnostics)
		return
	}

	var src []byte
	if pflag.NArg() > 0 {
		src, err = os.ReadFile(pflag.Arg(0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
			returnCode = ExitInitError
			return
		}
	} else {
		src, err = io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: reading stdin: %s\n", err)
			returnCode = ExitInitError
			return
		}
	}

	start := time.Now()
	prog, bag := velac.Compile(strings.NewReader(string(src)))
	elapsed := time.Since(start)

	if !bag.Empty() {
		printDiagnostics(string(src), bag, maxDiagnostics)
		returnCode = ExitDiagnostics
		return
	}

	if *flagVerbose {
		fmt.Printf("ok: %s parsed and checked in %s (%d top-level expressions, %d definitions)\n",
			humanize.Bytes(uint64(len(src))), elapsed, len(prog.Expressions), len(prog.Defs))
	}
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

// printDiagnostics renders up to max diagnostics from bag against src: a
// header line with the kind, position and message, wrapped to terminal width
// via rosed the way the teacher wraps game/dialog text (engine.go's
// consoleMessage handling), then the offending line and a caret under the
// offending column, neither of them wrapped.
func printDiagnostics(src string, bag *diag.Bag, max int) {
	all := bag.All()
	shown := all
	if len(shown) > max {
		shown = shown[:max]
	}
	for _, d := range shown {
		line, col, text := locate(src, d.Pos.Offset)
		header := fmt.Sprintf("%s: line %d, col %d: %s", d.Kind, line, col, d.Message)
		fmt.Fprintln(os.Stderr, rosed.Edit(header).Wrap(consoleOutputWidth).String())
		if text != "" {
			fmt.Fprintln(os.Stderr, text)
			fmt.Fprintln(os.Stderr, strings.Repeat(" ", col-1)+"^")
		}
	}
	if len(all) > len(shown) {
		fmt.Fprintf(os.Stderr, "... and %d more diagnostic(s) not shown\n", len(all)-len(shown))
	}
}

// locate turns a byte offset into a 1-based line/column and returns the
// full text of that line.
func locate(src string, offset int) (line, col int, text string) {
	if offset < 0 || offset > len(src) {
		return 1, 1, ""
	}
	line = 1
	lineStart := 0
	for i := 0; i < offset && i < len(src); i++ {
		if src[i] == '\n' {
			line++
			lineStart = i + 1
		}
	}
	col = offset - lineStart + 1

	lineEnd := strings.IndexByte(src[lineStart:], '\n')
	if lineEnd < 0 {
		text = src[lineStart:]
	} else {
		text = src[lineStart : lineStart+lineEnd]
	}
	return line, col, text
}

// runRepl reads one top-level expression at a time from an interactive
// readline session (mirroring internal/input's InteractiveCommandReader)
// and reports its checked type or diagnostics.
func runRepl(maxDiagnostics int) {
	rl, err := readline.NewEx(&readline.Config{Prompt: "vela> "})
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: starting REPL: %s\n", err)
		returnCode = ExitInitError
		return
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil {
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !strings.HasSuffix(line, ";") {
			line += ";"
		}

		prog, bag := velac.Compile(strings.NewReader(line))
		if !bag.Empty() {
			printDiagnostics(line, bag, maxDiagnostics)
			continue
		}
		if len(prog.Expressions) == 0 {
			continue
		}
		last := prog.Expressions[len(prog.Expressions)-1]
		fmt.Println(check.ExprType(last).String())
	}
}
