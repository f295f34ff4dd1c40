package lex

import (
	"strings"

	"github.com/velalang/velac/internal/diag"
)

// Scan runs maximal-munch scanning of src against the compiled super-DFA
// (spec.md section 4.2): at each position, advance while a transition is
// defined, remembering the last position whose state was accepting and the
// token kind associated with it. On dead-end, emit the remembered token and
// resume one past its end; if no acceptance was ever seen, emit an
// InvalidCharacter diagnostic for the current byte and resume at the next
// byte (panic-mode recovery, grounded on lazyLex.Next's panicMode loop in
// the teacher's internal/ictiobus/lex/lazy.go). Skip rules are consumed and
// dropped rather than returned. Lexing never stops at the first error
// (spec.md section 7: "the lexer collects all lexical errors but still
// produces a token stream").
func (l *Lexer) Scan(src string) ([]Token, *diag.Bag) {
	var tokens []Token
	bag := &diag.Bag{}

	pos := 0
	line, col, lineStart := 1, 1, 0

	for pos < len(src) {
		state := l.dfa.Start
		i := pos
		lastAccept := -1
		lastState := ""

		for i < len(src) {
			next, ok := l.dfa.Step(state, src[i])
			if !ok {
				break
			}
			state = next
			i++
			if l.dfa.Accepting(state) {
				lastAccept = i
				lastState = state
			}
		}

		if lastAccept == -1 {
			bag.Add(diag.New(diag.InvalidCharacter, diag.Position{Offset: pos},
				"invalid character %q at line %d column %d", src[pos], line, col))
			advanceLineCol(src[pos:pos+1], &line, &col, &lineStart, pos)
			pos++
			continue
		}

		ruleIdx, _ := l.winningRule(lastState)
		rule := l.rules[ruleIdx]
		lexeme := src[pos:lastAccept]

		if !rule.Skip {
			tokens = append(tokens, Token{
				Class:    rule.Class,
				Lexeme:   lexeme,
				Offset:   pos,
				Line:     line,
				Col:      col,
				LineText: currentLineText(src, lineStart),
			})
		}

		advanceLineCol(lexeme, &line, &col, &lineStart, pos)
		pos = lastAccept
	}

	tokens = append(tokens, Token{Class: EndOfText, Offset: pos, Line: line, Col: col})
	return tokens, bag
}

// advanceLineCol updates line/col/lineStart as if consumed had just been
// read starting at absolute offset from.
func advanceLineCol(consumed string, line, col *int, lineStart *int, from int) {
	for i := 0; i < len(consumed); i++ {
		if consumed[i] == '\n' {
			*line++
			*col = 1
			*lineStart = from + i + 1
		} else {
			*col++
		}
	}
}

// currentLineText returns the full line containing lineStart, used for
// diagnostic source-excerpt rendering (teacher's lexerToken.FullLine).
func currentLineText(src string, lineStart int) string {
	end := strings.IndexByte(src[lineStart:], '\n')
	if end == -1 {
		return src[lineStart:]
	}
	return src[lineStart : lineStart+end]
}
