// Package vela wires internal/{lex,grammar,lalr,parser} into the concrete
// Vela language: its terminal regex patterns, its productions with reduce
// closures that build internal/ast nodes, and the grammar/table/lexer
// triple a pipeline run needs. It is the hand-authored analog of the
// teacher's generated tunascript/fe package (that one is produced by a
// frontend-generator CLI from a .ebnf file; Vela's grammar is small and
// stable enough to hand-write directly, in the same declarative style).
package vela

import "github.com/velalang/velac/internal/lex"

// Token class ids. Keyword rules are declared ahead of the identifier rule
// in Rules() so that, on an equal-length match, declaration order breaks
// the tie in the keywords' favor (spec.md 4.2: "ties... broken by
// declaration order").
const (
	tNumber = "NUMBER"
	tString = "STRING"
	tIdent  = "ID"
	tTrue   = "TRUE"
	tFalse  = "FALSE"

	tType      = "TYPE"
	tInherits  = "INHERITS"
	tFunction  = "FUNCTION"
	tConstant  = "CONSTANT"
	tProtocol  = "PROTOCOL"
	tExtends   = "EXTENDS"
	tLet       = "LET"
	tIn        = "IN"
	tIf        = "IF"
	tElif      = "ELIF"
	tElse      = "ELSE"
	tWhile     = "WHILE"
	tFor       = "FOR"
	tPrint     = "PRINT"
	tNew       = "NEW"
	tReturn    = "RETURN"
	tThis      = "THIS"

	tLParen = "LPAREN"
	tRParen = "RPAREN"
	tLBrace = "LBRACE"
	tRBrace = "RBRACE"
	tLBrack = "LBRACK"
	tRBrack = "RBRACK"
	tComma  = "COMMA"
	tSemi   = "SEMI"
	tColon  = "COLON"
	tDot    = "DOT"
	tAssign = "ASSIGN"
	tWalrus = "WALRUS"
	tArrow  = "ARROW"

	tPlus    = "PLUS"
	tMinus   = "MINUS"
	tStar    = "STAR"
	tSlash   = "SLASH"
	tDSlash  = "DSLASH"
	tPercent = "PERCENT"
	tLt      = "LT"
	tLe      = "LE"
	tGt      = "GT"
	tGe      = "GE"
	tEq      = "EQ"
	tNe      = "NE"
	tAnd     = "AND"
	tOr      = "OR"
	tNot     = "NOT"
	tAt      = "AT"
	tAtAt    = "ATAT"

	tWhitespace = "WS"
)

// keyword lists the reserved words; each keyword shadows a plain ID match
// of the same text (spec.md 6: "identifiers start with a letter or
// underscore... keywords shadow identifiers").
var keyword = []struct{ class, pattern string }{
	{tType, "type"},
	{tInherits, "inherits"},
	{tFunction, "function"},
	{tConstant, "constant"},
	{tProtocol, "protocol"},
	{tExtends, "extends"},
	{tLet, "let"},
	{tIn, "in"},
	{tIf, "if"},
	{tElif, "elif"},
	{tElse, "else"},
	{tWhile, "while"},
	{tFor, "for"},
	{tPrint, "print"},
	{tNew, "new"},
	{tReturn, "return"},
	{tThis, "this"},
	{tTrue, "true"},
	{tFalse, "false"},
}

// punctuation lists multi-char operators ahead of the single-char operators
// they prefix; maximal munch already prefers the longer match regardless of
// order, but keeping the longer patterns first mirrors how a hand-written
// lex rule file is usually laid out (longest alternatives read first).
var punctuation = []struct{ class, pattern string }{
	{tDSlash, `//`},
	{tWalrus, `:=`},
	{tArrow, `=>`},
	{tLe, `<=`},
	{tGe, `>=`},
	{tEq, `==`},
	{tNe, `!=`},
	{tAnd, `&&`},
	{tOr, `\|\|`},
	{tAtAt, `@@`},

	{tLParen, `\(`},
	{tRParen, `\)`},
	{tLBrace, `\{`},
	{tRBrace, `\}`},
	{tLBrack, `\[`},
	{tRBrack, `\]`},
	{tComma, `,`},
	{tSemi, `;`},
	{tColon, `:`},
	{tDot, `\.`},
	{tAssign, `=`},

	{tPlus, `\+`},
	{tMinus, `-`},
	{tStar, `\*`},
	{tSlash, `/`},
	{tPercent, `%`},
	{tLt, `<`},
	{tGt, `>`},
	{tNot, `!`},
	{tAt, `@`},
}

// Rules returns the complete declared rule list for Generate, in the
// priority order required by spec.md 4.2 (keywords before the identifier
// rule that would otherwise also match them).
func Rules() []lex.Rule {
	var rules []lex.Rule
	rules = append(rules, lex.Rule{Name: "ws", Pattern: `[ \t\n\r]+`, Class: lex.NewTokenClass(tWhitespace, "whitespace"), Skip: true})

	for _, k := range keyword {
		rules = append(rules, lex.Rule{Name: k.class, Pattern: k.pattern, Class: lex.NewTokenClass(k.class, k.class)})
	}

	rules = append(rules,
		lex.Rule{Name: tNumber, Pattern: `[0-9]+(\.[0-9]+)?`, Class: lex.NewTokenClass(tNumber, "number literal")},
		lex.Rule{Name: tString, Pattern: `"(\\.|[^"\\])*"`, Class: lex.NewTokenClass(tString, "string literal")},
		lex.Rule{Name: tIdent, Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`, Class: lex.NewTokenClass(tIdent, "identifier")},
	)

	for _, p := range punctuation {
		rules = append(rules, lex.Rule{Name: p.class, Pattern: p.pattern, Class: lex.NewTokenClass(p.class, "'"+p.class+"'")})
	}

	return rules
}
