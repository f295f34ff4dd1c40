package vela

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/velalang/velac/internal/ast"
	"github.com/velalang/velac/internal/grammar"
	"github.com/velalang/velac/internal/lex"
)

// Non-terminal names. Grouped to mirror spec.md 6's surface grammar:
// definitions, then the expression precedence ladder (lowest to highest:
// assignment, ||, &&, ==/!=, relational, @/@@ concat, +/-, * / // %, unary,
// postfix, primary), matching spec.md 4.5's operator functor table's
// implicit precedence and avoiding the need for any precedence/associativity
// annotation (spec.md 4.3: "the grammar must be LALR(1) as written").
const (
	nProgram = "Program"

	nDefList  = "DefList"
	nTypeDef  = "TypeDef_"
	nParamListOpt = "ParamListOpt"
	nParamList    = "ParamList"
	nParam        = "Param"
	nInheritOpt   = "InheritOpt"
	nMemberList   = "MemberList"
	nMember       = "Member"
	nFunctionDef  = "FunctionDef_"
	nConstantDef  = "ConstantDef_"
	nProtocolDef  = "ProtocolDef_"
	nExtendsOpt   = "ExtendsOpt"
	nSigList      = "SigList"
	nSig          = "Sig"

	nArgListOpt = "ArgListOpt"
	nArgList    = "ArgList"

	nTypeAnn         = "TypeAnn"
	nTypeAnnListOpt  = "TypeAnnListOpt"
	nTypeAnnList     = "TypeAnnList"

	nExprList = "ExprList"

	nExpr       = "Expr"
	nOrExpr     = "OrExpr"
	nAndExpr    = "AndExpr"
	nEqExpr     = "EqExpr"
	nRelExpr    = "RelExpr"
	nConcatExpr = "ConcatExpr"
	nAddExpr    = "AddExpr"
	nMulExpr    = "MulExpr"
	nUnaryExpr  = "UnaryExpr"
	nPostfix    = "PostfixExpr"
	nPrimary    = "Primary"

	nLet        = "Let_"
	nBindings   = "Bindings"
	nBinding    = "Binding"
	nIfExpr     = "IfExpr_"
	nElseClause = "ElseClause"
	nWhileExpr  = "WhileExpr_"
	nForExpr    = "ForExpr_"

	nBlock     = "Block_"
	nBodyItems = "BodyItems"
	nItemSeq   = "ItemSeq"
	nBodyItem  = "BodyItem"
	nExtraSemi = "ExtraSemi"
)

// Grammar builds the complete Vela grammar: every production named above
// with its Production.Reduce closure assembling internal/ast nodes, ready
// for internal/lalr.Build.
func Grammar() *grammar.Grammar {
	g := grammar.New(nProgram)
	declareTerminals(g)

	declareProgram(g)
	declareDefinitions(g)
	declareLists(g)
	declareTypeAnnotations(g)
	declareExpressions(g)
	declarePrimary(g)
	declareBlock(g)

	return g
}

func declareTerminals(g *grammar.Grammar) {
	for _, id := range []string{
		tNumber, tString, tIdent, tTrue, tFalse,
		tType, tInherits, tFunction, tConstant, tProtocol, tExtends,
		tLet, tIn, tIf, tElif, tElse, tWhile, tFor, tPrint, tNew, tReturn, tThis,
		tLParen, tRParen, tLBrace, tRBrace, tLBrack, tRBrack, tComma, tSemi, tColon, tDot, tAssign, tWalrus, tArrow,
		tPlus, tMinus, tStar, tSlash, tDSlash, tPercent, tLt, tLe, tGt, tGe, tEq, tNe, tAnd, tOr, tNot, tAt, tAtAt,
	} {
		g.AddTerminal(id)
	}
}

// tok asserts a shifted terminal value back to the lex.Token internal/parser
// pushed for it (no TerminalValue conversions are registered for Vela — see
// Build in build.go — every shift just carries the raw token, and each
// production here does its own lexeme -> semantic-value conversion).
func tok(v any) lex.Token { return v.(lex.Token) }

func tokRange(t lex.Token) ast.Range {
	return ast.Range{Start: t.Offset, End: t.Offset + len(t.Lexeme)}
}

func span(a, b ast.Range) ast.Range {
	return ast.Range{Start: a.Start, End: b.End}
}

func exprOf(v any) ast.Expr { return v.(ast.Expr) }

func declareProgram(g *grammar.Grammar) {
	// Program -> DefList ExprList
	g.AddProduction(nProgram, []string{nDefList, nExprList}, func(v []any) (any, error) {
		defs := v[0].([]ast.Def)
		exprs := v[1].([]ast.Expr)
		rng := ast.Range{}
		if len(exprs) > 0 {
			rng = span(rng, ast.RangeOf(exprs[len(exprs)-1]))
		}
		return ast.Program{Range: rng, Defs: defs, Expressions: exprs}, nil
	})

	// DefList -> DefList Def | epsilon
	g.AddProduction(nDefList, nil, func(v []any) (any, error) { return []ast.Def{}, nil })
	g.AddProduction(nDefList, []string{nDefList, nTypeDef}, func(v []any) (any, error) {
		return append(v[0].([]ast.Def), v[1].(ast.Def)), nil
	})

	// ExprList -> ExprList Expr SEMI | Expr SEMI
	g.AddProduction(nExprList, []string{nExpr, tSemi}, func(v []any) (any, error) {
		return []ast.Expr{exprOf(v[0])}, nil
	})
	g.AddProduction(nExprList, []string{nExprList, nExpr, tSemi}, func(v []any) (any, error) {
		return append(v[0].([]ast.Expr), exprOf(v[1])), nil
	})
}

// declareDefinitions wires TypeDef/FunctionDef/ConstantDef/ProtocolDef. All
// four non-terminals feed into nTypeDef (kept as the single "Def" slot
// DefList accumulates, despite its name — see the comment on nTypeDef's
// first production below) so DefList doesn't need one alternative per kind.
func declareDefinitions(g *grammar.Grammar) {
	// nTypeDef doubles as "Def": its four alternatives are the four
	// definition kinds, all producing an ast.Def.
	g.AddProduction(nTypeDef, []string{tType, tIdent, tLParen, nParamListOpt, tRParen, nInheritOpt, tLBrace, nMemberList, tRBrace},
		func(v []any) (any, error) {
			name := tok(v[1])
			members := v[7].([]any)
			var data []ast.DataMemberDef
			var methods []ast.FunctionDef
			for _, m := range members {
				switch mm := m.(type) {
				case ast.DataMemberDef:
					data = append(data, mm)
				case ast.FunctionDef:
					methods = append(methods, mm)
				}
			}
			var inherit *ast.InheritanceIndicator
			if ii, ok := v[5].(ast.InheritanceIndicator); ok {
				inherit = &ii
			}
			return ast.TypeDef{
				Range:       span(tokRange(tok(v[0])), tokRange(tok(v[8]))),
				Name:        name.Lexeme,
				Params:      v[3].([]ast.Param),
				Inheritance: inherit,
				DataMembers: data,
				Methods:     methods,
			}, nil
		})
	g.AddProduction(nTypeDef, []string{nFunctionDef}, nil)
	g.AddProduction(nTypeDef, []string{nConstantDef}, nil)
	g.AddProduction(nTypeDef, []string{nProtocolDef}, nil)

	// InheritOpt -> INHERITS ID LPAREN ArgListOpt RPAREN | epsilon
	g.AddProduction(nInheritOpt, nil, func(v []any) (any, error) { return nil, nil })
	g.AddProduction(nInheritOpt, []string{tInherits, tIdent, tLParen, nArgListOpt, tRParen}, func(v []any) (any, error) {
		return ast.InheritanceIndicator{
			Range:        span(tokRange(tok(v[0])), tokRange(tok(v[4]))),
			ParentName:   tok(v[1]).Lexeme,
			ArgumentList: v[3].([]ast.Expr),
		}, nil
	})

	// MemberList -> MemberList Member | epsilon
	g.AddProduction(nMemberList, nil, func(v []any) (any, error) { return []any{}, nil })
	g.AddProduction(nMemberList, []string{nMemberList, nMember}, func(v []any) (any, error) {
		return append(v[0].([]any), v[1]), nil
	})

	// Member -> ID ASSIGN Expr SEMI | FunctionDef
	g.AddProduction(nMember, []string{tIdent, tAssign, nExpr, tSemi}, func(v []any) (any, error) {
		ident := tok(v[0])
		return ast.DataMemberDef{
			Range:        span(tokRange(ident), ast.RangeOf(exprOf(v[2]))),
			Ident:        ast.Identifier{Range: tokRange(ident), Name: ident.Lexeme},
			DefaultValue: exprOf(v[2]),
		}, nil
	})
	g.AddProduction(nMember, []string{nFunctionDef}, nil)

	declareFunctionDef(g)
	declareConstantDef(g)
	declareProtocolDef(g)
}

func declareFunctionDef(g *grammar.Grammar) {
	// FunctionDef -> FUNCTION ID LPAREN ParamListOpt RPAREN COLON TypeAnn ARROW Expr SEMI
	g.AddProduction(nFunctionDef,
		[]string{tFunction, tIdent, tLParen, nParamListOpt, tRParen, tColon, nTypeAnn, tArrow, nExpr, tSemi},
		func(v []any) (any, error) {
			return ast.FunctionDef{
				Range:      span(tokRange(tok(v[0])), tokRange(tok(v[9]))),
				Ident:      identOf(tok(v[1])),
				Params:     v[3].([]ast.Param),
				ReturnType: v[6].(ast.TypeAnnotation),
				Body:       ast.FunctionBody{IsBlock: false, Arrow: exprOf(v[8])},
			}, nil
		})
	// FunctionDef -> FUNCTION ID LPAREN ParamListOpt RPAREN COLON TypeAnn Block
	g.AddProduction(nFunctionDef,
		[]string{tFunction, tIdent, tLParen, nParamListOpt, tRParen, tColon, nTypeAnn, nBlock},
		func(v []any) (any, error) {
			block := v[7].(ast.Block)
			return ast.FunctionDef{
				Range:      span(tokRange(tok(v[0])), block.Range),
				Ident:      identOf(tok(v[1])),
				Params:     v[3].([]ast.Param),
				ReturnType: v[6].(ast.TypeAnnotation),
				Body:       ast.FunctionBody{IsBlock: true, BlockVal: &block},
			}, nil
		})
}

func declareConstantDef(g *grammar.Grammar) {
	g.AddProduction(nConstantDef, []string{tConstant, tIdent, tColon, nTypeAnn, tAssign, nExpr, tSemi}, func(v []any) (any, error) {
		return ast.ConstantDef{
			Range:      span(tokRange(tok(v[0])), tokRange(tok(v[6]))),
			Name:       tok(v[1]).Lexeme,
			Annotation: v[3].(ast.TypeAnnotation),
			Value:      exprOf(v[5]),
		}, nil
	})
}

func declareProtocolDef(g *grammar.Grammar) {
	g.AddProduction(nProtocolDef, []string{tProtocol, tIdent, nExtendsOpt, tLBrace, nSigList, tRBrace}, func(v []any) (any, error) {
		return ast.ProtocolDef{
			Range:      span(tokRange(tok(v[0])), tokRange(tok(v[5]))),
			Name:       tok(v[1]).Lexeme,
			Extends:    v[2].([]string),
			Signatures: v[4].([]ast.FunctionSignature),
		}, nil
	})

	g.AddProduction(nExtendsOpt, nil, func(v []any) (any, error) { return []string{}, nil })
	g.AddProduction(nExtendsOpt, []string{tExtends, tIdent}, func(v []any) (any, error) {
		return []string{tok(v[1]).Lexeme}, nil
	})

	g.AddProduction(nSigList, nil, func(v []any) (any, error) { return []ast.FunctionSignature{}, nil })
	g.AddProduction(nSigList, []string{nSigList, nSig}, func(v []any) (any, error) {
		return append(v[0].([]ast.FunctionSignature), v[1].(ast.FunctionSignature)), nil
	})
	g.AddProduction(nSig, []string{tIdent, tLParen, nParamListOpt, tRParen, tColon, nTypeAnn, tSemi}, func(v []any) (any, error) {
		return ast.FunctionSignature{
			Range:      span(tokRange(tok(v[0])), tokRange(tok(v[6]))),
			Name:       tok(v[0]).Lexeme,
			Params:     v[2].([]ast.Param),
			ReturnType: v[5].(ast.TypeAnnotation),
		}, nil
	})
}

func identOf(t lex.Token) ast.Identifier {
	return ast.Identifier{Range: tokRange(t), Name: t.Lexeme}
}

// declareLists wires the two comma-separated optional-list shapes shared
// by function/type/protocol-signature parameter lists and call argument
// lists (spec.md 6's parenthesized parameter/argument lists).
func declareLists(g *grammar.Grammar) {
	g.AddProduction(nParamListOpt, nil, func(v []any) (any, error) { return []ast.Param{}, nil })
	g.AddProduction(nParamListOpt, []string{nParamList}, nil)
	g.AddProduction(nParamList, []string{nParam}, func(v []any) (any, error) {
		return []ast.Param{v[0].(ast.Param)}, nil
	})
	g.AddProduction(nParamList, []string{nParamList, tComma, nParam}, func(v []any) (any, error) {
		return append(v[0].([]ast.Param), v[2].(ast.Param)), nil
	})
	g.AddProduction(nParam, []string{tIdent, tColon, nTypeAnn}, func(v []any) (any, error) {
		return ast.Param{Ident: identOf(tok(v[0])), Annotation: v[2].(ast.TypeAnnotation)}, nil
	})

	g.AddProduction(nArgListOpt, nil, func(v []any) (any, error) { return []ast.Expr{}, nil })
	g.AddProduction(nArgListOpt, []string{nArgList}, nil)
	g.AddProduction(nArgList, []string{nExpr}, func(v []any) (any, error) {
		return []ast.Expr{exprOf(v[0])}, nil
	})
	g.AddProduction(nArgList, []string{nArgList, tComma, nExpr}, func(v []any) (any, error) {
		return append(v[0].([]ast.Expr), exprOf(v[2])), nil
	})
}

func declareTypeAnnotations(g *grammar.Grammar) {
	// TypeAnn -> ID (Number/String/Bool/Object are just identifiers here;
	// whether a name is builtin or user-defined is resolved later by
	// internal/check against the type registry, not here.)
	g.AddProduction(nTypeAnn, []string{tIdent}, func(v []any) (any, error) {
		name := tok(v[0]).Lexeme
		switch name {
		case ast.Number, ast.String, ast.Bool, ast.Object:
			return ast.TypeAnnotation{Kind: ast.TypeBuiltin, Name: name}, nil
		default:
			return ast.TypeAnnotation{Kind: ast.TypeUserDefined, Name: name}, nil
		}
	})
	// TypeAnn -> LBRACK TypeAnn RBRACK
	g.AddProduction(nTypeAnn, []string{tLBrack, nTypeAnn, tRBrack}, func(v []any) (any, error) {
		inner := v[1].(ast.TypeAnnotation)
		return ast.TypeAnnotation{Kind: ast.TypeIterableOf, Inner: &inner}, nil
	})
	// TypeAnn -> LPAREN TypeAnnListOpt RPAREN ARROW TypeAnn
	g.AddProduction(nTypeAnn, []string{tLParen, nTypeAnnListOpt, tRParen, tArrow, nTypeAnn}, func(v []any) (any, error) {
		ret := v[4].(ast.TypeAnnotation)
		return ast.TypeAnnotation{Kind: ast.TypeFunctor, Params: v[1].([]ast.TypeAnnotation), Return: &ret}, nil
	})

	g.AddProduction(nTypeAnnListOpt, nil, func(v []any) (any, error) { return []ast.TypeAnnotation{}, nil })
	g.AddProduction(nTypeAnnListOpt, []string{nTypeAnnList}, nil)
	g.AddProduction(nTypeAnnList, []string{nTypeAnn}, func(v []any) (any, error) {
		return []ast.TypeAnnotation{v[0].(ast.TypeAnnotation)}, nil
	})
	g.AddProduction(nTypeAnnList, []string{nTypeAnnList, tComma, nTypeAnn}, func(v []any) (any, error) {
		return append(v[0].([]ast.TypeAnnotation), v[2].(ast.TypeAnnotation)), nil
	})
}

// binLevel is one rung of the expression precedence ladder: lhs -> lhs OP
// next for each op in ops, plus lhs -> next (spec.md 4.5's operator functor
// table fixes precedence group membership; the ladder's nesting order fixes
// relative precedence between groups without needing any annotation).
type binLevelOp struct {
	token string
	op    ast.BinaryOperator
}

func binLevel(g *grammar.Grammar, lhs, next string, ops []binLevelOp) {
	g.AddProduction(lhs, []string{next}, nil)
	for _, e := range ops {
		op := e.op
		g.AddProduction(lhs, []string{lhs, e.token, next}, func(v []any) (any, error) {
			l, r := exprOf(v[0]), exprOf(v[2])
			return ast.BinOp{Range: span(ast.RangeOf(l), ast.RangeOf(r)), LHS: l, Op: op, RHS: r}, nil
		})
	}
}

func declareExpressions(g *grammar.Grammar) {
	// Expr -> OrExpr | OrExpr WALRUS Expr (right-associative destructive
	// assignment; spec.md 6's "x := e" with its left side checked
	// semantically, not syntactically restricted to a lvalue shape here).
	g.AddProduction(nExpr, []string{nOrExpr}, nil)
	g.AddProduction(nExpr, []string{nOrExpr, tWalrus, nExpr}, func(v []any) (any, error) {
		l, r := exprOf(v[0]), exprOf(v[2])
		return ast.DestructiveAssignment{Range: span(ast.RangeOf(l), ast.RangeOf(r)), LHS: l, RHS: r}, nil
	})

	binLevel(g, nOrExpr, nAndExpr, []binLevelOp{{tOr, ast.OpOr}})
	binLevel(g, nAndExpr, nEqExpr, []binLevelOp{{tAnd, ast.OpAnd}})
	binLevel(g, nEqExpr, nRelExpr, []binLevelOp{{tEq, ast.OpEq}, {tNe, ast.OpNe}})
	binLevel(g, nRelExpr, nConcatExpr, []binLevelOp{{tLt, ast.OpLt}, {tLe, ast.OpLe}, {tGt, ast.OpGt}, {tGe, ast.OpGe}})
	binLevel(g, nConcatExpr, nAddExpr, []binLevelOp{{tAt, ast.OpConcat}, {tAtAt, ast.OpConcatSep}})
	binLevel(g, nAddExpr, nMulExpr, []binLevelOp{{tPlus, ast.OpAdd}, {tMinus, ast.OpSub}})
	binLevel(g, nMulExpr, nUnaryExpr, []binLevelOp{{tStar, ast.OpMul}, {tSlash, ast.OpDiv}, {tDSlash, ast.OpIntDiv}, {tPercent, ast.OpMod}})

	// UnaryExpr -> (PLUS|MINUS|NOT) UnaryExpr | PostfixExpr
	g.AddProduction(nUnaryExpr, []string{nPostfix}, nil)
	unaryOps := []struct {
		token string
		op    ast.UnaryOperator
	}{
		{tPlus, ast.OpPos},
		{tMinus, ast.OpNeg},
		{tNot, ast.OpNot},
	}
	for _, e := range unaryOps {
		op := e.op
		g.AddProduction(nUnaryExpr, []string{e.token, nUnaryExpr}, func(v []any) (any, error) {
			rhs := exprOf(v[1])
			return ast.UnOp{Range: span(tokRange(tok(v[0])), ast.RangeOf(rhs)), Op: op, RHS: rhs}, nil
		})
	}

	declarePostfix(g)
}

func declarePostfix(g *grammar.Grammar) {
	g.AddProduction(nPostfix, []string{nPrimary}, nil)

	// PostfixExpr -> PostfixExpr LBRACK Expr RBRACK
	g.AddProduction(nPostfix, []string{nPostfix, tLBrack, nExpr, tRBrack}, func(v []any) (any, error) {
		base := exprOf(v[0])
		return ast.ListIndexing{Range: span(ast.RangeOf(base), tokRange(tok(v[3]))), Base: base, Index: exprOf(v[2])}, nil
	})

	// PostfixExpr -> PostfixExpr DOT ID
	g.AddProduction(nPostfix, []string{nPostfix, tDot, tIdent}, func(v []any) (any, error) {
		base := exprOf(v[0])
		field := tok(v[2])
		return ast.DataMemberAccess{Range: span(ast.RangeOf(base), tokRange(field)), Base: base, Field: field.Lexeme}, nil
	})

	// PostfixExpr -> PostfixExpr DOT ID LPAREN ArgListOpt RPAREN
	g.AddProduction(nPostfix, []string{nPostfix, tDot, tIdent, tLParen, nArgListOpt, tRParen}, func(v []any) (any, error) {
		base := exprOf(v[0])
		method := tok(v[2])
		return ast.FunctionMemberAccess{
			Range:     span(ast.RangeOf(base), tokRange(tok(v[5]))),
			Base:      base,
			Method:    method.Lexeme,
			Arguments: v[4].([]ast.Expr),
		}, nil
	})
}

// unescapeString decodes a Vela string literal's Lexeme (quotes included)
// per spec.md 6: "String literals use double quotes with \" escape."
func unescapeString(lexeme string) (string, error) {
	if len(lexeme) < 2 || lexeme[0] != '"' || lexeme[len(lexeme)-1] != '"' {
		return "", fmt.Errorf("vela: malformed string literal %q", lexeme)
	}
	body := lexeme[1 : len(lexeme)-1]
	var sb strings.Builder
	for i := 0; i < len(body); i++ {
		if body[i] == '\\' && i+1 < len(body) {
			i++
			switch body[i] {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			default:
				sb.WriteByte(body[i])
			}
			continue
		}
		sb.WriteByte(body[i])
	}
	return sb.String(), nil
}

func declarePrimary(g *grammar.Grammar) {
	g.AddProduction(nPrimary, []string{tNumber}, func(v []any) (any, error) {
		t := tok(v[0])
		f, err := strconv.ParseFloat(t.Lexeme, 64)
		if err != nil {
			return nil, fmt.Errorf("vela: invalid number literal %q: %w", t.Lexeme, err)
		}
		return ast.NumberLiteral{Range: tokRange(t), Value: f}, nil
	})
	g.AddProduction(nPrimary, []string{tString}, func(v []any) (any, error) {
		t := tok(v[0])
		s, err := unescapeString(t.Lexeme)
		if err != nil {
			return nil, err
		}
		return ast.StringLiteral{Range: tokRange(t), Value: s}, nil
	})
	g.AddProduction(nPrimary, []string{tTrue}, func(v []any) (any, error) {
		return ast.BoolLiteral{Range: tokRange(tok(v[0])), Value: true}, nil
	})
	g.AddProduction(nPrimary, []string{tFalse}, func(v []any) (any, error) {
		return ast.BoolLiteral{Range: tokRange(tok(v[0])), Value: false}, nil
	})
	g.AddProduction(nPrimary, []string{tThis}, func(v []any) (any, error) {
		t := tok(v[0])
		return ast.VarRef{Range: tokRange(t), Ident: identOf(t)}, nil
	})
	g.AddProduction(nPrimary, []string{tIdent}, func(v []any) (any, error) {
		t := tok(v[0])
		return ast.VarRef{Range: tokRange(t), Ident: identOf(t)}, nil
	})
	g.AddProduction(nPrimary, []string{tIdent, tLParen, nArgListOpt, tRParen}, func(v []any) (any, error) {
		t := tok(v[0])
		return ast.FunctionCall{
			Range:     span(tokRange(t), tokRange(tok(v[3]))),
			Ident:     identOf(t),
			Arguments: v[2].([]ast.Expr),
		}, nil
	})
	g.AddProduction(nPrimary, []string{tLParen, nExpr, tRParen}, func(v []any) (any, error) {
		return exprOf(v[1]), nil
	})

	g.AddProduction(nPrimary, []string{tNew, tIdent, tLParen, nArgListOpt, tRParen}, func(v []any) (any, error) {
		return ast.NewExpr{
			Range:     span(tokRange(tok(v[0])), tokRange(tok(v[4]))),
			TypeName:  tok(v[1]).Lexeme,
			Arguments: v[3].([]ast.Expr),
		}, nil
	})
	g.AddProduction(nPrimary, []string{tLBrack, nArgListOpt, tRBrack}, func(v []any) (any, error) {
		return ast.ListLiteral{Range: span(tokRange(tok(v[0])), tokRange(tok(v[2]))), Elements: v[1].([]ast.Expr)}, nil
	})
	g.AddProduction(nPrimary, []string{tPrint, tLParen, nExpr, tRParen}, func(v []any) (any, error) {
		return ast.Print{Range: span(tokRange(tok(v[0])), tokRange(tok(v[3]))), Arg: exprOf(v[2])}, nil
	})
	g.AddProduction(nPrimary, []string{nBlock}, nil)

	declareLet(g)
	declareIf(g)
	declareWhile(g)
	declareFor(g)
}

func declareLet(g *grammar.Grammar) {
	g.AddProduction(nPrimary, []string{tLet, nBindings, tIn, nExpr}, func(v []any) (any, error) {
		body := exprOf(v[3])
		return ast.Let{
			Range:    span(tokRange(tok(v[0])), ast.RangeOf(body)),
			Bindings: v[1].([]ast.Assignment),
			Body:     body,
		}, nil
	})
	g.AddProduction(nBindings, []string{nBinding}, func(v []any) (any, error) {
		return []ast.Assignment{v[0].(ast.Assignment)}, nil
	})
	g.AddProduction(nBindings, []string{nBindings, tComma, nBinding}, func(v []any) (any, error) {
		return append(v[0].([]ast.Assignment), v[2].(ast.Assignment)), nil
	})
	g.AddProduction(nBinding, []string{tIdent, tColon, nTypeAnn, tAssign, nExpr}, func(v []any) (any, error) {
		ident := tok(v[0])
		rhs := exprOf(v[4])
		return ast.Assignment{
			Range:      span(tokRange(ident), ast.RangeOf(rhs)),
			Ident:      identOf(ident),
			Annotation: v[2].(ast.TypeAnnotation),
			RHS:        rhs,
		}, nil
	})
}

func declareIf(g *grammar.Grammar) {
	// IfExpr -> IF LPAREN Expr RPAREN Expr ElseClause. The else branch is
	// mandatory (unlike a C-style statement if), so there is no dangling-
	// else ambiguity to resolve: every IF production consumes its own
	// ElseClause, and ELIF/ELSE are distinct tokens, so a single token of
	// lookahead always determines which ElseClause alternative applies.
	g.AddProduction(nPrimary, []string{tIf, tLParen, nExpr, tRParen, nExpr, nElseClause}, func(v []any) (any, error) {
		elseExpr := exprOf(v[5])
		return ast.IfElse{
			Range: span(tokRange(tok(v[0])), ast.RangeOf(elseExpr)),
			Cond:  exprOf(v[2]),
			Then:  exprOf(v[4]),
			Else:  elseExpr,
		}, nil
	})
	g.AddProduction(nElseClause, []string{tElse, nExpr}, func(v []any) (any, error) {
		return exprOf(v[1]), nil
	})
	// ElseClause -> ELIF LPAREN Expr RPAREN Expr ElseClause (elif desugars
	// to a nested IfElse, per SUPPLEMENTED FEATURES).
	g.AddProduction(nElseClause, []string{tElif, tLParen, nExpr, tRParen, nExpr, nElseClause}, func(v []any) (any, error) {
		elseExpr := exprOf(v[5])
		return ast.Expr(ast.IfElse{
			Range: span(tokRange(tok(v[0])), ast.RangeOf(elseExpr)),
			Cond:  exprOf(v[2]),
			Then:  exprOf(v[4]),
			Else:  elseExpr,
		}), nil
	})
}

func declareWhile(g *grammar.Grammar) {
	g.AddProduction(nPrimary, []string{tWhile, tLParen, nExpr, tRParen, nBlock}, func(v []any) (any, error) {
		block := v[4].(ast.Block)
		return ast.While{Range: span(tokRange(tok(v[0])), block.Range), Cond: exprOf(v[2]), Body: block}, nil
	})
}

func declareFor(g *grammar.Grammar) {
	g.AddProduction(nPrimary, []string{tFor, tLParen, tIdent, tIn, nExpr, tRParen, nBlock}, func(v []any) (any, error) {
		block := v[6].(ast.Block)
		return ast.For{
			Range:    span(tokRange(tok(v[0])), block.Range),
			Element:  identOf(tok(v[2])),
			Iterable: exprOf(v[4]),
			Body:     block,
		}, nil
	})
}

func declareBlock(g *grammar.Grammar) {
	// Block -> LBRACE BodyItems ExtraSemi RBRACE
	g.AddProduction(nBlock, []string{tLBrace, nBodyItems, nExtraSemi, tRBrace}, func(v []any) (any, error) {
		return ast.Block{
			Range:              span(tokRange(tok(v[0])), tokRange(tok(v[3]))),
			Items:              v[1].([]ast.Expr),
			TrailingSemicolons: v[2].(int) > 0,
		}, nil
	})

	g.AddProduction(nBodyItems, nil, func(v []any) (any, error) { return []ast.Expr{}, nil })
	g.AddProduction(nBodyItems, []string{nItemSeq}, nil)
	g.AddProduction(nItemSeq, []string{nBodyItem, tSemi}, func(v []any) (any, error) {
		return []ast.Expr{exprOf(v[0])}, nil
	})
	g.AddProduction(nItemSeq, []string{nItemSeq, nBodyItem, tSemi}, func(v []any) (any, error) {
		return append(v[0].([]ast.Expr), exprOf(v[1])), nil
	})

	g.AddProduction(nBodyItem, []string{nExpr}, nil)
	g.AddProduction(nBodyItem, []string{tReturn, nExpr}, func(v []any) (any, error) {
		val := exprOf(v[1])
		return ast.Expr(ast.ReturnStatement{Range: span(tokRange(tok(v[0])), ast.RangeOf(val)), Value: val}), nil
	})

	g.AddProduction(nExtraSemi, nil, func(v []any) (any, error) { return 0, nil })
	g.AddProduction(nExtraSemi, []string{nExtraSemi, tSemi}, func(v []any) (any, error) {
		return v[0].(int) + 1, nil
	})
}
