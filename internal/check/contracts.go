// Package check implements the semantic analyzer: Pass A registers every
// top-level definition into a type registry, Pass B builds the inheritance
// tree and its LCA index, and Pass C walks expressions with a scope.Stack,
// annotating identifiers with their resolved type and owning frame
// ("context id") and emitting diag.Diagnostic values for every rule
// violation spec.md section 4.4 names.
//
// Grounded on original_source/semantic_analyzer/src/{type_definer_visitor.rs,
// visitors/semantic_visitor/*.rs}: find_member_info.rs (exact-type-only
// field lookup — fields are private, never inherited for reading),
// find_method_info.rs (method lookup walks the parent chain), get_conformable.rs
// (the "is this annotation a defined type or protocol" check, generalized
// here into Conforms's structural rule), and function_call.rs (check
// arguments, then set the call's result type from the callee's return type).
package check

import "github.com/velalang/velac/internal/ast"

// BinaryContract is one row of spec.md 4.4's operator functor table: the
// parameter types both operands must conform to, and the operator's result
// type.
type BinaryContract struct {
	Left, Right ast.TypeAnnotation
	Result      ast.TypeAnnotation
}

// UnaryContract is the unary analog of BinaryContract.
type UnaryContract struct {
	Operand ast.TypeAnnotation
	Result  ast.TypeAnnotation
}

func builtin(name string) ast.TypeAnnotation {
	return ast.TypeAnnotation{Kind: ast.TypeBuiltin, Name: name}
}

var objectType = builtin(ast.Object)
var numberType = builtin(ast.Number)
var stringType = builtin(ast.String)
var boolType = builtin(ast.Bool)

// BinaryContracts is spec.md 4.4's operator functor table for every binary
// operator.
var BinaryContracts = map[ast.BinaryOperator]BinaryContract{
	ast.OpAdd:    {numberType, numberType, numberType},
	ast.OpSub:    {numberType, numberType, numberType},
	ast.OpMul:    {numberType, numberType, numberType},
	ast.OpDiv:    {numberType, numberType, numberType},
	ast.OpIntDiv: {numberType, numberType, numberType},
	ast.OpMod:    {numberType, numberType, numberType},
	ast.OpLt:     {numberType, numberType, boolType},
	ast.OpLe:     {numberType, numberType, boolType},
	ast.OpGt:     {numberType, numberType, boolType},
	ast.OpGe:     {numberType, numberType, boolType},
	ast.OpEq:     {objectType, objectType, boolType},
	ast.OpNe:     {objectType, objectType, boolType},
	ast.OpAnd:    {boolType, boolType, boolType},
	ast.OpOr:     {boolType, boolType, boolType},
	ast.OpConcat:    {objectType, objectType, stringType},
	ast.OpConcatSep: {objectType, objectType, stringType},
}

// UnaryContracts is spec.md 4.4's operator functor table for every unary
// operator.
var UnaryContracts = map[ast.UnaryOperator]UnaryContract{
	ast.OpPos: {numberType, numberType},
	ast.OpNeg: {numberType, numberType},
	ast.OpNot: {boolType, boolType},
}

// binOpName renders a binary operator for a diagnostic message.
func binOpName(op ast.BinaryOperator) string {
	switch op {
	case ast.OpAdd:
		return "+"
	case ast.OpSub:
		return "-"
	case ast.OpMul:
		return "*"
	case ast.OpDiv:
		return "/"
	case ast.OpIntDiv:
		return "//"
	case ast.OpMod:
		return "%"
	case ast.OpLt:
		return "<"
	case ast.OpLe:
		return "<="
	case ast.OpGt:
		return ">"
	case ast.OpGe:
		return ">="
	case ast.OpEq:
		return "=="
	case ast.OpNe:
		return "!="
	case ast.OpAnd:
		return "&&"
	case ast.OpOr:
		return "||"
	case ast.OpConcat:
		return "@"
	case ast.OpConcatSep:
		return "@@"
	default:
		return "?"
	}
}

func unOpName(op ast.UnaryOperator) string {
	switch op {
	case ast.OpPos:
		return "+"
	case ast.OpNeg:
		return "-"
	case ast.OpNot:
		return "!"
	default:
		return "?"
	}
}
