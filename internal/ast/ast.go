// Package ast defines the tagged-union abstract syntax tree the parser
// driver builds and the semantic analyzer annotates in place (spec.md
// section 3: "AST. A sum of nodes").
//
// Grounded on original_source/ast/src/ast/** (the Rust original's
// Expression/Definition enums and their per-file struct payloads —
// bin_op.rs, let_in/*.rs, loops/for_exp.rs, new_expr.rs, definitions/types/
// type_def.rs, etc.) and on the teacher's internal/ictiobus/types.Node
// convention of "every node carries its source range"; unlike the Rust
// original's enum-with-struct-variants and unlike the teacher's single
// untyped ParseTree, nodes here are distinct Go struct types behind two
// marker interfaces (Expr, Def), which is the idiomatic Go rendering of a
// tagged union (the same shape go/ast itself uses).
package ast

// Range is a node's source extent, byte offsets into the original input
// (spec.md section 3: "Every node carries at least its source range").
type Range struct {
	Start int
	End   int
}

// TypeAnnotation is the sum described in spec.md section 3: a built-in
// name, a user-defined name, an iterable-of wrapper, a functor shape, or
// the absence of an annotation ("unknown").
type TypeAnnotation struct {
	Kind    TypeKind
	Name    string          // Builtin/UserDefined
	Inner   *TypeAnnotation // IterableOf
	Params  []TypeAnnotation // Functor
	Return  *TypeAnnotation  // Functor
}

type TypeKind int

const (
	TypeUnknown TypeKind = iota
	TypeBuiltin
	TypeUserDefined
	TypeIterableOf
	TypeFunctor
)

// Built-in type names (spec.md section 3).
const (
	Number = "Number"
	String = "String"
	Bool   = "Bool"
	Object = "Object"
)

func (t TypeAnnotation) String() string {
	switch t.Kind {
	case TypeBuiltin, TypeUserDefined:
		return t.Name
	case TypeIterableOf:
		if t.Inner == nil {
			return "[?]"
		}
		return "[" + t.Inner.String() + "]"
	case TypeFunctor:
		s := "("
		for i, p := range t.Params {
			if i > 0 {
				s += ", "
			}
			s += p.String()
		}
		s += ")"
		ret := "Object"
		if t.Return != nil {
			ret = t.Return.String()
		}
		return s + " -> " + ret
	default:
		return "?"
	}
}

// Identifier is a name reference site. Unresolved until Pass C of the
// checker fills in Type and ContextID (spec.md section 3: "identifiers
// additionally carry a context-id... and a resolved type annotation").
type Identifier struct {
	Range     Range
	Name      string
	Type      TypeAnnotation
	ContextID int
}

// BinaryOperator and UnaryOperator enumerate the operator tokens spec.md
// section 4.5's functor table assigns contracts to.
type BinaryOperator int

const (
	OpAdd BinaryOperator = iota
	OpSub
	OpMul
	OpDiv
	OpIntDiv
	OpMod
	OpLt
	OpLe
	OpGt
	OpGe
	OpEq
	OpNe
	OpAnd
	OpOr
	OpConcat    // @
	OpConcatSep // @@
)

type UnaryOperator int

const (
	OpNeg UnaryOperator = iota
	OpPos
	OpNot
)

// Program is def* expression+ (spec.md 6: "a program is def* expression+").
type Program struct {
	Range       Range
	Defs        []Def
	Expressions []Expr
}
