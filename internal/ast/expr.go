package ast

// Expr is the marker interface every expression node implements (spec.md
// section 3's expression sum). isExpr is unexported so only this package
// can add variants.
type Expr interface {
	exprRange() Range
	isExpr()
}

func RangeOf(e Expr) Range { return e.exprRange() }

// NumberLiteral is a `[0-9]+(\.[0-9]+)?` literal (spec.md section 6),
// already parsed to its float64 value.
type NumberLiteral struct {
	Range Range
	Value float64
	Type  TypeAnnotation
}

// StringLiteral is a double-quoted string literal with \" already unescaped.
type StringLiteral struct {
	Range Range
	Value string
	Type  TypeAnnotation
}

// BoolLiteral is `true` or `false`.
type BoolLiteral struct {
	Range Range
	Value bool
	Type  TypeAnnotation
}

// VarRef is a bare identifier used as an expression (original_source's
// ast::atoms::variable::Variable).
type VarRef struct {
	Range Range
	Ident Identifier
}

// BinOp is lhs op rhs (original_source's ast::expressions::bin_op::BinOp).
type BinOp struct {
	Range Range
	LHS   Expr
	Op    BinaryOperator
	RHS   Expr
	Type  TypeAnnotation
}

// UnOp is op rhs (original_source's ast::expressions::unary_op::UnOp).
type UnOp struct {
	Range Range
	Op    UnaryOperator
	RHS   Expr
	Type  TypeAnnotation
}

// Assignment is one binding of a Let (original_source's
// ast::atoms::let_in::Assignment): `x:T = e`.
type Assignment struct {
	Range      Range
	Ident      Identifier
	Annotation TypeAnnotation
	RHS        Expr
}

// Let is `let b1, b2, ... in body` (spec.md section 3: "let with a single
// binding chained for multiple bindings" — Bindings holds every binding in
// source order, grounded on original_source's LetIn which nests one
// Assignment per level but is flattened here since the checker processes
// them strictly in order anyway).
type Let struct {
	Range    Range
	Bindings []Assignment
	Body     Expr
	Type     TypeAnnotation
}

// IfElse is `if (cond) then else else`, with an optional elif chain already
// desugared into nested IfElse nodes in Else (SUPPLEMENTED FEATURES: elif
// desugars to nested if/else, grounded on original_source/parser/src/
// parser.rs's if_else production).
type IfElse struct {
	Range Range
	Cond  Expr
	Then  Expr
	Else  Expr // else/elif branch; the grammar requires one, so never nil after parsing
	Type  TypeAnnotation
}

// While is `while (cond) { body }`.
type While struct {
	Range Range
	Cond  Expr
	Body  Expr
	Type  TypeAnnotation
}

// For is `for (element in iterable) { body }` (original_source's
// ast::expressions::loops::for_exp::For).
type For struct {
	Range    Range
	Element  Identifier
	Iterable Expr
	Body     Expr
	Type     TypeAnnotation
}

// Print is the builtin `print(e)` call (SUPPLEMENTED FEATURES:
// original_source/ast/src/ast/atoms/print.rs types it as a first-class node
// rather than an ordinary FunctionCall).
type Print struct {
	Range Range
	Arg   Expr
	Type  TypeAnnotation
}

// FunctionCall is `f(args...)` (original_source's
// ast::expressions::function_call::FunctionCall).
type FunctionCall struct {
	Range     Range
	Ident     Identifier
	Arguments []Expr
	Type      TypeAnnotation
}

// NewExpr is `new T(args...)` (original_source's
// ast::expressions::new_expr::NewExpr).
type NewExpr struct {
	Range     Range
	TypeName  string
	Arguments []Expr
	Type      TypeAnnotation
}

// ListLiteral is `[e1, e2, ...]`.
type ListLiteral struct {
	Range    Range
	Elements []Expr
	Type     TypeAnnotation
}

// ListIndexing is `e[i]` (original_source's
// ast::expressions::list_indexing::ListIndexing).
type ListIndexing struct {
	Range Range
	Base  Expr
	Index Expr
	Type  TypeAnnotation
}

// DataMemberAccess is `e.field` (original_source's member_access/
// data_member.rs).
type DataMemberAccess struct {
	Range Range
	Base  Expr
	Field string
	Type  TypeAnnotation
}

// FunctionMemberAccess is `e.method(args...)` (original_source's
// member_access/function_member.rs).
type FunctionMemberAccess struct {
	Range     Range
	Base      Expr
	Method    string
	Arguments []Expr
	Type      TypeAnnotation
}

// DestructiveAssignment is `lvalue := e` (original_source's
// ast::expressions::destructive_assignment).
type DestructiveAssignment struct {
	Range Range
	LHS   Expr // VarRef or DataMemberAccess on `this`
	RHS   Expr
	Type  TypeAnnotation
}

// ReturnStatement is a `return e;` body item inside a Block.
type ReturnStatement struct {
	Range Range
	Value Expr
}

// Block is `{ item1; item2; ... }` (original_source's
// ast::expressions::block::Block). TrailingSemicolons records whether the
// body ended with more than one semicolon, spec.md section 3's
// "multiple-trailing-semicolons flag".
type Block struct {
	Range               Range
	Items               []Expr
	TrailingSemicolons  bool
	Type                TypeAnnotation
}

func (NumberLiteral) isExpr()           {}
func (StringLiteral) isExpr()           {}
func (BoolLiteral) isExpr()             {}
func (VarRef) isExpr()                  {}
func (BinOp) isExpr()                   {}
func (UnOp) isExpr()                    {}
func (Let) isExpr()                     {}
func (IfElse) isExpr()                  {}
func (While) isExpr()                   {}
func (For) isExpr()                     {}
func (Print) isExpr()                   {}
func (FunctionCall) isExpr()            {}
func (NewExpr) isExpr()                 {}
func (ListLiteral) isExpr()             {}
func (ListIndexing) isExpr()            {}
func (DataMemberAccess) isExpr()        {}
func (FunctionMemberAccess) isExpr()    {}
func (DestructiveAssignment) isExpr()   {}
func (ReturnStatement) isExpr()         {}
func (Block) isExpr()                   {}

func (n NumberLiteral) exprRange() Range         { return n.Range }
func (n StringLiteral) exprRange() Range         { return n.Range }
func (n BoolLiteral) exprRange() Range           { return n.Range }
func (n VarRef) exprRange() Range                { return n.Range }
func (n BinOp) exprRange() Range                 { return n.Range }
func (n UnOp) exprRange() Range                  { return n.Range }
func (n Let) exprRange() Range                   { return n.Range }
func (n IfElse) exprRange() Range                { return n.Range }
func (n While) exprRange() Range                 { return n.Range }
func (n For) exprRange() Range                   { return n.Range }
func (n Print) exprRange() Range                 { return n.Range }
func (n FunctionCall) exprRange() Range          { return n.Range }
func (n NewExpr) exprRange() Range               { return n.Range }
func (n ListLiteral) exprRange() Range           { return n.Range }
func (n ListIndexing) exprRange() Range          { return n.Range }
func (n DataMemberAccess) exprRange() Range       { return n.Range }
func (n FunctionMemberAccess) exprRange() Range   { return n.Range }
func (n DestructiveAssignment) exprRange() Range  { return n.Range }
func (n ReturnStatement) exprRange() Range        { return n.Range }
func (n Block) exprRange() Range                  { return n.Range }
