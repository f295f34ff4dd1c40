package ast

// Def is the marker interface every top-level definition node implements
// (spec.md section 3's definition sum).
type Def interface {
	defRange() Range
	isDef()
}

func DefRangeOf(d Def) Range { return d.defRange() }

// Param is one annotated parameter of a function or type constructor.
type Param struct {
	Ident      Identifier
	Annotation TypeAnnotation
}

// InheritanceIndicator is a type definition's `inherits P(args)` clause
// (original_source's definitions/types/inheritance_indicator.rs).
type InheritanceIndicator struct {
	Range        Range
	ParentName   string
	ArgumentList []Expr
}

// DataMemberDef is a type body's `field = e;` (original_source's
// definitions/types/data_member_def.rs).
type DataMemberDef struct {
	Range        Range
	Ident        Identifier
	DefaultValue Expr
}

// FunctionBody is either an arrow-expression or a block body (spec.md
// section 3: "body as either arrow-expression or block").
type FunctionBody struct {
	IsBlock  bool
	Arrow    Expr // set when !IsBlock
	BlockVal *Block // set when IsBlock
}

// FunctionDef is `function f(params): R => e;` or `function f(params): R {
// body }`, used both at the top level and as a type's method member.
type FunctionDef struct {
	Range      Range
	Ident      Identifier
	Params     []Param
	ReturnType TypeAnnotation
	Body       FunctionBody
}

// TypeDef is `type T(params) inherits P(args) { members }` (original_source's
// definitions/types/type_def.rs).
type TypeDef struct {
	Range        Range
	Name         string
	Params       []Param
	Inheritance  *InheritanceIndicator // nil means parent is Object
	DataMembers  []DataMemberDef
	Methods      []FunctionDef
}

// ConstantDef is `constant NAME: T = e;` (SUPPLEMENTED FEATURES: checked
// against its declared annotation, not merely parsed).
type ConstantDef struct {
	Range      Range
	Name       string
	Annotation TypeAnnotation
	Value      Expr
}

// FunctionSignature is one `sig(x:T): R;` line of a protocol body
// (original_source's definitions/protocols/function_signature.rs).
type FunctionSignature struct {
	Range      Range
	Name       string
	Params     []Param
	ReturnType TypeAnnotation
}

// ProtocolDef is `protocol P extends Q { sig(x:T): R; }` (original_source's
// definitions/protocols/protocol_def.rs). Extends is empty when the
// protocol declares no extends clause.
type ProtocolDef struct {
	Range      Range
	Name       string
	Extends    []string
	Signatures []FunctionSignature
}

func (TypeDef) isDef()     {}
func (FunctionDef) isDef() {}
func (ConstantDef) isDef() {}
func (ProtocolDef) isDef() {}

func (d TypeDef) defRange() Range     { return d.Range }
func (d FunctionDef) defRange() Range { return d.Range }
func (d ConstantDef) defRange() Range { return d.Range }
func (d ProtocolDef) defRange() Range { return d.Range }
