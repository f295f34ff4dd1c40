package check

import (
	"github.com/velalang/velac/internal/ast"
	"github.com/velalang/velac/internal/diag"
	"github.com/velalang/velac/internal/scope"
	"github.com/velalang/velac/internal/types"
)

// Checker runs Pass C: it walks every expression reachable from a Program,
// resolving identifiers through a scope.Stack and checking each
// expression's operands against spec.md 4.4's rules, annotating every node
// with its resolved TypeAnnotation (and every Identifier with its owning
// frame) along the way.
//
// Grounded on original_source/semantic_analyzer/src/visitors/semantic_visitor/*:
// get_conformable.rs generalized into Conforms, find_member_info.rs
// (exact-type-only field lookup), find_method_info.rs (parent-chain method
// lookup), and function_call.rs (check args, then set the call's type from
// the callee's return type).
type Checker struct {
	defs   *Definitions
	scope  *scope.Stack
	bag    *diag.Bag

	// currentTypeName is the exact type whose method body is currently
	// being checked ("" outside any method), gating `this.field` access
	// (find_member_info.rs's field lookup never walks the parent chain,
	// so a subtype's own methods cannot see a parent's fields either).
	currentTypeName string

	// currentReturn is the declared return type of the function or method
	// body currently being checked, or nil outside one.
	currentReturn *ast.TypeAnnotation
}

// Check runs Pass A, B, and C over prog and returns every diagnostic
// raised. Each checked top-level expression is written back into
// prog.Expressions, which shares its backing array with the caller's slice,
// so those annotations are visible to the caller. prog.Defs is never written
// to: Define records copies of each definition, and annotations made while
// checking them reach the caller only where a copy shares memory with the
// original (a block body's *Block, a type's Methods slice).
func Check(prog ast.Program) *diag.Bag {
	defs, bag := Define(prog)
	if defs.Tree == nil {
		// Pass B failed outright (a cycle or undefined parent) — the type
		// graph isn't usable for Conforms/LCA, so Pass C would just cascade
		// nonsense errors on top of the real one.
		return bag
	}

	c := &Checker{defs: defs, scope: scope.New(), bag: bag}
	c.bindGlobals()
	c.checkMemberDefaults()
	c.checkFunctionBodies()

	for i := range prog.Expressions {
		prog.Expressions[i] = c.CheckExpr(prog.Expressions[i])
	}
	return bag
}

func (c *Checker) bindGlobals() {
	for name, fn := range c.defs.Functions {
		c.scope.Define(name, functorTypeOf(fn.Params, fn.Return))
	}
	for name, k := range c.defs.Constants {
		val := c.CheckExpr(k.Value)
		k.Value = val
		vt := exprType(val)
		if k.Annotation.Kind != ast.TypeUnknown && !Conforms(c.defs.Tree, vt, k.Annotation) {
			c.bag.Addf(diag.VarDefinitionTypeMismatch, pos(ast.RangeOf(k.Value)),
				"constant %q's value does not conform to its declared type", name)
		}
		declType := k.Annotation
		if declType.Kind == ast.TypeUnknown {
			declType = vt
		}
		c.scope.Define(name, declType)
	}
}

func functorTypeOf(params []ast.TypeAnnotation, ret ast.TypeAnnotation) ast.TypeAnnotation {
	r := ret
	return ast.TypeAnnotation{Kind: ast.TypeFunctor, Params: params, Return: &r}
}

// checkMemberDefaults type-checks every registered type's field default
// values, in parent-before-child order, binding each type's own
// constructor parameters (but not `this` — default values run before an
// instance exists) and writing the resolved type back into the registry so
// later member-access checks have something other than TypeUnknown to
// consult.
func (c *Checker) checkMemberDefaults() {
	order := types.TopologicalSort(c.defs.Tree.Graph, c.defs.Tree.Root)
	for _, node := range order {
		name := c.defs.Tree.NameOf(node)
		d, ok := c.defs.TypeDefs[name]
		if !ok {
			continue
		}
		info, _ := c.defs.Types.Lookup(name)

		c.scope.Push(false)
		for _, p := range d.Params {
			c.scope.Define(p.Ident.Name, p.Annotation)
		}
		for i := range d.DataMembers {
			m := &d.DataMembers[i]
			val := c.CheckExpr(m.DefaultValue)
			m.DefaultValue = val
			vt := exprType(val)
			m.Ident.Type = vt
			if existing, ok := info.Members[m.Ident.Name]; ok {
				existing.Type = vt
				info.Members[m.Ident.Name] = existing
			}
		}
		c.scope.Pop()
	}
}

// checkFunctionBodies checks every top-level function and every type's
// method bodies, each in its own isolated frame with its parameters (and,
// for methods, `this`) bound.
func (c *Checker) checkFunctionBodies() {
	for _, fn := range c.defs.Functions {
		c.checkFunctionDef(fn.Def, "")
	}
	for typeName, d := range c.defs.TypeDefs {
		for i := range d.Methods {
			c.checkFunctionDef(&d.Methods[i], typeName)
		}
	}
}

func (c *Checker) checkFunctionDef(d *ast.FunctionDef, ownerType string) {
	prevType, prevRet := c.currentTypeName, c.currentReturn
	c.currentTypeName = ownerType
	ret := d.ReturnType
	c.currentReturn = &ret

	c.scope.Push(false)
	if ownerType != "" {
		c.scope.Define("this", ast.TypeAnnotation{Kind: ast.TypeUserDefined, Name: ownerType})
	}
	for _, p := range d.Params {
		c.scope.Define(p.Ident.Name, p.Annotation)
	}

	var bodyTy ast.TypeAnnotation
	if d.Body.IsBlock {
		blk := c.CheckExpr(*d.Body.BlockVal)
		b := blk.(ast.Block)
		d.Body.BlockVal = &b
		bodyTy = b.Type
	} else {
		e := c.CheckExpr(d.Body.Arrow)
		d.Body.Arrow = e
		bodyTy = exprType(e)
	}
	if !Conforms(c.defs.Tree, bodyTy, d.ReturnType) {
		c.bag.Addf(diag.ReturnTypeMismatch, pos(d.Range),
			"%q's body does not conform to its declared return type", d.Ident.Name)
	}

	c.scope.Pop()
	c.currentTypeName, c.currentReturn = prevType, prevRet
}

// ExprType reads a checked node's resolved type annotation — exported for
// callers outside this package (cmd/velac's REPL reports a checked
// expression's type back to the user).
func ExprType(e ast.Expr) ast.TypeAnnotation {
	return exprType(e)
}

// exprType reads a checked node's resolved annotation off whichever field
// carries it; VarRef and ReturnStatement have no Type field of their own
// (a bare name's type lives on its Identifier, and a return statement's
// type is simply its value's).
func exprType(e ast.Expr) ast.TypeAnnotation {
	switch n := e.(type) {
	case ast.NumberLiteral:
		return n.Type
	case ast.StringLiteral:
		return n.Type
	case ast.BoolLiteral:
		return n.Type
	case ast.VarRef:
		return n.Ident.Type
	case ast.BinOp:
		return n.Type
	case ast.UnOp:
		return n.Type
	case ast.Let:
		return n.Type
	case ast.IfElse:
		return n.Type
	case ast.While:
		return n.Type
	case ast.For:
		return n.Type
	case ast.Print:
		return n.Type
	case ast.FunctionCall:
		return n.Type
	case ast.NewExpr:
		return n.Type
	case ast.ListLiteral:
		return n.Type
	case ast.ListIndexing:
		return n.Type
	case ast.DataMemberAccess:
		return n.Type
	case ast.FunctionMemberAccess:
		return n.Type
	case ast.DestructiveAssignment:
		return n.Type
	case ast.ReturnStatement:
		return exprType(n.Value)
	case ast.Block:
		return n.Type
	default:
		return ast.TypeAnnotation{}
	}
}
