package check

import (
	"github.com/velalang/velac/internal/ast"
	"github.com/velalang/velac/internal/diag"
)

// CheckExpr checks e and every expression it contains, returning e with
// every Type (and every Identifier's Type/ContextID) field filled in.
func (c *Checker) CheckExpr(e ast.Expr) ast.Expr {
	switch n := e.(type) {
	case ast.NumberLiteral:
		n.Type = numberType
		return n
	case ast.StringLiteral:
		n.Type = stringType
		return n
	case ast.BoolLiteral:
		n.Type = boolType
		return n
	case ast.VarRef:
		return c.checkVarRef(n)
	case ast.BinOp:
		return c.checkBinOp(n)
	case ast.UnOp:
		return c.checkUnOp(n)
	case ast.Let:
		return c.checkLet(n)
	case ast.IfElse:
		return c.checkIfElse(n)
	case ast.While:
		return c.checkWhile(n)
	case ast.For:
		return c.checkFor(n)
	case ast.Print:
		arg := c.CheckExpr(n.Arg)
		n.Arg = arg
		n.Type = exprType(arg)
		return n
	case ast.FunctionCall:
		return c.checkFunctionCall(n)
	case ast.NewExpr:
		return c.checkNewExpr(n)
	case ast.ListLiteral:
		return c.checkListLiteral(n)
	case ast.ListIndexing:
		return c.checkListIndexing(n)
	case ast.DataMemberAccess:
		return c.checkDataMemberAccess(n)
	case ast.FunctionMemberAccess:
		return c.checkFunctionMemberAccess(n)
	case ast.DestructiveAssignment:
		return c.checkDestructiveAssignment(n)
	case ast.ReturnStatement:
		n.Value = c.CheckExpr(n.Value)
		if c.currentReturn != nil && !Conforms(c.defs.Tree, exprType(n.Value), *c.currentReturn) {
			c.bag.Addf(diag.ReturnTypeMismatch, pos(n.Range), "returned value does not conform to the enclosing function's return type")
		}
		return n
	case ast.Block:
		return c.checkBlock(n)
	default:
		return e
	}
}

// checkVarRef resolves n against the current frame chain first, then falls
// back to the global constant table. A constant is bound in the root frame
// (bindGlobals), but root is unreachable from a function/method body or a
// field default's frame (those push canAccessParents=false, so Lookup never
// walks up to it) — matching global_def_info.rs, where a global constant is
// looked up independently of the current scope's lexical visibility rather
// than being just another frame entry.
func (c *Checker) checkVarRef(n ast.VarRef) ast.Expr {
	if ty, frame, ok := c.scope.Lookup(n.Ident.Name); ok {
		n.Ident.Type = ty
		n.Ident.ContextID = int(frame)
		return n
	}
	if k, ok := c.defs.Constants[n.Ident.Name]; ok {
		ty := k.Annotation
		if ty.Kind == ast.TypeUnknown {
			ty = exprType(k.Value)
		}
		n.Ident.Type = ty
		return n
	}
	c.bag.Addf(diag.UndefinedVariable, pos(n.Range), "undefined variable %q", n.Ident.Name)
	n.Ident.Type = ast.TypeAnnotation{}
	return n
}

func (c *Checker) checkBinOp(n ast.BinOp) ast.Expr {
	lhs := c.CheckExpr(n.LHS)
	rhs := c.CheckExpr(n.RHS)
	n.LHS, n.RHS = lhs, rhs

	contract, ok := BinaryContracts[n.Op]
	if !ok {
		return n
	}
	lt, rt := exprType(lhs), exprType(rhs)
	if !Conforms(c.defs.Tree, lt, contract.Left) || !Conforms(c.defs.Tree, rt, contract.Right) {
		c.bag.Addf(diag.BinOpInvalidOperands, pos(n.Range),
			"operator %s cannot be applied to %s and %s", binOpName(n.Op), lt, rt)
	}
	n.Type = contract.Result
	return n
}

func (c *Checker) checkUnOp(n ast.UnOp) ast.Expr {
	rhs := c.CheckExpr(n.RHS)
	n.RHS = rhs

	contract, ok := UnaryContracts[n.Op]
	if !ok {
		return n
	}
	rt := exprType(rhs)
	if !Conforms(c.defs.Tree, rt, contract.Operand) {
		c.bag.Addf(diag.UnOpInvalidOperands, pos(n.Range), "operator %s cannot be applied to %s", unOpName(n.Op), rt)
	}
	n.Type = contract.Result
	return n
}

func (c *Checker) checkLet(n ast.Let) ast.Expr {
	c.scope.Push(true)
	for i := range n.Bindings {
		b := &n.Bindings[i]
		rhs := c.CheckExpr(b.RHS)
		b.RHS = rhs
		rt := exprType(rhs)

		if b.Annotation.Kind != ast.TypeUnknown && !Conforms(c.defs.Tree, rt, b.Annotation) {
			c.bag.Addf(diag.VarDefinitionTypeMismatch, pos(b.Range),
				"binding %q's value does not conform to its annotation", b.Ident.Name)
		}
		declType := b.Annotation
		if declType.Kind == ast.TypeUnknown {
			declType = rt
		}
		frame, ok := c.scope.Define(b.Ident.Name, declType)
		if !ok {
			c.bag.Addf(diag.VarAlreadyDefined, pos(b.Range), "%q is already defined in this scope", b.Ident.Name)
		}
		b.Ident.Type = declType
		b.Ident.ContextID = int(frame)
	}
	body := c.CheckExpr(n.Body)
	n.Body = body
	n.Type = exprType(body)
	c.scope.Pop()
	return n
}

func (c *Checker) checkIfElse(n ast.IfElse) ast.Expr {
	cond := c.CheckExpr(n.Cond)
	n.Cond = cond
	if !Conforms(c.defs.Tree, exprType(cond), boolType) {
		c.bag.Addf(diag.InvalidCondition, pos(n.Range), "if condition must be Bool, got %s", exprType(cond))
	}

	then := c.CheckExpr(n.Then)
	n.Then = then
	thenTy := exprType(then)

	if n.Else != nil {
		els := c.CheckExpr(n.Else)
		n.Else = els
		n.Type = c.join(thenTy, exprType(els))
	} else {
		n.Type = thenTy
	}
	return n
}

// join is the LCA-based result type of an if/else whose branches disagree
// (spec.md 4.4: "the if/else result type is the LCA of the then and else
// branch types"). Two different nominal types fall back to the common
// ancestor via the Tree's LCA; anything else falls back to Object.
func (c *Checker) join(a, b ast.TypeAnnotation) ast.TypeAnnotation {
	if isNominal(a) && isNominal(b) {
		if a.Name == b.Name {
			return a
		}
		if c.defs.Tree != nil {
			an, ok1 := c.defs.Tree.NodeOf(a.Name)
			bn, ok2 := c.defs.Tree.NodeOf(b.Name)
			if ok1 && ok2 {
				lca := c.defs.Tree.LCA.Query(an, bn)
				return ast.TypeAnnotation{Kind: ast.TypeUserDefined, Name: c.defs.Tree.NameOf(lca)}
			}
		}
	}
	return objectType
}

func (c *Checker) checkWhile(n ast.While) ast.Expr {
	cond := c.CheckExpr(n.Cond)
	n.Cond = cond
	if !Conforms(c.defs.Tree, exprType(cond), boolType) {
		c.bag.Addf(diag.InvalidCondition, pos(n.Range), "while condition must be Bool, got %s", exprType(cond))
	}
	body := c.CheckExpr(n.Body)
	n.Body = body
	n.Type = exprType(body)
	return n
}

func (c *Checker) checkFor(n ast.For) ast.Expr {
	iter := c.CheckExpr(n.Iterable)
	n.Iterable = iter
	it := exprType(iter)

	elemTy := objectType
	if it.Kind != ast.TypeIterableOf {
		c.bag.Addf(diag.NonIterableType, pos(n.Range), "for's iterable expression has non-iterable type %s", it)
	} else if it.Inner != nil {
		elemTy = *it.Inner
	}

	c.scope.Push(true)
	frame, _ := c.scope.Define(n.Element.Name, elemTy)
	n.Element.Type = elemTy
	n.Element.ContextID = int(frame)

	body := c.CheckExpr(n.Body)
	n.Body = body
	n.Type = exprType(body)
	c.scope.Pop()
	return n
}

func (c *Checker) checkFunctionCall(n ast.FunctionCall) ast.Expr {
	args := make([]ast.Expr, len(n.Arguments))
	argTypes := make([]ast.TypeAnnotation, len(n.Arguments))
	for i, a := range n.Arguments {
		args[i] = c.CheckExpr(a)
		argTypes[i] = exprType(args[i])
	}
	n.Arguments = args

	if fn, ok := c.defs.Functions[n.Ident.Name]; ok {
		checkArgs(c, n.Range, n.Ident.Name, fn.Params, argTypes)
		n.Ident.Type = functorTypeOf(fn.Params, fn.Return)
		n.Type = fn.Return
		return n
	}

	if ty, frame, ok := c.scope.Lookup(n.Ident.Name); ok && ty.Kind == ast.TypeFunctor {
		checkArgs(c, n.Range, n.Ident.Name, ty.Params, argTypes)
		n.Ident.Type = ty
		n.Ident.ContextID = int(frame)
		if ty.Return != nil {
			n.Type = *ty.Return
		} else {
			n.Type = objectType
		}
		return n
	}

	c.bag.Addf(diag.UndefinedFunction, pos(n.Range), "undefined function %q", n.Ident.Name)
	return n
}

func checkArgs(c *Checker, rng ast.Range, name string, params []ast.TypeAnnotation, args []ast.TypeAnnotation) {
	if len(params) != len(args) {
		c.bag.Addf(diag.FuncParamsInvalidAmount, pos(rng),
			"%q expects %d argument(s), got %d", name, len(params), len(args))
		return
	}
	for i, want := range params {
		if !Conforms(c.defs.Tree, args[i], want) {
			c.bag.Addf(diag.FuncParamInvalidType, pos(rng),
				"%q's argument %d does not conform to %s", name, i+1, want)
		}
	}
}

func (c *Checker) checkNewExpr(n ast.NewExpr) ast.Expr {
	args := make([]ast.Expr, len(n.Arguments))
	argTypes := make([]ast.TypeAnnotation, len(n.Arguments))
	for i, a := range n.Arguments {
		args[i] = c.CheckExpr(a)
		argTypes[i] = exprType(args[i])
	}
	n.Arguments = args
	n.Type = ast.TypeAnnotation{Kind: ast.TypeUserDefined, Name: n.TypeName}

	info, ok := c.defs.Types.Lookup(n.TypeName)
	if !ok {
		c.bag.Addf(diag.UndefinedTypeOrProtocol, pos(n.Range), "undefined type %q", n.TypeName)
		return n
	}
	if len(info.Params) != len(argTypes) {
		c.bag.Addf(diag.TypeParamsInvalidAmount, pos(n.Range),
			"%q's constructor expects %d argument(s), got %d", n.TypeName, len(info.Params), len(argTypes))
		return n
	}
	for i, want := range info.Params {
		if !Conforms(c.defs.Tree, argTypes[i], want) {
			c.bag.Addf(diag.TypeParamInvalidType, pos(n.Range),
				"%q's constructor argument %d does not conform to %s", n.TypeName, i+1, want)
		}
	}
	return n
}

func (c *Checker) checkListLiteral(n ast.ListLiteral) ast.Expr {
	elems := make([]ast.Expr, len(n.Elements))
	var elemTy ast.TypeAnnotation
	for i, e := range n.Elements {
		elems[i] = c.CheckExpr(e)
		ty := exprType(elems[i])
		if i == 0 {
			elemTy = ty
		} else {
			elemTy = c.join(elemTy, ty)
		}
	}
	n.Elements = elems
	if len(n.Elements) == 0 {
		c.bag.Addf(diag.UnknownListType, pos(n.Range), "cannot infer element type of an empty list literal")
		elemTy = objectType
	}
	et := elemTy
	n.Type = ast.TypeAnnotation{Kind: ast.TypeIterableOf, Inner: &et}
	return n
}

func (c *Checker) checkListIndexing(n ast.ListIndexing) ast.Expr {
	base := c.CheckExpr(n.Base)
	idx := c.CheckExpr(n.Index)
	n.Base, n.Index = base, idx

	bt := exprType(base)
	if !Conforms(c.defs.Tree, exprType(idx), numberType) {
		c.bag.Addf(diag.InvalidIndexing, pos(n.Range), "list index must be Number, got %s", exprType(idx))
	}
	if bt.Kind != ast.TypeIterableOf {
		c.bag.Addf(diag.NonIterableType, pos(n.Range), "cannot index non-iterable type %s", bt)
		n.Type = objectType
		return n
	}
	if bt.Inner != nil {
		n.Type = *bt.Inner
	} else {
		n.Type = objectType
	}
	return n
}

func (c *Checker) checkDataMemberAccess(n ast.DataMemberAccess) ast.Expr {
	base := c.CheckExpr(n.Base)
	n.Base = base
	bt := exprType(base)

	if !isNominal(bt) {
		c.bag.Addf(diag.FieldNotFound, pos(n.Range), "type %s has no field %q", bt, n.Field)
		return n
	}

	baseRef, isThis := base.(ast.VarRef)
	if !isThis || baseRef.Ident.Name != "this" || bt.Name != c.currentTypeName {
		c.bag.Addf(diag.AccessingPrivateMember, pos(n.Range),
			"field %q is only accessible from within %s's own methods", n.Field, bt.Name)
		return n
	}

	info, ok := c.defs.Types.Lookup(bt.Name)
	if !ok {
		c.bag.Addf(diag.FieldNotFound, pos(n.Range), "type %s has no field %q", bt, n.Field)
		return n
	}
	member, ok := info.Members[n.Field]
	if !ok {
		c.bag.Addf(diag.FieldNotFound, pos(n.Range), "%s has no field %q", bt.Name, n.Field)
		return n
	}
	n.Type = member.Type
	return n
}

func (c *Checker) checkFunctionMemberAccess(n ast.FunctionMemberAccess) ast.Expr {
	base := c.CheckExpr(n.Base)
	n.Base = base
	bt := exprType(base)

	args := make([]ast.Expr, len(n.Arguments))
	argTypes := make([]ast.TypeAnnotation, len(n.Arguments))
	for i, a := range n.Arguments {
		args[i] = c.CheckExpr(a)
		argTypes[i] = exprType(args[i])
	}
	n.Arguments = args

	if !isNominal(bt) {
		c.bag.Addf(diag.MethodNotFound, pos(n.Range), "type %s has no method %q", bt, n.Method)
		return n
	}
	method, ok := findMethodInHierarchy(c.defs, bt.Name, n.Method)
	if !ok {
		c.bag.Addf(diag.MethodNotFound, pos(n.Range), "%s has no method %q", bt.Name, n.Method)
		return n
	}
	checkArgs(c, n.Range, n.Method, method.Params, argTypes)
	n.Type = method.Return
	return n
}

// findMethodInHierarchy is find_method_info.rs's lookup: check the exact
// type first, then walk the parent chain until a method by this name turns
// up or the chain runs out.
func findMethodInHierarchy(defs *Definitions, typeName, method string) (MethodInfoLike, bool) {
	for typeName != "" {
		info, found := defs.Types.Lookup(typeName)
		if !found || info.Builtin {
			return MethodInfoLike{}, false
		}
		if m, has := info.Methods[method]; has {
			return MethodInfoLike{Params: m.Params, Return: m.Return}, true
		}
		typeName = info.ParentName
	}
	return MethodInfoLike{}, false
}

// isAssignable reports whether e is a valid `:=` target: a bare variable, or
// a field of `this` (spec.md 4.4: "the LHS of `:=` is a variable or a field
// of `this`"). Checked on the original node, before CheckExpr: the shape
// (VarRef vs. DataMemberAccess on `this`) doesn't change by checking it, and
// checkDataMemberAccess already rejects any base other than `this`.
func isAssignable(e ast.Expr) bool {
	switch n := e.(type) {
	case ast.VarRef:
		return true
	case ast.DataMemberAccess:
		base, ok := n.Base.(ast.VarRef)
		return ok && base.Ident.Name == "this"
	default:
		return false
	}
}

func (c *Checker) checkDestructiveAssignment(n ast.DestructiveAssignment) ast.Expr {
	if !isAssignable(n.LHS) {
		c.bag.Addf(diag.InvalidAssignmentTarget, pos(n.Range), "left-hand side of := must be a variable or a field of this")
	}

	lhs := c.CheckExpr(n.LHS)
	rhs := c.CheckExpr(n.RHS)
	n.LHS, n.RHS = lhs, rhs

	lt := exprType(lhs)
	if !Conforms(c.defs.Tree, exprType(rhs), lt) {
		c.bag.Addf(diag.AssignmentTypeMismatch, pos(n.Range), "assigned value does not conform to %s", lt)
	}
	n.Type = lt
	return n
}

func (c *Checker) checkBlock(n ast.Block) ast.Expr {
	c.scope.Push(true)
	items := make([]ast.Expr, len(n.Items))
	var last ast.TypeAnnotation
	for i, it := range n.Items {
		items[i] = c.CheckExpr(it)
		last = exprType(items[i])
	}
	n.Items = items
	if len(n.Items) == 0 || n.TrailingSemicolons {
		n.Type = objectType
	} else {
		n.Type = last
	}
	c.scope.Pop()
	return n
}
