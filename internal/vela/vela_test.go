package vela

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velalang/velac/internal/ast"
)

func mustBuild(t *testing.T) *Pipeline {
	t.Helper()
	p, err := Build()
	require.NoError(t, err)
	return p
}

func TestBuild_GrammarIsLALR1(t *testing.T) {
	mustBuild(t)
}

func TestParse_NumberExpression(t *testing.T) {
	p := mustBuild(t)
	prog, bag := p.Parse("1 + 2 * 3;")
	require.True(t, bag.Empty(), "%v", bag.All())
	require.Len(t, prog.Expressions, 1)

	bin, ok := prog.Expressions[0].(ast.BinOp)
	require.True(t, ok)
	assert.Equal(t, ast.OpAdd, bin.Op)

	lhs, ok := bin.LHS.(ast.NumberLiteral)
	require.True(t, ok)
	assert.Equal(t, float64(1), lhs.Value)

	rhs, ok := bin.RHS.(ast.BinOp)
	require.True(t, ok)
	assert.Equal(t, ast.OpMul, rhs.Op)
}

func TestParse_StringAndBoolLiterals(t *testing.T) {
	p := mustBuild(t)
	prog, bag := p.Parse(`"hello\nworld"; true; false;`)
	require.True(t, bag.Empty(), "%v", bag.All())
	require.Len(t, prog.Expressions, 3)

	str, ok := prog.Expressions[0].(ast.StringLiteral)
	require.True(t, ok)
	assert.Equal(t, "hello\nworld", str.Value)

	assert.Equal(t, true, prog.Expressions[1].(ast.BoolLiteral).Value)
	assert.Equal(t, false, prog.Expressions[2].(ast.BoolLiteral).Value)
}

func TestParse_LetAndIfElse(t *testing.T) {
	p := mustBuild(t)
	prog, bag := p.Parse(`let x: Number = 1 in if (x > 0) x else 0 - x;`)
	require.True(t, bag.Empty(), "%v", bag.All())
	require.Len(t, prog.Expressions, 1)

	letExpr, ok := prog.Expressions[0].(ast.Let)
	require.True(t, ok)
	require.Len(t, letExpr.Bindings, 1)
	assert.Equal(t, "x", letExpr.Bindings[0].Ident.Name)

	ifExpr, ok := letExpr.Body.(ast.IfElse)
	require.True(t, ok)
	assert.NotNil(t, ifExpr.Else)
}

func TestParse_ElifDesugarsToNestedIfElse(t *testing.T) {
	p := mustBuild(t)
	prog, bag := p.Parse(`if (1 < 2) 1 elif (2 < 3) 2 else 3;`)
	require.True(t, bag.Empty(), "%v", bag.All())
	require.Len(t, prog.Expressions, 1)

	outer, ok := prog.Expressions[0].(ast.IfElse)
	require.True(t, ok)
	inner, ok := outer.Else.(ast.IfElse)
	require.True(t, ok)
	_, ok = inner.Else.(ast.NumberLiteral)
	require.True(t, ok)
}

func TestParse_WhileForAndBlock(t *testing.T) {
	p := mustBuild(t)
	prog, bag := p.Parse(`while (true) { print(1); }; for (e in xs) { print(e); };`)
	require.True(t, bag.Empty(), "%v", bag.All())
	require.Len(t, prog.Expressions, 2)

	w, ok := prog.Expressions[0].(ast.While)
	require.True(t, ok)
	assert.False(t, w.Body.(ast.Block).TrailingSemicolons)

	f, ok := prog.Expressions[1].(ast.For)
	require.True(t, ok)
	assert.Equal(t, "e", f.Element.Name)
}

func TestParse_BlockTrailingSemicolonsFlag(t *testing.T) {
	p := mustBuild(t)
	prog, bag := p.Parse(`{ 1;;; };`)
	require.True(t, bag.Empty(), "%v", bag.All())
	block := prog.Expressions[0].(ast.Block)
	assert.True(t, block.TrailingSemicolons)
	assert.Len(t, block.Items, 1)
}

func TestParse_FunctionCallAndMemberAccess(t *testing.T) {
	p := mustBuild(t)
	prog, bag := p.Parse(`foo(1, 2).bar.baz(3);`)
	require.True(t, bag.Empty(), "%v", bag.All())

	call, ok := prog.Expressions[0].(ast.FunctionMemberAccess)
	require.True(t, ok)
	assert.Equal(t, "baz", call.Method)

	member, ok := call.Base.(ast.DataMemberAccess)
	require.True(t, ok)
	assert.Equal(t, "bar", member.Field)

	_, ok = member.Base.(ast.FunctionCall)
	require.True(t, ok)
}

func TestParse_NewAndListLiteralAndIndexing(t *testing.T) {
	p := mustBuild(t)
	prog, bag := p.Parse(`[1, 2, 3][0]; new Animal("Rex");`)
	require.True(t, bag.Empty(), "%v", bag.All())

	idx, ok := prog.Expressions[0].(ast.ListIndexing)
	require.True(t, ok)
	list, ok := idx.Base.(ast.ListLiteral)
	require.True(t, ok)
	assert.Len(t, list.Elements, 3)

	n, ok := prog.Expressions[1].(ast.NewExpr)
	require.True(t, ok)
	assert.Equal(t, "Animal", n.TypeName)
}

func TestParse_DestructiveAssignmentIsRightAssociative(t *testing.T) {
	p := mustBuild(t)
	prog, bag := p.Parse(`x := y := 1;`)
	require.True(t, bag.Empty(), "%v", bag.All())

	outer, ok := prog.Expressions[0].(ast.DestructiveAssignment)
	require.True(t, ok)
	_, ok = outer.RHS.(ast.DestructiveAssignment)
	require.True(t, ok)
}

func TestParse_TypeDefWithInheritanceAndMembers(t *testing.T) {
	p := mustBuild(t)
	src := `
type Animal(name: String) {
	name = name;
	function speak(): String => "...";
}
type Dog(name: String) inherits Animal(name) {
	function speak(): String => "Woof";
}
1;
`
	prog, bag := p.Parse(src)
	require.True(t, bag.Empty(), "%v", bag.All())
	require.Len(t, prog.Defs, 2)

	animal := prog.Defs[0].(ast.TypeDef)
	assert.Equal(t, "Animal", animal.Name)
	assert.Nil(t, animal.Inheritance)
	require.Len(t, animal.DataMembers, 1)
	require.Len(t, animal.Methods, 1)

	dog := prog.Defs[1].(ast.TypeDef)
	require.NotNil(t, dog.Inheritance)
	assert.Equal(t, "Animal", dog.Inheritance.ParentName)
}

func TestParse_ConstantAndProtocolDefs(t *testing.T) {
	p := mustBuild(t)
	src := `
constant Pi: Number = 3;
protocol Greeter extends Named {
	greet(): String;
}
1;
`
	prog, bag := p.Parse(src)
	require.True(t, bag.Empty(), "%v", bag.All())
	require.Len(t, prog.Defs, 2)

	c := prog.Defs[0].(ast.ConstantDef)
	assert.Equal(t, "Pi", c.Name)

	proto := prog.Defs[1].(ast.ProtocolDef)
	assert.Equal(t, []string{"Named"}, proto.Extends)
	require.Len(t, proto.Signatures, 1)
	assert.Equal(t, "greet", proto.Signatures[0].Name)
}

func TestParse_ReturnsDiagnosticOnSyntaxError(t *testing.T) {
	p := mustBuild(t)
	_, bag := p.Parse(`1 +;`)
	assert.False(t, bag.Empty())
}

func TestParse_FunctionDefWithBlockBody(t *testing.T) {
	p := mustBuild(t)
	src := `
function add(a: Number, b: Number): Number {
	return a + b;
}
1;
`
	prog, bag := p.Parse(src)
	require.True(t, bag.Empty(), "%v", bag.All())
	require.Len(t, prog.Defs, 1)

	fn := prog.Defs[0].(ast.FunctionDef)
	assert.Equal(t, "add", fn.Ident.Name)
	require.True(t, fn.Body.IsBlock)
	require.Len(t, fn.Body.BlockVal.Items, 1)
	_, ok := fn.Body.BlockVal.Items[0].(ast.ReturnStatement)
	assert.True(t, ok)
}
