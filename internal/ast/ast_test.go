package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeAnnotation_String(t *testing.T) {
	tests := []struct {
		name string
		ta   TypeAnnotation
		want string
	}{
		{"builtin", TypeAnnotation{Kind: TypeBuiltin, Name: Number}, "Number"},
		{"user-defined", TypeAnnotation{Kind: TypeUserDefined, Name: "Animal"}, "Animal"},
		{
			"iterable",
			TypeAnnotation{Kind: TypeIterableOf, Inner: &TypeAnnotation{Kind: TypeBuiltin, Name: Number}},
			"[Number]",
		},
		{
			"functor",
			TypeAnnotation{
				Kind:   TypeFunctor,
				Params: []TypeAnnotation{{Kind: TypeBuiltin, Name: Number}, {Kind: TypeBuiltin, Name: Number}},
				Return: &TypeAnnotation{Kind: TypeBuiltin, Name: Bool},
			},
			"(Number, Number) -> Bool",
		},
		{"unknown", TypeAnnotation{}, "?"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.ta.String())
		})
	}
}

func TestExpr_RangeOf_DispatchesAcrossVariants(t *testing.T) {
	exprs := []Expr{
		NumberLiteral{Range: Range{0, 1}},
		StringLiteral{Range: Range{1, 2}},
		BoolLiteral{Range: Range{2, 3}},
		VarRef{Range: Range{3, 4}},
		BinOp{Range: Range{4, 5}},
		IfElse{Range: Range{5, 6}},
		Block{Range: Range{6, 7}, TrailingSemicolons: true},
	}
	for i, e := range exprs {
		assert.Equal(t, i, RangeOf(e).Start)
	}
}

func TestDef_RangeOf_DispatchesAcrossVariants(t *testing.T) {
	defs := []Def{
		TypeDef{Range: Range{0, 1}, Name: "Animal"},
		FunctionDef{Range: Range{1, 2}},
		ConstantDef{Range: Range{2, 3}},
		ProtocolDef{Range: Range{3, 4}},
	}
	for i, d := range defs {
		assert.Equal(t, i, DefRangeOf(d).Start)
	}
}

func TestProgram_HoldsDefsAndExpressionsInOrder(t *testing.T) {
	p := Program{
		Defs: []Def{TypeDef{Name: "Animal"}},
		Expressions: []Expr{
			NumberLiteral{Value: 1},
			NumberLiteral{Value: 2},
		},
	}
	assert.Len(t, p.Defs, 1)
	assert.Equal(t, float64(1), p.Expressions[0].(NumberLiteral).Value)
	assert.Equal(t, float64(2), p.Expressions[1].(NumberLiteral).Value)
}
