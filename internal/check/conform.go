package check

import (
	"github.com/velalang/velac/internal/ast"
	"github.com/velalang/velac/internal/types"
)

func isNominal(t ast.TypeAnnotation) bool {
	return t.Kind == ast.TypeBuiltin || t.Kind == ast.TypeUserDefined
}

// Conforms reports whether actual may be used where expected is required:
// spec.md 4.4's conformance rule, generalized over every TypeAnnotation
// shape. Grounded on get_conformable.rs, which unwraps an Iterable wrapper
// before checking the inner name is a defined type or protocol; here that
// single Rust check is widened to cover every TypeAnnotation kind (nominal
// name, iterable, functor) since spec.md's annotation sum has no Rust
// equivalent to follow one-to-one.
//
// Builtin and UserDefined are both just named types looked up by name in
// tree, so they conform via the same nominal rule: equal names always
// conform, and otherwise actual must be a registered subtype of expected.
// TypeUnknown (spec.md's "no annotation was ever assigned") conforms to and
// accepts anything, matching inference's treatment of an un-annotated slot.
func Conforms(tree *types.Tree, actual, expected ast.TypeAnnotation) bool {
	if expected.Kind == ast.TypeUnknown || actual.Kind == ast.TypeUnknown {
		return true
	}
	if isNominal(expected) && expected.Name == ast.Object {
		return true
	}
	if isNominal(actual) && isNominal(expected) {
		if actual.Name == expected.Name {
			return true
		}
		if tree == nil {
			return false
		}
		an, ok1 := tree.NodeOf(actual.Name)
		en, ok2 := tree.NodeOf(expected.Name)
		if !ok1 || !ok2 {
			return false
		}
		return tree.IsSubtypeOf(an, en)
	}
	if expected.Kind != actual.Kind {
		return false
	}
	switch expected.Kind {
	case ast.TypeIterableOf:
		if actual.Inner == nil || expected.Inner == nil {
			return false
		}
		return Conforms(tree, *actual.Inner, *expected.Inner)
	case ast.TypeFunctor:
		if len(actual.Params) != len(expected.Params) {
			return false
		}
		// Contravariant in parameters: a functor accepting a wider
		// (more general) parameter type can stand in for one that only
		// promises a narrower one.
		for i := range actual.Params {
			if !Conforms(tree, expected.Params[i], actual.Params[i]) {
				return false
			}
		}
		ar, er := objectType, objectType
		if actual.Return != nil {
			ar = *actual.Return
		}
		if expected.Return != nil {
			er = *expected.Return
		}
		return Conforms(tree, ar, er)
	default:
		return false
	}
}
