package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velalang/velac/internal/ast"
)

// buildFixtureGraph builds:
//
//	Object
//	  |- A
//	  |   |- B
//	  |   |- C
//	  |       |- D
//	  |- E
//
// directly over Graph/LCA (no Registry), to test the tree algorithms in
// isolation from type registration.
func buildFixtureGraph() (g *Graph, ids map[string]Node) {
	ids = map[string]Node{"Object": 0, "A": 1, "B": 2, "C": 3, "D": 4, "E": 5}
	g = NewGraph(len(ids))
	g.AddEdge(ids["Object"], ids["A"])
	g.AddEdge(ids["Object"], ids["E"])
	g.AddEdge(ids["A"], ids["B"])
	g.AddEdge(ids["A"], ids["C"])
	g.AddEdge(ids["C"], ids["D"])
	return g, ids
}

func TestTopologicalSort_ParentBeforeChild(t *testing.T) {
	g, ids := buildFixtureGraph()
	order := TopologicalSort(g, ids["Object"])

	pos := map[Node]int{}
	for i, n := range order {
		pos[n] = i
	}

	assert.Less(t, pos[ids["Object"]], pos[ids["A"]])
	assert.Less(t, pos[ids["A"]], pos[ids["B"]])
	assert.Less(t, pos[ids["A"]], pos[ids["C"]])
	assert.Less(t, pos[ids["C"]], pos[ids["D"]])
	assert.Len(t, order, 6)
}

func TestLCA_QueryFindsCommonAncestor(t *testing.T) {
	g, ids := buildFixtureGraph()
	lca := NewLCA(g, ids["Object"])

	tests := []struct {
		name   string
		u, v   string
		want   string
	}{
		{"siblings under A", "B", "C", "A"},
		{"great-nephew and great-uncle", "D", "E", "Object"},
		{"ancestor and descendant", "A", "D", "A"},
		{"same node", "B", "B", "B"},
		{"uncle and nephew", "B", "D", "A"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := lca.Query(ids[tt.u], ids[tt.v])
			assert.Equal(t, ids[tt.want], got)
		})
	}
}

func numberType() ast.TypeAnnotation {
	return ast.TypeAnnotation{Kind: ast.TypeBuiltin, Name: ast.Number}
}

func TestRegistry_SeedsBuiltins(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{ast.Object, ast.Number, ast.String, ast.Bool} {
		info, ok := r.Lookup(name)
		require.True(t, ok)
		assert.True(t, info.Builtin)
	}
}

func TestRegistry_RegisterRejectsDuplicateName(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&TypeInfo{Name: "Animal"}))
	err := r.Register(&TypeInfo{Name: "Animal"})
	assert.Error(t, err)
}

func TestRegistry_RegisterDefaultsParentToObject(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&TypeInfo{Name: "Animal"}))
	info, _ := r.Lookup("Animal")
	assert.Equal(t, ast.Object, info.ParentName)
}

func TestRegistry_DetectCycle_FindsCycle(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&TypeInfo{Name: "A", ParentName: "B"}))
	require.NoError(t, r.Register(&TypeInfo{Name: "B", ParentName: "C"}))
	require.NoError(t, r.Register(&TypeInfo{Name: "C", ParentName: "A"}))

	cycle := r.DetectCycle()
	require.NotEmpty(t, cycle)
	assert.Equal(t, cycle[0], cycle[len(cycle)-1])
}

func TestRegistry_DetectCycle_AcyclicReturnsNil(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&TypeInfo{Name: "Animal"}))
	require.NoError(t, r.Register(&TypeInfo{Name: "Dog", ParentName: "Animal"}))
	assert.Nil(t, r.DetectCycle())
}

func TestRegistry_Build_RejectsCycle(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&TypeInfo{Name: "A", ParentName: "B"}))
	require.NoError(t, r.Register(&TypeInfo{Name: "B", ParentName: "A"}))
	_, err := r.Build()
	assert.Error(t, err)
}

func TestRegistry_Build_RejectsUndefinedParent(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&TypeInfo{Name: "Dog", ParentName: "Ghost"}))
	_, err := r.Build()
	assert.Error(t, err)
}

func TestTree_IsSubtypeOf(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&TypeInfo{
		Name:    "Animal",
		Members: map[string]MemberInfo{"name": {Name: "name", Type: ast.TypeAnnotation{Kind: ast.TypeBuiltin, Name: ast.String}}},
	}))
	require.NoError(t, r.Register(&TypeInfo{Name: "Dog", ParentName: "Animal"}))
	require.NoError(t, r.Register(&TypeInfo{Name: "Cat", ParentName: "Animal"}))

	tree, err := r.Build()
	require.NoError(t, err)

	dog, _ := tree.NodeOf("Dog")
	cat, _ := tree.NodeOf("Cat")
	animal, _ := tree.NodeOf("Animal")
	object, _ := tree.NodeOf(ast.Object)

	assert.True(t, tree.IsSubtypeOf(dog, animal))
	assert.True(t, tree.IsSubtypeOf(dog, object))
	assert.False(t, tree.IsSubtypeOf(cat, dog))
	assert.Equal(t, animal, tree.LCA.Query(dog, cat))
}

func TestTree_NameOfRoundTripsWithNodeOf(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&TypeInfo{Name: "Animal"}))
	tree, err := r.Build()
	require.NoError(t, err)

	n, ok := tree.NodeOf("Animal")
	require.True(t, ok)
	assert.Equal(t, "Animal", tree.NameOf(n))
}
