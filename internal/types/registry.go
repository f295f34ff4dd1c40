package types

import (
	"fmt"

	"github.com/velalang/velac/internal/ast"
)

// MemberInfo is one data member of a defined type (original_source's
// def_info/type_info.rs members map, narrowed from DefinitionInfo to just
// the data-member shape the checker actually needs at this layer).
type MemberInfo struct {
	Name string
	Type ast.TypeAnnotation
}

// MethodInfo is one function member of a defined type.
type MethodInfo struct {
	Name   string
	Params []ast.TypeAnnotation
	Return ast.TypeAnnotation
}

// TypeInfo describes one registered type, built-in or user-defined
// (original_source's def_info/type_info.rs TypeInfo enum, flattened into a
// single struct with a Builtin flag — Go has no sum-type member access
// shorthand like Rust's as_built_in/as_defined, so a bool discriminant plus
// shared fields is the idiomatic rendering here rather than two structs
// behind an interface with no behavioral difference to dispatch on).
type TypeInfo struct {
	Name       string
	Builtin    bool
	ParentName string // empty means Object; ignored for Builtin types
	Params     []ast.TypeAnnotation
	Members    map[string]MemberInfo
	Methods    map[string]MethodInfo
}

// Registry holds every type known to a compilation: the built-ins plus
// every user TypeDef, keyed by name.
type Registry struct {
	byName map[string]*TypeInfo
	order  []string // declaration order, builtins first
}

// NewRegistry returns an empty registry seeded with spec.md's four built-in
// types, Object as the implicit inheritance root.
func NewRegistry() *Registry {
	r := &Registry{byName: map[string]*TypeInfo{}}
	for _, name := range []string{ast.Object, ast.Number, ast.String, ast.Bool} {
		r.byName[name] = &TypeInfo{Name: name, Builtin: true}
		r.order = append(r.order, name)
	}
	return r
}

// Register adds a user-defined type. It returns an error if the name is
// already registered (spec.md's TypeOrProtocolAlreadyDefined rule — the
// caller, internal/check, is responsible for turning this into a
// diag.Diagnostic with source position; Registry itself carries no
// position information).
func (r *Registry) Register(info *TypeInfo) error {
	if _, ok := r.byName[info.Name]; ok {
		return fmt.Errorf("types: %q is already defined", info.Name)
	}
	if info.ParentName == "" {
		info.ParentName = ast.Object
	}
	r.byName[info.Name] = info
	r.order = append(r.order, info.Name)
	return nil
}

// Lookup returns the registered type named name, if any.
func (r *Registry) Lookup(name string) (*TypeInfo, bool) {
	t, ok := r.byName[name]
	return t, ok
}

// Names returns every registered type name in declaration order (built-ins
// first).
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// DetectCycle reports the first inheritance cycle found among registered
// user-defined types, as the chain of names that closes it, or nil if the
// inheritance graph is acyclic (spec.md's InheritanceCycle rule).
//
// Grounded on graph_utils/dfs.rs's get_cycle/has_cycles_helper: same
// three-state (unvisited / on current path / fully resolved) walk over the
// parent map, but run here over the Registry's ParentName field instead of
// a separately-built HashMap<String, Option<T>>.
func (r *Registry) DetectCycle() []string {
	const (
		unvisited = iota
		visiting
		done
	)
	state := map[string]int{}
	var path []string

	var visit func(name string) []string
	visit = func(name string) []string {
		info, ok := r.byName[name]
		if !ok || info.Builtin {
			return nil
		}
		switch state[name] {
		case done:
			return nil
		case visiting:
			for i, n := range path {
				if n == name {
					cycle := append([]string(nil), path[i:]...)
					return append(cycle, name)
				}
			}
			return nil
		}

		state[name] = visiting
		path = append(path, name)
		if cycle := visit(info.ParentName); cycle != nil {
			return cycle
		}
		path = path[:len(path)-1]
		state[name] = done
		return nil
	}

	for _, name := range r.order {
		if cycle := visit(name); cycle != nil {
			return cycle
		}
	}
	return nil
}

// Tree is the built inheritance tree over every user-defined type plus the
// implicit Object root, ready for topological ordering and LCA queries.
type Tree struct {
	Root    Node
	ids     map[string]Node
	names   []string // Node -> name
	Graph   *Graph
	LCA     *LCA
}

// NodeOf returns the dense Node id assigned to a registered type name.
func (t *Tree) NodeOf(name string) (Node, bool) {
	n, ok := t.ids[name]
	return n, ok
}

// NameOf is the inverse of NodeOf.
func (t *Tree) NameOf(n Node) string { return t.names[n] }

// Build assigns dense ids to Object plus every user-defined type and
// constructs the inheritance Graph and its LCA index. It returns an error
// if the registry's inheritance graph has a cycle; call DetectCycle first
// if a caller wants the offending chain for a diagnostic instead of a bare
// error.
func (r *Registry) Build() (*Tree, error) {
	if cycle := r.DetectCycle(); cycle != nil {
		return nil, fmt.Errorf("types: inheritance cycle: %v", cycle)
	}

	t := &Tree{ids: map[string]Node{}}
	add := func(name string) Node {
		if n, ok := t.ids[name]; ok {
			return n
		}
		n := Node(len(t.names))
		t.ids[name] = n
		t.names = append(t.names, name)
		return n
	}

	t.Root = add(ast.Object)
	for _, name := range r.order {
		info := r.byName[name]
		if info.Builtin {
			continue
		}
		add(name)
	}

	g := NewGraph(len(t.names))
	for _, name := range r.order {
		info := r.byName[name]
		if info.Builtin {
			continue
		}
		child := t.ids[name]
		parent, ok := t.ids[info.ParentName]
		if !ok {
			return nil, fmt.Errorf("types: %q inherits undefined type %q", name, info.ParentName)
		}
		g.AddEdge(parent, child)
	}
	t.Graph = g
	t.LCA = NewLCA(g, t.Root)
	return t, nil
}

// IsSubtypeOf reports whether child's tree node is reachable from ancestor
// by following inheritance edges downward — equivalently, whether the LCA
// of the two is ancestor itself. Object is the universal ancestor.
func (t *Tree) IsSubtypeOf(child, ancestor Node) bool {
	if ancestor == t.Root {
		return true
	}
	return t.LCA.Query(child, ancestor) == ancestor
}
