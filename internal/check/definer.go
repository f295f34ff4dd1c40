package check

import (
	"github.com/velalang/velac/internal/ast"
	"github.com/velalang/velac/internal/diag"
	"github.com/velalang/velac/internal/types"
)

// ProtocolInfo is a registered `protocol P extends Q, R { sig(...): T; }`
// (original_source's definitions/protocols/protocol_def.rs). Protocols share
// the type namespace for TypeOrProtocolAlreadyDefined purposes but are kept
// in their own table since types.Registry models single-inheritance classes,
// not protocols' multiple extends.
type ProtocolInfo struct {
	Name       string
	Extends    []string
	Signatures map[string]MethodInfoLike
}

// MethodInfoLike is the signature shape shared by a protocol's sig(...) line
// and a type's method member, so override/conformance checks can treat them
// uniformly.
type MethodInfoLike struct {
	Params []ast.TypeAnnotation
	Return ast.TypeAnnotation
}

// ConstantInfo is a registered top-level `constant NAME: T = e;`.
type ConstantInfo struct {
	Name       string
	Annotation ast.TypeAnnotation
	Value      ast.Expr
}

// FuncInfo is a registered top-level function definition (original_source's
// def_info/func_info.rs, narrowed to the signature this layer needs).
type FuncInfo struct {
	Name   string
	Params []ast.TypeAnnotation
	Return ast.TypeAnnotation
	Def    *ast.FunctionDef
}

// Definitions is everything Pass A/B produce from a Program's top-level
// Defs: the populated type registry and its built tree, plus the protocol,
// constant, and free-function tables Pass C checks bodies against.
type Definitions struct {
	Types      *types.Registry
	Tree       *types.Tree
	Protocols  map[string]*ProtocolInfo
	Constants  map[string]*ConstantInfo
	Functions  map[string]*FuncInfo
	TypeDefs   map[string]*ast.TypeDef // kept for constructor-body checking in Pass C
}

// names not inheritable: the three builtin value types are final, only
// Object may be a parent (spec.md's InheritanceInvalidParent rule).
func inheritableParent(name string) bool {
	return name == ast.Object || (name != ast.Number && name != ast.String && name != ast.Bool)
}

// Define runs Pass A (register every top-level definition) and Pass B
// (build the inheritance tree, including override validation) over prog,
// returning the resulting Definitions and every diagnostic raised along the
// way. Pass C (internal/check's Checker) consumes Definitions to check
// expression bodies.
func Define(prog ast.Program) (*Definitions, *diag.Bag) {
	bag := &diag.Bag{}
	defs := &Definitions{
		Types:     types.NewRegistry(),
		Protocols: map[string]*ProtocolInfo{},
		Constants: map[string]*ConstantInfo{},
		Functions: map[string]*FuncInfo{},
		TypeDefs:  map[string]*ast.TypeDef{},
	}

	for i := range prog.Defs {
		switch d := prog.Defs[i].(type) {
		case ast.TypeDef:
			defineType(&d, defs, bag)
		case ast.ProtocolDef:
			defineProtocol(&d, defs, bag)
		case ast.ConstantDef:
			defineConstant(&d, defs, bag)
		case ast.FunctionDef:
			defineFunction(&d, defs, bag)
		}
	}

	tree, err := defs.Types.Build()
	if err != nil {
		if cycle := defs.Types.DetectCycle(); cycle != nil {
			bag.Addf(diag.InheritanceCycle, diag.Position{}, "inheritance cycle: %v", cycle)
		} else {
			bag.Addf(diag.InheritanceInvalidParent, diag.Position{}, "%s", err.Error())
		}
		return defs, bag
	}
	defs.Tree = tree

	checkOverrides(defs, bag)
	checkProtocolExtends(defs, bag)

	return defs, bag
}

func paramTypes(params []ast.Param) []ast.TypeAnnotation {
	out := make([]ast.TypeAnnotation, len(params))
	for i, p := range params {
		out[i] = p.Annotation
	}
	return out
}

func defineType(d *ast.TypeDef, defs *Definitions, bag *diag.Bag) {
	info := &types.TypeInfo{
		Name:    d.Name,
		Params:  paramTypes(d.Params),
		Members: map[string]types.MemberInfo{},
		Methods: map[string]types.MethodInfo{},
	}
	if d.Inheritance != nil {
		info.ParentName = d.Inheritance.ParentName
		if !inheritableParent(info.ParentName) {
			bag.Addf(diag.InheritanceInvalidParent, pos(d.Range),
				"type %q cannot inherit from built-in type %q", d.Name, info.ParentName)
		}
	}

	for _, m := range d.DataMembers {
		if _, dup := info.Members[m.Ident.Name]; dup {
			bag.Addf(diag.TypeMemberAlreadyDefined, pos(m.Range),
				"%q already has a member named %q", d.Name, m.Ident.Name)
			continue
		}
		info.Members[m.Ident.Name] = types.MemberInfo{Name: m.Ident.Name, Type: ast.TypeAnnotation{}}
	}
	for i := range d.Methods {
		m := &d.Methods[i]
		if _, dup := info.Members[m.Ident.Name]; dup {
			bag.Addf(diag.TypeMemberAlreadyDefined, pos(m.Range),
				"%q already has a member named %q", d.Name, m.Ident.Name)
			continue
		}
		if _, dup := info.Methods[m.Ident.Name]; dup {
			bag.Addf(diag.TypeMemberAlreadyDefined, pos(m.Range),
				"%q already has a method named %q", d.Name, m.Ident.Name)
			continue
		}
		info.Methods[m.Ident.Name] = types.MethodInfo{
			Name:   m.Ident.Name,
			Params: paramTypes(m.Params),
			Return: m.ReturnType,
		}
	}

	if err := defs.Types.Register(info); err != nil {
		bag.Addf(diag.TypeOrProtocolAlreadyDefined, pos(d.Range), "%s", err.Error())
		return
	}
	defs.TypeDefs[d.Name] = d
}

func defineProtocol(d *ast.ProtocolDef, defs *Definitions, bag *diag.Bag) {
	if _, dup := defs.Protocols[d.Name]; dup {
		bag.Addf(diag.TypeOrProtocolAlreadyDefined, pos(d.Range), "protocol %q is already defined", d.Name)
		return
	}
	if _, dup := defs.Types.Lookup(d.Name); dup {
		bag.Addf(diag.TypeOrProtocolAlreadyDefined, pos(d.Range), "%q is already defined as a type", d.Name)
		return
	}
	info := &ProtocolInfo{Name: d.Name, Extends: d.Extends, Signatures: map[string]MethodInfoLike{}}
	for _, s := range d.Signatures {
		if _, dup := info.Signatures[s.Name]; dup {
			bag.Addf(diag.TypeMemberAlreadyDefined, pos(s.Range),
				"protocol %q already declares a signature named %q", d.Name, s.Name)
			continue
		}
		info.Signatures[s.Name] = MethodInfoLike{Params: paramTypes(s.Params), Return: s.ReturnType}
	}
	defs.Protocols[d.Name] = info
}

func defineConstant(d *ast.ConstantDef, defs *Definitions, bag *diag.Bag) {
	if _, dup := defs.Constants[d.Name]; dup {
		bag.Addf(diag.VarAlreadyDefined, pos(d.Range), "constant %q is already defined", d.Name)
		return
	}
	defs.Constants[d.Name] = &ConstantInfo{Name: d.Name, Annotation: d.Annotation, Value: d.Value}
}

func defineFunction(d *ast.FunctionDef, defs *Definitions, bag *diag.Bag) {
	if _, dup := defs.Functions[d.Ident.Name]; dup {
		bag.Addf(diag.VarAlreadyDefined, pos(d.Range), "function %q is already defined", d.Ident.Name)
		return
	}
	defs.Functions[d.Ident.Name] = &FuncInfo{
		Name:   d.Ident.Name,
		Params: paramTypes(d.Params),
		Return: d.ReturnType,
		Def:    d,
	}
}

// checkOverrides walks the built tree in parent-before-child order and
// rejects a field name that shadows any ancestor's member (fields are
// strictly private per find_member_info.rs's exact-type-only lookup, so
// shadowing one is never meaningful) and a method override whose signature
// doesn't conform to the ancestor's.
func checkOverrides(defs *Definitions, bag *diag.Bag) {
	order := types.TopologicalSort(defs.Tree.Graph, defs.Tree.Root)
	for _, node := range order {
		name := defs.Tree.NameOf(node)
		info, ok := defs.Types.Lookup(name)
		if !ok || info.Builtin {
			continue
		}
		d := defs.TypeDefs[name]

		for fieldName := range info.Members {
			if anc, found := findAncestorMember(defs, info.ParentName, fieldName); found {
				_ = anc
				bag.Addf(diag.FieldOverride, pos(d.Range),
					"%q redeclares field %q already defined on an ancestor type", name, fieldName)
			}
		}
		for methName, own := range info.Methods {
			if anc, found := findAncestorMethod(defs, info.ParentName, methName); found {
				if !methodSignatureConforms(defs.Tree, own, anc) {
					bag.Addf(diag.InvalidMethodOverride, pos(d.Range),
						"%q's override of %q does not conform to its ancestor's signature", name, methName)
				}
			}
		}
	}
}

func findAncestorMember(defs *Definitions, parent string, name string) (types.MemberInfo, bool) {
	for parent != "" {
		info, ok := defs.Types.Lookup(parent)
		if !ok || info.Builtin {
			return types.MemberInfo{}, false
		}
		if m, ok := info.Members[name]; ok {
			return m, true
		}
		parent = info.ParentName
	}
	return types.MemberInfo{}, false
}

func findAncestorMethod(defs *Definitions, parent string, name string) (types.MethodInfo, bool) {
	for parent != "" {
		info, ok := defs.Types.Lookup(parent)
		if !ok || info.Builtin {
			return types.MethodInfo{}, false
		}
		if m, ok := info.Methods[name]; ok {
			return m, true
		}
		parent = info.ParentName
	}
	return types.MethodInfo{}, false
}

func methodSignatureConforms(tree *types.Tree, override, base types.MethodInfo) bool {
	if len(override.Params) != len(base.Params) {
		return false
	}
	for i := range override.Params {
		if !Conforms(tree, base.Params[i], override.Params[i]) {
			return false
		}
	}
	return Conforms(tree, override.Return, base.Return)
}

// checkProtocolExtends flags an extends clause naming an undeclared
// protocol and any extends cycle, via the same three-state walk
// types.Registry.DetectCycle uses for type inheritance.
func checkProtocolExtends(defs *Definitions, bag *diag.Bag) {
	const (
		unvisited = iota
		visiting
		done
	)
	state := map[string]int{}
	var path []string

	var visit func(name string) []string
	visit = func(name string) []string {
		p, ok := defs.Protocols[name]
		if !ok {
			return nil
		}
		switch state[name] {
		case done:
			return nil
		case visiting:
			for i, n := range path {
				if n == name {
					return append(append([]string(nil), path[i:]...), name)
				}
			}
			return nil
		}
		state[name] = visiting
		path = append(path, name)
		for _, parent := range p.Extends {
			if _, ok := defs.Protocols[parent]; !ok {
				bag.Addf(diag.UndefinedTypeOrProtocol, diag.Position{},
					"protocol %q extends undefined protocol %q", name, parent)
				continue
			}
			if cycle := visit(parent); cycle != nil {
				return cycle
			}
		}
		path = path[:len(path)-1]
		state[name] = done
		return nil
	}

	for name := range defs.Protocols {
		if cycle := visit(name); cycle != nil {
			bag.Addf(diag.InheritanceCycle, diag.Position{}, "protocol extends cycle: %v", cycle)
		}
	}
}

func pos(r ast.Range) diag.Position { return diag.Position{Offset: r.Start} }
