// Package diag holds the diagnostic carrier shared by every pipeline stage:
// a stable {kind, message, position} shape, collected into a Bag so the
// semantic analyzer can run to completion and still surface every problem it
// found (spec.md section 7).
package diag

import "fmt"

// Kind identifies which of the three diagnostic groups a Diagnostic belongs
// to, and within semantic diagnostics, which specific rule fired.
type Kind string

const (
	// Lexical.
	InvalidCharacter Kind = "InvalidCharacter"

	// Syntactic.
	InvalidToken      Kind = "InvalidToken"
	UnrecognizedEof   Kind = "UnrecognizedEof"
	UnrecognizedToken Kind = "UnrecognizedToken"
	ExtraToken        Kind = "ExtraToken"
	UserError         Kind = "User"

	// Semantic.
	InheritanceInvalidParent     Kind = "InheritanceInvalidParent"
	InheritanceCycle             Kind = "InheritanceCycle"
	NonIterableType               Kind = "NonIterableType"
	InvalidIndexing               Kind = "InvalidIndexing"
	AccessingPrivateMember         Kind = "AccessingPrivateMember"
	FieldNotFound                  Kind = "FieldNotFound"
	MethodNotFound                 Kind = "MethodNotFound"
	FieldOverride                  Kind = "FieldOverride"
	InvalidMethodOverride          Kind = "InvalidMethodOverride"
	TypeParamsInvalidAmount        Kind = "TypeParamsInvalidAmount"
	TypeParamInvalidType           Kind = "TypeParamInvalidType"
	TypeOrProtocolAlreadyDefined   Kind = "TypeOrProtocolAlreadyDefined"
	TypeMemberAlreadyDefined       Kind = "TypeMemberAlreadyDefined"
	NeedsAnAnnotation              Kind = "NeedsAnAnnotation"
	UnknownListType                Kind = "UnknownListType"
	VarDefinitionTypeMismatch      Kind = "VarDefinitionTypeMismatch"
	VarAlreadyDefined              Kind = "VarAlreadyDefined"
	UndefinedVariable              Kind = "UndefinedVariable"
	BinOpInvalidOperands           Kind = "BinOpInvalidOperands"
	UnOpInvalidOperands            Kind = "UnOpInvalidOperands"
	FuncParamsInvalidAmount        Kind = "FuncParamsInvalidAmount"
	FuncParamInvalidType           Kind = "FuncParamInvalidType"
	UndefinedTypeOrProtocol        Kind = "UndefinedTypeOrProtocol"
	UndefinedFunction              Kind = "UndefinedFunction"
	InvalidCondition               Kind = "InvalidCondition"
	ReturnTypeMismatch             Kind = "ReturnTypeMismatch"
	AssignmentTypeMismatch         Kind = "AssignmentTypeMismatch"
	InvalidAssignmentTarget        Kind = "InvalidAssignmentTarget"
)

// Position is a byte offset into the source text. Higher layers (the CLI's
// diagnostic renderer) turn this into line:column via a newline-index scan.
type Position struct {
	Offset int
}

func (p Position) String() string {
	return fmt.Sprintf("offset %d", p.Offset)
}

// Diagnostic is a single reported problem.
type Diagnostic struct {
	Kind    Kind
	Message string
	Pos     Position

	// Extra carries kind-specific structured data (e.g. the expected-symbol
	// set for a syntactic error, or the from/to types for a type mismatch)
	// for callers that want more than the rendered Message.
	Extra map[string]any
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s at %s: %s", d.Kind, d.Pos, d.Message)
}

func New(kind Kind, pos Position, format string, args ...any) Diagnostic {
	return Diagnostic{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Pos:     pos,
	}
}

func Newf(kind Kind, pos Position, extra map[string]any, format string, args ...any) Diagnostic {
	d := New(kind, pos, format, args...)
	d.Extra = extra
	return d
}

// Bag accumulates diagnostics across a pipeline run. The semantic analyzer
// does not short-circuit on the first error; it keeps adding to the same Bag
// across all three sub-passes so a single file can surface many problems.
type Bag struct {
	items []Diagnostic
}

func (b *Bag) Add(d Diagnostic) {
	b.items = append(b.items, d)
}

func (b *Bag) Addf(kind Kind, pos Position, format string, args ...any) {
	b.Add(New(kind, pos, format, args...))
}

func (b *Bag) Merge(o *Bag) {
	if o == nil {
		return
	}
	b.items = append(b.items, o.items...)
}

func (b *Bag) Empty() bool {
	return b == nil || len(b.items) == 0
}

func (b *Bag) Len() int {
	if b == nil {
		return 0
	}
	return len(b.items)
}

func (b *Bag) All() []Diagnostic {
	if b == nil {
		return nil
	}
	return b.items
}
