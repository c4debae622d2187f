package compiler

import (
	"sort"

	schema "github.com/leoasis/apollo-codegen/internal/schema"
)

// Options controls how the document is compiled. The zero value is valid.
type Options struct {
	// MergeInFieldsFromFragmentSpreads flattens the fields of a compatible
	// fragment spread into the enclosing selection instead of exposing the
	// spread as a fragment accessor.
	MergeInFieldsFromFragmentSpreads bool

	// GenerateOperationIDs computes a stable content-derived identifier for
	// every operation and attaches it to the IR.
	GenerateOperationIDs bool
}

// Context is the fully resolved IR for one compilation. It is a pure function
// of (schema, document, options), immutable once built, and safe to share
// across concurrent emitter invocations.
type Context struct {
	Schema     *schema.Schema
	Operations map[string]*Operation
	Fragments  map[string]*Fragment
	Options    Options

	operationOrder []string
	fragmentOrder  []string
}

// OperationsInOrder returns the operations in document order.
func (c *Context) OperationsInOrder() []*Operation {
	ops := make([]*Operation, 0, len(c.operationOrder))
	for _, name := range c.operationOrder {
		ops = append(ops, c.Operations[name])
	}
	return ops
}

// FragmentsInOrder returns the fragments in document order.
func (c *Context) FragmentsInOrder() []*Fragment {
	frags := make([]*Fragment, 0, len(c.fragmentOrder))
	for _, name := range c.fragmentOrder {
		frags = append(frags, c.Fragments[name])
	}
	return frags
}

// ReferencedTypes returns the named schema types reachable from the compiled
// operations and fragments (enum and input types that auxiliary declarations
// must be generated for), sorted by name.
func (c *Context) ReferencedTypes() []*schema.Type {
	seen := make(map[string]bool)
	var collect func(ss *SelectionSet)
	var collectInput func(t *schema.Type)

	collectInput = func(t *schema.Type) {
		if t == nil || seen[t.Name] {
			return
		}
		if t.Kind != schema.TypeKindEnum && t.Kind != schema.TypeKindInputObject {
			return
		}
		seen[t.Name] = true
		if t.Kind == schema.TypeKindInputObject {
			for _, f := range t.InputFields {
				collectInput(c.Schema.LookupType(f.Type.GetNamedType()))
			}
		}
	}
	collect = func(ss *SelectionSet) {
		if ss == nil {
			return
		}
		for _, sel := range ss.Selections {
			switch s := sel.(type) {
			case *Field:
				collectInput(c.Schema.LookupType(s.Type.GetNamedType()))
				for _, arg := range s.Arguments {
					collectInput(c.Schema.LookupType(arg.Type.GetNamedType()))
				}
				collect(s.SelectionSet)
			case *FragmentSpread:
				// Visited through the fragment definition itself.
			case *InlineFragment:
				collect(s.SelectionSet)
			}
		}
	}

	for _, op := range c.Operations {
		for _, v := range op.Variables {
			collectInput(c.Schema.LookupType(v.Type.GetNamedType()))
		}
		collect(op.SelectionSet)
	}
	for _, frag := range c.Fragments {
		collect(frag.SelectionSet)
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	types := make([]*schema.Type, 0, len(names))
	for _, name := range names {
		types = append(types, c.Schema.LookupType(name))
	}
	return types
}

// Operation is a compiled top-level query, mutation or subscription.
type Operation struct {
	Name         string
	Type         OperationType
	Variables    []*VariableDefinition
	RootType     *schema.Type
	SelectionSet *SelectionSet

	// Source is the canonical (whitespace-normalized) text of the operation.
	Source string
	// ID is the content-derived identifier, set only when
	// Options.GenerateOperationIDs is enabled.
	ID string
}

type OperationType string

const (
	OperationQuery        OperationType = "query"
	OperationMutation     OperationType = "mutation"
	OperationSubscription OperationType = "subscription"
)

// VariableDefinition is one declared operation variable.
type VariableDefinition struct {
	Name string
	Type *schema.TypeRef
}

// Fragment is a compiled named fragment definition.
type Fragment struct {
	Name          string
	TypeCondition *schema.Type
	SelectionSet  *SelectionSet
	Source        string
}

// SelectionSet is an ordered list of selections against a parent type.
type SelectionSet struct {
	ParentType *schema.Type
	Selections []Selection
}

// Selection is a closed sum over *Field, *FragmentSpread and *InlineFragment.
type Selection interface {
	isSelection()
}

// Field is a resolved field selection. SelectionSet is nil for leaves.
type Field struct {
	Name         string
	Alias        string
	Arguments    []*Argument
	Type         *schema.TypeRef
	SelectionSet *SelectionSet
	Guard        *InclusionGuard
}

// ResponseKey returns the key the field occupies in the response object.
func (f *Field) ResponseKey() string {
	if f.Alias != "" {
		return f.Alias
	}
	return f.Name
}

// FragmentSpread references a named fragment; the definition lives on the
// Context.
type FragmentSpread struct {
	Name  string
	Guard *InclusionGuard
}

// InlineFragment is an anonymous selection conditioned on a runtime type.
type InlineFragment struct {
	TypeCondition *schema.Type
	SelectionSet  *SelectionSet
}

func (*Field) isSelection()          {}
func (*FragmentSpread) isSelection() {}
func (*InlineFragment) isSelection() {}

// Argument is a resolved field argument.
type Argument struct {
	Name  string
	Value Value
	Type  *schema.TypeRef
}

// InclusionGuard records an @include(if:) or @skip(if:) condition. The guard
// is carried unevaluated; Inverted is true for @skip.
type InclusionGuard struct {
	Inverted  bool
	Condition Value
}

// Value is a closed sum over the resolved argument value variants.
type Value interface {
	isValue()
}

// VariableRef references a variable declared on the enclosing operation.
type VariableRef struct {
	Name string
}

// ScalarValue is an int, float, string, boolean or null literal.
type ScalarValue struct {
	Kind ScalarKind
	Raw  string
}

type ScalarKind string

const (
	ScalarInt     ScalarKind = "Int"
	ScalarFloat   ScalarKind = "Float"
	ScalarString  ScalarKind = "String"
	ScalarBoolean ScalarKind = "Boolean"
	ScalarNull    ScalarKind = "Null"
)

// EnumValue is an enum literal.
type EnumValue struct {
	Value string
}

// ListValue is an ordered list literal.
type ListValue struct {
	Values []Value
}

// ObjectValue is an input-object literal with ordered fields.
type ObjectValue struct {
	Fields []ObjectField
}

type ObjectField struct {
	Name  string
	Value Value
}

func (*VariableRef) isValue() {}
func (*ScalarValue) isValue() {}
func (*EnumValue) isValue()   {}
func (*ListValue) isValue()   {}
func (*ObjectValue) isValue() {}
