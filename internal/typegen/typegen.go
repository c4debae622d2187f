package typegen

import (
	"strings"

	compiler "github.com/leoasis/apollo-codegen/internal/compiler"
	schema "github.com/leoasis/apollo-codegen/internal/schema"
)

// Kind classifies a generated declaration.
type Kind string

const (
	KindOperationRoot  Kind = "operationRoot"
	KindValueType      Kind = "valueType"
	KindEnum           Kind = "enum"
	KindInputValueType Kind = "inputValueType"
)

// GeneratedType is one node of the nested declaration tree. Children are
// owned by their parent; the tree carries no back-pointers.
type GeneratedType struct {
	Kind       Kind
	Name       string
	Properties []*Property
	Nested     []*GeneratedType

	// Condition is the asserted type name for conditional-group types.
	Condition string
}

// Property is one declared member of a generated type.
type Property struct {
	Name     string
	TypeName string
	Optional bool

	// Guard is carried as metadata for @include/@skip fields; it is never
	// evaluated during projection.
	Guard *compiler.InclusionGuard

	// IsFragmentAccessor marks a property referencing a named fragment's own
	// generated struct.
	IsFragmentAccessor bool
	// IsConditionalAccessor marks the narrowing accessor for a conditional
	// group; TypeName is then already optional-wrapped.
	IsConditionalAccessor bool
	// RawValue holds the original enum value for enum cases.
	RawValue string
}

// Options carries the target-specific naming knobs.
type Options struct {
	// PassthroughCustomScalars emits custom scalar names as-is instead of
	// mapping them to String.
	PassthroughCustomScalars bool
	// CustomScalarsPrefix prefixes passed-through custom scalar names.
	CustomScalarsPrefix string
}

// Projector turns resolved selection trees into GeneratedType trees.
type Projector struct {
	ctx  *compiler.Context
	opts Options
}

func NewProjector(ctx *compiler.Context, opts Options) *Projector {
	return &Projector{ctx: ctx, opts: opts}
}

// OperationRootName returns the declared class name for an operation,
// suffixed by its kind unless the name already carries it.
func OperationRootName(op *compiler.Operation) string {
	suffix := capitalize(string(op.Type))
	name := capitalize(op.Name)
	if strings.HasSuffix(name, suffix) {
		return name
	}
	return name + suffix
}

// ProjectOperation projects one operation into its root declaration: the
// variable-backed properties plus the nested Data result type.
func (p *Projector) ProjectOperation(op *compiler.Operation) (*GeneratedType, error) {
	root := &GeneratedType{Kind: KindOperationRoot, Name: OperationRootName(op)}
	scope := newNameScope()
	for _, v := range op.Variables {
		root.Properties = append(root.Properties, &Property{
			Name:     scope.claim(v.Name),
			TypeName: p.typeName(v.Type),
			Optional: !v.Type.IsNonNull(),
		})
	}
	data, err := p.valueType("Data", "", op.SelectionSet)
	if err != nil {
		return nil, err
	}
	root.Nested = append(root.Nested, data)
	return root, nil
}

// ProjectFragment projects a named fragment into a value-type declaration.
func (p *Projector) ProjectFragment(frag *compiler.Fragment) (*GeneratedType, error) {
	return p.valueType(capitalize(frag.Name), "", frag.SelectionSet)
}

// ProjectSelectionSet projects an arbitrary selection set under an explicit
// declaration name.
func (p *Projector) ProjectSelectionSet(name string, ss *compiler.SelectionSet) (*GeneratedType, error) {
	return p.valueType(name, "", ss)
}

func (p *Projector) valueType(name, condition string, ss *compiler.SelectionSet) (*GeneratedType, error) {
	grouped, err := p.ctx.GroupSelections(ss)
	if err != nil {
		return nil, err
	}

	t := &GeneratedType{Kind: KindValueType, Name: name, Condition: condition}
	propScope := newNameScope()
	typeScope := newNameScope()
	typeScope.claim(name) // a nested type cannot shadow its enclosing declaration

	for _, field := range grouped.Fields {
		key := field.ResponseKey()
		prop := &Property{
			Name:     propScope.claim(key),
			Optional: !field.Type.IsNonNull() || field.Guard != nil,
			Guard:    field.Guard,
		}
		if field.SelectionSet == nil {
			named := p.ctx.Schema.LookupType(field.Type.GetNamedType())
			prop.TypeName = p.wrappedTypeName(field.Type, p.innerTypeName(named), prop.Optional)
		} else {
			nestedName := typeScope.claim(capitalize(key))
			nested, err := p.valueType(nestedName, "", field.SelectionSet)
			if err != nil {
				return nil, err
			}
			t.Nested = append(t.Nested, nested)
			prop.TypeName = p.wrappedTypeName(field.Type, nestedName, prop.Optional)
		}
		t.Properties = append(t.Properties, prop)
	}

	for _, spread := range grouped.FragmentSpreads {
		frag := p.ctx.Fragments[spread.Name]
		t.Properties = append(t.Properties, &Property{
			Name:               propScope.claim(lowerFirst(frag.Name)),
			TypeName:           capitalize(frag.Name),
			Optional:           spread.Guard != nil,
			Guard:              spread.Guard,
			IsFragmentAccessor: true,
		})
	}

	for _, group := range grouped.ConditionalGroups {
		groupName := typeScope.claim("As" + group.Type.Name)
		nested, err := p.valueType(groupName, group.Type.Name, group.SelectionSet)
		if err != nil {
			return nil, err
		}
		t.Nested = append(t.Nested, nested)
		t.Properties = append(t.Properties, &Property{
			Name:                  propScope.claim("as" + group.Type.Name),
			TypeName:              groupName + "?",
			Optional:              true,
			IsConditionalAccessor: true,
		})
	}

	return t, nil
}

// ProjectEnum projects a schema enum into a declaration with one case per
// value. Cases keep their raw values, so post-escape collisions cannot be
// suffixed away and are reported instead.
func (p *Projector) ProjectEnum(t *schema.Type) (*GeneratedType, error) {
	gen := &GeneratedType{Kind: KindEnum, Name: t.Name}
	seen := make(map[string]bool)
	for _, v := range t.EnumValues {
		escaped := EscapeIdentifier(enumCaseName(v.Name))
		if seen[escaped] {
			return nil, &ReservedIdentifierCollisionError{Name: escaped, Scope: t.Name}
		}
		seen[escaped] = true
		gen.Properties = append(gen.Properties, &Property{
			Name:     escaped,
			RawValue: v.Name,
		})
	}
	return gen, nil
}

// ProjectInputObject projects a schema input type into a value type with one
// property per input field.
func (p *Projector) ProjectInputObject(t *schema.Type) (*GeneratedType, error) {
	gen := &GeneratedType{Kind: KindInputValueType, Name: t.Name}
	scope := newNameScope()
	for _, f := range t.InputFields {
		optional := !f.Type.IsNonNull()
		named := p.ctx.Schema.LookupType(f.Type.GetNamedType())
		gen.Properties = append(gen.Properties, &Property{
			Name:     scope.claim(f.Name),
			TypeName: p.wrappedTypeName(f.Type, p.innerTypeName(named), optional),
			Optional: optional,
		})
	}
	return gen, nil
}

// typeName renders a schema type reference with its innermost named type
// mapped to the target equivalent.
func (p *Projector) typeName(ref *schema.TypeRef) string {
	named := p.ctx.Schema.LookupType(ref.GetNamedType())
	return p.wrappedTypeName(ref, p.innerTypeName(named), !ref.IsNonNull())
}

// wrappedTypeName applies list and optional wrapping around the rendered
// innermost type name. forceOptional covers guarded fields, which may be
// absent regardless of the schema's nullability.
func (p *Projector) wrappedTypeName(ref *schema.TypeRef, inner string, forceOptional bool) string {
	name := bareTypeName(ref, inner)
	if ref.IsNonNull() && !forceOptional {
		return name
	}
	return name + "?"
}

func bareTypeName(ref *schema.TypeRef, inner string) string {
	switch ref.Kind {
	case schema.TypeRefKindNonNull:
		return bareTypeName(ref.OfType, inner)
	case schema.TypeRefKindList:
		elem := bareTypeName(ref.OfType, inner)
		if !ref.OfType.IsNonNull() {
			elem += "?"
		}
		return "[" + elem + "]"
	default:
		return inner
	}
}

var builtinScalarNames = map[string]string{
	"String":  "String",
	"ID":      "GraphQLID",
	"Int":     "Int",
	"Float":   "Double",
	"Boolean": "Bool",
}

func (p *Projector) innerTypeName(named *schema.Type) string {
	if named == nil {
		return "String"
	}
	switch named.Kind {
	case schema.TypeKindScalar:
		if swift, ok := builtinScalarNames[named.Name]; ok {
			return swift
		}
		if p.opts.PassthroughCustomScalars {
			return p.opts.CustomScalarsPrefix + named.Name
		}
		return "String"
	default:
		return named.Name
	}
}
