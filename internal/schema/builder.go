package schema

import (
	"fmt"
	"sort"

	language "github.com/leoasis/apollo-codegen/internal/language"
)

// BuildFromDocument builds the typed schema model from a parsed SDL document.
// Type extensions are merged into their base definitions, and the
// possible-types relation for interfaces and unions is resolved eagerly so
// lookups never touch the AST again.
func BuildFromDocument(doc *language.SchemaDocument) (*Schema, error) {
	s := &Schema{Types: make(map[string]*Type)}
	addBuiltins(s)

	for _, node := range doc.Definitions {
		if _, ok := s.Types[node.Name]; ok {
			return nil, fmt.Errorf("schema: duplicate type %q", node.Name)
		}
		t, err := buildType(node)
		if err != nil {
			return nil, err
		}
		s.Types[node.Name] = t
	}
	for _, node := range doc.Extensions {
		base, ok := s.Types[node.Name]
		if !ok {
			return nil, fmt.Errorf("schema: extension of undeclared type %q", node.Name)
		}
		if err := extendType(base, node); err != nil {
			return nil, err
		}
	}

	resolvePossibleTypes(s)

	if err := applyRootTypes(s, doc); err != nil {
		return nil, err
	}
	return s, nil
}

// BuildFromSDL parses SDL source and returns the corresponding Schema.
func BuildFromSDL(sdl string) (*Schema, error) {
	doc, err := language.ParseSchema("schema.graphql", sdl)
	if err != nil {
		return nil, err
	}
	return BuildFromDocument(doc)
}

func buildType(node *language.Definition) (*Type, error) {
	switch node.Kind {
	case language.Scalar:
		return &Type{Name: node.Name, Kind: TypeKindScalar, Description: node.Description}, nil
	case language.Object:
		t := &Type{Name: node.Name, Kind: TypeKindObject, Description: node.Description}
		t.Interfaces = append(t.Interfaces, node.Interfaces...)
		return t, extendType(t, node)
	case language.Interface:
		t := &Type{Name: node.Name, Kind: TypeKindInterface, Description: node.Description}
		return t, extendType(t, node)
	case language.Union:
		t := &Type{Name: node.Name, Kind: TypeKindUnion, Description: node.Description}
		t.PossibleTypes = append(t.PossibleTypes, node.Types...)
		return t, nil
	case language.Enum:
		t := &Type{Name: node.Name, Kind: TypeKindEnum, Description: node.Description}
		return t, extendType(t, node)
	case language.InputObject:
		t := &Type{Name: node.Name, Kind: TypeKindInputObject, Description: node.Description}
		return t, extendType(t, node)
	default:
		return nil, fmt.Errorf("schema: unsupported definition kind %q for %q", node.Kind, node.Name)
	}
}

func extendType(t *Type, node *language.Definition) error {
	switch t.Kind {
	case TypeKindObject, TypeKindInterface:
		for _, fieldNode := range node.Fields {
			if t.LookupField(fieldNode.Name) != nil {
				return fmt.Errorf("schema: duplicate field %q on type %q", fieldNode.Name, t.Name)
			}
			f, err := buildField(fieldNode)
			if err != nil {
				return err
			}
			t.Fields = append(t.Fields, f)
		}
	case TypeKindInputObject:
		for _, fieldNode := range node.Fields {
			if t.LookupInputField(fieldNode.Name) != nil {
				return fmt.Errorf("schema: duplicate input field %q on type %q", fieldNode.Name, t.Name)
			}
			iv, err := buildInputValueFromField(fieldNode)
			if err != nil {
				return err
			}
			t.InputFields = append(t.InputFields, iv)
		}
	case TypeKindEnum:
		for _, valueNode := range node.EnumValues {
			t.EnumValues = append(t.EnumValues, buildEnumValue(valueNode))
		}
	case TypeKindUnion:
		t.PossibleTypes = append(t.PossibleTypes, node.Types...)
	}
	return nil
}

func buildField(node *language.FieldDefinition) (*Field, error) {
	f := &Field{
		Name:        node.Name,
		Description: node.Description,
		Type:        buildTypeRef(node.Type),
	}
	if d := node.Directives.ForName("deprecated"); d != nil {
		f.IsDeprecated = true
		if arg := d.Arguments.ForName("reason"); arg != nil {
			f.DeprecationReason = arg.Value.Raw
		}
	}
	for _, argNode := range node.Arguments {
		iv := &InputValue{
			Name:        argNode.Name,
			Description: argNode.Description,
			Type:        buildTypeRef(argNode.Type),
		}
		if argNode.DefaultValue != nil {
			v, err := argNode.DefaultValue.Value(nil)
			if err != nil {
				return nil, err
			}
			iv.DefaultValue = v
		}
		f.Arguments = append(f.Arguments, iv)
	}
	return f, nil
}

func buildInputValueFromField(node *language.FieldDefinition) (*InputValue, error) {
	iv := &InputValue{
		Name:        node.Name,
		Description: node.Description,
		Type:        buildTypeRef(node.Type),
	}
	if node.DefaultValue != nil {
		v, err := node.DefaultValue.Value(nil)
		if err != nil {
			return nil, err
		}
		iv.DefaultValue = v
	}
	return iv, nil
}

func buildEnumValue(node *language.EnumValueDefinition) *EnumValue {
	e := &EnumValue{Name: node.Name, Description: node.Description}
	if d := node.Directives.ForName("deprecated"); d != nil {
		e.IsDeprecated = true
		if arg := d.Arguments.ForName("reason"); arg != nil {
			e.DeprecationReason = arg.Value.Raw
		}
	}
	return e
}

func buildTypeRef(node *language.Type) *TypeRef {
	if node.NonNull {
		return NonNullType(buildTypeRef(&language.Type{
			NamedType: node.NamedType,
			Elem:      node.Elem,
			Position:  node.Position,
		}))
	}
	if node.Elem != nil {
		return ListType(buildTypeRef(node.Elem))
	}
	return NamedType(node.NamedType)
}

// resolvePossibleTypes records on every interface the object types that
// implement it. Union member lists come straight from their definitions.
func resolvePossibleTypes(s *Schema) {
	for _, t := range s.Types {
		if t.Kind != TypeKindObject {
			continue
		}
		for _, ifaceName := range t.Interfaces {
			iface := s.Types[ifaceName]
			if iface == nil || iface.Kind != TypeKindInterface {
				continue
			}
			iface.PossibleTypes = append(iface.PossibleTypes, t.Name)
		}
	}
	for _, t := range s.Types {
		if t.Kind == TypeKindInterface {
			sort.Strings(t.PossibleTypes)
		}
	}
}

func applyRootTypes(s *Schema, doc *language.SchemaDocument) error {
	for _, def := range doc.Schema {
		for _, op := range def.OperationTypes {
			if s.Types[op.Type] == nil {
				return fmt.Errorf("schema: root operation type %q not declared", op.Type)
			}
			switch op.Operation {
			case language.Query:
				s.QueryType = op.Type
			case language.Mutation:
				s.MutationType = op.Type
			case language.Subscription:
				s.SubscriptionType = op.Type
			}
		}
	}
	// Conventional defaults when no schema definition is present.
	if s.QueryType == "" && s.Types["Query"] != nil {
		s.QueryType = "Query"
	}
	if s.MutationType == "" && s.Types["Mutation"] != nil {
		s.MutationType = "Mutation"
	}
	if s.SubscriptionType == "" && s.Types["Subscription"] != nil {
		s.SubscriptionType = "Subscription"
	}
	if s.QueryType == "" {
		return fmt.Errorf("schema: no query root type")
	}
	return nil
}
