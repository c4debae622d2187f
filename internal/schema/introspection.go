package schema

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Node shapes for the standard introspection result. Only the portion the
// schema model consumes is declared.
type introspectionResult struct {
	Data   *introspectionData   `json:"data"`
	Schema *introspectionSchema `json:"__schema"`
}

type introspectionData struct {
	Schema *introspectionSchema `json:"__schema"`
}

type introspectionSchema struct {
	QueryType        *introspectionNamed  `json:"queryType"`
	MutationType     *introspectionNamed  `json:"mutationType"`
	SubscriptionType *introspectionNamed  `json:"subscriptionType"`
	Types            []*introspectionType `json:"types"`
}

type introspectionNamed struct {
	Name string `json:"name"`
}

type introspectionType struct {
	Kind          string                     `json:"kind"`
	Name          string                     `json:"name"`
	Description   string                     `json:"description"`
	Fields        []*introspectionField      `json:"fields"`
	Interfaces    []*introspectionTypeRef    `json:"interfaces"`
	InputFields   []*introspectionInputValue `json:"inputFields"`
	EnumValues    []*introspectionEnumValue  `json:"enumValues"`
	PossibleTypes []*introspectionTypeRef    `json:"possibleTypes"`
}

type introspectionField struct {
	Name              string                     `json:"name"`
	Description       string                     `json:"description"`
	Args              []*introspectionInputValue `json:"args"`
	Type              *introspectionTypeRef      `json:"type"`
	IsDeprecated      bool                       `json:"isDeprecated"`
	DeprecationReason string                     `json:"deprecationReason"`
}

type introspectionInputValue struct {
	Name         string                `json:"name"`
	Description  string                `json:"description"`
	Type         *introspectionTypeRef `json:"type"`
	DefaultValue *string               `json:"defaultValue"`
}

type introspectionEnumValue struct {
	Name              string `json:"name"`
	Description       string `json:"description"`
	IsDeprecated      bool   `json:"isDeprecated"`
	DeprecationReason string `json:"deprecationReason"`
}

type introspectionTypeRef struct {
	Kind   string                `json:"kind"`
	Name   string                `json:"name"`
	OfType *introspectionTypeRef `json:"ofType"`
}

// BuildFromIntrospection builds the typed schema model from a standard
// introspection query result. Both the bare result and the
// {"data": {"__schema": ...}} envelope are accepted. Introspection meta types
// (names starting with "__") are skipped.
func BuildFromIntrospection(raw []byte) (*Schema, error) {
	var result introspectionResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("schema: parsing introspection result: %w", err)
	}
	node := result.Schema
	if node == nil && result.Data != nil {
		node = result.Data.Schema
	}
	if node == nil {
		return nil, fmt.Errorf("schema: introspection result has no __schema")
	}

	s := &Schema{Types: make(map[string]*Type)}
	addBuiltins(s)

	for _, tn := range node.Types {
		if strings.HasPrefix(tn.Name, "__") || IsBuiltinScalar(tn.Name) {
			continue
		}
		if _, ok := s.Types[tn.Name]; ok {
			return nil, fmt.Errorf("schema: duplicate type %q", tn.Name)
		}
		t, err := typeFromIntrospection(tn)
		if err != nil {
			return nil, err
		}
		s.Types[tn.Name] = t
	}

	if node.QueryType != nil {
		s.QueryType = node.QueryType.Name
	}
	if node.MutationType != nil {
		s.MutationType = node.MutationType.Name
	}
	if node.SubscriptionType != nil {
		s.SubscriptionType = node.SubscriptionType.Name
	}
	if s.QueryType == "" || s.Types[s.QueryType] == nil {
		return nil, fmt.Errorf("schema: no query root type")
	}
	return s, nil
}

func typeFromIntrospection(node *introspectionType) (*Type, error) {
	t := &Type{Name: node.Name, Kind: TypeKind(node.Kind), Description: node.Description}
	switch t.Kind {
	case TypeKindScalar:
	case TypeKindObject, TypeKindInterface:
		for _, fn := range node.Fields {
			f, err := fieldFromIntrospection(node.Name, fn)
			if err != nil {
				return nil, err
			}
			t.Fields = append(t.Fields, f)
		}
		for _, iface := range node.Interfaces {
			t.Interfaces = append(t.Interfaces, iface.Name)
		}
		for _, possible := range node.PossibleTypes {
			t.PossibleTypes = append(t.PossibleTypes, possible.Name)
		}
	case TypeKindUnion:
		for _, possible := range node.PossibleTypes {
			t.PossibleTypes = append(t.PossibleTypes, possible.Name)
		}
	case TypeKindEnum:
		for _, vn := range node.EnumValues {
			t.EnumValues = append(t.EnumValues, &EnumValue{
				Name:              vn.Name,
				Description:       vn.Description,
				IsDeprecated:      vn.IsDeprecated,
				DeprecationReason: vn.DeprecationReason,
			})
		}
	case TypeKindInputObject:
		for _, fn := range node.InputFields {
			iv, err := inputValueFromIntrospection(node.Name, fn)
			if err != nil {
				return nil, err
			}
			t.InputFields = append(t.InputFields, iv)
		}
	default:
		return nil, fmt.Errorf("schema: unsupported type kind %q for %q", node.Kind, node.Name)
	}
	return t, nil
}

func fieldFromIntrospection(typeName string, node *introspectionField) (*Field, error) {
	ref, err := typeRefFromIntrospection(node.Type)
	if err != nil {
		return nil, fmt.Errorf("schema: field %s.%s: %w", typeName, node.Name, err)
	}
	f := &Field{
		Name:              node.Name,
		Description:       node.Description,
		Type:              ref,
		IsDeprecated:      node.IsDeprecated,
		DeprecationReason: node.DeprecationReason,
	}
	for _, argNode := range node.Args {
		arg, err := inputValueFromIntrospection(typeName+"."+node.Name, argNode)
		if err != nil {
			return nil, err
		}
		f.Arguments = append(f.Arguments, arg)
	}
	return f, nil
}

func inputValueFromIntrospection(owner string, node *introspectionInputValue) (*InputValue, error) {
	ref, err := typeRefFromIntrospection(node.Type)
	if err != nil {
		return nil, fmt.Errorf("schema: input value %s.%s: %w", owner, node.Name, err)
	}
	iv := &InputValue{Name: node.Name, Description: node.Description, Type: ref}
	if node.DefaultValue != nil {
		iv.DefaultValue = *node.DefaultValue
	}
	return iv, nil
}

func typeRefFromIntrospection(node *introspectionTypeRef) (*TypeRef, error) {
	if node == nil {
		return nil, fmt.Errorf("missing type reference")
	}
	switch node.Kind {
	case "NON_NULL":
		inner, err := typeRefFromIntrospection(node.OfType)
		if err != nil {
			return nil, err
		}
		return NonNullType(inner), nil
	case "LIST":
		inner, err := typeRefFromIntrospection(node.OfType)
		if err != nil {
			return nil, err
		}
		return ListType(inner), nil
	default:
		if node.Name == "" {
			return nil, fmt.Errorf("unnamed %s type reference", node.Kind)
		}
		return NamedType(node.Name), nil
	}
}
