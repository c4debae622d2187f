package compiler

import (
	language "github.com/leoasis/apollo-codegen/internal/language"
)

// resolveValue maps an AST value node onto the closed Value sum. Variable
// references are kept symbolic; they are validated against the enclosing
// operation after the whole document is compiled.
func (b *builder) resolveValue(node *language.Value) (Value, error) {
	switch node.Kind {
	case language.Variable:
		return &VariableRef{Name: node.Raw}, nil
	case language.IntValue:
		return &ScalarValue{Kind: ScalarInt, Raw: node.Raw}, nil
	case language.FloatValue:
		return &ScalarValue{Kind: ScalarFloat, Raw: node.Raw}, nil
	case language.StringValue, language.BlockValue:
		return &ScalarValue{Kind: ScalarString, Raw: node.Raw}, nil
	case language.BooleanValue:
		return &ScalarValue{Kind: ScalarBoolean, Raw: node.Raw}, nil
	case language.NullValue:
		return &ScalarValue{Kind: ScalarNull, Raw: "null"}, nil
	case language.EnumValue:
		return &EnumValue{Value: node.Raw}, nil
	case language.ListValue:
		list := &ListValue{}
		for _, child := range node.Children {
			v, err := b.resolveValue(child.Value)
			if err != nil {
				return nil, err
			}
			list.Values = append(list.Values, v)
		}
		return list, nil
	case language.ObjectValue:
		obj := &ObjectValue{}
		for _, child := range node.Children {
			v, err := b.resolveValue(child.Value)
			if err != nil {
				return nil, err
			}
			obj.Fields = append(obj.Fields, ObjectField{Name: child.Name, Value: v})
		}
		return obj, nil
	default:
		return &ScalarValue{Kind: ScalarString, Raw: node.Raw}, nil
	}
}

// validateVariableReferences checks that every variable reference reachable
// from an operation, including through transitively spread fragments, names a
// variable declared on that operation.
func validateVariableReferences(ctx *Context) error {
	for _, name := range ctx.operationOrder {
		op := ctx.Operations[name]
		declared := make(map[string]bool, len(op.Variables))
		for _, v := range op.Variables {
			declared[v.Name] = true
		}
		visited := make(map[string]bool)
		if err := checkVariableRefs(ctx, op, op.SelectionSet, declared, visited); err != nil {
			return err
		}
	}
	return nil
}

func checkVariableRefs(ctx *Context, op *Operation, ss *SelectionSet, declared map[string]bool, visited map[string]bool) error {
	if ss == nil {
		return nil
	}
	for _, sel := range ss.Selections {
		switch s := sel.(type) {
		case *Field:
			for _, arg := range s.Arguments {
				if err := checkValueRefs(op, arg.Value, declared); err != nil {
					return err
				}
			}
			if s.Guard != nil {
				if err := checkValueRefs(op, s.Guard.Condition, declared); err != nil {
					return err
				}
			}
			if err := checkVariableRefs(ctx, op, s.SelectionSet, declared, visited); err != nil {
				return err
			}
		case *FragmentSpread:
			if s.Guard != nil {
				if err := checkValueRefs(op, s.Guard.Condition, declared); err != nil {
					return err
				}
			}
			if visited[s.Name] {
				continue
			}
			visited[s.Name] = true
			frag := ctx.Fragments[s.Name]
			if err := checkVariableRefs(ctx, op, frag.SelectionSet, declared, visited); err != nil {
				return err
			}
		case *InlineFragment:
			if err := checkVariableRefs(ctx, op, s.SelectionSet, declared, visited); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkValueRefs(op *Operation, value Value, declared map[string]bool) error {
	switch v := value.(type) {
	case *VariableRef:
		if !declared[v.Name] {
			return errUndefinedVariable(v.Name, op.Name, nil)
		}
	case *ListValue:
		for _, item := range v.Values {
			if err := checkValueRefs(op, item, declared); err != nil {
				return err
			}
		}
	case *ObjectValue:
		for _, field := range v.Fields {
			if err := checkValueRefs(op, field.Value, declared); err != nil {
				return err
			}
		}
	}
	return nil
}
