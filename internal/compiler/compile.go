package compiler

import (
	language "github.com/leoasis/apollo-codegen/internal/language"
	schema "github.com/leoasis/apollo-codegen/internal/schema"
)

type builder struct {
	schema *schema.Schema
	doc    *language.QueryDocument
	opts   Options

	operations     map[string]*Operation
	fragments      map[string]*Fragment
	operationOrder []string
	fragmentOrder  []string
}

// Compile resolves the parsed query document against the schema and returns
// the immutable compilation context. Any error aborts the whole document.
func Compile(s *schema.Schema, doc *language.QueryDocument, opts Options) (*Context, error) {
	b := &builder{
		schema:     s,
		doc:        doc,
		opts:       opts,
		operations: make(map[string]*Operation),
		fragments:  make(map[string]*Fragment),
	}

	if err := b.populateFragments(); err != nil {
		return nil, err
	}
	if err := b.populateOperations(); err != nil {
		return nil, err
	}

	ctx := &Context{
		Schema:         s,
		Operations:     b.operations,
		Fragments:      b.fragments,
		Options:        opts,
		operationOrder: b.operationOrder,
		fragmentOrder:  b.fragmentOrder,
	}

	if err := checkFragmentCycles(ctx); err != nil {
		return nil, err
	}
	if err := validateMerging(ctx); err != nil {
		return nil, err
	}
	if err := validateVariableReferences(ctx); err != nil {
		return nil, err
	}
	if opts.GenerateOperationIDs {
		attachOperationIDs(ctx)
	}
	return ctx, nil
}

func (b *builder) populateFragments() error {
	for _, node := range b.doc.Fragments {
		if _, ok := b.fragments[node.Name]; ok {
			return errDuplicateFragment(node.Name, node.Position)
		}
		cond := b.schema.LookupType(node.TypeCondition)
		if cond == nil {
			return errUnknownType(node.TypeCondition, node.Position)
		}
		if !cond.IsComposite() {
			return errTypeNotComposite(node.TypeCondition, node.Position)
		}
		ss, err := b.compileSelectionSet(cond, node.SelectionSet)
		if err != nil {
			return err
		}
		frag := &Fragment{
			Name:          node.Name,
			TypeCondition: cond,
			SelectionSet:  ss,
			Source:        language.FormatFragment(node),
		}
		b.fragments[node.Name] = frag
		b.fragmentOrder = append(b.fragmentOrder, node.Name)
	}
	return nil
}

func (b *builder) populateOperations() error {
	for _, node := range b.doc.Operations {
		if node.Name == "" {
			return errAnonymousOperation(node.Position)
		}
		if _, ok := b.operations[node.Name]; ok {
			return errDuplicateOperation(node.Name, node.Position)
		}
		root, err := b.rootType(node)
		if err != nil {
			return err
		}
		op := &Operation{
			Name:     node.Name,
			Type:     OperationType(node.Operation),
			RootType: root,
			Source:   language.FormatOperation(node),
		}
		for _, varDef := range node.VariableDefinitions {
			if named := namedTypeName(varDef.Type); b.schema.LookupType(named) == nil {
				return errUnknownType(named, varDef.Position)
			}
			op.Variables = append(op.Variables, &VariableDefinition{
				Name: varDef.Variable,
				Type: typeRefFromAST(varDef.Type),
			})
		}
		op.SelectionSet, err = b.compileSelectionSet(root, node.SelectionSet)
		if err != nil {
			return err
		}
		b.operations[node.Name] = op
		b.operationOrder = append(b.operationOrder, node.Name)
	}
	return nil
}

func (b *builder) rootType(node *language.OperationDefinition) (*schema.Type, error) {
	var t *schema.Type
	switch node.Operation {
	case language.Query:
		t = b.schema.GetQueryType()
	case language.Mutation:
		t = b.schema.GetMutationType()
	case language.Subscription:
		t = b.schema.GetSubscriptionType()
	}
	if t == nil {
		return nil, errNoRootType(string(node.Operation), node.Position)
	}
	return t, nil
}

func (b *builder) compileSelectionSet(parent *schema.Type, sels language.SelectionSet) (*SelectionSet, error) {
	ss := &SelectionSet{ParentType: parent}
	for _, selection := range sels {
		switch node := selection.(type) {
		case *language.Field:
			field, err := b.compileField(parent, node)
			if err != nil {
				return nil, err
			}
			ss.Selections = append(ss.Selections, field)

		case *language.FragmentSpread:
			if b.doc.Fragments.ForName(node.Name) == nil {
				return nil, errUndefinedFragment(node.Name, node.Position)
			}
			guard, err := b.compileGuard(node.Directives)
			if err != nil {
				return nil, err
			}
			ss.Selections = append(ss.Selections, &FragmentSpread{Name: node.Name, Guard: guard})

		case *language.InlineFragment:
			cond := parent
			if node.TypeCondition != "" {
				cond = b.schema.LookupType(node.TypeCondition)
				if cond == nil {
					return nil, errUnknownType(node.TypeCondition, node.Position)
				}
				if !cond.IsComposite() {
					return nil, errTypeNotComposite(node.TypeCondition, node.Position)
				}
			}
			nested, err := b.compileSelectionSet(cond, node.SelectionSet)
			if err != nil {
				return nil, err
			}
			ss.Selections = append(ss.Selections, &InlineFragment{TypeCondition: cond, SelectionSet: nested})
		}
	}
	return ss, nil
}

func (b *builder) compileField(parent *schema.Type, node *language.Field) (*Field, error) {
	var fieldType *schema.TypeRef
	var argDefs []*schema.InputValue

	if node.Name == "__typename" {
		fieldType = schema.NonNullType(schema.NamedType("String"))
	} else {
		def := parent.LookupField(node.Name)
		if def == nil {
			return nil, errUnknownField(parent.Name, node.Name, node.Position)
		}
		fieldType = def.Type
		argDefs = def.Arguments
	}

	field := &Field{
		Name:  node.Name,
		Alias: node.Alias,
		Type:  fieldType,
	}
	if field.Alias == field.Name {
		field.Alias = ""
	}

	for _, argNode := range node.Arguments {
		def := lookupInputValue(argDefs, argNode.Name)
		if def == nil {
			return nil, errUnknownArgument(node.Name, argNode.Name, argNode.Position)
		}
		if b.schema.LookupType(def.Type.GetNamedType()) == nil {
			return nil, errUnknownType(def.Type.GetNamedType(), argNode.Position)
		}
		value, err := b.resolveValue(argNode.Value)
		if err != nil {
			return nil, err
		}
		field.Arguments = append(field.Arguments, &Argument{
			Name:  argNode.Name,
			Value: value,
			Type:  def.Type,
		})
	}

	guard, err := b.compileGuard(node.Directives)
	if err != nil {
		return nil, err
	}
	field.Guard = guard

	if len(node.SelectionSet) > 0 {
		named := b.schema.LookupType(fieldType.GetNamedType())
		if named == nil {
			return nil, errUnknownType(fieldType.GetNamedType(), node.Position)
		}
		field.SelectionSet, err = b.compileSelectionSet(named, node.SelectionSet)
		if err != nil {
			return nil, err
		}
	}
	return field, nil
}

// compileGuard turns an @include(if:) or @skip(if:) directive into an
// inclusion guard. The condition is propagated unevaluated.
func (b *builder) compileGuard(directives language.DirectiveList) (*InclusionGuard, error) {
	for _, name := range []string{"include", "skip"} {
		d := directives.ForName(name)
		if d == nil {
			continue
		}
		arg := d.Arguments.ForName("if")
		if arg == nil {
			continue
		}
		cond, err := b.resolveValue(arg.Value)
		if err != nil {
			return nil, err
		}
		return &InclusionGuard{Inverted: name == "skip", Condition: cond}, nil
	}
	return nil, nil
}

func lookupInputValue(defs []*schema.InputValue, name string) *schema.InputValue {
	for _, def := range defs {
		if def.Name == name {
			return def
		}
	}
	return nil
}

func typeRefFromAST(t *language.Type) *schema.TypeRef {
	if t.NonNull {
		return schema.NonNullType(typeRefFromAST(&language.Type{
			NamedType: t.NamedType,
			Elem:      t.Elem,
			Position:  t.Position,
		}))
	}
	if t.Elem != nil {
		return schema.ListType(typeRefFromAST(t.Elem))
	}
	return schema.NamedType(t.NamedType)
}

func namedTypeName(t *language.Type) string {
	for t.Elem != nil {
		t = t.Elem
	}
	return t.NamedType
}
