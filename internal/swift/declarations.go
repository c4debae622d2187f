package swift

import (
	"fmt"

	compiler "github.com/leoasis/apollo-codegen/internal/compiler"
	schema "github.com/leoasis/apollo-codegen/internal/schema"
	typegen "github.com/leoasis/apollo-codegen/internal/typegen"
)

var protocolForOperation = map[compiler.OperationType]string{
	compiler.OperationQuery:        "GraphQLQuery",
	compiler.OperationMutation:     "GraphQLMutation",
	compiler.OperationSubscription: "GraphQLSubscription",
}

// ClassDeclarationForOperation emits the root declaration for one operation:
// the operation source constant, the optional content-derived identifier, the
// variable-backed initializer and the nested result type.
func (g *Generator) ClassDeclarationForOperation(op *compiler.Operation) error {
	root, err := g.proj.ProjectOperation(op)
	if err != nil {
		return err
	}
	g.recordDeclaration(op.Name, root.Name)

	header := fmt.Sprintf("public final class %s: %s", root.Name, protocolForOperation[op.Type])
	return g.withinBlock(header, func() error {
		g.println("public static let operationString =")
		g.indent++
		g.println("%s", multilineString(op.Source))
		g.indent--

		if fragments := g.ctx.ReferencedFragments(op); len(fragments) > 0 {
			g.blankLine()
			g.println("public static var requestString: String {")
			g.indent++
			g.println("var document = operationString")
			for _, frag := range fragments {
				g.println("document.append(\"\\n\" + %s.fragmentString)", capitalize(frag.Name))
			}
			g.println("return document")
			g.indent--
			g.println("}")
		}

		if op.ID != "" {
			g.blankLine()
			g.println("public static let operationIdentifier: String? = %q", op.ID)
		}

		if len(root.Properties) > 0 {
			g.blankLine()
			g.propertyDeclarations(root.Properties)
			g.blankLine()
			g.InitializerDeclarationForProperties(root.Properties)
			g.blankLine()
			g.println("public var variables: GraphQLMap? {")
			g.indent++
			g.println("return %s", variablesDictionary(root.Properties))
			g.indent--
			g.println("}")
		} else {
			g.blankLine()
			g.println("public init() {}")
		}

		for _, nested := range root.Nested {
			g.blankLine()
			if err := g.structDeclarationForGeneratedType(nested); err != nil {
				return err
			}
		}
		return nil
	})
}

// StructDeclarationForFragment emits a value type mirroring a named
// fragment's selection set, including its source constant.
func (g *Generator) StructDeclarationForFragment(frag *compiler.Fragment) error {
	gen, err := g.proj.ProjectFragment(frag)
	if err != nil {
		return err
	}
	g.recordDeclaration(frag.Name, gen.Name)

	header := fmt.Sprintf("public struct %s: GraphQLFragment", gen.Name)
	return g.withinBlock(header, func() error {
		g.println("public static let fragmentString =")
		g.indent++
		g.println("%s", multilineString(frag.Source))
		g.indent--
		g.blankLine()
		return g.structBody(gen)
	})
}

// StructDeclarationForSelectionSet emits a value type for an arbitrary
// selection set under an explicit name.
func (g *Generator) StructDeclarationForSelectionSet(name string, ss *compiler.SelectionSet) error {
	gen, err := g.proj.ProjectSelectionSet(name, ss)
	if err != nil {
		return err
	}
	return g.structDeclarationForGeneratedType(gen)
}

func (g *Generator) structDeclarationForGeneratedType(gen *typegen.GeneratedType) error {
	return g.withinBlock(fmt.Sprintf("public struct %s: GraphQLSelectionSet", gen.Name), func() error {
		return g.structBody(gen)
	})
}

func (g *Generator) structBody(gen *typegen.GeneratedType) error {
	if gen.Condition != "" {
		g.println("public static let possibleTypes = [%q]", gen.Condition)
		g.blankLine()
	}
	g.propertyDeclarations(gen.Properties)
	if len(gen.Properties) > 0 {
		g.blankLine()
		g.InitializerDeclarationForProperties(gen.Properties)
	}
	for _, nested := range gen.Nested {
		g.blankLine()
		if err := g.structDeclarationForGeneratedType(nested); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) propertyDeclarations(props []*typegen.Property) {
	for _, prop := range props {
		g.println("public let %s: %s", prop.Name, prop.TypeName)
	}
}

// InitializerDeclarationForProperties emits a member-wise initializer whose
// parameters mirror the declared properties; optional parameters default to
// nil.
func (g *Generator) InitializerDeclarationForProperties(props []*typegen.Property) {
	params := make([]string, 0, len(props))
	for _, prop := range props {
		param := prop.Name + ": " + prop.TypeName
		if prop.Optional {
			param += " = nil"
		}
		params = append(params, param)
	}
	g.println("public init(%s) {", joinParams(params))
	g.indent++
	for _, prop := range props {
		g.println("self.%s = %s", prop.Name, prop.Name)
	}
	g.indent--
	g.println("}")
}

// TypeDeclarationForGraphQLType emits the auxiliary declaration for a schema
// enum or input-object type.
func (g *Generator) TypeDeclarationForGraphQLType(t *schema.Type) error {
	switch t.Kind {
	case schema.TypeKindEnum:
		return g.enumDeclaration(t)
	case schema.TypeKindInputObject:
		return g.inputObjectDeclaration(t)
	default:
		return fmt.Errorf("swift: no declaration for %s type %q", t.Kind, t.Name)
	}
}

func (g *Generator) enumDeclaration(t *schema.Type) error {
	gen, err := g.proj.ProjectEnum(t)
	if err != nil {
		return err
	}
	g.recordDeclaration(t.Name, gen.Name)
	return g.withinBlock(fmt.Sprintf("public enum %s: String", gen.Name), func() error {
		for _, prop := range gen.Properties {
			g.println("case %s = %q", prop.Name, prop.RawValue)
		}
		return nil
	})
}

func (g *Generator) inputObjectDeclaration(t *schema.Type) error {
	gen, err := g.proj.ProjectInputObject(t)
	if err != nil {
		return err
	}
	g.recordDeclaration(t.Name, gen.Name)
	return g.withinBlock(fmt.Sprintf("public struct %s: GraphQLMapConvertible", gen.Name), func() error {
		g.propertyDeclarations(gen.Properties)
		if len(gen.Properties) > 0 {
			g.blankLine()
			g.InitializerDeclarationForProperties(gen.Properties)
			g.blankLine()
		}
		g.println("public var graphQLMap: GraphQLMap {")
		g.indent++
		g.println("return %s", variablesDictionary(gen.Properties))
		g.indent--
		g.println("}")
		return nil
	})
}

func variablesDictionary(props []*typegen.Property) string {
	if len(props) == 0 {
		return "[:]"
	}
	out := "["
	for i, prop := range props {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%q: %s", trimBackticks(prop.Name), prop.Name)
	}
	return out + "]"
}

func joinParams(params []string) string {
	out := ""
	for i, p := range params {
		if i > 0 {
			out += ", "
		}
		out += p
	}
	return out
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}

func trimBackticks(s string) string {
	if len(s) >= 2 && s[0] == '`' && s[len(s)-1] == '`' {
		return s[1 : len(s)-1]
	}
	return s
}
