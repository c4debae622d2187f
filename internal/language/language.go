package language

import (
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"
	"github.com/vektah/gqlparser/v2/parser"
)

func ParseQuery(source string) (*QueryDocument, error) {
	doc, err := parser.ParseQuery(&ast.Source{Input: source})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func ParseSchema(name, source string) (*SchemaDocument, error) {
	doc, err := parser.ParseSchema(&ast.Source{Name: name, Input: source})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// FormatQuery renders a query document back to canonical text. Two documents
// that differ only in insignificant whitespace format identically.
func FormatQuery(doc *QueryDocument) string {
	var sb strings.Builder
	formatter.NewFormatter(&sb).FormatQueryDocument(doc)
	return strings.TrimSpace(sb.String())
}

// FormatOperation renders a single operation definition in isolation.
func FormatOperation(op *OperationDefinition) string {
	return FormatQuery(&QueryDocument{Operations: []*OperationDefinition{op}})
}

// FormatFragment renders a single fragment definition in isolation.
func FormatFragment(frag *FragmentDefinition) string {
	return FormatQuery(&QueryDocument{Fragments: []*FragmentDefinition{frag}})
}
