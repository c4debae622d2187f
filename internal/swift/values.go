package swift

import (
	"strconv"
	"strings"

	compiler "github.com/leoasis/apollo-codegen/internal/compiler"
)

// DictionaryLiteralForFieldArguments appends the ordered dictionary literal
// for a resolved argument list: scalars and enums render literally, variable
// references render as typed placeholder expressions, and lists and input
// objects render recursively. Key order follows the source.
func (g *Generator) DictionaryLiteralForFieldArguments(args []*compiler.Argument) {
	g.println("%s", dictionaryLiteralForArguments(args))
}

func dictionaryLiteralForArguments(args []*compiler.Argument) string {
	if len(args) == 0 {
		return "[:]"
	}
	parts := make([]string, 0, len(args))
	for _, arg := range args {
		parts = append(parts, strconv.Quote(arg.Name)+": "+expressionForValue(arg.Value))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func expressionForValue(value compiler.Value) string {
	switch v := value.(type) {
	case *compiler.VariableRef:
		return "Variable(" + strconv.Quote(v.Name) + ")"
	case *compiler.ScalarValue:
		switch v.Kind {
		case compiler.ScalarString:
			return strconv.Quote(v.Raw)
		case compiler.ScalarNull:
			return "nil"
		default:
			return v.Raw
		}
	case *compiler.EnumValue:
		return strconv.Quote(v.Value)
	case *compiler.ListValue:
		if len(v.Values) == 0 {
			return "[]"
		}
		parts := make([]string, 0, len(v.Values))
		for _, item := range v.Values {
			parts = append(parts, expressionForValue(item))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *compiler.ObjectValue:
		if len(v.Fields) == 0 {
			return "[:]"
		}
		parts := make([]string, 0, len(v.Fields))
		for _, field := range v.Fields {
			parts = append(parts, strconv.Quote(field.Name)+": "+expressionForValue(field.Value))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return "nil"
	}
}
