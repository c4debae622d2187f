package swift

import (
	"fmt"
	"strings"

	compiler "github.com/leoasis/apollo-codegen/internal/compiler"
	typegen "github.com/leoasis/apollo-codegen/internal/typegen"
)

// Generator renders declarations into one owned output buffer. The buffer is
// append-only; nesting depth is tracked separately so callers may interleave
// emission calls as long as the result is a valid nested sequence. A
// Generator must not be shared between concurrent emitters; the compilation
// context it reads from can be.
type Generator struct {
	ctx  *compiler.Context
	proj *typegen.Projector

	sb       strings.Builder
	indent   int
	declared map[string]string
}

func NewGenerator(ctx *compiler.Context, opts typegen.Options) *Generator {
	return &Generator{
		ctx:      ctx,
		proj:     typegen.NewProjector(ctx, opts),
		declared: make(map[string]string),
	}
}

// Output returns everything emitted so far.
func (g *Generator) Output() string { return g.sb.String() }

// DeclaredTypes maps source names (operations, fragments, schema types) to
// the identifiers declared for them, for downstream cross-referencing.
func (g *Generator) DeclaredTypes() map[string]string { return g.declared }

func (g *Generator) printf(format string, args ...any) {
	fmt.Fprintf(&g.sb, format, args...)
}

// println writes one indented line.
func (g *Generator) println(format string, args ...any) {
	g.sb.WriteString(strings.Repeat("  ", g.indent))
	g.printf(format, args...)
	g.sb.WriteString("\n")
}

func (g *Generator) blankLine() { g.sb.WriteString("\n") }

// withinBlock emits "header {", runs fn one level deeper, and closes the
// brace. Indentation is restored on every exit path.
func (g *Generator) withinBlock(header string, fn func() error) (err error) {
	g.println("%s {", header)
	g.indent++
	defer func() {
		g.indent--
		if err == nil {
			g.println("}")
		}
	}()
	return fn()
}

func (g *Generator) recordDeclaration(sourceName, identifier string) {
	g.declared[sourceName] = identifier
}

// multilineString renders s as a Swift string literal. Newlines collapse to
// escaped sequences so the operation source stays a single-line literal.
func multilineString(s string) string {
	replacer := strings.NewReplacer(
		"\\", "\\\\",
		"\"", "\\\"",
		"\n", "\\n",
		"\t", "\\t",
	)
	return "\"" + replacer.Replace(s) + "\""
}
