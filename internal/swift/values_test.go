package swift_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	compiler "github.com/leoasis/apollo-codegen/internal/compiler"
	swift "github.com/leoasis/apollo-codegen/internal/swift"
	typegen "github.com/leoasis/apollo-codegen/internal/typegen"
)

// firstField returns the first field selection of the named operation.
func firstField(t *testing.T, ctx *compiler.Context, opName string) *compiler.Field {
	t.Helper()
	op, ok := ctx.Operations[opName]
	require.True(t, ok, "operation %s not compiled", opName)
	field, ok := op.SelectionSet.Selections[0].(*compiler.Field)
	require.True(t, ok)
	return field
}

func TestDictionaryLiteralForFieldArguments(t *testing.T) {
	ctx := compileQuery(t, `
		mutation CreateReview($commentary: String, $red: Int!) {
			createReview(episode: JEDI, review: {
				stars: 2,
				commentary: $commentary,
				favorite_color: { red: $red, blue: 100, green: 50 }
			}) {
				stars
			}
		}
	`, compiler.Options{})

	g := swift.NewGenerator(ctx, typegen.Options{})
	g.DictionaryLiteralForFieldArguments(firstField(t, ctx, "CreateReview").Arguments)

	want := `["episode": "JEDI", "review": ["stars": 2, "commentary": Variable("commentary"), "favorite_color": ["red": Variable("red"), "blue": 100, "green": 50]]]` + "\n"
	assert.Equal(t, want, g.Output())
}

func TestDictionaryLiteralEmptyArguments(t *testing.T) {
	ctx := compileQuery(t, `query Hero { hero { name } }`, compiler.Options{})
	g := swift.NewGenerator(ctx, typegen.Options{})
	g.DictionaryLiteralForFieldArguments(firstField(t, ctx, "Hero").Arguments)
	assert.Equal(t, "[:]\n", g.Output())
}

func TestDictionaryLiteralScalarKinds(t *testing.T) {
	ctx := compileQuery(t, `
		query Search {
			search(text: null) { ... on Human { name } }
		}
	`, compiler.Options{})
	g := swift.NewGenerator(ctx, typegen.Options{})
	g.DictionaryLiteralForFieldArguments(firstField(t, ctx, "Search").Arguments)
	assert.Equal(t, `["text": nil]`+"\n", g.Output())
}

func TestDictionaryLiteralStringQuoting(t *testing.T) {
	ctx := compileQuery(t, `
		query Search {
			search(text: "a \"quoted\" droid") { ... on Droid { name } }
		}
	`, compiler.Options{})
	g := swift.NewGenerator(ctx, typegen.Options{})
	g.DictionaryLiteralForFieldArguments(firstField(t, ctx, "Search").Arguments)
	assert.Equal(t, `["text": "a \"quoted\" droid"]`+"\n", g.Output())
}
