package swift_test

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	compiler "github.com/leoasis/apollo-codegen/internal/compiler"
	language "github.com/leoasis/apollo-codegen/internal/language"
	schema "github.com/leoasis/apollo-codegen/internal/schema"
	swift "github.com/leoasis/apollo-codegen/internal/swift"
	typegen "github.com/leoasis/apollo-codegen/internal/typegen"
)

func compileQuery(t *testing.T, q string, opts compiler.Options) *compiler.Context {
	t.Helper()
	sdl, err := os.ReadFile("testdata/starwars.graphql")
	require.NoError(t, err)
	s, err := schema.BuildFromSDL(string(sdl))
	require.NoError(t, err)
	doc, err := language.ParseQuery(q)
	require.NoError(t, err)
	ctx, err := compiler.Compile(s, doc, opts)
	require.NoError(t, err)
	return ctx
}

func generateOperation(t *testing.T, q string, copts compiler.Options) string {
	t.Helper()
	ctx := compileQuery(t, q, copts)
	g := swift.NewGenerator(ctx, typegen.Options{})
	for _, op := range ctx.OperationsInOrder() {
		require.NoError(t, g.ClassDeclarationForOperation(op))
	}
	return g.Output()
}

func TestClassDeclarationForOperation(t *testing.T) {
	out := generateOperation(t, `
		query Hero($episode: Episode) {
			hero(episode: $episode) {
				name
			}
		}
	`, compiler.Options{})

	for _, want := range []string{
		"public final class HeroQuery: GraphQLQuery {",
		"public static let operationString =",
		"public let episode: Episode?",
		"public init(episode: Episode? = nil) {",
		"self.episode = episode",
		`return ["episode": episode]`,
		"public struct Data: GraphQLSelectionSet {",
		"public struct Hero: GraphQLSelectionSet {",
		"public let name: String",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "requestString")
	assert.NotContains(t, out, "operationIdentifier")
}

func TestClassDeclarationWithoutVariables(t *testing.T) {
	out := generateOperation(t, `query Hero { hero { name } }`, compiler.Options{})
	assert.Contains(t, out, "public init() {}")
	assert.NotContains(t, out, "variables")
}

func TestClassDeclarationAppendsFragmentStrings(t *testing.T) {
	out := generateOperation(t, `
		query Hero {
			hero { ...HeroDetails }
		}
		fragment HeroDetails on Character { name }
	`, compiler.Options{})

	assert.Contains(t, out, "public static var requestString: String {")
	assert.Contains(t, out, "var document = operationString")
	assert.Contains(t, out, `document.append("\n" + HeroDetails.fragmentString)`)
	assert.Contains(t, out, "return document")
}

func TestClassDeclarationOperationIdentifier(t *testing.T) {
	ctx := compileQuery(t, `query Hero { hero { name } }`, compiler.Options{GenerateOperationIDs: true})
	g := swift.NewGenerator(ctx, typegen.Options{})
	op := ctx.Operations["Hero"]
	require.NoError(t, g.ClassDeclarationForOperation(op))

	assert.Contains(t, g.Output(), "public static let operationIdentifier: String? = \""+op.ID+"\"")
}

func TestStructDeclarationForFragment(t *testing.T) {
	ctx := compileQuery(t, `
		query Hero { hero { ...HeroDetails } }
		fragment HeroDetails on Character {
			name
			appearsIn
		}
	`, compiler.Options{})
	g := swift.NewGenerator(ctx, typegen.Options{})
	require.NoError(t, g.StructDeclarationForFragment(ctx.Fragments["HeroDetails"]))

	out := g.Output()
	assert.Contains(t, out, "public struct HeroDetails: GraphQLFragment {")
	assert.Contains(t, out, "public static let fragmentString =")
	assert.Contains(t, out, "public let name: String")
	assert.Contains(t, out, "public let appearsIn: [Episode?]")
}

func TestStructDeclarationConditionalGroup(t *testing.T) {
	out := generateOperation(t, `
		query Hero {
			hero {
				name
				... on Droid { primaryFunction }
			}
		}
	`, compiler.Options{})

	assert.Contains(t, out, "public struct AsDroid: GraphQLSelectionSet {")
	assert.Contains(t, out, `public static let possibleTypes = ["Droid"]`)
	assert.Contains(t, out, "public let asDroid: AsDroid?")
	assert.Contains(t, out, "public let primaryFunction: String?")
}

func TestReservedWordEscapingIsConsistent(t *testing.T) {
	out := generateOperation(t, `
		query Hero {
			hero {
				private: name
			}
		}
	`, compiler.Options{})

	assert.Contains(t, out, "public let `private`: String")
	assert.Contains(t, out, "public init(`private`: String) {")
	assert.Contains(t, out, "self.`private` = `private`")
}

func TestEnumDeclaration(t *testing.T) {
	ctx := compileQuery(t, `query Hero { hero { appearsIn } }`, compiler.Options{})
	g := swift.NewGenerator(ctx, typegen.Options{})
	require.NoError(t, g.TypeDeclarationForGraphQLType(ctx.Schema.LookupType("Episode")))

	want := strings.Join([]string{
		"public enum Episode: String {",
		`  case newhope = "NEWHOPE"`,
		`  case empire = "EMPIRE"`,
		`  case jedi = "JEDI"`,
		"}",
		"",
	}, "\n")
	assert.Equal(t, want, g.Output())
}

func TestInputObjectDeclaration(t *testing.T) {
	ctx := compileQuery(t, `query Hero { hero { name } }`, compiler.Options{})
	g := swift.NewGenerator(ctx, typegen.Options{})
	require.NoError(t, g.TypeDeclarationForGraphQLType(ctx.Schema.LookupType("ColorInput")))

	want := strings.Join([]string{
		"public struct ColorInput: GraphQLMapConvertible {",
		"  public let red: Int",
		"  public let green: Int",
		"  public let blue: Int",
		"",
		"  public init(red: Int, green: Int, blue: Int) {",
		"    self.red = red",
		"    self.green = green",
		"    self.blue = blue",
		"  }",
		"",
		"  public var graphQLMap: GraphQLMap {",
		`    return ["red": red, "green": green, "blue": blue]`,
		"  }",
		"}",
		"",
	}, "\n")
	assert.Equal(t, want, g.Output())
}

func TestTypeDeclarationRejectsObjectType(t *testing.T) {
	ctx := compileQuery(t, `query Hero { hero { name } }`, compiler.Options{})
	g := swift.NewGenerator(ctx, typegen.Options{})
	err := g.TypeDeclarationForGraphQLType(ctx.Schema.LookupType("Human"))
	require.Error(t, err)
}

func TestDeclaredTypes(t *testing.T) {
	ctx := compileQuery(t, `
		query Hero { hero { ...HeroDetails } }
		fragment HeroDetails on Character { name }
	`, compiler.Options{})
	g := swift.NewGenerator(ctx, typegen.Options{})
	require.NoError(t, g.ClassDeclarationForOperation(ctx.Operations["Hero"]))
	require.NoError(t, g.StructDeclarationForFragment(ctx.Fragments["HeroDetails"]))

	declared := g.DeclaredTypes()
	assert.Equal(t, "HeroQuery", declared["Hero"])
	assert.Equal(t, "HeroDetails", declared["HeroDetails"])
}

func TestGeneratorOutputIsDeterministic(t *testing.T) {
	const q = `
		query Hero($episode: Episode) {
			hero(episode: $episode) {
				name
				friends { name }
				... on Droid { primaryFunction }
			}
		}
	`
	first := generateOperation(t, q, compiler.Options{GenerateOperationIDs: true})
	second := generateOperation(t, q, compiler.Options{GenerateOperationIDs: true})
	assert.Equal(t, first, second)
}
