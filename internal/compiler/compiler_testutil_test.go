package compiler_test

import (
	"os"
	"testing"

	compiler "github.com/leoasis/apollo-codegen/internal/compiler"
	language "github.com/leoasis/apollo-codegen/internal/language"
	schema "github.com/leoasis/apollo-codegen/internal/schema"
)

// starwarsSchema builds the shared test schema and fails the test on error.
func starwarsSchema(t *testing.T) *schema.Schema {
	t.Helper()
	sdl, err := os.ReadFile("testdata/starwars.graphql")
	if err != nil {
		t.Fatalf("failed to read schema fixture: %v", err)
	}
	s, err := schema.BuildFromSDL(string(sdl))
	if err != nil {
		t.Fatalf("failed to build schema: %v", err)
	}
	return s
}

// mustParseQuery parses a GraphQL query and fails the test on error.
func mustParseQuery(t *testing.T, q string) *language.QueryDocument {
	t.Helper()
	d, err := language.ParseQuery(q)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return d
}

// mustCompile compiles q against the Star Wars schema with opts.
func mustCompile(t *testing.T, q string, opts compiler.Options) *compiler.Context {
	t.Helper()
	ctx, err := compiler.Compile(starwarsSchema(t), mustParseQuery(t, q), opts)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	return ctx
}
