package compiler_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	compiler "github.com/leoasis/apollo-codegen/internal/compiler"
)

func TestCompileOperation(t *testing.T) {
	ctx := mustCompile(t, `
		query HeroName($episode: Episode) {
			hero(episode: $episode) {
				name
			}
		}
	`, compiler.Options{})

	require.Len(t, ctx.Operations, 1)
	op := ctx.Operations["HeroName"]
	require.NotNil(t, op)
	require.Equal(t, compiler.OperationQuery, op.Type)
	require.Equal(t, "Query", op.RootType.Name)

	require.Len(t, op.Variables, 1)
	require.Equal(t, "episode", op.Variables[0].Name)
	require.Equal(t, "Episode", op.Variables[0].Type.String())

	require.Len(t, op.SelectionSet.Selections, 1)
	hero, ok := op.SelectionSet.Selections[0].(*compiler.Field)
	require.True(t, ok, "expected a field selection")
	require.Equal(t, "hero", hero.Name)
	require.Equal(t, "Character", hero.Type.GetNamedType())
	require.Equal(t, "Character", hero.SelectionSet.ParentType.Name)

	require.Len(t, hero.Arguments, 1)
	require.Equal(t, "episode", hero.Arguments[0].Name)
	ref, ok := hero.Arguments[0].Value.(*compiler.VariableRef)
	require.True(t, ok, "expected a variable reference")
	require.Equal(t, "episode", ref.Name)
}

func TestCompileFragment(t *testing.T) {
	ctx := mustCompile(t, `
		query HeroDetailsQuery {
			hero {
				...HeroDetails
			}
		}
		fragment HeroDetails on Character {
			name
			appearsIn
		}
	`, compiler.Options{})

	frag := ctx.Fragments["HeroDetails"]
	require.NotNil(t, frag)
	require.Equal(t, "Character", frag.TypeCondition.Name)
	require.Len(t, frag.SelectionSet.Selections, 2)

	op := ctx.Operations["HeroDetailsQuery"]
	hero := op.SelectionSet.Selections[0].(*compiler.Field)
	spread, ok := hero.SelectionSet.Selections[0].(*compiler.FragmentSpread)
	require.True(t, ok, "expected a fragment spread")
	require.Equal(t, "HeroDetails", spread.Name)
}

func TestCompileInclusionGuard(t *testing.T) {
	ctx := mustCompile(t, `
		query Hero($withFriends: Boolean!) {
			hero {
				name
				friends @include(if: $withFriends) {
					name
				}
			}
		}
	`, compiler.Options{})

	hero := ctx.Operations["Hero"].SelectionSet.Selections[0].(*compiler.Field)
	friends := hero.SelectionSet.Selections[1].(*compiler.Field)
	require.NotNil(t, friends.Guard)
	require.False(t, friends.Guard.Inverted)
	ref := friends.Guard.Condition.(*compiler.VariableRef)
	require.Equal(t, "withFriends", ref.Name)
}

func TestCompileSkipGuardInverted(t *testing.T) {
	ctx := mustCompile(t, `
		query Hero($short: Boolean!) {
			hero {
				name @skip(if: $short)
			}
		}
	`, compiler.Options{})

	hero := ctx.Operations["Hero"].SelectionSet.Selections[0].(*compiler.Field)
	name := hero.SelectionSet.Selections[0].(*compiler.Field)
	require.NotNil(t, name.Guard)
	require.True(t, name.Guard.Inverted)
}

func TestCompileArgumentLiterals(t *testing.T) {
	ctx := mustCompile(t, `
		mutation CreateReview($commentary: String) {
			createReview(episode: JEDI, review: { stars: 2, commentary: $commentary }) {
				stars
			}
		}
	`, compiler.Options{})

	create := ctx.Operations["CreateReview"].SelectionSet.Selections[0].(*compiler.Field)
	require.Len(t, create.Arguments, 2)

	episode := create.Arguments[0]
	require.Equal(t, "episode", episode.Name)
	enum, ok := episode.Value.(*compiler.EnumValue)
	require.True(t, ok, "expected an enum literal")
	require.Equal(t, "JEDI", enum.Value)

	review := create.Arguments[1]
	obj, ok := review.Value.(*compiler.ObjectValue)
	require.True(t, ok, "expected an input object literal")
	require.Equal(t, "stars", obj.Fields[0].Name)
	require.Equal(t, "commentary", obj.Fields[1].Name)
	stars := obj.Fields[0].Value.(*compiler.ScalarValue)
	require.Equal(t, compiler.ScalarInt, stars.Kind)
	require.Equal(t, "2", stars.Raw)
}

func TestCompileTypename(t *testing.T) {
	ctx := mustCompile(t, `
		query Hero {
			hero {
				__typename
				name
			}
		}
	`, compiler.Options{})

	hero := ctx.Operations["Hero"].SelectionSet.Selections[0].(*compiler.Field)
	typename := hero.SelectionSet.Selections[0].(*compiler.Field)
	require.Equal(t, "String!", typename.Type.String())
}

func TestCompileDeterminism(t *testing.T) {
	const q = `
		query Hero($episode: Episode) {
			hero(episode: $episode) {
				name
				...DroidDetails
			}
		}
		fragment DroidDetails on Droid {
			primaryFunction
		}
	`
	a := mustCompile(t, q, compiler.Options{GenerateOperationIDs: true})
	b := mustCompile(t, q, compiler.Options{GenerateOperationIDs: true})

	if diff := cmp.Diff(summarize(a), summarize(b)); diff != "" {
		t.Errorf("contexts differ between identical compilations (-first +second):\n%s", diff)
	}
}

// summarize flattens a context into comparable data: sources and ids.
func summarize(ctx *compiler.Context) map[string]string {
	out := make(map[string]string)
	for _, op := range ctx.OperationsInOrder() {
		out["op:"+op.Name] = op.Source + "#" + op.ID
	}
	for _, frag := range ctx.FragmentsInOrder() {
		out["frag:"+frag.Name] = frag.Source
	}
	return out
}

func TestCompileErrors(t *testing.T) {
	for _, tc := range []struct {
		name     string
		query    string
		wantKind compiler.ErrorKind
		wantErr  string
	}{
		{
			name:     "unknown_field",
			query:    `query Q { hero { wings } }`,
			wantKind: compiler.ErrSchemaMismatch,
			wantErr:  `has no field "wings"`,
		},
		{
			name:     "unknown_argument",
			query:    `query Q { hero(name: "R2") { name } }`,
			wantKind: compiler.ErrSchemaMismatch,
			wantErr:  `has no argument "name"`,
		},
		{
			name:     "no_subscription_root",
			query:    `subscription S { hero { name } }`,
			wantKind: compiler.ErrSchemaMismatch,
			wantErr:  "no subscription root type",
		},
		{
			name:     "undefined_fragment",
			query:    `query Q { hero { ...Missing } }`,
			wantKind: compiler.ErrUndefinedFragment,
			wantErr:  `Fragment "Missing" is not defined`,
		},
		{
			name:     "unknown_inline_fragment_type",
			query:    `query Q { hero { ... on Wookiee { name } } }`,
			wantKind: compiler.ErrUnknownType,
			wantErr:  `Type "Wookiee" not found`,
		},
		{
			name:     "unknown_variable_type",
			query:    `query Q($e: Episodes) { hero(episode: $e) { name } }`,
			wantKind: compiler.ErrUnknownType,
			wantErr:  `Type "Episodes" not found`,
		},
		{
			name: "merge_conflict",
			query: `query Q {
				hero { name }
				hero { name: appearsIn }
			}`,
			wantKind: compiler.ErrFieldMergeConflict,
			wantErr:  `incompatible types`,
		},
		{
			name:     "undefined_variable",
			query:    `query Q { hero(episode: $episode) { name } }`,
			wantKind: compiler.ErrUndefinedVariable,
			wantErr:  `Variable $episode is not declared`,
		},
		{
			name: "undefined_variable_through_fragment",
			query: `query Q { hero { ...F } }
				fragment F on Character { friends @include(if: $withFriends) { name } }`,
			wantKind: compiler.ErrUndefinedVariable,
			wantErr:  `Variable $withFriends is not declared`,
		},
		{
			name: "duplicate_operation",
			query: `query Q { hero { name } }
				query Q { hero { name } }`,
			wantKind: compiler.ErrDuplicateDefinition,
			wantErr:  `Duplicate operation name "Q"`,
		},
		{
			name: "fragment_cycle",
			query: `query Q { hero { ...A } }
				fragment A on Character { ...B }
				fragment B on Character { ...A }`,
			wantKind: compiler.ErrFragmentCycle,
			wantErr:  "cannot spread itself",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := compiler.Compile(starwarsSchema(t), mustParseQuery(t, tc.query), compiler.Options{})
			if err == nil {
				t.Fatal("expected error but got none")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("expected error containing %q, got %v", tc.wantErr, err)
			}
			if !errors.Is(err, compiler.KindError(tc.wantKind)) {
				t.Errorf("expected kind %s, got %v", tc.wantKind, err)
			}
		})
	}
}
