package compiler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	compiler "github.com/leoasis/apollo-codegen/internal/compiler"
)

func TestOperationIDStableAcrossWhitespace(t *testing.T) {
	compact := mustCompile(t,
		`query Hero { hero { name appearsIn } }`,
		compiler.Options{GenerateOperationIDs: true})
	spread := mustCompile(t, `
		query Hero {
			hero {
				name
				appearsIn
			}
		}
	`, compiler.Options{GenerateOperationIDs: true})

	id := compact.Operations["Hero"].ID
	require.Len(t, id, 64)
	assert.Equal(t, id, spread.Operations["Hero"].ID)
}

func TestOperationIDInsensitiveToFragmentOrder(t *testing.T) {
	a := mustCompile(t, `
		query Hero { hero { ...Names ...Episodes } }
		fragment Names on Character { name }
		fragment Episodes on Character { appearsIn }
	`, compiler.Options{GenerateOperationIDs: true})
	b := mustCompile(t, `
		query Hero { hero { ...Names ...Episodes } }
		fragment Episodes on Character { appearsIn }
		fragment Names on Character { name }
	`, compiler.Options{GenerateOperationIDs: true})

	assert.Equal(t, a.Operations["Hero"].ID, b.Operations["Hero"].ID)
}

func TestOperationIDReflectsFragmentBody(t *testing.T) {
	a := mustCompile(t, `
		query Hero { hero { ...Names } }
		fragment Names on Character { name }
	`, compiler.Options{GenerateOperationIDs: true})
	b := mustCompile(t, `
		query Hero { hero { ...Names } }
		fragment Names on Character { name appearsIn }
	`, compiler.Options{GenerateOperationIDs: true})

	assert.NotEqual(t, a.Operations["Hero"].ID, b.Operations["Hero"].ID)
}

func TestOperationIDDisabledByDefault(t *testing.T) {
	ctx := mustCompile(t, `query Hero { hero { name } }`, compiler.Options{})
	assert.Empty(t, ctx.Operations["Hero"].ID)
}

func TestReferencedFragmentsTransitive(t *testing.T) {
	ctx := mustCompile(t, `
		query Hero { hero { ...Details } }
		fragment Episodes on Character { appearsIn }
		fragment Details on Character { name ...Episodes }
		fragment Unrelated on Review { stars }
	`, compiler.Options{})

	frags := ctx.ReferencedFragments(ctx.Operations["Hero"])
	names := make([]string, 0, len(frags))
	for _, f := range frags {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"Episodes", "Details"}, names)
}
