package typegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeIdentifier(t *testing.T) {
	assert.Equal(t, "`private`", EscapeIdentifier("private"))
	assert.Equal(t, "`Type`", EscapeIdentifier("Type"))
	assert.Equal(t, "`self`", EscapeIdentifier("self"))
	assert.Equal(t, "hero", EscapeIdentifier("hero"))
	assert.Equal(t, "Private", EscapeIdentifier("Private"))
}

func TestNameScopeSuffixesCollisions(t *testing.T) {
	scope := newNameScope()
	assert.Equal(t, "hero", scope.claim("hero"))
	assert.Equal(t, "hero2", scope.claim("hero"))
	assert.Equal(t, "hero3", scope.claim("hero"))
	assert.Equal(t, "droid", scope.claim("droid"))
}

func TestNameScopeEscapesBeforeClaiming(t *testing.T) {
	scope := newNameScope()
	assert.Equal(t, "`private`", scope.claim("private"))
	assert.Equal(t, "private2", scope.claim("private"))
}

func TestEnumCaseName(t *testing.T) {
	cases := []struct {
		value string
		want  string
	}{
		{"NEWHOPE", "newhope"},
		{"NEW_HOPE", "newHope"},
		{"EMPIRE", "empire"},
		{"jedi", "jedi"},
		{"FAVORITE_COLOR_RED", "favoriteColorRed"},
		{"_LEADING", "leading"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, enumCaseName(tc.value), "value %q", tc.value)
	}
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Hero", capitalize("hero"))
	assert.Equal(t, "Hero", capitalize("Hero"))
	assert.Equal(t, "", capitalize(""))
}
