package typegen

import (
	"fmt"
	"strconv"
	"strings"
)

// Swift keyword set; identifiers matching one are wrapped in backticks.
var reservedWords = map[string]bool{
	"associatedtype": true, "class": true, "deinit": true, "enum": true,
	"extension": true, "fileprivate": true, "func": true, "import": true,
	"init": true, "inout": true, "internal": true, "let": true, "open": true,
	"operator": true, "private": true, "protocol": true, "public": true,
	"static": true, "struct": true, "subscript": true, "typealias": true,
	"var": true, "break": true, "case": true, "continue": true,
	"default": true, "defer": true, "do": true, "else": true,
	"fallthrough": true, "for": true, "guard": true, "if": true, "in": true,
	"repeat": true, "return": true, "switch": true, "where": true,
	"while": true, "as": true, "catch": true, "false": true, "is": true,
	"nil": true, "rethrows": true, "self": true, "Self": true, "super": true,
	"throw": true, "throws": true, "true": true, "try": true, "Type": true,
	"Protocol": true,
}

// EscapeIdentifier wraps Swift reserved words in backticks. GraphQL names
// cannot contain backticks, so escaping never maps two distinct names onto
// the same identifier.
func EscapeIdentifier(name string) string {
	if reservedWords[name] {
		return "`" + name + "`"
	}
	return name
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// enumCaseName camel-cases an enum value for use as a case identifier:
// underscore-separated segments are lowercased, with segments after the
// first capitalized. "NEWHOPE" becomes "newhope", "NEW_HOPE" becomes
// "newHope".
func enumCaseName(value string) string {
	var sb strings.Builder
	first := true
	for _, part := range strings.Split(value, "_") {
		if part == "" {
			continue
		}
		part = strings.ToLower(part)
		if first {
			first = false
		} else {
			part = capitalize(part)
		}
		sb.WriteString(part)
	}
	return sb.String()
}

// nameScope allocates identifiers unique within one enclosing declaration.
// The first occurrence keeps its escaped name; later collisions receive a
// numeric suffix in source order (2, 3, ...).
type nameScope struct {
	used map[string]int
}

func newNameScope() *nameScope {
	return &nameScope{used: make(map[string]int)}
}

func (s *nameScope) claim(name string) string {
	escaped := EscapeIdentifier(name)
	n := s.used[escaped]
	s.used[escaped] = n + 1
	if n == 0 {
		return escaped
	}
	return s.claim(name + strconv.Itoa(n+1))
}

// ReservedIdentifierCollisionError reports a declaration whose identifiers
// still collide after escaping and cannot be disambiguated by suffixing,
// e.g. duplicate enum cases whose raw values must stay intact.
type ReservedIdentifierCollisionError struct {
	Name  string
	Scope string
}

func (e *ReservedIdentifierCollisionError) Error() string {
	return fmt.Sprintf("ReservedIdentifierCollision: identifier %q collides within %q", e.Name, e.Scope)
}
