package compiler

import (
	"fmt"

	language "github.com/leoasis/apollo-codegen/internal/language"
)

// ErrorKind classifies compilation failures.
type ErrorKind string

const (
	// ErrSchemaMismatch: a field, argument or root type is absent from the schema.
	ErrSchemaMismatch ErrorKind = "SchemaMismatch"
	// ErrUndefinedFragment: a spread references an unknown fragment.
	ErrUndefinedFragment ErrorKind = "UndefinedFragment"
	// ErrFieldMergeConflict: incompatible leaf types under one response key.
	ErrFieldMergeConflict ErrorKind = "FieldMergeConflict"
	// ErrUnknownType: an inline fragment or literal references an undeclared type.
	ErrUnknownType ErrorKind = "UnknownType"
	// ErrUndefinedVariable: a value references a variable the enclosing
	// operation does not declare.
	ErrUndefinedVariable ErrorKind = "UndefinedVariable"
	// ErrDuplicateDefinition: two operations or fragments share a name.
	ErrDuplicateDefinition ErrorKind = "DuplicateDefinition"
	// ErrFragmentCycle: a fragment transitively spreads itself.
	ErrFragmentCycle ErrorKind = "FragmentCycle"
)

// Error is a compilation error with a source position. Compilation aborts on
// the first error; no partially valid Context is ever returned.
type Error struct {
	Kind    ErrorKind
	Message string
	File    string
	Line    int
	Column  int
}

func (e *Error) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s: %s (%s:%d:%d)", e.Kind, e.Message, e.File, e.Line, e.Column)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is matches against sentinel errors of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind && t.Message == ""
}

// KindError returns a sentinel for errors.Is matching on kind alone.
func KindError(kind ErrorKind) *Error { return &Error{Kind: kind} }

// Core primitive used by all template helpers below.
func errorAt(kind ErrorKind, message string, pos *language.Position) *Error {
	e := &Error{Kind: kind, Message: message}
	if pos != nil {
		if pos.Src != nil {
			e.File = pos.Src.Name
		}
		e.Line = pos.Line
		e.Column = pos.Column
	}
	return e
}

// NOTE: Keep messages stable to avoid breaking downstream matching.

func errUnknownField(typeName, fieldName string, pos *language.Position) *Error {
	return errorAt(ErrSchemaMismatch,
		fmt.Sprintf("Type %q has no field %q", typeName, fieldName), pos)
}

func errUnknownArgument(fieldName, argName string, pos *language.Position) *Error {
	return errorAt(ErrSchemaMismatch,
		fmt.Sprintf("Field %q has no argument %q", fieldName, argName), pos)
}

func errNoRootType(operationType string, pos *language.Position) *Error {
	return errorAt(ErrSchemaMismatch,
		fmt.Sprintf("Schema declares no %s root type", operationType), pos)
}

func errUndefinedFragment(name string, pos *language.Position) *Error {
	return errorAt(ErrUndefinedFragment,
		fmt.Sprintf("Fragment %q is not defined", name), pos)
}

func errFieldMergeConflict(responseKey, left, right string) *Error {
	return &Error{
		Kind: ErrFieldMergeConflict,
		Message: fmt.Sprintf("Fields under response key %q have incompatible types %s and %s",
			responseKey, left, right),
	}
}

func errUnknownType(name string, pos *language.Position) *Error {
	return errorAt(ErrUnknownType,
		fmt.Sprintf("Type %q not found in schema", name), pos)
}

func errTypeNotComposite(name string, pos *language.Position) *Error {
	return errorAt(ErrUnknownType,
		fmt.Sprintf("Type %q cannot carry a selection set", name), pos)
}

func errUndefinedVariable(name, operationName string, pos *language.Position) *Error {
	return errorAt(ErrUndefinedVariable,
		fmt.Sprintf("Variable $%s is not declared by operation %q", name, operationName), pos)
}

func errDuplicateOperation(name string, pos *language.Position) *Error {
	return errorAt(ErrDuplicateDefinition,
		fmt.Sprintf("Duplicate operation name %q", name), pos)
}

func errDuplicateFragment(name string, pos *language.Position) *Error {
	return errorAt(ErrDuplicateDefinition,
		fmt.Sprintf("Duplicate fragment name %q", name), pos)
}

func errFragmentCycle(name string) *Error {
	return &Error{
		Kind:    ErrFragmentCycle,
		Message: fmt.Sprintf("Fragment %q cannot spread itself, directly or transitively", name),
	}
}

func errAnonymousOperation(pos *language.Position) *Error {
	return errorAt(ErrDuplicateDefinition,
		"Operations must be named to generate a typed declaration", pos)
}
