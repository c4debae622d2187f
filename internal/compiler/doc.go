// Package compiler resolves parsed GraphQL documents against a typed schema
// model into an immutable intermediate representation suitable for code
// generation.
//
// # Overview
//
// Compile walks every operation and fragment definition in a query document
// and produces a Context: typed Operation and Fragment trees in which every
// field carries its schema-resolved type, every argument its resolved value
// and declared input type, and every @include/@skip directive an unevaluated
// InclusionGuard. Nothing in the IR is invented; a selection that cannot be
// resolved against the schema aborts the whole compilation.
//
// # Pipeline
//
// Compilation proceeds in fixed stages:
//  1. Fragments are compiled first so spreads can be resolved by name.
//  2. Operations are compiled against their root types.
//  3. Fragment spreads are checked for cycles.
//  4. Every selection set is grouped and merged once to surface field merge
//     conflicts eagerly.
//  5. Variable references are checked against the declarations of the
//     innermost enclosing operation, through transitively spread fragments.
//  6. When requested, a content-derived identifier is attached to each
//     operation.
//
// Any stage failing returns a *Error and no Context. A returned Context is
// therefore fully valid, immutable, and safe to share across concurrent
// readers.
//
// # Grouping and merging
//
// GroupSelections resolves the spreads and inline fragments of one selection
// set into three ordered buckets: fields that apply unconditionally to the
// parent type, compatible fragment spreads kept as accessors, and conditional
// groups keyed by asserted type name. Compatibility follows the schema's
// possible-types relation: a type condition matches when it equals the parent
// type or is an abstract supertype that the parent can occur under. Repeated
// selections of one response key merge into a single field; leaves must agree
// on their resolved type exactly, composites concatenate their subselections
// for recursive grouping.
package compiler
