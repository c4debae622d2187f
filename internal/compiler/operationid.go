package compiler

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// ReferencedFragments returns the fragments an operation transitively
// spreads, in document order.
func (c *Context) ReferencedFragments(op *Operation) []*Fragment {
	seen := make(map[string]bool)
	var visit func(ss *SelectionSet)
	visit = func(ss *SelectionSet) {
		if ss == nil {
			return
		}
		for _, sel := range ss.Selections {
			switch s := sel.(type) {
			case *Field:
				visit(s.SelectionSet)
			case *FragmentSpread:
				if seen[s.Name] {
					continue
				}
				seen[s.Name] = true
				visit(c.Fragments[s.Name].SelectionSet)
			case *InlineFragment:
				visit(s.SelectionSet)
			}
		}
	}
	visit(op.SelectionSet)

	var frags []*Fragment
	for _, name := range c.fragmentOrder {
		if seen[name] {
			frags = append(frags, c.Fragments[name])
		}
	}
	return frags
}

// attachOperationIDs computes a stable identifier per operation: a SHA-256
// over the whitespace-normalized operation source plus the sources of all
// transitively referenced fragments sorted by fragment name. The result is
// insensitive to both source whitespace and fragment declaration order.
func attachOperationIDs(ctx *Context) {
	for _, name := range ctx.operationOrder {
		op := ctx.Operations[name]
		parts := []string{normalizeSource(op.Source)}
		frags := ctx.ReferencedFragments(op)
		sort.Slice(frags, func(i, j int) bool { return frags[i].Name < frags[j].Name })
		for _, frag := range frags {
			parts = append(parts, normalizeSource(frag.Source))
		}
		sum := sha256.Sum256([]byte(strings.Join(parts, "\n")))
		op.ID = hex.EncodeToString(sum[:])
	}
}

// normalizeSource collapses all runs of whitespace to single spaces.
func normalizeSource(source string) string {
	return strings.Join(strings.Fields(source), " ")
}

// checkFragmentCycles rejects fragments that spread themselves transitively,
// which would otherwise never terminate when flattening spread fields.
func checkFragmentCycles(ctx *Context) error {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int)

	var visit func(name string) error
	var visitSet func(ss *SelectionSet) error

	visitSet = func(ss *SelectionSet) error {
		if ss == nil {
			return nil
		}
		for _, sel := range ss.Selections {
			switch s := sel.(type) {
			case *Field:
				if err := visitSet(s.SelectionSet); err != nil {
					return err
				}
			case *FragmentSpread:
				if err := visit(s.Name); err != nil {
					return err
				}
			case *InlineFragment:
				if err := visitSet(s.SelectionSet); err != nil {
					return err
				}
			}
		}
		return nil
	}
	visit = func(name string) error {
		switch state[name] {
		case visiting:
			return errFragmentCycle(name)
		case done:
			return nil
		}
		state[name] = visiting
		if err := visitSet(ctx.Fragments[name].SelectionSet); err != nil {
			return err
		}
		state[name] = done
		return nil
	}

	for _, name := range ctx.fragmentOrder {
		if err := visit(name); err != nil {
			return err
		}
	}
	return nil
}
