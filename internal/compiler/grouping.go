package compiler

import (
	schema "github.com/leoasis/apollo-codegen/internal/schema"
)

// GroupedSelections is the merge result for one selection set: the fields
// that apply unconditionally to the exact parent type, the compatible
// fragment spreads kept as accessors (when flattening is disabled), and the
// conditional groups keyed by asserted type name. All three preserve
// first-occurrence order.
type GroupedSelections struct {
	Fields            []*Field
	FragmentSpreads   []*FragmentSpread
	ConditionalGroups []*ConditionalGroup
}

// ConditionalGroup holds the selections that apply only when the runtime
// value's type matches the asserted condition.
type ConditionalGroup struct {
	Type         *schema.Type
	SelectionSet *SelectionSet
}

// grouper preserves response-key order while accumulating contributions,
// mirroring the ordered-map shape used during field collection.
type grouper struct {
	ctx    *Context
	parent *schema.Type

	keys       []string
	byKey      map[string][]*Field
	spreads    []*FragmentSpread
	spreadSeen map[string]bool
	groupNames []string
	groups     map[string]*ConditionalGroup
	visited    map[string]bool
}

// GroupSelections resolves the fragment spreads and inline fragments of ss
// into an unconditional field list plus named conditional groups.
//
// A spread or inline fragment is compatible when its type condition equals
// the parent type or is an abstract supertype whose possible types include
// it. Compatible inline fragments always flatten; compatible spreads flatten
// only under Options.MergeInFieldsFromFragmentSpreads and otherwise surface
// as fragment accessors. Everything else lands in a conditional group keyed
// by the asserted type name.
func (c *Context) GroupSelections(ss *SelectionSet) (*GroupedSelections, error) {
	g := &grouper{
		ctx:        c,
		parent:     ss.ParentType,
		byKey:      make(map[string][]*Field),
		spreadSeen: make(map[string]bool),
		groups:     make(map[string]*ConditionalGroup),
		visited:    make(map[string]bool),
	}
	if err := g.collect(ss.Selections); err != nil {
		return nil, err
	}
	return g.result()
}

func (g *grouper) collect(selections []Selection) error {
	for _, selection := range selections {
		switch sel := selection.(type) {
		case *Field:
			key := sel.ResponseKey()
			if _, ok := g.byKey[key]; !ok {
				g.keys = append(g.keys, key)
			}
			g.byKey[key] = append(g.byKey[key], sel)

		case *FragmentSpread:
			frag := g.ctx.Fragments[sel.Name]
			if !g.compatible(frag.TypeCondition) {
				g.addToGroup(frag.TypeCondition, sel)
				continue
			}
			if !g.ctx.Options.MergeInFieldsFromFragmentSpreads {
				if !g.spreadSeen[sel.Name] {
					g.spreadSeen[sel.Name] = true
					g.spreads = append(g.spreads, sel)
				}
				continue
			}
			if g.visited[sel.Name] {
				continue
			}
			g.visited[sel.Name] = true
			if err := g.collect(frag.SelectionSet.Selections); err != nil {
				return err
			}

		case *InlineFragment:
			if !g.compatible(sel.TypeCondition) {
				g.addToGroup(sel.TypeCondition, sel.SelectionSet.Selections...)
				continue
			}
			if err := g.collect(sel.SelectionSet.Selections); err != nil {
				return err
			}
		}
	}
	return nil
}

func (g *grouper) compatible(condition *schema.Type) bool {
	if condition.Name == g.parent.Name {
		return true
	}
	return condition.IsAbstract() && g.ctx.Schema.IsPossibleType(condition, g.parent)
}

func (g *grouper) addToGroup(condition *schema.Type, selections ...Selection) {
	group, ok := g.groups[condition.Name]
	if !ok {
		group = &ConditionalGroup{
			Type:         condition,
			SelectionSet: &SelectionSet{ParentType: condition},
		}
		g.groups[condition.Name] = group
		g.groupNames = append(g.groupNames, condition.Name)
	}
	group.SelectionSet.Selections = append(group.SelectionSet.Selections, selections...)
}

func (g *grouper) result() (*GroupedSelections, error) {
	out := &GroupedSelections{
		FragmentSpreads: g.spreads,
	}
	for _, key := range g.keys {
		merged, err := mergeFieldContributions(g.ctx, key, g.byKey[key])
		if err != nil {
			return nil, err
		}
		out.Fields = append(out.Fields, merged)
	}
	for _, name := range g.groupNames {
		out.ConditionalGroups = append(out.ConditionalGroups, g.groups[name])
	}
	return out, nil
}

// mergeFieldContributions unifies multiple selections of the same response
// key. Composite contributions concatenate their subselections for recursive
// grouping; leaves must agree on their resolved type exactly.
func mergeFieldContributions(ctx *Context, key string, fields []*Field) (*Field, error) {
	base := fields[0]
	if len(fields) == 1 {
		return base, nil
	}
	merged := &Field{
		Name:      base.Name,
		Alias:     base.Alias,
		Arguments: base.Arguments,
		Type:      base.Type,
		Guard:     base.Guard,
	}
	if base.SelectionSet != nil {
		merged.SelectionSet = &SelectionSet{
			ParentType: base.SelectionSet.ParentType,
			Selections: append([]Selection(nil), base.SelectionSet.Selections...),
		}
	}
	for _, f := range fields[1:] {
		if (f.SelectionSet == nil) != (base.SelectionSet == nil) {
			return nil, errFieldMergeConflict(key, base.Type.String(), f.Type.String())
		}
		if f.SelectionSet == nil {
			if f.Type.String() != base.Type.String() {
				return nil, errFieldMergeConflict(key, base.Type.String(), f.Type.String())
			}
			continue
		}
		if !sameWrapperShape(base.Type, f.Type) {
			return nil, errFieldMergeConflict(key, base.Type.String(), f.Type.String())
		}
		merged.SelectionSet.Selections = append(merged.SelectionSet.Selections, f.SelectionSet.Selections...)
	}
	return merged, nil
}

// sameWrapperShape checks that two references agree on list nesting and
// nullability, ignoring the named type (composite leaves recurse later).
func sameWrapperShape(a, b *schema.TypeRef) bool {
	for a != nil && b != nil {
		if a.Kind != b.Kind {
			return false
		}
		if a.Kind == schema.TypeRefKindNamed {
			return true
		}
		a, b = a.OfType, b.OfType
	}
	return a == nil && b == nil
}

// validateMerging eagerly surfaces merge conflicts across the whole document
// so a conflicting context is never returned.
func validateMerging(ctx *Context) error {
	for _, name := range ctx.operationOrder {
		if err := walkGrouped(ctx, ctx.Operations[name].SelectionSet); err != nil {
			return err
		}
	}
	for _, name := range ctx.fragmentOrder {
		if err := walkGrouped(ctx, ctx.Fragments[name].SelectionSet); err != nil {
			return err
		}
	}
	return nil
}

func walkGrouped(ctx *Context, ss *SelectionSet) error {
	grouped, err := ctx.GroupSelections(ss)
	if err != nil {
		return err
	}
	for _, field := range grouped.Fields {
		if field.SelectionSet == nil {
			continue
		}
		if err := walkGrouped(ctx, field.SelectionSet); err != nil {
			return err
		}
	}
	for _, group := range grouped.ConditionalGroups {
		if err := walkGrouped(ctx, group.SelectionSet); err != nil {
			return err
		}
	}
	return nil
}
