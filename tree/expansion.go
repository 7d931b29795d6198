package tree

import "github.com/awalczak/storynav"

// ExpansionState tracks which nodes of a single ref are expanded.
//
// Roots default to the inverse of their StartCollapsed flag; every other
// expandable node defaults to true until explicitly recorded. Leaves are
// never expandable: operations on them are no-ops and no entry is created.
type ExpansionState struct {
	index    *storynav.Index
	recorded map[string]bool
}

// NewExpansionState creates expansion state for idx, seeding root defaults.
func NewExpansionState(idx *storynav.Index) *ExpansionState {
	e := &ExpansionState{
		index:    idx,
		recorded: make(map[string]bool),
	}
	if idx != nil {
		for _, rootID := range idx.Roots {
			if root := idx.Node(rootID); root != nil && root.Type == storynav.NodeRoot {
				e.recorded[rootID] = !root.StartCollapsed
			}
		}
	}
	return e
}

// IsExpanded reports whether children of id are shown.
func (e *ExpansionState) IsExpanded(id string) bool {
	node := e.index.Node(id)
	if node == nil || node.Type.IsLeaf() {
		return false
	}
	if v, ok := e.recorded[id]; ok {
		return v
	}
	if node.Type == storynav.NodeRoot {
		return !node.StartCollapsed
	}
	return true
}

// expandable reports whether id may carry expansion state.
func (e *ExpansionState) expandable(id string) bool {
	node := e.index.Node(id)
	return node != nil && !node.Type.IsLeaf()
}

// Toggle flips expansion for a single id. Leaves and unknown ids are
// ignored.
func (e *ExpansionState) Toggle(id string) {
	if !e.expandable(id) {
		return
	}
	e.recorded[id] = !e.IsExpanded(id)
}

// SetMany sets expansion for a list of ids to the same value, skipping
// leaves and unknown ids.
func (e *ExpansionState) SetMany(ids []string, value bool) {
	for _, id := range ids {
		if e.expandable(id) {
			e.recorded[id] = value
		}
	}
}

// CollapseAll collapses every non-root node; roots keep their current
// state so top-level sections stay visible.
func (e *ExpansionState) CollapseAll() {
	if e.index == nil {
		return
	}
	for id, node := range e.index.Entries {
		if node.Type == storynav.NodeRoot || node.Type.IsLeaf() {
			continue
		}
		e.recorded[id] = false
	}
}

// ExpandAll expands every expandable node, roots included.
func (e *ExpansionState) ExpandAll() {
	if e.index == nil {
		return
	}
	for id, node := range e.index.Entries {
		if node.Type.IsLeaf() {
			continue
		}
		e.recorded[id] = true
	}
}

// Reveal expands the full ancestor chain of id so it becomes visible,
// used when the selection changes externally.
func (e *ExpansionState) Reveal(r *Resolver, id string) {
	e.SetMany(r.AncestorChain(id), true)
}

// SetIndex swaps in a new index snapshot, pruning recorded state for ids
// the new index no longer contains and seeding defaults for new roots.
func (e *ExpansionState) SetIndex(idx *storynav.Index) {
	if idx == e.index {
		return
	}
	old := e.recorded
	e.index = idx
	e.recorded = make(map[string]bool, len(old))
	if idx == nil {
		return
	}
	for _, rootID := range idx.Roots {
		if root := idx.Node(rootID); root != nil && root.Type == storynav.NodeRoot {
			e.recorded[rootID] = !root.StartCollapsed
		}
	}
	for id, v := range old {
		if e.expandable(id) {
			e.recorded[id] = v
		}
	}
}
