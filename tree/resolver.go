// Package tree implements the sidebar tree model: ancestor resolution,
// expansion state, visible-row projection, and status aggregation.
package tree

import "github.com/awalczak/storynav"

// Resolver answers ancestry and descendant queries for a single index
// snapshot. Results are cached lazily; a new Resolver must be created when
// the index reference changes.
type Resolver struct {
	index *storynav.Index

	ancestors       map[string][]string
	descendants     map[string][]string
	leafDescendants map[string][]string
}

// NewResolver creates a Resolver over idx.
func NewResolver(idx *storynav.Index) *Resolver {
	return &Resolver{
		index:           idx,
		ancestors:       make(map[string][]string),
		descendants:     make(map[string][]string),
		leafDescendants: make(map[string][]string),
	}
}

// Index returns the snapshot this resolver was built over.
func (r *Resolver) Index() *storynav.Index {
	return r.index
}

// ParentOf returns the immediate parent node, or nil for roots and unknown
// ids.
func (r *Resolver) ParentOf(id string) *storynav.Node {
	node := r.index.Node(id)
	if node == nil || node.Parent == "" {
		return nil
	}
	return r.index.Node(node.Parent)
}

// AncestorChain returns the ancestor ids of id, nearest first. The walk is
// bounded by a visited set: a malformed index with a parent cycle yields
// the partial chain collected before the repeat rather than looping.
func (r *Resolver) AncestorChain(id string) []string {
	if cached, ok := r.ancestors[id]; ok {
		return cached
	}

	var chain []string
	seen := map[string]bool{id: true}
	for parent := r.ParentOf(id); parent != nil; parent = r.ParentOf(parent.ID) {
		if seen[parent.ID] {
			break
		}
		seen[parent.ID] = true
		chain = append(chain, parent.ID)
	}

	r.ancestors[id] = chain
	return chain
}

// DescendantIDs returns every id reachable from id through children, in
// depth-first pre-order. With leavesOnly, descent stops at leaves and the
// result excludes intermediate group/component ids.
func (r *Resolver) DescendantIDs(id string, leavesOnly bool) []string {
	cache := r.descendants
	if leavesOnly {
		cache = r.leafDescendants
	}
	if cached, ok := cache[id]; ok {
		return cached
	}

	var result []string
	seen := map[string]bool{id: true}

	var visit func(nodeID string)
	visit = func(nodeID string) {
		node := r.index.Node(nodeID)
		if node == nil {
			return
		}
		for _, childID := range node.Children {
			if seen[childID] {
				continue
			}
			seen[childID] = true
			child := r.index.Node(childID)
			if child == nil {
				continue
			}
			if child.Type.IsLeaf() {
				result = append(result, childID)
				continue
			}
			if !leavesOnly {
				result = append(result, childID)
			}
			visit(childID)
		}
	}
	visit(id)

	cache[id] = result
	return result
}

// FirstLeaf returns the first story or document reachable from id in
// pre-order, or nil when the subtree holds none. Used to warm the preview
// when a component row is highlighted.
func (r *Resolver) FirstLeaf(id string) *storynav.Node {
	node := r.index.Node(id)
	if node == nil {
		return nil
	}
	if node.Type.IsLeaf() {
		return node
	}
	for _, leafID := range r.DescendantIDs(id, true) {
		if leaf := r.index.Node(leafID); leaf != nil {
			return leaf
		}
	}
	return nil
}

// BreadcrumbPath returns the display names from the root down to, but not
// including, the node itself.
func (r *Resolver) BreadcrumbPath(id string) []string {
	chain := r.AncestorChain(id)
	names := make([]string, 0, len(chain))
	for i := len(chain) - 1; i >= 0; i-- {
		if node := r.index.Node(chain[i]); node != nil {
			names = append(names, node.Name)
		}
	}
	return names
}
