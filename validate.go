package storynav

import "fmt"

// ValidationReason identifies why an index entry is invalid.
type ValidationReason string

// Validation error reasons.
const (
	ErrMissingChild     ValidationReason = "missing_child"
	ErrMissingParent    ValidationReason = "missing_parent"
	ErrParentMismatch   ValidationReason = "parent_mismatch"
	ErrDepthMismatch    ValidationReason = "depth_mismatch"
	ErrLeafWithChildren ValidationReason = "leaf_with_children"
	ErrParentCycle      ValidationReason = "parent_cycle"
)

// ValidationError describes a single invariant violation in an index.
type ValidationError struct {
	ID      string           // The node where the violation was detected
	Related string           // The other id involved, if any
	Reason  ValidationReason // Which invariant was violated
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	switch e.Reason {
	case ErrMissingChild:
		return fmt.Sprintf("node %q references missing child %q", e.ID, e.Related)
	case ErrMissingParent:
		return fmt.Sprintf("node %q references missing parent %q", e.ID, e.Related)
	case ErrParentMismatch:
		return fmt.Sprintf("child %q of node %q has a different parent recorded", e.Related, e.ID)
	case ErrDepthMismatch:
		return fmt.Sprintf("node %q depth is not one greater than parent %q", e.ID, e.Related)
	case ErrLeafWithChildren:
		return fmt.Sprintf("leaf node %q has children", e.ID)
	case ErrParentCycle:
		return fmt.Sprintf("node %q is part of a parent cycle", e.ID)
	default:
		return fmt.Sprintf("node %q: unknown violation", e.ID)
	}
}

// Validate checks the structural invariants of an index: every child id
// resolves, parent back-references are consistent, depth increases by
// exactly one from parent to child, only story/document nodes are leaves,
// and parent chains terminate. Returns nil when the index is valid.
func Validate(idx *Index) []ValidationError {
	if idx == nil {
		return nil
	}

	var errs []ValidationError

	for id, node := range idx.Entries {
		if node.Type.IsLeaf() && len(node.Children) > 0 {
			errs = append(errs, ValidationError{ID: id, Reason: ErrLeafWithChildren})
		}

		for _, childID := range node.Children {
			child, ok := idx.Entries[childID]
			if !ok {
				errs = append(errs, ValidationError{ID: id, Related: childID, Reason: ErrMissingChild})
				continue
			}
			if child.Parent != id {
				errs = append(errs, ValidationError{ID: id, Related: childID, Reason: ErrParentMismatch})
			}
			if child.Depth != node.Depth+1 {
				errs = append(errs, ValidationError{ID: childID, Related: id, Reason: ErrDepthMismatch})
			}
		}

		if node.Parent != "" {
			if _, ok := idx.Entries[node.Parent]; !ok {
				errs = append(errs, ValidationError{ID: id, Related: node.Parent, Reason: ErrMissingParent})
			}
		}
	}

	errs = append(errs, findParentCycles(idx)...)

	return errs
}

// findParentCycles walks every parent chain with a visited set and reports
// nodes whose chain loops instead of terminating at a root.
func findParentCycles(idx *Index) []ValidationError {
	var errs []ValidationError

	// resolved caches whether a node's chain is cyclic so each node is
	// walked once.
	resolved := make(map[string]bool, len(idx.Entries))

	for id := range idx.Entries {
		if _, ok := resolved[id]; ok {
			continue
		}

		seen := make(map[string]bool)
		current := id
		cyclic := false
		for current != "" {
			if status, ok := resolved[current]; ok {
				cyclic = status
				break
			}
			if seen[current] {
				cyclic = true
				break
			}
			seen[current] = true
			node, ok := idx.Entries[current]
			if !ok {
				break // missing parent reported separately
			}
			current = node.Parent
		}

		for member := range seen {
			resolved[member] = cyclic
			if cyclic {
				errs = append(errs, ValidationError{ID: member, Reason: ErrParentCycle})
			}
		}
	}

	return errs
}
