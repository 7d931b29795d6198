package tree

import "github.com/awalczak/storynav"

// AggregatedStatus carries per-node rolled-up statuses for one ref. Group
// and component nodes take the highest severity among their leaf story
// descendants; story nodes take the highest severity of their own entries.
type AggregatedStatus struct {
	index    *storynav.Index
	statuses *storynav.Statuses
	byGroup  map[string]storynav.Status
}

// AggregateStatus rolls story statuses up to every group and component
// node of idx. Both inputs are immutable snapshots; callers cache the
// result keyed on the (index, statuses) pointer pair and recompute only
// when either reference changes (see StatusCache).
func AggregateStatus(r *Resolver, statuses *storynav.Statuses) *AggregatedStatus {
	agg := &AggregatedStatus{
		index:    r.Index(),
		statuses: statuses,
		byGroup:  make(map[string]storynav.Status),
	}
	if agg.index == nil || statuses == nil {
		return agg
	}

	for id, node := range agg.index.Entries {
		if node.Type != storynav.NodeGroup && node.Type != storynav.NodeComponent && node.Type != storynav.NodeRoot {
			continue
		}
		var present []storynav.Status
		for _, leafID := range r.DescendantIDs(id, true) {
			leaf := agg.index.Node(leafID)
			if leaf == nil || leaf.Type != storynav.NodeStory {
				continue
			}
			present = append(present, statuses.Story(leafID)...)
		}
		if len(present) > 0 {
			agg.byGroup[id] = storynav.HighestStatus(present...)
		}
	}

	return agg
}

// For returns the display status for a node: the aggregated value for
// groups/components/roots, the reduced own entries for stories, and
// unknown otherwise. Safe on a nil receiver.
func (a *AggregatedStatus) For(node *storynav.Node) storynav.Status {
	if a == nil || node == nil {
		return storynav.StatusUnknown
	}
	switch node.Type {
	case storynav.NodeStory:
		if values := a.statuses.Story(node.ID); len(values) > 0 {
			return storynav.HighestStatus(values...)
		}
		return storynav.StatusUnknown
	case storynav.NodeGroup, storynav.NodeComponent, storynav.NodeRoot:
		if s, ok := a.byGroup[node.ID]; ok {
			return s
		}
		return storynav.StatusUnknown
	default:
		return storynav.StatusUnknown
	}
}

// Group returns the aggregated status for a group/component id and whether
// any descendant reported one.
func (a *AggregatedStatus) Group(id string) (storynav.Status, bool) {
	if a == nil {
		return storynav.StatusUnknown, false
	}
	s, ok := a.byGroup[id]
	return s, ok
}

// StatusCache memoizes AggregateStatus on the identity of its inputs so
// unrelated re-renders skip recomputation.
type StatusCache struct {
	index    *storynav.Index
	statuses *storynav.Statuses
	result   *AggregatedStatus
}

// Get returns the aggregation for (r.Index(), statuses), recomputing only
// when either reference differs from the cached pair.
func (c *StatusCache) Get(r *Resolver, statuses *storynav.Statuses) *AggregatedStatus {
	if c.result != nil && c.index == r.Index() && c.statuses == statuses {
		return c.result
	}
	c.index = r.Index()
	c.statuses = statuses
	c.result = AggregateStatus(r, statuses)
	return c.result
}
