package tree

import "github.com/awalczak/storynav"

// Row is one visible line of the sidebar: either a ref header or a node
// of that ref's tree.
type Row struct {
	RefID      string
	Node       *storynav.Node // nil for ref header rows
	RefTitle   string         // set for ref header rows
	Depth      int            // indentation depth within the ref
	Expandable bool
	Expanded   bool
	Status     storynav.Status
}

// IsRefHeader reports whether the row is a composed-ref section header.
func (r Row) IsRefHeader() bool {
	return r.Node == nil
}

// Highlightable reports whether the keyboard cursor may rest on this row.
// Ref headers are skipped during navigation.
func (r Row) Highlightable() bool {
	return r.Node != nil
}

// Projection owns the derived, ordered list of visible rows for a dataset
// under the current expansion state. The rendering surface is a pure
// projection of it; keyboard navigation never queries rendered output.
type Projection struct {
	rows          []Row
	highlightable []int // indexes into rows
	position      map[storynav.HighlightedRef]int
}

// BuildProjection flattens every ref of the dataset into visible rows.
// Refs appear in dataset order; nodes in pre-order, descending only into
// expanded nodes. Composed refs contribute a header row; the internal ref
// does not. Statuses, when non-nil per ref, decorate story and aggregated
// group rows.
func BuildProjection(ds *storynav.Dataset, expansion map[string]*ExpansionState, statuses map[string]*AggregatedStatus) *Projection {
	p := &Projection{position: make(map[storynav.HighlightedRef]int)}
	if ds == nil {
		return p
	}

	for _, refID := range ds.Order {
		ref := ds.Ref(refID)
		if ref == nil {
			continue
		}
		if refID != storynav.InternalRefID {
			p.append(Row{RefID: refID, RefTitle: ref.Title})
		}
		if ref.Index == nil {
			continue
		}

		exp := expansion[refID]
		agg := statuses[refID]

		var visit func(id string, depth int)
		visit = func(id string, depth int) {
			node := ref.Index.Node(id)
			if node == nil {
				return
			}
			expandable := !node.Type.IsLeaf()
			expanded := expandable && exp != nil && exp.IsExpanded(id)
			p.append(Row{
				RefID:      refID,
				Node:       node,
				Depth:      depth,
				Expandable: expandable,
				Expanded:   expanded,
				Status:     agg.For(node),
			})
			if expanded {
				for _, childID := range node.Children {
					visit(childID, depth+1)
				}
			}
		}
		for _, rootID := range ref.Index.Roots {
			visit(rootID, 0)
		}
	}

	return p
}

func (p *Projection) append(row Row) {
	if row.Highlightable() {
		key := storynav.HighlightedRef{RefID: row.RefID, ItemID: row.Node.ID}
		p.position[key] = len(p.rows)
		p.highlightable = append(p.highlightable, len(p.rows))
	}
	p.rows = append(p.rows, row)
}

// Rows returns every visible row in order.
func (p *Projection) Rows() []Row {
	return p.rows
}

// Len returns the number of visible rows.
func (p *Projection) Len() int {
	return len(p.rows)
}

// RowAt returns the row at index i, or a zero Row when out of range.
func (p *Projection) RowAt(i int) (Row, bool) {
	if i < 0 || i >= len(p.rows) {
		return Row{}, false
	}
	return p.rows[i], true
}

// IndexOf returns the row index for a highlighted ref, or -1 when the item
// is not currently visible.
func (p *Projection) IndexOf(h storynav.HighlightedRef) int {
	if i, ok := p.position[h]; ok {
		return i
	}
	return -1
}

// Direction of keyboard navigation.
type Direction int

// Navigation directions.
const (
	Up Direction = iota
	Down
)

// Navigate moves the highlight by one highlightable row with cyclic
// wraparound. A highlight that is no longer visible is treated as position
// -1, so moving down lands on the first row and moving up on the last.
// Returns false when nothing is highlightable.
func (p *Projection) Navigate(current storynav.HighlightedRef, dir Direction) (storynav.HighlightedRef, bool) {
	if len(p.highlightable) == 0 {
		return storynav.HighlightedRef{}, false
	}

	pos := -1
	if rowIdx := p.IndexOf(current); rowIdx >= 0 {
		for i, hi := range p.highlightable {
			if hi == rowIdx {
				pos = i
				break
			}
		}
	}

	n := len(p.highlightable)
	switch dir {
	case Down:
		pos = (pos + 1) % n
	case Up:
		if pos <= 0 {
			pos = n - 1
		} else {
			pos--
		}
	}

	row := p.rows[p.highlightable[pos]]
	return storynav.HighlightedRef{RefID: row.RefID, ItemID: row.Node.ID}, true
}

// First returns the first highlightable row's ref, or false when none.
func (p *Projection) First() (storynav.HighlightedRef, bool) {
	if len(p.highlightable) == 0 {
		return storynav.HighlightedRef{}, false
	}
	row := p.rows[p.highlightable[0]]
	return storynav.HighlightedRef{RefID: row.RefID, ItemID: row.Node.ID}, true
}
