package tree_test

import (
	"testing"

	"github.com/awalczak/storynav"
	"github.com/awalczak/storynav/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildFixtureProjection(t *testing.T, mutate func(*tree.ExpansionState)) *tree.Projection {
	t.Helper()

	idx := fixtureIndex()
	ds := fixtureDataset(idx)
	exp := tree.NewExpansionState(idx)
	if mutate != nil {
		mutate(exp)
	}
	return tree.BuildProjection(ds, map[string]*tree.ExpansionState{
		storynav.InternalRefID: exp,
	}, nil)
}

func rowIDs(p *tree.Projection) []string {
	ids := make([]string, 0, p.Len())
	for _, row := range p.Rows() {
		if row.IsRefHeader() {
			ids = append(ids, "ref:"+row.RefID)
			continue
		}
		ids = append(ids, row.Node.ID)
	}
	return ids
}

func TestBuildProjection(t *testing.T) {
	t.Parallel()

	t.Run("fully expanded shows pre-order rows", func(t *testing.T) {
		t.Parallel()

		p := buildFixtureProjection(t, nil)
		assert.Equal(t, []string{"root1", "group1", "comp1", "story1", "story2", "docs1"}, rowIDs(p))
	})

	t.Run("collapsed nodes hide their subtrees", func(t *testing.T) {
		t.Parallel()

		p := buildFixtureProjection(t, func(e *tree.ExpansionState) {
			e.Toggle("comp1")
		})
		assert.Equal(t, []string{"root1", "group1", "comp1", "docs1"}, rowIDs(p))
	})

	t.Run("collapsed root hides everything below it", func(t *testing.T) {
		t.Parallel()

		p := buildFixtureProjection(t, func(e *tree.ExpansionState) {
			e.Toggle("root1")
		})
		assert.Equal(t, []string{"root1"}, rowIDs(p))
	})

	t.Run("composed refs get a header row, the internal ref does not", func(t *testing.T) {
		t.Parallel()

		local := fixtureIndex()
		remote := fixtureIndex()
		ds := &storynav.Dataset{
			Refs: map[string]*storynav.Ref{
				storynav.InternalRefID: {ID: storynav.InternalRefID, Title: "Local", Index: local},
				"design-system":        {ID: "design-system", Title: "Design System", Index: remote},
			},
			Order: []string{storynav.InternalRefID, "design-system"},
		}
		p := tree.BuildProjection(ds, map[string]*tree.ExpansionState{
			storynav.InternalRefID: tree.NewExpansionState(local),
			"design-system":        tree.NewExpansionState(remote),
		}, nil)

		ids := rowIDs(p)
		require.Len(t, ids, 13)
		assert.Equal(t, "root1", ids[0])
		assert.Equal(t, "ref:design-system", ids[6])
		assert.Equal(t, "root1", ids[7])

		header, ok := p.RowAt(6)
		require.True(t, ok)
		assert.True(t, header.IsRefHeader())
		assert.False(t, header.Highlightable())
		assert.Equal(t, "Design System", header.RefTitle)
	})

	t.Run("depth and fold markers are carried on rows", func(t *testing.T) {
		t.Parallel()

		p := buildFixtureProjection(t, func(e *tree.ExpansionState) {
			e.Toggle("comp1")
		})

		row, ok := p.RowAt(2)
		require.True(t, ok)
		assert.Equal(t, "comp1", row.Node.ID)
		assert.Equal(t, 2, row.Depth)
		assert.True(t, row.Expandable)
		assert.False(t, row.Expanded)

		leaf, ok := p.RowAt(3)
		require.True(t, ok)
		assert.Equal(t, "docs1", leaf.Node.ID)
		assert.False(t, leaf.Expandable)
	})

	t.Run("nil dataset yields an empty projection", func(t *testing.T) {
		t.Parallel()

		p := tree.BuildProjection(nil, nil, nil)
		assert.Zero(t, p.Len())
		_, ok := p.First()
		assert.False(t, ok)
	})
}

func TestProjection_IndexOf(t *testing.T) {
	t.Parallel()

	p := buildFixtureProjection(t, nil)

	assert.Equal(t, 3, p.IndexOf(storynav.HighlightedRef{RefID: storynav.InternalRefID, ItemID: "story1"}))
	assert.Equal(t, -1, p.IndexOf(storynav.HighlightedRef{RefID: storynav.InternalRefID, ItemID: "missing"}),
		"hidden or unknown items report -1")
}

func TestProjection_Navigate(t *testing.T) {
	t.Parallel()

	ref := func(id string) storynav.HighlightedRef {
		return storynav.HighlightedRef{RefID: storynav.InternalRefID, ItemID: id}
	}

	t.Run("down steps through rows and wraps at the end", func(t *testing.T) {
		t.Parallel()

		p := buildFixtureProjection(t, nil)

		got, ok := p.Navigate(ref("story2"), tree.Down)
		require.True(t, ok)
		assert.Equal(t, ref("docs1"), got)

		got, ok = p.Navigate(ref("docs1"), tree.Down)
		require.True(t, ok)
		assert.Equal(t, ref("root1"), got, "wraps from last to first")
	})

	t.Run("up wraps from the first row to the last", func(t *testing.T) {
		t.Parallel()

		p := buildFixtureProjection(t, nil)

		got, ok := p.Navigate(ref("root1"), tree.Up)
		require.True(t, ok)
		assert.Equal(t, ref("docs1"), got)
	})

	t.Run("missing highlight acts as position before the start", func(t *testing.T) {
		t.Parallel()

		p := buildFixtureProjection(t, nil)

		got, ok := p.Navigate(ref("gone"), tree.Down)
		require.True(t, ok)
		assert.Equal(t, ref("root1"), got, "down from nowhere lands on the first row")

		got, ok = p.Navigate(ref("gone"), tree.Up)
		require.True(t, ok)
		assert.Equal(t, ref("docs1"), got, "up from nowhere lands on the last row")
	})

	t.Run("ref headers are skipped", func(t *testing.T) {
		t.Parallel()

		local := fixtureIndex()
		remote := fixtureIndex()
		ds := &storynav.Dataset{
			Refs: map[string]*storynav.Ref{
				storynav.InternalRefID: {ID: storynav.InternalRefID, Index: local},
				"design-system":        {ID: "design-system", Title: "Design System", Index: remote},
			},
			Order: []string{storynav.InternalRefID, "design-system"},
		}
		p := tree.BuildProjection(ds, map[string]*tree.ExpansionState{
			storynav.InternalRefID: tree.NewExpansionState(local),
			"design-system":        tree.NewExpansionState(remote),
		}, nil)

		got, ok := p.Navigate(ref("docs1"), tree.Down)
		require.True(t, ok)
		assert.Equal(t, storynav.HighlightedRef{RefID: "design-system", ItemID: "root1"}, got,
			"navigation crosses the header into the next ref's tree")
	})

	t.Run("empty projection reports no movement", func(t *testing.T) {
		t.Parallel()

		p := tree.BuildProjection(nil, nil, nil)
		_, ok := p.Navigate(ref("root1"), tree.Down)
		assert.False(t, ok)
	})
}
