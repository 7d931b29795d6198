package tree_test

import (
	"testing"

	"github.com/awalczak/storynav/tree"
	"github.com/stretchr/testify/assert"
)

func TestExpansionState_Defaults(t *testing.T) {
	t.Parallel()

	t.Run("roots follow start collapsed flag", func(t *testing.T) {
		t.Parallel()

		idx := fixtureIndex()
		idx.Entries["root1"].StartCollapsed = true
		e := tree.NewExpansionState(idx)

		assert.False(t, e.IsExpanded("root1"))
	})

	t.Run("roots default expanded otherwise", func(t *testing.T) {
		t.Parallel()

		e := tree.NewExpansionState(fixtureIndex())
		assert.True(t, e.IsExpanded("root1"))
	})

	t.Run("non-root nodes default expanded", func(t *testing.T) {
		t.Parallel()

		e := tree.NewExpansionState(fixtureIndex())
		assert.True(t, e.IsExpanded("group1"))
		assert.True(t, e.IsExpanded("comp1"))
	})

	t.Run("leaves are never expanded", func(t *testing.T) {
		t.Parallel()

		e := tree.NewExpansionState(fixtureIndex())
		assert.False(t, e.IsExpanded("story1"))
		assert.False(t, e.IsExpanded("docs1"))
	})
}

func TestExpansionState_Toggle(t *testing.T) {
	t.Parallel()

	t.Run("double toggle restores the original state", func(t *testing.T) {
		t.Parallel()

		e := tree.NewExpansionState(fixtureIndex())
		for _, id := range []string{"root1", "group1", "comp1"} {
			before := e.IsExpanded(id)
			e.Toggle(id)
			assert.Equal(t, !before, e.IsExpanded(id), id)
			e.Toggle(id)
			assert.Equal(t, before, e.IsExpanded(id), id)
		}
	})

	t.Run("leaf toggle is a no-op", func(t *testing.T) {
		t.Parallel()

		e := tree.NewExpansionState(fixtureIndex())
		e.Toggle("story1")
		assert.False(t, e.IsExpanded("story1"))

		// Toggling again must not flip a hidden entry to true.
		e.Toggle("story1")
		assert.False(t, e.IsExpanded("story1"))
	})

	t.Run("unknown id toggle is a no-op", func(t *testing.T) {
		t.Parallel()

		e := tree.NewExpansionState(fixtureIndex())
		e.Toggle("missing")
		assert.False(t, e.IsExpanded("missing"))
	})
}

func TestExpansionState_CollapseAll(t *testing.T) {
	t.Parallel()

	e := tree.NewExpansionState(fixtureIndex())
	e.CollapseAll()

	assert.True(t, e.IsExpanded("root1"), "roots stay as they were")
	assert.False(t, e.IsExpanded("group1"))
	assert.False(t, e.IsExpanded("comp1"))

	// Idempotent: a second collapse changes nothing.
	e.CollapseAll()
	assert.True(t, e.IsExpanded("root1"))
	assert.False(t, e.IsExpanded("group1"))
	assert.False(t, e.IsExpanded("comp1"))
}

func TestExpansionState_ExpandAll(t *testing.T) {
	t.Parallel()

	idx := fixtureIndex()
	idx.Entries["root1"].StartCollapsed = true
	e := tree.NewExpansionState(idx)
	e.CollapseAll()
	e.ExpandAll()

	assert.True(t, e.IsExpanded("root1"), "expand all includes collapsed roots")
	assert.True(t, e.IsExpanded("group1"))
	assert.True(t, e.IsExpanded("comp1"))
	assert.False(t, e.IsExpanded("story1"), "leaves stay untouched")
}

func TestExpansionState_Reveal(t *testing.T) {
	t.Parallel()

	idx := fixtureIndex()
	e := tree.NewExpansionState(idx)
	r := tree.NewResolver(idx)

	e.CollapseAll()
	e.Reveal(r, "story2")

	assert.True(t, e.IsExpanded("group1"))
	assert.True(t, e.IsExpanded("comp1"))
}

func TestExpansionState_SetMany(t *testing.T) {
	t.Parallel()

	e := tree.NewExpansionState(fixtureIndex())
	e.SetMany([]string{"group1", "comp1", "story1", "missing"}, false)

	assert.False(t, e.IsExpanded("group1"))
	assert.False(t, e.IsExpanded("comp1"))
	assert.False(t, e.IsExpanded("story1"), "leaf entries are skipped, not recorded")
}

func TestExpansionState_SetIndex(t *testing.T) {
	t.Parallel()

	idx := fixtureIndex()
	e := tree.NewExpansionState(idx)
	e.Toggle("comp1") // now collapsed

	next := fixtureIndex()
	delete(next.Entries, "comp1")
	next.Entries["group1"].Children = []string{"docs1"}
	e.SetIndex(next)

	assert.True(t, e.IsExpanded("group1"), "surviving ids keep defaults")
	assert.False(t, e.IsExpanded("comp1"), "pruned ids report collapsed")

	// Swapping in the same snapshot is a no-op.
	e.Toggle("group1")
	e.SetIndex(next)
	assert.False(t, e.IsExpanded("group1"))
}
