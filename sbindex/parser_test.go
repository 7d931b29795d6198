package sbindex_test

import (
	"strings"
	"testing"

	"github.com/awalczak/storynav"
	"github.com/awalczak/storynav/sbindex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const indexV5 = `{
	"v": 5,
	"entries": {
		"ui-forms-button--primary": {
			"id": "ui-forms-button--primary",
			"title": "UI/Forms/Button",
			"name": "Primary",
			"type": "story",
			"importPath": "./src/Button.stories.tsx",
			"tags": ["dev"]
		},
		"ui-forms-button--secondary": {
			"id": "ui-forms-button--secondary",
			"title": "UI/Forms/Button",
			"name": "Secondary",
			"type": "story"
		},
		"ui-forms-button--docs": {
			"id": "ui-forms-button--docs",
			"title": "UI/Forms/Button",
			"name": "Docs",
			"type": "docs"
		}
	}
}`

func TestParser_Parse(t *testing.T) {
	t.Parallel()

	t.Run("v5 entries build the title-path tree", func(t *testing.T) {
		t.Parallel()

		idx, err := sbindex.NewParser().Parse(strings.NewReader(indexV5))
		require.NoError(t, err)

		require.Equal(t, []string{"ui"}, idx.Roots)

		root := idx.Node("ui")
		require.NotNil(t, root)
		assert.Equal(t, storynav.NodeRoot, root.Type)
		assert.Equal(t, "UI", root.Name)
		assert.Equal(t, []string{"ui-forms"}, root.Children)

		group := idx.Node("ui-forms")
		require.NotNil(t, group)
		assert.Equal(t, storynav.NodeGroup, group.Type)
		assert.Equal(t, 1, group.Depth)

		comp := idx.Node("ui-forms-button")
		require.NotNil(t, comp)
		assert.Equal(t, storynav.NodeComponent, comp.Type)
		assert.Equal(t, "Button", comp.Name)
		assert.Equal(t,
			[]string{"ui-forms-button--primary", "ui-forms-button--secondary", "ui-forms-button--docs"},
			comp.Children, "document order determines sibling order")

		story := idx.Node("ui-forms-button--primary")
		require.NotNil(t, story)
		assert.Equal(t, storynav.NodeStory, story.Type)
		assert.Equal(t, "Primary", story.Name)
		assert.Equal(t, 3, story.Depth)
		assert.Equal(t, "./src/Button.stories.tsx", story.ImportPath)
		assert.Equal(t, []string{"dev"}, story.Tags)

		docs := idx.Node("ui-forms-button--docs")
		require.NotNil(t, docs)
		assert.Equal(t, storynav.NodeDocument, docs.Type)
	})

	t.Run("v4 stories shape is accepted", func(t *testing.T) {
		t.Parallel()

		doc := `{
			"v": 3,
			"stories": {
				"button--basic": {
					"title": "Button",
					"name": "Basic"
				},
				"button--docs": {
					"title": "Button",
					"name": "Page",
					"parameters": {"docsOnly": true}
				}
			}
		}`
		idx, err := sbindex.NewParser().Parse(strings.NewReader(doc))
		require.NoError(t, err)

		// Ids fall back to the object key when the record omits them.
		comp := idx.Node("button")
		require.NotNil(t, comp)
		assert.Equal(t, []string{"button--basic", "button--docs"}, comp.Children)
		assert.Equal(t, storynav.NodeDocument, idx.Node("button--docs").Type)
	})

	t.Run("single-segment titles become top-level components", func(t *testing.T) {
		t.Parallel()

		doc := `{"v": 5, "entries": {
			"page--home": {"id": "page--home", "title": "Page", "name": "Home", "type": "story"}
		}}`
		idx, err := sbindex.NewParser().Parse(strings.NewReader(doc))
		require.NoError(t, err)

		require.Equal(t, []string{"page"}, idx.Roots)
		assert.Equal(t, storynav.NodeComponent, idx.Node("page").Type)
	})

	t.Run("a group later used as a component is promoted", func(t *testing.T) {
		t.Parallel()

		doc := `{"v": 5, "entries": {
			"ui-forms-button--basic": {"id": "ui-forms-button--basic", "title": "UI/Forms/Button", "name": "Basic", "type": "story"},
			"ui-forms--overview": {"id": "ui-forms--overview", "title": "UI/Forms", "name": "Overview", "type": "docs"}
		}}`
		idx, err := sbindex.NewParser().Parse(strings.NewReader(doc))
		require.NoError(t, err)

		forms := idx.Node("ui-forms")
		require.NotNil(t, forms)
		assert.Equal(t, storynav.NodeComponent, forms.Type)
		assert.Contains(t, forms.Children, "ui-forms--overview")
	})

	t.Run("malformed documents error", func(t *testing.T) {
		t.Parallel()

		for name, doc := range map[string]string{
			"not json":     `{]`,
			"no entries":   `{"v": 5}`,
			"entries list": `{"v": 5, "entries": []}`,
			"duplicate id": `{"v": 5, "entries": {
				"a": {"id": "dup", "title": "A", "name": "One"},
				"b": {"id": "dup", "title": "A", "name": "Two"}
			}}`,
		} {
			doc := doc
			t.Run(name, func(t *testing.T) {
				t.Parallel()

				_, err := sbindex.NewParser().Parse(strings.NewReader(doc))
				assert.Error(t, err)
			})
		}
	})
}

func TestRefID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		title string
		want  string
	}{
		{"Design System", "design-system"},
		{"UI / Forms", "ui-forms"},
		{"Émoji!", "moji"},
		{"already-sane", "already-sane"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sbindex.RefID(tt.title), tt.title)
	}
}
