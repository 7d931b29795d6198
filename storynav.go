// Package storynav provides domain types for exploring Storybook story indexes.
package storynav

import (
	"context"
	"io"
)

// InternalRefID identifies the local (non-composed) Storybook ref.
const InternalRefID = "storybook_internal"

// NodeType discriminates the kinds of entries in a story index.
type NodeType int

// Node types.
const (
	NodeRoot NodeType = iota
	NodeGroup
	NodeComponent
	NodeDocument
	NodeStory
)

// String returns the lowercase tag for the node type.
func (t NodeType) String() string {
	switch t {
	case NodeRoot:
		return "root"
	case NodeGroup:
		return "group"
	case NodeComponent:
		return "component"
	case NodeDocument:
		return "document"
	case NodeStory:
		return "story"
	default:
		return "unknown"
	}
}

// IsLeaf reports whether nodes of this type never have children.
func (t NodeType) IsLeaf() bool {
	return t == NodeStory || t == NodeDocument
}

// Node is one entry in a hierarchical story index.
type Node struct {
	ID       string
	Type     NodeType
	Name     string
	Parent   string   // empty for roots
	Children []string // empty for leaves
	Depth    int

	// StartCollapsed applies to roots only: when true the root renders
	// collapsed until the user expands it.
	StartCollapsed bool

	// ImportPath and Tags carry through from the index entry for display.
	ImportPath string
	Tags       []string
}

// Index holds every node of a single ref, with deterministic root ordering.
// Consumers treat an Index as an immutable snapshot; derived state is keyed
// on the *Index pointer identity.
type Index struct {
	Entries map[string]*Node
	Roots   []string // top-level ids in declaration order
}

// Node returns the node for id, or nil if absent.
func (idx *Index) Node(id string) *Node {
	if idx == nil {
		return nil
	}
	return idx.Entries[id]
}

// Ref is one story index source: the local Storybook or a composed one.
type Ref struct {
	ID                 string
	Title              string
	URL                string // empty for the internal ref
	Index              *Index
	PreviewInitialized bool
	Err                error // set when loading the ref failed
}

// Dataset aggregates every loaded ref, internal ref first.
type Dataset struct {
	Refs  map[string]*Ref
	Order []string
}

// Ref returns the ref for id, or nil if absent.
func (d *Dataset) Ref(id string) *Ref {
	if d == nil {
		return nil
	}
	return d.Refs[id]
}

// Selection identifies the story whose canvas is currently rendered.
type Selection struct {
	StoryID string
	RefID   string
}

// HighlightedRef is the keyboard-focused row, distinct from the selection.
type HighlightedRef struct {
	RefID  string
	ItemID string
}

// Recent is one entry of the persisted recently-viewed list.
type Recent struct {
	StoryID string `json:"storyId"`
	RefID   string `json:"refId"`
}

// RefSource describes one index source to load.
type RefSource struct {
	ID    string
	Title string
	URL   string // file path for the internal ref, base URL for composed refs
}

// IndexParser parses a raw index document into an Index.
type IndexParser interface {
	Parse(r io.Reader) (*Index, error)
}

// RefLoader loads a set of index sources into a Dataset.
type RefLoader interface {
	Load(ctx context.Context, sources []RefSource) (*Dataset, error)
}

// RecentStore persists the recently-viewed story list.
type RecentStore interface {
	// Load reads the list, most recent first. Missing files yield an
	// empty list, not an error.
	Load(path string) ([]Recent, error)
	Save(path string, recents []Recent) error
}

// EventSink receives intents emitted by the explorer.
type EventSink interface {
	// SelectStory is emitted when a row or search result is activated.
	// The selection always carries an explicit ref id; stories of the
	// local Storybook arrive with InternalRefID rather than an empty one.
	SelectStory(sel Selection)
	// PreloadEntries is emitted when a component row is highlighted so
	// the preview layer can warm its first story.
	PreloadEntries(ids []string, refID string)
}

// Clipboard copies content to the system clipboard.
type Clipboard interface {
	Copy(content string) error
}

// Viewer presents a dataset and blocks until the user exits.
// The returned selection is the last story the user activated, if any.
type Viewer interface {
	View(ctx context.Context, dataset *Dataset) (*Selection, error)
}
