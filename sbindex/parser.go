// Package sbindex parses Storybook index.json documents into navigable
// indexes and loads local and composed refs into a dataset.
package sbindex

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/awalczak/storynav"
)

// Compile-time interface verification.
var _ storynav.IndexParser = (*Parser)(nil)

// Parser builds an Index from a Storybook index.json document. Both the
// v5 shape ("entries") and the v4 shape ("stories") are accepted.
type Parser struct{}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

// rawEntry is one story/docs record of an index document.
type rawEntry struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Name       string   `json:"name"`
	Type       string   `json:"type"`
	ImportPath string   `json:"importPath"`
	Tags       []string `json:"tags"`

	// v4 docs-only stories carry the flag under parameters.
	Parameters struct {
		DocsOnly bool `json:"docsOnly"`
	} `json:"parameters"`
}

// Parse reads an index document and builds the node tree: title paths
// split on "/" become root/group/component chains, and each entry becomes
// a story or document leaf under its component. Entry order in the
// document determines sibling order, so the object is decoded token by
// token rather than into a map.
func (p *Parser) Parse(r io.Reader) (*storynav.Index, error) {
	var doc struct {
		V       int             `json:"v"`
		Entries json.RawMessage `json:"entries"`
		Stories json.RawMessage `json:"stories"`
	}
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding index: %w", err)
	}

	raw := doc.Entries
	if raw == nil {
		raw = doc.Stories
	}
	if raw == nil {
		return nil, fmt.Errorf("index document has no entries (v=%d)", doc.V)
	}

	entries, err := decodeOrdered(raw)
	if err != nil {
		return nil, err
	}

	return buildIndex(entries)
}

// decodeOrdered decodes a JSON object of entries preserving key order.
func decodeOrdered(raw json.RawMessage) ([]rawEntry, error) {
	dec := json.NewDecoder(strings.NewReader(string(raw)))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("decoding entries: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("entries is not an object")
	}

	var entries []rawEntry
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("decoding entry key: %w", err)
		}
		key, _ := keyTok.(string)

		var entry rawEntry
		if err := dec.Decode(&entry); err != nil {
			return nil, fmt.Errorf("entry %q: %w", key, err)
		}
		if entry.ID == "" {
			entry.ID = key
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// buildIndex converts ordered entries into the node tree.
func buildIndex(entries []rawEntry) (*storynav.Index, error) {
	idx := &storynav.Index{Entries: make(map[string]*storynav.Node)}

	for _, entry := range entries {
		if entry.ID == "" {
			return nil, fmt.Errorf("entry with title %q has no id", entry.Title)
		}
		if _, exists := idx.Entries[entry.ID]; exists {
			return nil, fmt.Errorf("duplicate entry id %q", entry.ID)
		}

		parentID := ensurePath(idx, entry.Title)

		leafType := storynav.NodeStory
		if entry.Type == "docs" || entry.Parameters.DocsOnly {
			leafType = storynav.NodeDocument
		}

		name := entry.Name
		if name == "" {
			name = entry.Title
		}

		leaf := &storynav.Node{
			ID:         entry.ID,
			Type:       leafType,
			Name:       name,
			Parent:     parentID,
			ImportPath: entry.ImportPath,
			Tags:       entry.Tags,
		}
		if parentID == "" {
			leaf.Depth = 0
			idx.Roots = append(idx.Roots, entry.ID)
		} else {
			parent := idx.Entries[parentID]
			leaf.Depth = parent.Depth + 1
			parent.Children = append(parent.Children, entry.ID)
		}
		idx.Entries[entry.ID] = leaf
	}

	if errs := storynav.Validate(idx); len(errs) > 0 {
		return nil, fmt.Errorf("built index is invalid: %w", errs[0])
	}

	return idx, nil
}

// ensurePath creates the root/group/component chain for a title path and
// returns the id of the component the entry hangs under. A single-segment
// title yields a top-level component; deeper titles yield a root, then
// groups, then the component.
func ensurePath(idx *storynav.Index, title string) string {
	segments := splitTitle(title)
	if len(segments) == 0 {
		return ""
	}

	parentID := ""
	for i, segment := range segments {
		id := toID(strings.Join(segments[:i+1], "-"))

		nodeType := storynav.NodeGroup
		switch {
		case i == len(segments)-1:
			nodeType = storynav.NodeComponent
		case i == 0:
			nodeType = storynav.NodeRoot
		}

		node, exists := idx.Entries[id]
		if !exists {
			node = &storynav.Node{
				ID:     id,
				Type:   nodeType,
				Name:   segment,
				Parent: parentID,
				Depth:  i,
			}
			idx.Entries[id] = node
			if parentID == "" {
				idx.Roots = append(idx.Roots, id)
			} else {
				parent := idx.Entries[parentID]
				parent.Children = append(parent.Children, id)
			}
		} else if nodeType == storynav.NodeComponent && node.Type == storynav.NodeGroup {
			// A group referenced again as a full title becomes a
			// component holding its own entries.
			node.Type = storynav.NodeComponent
		}

		parentID = id
	}

	return parentID
}

// splitTitle splits a title path on "/", dropping empty segments.
func splitTitle(title string) []string {
	parts := strings.Split(title, "/")
	segments := parts[:0]
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			segments = append(segments, part)
		}
	}
	return segments
}

// RefID derives a stable ref id from a display title.
func RefID(title string) string {
	return toID(title)
}

// toID sanitizes a path into a stable node id, matching Storybook's id
// convention: lowercase with runs of non-alphanumerics collapsed to "-".
func toID(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	dash := false
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(r)
		} else {
			dash = true
		}
	}
	return b.String()
}
