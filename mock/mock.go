// Package mock provides function-field mock implementations of the
// storynav interfaces for testing.
package mock

import (
	"context"
	"io"

	"github.com/awalczak/storynav"
)

// Compile-time interface verification.
var (
	_ storynav.IndexParser = (*IndexParser)(nil)
	_ storynav.RefLoader   = (*RefLoader)(nil)
	_ storynav.RecentStore = (*RecentStore)(nil)
	_ storynav.EventSink   = (*EventSink)(nil)
	_ storynav.Clipboard   = (*Clipboard)(nil)
	_ storynav.Viewer      = (*Viewer)(nil)
	_ storynav.Searcher    = (*Searcher)(nil)
)

// IndexParser is a mock implementation of storynav.IndexParser.
type IndexParser struct {
	ParseFn func(r io.Reader) (*storynav.Index, error)
}

func (p *IndexParser) Parse(r io.Reader) (*storynav.Index, error) {
	return p.ParseFn(r)
}

// RefLoader is a mock implementation of storynav.RefLoader.
type RefLoader struct {
	LoadFn func(ctx context.Context, sources []storynav.RefSource) (*storynav.Dataset, error)
}

func (l *RefLoader) Load(ctx context.Context, sources []storynav.RefSource) (*storynav.Dataset, error) {
	return l.LoadFn(ctx, sources)
}

// RecentStore is a mock implementation of storynav.RecentStore.
type RecentStore struct {
	LoadFn func(path string) ([]storynav.Recent, error)
	SaveFn func(path string, recents []storynav.Recent) error
}

func (s *RecentStore) Load(path string) ([]storynav.Recent, error) {
	return s.LoadFn(path)
}

func (s *RecentStore) Save(path string, recents []storynav.Recent) error {
	return s.SaveFn(path, recents)
}

// EventSink records emitted intents for inspection.
type EventSink struct {
	Selected  []storynav.Selection
	Preloaded []PreloadCall
}

// PreloadCall is one recorded PreloadEntries invocation.
type PreloadCall struct {
	IDs   []string
	RefID string
}

func (s *EventSink) SelectStory(sel storynav.Selection) {
	s.Selected = append(s.Selected, sel)
}

func (s *EventSink) PreloadEntries(ids []string, refID string) {
	s.Preloaded = append(s.Preloaded, PreloadCall{IDs: ids, RefID: refID})
}

// Clipboard is a mock implementation of storynav.Clipboard.
type Clipboard struct {
	Copied []string
	Err    error
}

func (c *Clipboard) Copy(content string) error {
	if c.Err != nil {
		return c.Err
	}
	c.Copied = append(c.Copied, content)
	return nil
}

// Viewer is a mock implementation of storynav.Viewer.
type Viewer struct {
	ViewFn func(ctx context.Context, dataset *storynav.Dataset) (*storynav.Selection, error)
}

func (v *Viewer) View(ctx context.Context, dataset *storynav.Dataset) (*storynav.Selection, error) {
	return v.ViewFn(ctx, dataset)
}

// Searcher is a mock implementation of storynav.Searcher.
type Searcher struct {
	SetDatasetFn func(ds *storynav.Dataset)
	SetRecentsFn func(recents []storynav.Recent)
	SearchFn     func(query string) []storynav.SearchResult
}

func (s *Searcher) SetDataset(ds *storynav.Dataset) {
	if s.SetDatasetFn != nil {
		s.SetDatasetFn(ds)
	}
}

func (s *Searcher) SetRecents(recents []storynav.Recent) {
	if s.SetRecentsFn != nil {
		s.SetRecentsFn(recents)
	}
}

func (s *Searcher) Search(query string) []storynav.SearchResult {
	return s.SearchFn(query)
}
