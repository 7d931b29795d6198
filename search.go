package storynav

// SearchItem is one searchable entry of the flattened dataset projection:
// a node plus the ref it came from and its breadcrumb path.
type SearchItem struct {
	Node   *Node
	RefID  string
	Path   []string // breadcrumb names, root first
	Status Status   // rolled-up status when available
}

// MatchField names the field a fuzzy match landed on.
type MatchField string

// Match fields.
const (
	MatchName MatchField = "name"
	MatchPath MatchField = "path"
)

// Match records the matched byte offsets within one field, for
// highlighting.
type Match struct {
	Field   MatchField
	Indexes []int
}

// SearchResult is either a concrete SearchHit or a trailing ExpandPrompt
// when the result list was capped.
type SearchResult interface {
	searchResult()
}

// SearchHit is a ranked match for a search query.
type SearchHit struct {
	Item    SearchItem
	Matches []Match
	Score   float64
}

func (SearchHit) searchResult() {}

// ExpandPrompt replaces the last entry of a capped result list. ShowAll
// re-runs the search with the expanded cap.
type ExpandPrompt struct {
	MoreCount  int
	TotalCount int
	ShowAll    func() []SearchResult
}

func (ExpandPrompt) searchResult() {}

// Searcher matches a query against the flattened dataset projection.
type Searcher interface {
	// SetDataset installs the dataset snapshot; the search index is
	// rebuilt only when the reference differs from the current one.
	SetDataset(ds *Dataset)
	// SetRecents installs the recently-viewed list used as the
	// empty-query fallback.
	SetRecents(recents []Recent)
	// Search returns ranked results, most relevant first. An empty query
	// yields the resolved recently-viewed list.
	Search(query string) []SearchResult
}
