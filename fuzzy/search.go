// Package fuzzy implements search over the flattened story index using the
// sahilm/fuzzy matcher.
package fuzzy

import (
	"sort"
	"strings"

	"github.com/awalczak/storynav"
	"github.com/awalczak/storynav/tree"
	"github.com/sahilm/fuzzy"
)

// Compile-time interface verification.
var _ storynav.Searcher = (*Searcher)(nil)

// Result caps: the initial list is cut at DefaultMaxResults with a
// trailing ExpandPrompt; ShowAll reveals up to MaxResults.
const (
	DefaultMaxResults = 50
	MaxResults        = 1000
)

// Field weights and the minimum combined score a hit must reach.
const (
	nameWeight     = 0.7
	pathWeight     = 0.3
	scoreThreshold = 0.2
)

// Searcher matches queries against a flattened projection of the dataset.
type Searcher struct {
	dataset *storynav.Dataset
	recents []storynav.Recent

	items []storynav.SearchItem
	names []string
	paths []string
}

// New creates an empty Searcher.
func New() *Searcher {
	return &Searcher{}
}

// SetDataset installs the dataset and rebuilds the search index when the
// reference differs from the current one. Every node kind is searchable.
func (s *Searcher) SetDataset(ds *storynav.Dataset) {
	if ds == s.dataset {
		return
	}
	s.dataset = ds
	s.items = s.items[:0]
	s.names = s.names[:0]
	s.paths = s.paths[:0]
	if ds == nil {
		return
	}

	for _, refID := range ds.Order {
		ref := ds.Ref(refID)
		if ref == nil || ref.Index == nil {
			continue
		}
		resolver := tree.NewResolver(ref.Index)
		agg := tree.AggregateStatus(resolver, nil)

		var visit func(id string)
		visit = func(id string) {
			node := ref.Index.Node(id)
			if node == nil {
				return
			}
			path := resolver.BreadcrumbPath(id)
			s.items = append(s.items, storynav.SearchItem{
				Node:   node,
				RefID:  refID,
				Path:   path,
				Status: agg.For(node),
			})
			s.names = append(s.names, node.Name)
			s.paths = append(s.paths, strings.Join(path, "/"))
			for _, childID := range node.Children {
				visit(childID)
			}
		}
		for _, rootID := range ref.Index.Roots {
			visit(rootID)
		}
	}
}

// SetRecents installs the recently-viewed fallback list.
func (s *Searcher) SetRecents(recents []storynav.Recent) {
	s.recents = recents
}

// Search returns ranked results, most relevant first, capped at
// DefaultMaxResults with a trailing ExpandPrompt when more exist. An empty
// query resolves the recently-viewed list instead of fuzzy matching.
func (s *Searcher) Search(query string) []storynav.SearchResult {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.recentResults()
	}
	return s.capped(query, DefaultMaxResults)
}

// recentResults resolves the recently-viewed pairs against the current
// dataset, most recently viewed first, skipping stale ids.
func (s *Searcher) recentResults() []storynav.SearchResult {
	var results []storynav.SearchResult
	for _, recent := range s.recents {
		ref := s.dataset.Ref(recent.RefID)
		if ref == nil || ref.Index == nil {
			continue
		}
		node := ref.Index.Node(recent.StoryID)
		if node == nil {
			continue
		}
		resolver := tree.NewResolver(ref.Index)
		results = append(results, storynav.SearchHit{
			Item: storynav.SearchItem{
				Node:  node,
				RefID: recent.RefID,
				Path:  resolver.BreadcrumbPath(node.ID),
			},
		})
	}
	return results
}

// ranked holds one scored candidate before capping.
type ranked struct {
	item    int
	score   float64
	matches []storynav.Match
}

// rank scores every item against the query, combining weighted name and
// path matches, and drops hits below the score threshold.
func (s *Searcher) rank(query string) []ranked {
	nameMatches := fuzzy.Find(query, s.names)
	pathMatches := fuzzy.Find(query, s.paths)

	// Normalize raw matcher scores per field against the best score seen
	// so the weighted combination lands on a 0..1 scale.
	nameScores := normalize(nameMatches)
	pathScores := normalize(pathMatches)

	nameIdx := make(map[int]fuzzy.Match, len(nameMatches))
	for _, m := range nameMatches {
		nameIdx[m.Index] = m
	}
	pathIdx := make(map[int]fuzzy.Match, len(pathMatches))
	for _, m := range pathMatches {
		pathIdx[m.Index] = m
	}

	var results []ranked
	for i := range s.items {
		nm, hasName := nameIdx[i]
		pm, hasPath := pathIdx[i]
		if !hasName && !hasPath {
			continue
		}
		score := nameWeight*nameScores[i] + pathWeight*pathScores[i]
		if score < scoreThreshold {
			continue
		}
		var matches []storynav.Match
		if hasName {
			matches = append(matches, storynav.Match{Field: storynav.MatchName, Indexes: nm.MatchedIndexes})
		}
		if hasPath {
			matches = append(matches, storynav.Match{Field: storynav.MatchPath, Indexes: pm.MatchedIndexes})
		}
		results = append(results, ranked{item: i, score: score, matches: matches})
	}

	sort.SliceStable(results, func(a, b int) bool {
		if results[a].score != results[b].score {
			return results[a].score > results[b].score
		}
		return s.names[results[a].item] < s.names[results[b].item]
	})

	return s.dedupe(results)
}

// normalize maps matcher scores to 0..1 by the best score in the set.
// Negative scores clamp to zero; a set whose best score is zero or below
// treats every match as equally relevant.
func normalize(matches fuzzy.Matches) map[int]float64 {
	best := 0
	for _, m := range matches {
		if m.Score > best {
			best = m.Score
		}
	}
	scores := make(map[int]float64, len(matches))
	for _, m := range matches {
		if best <= 0 {
			scores[m.Index] = 1
			continue
		}
		if m.Score <= 0 {
			scores[m.Index] = 0
			continue
		}
		scores[m.Index] = float64(m.Score) / float64(best)
	}
	return scores
}

// dedupe keeps only the highest-ranked result per component group: a
// story or docs entry whose parent is a component is keyed by that parent,
// so one entry surfaces per component at the top level.
func (s *Searcher) dedupe(results []ranked) []ranked {
	seen := make(map[string]bool, len(results))
	deduped := results[:0]
	for _, r := range results {
		item := s.items[r.item]
		key := item.RefID + "/" + item.Node.ID
		if item.Node.Parent != "" {
			ref := s.dataset.Ref(item.RefID)
			if ref != nil && ref.Index != nil {
				if parent := ref.Index.Node(item.Node.Parent); parent != nil && parent.Type == storynav.NodeComponent {
					key = item.RefID + "/" + parent.ID
				}
			}
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		deduped = append(deduped, r)
	}
	return deduped
}

// capped converts ranked candidates into results, replacing the last entry
// with an ExpandPrompt when the list exceeds limit.
func (s *Searcher) capped(query string, limit int) []storynav.SearchResult {
	candidates := s.rank(query)
	total := len(candidates)

	if total > limit {
		shown := candidates[:limit-1]
		results := make([]storynav.SearchResult, 0, limit)
		for _, r := range shown {
			results = append(results, s.hit(r))
		}
		results = append(results, storynav.ExpandPrompt{
			MoreCount:  total - len(shown),
			TotalCount: total,
			ShowAll: func() []storynav.SearchResult {
				return s.capped(query, MaxResults)
			},
		})
		return results
	}

	results := make([]storynav.SearchResult, 0, total)
	for _, r := range candidates {
		results = append(results, s.hit(r))
	}
	return results
}

func (s *Searcher) hit(r ranked) storynav.SearchHit {
	return storynav.SearchHit{
		Item:    s.items[r.item],
		Matches: r.matches,
		Score:   r.score,
	}
}
