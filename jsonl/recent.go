// Package jsonl persists the recently-viewed story list as JSONL.
package jsonl

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/awalczak/storynav"
)

// Compile-time interface verification.
var _ storynav.RecentStore = (*RecentStore)(nil)

// MaxRecents caps the persisted list.
const MaxRecents = 50

// RecentStore persists recently-viewed (storyId, refId) pairs, most recent
// first.
type RecentStore struct{}

// NewRecentStore creates a new RecentStore.
func NewRecentStore() *RecentStore {
	return &RecentStore{}
}

// Load reads recents from a JSONL file. Returns an empty list if the file
// doesn't exist.
func (s *RecentStore) Load(path string) ([]storynav.Recent, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var recents []storynav.Recent
	scanner := bufio.NewScanner(f)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var r storynav.Recent
		if err := json.Unmarshal([]byte(line), &r); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		recents = append(recents, r)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return recents, nil
}

// Save writes recents to a JSONL file, creating parent directories if
// needed. The list is deduplicated by (storyId, refId) keeping the first
// occurrence and truncated to MaxRecents before writing.
func (s *RecentStore) Save(path string, recents []storynav.Recent) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	for _, r := range Dedupe(recents) {
		data, err := json.Marshal(r)
		if err != nil {
			return err
		}
		if _, err := f.Write(data); err != nil {
			return err
		}
		if _, err := f.WriteString("\n"); err != nil {
			return err
		}
	}

	return nil
}

// Push prepends a viewing to the list, deduplicating by pair and keeping
// the result capped.
func Push(recents []storynav.Recent, viewing storynav.Recent) []storynav.Recent {
	return Dedupe(append([]storynav.Recent{viewing}, recents...))
}

// Dedupe removes repeated (storyId, refId) pairs keeping first occurrence
// and caps the list at MaxRecents.
func Dedupe(recents []storynav.Recent) []storynav.Recent {
	seen := make(map[storynav.Recent]bool, len(recents))
	var out []storynav.Recent
	for _, r := range recents {
		if seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, r)
		if len(out) == MaxRecents {
			break
		}
	}
	return out
}
