// Package search ranks vault entries against a free-text query using fuzzy
// subsequence matching.
//
// Ranking is recomputed from the full entry snapshot on every call; no
// incremental index is maintained. That trades O(n·m) rescoring per keystroke
// for always reflecting the latest CRUD state.
package search

import (
	"fmt"
	"sort"

	"github.com/sahilm/fuzzy"
	"golang.org/x/text/cases"

	"github.com/passkeep/passkeep/pkg/store"
)

// Result pairs an entry with its match score. Higher scores rank first.
type Result struct {
	Entry store.Entry
	Score int
}

// haystack concatenates the entry's visible fields — identifier, website,
// username — into the string the query is matched against.
func haystack(e store.Entry) string {
	return fmt.Sprintf("%d %s %s", e.ID, e.Website, e.Username)
}

// Rank scores every entry against query and returns the matches ordered by
// descending score, ties broken by original insertion order. Entries with
// non-positive scores are excluded. An empty query short-circuits to all
// entries in original order with zero scores, unfiltered.
func Rank(entries []store.Entry, query string) []Result {
	if query == "" {
		results := make([]Result, len(entries))
		for i, e := range entries {
			results[i] = Result{Entry: e}
		}
		return results
	}

	fold := cases.Fold()
	haystacks := make([]string, len(entries))
	for i, e := range entries {
		haystacks[i] = fold.String(haystack(e))
	}

	scores := make(map[int]int, len(entries))
	for _, m := range fuzzy.Find(fold.String(query), haystacks) {
		if m.Score > 0 {
			scores[m.Index] = m.Score
		}
	}

	results := make([]Result, 0, len(scores))
	for i, e := range entries {
		if score, ok := scores[i]; ok {
			results = append(results, Result{Entry: e, Score: score})
		}
	}

	// Stable sort over insertion order: equal scores keep their relative
	// positions.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	return results
}
