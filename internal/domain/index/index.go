package index

import (
	"github.com/corey/spool/internal/ports"
)

// Index is an inverted index mapping lowercased word tokens to the set of
// profile filenames containing them.
//
// Known limitation: postings accumulate. Re-indexing a filename after its
// fields changed does not remove the old tokens, and deleting a profile
// leaves its postings behind. Callers must filter hits against live
// metadata at query time instead of expecting invalidation here.
type Index struct {
	postings map[string]map[string]struct{}
}

// New returns an empty index.
func New() *Index {
	return &Index{postings: make(map[string]map[string]struct{})}
}

// Add indexes the searchable fields (material, brand, color, display name)
// of one profile under filename.
func (ix *Index) Add(filename string, meta *ports.ProfileMeta) {
	fields := []string{meta.Material, meta.Brand, meta.Color, meta.DisplayName()}
	for _, f := range fields {
		for _, tok := range Tokenize(f) {
			set, ok := ix.postings[tok]
			if !ok {
				set = make(map[string]struct{})
				ix.postings[tok] = set
			}
			set[filename] = struct{}{}
		}
	}
}

// Search tokenizes query and returns the filenames whose indexed fields
// contain every token (AND semantics). An empty query, or any token with no
// postings, short-circuits to an empty result.
func (ix *Index) Search(query string) map[string]struct{} {
	terms := Tokenize(query)
	if len(terms) == 0 {
		return map[string]struct{}{}
	}

	results := make(map[string]struct{}, len(ix.postings[terms[0]]))
	for f := range ix.postings[terms[0]] {
		results[f] = struct{}{}
	}

	for _, term := range terms[1:] {
		set := ix.postings[term]
		if len(set) == 0 {
			return map[string]struct{}{}
		}
		for f := range results {
			if _, ok := set[f]; !ok {
				delete(results, f)
			}
		}
	}

	return results
}

// TokenCount returns the number of distinct indexed tokens.
func (ix *Index) TokenCount() int {
	return len(ix.postings)
}
