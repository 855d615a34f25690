package positionparser

import (
	"github.com/gzambran/poligrade/lib/slugutil"

	"github.com/antzucaro/matchr"
)

// Candidate is a destination record the operator could commit to.
type Candidate struct {
	ID   string
	Name string
}

// names rarely match byte-for-byte between the backend's guess and the
// stored record ("Sen. Jane Doe" vs "Jane Doe")
const suggestionThreshold = 0.85

// SuggestDestination fuzzy-matches the backend's politician_name guess
// against the known records. Returns false when no candidate clears the
// similarity threshold; a wrong suggestion is worse than none, the
// operator always confirms the destination either way.
func SuggestDestination(name string, candidates []Candidate) (Candidate, bool) {
	name = slugutil.NormalizeName(name)
	if name == "" {
		return Candidate{}, false
	}

	var best Candidate
	var bestSimilarity float64
	for _, candidate := range candidates {
		similarity := matchr.JaroWinkler(name, slugutil.NormalizeName(candidate.Name), false)
		if similarity > bestSimilarity {
			bestSimilarity = similarity
			best = candidate
		}
	}

	if bestSimilarity < suggestionThreshold {
		return Candidate{}, false
	}
	return best, true
}
