package vectorstore

import (
	"errors"
	"sort"

	"github.com/viant/vec/search"
)

// ErrInvalidK indicates a search was requested with k <= 0.
var ErrInvalidK = errors.New("invalid top-k")

// ErrDimensionMismatch indicates a vector's dimension does not match the
// store's configured dimension.
var ErrDimensionMismatch = errors.New("vector dimension mismatch")

// Entry is one indexed vector with its owning recipe id.
type Entry struct {
	RecipeID string
	Vector   []float32
}

// Match is one search hit, scored by cosine similarity.
type Match struct {
	RecipeID string
	Score    float64
}

// Store owns the mapping from vector to recipe id and answers top-k
// queries ranked by descending cosine similarity, ties broken by
// ascending recipe id. Adding an entry with an existing id replaces the
// prior vector.
type Store interface {
	Name() string
	Dimension() int
	Size() int
	Add(entries []Entry) error
	Search(query []float32, k int) ([]Match, error)
}

// Similarity returns the cosine similarity between two vectors given their
// precomputed magnitudes. Zero vectors have similarity zero.
func Similarity(a, b []float32, magA, magB float32) float64 {
	if magA == 0 || magB == 0 {
		return 0
	}
	return 1 - float64(search.Float32s(a).CosineDistanceWithMagnitude(b, magA, magB))
}

// TopK sorts matches by descending score with ascending recipe id on ties
// and truncates to at most k.
func TopK(matches []Match, k int) []Match {
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].RecipeID < matches[j].RecipeID
	})
	if k < len(matches) {
		matches = matches[:k]
	}
	return matches
}
