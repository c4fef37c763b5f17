package bruteforce

import (
	"fmt"
	"sync"

	"github.com/viant/vec/search"

	"github.com/TaniaZeidan/NutriTrackAI/internal/vectorstore"
)

// Store is a linear-scan vector store computing exact cosine similarity
// against every entry. It is the correctness reference for the vp-tree
// store and the default for small or fallback-embedded indexes.
type Store struct {
	mu         sync.RWMutex
	dim        int
	ids        []string
	vectors    [][]float32
	magnitudes []float32
	slots      map[string]int
}

// New creates an empty brute-force store. The dimension is fixed by the
// first entry added.
func New() *Store {
	return &Store{slots: make(map[string]int)}
}

// Name identifies the store implementation.
func (s *Store) Name() string { return "bruteforce" }

// Dimension returns the store's vector dimension, zero while empty.
func (s *Store) Dimension() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dim
}

// Size returns the number of stored entries.
func (s *Store) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}

// Add bulk-inserts entries. An entry whose recipe id is already present
// replaces the prior vector.
func (s *Store) Add(entries []vectorstore.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		if len(e.Vector) == 0 {
			return fmt.Errorf("%w: empty vector for %s", vectorstore.ErrDimensionMismatch, e.RecipeID)
		}
		if s.dim == 0 {
			s.dim = len(e.Vector)
		}
		if len(e.Vector) != s.dim {
			return fmt.Errorf("%w: %s has dimension %d, store has %d",
				vectorstore.ErrDimensionMismatch, e.RecipeID, len(e.Vector), s.dim)
		}
		mag := search.Float32s(e.Vector).Magnitude()
		if slot, ok := s.slots[e.RecipeID]; ok {
			s.vectors[slot] = e.Vector
			s.magnitudes[slot] = mag
			continue
		}
		s.slots[e.RecipeID] = len(s.ids)
		s.ids = append(s.ids, e.RecipeID)
		s.vectors = append(s.vectors, e.Vector)
		s.magnitudes = append(s.magnitudes, mag)
	}
	return nil
}

// Search scans every entry and returns the k most similar, descending by
// score with ascending recipe id on ties.
func (s *Store) Search(query []float32, k int) ([]vectorstore.Match, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k=%d", vectorstore.ErrInvalidK, k)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.ids) == 0 {
		return nil, nil
	}
	if len(query) != s.dim {
		return nil, fmt.Errorf("%w: query has dimension %d, store has %d",
			vectorstore.ErrDimensionMismatch, len(query), s.dim)
	}
	qmag := search.Float32s(query).Magnitude()
	matches := make([]vectorstore.Match, len(s.ids))
	for i := range s.ids {
		matches[i] = vectorstore.Match{
			RecipeID: s.ids[i],
			Score:    vectorstore.Similarity(query, s.vectors[i], qmag, s.magnitudes[i]),
		}
	}
	return vectorstore.TopK(matches, k), nil
}
