package vptree

import (
	"container/heap"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/viant/vec/search"

	"github.com/TaniaZeidan/NutriTrackAI/internal/vectorstore"
)

const leafSize = 8

// Store is a vantage-point tree over the angular distance between vectors.
// Because angular (chord) distance is a proper metric and monotone with
// cosine similarity, searches return exactly the same ranking as the
// brute-force reference while pruning most of the corpus on large indexes.
type Store struct {
	mu     sync.RWMutex
	dim    int
	points []point
	slots  map[string]int
	root   *node
}

type point struct {
	id  string
	vec []float32
	mag float32
}

// node is either internal (vantage point, split radius, two subtrees) or
// a leaf holding a small bucket of point indexes.
type node struct {
	vantage int
	radius  float64
	inner   *node
	outer   *node
	bucket  []int
	leaf    bool
}

// New creates an empty vp-tree store. The dimension is fixed by the first
// entry added.
func New() *Store {
	return &Store{slots: make(map[string]int)}
}

// Name identifies the store implementation.
func (s *Store) Name() string { return "vptree" }

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
	return len(s.points)
}

// Add bulk-inserts entries and rebuilds the tree. An entry whose recipe id
// is already present replaces the prior vector.
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
		p := point{id: e.RecipeID, vec: e.Vector, mag: search.Float32s(e.Vector).Magnitude()}
		if slot, ok := s.slots[e.RecipeID]; ok {
			s.points[slot] = p
			continue
		}
		s.slots[e.RecipeID] = len(s.points)
		s.points = append(s.points, p)
	}
	indexes := make([]int, len(s.points))
	for i := range indexes {
		indexes[i] = i
	}
	s.root = s.build(indexes)
	return nil
}

func (s *Store) build(indexes []int) *node {
	if len(indexes) == 0 {
		return nil
	}
	if len(indexes) <= leafSize {
		return &node{leaf: true, bucket: indexes}
	}
	vantage := indexes[0]
	rest := indexes[1:]
	dists := make(map[int]float64, len(rest))
	for _, i := range rest {
		dists[i] = s.distance(vantage, i)
	}
	sort.Slice(rest, func(a, b int) bool {
		if dists[rest[a]] != dists[rest[b]] {
			return dists[rest[a]] < dists[rest[b]]
		}
		return s.points[rest[a]].id < s.points[rest[b]].id
	})
	mid := len(rest) / 2
	return &node{
		vantage: vantage,
		radius:  dists[rest[mid]],
		inner:   s.build(rest[:mid]),
		outer:   s.build(rest[mid:]),
	}
}

// Search returns the k most similar entries, descending by score with
// ascending recipe id on ties.
func (s *Store) Search(query []float32, k int) ([]vectorstore.Match, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k=%d", vectorstore.ErrInvalidK, k)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.points) == 0 {
		return nil, nil
	}
	if len(query) != s.dim {
		return nil, fmt.Errorf("%w: query has dimension %d, store has %d",
			vectorstore.ErrDimensionMismatch, len(query), s.dim)
	}
	q := point{vec: query, mag: search.Float32s(query).Magnitude()}
	best := &nearest{limit: k}
	s.visit(s.root, q, best)

	matches := make([]vectorstore.Match, len(best.items))
	for i, c := range best.items {
		matches[i] = vectorstore.Match{RecipeID: c.id, Score: c.score}
	}
	return vectorstore.TopK(matches, k), nil
}

func (s *Store) visit(n *node, q point, best *nearest) {
	if n == nil {
		return
	}
	if n.leaf {
		for _, i := range n.bucket {
			s.consider(i, q, best)
		}
		return
	}
	dq := s.consider(n.vantage, q, best)
	if dq < n.radius {
		s.visit(n.inner, q, best)
		if dq+best.tau() >= n.radius {
			s.visit(n.outer, q, best)
		}
		return
	}
	s.visit(n.outer, q, best)
	if dq-best.tau() <= n.radius {
		s.visit(n.inner, q, best)
	}
}

func (s *Store) consider(i int, q point, best *nearest) float64 {
	p := s.points[i]
	score := vectorstore.Similarity(q.vec, p.vec, q.mag, p.mag)
	dist := chord(score)
	best.offer(candidate{id: p.id, score: score, dist: dist})
	return dist
}

// distance is the chord distance between the angular projections of two
// stored points.
func (s *Store) distance(a, b int) float64 {
	pa, pb := s.points[a], s.points[b]
	return chord(vectorstore.Similarity(pa.vec, pb.vec, pa.mag, pb.mag))
}

// chord maps cosine similarity to the Euclidean distance between the unit
// projections of the vectors. The mapping is a metric and strictly
// decreasing in similarity, so nearest-by-chord equals highest-similarity.
func chord(similarity float64) float64 {
	d := 2 * (1 - similarity)
	if d < 0 {
		d = 0
	}
	return math.Sqrt(d)
}

type candidate struct {
	id    string
	score float64
	dist  float64
}

// nearest keeps the limit best candidates seen so far, worst on top so it
// can be evicted in O(log k).
type nearest struct {
	limit int
	items worstFirst
}

func (n *nearest) tau() float64 {
	if len(n.items) < n.limit {
		return math.Inf(1)
	}
	return n.items[0].dist
}

func (n *nearest) offer(c candidate) {
	if len(n.items) < n.limit {
		heap.Push(&n.items, c)
		return
	}
	worst := n.items[0]
	if c.dist < worst.dist || (c.dist == worst.dist && c.id < worst.id) {
		n.items[0] = c
		heap.Fix(&n.items, 0)
	}
}

type worstFirst []candidate

func (h worstFirst) Len() int { return len(h) }
func (h worstFirst) Less(i, j int) bool {
	if h[i].dist != h[j].dist {
		return h[i].dist > h[j].dist
	}
	return h[i].id > h[j].id
}
func (h worstFirst) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *worstFirst) Push(x any) { *h = append(*h, x.(candidate)) }

func (h *worstFirst) Pop() any {
	old := *h
	n := len(old)
	c := old[n-1]
	*h = old[:n-1]
	return c
}
