package vptree

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TaniaZeidan/NutriTrackAI/internal/vectorstore"
	"github.com/TaniaZeidan/NutriTrackAI/internal/vectorstore/bruteforce"
)

func randomEntries(rng *rand.Rand, n, dim int) []vectorstore.Entry {
	entries := make([]vectorstore.Entry, n)
	for i := range entries {
		vec := make([]float32, dim)
		for j := range vec {
			vec[j] = rng.Float32()*2 - 1
		}
		entries[i] = vectorstore.Entry{RecipeID: fmt.Sprintf("recipe-%03d", i), Vector: vec}
	}
	return entries
}

func randomQuery(rng *rand.Rand, dim int) []float32 {
	q := make([]float32, dim)
	for j := range q {
		q[j] = rng.Float32()*2 - 1
	}
	return q
}

func TestSearchAgreesWithBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	entries := randomEntries(rng, 200, 16)

	vp := New()
	require.NoError(t, vp.Add(entries))
	bf := bruteforce.New()
	require.NoError(t, bf.Add(entries))

	for _, k := range []int{1, 3, 10, 25} {
		for q := 0; q < 20; q++ {
			query := randomQuery(rng, 16)
			want, err := bf.Search(query, k)
			require.NoError(t, err)
			got, err := vp.Search(query, k)
			require.NoError(t, err)
			assert.Equal(t, want, got, "k=%d query=%d", k, q)
		}
	}
}

func TestSearchSmallCorpusExact(t *testing.T) {
	s := New()
	require.NoError(t, s.Add([]vectorstore.Entry{
		{RecipeID: "recipe-0", Vector: []float32{1, 0, 0}},
		{RecipeID: "recipe-1", Vector: []float32{1, 1, 0}},
		{RecipeID: "recipe-2", Vector: []float32{0, 0, 1}},
	}))

	got, err := s.Search([]float32{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "recipe-0", got[0].RecipeID)
	assert.Equal(t, "recipe-1", got[1].RecipeID)
}

func TestSearchInvalidK(t *testing.T) {
	s := New()
	_, err := s.Search([]float32{1}, 0)
	require.ErrorIs(t, err, vectorstore.ErrInvalidK)
}

func TestSearchEmptyStoreReturnsEmpty(t *testing.T) {
	s := New()
	got, err := s.Search([]float32{1, 2}, 3)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSearchDimensionMismatch(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	s := New()
	require.NoError(t, s.Add(randomEntries(rng, 20, 8)))

	_, err := s.Search(make([]float32, 9), 3)
	require.ErrorIs(t, err, vectorstore.ErrDimensionMismatch)
}

func TestAddReplacesDuplicateID(t *testing.T) {
	s := New()
	require.NoError(t, s.Add([]vectorstore.Entry{{RecipeID: "recipe-0", Vector: []float32{1, 0}}}))
	require.NoError(t, s.Add([]vectorstore.Entry{{RecipeID: "recipe-0", Vector: []float32{0, 1}}}))
	require.Equal(t, 1, s.Size())

	got, err := s.Search([]float32{0, 1}, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.InDelta(t, 1.0, got[0].Score, 1e-6)
}

func TestSearchDeterministicAcrossRebuilds(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	entries := randomEntries(rng, 100, 12)
	query := randomQuery(rng, 12)

	a := New()
	require.NoError(t, a.Add(entries))
	b := New()
	require.NoError(t, b.Add(entries))

	ra, err := a.Search(query, 7)
	require.NoError(t, err)
	rb, err := b.Search(query, 7)
	require.NoError(t, err)
	assert.Equal(t, ra, rb)
}
