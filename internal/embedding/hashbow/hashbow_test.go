package hashbow

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

func TestEmbedDeterministic(t *testing.T) {
	e := New(0)
	v1, err := e.Embed(context.Background(), "grilled salmon with quinoa")
	require.NoError(t, err)
	v2, err := e.Embed(context.Background(), "grilled salmon with quinoa")
	require.NoError(t, err)
	assert.Equal(t, v1, v2)
	assert.Len(t, v1, DefaultDimension)
}

func TestEmbedNormalized(t *testing.T) {
	e := New(64)
	v, err := e.Embed(context.Background(), "lentil soup with cumin and carrot")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, dot(v, v), 1e-6)
}

func TestEmbedEmptyTextIsZeroVector(t *testing.T) {
	e := New(32)
	for _, text := range []string{"", "   ", "the of and", "123 456"} {
		v, err := e.Embed(context.Background(), text)
		require.NoError(t, err)
		assert.Zero(t, dot(v, v), "text %q", text)
	}
}

func TestEmbedRanksSharedTokensHigher(t *testing.T) {
	e := New(0)
	ctx := context.Background()
	query, err := e.Embed(ctx, "tofu stir fry")
	require.NoError(t, err)
	tofu, err := e.Embed(ctx, "Teriyaki Tofu\nfirm tofu, soy sauce, mirin\nCube and sear the tofu.")
	require.NoError(t, err)
	parfait, err := e.Embed(ctx, "Greek Yogurt Parfait\ngreek yogurt, honey, granola\nLayer yogurt with granola.")
	require.NoError(t, err)

	assert.Greater(t, dot(query, tofu), dot(query, parfait))
}

func TestEmbedBatchMatchesEmbed(t *testing.T) {
	e := New(0)
	ctx := context.Background()
	texts := []string{"baked cod", "chicken curry", "oat porridge"}
	batch, err := e.EmbedBatch(ctx, texts)
	require.NoError(t, err)
	require.Len(t, batch, len(texts))
	for i, text := range texts {
		single, err := e.Embed(ctx, text)
		require.NoError(t, err)
		assert.Equal(t, single, batch[i])
	}
}

func TestNameEncodesDimension(t *testing.T) {
	assert.Equal(t, "hashbow:128", New(0).Name())
	assert.Equal(t, "hashbow:64", New(64).Name())
	assert.Equal(t, 64, New(64).Dimension())
}

func TestBigramsContribute(t *testing.T) {
	e := New(0)
	ctx := context.Background()
	// Same unigrams, different adjacency.
	a, err := e.Embed(ctx, "fried rice chicken")
	require.NoError(t, err)
	b, err := e.Embed(ctx, "chicken fried rice")
	require.NoError(t, err)

	var diff float64
	for i := range a {
		diff += math.Abs(float64(a[i] - b[i]))
	}
	assert.Greater(t, diff, 0.0)
}
