package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TaniaZeidan/NutriTrackAI/internal/embedding/gemini"
)

func TestSelectorForcedHashbow(t *testing.T) {
	s := NewSelector(Config{Mode: ModeHashbow, HashDimension: 64}, nil)
	emb, err := s.Embedder(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "hashbow:64", emb.Name())
}

func TestSelectorAutoFallsBackWithoutCredential(t *testing.T) {
	t.Setenv("TEST_ABSENT_KEY", "")
	s := NewSelector(Config{Mode: ModeAuto, Gemini: gemini.Config{APIKeyEnv: "TEST_ABSENT_KEY"}}, nil)
	emb, err := s.Embedder(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "hashbow:128", emb.Name())
}

func TestSelectorAutoUsesGeminiWhenProbeSucceeds(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"embedding": map[string]any{"values": []float32{0.5, 0.5}}})
	}))
	t.Cleanup(srv.Close)
	t.Setenv("TEST_GEMINI_KEY", "secret")

	s := NewSelector(Config{Mode: ModeAuto, Gemini: gemini.Config{BaseURL: srv.URL, APIKeyEnv: "TEST_GEMINI_KEY"}}, nil)
	emb, err := s.Embedder(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "gemini:text-embedding-004", emb.Name())
}

func TestSelectorAutoFallsBackWhenProbeFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	t.Cleanup(srv.Close)
	t.Setenv("TEST_GEMINI_KEY", "secret")

	s := NewSelector(Config{Mode: ModeAuto, Gemini: gemini.Config{BaseURL: srv.URL, APIKeyEnv: "TEST_GEMINI_KEY"}}, nil)
	emb, err := s.Embedder(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "hashbow:128", emb.Name())
}

func TestSelectorCachesDecision(t *testing.T) {
	s := NewSelector(Config{Mode: ModeHashbow}, nil)
	a, err := s.Embedder(context.Background())
	require.NoError(t, err)
	b, err := s.Embedder(context.Background())
	require.NoError(t, err)
	assert.Same(t, a, b)
}

func TestSelectorUnknownMode(t *testing.T) {
	s := NewSelector(Config{Mode: "word2vec"}, nil)
	_, err := s.Embedder(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "word2vec")
}
