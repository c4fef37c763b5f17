package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "auto", cfg.Embedder.Type)
	assert.Equal(t, "data/recipes.csv", cfg.Corpus.Path)
	assert.Equal(t, 0.2, cfg.Corpus.Tolerance)
	assert.Equal(t, 5, cfg.Retrieval.TopK)
	assert.Equal(t, 64, cfg.Store.VPTreeMinSize)
	assert.Equal(t, "data/journal.db", cfg.Journal.Path)
}

func TestLoadAppliesDefaultsToPartialConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := []byte("corpus:\n  path: testdata/mine.csv\nembedder:\n  type: gemini\n  gemini:\n    api_key_env: MY_KEY\n")
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "testdata/mine.csv", cfg.Corpus.Path)
	assert.Equal(t, "gemini", cfg.Embedder.Type)
	assert.Equal(t, "MY_KEY", cfg.Embedder.Gemini.APIKeyEnv)
	assert.Equal(t, "text-embedding-004", cfg.Embedder.Gemini.Model)
	assert.Equal(t, 30, cfg.Embedder.Gemini.TimeoutSecs)
	assert.Equal(t, "data/recipes.index", cfg.Index.Path)
	assert.Equal(t, 3, cfg.Planner.MealsPerDay)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("corpus: [unterminated"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	cfg.Retrieval.TopK = 9
	cfg.Store.Type = "bruteforce"

	require.NoError(t, Save(path, cfg))
	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9, got.Retrieval.TopK)
	assert.Equal(t, "bruteforce", got.Store.Type)
}
