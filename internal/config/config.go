package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// CorpusConfig points at the recipe corpus file. Tolerance is the
// fraction of rows allowed to be malformed before loading fails.
type CorpusConfig struct {
	Path      string  `yaml:"path"`
	Tolerance float64 `yaml:"tolerance"`
}

// GeminiEmbedderConfig holds configuration for the Gemini embeddings client.
type GeminiEmbedderConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// HashbowEmbedderConfig configures the local hashed bag-of-words embedder.
type HashbowEmbedderConfig struct {
	Dimension int `yaml:"dimension"`
}

// EmbedderConfig selects and configures the text embedder implementation.
// Type "auto" probes for an API key and falls back to the local embedder.
type EmbedderConfig struct {
	Type    string                 `yaml:"type"`
	Gemini  *GeminiEmbedderConfig  `yaml:"gemini,omitempty"`
	Hashbow *HashbowEmbedderConfig `yaml:"hashbow,omitempty"`
}

// StoreConfig selects the vector store implementation. Type "auto" picks
// the vp-tree for large accelerated indexes and brute force otherwise.
type StoreConfig struct {
	Type          string `yaml:"type"`
	VPTreeMinSize int    `yaml:"vptree_min_size"`
}

// IndexConfig controls where the index snapshot lives and how it is built.
type IndexConfig struct {
	Path        string `yaml:"path"`
	BatchSize   int    `yaml:"batch_size"`
	Parallelism int    `yaml:"parallelism"`
}

// RetrievalConfig tunes query-time behavior.
type RetrievalConfig struct {
	TopK      int `yaml:"top_k"`
	CacheSize int `yaml:"cache_size"`
}

// NutritionConfig points at an optional extra nutrition database file.
type NutritionConfig struct {
	Path string `yaml:"path,omitempty"`
}

// PlannerConfig tunes meal plan generation.
type PlannerConfig struct {
	MealsPerDay int     `yaml:"meals_per_day"`
	Tolerance   float64 `yaml:"tolerance"`
}

// JournalConfig points at the meal log database.
type JournalConfig struct {
	Path string `yaml:"path"`
}

// LogConfig configures structured logging output.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Corpus    CorpusConfig    `yaml:"corpus"`
	Embedder  EmbedderConfig  `yaml:"embedder"`
	Store     StoreConfig     `yaml:"store"`
	Index     IndexConfig     `yaml:"index"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Nutrition NutritionConfig `yaml:"nutrition"`
	Planner   PlannerConfig   `yaml:"planner"`
	Journal   JournalConfig   `yaml:"journal"`
	Log       LogConfig       `yaml:"log"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			return cfg, nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./nutritrack.yaml first, then ~/.config/nutritrack/config.yaml.
// If neither exists, it writes defaults to ~/.config/nutritrack/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "nutritrack.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "nutritrack", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		Corpus:    CorpusConfig{Path: "data/recipes.csv", Tolerance: 0.2},
		Embedder:  EmbedderConfig{Type: "auto"},
		Store:     StoreConfig{Type: "auto", VPTreeMinSize: 64},
		Index:     IndexConfig{Path: "data/recipes.index", BatchSize: 64, Parallelism: 4},
		Retrieval: RetrievalConfig{TopK: 5, CacheSize: 256},
		Planner:   PlannerConfig{MealsPerDay: 3, Tolerance: 0.2},
		Journal:   JournalConfig{Path: "data/journal.db"},
		Log:       LogConfig{Level: "info", Format: "text"},
	}
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Corpus.Path == "" {
		cfg.Corpus.Path = "data/recipes.csv"
	}
	if cfg.Corpus.Tolerance == 0 {
		cfg.Corpus.Tolerance = 0.2
	}
	if cfg.Embedder.Type == "" {
		cfg.Embedder.Type = "auto"
	}
	if cfg.Embedder.Gemini != nil {
		if cfg.Embedder.Gemini.BaseURL == "" {
			cfg.Embedder.Gemini.BaseURL = "https://generativelanguage.googleapis.com/v1beta"
		}
		if cfg.Embedder.Gemini.APIKeyEnv == "" {
			cfg.Embedder.Gemini.APIKeyEnv = "GOOGLE_API_KEY"
		}
		if cfg.Embedder.Gemini.Model == "" {
			cfg.Embedder.Gemini.Model = "text-embedding-004"
		}
		if cfg.Embedder.Gemini.TimeoutSecs == 0 {
			cfg.Embedder.Gemini.TimeoutSecs = 30
		}
	}
	if cfg.Embedder.Hashbow != nil && cfg.Embedder.Hashbow.Dimension == 0 {
		cfg.Embedder.Hashbow.Dimension = 128
	}
	if cfg.Store.Type == "" {
		cfg.Store.Type = "auto"
	}
	if cfg.Store.VPTreeMinSize == 0 {
		cfg.Store.VPTreeMinSize = 64
	}
	if cfg.Index.Path == "" {
		cfg.Index.Path = "data/recipes.index"
	}
	if cfg.Index.BatchSize == 0 {
		cfg.Index.BatchSize = 64
	}
	if cfg.Index.Parallelism == 0 {
		cfg.Index.Parallelism = 4
	}
	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = 5
	}
	if cfg.Retrieval.CacheSize == 0 {
		cfg.Retrieval.CacheSize = 256
	}
	if cfg.Planner.MealsPerDay == 0 {
		cfg.Planner.MealsPerDay = 3
	}
	if cfg.Planner.Tolerance == 0 {
		cfg.Planner.Tolerance = 0.2
	}
	if cfg.Journal.Path == "" {
		cfg.Journal.Path = "data/journal.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
