// Package cli wires the nutritrack commands together.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/TaniaZeidan/NutriTrackAI/internal/assistant"
	"github.com/TaniaZeidan/NutriTrackAI/internal/config"
	"github.com/TaniaZeidan/NutriTrackAI/internal/corpus"
	"github.com/TaniaZeidan/NutriTrackAI/internal/domain"
	"github.com/TaniaZeidan/NutriTrackAI/internal/embedding"
	"github.com/TaniaZeidan/NutriTrackAI/internal/embedding/gemini"
	"github.com/TaniaZeidan/NutriTrackAI/internal/index"
	"github.com/TaniaZeidan/NutriTrackAI/internal/service"
)

var flagConfig string

var rootCmd = &cobra.Command{
	Use:          "nutritrack",
	Short:        "Recipe retrieval and nutrition tracking from your terminal",
	SilenceUsage: true, // don't print usage on operational errors
	Long: `NutriTrack indexes a recipe corpus with text embeddings and answers
meal questions locally: semantic recipe search, guided cook-throughs,
meal plans, grocery lists, and a calorie journal.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "",
		"path to YAML config (default ./nutritrack.yaml, then ~/.config/nutritrack/config.yaml)")
}

// Execute is called by main.go.
func Execute() {
	_ = godotenv.Load()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app bundles the configured components behind the commands.
type app struct {
	cfg *config.AppConfig
	log *slog.Logger
}

func loadApp() (*app, error) {
	var (
		cfg *config.AppConfig
		err error
	)
	if flagConfig == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(flagConfig)
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &app{cfg: cfg, log: newLogger(cfg.Log)}, nil
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

func (a *app) loader() *corpus.Loader {
	return corpus.NewLoader(a.cfg.Corpus.Path, a.cfg.Corpus.Tolerance, a.log)
}

func (a *app) selector() *embedding.Selector {
	cfg := embedding.Config{Mode: a.cfg.Embedder.Type}
	if g := a.cfg.Embedder.Gemini; g != nil {
		cfg.Gemini = gemini.Config{
			BaseURL:   g.BaseURL,
			APIKeyEnv: g.APIKeyEnv,
			Model:     g.Model,
			Timeout:   time.Duration(g.TimeoutSecs) * time.Second,
		}
	}
	if h := a.cfg.Embedder.Hashbow; h != nil {
		cfg.HashDimension = h.Dimension
	}
	return embedding.NewSelector(cfg, a.log)
}

// retrieval assembles the loader, embedder, builder, and store policy
// into the query service.
func (a *app) retrieval() *service.Retrieval {
	selector := a.selector()
	builder := index.NewBuilder(a.loader(), selector, a.cfg.Index.Path, index.BuildConfig{
		BatchSize:   a.cfg.Index.BatchSize,
		Parallelism: a.cfg.Index.Parallelism,
	}, a.log)
	return service.New(builder, selector, service.Config{
		StoreKind:     a.cfg.Store.Type,
		VPTreeMinSize: a.cfg.Store.VPTreeMinSize,
		CacheSize:     a.cfg.Retrieval.CacheSize,
	}, a.log)
}

// guide builds the cooking assistant over the loaded corpus with the
// retrieval service as semantic fallback.
func (a *app) guide() (*assistant.Guide, []domain.Recipe, error) {
	recipes, err := a.loader().Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load recipe corpus: %w", err)
	}
	return assistant.New(recipes, a.retrieval()), recipes, nil
}
