package embedding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/TaniaZeidan/NutriTrackAI/internal/embedding/gemini"
	"github.com/TaniaZeidan/NutriTrackAI/internal/embedding/hashbow"
)

// ErrBackendMismatch indicates vectors from one embedding backend were
// mixed with an index built by another.
var ErrBackendMismatch = errors.New("embedding backend mismatch")

// Embedder converts free text into a fixed-dimension vector representation.
// The backend identifier returned by Name distinguishes incompatible
// vector spaces; vectors from different backends must never share an index.
type Embedder interface {
	Name() string
	Dimension() int
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Selection modes for the embedding backend.
const (
	ModeAuto    = "auto"
	ModeGemini  = "gemini"
	ModeHashbow = "hashbow"
)

const probeTimeout = 5 * time.Second

// Config selects and configures the embedding backend.
type Config struct {
	Mode          string
	Gemini        gemini.Config
	HashDimension int
}

// Selector picks the embedding backend exactly once per process and caches
// it. In auto mode it probes the accelerated backend and silently falls
// back to the deterministic local embedder when the probe fails.
type Selector struct {
	cfg  Config
	log  *slog.Logger
	once sync.Once
	emb  Embedder
	err  error
}

// NewSelector creates a backend selector. The decision is deferred until
// the first Embedder call.
func NewSelector(cfg Config, log *slog.Logger) *Selector {
	if log == nil {
		log = slog.Default()
	}
	return &Selector{cfg: cfg, log: log}
}

// Embedder returns the process-wide embedding backend. Concurrent first
// callers share a single selection; the choice never changes afterwards.
func (s *Selector) Embedder(ctx context.Context) (Embedder, error) {
	s.once.Do(func() { s.emb, s.err = s.pick(ctx) })
	return s.emb, s.err
}

func (s *Selector) pick(ctx context.Context) (Embedder, error) {
	switch s.cfg.Mode {
	case "", ModeAuto:
		client, err := gemini.NewClient(s.cfg.Gemini)
		if err != nil {
			s.log.Info("accelerated embedding unavailable, using local fallback", "reason", err)
			return hashbow.New(s.cfg.HashDimension), nil
		}
		probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
		defer cancel()
		if err := client.Probe(probeCtx); err != nil {
			s.log.Warn("accelerated embedding probe failed, using local fallback", "err", err)
			return hashbow.New(s.cfg.HashDimension), nil
		}
		s.log.Info("selected embedding backend", "backend", client.Name(), "dimension", client.Dimension())
		return client, nil
	case ModeGemini:
		return gemini.NewClient(s.cfg.Gemini)
	case ModeHashbow:
		return hashbow.New(s.cfg.HashDimension), nil
	default:
		return nil, fmt.Errorf("unknown embedder type %q", s.cfg.Mode)
	}
}
