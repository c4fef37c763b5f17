package index

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/TaniaZeidan/NutriTrackAI/internal/corpus"
	"github.com/TaniaZeidan/NutriTrackAI/internal/embedding"
)

// ErrBuildFailed wraps any failure during index construction. The previous
// snapshot, if any, is left untouched and remains servable.
var ErrBuildFailed = errors.New("index build failed")

const lockRetryDelay = 250 * time.Millisecond

// BuildConfig tunes how the builder embeds the corpus.
type BuildConfig struct {
	BatchSize   int
	Parallelism int
}

// BuildResult reports what a build did.
type BuildResult struct {
	Reused      bool
	Entries     int
	Backend     string
	Dimension   int
	Fingerprint string
	BuildID     string
	Duration    time.Duration
}

// Builder (re)constructs the persisted index from the corpus. Builds are
// idempotent: an up-to-date snapshot is reused unless force is set, and a
// failed build never disturbs the previous snapshot.
type Builder struct {
	loader      *corpus.Loader
	selector    *embedding.Selector
	path        string
	batchSize   int
	parallelism int
	log         *slog.Logger
}

// NewBuilder creates an index builder writing to path.
func NewBuilder(loader *corpus.Loader, selector *embedding.Selector, path string, cfg BuildConfig, log *slog.Logger) *Builder {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 64
	}
	if cfg.Parallelism <= 0 {
		cfg.Parallelism = 4
	}
	if log == nil {
		log = slog.Default()
	}
	return &Builder{
		loader:      loader,
		selector:    selector,
		path:        path,
		batchSize:   cfg.BatchSize,
		parallelism: cfg.Parallelism,
		log:         log,
	}
}

// Path returns the snapshot location the builder writes to.
func (b *Builder) Path() string { return b.path }

// Build constructs the index snapshot. With force false it first checks
// the existing snapshot's manifest against the current corpus fingerprint
// and embedding backend and reuses it when both match.
func (b *Builder) Build(ctx context.Context, force bool) (*BuildResult, error) {
	start := time.Now()

	fingerprint, err := b.loader.Fingerprint()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildFailed, err)
	}
	embedder, err := b.selector.Embedder(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildFailed, err)
	}

	if !force {
		if res := b.reusable(fingerprint, embedder.Name(), start); res != nil {
			return res, nil
		}
	}

	// Serialize concurrent builders of the same snapshot across processes.
	lock := flock.New(b.path + ".lock")
	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("%w: acquire build lock: %w", ErrBuildFailed, err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: build lock unavailable", ErrBuildFailed)
	}
	defer lock.Unlock()

	// Another process may have finished the same build while we waited.
	if !force {
		if res := b.reusable(fingerprint, embedder.Name(), start); res != nil {
			return res, nil
		}
	}

	recipes, err := b.loader.Load()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildFailed, err)
	}
	if len(recipes) == 0 {
		return nil, fmt.Errorf("%w: corpus has no usable recipes", ErrBuildFailed)
	}

	texts := make([]string, len(recipes))
	for i := range recipes {
		texts[i] = recipes[i].SearchText
	}
	vectors, err := b.embedAll(ctx, embedder, texts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildFailed, err)
	}

	dim := len(vectors[0])
	for i, vec := range vectors {
		if len(vec) != dim {
			return nil, fmt.Errorf("%w: %w: %s produced dimension %d after %d",
				ErrBuildFailed, embedding.ErrBackendMismatch, recipes[i].ID, len(vec), dim)
		}
	}

	snap := &Snapshot{
		Manifest: Manifest{
			SchemaVersion:     SchemaVersion,
			BuildID:           uuid.NewString(),
			CreatedAt:         time.Now().UTC().Format(time.RFC3339),
			CorpusFingerprint: fingerprint,
			Backend:           embedder.Name(),
			Dimension:         dim,
			EntryCount:        len(recipes),
		},
		Recipes: recipes,
		Vectors: vectors,
	}
	if err := snap.Write(b.path); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildFailed, err)
	}

	res := &BuildResult{
		Entries:     len(recipes),
		Backend:     snap.Manifest.Backend,
		Dimension:   dim,
		Fingerprint: fingerprint,
		BuildID:     snap.Manifest.BuildID,
		Duration:    time.Since(start),
	}
	b.log.Info("index built",
		"entries", res.Entries,
		"backend", res.Backend,
		"dimension", res.Dimension,
		"duration", res.Duration,
		"path", b.path)
	return res, nil
}

// reusable returns a reuse result when the existing snapshot's manifest is
// current, nil otherwise.
func (b *Builder) reusable(fingerprint, backend string, start time.Time) *BuildResult {
	m, err := ReadManifest(b.path)
	if err != nil || !m.Matches(fingerprint, backend) {
		return nil
	}
	b.log.Debug("reusing existing index", "path", b.path, "build_id", m.BuildID)
	return &BuildResult{
		Reused:      true,
		Entries:     m.EntryCount,
		Backend:     m.Backend,
		Dimension:   m.Dimension,
		Fingerprint: m.CorpusFingerprint,
		BuildID:     m.BuildID,
		Duration:    time.Since(start),
	}
}

// embedAll embeds texts in batches, several batches in flight, preserving
// input order in the result.
func (b *Builder) embedAll(ctx context.Context, embedder embedding.Embedder, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.parallelism)
	for begin := 0; begin < len(texts); begin += b.batchSize {
		begin, end := begin, min(begin+b.batchSize, len(texts))
		g.Go(func() error {
			batch, err := embedder.EmbedBatch(gctx, texts[begin:end])
			if err != nil {
				return fmt.Errorf("embed rows %d-%d: %w", begin, end-1, err)
			}
			if len(batch) != end-begin {
				return fmt.Errorf("embed rows %d-%d: got %d vectors", begin, end-1, len(batch))
			}
			copy(vectors[begin:end], batch)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return vectors, nil
}
