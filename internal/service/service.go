package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/TaniaZeidan/NutriTrackAI/internal/domain"
	"github.com/TaniaZeidan/NutriTrackAI/internal/embedding"
	"github.com/TaniaZeidan/NutriTrackAI/internal/index"
	"github.com/TaniaZeidan/NutriTrackAI/internal/vectorstore"
	"github.com/TaniaZeidan/NutriTrackAI/internal/vectorstore/bruteforce"
	"github.com/TaniaZeidan/NutriTrackAI/internal/vectorstore/vptree"
)

// ErrRetrievalUnavailable indicates no valid index exists and building one
// failed. The calling UI layer degrades to an explanatory empty state.
var ErrRetrievalUnavailable = errors.New("recipe retrieval unavailable")

// Store implementation kinds.
const (
	StoreAuto       = "auto"
	StoreBruteforce = "bruteforce"
	StoreVPTree     = "vptree"
)

// Config tunes the retrieval facade.
type Config struct {
	StoreKind     string
	VPTreeMinSize int
	CacheSize     int
}

// generation is one fully loaded index generation: the snapshot, a search
// store over its vectors and the id-to-recipe join table. Queries hold one
// generation for their whole lifetime, so a concurrent rebuild can never
// mix entries from two index states into a single result.
type generation struct {
	snapshot *index.Snapshot
	store    vectorstore.Store
	recipes  map[string]domain.Recipe
}

// Retrieval is the query-time facade over the embedding backend, the index
// builder and the vector store. It builds the index on demand the first
// time it is needed.
type Retrieval struct {
	builder    *index.Builder
	selector   *embedding.Selector
	cfg        Config
	log        *slog.Logger
	queryCache *lru.Cache[string, []float32]

	mu  sync.RWMutex
	gen *generation
}

// New creates a retrieval service. The index is not touched until the
// first Retrieve or Rebuild call.
func New(builder *index.Builder, selector *embedding.Selector, cfg Config, log *slog.Logger) *Retrieval {
	if cfg.VPTreeMinSize <= 0 {
		cfg.VPTreeMinSize = 64
	}
	if log == nil {
		log = slog.Default()
	}
	r := &Retrieval{builder: builder, selector: selector, cfg: cfg, log: log}
	if cfg.CacheSize > 0 {
		r.queryCache, _ = lru.New[string, []float32](cfg.CacheSize)
	}
	return r
}

// Retrieve embeds the query, searches the index and joins the hits back to
// full recipe records, ranked by descending similarity.
func (r *Retrieval) Retrieve(ctx context.Context, query string, k int) ([]domain.RecipeResult, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k=%d", vectorstore.ErrInvalidK, k)
	}
	emb, err := r.selector.Embedder(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRetrievalUnavailable, err)
	}
	gen, err := r.generation(ctx, emb)
	if err != nil {
		return nil, err
	}
	qvec, err := r.embedQuery(ctx, emb, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	matches, err := gen.store.Search(qvec, k)
	if err != nil {
		return nil, err
	}
	results := make([]domain.RecipeResult, 0, len(matches))
	for _, m := range matches {
		rec, ok := gen.recipes[m.RecipeID]
		if !ok {
			continue
		}
		results = append(results, domain.RecipeResult{Recipe: rec, Score: m.Score})
	}
	r.log.Debug("retrieved recipes", "query", query, "k", k, "results", len(results))
	return results, nil
}

// Rebuild delegates to the index builder. The next Retrieve picks up the
// new generation via its manifest check.
func (r *Retrieval) Rebuild(ctx context.Context, force bool) (*index.BuildResult, error) {
	return r.builder.Build(ctx, force)
}

// Manifest reads the persisted index manifest without loading vectors.
func (r *Retrieval) Manifest() (index.Manifest, error) {
	return index.ReadManifest(r.builder.Path())
}

// generation returns the current index generation, loading or building it
// as needed. A failed rebuild falls back to the cached generation when its
// backend still matches.
func (r *Retrieval) generation(ctx context.Context, emb embedding.Embedder) (*generation, error) {
	m, err := index.ReadManifest(r.builder.Path())
	if err == nil && m.Backend == emb.Name() {
		if g := r.cached(m.BuildID, emb.Name()); g != nil {
			return g, nil
		}
		if g, err := r.load(emb.Name()); err == nil {
			return g, nil
		}
	}

	if _, err := r.builder.Build(ctx, false); err != nil {
		if g := r.cachedFor(emb.Name()); g != nil {
			r.log.Warn("serving previous index generation after failed build", "err", err)
			return g, nil
		}
		return nil, fmt.Errorf("%w: %w", ErrRetrievalUnavailable, err)
	}
	g, err := r.load(emb.Name())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRetrievalUnavailable, err)
	}
	return g, nil
}

// load reads the snapshot from disk, indexes it into a fresh store and
// swaps it in as the cached generation.
func (r *Retrieval) load(backend string) (*generation, error) {
	snap, err := index.Load(r.builder.Path())
	if err != nil {
		return nil, err
	}
	if snap.Manifest.Backend != backend {
		return nil, fmt.Errorf("%w: index built with %s, active backend is %s",
			embedding.ErrBackendMismatch, snap.Manifest.Backend, backend)
	}
	store := r.newStore(snap.Manifest.EntryCount)
	if err := store.Add(snap.Entries()); err != nil {
		return nil, err
	}
	recipes := make(map[string]domain.Recipe, len(snap.Recipes))
	for _, rec := range snap.Recipes {
		recipes[rec.ID] = rec
	}
	g := &generation{snapshot: snap, store: store, recipes: recipes}

	r.mu.Lock()
	r.gen = g
	r.mu.Unlock()
	r.log.Debug("loaded index generation",
		"build_id", snap.Manifest.BuildID,
		"entries", snap.Manifest.EntryCount,
		"store", store.Name())
	return g, nil
}

func (r *Retrieval) cached(buildID, backend string) *generation {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.gen != nil && r.gen.snapshot.Manifest.BuildID == buildID && r.gen.snapshot.Manifest.Backend == backend {
		return r.gen
	}
	return nil
}

func (r *Retrieval) cachedFor(backend string) *generation {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.gen != nil && r.gen.snapshot.Manifest.Backend == backend {
		return r.gen
	}
	return nil
}

// newStore picks the store implementation: the vp-tree pays off only past
// a minimum index size, smaller indexes scan faster brute force.
func (r *Retrieval) newStore(size int) vectorstore.Store {
	switch r.cfg.StoreKind {
	case StoreBruteforce:
		return bruteforce.New()
	case StoreVPTree:
		return vptree.New()
	default:
		if size >= r.cfg.VPTreeMinSize {
			return vptree.New()
		}
		return bruteforce.New()
	}
}

func (r *Retrieval) embedQuery(ctx context.Context, emb embedding.Embedder, query string) ([]float32, error) {
	key := emb.Name() + "\x00" + query
	if r.queryCache != nil {
		if vec, ok := r.queryCache.Get(key); ok {
			return vec, nil
		}
	}
	vec, err := emb.Embed(ctx, query)
	if err != nil {
		return nil, err
	}
	if r.queryCache != nil {
		r.queryCache.Add(key, vec)
	}
	return vec, nil
}
