package index

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/TaniaZeidan/NutriTrackAI/internal/domain"
	"github.com/TaniaZeidan/NutriTrackAI/internal/vectorstore"
)

// Snapshot is one complete index generation: the manifest, the recipe side
// table and the embedding vectors, aligned by position.
//
// The on-disk layout is a single file: the manifest JSON line, then one
// JSON line per recipe, then the vectors as packed little-endian float32.
type Snapshot struct {
	Manifest Manifest
	Recipes  []domain.Recipe
	Vectors  [][]float32
}

// Entries pairs every recipe id with its vector for loading into a store.
func (s *Snapshot) Entries() []vectorstore.Entry {
	entries := make([]vectorstore.Entry, len(s.Recipes))
	for i := range s.Recipes {
		entries[i] = vectorstore.Entry{RecipeID: s.Recipes[i].ID, Vector: s.Vectors[i]}
	}
	return entries
}

// Lookup returns the full recipe record for an id.
func (s *Snapshot) Lookup(id string) (domain.Recipe, bool) {
	for i := range s.Recipes {
		if s.Recipes[i].ID == id {
			return s.Recipes[i], true
		}
	}
	return domain.Recipe{}, false
}

// Write persists the snapshot to path atomically: it writes a temp file in
// the same directory, fsyncs it and renames it over the destination, so a
// concurrent reader sees either the old complete file or the new one.
func (s *Snapshot) Write(path string) error {
	if err := s.validate(); err != nil {
		return err
	}
	if s.Manifest.CreatedAt == "" {
		s.Manifest.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	if s.Manifest.SchemaVersion == 0 {
		s.Manifest.SchemaVersion = SchemaVersion
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create index dir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("cannot create temp snapshot: %w", err)
	}
	defer func() {
		if tmp != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	bw := bufio.NewWriter(tmp)
	if err := writeJSONLine(bw, s.Manifest); err != nil {
		return err
	}
	for i := range s.Recipes {
		if err := writeJSONLine(bw, s.Recipes[i]); err != nil {
			return err
		}
	}
	for _, vec := range s.Vectors {
		if err := binary.Write(bw, binary.LittleEndian, vec); err != nil {
			return fmt.Errorf("cannot write vectors: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("cannot flush snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("cannot sync snapshot: %w", err)
	}
	name := tmp.Name()
	if err := tmp.Close(); err != nil {
		tmp = nil
		_ = os.Remove(name)
		return fmt.Errorf("cannot close snapshot: %w", err)
	}
	tmp = nil
	if err := os.Rename(name, path); err != nil {
		_ = os.Remove(name)
		return fmt.Errorf("cannot replace snapshot %s: %w", path, err)
	}
	return nil
}

func (s *Snapshot) validate() error {
	if s.Manifest.Dimension <= 0 {
		return fmt.Errorf("invalid dimension: %d", s.Manifest.Dimension)
	}
	if len(s.Recipes) == 0 {
		return fmt.Errorf("no recipes to write")
	}
	if len(s.Vectors) != len(s.Recipes) {
		return fmt.Errorf("recipe and vector counts differ: %d vs %d", len(s.Recipes), len(s.Vectors))
	}
	if s.Manifest.EntryCount != len(s.Recipes) {
		return fmt.Errorf("manifest entry count %d does not match %d recipes", s.Manifest.EntryCount, len(s.Recipes))
	}
	for i, vec := range s.Vectors {
		if len(vec) != s.Manifest.Dimension {
			return fmt.Errorf("vector for %s has dimension %d, manifest says %d",
				s.Recipes[i].ID, len(vec), s.Manifest.Dimension)
		}
	}
	return nil
}

func writeJSONLine(w *bufio.Writer, v any) error {
	line, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := w.Write(line); err != nil {
		return err
	}
	return w.WriteByte('\n')
}

// Load reads a complete snapshot from path, validating that the recipe and
// vector sections match the manifest.
func Load(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot %s: %w", path, err)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	line, err := br.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("read snapshot manifest %s: %w", path, err)
	}
	var m Manifest
	if err := json.Unmarshal([]byte(line), &m); err != nil {
		return nil, fmt.Errorf("invalid snapshot manifest %s: %w", path, err)
	}
	if m.SchemaVersion > SchemaVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d in %s", m.SchemaVersion, path)
	}
	if m.Dimension <= 0 {
		return nil, fmt.Errorf("invalid dimension %d in snapshot manifest %s", m.Dimension, path)
	}

	recipes := make([]domain.Recipe, 0, m.EntryCount)
	for i := 0; i < m.EntryCount; i++ {
		line, err := br.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("snapshot %s truncated at recipe %d: %w", path, i, err)
		}
		var r domain.Recipe
		if err := json.Unmarshal([]byte(line), &r); err != nil {
			return nil, fmt.Errorf("invalid recipe line %d in %s: %w", i, path, err)
		}
		recipes = append(recipes, r)
	}

	flat := make([]float32, m.EntryCount*m.Dimension)
	if err := binary.Read(br, binary.LittleEndian, flat); err != nil {
		return nil, fmt.Errorf("cannot read vectors from %s: %w", path, err)
	}
	if _, err := br.ReadByte(); err != io.EOF {
		return nil, fmt.Errorf("snapshot %s has trailing data", path)
	}

	vectors := make([][]float32, m.EntryCount)
	for i := range vectors {
		vectors[i] = flat[i*m.Dimension : (i+1)*m.Dimension]
	}
	return &Snapshot{Manifest: m, Recipes: recipes, Vectors: vectors}, nil
}
