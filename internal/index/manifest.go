package index

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// SchemaVersion is the current snapshot format version.
const SchemaVersion = 1

// Manifest describes a persisted index and how to interpret it. It is the
// first line of the snapshot file so staleness checks can read it without
// deserializing the vector data.
type Manifest struct {
	SchemaVersion     int    `json:"schema_version"`
	BuildID           string `json:"build_id"`
	CreatedAt         string `json:"created_at"`
	CorpusFingerprint string `json:"corpus_fingerprint"`
	Backend           string `json:"backend"`
	Dimension         int    `json:"dimension"`
	EntryCount        int    `json:"entry_count"`
}

// Matches reports whether the manifest is current for the given corpus
// fingerprint and embedding backend.
func (m Manifest) Matches(fingerprint, backend string) bool {
	return m.CorpusFingerprint == fingerprint && m.Backend == backend
}

// ReadManifest reads only the manifest line of a snapshot file.
func ReadManifest(path string) (Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("open snapshot %s: %w", path, err)
	}
	defer f.Close()

	line, err := bufio.NewReader(f).ReadString('\n')
	if err != nil && strings.TrimSpace(line) == "" {
		return Manifest{}, fmt.Errorf("read snapshot manifest %s: %w", path, err)
	}
	var m Manifest
	if err := json.Unmarshal([]byte(line), &m); err != nil {
		return Manifest{}, fmt.Errorf("invalid snapshot manifest %s: %w", path, err)
	}
	if m.SchemaVersion > SchemaVersion {
		return Manifest{}, fmt.Errorf("unsupported snapshot version %d in %s", m.SchemaVersion, path)
	}
	if m.Dimension <= 0 {
		return Manifest{}, fmt.Errorf("invalid dimension %d in snapshot manifest %s", m.Dimension, path)
	}
	return m, nil
}
