// Package flatfile provides a file-backed vector index store.
//
// The whole index lives in a single gob snapshot so replacement is one
// atomic rename: a concurrent reader opens either the previous snapshot
// or the new one, never a partial write. A manifest.json sidecar is
// refreshed after each save for inspection; the authoritative manifest
// travels inside the snapshot.
package flatfile

import (
	"context"
	"encoding/gob"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/campus-labs/deptchat/internal/core/domain"
	"github.com/campus-labs/deptchat/internal/core/ports/driven"
	"github.com/campus-labs/deptchat/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.IndexStore = (*Store)(nil)

const (
	snapshotFile = "index.gob"
	manifestFile = "manifest.json"
)

// Store persists the vector index under a directory.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir (created on first save).
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// snapshot is the on-disk representation.
type snapshot struct {
	Manifest domain.IndexManifest
	Chunks   []domain.Chunk
	Vectors  [][]float32
}

// Save atomically replaces the persisted index: the snapshot is written
// to a temporary file in the same directory and renamed over the
// current one. A failure at any point leaves the previous snapshot
// untouched.
func (s *Store) Save(_ context.Context, manifest domain.IndexManifest, chunks []domain.EmbeddedChunk) error {
	if len(chunks) == 0 {
		return fmt.Errorf("save index: %w", domain.ErrEmptyCorpus)
	}

	snap := snapshot{
		Manifest: manifest,
		Chunks:   make([]domain.Chunk, len(chunks)),
		Vectors:  make([][]float32, len(chunks)),
	}
	for i, ec := range chunks {
		if len(ec.Vector) != manifest.Dimensions {
			return fmt.Errorf("save index: chunk %d has dimension %d, manifest says %d: %w",
				i, len(ec.Vector), manifest.Dimensions, domain.ErrEmbeddingMismatch)
		}
		snap.Chunks[i] = ec.Chunk
		snap.Vectors[i] = ec.Vector
	}

	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("create index directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, snapshotFile+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()

	if err := gob.NewEncoder(tmp).Encode(&snap); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close snapshot: %w", err)
	}

	if err := os.Rename(tmpName, s.snapshotPath()); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("swap snapshot: %w", err)
	}

	s.writeManifestSidecar(manifest)

	return nil
}

// Load returns the currently persisted index.
func (s *Store) Load(_ context.Context) (driven.VectorIndex, error) {
	f, err := os.Open(s.snapshotPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrIndexNotFound
		}
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()

	var snap snapshot
	if err := gob.NewDecoder(f).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	return &Index{
		manifest: snap.Manifest,
		chunks:   snap.Chunks,
		vectors:  snap.Vectors,
	}, nil
}

// Delete removes the persisted index, if any.
func (s *Store) Delete(_ context.Context) error {
	if err := os.Remove(s.snapshotPath()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	if err := os.Remove(filepath.Join(s.dir, manifestFile)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete manifest: %w", err)
	}
	return nil
}

// Exists reports whether a persisted index is present.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.snapshotPath())
	return err == nil
}

func (s *Store) snapshotPath() string {
	return filepath.Join(s.dir, snapshotFile)
}

// writeManifestSidecar refreshes the human-readable manifest. Best
// effort: the sidecar is informational only.
func (s *Store) writeManifestSidecar(manifest domain.IndexManifest) {
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		logger.Warn("write manifest sidecar: %v", err)
		return
	}
	if err := os.WriteFile(filepath.Join(s.dir, manifestFile), data, 0600); err != nil {
		logger.Warn("write manifest sidecar: %v", err)
	}
}
