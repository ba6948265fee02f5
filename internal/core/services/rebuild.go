package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/campus-labs/deptchat/internal/core/domain"
	"github.com/campus-labs/deptchat/internal/core/ports/driven"
	"github.com/campus-labs/deptchat/internal/core/ports/driving"
	"github.com/campus-labs/deptchat/internal/logger"
)

// Ensure RebuildPipeline implements the interface.
var _ driving.RebuildService = (*RebuildPipeline)(nil)

// DefaultEmbedBatchSize is the number of chunks embedded per provider call.
const DefaultEmbedBatchSize = 64

// RebuildPipeline rebuilds the persisted vector index from the local
// corpus: extract every recognised file, chunk, embed, and atomically
// swap in the new snapshot. Rebuilds are all-or-nothing and mutually
// exclusive; the pipeline is the sole writer of the index.
type RebuildPipeline struct {
	dataDir    string
	registry   driven.ExtractorRegistry
	splitter   driven.Splitter
	embedder   driven.EmbeddingService
	indexStore driven.IndexStore
	batchSize  int

	mu   sync.Mutex  // held for the duration of a rebuild
	busy atomic.Bool // observable in-flight state for the UI
}

// NewRebuildPipeline creates a rebuild pipeline over the given corpus
// directory.
func NewRebuildPipeline(
	dataDir string,
	registry driven.ExtractorRegistry,
	splitter driven.Splitter,
	embedder driven.EmbeddingService,
	indexStore driven.IndexStore,
) *RebuildPipeline {
	return &RebuildPipeline{
		dataDir:    dataDir,
		registry:   registry,
		splitter:   splitter,
		embedder:   embedder,
		indexStore: indexStore,
		batchSize:  DefaultEmbedBatchSize,
	}
}

// Busy reports whether a rebuild is currently in flight.
func (p *RebuildPipeline) Busy() bool {
	return p.busy.Load()
}

// Rebuild runs one full rebuild. A second caller while one is in
// flight is rejected with domain.ErrRebuildInProgress rather than
// silently interleaved.
func (p *RebuildPipeline) Rebuild(ctx context.Context) error {
	if !p.mu.TryLock() {
		return domain.ErrRebuildInProgress
	}
	defer p.mu.Unlock()

	p.busy.Store(true)
	defer p.busy.Store(false)

	if p.embedder == nil {
		return domain.ErrEmbeddingUnavailable
	}

	units, err := p.extractCorpus(ctx)
	if err != nil {
		return err
	}

	chunks := p.splitter.Split(units)
	logger.Info("Rebuild: %d units, %d chunks", len(units), len(chunks))

	if len(chunks) == 0 {
		// No valid answers exist; serving a stale index would be worse
		// than serving none.
		if err := p.indexStore.Delete(ctx); err != nil {
			return fmt.Errorf("clear stale index: %w", err)
		}
		return fmt.Errorf("no documents in %s: %w", p.dataDir, domain.ErrEmptyCorpus)
	}

	embedded, err := p.embedChunks(ctx, chunks)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrRebuildFailed, err)
	}

	manifest := domain.IndexManifest{
		Provider:   p.embedder.Provider(),
		Model:      p.embedder.ModelName(),
		Dimensions: p.embedder.Dimensions(),
		ChunkCount: len(embedded),
		BuiltAt:    time.Now().UTC(),
	}

	if err := p.indexStore.Save(ctx, manifest, embedded); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrRebuildFailed, err)
	}

	logger.Info("Rebuild complete: %d chunks indexed with %s/%s",
		len(embedded), manifest.Provider, manifest.Model)
	return nil
}

// extractCorpus runs the matching extractor over every file in the
// corpus directory. Per-file failures are logged and skipped; one bad
// file never blocks the whole corpus.
func (p *RebuildPipeline) extractCorpus(ctx context.Context) ([]domain.DocumentUnit, error) {
	entries, err := os.ReadDir(p.dataDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read corpus directory: %w", err)
	}

	var units []domain.DocumentUnit
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()

		extractor, ok := p.registry.ForFile(name)
		if !ok {
			logger.Warn("Skipping unsupported file type: %s", name)
			continue
		}

		data, err := os.ReadFile(filepath.Join(p.dataDir, name))
		if err != nil {
			logger.Warn("Skipping %s: read: %v", name, err)
			continue
		}

		fileUnits, err := extractor.Extract(ctx, data, name)
		if err != nil {
			logger.Warn("Skipping %s: %v: %v", name, domain.ErrExtractionFailed, err)
			continue
		}

		logger.Debug("Extracted %d units from %s", len(fileUnits), name)
		units = append(units, fileUnits...)
	}

	return units, nil
}

// embedChunks embeds all chunks in batches with a single provider.
func (p *RebuildPipeline) embedChunks(ctx context.Context, chunks []domain.Chunk) ([]domain.EmbeddedChunk, error) {
	embedded := make([]domain.EmbeddedChunk, 0, len(chunks))

	for start := 0; start < len(chunks); start += p.batchSize {
		end := start + p.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}

		texts := make([]string, 0, end-start)
		for _, c := range chunks[start:end] {
			texts = append(texts, c.Text)
		}

		vectors, err := p.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("embed batch at %d: %w", start, err)
		}
		if len(vectors) != len(texts) {
			return nil, fmt.Errorf("embed batch at %d: got %d vectors for %d texts", start, len(vectors), len(texts))
		}

		for i, v := range vectors {
			embedded = append(embedded, domain.EmbeddedChunk{
				Chunk:  chunks[start+i],
				Vector: v,
			})
		}
	}

	return embedded, nil
}
