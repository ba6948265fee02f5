package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/campus-labs/deptchat/internal/core/domain"
	"github.com/campus-labs/deptchat/internal/core/ports/driven"
	"github.com/campus-labs/deptchat/internal/core/ports/driving"
	"github.com/campus-labs/deptchat/internal/logger"
)

// Ensure Mirror implements the interface.
var _ driving.SyncService = (*Mirror)(nil)

// Mirror reconciles the remote document collection against the local
// cache and triggers a full index rebuild when drift is detected. The
// mirror owns the local cache lifecycle: nothing else downloads into or
// deletes from the corpus directory.
type Mirror struct {
	dataDir   string
	remote    driven.RemoteStore
	registry  driven.ExtractorRegistry
	rebuilder driving.RebuildService
	indexes   driven.IndexStore
	catalog   driven.CatalogStore // optional; sync runs are not recorded when nil
}

// NewMirror creates a mirror over the given cache directory.
func NewMirror(
	dataDir string,
	remote driven.RemoteStore,
	registry driven.ExtractorRegistry,
	rebuilder driving.RebuildService,
	indexes driven.IndexStore,
	catalog driven.CatalogStore,
) *Mirror {
	return &Mirror{
		dataDir:   dataDir,
		remote:    remote,
		registry:  registry,
		rebuilder: rebuilder,
		indexes:   indexes,
		catalog:   catalog,
	}
}

// Sync performs one reconciliation. Downloads are best-effort per file:
// a failed download is reported and retried on the next sync, never
// aborting the rest. The returned error covers the sync step only; a
// rebuild failure travels on the report so it is never silently
// swallowed into the sync outcome.
func (m *Mirror) Sync(ctx context.Context) (*domain.SyncReport, error) {
	report := &domain.SyncReport{StartedAt: time.Now().UTC()}

	remote, err := m.listRemote(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRemoteUnavailable, err)
	}

	local, err := m.listLocal()
	if err != nil {
		return nil, err
	}

	toDownload := difference(remote, local)
	toRemove := difference(local, remote)

	for _, name := range toDownload {
		if err := m.download(ctx, name); err != nil {
			logger.Warn("%v: %s: %v", domain.ErrDownloadFailed, name, err)
			report.Failed = append(report.Failed, name)
			continue
		}
		logger.Info("Downloaded: %s", name)
		report.Downloaded = append(report.Downloaded, name)
	}

	for _, name := range toRemove {
		if err := os.Remove(filepath.Join(m.dataDir, name)); err != nil {
			logger.Warn("Remove local file %s: %v", name, err)
			continue
		}
		logger.Info("Removed local file (deleted remotely): %s", name)
		report.Removed = append(report.Removed, name)
	}

	report.Changed = len(report.Downloaded) > 0 || len(report.Removed) > 0 || !m.indexes.Exists()

	if report.Changed {
		logger.Info("Changes detected, rebuilding index")
		if err := m.rebuilder.Rebuild(ctx); err != nil {
			logger.Warn("Rebuild after sync failed: %v", err)
			report.RebuildError = err
		}
	} else {
		logger.Debug("No changes, index is up to date")
	}

	report.FinishedAt = time.Now().UTC()
	m.record(ctx, report)
	return report, nil
}

// listRemote returns the recognised remote filenames. Files the
// extractor set cannot handle are left on the remote untouched; caching
// them locally would force a rebuild on every sync.
func (m *Mirror) listRemote(ctx context.Context) ([]string, error) {
	files, err := m.remote.List(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(files))
	for _, f := range files {
		if !m.registry.Recognised(f.Name) {
			logger.Debug("Ignoring remote file with unsupported extension: %s", f.Name)
			continue
		}
		names = append(names, f.Name)
	}
	return names, nil
}

// listLocal returns the cached filenames with recognised extensions.
func (m *Mirror) listLocal() ([]string, error) {
	if err := os.MkdirAll(m.dataDir, 0700); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	entries, err := os.ReadDir(m.dataDir)
	if err != nil {
		return nil, fmt.Errorf("read cache directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !m.registry.Recognised(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}

// download fetches one file into the cache. The content lands under a
// temporary name and is renamed into place on success, so an
// interrupted download never leaves a corrupt file visible under its
// final name.
func (m *Mirror) download(ctx context.Context, name string) error {
	data, err := m.remote.Download(ctx, name)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(m.dataDir, ".download-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpName, filepath.Join(m.dataDir, name)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("move into cache: %w", err)
	}
	return nil
}

// record persists the sync run, best effort.
func (m *Mirror) record(ctx context.Context, report *domain.SyncReport) {
	if m.catalog == nil {
		return
	}
	if err := m.catalog.RecordSyncRun(ctx, report); err != nil {
		logger.Warn("Record sync run: %v", err)
	}
}

// difference returns the sorted elements of a not present in b.
func difference(a, b []string) []string {
	inB := make(map[string]struct{}, len(b))
	for _, name := range b {
		inB[name] = struct{}{}
	}

	var out []string
	for _, name := range a {
		if _, ok := inB[name]; !ok {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
