package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/campus-labs/deptchat/internal/core/domain"
	"github.com/campus-labs/deptchat/internal/core/ports/driven"
)

// catalogStore implements driven.CatalogStore.
type catalogStore struct {
	store *Store
}

var _ driven.CatalogStore = (*catalogStore)(nil)

// RecordSyncRun appends a sync run record.
func (s *catalogStore) RecordSyncRun(ctx context.Context, report *domain.SyncReport) error {
	if report == nil {
		return domain.ErrInvalidInput
	}

	var rebuildError string
	if report.RebuildError != nil {
		rebuildError = report.RebuildError.Error()
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO sync_runs (started_at, finished_at, downloaded, removed, failed, changed, rebuild_error)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, report.StartedAt.Format(time.RFC3339),
		report.FinishedAt.Format(time.RFC3339),
		len(report.Downloaded), len(report.Removed), len(report.Failed),
		boolToInt(report.Changed), nullString(rebuildError))

	if err != nil {
		return fmt.Errorf("recording sync run: %w", err)
	}
	return nil
}

// RecentSyncRuns returns up to limit runs, newest first.
func (s *catalogStore) RecentSyncRuns(ctx context.Context, limit int) ([]domain.SyncRun, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, started_at, finished_at, downloaded, removed, failed, changed, rebuild_error
		FROM sync_runs
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying sync runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.SyncRun
	for rows.Next() {
		var run domain.SyncRun
		var startedAt, finishedAt string
		var changed int
		var rebuildError sql.NullString

		if err := rows.Scan(&run.ID, &startedAt, &finishedAt,
			&run.Downloaded, &run.Removed, &run.Failed, &changed, &rebuildError); err != nil {
			return nil, fmt.Errorf("scanning sync run: %w", err)
		}

		if t, err := time.Parse(time.RFC3339, startedAt); err == nil {
			run.StartedAt = t
		}
		if t, err := time.Parse(time.RFC3339, finishedAt); err == nil {
			run.FinishedAt = t
		}
		run.Changed = changed == 1
		if rebuildError.Valid {
			run.RebuildError = rebuildError.String
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sync runs: %w", err)
	}

	return runs, nil
}

// RecordUpload upserts an upload record keyed by filename.
func (s *catalogStore) RecordUpload(ctx context.Context, rec domain.UploadRecord) error {
	if rec.Filename == "" {
		return domain.ErrInvalidInput
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO uploads (filename, public_url, uploaded_at)
		VALUES (?, ?, ?)
		ON CONFLICT(filename) DO UPDATE SET
			public_url = excluded.public_url,
			uploaded_at = excluded.uploaded_at
	`, rec.Filename, rec.PublicURL, rec.UploadedAt.Format(time.RFC3339))

	if err != nil {
		return fmt.Errorf("recording upload: %w", err)
	}
	return nil
}

// DeleteUpload removes the upload record for a filename.
func (s *catalogStore) DeleteUpload(ctx context.Context, filename string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM uploads WHERE filename = ?", filename)
	if err != nil {
		return fmt.Errorf("deleting upload: %w", err)
	}
	return nil
}

// ListUploads returns all upload records, newest first.
func (s *catalogStore) ListUploads(ctx context.Context) ([]domain.UploadRecord, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT filename, public_url, uploaded_at
		FROM uploads
		ORDER BY uploaded_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying uploads: %w", err)
	}
	defer rows.Close()

	var records []domain.UploadRecord
	for rows.Next() {
		var rec domain.UploadRecord
		var uploadedAt string
		if err := rows.Scan(&rec.Filename, &rec.PublicURL, &uploadedAt); err != nil {
			return nil, fmt.Errorf("scanning upload: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, uploadedAt); err == nil {
			rec.UploadedAt = t
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating uploads: %w", err)
	}

	return records, nil
}
