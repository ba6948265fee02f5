package driven

import (
	"context"

	"github.com/campus-labs/deptchat/internal/core/domain"
)

// SchedulerStore persists scheduled task state across restarts.
type SchedulerStore interface {
	// GetTask retrieves a scheduled task by ID.
	// Returns nil and no error if the task does not exist.
	GetTask(ctx context.Context, taskID string) (*domain.ScheduledTask, error)

	// ListTasks returns all scheduled tasks.
	ListTasks(ctx context.Context) ([]domain.ScheduledTask, error)

	// SaveTask creates or updates a task.
	SaveTask(ctx context.Context, task *domain.ScheduledTask) error

	// RecordResult saves a task execution result and updates the task's
	// run bookkeeping.
	RecordResult(ctx context.Context, result *domain.TaskResult) error
}

// CatalogStore records sync runs and admin uploads for the status surface.
type CatalogStore interface {
	// RecordSyncRun appends a sync run record.
	RecordSyncRun(ctx context.Context, report *domain.SyncReport) error

	// RecentSyncRuns returns up to limit runs, newest first.
	RecentSyncRuns(ctx context.Context, limit int) ([]domain.SyncRun, error)

	// RecordUpload upserts an upload record keyed by filename.
	RecordUpload(ctx context.Context, rec domain.UploadRecord) error

	// DeleteUpload removes the upload record for a filename.
	DeleteUpload(ctx context.Context, filename string) error

	// ListUploads returns all upload records, newest first.
	ListUploads(ctx context.Context) ([]domain.UploadRecord, error)
}
