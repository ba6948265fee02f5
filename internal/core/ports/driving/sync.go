package driving

import (
	"context"

	"github.com/campus-labs/deptchat/internal/core/domain"
)

// SyncService reconciles the remote document collection with the local
// cache and triggers an index rebuild when drift is detected.
type SyncService interface {
	// Sync performs one reconciliation. The returned report carries the
	// rebuild outcome separately from the sync outcome; the error only
	// covers the sync step itself (listing the remote, local IO).
	Sync(ctx context.Context) (*domain.SyncReport, error)
}
