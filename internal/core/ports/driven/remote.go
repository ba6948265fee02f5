package driven

import (
	"context"

	"github.com/campus-labs/deptchat/internal/core/domain"
)

// RemoteStore is the remote document collection the mirror reconciles
// against. Identity key is the filename, unique within the bucket.
//
// Implementations may include:
//   - Supabase Storage (public bucket)
//   - Any S3-compatible object store
type RemoteStore interface {
	// List enumerates all files in the bucket.
	List(ctx context.Context) ([]domain.RemoteFile, error)

	// Download fetches a file's content by name.
	Download(ctx context.Context, name string) ([]byte, error)

	// Upload stores content under a name, replacing any existing object.
	Upload(ctx context.Context, name string, content []byte) error

	// Delete removes the named objects from the bucket.
	Delete(ctx context.Context, names []string) error

	// PublicURL returns the stable public URL for a named object.
	PublicURL(name string) string
}
