// Package assets wraps the remote image host. The host is not part of
// any database transaction; callers compensate manually when a database
// write fails after an upload.
package assets

import (
	"context"
	"io"
)

type UploadResult struct {
	PublicID  string `json:"public_id"`
	SecureURL string `json:"secure_url"`
}

// Store is the external asset host contract. Delete reports whether the
// asset was actually removed; callers treat delete failures during
// rollback as best-effort.
type Store interface {
	Upload(ctx context.Context, file io.Reader, folder, publicID string) (*UploadResult, error)
	Delete(ctx context.Context, publicID string) (bool, error)
}
