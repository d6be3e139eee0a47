// Package cdn handles the image CDN linkage: uploading files (or re-hosting
// URLs) and deleting by public ID.
package cdn

import (
	"context"
	"io"
)

// UploadResult is the durable URL + identifier pair returned by the CDN.
// Field names follow the CDN's native JSON response.
type UploadResult struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
}

// Uploader abstracts the CDN so the direct SDK client and the HTTP proxy
// client are interchangeable.
type Uploader interface {
	// Upload sends raw file bytes and returns the CDN linkage
	Upload(ctx context.Context, fileName string, body io.Reader) (*UploadResult, error)
	// UploadFromURL re-hosts an already-public file by source URL
	UploadFromURL(ctx context.Context, srcURL, fileName string) (*UploadResult, error)
	// Delete removes a file by its CDN public ID
	Delete(ctx context.Context, publicID string) error
}
