package storage

import (
	"context"
)

// ImageUploader stores user images and returns their public URL. Handlers
// depend on this so tests can swap in a fake.
type ImageUploader interface {
	UploadImage(ctx context.Context, data []byte, kind ImageKind, userID, ext, contentType string) (*UploadResult, error)
	DeleteFile(ctx context.Context, key string) error
	KeyFromURL(url string) (string, bool)
}

var _ ImageUploader = (*S3Uploader)(nil)
