package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"huntermarket/pkg/domain"
)

// MaxImageBytes is the upload size limit (5 MiB).
const MaxImageBytes = 5 * 1024 * 1024

var allowedImageTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
	"image/gif":  {},
}

// UploadImage validates an image blob and relays it to object storage,
// returning the public descriptor for the stored object.
//
// Validation is strictly ordered and happens before any network call:
// declared media type first, then size, then storage configuration. On
// success exactly one object is written; on failure no usable reference
// exists.
func (a *App) UploadImage(ctx context.Context, blob domain.FileBlob) (domain.UploadResult, error) {
	if _, ok := allowedImageTypes[blob.ContentType]; !ok {
		return domain.UploadResult{}, ErrUnsupportedType
	}
	if blob.Size > MaxImageBytes {
		return domain.UploadResult{}, ErrFileTooLarge
	}
	if a.objects == nil {
		return domain.UploadResult{}, ErrStorageNotConfigured
	}

	if err := a.objects.EnsureBucket(ctx); err != nil {
		return domain.UploadResult{}, fmt.Errorf("ensure bucket: %w", err)
	}

	name := uuid.NewString() + "." + imageExtension(blob.ContentType)
	if err := a.objects.Put(ctx, name, blob.Data, blob.Size, blob.ContentType); err != nil {
		return domain.UploadResult{}, fmt.Errorf("upload object: %w", err)
	}

	return domain.UploadResult{
		URL:         a.objects.PublicURL(name),
		Name:        name,
		ContentType: blob.ContentType,
		Size:        blob.Size,
	}, nil
}

// imageExtension derives a file extension from the media type subtype,
// e.g. "image/png" -> "png". Unknown shapes fall back to "bin".
func imageExtension(contentType string) string {
	_, subtype, found := strings.Cut(contentType, "/")
	if !found || subtype == "" {
		return "bin"
	}
	return subtype
}
