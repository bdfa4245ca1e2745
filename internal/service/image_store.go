package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/studorg/portal-api/internal/apperr"
	"github.com/studorg/portal-api/pkg/storage"
)

// maxInlineImageBytes bounds decoded inline uploads at 5 MiB.
const maxInlineImageBytes = 5 << 20

var imageExtensions = map[string]string{
	"image/jpeg":    "jpg",
	"image/png":     "png",
	"image/gif":     "gif",
	"image/webp":    "webp",
	"image/svg+xml": "svg",
}

// s3ImageStore persists inline data URLs to S3-compatible storage.
type s3ImageStore struct {
	client *storage.S3
}

// NewS3ImageStore creates an image store backed by the given S3 client.
func NewS3ImageStore(client *storage.S3) ImageStore {
	return &s3ImageStore{client: client}
}

func (s *s3ImageStore) Persist(ctx context.Context, folder, image string) (string, error) {
	if !strings.HasPrefix(image, "data:") {
		return image, nil
	}

	contentType, data, err := decodeDataURL(image)
	if err != nil {
		return "", err
	}

	ext, ok := imageExtensions[contentType]
	if !ok {
		return "", apperr.BadRequest(fmt.Sprintf("unsupported image type %s", contentType))
	}

	key := fmt.Sprintf("%s/%s.%s", folder, uuid.New().String(), ext)
	url, err := s.client.Put(ctx, key, contentType, data)
	if err != nil {
		return "", apperr.Internal("failed to store image", err)
	}

	return url, nil
}

// disabledImageStore passes plain URLs through and rejects inline payloads.
// Used when no S3 endpoint is configured.
type disabledImageStore struct{}

// NewDisabledImageStore creates an image store that rejects inline uploads.
func NewDisabledImageStore() ImageStore {
	return disabledImageStore{}
}

func (disabledImageStore) Persist(_ context.Context, _, image string) (string, error) {
	if strings.HasPrefix(image, "data:") {
		return "", apperr.BadRequest("inline image uploads are not enabled")
	}
	return image, nil
}

// decodeDataURL splits a data URL of the form data:<type>;base64,<payload>
// into its content type and decoded bytes.
func decodeDataURL(image string) (string, []byte, error) {
	rest := strings.TrimPrefix(image, "data:")
	meta, payload, found := strings.Cut(rest, ",")
	if !found {
		return "", nil, apperr.BadRequest("malformed data url")
	}

	contentType, encoding, _ := strings.Cut(meta, ";")
	if encoding != "base64" {
		return "", nil, apperr.BadRequest("data url must be base64 encoded")
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, apperr.BadRequest("invalid base64 image payload")
	}
	if len(data) > maxInlineImageBytes {
		return "", nil, apperr.BadRequest("image exceeds maximum size of 5MB")
	}

	return contentType, data, nil
}
