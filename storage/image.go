package storage

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rpupo63/foodgram-backend/errs"
)

const (
	dataURIPrefix = "data:image/"
	imageDir      = "recipes/images"
)

// ImageDecoder stores inline base64 images and passes other values through
type ImageDecoder struct {
	store Store
}

func NewImageDecoder(store Store) *ImageDecoder {
	return &ImageDecoder{store: store}
}

// Decode accepts "data:image/<ext>;base64,<payload>", stores the payload and
// returns its reference. Any other value is assumed to already be a reference.
func (d *ImageDecoder) Decode(ctx context.Context, value string) (string, error) {
	if !strings.HasPrefix(value, dataURIPrefix) {
		return value, nil
	}

	header, payload, ok := strings.Cut(value, ",")
	if !ok {
		return "", errs.NewValidationError("image", "image data URI has no payload")
	}
	mediaType, encoding, ok := strings.Cut(strings.TrimPrefix(header, "data:"), ";")
	if !ok || encoding != "base64" {
		return "", errs.NewValidationError("image", "image data URI must be base64 encoded")
	}
	ext := strings.TrimPrefix(mediaType, "image/")
	if ext == "" || strings.ContainsAny(ext, "/.\\") {
		return "", errs.NewValidationError("image", "unsupported image type")
	}
	if ext == "jpeg" {
		ext = "jpg"
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil || len(data) == 0 {
		return "", errs.NewValidationError("image", "image payload is not valid base64")
	}

	key := fmt.Sprintf("%s/%s.%s", imageDir, uuid.NewString(), ext)
	ref, err := d.store.Save(ctx, key, mediaType, data)
	if err != nil {
		return "", errs.NewInternalErrorWithCause("failed to store image", err)
	}
	return ref, nil
}
