// Package media stores uploaded campaign files with an external blob host.
package media

import (
	"context"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	appErrors "github.com/unclebandit/campaign-access-backend/internal/errors"
	"github.com/unclebandit/campaign-access-backend/internal/model"
)

type UploadInput struct {
	Filename     string
	ResourceType string
}

type UploadResult struct {
	URL      string
	PublicID string
	Bytes    int64
}

// BlobStore is the external media host.
type BlobStore interface {
	Upload(ctx context.Context, r io.Reader, in UploadInput) (UploadResult, error)
	Destroy(ctx context.Context, publicID, resourceType string) error
}

var allowedTypes = map[string]string{
	"image/jpeg":      model.MediaImage,
	"image/jpg":       model.MediaImage,
	"image/png":       model.MediaImage,
	"image/gif":       model.MediaImage,
	"image/webp":      model.MediaImage,
	"video/mp4":       model.MediaVideo,
	"video/mpeg":      model.MediaVideo,
	"video/quicktime": model.MediaVideo,
	"video/x-msvideo": model.MediaVideo,
	"video/webm":      model.MediaVideo,
	"video/x-ms-wmv":  model.MediaVideo,
}

// SniffLen is how many leading bytes Classify needs to detect content.
const SniffLen = 3072

// Classify checks the declared MIME type against the allow-list and against
// the sniffed head of the file, and returns the media kind.
func Classify(declared string, head []byte) (string, error) {
	declared = strings.ToLower(strings.TrimSpace(strings.SplitN(declared, ";", 2)[0]))
	kind, ok := allowedTypes[declared]
	if !ok {
		return "", appErrors.Validation("Invalid file type. Only images and videos are allowed.")
	}
	sniffed := mimetype.Detect(head)
	if family(sniffed.String()) != kind {
		return "", appErrors.Validation("File content does not match its declared type.")
	}
	return kind, nil
}

func family(mime string) string {
	switch {
	case strings.HasPrefix(mime, "image/"):
		return model.MediaImage
	case strings.HasPrefix(mime, "video/"):
		return model.MediaVideo
	}
	return ""
}

// Disabled rejects every operation; used when no blob host is configured.
type Disabled struct{}

func (Disabled) Upload(context.Context, io.Reader, UploadInput) (UploadResult, error) {
	return UploadResult{}, appErrors.New(appErrors.KindUpstream, "Media storage is not configured")
}

func (Disabled) Destroy(context.Context, string, string) error {
	return appErrors.New(appErrors.KindUpstream, "Media storage is not configured")
}
