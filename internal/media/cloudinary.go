package media

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/unclebandit/campaign-access-backend/internal/config"
)

// CloudinaryStore keeps media in one Cloudinary folder.
type CloudinaryStore struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryStore(cfg config.CloudinaryConfig) (*CloudinaryStore, error) {
	if !cfg.Configured() {
		return nil, errors.New("cloudinary credentials are incomplete")
	}
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary client: %w", err)
	}
	cld.Config.URL.Secure = true
	return &CloudinaryStore{cld: cld, folder: cfg.Folder}, nil
}

func (s *CloudinaryStore) Upload(ctx context.Context, r io.Reader, in UploadInput) (UploadResult, error) {
	res, err := s.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		Folder:         s.folder,
		ResourceType:   in.ResourceType,
		UseFilename:    api.Bool(true),
		UniqueFilename: api.Bool(true),
	})
	if err != nil {
		return UploadResult{}, fmt.Errorf("upload %s: %w", in.Filename, err)
	}
	if res.Error.Message != "" {
		return UploadResult{}, fmt.Errorf("upload %s: %s", in.Filename, res.Error.Message)
	}
	return UploadResult{URL: res.SecureURL, PublicID: res.PublicID, Bytes: int64(res.Bytes)}, nil
}

func (s *CloudinaryStore) Destroy(ctx context.Context, publicID, resourceType string) error {
	res, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: resourceType,
	})
	if err != nil {
		return fmt.Errorf("destroy %s: %w", publicID, err)
	}
	if res.Error.Message != "" {
		return fmt.Errorf("destroy %s: %s", publicID, res.Error.Message)
	}
	return nil
}
