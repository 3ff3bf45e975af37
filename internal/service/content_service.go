package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/unclebandit/campaign-access-backend/internal/access"
	appErrors "github.com/unclebandit/campaign-access-backend/internal/errors"
	"github.com/unclebandit/campaign-access-backend/internal/media"
	"github.com/unclebandit/campaign-access-backend/internal/model"
	"github.com/unclebandit/campaign-access-backend/internal/repository"
	"github.com/unclebandit/campaign-access-backend/internal/validate"
)

const (
	mediaFormField   = "media"
	maxTextPartBytes = 64 << 10
)

type ContentService struct {
	ContentRepo  repository.ContentRepositoryInterface
	CampaignRepo repository.CampaignRepositoryInterface
	Store        media.BlobStore
	MaxFileBytes int64
	MaxFiles     int
	Events       Emitter
	Logger       *slog.Logger
}

var errFileTooLarge = errors.New("file exceeds size limit")

// limitedReader fails once more than limit bytes have been read.
type limitedReader struct {
	r     io.Reader
	limit int64
	n     int64
}

func (l *limitedReader) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	l.n += int64(n)
	if l.n > l.limit {
		return n, errFileTooLarge
	}
	return n, err
}

func (l *limitedReader) exceeded() bool { return l.n > l.limit }

// Get returns the content page of a campaign, or nil if none exists yet.
func (s *ContentService) Get(ctx context.Context, identity *model.User, campaignID string) (*model.CampaignContent, error) {
	if !access.CanAccessCampaign(identity, campaignID) {
		return nil, appErrors.Forbidden("Access denied to this campaign")
	}
	return s.ContentRepo.GetByCampaign(ctx, campaignID)
}

func validateLinks(u model.LinkUpdate) error {
	deref := func(p *string) string {
		if p == nil {
			return ""
		}
		return *p
	}
	return validate.Struct(struct {
		YoutubeURL  string `json:"youtubeUrl" validate:"omitempty,url"`
		FacebookURL string `json:"facebookUrl" validate:"omitempty,url"`
	}{deref(u.YoutubeURL), deref(u.FacebookURL)})
}

func (s *ContentService) load(ctx context.Context, identity *model.User, campaignID string) (*model.CampaignContent, error) {
	content, err := s.ContentRepo.GetByCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if content == nil {
		createdBy := identity.ID
		content = &model.CampaignContent{CampaignID: campaignID, Media: model.MediaItems{}, CreatedBy: &createdBy}
	}
	return content, nil
}

func (s *ContentService) maxFileBytes() int64 {
	if s.MaxFileBytes > 0 {
		return s.MaxFileBytes
	}
	return 100 << 20
}

func (s *ContentService) maxFiles() int {
	if s.MaxFiles > 0 {
		return s.MaxFiles
	}
	return 20
}

// SaveUploads streams every media part of mr to the blob store and then
// records the uploaded items and any link fields. A failure aborts the batch
// and nothing is persisted; the error carries the items already uploaded.
func (s *ContentService) SaveUploads(ctx context.Context, identity *model.User, campaignID string, mr *multipart.Reader) (*model.CampaignContent, error) {
	if err := requireAdmin(identity); err != nil {
		return nil, err
	}
	if _, err := s.CampaignRepo.GetByID(ctx, campaignID); err != nil {
		return nil, err
	}

	logger := resolveLogger(s.Logger)
	uploaded := []model.MediaItem{}
	var links model.LinkUpdate
	files := 0

	fail := func(err error) error {
		if len(uploaded) == 0 {
			return err
		}
		if appErr, ok := appErrors.As(err); ok {
			return &appErrors.Error{Kind: appErr.Kind, Message: appErr.Message, Cause: err, Data: map[string]any{"uploaded": uploaded}}
		}
		return &appErrors.Error{Kind: appErrors.KindInternal, Message: "Error saving content", Cause: err, Data: map[string]any{"uploaded": uploaded}}
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fail(appErrors.Wrap(appErrors.KindValidation, "Malformed multipart body", err))
		}

		switch {
		case part.FormName() == mediaFormField && part.FileName() != "":
			files++
			if files > s.maxFiles() {
				part.Close()
				return nil, fail(appErrors.Validation(fmt.Sprintf("Too many files. Maximum is %d.", s.maxFiles())))
			}
			item, err := s.uploadPart(ctx, part)
			part.Close()
			if err != nil {
				logger.Warn("media upload failed", "campaign_id", campaignID, "file", part.FileName(), "error", err)
				return nil, fail(err)
			}
			uploaded = append(uploaded, item)

		case part.FormName() == "youtubeUrl", part.FormName() == "facebookUrl", part.FormName() == "description":
			raw, err := io.ReadAll(io.LimitReader(part, maxTextPartBytes))
			part.Close()
			if err != nil {
				return nil, fail(appErrors.Wrap(appErrors.KindValidation, "Malformed multipart body", err))
			}
			value := strings.TrimSpace(string(raw))
			switch part.FormName() {
			case "youtubeUrl":
				links.YoutubeURL = &value
			case "facebookUrl":
				links.FacebookURL = &value
			default:
				links.Description = &value
			}

		default:
			part.Close()
		}
	}

	if err := validateLinks(links); err != nil {
		return nil, fail(err)
	}

	content, err := s.load(ctx, identity, campaignID)
	if err != nil {
		return nil, fail(err)
	}
	links.ApplyTo(content)
	content.Media = append(content.Media, uploaded...)
	if err := s.ContentRepo.Upsert(ctx, content); err != nil {
		return nil, fail(err)
	}

	logger.Info("content saved", "campaign_id", campaignID, "uploaded", len(uploaded))
	emit(ctx, s.Events, model.ActivityContentSaved, identity, campaignID, map[string]any{"uploaded": len(uploaded)})
	return content, nil
}

func (s *ContentService) uploadPart(ctx context.Context, part *multipart.Part) (model.MediaItem, error) {
	limit := s.maxFileBytes()
	tooLarge := appErrors.Validation(fmt.Sprintf("File too large. Maximum size is %dMB.", limit>>20))

	head := make([]byte, media.SniffLen)
	n, err := io.ReadFull(part, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return model.MediaItem{}, appErrors.Wrap(appErrors.KindValidation, "Malformed multipart body", err)
	}
	head = head[:n]

	kind, err := media.Classify(part.Header.Get("Content-Type"), head)
	if err != nil {
		return model.MediaItem{}, err
	}

	body := &limitedReader{r: io.MultiReader(bytes.NewReader(head), part), limit: limit}
	res, err := s.Store.Upload(ctx, body, media.UploadInput{Filename: part.FileName(), ResourceType: kind})
	if body.exceeded() {
		return model.MediaItem{}, tooLarge
	}
	if err != nil {
		if _, ok := appErrors.As(err); ok {
			return model.MediaItem{}, err
		}
		return model.MediaItem{}, appErrors.Wrap(appErrors.KindUpstream,
			fmt.Sprintf("Media upload failed for %s", part.FileName()), err)
	}

	return model.MediaItem{
		ID:           uuid.NewString(),
		URL:          res.URL,
		PublicID:     res.PublicID,
		Type:         kind,
		OriginalName: part.FileName(),
		Size:         body.n,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// UpdateLinks upserts the provided link fields.
func (s *ContentService) UpdateLinks(ctx context.Context, identity *model.User, campaignID string, in model.LinkUpdate) (*model.CampaignContent, error) {
	if err := requireAdmin(identity); err != nil {
		return nil, err
	}
	if err := validateLinks(in); err != nil {
		return nil, err
	}
	if _, err := s.CampaignRepo.GetByID(ctx, campaignID); err != nil {
		return nil, err
	}
	content, err := s.load(ctx, identity, campaignID)
	if err != nil {
		return nil, err
	}
	in.ApplyTo(content)
	if err := s.ContentRepo.Upsert(ctx, content); err != nil {
		return nil, err
	}
	emit(ctx, s.Events, model.ActivityLinksUpdated, identity, campaignID, nil)
	return content, nil
}

// DeleteMedia removes one item. A failed remote delete is only logged.
func (s *ContentService) DeleteMedia(ctx context.Context, identity *model.User, campaignID, mediaID string) (*model.CampaignContent, error) {
	if err := requireAdmin(identity); err != nil {
		return nil, err
	}
	content, err := s.ContentRepo.GetByCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if content == nil {
		return nil, appErrors.NotFound("Content not found")
	}
	item, ok := content.RemoveMedia(mediaID)
	if !ok {
		return nil, appErrors.NotFound("Media not found")
	}

	resourceType := model.MediaImage
	if item.Type == model.MediaVideo {
		resourceType = model.MediaVideo
	}
	if err := s.Store.Destroy(ctx, item.PublicID, resourceType); err != nil {
		resolveLogger(s.Logger).Warn("media host delete failed", "public_id", item.PublicID, "error", err)
	}

	if err := s.ContentRepo.Upsert(ctx, content); err != nil {
		return nil, err
	}
	emit(ctx, s.Events, model.ActivityMediaDeleted, identity, campaignID, map[string]any{"media_id": mediaID})
	return content, nil
}
