package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/unclebandit/campaign-access-backend/internal/model"
)

type ContentRepositoryInterface interface {
	// GetByCampaign returns nil, nil when the campaign has no content yet.
	GetByCampaign(ctx context.Context, campaignID string) (*model.CampaignContent, error)
	// Upsert creates or replaces the content row of c.CampaignID.
	Upsert(ctx context.Context, c *model.CampaignContent) error
}

type ContentRepository struct {
	DB *sql.DB
}

const contentColumns = `id, campaign_id, youtube_url, facebook_url, description, media, created_by,
	created_at, updated_at`

func scanContent(row scanner) (*model.CampaignContent, error) {
	c := &model.CampaignContent{}
	err := row.Scan(&c.ID, &c.CampaignID, &c.YoutubeURL, &c.FacebookURL, &c.Description, &c.Media,
		&c.CreatedBy, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *ContentRepository) GetByCampaign(ctx context.Context, campaignID string) (*model.CampaignContent, error) {
	if !validID(campaignID) {
		return nil, nil
	}
	c, err := scanContent(r.DB.QueryRowContext(ctx,
		`SELECT `+contentColumns+` FROM campaign_contents WHERE campaign_id = $1`, campaignID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get campaign content: %w", err)
	}
	return c, nil
}

func (r *ContentRepository) Upsert(ctx context.Context, c *model.CampaignContent) error {
	if c.Media == nil {
		c.Media = model.MediaItems{}
	}
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO campaign_contents (campaign_id, youtube_url, facebook_url, description, media, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (campaign_id) DO UPDATE SET
			youtube_url = EXCLUDED.youtube_url,
			facebook_url = EXCLUDED.facebook_url,
			description = EXCLUDED.description,
			media = EXCLUDED.media,
			updated_at = NOW()
		RETURNING id, created_by, created_at, updated_at`,
		c.CampaignID, c.YoutubeURL, c.FacebookURL, c.Description, c.Media, c.CreatedBy,
	).Scan(&c.ID, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save campaign content: %w", err)
	}
	return nil
}
