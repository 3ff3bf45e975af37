// internal/model/campaign_content.go
package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

const (
	MediaImage = "image"
	MediaVideo = "video"
)

// CampaignContent is the single media/links page attached to a campaign.
type CampaignContent struct {
	ID          string     `db:"id" json:"id"`
	CampaignID  string     `db:"campaign_id" json:"campaign"`
	YoutubeURL  string     `db:"youtube_url" json:"youtubeUrl"`
	FacebookURL string     `db:"facebook_url" json:"facebookUrl"`
	Description string     `db:"description" json:"description"`
	Media       MediaItems `db:"media" json:"media"`
	CreatedBy   *string    `db:"created_by" json:"createdBy,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt"`
}

// MediaItem points at a blob held by the external media host.
type MediaItem struct {
	ID           string    `json:"id"`
	URL          string    `json:"url"`
	PublicID     string    `json:"publicId"`
	Type         string    `json:"type"`
	OriginalName string    `json:"originalName"`
	Size         int64     `json:"size"`
	CreatedAt    time.Time `json:"createdAt"`
}

// LinkUpdate carries optional link fields; nil leaves the stored value alone.
type LinkUpdate struct {
	YoutubeURL  *string `json:"youtubeUrl"`
	FacebookURL *string `json:"facebookUrl"`
	Description *string `json:"description"`
}

func (u LinkUpdate) ApplyTo(c *CampaignContent) {
	if u.YoutubeURL != nil {
		c.YoutubeURL = *u.YoutubeURL
	}
	if u.FacebookURL != nil {
		c.FacebookURL = *u.FacebookURL
	}
	if u.Description != nil {
		c.Description = *u.Description
	}
}

// RemoveMedia drops the item with the given id and returns it.
func (c *CampaignContent) RemoveMedia(id string) (MediaItem, bool) {
	for i, m := range c.Media {
		if m.ID == id {
			c.Media = append(c.Media[:i:i], c.Media[i+1:]...)
			return m, true
		}
	}
	return MediaItem{}, false
}

type MediaItems []MediaItem

func (m MediaItems) Value() (driver.Value, error) {
	if m == nil {
		return "[]", nil
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

func (m *MediaItems) Scan(src any) error {
	var raw []byte
	switch s := src.(type) {
	case nil:
		*m = MediaItems{}
		return nil
	case []byte:
		raw = s
	case string:
		raw = []byte(s)
	default:
		return fmt.Errorf("media items: unsupported type %T", src)
	}
	out := MediaItems{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("media items: %w", err)
	}
	*m = out
	return nil
}
