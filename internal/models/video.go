package models

import (
	"time"
)

// Video represents an uploaded clip. The row is created only after the
// binary payload is durably stored and URL is known.
type Video struct {
	ID           uint     `gorm:"primaryKey" json:"id"`
	UserID       uint     `gorm:"not null;index" json:"user_id"`
	User         User     `gorm:"foreignKey:UserID" json:"user"`
	URL          string   `gorm:"not null" json:"url"`
	Title        string   `json:"title"`
	Description  string   `gorm:"type:text" json:"description"`
	ThumbnailURL string   `json:"thumbnail_url"`
	Duration     *float64 `json:"duration,omitempty"`
	// LikeCount is the denormalized aggregate of rows in likes; it is
	// mutated only inside the like ledger's transactions.
	LikeCount int `gorm:"not null;default:0" json:"like_count"`
	// Liked indicates whether the requesting viewer liked this video (computed)
	Liked bool `gorm:"->;-:migration" json:"liked"`
	// CreatedAt is the feed sort key; the index backs keyset pagination.
	CreatedAt time.Time `gorm:"index:idx_videos_feed,priority:1,sort:desc" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
