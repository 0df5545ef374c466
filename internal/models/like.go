package models

import (
	"time"
)

// Like records that a user liked a video. The composite unique index on
// (user_id, video_id) is the authoritative guard against duplicate likes;
// the ledger never relies on a read-before-write check.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_video" json:"user_id"`
	VideoID   uint      `gorm:"not null;uniqueIndex:idx_user_video" json:"video_id"`
	CreatedAt time.Time `json:"created_at"`

	User  User  `gorm:"foreignKey:UserID" json:"-"`
	Video Video `gorm:"foreignKey:VideoID" json:"-"`
}

// TableName specifies the table name for GORM
func (Like) TableName() string {
	return "likes"
}
