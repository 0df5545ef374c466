// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents an account in the Clipstream application.
// Password holds the bcrypt hash and is empty for OAuth-only accounts.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"unique;not null" json:"username"`
	Email     string         `gorm:"unique;not null" json:"email"`
	Password  string         `json:"-"`
	Name      string         `json:"name"`
	Avatar    string         `json:"avatar"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Videos    []Video        `gorm:"foreignKey:UserID" json:"videos,omitempty"`
}

// PublicProfile is the owner payload embedded in feed items.
type PublicProfile struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Avatar   string `json:"avatar"`
}

// Public strips private fields for embedding in feed responses.
func (u *User) Public() PublicProfile {
	return PublicProfile{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Name:     u.Name,
		Avatar:   u.Avatar,
	}
}
