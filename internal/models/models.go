package models

import (
	"time"
)

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"unique;not null"          json:"username"`
	Email        string `gorm:"unique;not null"          json:"email"`
	FullName     string `json:"full_name"`
	Bio          string `json:"bio,omitempty"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Role         string `gorm:"not null;default:reader"  json:"role"`
}

// RefreshToken holds the single currently valid refresh credential for a
// subject. The unique user_id index makes "one valid token per subject" a
// schema property rather than a convention.
type RefreshToken struct {
	ID        uint      `gorm:"primaryKey"           json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	TokenHash string    `gorm:"not null"             json:"-"`
	JTI       string    `gorm:"not null"             json:"-"`
	ExpiresAt time.Time `gorm:"not null"             json:"expires_at"`
}

type Blog struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Permalink     string    `gorm:"unique;not null"          json:"permalink"`
	Title         string    `gorm:"not null"                 json:"title"`
	Content       string    `gorm:"not null"                 json:"content"`
	Tags          string    `json:"tags,omitempty"`
	FeatureImage  string    `json:"feature_image,omitempty"`
	ContentImages string    `json:"content_images,omitempty"`
	Views         uint      `gorm:"default:0"                json:"views"`
	Status        string    `gorm:"not null;default:pending" json:"status"`
	IsPublished   bool      `gorm:"default:true"             json:"is_published"`
	CategoryID    uint      `gorm:"index"                    json:"category_id"`
	AuthorID      uint      `gorm:"index;not null"           json:"author_id"`
	Version       uint      `gorm:"not null;default:1"       json:"version"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type Category struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"unique;not null"          json:"name"`
	Permalink   string    `gorm:"unique;not null"          json:"permalink"`
	Description string    `gorm:"not null"                 json:"description"`
	Image       string    `json:"image,omitempty"`
	Status      string    `gorm:"not null;default:pending" json:"status"`
	AuthorID    uint      `gorm:"index;not null"           json:"author_id"`
	Version     uint      `gorm:"not null;default:1"       json:"version"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Comment struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	BlogID    uint      `gorm:"index;not null"           json:"blog_id"`
	AuthorID  uint      `gorm:"index;not null"           json:"author_id"`
	Content   string    `gorm:"not null"                 json:"content"`
	Status    string    `gorm:"not null;default:pending" json:"status"`
	Version   uint      `gorm:"not null;default:1"       json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Like struct {
	ID           uint `gorm:"primaryKey;autoIncrement" json:"id"`
	BlogID       uint `gorm:"index"                    json:"blog_id,omitempty"`
	CommentID    uint `gorm:"index"                    json:"comment_id,omitempty"`
	BlogAuthorID uint `gorm:"index"                    json:"blog_author_id,omitempty"`
	LikedByID    uint `gorm:"index;not null"           json:"liked_by_id"`
}
