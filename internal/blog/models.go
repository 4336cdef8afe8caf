package blog

import (
	"time"

	"github.com/lib/pq"
)

// Edit proposal lifecycle. PENDING is the only non-terminal status;
// ACCEPTED and REJECTED never transition again.
const (
	StatusPending  = "PENDING"
	StatusAccepted = "ACCEPTED"
	StatusRejected = "REJECTED"
)

type Post struct {
	ID        int64          `gorm:"primaryKey" json:"id"`
	AuthorID  int64          `gorm:"not null;index" json:"author_id"`
	Title     string         `json:"title"`
	Slug      string         `gorm:"uniqueIndex" json:"slug"`
	Content   string         `json:"content"`
	Tags      pq.StringArray `gorm:"type:text[]" json:"tags"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

type Edit struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	EditorID   int64     `gorm:"not null;index" json:"editor_id"`
	PostID     int64     `gorm:"not null;index" json:"post_id"`
	NewContent string    `json:"new_content"`
	Status     string    `gorm:"not null;default:'PENDING'" json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Post) TableName() string { return "blog.posts" }
func (Edit) TableName() string { return "blog.edits" }
