package auth

import "time"

type Author struct {
	ID           int64   `gorm:"primaryKey" json:"id"`
	Name         string  `json:"name"`
	Email        string  `gorm:"uniqueIndex;not null" json:"email"`
	Password     string  `gorm:"-" json:"password,omitempty"`
	PasswordHash *string `json:"-"`
	PasswordSalt string  `gorm:"not null" json:"-"`
	TokenSalt    string  `gorm:"not null" json:"-"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Author) TableName() string { return "app_auth.authors" }
