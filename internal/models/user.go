package models

import "time"

// User represents an application user. Every other entity is scoped to its
// owning user; requests from different users never see each other's rows.
type User struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:64;not null"`
	Email     string `gorm:"size:128;uniqueIndex;not null"`
	Password  string `gorm:"size:255;not null"` // bcrypt hash
	CreatedAt time.Time
	UpdatedAt time.Time
}
