package models

import (
	"time"

	"gorm.io/gorm"
)

// Budget is a spending limit for one expense category over an inclusive date
// window. It stores no running total: spent/remaining/percentage are recomputed
// from matching transactions on every read.
type Budget struct {
	ID         uint      `gorm:"primaryKey"`
	UserID     uint      `gorm:"index;not null"`
	CategoryID uint      `gorm:"index;not null"`
	Amount     int64     `gorm:"not null"`
	StartDate  time.Time `gorm:"not null"`
	EndDate    time.Time `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  gorm.DeletedAt `gorm:"index"`

	User User `gorm:"constraint:OnDelete:CASCADE"`
	// RESTRICT: a category purge must never cascade into budget rows
	Category Category `gorm:"constraint:OnDelete:RESTRICT"`
}
