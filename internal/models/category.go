package models

import (
	"time"

	"gorm.io/gorm"
)

// Category types. The type decides the sign of every transaction referencing
// the category and is immutable after creation.
const (
	CategoryTypeIncome  = "income"
	CategoryTypeExpense = "expense"
)

// Category represents an income/expense category. DeletedAt implements the
// trash state: a trashed category disappears from pickers but transactions
// that historically reference it still count in balance derivation.
type Category struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"index;not null"`
	Name      string `gorm:"size:64;not null"`
	Type      string `gorm:"size:16;index;not null"` // income / expense
	Color     string `gorm:"size:16;default:#cccccc"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	User User `gorm:"constraint:OnDelete:CASCADE"`
}
