package models

import (
	"time"

	"gorm.io/gorm"
)

// Transaction is an immutable, dated money movement against a single wallet.
// Amounts are plain positive integers in the smallest display unit. The only
// field that ever changes after creation is DeletedAt, the reversal marker:
// a reversed transaction stays in the table but no derivation counts it.
//
// CategoryID is nullable so that permanently deleting a category can detach
// its reversed history instead of leaving dangling references.
type Transaction struct {
	ID              uint      `gorm:"primaryKey"`
	UserID          uint      `gorm:"index;not null"`
	WalletID        uint      `gorm:"index;not null"`
	CategoryID      *uint     `gorm:"index"`
	Amount          int64     `gorm:"not null"`
	Description     string    `gorm:"size:255"`
	TransactionDate time.Time `gorm:"index;not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       gorm.DeletedAt `gorm:"index"`

	User     User      `gorm:"constraint:OnDelete:CASCADE"`
	Wallet   Wallet    `gorm:"constraint:OnDelete:CASCADE"`
	Category *Category `gorm:"constraint:OnDelete:SET NULL"`
}
