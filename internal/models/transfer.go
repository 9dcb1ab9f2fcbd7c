package models

import (
	"time"

	"gorm.io/gorm"
)

// Transfer moves funds between two wallets of the same user. It is stored as
// one fact, not two transactions, so reversing it undoes both legs atomically:
// the derivation formula subtracts it from the source and adds it to the
// destination, or neither once DeletedAt is set.
type Transfer struct {
	ID              uint      `gorm:"primaryKey"`
	UserID          uint      `gorm:"index;not null"`
	FromWalletID    uint      `gorm:"index;not null"`
	ToWalletID      uint      `gorm:"index;not null"`
	Amount          int64     `gorm:"not null"`
	Description     string    `gorm:"size:255"`
	TransactionDate time.Time `gorm:"index;not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       gorm.DeletedAt `gorm:"index"`

	User       User   `gorm:"constraint:OnDelete:CASCADE"`
	FromWallet Wallet `gorm:"foreignKey:FromWalletID"`
	ToWallet   Wallet `gorm:"foreignKey:ToWalletID"`
}
