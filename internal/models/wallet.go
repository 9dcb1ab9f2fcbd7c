package models

import (
	"time"

	"gorm.io/gorm"
)

// Wallet kinds. Informational only: balance arithmetic never looks at the type.
const (
	WalletTypeBank    = "bank"
	WalletTypeEWallet = "e-wallet"
	WalletTypeCash    = "cash"
)

// Wallet is a named store of funds. InitialBalance is fixed at creation and
// never mutated afterwards; the current balance is always derived from the
// wallet's transaction and transfer history. There is no stored balance column.
type Wallet struct {
	ID             uint   `gorm:"primaryKey"`
	UserID         uint   `gorm:"index;not null"`
	Name           string `gorm:"size:64;not null"`
	Type           string `gorm:"size:16;not null;default:bank"`
	InitialBalance int64  `gorm:"not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      gorm.DeletedAt `gorm:"index"`

	User User `gorm:"constraint:OnDelete:CASCADE"`
}
