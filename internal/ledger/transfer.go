package ledger

import (
	"fmt"
	"time"

	"github.com/nyomangedewisaya/expense-tracker/internal/models"

	"gorm.io/gorm"
)

// TransferInput carries the validated fields of a new transfer.
type TransferInput struct {
	FromWalletID uint
	ToWalletID   uint
	Amount       int64
	Description  string
	Date         time.Time
}

// CreateTransfer moves funds between two wallets of the same user by writing a
// single event. The solvency guard runs against the source wallet only; the
// destination just gains. No stored balance field changes hands: once the row
// commits it is part of both wallets' derivation inputs.
func (s *Service) CreateTransfer(userID uint, in TransferInput) (*models.Transfer, error) {
	if in.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if in.FromWalletID == in.ToWalletID {
		return nil, ErrSameWallet
	}

	from, err := s.findWallet(userID, in.FromWalletID)
	if err != nil {
		return nil, err
	}
	to, err := s.findWallet(userID, in.ToWalletID)
	if err != nil {
		return nil, err
	}

	// only the source is debited, so locking the source alone is enough
	lock := s.lockWallet(from.ID)
	lock.Lock()
	defer lock.Unlock()

	transfer := &models.Transfer{
		UserID:          userID,
		FromWalletID:    from.ID,
		ToWalletID:      to.ID,
		Amount:          in.Amount,
		Description:     in.Description,
		TransactionDate: in.Date,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.authorizeDebit(tx, from, in.Amount); err != nil {
			return err
		}
		if err := tx.Create(transfer).Error; err != nil {
			return fmt.Errorf("create transfer: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return transfer, nil
}

// ReverseTransfer sets the reversal marker. Because a transfer is one fact,
// this undoes both legs at once; there is no partially reversed state.
func (s *Service) ReverseTransfer(userID, id uint) error {
	res := s.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Transfer{})
	if res.Error != nil {
		return fmt.Errorf("reverse transfer: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrTransferNotFound
	}
	return nil
}

// RestoreTransfer clears the reversal marker, re-applying both legs.
func (s *Service) RestoreTransfer(userID, id uint) error {
	res := s.db.Unscoped().Model(&models.Transfer{}).
		Where("id = ? AND user_id = ? AND deleted_at IS NOT NULL", id, userID).
		Update("deleted_at", nil)
	if res.Error != nil {
		return fmt.Errorf("restore transfer: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrTransferNotFound
	}
	return nil
}
