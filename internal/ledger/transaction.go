package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/nyomangedewisaya/expense-tracker/internal/models"

	"gorm.io/gorm"
)

// TransactionInput carries the validated fields of a new transaction.
type TransactionInput struct {
	WalletID    uint
	CategoryID  uint
	Amount      int64
	Description string
	Date        time.Time
}

// CreateTransaction validates the movement, runs the solvency guard when the
// category is expense-typed and persists the event. The wallet lock is held
// across the whole derive-check-insert sequence so concurrent debits against
// the same wallet serialize: of two simultaneous full-balance expenses exactly
// one commits.
func (s *Service) CreateTransaction(userID uint, in TransactionInput) (*models.Transaction, error) {
	if in.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	wallet, err := s.findWallet(userID, in.WalletID)
	if err != nil {
		return nil, err
	}

	// a trashed category is hidden from pickers and rejected here too
	var category models.Category
	if err := s.db.Where("id = ? AND user_id = ?", in.CategoryID, userID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("load category: %w", err)
	}

	lock := s.lockWallet(wallet.ID)
	lock.Lock()
	defer lock.Unlock()

	trx := &models.Transaction{
		UserID:          userID,
		WalletID:        wallet.ID,
		CategoryID:      &category.ID,
		Amount:          in.Amount,
		Description:     in.Description,
		TransactionDate: in.Date,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if category.Type == models.CategoryTypeExpense {
			if err := s.authorizeDebit(tx, wallet, in.Amount); err != nil {
				return err
			}
		}
		if err := tx.Create(trx).Error; err != nil {
			return fmt.Errorf("create transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return trx, nil
}

// ReverseTransaction sets the reversal marker. The row stays in the table;
// derivations simply stop counting it.
func (s *Service) ReverseTransaction(userID, id uint) error {
	res := s.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Transaction{})
	if res.Error != nil {
		return fmt.Errorf("reverse transaction: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

// RestoreTransaction clears the reversal marker so the event counts again.
// Restores never re-run the solvency guard: reverse-then-restore must return
// every derived balance to its pre-reversal value. A transaction whose
// category was purged stays reversed; restored, it would be a live event the
// derivation cannot attribute to income or expense.
func (s *Service) RestoreTransaction(userID, id uint) error {
	var trx models.Transaction
	if err := s.db.Unscoped().
		Where("id = ? AND user_id = ? AND deleted_at IS NOT NULL", id, userID).
		First(&trx).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTransactionNotFound
		}
		return fmt.Errorf("load reversed transaction: %w", err)
	}
	if trx.CategoryID == nil {
		return ErrTransactionDetached
	}

	res := s.db.Unscoped().Model(&models.Transaction{}).
		Where("id = ?", trx.ID).
		Update("deleted_at", nil)
	if res.Error != nil {
		return fmt.Errorf("restore transaction: %w", res.Error)
	}
	return nil
}
