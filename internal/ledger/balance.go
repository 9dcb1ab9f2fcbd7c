package ledger

import (
	"errors"
	"fmt"

	"github.com/nyomangedewisaya/expense-tracker/internal/models"

	"gorm.io/gorm"
)

// CurrentBalance derives the wallet's balance from its full event history:
//
//	initial_balance + income − expense + transfer-in − transfer-out
//
// counting non-reversed rows only. It is a pure read; calling it twice against
// the same store contents yields the same number.
func (s *Service) CurrentBalance(userID, walletID uint) (int64, error) {
	wallet, err := s.findWallet(userID, walletID)
	if err != nil {
		return 0, err
	}
	return s.deriveBalance(s.db, wallet)
}

// findWallet loads a live wallet owned by the user.
func (s *Service) findWallet(userID, walletID uint) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := s.db.Where("id = ? AND user_id = ?", walletID, userID).First(&wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("load wallet: %w", err)
	}
	return &wallet, nil
}

// deriveBalance runs the four partition sums against tx. gorm's soft-delete
// scope keeps reversed rows out of every sum; the category join deliberately
// skips that scope so trashed categories still count for their history.
func (s *Service) deriveBalance(tx *gorm.DB, wallet *models.Wallet) (int64, error) {
	income, err := s.sumTransactions(tx, wallet.ID, models.CategoryTypeIncome)
	if err != nil {
		return 0, err
	}
	expense, err := s.sumTransactions(tx, wallet.ID, models.CategoryTypeExpense)
	if err != nil {
		return 0, err
	}

	var transferIn, transferOut int64
	if err := tx.Model(&models.Transfer{}).
		Where("to_wallet_id = ?", wallet.ID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&transferIn).Error; err != nil {
		return 0, fmt.Errorf("sum transfers in: %w", err)
	}
	if err := tx.Model(&models.Transfer{}).
		Where("from_wallet_id = ?", wallet.ID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&transferOut).Error; err != nil {
		return 0, fmt.Errorf("sum transfers out: %w", err)
	}

	return wallet.InitialBalance + income - expense + transferIn - transferOut, nil
}

func (s *Service) sumTransactions(tx *gorm.DB, walletID uint, categoryType string) (int64, error) {
	var total int64
	err := tx.Model(&models.Transaction{}).
		Joins("JOIN categories ON categories.id = transactions.category_id").
		Where("transactions.wallet_id = ? AND categories.type = ?", walletID, categoryType).
		Select("COALESCE(SUM(transactions.amount), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("sum %s transactions: %w", categoryType, err)
	}
	return total, nil
}

// authorizeDebit is the solvency guard: it re-derives the wallet balance at
// decision time and rejects any debit exceeding it. A debit equal to the
// balance passes; a wallet may reach exactly zero. Callers must hold the
// wallet lock so the decision stays valid until the event is persisted.
func (s *Service) authorizeDebit(tx *gorm.DB, wallet *models.Wallet, amount int64) error {
	balance, err := s.deriveBalance(tx, wallet)
	if err != nil {
		return err
	}
	if amount > balance {
		return &InsufficientBalanceError{WalletID: wallet.ID, Remaining: balance}
	}
	return nil
}
