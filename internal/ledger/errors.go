package ledger

import (
	"errors"
	"fmt"
)

// Expected error conditions. Handlers map these onto the API error envelope;
// anything else coming out of the ledger is an infrastructure failure and is
// surfaced generically.
var (
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrTransferNotFound    = errors.New("transfer not found")
	ErrBudgetNotFound      = errors.New("budget not found")

	ErrInvalidAmount    = errors.New("amount must be a positive integer")
	ErrInvalidDateRange = errors.New("start date must not be after end date")
	ErrSameWallet       = errors.New("source and destination wallet must differ")

	ErrCategoryInUse       = errors.New("category is referenced by an active transaction")
	ErrCategoryHasBudgets  = errors.New("category is referenced by a budget")
	ErrCategoryNotTrashed  = errors.New("category must be trashed before permanent deletion")
	ErrBudgetNeedsExpense  = errors.New("budget requires an expense category")
	ErrTransactionDetached = errors.New("transaction lost its category and cannot be restored")
)

// InsufficientBalanceError rejects a debit that would overdraw a wallet. It
// carries the balance derived at decision time so the caller can tell the user
// how much is actually left.
type InsufficientBalanceError struct {
	WalletID  uint
	Remaining int64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance on wallet %d: remaining %d", e.WalletID, e.Remaining)
}
