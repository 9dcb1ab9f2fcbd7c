package ledger

import (
	"testing"
	"time"

	"github.com/nyomangedewisaya/expense-tracker/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSoftDeleteCategory_RejectedWhileReferenced(t *testing.T) {
	svc, db := newTestService(t)
	user := seedUser(t, db)
	wallet := seedWallet(t, db, user.ID, "Main", 1_000_000)
	food := seedCategory(t, db, user.ID, "Food", models.CategoryTypeExpense)

	trx, err := svc.CreateTransaction(user.ID, TransactionInput{
		WalletID: wallet.ID, CategoryID: food.ID, Amount: 30_000, Date: day(2025, time.August, 1),
	})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.SoftDeleteCategory(user.ID, food.ID), ErrCategoryInUse)

	// once the referencing transaction is itself reversed, trashing succeeds
	require.NoError(t, svc.ReverseTransaction(user.ID, trx.ID))
	require.NoError(t, svc.SoftDeleteCategory(user.ID, food.ID))
}

func TestSoftDeleteCategory_NotFound(t *testing.T) {
	svc, db := newTestService(t)
	user := seedUser(t, db)

	assert.ErrorIs(t, svc.SoftDeleteCategory(user.ID, 9999), ErrCategoryNotFound)
}

func TestRestoreCategory(t *testing.T) {
	svc, db := newTestService(t)
	user := seedUser(t, db)
	food := seedCategory(t, db, user.ID, "Food", models.CategoryTypeExpense)

	require.NoError(t, svc.SoftDeleteCategory(user.ID, food.ID))
	require.NoError(t, svc.RestoreCategory(user.ID, food.ID))

	var category models.Category
	require.NoError(t, db.First(&category, food.ID).Error)
	assert.False(t, category.DeletedAt.Valid)

	// restoring an active category is a no-op failure
	assert.ErrorIs(t, svc.RestoreCategory(user.ID, food.ID), ErrCategoryNotFound)
}

func TestPermanentDelete_RequiresTrash(t *testing.T) {
	svc, db := newTestService(t)
	user := seedUser(t, db)
	food := seedCategory(t, db, user.ID, "Food", models.CategoryTypeExpense)

	assert.ErrorIs(t, svc.PermanentlyDeleteCategory(user.ID, food.ID), ErrCategoryNotTrashed)
}

func TestPermanentDelete_DetachesReversedHistory(t *testing.T) {
	svc, db := newTestService(t)
	user := seedUser(t, db)
	wallet := seedWallet(t, db, user.ID, "Main", 1_000_000)
	food := seedCategory(t, db, user.ID, "Food", models.CategoryTypeExpense)

	trx, err := svc.CreateTransaction(user.ID, TransactionInput{
		WalletID: wallet.ID, CategoryID: food.ID, Amount: 30_000, Date: day(2025, time.August, 1),
	})
	require.NoError(t, err)
	require.NoError(t, svc.ReverseTransaction(user.ID, trx.ID))
	require.NoError(t, svc.SoftDeleteCategory(user.ID, food.ID))

	require.NoError(t, svc.PermanentlyDeleteCategory(user.ID, food.ID))

	// the category row is gone for real
	var count int64
	require.NoError(t, db.Unscoped().Model(&models.Category{}).Where("id = ?", food.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)

	// the reversed transaction survives, with its reference nullified
	var orphan models.Transaction
	require.NoError(t, db.Unscoped().First(&orphan, trx.ID).Error)
	assert.Nil(t, orphan.CategoryID)
}

func TestPermanentDelete_BlockedByBudget(t *testing.T) {
	svc, db := newTestService(t)
	user := seedUser(t, db)
	food := seedCategory(t, db, user.ID, "Food", models.CategoryTypeExpense)

	budget, err := svc.CreateBudget(user.ID, BudgetInput{
		CategoryID: food.ID, Amount: 100_000,
		StartDate: day(2025, time.January, 1), EndDate: day(2025, time.January, 31),
	})
	require.NoError(t, err)
	require.NoError(t, svc.SoftDeleteCategory(user.ID, food.ID))

	assert.ErrorIs(t, svc.PermanentlyDeleteCategory(user.ID, food.ID), ErrCategoryHasBudgets)

	// a reversed budget keeps blocking: budgets are never hard-deleted, so the
	// category they point at has to stay
	require.NoError(t, svc.ReverseBudget(user.ID, budget.ID))
	assert.ErrorIs(t, svc.PermanentlyDeleteCategory(user.ID, food.ID), ErrCategoryHasBudgets)

	var budgets int64
	require.NoError(t, db.Unscoped().Model(&models.Budget{}).Where("category_id = ?", food.ID).Count(&budgets).Error)
	assert.Equal(t, int64(1), budgets)
}

func TestRestoreTransaction_DetachedStaysReversed(t *testing.T) {
	svc, db := newTestService(t)
	user := seedUser(t, db)
	wallet := seedWallet(t, db, user.ID, "Main", 100_000)
	food := seedCategory(t, db, user.ID, "Food", models.CategoryTypeExpense)

	trx, err := svc.CreateTransaction(user.ID, TransactionInput{
		WalletID: wallet.ID, CategoryID: food.ID, Amount: 30_000, Date: day(2025, time.August, 1),
	})
	require.NoError(t, err)
	require.NoError(t, svc.ReverseTransaction(user.ID, trx.ID))
	require.NoError(t, svc.SoftDeleteCategory(user.ID, food.ID))
	require.NoError(t, svc.PermanentlyDeleteCategory(user.ID, food.ID))

	// without a category the event has no income/expense sign, so a restored
	// copy would be invisible to the derivation
	assert.ErrorIs(t, svc.RestoreTransaction(user.ID, trx.ID), ErrTransactionDetached)

	var orphan models.Transaction
	require.NoError(t, db.Unscoped().First(&orphan, trx.ID).Error)
	assert.True(t, orphan.DeletedAt.Valid)

	balance, err := svc.CurrentBalance(user.ID, wallet.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(100_000), balance)
}

func TestPermanentDelete_BlockedByRestoredTransaction(t *testing.T) {
	svc, db := newTestService(t)
	user := seedUser(t, db)
	wallet := seedWallet(t, db, user.ID, "Main", 1_000_000)
	food := seedCategory(t, db, user.ID, "Food", models.CategoryTypeExpense)

	trx, err := svc.CreateTransaction(user.ID, TransactionInput{
		WalletID: wallet.ID, CategoryID: food.ID, Amount: 30_000, Date: day(2025, time.August, 1),
	})
	require.NoError(t, err)
	require.NoError(t, svc.ReverseTransaction(user.ID, trx.ID))
	require.NoError(t, svc.SoftDeleteCategory(user.ID, food.ID))

	// a transaction restored after trashing blocks permanent deletion
	require.NoError(t, svc.RestoreTransaction(user.ID, trx.ID))
	assert.ErrorIs(t, svc.PermanentlyDeleteCategory(user.ID, food.ID), ErrCategoryInUse)
}
