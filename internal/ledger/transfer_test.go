package ledger

import (
	"errors"
	"testing"
	"time"

	"github.com/nyomangedewisaya/expense-tracker/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTransfer_MovesFunds(t *testing.T) {
	svc, db := newTestService(t)
	user := seedUser(t, db)
	from := seedWallet(t, db, user.ID, "Main", 500_000)
	to := seedWallet(t, db, user.ID, "Savings", 0)

	transfer, err := svc.CreateTransfer(user.ID, TransferInput{
		FromWalletID: from.ID, ToWalletID: to.ID, Amount: 200_000, Date: day(2025, time.August, 1),
	})
	require.NoError(t, err)
	require.NotZero(t, transfer.ID)

	fromBalance, err := svc.CurrentBalance(user.ID, from.ID)
	require.NoError(t, err)
	toBalance, err := svc.CurrentBalance(user.ID, to.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(300_000), fromBalance)
	assert.Equal(t, int64(200_000), toBalance)
}

func TestCreateTransfer_SameWalletRejected(t *testing.T) {
	svc, db := newTestService(t)
	user := seedUser(t, db)
	wallet := seedWallet(t, db, user.ID, "Main", 500_000)

	_, err := svc.CreateTransfer(user.ID, TransferInput{
		FromWalletID: wallet.ID, ToWalletID: wallet.ID, Amount: 100_000, Date: day(2025, time.August, 1),
	})
	assert.ErrorIs(t, err, ErrSameWallet)

	var count int64
	require.NoError(t, db.Model(&models.Transfer{}).Count(&count).Error)
	assert.Equal(t, int64(0), count, "a rejected transfer must write nothing")
}

func TestCreateTransfer_InsufficientSourceRejected(t *testing.T) {
	svc, db := newTestService(t)
	user := seedUser(t, db)
	from := seedWallet(t, db, user.ID, "Main", 50_000)
	to := seedWallet(t, db, user.ID, "Savings", 0)

	_, err := svc.CreateTransfer(user.ID, TransferInput{
		FromWalletID: from.ID, ToWalletID: to.ID, Amount: 50_001, Date: day(2025, time.August, 1),
	})

	var insufficient *InsufficientBalanceError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, int64(50_000), insufficient.Remaining)

	var count int64
	require.NoError(t, db.Model(&models.Transfer{}).Count(&count).Error)
	assert.Equal(t, int64(0), count, "a rejected transfer must write nothing")
}

func TestCreateTransfer_ExactBalanceAllowed(t *testing.T) {
	svc, db := newTestService(t)
	user := seedUser(t, db)
	from := seedWallet(t, db, user.ID, "Main", 50_000)
	to := seedWallet(t, db, user.ID, "Savings", 0)

	_, err := svc.CreateTransfer(user.ID, TransferInput{
		FromWalletID: from.ID, ToWalletID: to.ID, Amount: 50_000, Date: day(2025, time.August, 1),
	})
	require.NoError(t, err)

	balance, err := svc.CurrentBalance(user.ID, from.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance)
}

func TestCreateTransfer_ForeignWalletRejected(t *testing.T) {
	svc, db := newTestService(t)
	user := seedUser(t, db)
	other := &models.User{Name: "Siti Aminah", Email: "siti@example.com", Password: "x"}
	require.NoError(t, db.Create(other).Error)

	mine := seedWallet(t, db, user.ID, "Main", 500_000)
	hers := seedWallet(t, db, other.ID, "Hers", 0)

	_, err := svc.CreateTransfer(user.ID, TransferInput{
		FromWalletID: mine.ID, ToWalletID: hers.ID, Amount: 100_000, Date: day(2025, time.August, 1),
	})
	assert.ErrorIs(t, err, ErrWalletNotFound)
}

func TestReverseTransfer_UndoesBothLegs(t *testing.T) {
	svc, db := newTestService(t)
	user := seedUser(t, db)
	from := seedWallet(t, db, user.ID, "Main", 500_000)
	to := seedWallet(t, db, user.ID, "Savings", 100_000)

	transfer, err := svc.CreateTransfer(user.ID, TransferInput{
		FromWalletID: from.ID, ToWalletID: to.ID, Amount: 200_000, Date: day(2025, time.August, 1),
	})
	require.NoError(t, err)

	require.NoError(t, svc.ReverseTransfer(user.ID, transfer.ID))

	fromBalance, err := svc.CurrentBalance(user.ID, from.ID)
	require.NoError(t, err)
	toBalance, err := svc.CurrentBalance(user.ID, to.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(500_000), fromBalance)
	assert.Equal(t, int64(100_000), toBalance)

	// restore puts both legs back at once
	require.NoError(t, svc.RestoreTransfer(user.ID, transfer.ID))

	fromBalance, err = svc.CurrentBalance(user.ID, from.ID)
	require.NoError(t, err)
	toBalance, err = svc.CurrentBalance(user.ID, to.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(300_000), fromBalance)
	assert.Equal(t, int64(300_000), toBalance)
}

func TestReverseTransfer_NotFound(t *testing.T) {
	svc, db := newTestService(t)
	user := seedUser(t, db)

	assert.ErrorIs(t, svc.ReverseTransfer(user.ID, 9999), ErrTransferNotFound)
	assert.ErrorIs(t, svc.RestoreTransfer(user.ID, 9999), ErrTransferNotFound)
}
