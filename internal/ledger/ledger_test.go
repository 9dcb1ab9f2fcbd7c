package ledger

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/nyomangedewisaya/expense-tracker/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestService opens a throwaway SQLite database and migrates the schema.
// A single connection keeps SQLite happy under the concurrency tests.
func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Wallet{},
		&models.Category{},
		&models.Transaction{},
		&models.Transfer{},
		&models.Budget{},
	))

	return NewService(db), db
}

func seedUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{Name: "Budi Santoso", Email: "budi@example.com", Password: "x"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedWallet(t *testing.T, db *gorm.DB, userID uint, name string, initial int64) *models.Wallet {
	t.Helper()
	wallet := &models.Wallet{UserID: userID, Name: name, Type: models.WalletTypeBank, InitialBalance: initial}
	require.NoError(t, db.Create(wallet).Error)
	return wallet
}

func seedCategory(t *testing.T, db *gorm.DB, userID uint, name, categoryType string) *models.Category {
	t.Helper()
	category := &models.Category{UserID: userID, Name: name, Type: categoryType, Color: "#10B981"}
	require.NoError(t, db.Create(category).Error)
	return category
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
