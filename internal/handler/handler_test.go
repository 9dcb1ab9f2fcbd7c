package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/nyomangedewisaya/expense-tracker/internal/config"
	"github.com/nyomangedewisaya/expense-tracker/internal/models"
	"github.com/nyomangedewisaya/expense-tracker/internal/router"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

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
		&models.AuditLog{},
	))

	cfg := &config.Config{}
	cfg.Server.Mode = gin.TestMode
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpireHours = 1

	return router.SetupRouter(cfg, db)
}

type envelope struct {
	Code    int                    `json:"code"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data"`
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func registerAndLogin(t *testing.T, r *gin.Engine) string {
	t.Helper()

	w, _ := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "Budi Santoso", "email": "budi@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w, env := doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "budi@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	token, _ := env.Data["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func createWallet(t *testing.T, r *gin.Engine, token, name string, initial int64) uint {
	t.Helper()
	w, env := doJSON(t, r, http.MethodPost, "/api/wallets", token, gin.H{
		"name": name, "type": "bank", "initial_balance": initial,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	wallet := env.Data["wallet"].(map[string]interface{})
	return uint(wallet["id"].(float64))
}

func createCategory(t *testing.T, r *gin.Engine, token, name, categoryType string) uint {
	t.Helper()
	w, env := doJSON(t, r, http.MethodPost, "/api/categories", token, gin.H{
		"name": name, "type": categoryType,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	category := env.Data["category"].(map[string]interface{})
	return uint(category["ID"].(float64))
}

func TestAuthRequired(t *testing.T) {
	r := newTestRouter(t)

	w, _ := doJSON(t, r, http.MethodGet, "/api/wallets", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterLoginFlow(t *testing.T) {
	r := newTestRouter(t)
	token := registerAndLogin(t, r)

	w, env := doJSON(t, r, http.MethodGet, "/api/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	user := env.Data["user"].(map[string]interface{})
	assert.Equal(t, "budi@example.com", user["email"])
}

func TestRegister_DuplicateEmail(t *testing.T) {
	r := newTestRouter(t)
	registerAndLogin(t, r)

	w, env := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "Other", "email": "budi@example.com", "password": "secret123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Message, "already registered")
}

func TestWalletBalanceDerivation(t *testing.T) {
	r := newTestRouter(t)
	token := registerAndLogin(t, r)

	walletID := createWallet(t, r, token, "BCA Utama", 5_000_000)
	salaryID := createCategory(t, r, token, "Salary", "income")
	foodID := createCategory(t, r, token, "Food", "expense")

	w, _ := doJSON(t, r, http.MethodPost, "/api/transactions", token, gin.H{
		"wallet_id": walletID, "category_id": salaryID, "amount": 7_500_000,
		"description": "monthly salary", "transaction_date": "2025-08-25",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w, _ = doJSON(t, r, http.MethodPost, "/api/transactions", token, gin.H{
		"wallet_id": walletID, "category_id": foodID, "amount": 25_000,
		"description": "lunch", "transaction_date": "2025-08-26",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w, env := doJSON(t, r, http.MethodGet, "/api/wallets", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	wallets := env.Data["wallets"].([]interface{})
	require.Len(t, wallets, 1)
	wallet := wallets[0].(map[string]interface{})
	assert.Equal(t, float64(5_000_000+7_500_000-25_000), wallet["current_balance"])
}

func TestInsufficientBalanceEnvelope(t *testing.T) {
	r := newTestRouter(t)
	token := registerAndLogin(t, r)

	walletID := createWallet(t, r, token, "Cash", 10_000)
	foodID := createCategory(t, r, token, "Food", "expense")

	w, env := doJSON(t, r, http.MethodPost, "/api/transactions", token, gin.H{
		"wallet_id": walletID, "category_id": foodID, "amount": 10_001,
		"transaction_date": "2025-08-26",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, env.Message, "remaining: 10000",
		"the rejection must tell the user how much is left")
}

func TestTransferFlow(t *testing.T) {
	r := newTestRouter(t)
	token := registerAndLogin(t, r)

	fromID := createWallet(t, r, token, "Main", 500_000)
	toID := createWallet(t, r, token, "Savings", 0)

	// same wallet is rejected outright
	w, _ := doJSON(t, r, http.MethodPost, "/api/transfers", token, gin.H{
		"from_wallet_id": fromID, "to_wallet_id": fromID, "amount": 100_000,
		"transaction_date": "2025-08-26",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(t, r, http.MethodPost, "/api/transfers", token, gin.H{
		"from_wallet_id": fromID, "to_wallet_id": toID, "amount": 200_000,
		"transaction_date": "2025-08-26",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w, env := doJSON(t, r, http.MethodGet, "/api/wallets", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	wallets := env.Data["wallets"].([]interface{})
	require.Len(t, wallets, 2)

	balances := map[string]float64{}
	for _, item := range wallets {
		wallet := item.(map[string]interface{})
		balances[wallet["name"].(string)] = wallet["current_balance"].(float64)
	}
	assert.Equal(t, float64(300_000), balances["Main"])
	assert.Equal(t, float64(200_000), balances["Savings"])
}

func TestBudgetListWithAccrual(t *testing.T) {
	r := newTestRouter(t)
	token := registerAndLogin(t, r)

	walletID := createWallet(t, r, token, "Main", 1_000_000)
	foodID := createCategory(t, r, token, "Food", "expense")

	w, _ := doJSON(t, r, http.MethodPost, "/api/budgets", token, gin.H{
		"category_id": foodID, "amount": 100_000,
		"start_date": "2025-01-01", "end_date": "2025-01-31",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w, _ = doJSON(t, r, http.MethodPost, "/api/transactions", token, gin.H{
		"wallet_id": walletID, "category_id": foodID, "amount": 30_000,
		"transaction_date": "2025-01-05",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w, env := doJSON(t, r, http.MethodGet, "/api/budgets", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	budgets := env.Data["budgets"].([]interface{})
	require.Len(t, budgets, 1)
	budget := budgets[0].(map[string]interface{})
	assert.Equal(t, float64(30_000), budget["spent"])
	assert.Equal(t, float64(70_000), budget["remaining"])
	assert.Equal(t, float64(30), budget["percentage"])
}

func TestBudgetOnIncomeCategoryRejected(t *testing.T) {
	r := newTestRouter(t)
	token := registerAndLogin(t, r)

	salaryID := createCategory(t, r, token, "Salary", "income")

	w, _ := doJSON(t, r, http.MethodPost, "/api/budgets", token, gin.H{
		"category_id": salaryID, "amount": 100_000,
		"start_date": "2025-01-01", "end_date": "2025-01-31",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCategoryLifecycleOverHTTP(t *testing.T) {
	r := newTestRouter(t)
	token := registerAndLogin(t, r)

	walletID := createWallet(t, r, token, "Main", 1_000_000)
	foodID := createCategory(t, r, token, "Food", "expense")

	w, env := doJSON(t, r, http.MethodPost, "/api/transactions", token, gin.H{
		"wallet_id": walletID, "category_id": foodID, "amount": 30_000,
		"transaction_date": "2025-08-01",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	trx := env.Data["transaction"].(map[string]interface{})
	trxID := uint(trx["ID"].(float64))

	// delete is blocked while the live transaction references the category
	w, _ = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/categories/%d", foodID), token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	// reverse the transaction, then the category can be trashed
	w, _ = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/transactions/%d", trxID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/categories/%d", foodID), token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = doJSON(t, r, http.MethodGet, "/api/categories/trash", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	trashed := env.Data["categories"].([]interface{})
	assert.Len(t, trashed, 1)
}

func doRaw(t *testing.T, r *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestExportCSV(t *testing.T) {
	r := newTestRouter(t)
	token := registerAndLogin(t, r)

	walletID := createWallet(t, r, token, "Main", 1_000_000)
	foodID := createCategory(t, r, token, "Food", "expense")

	w, _ := doJSON(t, r, http.MethodPost, "/api/transactions", token, gin.H{
		"wallet_id": walletID, "category_id": foodID, "amount": 25_000,
		"description": "lunch", "transaction_date": "2025-08-26",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	resp := doRaw(t, r, http.MethodGet, "/api/export/csv", token)
	require.Equal(t, http.StatusOK, resp.Code)

	body := resp.Body.Bytes()
	assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, body[:3], "spreadsheet apps need the BOM")
	assert.Contains(t, string(body), "Date,Type,Category,Wallet,Amount,Description")
	assert.Contains(t, string(body), "2025-08-26,expense,Food,Main,25000,lunch")
}

func TestExportXLSX_SingleSheet(t *testing.T) {
	r := newTestRouter(t)
	token := registerAndLogin(t, r)

	walletID := createWallet(t, r, token, "Main", 1_000_000)
	foodID := createCategory(t, r, token, "Food", "expense")

	w, _ := doJSON(t, r, http.MethodPost, "/api/transactions", token, gin.H{
		"wallet_id": walletID, "category_id": foodID, "amount": 25_000,
		"transaction_date": "2025-08-26",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	resp := doRaw(t, r, http.MethodGet, "/api/export/xlsx", token)
	require.Equal(t, http.StatusOK, resp.Code)

	f, err := excelize.OpenReader(bytes.NewReader(resp.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Transactions"}, f.GetSheetList())

	header, err := f.GetCellValue("Transactions", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Date", header)
}

func TestDashboardSummary(t *testing.T) {
	r := newTestRouter(t)
	token := registerAndLogin(t, r)

	createWallet(t, r, token, "Main", 250_000)
	createWallet(t, r, token, "Savings", 750_000)

	w, env := doJSON(t, r, http.MethodGet, "/api/dashboard", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1_000_000), env.Data["total_balance"])
}
