package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/nyomangedewisaya/expense-tracker/internal/ledger"
	"github.com/nyomangedewisaya/expense-tracker/internal/models"
	"github.com/nyomangedewisaya/expense-tracker/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// TransactionHandler serves transaction listing and the guarded write path.
type TransactionHandler struct {
	DB  *gorm.DB
	Svc *ledger.Service
}

func NewTransactionHandler(db *gorm.DB, svc *ledger.Service) *TransactionHandler {
	return &TransactionHandler{DB: db, Svc: svc}
}

type createTransactionReq struct {
	WalletID        uint   `json:"wallet_id" binding:"required"`
	CategoryID      uint   `json:"category_id" binding:"required"`
	Amount          int64  `json:"amount" binding:"required"`
	Description     string `json:"description" binding:"max=255"`
	TransactionDate string `json:"transaction_date" binding:"required"`
}

// List returns live transactions with wallet and category attached, filtered
// by wallet, category, category type, date range and description search,
// newest first. Trashed categories still show up on their historical rows.
func (h *TransactionHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	q := h.DB.Model(&models.Transaction{}).Where("transactions.user_id = ?", user.ID)

	if idStr := c.Query("wallet_id"); idStr != "" {
		if id, err := strconv.Atoi(idStr); err == nil && id > 0 {
			q = q.Where("transactions.wallet_id = ?", id)
		}
	}
	if idStr := c.Query("category_id"); idStr != "" {
		if id, err := strconv.Atoi(idStr); err == nil && id > 0 {
			q = q.Where("transactions.category_id = ?", id)
		}
	}
	if t := c.Query("type"); t == models.CategoryTypeIncome || t == models.CategoryTypeExpense {
		q = q.Joins("JOIN categories ON categories.id = transactions.category_id").
			Where("categories.type = ?", t)
	}

	startStr, endStr := c.Query("start_date"), c.Query("end_date")
	if startStr != "" && endStr != "" {
		start, err := util.ParseDate(startStr)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid start_date, want YYYY-MM-DD")
			return
		}
		end, err := util.ParseDate(endStr)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid end_date, want YYYY-MM-DD")
			return
		}
		q = q.Where("transactions.transaction_date >= ? AND transactions.transaction_date < ?",
			start, end.AddDate(0, 0, 1))
	}

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		q = q.Where("transactions.description LIKE ?", "%"+search+"%")
	}

	var transactions []models.Transaction
	if err := q.
		Preload("Wallet").
		Preload("Category", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Order("transactions.transaction_date DESC, transactions.id DESC").
		Find(&transactions).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load transactions")
		return
	}

	util.Success(c, util.Response{
		"transactions": transactions,
	})
}

// Create validates input, lets the ledger run the solvency guard and persists
// the event.
func (h *TransactionHandler) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req createTransactionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam,
			"wallet_id, category_id, amount and transaction_date are required")
		return
	}

	if err := util.ValidateAmount(req.Amount); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "amount must be a positive integer")
		return
	}

	date, err := util.ParseDate(req.TransactionDate)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid transaction_date, want YYYY-MM-DD")
		return
	}

	trx, err := h.Svc.CreateTransaction(user.ID, ledger.TransactionInput{
		WalletID:    req.WalletID,
		CategoryID:  req.CategoryID,
		Amount:      req.Amount,
		Description: strings.TrimSpace(req.Description),
		Date:        date,
	})
	if err != nil {
		writeLedgerError(c, err)
		return
	}

	util.Created(c, util.Response{
		"transaction": trx,
	})
}

// Delete reverses a transaction: the row is kept, derivations stop counting it.
func (h *TransactionHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid transaction id")
		return
	}

	if err := h.Svc.ReverseTransaction(user.ID, uint(id)); err != nil {
		writeLedgerError(c, err)
		return
	}

	util.Success(c, util.Response{
		"message": "transaction reversed",
	})
}

// Restore clears the reversal marker of a transaction.
func (h *TransactionHandler) Restore(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid transaction id")
		return
	}

	if err := h.Svc.RestoreTransaction(user.ID, uint(id)); err != nil {
		writeLedgerError(c, err)
		return
	}

	util.Success(c, util.Response{
		"message": "transaction restored",
	})
}
