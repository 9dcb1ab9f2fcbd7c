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

// TransferHandler serves inter-wallet transfers.
type TransferHandler struct {
	DB  *gorm.DB
	Svc *ledger.Service
}

func NewTransferHandler(db *gorm.DB, svc *ledger.Service) *TransferHandler {
	return &TransferHandler{DB: db, Svc: svc}
}

type createTransferReq struct {
	FromWalletID    uint   `json:"from_wallet_id" binding:"required"`
	ToWalletID      uint   `json:"to_wallet_id" binding:"required"`
	Amount          int64  `json:"amount" binding:"required"`
	Description     string `json:"description" binding:"max=255"`
	TransactionDate string `json:"transaction_date" binding:"required"`
}

// List returns live transfers with both wallets attached, optionally filtered
// by source, destination and date range, newest first.
func (h *TransferHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	q := h.DB.Model(&models.Transfer{}).Where("user_id = ?", user.ID)

	if idStr := c.Query("from_wallet_id"); idStr != "" {
		if id, err := strconv.Atoi(idStr); err == nil && id > 0 {
			q = q.Where("from_wallet_id = ?", id)
		}
	}
	if idStr := c.Query("to_wallet_id"); idStr != "" {
		if id, err := strconv.Atoi(idStr); err == nil && id > 0 {
			q = q.Where("to_wallet_id = ?", id)
		}
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
		q = q.Where("transaction_date >= ? AND transaction_date < ?", start, end.AddDate(0, 0, 1))
	}

	var transfers []models.Transfer
	if err := q.
		Preload("FromWallet", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Preload("ToWallet", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Order("transaction_date DESC, id DESC").
		Find(&transfers).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load transfers")
		return
	}

	util.Success(c, util.Response{
		"transfers": transfers,
	})
}

// Create validates input and hands off to the transfer coordinator.
func (h *TransferHandler) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req createTransferReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam,
			"from_wallet_id, to_wallet_id, amount and transaction_date are required")
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

	transfer, err := h.Svc.CreateTransfer(user.ID, ledger.TransferInput{
		FromWalletID: req.FromWalletID,
		ToWalletID:   req.ToWalletID,
		Amount:       req.Amount,
		Description:  strings.TrimSpace(req.Description),
		Date:         date,
	})
	if err != nil {
		writeLedgerError(c, err)
		return
	}

	util.Created(c, util.Response{
		"transfer": transfer,
	})
}

// Delete reverses a transfer, undoing both legs at once.
func (h *TransferHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid transfer id")
		return
	}

	if err := h.Svc.ReverseTransfer(user.ID, uint(id)); err != nil {
		writeLedgerError(c, err)
		return
	}

	util.Success(c, util.Response{
		"message": "transfer reversed",
	})
}

// Restore clears the reversal marker of a transfer.
func (h *TransferHandler) Restore(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid transfer id")
		return
	}

	if err := h.Svc.RestoreTransfer(user.ID, uint(id)); err != nil {
		writeLedgerError(c, err)
		return
	}

	util.Success(c, util.Response{
		"message": "transfer restored",
	})
}
