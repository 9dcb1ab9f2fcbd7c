package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/nyomangedewisaya/expense-tracker/internal/ledger"
	"github.com/nyomangedewisaya/expense-tracker/internal/models"
	"github.com/nyomangedewisaya/expense-tracker/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// WalletHandler serves wallet CRUD and the derived-balance listing.
type WalletHandler struct {
	DB  *gorm.DB
	Svc *ledger.Service
}

func NewWalletHandler(db *gorm.DB, svc *ledger.Service) *WalletHandler {
	return &WalletHandler{DB: db, Svc: svc}
}

type createWalletReq struct {
	Name           string `json:"name" binding:"required,max=64"`
	Type           string `json:"type" binding:"omitempty,oneof=bank e-wallet cash"`
	InitialBalance *int64 `json:"initial_balance" binding:"required"`
}

type walletResp struct {
	ID             uint      `json:"id"`
	Name           string    `json:"name"`
	Type           string    `json:"type"`
	InitialBalance int64     `json:"initial_balance"`
	CurrentBalance int64     `json:"current_balance"`
	CreatedAt      time.Time `json:"created_at"`
}

// List returns the user's live wallets, each with its balance derived from
// the event history on this very request.
func (h *WalletHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var wallets []models.Wallet
	if err := h.DB.Where("user_id = ?", user.ID).
		Order("id ASC").
		Find(&wallets).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load wallets")
		return
	}

	items := make([]walletResp, 0, len(wallets))
	for i := range wallets {
		w := &wallets[i]
		balance, err := h.Svc.CurrentBalance(user.ID, w.ID)
		if err != nil {
			writeLedgerError(c, err)
			return
		}
		items = append(items, walletResp{
			ID:             w.ID,
			Name:           w.Name,
			Type:           w.Type,
			InitialBalance: w.InitialBalance,
			CurrentBalance: balance,
			CreatedAt:      w.CreatedAt,
		})
	}

	util.Success(c, util.Response{
		"wallets": items,
	})
}

// Create opens a wallet. The initial balance is fixed here once and for all;
// every later change flows through transactions and transfers.
func (h *WalletHandler) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req createWalletReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "name and initial_balance are required")
		return
	}

	walletType := req.Type
	if walletType == "" {
		walletType = models.WalletTypeBank
	}

	wallet := models.Wallet{
		UserID:         user.ID,
		Name:           strings.TrimSpace(req.Name),
		Type:           walletType,
		InitialBalance: *req.InitialBalance,
	}
	if err := h.DB.Create(&wallet).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to create wallet")
		return
	}

	util.Created(c, util.Response{
		"wallet": walletResp{
			ID:             wallet.ID,
			Name:           wallet.Name,
			Type:           wallet.Type,
			InitialBalance: wallet.InitialBalance,
			CurrentBalance: wallet.InitialBalance,
			CreatedAt:      wallet.CreatedAt,
		},
	})
}

// Delete hides a wallet. Its events stay on record; other wallets involved in
// past transfers keep deriving the same balances.
func (h *WalletHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid wallet id")
		return
	}

	res := h.DB.Where("id = ? AND user_id = ?", id, user.ID).Delete(&models.Wallet{})
	if res.Error != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to delete wallet")
		return
	}
	if res.RowsAffected == 0 {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "wallet not found")
		return
	}

	util.Success(c, util.Response{
		"message": "wallet deleted",
	})
}

// Restore brings a hidden wallet back.
func (h *WalletHandler) Restore(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid wallet id")
		return
	}

	res := h.DB.Unscoped().Model(&models.Wallet{}).
		Where("id = ? AND user_id = ? AND deleted_at IS NOT NULL", id, user.ID).
		Update("deleted_at", nil)
	if res.Error != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to restore wallet")
		return
	}
	if res.RowsAffected == 0 {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "wallet not found")
		return
	}

	util.Success(c, util.Response{
		"message": "wallet restored",
	})
}
