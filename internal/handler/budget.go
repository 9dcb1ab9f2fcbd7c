package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/nyomangedewisaya/expense-tracker/internal/ledger"
	"github.com/nyomangedewisaya/expense-tracker/internal/models"
	"github.com/nyomangedewisaya/expense-tracker/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// BudgetHandler serves budget CRUD and the accrual listing.
type BudgetHandler struct {
	DB  *gorm.DB
	Svc *ledger.Service
}

func NewBudgetHandler(db *gorm.DB, svc *ledger.Service) *BudgetHandler {
	return &BudgetHandler{DB: db, Svc: svc}
}

type createBudgetReq struct {
	CategoryID uint   `json:"category_id" binding:"required"`
	Amount     int64  `json:"amount" binding:"required"`
	StartDate  string `json:"start_date" binding:"required"`
	EndDate    string `json:"end_date" binding:"required"`
}

type updateBudgetReq struct {
	Amount    int64  `json:"amount" binding:"required"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
}

type budgetResp struct {
	ID         uint             `json:"id"`
	CategoryID uint             `json:"category_id"`
	Category   *models.Category `json:"category,omitempty"`
	Amount     int64            `json:"amount"`
	StartDate  time.Time        `json:"start_date"`
	EndDate    time.Time        `json:"end_date"`
	Spent      int64            `json:"spent"`
	Remaining  int64            `json:"remaining"`
	Percentage int              `json:"percentage"`
}

// List returns live budgets, each with spent/remaining/percentage recomputed
// from the transaction log for this response, soonest-ending first.
func (h *BudgetHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var budgets []models.Budget
	if err := h.DB.Where("user_id = ?", user.ID).
		Preload("Category", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Order("end_date ASC").
		Find(&budgets).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load budgets")
		return
	}

	items := make([]budgetResp, 0, len(budgets))
	for i := range budgets {
		b := &budgets[i]
		accrual, err := h.Svc.Accrual(b)
		if err != nil {
			writeLedgerError(c, err)
			return
		}
		items = append(items, budgetResp{
			ID:         b.ID,
			CategoryID: b.CategoryID,
			Category:   &b.Category,
			Amount:     b.Amount,
			StartDate:  b.StartDate,
			EndDate:    b.EndDate,
			Spent:      accrual.Spent,
			Remaining:  accrual.Remaining,
			Percentage: accrual.Percentage,
		})
	}

	util.Success(c, util.Response{
		"budgets": items,
	})
}

func (h *BudgetHandler) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req createBudgetReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam,
			"category_id, amount, start_date and end_date are required")
		return
	}

	start, err := util.ParseDate(req.StartDate)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid start_date, want YYYY-MM-DD")
		return
	}
	end, err := util.ParseDate(req.EndDate)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid end_date, want YYYY-MM-DD")
		return
	}

	budget, err := h.Svc.CreateBudget(user.ID, ledger.BudgetInput{
		CategoryID: req.CategoryID,
		Amount:     req.Amount,
		StartDate:  start,
		EndDate:    end,
	})
	if err != nil {
		writeLedgerError(c, err)
		return
	}

	util.Created(c, util.Response{
		"budget": budget,
	})
}

// Update rewrites the limit and window of a budget.
func (h *BudgetHandler) Update(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid budget id")
		return
	}

	var req updateBudgetReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam,
			"amount, start_date and end_date are required")
		return
	}

	start, err := util.ParseDate(req.StartDate)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid start_date, want YYYY-MM-DD")
		return
	}
	end, err := util.ParseDate(req.EndDate)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid end_date, want YYYY-MM-DD")
		return
	}

	budget, err := h.Svc.UpdateBudget(user.ID, uint(id), ledger.BudgetUpdate{
		Amount:    req.Amount,
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		writeLedgerError(c, err)
		return
	}

	util.Success(c, util.Response{
		"budget": budget,
	})
}

// Delete soft-deletes a budget.
func (h *BudgetHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid budget id")
		return
	}

	if err := h.Svc.ReverseBudget(user.ID, uint(id)); err != nil {
		writeLedgerError(c, err)
		return
	}

	util.Success(c, util.Response{
		"message": "budget deleted",
	})
}
