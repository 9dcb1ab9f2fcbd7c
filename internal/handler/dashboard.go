package handler

import (
	"net/http"
	"sort"
	"time"

	"github.com/nyomangedewisaya/expense-tracker/internal/ledger"
	"github.com/nyomangedewisaya/expense-tracker/internal/models"
	"github.com/nyomangedewisaya/expense-tracker/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// DashboardHandler aggregates wallet balances and monthly flows for the
// dashboard. Everything here is derived per request; nothing is cached.
type DashboardHandler struct {
	DB  *gorm.DB
	Svc *ledger.Service
}

func NewDashboardHandler(db *gorm.DB, svc *ledger.Service) *DashboardHandler {
	return &DashboardHandler{DB: db, Svc: svc}
}

// Summary returns the combined balance of all live wallets plus this month's
// income and expense totals.
func (h *DashboardHandler) Summary(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var wallets []models.Wallet
	if err := h.DB.Where("user_id = ?", user.ID).Find(&wallets).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load wallets")
		return
	}

	var totalBalance int64
	for i := range wallets {
		balance, err := h.Svc.CurrentBalance(user.ID, wallets[i].ID)
		if err != nil {
			writeLedgerError(c, err)
			return
		}
		totalBalance += balance
	}

	start, end := monthWindow(time.Now())

	income, err := h.sumByType(user.ID, models.CategoryTypeIncome, start, end)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to sum income")
		return
	}
	expense, err := h.sumByType(user.ID, models.CategoryTypeExpense, start, end)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to sum expense")
		return
	}

	util.Success(c, util.Response{
		"total_balance":      totalBalance,
		"income_this_month":  income,
		"expense_this_month": expense,
	})
}

type chartPoint struct {
	Date    string `json:"date"`
	Income  int64  `json:"income"`
	Expense int64  `json:"expense"`
}

// Chart returns a per-day income/expense series. period=month covers the
// current calendar month; anything else means the trailing 7 days. Days with
// no movements are present with zeros so the series has no gaps.
func (h *DashboardHandler) Chart(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	now := time.Now()
	var start, end time.Time
	if c.Query("period") == "month" {
		start, end = monthWindow(now)
	} else {
		end = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
		start = end.AddDate(0, 0, -7)
	}

	var transactions []models.Transaction
	if err := h.DB.
		Preload("Category", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Where("user_id = ? AND transaction_date >= ? AND transaction_date < ?", user.ID, start, end).
		Find(&transactions).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load transactions")
		return
	}

	points := make(map[string]*chartPoint)
	var keys []string
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		key := d.Format("2006-01-02")
		points[key] = &chartPoint{Date: key}
		keys = append(keys, key)
	}

	for i := range transactions {
		trx := &transactions[i]
		if trx.Category == nil {
			continue
		}
		p, ok := points[trx.TransactionDate.Format("2006-01-02")]
		if !ok {
			continue
		}
		if trx.Category.Type == models.CategoryTypeIncome {
			p.Income += trx.Amount
		} else {
			p.Expense += trx.Amount
		}
	}

	series := make([]chartPoint, 0, len(keys))
	for _, key := range keys {
		series = append(series, *points[key])
	}

	util.Success(c, util.Response{
		"chart": series,
	})
}

type breakdownSlice struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Value int64  `json:"value"`
}

// Breakdown groups this month's expenses by category, largest first.
func (h *DashboardHandler) Breakdown(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	start, end := monthWindow(time.Now())

	var transactions []models.Transaction
	if err := h.DB.
		Joins("JOIN categories ON categories.id = transactions.category_id").
		Preload("Category", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Where("transactions.user_id = ? AND categories.type = ? AND transactions.transaction_date >= ? AND transactions.transaction_date < ?",
			user.ID, models.CategoryTypeExpense, start, end).
		Find(&transactions).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load transactions")
		return
	}

	slices := make(map[string]*breakdownSlice)
	for i := range transactions {
		trx := &transactions[i]
		if trx.Category == nil {
			continue
		}
		s, ok := slices[trx.Category.Name]
		if !ok {
			s = &breakdownSlice{Name: trx.Category.Name, Color: trx.Category.Color}
			slices[trx.Category.Name] = s
		}
		s.Value += trx.Amount
	}

	result := make([]breakdownSlice, 0, len(slices))
	for _, s := range slices {
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Value > result[j].Value })

	util.Success(c, util.Response{
		"breakdown": result,
	})
}

// sumByType totals live transactions of one category type in [start, end).
func (h *DashboardHandler) sumByType(userID uint, categoryType string, start, end time.Time) (int64, error) {
	var total int64
	err := h.DB.Model(&models.Transaction{}).
		Joins("JOIN categories ON categories.id = transactions.category_id").
		Where("transactions.user_id = ? AND categories.type = ? AND transactions.transaction_date >= ? AND transactions.transaction_date < ?",
			userID, categoryType, start, end).
		Select("COALESCE(SUM(transactions.amount), 0)").
		Scan(&total).Error
	return total, err
}

// monthWindow returns [first day of t's month, first day of next month).
func monthWindow(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}
