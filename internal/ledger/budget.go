package ledger

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/nyomangedewisaya/expense-tracker/internal/models"

	"gorm.io/gorm"
)

// BudgetInput carries the validated fields of a new budget.
type BudgetInput struct {
	CategoryID uint
	Amount     int64
	StartDate  time.Time
	EndDate    time.Time
}

// Accrual is the recomputed consumption of a budget. Remaining may be
// negative and Percentage is not clamped at 100: over-budget must stay
// distinguishable from on-budget, presentation decides how to render it.
type Accrual struct {
	Spent      int64 `json:"spent"`
	Remaining  int64 `json:"remaining"`
	Percentage int   `json:"percentage"`
}

// CreateBudget creates a spending limit against an expense category. The
// positive-amount rule is what later makes the percentage division safe.
func (s *Service) CreateBudget(userID uint, in BudgetInput) (*models.Budget, error) {
	if in.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if in.EndDate.Before(in.StartDate) {
		return nil, ErrInvalidDateRange
	}

	var category models.Category
	if err := s.db.Where("id = ? AND user_id = ?", in.CategoryID, userID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("load category: %w", err)
	}
	if category.Type != models.CategoryTypeExpense {
		return nil, ErrBudgetNeedsExpense
	}

	budget := &models.Budget{
		UserID:     userID,
		CategoryID: category.ID,
		Amount:     in.Amount,
		StartDate:  in.StartDate,
		EndDate:    in.EndDate,
	}
	if err := s.db.Create(budget).Error; err != nil {
		return nil, fmt.Errorf("create budget: %w", err)
	}
	return budget, nil
}

// Accrual sums the non-reversed transactions on the budget's category whose
// date falls inside [StartDate, EndDate], both ends inclusive.
func (s *Service) Accrual(budget *models.Budget) (Accrual, error) {
	var spent int64
	windowEnd := budget.EndDate.AddDate(0, 0, 1)
	err := s.db.Model(&models.Transaction{}).
		Where("user_id = ? AND category_id = ? AND transaction_date >= ? AND transaction_date < ?",
			budget.UserID, budget.CategoryID, budget.StartDate, windowEnd).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&spent).Error
	if err != nil {
		return Accrual{}, fmt.Errorf("sum budget spend: %w", err)
	}

	return Accrual{
		Spent:      spent,
		Remaining:  budget.Amount - spent,
		Percentage: int(math.Round(float64(spent) * 100 / float64(budget.Amount))),
	}, nil
}

// BudgetUpdate is the set of budget fields that may change after creation.
// The category binding is fixed for the budget's lifetime.
type BudgetUpdate struct {
	Amount    int64
	StartDate time.Time
	EndDate   time.Time
}

// UpdateBudget rewrites the limit and date window of an existing budget.
func (s *Service) UpdateBudget(userID, id uint, in BudgetUpdate) (*models.Budget, error) {
	if in.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if in.EndDate.Before(in.StartDate) {
		return nil, ErrInvalidDateRange
	}

	var budget models.Budget
	if err := s.db.Where("id = ? AND user_id = ?", id, userID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBudgetNotFound
		}
		return nil, fmt.Errorf("load budget: %w", err)
	}

	budget.Amount = in.Amount
	budget.StartDate = in.StartDate
	budget.EndDate = in.EndDate
	if err := s.db.Save(&budget).Error; err != nil {
		return nil, fmt.Errorf("update budget: %w", err)
	}
	return &budget, nil
}

// ReverseBudget soft-deletes a budget.
func (s *Service) ReverseBudget(userID, id uint) error {
	res := s.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Budget{})
	if res.Error != nil {
		return fmt.Errorf("reverse budget: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrBudgetNotFound
	}
	return nil
}
