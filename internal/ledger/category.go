package ledger

import (
	"errors"
	"fmt"

	"github.com/nyomangedewisaya/expense-tracker/internal/models"

	"gorm.io/gorm"
)

// SoftDeleteCategory moves a category to the trash. It is rejected while any
// non-reversed transaction still references the category; reversed history
// never blocks trashing.
func (s *Service) SoftDeleteCategory(userID, id uint) error {
	var category models.Category
	if err := s.db.Where("id = ? AND user_id = ?", id, userID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("load category: %w", err)
	}

	var live int64
	if err := s.db.Model(&models.Transaction{}).
		Where("category_id = ?", category.ID).
		Count(&live).Error; err != nil {
		return fmt.Errorf("count live transactions: %w", err)
	}
	if live > 0 {
		return ErrCategoryInUse
	}

	if err := s.db.Delete(&category).Error; err != nil {
		return fmt.Errorf("trash category: %w", err)
	}
	return nil
}

// RestoreCategory brings a trashed category back to active. There is no
// precondition on restore.
func (s *Service) RestoreCategory(userID, id uint) error {
	res := s.db.Unscoped().Model(&models.Category{}).
		Where("id = ? AND user_id = ? AND deleted_at IS NOT NULL", id, userID).
		Update("deleted_at", nil)
	if res.Error != nil {
		return fmt.Errorf("restore category: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// PermanentlyDeleteCategory removes a trashed category outright. Reversed
// transactions that still point at it keep their history but have the
// reference nullified in the same store transaction, so no row is ever left
// pointing at a missing category. A live transaction reference (possible if
// one was restored after the category was trashed) blocks deletion, and so
// does any budget, reversed or not: budgets are never hard-deleted, so a
// budget's category must outlive it.
func (s *Service) PermanentlyDeleteCategory(userID, id uint) error {
	var category models.Category
	if err := s.db.Unscoped().Where("id = ? AND user_id = ?", id, userID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("load category: %w", err)
	}
	if !category.DeletedAt.Valid {
		return ErrCategoryNotTrashed
	}

	var live int64
	if err := s.db.Model(&models.Transaction{}).
		Where("category_id = ?", category.ID).
		Count(&live).Error; err != nil {
		return fmt.Errorf("count live transactions: %w", err)
	}
	if live > 0 {
		return ErrCategoryInUse
	}

	var budgets int64
	if err := s.db.Unscoped().Model(&models.Budget{}).
		Where("category_id = ?", category.ID).
		Count(&budgets).Error; err != nil {
		return fmt.Errorf("count budgets: %w", err)
	}
	if budgets > 0 {
		return ErrCategoryHasBudgets
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Model(&models.Transaction{}).
			Where("category_id = ?", category.ID).
			Update("category_id", nil).Error; err != nil {
			return fmt.Errorf("detach reversed transactions: %w", err)
		}
		if err := tx.Unscoped().Delete(&category).Error; err != nil {
			return fmt.Errorf("delete category: %w", err)
		}
		return nil
	})
}
