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

// CategoryHandler serves the category lifecycle: active, trashed, restored,
// permanently deleted.
type CategoryHandler struct {
	DB  *gorm.DB
	Svc *ledger.Service
}

func NewCategoryHandler(db *gorm.DB, svc *ledger.Service) *CategoryHandler {
	return &CategoryHandler{DB: db, Svc: svc}
}

type createCategoryReq struct {
	Name  string `json:"name" binding:"required,max=64"`
	Type  string `json:"type" binding:"required,oneof=income expense"`
	Color string `json:"color" binding:"omitempty,max=16"`
}

// type is deliberately absent: it is immutable after creation
type updateCategoryReq struct {
	Name  string `json:"name" binding:"required,max=64"`
	Color string `json:"color" binding:"omitempty,max=16"`
}

// List returns active categories, optionally filtered by type or a name search.
func (h *CategoryHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	q := h.DB.Where("user_id = ?", user.ID)

	if t := c.Query("type"); t == models.CategoryTypeIncome || t == models.CategoryTypeExpense {
		q = q.Where("type = ?", t)
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		q = q.Where("name LIKE ?", "%"+search+"%")
	}

	var categories []models.Category
	if err := q.Order("name ASC").Find(&categories).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load categories")
		return
	}

	util.Success(c, util.Response{
		"categories": categories,
	})
}

// ListTrashed returns trashed categories, most recently trashed first.
func (h *CategoryHandler) ListTrashed(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var categories []models.Category
	if err := h.DB.Unscoped().
		Where("user_id = ? AND deleted_at IS NOT NULL", user.ID).
		Order("deleted_at DESC").
		Find(&categories).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load trashed categories")
		return
	}

	util.Success(c, util.Response{
		"categories": categories,
	})
}

func (h *CategoryHandler) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req createCategoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "name and type are required")
		return
	}

	color := req.Color
	if color == "" {
		color = "#cccccc"
	}

	category := models.Category{
		UserID: user.ID,
		Name:   strings.TrimSpace(req.Name),
		Type:   req.Type,
		Color:  color,
	}
	if err := h.DB.Create(&category).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to create category")
		return
	}

	util.Created(c, util.Response{
		"category": category,
	})
}

// Update renames or recolors a category. The type never changes: it decides
// the sign of every transaction referencing the category.
func (h *CategoryHandler) Update(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid category id")
		return
	}

	var req updateCategoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "name is required")
		return
	}

	var category models.Category
	if err := h.DB.Where("id = ? AND user_id = ?", id, user.ID).First(&category).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "category not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load category")
		}
		return
	}

	category.Name = strings.TrimSpace(req.Name)
	if req.Color != "" {
		category.Color = req.Color
	}
	if err := h.DB.Save(&category).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to update category")
		return
	}

	util.Success(c, util.Response{
		"category": category,
	})
}

// Delete moves a category to the trash, guarded against live references.
func (h *CategoryHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid category id")
		return
	}

	if err := h.Svc.SoftDeleteCategory(user.ID, uint(id)); err != nil {
		writeLedgerError(c, err)
		return
	}

	util.Success(c, util.Response{
		"message": "category moved to trash",
	})
}

// Restore brings a category back from the trash.
func (h *CategoryHandler) Restore(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid category id")
		return
	}

	if err := h.Svc.RestoreCategory(user.ID, uint(id)); err != nil {
		writeLedgerError(c, err)
		return
	}

	util.Success(c, util.Response{
		"message": "category restored",
	})
}

// PermanentDelete removes a trashed category for good.
func (h *CategoryHandler) PermanentDelete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid category id")
		return
	}

	if err := h.Svc.PermanentlyDeleteCategory(user.ID, uint(id)); err != nil {
		writeLedgerError(c, err)
		return
	}

	util.Success(c, util.Response{
		"message": "category permanently deleted",
	})
}
