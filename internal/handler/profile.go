package handler

import (
	"net/http"
	"strings"

	"github.com/nyomangedewisaya/expense-tracker/internal/models"
	"github.com/nyomangedewisaya/expense-tracker/internal/util"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UpdateProfileReq updates name and email.
type UpdateProfileReq struct {
	Name  string `json:"name" binding:"required,max=64"`
	Email string `json:"email" binding:"required,email"`
}

// ChangePasswordReq changes the account password.
type ChangePasswordReq struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6,max=64"`
}

// UpdateProfile changes the current user's name and email. The new email must
// not belong to another account.
func UpdateProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}

		var req UpdateProfileReq
		if err := c.ShouldBindJSON(&req); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "name and email are required")
			return
		}

		req.Email = strings.ToLower(strings.TrimSpace(req.Email))

		var count int64
		if err := db.Model(&models.User{}).
			Where("email = ? AND id <> ?", req.Email, user.ID).
			Count(&count).Error; err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to check email")
			return
		}
		if count > 0 {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "email is already used by another account")
			return
		}

		user.Name = strings.TrimSpace(req.Name)
		user.Email = req.Email
		if err := db.Model(user).Updates(map[string]interface{}{
			"name":  user.Name,
			"email": user.Email,
		}).Error; err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to update profile")
			return
		}

		util.Success(c, util.Response{
			"message": "profile updated",
			"user": gin.H{
				"id":    user.ID,
				"name":  user.Name,
				"email": user.Email,
			},
		})
	}
}

// ChangePassword verifies the old password before setting a new one.
func ChangePassword(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}

		var req ChangePasswordReq
		if err := c.ShouldBindJSON(&req); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "old and new password are required")
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "wrong old password")
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to hash password")
			return
		}

		if err := db.Model(user).Update("password", string(hash)).Error; err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to change password")
			return
		}

		util.Success(c, util.Response{
			"message": "password changed",
		})
	}
}
