package middleware

import (
	"github.com/nyomangedewisaya/expense-tracker/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AuditMiddleware records each authenticated request after it completes.
// Audit writes are best effort and never fail the request.
func AuditMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		var userID *uint
		if v, ok := c.Get("currentUser"); ok {
			if user, ok := v.(*models.User); ok && user != nil {
				userID = &user.ID
			}
		}

		// only authenticated operations are audited
		if userID == nil {
			return
		}

		entry := models.AuditLog{
			UserID:    userID,
			RequestID: GetRequestID(c),
			Method:    c.Request.Method,
			Path:      c.Request.URL.Path,
			Status:    c.Writer.Status(),
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		}

		_ = db.Create(&entry).Error
	}
}
