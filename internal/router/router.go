package router

import (
	"github.com/nyomangedewisaya/expense-tracker/internal/config"
	"github.com/nyomangedewisaya/expense-tracker/internal/handler"
	"github.com/nyomangedewisaya/expense-tracker/internal/ledger"
	"github.com/nyomangedewisaya/expense-tracker/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter configures the gin engine and all API routes.
func SetupRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), middleware.RequestID())

	corsCfg := cors.DefaultConfig()
	if len(cfg.CORS.AllowOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.CORS.AllowOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	r.Use(cors.New(corsCfg))

	svc := ledger.NewService(db)

	// ====== API ======
	api := r.Group("/api")

	authHandler := handler.NewAuthHandler(db, cfg.JWT.Secret, cfg.JWT.ExpireHours)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("")
	protected.Use(
		middleware.AuthMiddleware(cfg.JWT.Secret, db),
		middleware.AuditMiddleware(db),
	)

	protected.GET("/me", handler.GetMe)
	protected.PUT("/profile", handler.UpdateProfile(db))
	protected.PUT("/profile/password", handler.ChangePassword(db))

	walletHandler := handler.NewWalletHandler(db, svc)
	protected.GET("/wallets", walletHandler.List)
	protected.POST("/wallets", walletHandler.Create)
	protected.DELETE("/wallets/:id", walletHandler.Delete)
	protected.POST("/wallets/:id/restore", walletHandler.Restore)

	categoryHandler := handler.NewCategoryHandler(db, svc)
	protected.GET("/categories", categoryHandler.List)
	protected.GET("/categories/trash", categoryHandler.ListTrashed)
	protected.POST("/categories", categoryHandler.Create)
	protected.PUT("/categories/:id", categoryHandler.Update)
	protected.DELETE("/categories/:id", categoryHandler.Delete)
	protected.POST("/categories/:id/restore", categoryHandler.Restore)
	protected.DELETE("/categories/:id/permanent", categoryHandler.PermanentDelete)

	transactionHandler := handler.NewTransactionHandler(db, svc)
	protected.GET("/transactions", transactionHandler.List)
	protected.POST("/transactions", transactionHandler.Create)
	protected.DELETE("/transactions/:id", transactionHandler.Delete)
	protected.POST("/transactions/:id/restore", transactionHandler.Restore)

	transferHandler := handler.NewTransferHandler(db, svc)
	protected.GET("/transfers", transferHandler.List)
	protected.POST("/transfers", transferHandler.Create)
	protected.DELETE("/transfers/:id", transferHandler.Delete)
	protected.POST("/transfers/:id/restore", transferHandler.Restore)

	budgetHandler := handler.NewBudgetHandler(db, svc)
	protected.GET("/budgets", budgetHandler.List)
	protected.POST("/budgets", budgetHandler.Create)
	protected.PUT("/budgets/:id", budgetHandler.Update)
	protected.DELETE("/budgets/:id", budgetHandler.Delete)

	dashboardHandler := handler.NewDashboardHandler(db, svc)
	protected.GET("/dashboard", dashboardHandler.Summary)
	protected.GET("/dashboard/chart", dashboardHandler.Chart)
	protected.GET("/dashboard/breakdown", dashboardHandler.Breakdown)

	exportHandler := handler.NewExportHandler(db)
	protected.GET("/export/csv", exportHandler.ExportCSV)
	protected.GET("/export/xlsx", exportHandler.ExportXLSX)

	return r
}
