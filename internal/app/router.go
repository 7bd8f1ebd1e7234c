package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"welth/internal/config"
	"welth/internal/handlers"
	"welth/internal/middleware"
	"welth/internal/ratelimit"
)

// NewRouter builds the HTTP API over svc. Job triggers are served by jobHandler.
func NewRouter(cfg *config.Config, svc *Services, jobHandler *handlers.JobHandler) *gin.Engine {
	accountHandler := handlers.NewAccountHandler(svc.Accounts, svc.Audit)
	transactionHandler := handlers.NewTransactionHandler(svc.Transactions, svc.Audit)
	budgetHandler := handlers.NewBudgetHandler(svc.Budgets, svc.Accounts, svc.Audit)
	receiptHandler := handlers.NewReceiptHandler(svc.Receipts)
	categoryHandler := handlers.NewCategoryHandler()
	profileHandler := handlers.NewProfileHandler(svc.Users)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Job triggers for an external scheduler
	jobs := router.Group("/internal/jobs")
	jobs.Use(middleware.PipelineAuthMiddleware(cfg.PipelineAPIKey))
	jobs.POST("/recurring/trigger", jobHandler.TriggerRecurring)
	jobs.POST("/budget-alerts", jobHandler.CheckBudgetAlerts)
	jobs.POST("/monthly-reports", jobHandler.GenerateMonthlyReports)

	v1 := router.Group("/api/v1")
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(cfg.IdentityJWTSecret, cfg.IdentityIssuer, svc.Users))

	protected.GET("/profile", profileHandler.GetProfile)

	accounts := protected.Group("/accounts")
	accounts.POST("", accountHandler.CreateAccount)
	accounts.GET("", accountHandler.GetUserAccounts)
	accounts.GET("/:id", accountHandler.GetAccountByID)
	accounts.PUT("/:id/default", accountHandler.SetDefaultAccount)
	accounts.GET("/:id/transactions", transactionHandler.GetAccountTransactions)
	accounts.GET("/:id/budget", budgetHandler.GetAccountBudget)

	createLimiter := ratelimit.NewKeyed(cfg.TransactionCreateLimit, cfg.TransactionCreateWindow)
	transactions := protected.Group("/transactions")
	transactions.POST("", middleware.RateLimit(createLimiter), transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetUserTransactions)
	transactions.POST("/bulk-delete", transactionHandler.BulkDeleteTransactions)
	transactions.GET("/:id", transactionHandler.GetTransactionByID)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	protected.POST("/receipts/scan", receiptHandler.ScanReceipt)

	protected.GET("/budget", budgetHandler.GetCurrentBudget)
	protected.PUT("/budget", budgetHandler.UpsertBudget)

	protected.GET("/categories", categoryHandler.GetCategories)

	return router
}
