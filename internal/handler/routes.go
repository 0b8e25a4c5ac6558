package handler

import (
	"github.com/centavo/centavo-backend/internal/middleware"
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, rateLimiter *middleware.RateLimiter, workspaceHandler *WorkspaceHandler, accountHandler *AccountHandler, categoryHandler *CategoryHandler, transactionHandler *TransactionHandler, cardHandler *CreditCardHandler, installmentHandler *InstallmentHandler, goalHandler *GoalHandler, dashboardHandler *DashboardHandler, wsHandler *WebSocketHandler) {
	// API version 1
	api := e.Group("/api/v1")
	api.Use(middleware.RateLimitMiddleware(rateLimiter))
	api.Use(middleware.Identity())

	// Current workspace record
	api.GET("/workspace", workspaceHandler.GetWorkspace)

	// Account routes
	accounts := api.Group("/accounts")
	accounts.POST("", accountHandler.CreateAccount)
	accounts.GET("", accountHandler.GetAccounts)
	accounts.GET("/:id", accountHandler.GetAccount)
	accounts.PUT("/:id", accountHandler.UpdateAccount)
	accounts.DELETE("/:id", accountHandler.DeleteAccount)
	accounts.POST("/:id/redeem", accountHandler.Redeem)

	// Category routes
	categories := api.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetCategories)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	// Transaction routes
	transactions := api.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)
	transactions.POST("/:id/pay", transactionHandler.Pay)
	transactions.DELETE("/:id/pay", transactionHandler.Unpay)

	// Credit card routes
	cards := api.Group("/credit-cards")
	cards.POST("", cardHandler.CreateCard)
	cards.GET("", cardHandler.GetCards)
	cards.PUT("/:id", cardHandler.UpdateCard)
	cards.DELETE("/:id", cardHandler.DeleteCard)
	cards.POST("/:id/purchases", cardHandler.CreatePurchase)
	cards.GET("/:id/purchases", cardHandler.GetPurchases)
	cards.GET("/:id/invoices", cardHandler.GetInvoices)
	cards.POST("/:id/invoices/:invoiceId/pay", cardHandler.PayInvoice)

	// Installment plan routes
	installments := api.Group("/installments")
	installments.POST("", installmentHandler.CreatePlan)
	installments.GET("", installmentHandler.GetPlans)
	installments.GET("/:id", installmentHandler.GetPlan)
	installments.DELETE("/:id", installmentHandler.DeletePlan)

	// Goal routes
	goals := api.Group("/goals")
	goals.POST("", goalHandler.CreateGoal)
	goals.GET("", goalHandler.GetGoals)
	goals.GET("/:id", goalHandler.GetGoal)
	goals.PUT("/:id", goalHandler.UpdateGoal)
	goals.DELETE("/:id", goalHandler.DeleteGoal)
	goals.POST("/:id/deposit", goalHandler.Deposit)

	// Dashboard routes
	dashboard := api.Group("/dashboard")
	dashboard.GET("/summary", dashboardHandler.GetSummary)

	// Batch trigger for external schedulers
	cron := api.Group("/cron")
	cron.POST("/yields", dashboardHandler.RunYields)

	// WebSocket endpoint (identity resolved inside the handler)
	e.GET("/ws", wsHandler.HandleWS)
}
