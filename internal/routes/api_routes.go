package routes

import (
	"nirmaan-backend/config"
	"nirmaan-backend/internal/handlers"
	"nirmaan-backend/internal/middleware"
	"nirmaan-backend/models"

	"github.com/gin-gonic/gin"
)

// RegisterAPIRoutes wires the HTTP surface. Everything under /api requires a
// valid token; write routes additionally carry role gates.
func RegisterAPIRoutes(r *gin.Engine) {
	r.Static("/uploads", config.UploadDir)

	projectWrite := middleware.RoleMiddleware(models.RoleAdmin, models.RoleProjectManager)
	financeWrite := middleware.RoleMiddleware(models.RoleAdmin, models.RoleAccountant)

	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware())
	{
		users := api.Group("/users")
		{
			users.POST("", middleware.RoleMiddleware(), handlers.CreateUserHandler)
			users.GET("", middleware.RoleMiddleware(models.RoleAdmin), handlers.ListUsersHandler)
		}

		projects := api.Group("/projects")
		{
			projects.POST("/create", projectWrite, handlers.CreateProjectHandler)
			projects.GET("", handlers.ListProjectsHandler)
			projects.GET("/:id", handlers.GetProjectHandler)
			projects.PUT("/:id", projectWrite, handlers.UpdateProjectHandler)
			projects.DELETE("/:id", projectWrite, handlers.DeleteProjectHandler)

			projects.GET("/:id/balance", handlers.GetProjectBalanceHandler)
			projects.POST("/:id/balance/adjust", projectWrite, handlers.AdjustProjectBalanceHandler)

			projects.POST("/:id/pos", projectWrite, handlers.AddProjectPOHandler)
			projects.GET("/:id/pos", handlers.ListProjectPOsHandler)
			projects.PUT("/:id/pos/:poId", projectWrite, handlers.UpdateProjectPOHandler)
			projects.DELETE("/:id/pos/:poId", projectWrite, handlers.DeleteProjectPOHandler)

			projects.GET("/:id/invoice-analytics", handlers.ProjectInvoiceAnalyticsHandler)
			projects.GET("/:id/invoice-analytics/export", handlers.ExportInvoiceAnalyticsHandler)
		}

		invoices := api.Group("/invoices")
		{
			invoices.POST("", financeWrite, handlers.CreateInvoiceHandler)
			invoices.GET("", handlers.ListInvoicesHandler)
			invoices.GET("/:id", handlers.GetInvoiceHandler)
			invoices.PUT("/:id/status", financeWrite, handlers.UpdateInvoiceStatusHandler)
			invoices.DELETE("/:id", financeWrite, handlers.DeleteInvoiceHandler)

			invoices.POST("/:id/payments", financeWrite, handlers.CreateInvoicePaymentHandler)
			invoices.GET("/:id/payments", handlers.ListInvoicePaymentsHandler)
			invoices.DELETE("/:id/payments/:paymentId", financeWrite, handlers.DeleteInvoicePaymentHandler)
		}
	}
}
