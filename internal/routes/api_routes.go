// kas-mit/internal/routes/api_routes.go
package routes

import (
	"github.com/tutor-digital/KAS-MIT/internal/handlers"
	"github.com/tutor-digital/KAS-MIT/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterAPIRoutes registers every API route that requires a session.
func RegisterAPIRoutes(api *gin.RouterGroup) {
	apiGroup := api.Group("/api")
	{
		// Session restore after a page reload.
		apiGroup.GET("/session", handlers.SessionHandler)

		// --- STUDENTS ---
		students := apiGroup.Group("/students")
		{
			students.GET("", handlers.ListStudentsHandler)
			students.GET("/stats", handlers.ClassStatsHandler)
			students.GET("/:id", handlers.GetStudentHandler)
			students.POST("", middleware.RoleMiddleware(middleware.RoleAdmin), handlers.CreateStudentHandler)
			students.PUT("/:id", middleware.RoleMiddleware(middleware.RoleAdmin), handlers.UpdateStudentHandler)
			students.DELETE("/:id", middleware.RoleMiddleware(middleware.RoleAdmin), handlers.DeleteStudentHandler)
			// Self-service profile edits for parents; the admin can too.
			students.PUT("/:id/profile", middleware.RoleMiddleware(middleware.RoleAdmin, middleware.RoleParent), handlers.UpdateProfileHandler)
		}

		// --- TRANSACTIONS ---
		transactions := apiGroup.Group("/transactions")
		{
			transactions.GET("", handlers.ListTransactionsHandler)
			transactions.POST("/dues", middleware.RoleMiddleware(middleware.RoleAdmin), handlers.CreateDuesHandler)
			transactions.POST("/expense", middleware.RoleMiddleware(middleware.RoleAdmin), handlers.CreateExpenseHandler)
			transactions.PUT("/:id", middleware.RoleMiddleware(middleware.RoleAdmin), handlers.UpdateTransactionHandler)
			transactions.DELETE("/:id", middleware.RoleMiddleware(middleware.RoleAdmin), handlers.DeleteTransactionHandler)
		}

		// --- DASHBOARD & REPORTS ---
		apiGroup.GET("/dashboard", handlers.DashboardHandler)
		apiGroup.GET("/checklist", handlers.ChecklistHandler)
		reports := apiGroup.Group("/reports")
		{
			reports.GET("/summary", handlers.ReportSummaryHandler)
			reports.GET("/export", middleware.RoleMiddleware(middleware.RoleAdmin, middleware.RoleTeacher), handlers.ExportTransactionsHandler)
		}

		// --- UPLOADS ---
		apiGroup.POST("/uploads", handlers.UploadAttachmentHandler)

		// --- REALTIME EVENTS ---
		events := apiGroup.Group("/events")
		{
			events.GET("/ws", handlers.EventsWSEndpoint)
		}
	}
}
