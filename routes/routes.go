package routes

import (
	"safety-inspection-api/controllers"
	"safety-inspection-api/middleware"
	"safety-inspection-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Safety Inspection API is running",
		})
	})

	api := router.Group("/api")
	{
		// Public routes
		public := api.Group("")
		{
			public.POST("/auth/login", controllers.Login)
			public.GET("/push/public-key", controllers.GetPushPublicKey)
		}

		// Protected routes (require authentication)
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// Auth management
			auth := protected.Group("/auth")
			{
				auth.GET("/me", controllers.GetProfile)
				auth.POST("/verify-pin", controllers.VerifyPIN)
				auth.PUT("/pin", controllers.SetPIN)
				auth.PUT("/signature", controllers.UpdateSignature)
				auth.POST("/change-password", controllers.ChangePassword)
			}

			// Inspections
			inspections := protected.Group("/inspections")
			{
				inspections.POST("", controllers.CreateInspection)
				inspections.GET("", controllers.GetInspections)
				inspections.GET("/pending-review", middleware.RequireReviewer(), controllers.GetPendingReviewInspections)
				inspections.GET("/:id", controllers.GetInspection)

				// Status transitions and draft edits share one endpoint;
				// the handler dispatches on the requested status.
				inspections.PUT("/:id", controllers.UpdateInspection)

				inspections.DELETE("/:id", middleware.RequireRole(models.RoleAdmin), controllers.DeleteInspection)

				inspections.POST("/:id/photos", controllers.UploadInspectionPhoto)
				inspections.GET("/:id/files", controllers.ListInspectionFiles)
			}

			// Stored files
			files := protected.Group("/files")
			{
				files.GET("/:id/download", controllers.DownloadFile)
				files.DELETE("/:id", controllers.DeleteFile)
			}

			// Report generation without persistence
			protected.POST("/export/:template", controllers.ExportTemplate)

			// Dashboard
			protected.GET("/dashboard/stats", controllers.GetDashboardStats)

			// Notifications
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", controllers.GetNotifications)
				notifications.GET("/counter", controllers.GetNotificationCounter)
				notifications.PUT("/:id/read", controllers.MarkNotificationRead)
				notifications.PUT("/read-all", controllers.MarkAllNotificationsRead)
			}

			// Push subscriptions
			push := protected.Group("/push")
			{
				push.POST("/subscribe", controllers.SubscribePush)
				push.POST("/unsubscribe", controllers.UnsubscribePush)
			}

			// AI detection sidecar
			ai := protected.Group("/ai")
			{
				ai.POST("/detect", controllers.DetectExtinguisherComponents)
				ai.GET("/health", controllers.GetDetectionHealth)
			}

			// User administration
			users := protected.Group("/users")
			users.Use(middleware.RequireRole(models.RoleAdmin))
			{
				users.GET("", controllers.GetUsers)
				users.POST("", controllers.CreateUser)
				users.PUT("/:id/role", controllers.UpdateUserRole)
			}

			// Notification template administration
			templates := protected.Group("/admin/notification-templates")
			templates.Use(middleware.RequireRole(models.RoleAdmin))
			{
				templates.GET("", controllers.ListNotificationTemplates)
				templates.POST("", controllers.CreateNotificationTemplate)
				templates.PUT("/:id", controllers.UpdateNotificationTemplate)
				templates.POST("/:id/reset", controllers.ResetNotificationTemplate)
			}

			// Type metadata for legacy clients
			protected.GET("/meta/types", controllers.GetInspectionTypes)
		}
	}
}
