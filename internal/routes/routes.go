package routes

import (
	"vehicle-inspection-server/internal/config"
	"vehicle-inspection-server/internal/handlers"
	"vehicle-inspection-server/internal/middleware"
	"vehicle-inspection-server/internal/models"
	"vehicle-inspection-server/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config) {
	// Initialize services
	slotService := services.NewSlotService(db, cfg.Inspection)
	annualService := services.NewAnnualService(db)
	appointmentService := services.NewAppointmentService(db, cfg.Inspection)
	completionService := services.NewCompletionService(db, cfg.Inspection)
	checkItemService := services.NewCheckItemService(db)
	resultService := services.NewResultService(db, cfg.Inspection)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(db, cfg)
	userHandler := handlers.NewUserHandler(db)
	vehicleHandler := handlers.NewVehicleHandler(db)
	inspectorHandler := handlers.NewInspectorHandler(db)
	slotHandler := handlers.NewSlotHandler(slotService)
	annualHandler := handlers.NewAnnualInspectionHandler(db, annualService)
	appointmentHandler := handlers.NewAppointmentHandler(db, appointmentService, completionService)
	checkItemHandler := handlers.NewCheckItemHandler(checkItemService)
	resultHandler := handlers.NewResultHandler(db, resultService)

	// Public routes (no authentication required)
	public := router.Group("/api/v1")
	{
		authRoutes := public.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/refresh-token", authHandler.RefreshToken)
		}
	}

	// Authenticated routes
	private := router.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(cfg))
	{
		authRoutesPrivate := private.Group("/auth")
		{
			authRoutesPrivate.POST("/logout", authHandler.Logout)
			authRoutesPrivate.GET("/profile", authHandler.GetProfile)
			authRoutesPrivate.PUT("/profile", authHandler.UpdateProfile)
		}

		// User management routes (admin only)
		userRoutes := private.Group("/users")
		userRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
		{
			userRoutes.POST("", userHandler.CreateUser)
			userRoutes.GET("", userHandler.GetUsers)
			userRoutes.GET("/:id", userHandler.GetUserByID)
			userRoutes.PUT("/:id", userHandler.UpdateUser)
			userRoutes.DELETE("/:id", userHandler.DeleteUser)
		}

		// Vehicle routes (clients manage their own, admins manage any)
		vehicleRoutes := private.Group("/vehicles")
		{
			vehicleRoutes.POST("", middleware.RoleAuthMiddleware(models.RoleClient, models.RoleAdmin), vehicleHandler.CreateVehicle)
			vehicleRoutes.GET("", vehicleHandler.GetVehicles)
			vehicleRoutes.GET("/:id", vehicleHandler.GetVehicleByID)
			vehicleRoutes.PUT("/:id", vehicleHandler.UpdateVehicle)
		}

		// Inspector profile routes
		inspectorRoutes := private.Group("/inspectors")
		{
			inspectorRoutes.GET("", inspectorHandler.GetInspectors)
			inspectorRoutes.GET("/:id", inspectorHandler.GetInspectorByID)

			adminInspectorRoutes := inspectorRoutes.Group("")
			adminInspectorRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
			{
				adminInspectorRoutes.POST("", inspectorHandler.CreateInspector)
				adminInspectorRoutes.PUT("/:id", inspectorHandler.UpdateInspector)
			}
		}

		// Availability slot routes (creation and deletion are admin only)
		slotRoutes := private.Group("/slots")
		{
			slotRoutes.GET("", slotHandler.GetSlots)
			slotRoutes.GET("/:id", slotHandler.GetSlotByID)
			slotRoutes.POST("", middleware.RoleAuthMiddleware(models.RoleAdmin), slotHandler.CreateSlot)
			slotRoutes.DELETE("/:id", middleware.RoleAuthMiddleware(models.RoleAdmin), slotHandler.DeleteSlot)
		}

		// Annual inspection cycle routes
		annualRoutes := private.Group("/annual-inspections")
		{
			annualRoutes.POST("", annualHandler.CreateAnnualInspection)
			annualRoutes.GET("", annualHandler.GetAnnualInspections)
			annualRoutes.GET("/:id", annualHandler.GetAnnualInspectionByID)
			annualRoutes.GET("/:id/stats", annualHandler.GetAnnualInspectionStats)

			adminAnnualRoutes := annualRoutes.Group("")
			adminAnnualRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
			{
				adminAnnualRoutes.PATCH("/:id/status", annualHandler.UpdateAnnualInspection)
				adminAnnualRoutes.DELETE("/:id", annualHandler.DeleteAnnualInspection)
			}
		}

		// Appointment routes
		appointmentRoutes := private.Group("/appointments")
		{
			appointmentRoutes.POST("", middleware.RoleAuthMiddleware(models.RoleClient, models.RoleAdmin), appointmentHandler.CreateAppointment)
			appointmentRoutes.GET("", appointmentHandler.GetAppointments)
			appointmentRoutes.GET("/available-slots", appointmentHandler.GetAvailableSlots)
			appointmentRoutes.GET("/:id", appointmentHandler.GetAppointmentByID)
			appointmentRoutes.PATCH("/:id", appointmentHandler.UpdateAppointment)
			appointmentRoutes.POST("/:id/cancel", appointmentHandler.CancelAppointment)

			// Completion is restricted to the assigned inspector
			appointmentRoutes.POST("/:id/complete", middleware.RoleAuthMiddleware(models.RoleInspector), appointmentHandler.CompleteAppointment)
		}

		// Check item catalog routes (catalog edits are admin only)
		checkItemRoutes := private.Group("/check-items")
		{
			checkItemRoutes.GET("", checkItemHandler.GetCheckItems)
			checkItemRoutes.GET("/:id", checkItemHandler.GetCheckItemByID)
			checkItemRoutes.POST("", middleware.RoleAuthMiddleware(models.RoleAdmin), checkItemHandler.CreateCheckItem)
			checkItemRoutes.PUT("/:id", middleware.RoleAuthMiddleware(models.RoleAdmin), checkItemHandler.UpdateCheckItem)
		}

		// Inspection result routes
		resultRoutes := private.Group("/inspection-results")
		{
			resultRoutes.GET("", resultHandler.GetResults)
			resultRoutes.GET("/:id", resultHandler.GetResultByID)
		}
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}
