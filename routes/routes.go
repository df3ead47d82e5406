package routes

import (
	"vaxtracker-backend/config"
	"vaxtracker-backend/controllers"
	"vaxtracker-backend/models"
	"vaxtracker-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"https://app.vaxtracker.in",
			"http://localhost:3000",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", controllers.Me)
	}

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	{
		// Vaccine catalog (any authenticated user)
		api.GET("/vaccines", controllers.GetVaccines)

		// Parent routes
		parent := api.Group("", utils.RequireRole(models.RoleParent))
		{
			children := parent.Group("/children")
			{
				children.POST("", controllers.CreateChild)
				children.GET("", controllers.GetChildren)
				children.GET("/:id", controllers.GetChild)
				children.PUT("/:id", controllers.UpdateChild)
				children.DELETE("/:id", controllers.DeleteChild)

				children.GET("/:id/schedule", controllers.GetChildSchedule)
				children.GET("/:id/schedule/stats", controllers.GetChildScheduleStats)
				children.GET("/:id/schedule/upcoming", controllers.GetChildUpcomingVaccines)
			}

			notifications := parent.Group("/notifications")
			{
				notifications.GET("/preferences", controllers.GetNotificationPreferences)
				notifications.PUT("/preferences", controllers.UpdateNotificationPreferences)
				notifications.GET("/scheduled", controllers.GetScheduledReminders)
			}

			parent.GET("/dashboard", controllers.GetDashboardOverview)
		}

		// Doctor routes
		doctor := api.Group("/doctor", utils.RequireRole(models.RoleDoctor))
		{
			doctor.GET("/patients", controllers.GetPatients)
			doctor.GET("/patients/:id/schedule", controllers.GetPatientSchedule)
			doctor.GET("/patients/:id/records", controllers.GetChildRecords)
			doctor.POST("/vaccinations", controllers.RecordVaccination)
		}
	}

	return r
}
