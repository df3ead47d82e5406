package main

import (
	"fmt"
	"log"
	"os"
	"vaxtracker-backend/config"
	"vaxtracker-backend/controllers"
	"vaxtracker-backend/models"
	"vaxtracker-backend/routes"
	"vaxtracker-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	config.ConnectDB()

	config.DB.AutoMigrate(
		&models.User{},
		&models.Child{},
		&models.VaccinationRecord{},
		&models.NotificationPreference{},
		&models.ReminderLog{},
	)
}

func main() {
	// The immunization calendar is reference data; a broken catalog is a
	// fatal configuration error.
	catalog := services.DefaultCatalog()
	if err := catalog.Validate(); err != nil {
		log.Fatalf("Invalid immunization calendar: %v", err)
	}
	controllers.SetCatalog(catalog)

	reminderService := services.NewReminderService(config.DB, catalog)
	reminderService.StartScheduler()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r := routes.SetupRouter()
	printRoutes(r)
	r.Run(":" + port)
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
