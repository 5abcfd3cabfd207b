package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/scanbite/qrmenu/config"
	"github.com/scanbite/qrmenu/models"
	"github.com/scanbite/qrmenu/router"
	"github.com/scanbite/qrmenu/services"
	"github.com/scanbite/qrmenu/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	utils.InitLogger()

	db, err := config.InitDB()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	autoMigrate(db)

	if err := config.SeedCommission(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to seed commission: %v", err)
	}
	if err := config.SeedSuperAdmin(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to seed super admin: %v", err)
	}

	paystack := services.NewPaystackServiceFromEnv()
	var provider services.PaymentProvider = paystack
	if os.Getenv("PAYMENT_PROVIDER") == "stripe" {
		stripe := services.NewStripeServiceFromEnv()
		if err := stripe.ValidateConfig(); err != nil {
			utils.ErrorLogger.Fatalf("Stripe config invalid: %v", err)
		}
		provider = stripe
	} else if err := paystack.ValidateConfig(); err != nil {
		utils.ErrorLogger.Printf("Warning: %v", err)
	}

	r := router.SetupRouter(db, provider, paystack)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	utils.InfoLogger.Printf("Listening on port %s", port)
	if err := r.Run(":" + port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}

func autoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.Admin{},
		&models.Menu{},
		&models.MenuItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Payment{},
		&models.Commission{},
	)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
}
