package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"quickpaisa-backend/internal/adapters/http/middleware"
	"quickpaisa-backend/internal/adapters/http/routes"
	"quickpaisa-backend/internal/adapters/persistence/models"
	"quickpaisa-backend/internal/adapters/persistence/repositories"
	"quickpaisa-backend/internal/config"
	"quickpaisa-backend/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	_ "quickpaisa-backend/docs" // Swagger docs
)

// @title QuickPaisa API
// @version 1.0
// @description QuickPaisa micro-loan platform v1.0 API
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@quickpaisa.in

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host api.quickpaisa.in
// @BasePath /api/v1
// @schemes https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	// Seed admin user, default risk policy and product catalog
	if err := config.NewSeeder(db).Run(); err != nil {
		log.Printf("⚠️ Warning: Failed to seed database: %v", err)
	}

	// Start scheduled jobs (overdue sweep, due reminders, token cleanup)
	reminderService := buildReminderService(db, cfg)
	if err := reminderService.Start(); err != nil {
		log.Fatalf("❌ Failed to start scheduler: %v", err)
	}
	defer reminderService.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "QuickPaisa API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes (pass db and cfg for dependency injection)
	routes.Setup(app, db, cfg)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// buildReminderService wires the background job dependencies
func buildReminderService(db *gorm.DB, cfg *config.Config) *services.ReminderService {
	loanRepo := repositories.NewLoanRepository(db)
	applicationRepo := repositories.NewApplicationRepository(db)
	applicantRepo := repositories.NewApplicantRepository(db)
	productRepo := repositories.NewProductRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	notifRepo := repositories.NewNotificationRepository(db)

	notifService := services.NewNotificationService(notifRepo, cfg)
	loanService := services.NewLoanService(loanRepo, applicationRepo, applicantRepo, productRepo, notifService)

	return services.NewReminderService(loanService, loanRepo, applicantRepo, refreshTokenRepo, notifService)
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
