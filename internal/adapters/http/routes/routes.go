package routes

import (
	"quickpaisa-backend/internal/adapters/http/handlers"
	"quickpaisa-backend/internal/adapters/http/middleware"
	"quickpaisa-backend/internal/adapters/persistence/repositories"
	"quickpaisa-backend/internal/config"
	"quickpaisa-backend/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all application routes
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Initialize repositories
	userRepo := repositories.NewStaffUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	applicantRepo := repositories.NewApplicantRepository(db)
	kycRepo := repositories.NewKYCRepository(db)
	otpRepo := repositories.NewOTPRepository(db)
	settingsRepo := repositories.NewSettingsRepository(db)
	productRepo := repositories.NewProductRepository(db)
	applicationRepo := repositories.NewApplicationRepository(db)
	loanRepo := repositories.NewLoanRepository(db)
	notifRepo := repositories.NewNotificationRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, refreshTokenRepo, cfg)
	notifService := services.NewNotificationService(notifRepo, cfg)
	otpService := services.NewOTPService(otpRepo, applicantRepo, notifService)
	settingsService := services.NewSettingsService(settingsRepo)
	applicantService := services.NewApplicantService(applicantRepo, kycRepo)
	kycService := services.NewKYCService(kycRepo, applicantRepo)
	productService := services.NewProductService(productRepo)
	applicationService := services.NewApplicationService(
		applicationRepo,
		applicantRepo,
		loanRepo,
		productRepo,
		settingsService,
		notifService,
	)
	loanService := services.NewLoanService(
		loanRepo,
		applicationRepo,
		applicantRepo,
		productRepo,
		notifService,
	)
	dashboardService := services.NewDashboardService(db, applicationRepo, loanRepo)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	applicantHandler := handlers.NewApplicantHandler(applicantService, otpService)
	kycHandler := handlers.NewKYCHandler(kycService)
	applicationHandler := handlers.NewApplicationHandler(applicationService)
	loanHandler := handlers.NewLoanHandler(loanService)
	settingsHandler := handlers.NewSettingsHandler(settingsService)
	productHandler := handlers.NewProductHandler(productService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// Root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 routes
	apiV1 := app.Group("/api/v1")
	setupAPIV1Routes(
		apiV1,
		healthHandler,
		authHandler,
		applicantHandler,
		kycHandler,
		applicationHandler,
		loanHandler,
		settingsHandler,
		productHandler,
		dashboardHandler,
		cfg,
	)
}

// setupAPIV1Routes configures API v1 routes
func setupAPIV1Routes(
	router fiber.Router,
	healthHandler *handlers.HealthHandler,
	authHandler *handlers.AuthHandler,
	applicantHandler *handlers.ApplicantHandler,
	kycHandler *handlers.KYCHandler,
	applicationHandler *handlers.ApplicationHandler,
	loanHandler *handlers.LoanHandler,
	settingsHandler *handlers.SettingsHandler,
	productHandler *handlers.ProductHandler,
	dashboardHandler *handlers.DashboardHandler,
	cfg *config.Config,
) {
	// API Info
	router.Get("/", healthHandler.APIInfo)

	// Staff auth routes
	authRoutes := router.Group("/auth")
	setupAuthRoutes(authRoutes, authHandler, cfg)

	// Applicant routes (registration and OTP are public)
	applicantRoutes := router.Group("/applicants")
	setupApplicantRoutes(applicantRoutes, applicantHandler, kycHandler, applicationHandler, loanHandler, cfg)

	// KYC review queue (Officer/Admin)
	kycRoutes := router.Group("/kyc")
	kycRoutes.Use(middleware.AuthMiddleware(cfg))
	kycRoutes.Use(middleware.OfficerOrAdmin())
	kycRoutes.Get("/pending", kycHandler.ListPending)

	// Application routes
	applicationRoutes := router.Group("/applications")
	setupApplicationRoutes(applicationRoutes, applicationHandler, loanHandler, cfg)

	// Loan routes (Officer/Admin)
	loanRoutes := router.Group("/loans")
	loanRoutes.Use(middleware.AuthMiddleware(cfg))
	loanRoutes.Use(middleware.OfficerOrAdmin())
	setupLoanRoutes(loanRoutes, loanHandler)

	// Installment routes (Officer/Admin)
	installmentRoutes := router.Group("/installments")
	installmentRoutes.Use(middleware.AuthMiddleware(cfg))
	installmentRoutes.Use(middleware.OfficerOrAdmin())
	installmentRoutes.Post("/:id/payment", loanHandler.RecordPayment)

	// Risk settings routes (Admin only for writes)
	settingsRoutes := router.Group("/settings")
	settingsRoutes.Use(middleware.AuthMiddleware(cfg))
	setupSettingsRoutes(settingsRoutes, settingsHandler)

	// Loan product routes
	productRoutes := router.Group("/products")
	setupProductRoutes(productRoutes, productHandler, cfg)

	// Dashboard routes (Officer/Admin)
	dashboardRoutes := router.Group("/dashboard")
	dashboardRoutes.Use(middleware.AuthMiddleware(cfg))
	dashboardRoutes.Use(middleware.OfficerOrAdmin())
	dashboardRoutes.Get("/", dashboardHandler.GetDashboard)
}

// setupAuthRoutes configures staff authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, cfg *config.Config) {
	// Token responses must never be cached
	router.Use(middleware.NoCacheHeaders())

	// Public routes (rate limited against brute force)
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/refresh", handler.RefreshToken)
	router.Post("/logout", handler.Logout)

	// Protected routes
	router.Post("/register", middleware.AuthMiddleware(cfg), middleware.AdminOnly(), handler.Register)
	router.Get("/me", middleware.AuthMiddleware(cfg), handler.Me)
	router.Post("/logout-all", middleware.AuthMiddleware(cfg), handler.LogoutAll)
}

// setupApplicantRoutes configures applicant routes
func setupApplicantRoutes(
	router fiber.Router,
	handler *handlers.ApplicantHandler,
	kycHandler *handlers.KYCHandler,
	applicationHandler *handlers.ApplicationHandler,
	loanHandler *handlers.LoanHandler,
	cfg *config.Config,
) {
	// PUBLIC - applicant self-registration (3 req/min/IP)
	router.Post("/", middleware.StrictRateLimiter(), handler.Register)

	// PUBLIC - OTP routes (3 req/min/IP, OTP spam + brute force protection)
	router.Post("/otp/request", middleware.StrictRateLimiter(), handler.RequestOTP)
	router.Post("/otp/verify", middleware.StrictRateLimiter(), handler.VerifyOTP)

	// Officer/Admin routes
	officerRoutes := router.Group("")
	officerRoutes.Use(middleware.AuthMiddleware(cfg))
	officerRoutes.Use(middleware.OfficerOrAdmin())

	officerRoutes.Get("/", handler.List)
	officerRoutes.Get("/:id", handler.Get)
	officerRoutes.Patch("/:id", handler.UpdateProfile)
	officerRoutes.Put("/:id/bank", handler.UpdateBankDetails)
	officerRoutes.Post("/:id/bank/verify", handler.VerifyBankAccount)
	officerRoutes.Put("/:id/credit", handler.UpdateCreditProfile)
	officerRoutes.Get("/:id/applications", applicationHandler.ListByApplicant)
	officerRoutes.Get("/:id/loans", loanHandler.ListByApplicant)

	// KYC lifecycle for one applicant
	officerRoutes.Get("/:id/kyc", kycHandler.Get)
	officerRoutes.Post("/:id/kyc/documents", kycHandler.SubmitDocuments)
	officerRoutes.Post("/:id/kyc/review", kycHandler.Review)
	officerRoutes.Post("/:id/kyc/expire", kycHandler.Expire)

	// Admin only
	adminRoutes := router.Group("")
	adminRoutes.Use(middleware.AuthMiddleware(cfg))
	adminRoutes.Use(middleware.AdminOnly())
	adminRoutes.Put("/:id/flags", handler.UpdateFlags)
}

// setupApplicationRoutes configures loan application routes
func setupApplicationRoutes(
	router fiber.Router,
	handler *handlers.ApplicationHandler,
	loanHandler *handlers.LoanHandler,
	cfg *config.Config,
) {
	// PUBLIC - application intake and lookup by number (5 req/min/IP)
	router.Post("/", middleware.AuthRateLimiter(), handler.Apply)
	router.Get("/number/:appNo", handler.GetByAppNo)

	// Officer/Admin routes
	officerRoutes := router.Group("")
	officerRoutes.Use(middleware.AuthMiddleware(cfg))
	officerRoutes.Use(middleware.OfficerOrAdmin())

	officerRoutes.Get("/", handler.List)
	officerRoutes.Get("/:id", handler.Get)
	officerRoutes.Post("/:id/approve", handler.Approve)
	officerRoutes.Post("/:id/reject", handler.Reject)
	officerRoutes.Post("/:id/disburse", loanHandler.Disburse)
}

// setupLoanRoutes configures loan ledger routes (Officer/Admin)
func setupLoanRoutes(router fiber.Router, handler *handlers.LoanHandler) {
	router.Get("/", handler.List)
	router.Get("/:id", handler.Get)
}

// setupSettingsRoutes configures risk settings routes
func setupSettingsRoutes(router fiber.Router, handler *handlers.SettingsHandler) {
	// Officer/Admin can read the active policy
	router.Get("/risk", middleware.OfficerOrAdmin(), handler.GetActive)
	router.Get("/risk/history", middleware.OfficerOrAdmin(), handler.History)

	// Admin only can change it
	router.Put("/risk", middleware.AdminOnly(), handler.Update)
}

// setupProductRoutes configures loan product routes
func setupProductRoutes(router fiber.Router, handler *handlers.ProductHandler, cfg *config.Config) {
	// PUBLIC - product catalog, cacheable master data
	router.Get("/", middleware.MasterDataCache(), handler.List)
	router.Get("/:id", middleware.MasterDataCache(), handler.Get)

	// Admin only
	adminRoutes := router.Group("")
	adminRoutes.Use(middleware.AuthMiddleware(cfg))
	adminRoutes.Use(middleware.AdminOnly())
	adminRoutes.Post("/", handler.Create)
	adminRoutes.Put("/:id", handler.Update)
	adminRoutes.Delete("/:id", handler.Delete)
}
