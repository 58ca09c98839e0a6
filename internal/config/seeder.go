package config

import (
	"log"

	"quickpaisa-backend/internal/adapters/persistence/models"
	"quickpaisa-backend/internal/core/domain"
	"quickpaisa-backend/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedAdminUser(); err != nil {
		log.Printf("⚠️ Admin seeder skipped: %v", err)
	}
	if err := s.seedRiskSettings(); err != nil {
		log.Printf("⚠️ Risk settings seeder skipped: %v", err)
	}
	if err := s.seedLoanProducts(); err != nil {
		log.Printf("⚠️ Loan product seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedAdminUser seeds default admin user
// This is for development/testing only
// In production, create admin through secure process
func (s *Seeder) seedAdminUser() error {
	var count int64
	s.db.Model(&models.StaffUser{}).Where("role = ?", string(domain.RoleAdmin)).Count(&count)
	if count > 0 {
		return nil // Admin already exists
	}

	hashedPassword, err := password.Hash("admin123456")
	if err != nil {
		return err
	}

	admin := &models.StaffUser{
		Username: "admin",
		Email:    "admin@quickpaisa.in",
		Password: hashedPassword,
		Role:     string(domain.RoleAdmin),
		IsActive: true,
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Admin user created: %s", admin.Username)
	return nil
}

// seedRiskSettings seeds the default risk policy when none is active
func (s *Seeder) seedRiskSettings() error {
	var count int64
	s.db.Model(&models.RiskSettings{}).Where("is_active = ?", true).Count(&count)
	if count > 0 {
		return nil // Active policy already exists
	}

	settings := &models.RiskSettings{
		MinAge:                18,
		MaxAge:                60,
		MinCreditScore:        0,
		LowRiskThreshold:      30,
		MediumRiskThreshold:   60,
		AutoRoutingEnabled:    false,
		MaxAutoApprovalAmount: 25000,
		IsActive:              true,
	}

	if err := s.db.Create(settings).Error; err != nil {
		return err
	}

	log.Println("✅ Default risk settings created")
	return nil
}

// seedLoanProducts seeds the starter product catalog
func (s *Seeder) seedLoanProducts() error {
	var count int64
	s.db.Model(&models.LoanProduct{}).Count(&count)
	if count > 0 {
		return nil // Products already exist
	}

	products := []models.LoanProduct{
		{
			Code:         "NANO",
			Name:         "Nano Loan",
			Description:  "Small ticket loan for first-time borrowers",
			MinAmount:    1000,
			MaxAmount:    10000,
			InterestRate: 24.0,
			TenureDays:   30,
			Installments: 1,
			IsActive:     true,
		},
		{
			Code:         "FLEXI",
			Name:         "Flexi Loan",
			Description:  "Mid-size loan repaid in weekly installments",
			MinAmount:    10000,
			MaxAmount:    50000,
			InterestRate: 22.0,
			TenureDays:   90,
			Installments: 3,
			IsActive:     true,
		},
		{
			Code:         "PRIME",
			Name:         "Prime Loan",
			Description:  "Larger loan for repeat borrowers with clean history",
			MinAmount:    50000,
			MaxAmount:    200000,
			InterestRate: 18.0,
			TenureDays:   180,
			Installments: 6,
			IsActive:     true,
		},
	}

	if err := s.db.Create(&products).Error; err != nil {
		return err
	}

	log.Printf("✅ Loan products created: %d", len(products))
	return nil
}
