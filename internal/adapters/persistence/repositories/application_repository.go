package repositories

import (
	"context"

	"quickpaisa-backend/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// applicationRepository implements ApplicationRepository interface
type applicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository creates a new loan application repository
func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

// Create creates a new loan application
func (r *applicationRepository) Create(ctx context.Context, app *models.LoanApplication) error {
	return r.db.WithContext(ctx).Create(app).Error
}

// GetByID gets a loan application by ID with relations preloaded
func (r *applicationRepository) GetByID(ctx context.Context, id uint) (*models.LoanApplication, error) {
	var app models.LoanApplication
	err := r.db.WithContext(ctx).
		Preload("Applicant").
		Preload("Product").
		Where("id = ?", id).
		First(&app).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// GetByAppNo gets a loan application by application number
func (r *applicationRepository) GetByAppNo(ctx context.Context, appNo string) (*models.LoanApplication, error) {
	var app models.LoanApplication
	err := r.db.WithContext(ctx).
		Preload("Applicant").
		Preload("Product").
		Where("app_no = ?", appNo).
		First(&app).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// Update updates a loan application
func (r *applicationRepository) Update(ctx context.Context, app *models.LoanApplication) error {
	return r.db.WithContext(ctx).Save(app).Error
}

// List lists loan applications, optionally filtered by status
func (r *applicationRepository) List(ctx context.Context, status string, offset, limit int) ([]*models.LoanApplication, int64, error) {
	var apps []*models.LoanApplication
	var total int64

	query := r.db.WithContext(ctx).Model(&models.LoanApplication{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Preload("Applicant").Offset(offset).Limit(limit).Order("id DESC").Find(&apps).Error; err != nil {
		return nil, 0, err
	}

	return apps, total, nil
}

// ListByApplicant lists all applications for an applicant, newest first
func (r *applicationRepository) ListByApplicant(ctx context.Context, applicantID uint) ([]*models.LoanApplication, error) {
	var apps []*models.LoanApplication
	err := r.db.WithContext(ctx).
		Where("applicant_id = ?", applicantID).
		Order("id DESC").
		Find(&apps).Error
	return apps, err
}

// CountByStatus returns application counts grouped by status
func (r *applicationRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.LoanApplication{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make(map[string]int64, len(rows))
	for _, rw := range rows {
		result[rw.Status] = rw.Count
	}
	return result, nil
}

// CountByRiskCategory returns application counts grouped by risk category
func (r *applicationRepository) CountByRiskCategory(ctx context.Context) (map[string]int64, error) {
	type row struct {
		RiskCategory string
		Count        int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.LoanApplication{}).
		Select("risk_category, COUNT(*) as count").
		Where("risk_category IS NOT NULL").
		Group("risk_category").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make(map[string]int64, len(rows))
	for _, rw := range rows {
		result[rw.RiskCategory] = rw.Count
	}
	return result, nil
}
