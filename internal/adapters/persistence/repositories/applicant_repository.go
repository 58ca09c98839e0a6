package repositories

import (
	"context"

	"quickpaisa-backend/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// applicantRepository implements ApplicantRepository interface
type applicantRepository struct {
	db *gorm.DB
}

// NewApplicantRepository creates a new applicant repository
func NewApplicantRepository(db *gorm.DB) ApplicantRepository {
	return &applicantRepository{db: db}
}

// Create creates a new applicant
func (r *applicantRepository) Create(ctx context.Context, applicant *models.Applicant) error {
	return r.db.WithContext(ctx).Create(applicant).Error
}

// GetByID gets an applicant by ID with KYC preloaded
func (r *applicantRepository) GetByID(ctx context.Context, id uint) (*models.Applicant, error) {
	var applicant models.Applicant
	err := r.db.WithContext(ctx).Preload("KYC").Where("id = ?", id).First(&applicant).Error
	if err != nil {
		return nil, err
	}
	return &applicant, nil
}

// GetByPhone gets an applicant by phone number with KYC preloaded
func (r *applicantRepository) GetByPhone(ctx context.Context, phone string) (*models.Applicant, error) {
	var applicant models.Applicant
	err := r.db.WithContext(ctx).Preload("KYC").Where("phone_number = ?", phone).First(&applicant).Error
	if err != nil {
		return nil, err
	}
	return &applicant, nil
}

// Update updates an applicant
func (r *applicantRepository) Update(ctx context.Context, applicant *models.Applicant) error {
	return r.db.WithContext(ctx).Save(applicant).Error
}

// Delete soft deletes an applicant
func (r *applicantRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Applicant{}, id).Error
}

// List lists applicants with pagination
func (r *applicantRepository) List(ctx context.Context, offset, limit int) ([]*models.Applicant, int64, error) {
	var applicants []*models.Applicant
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Applicant{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).Preload("KYC").Offset(offset).Limit(limit).Order("id DESC").Find(&applicants).Error; err != nil {
		return nil, 0, err
	}

	return applicants, total, nil
}

// ExistsByPhone checks if a phone number is already registered
func (r *applicantRepository) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Applicant{}).Where("phone_number = ?", phone).Count(&count).Error
	return count > 0, err
}
