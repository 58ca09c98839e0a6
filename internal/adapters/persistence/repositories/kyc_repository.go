package repositories

import (
	"context"

	"quickpaisa-backend/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// kycRepository implements KYCRepository interface
type kycRepository struct {
	db *gorm.DB
}

// NewKYCRepository creates a new KYC repository
func NewKYCRepository(db *gorm.DB) KYCRepository {
	return &kycRepository{db: db}
}

// Create creates a new KYC record
func (r *kycRepository) Create(ctx context.Context, record *models.KYCRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// GetByApplicantID gets the KYC record for an applicant
func (r *kycRepository) GetByApplicantID(ctx context.Context, applicantID uint) (*models.KYCRecord, error) {
	var record models.KYCRecord
	err := r.db.WithContext(ctx).Where("applicant_id = ?", applicantID).First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Update updates a KYC record
func (r *kycRepository) Update(ctx context.Context, record *models.KYCRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}

// ListByStatus lists KYC records in a given status with pagination
func (r *kycRepository) ListByStatus(ctx context.Context, status string, offset, limit int) ([]*models.KYCRecord, int64, error) {
	var records []*models.KYCRecord
	var total int64

	query := r.db.WithContext(ctx).Model(&models.KYCRecord{}).Where("status = ?", status)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Preload("Applicant").Offset(offset).Limit(limit).Order("updated_at ASC").Find(&records).Error; err != nil {
		return nil, 0, err
	}

	return records, total, nil
}
