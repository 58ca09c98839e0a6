package repositories

import (
	"context"
	"time"

	"quickpaisa-backend/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// otpRepository implements OTPRepository interface
type otpRepository struct {
	db *gorm.DB
}

// NewOTPRepository creates a new OTP repository
func NewOTPRepository(db *gorm.DB) OTPRepository {
	return &otpRepository{db: db}
}

// Create creates a new OTP request
func (r *otpRepository) Create(ctx context.Context, otp *models.OTPRequest) error {
	return r.db.WithContext(ctx).Create(otp).Error
}

// GetLatest gets the most recent OTP request for a phone number and purpose
func (r *otpRepository) GetLatest(ctx context.Context, phone, purpose string) (*models.OTPRequest, error) {
	var otp models.OTPRequest
	err := r.db.WithContext(ctx).
		Where("phone_number = ? AND purpose = ?", phone, purpose).
		Order("created_at DESC").
		First(&otp).Error
	if err != nil {
		return nil, err
	}
	return &otp, nil
}

// Update updates an OTP request
func (r *otpRepository) Update(ctx context.Context, otp *models.OTPRequest) error {
	return r.db.WithContext(ctx).Save(otp).Error
}

// CountRecent counts OTP requests for a phone number since the given time
func (r *otpRepository) CountRecent(ctx context.Context, phone string, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.OTPRequest{}).
		Where("phone_number = ? AND created_at >= ?", phone, since).
		Count(&count).Error
	return count, err
}
