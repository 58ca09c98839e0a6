package repositories

import (
	"context"

	"quickpaisa-backend/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// settingsRepository implements SettingsRepository interface
type settingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository creates a new risk settings repository
func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

// GetActive gets the currently active risk settings row
func (r *settingsRepository) GetActive(ctx context.Context) (*models.RiskSettings, error) {
	var settings models.RiskSettings
	err := r.db.WithContext(ctx).Where("is_active = ?", true).First(&settings).Error
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// Create creates a new risk settings row
func (r *settingsRepository) Create(ctx context.Context, settings *models.RiskSettings) error {
	return r.db.WithContext(ctx).Create(settings).Error
}

// DeactivateAll marks all risk settings rows inactive
func (r *settingsRepository) DeactivateAll(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Model(&models.RiskSettings{}).
		Where("is_active = ?", true).
		Update("is_active", false).Error
}

// List lists risk settings rows with pagination, newest first
func (r *settingsRepository) List(ctx context.Context, offset, limit int) ([]*models.RiskSettings, int64, error) {
	var rows []*models.RiskSettings
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.RiskSettings{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).Offset(offset).Limit(limit).Order("id DESC").Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}
