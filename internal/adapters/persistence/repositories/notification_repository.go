package repositories

import (
	"context"

	"quickpaisa-backend/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// notificationRepository implements NotificationRepository interface
type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new notification log repository
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

// Create creates a new notification log entry
func (r *notificationRepository) Create(ctx context.Context, entry *models.NotificationLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// ListByApplicant lists notification log entries for an applicant, newest first
func (r *notificationRepository) ListByApplicant(ctx context.Context, applicantID uint, offset, limit int) ([]*models.NotificationLog, int64, error) {
	var entries []*models.NotificationLog
	var total int64

	query := r.db.WithContext(ctx).Model(&models.NotificationLog{}).Where("applicant_id = ?", applicantID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Offset(offset).Limit(limit).Order("id DESC").Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}
