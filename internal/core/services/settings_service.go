package services

import (
	"context"
	"errors"
	"log"

	"quickpaisa-backend/internal/adapters/persistence/models"
	"quickpaisa-backend/internal/adapters/persistence/repositories"
	"quickpaisa-backend/internal/core/risk"

	"gorm.io/gorm"
)

// Settings errors
var (
	ErrNoActiveSettings = errors.New("no active risk settings")
)

// SettingsService manages the active risk policy. Updates create a new row and
// deactivate the previous one, so every historical decision can be traced back
// to the policy that produced it.
type SettingsService struct {
	settingsRepo repositories.SettingsRepository
}

// NewSettingsService creates a new settings service
func NewSettingsService(settingsRepo repositories.SettingsRepository) *SettingsService {
	return &SettingsService{settingsRepo: settingsRepo}
}

// SettingsInput represents a risk settings update
type SettingsInput struct {
	MinAge                int     `json:"min_age" validate:"required"`
	MaxAge                int     `json:"max_age" validate:"required"`
	MinCreditScore        int     `json:"min_credit_score"`
	LowRiskThreshold      int     `json:"low_risk_threshold" validate:"required"`
	MediumRiskThreshold   int     `json:"medium_risk_threshold" validate:"required"`
	AutoRoutingEnabled    bool    `json:"auto_routing_enabled"`
	MaxAutoApprovalAmount float64 `json:"max_auto_approval_amount"`
}

// ToSnapshot converts a settings row into an immutable policy snapshot
func ToSnapshot(settings *models.RiskSettings) risk.PolicySnapshot {
	return risk.PolicySnapshot{
		MinAge:                settings.MinAge,
		MaxAge:                settings.MaxAge,
		MinCreditScore:        settings.MinCreditScore,
		LowRiskThreshold:      settings.LowRiskThreshold,
		MediumRiskThreshold:   settings.MediumRiskThreshold,
		AutoRoutingEnabled:    settings.AutoRoutingEnabled,
		MaxAutoApprovalAmount: settings.MaxAutoApprovalAmount,
	}
}

// DefaultSettings returns the policy used when no row has been configured yet
func DefaultSettings() *models.RiskSettings {
	return &models.RiskSettings{
		MinAge:                18,
		MaxAge:                60,
		MinCreditScore:        0,
		LowRiskThreshold:      30,
		MediumRiskThreshold:   60,
		AutoRoutingEnabled:    false,
		MaxAutoApprovalAmount: 25000,
		IsActive:              true,
	}
}

// GetActive returns the currently active settings row
func (s *SettingsService) GetActive(ctx context.Context) (*models.RiskSettings, error) {
	settings, err := s.settingsRepo.GetActive(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveSettings
		}
		return nil, err
	}
	return settings, nil
}

// GetActiveSnapshot returns the active policy as an immutable snapshot.
// Falls back to the default policy when no row is active.
func (s *SettingsService) GetActiveSnapshot(ctx context.Context) (risk.PolicySnapshot, error) {
	settings, err := s.settingsRepo.GetActive(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ToSnapshot(DefaultSettings()), nil
		}
		return risk.PolicySnapshot{}, err
	}
	return ToSnapshot(settings), nil
}

// Update validates the new policy, deactivates the current row and activates
// the new one
func (s *SettingsService) Update(ctx context.Context, input *SettingsInput, updatedBy uint) (*models.RiskSettings, error) {
	settings := &models.RiskSettings{
		MinAge:                input.MinAge,
		MaxAge:                input.MaxAge,
		MinCreditScore:        input.MinCreditScore,
		LowRiskThreshold:      input.LowRiskThreshold,
		MediumRiskThreshold:   input.MediumRiskThreshold,
		AutoRoutingEnabled:    input.AutoRoutingEnabled,
		MaxAutoApprovalAmount: input.MaxAutoApprovalAmount,
		IsActive:              true,
		UpdatedBy:             &updatedBy,
	}

	if err := ToSnapshot(settings).Validate(); err != nil {
		return nil, err
	}

	if err := s.settingsRepo.DeactivateAll(ctx); err != nil {
		return nil, err
	}
	if err := s.settingsRepo.Create(ctx, settings); err != nil {
		return nil, err
	}

	log.Printf("✅ Risk settings updated by user ID %d (low=%d medium=%d auto=%v)",
		updatedBy, settings.LowRiskThreshold, settings.MediumRiskThreshold, settings.AutoRoutingEnabled)

	return settings, nil
}

// History lists settings rows, newest first
func (s *SettingsService) History(ctx context.Context, offset, limit int) ([]*models.RiskSettings, int64, error) {
	return s.settingsRepo.List(ctx, offset, limit)
}
