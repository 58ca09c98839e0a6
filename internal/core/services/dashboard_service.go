package services

import (
	"context"
	"time"

	"quickpaisa-backend/internal/adapters/persistence/models"
	"quickpaisa-backend/internal/adapters/persistence/repositories"

	"gorm.io/gorm"
)

// DashboardService aggregates portfolio and pipeline statistics
type DashboardService struct {
	db              *gorm.DB
	applicationRepo repositories.ApplicationRepository
	loanRepo        repositories.LoanRepository
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	db *gorm.DB,
	applicationRepo repositories.ApplicationRepository,
	loanRepo repositories.LoanRepository,
) *DashboardService {
	return &DashboardService{
		db:              db,
		applicationRepo: applicationRepo,
		loanRepo:        loanRepo,
	}
}

// DashboardData represents the operations dashboard
type DashboardData struct {
	// Applicant pipeline
	TotalApplicants int64 `json:"total_applicants"`
	PendingKYC      int64 `json:"pending_kyc"`
	BlockedCount    int64 `json:"blocked_count"`

	// Application pipeline
	TotalApplications    int64            `json:"total_applications"`
	ApplicationsByStatus map[string]int64 `json:"applications_by_status"`
	ApplicationsByRisk   map[string]int64 `json:"applications_by_risk"`

	// This month
	ApplicationsThisMonth int64   `json:"applications_this_month"`
	AmountThisMonth       float64 `json:"amount_this_month"`

	// Portfolio
	ActiveLoans    int64   `json:"active_loans"`
	OverdueLoans   int64   `json:"overdue_loans"`
	TotalDisbursed float64 `json:"total_disbursed"`

	// Recent activity
	RecentApplications []ApplicationSummary `json:"recent_applications"`
}

// ApplicationSummary represents one row in the recent activity list
type ApplicationSummary struct {
	ID           uint      `json:"id"`
	AppNo        string    `json:"app_no"`
	PhoneNumber  string    `json:"phone_number"`
	Amount       float64   `json:"amount"`
	Status       string    `json:"status"`
	RiskCategory string    `json:"risk_category"`
	CreatedAt    time.Time `json:"created_at"`
}

// GetDashboard returns the operations dashboard data
func (s *DashboardService) GetDashboard(ctx context.Context) (*DashboardData, error) {
	data := &DashboardData{}

	// Applicant pipeline
	s.db.WithContext(ctx).Table("applicants").Where("deleted_at IS NULL").Count(&data.TotalApplicants)
	s.db.WithContext(ctx).Table("kyc_records").Where("status = ?", models.KYCStatusPending).Count(&data.PendingKYC)
	s.db.WithContext(ctx).Table("applicants").Where("is_blocked = ? AND deleted_at IS NULL", true).Count(&data.BlockedCount)

	// Application pipeline
	s.db.WithContext(ctx).Table("loan_applications").Count(&data.TotalApplications)

	byStatus, err := s.applicationRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	data.ApplicationsByStatus = byStatus

	byRisk, err := s.applicationRepo.CountByRiskCategory(ctx)
	if err != nil {
		return nil, err
	}
	data.ApplicationsByRisk = byRisk

	// This month statistics
	startOfMonth := time.Now().AddDate(0, 0, -time.Now().Day()+1).Truncate(24 * time.Hour)
	s.db.WithContext(ctx).Table("loan_applications").
		Where("created_at >= ?", startOfMonth).
		Count(&data.ApplicationsThisMonth)

	s.db.WithContext(ctx).Table("loan_applications").
		Where("created_at >= ?", startOfMonth).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&data.AmountThisMonth)

	// Portfolio
	s.db.WithContext(ctx).Table("loans").Where("status = ?", models.LoanStatusActive).Count(&data.ActiveLoans)
	s.db.WithContext(ctx).Table("loans").Where("status = ?", models.LoanStatusOverdue).Count(&data.OverdueLoans)

	totalDisbursed, err := s.loanRepo.SumDisbursed(ctx)
	if err != nil {
		return nil, err
	}
	data.TotalDisbursed = totalDisbursed

	// Recent applications
	var recent []struct {
		ID           uint
		AppNo        string
		PhoneNumber  string
		Amount       float64
		Status       string
		RiskCategory *string
		CreatedAt    time.Time
	}
	s.db.WithContext(ctx).Table("loan_applications").
		Select("id, app_no, phone_number, amount, status, risk_category, created_at").
		Order("created_at DESC").
		Limit(10).
		Scan(&recent)

	data.RecentApplications = make([]ApplicationSummary, len(recent))
	for i, r := range recent {
		category := ""
		if r.RiskCategory != nil {
			category = *r.RiskCategory
		}
		data.RecentApplications[i] = ApplicationSummary{
			ID:           r.ID,
			AppNo:        r.AppNo,
			PhoneNumber:  r.PhoneNumber,
			Amount:       r.Amount,
			Status:       r.Status,
			RiskCategory: category,
			CreatedAt:    r.CreatedAt,
		}
	}

	return data, nil
}
