package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"quickpaisa-backend/internal/adapters/persistence/models"
	"quickpaisa-backend/internal/adapters/persistence/repositories"
	"quickpaisa-backend/internal/core/risk"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Application errors
var (
	ErrApplicationNotFound = errors.New("loan application not found")
	ErrApplicationNotOpen  = errors.New("loan application is not under review")
	ErrInvalidAmount       = errors.New("requested amount must be positive")
	ErrAmountOutOfRange    = errors.New("requested amount outside product limits")
	ErrProductNotFound     = errors.New("loan product not found")
	ErrProductInactive     = errors.New("loan product is not active")
)

// userNotFoundMessage is the hard-failure message returned when the phone
// number resolves to no applicant. This check precedes the eligibility gate.
const userNotFoundMessage = "User not found"

// ApplicationService orchestrates the decision flow: it loads the applicant
// snapshot and the active policy, runs the risk engine and persists the
// resulting decision as the application's audit record.
type ApplicationService struct {
	applicationRepo repositories.ApplicationRepository
	applicantRepo   repositories.ApplicantRepository
	loanRepo        repositories.LoanRepository
	productRepo     repositories.ProductRepository
	settingsService *SettingsService
	notifService    *NotificationService
}

// NewApplicationService creates a new application service
func NewApplicationService(
	applicationRepo repositories.ApplicationRepository,
	applicantRepo repositories.ApplicantRepository,
	loanRepo repositories.LoanRepository,
	productRepo repositories.ProductRepository,
	settingsService *SettingsService,
	notifService *NotificationService,
) *ApplicationService {
	return &ApplicationService{
		applicationRepo: applicationRepo,
		applicantRepo:   applicantRepo,
		loanRepo:        loanRepo,
		productRepo:     productRepo,
		settingsService: settingsService,
		notifService:    notifService,
	}
}

// ApplyInput represents a loan application submission
type ApplyInput struct {
	PhoneNumber string  `json:"phone_number" validate:"required"`
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	ProductID   *uint   `json:"product_id"`
}

// ReviewInput represents a manual review decision
type ReviewInput struct {
	Remark string `json:"remark"`
}

// ApplicationResult bundles the stored application with the engine decision
type ApplicationResult struct {
	Application *models.LoanApplication `json:"application"`
	Decision    risk.Decision           `json:"decision"`
}

// Apply evaluates and persists a new loan application. The same submission
// always produces the same decision for unchanged applicant data and policy.
func (s *ApplicationService) Apply(ctx context.Context, input *ApplyInput) (*ApplicationResult, error) {
	if input.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	// Validate against the product's limits when a product is chosen
	if input.ProductID != nil {
		product, err := s.productRepo.GetByID(ctx, *input.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrProductNotFound
			}
			return nil, err
		}
		if !product.IsActive {
			return nil, ErrProductInactive
		}
		if input.Amount < product.MinAmount || input.Amount > product.MaxAmount {
			return nil, ErrAmountOutOfRange
		}
	}

	app := &models.LoanApplication{
		AppNo:       newAppNo(),
		PhoneNumber: input.PhoneNumber,
		ProductID:   input.ProductID,
		Amount:      input.Amount,
	}

	// Resolve the applicant. An unknown phone number is a hard failure that
	// precedes the eligibility gate: no assessment is produced.
	applicant, err := s.applicantRepo.GetByPhone(ctx, input.PhoneNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			decision := risk.Decision{
				Action:  risk.ActionReject,
				Status:  risk.StatusRejected,
				Message: userNotFoundMessage,
			}
			applyDecision(app, decision)
			if err := s.applicationRepo.Create(ctx, app); err != nil {
				return nil, err
			}
			log.Printf("❌ Application %s rejected: unknown phone number", app.AppNo)
			return &ApplicationResult{Application: app, Decision: decision}, nil
		}
		return nil, err
	}
	app.ApplicantID = &applicant.ID

	policy, err := s.settingsService.GetActiveSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	history, err := s.buildHistory(ctx, applicant.ID)
	if err != nil {
		return nil, err
	}

	decision := risk.Evaluate(
		toRiskApplicant(applicant),
		toRiskKYC(applicant.KYC),
		input.Amount,
		policy,
		history,
		time.Now(),
	)

	applyDecision(app, decision)
	if err := s.applicationRepo.Create(ctx, app); err != nil {
		return nil, err
	}

	log.Printf("📋 Application %s decided: %s (%s)", app.AppNo, decision.Action, decision.Status)
	s.notifService.NotifyDecision(ctx, app)

	return &ApplicationResult{Application: app, Decision: decision}, nil
}

// GetByID gets an application by ID
func (s *ApplicationService) GetByID(ctx context.Context, id uint) (*models.LoanApplication, error) {
	app, err := s.applicationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return app, nil
}

// GetByAppNo gets an application by application number
func (s *ApplicationService) GetByAppNo(ctx context.Context, appNo string) (*models.LoanApplication, error) {
	app, err := s.applicationRepo.GetByAppNo(ctx, appNo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return app, nil
}

// List lists applications, optionally filtered by status
func (s *ApplicationService) List(ctx context.Context, status string, offset, limit int) ([]*models.LoanApplication, int64, error) {
	return s.applicationRepo.List(ctx, status, offset, limit)
}

// ListByApplicant lists all applications of one applicant
func (s *ApplicationService) ListByApplicant(ctx context.Context, applicantID uint) ([]*models.LoanApplication, error) {
	return s.applicationRepo.ListByApplicant(ctx, applicantID)
}

// Approve applies a manual approval to an application under review
func (s *ApplicationService) Approve(ctx context.Context, id, reviewerID uint, input *ReviewInput) (*models.LoanApplication, error) {
	return s.review(ctx, id, reviewerID, models.AppStatusApproved, input.Remark)
}

// Reject applies a manual rejection to an application under review
func (s *ApplicationService) Reject(ctx context.Context, id, reviewerID uint, input *ReviewInput) (*models.LoanApplication, error) {
	return s.review(ctx, id, reviewerID, models.AppStatusRejected, input.Remark)
}

func (s *ApplicationService) review(ctx context.Context, id, reviewerID uint, newStatus, remark string) (*models.LoanApplication, error) {
	app, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if app.Status != models.AppStatusUnderReview {
		return nil, ErrApplicationNotOpen
	}

	now := time.Now()
	app.Status = newStatus
	app.ReviewedBy = &reviewerID
	app.ReviewedAt = &now
	app.Remark = remark

	if err := s.applicationRepo.Update(ctx, app); err != nil {
		return nil, err
	}

	log.Printf("✅ Application %s %s by reviewer %d", app.AppNo, newStatus, reviewerID)
	s.notifService.NotifyDecision(ctx, app)

	return app, nil
}

// buildHistory loads the applicant's prior loans and reduces each to its
// terminal status and worst observed days-overdue
func (s *ApplicationService) buildHistory(ctx context.Context, applicantID uint) (risk.History, error) {
	loans, err := s.loanRepo.ListByApplicant(ctx, applicantID)
	if err != nil {
		return nil, err
	}

	history := make(risk.History, 0, len(loans))
	for _, loan := range loans {
		rec := risk.LoanRecord{Status: toRiskLoanStatus(loan.Status)}

		var worst *int
		for i := range loan.Installments {
			d := loan.Installments[i].DaysOverdue
			if d != nil && (worst == nil || *d > *worst) {
				worst = d
			}
		}
		rec.DaysOverdue = worst

		history = append(history, rec)
	}
	return history, nil
}

// applyDecision copies the engine output onto the application row
func applyDecision(app *models.LoanApplication, decision risk.Decision) {
	app.Action = string(decision.Action)
	app.Status = decision.Status
	app.Message = decision.Message

	if decision.Assessment != nil {
		score := decision.Assessment.Score
		category := string(decision.Assessment.Category)
		app.RiskScore = &score
		app.RiskCategory = &category

		if factors, err := json.Marshal(decision.Assessment.Factors); err == nil {
			app.RiskFactors = string(factors)
		}
	}
}

// toRiskApplicant builds the engine's point-in-time applicant snapshot
func toRiskApplicant(a *models.Applicant) risk.Applicant {
	return risk.Applicant{
		PhoneNumber:            a.PhoneNumber,
		DateOfBirth:            a.DateOfBirth,
		IsBlocked:              a.IsBlocked,
		FraudFlag:              a.FraudFlag,
		MultipleAccountsFlag:   a.MultipleAccountsFlag,
		SuspiciousActivityFlag: a.SuspiciousActivityFlag,
		BureauScore:            a.BureauScore,
		CreditLimit:            a.CreditLimit,
		UsedCredit:             a.UsedCredit,
		BankVerified:           a.BankVerified,
		BankAccountNumber:      a.BankAccountNumber,
	}
}

// toRiskKYC maps the stored KYC record; a missing record means NOT_STARTED
func toRiskKYC(k *models.KYCRecord) risk.KYCRecord {
	if k == nil {
		return risk.KYCRecord{Status: risk.KYCNotStarted}
	}
	return risk.KYCRecord{
		Status:          risk.VerificationStatus(k.Status),
		InternalScore:   k.InternalScore,
		HasPrimaryID:    k.HasPrimaryID,
		HasAddressProof: k.HasAddressProof,
		HasSelfie:       k.HasSelfie,
	}
}

// toRiskLoanStatus reduces the ledger status to the engine's three buckets
func toRiskLoanStatus(status string) risk.LoanStatus {
	switch status {
	case models.LoanStatusRepaid:
		return risk.LoanRepaid
	case models.LoanStatusOverdue:
		return risk.LoanOverdue
	default:
		return risk.LoanOther
	}
}

// newAppNo generates a unique application number
func newAppNo() string {
	return fmt.Sprintf("QP-%s-%s",
		time.Now().Format("20060102"),
		strings.ToUpper(uuid.New().String()[:8]))
}
