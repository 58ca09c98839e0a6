package services

import (
	"context"
	"errors"
	"log"
	"math"
	"time"

	"quickpaisa-backend/internal/adapters/persistence/models"
	"quickpaisa-backend/internal/adapters/persistence/repositories"

	"gorm.io/gorm"
)

// Loan errors
var (
	ErrLoanNotFound           = errors.New("loan not found")
	ErrInstallmentNotFound    = errors.New("installment not found")
	ErrInstallmentAlreadyPaid = errors.New("installment already paid")
	ErrApplicationNotApproved = errors.New("application is not approved")
	ErrLoanAlreadyDisbursed   = errors.New("loan already disbursed for this application")
)

// Default terms used when an application has no product attached
const (
	defaultTenureDays   = 30
	defaultInstallments = 1
	defaultInterestRate = 24.0
)

// LoanService manages the disbursement ledger and repayments
type LoanService struct {
	loanRepo        repositories.LoanRepository
	applicationRepo repositories.ApplicationRepository
	applicantRepo   repositories.ApplicantRepository
	productRepo     repositories.ProductRepository
	notifService    *NotificationService
}

// NewLoanService creates a new loan service
func NewLoanService(
	loanRepo repositories.LoanRepository,
	applicationRepo repositories.ApplicationRepository,
	applicantRepo repositories.ApplicantRepository,
	productRepo repositories.ProductRepository,
	notifService *NotificationService,
) *LoanService {
	return &LoanService{
		loanRepo:        loanRepo,
		applicationRepo: applicationRepo,
		applicantRepo:   applicantRepo,
		productRepo:     productRepo,
		notifService:    notifService,
	}
}

// RecordPaymentInput represents an installment payment
type RecordPaymentInput struct {
	Amount float64    `json:"amount" validate:"required,gt=0"`
	PaidAt *time.Time `json:"paid_at"`
}

// Disburse creates the loan ledger entry for an approved application,
// generates its installment schedule and books the amount against the
// applicant's credit line
func (s *LoanService) Disburse(ctx context.Context, applicationID uint) (*models.Loan, error) {
	app, err := s.applicationRepo.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}

	if app.Status == models.AppStatusDisbursed {
		return nil, ErrLoanAlreadyDisbursed
	}
	if app.Status != models.AppStatusApproved || app.ApplicantID == nil {
		return nil, ErrApplicationNotApproved
	}

	// Loan terms come from the product, or defaults for productless applications
	tenureDays := defaultTenureDays
	installments := defaultInstallments
	interestRate := defaultInterestRate
	if app.ProductID != nil {
		product, err := s.productRepo.GetByID(ctx, *app.ProductID)
		if err == nil {
			tenureDays = product.TenureDays
			installments = product.Installments
			interestRate = product.InterestRate
		}
	}

	now := time.Now()
	dueDate := now.AddDate(0, 0, tenureDays)

	loan := &models.Loan{
		ApplicationID: app.ID,
		ApplicantID:   *app.ApplicantID,
		Principal:     app.Amount,
		InterestRate:  interestRate,
		TenureDays:    tenureDays,
		Status:        models.LoanStatusActive,
		DisbursedAt:   now,
		DueDate:       dueDate,
	}
	if err := s.loanRepo.Create(ctx, loan); err != nil {
		return nil, err
	}

	if err := s.createSchedule(ctx, loan, installments); err != nil {
		return nil, err
	}

	// Book the principal against the credit line
	applicant, err := s.applicantRepo.GetByID(ctx, *app.ApplicantID)
	if err == nil {
		applicant.UsedCredit += loan.Principal
		if err := s.applicantRepo.Update(ctx, applicant); err != nil {
			return nil, err
		}
	}

	app.Status = models.AppStatusDisbursed
	if err := s.applicationRepo.Update(ctx, app); err != nil {
		return nil, err
	}

	log.Printf("💸 Loan #%d disbursed for application %s (%.2f over %d days)",
		loan.ID, app.AppNo, loan.Principal, tenureDays)
	s.notifService.NotifyDisbursement(ctx, loan, app.PhoneNumber)

	return s.loanRepo.GetByID(ctx, loan.ID)
}

// createSchedule generates equal installments over the tenure. Interest is
// flat over the tenure, spread evenly across installments.
func (s *LoanService) createSchedule(ctx context.Context, loan *models.Loan, count int) error {
	if count < 1 {
		count = 1
	}

	totalPayable := loan.Principal * (1 + loan.InterestRate/100*float64(loan.TenureDays)/365)
	perInstallment := math.Round(totalPayable/float64(count)*100) / 100

	step := loan.TenureDays / count
	schedule := make([]*models.Installment, count)
	for i := 0; i < count; i++ {
		due := loan.DisbursedAt.AddDate(0, 0, step*(i+1))
		if i == count-1 {
			due = loan.DueDate
		}
		schedule[i] = &models.Installment{
			LoanID:  loan.ID,
			Seq:     i + 1,
			Amount:  perInstallment,
			DueDate: due,
			Status:  models.InstallmentPending,
		}
	}

	return s.loanRepo.CreateInstallments(ctx, schedule)
}

// GetByID gets a loan by ID
func (s *LoanService) GetByID(ctx context.Context, id uint) (*models.Loan, error) {
	loan, err := s.loanRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLoanNotFound
		}
		return nil, err
	}
	return loan, nil
}

// List lists loans, optionally filtered by status
func (s *LoanService) List(ctx context.Context, status string, offset, limit int) ([]*models.Loan, int64, error) {
	return s.loanRepo.List(ctx, status, offset, limit)
}

// ListByApplicant lists all loans of one applicant
func (s *LoanService) ListByApplicant(ctx context.Context, applicantID uint) ([]*models.Loan, error) {
	return s.loanRepo.ListByApplicant(ctx, applicantID)
}

// RecordPayment marks an installment paid and closes the loan when it was the
// last open installment. Late payments record their days overdue; that number
// feeds future repayment-history scoring.
func (s *LoanService) RecordPayment(ctx context.Context, installmentID uint, input *RecordPaymentInput) (*models.Loan, error) {
	installment, err := s.loanRepo.GetInstallment(ctx, installmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInstallmentNotFound
		}
		return nil, err
	}

	if installment.Status == models.InstallmentPaid {
		return nil, ErrInstallmentAlreadyPaid
	}

	paidAt := time.Now()
	if input.PaidAt != nil {
		paidAt = *input.PaidAt
	}

	installment.Status = models.InstallmentPaid
	installment.PaidAt = &paidAt
	installment.PaidAmount = &input.Amount

	if late := daysBetween(installment.DueDate, paidAt); late > 0 {
		installment.DaysOverdue = &late
	}

	if err := s.loanRepo.UpdateInstallment(ctx, installment); err != nil {
		return nil, err
	}

	return s.settleIfComplete(ctx, installment.LoanID)
}

// settleIfComplete closes the loan once every installment is paid and releases
// the credit line
func (s *LoanService) settleIfComplete(ctx context.Context, loanID uint) (*models.Loan, error) {
	loan, err := s.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}

	for _, inst := range loan.Installments {
		if inst.Status != models.InstallmentPaid {
			return loan, nil
		}
	}

	now := time.Now()
	loan.Status = models.LoanStatusRepaid
	loan.ClosedAt = &now
	if err := s.loanRepo.Update(ctx, loan); err != nil {
		return nil, err
	}

	applicant, err := s.applicantRepo.GetByID(ctx, loan.ApplicantID)
	if err == nil {
		applicant.UsedCredit -= loan.Principal
		if applicant.UsedCredit < 0 {
			applicant.UsedCredit = 0
		}
		if err := s.applicantRepo.Update(ctx, applicant); err != nil {
			return nil, err
		}
	}

	log.Printf("✅ Loan #%d fully repaid", loan.ID)
	return loan, nil
}

// MarkOverdue flags unpaid installments past their due date and moves their
// loans to OVERDUE. Called daily by the scheduler.
func (s *LoanService) MarkOverdue(ctx context.Context, asOf time.Time) (int, error) {
	installments, err := s.loanRepo.ListInstallmentsOverdue(ctx, asOf)
	if err != nil {
		return 0, err
	}

	marked := 0
	for _, installment := range installments {
		days := daysBetween(installment.DueDate, asOf)
		if days <= 0 {
			continue
		}

		installment.Status = models.InstallmentOverdue
		installment.DaysOverdue = &days
		if err := s.loanRepo.UpdateInstallment(ctx, installment); err != nil {
			return marked, err
		}
		marked++

		if installment.Loan != nil && installment.Loan.Status == models.LoanStatusActive {
			installment.Loan.Status = models.LoanStatusOverdue
			if err := s.loanRepo.Update(ctx, installment.Loan); err != nil {
				return marked, err
			}
		}
	}

	if marked > 0 {
		log.Printf("⚠️ Marked %d installment(s) overdue", marked)
	}
	return marked, nil
}

// daysBetween returns whole days from a to b, negative when b precedes a
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
