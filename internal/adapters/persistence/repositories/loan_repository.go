package repositories

import (
	"context"
	"time"

	"quickpaisa-backend/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// loanRepository implements LoanRepository interface
type loanRepository struct {
	db *gorm.DB
}

// NewLoanRepository creates a new loan repository
func NewLoanRepository(db *gorm.DB) LoanRepository {
	return &loanRepository{db: db}
}

// Create creates a new loan
func (r *loanRepository) Create(ctx context.Context, loan *models.Loan) error {
	return r.db.WithContext(ctx).Create(loan).Error
}

// GetByID gets a loan by ID with installments preloaded
func (r *loanRepository) GetByID(ctx context.Context, id uint) (*models.Loan, error) {
	var loan models.Loan
	err := r.db.WithContext(ctx).
		Preload("Installments", func(db *gorm.DB) *gorm.DB {
			return db.Order("seq ASC")
		}).
		Where("id = ?", id).
		First(&loan).Error
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

// Update updates a loan
func (r *loanRepository) Update(ctx context.Context, loan *models.Loan) error {
	return r.db.WithContext(ctx).Save(loan).Error
}

// ListByApplicant lists all loans for an applicant with installments, newest first
func (r *loanRepository) ListByApplicant(ctx context.Context, applicantID uint) ([]*models.Loan, error) {
	var loans []*models.Loan
	err := r.db.WithContext(ctx).
		Preload("Installments", func(db *gorm.DB) *gorm.DB {
			return db.Order("seq ASC")
		}).
		Where("applicant_id = ?", applicantID).
		Order("id DESC").
		Find(&loans).Error
	return loans, err
}

// List lists loans, optionally filtered by status
func (r *loanRepository) List(ctx context.Context, status string, offset, limit int) ([]*models.Loan, int64, error) {
	var loans []*models.Loan
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Loan{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Preload("Applicant").Offset(offset).Limit(limit).Order("id DESC").Find(&loans).Error; err != nil {
		return nil, 0, err
	}

	return loans, total, nil
}

// SumDisbursed returns the total principal disbursed across all loans
func (r *loanRepository) SumDisbursed(ctx context.Context) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).
		Model(&models.Loan{}).
		Select("COALESCE(SUM(principal), 0)").
		Scan(&total).Error
	return total, err
}

// CreateInstallments creates installments in a single batch
func (r *loanRepository) CreateInstallments(ctx context.Context, installments []*models.Installment) error {
	return r.db.WithContext(ctx).Create(installments).Error
}

// GetInstallment gets an installment by ID
func (r *loanRepository) GetInstallment(ctx context.Context, id uint) (*models.Installment, error) {
	var installment models.Installment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&installment).Error
	if err != nil {
		return nil, err
	}
	return &installment, nil
}

// UpdateInstallment updates an installment
func (r *loanRepository) UpdateInstallment(ctx context.Context, installment *models.Installment) error {
	return r.db.WithContext(ctx).Save(installment).Error
}

// ListInstallments lists installments for a loan in sequence order
func (r *loanRepository) ListInstallments(ctx context.Context, loanID uint) ([]*models.Installment, error) {
	var installments []*models.Installment
	err := r.db.WithContext(ctx).
		Where("loan_id = ?", loanID).
		Order("seq ASC").
		Find(&installments).Error
	return installments, err
}

// ListInstallmentsDueOn lists pending installments due on the given date
func (r *loanRepository) ListInstallmentsDueOn(ctx context.Context, date time.Time) ([]*models.Installment, error) {
	var installments []*models.Installment
	day := date.Format("2006-01-02")
	err := r.db.WithContext(ctx).
		Preload("Loan").
		Where("status = ? AND DATE(due_date) = ?", models.InstallmentPending, day).
		Find(&installments).Error
	return installments, err
}

// ListInstallmentsOverdue lists unpaid installments past their due date
func (r *loanRepository) ListInstallmentsOverdue(ctx context.Context, asOf time.Time) ([]*models.Installment, error) {
	var installments []*models.Installment
	day := asOf.Format("2006-01-02")
	err := r.db.WithContext(ctx).
		Preload("Loan").
		Where("status IN ? AND DATE(due_date) < ?", []string{models.InstallmentPending, models.InstallmentOverdue}, day).
		Find(&installments).Error
	return installments, err
}
