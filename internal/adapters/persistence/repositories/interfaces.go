package repositories

import (
	"context"
	"time"

	"quickpaisa-backend/internal/adapters/persistence/models"
)

// StaffUserRepository defines staff user repository interface
type StaffUserRepository interface {
	Create(ctx context.Context, user *models.StaffUser) error
	GetByID(ctx context.Context, id uint) (*models.StaffUser, error)
	GetByUsername(ctx context.Context, username string) (*models.StaffUser, error)
	GetByEmail(ctx context.Context, email string) (*models.StaffUser, error)
	Update(ctx context.Context, user *models.StaffUser) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, offset, limit int) ([]*models.StaffUser, int64, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) error
}

// ApplicantRepository defines applicant repository interface
type ApplicantRepository interface {
	Create(ctx context.Context, applicant *models.Applicant) error
	GetByID(ctx context.Context, id uint) (*models.Applicant, error)
	GetByPhone(ctx context.Context, phone string) (*models.Applicant, error)
	Update(ctx context.Context, applicant *models.Applicant) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, offset, limit int) ([]*models.Applicant, int64, error)
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
}

// KYCRepository defines KYC record repository interface
type KYCRepository interface {
	Create(ctx context.Context, record *models.KYCRecord) error
	GetByApplicantID(ctx context.Context, applicantID uint) (*models.KYCRecord, error)
	Update(ctx context.Context, record *models.KYCRecord) error
	ListByStatus(ctx context.Context, status string, offset, limit int) ([]*models.KYCRecord, int64, error)
}

// OTPRepository defines OTP request repository interface
type OTPRepository interface {
	Create(ctx context.Context, otp *models.OTPRequest) error
	GetLatest(ctx context.Context, phone, purpose string) (*models.OTPRequest, error)
	Update(ctx context.Context, otp *models.OTPRequest) error
	CountRecent(ctx context.Context, phone string, since time.Time) (int64, error)
}

// SettingsRepository defines risk settings repository interface
type SettingsRepository interface {
	GetActive(ctx context.Context) (*models.RiskSettings, error)
	Create(ctx context.Context, settings *models.RiskSettings) error
	DeactivateAll(ctx context.Context) error
	List(ctx context.Context, offset, limit int) ([]*models.RiskSettings, int64, error)
}

// ProductRepository defines loan product repository interface
type ProductRepository interface {
	Create(ctx context.Context, product *models.LoanProduct) error
	GetByID(ctx context.Context, id uint) (*models.LoanProduct, error)
	GetByCode(ctx context.Context, code string) (*models.LoanProduct, error)
	Update(ctx context.Context, product *models.LoanProduct) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, activeOnly bool) ([]*models.LoanProduct, error)
}

// ApplicationRepository defines loan application repository interface
type ApplicationRepository interface {
	Create(ctx context.Context, app *models.LoanApplication) error
	GetByID(ctx context.Context, id uint) (*models.LoanApplication, error)
	GetByAppNo(ctx context.Context, appNo string) (*models.LoanApplication, error)
	Update(ctx context.Context, app *models.LoanApplication) error
	List(ctx context.Context, status string, offset, limit int) ([]*models.LoanApplication, int64, error)
	ListByApplicant(ctx context.Context, applicantID uint) ([]*models.LoanApplication, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
	CountByRiskCategory(ctx context.Context) (map[string]int64, error)
}

// LoanRepository defines loan ledger repository interface
type LoanRepository interface {
	Create(ctx context.Context, loan *models.Loan) error
	GetByID(ctx context.Context, id uint) (*models.Loan, error)
	Update(ctx context.Context, loan *models.Loan) error
	ListByApplicant(ctx context.Context, applicantID uint) ([]*models.Loan, error)
	List(ctx context.Context, status string, offset, limit int) ([]*models.Loan, int64, error)
	SumDisbursed(ctx context.Context) (float64, error)

	CreateInstallments(ctx context.Context, installments []*models.Installment) error
	GetInstallment(ctx context.Context, id uint) (*models.Installment, error)
	UpdateInstallment(ctx context.Context, installment *models.Installment) error
	ListInstallments(ctx context.Context, loanID uint) ([]*models.Installment, error)
	ListInstallmentsDueOn(ctx context.Context, date time.Time) ([]*models.Installment, error)
	ListInstallmentsOverdue(ctx context.Context, asOf time.Time) ([]*models.Installment, error)
}

// NotificationRepository defines notification log repository interface
type NotificationRepository interface {
	Create(ctx context.Context, entry *models.NotificationLog) error
	ListByApplicant(ctx context.Context, applicantID uint, offset, limit int) ([]*models.NotificationLog, int64, error)
}
