package services

import (
	"context"
	"errors"
	"log"
	"time"

	"quickpaisa-backend/internal/adapters/persistence/models"
	"quickpaisa-backend/internal/adapters/persistence/repositories"
	"quickpaisa-backend/internal/core/risk"

	"gorm.io/gorm"
)

// Applicant errors
var (
	ErrApplicantNotFound      = errors.New("applicant not found")
	ErrApplicantAlreadyExists = errors.New("phone number already registered")
	ErrInvalidPhoneNumber     = errors.New("invalid mobile number")
)

// ApplicantService manages borrower records and their risk flags
type ApplicantService struct {
	applicantRepo repositories.ApplicantRepository
	kycRepo       repositories.KYCRepository
}

// NewApplicantService creates a new applicant service
func NewApplicantService(
	applicantRepo repositories.ApplicantRepository,
	kycRepo repositories.KYCRepository,
) *ApplicantService {
	return &ApplicantService{
		applicantRepo: applicantRepo,
		kycRepo:       kycRepo,
	}
}

// RegisterApplicantInput represents applicant registration input
type RegisterApplicantInput struct {
	PhoneNumber string     `json:"phone_number" validate:"required"`
	FullName    string     `json:"full_name" validate:"required"`
	Email       string     `json:"email" validate:"omitempty,email"`
	DateOfBirth *time.Time `json:"date_of_birth"`
}

// UpdateApplicantInput represents profile update input
type UpdateApplicantInput struct {
	FullName    *string    `json:"full_name"`
	Email       *string    `json:"email"`
	DateOfBirth *time.Time `json:"date_of_birth"`
}

// BankDetailsInput represents bank account details
type BankDetailsInput struct {
	AccountNumber string `json:"account_number" validate:"required"`
	IFSC          string `json:"ifsc" validate:"required"`
}

// FlagsInput represents operations-maintained risk flags
type FlagsInput struct {
	IsBlocked              *bool `json:"is_blocked"`
	FraudFlag              *bool `json:"fraud_flag"`
	MultipleAccountsFlag   *bool `json:"multiple_accounts_flag"`
	SuspiciousActivityFlag *bool `json:"suspicious_activity_flag"`
}

// CreditProfileInput represents bureau and credit line updates
type CreditProfileInput struct {
	BureauScore *int     `json:"bureau_score"`
	CreditLimit *float64 `json:"credit_limit"`
	UsedCredit  *float64 `json:"used_credit"`
}

// Register creates a new applicant with an empty KYC record
func (s *ApplicantService) Register(ctx context.Context, input *RegisterApplicantInput) (*models.Applicant, error) {
	if !risk.ValidMobile(input.PhoneNumber) {
		return nil, ErrInvalidPhoneNumber
	}

	exists, err := s.applicantRepo.ExistsByPhone(ctx, input.PhoneNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrApplicantAlreadyExists
	}

	applicant := &models.Applicant{
		PhoneNumber: input.PhoneNumber,
		FullName:    input.FullName,
		Email:       input.Email,
		DateOfBirth: input.DateOfBirth,
	}
	if err := s.applicantRepo.Create(ctx, applicant); err != nil {
		return nil, err
	}

	// Every applicant starts with a NOT_STARTED KYC record
	kyc := &models.KYCRecord{
		ApplicantID: applicant.ID,
		Status:      models.KYCStatusNotStarted,
	}
	if err := s.kycRepo.Create(ctx, kyc); err != nil {
		return nil, err
	}
	applicant.KYC = kyc

	log.Printf("✅ Applicant registered: %s (ID: %d)", applicant.PhoneNumber, applicant.ID)
	return applicant, nil
}

// GetByID gets an applicant by ID
func (s *ApplicantService) GetByID(ctx context.Context, id uint) (*models.Applicant, error) {
	applicant, err := s.applicantRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicantNotFound
		}
		return nil, err
	}
	return applicant, nil
}

// GetByPhone gets an applicant by phone number
func (s *ApplicantService) GetByPhone(ctx context.Context, phone string) (*models.Applicant, error) {
	applicant, err := s.applicantRepo.GetByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicantNotFound
		}
		return nil, err
	}
	return applicant, nil
}

// List lists applicants with pagination
func (s *ApplicantService) List(ctx context.Context, offset, limit int) ([]*models.Applicant, int64, error) {
	return s.applicantRepo.List(ctx, offset, limit)
}

// UpdateProfile updates mutable profile fields
func (s *ApplicantService) UpdateProfile(ctx context.Context, id uint, input *UpdateApplicantInput) (*models.Applicant, error) {
	applicant, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.FullName != nil {
		applicant.FullName = *input.FullName
	}
	if input.Email != nil {
		applicant.Email = *input.Email
	}
	if input.DateOfBirth != nil {
		applicant.DateOfBirth = input.DateOfBirth
	}

	if err := s.applicantRepo.Update(ctx, applicant); err != nil {
		return nil, err
	}
	return applicant, nil
}

// UpdateBankDetails records a new bank account. Verification resets until the
// penny-drop check confirms the account.
func (s *ApplicantService) UpdateBankDetails(ctx context.Context, id uint, input *BankDetailsInput) (*models.Applicant, error) {
	applicant, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	applicant.BankAccountNumber = input.AccountNumber
	applicant.BankIFSC = input.IFSC
	applicant.BankVerified = false

	if err := s.applicantRepo.Update(ctx, applicant); err != nil {
		return nil, err
	}
	return applicant, nil
}

// VerifyBankAccount marks the bank account verified
func (s *ApplicantService) VerifyBankAccount(ctx context.Context, id uint) (*models.Applicant, error) {
	applicant, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	applicant.BankVerified = true
	if err := s.applicantRepo.Update(ctx, applicant); err != nil {
		return nil, err
	}

	log.Printf("✅ Bank account verified for applicant ID %d", id)
	return applicant, nil
}

// UpdateFlags updates operations-maintained risk flags
func (s *ApplicantService) UpdateFlags(ctx context.Context, id uint, input *FlagsInput) (*models.Applicant, error) {
	applicant, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.IsBlocked != nil {
		applicant.IsBlocked = *input.IsBlocked
	}
	if input.FraudFlag != nil {
		applicant.FraudFlag = *input.FraudFlag
	}
	if input.MultipleAccountsFlag != nil {
		applicant.MultipleAccountsFlag = *input.MultipleAccountsFlag
	}
	if input.SuspiciousActivityFlag != nil {
		applicant.SuspiciousActivityFlag = *input.SuspiciousActivityFlag
	}

	if err := s.applicantRepo.Update(ctx, applicant); err != nil {
		return nil, err
	}

	log.Printf("⚠️ Risk flags updated for applicant ID %d (blocked=%v fraud=%v)",
		id, applicant.IsBlocked, applicant.FraudFlag)
	return applicant, nil
}

// UpdateCreditProfile updates bureau score and credit line fields
func (s *ApplicantService) UpdateCreditProfile(ctx context.Context, id uint, input *CreditProfileInput) (*models.Applicant, error) {
	applicant, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.BureauScore != nil {
		applicant.BureauScore = input.BureauScore
	}
	if input.CreditLimit != nil {
		applicant.CreditLimit = *input.CreditLimit
	}
	if input.UsedCredit != nil {
		applicant.UsedCredit = *input.UsedCredit
	}

	if err := s.applicantRepo.Update(ctx, applicant); err != nil {
		return nil, err
	}
	return applicant, nil
}
