package services

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"quickpaisa-backend/internal/adapters/persistence/models"
	"quickpaisa-backend/internal/config"
	"quickpaisa-backend/internal/core/risk"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type applicationFixture struct {
	service         *ApplicationService
	applicantRepo   *fakeApplicantRepo
	applicationRepo *fakeApplicationRepo
	loanRepo        *fakeLoanRepo
	productRepo     *fakeProductRepo
	settingsRepo    *fakeSettingsRepo
	notifRepo       *fakeNotificationRepo
}

func newApplicationFixture() *applicationFixture {
	f := &applicationFixture{
		applicantRepo:   newFakeApplicantRepo(),
		applicationRepo: newFakeApplicationRepo(),
		loanRepo:        newFakeLoanRepo(),
		productRepo:     newFakeProductRepo(),
		settingsRepo:    newFakeSettingsRepo(),
		notifRepo:       &fakeNotificationRepo{},
	}

	settingsService := NewSettingsService(f.settingsRepo)
	notifService := NewNotificationService(f.notifRepo, &config.Config{})
	f.service = NewApplicationService(
		f.applicationRepo,
		f.applicantRepo,
		f.loanRepo,
		f.productRepo,
		settingsService,
		notifService,
	)
	return f
}

// seedVerifiedApplicant stores a clean, fully verified 26-year-old applicant
func (f *applicationFixture) seedVerifiedApplicant(phone string) *models.Applicant {
	dob := time.Now().AddDate(-26, -4, 0)
	bureau := 780
	applicant := &models.Applicant{
		PhoneNumber:       phone,
		FullName:          "Ramesh Kumar",
		DateOfBirth:       &dob,
		BureauScore:       &bureau,
		CreditLimit:       50000,
		BankAccountNumber: "004401123456",
		BankVerified:      true,
		PhoneVerified:     true,
	}
	_ = f.applicantRepo.Create(context.Background(), applicant)

	score := 20
	applicant.KYC = &models.KYCRecord{
		ApplicantID:     applicant.ID,
		Status:          models.KYCStatusVerified,
		InternalScore:   &score,
		HasPrimaryID:    true,
		HasAddressProof: true,
		HasSelfie:       true,
	}
	return applicant
}

func TestApplyUnknownPhoneRejectedWithoutAssessment(t *testing.T) {
	f := newApplicationFixture()

	result, err := f.service.Apply(context.Background(), &ApplyInput{
		PhoneNumber: "9876543210",
		Amount:      5000,
	})
	require.NoError(t, err)

	assert.Equal(t, risk.ActionReject, result.Decision.Action)
	assert.Equal(t, risk.StatusRejected, result.Decision.Status)
	assert.Equal(t, "User not found", result.Decision.Message)
	assert.Nil(t, result.Decision.Assessment)

	// The rejection is persisted as an auditable application record
	stored, err := f.applicationRepo.GetByID(context.Background(), result.Application.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AppStatusRejected, stored.Status)
	assert.Equal(t, "User not found", stored.Message)
	assert.Nil(t, stored.RiskScore)
	assert.Nil(t, stored.RiskCategory)
	assert.Nil(t, stored.ApplicantID)
}

func TestApplyRejectsNonPositiveAmount(t *testing.T) {
	f := newApplicationFixture()

	_, err := f.service.Apply(context.Background(), &ApplyInput{PhoneNumber: "9876543210", Amount: 0})
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = f.service.Apply(context.Background(), &ApplyInput{PhoneNumber: "9876543210", Amount: -100})
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestApplyValidatesProductLimits(t *testing.T) {
	f := newApplicationFixture()
	f.seedVerifiedApplicant("9876543210")

	product := &models.LoanProduct{
		Code: "NANO", Name: "Nano Loan",
		MinAmount: 1000, MaxAmount: 10000,
		InterestRate: 24, TenureDays: 30, Installments: 1,
		IsActive: true,
	}
	require.NoError(t, f.productRepo.Create(context.Background(), product))

	missing := uint(99)
	_, err := f.service.Apply(context.Background(), &ApplyInput{
		PhoneNumber: "9876543210", Amount: 5000, ProductID: &missing,
	})
	assert.ErrorIs(t, err, ErrProductNotFound)

	_, err = f.service.Apply(context.Background(), &ApplyInput{
		PhoneNumber: "9876543210", Amount: 50000, ProductID: &product.ID,
	})
	assert.ErrorIs(t, err, ErrAmountOutOfRange)

	product.IsActive = false
	_, err = f.service.Apply(context.Background(), &ApplyInput{
		PhoneNumber: "9876543210", Amount: 5000, ProductID: &product.ID,
	})
	assert.ErrorIs(t, err, ErrProductInactive)

	// None of the failed validations should leave an application behind
	apps, total, err := f.applicationRepo.List(context.Background(), "", 0, 100)
	require.NoError(t, err)
	assert.Empty(t, apps)
	assert.Zero(t, total)
}

func TestApplyEligibleApplicantQueuedForReview(t *testing.T) {
	f := newApplicationFixture()
	applicant := f.seedVerifiedApplicant("9876543210")

	result, err := f.service.Apply(context.Background(), &ApplyInput{
		PhoneNumber: "9876543210",
		Amount:      5000,
	})
	require.NoError(t, err)

	// Auto-routing is off by default, so eligible applications go to a human
	assert.Equal(t, risk.ActionManualReview, result.Decision.Action)
	assert.Equal(t, risk.StatusUnderReview, result.Decision.Status)
	require.NotNil(t, result.Decision.Assessment)
	assert.Equal(t, risk.CategoryLow, result.Decision.Assessment.Category)

	app := result.Application
	require.NotNil(t, app.ApplicantID)
	assert.Equal(t, applicant.ID, *app.ApplicantID)
	require.NotNil(t, app.RiskScore)
	assert.Equal(t, result.Decision.Assessment.Score, *app.RiskScore)
	require.NotNil(t, app.RiskCategory)
	assert.Equal(t, "LOW", *app.RiskCategory)

	// Factors are stored as a JSON array in evaluation order
	var factors []string
	require.NoError(t, json.Unmarshal([]byte(app.RiskFactors), &factors))
	assert.Equal(t, result.Decision.Assessment.Factors, factors)

	// Decision SMS attempt is logged even with the gateway disabled
	require.Len(t, f.notifRepo.entries, 1)
	assert.Equal(t, models.NotifStatusSkipped, f.notifRepo.entries[0].Status)
	assert.Equal(t, TemplateDecision, f.notifRepo.entries[0].Template)
}

func TestApplyGateFailureItemizesEveryReason(t *testing.T) {
	f := newApplicationFixture()
	applicant := f.seedVerifiedApplicant("9876543210")
	applicant.IsBlocked = true
	applicant.BankVerified = false

	result, err := f.service.Apply(context.Background(), &ApplyInput{
		PhoneNumber: "9876543210",
		Amount:      5000,
	})
	require.NoError(t, err)

	assert.Equal(t, risk.ActionReject, result.Decision.Action)
	assert.Equal(t, risk.StatusRejected, result.Decision.Status)
	assert.Nil(t, result.Decision.Assessment)
	assert.Contains(t, result.Decision.Message, "Bank account not verified")
	assert.Contains(t, result.Decision.Message, "Applicant is blacklisted")

	stored, err := f.applicationRepo.GetByID(context.Background(), result.Application.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AppStatusRejected, stored.Status)
	assert.Nil(t, stored.RiskScore)
}

func TestApplyAutoRoutingApprovesLowRisk(t *testing.T) {
	f := newApplicationFixture()
	f.seedVerifiedApplicant("9876543210")

	require.NoError(t, f.settingsRepo.Create(context.Background(), &models.RiskSettings{
		MinAge: 18, MaxAge: 60,
		LowRiskThreshold: 30, MediumRiskThreshold: 60,
		AutoRoutingEnabled:    true,
		MaxAutoApprovalAmount: 25000,
		IsActive:              true,
	}))

	result, err := f.service.Apply(context.Background(), &ApplyInput{
		PhoneNumber: "9876543210",
		Amount:      5000,
	})
	require.NoError(t, err)

	assert.Equal(t, risk.ActionAutoApprove, result.Decision.Action)
	assert.Equal(t, risk.StatusApproved, result.Decision.Status)
}

func TestApplyOverdueHistoryRaisesScore(t *testing.T) {
	f := newApplicationFixture()
	applicant := f.seedVerifiedApplicant("9876543210")

	// One overdue loan in history: +10 overdue, no first-time bonus
	overdueLoan := &models.Loan{
		ApplicantID: applicant.ID,
		Principal:   8000,
		Status:      models.LoanStatusOverdue,
	}
	require.NoError(t, f.loanRepo.Create(context.Background(), overdueLoan))
	days := 12
	require.NoError(t, f.loanRepo.CreateInstallments(context.Background(), []*models.Installment{{
		LoanID:      overdueLoan.ID,
		Seq:         1,
		Amount:      8000,
		Status:      models.InstallmentOverdue,
		DaysOverdue: &days,
	}}))

	result, err := f.service.Apply(context.Background(), &ApplyInput{
		PhoneNumber: "9876543210",
		Amount:      5000,
	})
	require.NoError(t, err)

	require.NotNil(t, result.Decision.Assessment)
	joined := strings.Join(result.Decision.Assessment.Factors, "; ")
	assert.Contains(t, joined, "1 overdue loan(s) in history")
	assert.Contains(t, joined, "Chronically late repayments")
	assert.Greater(t, result.Decision.Assessment.Score, 10)
}

func TestApproveRequiresUnderReviewStatus(t *testing.T) {
	f := newApplicationFixture()

	app := &models.LoanApplication{
		AppNo:       "QP-20260828-TESTCASE",
		PhoneNumber: "9876543210",
		Amount:      5000,
		Status:      models.AppStatusRejected,
	}
	require.NoError(t, f.applicationRepo.Create(context.Background(), app))

	_, err := f.service.Approve(context.Background(), app.ID, 1, &ReviewInput{Remark: "ok"})
	assert.ErrorIs(t, err, ErrApplicationNotOpen)
}

func TestApproveRecordsReviewer(t *testing.T) {
	f := newApplicationFixture()

	app := &models.LoanApplication{
		AppNo:       "QP-20260828-TESTCASB",
		PhoneNumber: "9876543210",
		Amount:      5000,
		Status:      models.AppStatusUnderReview,
	}
	require.NoError(t, f.applicationRepo.Create(context.Background(), app))

	updated, err := f.service.Approve(context.Background(), app.ID, 7, &ReviewInput{Remark: "income verified"})
	require.NoError(t, err)

	assert.Equal(t, models.AppStatusApproved, updated.Status)
	require.NotNil(t, updated.ReviewedBy)
	assert.Equal(t, uint(7), *updated.ReviewedBy)
	assert.NotNil(t, updated.ReviewedAt)
	assert.Equal(t, "income verified", updated.Remark)
}

func TestGetByAppNo(t *testing.T) {
	f := newApplicationFixture()

	app := &models.LoanApplication{
		AppNo:       "QP-20260828-ABCD1234",
		PhoneNumber: "9876543210",
		Amount:      5000,
		Status:      models.AppStatusUnderReview,
	}
	require.NoError(t, f.applicationRepo.Create(context.Background(), app))

	found, err := f.service.GetByAppNo(context.Background(), "QP-20260828-ABCD1234")
	require.NoError(t, err)
	assert.Equal(t, app.ID, found.ID)

	_, err = f.service.GetByAppNo(context.Background(), "QP-00000000-MISSING0")
	assert.ErrorIs(t, err, ErrApplicationNotFound)
}
