package services

import (
	"context"
	"testing"
	"time"

	"quickpaisa-backend/internal/adapters/persistence/models"
	"quickpaisa-backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type loanFixture struct {
	service         *LoanService
	loanRepo        *fakeLoanRepo
	applicationRepo *fakeApplicationRepo
	applicantRepo   *fakeApplicantRepo
	productRepo     *fakeProductRepo
	notifRepo       *fakeNotificationRepo
}

func newLoanFixture() *loanFixture {
	f := &loanFixture{
		loanRepo:        newFakeLoanRepo(),
		applicationRepo: newFakeApplicationRepo(),
		applicantRepo:   newFakeApplicantRepo(),
		productRepo:     newFakeProductRepo(),
		notifRepo:       &fakeNotificationRepo{},
	}
	notifService := NewNotificationService(f.notifRepo, &config.Config{})
	f.service = NewLoanService(f.loanRepo, f.applicationRepo, f.applicantRepo, f.productRepo, notifService)
	return f
}

// seedApprovedApplication stores an applicant plus an approved application
func (f *loanFixture) seedApprovedApplication(amount float64, productID *uint) *models.LoanApplication {
	applicant := &models.Applicant{
		PhoneNumber: "9876543210",
		FullName:    "Ramesh Kumar",
		CreditLimit: 100000,
	}
	_ = f.applicantRepo.Create(context.Background(), applicant)

	app := &models.LoanApplication{
		AppNo:       "QP-20260828-LOANTEST",
		ApplicantID: &applicant.ID,
		PhoneNumber: applicant.PhoneNumber,
		ProductID:   productID,
		Amount:      amount,
		Status:      models.AppStatusApproved,
	}
	_ = f.applicationRepo.Create(context.Background(), app)
	return app
}

func TestDisburseCreatesLoanWithProductTerms(t *testing.T) {
	f := newLoanFixture()

	product := &models.LoanProduct{
		Code: "FLEXI", Name: "Flexi Loan",
		MinAmount: 10000, MaxAmount: 50000,
		InterestRate: 22, TenureDays: 90, Installments: 3,
		IsActive: true,
	}
	require.NoError(t, f.productRepo.Create(context.Background(), product))

	app := f.seedApprovedApplication(30000, &product.ID)

	loan, err := f.service.Disburse(context.Background(), app.ID)
	require.NoError(t, err)

	assert.Equal(t, models.LoanStatusActive, loan.Status)
	assert.Equal(t, 30000.0, loan.Principal)
	assert.Equal(t, 22.0, loan.InterestRate)
	assert.Equal(t, 90, loan.TenureDays)
	require.Len(t, loan.Installments, 3)

	// Flat interest spread evenly: 30000 * (1 + 0.22*90/365) / 3
	expectedPer := 10542.47
	for _, inst := range loan.Installments {
		assert.InDelta(t, expectedPer, inst.Amount, 0.01)
		assert.Equal(t, models.InstallmentPending, inst.Status)
	}
	assert.Equal(t, 1, loan.Installments[0].Seq)
	assert.Equal(t, 3, loan.Installments[2].Seq)

	// Last installment lands exactly on the loan due date
	assert.Equal(t, loan.DueDate, loan.Installments[2].DueDate)

	// Principal is booked against the credit line
	applicant, err := f.applicantRepo.GetByID(context.Background(), loan.ApplicantID)
	require.NoError(t, err)
	assert.Equal(t, 30000.0, applicant.UsedCredit)

	// Application moves to DISBURSED
	stored, err := f.applicationRepo.GetByID(context.Background(), app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AppStatusDisbursed, stored.Status)

	// Disbursement SMS attempt is logged
	require.Len(t, f.notifRepo.entries, 1)
	assert.Equal(t, TemplateDisbursement, f.notifRepo.entries[0].Template)
}

func TestDisburseUsesDefaultTermsWithoutProduct(t *testing.T) {
	f := newLoanFixture()
	app := f.seedApprovedApplication(5000, nil)

	loan, err := f.service.Disburse(context.Background(), app.ID)
	require.NoError(t, err)

	assert.Equal(t, 30, loan.TenureDays)
	assert.Equal(t, 24.0, loan.InterestRate)
	require.Len(t, loan.Installments, 1)

	// 5000 * (1 + 0.24*30/365)
	assert.InDelta(t, 5098.63, loan.Installments[0].Amount, 0.01)
}

func TestDisburseRejectsWrongStatus(t *testing.T) {
	f := newLoanFixture()
	app := f.seedApprovedApplication(5000, nil)

	app.Status = models.AppStatusUnderReview
	_, err := f.service.Disburse(context.Background(), app.ID)
	assert.ErrorIs(t, err, ErrApplicationNotApproved)

	app.Status = models.AppStatusDisbursed
	_, err = f.service.Disburse(context.Background(), app.ID)
	assert.ErrorIs(t, err, ErrLoanAlreadyDisbursed)

	_, err = f.service.Disburse(context.Background(), 999)
	assert.ErrorIs(t, err, ErrApplicationNotFound)
}

func TestRecordPaymentSettlesLoanWhenLastInstallmentPaid(t *testing.T) {
	f := newLoanFixture()
	app := f.seedApprovedApplication(5000, nil)

	loan, err := f.service.Disburse(context.Background(), app.ID)
	require.NoError(t, err)
	require.Len(t, loan.Installments, 1)

	instID := loan.Installments[0].ID
	settled, err := f.service.RecordPayment(context.Background(), instID, &RecordPaymentInput{
		Amount: loan.Installments[0].Amount,
	})
	require.NoError(t, err)

	assert.Equal(t, models.LoanStatusRepaid, settled.Status)
	assert.NotNil(t, settled.ClosedAt)

	inst, err := f.loanRepo.GetInstallment(context.Background(), instID)
	require.NoError(t, err)
	assert.Equal(t, models.InstallmentPaid, inst.Status)
	assert.NotNil(t, inst.PaidAt)
	require.NotNil(t, inst.PaidAmount)

	// Settling releases the credit line
	applicant, err := f.applicantRepo.GetByID(context.Background(), loan.ApplicantID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, applicant.UsedCredit)
}

func TestRecordPaymentKeepsLoanOpenWhileInstallmentsRemain(t *testing.T) {
	f := newLoanFixture()

	product := &models.LoanProduct{
		Code: "FLEXI", Name: "Flexi Loan",
		MinAmount: 10000, MaxAmount: 50000,
		InterestRate: 22, TenureDays: 90, Installments: 3,
		IsActive: true,
	}
	require.NoError(t, f.productRepo.Create(context.Background(), product))
	app := f.seedApprovedApplication(30000, &product.ID)

	loan, err := f.service.Disburse(context.Background(), app.ID)
	require.NoError(t, err)

	open, err := f.service.RecordPayment(context.Background(), loan.Installments[0].ID, &RecordPaymentInput{
		Amount: loan.Installments[0].Amount,
	})
	require.NoError(t, err)
	assert.Equal(t, models.LoanStatusActive, open.Status)
	assert.Nil(t, open.ClosedAt)
}

func TestRecordPaymentRejectsDoublePayment(t *testing.T) {
	f := newLoanFixture()
	app := f.seedApprovedApplication(5000, nil)

	loan, err := f.service.Disburse(context.Background(), app.ID)
	require.NoError(t, err)
	instID := loan.Installments[0].ID

	_, err = f.service.RecordPayment(context.Background(), instID, &RecordPaymentInput{Amount: 5098.63})
	require.NoError(t, err)

	_, err = f.service.RecordPayment(context.Background(), instID, &RecordPaymentInput{Amount: 5098.63})
	assert.ErrorIs(t, err, ErrInstallmentAlreadyPaid)
}

func TestRecordPaymentTracksDaysOverdue(t *testing.T) {
	f := newLoanFixture()
	app := f.seedApprovedApplication(5000, nil)

	loan, err := f.service.Disburse(context.Background(), app.ID)
	require.NoError(t, err)
	instID := loan.Installments[0].ID

	paidAt := loan.DueDate.AddDate(0, 0, 6)
	_, err = f.service.RecordPayment(context.Background(), instID, &RecordPaymentInput{
		Amount: 5098.63,
		PaidAt: &paidAt,
	})
	require.NoError(t, err)

	inst, err := f.loanRepo.GetInstallment(context.Background(), instID)
	require.NoError(t, err)
	require.NotNil(t, inst.DaysOverdue)
	assert.Equal(t, 6, *inst.DaysOverdue)
}

func TestMarkOverdueFlagsInstallmentsAndLoan(t *testing.T) {
	f := newLoanFixture()
	app := f.seedApprovedApplication(5000, nil)

	loan, err := f.service.Disburse(context.Background(), app.ID)
	require.NoError(t, err)

	asOf := loan.DueDate.AddDate(0, 0, 4)
	marked, err := f.service.MarkOverdue(context.Background(), asOf)
	require.NoError(t, err)
	assert.Equal(t, 1, marked)

	inst, err := f.loanRepo.GetInstallment(context.Background(), loan.Installments[0].ID)
	require.NoError(t, err)
	assert.Equal(t, models.InstallmentOverdue, inst.Status)
	require.NotNil(t, inst.DaysOverdue)
	assert.Equal(t, 4, *inst.DaysOverdue)

	updated, err := f.service.GetByID(context.Background(), loan.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LoanStatusOverdue, updated.Status)
}

func TestMarkOverdueIgnoresFutureInstallments(t *testing.T) {
	f := newLoanFixture()
	app := f.seedApprovedApplication(5000, nil)

	loan, err := f.service.Disburse(context.Background(), app.ID)
	require.NoError(t, err)

	marked, err := f.service.MarkOverdue(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Zero(t, marked)

	updated, err := f.service.GetByID(context.Background(), loan.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LoanStatusActive, updated.Status)
}
