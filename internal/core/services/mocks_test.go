package services

import (
	"context"
	"sort"
	"time"

	"quickpaisa-backend/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// In-memory repository fakes shared by the service tests.

type fakeApplicantRepo struct {
	applicants map[uint]*models.Applicant
	nextID     uint
}

func newFakeApplicantRepo() *fakeApplicantRepo {
	return &fakeApplicantRepo{applicants: map[uint]*models.Applicant{}, nextID: 1}
}

func (r *fakeApplicantRepo) Create(_ context.Context, a *models.Applicant) error {
	a.ID = r.nextID
	r.nextID++
	r.applicants[a.ID] = a
	return nil
}

func (r *fakeApplicantRepo) GetByID(_ context.Context, id uint) (*models.Applicant, error) {
	a, ok := r.applicants[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return a, nil
}

func (r *fakeApplicantRepo) GetByPhone(_ context.Context, phone string) (*models.Applicant, error) {
	for _, a := range r.applicants {
		if a.PhoneNumber == phone {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeApplicantRepo) Update(_ context.Context, a *models.Applicant) error {
	r.applicants[a.ID] = a
	return nil
}

func (r *fakeApplicantRepo) Delete(_ context.Context, id uint) error {
	delete(r.applicants, id)
	return nil
}

func (r *fakeApplicantRepo) List(_ context.Context, _, _ int) ([]*models.Applicant, int64, error) {
	out := make([]*models.Applicant, 0, len(r.applicants))
	for _, a := range r.applicants {
		out = append(out, a)
	}
	return out, int64(len(out)), nil
}

func (r *fakeApplicantRepo) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	_, err := r.GetByPhone(ctx, phone)
	if err != nil {
		return false, nil
	}
	return true, nil
}

type fakeApplicationRepo struct {
	apps   map[uint]*models.LoanApplication
	nextID uint
}

func newFakeApplicationRepo() *fakeApplicationRepo {
	return &fakeApplicationRepo{apps: map[uint]*models.LoanApplication{}, nextID: 1}
}

func (r *fakeApplicationRepo) Create(_ context.Context, app *models.LoanApplication) error {
	app.ID = r.nextID
	r.nextID++
	r.apps[app.ID] = app
	return nil
}

func (r *fakeApplicationRepo) GetByID(_ context.Context, id uint) (*models.LoanApplication, error) {
	app, ok := r.apps[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return app, nil
}

func (r *fakeApplicationRepo) GetByAppNo(_ context.Context, appNo string) (*models.LoanApplication, error) {
	for _, app := range r.apps {
		if app.AppNo == appNo {
			return app, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeApplicationRepo) Update(_ context.Context, app *models.LoanApplication) error {
	r.apps[app.ID] = app
	return nil
}

func (r *fakeApplicationRepo) List(_ context.Context, status string, _, _ int) ([]*models.LoanApplication, int64, error) {
	out := make([]*models.LoanApplication, 0, len(r.apps))
	for _, app := range r.apps {
		if status == "" || app.Status == status {
			out = append(out, app)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeApplicationRepo) ListByApplicant(_ context.Context, applicantID uint) ([]*models.LoanApplication, error) {
	var out []*models.LoanApplication
	for _, app := range r.apps {
		if app.ApplicantID != nil && *app.ApplicantID == applicantID {
			out = append(out, app)
		}
	}
	return out, nil
}

func (r *fakeApplicationRepo) CountByStatus(_ context.Context) (map[string]int64, error) {
	out := map[string]int64{}
	for _, app := range r.apps {
		out[app.Status]++
	}
	return out, nil
}

func (r *fakeApplicationRepo) CountByRiskCategory(_ context.Context) (map[string]int64, error) {
	out := map[string]int64{}
	for _, app := range r.apps {
		if app.RiskCategory != nil {
			out[*app.RiskCategory]++
		}
	}
	return out, nil
}

type fakeProductRepo struct {
	products map[uint]*models.LoanProduct
	nextID   uint
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: map[uint]*models.LoanProduct{}, nextID: 1}
}

func (r *fakeProductRepo) Create(_ context.Context, p *models.LoanProduct) error {
	p.ID = r.nextID
	r.nextID++
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, id uint) (*models.LoanProduct, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *fakeProductRepo) GetByCode(_ context.Context, code string) (*models.LoanProduct, error) {
	for _, p := range r.products {
		if p.Code == code {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeProductRepo) Update(_ context.Context, p *models.LoanProduct) error {
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id uint) error {
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) List(_ context.Context, activeOnly bool) ([]*models.LoanProduct, error) {
	var out []*models.LoanProduct
	for _, p := range r.products {
		if !activeOnly || p.IsActive {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeSettingsRepo struct {
	rows   []*models.RiskSettings
	nextID uint
}

func newFakeSettingsRepo() *fakeSettingsRepo {
	return &fakeSettingsRepo{nextID: 1}
}

func (r *fakeSettingsRepo) GetActive(_ context.Context) (*models.RiskSettings, error) {
	for _, row := range r.rows {
		if row.IsActive {
			return row, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeSettingsRepo) Create(_ context.Context, settings *models.RiskSettings) error {
	settings.ID = r.nextID
	r.nextID++
	r.rows = append(r.rows, settings)
	return nil
}

func (r *fakeSettingsRepo) DeactivateAll(_ context.Context) error {
	for _, row := range r.rows {
		row.IsActive = false
	}
	return nil
}

func (r *fakeSettingsRepo) List(_ context.Context, _, _ int) ([]*models.RiskSettings, int64, error) {
	return r.rows, int64(len(r.rows)), nil
}

type fakeLoanRepo struct {
	loans        map[uint]*models.Loan
	installments map[uint]*models.Installment
	nextLoanID   uint
	nextInstID   uint
}

func newFakeLoanRepo() *fakeLoanRepo {
	return &fakeLoanRepo{
		loans:        map[uint]*models.Loan{},
		installments: map[uint]*models.Installment{},
		nextLoanID:   1,
		nextInstID:   1,
	}
}

func (r *fakeLoanRepo) Create(_ context.Context, loan *models.Loan) error {
	loan.ID = r.nextLoanID
	r.nextLoanID++
	r.loans[loan.ID] = loan
	return nil
}

func (r *fakeLoanRepo) GetByID(ctx context.Context, id uint) (*models.Loan, error) {
	loan, ok := r.loans[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	insts, _ := r.ListInstallments(ctx, id)
	loan.Installments = loan.Installments[:0]
	for _, inst := range insts {
		loan.Installments = append(loan.Installments, *inst)
	}
	return loan, nil
}

func (r *fakeLoanRepo) Update(_ context.Context, loan *models.Loan) error {
	r.loans[loan.ID] = loan
	return nil
}

func (r *fakeLoanRepo) ListByApplicant(ctx context.Context, applicantID uint) ([]*models.Loan, error) {
	var out []*models.Loan
	for id, loan := range r.loans {
		if loan.ApplicantID == applicantID {
			full, _ := r.GetByID(ctx, id)
			out = append(out, full)
		}
	}
	return out, nil
}

func (r *fakeLoanRepo) List(_ context.Context, status string, _, _ int) ([]*models.Loan, int64, error) {
	var out []*models.Loan
	for _, loan := range r.loans {
		if status == "" || loan.Status == status {
			out = append(out, loan)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeLoanRepo) SumDisbursed(_ context.Context) (float64, error) {
	var sum float64
	for _, loan := range r.loans {
		sum += loan.Principal
	}
	return sum, nil
}

func (r *fakeLoanRepo) CreateInstallments(_ context.Context, installments []*models.Installment) error {
	for _, inst := range installments {
		inst.ID = r.nextInstID
		r.nextInstID++
		r.installments[inst.ID] = inst
	}
	return nil
}

func (r *fakeLoanRepo) GetInstallment(_ context.Context, id uint) (*models.Installment, error) {
	inst, ok := r.installments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return inst, nil
}

func (r *fakeLoanRepo) UpdateInstallment(_ context.Context, inst *models.Installment) error {
	r.installments[inst.ID] = inst
	return nil
}

func (r *fakeLoanRepo) ListInstallments(_ context.Context, loanID uint) ([]*models.Installment, error) {
	var out []*models.Installment
	for _, inst := range r.installments {
		if inst.LoanID == loanID {
			out = append(out, inst)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out, nil
}

func (r *fakeLoanRepo) ListInstallmentsDueOn(_ context.Context, date time.Time) ([]*models.Installment, error) {
	var out []*models.Installment
	day := date.Format("2006-01-02")
	for _, inst := range r.installments {
		if inst.Status == models.InstallmentPending && inst.DueDate.Format("2006-01-02") == day {
			out = append(out, inst)
		}
	}
	return out, nil
}

func (r *fakeLoanRepo) ListInstallmentsOverdue(_ context.Context, asOf time.Time) ([]*models.Installment, error) {
	var out []*models.Installment
	for _, inst := range r.installments {
		if inst.Status == models.InstallmentPaid {
			continue
		}
		if inst.DueDate.Before(asOf.Truncate(24 * time.Hour)) {
			inst.Loan = r.loans[inst.LoanID]
			out = append(out, inst)
		}
	}
	return out, nil
}

type fakeNotificationRepo struct {
	entries []*models.NotificationLog
}

func (r *fakeNotificationRepo) Create(_ context.Context, entry *models.NotificationLog) error {
	r.entries = append(r.entries, entry)
	return nil
}

func (r *fakeNotificationRepo) ListByApplicant(_ context.Context, applicantID uint, _, _ int) ([]*models.NotificationLog, int64, error) {
	var out []*models.NotificationLog
	for _, entry := range r.entries {
		if entry.ApplicantID != nil && *entry.ApplicantID == applicantID {
			out = append(out, entry)
		}
	}
	return out, int64(len(out)), nil
}
