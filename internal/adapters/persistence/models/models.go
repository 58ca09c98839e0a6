package models

import (
	"time"

	"gorm.io/gorm"
)

// ============================================================
// Auth & Staff Tables
// ============================================================

// StaffUser represents staff_users table (back-office operators)
type StaffUser struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email     string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password  string         `gorm:"size:255;not null" json:"-"`
	Role      string         `gorm:"size:20;default:'OFFICER'" json:"role"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (StaffUser) TableName() string {
	return "staff_users"
}

// StaffUserResponse DTO
type StaffUserResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *StaffUser) ToResponse() *StaffUserResponse {
	return &StaffUserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      StaffUser  `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Applicant & KYC Tables
// ============================================================

// Applicant represents applicants table (borrower master record)
type Applicant struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	PhoneNumber string     `gorm:"uniqueIndex;size:15;not null" json:"phone_number"`
	FullName    string     `gorm:"size:100;not null" json:"full_name"`
	Email       string     `gorm:"size:100" json:"email"`
	DateOfBirth *time.Time `gorm:"type:date" json:"date_of_birth"`

	// Risk flags maintained by operations / fraud review
	IsBlocked              bool `gorm:"default:false" json:"is_blocked"`
	FraudFlag              bool `gorm:"default:false" json:"fraud_flag"`
	MultipleAccountsFlag   bool `gorm:"default:false" json:"multiple_accounts_flag"`
	SuspiciousActivityFlag bool `gorm:"default:false" json:"suspicious_activity_flag"`

	// Bureau & credit line
	BureauScore *int    `json:"bureau_score"` // 300-900, nil = no bureau record
	CreditLimit float64 `gorm:"type:decimal(15,2);default:0" json:"credit_limit"`
	UsedCredit  float64 `gorm:"type:decimal(15,2);default:0" json:"used_credit"`

	// Bank account
	BankAccountNumber string `gorm:"size:30" json:"bank_account_number"`
	BankIFSC          string `gorm:"size:15" json:"bank_ifsc"`
	BankVerified      bool   `gorm:"default:false" json:"bank_verified"`

	PhoneVerified bool           `gorm:"default:false" json:"phone_verified"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	KYC *KYCRecord `gorm:"foreignKey:ApplicantID" json:"kyc,omitempty"`
}

func (Applicant) TableName() string {
	return "applicants"
}

// KYC verification statuses (mirrors the engine's VerificationStatus values)
const (
	KYCStatusNotStarted = "NOT_STARTED"
	KYCStatusPending    = "PENDING"
	KYCStatusVerified   = "VERIFIED"
	KYCStatusRejected   = "REJECTED"
	KYCStatusExpired    = "EXPIRED"
)

// KYCRecord represents kyc_records table (one per applicant)
type KYCRecord struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	ApplicantID uint   `gorm:"uniqueIndex;not null" json:"applicant_id"`
	Status      string `gorm:"size:20;not null;default:'NOT_STARTED'" json:"status"`

	// Internal risk score assigned during verification (0-100)
	InternalScore *int `json:"internal_score"`

	// Proof document checklist
	HasPrimaryID    bool `gorm:"default:false" json:"has_primary_id"`
	HasAddressProof bool `gorm:"default:false" json:"has_address_proof"`
	HasSelfie       bool `gorm:"default:false" json:"has_selfie"`

	ReviewedBy *uint      `json:"reviewed_by"`
	ReviewedAt *time.Time `json:"reviewed_at"`
	Remark     string     `gorm:"type:text" json:"remark"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	Applicant *Applicant `gorm:"foreignKey:ApplicantID" json:"applicant,omitempty"`
	Reviewer  *StaffUser `gorm:"foreignKey:ReviewedBy" json:"reviewer,omitempty"`
}

func (KYCRecord) TableName() string {
	return "kyc_records"
}

// OTP purposes
const (
	OTPPurposePhoneVerify = "PHONE_VERIFY"
	OTPPurposeBankVerify  = "BANK_VERIFY"
)

// OTPRequest represents otp_requests table (phone verification)
type OTPRequest struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	PhoneNumber string     `gorm:"size:15;not null;index" json:"phone_number"`
	CodeHash    string     `gorm:"size:255;not null" json:"-"`
	Purpose     string     `gorm:"size:30;not null" json:"purpose"`
	Attempts    int        `gorm:"default:0" json:"attempts"`
	ExpiresAt   time.Time  `gorm:"not null" json:"expires_at"`
	VerifiedAt  *time.Time `json:"verified_at"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (OTPRequest) TableName() string {
	return "otp_requests"
}

// ============================================================
// Policy & Product Master Tables
// ============================================================

// RiskSettings represents risk_settings table. Exactly one row is active at a
// time; the active row is converted into an immutable policy snapshot per
// decision, never read from inside the scoring logic.
type RiskSettings struct {
	ID                    uint    `gorm:"primaryKey" json:"id"`
	MinAge                int     `gorm:"not null" json:"min_age"`
	MaxAge                int     `gorm:"not null" json:"max_age"`
	MinCreditScore        int     `gorm:"not null;default:0" json:"min_credit_score"`
	LowRiskThreshold      int     `gorm:"not null" json:"low_risk_threshold"`
	MediumRiskThreshold   int     `gorm:"not null" json:"medium_risk_threshold"`
	AutoRoutingEnabled    bool    `gorm:"default:false" json:"auto_routing_enabled"`
	MaxAutoApprovalAmount float64 `gorm:"type:decimal(15,2);default:0" json:"max_auto_approval_amount"`

	IsActive  bool      `gorm:"default:false;index" json:"is_active"`
	UpdatedBy *uint     `json:"updated_by"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (RiskSettings) TableName() string {
	return "risk_settings"
}

// LoanProduct represents loan_products table (Master)
type LoanProduct struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Code         string         `gorm:"size:20;uniqueIndex;not null" json:"code"`
	Name         string         `gorm:"size:100;not null" json:"name"`
	Description  string         `gorm:"type:text" json:"description"`
	MinAmount    float64        `gorm:"type:decimal(15,2);not null" json:"min_amount"`
	MaxAmount    float64        `gorm:"type:decimal(15,2);not null" json:"max_amount"`
	InterestRate float64        `gorm:"type:decimal(5,2);not null" json:"interest_rate"`
	TenureDays   int            `gorm:"not null" json:"tenure_days"`
	Installments int            `gorm:"not null;default:1" json:"installments"`
	IsActive     bool           `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (LoanProduct) TableName() string {
	return "loan_products"
}

// ============================================================
// Application & Decision Tables
// ============================================================

// Application statuses
const (
	AppStatusRejected    = "REJECTED"
	AppStatusUnderReview = "UNDER_REVIEW"
	AppStatusApproved    = "APPROVED"
	AppStatusDisbursed   = "DISBURSED"
)

// LoanApplication represents loan_applications table. The decision fields are
// written once by the decision engine and never recomputed; they are the
// audit record of why an application was routed the way it was.
type LoanApplication struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	AppNo       string  `gorm:"size:40;uniqueIndex;not null" json:"app_no"`
	ApplicantID *uint   `gorm:"index" json:"applicant_id"`
	PhoneNumber string  `gorm:"size:15;not null;index" json:"phone_number"`
	ProductID   *uint   `json:"product_id"`
	Amount      float64 `gorm:"type:decimal(15,2);not null" json:"amount"`

	// Decision record
	Action       string  `gorm:"size:20;not null" json:"action"`
	Status       string  `gorm:"size:20;not null;index" json:"status"`
	Message      string  `gorm:"type:text" json:"message"`
	RiskScore    *int    `json:"risk_score"`
	RiskCategory *string `gorm:"size:10" json:"risk_category"`
	RiskFactors  string  `gorm:"type:text" json:"-"` // JSON array, evaluation order

	ReviewedBy *uint      `json:"reviewed_by"`
	ReviewedAt *time.Time `json:"reviewed_at"`
	Remark     string     `gorm:"type:text" json:"remark"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	Applicant *Applicant   `gorm:"foreignKey:ApplicantID" json:"applicant,omitempty"`
	Product   *LoanProduct `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Reviewer  *StaffUser   `gorm:"foreignKey:ReviewedBy" json:"reviewer,omitempty"`
}

func (LoanApplication) TableName() string {
	return "loan_applications"
}

// ============================================================
// Loan Ledger Tables
// ============================================================

// Loan statuses
const (
	LoanStatusActive     = "ACTIVE"
	LoanStatusRepaid     = "REPAID"
	LoanStatusOverdue    = "OVERDUE"
	LoanStatusWrittenOff = "WRITTEN_OFF"
)

// Loan represents loans table (disbursement ledger)
type Loan struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	ApplicationID uint       `gorm:"uniqueIndex;not null" json:"application_id"`
	ApplicantID   uint       `gorm:"index;not null" json:"applicant_id"`
	Principal     float64    `gorm:"type:decimal(15,2);not null" json:"principal"`
	InterestRate  float64    `gorm:"type:decimal(5,2);not null" json:"interest_rate"`
	TenureDays    int        `gorm:"not null" json:"tenure_days"`
	Status        string     `gorm:"size:20;not null;index" json:"status"`
	DisbursedAt   time.Time  `gorm:"not null" json:"disbursed_at"`
	DueDate       time.Time  `gorm:"type:date;not null" json:"due_date"`
	ClosedAt      *time.Time `json:"closed_at"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	Application  *LoanApplication `gorm:"foreignKey:ApplicationID" json:"application,omitempty"`
	Applicant    *Applicant       `gorm:"foreignKey:ApplicantID" json:"applicant,omitempty"`
	Installments []Installment    `gorm:"foreignKey:LoanID" json:"installments,omitempty"`
}

func (Loan) TableName() string {
	return "loans"
}

// Installment statuses
const (
	InstallmentPending = "PENDING"
	InstallmentPaid    = "PAID"
	InstallmentOverdue = "OVERDUE"
)

// Installment represents installments table
type Installment struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	LoanID      uint       `gorm:"index;not null" json:"loan_id"`
	Seq         int        `gorm:"not null" json:"seq"`
	Amount      float64    `gorm:"type:decimal(15,2);not null" json:"amount"`
	DueDate     time.Time  `gorm:"type:date;not null" json:"due_date"`
	Status      string     `gorm:"size:20;not null;default:'PENDING'" json:"status"`
	PaidAt      *time.Time `json:"paid_at"`
	PaidAmount  *float64   `gorm:"type:decimal(15,2)" json:"paid_amount"`
	DaysOverdue *int       `json:"days_overdue"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	Loan *Loan `gorm:"foreignKey:LoanID" json:"loan,omitempty"`
}

func (Installment) TableName() string {
	return "installments"
}

// ============================================================
// Notification Tables
// ============================================================

// Notification statuses
const (
	NotifStatusSent    = "SENT"
	NotifStatusFailed  = "FAILED"
	NotifStatusSkipped = "SKIPPED"
)

// NotificationLog represents notification_logs table
type NotificationLog struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ApplicantID *uint     `gorm:"index" json:"applicant_id"`
	PhoneNumber string    `gorm:"size:15;not null" json:"phone_number"`
	Channel     string    `gorm:"size:10;not null;default:'SMS'" json:"channel"`
	Template    string    `gorm:"size:50;not null" json:"template"`
	Message     string    `gorm:"type:text" json:"message"`
	Status      string    `gorm:"size:10;not null" json:"status"`
	Error       string    `gorm:"type:text" json:"error,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (NotificationLog) TableName() string {
	return "notification_logs"
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		// Auth & Staff
		&StaffUser{},
		&RefreshToken{},
		// Applicant & KYC
		&Applicant{},
		&KYCRecord{},
		&OTPRequest{},
		// Policy & Master
		&RiskSettings{},
		&LoanProduct{},
		// Applications & Loans
		&LoanApplication{},
		&Loan{},
		&Installment{},
		// Notifications
		&NotificationLog{},
	)
}
