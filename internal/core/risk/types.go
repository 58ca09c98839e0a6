package risk

import (
	"fmt"
	"time"
)

// VerificationStatus represents the KYC verification state of an applicant
type VerificationStatus string

const (
	KYCNotStarted VerificationStatus = "NOT_STARTED"
	KYCPending    VerificationStatus = "PENDING"
	KYCVerified   VerificationStatus = "VERIFIED"
	KYCRejected   VerificationStatus = "REJECTED"
	KYCExpired    VerificationStatus = "EXPIRED"
)

// Category represents the risk bucket of a scored application
type Category string

const (
	CategoryLow    Category = "LOW"
	CategoryMedium Category = "MEDIUM"
	CategoryHigh   Category = "HIGH"
)

// Action represents the routing outcome of a decision
type Action string

const (
	ActionReject       Action = "REJECT"
	ActionManualReview Action = "MANUAL_REVIEW"
	ActionAutoApprove  Action = "AUTO_APPROVE"
	ActionAutoReject   Action = "AUTO_REJECT"
)

// Status labels attached to a Decision
const (
	StatusRejected    = "REJECTED"
	StatusUnderReview = "UNDER_REVIEW"
	StatusApproved    = "APPROVED"
)

// LoanStatus is the terminal status of a prior loan
type LoanStatus string

const (
	LoanRepaid  LoanStatus = "REPAID"
	LoanOverdue LoanStatus = "OVERDUE"
	LoanOther   LoanStatus = "OTHER"
)

// Applicant is a point-in-time copy of the applicant record.
// The engine only reads it; ownership stays with the user-records store.
type Applicant struct {
	PhoneNumber            string
	DateOfBirth            *time.Time
	IsBlocked              bool
	FraudFlag              bool
	MultipleAccountsFlag   bool
	SuspiciousActivityFlag bool
	BureauScore            *int // 300-900, nil when no bureau record exists
	CreditLimit            float64
	UsedCredit             float64
	BankVerified           bool
	BankAccountNumber      string
}

// KYCRecord is the applicant's identity-verification snapshot
type KYCRecord struct {
	Status          VerificationStatus
	InternalScore   *int // 0-100 internal risk score, nil when not assessed
	HasPrimaryID    bool
	HasAddressProof bool
	HasSelfie       bool
}

// LoanRecord is one prior loan with its terminal status
type LoanRecord struct {
	Status      LoanStatus
	DaysOverdue *int // worst days-overdue observed on its installments
}

// History is the applicant's prior loan history, oldest first
type History []LoanRecord

// CountOverdue returns the number of prior loans that ended overdue
func (h History) CountOverdue() int {
	n := 0
	for _, rec := range h {
		if rec.Status == LoanOverdue {
			n++
		}
	}
	return n
}

// CountRepaid returns the number of prior loans repaid in full
func (h History) CountRepaid() int {
	n := 0
	for _, rec := range h {
		if rec.Status == LoanRepaid {
			n++
		}
	}
	return n
}

// MeanDaysOverdue returns the mean of the recorded days-overdue measurements.
// Loans without a measurement are excluded; returns 0 when none exist.
func (h History) MeanDaysOverdue() float64 {
	sum, n := 0, 0
	for _, rec := range h {
		if rec.DaysOverdue != nil {
			sum += *rec.DaysOverdue
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

// PolicySnapshot is an immutable bundle of policy thresholds valid for one
// decision. The engine never mutates it and never fetches it itself; the
// settings layer validates it before handing it in.
type PolicySnapshot struct {
	MinAge              int
	MaxAge              int
	MinCreditScore      int // 0 = no floor
	LowRiskThreshold    int
	MediumRiskThreshold int

	// Routing policy. AutoRoutingEnabled is off in the current policy, which
	// forces every eligible application to manual review; the lanes below
	// become reachable once it is switched on.
	AutoRoutingEnabled    bool
	MaxAutoApprovalAmount float64
}

// Validate checks the snapshot invariants. Called at configuration-load time
// by the settings layer; the engine assumes a valid snapshot.
func (p PolicySnapshot) Validate() error {
	if p.MinAge <= 0 || p.MaxAge <= 0 {
		return fmt.Errorf("age limits must be positive (min=%d max=%d)", p.MinAge, p.MaxAge)
	}
	if p.MinAge >= p.MaxAge {
		return fmt.Errorf("minAge (%d) must be below maxAge (%d)", p.MinAge, p.MaxAge)
	}
	if p.MinCreditScore < 0 || p.MinCreditScore > 900 {
		return fmt.Errorf("minCreditScore out of range: %d", p.MinCreditScore)
	}
	if p.LowRiskThreshold < 0 || p.MediumRiskThreshold > 100 {
		return fmt.Errorf("risk thresholds out of range (low=%d medium=%d)", p.LowRiskThreshold, p.MediumRiskThreshold)
	}
	if p.LowRiskThreshold >= p.MediumRiskThreshold {
		return fmt.Errorf("lowRiskThreshold (%d) must be below mediumRiskThreshold (%d)", p.LowRiskThreshold, p.MediumRiskThreshold)
	}
	if p.MaxAutoApprovalAmount < 0 {
		return fmt.Errorf("maxAutoApprovalAmount must not be negative: %.2f", p.MaxAutoApprovalAmount)
	}
	return nil
}

// Eligibility is the outcome of the hard pass/fail gate
type Eligibility struct {
	Eligible bool     `json:"eligible"`
	Reasons  []string `json:"reasons,omitempty"`
}

// Assessment is the result of scoring one application.
// Factors are ordered by evaluation order and reproducible for equal inputs.
type Assessment struct {
	Score    int      `json:"risk_score"`
	Category Category `json:"risk_category"`
	Factors  []string `json:"risk_factors"`
}

// Decision is the engine's sole output artifact
type Decision struct {
	Action     Action      `json:"action"`
	Status     string      `json:"status"`
	Message    string      `json:"message"`
	Assessment *Assessment `json:"risk_assessment,omitempty"`
}
