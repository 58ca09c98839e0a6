package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Scenario: clean low-risk first-time applicant
func TestEvaluateCleanLowRiskApplicant(t *testing.T) {
	decision := Evaluate(verifiedApplicant(26), verifiedKYC(), 5000, testPolicy(), nil, testAsOf)

	assert.Equal(t, ActionManualReview, decision.Action)
	assert.Equal(t, StatusUnderReview, decision.Status)
	require.NotNil(t, decision.Assessment)
	assert.Equal(t, 5, decision.Assessment.Score)
	assert.Equal(t, CategoryLow, decision.Assessment.Category)
	assert.Equal(t, []string{"First-time borrower"}, decision.Assessment.Factors)
	assert.Contains(t, decision.Message, "Low risk profile")
}

// Scenario: young borrower pushing utilization near the limit
func TestEvaluateYoungHighUtilizationApplicant(t *testing.T) {
	applicant := verifiedApplicant(19)
	applicant.BureauScore = intPtr(650)
	applicant.CreditLimit = 100000
	applicant.UsedCredit = 91000

	decision := Evaluate(applicant, verifiedKYC(), 5000, testPolicy(), nil, testAsOf)

	assert.Equal(t, ActionManualReview, decision.Action)
	require.NotNil(t, decision.Assessment)
	assert.Equal(t, CategoryMedium, decision.Assessment.Category)
	assert.Contains(t, decision.Assessment.Factors, "Young borrower: 19")
	assert.Contains(t, decision.Assessment.Factors, "High projected utilization: 96%")
}

// Scenario: behavioral flags below the critical veto threshold still score
func TestEvaluateHighRiskButEligibleApplicant(t *testing.T) {
	applicant := verifiedApplicant(18)
	applicant.BureauScore = intPtr(550)
	applicant.SuspiciousActivityFlag = true
	history := History{
		{Status: LoanOverdue, DaysOverdue: intPtr(11)},
		{Status: LoanOverdue, DaysOverdue: intPtr(13)},
	}

	decision := Evaluate(applicant, verifiedKYC(), 5000, testPolicy(), history, testAsOf)

	assert.Equal(t, ActionManualReview, decision.Action)
	require.NotNil(t, decision.Assessment)
	assert.Equal(t, CategoryHigh, decision.Assessment.Category)
	assert.Contains(t, decision.Assessment.Factors, "Young borrower: 18")
	assert.Contains(t, decision.Assessment.Factors, "Poor credit score: 550")
	assert.Contains(t, decision.Assessment.Factors, "Suspicious activity flagged")
}

// Scenario: blacklisted applicant is rejected at the gate with no score
func TestEvaluateBlacklistedApplicantNeverScored(t *testing.T) {
	applicant := verifiedApplicant(26)
	applicant.IsBlocked = true

	decision := Evaluate(applicant, verifiedKYC(), 5000, testPolicy(), nil, testAsOf)

	assert.Equal(t, ActionReject, decision.Action)
	assert.Equal(t, StatusRejected, decision.Status)
	assert.Contains(t, decision.Message, "blacklisted")
	assert.Nil(t, decision.Assessment)
}

func TestEvaluateIsIdempotent(t *testing.T) {
	applicant := verifiedApplicant(19)
	applicant.BureauScore = intPtr(650)
	history := History{{Status: LoanRepaid, DaysOverdue: intPtr(7)}}

	first := Evaluate(applicant, verifiedKYC(), 8000, testPolicy(), history, testAsOf)
	second := Evaluate(applicant, verifiedKYC(), 8000, testPolicy(), history, testAsOf)
	assert.Equal(t, first, second)
}

func TestDecideJoinsRejectionReasons(t *testing.T) {
	eligibility := Eligibility{Eligible: false, Reasons: []string{
		"KYC not completed or verified",
		"Bank account not verified",
	}}
	decision := Decide(5000, eligibility, nil, testPolicy())

	assert.Equal(t, ActionReject, decision.Action)
	assert.Equal(t, "KYC not completed or verified; Bank account not verified", decision.Message)
	assert.Nil(t, decision.Assessment)
}

func TestDecideManualReviewIsTheDefaultLane(t *testing.T) {
	policy := testPolicy()
	require.False(t, policy.AutoRoutingEnabled)

	for _, category := range []Category{CategoryLow, CategoryMedium, CategoryHigh} {
		assessment := &Assessment{Score: 10, Category: category}
		decision := Decide(1000, Eligibility{Eligible: true}, assessment, policy)
		assert.Equal(t, ActionManualReview, decision.Action, "category %s", category)
		assert.Equal(t, StatusUnderReview, decision.Status)
		assert.Same(t, assessment, decision.Assessment)
	}
}

func TestDecideAutoRoutingLanes(t *testing.T) {
	policy := testPolicy()
	policy.AutoRoutingEnabled = true
	policy.MaxAutoApprovalAmount = 25000
	eligible := Eligibility{Eligible: true}

	low := &Assessment{Score: 5, Category: CategoryLow}
	decision := Decide(10000, eligible, low, policy)
	assert.Equal(t, ActionAutoApprove, decision.Action)
	assert.Equal(t, StatusApproved, decision.Status)

	// Low risk above the auto-approval cap still goes to a human.
	decision = Decide(30000, eligible, low, policy)
	assert.Equal(t, ActionManualReview, decision.Action)

	medium := &Assessment{Score: 45, Category: CategoryMedium}
	decision = Decide(10000, eligible, medium, policy)
	assert.Equal(t, ActionManualReview, decision.Action)

	high := &Assessment{Score: 80, Category: CategoryHigh}
	decision = Decide(10000, eligible, high, policy)
	assert.Equal(t, ActionAutoReject, decision.Action)
	assert.Equal(t, StatusRejected, decision.Status)
}
