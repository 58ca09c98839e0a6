package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreCleanFirstTimeBorrower(t *testing.T) {
	score, factors := Score(verifiedApplicant(26), verifiedKYC(), 5000, testPolicy(), nil, testAsOf)

	assert.Equal(t, 5, score)
	assert.Equal(t, []string{"First-time borrower"}, factors)
}

func TestScoreBureauBands(t *testing.T) {
	tests := []struct {
		name   string
		bureau *int
		points int
	}{
		{"poor", intPtr(550), pointsBureauPoor},
		{"fair", intPtr(650), pointsBureauFair},
		{"good", intPtr(740), pointsBureauGood},
		{"excellent", intPtr(780), 0},
		{"missing", nil, pointsBureauMissing},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			applicant := verifiedApplicant(26)
			applicant.BureauScore = tc.bureau
			points, _ := factorBureauScore(scoreInput{applicant: applicant})
			assert.Equal(t, tc.points, points)
		})
	}
}

func TestScoreKYCInternalScore(t *testing.T) {
	kyc := verifiedKYC()
	kyc.InternalScore = intPtr(80)
	points, reason := factorKYCQuality(scoreInput{kyc: kyc})
	assert.Equal(t, 16, points) // 80 * 0.2
	assert.Equal(t, "Elevated KYC risk score: 80", reason)

	kyc.InternalScore = intPtr(50) // at the bar, not above it
	points, _ = factorKYCQuality(scoreInput{kyc: kyc})
	assert.Zero(t, points)

	kyc.Status = KYCPending
	points, _ = factorKYCQuality(scoreInput{kyc: kyc})
	assert.Equal(t, pointsKYCUnverified, points)
}

func TestScoreRepaymentHistory(t *testing.T) {
	in := scoreInput{history: History{
		{Status: LoanOverdue, DaysOverdue: intPtr(12)},
		{Status: LoanOverdue, DaysOverdue: intPtr(14)},
		{Status: LoanRepaid},
	}}
	points, reason := factorRepaymentHistory(in)
	assert.Equal(t, 2*pointsPerOverdueLoan+pointsChronicLateRepay, points)
	assert.Contains(t, reason, "2 overdue loan(s)")
	assert.Contains(t, reason, "13.0 days average")

	in = scoreInput{history: History{
		{Status: LoanRepaid, DaysOverdue: intPtr(6)},
		{Status: LoanRepaid, DaysOverdue: intPtr(8)},
	}}
	points, reason = factorRepaymentHistory(in)
	assert.Equal(t, pointsModerateLateRepay, points)
	assert.Contains(t, reason, "Late repayment pattern")
}

func TestScoreGoodHistoryBonusFloorsAtZero(t *testing.T) {
	history := History{
		{Status: LoanRepaid},
		{Status: LoanRepaid},
		{Status: LoanRepaid},
	}
	score, factors := Score(verifiedApplicant(26), verifiedKYC(), 5000, testPolicy(), history, testAsOf)

	// The -10 bonus fires with nothing before it; the total must not go
	// negative, and no later factor fires for a clean repeat borrower.
	assert.Equal(t, 0, score)
	assert.Equal(t, []string{"Good repayment history: 3 loans repaid"}, factors)
}

func TestScoreUtilization(t *testing.T) {
	applicant := verifiedApplicant(26)
	applicant.CreditLimit = 10000
	applicant.UsedCredit = 9500

	points, reason := factorUtilization(scoreInput{applicant: applicant, amount: 1000})
	assert.Equal(t, pointsOverLimit, points)
	assert.Contains(t, reason, "exceeds available credit")

	applicant.UsedCredit = 8500
	points, reason = factorUtilization(scoreInput{applicant: applicant, amount: 1000})
	assert.Equal(t, pointsHighUtilization, points)
	assert.Contains(t, reason, "95%")

	applicant.UsedCredit = 7500
	points, _ = factorUtilization(scoreInput{applicant: applicant, amount: 1000})
	assert.Equal(t, pointsRaisedUtilization, points)

	applicant.UsedCredit = 1000
	points, _ = factorUtilization(scoreInput{applicant: applicant, amount: 1000})
	assert.Zero(t, points)
}

func TestScoreClampsAt100(t *testing.T) {
	applicant := Applicant{
		PhoneNumber:            "12345",
		IsBlocked:              true,
		FraudFlag:              true,
		MultipleAccountsFlag:   true,
		SuspiciousActivityFlag: true,
		BureauScore:            intPtr(450),
	}
	kyc := KYCRecord{Status: KYCRejected}
	history := History{
		{Status: LoanOverdue, DaysOverdue: intPtr(30)},
		{Status: LoanOverdue, DaysOverdue: intPtr(45)},
	}

	score, factors := Score(applicant, kyc, 50000, testPolicy(), history, testAsOf)
	assert.Equal(t, 100, score)
	assert.NotEmpty(t, factors)
}

func TestScoreFactorOrderIsFixed(t *testing.T) {
	applicant := Applicant{
		PhoneNumber:            "12345",
		DateOfBirth:            dobForAge(19),
		SuspiciousActivityFlag: true,
		BureauScore:            intPtr(550),
	}
	kyc := KYCRecord{Status: KYCPending}

	_, factors := Score(applicant, kyc, 5000, testPolicy(), nil, testAsOf)
	require.Equal(t, []string{
		"KYC not verified (status: PENDING)", // factor 1
		"Young borrower: 19",                 // factor 2
		"Bank account not verified",          // factor 3
		"Invalid mobile number",              // factor 4
		"Poor credit score: 550",             // factor 6
		"Suspicious activity flagged",        // factor 8
		"Requested amount 5000.00 exceeds available credit 0.00", // factor 9
		"First-time borrower",                                    // factor 10
	}, factors)
}

func TestScoreIsDeterministic(t *testing.T) {
	applicant := verifiedApplicant(19)
	applicant.BureauScore = intPtr(650)
	history := History{{Status: LoanRepaid, DaysOverdue: intPtr(3)}}

	score1, factors1 := Score(applicant, verifiedKYC(), 8000, testPolicy(), history, testAsOf)
	score2, factors2 := Score(applicant, verifiedKYC(), 8000, testPolicy(), history, testAsOf)
	assert.Equal(t, score1, score2)
	assert.Equal(t, factors1, factors2)
}

func TestCategorizeBoundaries(t *testing.T) {
	policy := testPolicy() // low 30, medium 60

	assert.Equal(t, CategoryLow, Categorize(0, policy))
	assert.Equal(t, CategoryLow, Categorize(29, policy))
	assert.Equal(t, CategoryMedium, Categorize(30, policy))
	assert.Equal(t, CategoryMedium, Categorize(59, policy))
	assert.Equal(t, CategoryHigh, Categorize(60, policy))
	assert.Equal(t, CategoryHigh, Categorize(100, policy))
}
