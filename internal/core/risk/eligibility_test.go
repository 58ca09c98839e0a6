package risk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAsOf = time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)

func testPolicy() PolicySnapshot {
	return PolicySnapshot{
		MinAge:                18,
		MaxAge:                60,
		MinCreditScore:        0,
		LowRiskThreshold:      30,
		MediumRiskThreshold:   60,
		AutoRoutingEnabled:    false,
		MaxAutoApprovalAmount: 25000,
	}
}

// dobForAge returns a date of birth that yields the given whole-year age at
// testAsOf, with a few months of margin.
func dobForAge(age int) *time.Time {
	dob := testAsOf.AddDate(-age, -4, 0)
	return &dob
}

func intPtr(v int) *int { return &v }

func verifiedApplicant(age int) Applicant {
	return Applicant{
		PhoneNumber:       "9876543210",
		DateOfBirth:       dobForAge(age),
		BureauScore:       intPtr(780),
		CreditLimit:       50000,
		UsedCredit:        0,
		BankVerified:      true,
		BankAccountNumber: "004401123456",
	}
}

func verifiedKYC() KYCRecord {
	return KYCRecord{
		Status:          KYCVerified,
		InternalScore:   intPtr(20),
		HasPrimaryID:    true,
		HasAddressProof: true,
		HasSelfie:       true,
	}
}

func TestCheckEligibilityCleanApplicantPasses(t *testing.T) {
	result := CheckEligibility(verifiedApplicant(26), verifiedKYC(), testPolicy(), testAsOf)
	require.True(t, result.Eligible)
	assert.Empty(t, result.Reasons)
}

func TestCheckEligibilityReportsEveryViolation(t *testing.T) {
	applicant := Applicant{
		PhoneNumber: "12345", // not a valid mobile
		DateOfBirth: nil,
		IsBlocked:   true,
		FraudFlag:   true,
	}
	kyc := KYCRecord{Status: KYCPending}

	result := CheckEligibility(applicant, kyc, testPolicy(), testAsOf)
	require.False(t, result.Eligible)
	assert.Equal(t, []string{
		"KYC not completed or verified",
		"Date of birth not provided",
		"Invalid mobile number",
		"Bank account not verified",
		"Applicant is blacklisted",
		"Applicant is flagged for fraud",
	}, result.Reasons)
}

func TestCheckEligibilityMissingProofDocuments(t *testing.T) {
	kyc := verifiedKYC()
	kyc.HasAddressProof = false
	kyc.HasSelfie = false

	result := CheckEligibility(verifiedApplicant(26), kyc, testPolicy(), testAsOf)
	require.False(t, result.Eligible)
	assert.Equal(t, []string{"Address proof missing", "Live selfie missing"}, result.Reasons)
}

func TestCheckEligibilityAgeWindow(t *testing.T) {
	policy := testPolicy()

	tests := []struct {
		name     string
		age      int
		eligible bool
	}{
		{"below minimum", 17, false},
		{"at minimum", 18, true},
		{"at maximum", 60, true},
		{"above maximum", 61, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := CheckEligibility(verifiedApplicant(tc.age), verifiedKYC(), policy, testAsOf)
			assert.Equal(t, tc.eligible, result.Eligible, "reasons: %v", result.Reasons)
		})
	}
}

func TestCheckEligibilityMobilePattern(t *testing.T) {
	tests := []struct {
		phone string
		valid bool
	}{
		{"9876543210", true},
		{"6000000001", true},
		{"5876543210", false}, // first digit below 6
		{"98765432", false},   // too short
		{"98765432101", false},
		{"987654321a", false},
		{"", false},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.valid, ValidMobile(tc.phone), "phone %q", tc.phone)
	}
}

func TestCheckEligibilityCreditScoreFloor(t *testing.T) {
	policy := testPolicy()
	policy.MinCreditScore = 650

	applicant := verifiedApplicant(26)
	applicant.BureauScore = intPtr(600)
	result := CheckEligibility(applicant, verifiedKYC(), policy, testAsOf)
	require.False(t, result.Eligible)
	assert.Contains(t, result.Reasons[0], "below minimum 650")

	// Absence of a bureau score is a scoring concern, not a gate failure.
	applicant.BureauScore = nil
	result = CheckEligibility(applicant, verifiedKYC(), policy, testAsOf)
	assert.True(t, result.Eligible)
}

func TestPolicySnapshotValidate(t *testing.T) {
	require.NoError(t, testPolicy().Validate())

	bad := testPolicy()
	bad.LowRiskThreshold = 60
	bad.MediumRiskThreshold = 60
	assert.Error(t, bad.Validate())

	bad = testPolicy()
	bad.MinAge = 60
	bad.MaxAge = 18
	assert.Error(t, bad.Validate())

	bad = testPolicy()
	bad.MaxAutoApprovalAmount = -1
	assert.Error(t, bad.Validate())
}

func TestAgeAt(t *testing.T) {
	assert.Equal(t, -1, AgeAt(nil, testAsOf))

	dob := testAsOf.AddDate(-30, 0, 2) // two days short of the 30th birthday
	assert.Equal(t, 29, AgeAt(&dob, testAsOf))

	dob = testAsOf.AddDate(-30, 0, -2)
	assert.Equal(t, 30, AgeAt(&dob, testAsOf))
}
