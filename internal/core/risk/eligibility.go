// Package risk implements the loan eligibility and risk-scoring engine.
//
// The engine is a pure, synchronous, stateless function of its inputs: every
// call receives point-in-time copies of the applicant, KYC record, loan
// history and policy snapshot, and returns a Decision without touching any
// store. Identical inputs always yield an identical Decision, because
// decisions are audited.
package risk

import (
	"fmt"
	"math"
	"regexp"
	"time"
)

// mobilePattern matches a 10-digit Indian mobile number (first digit 6-9)
var mobilePattern = regexp.MustCompile(`^[6-9][0-9]{9}$`)

// daysPerYear is used for age computation from date of birth
const daysPerYear = 365.25

// AgeAt returns the applicant's age in whole years at the given instant,
// or -1 when the date of birth is unknown.
func AgeAt(dob *time.Time, asOf time.Time) int {
	if dob == nil {
		return -1
	}
	days := asOf.Sub(*dob).Hours() / 24
	return int(math.Floor(days / daysPerYear))
}

// ValidMobile reports whether the phone number passes the single-country
// mobile validation rule.
func ValidMobile(phone string) bool {
	return mobilePattern.MatchString(phone)
}

// CheckEligibility runs the hard pass/fail checks that must all succeed
// before any risk score is computed. Every check is evaluated, not
// short-circuited, so the reasons list itemizes every violated rule.
func CheckEligibility(a Applicant, kyc KYCRecord, policy PolicySnapshot, asOf time.Time) Eligibility {
	var reasons []string

	// 1. Identity verification and proof documents
	if kyc.Status != KYCVerified {
		reasons = append(reasons, "KYC not completed or verified")
	} else {
		if !kyc.HasPrimaryID {
			reasons = append(reasons, "Primary government ID proof missing")
		}
		if !kyc.HasAddressProof {
			reasons = append(reasons, "Address proof missing")
		}
		if !kyc.HasSelfie {
			reasons = append(reasons, "Live selfie missing")
		}
	}

	// 2. Age window
	if a.DateOfBirth == nil {
		reasons = append(reasons, "Date of birth not provided")
	} else {
		age := AgeAt(a.DateOfBirth, asOf)
		if age < policy.MinAge || age > policy.MaxAge {
			reasons = append(reasons, fmt.Sprintf("Age %d outside allowed range %d-%d", age, policy.MinAge, policy.MaxAge))
		}
	}

	// 3. Mobile number
	if !ValidMobile(a.PhoneNumber) {
		reasons = append(reasons, "Invalid mobile number")
	}

	// 4. Bank account
	if a.BankAccountNumber == "" || !a.BankVerified {
		reasons = append(reasons, "Bank account not verified")
	}

	// 5. Critical flags are absolute vetoes
	if a.IsBlocked {
		reasons = append(reasons, "Applicant is blacklisted")
	}
	if a.FraudFlag {
		reasons = append(reasons, "Applicant is flagged for fraud")
	}

	// 6. Bureau score floor (0 = no floor)
	if policy.MinCreditScore > 0 && a.BureauScore != nil && *a.BureauScore < policy.MinCreditScore {
		reasons = append(reasons, fmt.Sprintf("Credit score %d below minimum %d", *a.BureauScore, policy.MinCreditScore))
	}

	return Eligibility{Eligible: len(reasons) == 0, Reasons: reasons}
}
