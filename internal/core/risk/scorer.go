package risk

import (
	"fmt"
	"time"
)

// Factor point values. Each factor is independent: it reads raw inputs only,
// never another factor's outcome.
const (
	pointsKYCUnverified      = 20
	pointsAgeUnderage        = 15
	pointsAgeOlderBand       = 10
	pointsAgeYoungAdult      = 5
	pointsAgeUnknown         = 10
	pointsBankUnverified     = 15
	pointsInvalidMobile      = 10
	pointsBlacklisted        = 30
	pointsFraudFlagged       = 30
	pointsBureauPoor         = 20
	pointsBureauFair         = 10
	pointsBureauGood         = 5
	pointsBureauMissing      = 8
	pointsPerOverdueLoan     = 10
	pointsGoodHistoryBonus   = -10
	pointsChronicLateRepay   = 15
	pointsModerateLateRepay  = 8
	pointsMultipleAccounts   = 10
	pointsSuspiciousActivity = 15
	pointsOverLimit          = 10
	pointsHighUtilization    = 10
	pointsRaisedUtilization  = 5
	pointsFirstTimeBorrower  = 5
)

// Scoring band boundaries
const (
	youngAdultMaxAge     = 21 // 18-21 scores as young adult
	olderAgeBand         = 30 // ages above MaxAge-olderAgeBand score extra
	kycInternalScoreBar  = 50
	kycInternalScoreRate = 0.2
	bureauPoorBelow      = 600
	bureauFairBelow      = 700
	bureauGoodBelow      = 750
	goodHistoryMinRepaid = 3
	chronicLateDays      = 10
	moderateLateDays     = 5
	highUtilization      = 0.90
	raisedUtilization    = 0.75
)

// scoreInput bundles the raw inputs so each factor function stays a pure
// lookup with no temporal coupling to the others.
type scoreInput struct {
	applicant Applicant
	kyc       KYCRecord
	amount    float64
	policy    PolicySnapshot
	history   History
	asOf      time.Time
}

// factorFn evaluates one risk factor, returning its points and a
// human-readable explanation. Zero points means the factor did not fire and
// contributes no explanation.
type factorFn func(in scoreInput) (int, string)

// scoreFactors is the fixed evaluation order 1-10. The order is part of the
// contract: the explanation list must be reproducible for equal inputs.
var scoreFactors = []factorFn{
	factorKYCQuality,
	factorAgeBand,
	factorBankVerification,
	factorPhoneValidity,
	factorCriticalFlags,
	factorBureauScore,
	factorRepaymentHistory,
	factorBehavioralFlags,
	factorUtilization,
	factorFirstTimeBorrower,
}

// Score computes the composite risk score for an application that already
// passed the eligibility gate. The ten factors are evaluated in fixed order,
// summed with a floor of 0 (the repayment-history bonus may not drag the
// running total negative), and the final score is clamped to [0, 100].
func Score(a Applicant, kyc KYCRecord, amount float64, policy PolicySnapshot, history History, asOf time.Time) (int, []string) {
	in := scoreInput{applicant: a, kyc: kyc, amount: amount, policy: policy, history: history, asOf: asOf}

	total := 0
	var factors []string
	for _, factor := range scoreFactors {
		points, reason := factor(in)
		if points == 0 {
			continue
		}
		total += points
		if total < 0 {
			total = 0
		}
		factors = append(factors, reason)
	}

	if total > 100 {
		total = 100
	}
	return total, factors
}

// Assess scores the application and buckets the result in one step
func Assess(a Applicant, kyc KYCRecord, amount float64, policy PolicySnapshot, history History, asOf time.Time) Assessment {
	score, factors := Score(a, kyc, amount, policy, history, asOf)
	return Assessment{Score: score, Category: Categorize(score, policy), Factors: factors}
}

// Factor 1: KYC quality
func factorKYCQuality(in scoreInput) (int, string) {
	if in.kyc.Status != KYCVerified {
		return pointsKYCUnverified, fmt.Sprintf("KYC not verified (status: %s)", in.kyc.Status)
	}
	if in.kyc.InternalScore != nil && *in.kyc.InternalScore > kycInternalScoreBar {
		points := int(float64(*in.kyc.InternalScore) * kycInternalScoreRate)
		return points, fmt.Sprintf("Elevated KYC risk score: %d", *in.kyc.InternalScore)
	}
	return 0, ""
}

// Factor 2: age band
func factorAgeBand(in scoreInput) (int, string) {
	if in.applicant.DateOfBirth == nil {
		return pointsAgeUnknown, "Date of birth not available"
	}
	age := AgeAt(in.applicant.DateOfBirth, in.asOf)
	switch {
	case age < 18:
		return pointsAgeUnderage, fmt.Sprintf("Underage applicant: %d", age)
	case age > in.policy.MaxAge-olderAgeBand:
		return pointsAgeOlderBand, fmt.Sprintf("Older age band: %d", age)
	case age <= youngAdultMaxAge:
		return pointsAgeYoungAdult, fmt.Sprintf("Young borrower: %d", age)
	}
	return 0, ""
}

// Factor 3: bank verification
func factorBankVerification(in scoreInput) (int, string) {
	if in.applicant.BankAccountNumber == "" || !in.applicant.BankVerified {
		return pointsBankUnverified, "Bank account not verified"
	}
	return 0, ""
}

// Factor 4: phone validity
func factorPhoneValidity(in scoreInput) (int, string) {
	if !ValidMobile(in.applicant.PhoneNumber) {
		return pointsInvalidMobile, "Invalid mobile number"
	}
	return 0, ""
}

// Factor 5: blacklist/fraud flags. The gate vetoes both before scoring, but
// the scorer stays total on its own inputs: both can fire, additively.
func factorCriticalFlags(in scoreInput) (int, string) {
	points := 0
	reason := ""
	if in.applicant.IsBlocked {
		points += pointsBlacklisted
		reason = "Applicant is blacklisted"
	}
	if in.applicant.FraudFlag {
		points += pointsFraudFlagged
		if reason != "" {
			reason += "; applicant is flagged for fraud"
		} else {
			reason = "Applicant is flagged for fraud"
		}
	}
	return points, reason
}

// Factor 6: bureau score
func factorBureauScore(in scoreInput) (int, string) {
	if in.applicant.BureauScore == nil {
		return pointsBureauMissing, "No credit bureau score available"
	}
	score := *in.applicant.BureauScore
	switch {
	case score < bureauPoorBelow:
		return pointsBureauPoor, fmt.Sprintf("Poor credit score: %d", score)
	case score < bureauFairBelow:
		return pointsBureauFair, fmt.Sprintf("Fair credit score: %d", score)
	case score < bureauGoodBelow:
		return pointsBureauGood, fmt.Sprintf("Good credit score: %d", score)
	}
	return 0, ""
}

// Factor 7: repayment history. Overdue loans add points, a clean record of
// three or more repaid loans earns a bonus, and chronically late installment
// payment adds more. The bonus is the only negative contribution; Score
// floors the running total at 0.
func factorRepaymentHistory(in scoreInput) (int, string) {
	overdue := in.history.CountOverdue()
	repaid := in.history.CountRepaid()

	points := 0
	reason := ""
	switch {
	case overdue > 0:
		points = overdue * pointsPerOverdueLoan
		reason = fmt.Sprintf("%d overdue loan(s) in history", overdue)
	case repaid >= goodHistoryMinRepaid:
		points = pointsGoodHistoryBonus
		reason = fmt.Sprintf("Good repayment history: %d loans repaid", repaid)
	}

	if mean := in.history.MeanDaysOverdue(); mean > chronicLateDays {
		points += pointsChronicLateRepay
		reason = appendReason(reason, fmt.Sprintf("Chronically late repayments: %.1f days average", mean))
	} else if mean > moderateLateDays {
		points += pointsModerateLateRepay
		reason = appendReason(reason, fmt.Sprintf("Late repayment pattern: %.1f days average", mean))
	}

	return points, reason
}

// Factor 8: behavioral flags
func factorBehavioralFlags(in scoreInput) (int, string) {
	points := 0
	reason := ""
	if in.applicant.MultipleAccountsFlag {
		points += pointsMultipleAccounts
		reason = "Multiple accounts detected"
	}
	if in.applicant.SuspiciousActivityFlag {
		points += pointsSuspiciousActivity
		reason = appendReason(reason, "Suspicious activity flagged")
	}
	return points, reason
}

// Factor 9: credit-limit utilization
func factorUtilization(in scoreInput) (int, string) {
	available := in.applicant.CreditLimit - in.applicant.UsedCredit
	if in.amount > available {
		return pointsOverLimit, fmt.Sprintf("Requested amount %.2f exceeds available credit %.2f", in.amount, available)
	}
	if in.applicant.CreditLimit <= 0 {
		return 0, ""
	}
	projected := (in.applicant.UsedCredit + in.amount) / in.applicant.CreditLimit
	if projected > highUtilization {
		return pointsHighUtilization, fmt.Sprintf("High projected utilization: %.0f%%", projected*100)
	}
	if projected > raisedUtilization {
		return pointsRaisedUtilization, fmt.Sprintf("Raised projected utilization: %.0f%%", projected*100)
	}
	return 0, ""
}

// Factor 10: first-time borrower
func factorFirstTimeBorrower(in scoreInput) (int, string) {
	if len(in.history) == 0 {
		return pointsFirstTimeBorrower, "First-time borrower"
	}
	return 0, ""
}

func appendReason(existing, next string) string {
	if existing == "" {
		return next
	}
	return existing + "; " + next
}
