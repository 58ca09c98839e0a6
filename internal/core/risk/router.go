package risk

import (
	"strings"
	"time"
)

// Advisory messages attached for the human reviewer. The category is
// informational in the current policy, not a routing decision by itself.
var categoryMessages = map[Category]string{
	CategoryLow:    "Low risk profile",
	CategoryMedium: "Medium risk profile",
	CategoryHigh:   "High risk profile",
}

// Decide combines the eligibility outcome and risk assessment into the final
// routing decision.
//
// An ineligible application is rejected outright with the itemized reasons
// and no assessment attached. An eligible one goes to manual review under the
// current policy; when PolicySnapshot.AutoRoutingEnabled is set, LOW risk
// applications within MaxAutoApprovalAmount are auto-approved and HIGH risk
// ones auto-rejected.
func Decide(amount float64, eligibility Eligibility, assessment *Assessment, policy PolicySnapshot) Decision {
	if !eligibility.Eligible {
		return Decision{
			Action:  ActionReject,
			Status:  StatusRejected,
			Message: strings.Join(eligibility.Reasons, "; "),
		}
	}

	advisory := categoryMessages[assessment.Category]

	if policy.AutoRoutingEnabled {
		switch {
		case assessment.Category == CategoryLow && amount <= policy.MaxAutoApprovalAmount:
			return Decision{
				Action:     ActionAutoApprove,
				Status:     StatusApproved,
				Message:    advisory + ". Approved automatically.",
				Assessment: assessment,
			}
		case assessment.Category == CategoryHigh:
			return Decision{
				Action:     ActionAutoReject,
				Status:     StatusRejected,
				Message:    advisory + ". Rejected automatically.",
				Assessment: assessment,
			}
		}
	}

	return Decision{
		Action:     ActionManualReview,
		Status:     StatusUnderReview,
		Message:    advisory + ". Queued for manual review.",
		Assessment: assessment,
	}
}

// Evaluate runs the full pipeline: gate, scorer, categorizer, router. The
// scorer is never invoked when the gate fails, so critical flags never get a
// score.
func Evaluate(a Applicant, kyc KYCRecord, amount float64, policy PolicySnapshot, history History, asOf time.Time) Decision {
	eligibility := CheckEligibility(a, kyc, policy, asOf)
	if !eligibility.Eligible {
		return Decide(amount, eligibility, nil, policy)
	}
	assessment := Assess(a, kyc, amount, policy, history, asOf)
	return Decide(amount, eligibility, &assessment, policy)
}
