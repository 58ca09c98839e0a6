package risk

// Categorize maps a composite risk score to its category using the policy
// thresholds. The threshold ordering invariant (low < medium) is enforced by
// PolicySnapshot.Validate at configuration-load time.
func Categorize(score int, policy PolicySnapshot) Category {
	switch {
	case score >= policy.MediumRiskThreshold:
		return CategoryHigh
	case score >= policy.LowRiskThreshold:
		return CategoryMedium
	default:
		return CategoryLow
	}
}
