package scorer

type AffordabilityTier string

const (
	TierVeryAffordable AffordabilityTier = "very_affordable"
	TierAffordable     AffordabilityTier = "affordable"
	TierManageable     AffordabilityTier = "manageable"
	TierStretch        AffordabilityTier = "stretch"
	TierExpensive      AffordabilityTier = "expensive"
	TierUnknown        AffordabilityTier = "unknown"
)

// affordabilityFactor buckets fees against the budget ceiling. ok is false
// when either side is missing.
func affordabilityFactor(fees, ceiling *float64) (AffordabilityTier, float64, bool) {
	if fees == nil || ceiling == nil || *ceiling <= 0 || *fees < 0 {
		return TierUnknown, 0, false
	}

	ratio := *fees / *ceiling
	switch {
	case ratio <= 0.5:
		return TierVeryAffordable, 1.0, true
	case ratio <= 0.8:
		return TierAffordable, 0.8, true
	case ratio <= 1.0:
		return TierManageable, 0.6, true
	case ratio <= 1.25:
		return TierStretch, 0.3, true
	default:
		return TierExpensive, 0.0, true
	}
}
