// Package trust maps reputation to trust tiers and daily answer quotas.
// Pure policy, no I/O
package trust

// Tier bands, inclusive on the lower bound
const (
	tier1Floor = 10
	tier2Floor = 50
	tier3Floor = 200
)

// ComputeTier maps a reputation score to a trust tier (0-3).
// Negative reputation clamps to tier 0
func ComputeTier(reputation int64) int {
	switch {
	case reputation >= tier3Floor:
		return 3
	case reputation >= tier2Floor:
		return 2
	case reputation >= tier1Floor:
		return 1
	default:
		return 0
	}
}

// DailyAnswerLimit returns the answers-per-day quota for a tier.
// A ceiling lookup, not an exact-match table: any tier above 3 gets
// the tier 3 quota
func DailyAnswerLimit(tier int) int {
	switch {
	case tier >= 3:
		return 500
	case tier == 2:
		return 100
	case tier == 1:
		return 20
	default:
		return 5
	}
}
