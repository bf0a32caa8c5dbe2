// Package growth enriches matched-anomaly records with remaining-life,
// growth classification, and risk scoring.
package growth

import (
	"math"
	"sort"

	"github.com/Akhila-Susarla/CorroSight/internal/config"
	"github.com/Akhila-Susarla/CorroSight/internal/model"
)

// Score enriches a single match record in place with remaining_wall_pct,
// remaining_life_years, growth_class, risk_score, and risk_category.
// Idempotent: reapplying to an already-scored record reproduces the same
// values.
func Score(m *model.MatchRecord, cfg *config.TuningConfig) {
	m.RemainingWallPct = 100.0 - m.LaterDepthPct
	m.RemainingLifeYears = remainingLife(m.GrowthRatePctYr, m.LaterDepthPct, cfg)
	m.GrowthClass = classifyGrowth(m.GrowthRatePctYr, cfg)
	m.RiskScore = computeRiskScore(m.LaterDepthPct, m.GrowthRatePctYr, cfg)
	m.RiskCategory = classifyRisk(m.RiskScore)
}

// ScoreAll enriches every record in place.
func ScoreAll(matches []model.MatchRecord, cfg *config.TuningConfig) {
	for i := range matches {
		Score(&matches[i], cfg)
	}
}

// remainingLife estimates years until depth reaches the repair threshold at
// the current growth rate. NaN for stable or shrinking anomalies (rate<=0)
// since they are not progressing toward the threshold; 0 if already past
// the threshold with a positive rate.
func remainingLife(rate, currentDepth float64, cfg *config.TuningConfig) float64 {
	if math.IsNaN(rate) || math.IsNaN(currentDepth) || rate <= 0 {
		return model.NaN()
	}
	remainingCapacity := cfg.GetWallLossRepairThreshold() - currentDepth
	if remainingCapacity <= 0 {
		return 0.0
	}
	return remainingCapacity / rate
}

// classifyGrowth buckets an annualized growth rate into a named band.
func classifyGrowth(rate float64, cfg *config.TuningConfig) string {
	switch {
	case math.IsNaN(rate):
		return "Unknown"
	case rate < 0:
		return "Apparent Shrinkage"
	case rate == 0:
		return "Stable"
	case rate <= 1.0:
		return "Low"
	case rate <= 3.0:
		return "Moderate"
	case rate <= cfg.GetMaxPlausibleGrowthRate():
		return "High"
	default:
		return "Severe"
	}
}

// computeRiskScore combines a depth component and a rate component, each
// clamped to [0,50], into a [0,100] composite risk score.
func computeRiskScore(depth, rate float64, cfg *config.TuningConfig) float64 {
	if math.IsNaN(depth) {
		depth = 0
	}
	if math.IsNaN(rate) || rate < 0 {
		rate = 0
	}

	depthScore := math.Min(50, depth*50/cfg.GetWallLossRepairThreshold())
	rateScore := math.Min(50, rate*50/cfg.GetMaxPlausibleGrowthRate())
	return depthScore + rateScore
}

// classifyRisk maps a [0,100] risk score to its named category.
func classifyRisk(score float64) string {
	switch {
	case math.IsNaN(score):
		return "Unknown"
	case score >= 70:
		return "Critical"
	case score >= 50:
		return "High"
	case score >= 30:
		return "Medium"
	default:
		return "Low"
	}
}

// TopConcerns returns the n highest-risk matches, ties broken by joint
// number. Distinct from the dig list: this answers "what's worst right
// now" by risk score alone, without the urgency/life-based categorization
// the dig list applies.
func TopConcerns(matches []model.MatchRecord, n int) []model.MatchRecord {
	sorted := make([]model.MatchRecord, len(matches))
	copy(sorted, matches)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].RiskScore != sorted[j].RiskScore {
			return sorted[i].RiskScore > sorted[j].RiskScore
		}
		ji, jj := jointOrMax(sorted[i].LaterJointNumber), jointOrMax(sorted[j].LaterJointNumber)
		return ji < jj
	})
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}

func jointOrMax(jn *int) int {
	if jn == nil {
		return math.MaxInt
	}
	return *jn
}
