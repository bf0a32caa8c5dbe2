package analytics

import (
	"math"
	"sort"

	"github.com/Akhila-Susarla/CorroSight/internal/config"
	"github.com/Akhila-Susarla/CorroSight/internal/model"
)

// Remaining-life and urgency-score breakpoints: not operator-tunable, unlike
// the values in config.TuningConfig, since they encode fixed regulatory
// response windows (PHMSA remediation timelines) rather than matching
// sensitivity.
const (
	immediateUrgency = 75.0
	immediateDepth   = 70.0
	immediateLifeYrs = 3.0

	scheduledUrgency = 50.0
	scheduledDepth   = 50.0
	scheduledLifeYrs = 7.0

	lifeScoreFullCreditYrs = 15.0
	noRemainingLifeData    = 999.0
)

// DigItem is one prioritized repair-schedule entry.
type DigItem struct {
	Joint              *int
	DistanceFt         float64
	ClockHours         float64
	DepthPct           float64
	GrowthRate         float64
	RemainingLifeYears float64 // NaN if unknown
	EventType          string
	IDOD               model.IDODSide
	WallThicknessIn    float64
	UrgencyScore       float64
	Category           string
	Priority           int
	RiskCategory       string
	Confidence         model.ConfidenceLabel
}

// GenerateDigList scores and categorizes every match into a prioritized
// repair schedule. Shallow (<20% depth), low-growth (<=0.5 %/yr) anomalies
// are excluded as not warranting a dig site visit. Results are sorted by
// priority (IMMEDIATE first), then by urgency descending within each tier.
func GenerateDigList(matches []model.MatchRecord, cfg *config.TuningConfig) []DigItem {
	var items []DigItem

	for _, m := range matches {
		if math.IsNaN(m.LaterDepthPct) {
			continue
		}
		depth := m.LaterDepthPct

		rate := m.GrowthRatePctYr
		if math.IsNaN(rate) || rate < 0 {
			rate = 0
		}

		remLife := m.RemainingLifeYears
		reportedLife := remLife
		if math.IsNaN(remLife) {
			remLife = noRemainingLifeData
			reportedLife = model.NaN()
		}

		if depth < cfg.GetDigListMinDepth() && rate <= cfg.GetDigListMinRate() {
			continue
		}

		depthScore := math.Min(40, (depth/cfg.GetWallLossRepairThreshold())*40)
		rateScore := math.Min(30, (rate/cfg.GetMaxPlausibleGrowthRate())*30)

		var lifeScore float64
		switch {
		case remLife <= 0:
			lifeScore = 30
		case remLife >= lifeScoreFullCreditYrs:
			lifeScore = 0
		default:
			lifeScore = 30 * (1 - remLife/lifeScoreFullCreditYrs)
		}

		urgency := depthScore + rateScore + lifeScore

		var category string
		var priority int
		switch {
		case urgency >= immediateUrgency || depth >= immediateDepth || remLife < immediateLifeYrs:
			category, priority = "IMMEDIATE", 1
		case urgency >= scheduledUrgency || depth >= scheduledDepth || remLife < scheduledLifeYrs:
			category, priority = "SCHEDULED", 2
		default:
			category, priority = "MONITOR", 3
		}

		items = append(items, DigItem{
			Joint:              m.LaterJointNumber,
			DistanceFt:         m.LaterCorrectedDistance,
			ClockHours:         m.LaterClockHours,
			DepthPct:           depth,
			GrowthRate:         rate,
			RemainingLifeYears: reportedLife,
			EventType:          m.LaterEventType,
			IDOD:               m.LaterIDOD,
			WallThicknessIn:    m.LaterWallThicknessIn,
			UrgencyScore:       urgency,
			Category:           category,
			Priority:           priority,
			RiskCategory:       m.RiskCategory,
			Confidence:         m.ConfidenceLabel,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Priority != items[j].Priority {
			return items[i].Priority < items[j].Priority
		}
		return items[i].UrgencyScore > items[j].UrgencyScore
	})

	return items
}
