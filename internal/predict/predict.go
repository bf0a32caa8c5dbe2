// Package predict extrapolates matched-anomaly growth rates forward to a
// target year, simulating what a future inspection would find without
// physically running the tool ("virtual ILI").
package predict

import (
	"math"
	"sort"

	"github.com/Akhila-Susarla/CorroSight/internal/config"
	"github.com/Akhila-Susarla/CorroSight/internal/model"
)

// Prediction is one anomaly's extrapolated future state.
type Prediction struct {
	Joint             *int
	DistanceFt        float64
	ClockHours        float64
	CurrentDepthPct   float64
	GrowthRate        float64
	PredictedDepthPct float64
	PredictedRisk     string
	YearsToThreshold  float64 // NaN if the rate is non-positive
	EventType         string
	Confidence        model.ConfidenceLabel
	IsTripleTracked   bool
}

// DepthBin is one band of the predicted-depth histogram.
type DepthBin struct {
	Band  string
	Count int
}

// RiskDistribution counts predictions by predicted risk category.
type RiskDistribution struct {
	Critical, High, Medium, Low int
}

// Summary is the headline figures for one prediction run.
type Summary struct {
	TargetYear            int
	YearsForward           int
	TotalPredicted         int
	MeanPredictedDepthPct  float64
	MaxPredictedDepthPct   float64
	NeedingRepairByTarget  int
}

// Result is the full output of a prediction run.
type Result struct {
	Summary            Summary
	RiskDistribution   RiskDistribution
	ThresholdCrossings map[int]int // threshold pct -> count newly crossing it
	DepthDistribution  []DepthBin
	TopConcerns        []Prediction
	AllPredictions     []Prediction
}

var crossingThresholds = []int{50, 60, 70, 80}

// PredictFutureInspection extrapolates baseMatches forward by
// (targetYear - baseYear) years. For anomalies tracked across all three
// runs, the triple's linear-regression rate is preferred over the single
// pairwise rate since it rests on more data points. Anomalies with missing
// depth/growth data, or a negative (physically implausible) growth rate,
// are excluded.
func PredictFutureInspection(baseMatches []model.MatchRecord, triples []model.TripleMatch, baseYear, targetYear int, cfg *config.TuningConfig) (*Result, error) {
	if len(baseMatches) == 0 {
		return nil, ErrNoMatches
	}
	yearsForward := targetYear - baseYear
	if yearsForward <= 0 {
		return nil, ErrTargetYearNotAfterBase
	}

	tripleRateByJoint := make(map[int]float64)
	for _, t := range triples {
		if t.JointNumber != nil && t.HasTrend {
			tripleRateByJoint[*t.JointNumber] = t.TrendSlope
		}
	}

	var predictions []Prediction
	for _, m := range baseMatches {
		if math.IsNaN(m.LaterDepthPct) || math.IsNaN(m.GrowthRatePctYr) {
			continue
		}

		rate := m.GrowthRatePctYr
		isTriple := false
		if m.LaterJointNumber != nil {
			if r, ok := tripleRateByJoint[*m.LaterJointNumber]; ok {
				rate = r
				isTriple = true
			}
		}
		if rate < 0 {
			continue
		}

		predictedDepth := clamp(m.LaterDepthPct+rate*float64(yearsForward), 0, 100)

		yearsToThreshold := model.NaN()
		if rate > 0 {
			remainingCapacity := cfg.GetWallLossRepairThreshold() - predictedDepth
			if remainingCapacity > 0 {
				yearsToThreshold = remainingCapacity / rate
			} else {
				yearsToThreshold = 0
			}
		}

		predictions = append(predictions, Prediction{
			Joint:             m.LaterJointNumber,
			DistanceFt:        m.LaterCorrectedDistance,
			ClockHours:        m.LaterClockHours,
			CurrentDepthPct:   m.LaterDepthPct,
			GrowthRate:        rate,
			PredictedDepthPct: predictedDepth,
			PredictedRisk:     classifyPredictedRisk(predictedDepth),
			YearsToThreshold:  yearsToThreshold,
			EventType:         m.LaterEventType,
			Confidence:        m.ConfidenceLabel,
			IsTripleTracked:   isTriple,
		})
	}

	if len(predictions) == 0 {
		return nil, ErrNoPredictions
	}

	return &Result{
		Summary:            buildSummary(predictions, targetYear, yearsForward, cfg),
		RiskDistribution:   buildRiskDistribution(predictions),
		ThresholdCrossings: buildThresholdCrossings(predictions),
		DepthDistribution:  buildDepthDistribution(predictions),
		TopConcerns:        topConcerns(predictions, 20),
		AllPredictions:     predictions,
	}, nil
}

func classifyPredictedRisk(depth float64) string {
	switch {
	case depth >= 70:
		return "Critical"
	case depth >= 50:
		return "High"
	case depth >= 30:
		return "Medium"
	default:
		return "Low"
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func buildSummary(predictions []Prediction, targetYear, yearsForward int, cfg *config.TuningConfig) Summary {
	var sum, max float64
	repairCount := 0
	for _, p := range predictions {
		sum += p.PredictedDepthPct
		if p.PredictedDepthPct > max {
			max = p.PredictedDepthPct
		}
		if p.PredictedDepthPct >= cfg.GetWallLossRepairThreshold() {
			repairCount++
		}
	}
	return Summary{
		TargetYear:            targetYear,
		YearsForward:          yearsForward,
		TotalPredicted:        len(predictions),
		MeanPredictedDepthPct: sum / float64(len(predictions)),
		MaxPredictedDepthPct:  max,
		NeedingRepairByTarget: repairCount,
	}
}

func buildRiskDistribution(predictions []Prediction) RiskDistribution {
	var dist RiskDistribution
	for _, p := range predictions {
		switch p.PredictedRisk {
		case "Critical":
			dist.Critical++
		case "High":
			dist.High++
		case "Medium":
			dist.Medium++
		default:
			dist.Low++
		}
	}
	return dist
}

// buildThresholdCrossings counts anomalies that are currently below a
// threshold but predicted to reach or exceed it by the target year -- the
// "newly actionable" anomalies that drive dig-plan changes.
func buildThresholdCrossings(predictions []Prediction) map[int]int {
	out := make(map[int]int, len(crossingThresholds))
	for _, thresh := range crossingThresholds {
		count := 0
		for _, p := range predictions {
			if p.CurrentDepthPct < float64(thresh) && p.PredictedDepthPct >= float64(thresh) {
				count++
			}
		}
		out[thresh] = count
	}
	return out
}

func buildDepthDistribution(predictions []Prediction) []DepthBin {
	bins := []DepthBin{
		{Band: "0-20%"}, {Band: "20-40%"}, {Band: "40-60%"}, {Band: "60-80%"}, {Band: "80-100%"},
	}
	for _, p := range predictions {
		switch {
		case p.PredictedDepthPct < 20:
			bins[0].Count++
		case p.PredictedDepthPct < 40:
			bins[1].Count++
		case p.PredictedDepthPct < 60:
			bins[2].Count++
		case p.PredictedDepthPct < 80:
			bins[3].Count++
		default:
			bins[4].Count++
		}
	}
	return bins
}

func topConcerns(predictions []Prediction, n int) []Prediction {
	sorted := make([]Prediction, len(predictions))
	copy(sorted, predictions)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].PredictedDepthPct != sorted[j].PredictedDepthPct {
			return sorted[i].PredictedDepthPct > sorted[j].PredictedDepthPct
		}
		return jointOrMax(sorted[i].Joint) < jointOrMax(sorted[j].Joint)
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
