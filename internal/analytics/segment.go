// Package analytics computes the integrity-analysis deliverables operators
// need after anomaly matching: a spatial risk heatmap, ASME B31G interaction
// clusters, a prioritized dig list, population-level growth patterns, and
// data-quality/completeness reports.
package analytics

import (
	"math"
	"sort"

	"github.com/Akhila-Susarla/CorroSight/internal/config"
	"github.com/Akhila-Susarla/CorroSight/internal/model"
)

// SegmentRisk is the composite risk picture for one fixed-length stretch of
// pipeline.
type SegmentRisk struct {
	Segment       int
	StartFt       float64
	EndFt         float64
	MidpointFt    float64
	AnomalyCount  int
	MaxDepthPct   float64
	AvgGrowthRate float64
	CriticalCount int
	RiskScore     float64
}

type segmentAnomaly struct {
	distance     float64
	depth        float64
	growthRate   float64
	riskCategory string
}

// SegmentRiskAnalysis divides the pipeline spanned by latestRun into
// segmentLengthFt-long segments and scores each one (0-100) from anomaly
// density, peak depth, average growth rate, and critical-anomaly count. When
// matches is empty (e.g. only one run loaded) it falls back to raw anomalies
// from latestRun with no growth data.
func SegmentRiskAnalysis(matches []model.MatchRecord, latestRun model.AlignedRun, segmentLengthFt float64, cfg *config.TuningConfig) []SegmentRisk {
	anomalies := segmentAnomaliesFrom(matches, latestRun)

	maxDist := 0.0
	for _, a := range anomalies {
		if a.distance > maxDist {
			maxDist = a.distance
		}
	}
	for i := range latestRun.Rows {
		if !math.IsNaN(latestRun.CorrectedDistance[i]) && latestRun.CorrectedDistance[i] > maxDist {
			maxDist = latestRun.CorrectedDistance[i]
		}
	}

	nSegments := int(math.Ceil(maxDist / segmentLengthFt))
	segments := make([]SegmentRisk, 0, nSegments)

	for i := 0; i < nSegments; i++ {
		start := float64(i) * segmentLengthFt
		end := start + segmentLengthFt
		mid := start + segmentLengthFt/2

		var inSegment []segmentAnomaly
		for _, a := range anomalies {
			if a.distance >= start && a.distance < end {
				inSegment = append(inSegment, a)
			}
		}

		seg := SegmentRisk{Segment: i + 1, StartFt: start, EndFt: end, MidpointFt: mid}
		if len(inSegment) == 0 {
			segments = append(segments, seg)
			continue
		}

		maxDepth := 0.0
		hasDepth := false
		var rateSum float64
		var rateCount int
		critical := 0
		for _, a := range inSegment {
			if !math.IsNaN(a.depth) {
				hasDepth = true
				if a.depth > maxDepth {
					maxDepth = a.depth
				}
			}
			if !math.IsNaN(a.growthRate) && a.growthRate >= 0 {
				rateSum += a.growthRate
				rateCount++
			}
			if a.riskCategory == "Critical" {
				critical++
			}
		}
		avgRate := 0.0
		if rateCount > 0 {
			avgRate = rateSum / float64(rateCount)
		}
		if !hasDepth {
			maxDepth = 0
		}

		densityScore := math.Min(25, float64(len(inSegment))*25/5)
		depthScore := math.Min(35, (maxDepth/cfg.GetWallLossRepairThreshold())*35)
		rateScore := math.Min(25, (avgRate/3.0)*25)
		critScore := math.Min(15, float64(critical)*15/3)

		seg.AnomalyCount = len(inSegment)
		seg.MaxDepthPct = maxDepth
		seg.AvgGrowthRate = avgRate
		seg.CriticalCount = critical
		seg.RiskScore = densityScore + depthScore + rateScore + critScore
		segments = append(segments, seg)
	}

	return segments
}

func segmentAnomaliesFrom(matches []model.MatchRecord, latestRun model.AlignedRun) []segmentAnomaly {
	if len(matches) > 0 {
		out := make([]segmentAnomaly, len(matches))
		for i, m := range matches {
			out[i] = segmentAnomaly{
				distance:     m.LaterCorrectedDistance,
				depth:        m.LaterDepthPct,
				growthRate:   m.GrowthRatePctYr,
				riskCategory: m.RiskCategory,
			}
		}
		return out
	}

	var out []segmentAnomaly
	for i, row := range latestRun.Rows {
		if !row.IsAnomaly {
			continue
		}
		out = append(out, segmentAnomaly{
			distance:     latestRun.CorrectedDistance[i],
			depth:        row.DepthPct,
			growthRate:   model.NaN(),
			riskCategory: "Unknown",
		})
	}
	return out
}

// sortedFloats returns a sorted copy, used wherever a median/quantile needs
// ascending input.
func sortedFloats(xs []float64) []float64 {
	out := make([]float64, len(xs))
	copy(out, xs)
	sort.Float64s(out)
	return out
}
