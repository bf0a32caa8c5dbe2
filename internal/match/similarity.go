// Package match implements the anomaly-matching engine: candidate
// generation via a spatial index, gating, multi-factor similarity scoring,
// globally optimal one-to-one assignment, and confidence classification.
package match

import (
	"math"

	"github.com/Akhila-Susarla/CorroSight/internal/config"
	"github.com/Akhila-Susarla/CorroSight/internal/model"
)

// ClockDistance is the circular distance between two clock positions on a
// 0-12 scale, in [0, 6]. Returns 6.0 (the maximum) when either value is NaN.
func ClockDistance(h1, h2 float64) float64 {
	if math.IsNaN(h1) || math.IsNaN(h2) {
		return 6.0
	}
	diff := math.Mod(math.Abs(h1-h2), 12.0)
	if diff > 12.0-diff {
		return 12.0 - diff
	}
	return diff
}

// ClockToTrig embeds a clock-hours value as (cos, sin) on the unit circle,
// so Euclidean distance in the embedded space respects the 12/0 wraparound.
// NaN maps to the origin, a neutral point equidistant from every clock
// position.
func ClockToTrig(hours float64) (float64, float64) {
	if math.IsNaN(hours) {
		return 0, 0
	}
	theta := hours * 2 * math.Pi / 12.0
	return math.Cos(theta), math.Sin(theta)
}

// safeDiff returns the absolute difference between a and b, or a moderate
// 1.5 penalty when either is missing (NaN) — a value that neither
// rewards missing data (0) nor harshly rejects an otherwise good candidate.
func safeDiff(a, b float64) float64 {
	if math.IsNaN(a) || math.IsNaN(b) {
		return 1.5
	}
	return math.Abs(a - b)
}

// safeSub returns a-b, or NaN if either is missing.
func safeSub(a, b float64) float64 {
	if math.IsNaN(a) || math.IsNaN(b) {
		return model.NaN()
	}
	return a - b
}

// candidateFields is the subset of a FeatureRow needed for similarity
// scoring, paired with its corrected distance.
type candidateFields struct {
	CorrectedDistance float64
	ClockHours        float64
	DepthPct          float64
	AxialLengthIn     float64
	CircWidthIn       float64
	EventType         string
}

// ComputeSimilarity blends five sub-scores into a weighted [0,1] match
// score. The distance sub-score linearly decays to 0 at the distance
// tolerance, the clock sub-score at six times the clock tolerance; depth is
// asymmetric (growth penalized gently, shrinkage
// harshly); dimensions combine length+width difference; type is 1.0 for an
// exact match, 0.7 for a compatible pair (the gate has already confirmed
// compatibility by the time this is called).
func ComputeSimilarity(later, earlier candidateFields, cfg *config.TuningConfig) float64 {
	distDiff := math.Abs(later.CorrectedDistance - earlier.CorrectedDistance)
	sDist := math.Max(0, 1.0-distDiff/cfg.GetDistanceToleranceFt())

	clkDiff := ClockDistance(later.ClockHours, earlier.ClockHours)
	sClock := math.Max(0, 1.0-clkDiff/(cfg.GetClockToleranceHours()*6.0))

	var sDepth float64
	if math.IsNaN(later.DepthPct) || math.IsNaN(earlier.DepthPct) {
		sDepth = 0.5
	} else {
		depthDiff := later.DepthPct - earlier.DepthPct
		if depthDiff >= 0 {
			sDepth = math.Max(0, 1.0-depthDiff/30.0)
		} else {
			sDepth = math.Max(0, 1.0-math.Abs(depthDiff)/10.0)
		}
	}

	lenDiff := safeDiff(later.AxialLengthIn, earlier.AxialLengthIn)
	widDiff := safeDiff(later.CircWidthIn, earlier.CircWidthIn)
	sDim := math.Max(0, 1.0-(lenDiff+widDiff)/6.0)

	sType := 0.7
	if later.EventType == earlier.EventType {
		sType = 1.0
	}

	return cfg.GetWeightDistance()*sDist +
		cfg.GetWeightClock()*sClock +
		cfg.GetWeightDepth()*sDepth +
		cfg.GetWeightDims()*sDim +
		cfg.GetWeightType()*sType
}

// computeConfidence blends similarity, candidate uniqueness, growth
// plausibility, and joint-number agreement into a [0,1] confidence score.
func computeConfidence(similarity float64, nCandidates int, later, earlier candidateFields,
	laterJoint, earlierJoint *int, yearsBetween float64, cfg *config.TuningConfig) float64 {

	fSim := similarity

	var fUnique float64
	switch {
	case nCandidates <= 1:
		fUnique = 1.0
	case nCandidates == 2:
		fUnique = 0.7
	default:
		fUnique = math.Max(0.3, 1.0-float64(nCandidates)*0.1)
	}

	var fPlaus float64
	if !math.IsNaN(later.DepthPct) && !math.IsNaN(earlier.DepthPct) && yearsBetween > 0 {
		rate := (later.DepthPct - earlier.DepthPct) / yearsBetween
		maxRate := cfg.GetMaxPlausibleGrowthRate()
		switch {
		case rate >= 0 && rate <= maxRate:
			fPlaus = 1.0
		case rate < 0:
			fPlaus = math.Max(0, 0.5+rate/10.0)
		default:
			fPlaus = math.Max(0.2, 1.0-(rate-maxRate)/10.0)
		}
	} else {
		fPlaus = 0.5
	}

	var fJoint float64
	if laterJoint != nil && earlierJoint != nil {
		if *laterJoint == *earlierJoint {
			fJoint = 1.0
		} else {
			fJoint = 0.6
		}
	} else {
		fJoint = 0.5
	}

	return 0.40*fSim + 0.25*fUnique + 0.20*fPlaus + 0.15*fJoint
}

// ClassifyConfidence maps a numeric confidence score to its label.
// HIGH iff confidence >= ConfidenceHigh; MEDIUM iff in [ConfidenceMed,
// ConfidenceHigh); LOW otherwise, including values below ConfidenceLow.
func ClassifyConfidence(confidence float64, cfg *config.TuningConfig) model.ConfidenceLabel {
	switch {
	case confidence >= cfg.GetConfidenceHigh():
		return model.ConfidenceHigh
	case confidence >= cfg.GetConfidenceMed():
		return model.ConfidenceMed
	default:
		return model.ConfidenceLow
	}
}
