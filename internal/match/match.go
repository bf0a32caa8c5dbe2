package match

import (
	"math"
	"sort"

	"github.com/Akhila-Susarla/CorroSight/internal/assign"
	"github.com/Akhila-Susarla/CorroSight/internal/config"
	"github.com/Akhila-Susarla/CorroSight/internal/corrolog"
	"github.com/Akhila-Susarla/CorroSight/internal/model"
)

// anomaly is one matchable row: its original FeatureRow plus the
// corrected distance carried alongside it in the aligned run.
type anomaly struct {
	row               model.FeatureRow
	correctedDistance float64
}

func extractAnomalies(run model.AlignedRun) []anomaly {
	var out []anomaly
	for i, row := range run.Rows {
		if !row.IsAnomaly || math.IsNaN(run.CorrectedDistance[i]) {
			continue
		}
		out = append(out, anomaly{row: row, correctedDistance: run.CorrectedDistance[i]})
	}
	return out
}

func (a anomaly) fields() candidateFields {
	return candidateFields{
		CorrectedDistance: a.correctedDistance,
		ClockHours:        a.row.ClockHours,
		DepthPct:          a.row.DepthPct,
		AxialLengthIn:     a.row.AxialLengthIn,
		CircWidthIn:       a.row.CircWidthIn,
		EventType:         a.row.EventType,
	}
}

func (a anomaly) point() Point3 {
	cos, sin := ClockToTrig(a.row.ClockHours)
	return Point3{X: a.correctedDistance, Y: cos, Z: sin}
}

// Stats summarizes one pairwise match result.
type Stats struct {
	TotalMatches      int
	NewAnomalies      int
	MissingAnomalies  int
	HighConfidence    int
	MediumConfidence  int
	LowConfidence     int
	AvgSimilarity     float64
	AvgConfidence     float64
	AvgDepthGrowthRate float64
	NegativeGrowthCount int
	HighGrowthCount     int
}

// Result is the output of matching one pair of runs.
type Result struct {
	Matches           []model.MatchRecord
	NewAnomalies      []model.FeatureRow
	MissingAnomalies  []model.FeatureRow
	Stats             Stats
}

// MatchAnomalies matches anomalies between a later and an earlier aligned
// run, producing a globally optimal one-to-one pairing. Never fails on
// data content: empty inputs yield an all-new or all-missing result with
// zeroed stats; non-finite distances are treated as missing and excluded.
func MatchAnomalies(runLater, runEarlier model.AlignedRun, yearsBetween float64, cfg *config.TuningConfig) Result {
	laterAnoms := extractAnomalies(runLater)
	earlierAnoms := extractAnomalies(runEarlier)
	corrolog.Logf("match: %d-%d: %d later anomalies, %d earlier anomalies",
		runEarlier.Year, runLater.Year, len(laterAnoms), len(earlierAnoms))

	nLater, nEarlier := len(laterAnoms), len(earlierAnoms)
	if nLater == 0 || nEarlier == 0 {
		return Result{
			NewAnomalies:     rowsOf(laterAnoms),
			MissingAnomalies: rowsOf(earlierAnoms),
			Stats:            Stats{NewAnomalies: nLater, MissingAnomalies: nEarlier},
		}
	}

	earlierPoints := make([]Point3, nEarlier)
	for i, a := range earlierAnoms {
		earlierPoints[i] = a.point()
	}
	searchRadius := math.Max(cfg.GetDistanceToleranceFt(), 2.0)
	index := NewSpatialIndex(earlierPoints, searchRadius)

	costMatrix := make([][]float64, nLater)
	candidateCounts := make([]int, nLater)
	for i := range costMatrix {
		costMatrix[i] = make([]float64, nEarlier)
		for j := range costMatrix[i] {
			costMatrix[i][j] = assign.Forbidden
		}
	}

	for i, la := range laterAnoms {
		candidates := index.RadiusQuery(la.point(), searchRadius)
		sort.Ints(candidates) // deterministic tie-breaking by earlier row order
		for _, j := range candidates {
			ea := earlierAnoms[j]

			distDiff := math.Abs(la.correctedDistance - ea.correctedDistance)
			if distDiff > cfg.GetDistanceToleranceFt() {
				continue
			}
			clkDiff := ClockDistance(la.row.ClockHours, ea.row.ClockHours)
			if clkDiff > cfg.GetClockToleranceHours() {
				continue
			}
			if !model.TypesCompatible(la.row.EventType, ea.row.EventType) {
				continue
			}

			sim := ComputeSimilarity(la.fields(), ea.fields(), cfg)
			costMatrix[i][j] = 1.0 - sim
			candidateCounts[i]++
		}
	}

	assignment := assign.HungarianAssign(costMatrix)

	var matches []model.MatchRecord
	matchedLater := make(map[int]bool)
	matchedEarlier := make(map[int]bool)

	minAcceptableCost := 1.0 - cfg.GetConfidenceLow()
	for i, j := range assignment {
		if j < 0 || costMatrix[i][j] >= minAcceptableCost {
			continue
		}
		sim := 1.0 - costMatrix[i][j]
		la, ea := laterAnoms[i], earlierAnoms[j]

		confidence := computeConfidence(sim, candidateCounts[i], la.fields(), ea.fields(),
			la.row.JointNumber, ea.row.JointNumber, yearsBetween, cfg)
		label := ClassifyConfidence(confidence, cfg)

		matches = append(matches, buildMatchRecord(la, ea, sim, confidence, label, yearsBetween, runLater.Year, runEarlier.Year))
		matchedLater[i] = true
		matchedEarlier[j] = true
	}

	var newAnoms, missingAnoms []model.FeatureRow
	for i, a := range laterAnoms {
		if !matchedLater[i] {
			newAnoms = append(newAnoms, a.row)
		}
	}
	for j, a := range earlierAnoms {
		if !matchedEarlier[j] {
			missingAnoms = append(missingAnoms, a.row)
		}
	}

	corrolog.Logf("match: %d-%d: %d matched, %d new, %d missing",
		runEarlier.Year, runLater.Year, len(matches), len(newAnoms), len(missingAnoms))

	return Result{
		Matches:          matches,
		NewAnomalies:     newAnoms,
		MissingAnomalies: missingAnoms,
		Stats:            computeMatchStats(matches, len(newAnoms), len(missingAnoms), cfg),
	}
}

func rowsOf(anoms []anomaly) []model.FeatureRow {
	var out []model.FeatureRow
	for _, a := range anoms {
		out = append(out, a.row)
	}
	return out
}

func buildMatchRecord(later, earlier anomaly, similarity, confidence float64, label model.ConfidenceLabel, yearsBetween float64, laterYear, earlierYear int) model.MatchRecord {
	depthGrowth := safeSub(later.row.DepthPct, earlier.row.DepthPct)
	lengthGrowth := safeSub(later.row.AxialLengthIn, earlier.row.AxialLengthIn)
	widthGrowth := safeSub(later.row.CircWidthIn, earlier.row.CircWidthIn)

	var depthRate float64
	if math.IsNaN(depthGrowth) {
		depthRate = model.NaN()
	} else {
		depthRate = depthGrowth / yearsBetween
	}

	return model.MatchRecord{
		LaterYear:                laterYear,
		EarlierYear:              earlierYear,
		LaterJointNumber:         later.row.JointNumber,
		EarlierJointNumber:       earlier.row.JointNumber,
		LaterCorrectedDistance:   later.correctedDistance,
		EarlierCorrectedDistance: earlier.correctedDistance,
		LaterDistanceFt:          later.row.DistanceFt,
		EarlierDistanceFt:        earlier.row.DistanceFt,
		LaterClockHours:          later.row.ClockHours,
		EarlierClockHours:        earlier.row.ClockHours,
		LaterDepthPct:            later.row.DepthPct,
		EarlierDepthPct:          earlier.row.DepthPct,
		LaterAxialLengthIn:       later.row.AxialLengthIn,
		EarlierAxialLengthIn:     earlier.row.AxialLengthIn,
		LaterCircWidthIn:         later.row.CircWidthIn,
		EarlierCircWidthIn:       earlier.row.CircWidthIn,
		LaterEventType:           later.row.EventType,
		EarlierEventType:         earlier.row.EventType,
		LaterIDOD:                later.row.IDOD,
		EarlierIDOD:              earlier.row.IDOD,
		LaterWallThicknessIn:     later.row.WallThicknessIn,
		EarlierWallThicknessIn:   earlier.row.WallThicknessIn,
		LaterComments:            later.row.Comments,
		EarlierComments:          earlier.row.Comments,
		LaterRowIdx:              later.row.SourceRowIdx,
		EarlierRowIdx:            earlier.row.SourceRowIdx,
		Similarity:               similarity,
		Confidence:               confidence,
		ConfidenceLabel:          label,
		DepthGrowth:              depthGrowth,
		LengthGrowth:             lengthGrowth,
		WidthGrowth:              widthGrowth,
		YearsBetween:             yearsBetween,
		GrowthRatePctYr:          depthRate,
	}
}

func computeMatchStats(matches []model.MatchRecord, newCount, missingCount int, cfg *config.TuningConfig) Stats {
	stats := Stats{TotalMatches: len(matches), NewAnomalies: newCount, MissingAnomalies: missingCount}
	if len(matches) == 0 {
		return stats
	}

	var simSum, confSum, rateSum float64
	var rateCount int
	for _, m := range matches {
		switch m.ConfidenceLabel {
		case model.ConfidenceHigh:
			stats.HighConfidence++
		case model.ConfidenceMed:
			stats.MediumConfidence++
		default:
			stats.LowConfidence++
		}
		simSum += m.Similarity
		confSum += m.Confidence
		if !math.IsNaN(m.GrowthRatePctYr) {
			rateSum += m.GrowthRatePctYr
			rateCount++
			if m.GrowthRatePctYr < 0 {
				stats.NegativeGrowthCount++
			}
			if m.GrowthRatePctYr > cfg.GetMaxPlausibleGrowthRate() {
				stats.HighGrowthCount++
			}
		}
	}
	stats.AvgSimilarity = simSum / float64(len(matches))
	stats.AvgConfidence = confSum / float64(len(matches))
	if rateCount > 0 {
		stats.AvgDepthGrowthRate = rateSum / float64(rateCount)
	} else {
		stats.AvgDepthGrowthRate = model.NaN()
	}
	return stats
}
