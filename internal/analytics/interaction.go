package analytics

import (
	"math"
	"sort"

	"github.com/Akhila-Susarla/CorroSight/internal/config"
	"github.com/Akhila-Susarla/CorroSight/internal/model"
)

// InteractionCluster is a group of anomalies whose axial spacing is close
// enough, per ASME B31G / RSTRENG, that the pipe sees them as one combined
// defect rather than independent ones.
type InteractionCluster struct {
	ClusterID              int
	AnomalyCount           int
	StartDistanceFt        float64
	EndDistanceFt          float64
	SpanFt                 float64
	EffectiveLengthIn      float64
	MaxDepthPct            float64
	AvgDepthPct            float64
	MaxGrowthRate          float64 // NaN if no member has growth data
	MaxRiskScore           float64 // NaN if no member has a risk score
	Joint                  *int
	WallThicknessIn        float64
	InteractionThresholdIn float64
	Severity               string
}

// InteractionAssessment detects anomaly clusters using a forward-chaining
// walk: anomalies are sorted by distance, and each unvisited anomaly starts
// a cluster that absorbs every subsequent anomaly within 6x the wall
// thickness of the last member added (clear, edge-to-edge spacing).
// Singletons are not reported since they cannot interact.
func InteractionAssessment(matches []model.MatchRecord, cfg *config.TuningConfig) []InteractionCluster {
	type candidate struct {
		distance   float64
		depth      float64
		wallThick  float64
		joint      *int
		lengthIn   float64
		growthRate float64
		riskScore  float64
		hasGrowth  bool
	}

	var rows []candidate
	for _, m := range matches {
		if math.IsNaN(m.LaterCorrectedDistance) || math.IsNaN(m.LaterDepthPct) {
			continue
		}
		rows = append(rows, candidate{
			distance:   m.LaterCorrectedDistance,
			depth:      m.LaterDepthPct,
			wallThick:  m.LaterWallThicknessIn,
			joint:      m.LaterJointNumber,
			lengthIn:   m.LaterAxialLengthIn,
			growthRate: m.GrowthRatePctYr,
			riskScore:  m.RiskScore,
			hasGrowth:  !math.IsNaN(m.GrowthRatePctYr),
		})
	}
	if len(rows) < 2 {
		return nil
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].distance < rows[j].distance })

	var clusters []InteractionCluster
	used := make([]bool, len(rows))

	for i := range rows {
		if used[i] {
			continue
		}
		wt := rows[i].wallThick
		if math.IsNaN(wt) || wt <= 0 {
			wt = cfg.GetDefaultWallThicknessIn()
		}
		thresholdFt := (6 * wt) / 12.0

		members := []int{i}
		lastDist := rows[i].distance
		lengthI := rows[i].lengthIn
		if math.IsNaN(lengthI) {
			lengthI = 0
		}

		j := i + 1
		for j < len(rows) {
			spacing := rows[j].distance - lastDist
			clearSpacing := spacing - lengthI/12.0
			if clearSpacing > thresholdFt {
				break
			}
			members = append(members, j)
			used[j] = true
			lastDist = rows[j].distance
			j++
		}

		if len(members) < 2 {
			continue
		}
		used[i] = true

		minDist, maxDist := rows[members[0]].distance, rows[members[0]].distance
		maxDepth, depthSum := rows[members[0]].depth, 0.0
		maxLength := 0.0
		maxGrowth := model.NaN()
		maxRisk := model.NaN()
		var jointOut *int

		for k, idx := range members {
			r := rows[idx]
			if r.distance < minDist {
				minDist = r.distance
			}
			if r.distance > maxDist {
				maxDist = r.distance
			}
			if r.depth > maxDepth {
				maxDepth = r.depth
			}
			depthSum += r.depth
			if !math.IsNaN(r.lengthIn) && r.lengthIn > maxLength {
				maxLength = r.lengthIn
			}
			if r.hasGrowth && (math.IsNaN(maxGrowth) || r.growthRate > maxGrowth) {
				maxGrowth = r.growthRate
			}
			if math.IsNaN(maxRisk) || r.riskScore > maxRisk {
				maxRisk = r.riskScore
			}
			if k == 0 {
				jointOut = r.joint
			}
		}

		spanFt := maxDist - minDist
		effectiveLengthIn := spanFt*12 + maxLength
		avgDepth := depthSum / float64(len(members))

		severity := "LOW"
		switch {
		case maxDepth >= 60 || len(members) >= 4:
			severity = "HIGH"
		case maxDepth >= 40 || len(members) >= 3:
			severity = "MEDIUM"
		}

		clusters = append(clusters, InteractionCluster{
			ClusterID:              len(clusters) + 1,
			AnomalyCount:           len(members),
			StartDistanceFt:        minDist,
			EndDistanceFt:          maxDist,
			SpanFt:                 spanFt,
			EffectiveLengthIn:      effectiveLengthIn,
			MaxDepthPct:            maxDepth,
			AvgDepthPct:            avgDepth,
			MaxGrowthRate:          maxGrowth,
			MaxRiskScore:           maxRisk,
			Joint:                  jointOut,
			WallThicknessIn:        wt,
			InteractionThresholdIn: 6 * wt,
			Severity:               severity,
		})
	}

	return clusters
}
