package analytics

import (
	"fmt"
	"math"

	"github.com/Akhila-Susarla/CorroSight/internal/model"
)

// DataQuality is one run's quality summary: row counts, missing-value
// counts on key measurement columns, and distance/joint ranges, so
// operators can spot incomplete or suspect runs before alignment.
type DataQuality struct {
	RunYear         int
	TotalRows       int
	AnomalyCount    int
	GirthWeldCount  int
	DepthMissing    int
	LengthMissing   int
	WidthMissing    int
	ClockMissing    int
	DistanceRange   string
	JointRange      string
}

// RunQualityReport builds a DataQuality row per run, sorted by year is the
// caller's responsibility (mirrors the one-row-per-year shape operators
// expect on the data overview dashboard).
func RunQualityReport(runs map[int]model.Run) []DataQuality {
	out := make([]DataQuality, 0, len(runs))
	for year, run := range runs {
		var anomalyCount, girthWeldCount int
		var depthMissing, lengthMissing, widthMissing, clockMissing int
		minDist, maxDist := math.Inf(1), math.Inf(-1)
		minJoint, maxJoint := 0, 0
		haveJoint := false

		for _, row := range run.Rows {
			if row.DistanceFt < minDist {
				minDist = row.DistanceFt
			}
			if row.DistanceFt > maxDist {
				maxDist = row.DistanceFt
			}
			if row.IsAnomaly {
				anomalyCount++
				if math.IsNaN(row.DepthPct) {
					depthMissing++
				}
				if math.IsNaN(row.AxialLengthIn) {
					lengthMissing++
				}
				if math.IsNaN(row.CircWidthIn) {
					widthMissing++
				}
				if math.IsNaN(row.ClockHours) {
					clockMissing++
				}
			}
			if row.IsGirthWeld && row.JointNumber != nil {
				girthWeldCount++
				if !haveJoint || *row.JointNumber < minJoint {
					minJoint = *row.JointNumber
				}
				if !haveJoint || *row.JointNumber > maxJoint {
					maxJoint = *row.JointNumber
				}
				haveJoint = true
			}
		}

		jointRange := "N/A"
		if haveJoint {
			jointRange = fmt.Sprintf("%d-%d", minJoint, maxJoint)
		}
		distRange := "N/A"
		if len(run.Rows) > 0 {
			distRange = fmt.Sprintf("%.1f-%.1f", minDist, maxDist)
		}

		out = append(out, DataQuality{
			RunYear:        year,
			TotalRows:      len(run.Rows),
			AnomalyCount:   anomalyCount,
			GirthWeldCount: girthWeldCount,
			DepthMissing:   depthMissing,
			LengthMissing:  lengthMissing,
			WidthMissing:   widthMissing,
			ClockMissing:   clockMissing,
			DistanceRange:  distRange,
			JointRange:     jointRange,
		})
	}
	return out
}

// ColumnCompleteness is the percent-non-null figure for one (run year,
// column) pair, computed over anomaly rows only (the rows analysis
// actually consumes).
type ColumnCompleteness struct {
	RunYear        int
	Column         string
	CompletenessPct float64
}

var completenessColumns = []string{
	"depth_pct", "length_in", "width_in", "clock_hours",
	"distance_ft", "joint_number", "wall_thickness_in", "id_od",
}

// ColumnCompletenessReport computes per-column, per-run completeness in a
// long format suitable for a heatmap view.
func ColumnCompletenessReport(runs map[int]model.Run) []ColumnCompleteness {
	var out []ColumnCompleteness
	for year, run := range runs {
		var anomalies []model.FeatureRow
		for _, row := range run.Rows {
			if row.IsAnomaly {
				anomalies = append(anomalies, row)
			}
		}
		for _, col := range completenessColumns {
			pct := columnCompleteness(anomalies, col)
			out = append(out, ColumnCompleteness{RunYear: year, Column: col, CompletenessPct: pct})
		}
	}
	return out
}

func columnCompleteness(rows []model.FeatureRow, column string) float64 {
	if len(rows) == 0 {
		return 0
	}
	nonNull := 0
	for _, r := range rows {
		if columnPresent(r, column) {
			nonNull++
		}
	}
	return float64(nonNull) / float64(len(rows)) * 100
}

func columnPresent(r model.FeatureRow, column string) bool {
	switch column {
	case "depth_pct":
		return !math.IsNaN(r.DepthPct)
	case "length_in":
		return !math.IsNaN(r.AxialLengthIn)
	case "width_in":
		return !math.IsNaN(r.CircWidthIn)
	case "clock_hours":
		return !math.IsNaN(r.ClockHours)
	case "distance_ft":
		return !math.IsNaN(r.DistanceFt)
	case "joint_number":
		return r.JointNumber != nil
	case "wall_thickness_in":
		return !math.IsNaN(r.WallThicknessIn)
	case "id_od":
		return r.IDOD != "" && r.IDOD != model.Unknown
	default:
		return false
	}
}
