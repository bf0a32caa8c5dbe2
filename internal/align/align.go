package align

import (
	"math"

	"github.com/Akhila-Susarla/CorroSight/internal/corrolog"
	"github.com/Akhila-Susarla/CorroSight/internal/model"
)

// Result bundles everything the Aligner produces: the girth-weld table,
// the aligned runs (with CorrectedDistance populated), and summary stats.
type Result struct {
	GirthWeldTable []model.GirthWeldAlignment
	AlignedRuns    map[int]model.AlignedRun
	Stats          Stats
}

// Align runs the full alignment procedure: match girth welds, build a
// corrector per non-reference year, and apply it to every run. referenceYear
// must be one of the keys of runs.
func Align(runs map[int]model.Run, referenceYear int) (*Result, error) {
	table, years, err := MatchGirthWelds(runs)
	if err != nil {
		return nil, err
	}
	corrolog.Logf("align: matched %d common girth welds across %d years", len(table), len(years))

	aligned := make(map[int]model.AlignedRun, len(runs))
	for _, year := range years {
		run := runs[year]
		if year == referenceYear {
			aligned[year] = model.AlignedRun{Run: run, CorrectedDistance: ApplyDistanceCorrection(run, nil, true)}
			continue
		}
		corrector, err := BuildDistanceCorrector(table, year, referenceYear)
		if err != nil {
			return nil, err
		}
		aligned[year] = model.AlignedRun{Run: run, CorrectedDistance: ApplyDistanceCorrection(run, corrector, false)}
	}

	stats := ComputeAlignmentStats(table, years)
	corrolog.Logf("align: common joint range [%d, %d], %d year pairs", stats.JointRangeMin, stats.JointRangeMax, len(stats.DriftByYearPair))

	return &Result{GirthWeldTable: table, AlignedRuns: aligned, Stats: stats}, nil
}

// DriftStats summarizes the per-joint distance drift between two
// consecutive runs.
type DriftStats struct {
	Mean, Std, Min, Max, AbsMean float64
	Histogram                    [5]int
}

// Stats summarizes the quality of an alignment.
type Stats struct {
	CommonJoints       int
	JointRangeMin      int
	JointRangeMax      int
	DriftByYearPair    map[[2]int]DriftStats
}

// ComputeAlignmentStats computes common-joint count, joint range, and
// per-consecutive-year-pair drift statistics (mean/std/min/max/abs-mean),
// plus a fixed 5-bucket drift histogram for quick sanity display.
func ComputeAlignmentStats(table []model.GirthWeldAlignment, years []int) Stats {
	stats := Stats{CommonJoints: len(table), DriftByYearPair: make(map[[2]int]DriftStats)}
	if len(table) == 0 {
		return stats
	}

	minJoint, maxJoint := table[0].JointNumber, table[0].JointNumber
	for _, row := range table {
		if row.JointNumber < minJoint {
			minJoint = row.JointNumber
		}
		if row.JointNumber > maxJoint {
			maxJoint = row.JointNumber
		}
	}
	stats.JointRangeMin = minJoint
	stats.JointRangeMax = maxJoint

	for i := 1; i < len(years); i++ {
		key := [2]int{years[i-1], years[i]}
		deltas := make([]float64, len(table))
		for j, row := range table {
			deltas[j] = row.DeltaToNext[key]
		}
		stats.DriftByYearPair[key] = summarizeDrift(deltas)
	}

	return stats
}

func summarizeDrift(deltas []float64) DriftStats {
	n := float64(len(deltas))
	if n == 0 {
		return DriftStats{}
	}

	var sum, absSum float64
	mn, mx := deltas[0], deltas[0]
	for _, d := range deltas {
		sum += d
		absSum += math.Abs(d)
		if d < mn {
			mn = d
		}
		if d > mx {
			mx = d
		}
	}
	mean := sum / n

	var variance float64
	for _, d := range deltas {
		variance += (d - mean) * (d - mean)
	}
	std := 0.0
	if n > 1 {
		std = math.Sqrt(variance / (n - 1))
	}

	ds := DriftStats{Mean: mean, Std: std, Min: mn, Max: mx, AbsMean: absSum / n}
	ds.Histogram = driftHistogram(deltas, mn, mx)
	return ds
}

// driftHistogram buckets deltas into 5 equal-width bins spanning [min, max].
func driftHistogram(deltas []float64, mn, mx float64) [5]int {
	var hist [5]int
	if mx <= mn {
		hist[0] = len(deltas)
		return hist
	}
	width := (mx - mn) / 5
	for _, d := range deltas {
		idx := int((d - mn) / width)
		if idx < 0 {
			idx = 0
		}
		if idx > 4 {
			idx = 4
		}
		hist[idx]++
	}
	return hist
}
