// Package chain joins consecutive pairwise match results into three-run
// lifecycle tracking and fits depth-growth trends across the full span.
package chain

import (
	"fmt"
	"math"
	"sort"

	"github.com/Akhila-Susarla/CorroSight/internal/match"
	"github.com/Akhila-Susarla/CorroSight/internal/model"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// YearPair keys a pairwise match result by (earlier year, later year).
type YearPair [2]int

// LifecycleEntry is one named category in the three-run lifecycle summary.
type LifecycleEntry struct {
	Category string
	Count    int
}

// Result is the output of chaining three runs together.
type Result struct {
	TripleMatches    []model.TripleMatch
	LifecycleSummary []LifecycleEntry
}

// ChainThreeRuns joins pairwise match results from (y1,y2) and (y2,y3) into
// triple matches spanning all three runs, keyed on the shared y2 row index:
// a y2 anomaly that is the "later" side of an (y1,y2) match and the
// "earlier" side of an (y2,y3) match is tracked across the full span.
// Returns an empty result if either pair has no matches.
func ChainThreeRuns(pairwise map[YearPair]match.Result, years [3]int, yearsBetweenFull float64) Result {
	y1, y2, y3 := years[0], years[1], years[2]
	m12 := pairwise[YearPair{y1, y2}]
	m23 := pairwise[YearPair{y2, y3}]

	if len(m12.Matches) == 0 || len(m23.Matches) == 0 {
		return Result{}
	}

	y2ToY1 := make(map[int]model.MatchRecord, len(m12.Matches))
	for _, m := range m12.Matches {
		y2ToY1[m.LaterRowIdx] = m
	}

	var triples []model.TripleMatch
	for _, m23rec := range m23.Matches {
		y2Row := m23rec.EarlierRowIdx
		m12rec, found := y2ToY1[y2Row]
		if !found {
			continue
		}
		triples = append(triples, buildTriple(m12rec, m23rec, y1, y2, y3, y2Row, yearsBetweenFull))
	}

	fitTrends(triples)

	lifecycle := buildLifecycleSummary(m12, m23, len(triples), y1, y2, y3)

	return Result{TripleMatches: triples, LifecycleSummary: lifecycle}
}

func buildTriple(m12, m23 model.MatchRecord, y1, y2, y3, y2RowIdx int, yearsBetweenFull float64) model.TripleMatch {
	totalDepthGrowth := safeSub(m23.LaterDepthPct, m12.EarlierDepthPct)

	minConf := m12.Confidence
	if m23.Confidence < minConf {
		minConf = m23.Confidence
	}

	var overallRate float64
	if math.IsNaN(totalDepthGrowth) || yearsBetweenFull == 0 {
		overallRate = model.NaN()
	} else {
		overallRate = totalDepthGrowth / yearsBetweenFull
	}

	return model.TripleMatch{
		Year1: y1, Year2: y2, Year3: y3,
		JointNumber: m23.LaterJointNumber,

		Year1CorrectedDistance: m12.EarlierCorrectedDistance,
		Year2CorrectedDistance: m23.EarlierCorrectedDistance,
		Year3CorrectedDistance: m23.LaterCorrectedDistance,

		Year1DepthPct: m12.EarlierDepthPct,
		Year2DepthPct: m23.EarlierDepthPct,
		Year3DepthPct: m23.LaterDepthPct,

		Year1ClockHours: m12.EarlierClockHours,
		Year2ClockHours: m23.EarlierClockHours,
		Year3ClockHours: m23.LaterClockHours,

		Year2RowIdx: y2RowIdx,

		Confidence12:  m12.Confidence,
		Confidence23:  m23.Confidence,
		MinConfidence: minConf,

		TotalDepthGrowth:  totalDepthGrowth,
		TotalYears:        yearsBetweenFull,
		OverallGrowthRate: overallRate,
	}
}

func safeSub(a, b float64) float64 {
	if math.IsNaN(a) || math.IsNaN(b) {
		return model.NaN()
	}
	return a - b
}

// fitTrends fits a linear and (where the span is wide enough) a quadratic
// depth-over-year trend to each triple match in place. The linear fit
// supplies slope, R^2, and the two 2030/2035 projections; the quadratic fit
// supplies only the acceleration sign, since a 3-point quadratic is exact
// and its projections would be untrustworthy extrapolations.
func fitTrends(triples []model.TripleMatch) {
	for i := range triples {
		t := &triples[i]
		years := []float64{float64(t.Year1), float64(t.Year2), float64(t.Year3)}
		depths := []float64{t.Year1DepthPct, t.Year2DepthPct, t.Year3DepthPct}

		validYears, validDepths := validPairs(years, depths)
		if len(validYears) < 2 {
			continue
		}

		alpha, beta := stat.LinearRegression(validYears, validDepths, nil, false)
		r2 := stat.RSquared(validYears, validDepths, nil, alpha, beta)

		t.TrendSlope = beta
		t.TrendR2 = r2
		t.PredictedDepth2030 = alpha + beta*2030
		t.PredictedDepth2035 = alpha + beta*2035
		t.HasTrend = true

		if len(validYears) == 3 {
			t.IsAccelerating = quadraticLeadingCoeff(validYears, validDepths) > 0
		}
	}
}

func validPairs(years, depths []float64) ([]float64, []float64) {
	var ys, ds []float64
	for i, d := range depths {
		if !math.IsNaN(d) {
			ys = append(ys, years[i])
			ds = append(ds, d)
		}
	}
	return ys, ds
}

// quadraticLeadingCoeff fits depth = c0 + c1*year + c2*year^2 via the normal
// equations and returns c2, whose sign indicates whether growth is
// accelerating (positive) or decelerating (negative).
func quadraticLeadingCoeff(years, depths []float64) float64 {
	n := len(years)
	a := mat.NewDense(n, 3, nil)
	for i, y := range years {
		a.Set(i, 0, 1)
		a.Set(i, 1, y)
		a.Set(i, 2, y*y)
	}
	b := mat.NewDense(n, 1, depths)

	var ata mat.Dense
	ata.Mul(a.T(), a)
	var atb mat.Dense
	atb.Mul(a.T(), b)

	var coeffs mat.Dense
	if err := coeffs.Solve(&ata, &atb); err != nil {
		return 0
	}
	return coeffs.At(2, 0)
}

func buildLifecycleSummary(m12, m23 match.Result, tripleCount, y1, y2, y3 int) []LifecycleEntry {
	return []LifecycleEntry{
		{Category: "Tracked All 3 Runs", Count: tripleCount},
		{Category: fmt.Sprintf("New in %d (tracked to %d)", y2, y3), Count: len(m23.Matches) - tripleCount},
		{Category: fmt.Sprintf("New in %d", y3), Count: len(m23.NewAnomalies)},
		{Category: fmt.Sprintf("Disappeared after %d", y1), Count: len(m12.MissingAnomalies)},
		{Category: fmt.Sprintf("Disappeared after %d", y2), Count: len(m23.MissingAnomalies)},
	}
}

// SortedYears returns the keys of a run map in ascending order.
func SortedYears(runs map[int]model.Run) []int {
	years := make([]int, 0, len(runs))
	for y := range runs {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}
