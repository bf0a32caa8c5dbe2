// Package pipeline orchestrates the full CorroSight analysis: alignment,
// pairwise matching, growth scoring, three-run chaining, and the integrity
// analytics and prediction built on top, assembling everything into one
// cache.Bundle.
package pipeline

import (
	"fmt"
	"time"

	"github.com/Akhila-Susarla/CorroSight/internal/align"
	"github.com/Akhila-Susarla/CorroSight/internal/analytics"
	"github.com/Akhila-Susarla/CorroSight/internal/cache"
	"github.com/Akhila-Susarla/CorroSight/internal/chain"
	"github.com/Akhila-Susarla/CorroSight/internal/config"
	"github.com/Akhila-Susarla/CorroSight/internal/corrolog"
	"github.com/Akhila-Susarla/CorroSight/internal/growth"
	"github.com/Akhila-Susarla/CorroSight/internal/match"
	"github.com/Akhila-Susarla/CorroSight/internal/model"
	"github.com/Akhila-Susarla/CorroSight/internal/predict"
	"github.com/google/uuid"
)

// Options controls which optional stages run on top of the mandatory
// alignment + pairwise matching + growth scoring.
type Options struct {
	// PredictTargetYear, if non-zero, runs the virtual-ILI extrapolation to
	// that year using the most recent pairwise match set as its base.
	PredictTargetYear int
}

// Run executes the full pipeline over the given runs, keyed by inspection
// year, and returns the assembled result bundle.
//
// Workflow:
//  1. Align every non-reference run to the most recent year via girth welds.
//  2. Match anomalies for each consecutive run pair, plus a direct
//     first-to-last match (skipping the middle run) for cross-validation.
//  3. Score every pairwise match with remaining-life/growth-class/risk.
//  4. When 3+ runs are present, chain consecutive pairs into triple matches
//     and fit depth-growth trends across the full span.
//  5. Run the integrity analytics (segment heatmap, interaction clusters,
//     dig list, population patterns, data-quality reports) against the
//     most recent pairwise match set.
//  6. Optionally extrapolate to a target year (virtual ILI).
func Run(runs map[int]model.Run, cfg *config.TuningConfig, opts Options) (*cache.Bundle, error) {
	years := chain.SortedYears(runs)
	if len(years) < 2 {
		return nil, fmt.Errorf("pipeline: need at least 2 runs, got %d", len(years))
	}
	referenceYear := years[len(years)-1]
	corrolog.Logf("pipeline: starting run over %d years, reference=%d", len(years), referenceYear)

	alignment, err := align.Align(runs, referenceYear)
	if err != nil {
		return nil, fmt.Errorf("pipeline: align: %w", err)
	}
	corrolog.Logf("pipeline: aligned %d runs to reference year %d", len(alignment.AlignedRuns), referenceYear)

	pairwise := make(map[chain.YearPair]match.Result, len(years)-1)
	for i := 0; i < len(years)-1; i++ {
		yEarly, yLater := years[i], years[i+1]
		yb := yearsBetween(yEarly, yLater)

		later := alignment.AlignedRuns[yLater]
		earlier := alignment.AlignedRuns[yEarly]
		result := match.MatchAnomalies(later, earlier, yb, cfg)
		growth.ScoreAll(result.Matches, cfg)
		corrolog.Logf("pipeline: matched %d-%d: %d matches, %d new, %d missing",
			yEarly, yLater, len(result.Matches), len(result.NewAnomalies), len(result.MissingAnomalies))

		pairwise[chain.YearPair{yEarly, yLater}] = result
	}

	var directFirstLast *match.Result
	if len(years) >= 3 {
		yFirst, yLast := years[0], years[len(years)-1]
		ybDirect := yearsBetween(yFirst, yLast)
		result := match.MatchAnomalies(alignment.AlignedRuns[yLast], alignment.AlignedRuns[yFirst], ybDirect, cfg)
		growth.ScoreAll(result.Matches, cfg)
		corrolog.Logf("pipeline: direct validation match %d-%d: %d matches", yFirst, yLast, len(result.Matches))
		directFirstLast = &result
	}

	var chainResult chain.Result
	if len(years) >= 3 {
		y1, y2, y3 := years[0], years[1], years[2]
		ybFull := yearsBetween(y1, y3)
		chainResult = chain.ChainThreeRuns(pairwise, [3]int{y1, y2, y3}, ybFull)
		corrolog.Logf("pipeline: chained %d-%d-%d: %d triple matches", y1, y2, y3, len(chainResult.TripleMatches))
	}

	latestPair, ok := bestPairwiseMatches(pairwise, years)
	var latestMatches []model.MatchRecord
	if ok {
		latestMatches = latestPair.Matches
	}
	latestRun := alignment.AlignedRuns[referenceYear]

	corrolog.Logf("pipeline: running integrity analytics over %d matches", len(latestMatches))
	segments := analytics.SegmentRiskAnalysis(latestMatches, latestRun, cfg.GetSegmentLengthFt(), cfg)
	interactions := analytics.InteractionAssessment(latestMatches, cfg)
	digList := analytics.GenerateDigList(latestMatches, cfg)
	population := analytics.PopulationAnalyticsReport(latestMatches)
	dataQuality := analytics.RunQualityReport(runs)
	completeness := analytics.ColumnCompletenessReport(runs)

	var prediction *predict.Result
	if opts.PredictTargetYear != 0 && latestMatches != nil {
		corrolog.Logf("pipeline: predicting forward to %d", opts.PredictTargetYear)
		pred, err := predict.PredictFutureInspection(latestMatches, chainResult.TripleMatches, referenceYear, opts.PredictTargetYear, cfg)
		if err == nil {
			prediction = pred
		} else {
			corrolog.Logf("pipeline: prediction skipped: %v", err)
		}
	}

	genID, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("pipeline: generating bundle id: %w", err)
	}
	corrolog.Logf("pipeline: run complete, bundle %s", genID)

	return &cache.Bundle{
		GenerationID:    genID,
		ComputedAt:      time.Now(),
		Runs:            runs,
		Alignment:       alignment,
		Pairwise:        pairwise,
		DirectFirstLast: directFirstLast,
		Chain:           chainResult,
		Segments:        segments,
		Interactions:    interactions,
		DigList:         digList,
		Population:      population,
		DataQuality:     dataQuality,
		Completeness:    completeness,
		Prediction:      prediction,
	}, nil
}

func yearsBetween(early, later int) float64 {
	if yb, ok := config.YearsBetween[[2]int{early, later}]; ok {
		return yb
	}
	return float64(later - early)
}

// bestPairwiseMatches prefers the most recent, shortest-interval pair
// (the last consecutive pair in chronological order) since its match data
// best reflects current conditions; falls back to an earlier pair only if
// the preferred one is missing.
func bestPairwiseMatches(pairwise map[chain.YearPair]match.Result, years []int) (match.Result, bool) {
	for i := len(years) - 2; i >= 0; i-- {
		if result, ok := pairwise[chain.YearPair{years[i], years[i+1]}]; ok {
			return result, true
		}
	}
	return match.Result{}, false
}
