package pipeline

import (
	"testing"

	"github.com/Akhila-Susarla/CorroSight/internal/chain"
	"github.com/Akhila-Susarla/CorroSight/internal/config"
	"github.com/Akhila-Susarla/CorroSight/internal/model"
)

func jn(v int) *int { return &v }

func weld(year int, joint int, dist float64) model.FeatureRow {
	return model.FeatureRow{JointNumber: jn(joint), DistanceFt: dist, IsGirthWeld: true, EventType: "Girth Weld"}
}

func anomaly(dist, clock, depth, length, width float64, eventType string) model.FeatureRow {
	return model.FeatureRow{
		DistanceFt: dist, ClockHours: clock, DepthPct: depth,
		AxialLengthIn: length, CircWidthIn: width, EventType: eventType, IsAnomaly: true,
	}
}

func buildRuns() map[int]model.Run {
	return map[int]model.Run{
		2007: {Year: 2007, Rows: []model.FeatureRow{
			weld(2007, 100, 0), weld(2007, 101, 1000), weld(2007, 102, 2000),
			anomaly(500, 3.0, 20, 2, 1, "Metal Loss"),
		}},
		2015: {Year: 2015, Rows: []model.FeatureRow{
			weld(2015, 100, 0), weld(2015, 101, 1005), weld(2015, 102, 2010),
			anomaly(503, 3.0, 30, 2, 1, "Metal Loss"),
		}},
		2022: {Year: 2022, Rows: []model.FeatureRow{
			weld(2022, 100, 0), weld(2022, 101, 1008), weld(2022, 102, 2015),
			anomaly(505, 3.0, 40, 2, 1, "Metal Loss"),
		}},
	}
}

func TestRun_EndToEndTwoRuns(t *testing.T) {
	cfg := config.DefaultTuning()
	runs := map[int]model.Run{2015: buildRuns()[2015], 2022: buildRuns()[2022]}
	bundle, err := Run(runs, cfg, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bundle.Alignment == nil {
		t.Fatal("expected alignment result")
	}
	pair, ok := bundle.Pairwise[chain.YearPair{2015, 2022}]
	if !ok {
		t.Fatal("expected a 2015-2022 pairwise result")
	}
	if len(pair.Matches) != 1 {
		t.Errorf("expected 1 match, got %d", len(pair.Matches))
	}
	if pair.Matches[0].RiskScore == 0 && pair.Matches[0].GrowthClass == "" {
		t.Error("expected growth scoring to have run on pairwise matches")
	}
}

func TestRun_EndToEndThreeRuns_ProducesChain(t *testing.T) {
	cfg := config.DefaultTuning()
	bundle, err := Run(buildRuns(), cfg, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bundle.DirectFirstLast == nil {
		t.Error("expected a direct first-to-last match for 3+ runs")
	}
	if len(bundle.Chain.TripleMatches) != 1 {
		t.Fatalf("expected 1 triple match chaining all 3 runs, got %d", len(bundle.Chain.TripleMatches))
	}
	if len(bundle.Chain.LifecycleSummary) != 5 {
		t.Errorf("expected 5 lifecycle categories, got %d", len(bundle.Chain.LifecycleSummary))
	}
}

func TestRun_RequiresAtLeastTwoRuns(t *testing.T) {
	cfg := config.DefaultTuning()
	_, err := Run(map[int]model.Run{2022: buildRuns()[2022]}, cfg, Options{})
	if err == nil {
		t.Fatal("expected an error for a single run")
	}
}

func TestRun_WithPrediction(t *testing.T) {
	cfg := config.DefaultTuning()
	bundle, err := Run(buildRuns(), cfg, Options{PredictTargetYear: 2030})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bundle.Prediction == nil {
		t.Error("expected a prediction result when PredictTargetYear is set")
	}
}
