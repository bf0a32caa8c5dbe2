package chain

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Akhila-Susarla/CorroSight/internal/match"
	"github.com/Akhila-Susarla/CorroSight/internal/model"
)

type tripleDepths struct {
	Year2RowIdx                                 int
	Year1DepthPct, Year2DepthPct, Year3DepthPct float64
	MinConfidence, TotalDepthGrowth             float64
}

func jn(v int) *int { return &v }

func TestChainThreeRuns_TripleRowIdxIsSharedMiddle(t *testing.T) {
	// m12: 2015(later,rowidx=5) matched to 2007(earlier,rowidx=1)
	m12 := model.MatchRecord{
		LaterRowIdx: 5, EarlierRowIdx: 1,
		LaterJointNumber: jn(10), EarlierJointNumber: jn(10),
		LaterCorrectedDistance: 500, EarlierCorrectedDistance: 498,
		LaterDepthPct: 30, EarlierDepthPct: 20,
		Confidence: 0.9,
	}
	// m23: 2022(later,rowidx=9) matched to 2015(earlier,rowidx=5) -- same
	// row index 5 as m12's later side, so this chains into a triple.
	m23 := model.MatchRecord{
		LaterRowIdx: 9, EarlierRowIdx: 5,
		LaterJointNumber: jn(10), EarlierJointNumber: jn(10),
		LaterCorrectedDistance: 501, EarlierCorrectedDistance: 500,
		LaterDepthPct: 45, EarlierDepthPct: 30,
		Confidence: 0.8,
	}

	pairwise := map[YearPair]match.Result{
		{2007, 2015}: {Matches: []model.MatchRecord{m12}},
		{2015, 2022}: {Matches: []model.MatchRecord{m23}},
	}

	result := ChainThreeRuns(pairwise, [3]int{2007, 2015, 2022}, 15)
	if len(result.TripleMatches) != 1 {
		t.Fatalf("expected 1 triple match, got %d", len(result.TripleMatches))
	}
	triple := result.TripleMatches[0]
	got := tripleDepths{
		Year2RowIdx: triple.Year2RowIdx,
		Year1DepthPct: triple.Year1DepthPct, Year2DepthPct: triple.Year2DepthPct, Year3DepthPct: triple.Year3DepthPct,
		MinConfidence: triple.MinConfidence, TotalDepthGrowth: triple.TotalDepthGrowth,
	}
	want := tripleDepths{
		Year2RowIdx: 5,
		Year1DepthPct: 20, Year2DepthPct: 30, Year3DepthPct: 45,
		MinConfidence: 0.8, TotalDepthGrowth: 25,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("triple depths mismatch (-want +got):\n%s", diff)
	}
}

func TestChainThreeRuns_NoChainWhenRowIdxDiffers(t *testing.T) {
	m12 := model.MatchRecord{LaterRowIdx: 5, EarlierRowIdx: 1, LaterDepthPct: 30, EarlierDepthPct: 20}
	m23 := model.MatchRecord{LaterRowIdx: 9, EarlierRowIdx: 7, LaterDepthPct: 45, EarlierDepthPct: 30}

	pairwise := map[YearPair]match.Result{
		{2007, 2015}: {Matches: []model.MatchRecord{m12}},
		{2015, 2022}: {Matches: []model.MatchRecord{m23}},
	}

	result := ChainThreeRuns(pairwise, [3]int{2007, 2015, 2022}, 15)
	if len(result.TripleMatches) != 0 {
		t.Errorf("expected no triple matches when row indices don't chain, got %d", len(result.TripleMatches))
	}
}

func TestChainThreeRuns_EmptyPairYieldsEmptyResult(t *testing.T) {
	pairwise := map[YearPair]match.Result{
		{2007, 2015}: {},
		{2015, 2022}: {Matches: []model.MatchRecord{{LaterRowIdx: 9, EarlierRowIdx: 5}}},
	}
	result := ChainThreeRuns(pairwise, [3]int{2007, 2015, 2022}, 15)
	if len(result.TripleMatches) != 0 || result.LifecycleSummary != nil {
		t.Errorf("expected empty result when a pair has no matches")
	}
}

func TestChainThreeRuns_LifecycleSummaryCategories(t *testing.T) {
	m12 := model.MatchRecord{LaterRowIdx: 5, EarlierRowIdx: 1, LaterDepthPct: 30, EarlierDepthPct: 20}
	m23a := model.MatchRecord{LaterRowIdx: 9, EarlierRowIdx: 5, LaterDepthPct: 45, EarlierDepthPct: 30}
	m23b := model.MatchRecord{LaterRowIdx: 11, EarlierRowIdx: 2, LaterDepthPct: 50, EarlierDepthPct: 40}

	pairwise := map[YearPair]match.Result{
		{2007, 2015}: {Matches: []model.MatchRecord{m12}, MissingAnomalies: []model.FeatureRow{{}}},
		{2015, 2022}: {
			Matches:          []model.MatchRecord{m23a, m23b},
			NewAnomalies:     []model.FeatureRow{{}},
			MissingAnomalies: []model.FeatureRow{{}, {}},
		},
	}

	result := ChainThreeRuns(pairwise, [3]int{2007, 2015, 2022}, 15)
	if len(result.LifecycleSummary) != 5 {
		t.Fatalf("expected 5 lifecycle categories, got %d", len(result.LifecycleSummary))
	}
	byCategory := make(map[string]int)
	for _, e := range result.LifecycleSummary {
		byCategory[e.Category] = e.Count
	}
	if byCategory["Tracked All 3 Runs"] != 1 {
		t.Errorf("expected 1 tracked-all-3, got %d", byCategory["Tracked All 3 Runs"])
	}
	if byCategory["New in 2015 (tracked to 2022)"] != 1 {
		t.Errorf("expected 1 new-in-2015 (2 matches - 1 triple), got %d", byCategory["New in 2015 (tracked to 2022)"])
	}
	if byCategory["New in 2022"] != 1 {
		t.Errorf("expected 1 new-in-2022, got %d", byCategory["New in 2022"])
	}
	if byCategory["Disappeared after 2007"] != 1 {
		t.Errorf("expected 1 disappeared-after-2007, got %d", byCategory["Disappeared after 2007"])
	}
	if byCategory["Disappeared after 2015"] != 2 {
		t.Errorf("expected 2 disappeared-after-2015, got %d", byCategory["Disappeared after 2015"])
	}
}

func TestChainThreeRuns_TrendFitOnExactLine(t *testing.T) {
	// Depths increasing exactly linearly at 1.25 %/yr: 20, 30, 38.75 across
	// 2007/2015/2022 (8 and 7 year gaps) should fit a line with positive slope.
	m12 := model.MatchRecord{
		LaterRowIdx: 5, EarlierRowIdx: 1,
		EarlierDepthPct: 20,
	}
	m23 := model.MatchRecord{
		LaterRowIdx: 9, EarlierRowIdx: 5,
		EarlierDepthPct: 30, LaterDepthPct: 38.75,
	}
	pairwise := map[YearPair]match.Result{
		{2007, 2015}: {Matches: []model.MatchRecord{m12}},
		{2015, 2022}: {Matches: []model.MatchRecord{m23}},
	}
	result := ChainThreeRuns(pairwise, [3]int{2007, 2015, 2022}, 15)
	if len(result.TripleMatches) != 1 {
		t.Fatalf("expected 1 triple match, got %d", len(result.TripleMatches))
	}
	triple := result.TripleMatches[0]
	if !triple.HasTrend {
		t.Fatal("expected HasTrend true for 3 valid points")
	}
	if triple.TrendSlope <= 0 {
		t.Errorf("expected positive slope for increasing depth, got %v", triple.TrendSlope)
	}
	if triple.PredictedDepth2030 <= triple.Year3DepthPct {
		t.Errorf("expected 2030 prediction to exceed 2022 depth for growing anomaly: pred=%v year3=%v",
			triple.PredictedDepth2030, triple.Year3DepthPct)
	}
}
