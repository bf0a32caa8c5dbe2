package growth

import (
	"math"
	"testing"

	"github.com/Akhila-Susarla/CorroSight/internal/config"
	"github.com/Akhila-Susarla/CorroSight/internal/model"
)

func jn(v int) *int { return &v }

func TestScore_RemainingLife_AtThresholdWithPositiveRate(t *testing.T) {
	cfg := config.DefaultTuning()
	m := model.MatchRecord{LaterDepthPct: 80, GrowthRatePctYr: 2.0}
	Score(&m, cfg)
	if m.RemainingLifeYears != 0 {
		t.Errorf("expected 0 remaining life at threshold, got %v", m.RemainingLifeYears)
	}
}

func TestScore_RemainingLife_ZeroRateIsNaN(t *testing.T) {
	cfg := config.DefaultTuning()
	m := model.MatchRecord{LaterDepthPct: 40, GrowthRatePctYr: 0}
	Score(&m, cfg)
	if !math.IsNaN(m.RemainingLifeYears) {
		t.Errorf("expected NaN remaining life for zero rate, got %v", m.RemainingLifeYears)
	}
}

func TestScore_RemainingLife_NegativeRateIsNaN(t *testing.T) {
	cfg := config.DefaultTuning()
	m := model.MatchRecord{LaterDepthPct: 40, GrowthRatePctYr: -1.0}
	Score(&m, cfg)
	if !math.IsNaN(m.RemainingLifeYears) {
		t.Errorf("expected NaN remaining life for negative rate, got %v", m.RemainingLifeYears)
	}
}

func TestScore_GrowthClass_BoundaryExactness(t *testing.T) {
	cfg := config.DefaultTuning()
	m1 := model.MatchRecord{LaterDepthPct: 40, GrowthRatePctYr: 3.0}
	Score(&m1, cfg)
	if m1.GrowthClass != "Moderate" {
		t.Errorf("expected Moderate at exactly 3.0, got %v", m1.GrowthClass)
	}

	m2 := model.MatchRecord{LaterDepthPct: 40, GrowthRatePctYr: 3.0001}
	Score(&m2, cfg)
	if m2.GrowthClass != "High" {
		t.Errorf("expected High just above 3.0, got %v", m2.GrowthClass)
	}
}

func TestScore_GrowthClass_AllBands(t *testing.T) {
	cfg := config.DefaultTuning()
	cases := []struct {
		rate float64
		want string
	}{
		{-0.5, "Apparent Shrinkage"},
		{0, "Stable"},
		{0.5, "Low"},
		{1.0, "Low"},
		{2.0, "Moderate"},
		{3.0, "Moderate"},
		{4.0, "High"},
		{5.0, "High"},
		{5.1, "Severe"},
		{math.NaN(), "Unknown"},
	}
	for _, c := range cases {
		m := model.MatchRecord{LaterDepthPct: 40, GrowthRatePctYr: c.rate}
		Score(&m, cfg)
		if m.GrowthClass != c.want {
			t.Errorf("rate %v: expected %v, got %v", c.rate, c.want, m.GrowthClass)
		}
	}
}

func TestScore_RiskScore_MonotonicInDepthAndRate(t *testing.T) {
	cfg := config.DefaultTuning()
	low := model.MatchRecord{LaterDepthPct: 20, GrowthRatePctYr: 1.0}
	Score(&low, cfg)
	higherDepth := model.MatchRecord{LaterDepthPct: 60, GrowthRatePctYr: 1.0}
	Score(&higherDepth, cfg)
	higherRate := model.MatchRecord{LaterDepthPct: 20, GrowthRatePctYr: 4.0}
	Score(&higherRate, cfg)

	if higherDepth.RiskScore <= low.RiskScore {
		t.Errorf("expected risk score to increase with depth: low=%v higherDepth=%v", low.RiskScore, higherDepth.RiskScore)
	}
	if higherRate.RiskScore <= low.RiskScore {
		t.Errorf("expected risk score to increase with rate: low=%v higherRate=%v", low.RiskScore, higherRate.RiskScore)
	}
}

func TestScore_RiskScore_ClampedComponents(t *testing.T) {
	cfg := config.DefaultTuning()
	m := model.MatchRecord{LaterDepthPct: 200, GrowthRatePctYr: 50}
	Score(&m, cfg)
	if m.RiskScore != 100 {
		t.Errorf("expected both components clamped to 50+50=100, got %v", m.RiskScore)
	}
}

func TestScore_RiskCategory_Boundaries(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{70, "Critical"},
		{69.999, "High"},
		{50, "High"},
		{49.999, "Medium"},
		{30, "Medium"},
		{29.999, "Low"},
	}
	for _, c := range cases {
		if got := classifyRisk(c.score); got != c.want {
			t.Errorf("score %v: expected %v, got %v", c.score, c.want, got)
		}
	}
}

func TestScore_Idempotent(t *testing.T) {
	cfg := config.DefaultTuning()
	m := model.MatchRecord{LaterDepthPct: 55, GrowthRatePctYr: 2.5}
	Score(&m, cfg)
	first := m
	Score(&m, cfg)
	if m != first {
		t.Errorf("expected reapplying Score to be idempotent: first=%+v second=%+v", first, m)
	}
}

func TestTopConcerns_OrderedByRiskDescending(t *testing.T) {
	matches := []model.MatchRecord{
		{LaterJointNumber: jn(1), RiskScore: 30},
		{LaterJointNumber: jn(2), RiskScore: 90},
		{LaterJointNumber: jn(3), RiskScore: 60},
	}
	top := TopConcerns(matches, 2)
	if len(top) != 2 {
		t.Fatalf("expected 2 results, got %d", len(top))
	}
	if *top[0].LaterJointNumber != 2 || *top[1].LaterJointNumber != 3 {
		t.Errorf("expected joints [2,3] in order, got [%d,%d]", *top[0].LaterJointNumber, *top[1].LaterJointNumber)
	}
}

func TestTopConcerns_TieBrokenByJointNumber(t *testing.T) {
	matches := []model.MatchRecord{
		{LaterJointNumber: jn(50), RiskScore: 70},
		{LaterJointNumber: jn(10), RiskScore: 70},
	}
	top := TopConcerns(matches, 2)
	if *top[0].LaterJointNumber != 10 {
		t.Errorf("expected joint 10 first on tie, got %d", *top[0].LaterJointNumber)
	}
}

func TestTopConcerns_NLargerThanInput(t *testing.T) {
	matches := []model.MatchRecord{{LaterJointNumber: jn(1), RiskScore: 10}}
	top := TopConcerns(matches, 20)
	if len(top) != 1 {
		t.Errorf("expected all available results when n exceeds input, got %d", len(top))
	}
}
