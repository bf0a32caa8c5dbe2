package match

import (
	"math"
	"testing"

	"github.com/Akhila-Susarla/CorroSight/internal/config"
	"github.com/Akhila-Susarla/CorroSight/internal/model"
)

func jn(v int) *int { return &v }

func anomalyRow(idx int, joint int, dist, clock, depth, length, width float64, eventType string) model.FeatureRow {
	return model.FeatureRow{
		JointNumber:   jn(joint),
		DistanceFt:    dist,
		ClockHours:    clock,
		DepthPct:      depth,
		AxialLengthIn: length,
		CircWidthIn:   width,
		EventType:     eventType,
		IsAnomaly:     true,
		SourceRowIdx:  idx,
	}
}

func alignedRun(year int, rows []model.FeatureRow) model.AlignedRun {
	dist := make([]float64, len(rows))
	for i, r := range rows {
		dist[i] = r.DistanceFt
	}
	return model.AlignedRun{Run: model.Run{Year: year, Rows: rows}, CorrectedDistance: dist}
}

func TestClockDistance_Wraparound(t *testing.T) {
	if got := ClockDistance(0.1, 11.9); math.Abs(got-0.2) > 1e-9 {
		t.Errorf("expected 0.2, got %v", got)
	}
}

func TestClockDistance_NaN(t *testing.T) {
	if got := ClockDistance(math.NaN(), 3.0); got != 6.0 {
		t.Errorf("expected 6.0 for NaN input, got %v", got)
	}
}

func TestMatchAnomalies_PerfectPair(t *testing.T) {
	cfg := config.DefaultTuning()
	later := alignedRun(2022, []model.FeatureRow{anomalyRow(0, 100, 500.0, 3.0, 40, 2, 1, "Metal Loss")})
	earlier := alignedRun(2015, []model.FeatureRow{anomalyRow(0, 100, 500.0, 3.0, 35, 2, 1, "Metal Loss")})

	result := MatchAnomalies(later, earlier, 7, cfg)
	if len(result.Matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(result.Matches))
	}
	m := result.Matches[0]
	if m.ConfidenceLabel != model.ConfidenceHigh {
		t.Errorf("expected HIGH confidence, got %v (%v)", m.ConfidenceLabel, m.Confidence)
	}
	if m.Similarity < 0.95 {
		t.Errorf("expected near-perfect similarity, got %v", m.Similarity)
	}
	if m.LaterYear != 2022 || m.EarlierYear != 2015 {
		t.Errorf("expected LaterYear=2022, EarlierYear=2015, got %d, %d", m.LaterYear, m.EarlierYear)
	}
}

func TestMatchAnomalies_ShrinkagePenalized(t *testing.T) {
	cfg := config.DefaultTuning()
	// Depth shrinks from 40 to 30 -- shrinkage divisor is 10, so this
	// should score much worse than an equivalent-magnitude growth would.
	later := alignedRun(2022, []model.FeatureRow{anomalyRow(0, 100, 500.0, 3.0, 30, 2, 1, "Metal Loss")})
	earlier := alignedRun(2015, []model.FeatureRow{anomalyRow(0, 100, 500.0, 3.0, 40, 2, 1, "Metal Loss")})

	result := MatchAnomalies(later, earlier, 7, cfg)
	if len(result.Matches) != 1 {
		t.Fatalf("expected 1 match despite shrinkage, got %d", len(result.Matches))
	}
	// s_depth = 1 - 10/10 = 0, heavily dragging down similarity/confidence.
	if result.Matches[0].Confidence >= cfg.GetConfidenceHigh() {
		t.Errorf("expected shrinkage to depress confidence below HIGH, got %v", result.Matches[0].Confidence)
	}
}

func TestMatchAnomalies_PartitionProperty(t *testing.T) {
	cfg := config.DefaultTuning()
	later := alignedRun(2022, []model.FeatureRow{
		anomalyRow(0, 100, 500.0, 3.0, 40, 2, 1, "Metal Loss"),
		anomalyRow(1, 200, 900.0, 6.0, 20, 1, 1, "Dent"),
	})
	earlier := alignedRun(2015, []model.FeatureRow{
		anomalyRow(0, 100, 500.0, 3.0, 35, 2, 1, "Metal Loss"),
		anomalyRow(1, 300, 1500.0, 9.0, 15, 1, 1, "Metal Loss"),
	})

	result := MatchAnomalies(later, earlier, 7, cfg)

	total := len(result.Matches) + len(result.NewAnomalies)
	if total != len(later.Rows) {
		t.Errorf("matches+new should partition later anomalies: got %d, want %d", total, len(later.Rows))
	}
	total = len(result.Matches) + len(result.MissingAnomalies)
	if total != len(earlier.Rows) {
		t.Errorf("matches+missing should partition earlier anomalies: got %d, want %d", total, len(earlier.Rows))
	}

	// Distinct row indices on both sides.
	seenLater := make(map[int]bool)
	seenEarlier := make(map[int]bool)
	for _, m := range result.Matches {
		if seenLater[m.LaterRowIdx] {
			t.Errorf("later row idx %d reused across matches", m.LaterRowIdx)
		}
		seenLater[m.LaterRowIdx] = true
		if seenEarlier[m.EarlierRowIdx] {
			t.Errorf("earlier row idx %d reused across matches", m.EarlierRowIdx)
		}
		seenEarlier[m.EarlierRowIdx] = true
	}
}

func TestMatchAnomalies_GatingBounds(t *testing.T) {
	cfg := config.DefaultTuning()
	later := alignedRun(2022, []model.FeatureRow{anomalyRow(0, 100, 500.0, 3.0, 40, 2, 1, "Metal Loss")})
	earlier := alignedRun(2015, []model.FeatureRow{anomalyRow(0, 100, 500.0, 3.0, 35, 2, 1, "Metal Loss")})

	result := MatchAnomalies(later, earlier, 7, cfg)
	for _, m := range result.Matches {
		if math.Abs(m.LaterCorrectedDistance-m.EarlierCorrectedDistance) > cfg.GetDistanceToleranceFt() {
			t.Error("matched pair exceeds distance tolerance")
		}
		if ClockDistance(m.LaterClockHours, m.EarlierClockHours) > cfg.GetClockToleranceHours() {
			t.Error("matched pair exceeds clock tolerance")
		}
	}
}

func TestMatchAnomalies_EmptyEarlier(t *testing.T) {
	cfg := config.DefaultTuning()
	later := alignedRun(2022, []model.FeatureRow{anomalyRow(0, 100, 500.0, 3.0, 40, 2, 1, "Metal Loss")})
	earlier := alignedRun(2015, nil)

	result := MatchAnomalies(later, earlier, 7, cfg)
	if len(result.Matches) != 0 || len(result.NewAnomalies) != 1 || len(result.MissingAnomalies) != 0 {
		t.Errorf("expected all-new result, got matches=%d new=%d missing=%d",
			len(result.Matches), len(result.NewAnomalies), len(result.MissingAnomalies))
	}
}

func TestClassifyConfidence_Boundaries(t *testing.T) {
	cfg := config.DefaultTuning()
	cases := []struct {
		conf float64
		want model.ConfidenceLabel
	}{
		{0.85, model.ConfidenceHigh},
		{0.849999, model.ConfidenceMed},
		{0.60, model.ConfidenceMed},
		{0.599999, model.ConfidenceLow},
		{0.0, model.ConfidenceLow},
	}
	for _, c := range cases {
		if got := ClassifyConfidence(c.conf, cfg); got != c.want {
			t.Errorf("confidence %v: expected %v, got %v", c.conf, c.want, got)
		}
	}
}

func TestComputeConfidence_UniquenessLevels(t *testing.T) {
	cfg := config.DefaultTuning()
	fields := candidateFields{CorrectedDistance: 0, DepthPct: 40}
	c1 := computeConfidence(1.0, 1, fields, fields, nil, nil, 7, cfg)
	c2 := computeConfidence(1.0, 2, fields, fields, nil, nil, 7, cfg)
	c10 := computeConfidence(1.0, 10, fields, fields, nil, nil, 7, cfg)
	if c1 <= c2 || c2 <= c10 {
		t.Errorf("expected confidence to decrease with more candidates: c1=%v c2=%v c10=%v", c1, c2, c10)
	}
}
