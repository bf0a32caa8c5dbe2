package analytics

import (
	"math"
	"sort"

	"github.com/Akhila-Susarla/CorroSight/internal/model"
	"gonum.org/v1/gonum/stat"
)

// QuadrantStat summarizes growth rates for one pipe cross-section quadrant.
type QuadrantStat struct {
	Quadrant        string
	Count           int
	MeanGrowthRate  float64
	MedianGrowthRate float64
	MaxGrowthRate   float64
	PctHighGrowth   float64
	AvgDepth        float64
}

// IDODStat summarizes growth rates for one ID/OD classification.
type IDODStat struct {
	Type             string
	Count            int
	MeanGrowthRate   float64
	MedianGrowthRate float64
	MaxGrowthRate    float64
	AvgDepth         float64
}

// DepthBandStat summarizes growth rates for one depth severity band.
type DepthBandStat struct {
	Band             string
	Count            int
	MeanGrowthRate   float64
	MedianGrowthRate float64
}

// QuadrantIDODStat is the quadrant x ID/OD cross-tab: the most diagnostic
// view, since it can surface e.g. bottom-of-pipe internal corrosion
// (water settling) versus bottom-of-pipe external (soil-side) as distinct
// systemic mechanisms.
type QuadrantIDODStat struct {
	Quadrant       string
	IDOD           string
	Count          int
	MeanGrowthRate float64
	AvgDepth       float64
}

// Population is the full set of population-level growth-pattern analyses.
type Population struct {
	ByQuadrant   []QuadrantStat
	ByIDOD       []IDODStat
	ByDepthBand  []DepthBandStat
	QuadrantIDOD []QuadrantIDODStat
}

type popRow struct {
	quadrant   string
	idod       string
	depthBand  string
	growthRate float64
	depth      float64
}

// PopulationAnalyticsReport groups matched-anomaly growth rates by clock
// quadrant, ID/OD classification, and depth band to reveal systemic
// corrosion patterns. Only non-negative growth rates are considered:
// negative rates reflect measurement noise, not physically real shrinkage
// at the population level.
func PopulationAnalyticsReport(matches []model.MatchRecord) Population {
	var rows []popRow
	for _, m := range matches {
		if math.IsNaN(m.GrowthRatePctYr) || m.GrowthRatePctYr < 0 {
			continue
		}
		rows = append(rows, popRow{
			quadrant:   clockQuadrant(m.LaterClockHours),
			idod:       idodLabel(m.LaterIDOD),
			depthBand:  depthBand(m.LaterDepthPct),
			growthRate: m.GrowthRatePctYr,
			depth:      m.LaterDepthPct,
		})
	}
	if len(rows) == 0 {
		return Population{}
	}

	return Population{
		ByQuadrant:   byQuadrant(rows),
		ByIDOD:       byIDOD(rows),
		ByDepthBand:  byDepthBand(rows),
		QuadrantIDOD: byQuadrantIDOD(rows),
	}
}

func clockQuadrant(hours float64) string {
	if math.IsNaN(hours) {
		return "Unknown"
	}
	h := math.Mod(hours, 12)
	if h < 0 {
		h += 12
	}
	switch {
	case h >= 10 || h < 2:
		return "Top (10-2)"
	case h < 4:
		return "Right (2-4)"
	case h < 8:
		return "Bottom (4-8)"
	default:
		return "Left (8-10)"
	}
}

func depthBand(depth float64) string {
	switch {
	case math.IsNaN(depth):
		return "Unknown"
	case depth < 20:
		return "0-20%"
	case depth < 40:
		return "20-40%"
	case depth < 60:
		return "40-60%"
	default:
		return "60%+"
	}
}

func idodLabel(idod model.IDODSide) string {
	if idod == "" {
		return "Unknown"
	}
	return string(idod)
}

func groupKeys(rows []popRow, key func(popRow) string) []string {
	seen := make(map[string]bool)
	for _, r := range rows {
		seen[key(r)] = true
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func byQuadrant(rows []popRow) []QuadrantStat {
	var out []QuadrantStat
	for _, q := range groupKeys(rows, func(r popRow) string { return r.quadrant }) {
		var rates, depths []float64
		highCount := 0
		for _, r := range rows {
			if r.quadrant != q {
				continue
			}
			rates = append(rates, r.growthRate)
			depths = append(depths, r.depth)
			if r.growthRate > 3.0 {
				highCount++
			}
		}
		out = append(out, QuadrantStat{
			Quadrant:         q,
			Count:            len(rates),
			MeanGrowthRate:   stat.Mean(rates, nil),
			MedianGrowthRate: stat.Quantile(0.5, stat.Empirical, sortedFloats(rates), nil),
			MaxGrowthRate:    maxOf(rates),
			PctHighGrowth:    float64(highCount) / float64(len(rates)) * 100,
			AvgDepth:         stat.Mean(depths, nil),
		})
	}
	return out
}

func byIDOD(rows []popRow) []IDODStat {
	var out []IDODStat
	for _, t := range groupKeys(rows, func(r popRow) string { return r.idod }) {
		var rates, depths []float64
		for _, r := range rows {
			if r.idod != t {
				continue
			}
			rates = append(rates, r.growthRate)
			depths = append(depths, r.depth)
		}
		out = append(out, IDODStat{
			Type:             t,
			Count:            len(rates),
			MeanGrowthRate:   stat.Mean(rates, nil),
			MedianGrowthRate: stat.Quantile(0.5, stat.Empirical, sortedFloats(rates), nil),
			MaxGrowthRate:    maxOf(rates),
			AvgDepth:         stat.Mean(depths, nil),
		})
	}
	return out
}

func byDepthBand(rows []popRow) []DepthBandStat {
	var out []DepthBandStat
	for _, b := range groupKeys(rows, func(r popRow) string { return r.depthBand }) {
		var rates []float64
		for _, r := range rows {
			if r.depthBand != b {
				continue
			}
			rates = append(rates, r.growthRate)
		}
		out = append(out, DepthBandStat{
			Band:             b,
			Count:            len(rates),
			MeanGrowthRate:   stat.Mean(rates, nil),
			MedianGrowthRate: stat.Quantile(0.5, stat.Empirical, sortedFloats(rates), nil),
		})
	}
	return out
}

func byQuadrantIDOD(rows []popRow) []QuadrantIDODStat {
	type key struct{ quadrant, idod string }
	seen := make(map[key]bool)
	for _, r := range rows {
		seen[key{r.quadrant, r.idod}] = true
	}
	keys := make([]key, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].quadrant != keys[j].quadrant {
			return keys[i].quadrant < keys[j].quadrant
		}
		return keys[i].idod < keys[j].idod
	})

	var out []QuadrantIDODStat
	for _, k := range keys {
		var rates, depths []float64
		for _, r := range rows {
			if r.quadrant == k.quadrant && r.idod == k.idod {
				rates = append(rates, r.growthRate)
				depths = append(depths, r.depth)
			}
		}
		out = append(out, QuadrantIDODStat{
			Quadrant:       k.quadrant,
			IDOD:           k.idod,
			Count:          len(rates),
			MeanGrowthRate: stat.Mean(rates, nil),
			AvgDepth:       stat.Mean(depths, nil),
		})
	}
	return out
}

func maxOf(xs []float64) float64 {
	if len(xs) == 0 {
		return model.NaN()
	}
	m := xs[0]
	for _, x := range xs[1:] {
		if x > m {
			m = x
		}
	}
	return m
}
