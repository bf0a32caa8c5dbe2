package align

import (
	"sort"

	"github.com/Akhila-Susarla/CorroSight/internal/model"
)

// DistanceCorrector maps a raw distance in a source year's coordinate frame
// to the reference year's frame via piecewise-linear interpolation over
// girth-weld anchors, extrapolating linearly using the nearest segment for
// distances outside the anchor range.
type DistanceCorrector struct {
	srcDists []float64
	refDists []float64
}

// BuildDistanceCorrector builds the corrector mapping sourceYear's distance
// frame to referenceYear's, from the girth-weld alignment table. Anchors
// must already be sorted by joint number; their source-year distances must
// be strictly increasing, or ErrNonMonotoneAnchors is returned — the
// corrector never silently sorts and continues.
func BuildDistanceCorrector(table []model.GirthWeldAlignment, sourceYear, referenceYear int) (*DistanceCorrector, error) {
	src := make([]float64, len(table))
	ref := make([]float64, len(table))
	for i, row := range table {
		src[i] = row.DistanceByYear[sourceYear]
		ref[i] = row.DistanceByYear[referenceYear]
	}
	for i := 1; i < len(src); i++ {
		if src[i] <= src[i-1] {
			return nil, ErrNonMonotoneAnchors
		}
	}
	return &DistanceCorrector{srcDists: src, refDists: ref}, nil
}

// Apply maps a raw source-year distance to the reference year's frame.
// NaN in, NaN out. Distances outside the anchor range are extrapolated
// linearly using the slope of the nearest segment.
func (c *DistanceCorrector) Apply(distance float64) float64 {
	if len(c.srcDists) == 0 {
		return model.NaN()
	}
	if distance != distance { // NaN
		return model.NaN()
	}

	n := len(c.srcDists)
	if n == 1 {
		return c.refDists[0]
	}

	// Find the segment [i, i+1] containing distance, or the nearest edge
	// segment if distance falls outside the anchor range.
	idx := sort.SearchFloat64s(c.srcDists, distance)
	var i int
	switch {
	case idx <= 0:
		i = 0
	case idx >= n:
		i = n - 2
	default:
		i = idx - 1
	}

	x0, x1 := c.srcDists[i], c.srcDists[i+1]
	y0, y1 := c.refDists[i], c.refDists[i+1]
	t := (distance - x0) / (x1 - x0)
	return y0 + t*(y1-y0)
}

// ApplyDistanceCorrection returns a corrected-distance slice parallel to
// run.Rows. The reference year's corrected distance equals its raw
// distance; every other year is mapped through its DistanceCorrector.
func ApplyDistanceCorrection(run model.Run, corrector *DistanceCorrector, isReferenceYear bool) []float64 {
	out := make([]float64, len(run.Rows))
	for i, row := range run.Rows {
		if isReferenceYear {
			out[i] = row.DistanceFt
			continue
		}
		out[i] = corrector.Apply(row.DistanceFt)
	}
	return out
}
