package match

import "math"

// Point3 is a point in the embedding space used for candidate search:
// (corrected distance in feet, cos(clock), sin(clock)).
type Point3 struct {
	X, Y, Z float64
}

// SpatialIndex is a grid-based spatial index over a fixed set of points,
// supporting radius queries. Points are hashed into cubic cells of side
// CellSize; a radius query scans the 3x3x3 neighborhood of cells around the
// query point and filters by exact squared distance, the same shape as a
// KD-tree ball query without committing to tree construction.
type SpatialIndex struct {
	CellSize float64
	points   []Point3
	grid     map[[3]int64][]int
}

// NewSpatialIndex builds an index over points with the given cell size.
// cellSize should be close to the radius queries will use, so each query
// touches a small, roughly constant number of cells.
func NewSpatialIndex(points []Point3, cellSize float64) *SpatialIndex {
	idx := &SpatialIndex{
		CellSize: cellSize,
		points:   points,
		grid:     make(map[[3]int64][]int, len(points)),
	}
	for i, p := range points {
		cell := idx.cellOf(p)
		idx.grid[cell] = append(idx.grid[cell], i)
	}
	return idx
}

func (idx *SpatialIndex) cellOf(p Point3) [3]int64 {
	return [3]int64{
		int64(math.Floor(p.X / idx.CellSize)),
		int64(math.Floor(p.Y / idx.CellSize)),
		int64(math.Floor(p.Z / idx.CellSize)),
	}
}

// RadiusQuery returns the indices of every indexed point within Euclidean
// distance r of query. This is a superset filter: callers apply their own
// exact per-axis gating afterward.
func (idx *SpatialIndex) RadiusQuery(query Point3, r float64) []int {
	if len(idx.points) == 0 {
		return nil
	}
	cellSpan := int64(math.Ceil(r / idx.CellSize))
	center := idx.cellOf(query)
	r2 := r * r

	var out []int
	for dx := -cellSpan; dx <= cellSpan; dx++ {
		for dy := -cellSpan; dy <= cellSpan; dy++ {
			for dz := -cellSpan; dz <= cellSpan; dz++ {
				cell := [3]int64{center[0] + dx, center[1] + dy, center[2] + dz}
				for _, i := range idx.grid[cell] {
					p := idx.points[i]
					ddx, ddy, ddz := p.X-query.X, p.Y-query.Y, p.Z-query.Z
					if ddx*ddx+ddy*ddy+ddz*ddz <= r2 {
						out = append(out, i)
					}
				}
			}
		}
	}
	return out
}
