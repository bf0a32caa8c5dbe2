// Package align builds the cross-run distance coordinate system: it matches
// girth welds by joint number across every run, fits a piecewise-linear
// corrector per non-reference year, and applies it to every feature row.
package align

import (
	"math"
	"sort"

	"github.com/Akhila-Susarla/CorroSight/internal/model"
)

// girthWeldsOf extracts the girth-weld rows from a run: reference event
// type, non-null joint number, non-null distance, deduplicated by joint
// number (keeping the first occurrence), sorted by distance.
func girthWeldsOf(run model.Run) []model.FeatureRow {
	seen := make(map[int]bool)
	var out []model.FeatureRow
	for _, row := range run.Rows {
		if !row.IsGirthWeld || row.JointNumber == nil || math.IsNaN(row.DistanceFt) {
			continue
		}
		jn := *row.JointNumber
		if seen[jn] {
			continue
		}
		seen[jn] = true
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DistanceFt < out[j].DistanceFt })
	return out
}

// MatchGirthWelds finds the girth welds whose joint number appears in every
// supplied run and builds the alignment table: one row per common joint
// number, with the raw distance in each run and the deltas between
// consecutive years (sorted ascending). Returns ErrInsufficientAnchors if
// fewer than two joints are common to all runs.
func MatchGirthWelds(runs map[int]model.Run) ([]model.GirthWeldAlignment, []int, error) {
	years := make([]int, 0, len(runs))
	for y := range runs {
		years = append(years, y)
	}
	sort.Ints(years)

	distByYear := make(map[int]map[int]float64, len(years))
	jointSets := make([]map[int]bool, len(years))
	for i, y := range years {
		gws := girthWeldsOf(runs[y])
		m := make(map[int]float64, len(gws))
		present := make(map[int]bool, len(gws))
		for _, gw := range gws {
			jn := *gw.JointNumber
			m[jn] = gw.DistanceFt
			present[jn] = true
		}
		distByYear[y] = m
		jointSets[i] = present
	}

	common := intersectJointSets(jointSets)
	sort.Ints(common)

	if len(common) < 2 {
		return nil, years, ErrInsufficientAnchors
	}

	table := make([]model.GirthWeldAlignment, 0, len(common))
	for _, jn := range common {
		row := model.GirthWeldAlignment{
			JointNumber:    jn,
			DistanceByYear: make(map[int]float64, len(years)),
			DeltaToNext:    make(map[[2]int]float64),
		}
		for _, y := range years {
			row.DistanceByYear[y] = distByYear[y][jn]
		}
		for i := 1; i < len(years); i++ {
			yPrev, yCurr := years[i-1], years[i]
			row.DeltaToNext[[2]int{yPrev, yCurr}] = row.DistanceByYear[yCurr] - row.DistanceByYear[yPrev]
		}
		table = append(table, row)
	}

	return table, years, nil
}

func intersectJointSets(sets []map[int]bool) []int {
	if len(sets) == 0 {
		return nil
	}
	var common []int
	for jn := range sets[0] {
		inAll := true
		for _, s := range sets[1:] {
			if !s[jn] {
				inAll = false
				break
			}
		}
		if inAll {
			common = append(common, jn)
		}
	}
	return common
}
