// Package cache holds the result bundle produced by one end-to-end pipeline
// run and a single-writer holder that swaps bundles atomically for readers.
package cache

import (
	"time"

	"github.com/Akhila-Susarla/CorroSight/internal/align"
	"github.com/Akhila-Susarla/CorroSight/internal/analytics"
	"github.com/Akhila-Susarla/CorroSight/internal/chain"
	"github.com/Akhila-Susarla/CorroSight/internal/match"
	"github.com/Akhila-Susarla/CorroSight/internal/model"
	"github.com/Akhila-Susarla/CorroSight/internal/predict"
	"github.com/google/uuid"
)

// Bundle is the complete, immutable output of one pipeline run: every run
// loaded, the alignment table, every pairwise match result, the three-run
// chain, and the analytics derived from them. Once built a Bundle is never
// mutated; a new run produces a new Bundle.
type Bundle struct {
	GenerationID uuid.UUID
	ComputedAt   time.Time

	Runs      map[int]model.Run
	Alignment *align.Result

	// Pairwise holds one match.Result per consecutive run pair, keyed by
	// (earlier year, later year).
	Pairwise map[chain.YearPair]match.Result

	// DirectFirstLast is the first-to-last match, skipping the middle run,
	// kept only for cross-validation against the chained triples.
	DirectFirstLast *match.Result

	Chain chain.Result

	Segments     []analytics.SegmentRisk
	Interactions []analytics.InteractionCluster
	DigList      []analytics.DigItem
	Population   analytics.Population
	DataQuality  []analytics.DataQuality
	Completeness []analytics.ColumnCompleteness

	Prediction *predict.Result
}
