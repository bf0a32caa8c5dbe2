package predict

import "errors"

var (
	// ErrNoMatches is returned when the base match set used for extrapolation
	// is empty.
	ErrNoMatches = errors.New("no_matches_to_extrapolate")
	// ErrTargetYearNotAfterBase is returned when targetYear does not lie
	// strictly after baseYear.
	ErrTargetYearNotAfterBase = errors.New("target_year_not_after_base")
	// ErrNoPredictions is returned when every candidate anomaly was excluded
	// (missing data or negative growth), leaving nothing to extrapolate.
	ErrNoPredictions = errors.New("no_predictions_generated")
)
