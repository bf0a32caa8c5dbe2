package align

import "errors"

// ErrInsufficientAnchors is returned when fewer than two girth welds are
// common to all supplied runs, leaving no usable basis for a piecewise
// linear corrector.
var ErrInsufficientAnchors = errors.New("insufficient_anchors")

// ErrNonMonotoneAnchors is returned when a source year's anchor distances
// are not strictly increasing in joint-number order. The corrector never
// silently sorts and continues; a non-monotone odometer reading means the
// girth-weld table itself is suspect.
var ErrNonMonotoneAnchors = errors.New("non_monotone_anchors")
