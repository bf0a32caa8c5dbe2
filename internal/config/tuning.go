// Package config holds the tunable numeric parameters that govern alignment,
// matching, growth scoring, and analytics. Every field is optional; omitted
// fields fall back to the defaults embedded in the matching Get* method, so
// a caller can override a single tolerance without restating the rest.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// TuningConfig is the root configuration for analysis tuning parameters.
type TuningConfig struct {
	// Matcher gating tolerances.
	DistanceToleranceFt *float64 `json:"distance_tolerance_ft,omitempty"`
	ClockToleranceHours *float64 `json:"clock_tolerance_hours,omitempty"`
	DepthTolerancePct   *float64 `json:"depth_tolerance_pct,omitempty"`
	LengthToleranceIn   *float64 `json:"length_tolerance_in,omitempty"`
	WidthToleranceIn    *float64 `json:"width_tolerance_in,omitempty"`

	// Matcher similarity weights. Must sum to 1.0.
	WeightDistance *float64 `json:"weight_distance,omitempty"`
	WeightClock    *float64 `json:"weight_clock,omitempty"`
	WeightDepth    *float64 `json:"weight_depth,omitempty"`
	WeightDims     *float64 `json:"weight_dims,omitempty"`
	WeightType     *float64 `json:"weight_type,omitempty"`

	// Confidence thresholds.
	ConfidenceHigh *float64 `json:"confidence_high,omitempty"`
	ConfidenceMed  *float64 `json:"confidence_med,omitempty"`
	ConfidenceLow  *float64 `json:"confidence_low,omitempty"`

	// Growth / risk parameters.
	MaxPlausibleGrowthRate   *float64 `json:"max_plausible_growth_rate,omitempty"`
	WallLossRepairThreshold  *float64 `json:"wall_loss_repair_threshold,omitempty"`
	DefaultWallThicknessIn   *float64 `json:"default_wall_thickness_in,omitempty"`

	// Analytics parameters.
	SegmentLengthFt *float64 `json:"segment_length_ft,omitempty"`
	DigListMinDepth *float64 `json:"dig_list_min_depth_pct,omitempty"`
	DigListMinRate  *float64 `json:"dig_list_min_rate,omitempty"`
}

func ptrFloat64(v float64) *float64 { return &v }

// EmptyTuningConfig returns a TuningConfig with every field nil. Use
// LoadTuningConfig or DefaultTuning to obtain a fully-specified config.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// DefaultTuning returns a TuningConfig with every field set to the spec
// default, suitable for use without a config file.
func DefaultTuning() *TuningConfig {
	return &TuningConfig{
		DistanceToleranceFt:     ptrFloat64(3.0),
		ClockToleranceHours:     ptrFloat64(1.0),
		DepthTolerancePct:       ptrFloat64(15),
		LengthToleranceIn:       ptrFloat64(3),
		WidthToleranceIn:        ptrFloat64(3),
		WeightDistance:          ptrFloat64(0.35),
		WeightClock:             ptrFloat64(0.25),
		WeightDepth:             ptrFloat64(0.20),
		WeightDims:              ptrFloat64(0.10),
		WeightType:              ptrFloat64(0.10),
		ConfidenceHigh:          ptrFloat64(0.85),
		ConfidenceMed:           ptrFloat64(0.60),
		ConfidenceLow:           ptrFloat64(0.40),
		MaxPlausibleGrowthRate:  ptrFloat64(5.0),
		WallLossRepairThreshold: ptrFloat64(80),
		DefaultWallThicknessIn:  ptrFloat64(0.3),
		SegmentLengthFt:         ptrFloat64(1000.0),
		DigListMinDepth:         ptrFloat64(20),
		DigListMinRate:          ptrFloat64(0.5),
	}
}

// LoadTuningConfig loads a TuningConfig from a JSON file. Fields omitted
// from the file retain their default values via the Get* accessors, so
// partial override files are safe.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that any set configuration values are within valid ranges.
// Unset (nil) fields are always valid since Get* supplies a known-good
// default for them.
func (c *TuningConfig) Validate() error {
	if c.DistanceToleranceFt != nil && *c.DistanceToleranceFt < 0 {
		return fmt.Errorf("distance_tolerance_ft must be non-negative, got %f", *c.DistanceToleranceFt)
	}
	if c.ClockToleranceHours != nil && *c.ClockToleranceHours < 0 {
		return fmt.Errorf("clock_tolerance_hours must be non-negative, got %f", *c.ClockToleranceHours)
	}
	if c.SegmentLengthFt != nil && *c.SegmentLengthFt <= 0 {
		return fmt.Errorf("segment_length_ft must be positive, got %f", *c.SegmentLengthFt)
	}

	sum := c.GetWeightDistance() + c.GetWeightClock() + c.GetWeightDepth() + c.GetWeightDims() + c.GetWeightType()
	if sum < 0.999 || sum > 1.001 {
		return fmt.Errorf("similarity weights must sum to 1.0, got %f", sum)
	}

	high, med, low := c.GetConfidenceHigh(), c.GetConfidenceMed(), c.GetConfidenceLow()
	if !(low <= med && med <= high) {
		return fmt.Errorf("confidence thresholds must satisfy low <= med <= high, got low=%f med=%f high=%f", low, med, high)
	}

	return nil
}

// GetDistanceToleranceFt returns the distance gating tolerance in feet.
func (c *TuningConfig) GetDistanceToleranceFt() float64 {
	if c.DistanceToleranceFt == nil {
		return 3.0
	}
	return *c.DistanceToleranceFt
}

// GetClockToleranceHours returns the clock gating tolerance in hours.
func (c *TuningConfig) GetClockToleranceHours() float64 {
	if c.ClockToleranceHours == nil {
		return 1.0
	}
	return *c.ClockToleranceHours
}

// GetDepthTolerancePct returns the depth tolerance in percentage points.
func (c *TuningConfig) GetDepthTolerancePct() float64 {
	if c.DepthTolerancePct == nil {
		return 15
	}
	return *c.DepthTolerancePct
}

// GetLengthToleranceIn returns the axial-length tolerance in inches.
func (c *TuningConfig) GetLengthToleranceIn() float64 {
	if c.LengthToleranceIn == nil {
		return 3
	}
	return *c.LengthToleranceIn
}

// GetWidthToleranceIn returns the circumferential-width tolerance in inches.
func (c *TuningConfig) GetWidthToleranceIn() float64 {
	if c.WidthToleranceIn == nil {
		return 3
	}
	return *c.WidthToleranceIn
}

// GetWeightDistance returns the distance term's weight in the similarity score.
func (c *TuningConfig) GetWeightDistance() float64 {
	if c.WeightDistance == nil {
		return 0.35
	}
	return *c.WeightDistance
}

// GetWeightClock returns the clock term's weight in the similarity score.
func (c *TuningConfig) GetWeightClock() float64 {
	if c.WeightClock == nil {
		return 0.25
	}
	return *c.WeightClock
}

// GetWeightDepth returns the depth term's weight in the similarity score.
func (c *TuningConfig) GetWeightDepth() float64 {
	if c.WeightDepth == nil {
		return 0.20
	}
	return *c.WeightDepth
}

// GetWeightDims returns the dimensions term's weight in the similarity score.
func (c *TuningConfig) GetWeightDims() float64 {
	if c.WeightDims == nil {
		return 0.10
	}
	return *c.WeightDims
}

// GetWeightType returns the event-type term's weight in the similarity score.
func (c *TuningConfig) GetWeightType() float64 {
	if c.WeightType == nil {
		return 0.10
	}
	return *c.WeightType
}

// GetConfidenceHigh returns the HIGH confidence label's lower bound.
func (c *TuningConfig) GetConfidenceHigh() float64 {
	if c.ConfidenceHigh == nil {
		return 0.85
	}
	return *c.ConfidenceHigh
}

// GetConfidenceMed returns the MEDIUM confidence label's lower bound.
func (c *TuningConfig) GetConfidenceMed() float64 {
	if c.ConfidenceMed == nil {
		return 0.60
	}
	return *c.ConfidenceMed
}

// GetConfidenceLow returns LOW_CONFIDENCE, the solver's minimum-acceptable-
// similarity cost cut: a candidate pair with similarity below this value is
// discarded after assignment. Confidence labelling does not read it; the
// LOW label covers every confidence below GetConfidenceMed, however far below
// this value it falls.
func (c *TuningConfig) GetConfidenceLow() float64 {
	if c.ConfidenceLow == nil {
		return 0.40
	}
	return *c.ConfidenceLow
}

// GetMaxPlausibleGrowthRate returns the growth-rate ceiling (%/yr) used by
// the plausibility term of the confidence score.
func (c *TuningConfig) GetMaxPlausibleGrowthRate() float64 {
	if c.MaxPlausibleGrowthRate == nil {
		return 5.0
	}
	return *c.MaxPlausibleGrowthRate
}

// GetWallLossRepairThreshold returns the wall-loss percentage considered to
// require repair, used by remaining-life and risk scoring.
func (c *TuningConfig) GetWallLossRepairThreshold() float64 {
	if c.WallLossRepairThreshold == nil {
		return 80
	}
	return *c.WallLossRepairThreshold
}

// GetDefaultWallThicknessIn returns the wall thickness assumed when a row's
// own wall thickness is missing, used by the interaction assessment.
func (c *TuningConfig) GetDefaultWallThicknessIn() float64 {
	if c.DefaultWallThicknessIn == nil {
		return 0.3
	}
	return *c.DefaultWallThicknessIn
}

// GetSegmentLengthFt returns the segment-heatmap bin length in feet.
func (c *TuningConfig) GetSegmentLengthFt() float64 {
	if c.SegmentLengthFt == nil {
		return 1000.0
	}
	return *c.SegmentLengthFt
}

// GetDigListMinDepth returns the minimum depth percentage for dig-list inclusion.
func (c *TuningConfig) GetDigListMinDepth() float64 {
	if c.DigListMinDepth == nil {
		return 20
	}
	return *c.DigListMinDepth
}

// GetDigListMinRate returns the minimum growth rate for dig-list inclusion.
func (c *TuningConfig) GetDigListMinRate() float64 {
	if c.DigListMinRate == nil {
		return 0.5
	}
	return *c.DigListMinRate
}

// YearsBetween holds the fixed inspection-interval table keyed by
// (earlier year, later year).
var YearsBetween = map[[2]int]float64{
	{2007, 2015}: 8,
	{2015, 2022}: 7,
	{2007, 2022}: 15,
}
