// Command corrosight-batch runs the full CorroSight pipeline over a JSON
// run file and writes the resulting bundle as JSON.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/Akhila-Susarla/CorroSight/internal/config"
	"github.com/Akhila-Susarla/CorroSight/internal/jsonsafe"
	"github.com/Akhila-Susarla/CorroSight/internal/model"
	"github.com/Akhila-Susarla/CorroSight/internal/pipeline"
)

func main() {
	var inputPath string
	var outputPath string
	var tuningPath string
	var targetYear int

	flag.StringVar(&inputPath, "input", "", "path to a JSON file of ILI runs (required)")
	flag.StringVar(&outputPath, "output", "", "path to write the result bundle JSON (default: stdout)")
	flag.StringVar(&tuningPath, "tuning", "", "path to a tuning config JSON override (default: built-in defaults)")
	flag.IntVar(&targetYear, "predict-to", 0, "run virtual-ILI extrapolation to this year (0 disables)")
	flag.Parse()

	if inputPath == "" {
		log.Fatalf("-input is required")
	}

	runs, err := loadRuns(inputPath)
	if err != nil {
		log.Fatalf("load runs: %v", err)
	}

	cfg := config.DefaultTuning()
	if tuningPath != "" {
		cfg, err = config.LoadTuningConfig(tuningPath)
		if err != nil {
			log.Fatalf("load tuning config: %v", err)
		}
	}

	bundle, err := pipeline.Run(runs, cfg, pipeline.Options{PredictTargetYear: targetYear})
	if err != nil {
		log.Fatalf("pipeline run: %v", err)
	}

	out, err := json.MarshalIndent(jsonsafe.Sanitize(bundle), "", "  ")
	if err != nil {
		log.Fatalf("marshal bundle: %v", err)
	}

	if outputPath == "" {
		fmt.Println(string(out))
		return
	}
	if err := os.WriteFile(outputPath, out, 0o644); err != nil {
		log.Fatalf("write output: %v", err)
	}
	fmt.Printf("wrote %s\n", outputPath)
}

// inputRun and inputRow mirror the wire format for a single year's ILI log:
// plain JSON with null for any missing measurement, converted on load into
// the NaN-sentinel representation the analysis packages expect.
type inputRun struct {
	Year int        `json:"year"`
	Rows []inputRow `json:"rows"`
}

type inputRow struct {
	JointNumber     *int     `json:"joint_number"`
	DistanceFt      *float64 `json:"distance_ft"`
	ElevationFt     *float64 `json:"elevation_ft"`
	EventType       string   `json:"event_type"`
	DepthPct        *float64 `json:"depth_pct"`
	DepthIn         *float64 `json:"depth_in"`
	AxialLengthIn   *float64 `json:"axial_length_in"`
	CircWidthIn     *float64 `json:"circ_width_in"`
	ClockHours      *float64 `json:"clock_hours"`
	IDOD            string   `json:"id_od"`
	WallThicknessIn *float64 `json:"wall_thickness_in"`
	Comments        string   `json:"comments"`
}

func loadRuns(path string) (map[int]model.Run, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var parsed []inputRun
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	runs := make(map[int]model.Run, len(parsed))
	for _, ir := range parsed {
		rows := make([]model.FeatureRow, len(ir.Rows))
		for i, r := range ir.Rows {
			row := model.FeatureRow{
				JointNumber:     r.JointNumber,
				DistanceFt:      orNaN(r.DistanceFt),
				ElevationFt:     orNaN(r.ElevationFt),
				EventType:       r.EventType,
				DepthPct:        orNaN(r.DepthPct),
				DepthIn:         orNaN(r.DepthIn),
				AxialLengthIn:   orNaN(r.AxialLengthIn),
				CircWidthIn:     orNaN(r.CircWidthIn),
				ClockHours:      orNaN(r.ClockHours),
				WallThicknessIn: orNaN(r.WallThicknessIn),
				Comments:        r.Comments,
				SourceRowIdx:    i,
			}
			// IsAnomaly/IsGirthWeld and IDOD are derived from the closed
			// event-type vocabulary rather than trusted from the source file.
			rows[i] = model.DeriveFlags(row, r.IDOD)
		}
		runs[ir.Year] = model.Run{Year: ir.Year, Rows: rows}
	}
	return runs, nil
}

func orNaN(f *float64) float64 {
	if f == nil {
		return model.NaN()
	}
	return *f
}
