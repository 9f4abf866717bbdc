// internal/benchmark/types.go
package benchmark

import (
	"time"

	"tlmbench/internal/appconfig"
	"tlmbench/internal/metrics"
)

// StepStats holds the measurements for a single benchmark step.
type StepStats struct {
	Epoch         int           `json:"epoch"`
	Step          int           `json:"step"`
	Duration      time.Duration `json:"duration_ns"`
	WordsPerSec   float64       `json:"words_per_second"`
	Loss          float64       `json:"loss"`
	PeakHeapBytes uint64        `json:"peak_heap_bytes"`
}

// Aggregates summarizes words/sec across all steps of a run.
type Aggregates struct {
	AvgWPS    float64 `json:"avg_wps"`
	StdDevWPS float64 `json:"std_dev_wps"`
	MinWPS    float64 `json:"min_wps"`
	MaxWPS    float64 `json:"max_wps"`
}

// RunResult is the persisted record of a benchmark run.
type RunResult struct {
	RunID             string           `json:"run_id"`
	Timestamp         time.Time        `json:"timestamp_utc"`
	ConfigFingerprint string           `json:"config_fingerprint"`
	Config            appconfig.Config `json:"config"`
	Hardware          HardwareInfo     `json:"hardware"`
	Steps             []StepStats      `json:"steps"`
	Aggregates        Aggregates       `json:"aggregates"`
	PeakMemUsage      []uint64         `json:"peak_mem_usage"`
}

// Observed converts a run record into the shape the golden comparison
// consumes.
func (r *RunResult) Observed() metrics.Observed {
	return metrics.Observed{
		AvgWPS:       r.Aggregates.AvgWPS,
		StdDevWPS:    r.Aggregates.StdDevWPS,
		PeakMemUsage: r.PeakMemUsage,
	}
}
