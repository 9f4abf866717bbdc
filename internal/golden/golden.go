// internal/golden/golden.go
// Package golden holds the hard-coded reference performance statistics the
// regression check compares observed runs against. The numbers were
// recorded against the configuration returned by Config(); they are data,
// not targets to tune.
package golden

import (
	"errors"

	"tlmbench/internal/appconfig"
)

// ErrNoGolden indicates no golden statistics have been recorded for the
// requested data mode.
var ErrNoGolden = errors.New("golden: no recorded statistics")

// Stats are the reference performance numbers for a benchmark run.
type Stats struct {
	AvgWPS       float64  `json:"avg_wps"`
	StdDevWPS    float64  `json:"std_dev_wps"`
	PeakMemUsage []uint64 `json:"peak_mem_usage"` // per-step peak heap bytes
}

// Config returns the benchmark configuration the golden statistics were
// recorded against.
func Config() appconfig.Config {
	return appconfig.Default()
}

// RealStats returns the golden numbers for runs over real-data-shaped
// batches.
func RealStats() Stats {
	return Stats{
		AvgWPS:    703.778,
		StdDevWPS: 5.732,
		PeakMemUsage: []uint64{
			2320996352,
			1396742144,
			1396742144,
			2340010496,
		},
	}
}

// SyntheticStats returns the golden numbers for synthetic-data runs. None
// have been recorded, so it always fails with ErrNoGolden.
func SyntheticStats() (Stats, error) {
	return Stats{}, ErrNoGolden
}
