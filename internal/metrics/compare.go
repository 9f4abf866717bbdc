// internal/metrics/compare.go
package metrics

import (
	"fmt"

	"tlmbench/internal/golden"
	"tlmbench/internal/util"
)

// Observed captures the aggregated measurements of a completed run.
type Observed struct {
	AvgWPS       float64  `json:"avg_wps"`
	StdDevWPS    float64  `json:"std_dev_wps"`
	PeakMemUsage []uint64 `json:"peak_mem_usage"`
}

// Thresholds configure how far observed numbers may drift from the goldens.
type Thresholds struct {
	// WPSStdDevs is how many golden standard deviations the observed mean
	// words/sec may fall below the golden mean.
	WPSStdDevs float64
	// MemTolerance is the allowed fractional growth of each per-step peak
	// memory value over its golden counterpart.
	MemTolerance float64
}

// DefaultThresholds returns the thresholds used when none are configured.
func DefaultThresholds() Thresholds {
	return Thresholds{WPSStdDevs: 3, MemTolerance: 0.10}
}

// Check is a single pass/fail verdict within a comparison.
type Check struct {
	Name     string `json:"name"`
	Observed string `json:"observed"`
	Limit    string `json:"limit"`
	Pass     bool   `json:"pass"`
}

// Comparison is the full verdict of an observed run against the goldens.
type Comparison struct {
	Checks []Check `json:"checks"`
	Pass   bool    `json:"pass"`
}

// Compare checks observed run statistics against golden reference values.
func Compare(obs Observed, gold golden.Stats, th Thresholds) Comparison {
	cmp := Comparison{Pass: true}
	add := func(c Check) {
		cmp.Checks = append(cmp.Checks, c)
		if !c.Pass {
			cmp.Pass = false
		}
	}

	wpsFloor := gold.AvgWPS - th.WPSStdDevs*gold.StdDevWPS
	add(Check{
		Name:     "mean words/sec",
		Observed: fmt.Sprintf("%.3f", obs.AvgWPS),
		Limit:    fmt.Sprintf(">= %.3f (golden %.3f - %.1fσ)", wpsFloor, gold.AvgWPS, th.WPSStdDevs),
		Pass:     obs.AvgWPS >= wpsFloor,
	})

	if len(obs.PeakMemUsage) != len(gold.PeakMemUsage) {
		add(Check{
			Name:     "peak memory steps",
			Observed: fmt.Sprintf("%d steps", len(obs.PeakMemUsage)),
			Limit:    fmt.Sprintf("%d steps recorded in goldens", len(gold.PeakMemUsage)),
			Pass:     false,
		})
	}
	steps := len(obs.PeakMemUsage)
	if len(gold.PeakMemUsage) < steps {
		steps = len(gold.PeakMemUsage)
	}
	for i := 0; i < steps; i++ {
		ceiling := uint64(float64(gold.PeakMemUsage[i]) * (1 + th.MemTolerance))
		add(Check{
			Name:     fmt.Sprintf("peak memory step %d", i+1),
			Observed: util.FormatBytes(obs.PeakMemUsage[i]),
			Limit:    fmt.Sprintf("<= %s (golden +%.0f%%)", util.FormatBytes(ceiling), th.MemTolerance*100),
			Pass:     obs.PeakMemUsage[i] <= ceiling,
		})
	}

	return cmp
}
