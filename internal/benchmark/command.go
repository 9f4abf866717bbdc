// internal/benchmark/command.go
package benchmark

import (
	"fmt"

	"tlmbench/internal/appconfig"
	"tlmbench/internal/golden"
	"tlmbench/internal/logging"
	"tlmbench/internal/metrics"
)

// RunAndRecord is the CLI entry point: run the benchmark, persist the
// record, and optionally check it against the goldens.
func RunAndRecord(cfg appconfig.Config, opts Options, check bool, th metrics.Thresholds) (*RunResult, error) {
	logging.LogEvent("starting benchmark: config fingerprint %s", Fingerprint(cfg))
	result, err := Run(cfg, opts)
	if err != nil {
		return nil, err
	}
	if _, err := WriteResult(result, cfg.OutputDirPath()); err != nil {
		return nil, err
	}

	logging.LogRun("complete", result.RunID, result.Aggregates)

	if !check {
		return result, nil
	}
	cmp := metrics.Compare(result.Observed(), golden.RealStats(), th)
	fmt.Print(metrics.Render(cmp))
	if !cmp.Pass {
		return result, fmt.Errorf("benchmark regression: run %s fell outside golden thresholds", result.RunID)
	}
	return result, nil
}
