// internal/cli/run.go
package tlmbench

import (
	"log"

	"github.com/spf13/cobra"

	"tlmbench/internal/benchmark"
	"tlmbench/internal/metrics"
)

var (
	runSteps    int
	runSeed     int64
	runCheck    bool
	runWPSSigma float64
	runMemTol   float64
)

// runCmd executes the benchmark and writes a run record.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the transformer LM benchmark",
	Long:  `Run the configured transformer language-model benchmark: timed forward passes over synthetic batches, words-per-second and per-step peak memory recording, and a JSON run record. With --check the run is also compared against the golden statistics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if cfg == nil {
			log.Println("config is nil")
			return nil
		}
		opts := benchmark.Options{
			StepsPerEpoch: runSteps,
			Seed:          runSeed,
			Progress:      !cfg.Debug,
		}
		th := metrics.Thresholds{WPSStdDevs: runWPSSigma, MemTolerance: runMemTol}
		_, err := benchmark.RunAndRecord(*cfg, opts, runCheck, th)
		return err
	},
}

func init() {
	defaults := metrics.DefaultThresholds()
	runCmd.Flags().IntVar(&runSteps, "steps", 0, "timed steps per epoch (default matches golden step count)")
	runCmd.Flags().Int64Var(&runSeed, "seed", 0, "seed for synthetic batches (0 = time-based)")
	runCmd.Flags().BoolVar(&runCheck, "check", false, "compare the run against golden statistics")
	runCmd.Flags().Float64Var(&runWPSSigma, "wps-sigma", defaults.WPSStdDevs, "allowed stddevs below golden mean words/sec")
	runCmd.Flags().Float64Var(&runMemTol, "mem-tolerance", defaults.MemTolerance, "allowed fractional peak-memory growth over golden")
	rootCmd.AddCommand(runCmd)
}
