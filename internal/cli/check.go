// internal/cli/check.go
package tlmbench

import (
	"fmt"

	"github.com/spf13/cobra"

	"tlmbench/internal/benchmark"
	"tlmbench/internal/golden"
	"tlmbench/internal/metrics"
)

var (
	checkWPSSigma float64
	checkMemTol   float64
)

// checkCmd compares a saved run record against the golden statistics.
var checkCmd = &cobra.Command{
	Use:   "check <results.json>",
	Short: "Check a saved run record against the golden statistics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := benchmark.ReadResult(args[0])
		if err != nil {
			return err
		}

		goldenFingerprint := benchmark.Fingerprint(golden.Config())
		if result.ConfigFingerprint != "" && result.ConfigFingerprint != goldenFingerprint {
			fmt.Printf("note: run config fingerprint %s differs from golden config %s\n",
				result.ConfigFingerprint, goldenFingerprint)
		}

		th := metrics.Thresholds{WPSStdDevs: checkWPSSigma, MemTolerance: checkMemTol}
		cmp := metrics.Compare(result.Observed(), golden.RealStats(), th)
		fmt.Print(metrics.Render(cmp))
		if !cmp.Pass {
			return fmt.Errorf("benchmark regression: run %s fell outside golden thresholds", result.RunID)
		}
		return nil
	},
}

func init() {
	defaults := metrics.DefaultThresholds()
	checkCmd.Flags().Float64Var(&checkWPSSigma, "wps-sigma", defaults.WPSStdDevs, "allowed stddevs below golden mean words/sec")
	checkCmd.Flags().Float64Var(&checkMemTol, "mem-tolerance", defaults.MemTolerance, "allowed fractional peak-memory growth over golden")
	rootCmd.AddCommand(checkCmd)
}
