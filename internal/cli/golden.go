// internal/cli/golden.go
package tlmbench

import (
	"errors"
	"fmt"

	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"

	"tlmbench/internal/golden"
	"tlmbench/internal/util"
)

var goldenSynthetic bool

// goldenCmd prints the golden configuration and statistics.
var goldenCmd = &cobra.Command{
	Use:   "golden",
	Short: "Show the golden benchmark configuration and statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		if goldenSynthetic {
			_, err := golden.SyntheticStats()
			if errors.Is(err, golden.ErrNoGolden) {
				fmt.Println("No golden statistics recorded for synthetic data runs.")
				return nil
			}
			return err
		}

		stats := golden.RealStats()
		cfg := golden.Config()

		if DebugEnabled() {
			pp.Println(cfg)
			pp.Println(stats)
			return nil
		}

		fmt.Println("Golden benchmark configuration:")
		fmt.Printf("  Epochs:          %d\n", cfg.Epochs)
		fmt.Printf("  Vocab Size:      %d\n", cfg.VocabSize)
		fmt.Printf("  Embed Dim:       %d\n", cfg.EmbedDim)
		fmt.Printf("  FF Hidden:       %d\n", cfg.FFHidden)
		fmt.Printf("  Heads:           %d\n", cfg.NumHeads)
		fmt.Printf("  Layers:          %d\n", cfg.NumLayers)
		fmt.Printf("  Dropout:         %v\n", cfg.Dropout)
		fmt.Printf("  Init Range:      %v\n", cfg.InitRange)
		fmt.Printf("  Criterion:       %s\n", cfg.Criterion)
		fmt.Printf("  Learning Rate:   %v\n", cfg.LearningRate)
		fmt.Printf("  Grad Scaler:     %v\n", cfg.GradScaler)
		fmt.Printf("  Clip Value:      %v\n", cfg.ClipValue)
		fmt.Printf("  Batch Size:      %d\n", cfg.BatchSize)
		fmt.Printf("  Seq Len:         %d\n", cfg.SeqLen)

		fmt.Println("\nGolden statistics (real data):")
		fmt.Printf("  Mean:            %s\n", util.FormatRate(stats.AvgWPS))
		fmt.Printf("  Std Dev:         %.3f\n", stats.StdDevWPS)
		for i, mem := range stats.PeakMemUsage {
			fmt.Printf("  Peak Mem Step %d: %d (%s)\n", i+1, mem, util.FormatBytes(mem))
		}
		return nil
	},
}

func init() {
	goldenCmd.Flags().BoolVar(&goldenSynthetic, "synthetic", false, "show golden statistics for synthetic data runs")
	rootCmd.AddCommand(goldenCmd)
}
