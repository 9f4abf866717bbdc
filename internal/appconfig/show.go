package appconfig

import (
	"fmt"
	"io"
)

// ShowConfig prints the merged configuration summary.
func ShowConfig(out io.Writer, cfg *Config) {
	if cfg == nil {
		fmt.Fprintln(out, "No configuration loaded.")
		return
	}
	if cfg.ConfigPath == "" {
		fmt.Fprintln(out, "No config file loaded (using defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", cfg.ConfigPath)
	}

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintf(out, "  Epochs:          %d\n", cfg.Epochs)
	fmt.Fprintf(out, "  Vocab Size:      %d\n", cfg.VocabSize)
	fmt.Fprintf(out, "  Embed Dim:       %d\n", cfg.EmbedDim)
	fmt.Fprintf(out, "  FF Hidden:       %d\n", cfg.FFHidden)
	fmt.Fprintf(out, "  Heads:           %d\n", cfg.NumHeads)
	fmt.Fprintf(out, "  Layers:          %d\n", cfg.NumLayers)
	fmt.Fprintf(out, "  Dropout:         %v\n", cfg.Dropout)
	fmt.Fprintf(out, "  Init Range:      %v\n", cfg.InitRange)
	fmt.Fprintf(out, "  Criterion:       %s\n", cfg.Criterion)
	fmt.Fprintf(out, "  Learning Rate:   %v\n", cfg.LearningRate)
	fmt.Fprintf(out, "  Grad Scaler:     %v\n", cfg.GradScaler)
	fmt.Fprintf(out, "  Clip Value:      %v\n", cfg.ClipValue)
	fmt.Fprintf(out, "  Batch Size:      %d\n", cfg.BatchSize)
	fmt.Fprintf(out, "  Seq Len:         %d\n", cfg.SeqLen)
	fmt.Fprintf(out, "  Debug:           %v\n", cfg.Debug)
	fmt.Fprintf(out, "  Output Dir:      %s\n", cfg.OutputDirPath())
	fmt.Fprintf(out, "  Log File:        %s\n", cfg.LogFilePath())
}
