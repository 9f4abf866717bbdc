// internal/benchmark/benchmark.go
// Package benchmark runs the transformer LM throughput benchmark: timed
// forward+criterion steps over synthetic token batches, per-step peak
// memory sampling, and JSON run records for later golden comparison.
package benchmark

import (
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"

	"tlmbench/internal/appconfig"
	"tlmbench/internal/metrics"
	"tlmbench/internal/model"
	"tlmbench/internal/nn"
	"tlmbench/internal/util"
)

// defaultStepsPerEpoch matches the number of per-step peak memory entries
// the golden statistics were recorded with.
const defaultStepsPerEpoch = 4

// Options tune a single benchmark run without touching the reference
// hyperparameters.
type Options struct {
	StepsPerEpoch int   // timed steps per epoch (default 4)
	Seed          int64 // seed for synthetic batches (0 means time-based)
	Progress      bool  // render a progress bar
}

// Run executes the benchmark described by cfg and returns the run record.
func Run(cfg appconfig.Config, opts Options) (*RunResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	stepsPerEpoch := opts.StepsPerEpoch
	if stepsPerEpoch <= 0 {
		stepsPerEpoch = defaultStepsPerEpoch
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	criterion, err := nn.NewCriterion(cfg.Criterion)
	if err != nil {
		return nil, err
	}
	var scaler *nn.GradScaler
	if cfg.GradScaler {
		scaler = nn.NewGradScaler()
	}

	log.Printf("Building model: vocab=%d ninp=%d nhid=%d nhead=%d layers=%d",
		cfg.VocabSize, cfg.EmbedDim, cfg.FFHidden, cfg.NumHeads, cfg.NumLayers)
	lm := model.New(cfg)
	lm.SetTraining(false)

	totalSteps := cfg.Epochs * stepsPerEpoch
	var bar *progressbar.ProgressBar
	if opts.Progress {
		bar = progressbar.NewOptions(totalSteps,
			progressbar.OptionSetDescription("Benchmarking"),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
		)
	}

	result := &RunResult{
		RunID:             uuid.NewString(),
		Timestamp:         time.Now().UTC(),
		ConfigFingerprint: Fingerprint(cfg),
		Config:            cfg,
		Hardware:          DetectHardware(),
	}

	var wpsStat metrics.RunningStat
	wordsPerStep := cfg.WordsPerStep()

	for epoch := 1; epoch <= cfg.Epochs; epoch++ {
		for step := 1; step <= stepsPerEpoch; step++ {
			inputs, targets := syntheticBatch(rng, cfg)

			start := time.Now()
			stepLoss := 0.0
			for b := 0; b < cfg.BatchSize; b++ {
				logits := lm.Forward(inputs[b])
				stepLoss += criterion.Loss(logits, targets[b])
			}
			elapsed := time.Since(start)

			stepLoss /= float64(cfg.BatchSize)
			if scaler != nil {
				// Exercise the scaler the way the reference config wires it:
				// scale the reported loss and advance the scale schedule.
				scaled := scaler.Scale(stepLoss)
				scaler.Update(scaled)
				stepLoss = scaler.Unscale(scaled)
			}

			wps := float64(wordsPerStep) / elapsed.Seconds()
			wpsStat.Update(wps)

			// Collect before sampling so readings reflect live heap, not
			// garbage from the step that just finished.
			runtime.GC()
			var mem runtime.MemStats
			runtime.ReadMemStats(&mem)

			result.Steps = append(result.Steps, StepStats{
				Epoch:         epoch,
				Step:          step,
				Duration:      elapsed,
				WordsPerSec:   wps,
				Loss:          stepLoss,
				PeakHeapBytes: mem.HeapAlloc,
			})
			result.PeakMemUsage = append(result.PeakMemUsage, mem.HeapAlloc)

			log.Printf("epoch %d step %d: %.2f words/sec, loss %.4f, peak heap %d bytes",
				epoch, step, wps, stepLoss, mem.HeapAlloc)
			if bar != nil {
				_ = bar.Add(1)
			}
		}
	}

	result.Aggregates = Aggregates{
		AvgWPS:    wpsStat.Mean,
		StdDevWPS: wpsStat.StdDev(),
		MinWPS:    wpsStat.Min,
		MaxWPS:    wpsStat.Max,
	}
	return result, nil
}

// syntheticBatch draws a batch of random token sequences. Targets are the
// inputs shifted left by one, next-token style.
func syntheticBatch(rng *rand.Rand, cfg appconfig.Config) (inputs, targets [][]int) {
	inputs = make([][]int, cfg.BatchSize)
	targets = make([][]int, cfg.BatchSize)
	for b := 0; b < cfg.BatchSize; b++ {
		seq := make([]int, cfg.SeqLen+1)
		for i := range seq {
			seq[i] = rng.Intn(cfg.VocabSize)
		}
		inputs[b] = seq[:cfg.SeqLen]
		targets[b] = seq[1:]
	}
	return inputs, targets
}

// Fingerprint hashes the hyperparameter fields of a config so run records
// can be matched to the configuration that produced them.
func Fingerprint(cfg appconfig.Config) string {
	// Strip operational fields; only hyperparameters identify a run shape.
	cfg.Debug = false
	cfg.LogFile = ""
	cfg.OutputDir = ""
	cfg.ConfigPath = ""
	data, err := json.Marshal(cfg)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}

// WriteResult persists a run record under <outputDir>/runs.
func WriteResult(result *RunResult, outputDir string) (string, error) {
	dir := filepath.Join(outputDir, "runs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating results directory: %w", err)
	}
	fileName := filepath.Join(dir, fmt.Sprintf("%s-%s.json",
		Slugify(result.Timestamp.Format("2006-01-02T15-04-05Z")), result.RunID))

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("error encoding result: %w", err)
	}
	if err := util.WriteFile(fileName, data); err != nil {
		return "", fmt.Errorf("error writing result to file: %w", err)
	}

	log.Printf("Benchmark result written to %s", fileName)
	return fileName, nil
}

// ReadResult loads a previously written run record.
func ReadResult(path string) (*RunResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading result file: %w", err)
	}
	var result RunResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("error parsing result file %q: %w", path, err)
	}
	return &result, nil
}

// Slugify converts a string into a "slug" format, including replacing
// colons (:) with underscores (_).
func Slugify(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, ":", "_")
	re := regexp.MustCompile(`[^a-z0-9_]+`)
	s = re.ReplaceAllString(s, "-")
	s = regexp.MustCompile(`-+`).ReplaceAllString(s, "-")
	s = strings.Trim(s, "-_")

	return s
}
