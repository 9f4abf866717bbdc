package benchmark

import (
	"math"
	"math/rand"
	"strings"
	"testing"

	"tlmbench/internal/appconfig"
)

func testConfig() appconfig.Config {
	cfg := appconfig.Default()
	cfg.VocabSize = 64
	cfg.EmbedDim = 8
	cfg.FFHidden = 16
	cfg.NumHeads = 2
	cfg.NumLayers = 1
	cfg.BatchSize = 2
	cfg.SeqLen = 4
	return cfg
}

func TestRunProducesExpectedSteps(t *testing.T) {
	cfg := testConfig()
	result, err := Run(cfg, Options{StepsPerEpoch: 2, Seed: 1})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(result.Steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(result.Steps))
	}
	if len(result.PeakMemUsage) != 2 {
		t.Errorf("expected 2 peak memory samples, got %d", len(result.PeakMemUsage))
	}
	if result.RunID == "" {
		t.Error("expected a run ID")
	}
	if result.ConfigFingerprint != Fingerprint(cfg) {
		t.Error("result fingerprint does not match its config")
	}
	if result.Hardware.NumCPU <= 0 || result.Hardware.GoVersion == "" {
		t.Errorf("hardware info not populated: %+v", result.Hardware)
	}

	for _, step := range result.Steps {
		if step.WordsPerSec <= 0 {
			t.Errorf("step %d: non-positive words/sec %v", step.Step, step.WordsPerSec)
		}
		if step.Loss <= 0 || math.IsNaN(step.Loss) {
			t.Errorf("step %d: implausible loss %v", step.Step, step.Loss)
		}
		if step.Duration <= 0 {
			t.Errorf("step %d: non-positive duration %v", step.Step, step.Duration)
		}
	}
}

func TestRunDefaultStepCountMatchesGoldens(t *testing.T) {
	result, err := Run(testConfig(), Options{Seed: 1})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(result.Steps) != defaultStepsPerEpoch {
		t.Errorf("expected %d default steps, got %d", defaultStepsPerEpoch, len(result.Steps))
	}
}

func TestRunAggregates(t *testing.T) {
	result, err := Run(testConfig(), Options{StepsPerEpoch: 3, Seed: 2})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	agg := result.Aggregates
	if agg.MinWPS > agg.AvgWPS || agg.AvgWPS > agg.MaxWPS {
		t.Errorf("aggregates out of order: %+v", agg)
	}
	if agg.StdDevWPS < 0 {
		t.Errorf("negative stddev: %v", agg.StdDevWPS)
	}

	obs := result.Observed()
	if obs.AvgWPS != agg.AvgWPS || len(obs.PeakMemUsage) != 3 {
		t.Errorf("Observed() does not mirror the run: %+v", obs)
	}
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.NumHeads = 3 // does not divide EmbedDim
	if _, err := Run(cfg, Options{Seed: 1}); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestSyntheticBatchShapes(t *testing.T) {
	cfg := testConfig()
	rng := rand.New(rand.NewSource(7))
	inputs, targets := syntheticBatch(rng, cfg)

	if len(inputs) != cfg.BatchSize || len(targets) != cfg.BatchSize {
		t.Fatalf("expected %d sequences, got %d/%d", cfg.BatchSize, len(inputs), len(targets))
	}
	for b := range inputs {
		if len(inputs[b]) != cfg.SeqLen || len(targets[b]) != cfg.SeqLen {
			t.Fatalf("sequence %d has lengths %d/%d, want %d", b, len(inputs[b]), len(targets[b]), cfg.SeqLen)
		}
		// Next-token objective: targets are inputs shifted left by one.
		for i := 1; i < cfg.SeqLen; i++ {
			if targets[b][i-1] != inputs[b][i] {
				t.Fatalf("sequence %d: target[%d]=%d, want input[%d]=%d",
					b, i-1, targets[b][i-1], i, inputs[b][i])
			}
		}
		for _, id := range inputs[b] {
			if id < 0 || id >= cfg.VocabSize {
				t.Fatalf("token %d out of vocabulary", id)
			}
		}
	}
}

func TestFingerprintStability(t *testing.T) {
	cfg := testConfig()
	a := Fingerprint(cfg)
	if len(a) != 16 {
		t.Fatalf("expected 16 hex chars, got %q", a)
	}

	// Operational fields must not affect the fingerprint.
	cfg.Debug = true
	cfg.LogFile = "elsewhere.log"
	cfg.OutputDir = "elsewhere"
	cfg.ConfigPath = "some/path.json"
	if b := Fingerprint(cfg); b != a {
		t.Errorf("operational fields changed fingerprint: %q vs %q", a, b)
	}

	cfg.VocabSize++
	if c := Fingerprint(cfg); c == a {
		t.Error("hyperparameter change did not change fingerprint")
	}
}

func TestWriteAndReadResult(t *testing.T) {
	result, err := Run(testConfig(), Options{StepsPerEpoch: 2, Seed: 3})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	dir := t.TempDir()
	path, err := WriteResult(result, dir)
	if err != nil {
		t.Fatalf("WriteResult failed: %v", err)
	}
	if !strings.HasSuffix(path, ".json") {
		t.Errorf("expected .json result file, got %q", path)
	}

	loaded, err := ReadResult(path)
	if err != nil {
		t.Fatalf("ReadResult failed: %v", err)
	}
	if loaded.RunID != result.RunID {
		t.Errorf("run ID mismatch: %q vs %q", loaded.RunID, result.RunID)
	}
	if loaded.ConfigFingerprint != result.ConfigFingerprint {
		t.Error("fingerprint not round-tripped")
	}
	if len(loaded.Steps) != len(result.Steps) {
		t.Errorf("step count mismatch: %d vs %d", len(loaded.Steps), len(result.Steps))
	}
}

func TestReadResultErrors(t *testing.T) {
	if _, err := ReadResult("does-not-exist.json"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"2024-01-02T15-04-05Z": "2024-01-02t15-04-05z",
		"Hello World":          "hello-world",
		"a:b:c":                "a_b_c",
		"--weird--input--":     "weird-input",
	}
	for input, want := range cases {
		if got := Slugify(input); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestDetectHardware(t *testing.T) {
	hw := DetectHardware()
	if hw.OS == "" || hw.Arch == "" || hw.NumCPU <= 0 || hw.GoVersion == "" {
		t.Errorf("incomplete hardware info: %+v", hw)
	}
}
