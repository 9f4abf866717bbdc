// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting the benchmark
// configuration. Default() carries the reference GPT-2 benchmark
// hyperparameters and Load merges a JSON file over them.
package appconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"tlmbench/internal/nn"
)

// DefaultConfigPath is the default path to the benchmark configuration file.
const DefaultConfigPath = "config/config.json"

// Config holds the benchmark hyperparameters. All values are read-only
// reference constants once loaded; the runner never mutates them.
type Config struct {
	Epochs       int     `json:"epochs"`
	VocabSize    int     `json:"vocab_size"`
	EmbedDim     int     `json:"ninp"`       // embedding dimension
	FFHidden     int     `json:"nhid"`       // feed-forward hidden dimension
	NumHeads     int     `json:"nhead"`      // attention heads
	NumLayers    int     `json:"num_layers"` // decoder block count
	Dropout      float64 `json:"dropout"`
	InitRange    float64 `json:"initrange"`
	Criterion    string  `json:"criterion"`
	LearningRate float64 `json:"lr"`
	GradScaler   bool    `json:"grad_scaler"`
	ClipValue    float64 `json:"clip_value"`
	BatchSize    int     `json:"batch_size"`
	SeqLen       int     `json:"seq_len"`

	Debug      bool   `json:"debug"`
	LogFile    string `json:"logFile,omitempty"`
	OutputDir  string `json:"outputDir,omitempty"`
	ConfigPath string `json:"-"`
}

// Default returns the reference benchmark configuration. These are the
// values the golden statistics were recorded against.
func Default() Config {
	return Config{
		Epochs:       1,
		VocabSize:    10000,
		EmbedDim:     2048,
		FFHidden:     2048,
		NumHeads:     32,
		NumLayers:    10,
		Dropout:      0,
		InitRange:    0.1,
		Criterion:    nn.CriterionCrossEntropy,
		LearningRate: 0.001,
		GradScaler:   true,
		ClipValue:    0.05,
		BatchSize:    8,
		SeqLen:       32,
	}
}

// OutputDirPath returns the directory run results are written under.
func (c Config) OutputDirPath() string {
	if c.OutputDir != "" {
		return c.OutputDir
	}
	return "tlmbenchData"
}

// LogFilePath returns the path to the application log file, applying a
// default if not set.
func (c Config) LogFilePath() string {
	if c.LogFile != "" {
		return c.LogFile
	}
	return "tlmbench.log"
}

// WordsPerStep is the number of words a single step processes.
func (c Config) WordsPerStep() int {
	return c.BatchSize * c.SeqLen
}

// Validate enforces the structural invariants the model constructor relies
// on.
func (c Config) Validate() error {
	switch {
	case c.Epochs <= 0:
		return errors.New("config: epochs must be positive")
	case c.VocabSize <= 0:
		return errors.New("config: vocab_size must be positive")
	case c.EmbedDim <= 0 || c.FFHidden <= 0:
		return errors.New("config: ninp and nhid must be positive")
	case c.NumHeads <= 0 || c.EmbedDim%c.NumHeads != 0:
		return fmt.Errorf("config: ninp (%d) must be divisible by nhead (%d)", c.EmbedDim, c.NumHeads)
	case c.NumLayers <= 0:
		return errors.New("config: num_layers must be positive")
	case c.Dropout < 0 || c.Dropout >= 1:
		return fmt.Errorf("config: dropout %v out of [0,1)", c.Dropout)
	case c.InitRange <= 0:
		return errors.New("config: initrange must be positive")
	case c.BatchSize <= 0 || c.SeqLen <= 0:
		return errors.New("config: batch_size and seq_len must be positive")
	}
	if _, err := nn.NewCriterion(c.Criterion); err != nil {
		return err
	}
	return nil
}

// Load reads the benchmark configuration from path, merging the file's
// values over Default(). A missing file at the default path is not an
// error; the defaults stand.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	config := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && path == DefaultConfigPath {
			return config, nil
		}
		return Config{}, fmt.Errorf("could not read config file %q: %w", path, err)
	}

	if err := ValidateSchema(data); err != nil {
		return Config{}, fmt.Errorf("config file %q: %w", path, err)
	}
	if err := json.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("could not parse config file %q: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	config.ConfigPath = path
	return config, nil
}
