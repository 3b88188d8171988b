package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezoic/scoreprep/internal/config"
	prepErrors "github.com/ezoic/scoreprep/pkg/errors"
	"github.com/ezoic/scoreprep/preprocessing"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 0.2, cfg.Split.TestSize)
	assert.Equal(t, int64(76), cfg.Split.Seed)
	assert.Equal(t, "math_score", cfg.Schema.Target)
	assert.Len(t, cfg.Schema.Numeric, 2)
	assert.Len(t, cfg.Schema.Categorical, 5)
	assert.Equal(t, filepath.Join("artifacts", "train.csv"), cfg.TrainPath)
	assert.Len(t, cfg.Schema.Required(), 8)
	assert.Equal(t, "math_score", cfg.Schema.Required()[0])
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prepare.yaml")
	body := `
source_path: data/other.csv
log_level: debug
split:
  seed: 7
preprocess:
  numeric_scaler: minmax
  handle_unknown: error
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "data/other.csv", cfg.SourcePath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, int64(7), cfg.Split.Seed)
	assert.Equal(t, 0.2, cfg.Split.TestSize)
	assert.Equal(t, config.ScalerMinMax, cfg.Preprocess.NumericScaler)
	assert.Equal(t, preprocessing.UnknownError, cfg.Preprocess.HandleUnknown)
	assert.Equal(t, preprocessing.StrategyMedian, cfg.Preprocess.NumericImpute)
	assert.Equal(t, config.Default().Schema, cfg.Schema)
}

func TestLoadErrors(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("split: [1, 2"), 0o644))
	_, err = config.Load(bad)
	assert.Error(t, err)

	invalid := filepath.Join(t.TempDir(), "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("split:\n  test_size: 1.5\n"), 0o644))
	_, err = config.Load(invalid)
	assert.True(t, errors.Is(err, prepErrors.ErrInvalidValue))
}

func TestValidateRejects(t *testing.T) {
	cases := map[string]func(c *config.Config){
		"empty source":         func(c *config.Config) { c.SourcePath = "" },
		"empty target":         func(c *config.Config) { c.Schema.Target = "" },
		"target as feature":    func(c *config.Config) { c.Schema.Numeric = append(c.Schema.Numeric, "math_score") },
		"duplicate feature":    func(c *config.Config) { c.Schema.Categorical = append(c.Schema.Categorical, "lunch") },
		"no features":          func(c *config.Config) { c.Schema.Numeric, c.Schema.Categorical = nil, nil },
		"zero test size":       func(c *config.Config) { c.Split.TestSize = 0 },
		"constant numeric":     func(c *config.Config) { c.Preprocess.NumericImpute = preprocessing.StrategyConstant },
		"unknown scaler":       func(c *config.Config) { c.Preprocess.NumericScaler = "robust" },
		"median categorical":   func(c *config.Config) { c.Preprocess.CategoricalImpute = preprocessing.StrategyMedian },
		"unknown policy":       func(c *config.Config) { c.Preprocess.HandleUnknown = "drop" },
		"empty preprocessor":   func(c *config.Config) { c.PreprocessorPath = "" },
		"empty artifact dir":   func(c *config.Config) { c.ArtifactDir = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := config.Default()
			mutate(cfg)
			err := cfg.Validate()
			assert.True(t, errors.Is(err, prepErrors.ErrInvalidValue), "got %v", err)
		})
	}
}

func TestWithArtifactDir(t *testing.T) {
	cfg := config.Default()
	cfg.ReportPath = filepath.Join("artifacts", "features.png")

	moved := cfg.WithArtifactDir("/tmp/run")

	assert.Equal(t, filepath.Join("/tmp/run", "train.csv"), moved.TrainPath)
	assert.Equal(t, filepath.Join("/tmp/run", "preprocessor.gob"), moved.PreprocessorPath)
	assert.Equal(t, filepath.Join("/tmp/run", "features.png"), moved.ReportPath)
	assert.Equal(t, filepath.Join("artifacts", "train.csv"), cfg.TrainPath, "original untouched")
}

func TestValidateNamesEmptyArtifactDir(t *testing.T) {
	cfg := config.Default()
	cfg.ArtifactDir = ""

	err := cfg.Validate()
	var valErr *prepErrors.ValueError
	require.True(t, errors.As(err, &valErr))
	assert.Contains(t, valErr.Message, "artifact_dir")
}
