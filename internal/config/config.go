// Package config holds the paths, column lists and split parameters of a
// pipeline run.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ezoic/scoreprep/pkg/errors"
	"github.com/ezoic/scoreprep/preprocessing"
)

// Config defines the structure for all pipeline configuration.
type Config struct {
	SourcePath       string     `yaml:"source_path"`
	ArtifactDir      string     `yaml:"artifact_dir"`
	RawPath          string     `yaml:"raw_path"`
	TrainPath        string     `yaml:"train_path"`
	TestPath         string     `yaml:"test_path"`
	PreprocessorPath string     `yaml:"preprocessor_path"`
	ReportPath       string     `yaml:"report_path"` // empty disables the report
	LogDir           string     `yaml:"log_dir"`
	LogLevel         string     `yaml:"log_level"`
	Schema           Schema     `yaml:"schema"`
	Split            SplitConf  `yaml:"split"`
	Preprocess       Preprocess `yaml:"preprocess"`
}

// Schema names the target and feature columns of the dataset.
type Schema struct {
	Target      string   `yaml:"target"`
	Numeric     []string `yaml:"numeric"`
	Categorical []string `yaml:"categorical"`
}

// SplitConf holds the train/test split parameters.
type SplitConf struct {
	TestSize float64 `yaml:"test_size"`
	Seed     int64   `yaml:"seed"`
}

// Preprocess selects the strategies of each transformer branch.
//
// HandleUnknown defaults to "ignore": categories first seen in the test
// partition encode as all zeros. scikit-learn's OneHotEncoder defaults to
// "error" instead; set handle_unknown: error to get that behaviour.
type Preprocess struct {
	NumericImpute     preprocessing.ImputeStrategy `yaml:"numeric_impute"`
	NumericScaler     ScalerKind                   `yaml:"numeric_scaler"`
	CategoricalImpute preprocessing.ImputeStrategy `yaml:"categorical_impute"`
	HandleUnknown     preprocessing.UnknownPolicy  `yaml:"handle_unknown"`
}

// ScalerKind selects the numeric scaler.
type ScalerKind string

const (
	ScalerStandard ScalerKind = "standard"
	ScalerMinMax   ScalerKind = "minmax"
)

// Default returns the configuration of the student-performance dataset.
func Default() *Config {
	artifacts := "artifacts"
	return &Config{
		SourcePath:       filepath.Join("Notebook", "Data", "stud.csv"),
		ArtifactDir:      artifacts,
		RawPath:          filepath.Join(artifacts, "data.csv"),
		TrainPath:        filepath.Join(artifacts, "train.csv"),
		TestPath:         filepath.Join(artifacts, "test.csv"),
		PreprocessorPath: filepath.Join(artifacts, "preprocessor.gob"),
		LogDir:           "logs",
		LogLevel:         "info",
		Schema: Schema{
			Target:  "math_score",
			Numeric: []string{"writing_score", "reading_score"},
			Categorical: []string{
				"gender",
				"race_ethnicity",
				"parental_level_of_education",
				"lunch",
				"test_preparation_course",
			},
		},
		Split: SplitConf{
			TestSize: 0.2,
			Seed:     76,
		},
		Preprocess: Preprocess{
			NumericImpute:     preprocessing.StrategyMedian,
			NumericScaler:     ScalerStandard,
			CategoricalImpute: preprocessing.StrategyMostFrequent,
			HandleUnknown:     preprocessing.UnknownIgnore,
		},
	}
}

// Load reads a YAML file over the defaults. Keys absent from the file keep
// their default values.
func Load(path string) (*Config, error) {
	cfg := Default()

	file, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config %s", path)
	}
	if err := yaml.Unmarshal(file, cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Features returns the numeric then categorical feature columns.
func (s Schema) Features() []string {
	out := make([]string, 0, len(s.Numeric)+len(s.Categorical))
	out = append(out, s.Numeric...)
	return append(out, s.Categorical...)
}

// Required returns every column the transformation reads.
func (s Schema) Required() []string {
	return append([]string{s.Target}, s.Features()...)
}

// Validate checks the configuration for values no stage could work with.
func (c *Config) Validate() error {
	paths := map[string]string{
		"source_path":       c.SourcePath,
		"artifact_dir":      c.ArtifactDir,
		"raw_path":          c.RawPath,
		"train_path":        c.TrainPath,
		"test_path":         c.TestPath,
		"preprocessor_path": c.PreprocessorPath,
		"log_dir":           c.LogDir,
	}
	for name, p := range paths {
		if p == "" {
			return errors.NewValueError("Config.Validate", name+" must not be empty")
		}
	}

	if c.Schema.Target == "" {
		return errors.NewValueError("Config.Validate", "schema.target must not be empty")
	}
	if len(c.Schema.Features()) == 0 {
		return errors.NewValueError("Config.Validate", "schema needs at least one feature column")
	}
	seen := map[string]bool{c.Schema.Target: true}
	for _, col := range c.Schema.Features() {
		if seen[col] {
			return errors.NewValueError("Config.Validate",
				fmt.Sprintf("column %q is listed more than once (target included)", col))
		}
		seen[col] = true
	}

	if c.Split.TestSize <= 0 || c.Split.TestSize >= 1 {
		return errors.NewValueError("Config.Validate",
			fmt.Sprintf("split.test_size must be in (0, 1), got %g", c.Split.TestSize))
	}

	switch c.Preprocess.NumericImpute {
	case preprocessing.StrategyMean, preprocessing.StrategyMedian, preprocessing.StrategyMostFrequent:
	default:
		return errors.NewValueError("Config.Validate",
			fmt.Sprintf("unsupported numeric_impute %q", c.Preprocess.NumericImpute))
	}
	switch c.Preprocess.NumericScaler {
	case ScalerStandard, ScalerMinMax:
	default:
		return errors.NewValueError("Config.Validate",
			fmt.Sprintf("unsupported numeric_scaler %q", c.Preprocess.NumericScaler))
	}
	if c.Preprocess.CategoricalImpute != preprocessing.StrategyMostFrequent {
		return errors.NewValueError("Config.Validate",
			fmt.Sprintf("unsupported categorical_impute %q", c.Preprocess.CategoricalImpute))
	}
	switch c.Preprocess.HandleUnknown {
	case preprocessing.UnknownIgnore, preprocessing.UnknownError:
	default:
		return errors.NewValueError("Config.Validate",
			fmt.Sprintf("unsupported handle_unknown %q", c.Preprocess.HandleUnknown))
	}

	return nil
}

// WithArtifactDir returns a copy whose artifact paths live under dir.
func (c *Config) WithArtifactDir(dir string) *Config {
	out := *c
	out.ArtifactDir = dir
	out.RawPath = filepath.Join(dir, filepath.Base(c.RawPath))
	out.TrainPath = filepath.Join(dir, filepath.Base(c.TrainPath))
	out.TestPath = filepath.Join(dir, filepath.Base(c.TestPath))
	out.PreprocessorPath = filepath.Join(dir, filepath.Base(c.PreprocessorPath))
	if c.ReportPath != "" {
		out.ReportPath = filepath.Join(dir, filepath.Base(c.ReportPath))
	}
	return &out
}
