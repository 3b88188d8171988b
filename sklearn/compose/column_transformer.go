// Package compose implements a ColumnTransformer that applies separate
// preprocessing branches to the numeric and categorical columns of a table
// and concatenates their outputs.
package compose

import (
	"fmt"
	"io"
	"time"

	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/scoreprep/core/model"
	"github.com/ezoic/scoreprep/internal/dataset"
	"github.com/ezoic/scoreprep/pkg/errors"
	"github.com/ezoic/scoreprep/pkg/log"
	"github.com/ezoic/scoreprep/preprocessing"
	"github.com/ezoic/scoreprep/sklearn/pipeline"
)

// NumericBranch imputes and scales numeric columns.
type NumericBranch struct {
	Columns  []string
	Pipeline *pipeline.Pipeline
}

// CategoricalBranch imputes, one-hot encodes, then scales categorical
// columns.
type CategoricalBranch struct {
	Columns  []string
	Imputer  *preprocessing.CategoricalImputer
	Encoder  *preprocessing.OneHotEncoder
	Pipeline *pipeline.Pipeline
}

// ColumnTransformer is the fitted preprocessing object persisted for
// inference. Output columns are the numeric block followed by the
// categorical block.
type ColumnTransformer struct {
	model.BaseEstimator

	Numeric     NumericBranch
	Categorical CategoricalBranch

	logger log.Logger
}

// Options selects the strategy of each branch step.
type Options struct {
	NumericImpute     preprocessing.ImputeStrategy
	NumericScaler     model.Transformer // nil means StandardScaler(true, true)
	CategoricalImpute preprocessing.ImputeStrategy
	HandleUnknown     preprocessing.UnknownPolicy
}

// DefaultOptions are median + standard scaling for numbers and
// most-frequent + one-hot + unit-variance scaling for categories.
func DefaultOptions() Options {
	return Options{
		NumericImpute:     preprocessing.StrategyMedian,
		CategoricalImpute: preprocessing.StrategyMostFrequent,
		HandleUnknown:     preprocessing.UnknownIgnore,
	}
}

// New builds an unfitted ColumnTransformer.
//
// Example:
//
//	ct := compose.New(
//		[]string{"writing_score", "reading_score"},
//		[]string{"gender", "race_ethnicity", "parental_level_of_education", "lunch", "test_preparation_course"},
//		compose.DefaultOptions(),
//	)
//	XTrain, err := ct.FitTransform(trainFeatures)
//	XTest, err := ct.Transform(testFeatures)
func New(numeric, categorical []string, opts Options) *ColumnTransformer {
	scaler := opts.NumericScaler
	if scaler == nil {
		scaler = preprocessing.NewStandardScalerDefault()
	}

	encoder := preprocessing.NewOneHotEncoder()
	if opts.HandleUnknown != "" {
		encoder.HandleUnknown = opts.HandleUnknown
	}

	return &ColumnTransformer{
		Numeric: NumericBranch{
			Columns: append([]string(nil), numeric...),
			Pipeline: pipeline.New(
				pipeline.Step{Name: "imputer", Transformer: preprocessing.NewSimpleImputer(opts.NumericImpute)},
				pipeline.Step{Name: "scaler", Transformer: scaler},
			),
		},
		Categorical: CategoricalBranch{
			Columns: append([]string(nil), categorical...),
			Imputer: preprocessing.NewCategoricalImputer(opts.CategoricalImpute),
			Encoder: encoder,
			Pipeline: pipeline.New(
				pipeline.Step{Name: "scaler", Transformer: preprocessing.NewStandardScaler(false, true)},
			),
		},
		logger: log.Nop(),
	}
}

// SetLogger attaches a logger to the transformer and its branch pipelines.
func (ct *ColumnTransformer) SetLogger(logger log.Logger) {
	ct.logger = logger.With(log.ComponentKey, "compose")
	ct.Numeric.Pipeline.SetLogger(ct.logger.With(log.ModelNameKey, "num_pipeline"))
	ct.Categorical.Pipeline.SetLogger(ct.logger.With(log.ModelNameKey, "cat_pipeline"))
}

func (ct *ColumnTransformer) getLogger() log.Logger {
	if ct.logger == nil {
		ct.logger = log.Nop()
	}
	return ct.logger
}

// Columns returns every input column, numeric first.
func (ct *ColumnTransformer) Columns() []string {
	out := append([]string(nil), ct.Numeric.Columns...)
	return append(out, ct.Categorical.Columns...)
}

// Fit learns every branch's statistics from df. Only df is consulted.
func (ct *ColumnTransformer) Fit(df dataframe.DataFrame) error {
	_, err := ct.FitTransform(df)
	return err
}

// FitTransform fits on df and returns its transformed features.
func (ct *ColumnTransformer) FitTransform(df dataframe.DataFrame) (_ *mat.Dense, err error) {
	defer errors.Recover(&err, "ColumnTransformer.FitTransform")
	start := time.Now()
	if len(ct.Columns()) == 0 {
		return nil, errors.NewValueError("ColumnTransformer.FitTransform", "no columns configured")
	}
	if err := dataset.RequireColumns(df, ct.Columns()...); err != nil {
		return nil, err
	}
	if df.Nrow() == 0 {
		return nil, errors.NewModelError("ColumnTransformer", "no rows", errors.ErrEmptyData)
	}

	var blocks []mat.Matrix

	if len(ct.Numeric.Columns) > 0 {
		X, err := numericMatrix(df, ct.Numeric.Columns)
		if err != nil {
			return nil, err
		}
		out, err := ct.Numeric.Pipeline.FitTransform(X)
		if err != nil {
			return nil, errors.Wrap(err, "num_pipeline")
		}
		blocks = append(blocks, out)
	}

	if len(ct.Categorical.Columns) > 0 {
		raw, err := dataset.StringColumns(df, ct.Categorical.Columns)
		if err != nil {
			return nil, err
		}
		filled, err := ct.Categorical.Imputer.FitTransform(raw)
		if err != nil {
			return nil, errors.Wrap(err, "cat_pipeline: imputer")
		}
		encoded, err := ct.Categorical.Encoder.FitTransform(filled)
		if err != nil {
			return nil, errors.Wrap(err, "cat_pipeline: one_hot_encoder")
		}
		out, err := ct.Categorical.Pipeline.FitTransform(encoded)
		if err != nil {
			return nil, errors.Wrap(err, "cat_pipeline")
		}
		blocks = append(blocks, out)
	}

	result := hstack(blocks...)
	ct.SetFitted()

	r, c := result.Dims()
	ct.getLogger().Info("ColumnTransformer fitted",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, r,
		log.FeaturesKey, len(ct.Columns()),
		log.OutputsKey, c,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return result, nil
}

// Transform applies the frozen statistics to df.
func (ct *ColumnTransformer) Transform(df dataframe.DataFrame) (_ *mat.Dense, err error) {
	defer errors.Recover(&err, "ColumnTransformer.Transform")
	if !ct.IsFitted() {
		return nil, errors.NewNotFittedError("ColumnTransformer", "Transform")
	}
	if err := dataset.RequireColumns(df, ct.Columns()...); err != nil {
		return nil, err
	}
	if df.Nrow() == 0 {
		return nil, errors.NewModelError("ColumnTransformer", "no rows", errors.ErrEmptyData)
	}

	var blocks []mat.Matrix

	if len(ct.Numeric.Columns) > 0 {
		X, err := numericMatrix(df, ct.Numeric.Columns)
		if err != nil {
			return nil, err
		}
		out, err := ct.Numeric.Pipeline.Transform(X)
		if err != nil {
			return nil, errors.Wrap(err, "num_pipeline")
		}
		blocks = append(blocks, out)
	}

	if len(ct.Categorical.Columns) > 0 {
		raw, err := dataset.StringColumns(df, ct.Categorical.Columns)
		if err != nil {
			return nil, err
		}
		filled, err := ct.Categorical.Imputer.Transform(raw)
		if err != nil {
			return nil, errors.Wrap(err, "cat_pipeline: imputer")
		}
		encoded, err := ct.Categorical.Encoder.Transform(filled)
		if err != nil {
			return nil, errors.Wrap(err, "cat_pipeline: one_hot_encoder")
		}
		out, err := ct.Categorical.Pipeline.Transform(encoded)
		if err != nil {
			return nil, errors.Wrap(err, "cat_pipeline")
		}
		blocks = append(blocks, out)
	}

	result := hstack(blocks...)
	r, c := result.Dims()
	ct.getLogger().Info("ColumnTransformer applied",
		log.OperationKey, log.OperationTransform,
		log.SamplesKey, r,
		log.OutputsKey, c,
	)
	return result, nil
}

// NOutputs returns the width of the transformed matrix.
func (ct *ColumnTransformer) NOutputs() int {
	if !ct.IsFitted() {
		return 0
	}
	return len(ct.Numeric.Columns) + ct.Categorical.Encoder.NOutputs
}

// FeatureNamesOut names the output columns, e.g. "num__reading_score",
// "cat__lunch_standard".
func (ct *ColumnTransformer) FeatureNamesOut() []string {
	if !ct.IsFitted() {
		return nil
	}
	names := make([]string, 0, ct.NOutputs())
	for _, col := range ct.Numeric.Columns {
		names = append(names, "num__"+col)
	}
	if len(ct.Categorical.Columns) > 0 {
		for _, name := range ct.Categorical.Encoder.GetFeatureNamesOut(ct.Categorical.Columns) {
			names = append(names, "cat__"+name)
		}
	}
	return names
}

// Save writes the fitted transformer to path with encoding/gob.
func (ct *ColumnTransformer) Save(path string) error {
	if !ct.IsFitted() {
		return errors.NewNotFittedError("ColumnTransformer", "Save")
	}
	if err := model.SaveModel(ct, path); err != nil {
		return err
	}
	ct.getLogger().Info("Preprocessor saved", log.OperationKey, log.OperationSave, log.PathKey, path)
	return nil
}

// Load reads a transformer written by Save.
func Load(path string) (*ColumnTransformer, error) {
	ct := &ColumnTransformer{}
	if err := model.LoadModel(ct, path); err != nil {
		return nil, err
	}
	if !ct.IsFitted() {
		return nil, errors.NewValueError("compose.Load", fmt.Sprintf("%s holds an unfitted transformer", path))
	}
	ct.SetLogger(log.Nop())
	return ct, nil
}

// Summary is the JSON-friendly view of the fitted statistics.
type Summary struct {
	NumericColumns     []string   `json:"numeric_columns"`
	NumericImpute      string     `json:"numeric_impute"`
	NumericStatistics  []float64  `json:"numeric_statistics"`
	NumericScaler      string     `json:"numeric_scaler"`
	CategoricalColumns []string   `json:"categorical_columns"`
	CategoricalFill    []string   `json:"categorical_fill"`
	Categories         [][]string `json:"categories"`
	CategoricalScale   []float64  `json:"categorical_scale"`
	FeatureNamesOut    []string   `json:"feature_names_out"`
}

// Summarize returns the fitted statistics.
func (ct *ColumnTransformer) Summarize() (*Summary, error) {
	if !ct.IsFitted() {
		return nil, errors.NewNotFittedError("ColumnTransformer", "Summarize")
	}

	s := &Summary{
		NumericColumns:     ct.Numeric.Columns,
		CategoricalColumns: ct.Categorical.Columns,
		FeatureNamesOut:    ct.FeatureNamesOut(),
	}
	steps := ct.Numeric.Pipeline.NamedSteps()
	if imputer, ok := steps["imputer"].(*preprocessing.SimpleImputer); ok {
		s.NumericImpute = string(imputer.Strategy)
		s.NumericStatistics = imputer.Statistics
	}
	if scaler, ok := steps["scaler"].(fmt.Stringer); ok {
		s.NumericScaler = scaler.String()
	}
	if len(ct.Categorical.Columns) > 0 {
		s.CategoricalFill = ct.Categorical.Imputer.Statistics
		s.Categories = ct.Categorical.Encoder.Categories
		if scaler, ok := ct.Categorical.Pipeline.NamedSteps()["scaler"].(*preprocessing.StandardScaler); ok {
			s.CategoricalScale = scaler.Scale
		}
	}
	return s, nil
}

// ExportJSON writes the fitted statistics under the model export envelope.
func (ct *ColumnTransformer) ExportJSON(w io.Writer) error {
	s, err := ct.Summarize()
	if err != nil {
		return err
	}
	return model.ExportModel("ColumnTransformer", s, w)
}

func numericMatrix(df dataframe.DataFrame, cols []string) (*mat.Dense, error) {
	X := mat.NewDense(df.Nrow(), len(cols), nil)
	for j, col := range cols {
		values, err := dataset.Float64Column(df, col)
		if err != nil {
			return nil, err
		}
		X.SetCol(j, values)
	}
	return X, nil
}

// hstack concatenates matrices with equal row counts side by side.
func hstack(blocks ...mat.Matrix) *mat.Dense {
	rows, cols := 0, 0
	for _, b := range blocks {
		r, c := b.Dims()
		rows = r
		cols += c
	}

	out := mat.NewDense(rows, cols, nil)
	offset := 0
	for _, b := range blocks {
		_, c := b.Dims()
		out.Slice(0, rows, offset, offset+c).(*mat.Dense).Copy(b)
		offset += c
	}
	return out
}
