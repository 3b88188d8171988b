// Package transformation fits the preprocessing ColumnTransformer on the
// training partition and turns both partitions into numeric arrays.
package transformation

import (
	"fmt"
	"math"
	"time"

	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/scoreprep/internal/config"
	"github.com/ezoic/scoreprep/internal/dataset"
	"github.com/ezoic/scoreprep/pkg/errors"
	"github.com/ezoic/scoreprep/pkg/log"
	"github.com/ezoic/scoreprep/preprocessing"
	"github.com/ezoic/scoreprep/sklearn/compose"
)

// Result holds the transformed partitions. The target is the last column of
// Train and Test.
type Result struct {
	Train            *mat.Dense
	Test             *mat.Dense
	FeatureNames     []string
	PreprocessorPath string
}

// Transformer runs the transformation stage.
type Transformer struct {
	cfg    *config.Config
	logger log.Logger
}

// New creates a Transformer. A nil logger discards output.
func New(cfg *config.Config, logger log.Logger) *Transformer {
	if logger == nil {
		logger = log.Nop()
	}
	return &Transformer{
		cfg:    cfg,
		logger: logger.With(log.PhaseKey, log.PhaseTransformation),
	}
}

// Preprocessor builds the unfitted ColumnTransformer described by the
// configuration.
func (t *Transformer) Preprocessor() *compose.ColumnTransformer {
	p := t.cfg.Preprocess
	opts := compose.Options{
		NumericImpute:     p.NumericImpute,
		CategoricalImpute: p.CategoricalImpute,
		HandleUnknown:     p.HandleUnknown,
	}
	if p.NumericScaler == config.ScalerMinMax {
		opts.NumericScaler = preprocessing.NewMinMaxScalerDefault()
	}

	ct := compose.New(t.cfg.Schema.Numeric, t.cfg.Schema.Categorical, opts)
	ct.SetLogger(t.logger)
	t.logger.Info("Preprocessor built",
		"columns.numeric", t.cfg.Schema.Numeric,
		"columns.categorical", t.cfg.Schema.Categorical,
	)
	return ct
}

// Run transforms the partitions at trainPath and testPath and saves the
// fitted preprocessor. Statistics come from the training partition only.
func (t *Transformer) Run(trainPath, testPath string) (*Result, error) {
	start := time.Now()
	t.logger.Info("Entered the data transformation stage")

	train, yTrain, err := t.load(trainPath)
	if err != nil {
		return nil, t.fail(trainPath, err)
	}
	test, yTest, err := t.load(testPath)
	if err != nil {
		return nil, t.fail(testPath, err)
	}
	t.logger.Info("Read train and test data completed",
		"train.samples", train.Nrow(),
		"test.samples", test.Nrow(),
	)

	ct := t.Preprocessor()

	XTrain, err := ct.FitTransform(train)
	if err != nil {
		return nil, t.fail(trainPath, err)
	}
	XTest, err := ct.Transform(test)
	if err != nil {
		return nil, t.fail(testPath, err)
	}

	if err := ct.Save(t.cfg.PreprocessorPath); err != nil {
		return nil, t.fail(t.cfg.PreprocessorPath, err)
	}

	res := &Result{
		Train:            appendTarget(XTrain, yTrain),
		Test:             appendTarget(XTest, yTest),
		FeatureNames:     append(ct.FeatureNamesOut(), t.cfg.Schema.Target),
		PreprocessorPath: t.cfg.PreprocessorPath,
	}

	r, c := res.Train.Dims()
	rt, _ := res.Test.Dims()
	t.logger.Info("Data transformation completed",
		log.OperationKey, log.OperationTransform,
		"train.samples", r,
		"test.samples", rt,
		log.OutputsKey, c,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return res, nil
}

// load reads a partition, checks its columns and extracts the target.
func (t *Transformer) load(path string) (dataframe.DataFrame, []float64, error) {
	df, err := dataset.ReadCSV(path)
	if err != nil {
		return dataframe.DataFrame{}, nil, err
	}
	if err := dataset.RequireColumns(df, t.cfg.Schema.Required()...); err != nil {
		return dataframe.DataFrame{}, nil, err
	}

	target := t.cfg.Schema.Target
	y, err := dataset.Float64Column(df, target)
	if err != nil {
		return dataframe.DataFrame{}, nil, err
	}
	for i, v := range y {
		if math.IsNaN(v) {
			return dataframe.DataFrame{}, nil, errors.NewCellError(target, i, "missing target value")
		}
	}

	features := df.Select(t.cfg.Schema.Features())
	if features.Err != nil {
		return dataframe.DataFrame{}, nil, errors.Wrap(features.Err, "failed to select feature columns")
	}
	return features, y, nil
}

func (t *Transformer) fail(path string, cause error) error {
	err := errors.NewTransformationError(path, cause)
	t.logger.Error("Data transformation failed",
		log.StageKey, errors.StageTransformation,
		log.PathKey, path,
		log.ErrorKey, fmt.Sprintf("%v", err),
	)
	return err
}

func appendTarget(X *mat.Dense, y []float64) *mat.Dense {
	r, c := X.Dims()
	out := mat.NewDense(r, c+1, nil)
	out.Slice(0, r, 0, c).(*mat.Dense).Copy(X)
	out.SetCol(c, y)
	return out
}
