package pipeline_test

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/scoreprep/core/model"
	prepErrors "github.com/ezoic/scoreprep/pkg/errors"
	"github.com/ezoic/scoreprep/preprocessing"
	"github.com/ezoic/scoreprep/sklearn/pipeline"
)

func numericPipeline() *pipeline.Pipeline {
	return pipeline.New(
		pipeline.Step{Name: "imputer", Transformer: preprocessing.NewSimpleImputer(preprocessing.StrategyMedian)},
		pipeline.Step{Name: "scaler", Transformer: preprocessing.NewStandardScalerDefault()},
	)
}

func TestPipeline_FitTransformChainsSteps(t *testing.T) {
	X := mat.NewDense(4, 1, []float64{1, math.NaN(), 3, 5})

	p := numericPipeline()
	out, err := p.FitTransform(X)
	require.NoError(t, err)
	assert.True(t, p.IsFitted())

	imputer := p.NamedSteps()["imputer"].(*preprocessing.SimpleImputer)
	scaler := p.NamedSteps()["scaler"].(*preprocessing.StandardScaler)
	assert.Equal(t, []float64{3}, imputer.Statistics)
	// scaler sees the imputed column [1,3,3,5]
	assert.InDelta(t, 3.0, scaler.Mean[0], 1e-12)
	assert.InDelta(t, 0.0, out.At(1, 0), 1e-12)
}

func TestPipeline_TransformUsesFrozenStatistics(t *testing.T) {
	p := numericPipeline()
	require.NoError(t, p.Fit(mat.NewDense(3, 1, []float64{1, 2, 3})))

	out, err := p.Transform(mat.NewDense(2, 1, []float64{math.NaN(), 2}))
	require.NoError(t, err)
	assert.InDelta(t, 0.0, out.At(0, 0), 1e-12)
	assert.InDelta(t, 0.0, out.At(1, 0), 1e-12)
}

func TestPipeline_InverseTransform(t *testing.T) {
	p := pipeline.Make(preprocessing.NewStandardScalerDefault(), preprocessing.NewMinMaxScalerDefault())
	X := mat.NewDense(3, 1, []float64{10, 20, 40})

	out, err := p.FitTransform(X)
	require.NoError(t, err)

	back, err := p.InverseTransform(out)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		assert.InDelta(t, X.At(i, 0), back.At(i, 0), 1e-9)
	}

	// the imputer cannot be inverted
	_, err = numericPipeline().InverseTransform(X)
	require.Error(t, err)
}

func TestPipeline_Errors(t *testing.T) {
	_, err := numericPipeline().Transform(mat.NewDense(1, 1, nil))
	assert.True(t, errors.Is(err, prepErrors.ErrNotFitted))

	var validation *prepErrors.ValidationError
	assert.True(t, errors.As(pipeline.New().Fit(mat.NewDense(1, 1, nil)), &validation))

	dup := pipeline.New(
		pipeline.Step{Name: "s", Transformer: preprocessing.NewStandardScalerDefault()},
		pipeline.Step{Name: "s", Transformer: preprocessing.NewStandardScalerDefault()},
	)
	assert.True(t, errors.As(dup.Fit(mat.NewDense(1, 1, []float64{1})), &validation))

	_, err = numericPipeline().FitTransform(mat.NewDense(2, 1, []float64{math.NaN(), math.NaN()}))
	assert.True(t, errors.Is(err, prepErrors.ErrEmptyData))
	assert.Contains(t, err.Error(), "failed to fit step 'imputer'")
}

func TestPipeline_GetParams(t *testing.T) {
	params := numericPipeline().GetParams()
	assert.Equal(t, "median", params["imputer__strategy"])
	assert.Equal(t, true, params["scaler__with_mean"])
}

func TestPipeline_GobRoundTrip(t *testing.T) {
	p := numericPipeline()
	require.NoError(t, p.Fit(mat.NewDense(3, 2, []float64{1, 10, 2, math.NaN(), 4, 30})))

	var buf bytes.Buffer
	require.NoError(t, model.SaveModelToWriter(p, &buf))

	var loaded pipeline.Pipeline
	require.NoError(t, model.LoadModelFromReader(&loaded, &buf))
	require.True(t, loaded.IsFitted())

	sample := mat.NewDense(2, 2, []float64{math.NaN(), 15, 3, math.NaN()})
	want, err := p.Transform(sample)
	require.NoError(t, err)
	got, err := loaded.Transform(sample)
	require.NoError(t, err)
	assert.True(t, mat.Equal(want, got))
}
