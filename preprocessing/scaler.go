// Package preprocessing provides the column transforms used to prepare tabular
// data for a regression model.
//
// This package implements scikit-learn compatible preprocessing components:
//
//   - SimpleImputer: fills missing numeric values with a learned statistic
//   - CategoricalImputer: fills missing categories with the most frequent one
//   - OneHotEncoder: encodes categorical features as indicator columns
//   - StandardScaler: removes the mean and scales to unit variance
//   - MinMaxScaler: scales each feature to a given range
//
// All components follow the Fit, Transform and FitTransform pattern. Statistics
// are learned once in Fit and are never modified by Transform, so a transform
// fitted on training data can be applied unchanged to held-out data.
//
// Example usage:
//
//	scaler := preprocessing.NewStandardScaler(true, true)
//	if err := scaler.Fit(XTrain); err != nil {
//		return err
//	}
//	XTestScaled, err := scaler.Transform(XTest)
package preprocessing

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/ezoic/scoreprep/core/model"
	prepErrors "github.com/ezoic/scoreprep/pkg/errors"
)

// scaleEpsilon is the threshold below which a feature is treated as constant.
const scaleEpsilon = 1e-8

// StandardScaler is a scikit-learn compatible standardizer.
// It rescales data to zero mean and unit variance.
type StandardScaler struct {
	model.BaseEstimator

	// Mean is the per-feature mean (kept even when WithMean is false)
	Mean []float64

	// Var is the per-feature population variance
	Var []float64

	// Scale is the per-feature standard deviation
	Scale []float64

	// NFeatures is the number of features
	NFeatures int

	// WithMean subtracts the mean when true
	WithMean bool

	// WithStd divides by the standard deviation when true
	WithStd bool
}

// NewStandardScaler creates a new StandardScaler for feature standardization.
//
// Parameters:
//   - withMean: whether to center the data at zero by removing the mean
//   - withStd: whether to scale the data to unit variance
//
// Returns:
//   - *StandardScaler: A new StandardScaler instance ready for fitting
//
// Example:
//
//	// z-score normalization for numeric features
//	scaler := preprocessing.NewStandardScaler(true, true)
//
//	// Scale only, for one-hot indicator columns
//	scaler := preprocessing.NewStandardScaler(false, true)
func NewStandardScaler(withMean, withStd bool) *StandardScaler {
	return &StandardScaler{
		WithMean: withMean,
		WithStd:  withStd,
	}
}

// NewStandardScalerDefault creates a StandardScaler that centres and scales.
func NewStandardScalerDefault() *StandardScaler {
	return NewStandardScaler(true, true)
}

// Fit computes the feature-wise mean and population standard deviation.
//
// The variance is always measured around the true mean, even when WithMean is
// false; WithMean only controls whether Transform subtracts it. Features whose
// standard deviation is below 1e-8 get a scale of 1.
//
// Parameters:
//   - X: Training data matrix of shape (n_samples, n_features)
//
// Returns:
//   - error: nil if successful, otherwise an error describing the failure
//
// Errors:
//   - ErrEmptyData: if X is empty
//   - ErrInvalidValue: if X contains NaN
func (s *StandardScaler) Fit(X mat.Matrix) (err error) {
	defer prepErrors.Recover(&err, "StandardScaler.Fit")
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return prepErrors.NewModelError("StandardScaler.Fit", "empty data", prepErrors.ErrEmptyData)
	}

	mean := make([]float64, c)
	variance := make([]float64, c)
	scale := make([]float64, c)
	col := make([]float64, r)

	for j := 0; j < c; j++ {
		mat.Col(col, j, X)
		for i, v := range col {
			if math.IsNaN(v) {
				return prepErrors.NewValueError("StandardScaler.Fit",
					fmt.Sprintf("NaN at row %d, feature %d; impute before scaling", i, j))
			}
		}
		mean[j], variance[j] = stat.PopMeanVariance(col, nil)

		scale[j] = 1.0
		if s.WithStd {
			sd := math.Sqrt(variance[j])
			// near-constant feature: leave unscaled
			if sd >= scaleEpsilon {
				scale[j] = sd
			}
		}
	}

	s.NFeatures = c
	s.Mean = mean
	s.Var = variance
	s.Scale = scale
	s.SetFitted()
	return nil
}

// Transform applies X_scaled = (X - mean) / scale using the fitted statistics.
// The mean is only subtracted when WithMean is true.
//
// Errors:
//   - ErrNotFitted: if the scaler hasn't been fitted yet
//   - ErrDimensionMismatch: if X doesn't match the number of features from training
func (s *StandardScaler) Transform(X mat.Matrix) (_ mat.Matrix, err error) {
	defer prepErrors.Recover(&err, "StandardScaler.Transform")
	if !s.IsFitted() {
		return nil, prepErrors.NewNotFittedError("StandardScaler", "Transform")
	}

	r, c := X.Dims()
	if c != s.NFeatures {
		return nil, prepErrors.NewDimensionError("StandardScaler.Transform", s.NFeatures, c, 1)
	}

	result := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			value := X.At(i, j)
			if s.WithMean {
				value -= s.Mean[j]
			}
			result.Set(i, j, value/s.Scale[j])
		}
	}

	return result, nil
}

// FitTransform fits the scaler and transforms the training data in one step.
func (s *StandardScaler) FitTransform(X mat.Matrix) (_ mat.Matrix, err error) {
	defer prepErrors.Recover(&err, "StandardScaler.FitTransform")
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// InverseTransform maps scaled data back to the original scale.
func (s *StandardScaler) InverseTransform(X mat.Matrix) (_ mat.Matrix, err error) {
	defer prepErrors.Recover(&err, "StandardScaler.InverseTransform")
	if !s.IsFitted() {
		return nil, prepErrors.NewNotFittedError("StandardScaler", "InverseTransform")
	}

	r, c := X.Dims()
	if c != s.NFeatures {
		return nil, prepErrors.NewDimensionError("StandardScaler.InverseTransform", s.NFeatures, c, 1)
	}

	result := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			original := X.At(i, j) * s.Scale[j]
			if s.WithMean {
				original += s.Mean[j]
			}
			result.Set(i, j, original)
		}
	}

	return result, nil
}

// GetParams returns the scaler's parameters.
func (s *StandardScaler) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"with_mean": s.WithMean,
		"with_std":  s.WithStd,
	}
}

// String returns a short description of the scaler.
func (s *StandardScaler) String() string {
	if !s.IsFitted() {
		return fmt.Sprintf("StandardScaler(with_mean=%t, with_std=%t)", s.WithMean, s.WithStd)
	}
	return fmt.Sprintf("StandardScaler(with_mean=%t, with_std=%t, n_features=%d)",
		s.WithMean, s.WithStd, s.NFeatures)
}

// MinMaxScaler is a scikit-learn compatible min-max scaler.
// It maps each feature onto FeatureRange ([0, 1] by default).
type MinMaxScaler struct {
	model.BaseEstimator

	// DataMin is the per-feature training minimum
	DataMin []float64

	// DataMax is the per-feature training maximum
	DataMax []float64

	// Scale is the per-feature scale (max - min)
	Scale []float64

	// NFeatures is the number of features
	NFeatures int

	// FeatureRange is the target interval [min, max]
	FeatureRange [2]float64
}

// NewMinMaxScaler creates a new MinMaxScaler that maps each feature to
// featureRange.
//
// Example:
//
//	scaler := preprocessing.NewMinMaxScaler([2]float64{0.0, 1.0})
//	err := scaler.Fit(XTrain)
func NewMinMaxScaler(featureRange [2]float64) *MinMaxScaler {
	return &MinMaxScaler{
		FeatureRange: featureRange,
	}
}

// NewMinMaxScalerDefault creates a MinMaxScaler onto [0, 1].
func NewMinMaxScalerDefault() *MinMaxScaler {
	return NewMinMaxScaler([2]float64{0.0, 1.0})
}

// Fit computes the minimum and maximum of each feature.
func (m *MinMaxScaler) Fit(X mat.Matrix) (err error) {
	defer prepErrors.Recover(&err, "MinMaxScaler.Fit")
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return prepErrors.NewModelError("MinMaxScaler.Fit", "empty data", prepErrors.ErrEmptyData)
	}
	if m.FeatureRange[0] >= m.FeatureRange[1] {
		return prepErrors.NewValueError("MinMaxScaler.Fit",
			fmt.Sprintf("feature range min %g must be below max %g", m.FeatureRange[0], m.FeatureRange[1]))
	}

	m.NFeatures = c
	m.DataMin = make([]float64, c)
	m.DataMax = make([]float64, c)
	m.Scale = make([]float64, c)

	for j := 0; j < c; j++ {
		lo := X.At(0, j)
		hi := lo
		for i := 1; i < r; i++ {
			lo = math.Min(lo, X.At(i, j))
			hi = math.Max(hi, X.At(i, j))
		}

		m.DataMin[j] = lo
		m.DataMax[j] = hi

		// constant feature: scale 1
		m.Scale[j] = hi - lo
		if math.Abs(m.Scale[j]) < scaleEpsilon {
			m.Scale[j] = 1.0
		}
	}

	m.SetFitted()
	return nil
}

// Transform scales input data to the fitted feature range.
func (m *MinMaxScaler) Transform(X mat.Matrix) (_ mat.Matrix, err error) {
	defer prepErrors.Recover(&err, "MinMaxScaler.Transform")
	if !m.IsFitted() {
		return nil, prepErrors.NewNotFittedError("MinMaxScaler", "Transform")
	}

	r, c := X.Dims()
	if c != m.NFeatures {
		return nil, prepErrors.NewDimensionError("MinMaxScaler.Transform", m.NFeatures, c, 1)
	}

	result := mat.NewDense(r, c, nil)
	featureRange := m.FeatureRange[1] - m.FeatureRange[0]
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			scaled := (X.At(i, j)-m.DataMin[j])/m.Scale[j]*featureRange + m.FeatureRange[0]
			result.Set(i, j, scaled)
		}
	}

	return result, nil
}

// FitTransform fits the scaler and transforms the training data in one step.
func (m *MinMaxScaler) FitTransform(X mat.Matrix) (_ mat.Matrix, err error) {
	defer prepErrors.Recover(&err, "MinMaxScaler.FitTransform")
	if err := m.Fit(X); err != nil {
		return nil, err
	}
	return m.Transform(X)
}

// InverseTransform reverses the min-max scaling.
func (m *MinMaxScaler) InverseTransform(X mat.Matrix) (_ mat.Matrix, err error) {
	defer prepErrors.Recover(&err, "MinMaxScaler.InverseTransform")
	if !m.IsFitted() {
		return nil, prepErrors.NewNotFittedError("MinMaxScaler", "InverseTransform")
	}

	r, c := X.Dims()
	if c != m.NFeatures {
		return nil, prepErrors.NewDimensionError("MinMaxScaler.InverseTransform", m.NFeatures, c, 1)
	}

	result := mat.NewDense(r, c, nil)
	featureRange := m.FeatureRange[1] - m.FeatureRange[0]
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			original := ((X.At(i, j)-m.FeatureRange[0])/featureRange)*m.Scale[j] + m.DataMin[j]
			result.Set(i, j, original)
		}
	}

	return result, nil
}

// GetParams returns the scaler's parameters.
func (m *MinMaxScaler) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"feature_range": m.FeatureRange,
	}
}

// String returns a short description of the scaler.
func (m *MinMaxScaler) String() string {
	if !m.IsFitted() {
		return fmt.Sprintf("MinMaxScaler(feature_range=[%.1f, %.1f])",
			m.FeatureRange[0], m.FeatureRange[1])
	}
	return fmt.Sprintf("MinMaxScaler(feature_range=[%.1f, %.1f], n_features=%d)",
		m.FeatureRange[0], m.FeatureRange[1], m.NFeatures)
}
