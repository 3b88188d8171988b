package preprocessing

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/ezoic/scoreprep/core/model"
	prepErrors "github.com/ezoic/scoreprep/pkg/errors"
)

// ImputeStrategy selects the statistic used to fill missing values.
type ImputeStrategy string

const (
	StrategyMean         ImputeStrategy = "mean"
	StrategyMedian       ImputeStrategy = "median"
	StrategyMostFrequent ImputeStrategy = "most_frequent"
	StrategyConstant     ImputeStrategy = "constant"
)

// SimpleImputer fills NaN entries of a numeric matrix with a per-feature
// statistic learned from the training data.
type SimpleImputer struct {
	model.BaseEstimator

	// Strategy is one of mean, median, most_frequent or constant.
	Strategy ImputeStrategy

	// FillValue is used by the constant strategy.
	FillValue float64

	// Statistics holds the learned fill value of each feature.
	Statistics []float64

	// NFeatures is the number of input features
	NFeatures int
}

// NewSimpleImputer creates a numeric imputer.
//
// Parameters:
//   - strategy: mean, median, most_frequent or constant
//
// Example:
//
//	imputer := preprocessing.NewSimpleImputer(preprocessing.StrategyMedian)
//	filled, err := imputer.FitTransform(X) // NaN entries become column medians
func NewSimpleImputer(strategy ImputeStrategy) *SimpleImputer {
	return &SimpleImputer{Strategy: strategy}
}

// Fit learns one fill value per feature, ignoring NaN entries.
//
// Errors:
//   - ErrEmptyData: if X is empty or a feature has no observed values
//   - ErrInvalidValue: if the strategy is unknown
func (im *SimpleImputer) Fit(X mat.Matrix) (err error) {
	defer prepErrors.Recover(&err, "SimpleImputer.Fit")
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return prepErrors.NewModelError("SimpleImputer.Fit", "empty data", prepErrors.ErrEmptyData)
	}

	statistics := make([]float64, c)
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, X)
		observed := observedValues(col)

		if im.Strategy == StrategyConstant {
			statistics[j] = im.FillValue
			continue
		}
		if len(observed) == 0 {
			return prepErrors.NewModelError("SimpleImputer.Fit",
				fmt.Sprintf("feature %d has no observed values", j), prepErrors.ErrEmptyData)
		}

		switch im.Strategy {
		case StrategyMean:
			statistics[j] = stat.Mean(observed, nil)
		case StrategyMedian:
			statistics[j] = median(observed)
		case StrategyMostFrequent:
			statistics[j] = mostFrequentFloat(observed)
		default:
			return prepErrors.NewValueError("SimpleImputer.Fit",
				fmt.Sprintf("unknown strategy %q", im.Strategy))
		}
	}

	im.NFeatures = c
	im.Statistics = statistics
	im.SetFitted()
	return nil
}

// Transform returns a copy of X with NaN entries replaced by the learned
// statistics.
func (im *SimpleImputer) Transform(X mat.Matrix) (_ mat.Matrix, err error) {
	defer prepErrors.Recover(&err, "SimpleImputer.Transform")
	if !im.IsFitted() {
		return nil, prepErrors.NewNotFittedError("SimpleImputer", "Transform")
	}

	r, c := X.Dims()
	if c != im.NFeatures {
		return nil, prepErrors.NewDimensionError("SimpleImputer.Transform", im.NFeatures, c, 1)
	}

	result := mat.DenseCopyOf(X)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if math.IsNaN(result.At(i, j)) {
				result.Set(i, j, im.Statistics[j])
			}
		}
	}
	return result, nil
}

// FitTransform fits the imputer and fills X in one step.
func (im *SimpleImputer) FitTransform(X mat.Matrix) (_ mat.Matrix, err error) {
	defer prepErrors.Recover(&err, "SimpleImputer.FitTransform")
	if err := im.Fit(X); err != nil {
		return nil, err
	}
	return im.Transform(X)
}

// GetParams returns the imputer's hyperparameters.
func (im *SimpleImputer) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"strategy":   string(im.Strategy),
		"fill_value": im.FillValue,
	}
}

func (im *SimpleImputer) String() string {
	return fmt.Sprintf("SimpleImputer(strategy=%s)", im.Strategy)
}

func observedValues(col []float64) []float64 {
	out := make([]float64, 0, len(col))
	for _, v := range col {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// median averages the two middle values for an even count.
func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return floats.Sum(sorted[n/2-1:n/2+1]) / 2
}

// mostFrequentFloat breaks ties towards the smallest value.
func mostFrequentFloat(values []float64) float64 {
	counts := make(map[float64]int, len(values))
	for _, v := range values {
		counts[v]++
	}

	best, bestCount := math.Inf(1), 0
	for v, n := range counts {
		if n > bestCount || (n == bestCount && v < best) {
			best, bestCount = v, n
		}
	}
	return best
}

// CategoricalImputer fills missing entries ("") of string features.
type CategoricalImputer struct {
	model.BaseEstimator

	// Strategy is most_frequent or constant.
	Strategy ImputeStrategy

	// FillValue is used by the constant strategy.
	FillValue string

	// Statistics holds the learned fill value of each feature.
	Statistics []string

	// NFeatures is the number of input features
	NFeatures int
}

// NewCategoricalImputer creates a string imputer.
func NewCategoricalImputer(strategy ImputeStrategy) *CategoricalImputer {
	return &CategoricalImputer{Strategy: strategy}
}

// IsMissingCategory reports whether a categorical cell counts as missing.
func IsMissingCategory(v string) bool {
	return v == ""
}

// Fit learns the fill value of each feature from the non-missing entries.
// Ties in most_frequent resolve to the lexicographically smallest category.
func (im *CategoricalImputer) Fit(data [][]string) (err error) {
	defer prepErrors.Recover(&err, "CategoricalImputer.Fit")
	if len(data) == 0 || len(data[0]) == 0 {
		return prepErrors.NewModelError("CategoricalImputer.Fit", "empty data", prepErrors.ErrEmptyData)
	}

	nFeatures := len(data[0])
	for _, row := range data {
		if len(row) != nFeatures {
			return prepErrors.NewDimensionError("CategoricalImputer.Fit", nFeatures, len(row), 1)
		}
	}

	statistics := make([]string, nFeatures)
	for j := 0; j < nFeatures; j++ {
		switch im.Strategy {
		case StrategyConstant:
			statistics[j] = im.FillValue
		case StrategyMostFrequent:
			counts := make(map[string]int)
			for _, row := range data {
				if !IsMissingCategory(row[j]) {
					counts[row[j]]++
				}
			}
			if len(counts) == 0 {
				return prepErrors.NewModelError("CategoricalImputer.Fit",
					fmt.Sprintf("feature %d has no observed values", j), prepErrors.ErrEmptyData)
			}
			statistics[j] = mostFrequentString(counts)
		default:
			return prepErrors.NewValueError("CategoricalImputer.Fit",
				fmt.Sprintf("unknown strategy %q", im.Strategy))
		}
	}

	im.NFeatures = nFeatures
	im.Statistics = statistics
	im.SetFitted()
	return nil
}

// Transform returns a copy of data with missing entries filled.
func (im *CategoricalImputer) Transform(data [][]string) (_ [][]string, err error) {
	defer prepErrors.Recover(&err, "CategoricalImputer.Transform")
	if !im.IsFitted() {
		return nil, prepErrors.NewNotFittedError("CategoricalImputer", "Transform")
	}

	out := make([][]string, len(data))
	for i, row := range data {
		if len(row) != im.NFeatures {
			return nil, prepErrors.NewDimensionError("CategoricalImputer.Transform", im.NFeatures, len(row), 1)
		}
		filled := make([]string, len(row))
		for j, v := range row {
			if IsMissingCategory(v) {
				v = im.Statistics[j]
			}
			filled[j] = v
		}
		out[i] = filled
	}
	return out, nil
}

// FitTransform fits the imputer and fills data in one step.
func (im *CategoricalImputer) FitTransform(data [][]string) (_ [][]string, err error) {
	defer prepErrors.Recover(&err, "CategoricalImputer.FitTransform")
	if err := im.Fit(data); err != nil {
		return nil, err
	}
	return im.Transform(data)
}

func mostFrequentString(counts map[string]int) string {
	var best string
	bestCount := 0
	for v, n := range counts {
		if n > bestCount || (n == bestCount && v < best) {
			best, bestCount = v, n
		}
	}
	return best
}
