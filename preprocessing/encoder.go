package preprocessing

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/scoreprep/core/model"
	prepErrors "github.com/ezoic/scoreprep/pkg/errors"
)

// UnknownPolicy decides what Transform does with a category unseen in Fit.
type UnknownPolicy string

const (
	// UnknownIgnore encodes an unseen category as an all-zero block.
	UnknownIgnore UnknownPolicy = "ignore"
	// UnknownError fails Transform on an unseen category.
	UnknownError UnknownPolicy = "error"
)

// OneHotEncoder is a scikit-learn compatible one-hot encoder.
// It turns categorical string data into 0/1 indicator columns.
type OneHotEncoder struct {
	model.BaseEstimator

	// HandleUnknown controls unseen categories (ignore / error)
	HandleUnknown UnknownPolicy

	// Categories holds the sorted vocabulary of each feature
	Categories [][]string

	// CategoryToIdx maps each feature's categories to column offsets
	CategoryToIdx []map[string]int

	// NFeatures is the number of input features
	NFeatures int

	// NOutputs is the number of output columns (sum of all vocabularies)
	NOutputs int
}

// NewOneHotEncoder creates an encoder that ignores unknown categories.
//
// Example:
//
//	encoder := preprocessing.NewOneHotEncoder()
//	err := encoder.Fit(trainCategories)
//	encoded, err := encoder.Transform(testCategories)
func NewOneHotEncoder() *OneHotEncoder {
	return &OneHotEncoder{HandleUnknown: UnknownIgnore}
}

// Fit learns the sorted vocabulary of every feature.
//
// Parameters:
//   - data: training rows (n_samples x n_features strings)
func (e *OneHotEncoder) Fit(data [][]string) (err error) {
	defer prepErrors.Recover(&err, "OneHotEncoder.Fit")
	if len(data) == 0 {
		return prepErrors.NewModelError("OneHotEncoder.Fit", "empty data", prepErrors.ErrEmptyData)
	}
	if len(data[0]) == 0 {
		return prepErrors.NewModelError("OneHotEncoder.Fit", "empty features", prepErrors.ErrEmptyData)
	}
	if e.HandleUnknown != UnknownIgnore && e.HandleUnknown != UnknownError {
		return prepErrors.NewValueError("OneHotEncoder.Fit",
			fmt.Sprintf("unknown handle_unknown policy %q", e.HandleUnknown))
	}

	nFeatures := len(data[0])

	// every row must have the same width
	for _, row := range data {
		if len(row) != nFeatures {
			return prepErrors.NewDimensionError("OneHotEncoder.Fit", nFeatures, len(row), 1)
		}
	}

	categories := make([][]string, nFeatures)
	categoryToIdx := make([]map[string]int, nFeatures)
	nOutputs := 0

	for j := 0; j < nFeatures; j++ {
		categorySet := make(map[string]struct{})
		for _, row := range data {
			categorySet[row[j]] = struct{}{}
		}

		cats := make([]string, 0, len(categorySet))
		for category := range categorySet {
			cats = append(cats, category)
		}
		sort.Strings(cats)

		index := make(map[string]int, len(cats))
		for idx, category := range cats {
			index[category] = idx
		}

		categories[j] = cats
		categoryToIdx[j] = index
		nOutputs += len(cats)
	}

	e.NFeatures = nFeatures
	e.Categories = categories
	e.CategoryToIdx = categoryToIdx
	e.NOutputs = nOutputs
	e.SetFitted()
	return nil
}

// Transform one-hot encodes data with the learned vocabularies.
//
// Errors:
//   - ErrNotFitted: if the encoder hasn't been fitted yet
//   - ErrDimensionMismatch: if a row's width differs from training
//   - ErrInvalidValue: on an unseen category when HandleUnknown is "error"
func (e *OneHotEncoder) Transform(data [][]string) (_ mat.Matrix, err error) {
	defer prepErrors.Recover(&err, "OneHotEncoder.Transform")
	if !e.IsFitted() {
		return nil, prepErrors.NewNotFittedError("OneHotEncoder", "Transform")
	}

	if len(data) == 0 {
		return &mat.Dense{}, nil
	}

	result := mat.NewDense(len(data), e.NOutputs, nil)
	for i, row := range data {
		if len(row) != e.NFeatures {
			return nil, prepErrors.NewDimensionError("OneHotEncoder.Transform", e.NFeatures, len(row), 1)
		}

		outputIdx := 0
		for j, category := range row {
			if idx, exists := e.CategoryToIdx[j][category]; exists {
				result.Set(i, outputIdx+idx, 1.0)
			} else if e.HandleUnknown == UnknownError {
				return nil, prepErrors.NewValueError("OneHotEncoder.Transform",
					fmt.Sprintf("unknown category %q in feature %d at row %d", category, j, i))
			}
			outputIdx += len(e.Categories[j])
		}
	}

	return result, nil
}

// FitTransform fits on data and encodes the same rows.
func (e *OneHotEncoder) FitTransform(data [][]string) (_ mat.Matrix, err error) {
	defer prepErrors.Recover(&err, "OneHotEncoder.FitTransform")
	if err := e.Fit(data); err != nil {
		return nil, err
	}
	return e.Transform(data)
}

// GetFeatureNamesOut returns the output column names.
//
// Example:
//   - input features ["gender", "lunch"]
//   - output: ["gender_female", "gender_male", "lunch_free/reduced", "lunch_standard"]
func (e *OneHotEncoder) GetFeatureNamesOut(inputFeatures []string) []string {
	if !e.IsFitted() {
		return nil
	}

	outputFeatures := make([]string, 0, e.NOutputs)
	for i, categories := range e.Categories {
		inputFeatureName := fmt.Sprintf("x%d", i)
		if i < len(inputFeatures) {
			inputFeatureName = inputFeatures[i]
		}
		for _, category := range categories {
			outputFeatures = append(outputFeatures, inputFeatureName+"_"+category)
		}
	}
	return outputFeatures
}
