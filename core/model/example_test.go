package model_test

import (
	"fmt"

	"github.com/ezoic/scoreprep/core/model"
)

// ExampleBaseEstimator demonstrates BaseEstimator state management
func ExampleBaseEstimator() {
	estimator := &model.BaseEstimator{}

	fmt.Printf("Initially fitted: %t\n", estimator.IsFitted())

	estimator.SetFitted()
	fmt.Printf("After SetFitted: %t\n", estimator.IsFitted())

	estimator.Reset()
	fmt.Printf("After Reset: %t\n", estimator.IsFitted())

	// Output: Initially fitted: false
	// After SetFitted: true
	// After Reset: false
}
