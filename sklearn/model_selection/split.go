// Package model_selection splits datasets into train and test partitions.
package model_selection

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/ezoic/scoreprep/pkg/errors"
)

// SplitSizes returns the partition sizes for n samples. The test side is
// rounded up, matching sklearn.model_selection.train_test_split.
func SplitSizes(n int, testSize float64) (nTrain, nTest int, err error) {
	if n <= 0 {
		return 0, 0, errors.NewModelError("SplitSizes", "no samples", errors.ErrEmptyData)
	}
	if testSize <= 0 || testSize >= 1 {
		return 0, 0, errors.NewValueError("SplitSizes",
			fmt.Sprintf("test size must be in (0, 1), got %g", testSize))
	}

	nTest = int(math.Ceil(testSize * float64(n)))
	nTrain = n - nTest
	if nTrain == 0 || nTest == 0 {
		return 0, 0, errors.NewValueError("SplitSizes",
			fmt.Sprintf("%d samples with test size %g leaves an empty partition", n, testSize))
	}
	return nTrain, nTest, nil
}

// TrainTestSplit returns shuffled row indices for the train and test
// partitions of n samples. The same seed always yields the same split.
//
// Example:
//
//	train, test, err := model_selection.TrainTestSplit(df.Nrow(), 0.2, 76)
func TrainTestSplit(n int, testSize float64, seed int64) (train, test []int, err error) {
	nTrain, nTest, err := SplitSizes(n, testSize)
	if err != nil {
		return nil, nil, err
	}

	perm := rand.New(rand.NewSource(seed)).Perm(n)
	test = perm[:nTest]
	train = perm[nTest : nTest+nTrain]
	return train, test, nil
}
