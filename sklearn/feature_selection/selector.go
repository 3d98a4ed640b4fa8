// Package feature_selection provides transformers that reduce a feature
// matrix to the subset of columns most relevant to predicting the label,
// compatible with scikit-learn's feature_selection module.
//
// Three selection families are implemented: univariate statistical tests
// (SelectKBest, SelectPercentile over FClassif), model-based importance
// selection (SelectFromModel) and recursive feature elimination (RFE).
package feature_selection

import (
	"github.com/bits-and-blooms/bitset"
	"gonum.org/v1/gonum/mat"

	"github.com/miku/skgo/pkg/errors"
)

// baseSelector carries the fitted support mask shared by all selectors.
type baseSelector struct {
	support   *bitset.BitSet
	nFeatures int
}

func (s *baseSelector) setSupport(support *bitset.BitSet, nFeatures int) {
	s.support = support
	s.nFeatures = nFeatures
}

func (s *baseSelector) fitted() bool {
	return s.support != nil
}

// GetSupport returns the fitted support mask as a bitset. Bit i is set when
// feature i is kept. The returned set is a copy.
func (s *baseSelector) GetSupport() (*bitset.BitSet, error) {
	if !s.fitted() {
		return nil, errors.NewNotFittedError("selector", "GetSupport")
	}
	return s.support.Clone(), nil
}

// SupportMask returns the fitted support mask as a boolean slice.
func (s *baseSelector) SupportMask() ([]bool, error) {
	if !s.fitted() {
		return nil, errors.NewNotFittedError("selector", "SupportMask")
	}
	mask := make([]bool, s.nFeatures)
	for i := range mask {
		mask[i] = s.support.Test(uint(i))
	}
	return mask, nil
}

// NSelected returns the number of features kept by the fitted selector.
func (s *baseSelector) NSelected() int {
	if !s.fitted() {
		return 0
	}
	return int(s.support.Count())
}

// transform materializes the selected columns of X.
func (s *baseSelector) transform(op string, X mat.Matrix) (*mat.Dense, error) {
	if !s.fitted() {
		return nil, errors.NewNotFittedError("selector", "Transform")
	}
	rows, cols := X.Dims()
	if cols != s.nFeatures {
		return nil, errors.NewDimensionError(op, s.nFeatures, cols, 1)
	}

	kept := make([]int, 0, s.support.Count())
	for i := 0; i < s.nFeatures; i++ {
		if s.support.Test(uint(i)) {
			kept = append(kept, i)
		}
	}
	if len(kept) == 0 {
		return nil, errors.NewValueError(op, "no features were selected")
	}

	out := mat.NewDense(rows, len(kept), nil)
	for i := 0; i < rows; i++ {
		for j, col := range kept {
			out.Set(i, j, X.At(i, col))
		}
	}
	return out, nil
}
