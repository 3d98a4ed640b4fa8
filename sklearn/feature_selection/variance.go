package feature_selection

import (
	"github.com/bits-and-blooms/bitset"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/miku/skgo/pkg/errors"
)

// VarianceThreshold removes features whose variance does not exceed the
// threshold. With the default threshold of zero it drops constant columns.
// Unlike the other selectors it ignores labels.
type VarianceThreshold struct {
	baseSelector

	threshold float64

	// Variances holds the per-feature population variance after Fit.
	Variances []float64
}

// NewVarianceThreshold creates a selector removing features with variance
// less than or equal to threshold.
func NewVarianceThreshold(threshold float64) *VarianceThreshold {
	return &VarianceThreshold{threshold: threshold}
}

// Fit computes per-feature variances and records the support mask.
func (s *VarianceThreshold) Fit(X mat.Matrix) error {
	nSamples, nFeatures := X.Dims()
	if nSamples == 0 {
		return errors.NewValueError("VarianceThreshold.Fit", "empty dataset")
	}
	if s.threshold < 0 {
		return errors.NewValidationError("threshold", "must be non-negative", s.threshold)
	}

	s.Variances = make([]float64, nFeatures)
	support := bitset.New(uint(nFeatures))
	column := make([]float64, nSamples)
	anyKept := false
	for j := 0; j < nFeatures; j++ {
		for i := 0; i < nSamples; i++ {
			column[i] = X.At(i, j)
		}
		mean := stat.Mean(column, nil)
		var variance float64
		for _, v := range column {
			d := v - mean
			variance += d * d
		}
		variance /= float64(nSamples)

		s.Variances[j] = variance
		if variance > s.threshold {
			support.Set(uint(j))
			anyKept = true
		}
	}
	if !anyKept {
		return errors.NewValueError("VarianceThreshold.Fit", "no feature exceeds the variance threshold")
	}

	s.setSupport(support, nFeatures)
	return nil
}

// Transform keeps only the selected columns of X.
func (s *VarianceThreshold) Transform(X mat.Matrix) (*mat.Dense, error) {
	return s.transform("VarianceThreshold.Transform", X)
}

// FitTransform runs Fit followed by Transform.
func (s *VarianceThreshold) FitTransform(X mat.Matrix) (*mat.Dense, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}
