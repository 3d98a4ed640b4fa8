package feature_selection

import (
	"math"
	"sort"

	"github.com/bits-and-blooms/bitset"
	"gonum.org/v1/gonum/mat"

	"github.com/miku/skgo/core/model"
	"github.com/miku/skgo/pkg/errors"
)

// ImportanceEstimator is the estimator contract required by model-based
// selection: it must be fittable and expose per-feature importances.
type ImportanceEstimator interface {
	model.Fitter
	model.FeatureImporter
}

// SelectFromModel keeps the features whose importance, as reported by a
// fitted estimator, reaches a threshold. With Threshold <= 0 the mean
// importance is used, matching scikit-learn's default.
type SelectFromModel struct {
	baseSelector

	estimator ImportanceEstimator

	// Threshold is the minimum importance required to keep a feature.
	// Zero or negative means "mean importance".
	Threshold float64

	// MaxFeatures caps the number of selected features when positive.
	MaxFeatures int

	// Importances holds the estimator's feature importances after Fit.
	Importances []float64
}

// NewSelectFromModel creates a model-based selector around the estimator.
func NewSelectFromModel(estimator ImportanceEstimator) *SelectFromModel {
	return &SelectFromModel{estimator: estimator}
}

// Fit trains the estimator on (X, y) and derives the support mask from its
// feature importances.
func (s *SelectFromModel) Fit(X, y mat.Matrix) error {
	if s.estimator == nil {
		return errors.NewValidationError("estimator", "estimator is required", nil)
	}
	_, nFeatures := X.Dims()

	if err := s.estimator.Fit(X, y); err != nil {
		return errors.Wrap(err, "fitting the selection estimator")
	}
	importances, err := s.estimator.FeatureImportances()
	if err != nil {
		return err
	}
	if len(importances) != nFeatures {
		return errors.NewDimensionError("SelectFromModel.Fit", nFeatures, len(importances), 1)
	}
	s.Importances = importances

	threshold := s.Threshold
	if threshold <= 0 {
		var sum float64
		for _, imp := range importances {
			sum += imp
		}
		threshold = sum / float64(len(importances))
	}

	support := bitset.New(uint(nFeatures))
	for j, imp := range importances {
		if imp >= threshold && !math.IsNaN(imp) {
			support.Set(uint(j))
		}
	}

	if s.MaxFeatures > 0 && int(support.Count()) > s.MaxFeatures {
		support = capSupport(importances, support, s.MaxFeatures)
	}
	if support.Count() == 0 {
		return errors.NewValueError("SelectFromModel.Fit", "no feature importance reaches the threshold")
	}

	s.setSupport(support, nFeatures)
	return nil
}

// Transform keeps only the selected columns of X.
func (s *SelectFromModel) Transform(X mat.Matrix) (*mat.Dense, error) {
	return s.transform("SelectFromModel.Transform", X)
}

// FitTransform runs Fit followed by Transform.
func (s *SelectFromModel) FitTransform(X, y mat.Matrix) (*mat.Dense, error) {
	if err := s.Fit(X, y); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// capSupport keeps only the maxFeatures most important of the already
// selected features.
func capSupport(importances []float64, support *bitset.BitSet, maxFeatures int) *bitset.BitSet {
	selected := make([]int, 0, support.Count())
	for j := range importances {
		if support.Test(uint(j)) {
			selected = append(selected, j)
		}
	}
	sort.SliceStable(selected, func(a, b int) bool {
		return importances[selected[a]] > importances[selected[b]]
	})

	capped := bitset.New(uint(len(importances)))
	for _, j := range selected[:maxFeatures] {
		capped.Set(uint(j))
	}
	return capped
}
