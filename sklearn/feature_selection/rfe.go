package feature_selection

import (
	"sort"

	"github.com/bits-and-blooms/bitset"
	"gonum.org/v1/gonum/mat"

	"github.com/miku/skgo/pkg/errors"
	"github.com/miku/skgo/pkg/log"
)

// RFE performs recursive feature elimination: the estimator is fitted on
// the surviving features, the weakest `step` features are dropped, and the
// process repeats until nFeaturesToSelect remain.
type RFE struct {
	baseSelector

	estimator         ImportanceEstimator
	nFeaturesToSelect int
	step              int

	// Ranking holds the elimination ranking after Fit: selected features
	// rank 1, the first eliminated features have the highest rank.
	Ranking []int
}

// NewRFE creates a recursive feature eliminator. step controls how many
// features are dropped per iteration and defaults to 1.
func NewRFE(estimator ImportanceEstimator, nFeaturesToSelect, step int) *RFE {
	if step < 1 {
		step = 1
	}
	return &RFE{
		estimator:         estimator,
		nFeaturesToSelect: nFeaturesToSelect,
		step:              step,
	}
}

// Fit repeatedly trains the estimator, eliminating the least important
// features until the target count remains.
func (r *RFE) Fit(X, y mat.Matrix) error {
	if r.estimator == nil {
		return errors.NewValidationError("estimator", "estimator is required", nil)
	}
	nSamples, nFeatures := X.Dims()
	if nSamples == 0 {
		return errors.NewValueError("RFE.Fit", "empty dataset")
	}
	if r.nFeaturesToSelect < 1 || r.nFeaturesToSelect > nFeatures {
		return errors.NewValidationError("n_features_to_select", "must be in [1, n_features]", r.nFeaturesToSelect)
	}

	logger := log.GetLoggerWithName("feature_selection")

	// surviving maps current column positions to original feature indices.
	surviving := make([]int, nFeatures)
	for i := range surviving {
		surviving[i] = i
	}
	r.Ranking = make([]int, nFeatures)

	eliminationOrder := make([]int, 0, nFeatures-r.nFeaturesToSelect)

	for len(surviving) > r.nFeaturesToSelect {
		sub := columnSubset(X, surviving)
		if err := r.estimator.Fit(sub, y); err != nil {
			return errors.Wrap(err, "fitting the elimination estimator")
		}
		importances, err := r.estimator.FeatureImportances()
		if err != nil {
			return err
		}
		if len(importances) != len(surviving) {
			return errors.NewDimensionError("RFE.Fit", len(surviving), len(importances), 1)
		}

		drop := r.step
		if len(surviving)-drop < r.nFeaturesToSelect {
			drop = len(surviving) - r.nFeaturesToSelect
		}

		// Positions of the `drop` weakest features in the sub-matrix.
		order := make([]int, len(importances))
		for i := range order {
			order[i] = i
		}
		sort.SliceStable(order, func(a, b int) bool {
			return importances[order[a]] < importances[order[b]]
		})
		dropSet := make(map[int]bool, drop)
		for _, pos := range order[:drop] {
			dropSet[pos] = true
			eliminationOrder = append(eliminationOrder, surviving[pos])
		}

		kept := surviving[:0]
		for pos, feature := range surviving {
			if !dropSet[pos] {
				kept = append(kept, feature)
			}
		}
		surviving = kept

		logger.Debug("elimination round finished",
			log.OperationKey, "fit",
			log.SelectedKey, len(surviving),
		)
	}

	support := bitset.New(uint(nFeatures))
	for _, feature := range surviving {
		support.Set(uint(feature))
		r.Ranking[feature] = 1
	}
	// Later-eliminated features rank closer to the selected set.
	for i, feature := range eliminationOrder {
		r.Ranking[feature] = len(eliminationOrder) - i + 1
	}

	r.setSupport(support, nFeatures)
	return nil
}

// Transform keeps only the selected columns of X.
func (r *RFE) Transform(X mat.Matrix) (*mat.Dense, error) {
	return r.transform("RFE.Transform", X)
}

// FitTransform runs Fit followed by Transform.
func (r *RFE) FitTransform(X, y mat.Matrix) (*mat.Dense, error) {
	if err := r.Fit(X, y); err != nil {
		return nil, err
	}
	return r.Transform(X)
}

// columnSubset materializes the given columns of X.
func columnSubset(X mat.Matrix, columns []int) *mat.Dense {
	rows, _ := X.Dims()
	out := mat.NewDense(rows, len(columns), nil)
	for i := 0; i < rows; i++ {
		for j, col := range columns {
			out.Set(i, j, X.At(i, col))
		}
	}
	return out
}
