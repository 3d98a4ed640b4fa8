package feature_selection

import (
	"math"
	"sort"

	"github.com/bits-and-blooms/bitset"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/miku/skgo/pkg/errors"
)

// ScoreFunc scores each feature of X against the labels y. Higher scores
// mean more relevant features. PValues may be nil for score functions
// without a statistical interpretation.
type ScoreFunc func(X, y mat.Matrix) (scores, pValues []float64, err error)

// FClassif computes the one-way ANOVA F statistic and p-value for each
// feature. The p-value is the survival probability of the F distribution
// with (k-1, n-k) degrees of freedom, as provided by gonum.
func FClassif(X, y mat.Matrix) (scores, pValues []float64, err error) {
	nSamples, nFeatures := X.Dims()
	yRows, _ := y.Dims()
	if nSamples == 0 {
		return nil, nil, errors.NewValueError("FClassif", "empty dataset")
	}
	if yRows != nSamples {
		return nil, nil, errors.NewDimensionError("FClassif", nSamples, yRows, 0)
	}

	groups := make(map[int][]int)
	for i := 0; i < nSamples; i++ {
		label := int(y.At(i, 0))
		groups[label] = append(groups[label], i)
	}
	k := len(groups)
	if k < 2 {
		return nil, nil, errors.NewValueError("FClassif", "need at least two classes")
	}
	if nSamples <= k {
		return nil, nil, errors.NewValueError("FClassif", "need more samples than classes")
	}

	fDist := distuv.F{D1: float64(k - 1), D2: float64(nSamples - k)}

	scores = make([]float64, nFeatures)
	pValues = make([]float64, nFeatures)
	for j := 0; j < nFeatures; j++ {
		var grandMean float64
		for i := 0; i < nSamples; i++ {
			grandMean += X.At(i, j)
		}
		grandMean /= float64(nSamples)

		var ssBetween, ssWithin float64
		for _, indices := range groups {
			var groupMean float64
			for _, i := range indices {
				groupMean += X.At(i, j)
			}
			groupMean /= float64(len(indices))

			diff := groupMean - grandMean
			ssBetween += float64(len(indices)) * diff * diff
			for _, i := range indices {
				d := X.At(i, j) - groupMean
				ssWithin += d * d
			}
		}

		msBetween := ssBetween / float64(k-1)
		msWithin := ssWithin / float64(nSamples-k)

		switch {
		case msWithin == 0 && msBetween == 0:
			// Constant feature: no discriminative power.
			scores[j] = 0
			pValues[j] = 1
		case msWithin == 0:
			scores[j] = math.Inf(1)
			pValues[j] = 0
		default:
			scores[j] = msBetween / msWithin
			pValues[j] = fDist.Survival(scores[j])
		}
	}
	return scores, pValues, nil
}

// SelectKBest keeps the k features with the highest scores.
type SelectKBest struct {
	baseSelector

	scoreFunc ScoreFunc
	k         int

	// Scores and PValues hold the per-feature statistics after Fit.
	Scores  []float64
	PValues []float64
}

// NewSelectKBest creates a selector keeping the top k features. A nil
// score function defaults to FClassif.
func NewSelectKBest(scoreFunc ScoreFunc, k int) *SelectKBest {
	if scoreFunc == nil {
		scoreFunc = FClassif
	}
	return &SelectKBest{scoreFunc: scoreFunc, k: k}
}

// Fit scores every feature against y and records the support mask.
func (s *SelectKBest) Fit(X, y mat.Matrix) error {
	_, nFeatures := X.Dims()
	if s.k <= 0 || s.k > nFeatures {
		return errors.NewValidationError("k", "must be in [1, n_features]", s.k)
	}

	scores, pValues, err := s.scoreFunc(X, y)
	if err != nil {
		return err
	}
	s.Scores = scores
	s.PValues = pValues
	s.setSupport(topKMask(scores, s.k), nFeatures)
	return nil
}

// Transform keeps only the selected columns of X.
func (s *SelectKBest) Transform(X mat.Matrix) (*mat.Dense, error) {
	return s.transform("SelectKBest.Transform", X)
}

// FitTransform runs Fit followed by Transform.
func (s *SelectKBest) FitTransform(X, y mat.Matrix) (*mat.Dense, error) {
	if err := s.Fit(X, y); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// SelectPercentile keeps the given percentage of the highest-scoring
// features, always at least one.
type SelectPercentile struct {
	baseSelector

	scoreFunc  ScoreFunc
	percentile float64

	Scores  []float64
	PValues []float64
}

// NewSelectPercentile creates a selector keeping percentile% of features.
func NewSelectPercentile(scoreFunc ScoreFunc, percentile float64) *SelectPercentile {
	if scoreFunc == nil {
		scoreFunc = FClassif
	}
	return &SelectPercentile{scoreFunc: scoreFunc, percentile: percentile}
}

// Fit scores every feature against y and records the support mask.
func (s *SelectPercentile) Fit(X, y mat.Matrix) error {
	_, nFeatures := X.Dims()
	if s.percentile <= 0 || s.percentile > 100 {
		return errors.NewValidationError("percentile", "must be in (0, 100]", s.percentile)
	}

	scores, pValues, err := s.scoreFunc(X, y)
	if err != nil {
		return err
	}
	s.Scores = scores
	s.PValues = pValues

	k := int(math.Round(s.percentile / 100 * float64(nFeatures)))
	if k < 1 {
		k = 1
	}
	s.setSupport(topKMask(scores, k), nFeatures)
	return nil
}

// Transform keeps only the selected columns of X.
func (s *SelectPercentile) Transform(X mat.Matrix) (*mat.Dense, error) {
	return s.transform("SelectPercentile.Transform", X)
}

// FitTransform runs Fit followed by Transform.
func (s *SelectPercentile) FitTransform(X, y mat.Matrix) (*mat.Dense, error) {
	if err := s.Fit(X, y); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// topKMask builds a support mask over the k highest scores. Ties resolve
// toward the lower feature index so results are deterministic.
func topKMask(scores []float64, k int) *bitset.BitSet {
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		sa, sb := scores[order[a]], scores[order[b]]
		// NaN scores sort last, treated as -Inf so the comparator stays
		// a strict weak ordering even when both sides are NaN.
		if math.IsNaN(sa) {
			sa = math.Inf(-1)
		}
		if math.IsNaN(sb) {
			sb = math.Inf(-1)
		}
		return sa > sb
	})

	support := bitset.New(uint(len(scores)))
	for _, idx := range order[:k] {
		support.Set(uint(idx))
	}
	return support
}
