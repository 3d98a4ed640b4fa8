// Package neighbors implements k-nearest neighbor estimators.
//
// Both estimators use brute-force Euclidean search: training simply stores
// the data and prediction scans it. That is the right trade-off for the
// dataset sizes this library targets; a tree-based index can be added behind
// the same API later.
package neighbors

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/miku/skgo/core/model"
	"github.com/miku/skgo/core/parallel"
	"github.com/miku/skgo/metrics"
	"github.com/miku/skgo/pkg/errors"
)

// WeightScheme controls how neighbor votes are weighted.
type WeightScheme string

const (
	// WeightsUniform gives every neighbor the same weight.
	WeightsUniform WeightScheme = "uniform"
	// WeightsDistance weights each neighbor by the inverse of its distance.
	WeightsDistance WeightScheme = "distance"
)

// knnBase holds the hyperparameters and stored training data shared by the
// classifier and the regressor.
type knnBase struct {
	model.BaseEstimator

	nNeighbors int
	weights    WeightScheme

	x_         *mat.Dense
	y_         []float64
	nFeatures_ int
}

// KNNOption configures a k-nearest neighbor estimator.
type KNNOption func(*knnBase)

// WithKNNNeighbors sets the number of neighbors consulted per query.
func WithKNNNeighbors(k int) KNNOption {
	return func(b *knnBase) {
		b.nNeighbors = k
	}
}

// WithKNNWeights sets the vote weighting scheme.
func WithKNNWeights(w WeightScheme) KNNOption {
	return func(b *knnBase) {
		b.weights = w
	}
}

func newKNNBase(options ...KNNOption) knnBase {
	b := knnBase{
		nNeighbors: 5,
		weights:    WeightsUniform,
	}
	for _, opt := range options {
		opt(&b)
	}
	return b
}

func (b *knnBase) validate() error {
	if b.nNeighbors < 1 {
		return errors.NewValidationError("nNeighbors", "must be at least 1", b.nNeighbors)
	}
	if b.weights != WeightsUniform && b.weights != WeightsDistance {
		return errors.NewValidationError("weights", "must be uniform or distance", string(b.weights))
	}
	return nil
}

func (b *knnBase) fit(op string, X, y mat.Matrix) error {
	if err := b.validate(); err != nil {
		return err
	}
	nSamples, nFeatures := X.Dims()
	if nSamples == 0 {
		return errors.NewValueError(op, "empty training set")
	}
	if b.nNeighbors > nSamples {
		return errors.NewValidationError("nNeighbors", "exceeds the number of training samples", b.nNeighbors)
	}
	yRows, _ := y.Dims()
	if yRows != nSamples {
		return errors.NewDimensionError(op, nSamples, yRows, 0)
	}

	b.x_ = mat.DenseCopyOf(X)
	b.y_ = make([]float64, nSamples)
	for i := 0; i < nSamples; i++ {
		b.y_[i] = y.At(i, 0)
	}
	b.nFeatures_ = nFeatures
	b.SetFitted()
	return nil
}

func (b *knnBase) checkPredictInput(op string, X mat.Matrix) error {
	if !b.IsFitted() {
		return errors.NewNotFittedError(op, "Predict")
	}
	_, cols := X.Dims()
	if cols != b.nFeatures_ {
		return errors.NewDimensionError(op, b.nFeatures_, cols, 1)
	}
	return nil
}

type neighbor struct {
	index    int
	distance float64
}

// kNearest returns the nNeighbors training points closest to the query row.
func (b *knnBase) kNearest(X mat.Matrix, row int) []neighbor {
	nSamples, _ := b.x_.Dims()
	candidates := make([]neighbor, nSamples)
	for i := 0; i < nSamples; i++ {
		var dist float64
		for j := 0; j < b.nFeatures_; j++ {
			d := X.At(row, j) - b.x_.At(i, j)
			dist += d * d
		}
		candidates[i] = neighbor{index: i, distance: math.Sqrt(dist)}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].distance != candidates[j].distance {
			return candidates[i].distance < candidates[j].distance
		}
		return candidates[i].index < candidates[j].index
	})
	return candidates[:b.nNeighbors]
}

// voteWeight converts a neighbor distance into a vote weight. An exact match
// gets an effectively infinite weight under distance weighting, which lets a
// coincident training point decide the query on its own.
func (b *knnBase) voteWeight(distance float64) float64 {
	if b.weights == WeightsUniform {
		return 1.0
	}
	if distance == 0 {
		return math.Inf(1)
	}
	return 1.0 / distance
}

// KNeighborsClassifier predicts the weighted majority label among the k
// nearest training points.
type KNeighborsClassifier struct {
	knnBase
}

// NewKNeighborsClassifier creates a classifier with 5 uniform-weight
// neighbors by default.
func NewKNeighborsClassifier(options ...KNNOption) *KNeighborsClassifier {
	return &KNeighborsClassifier{knnBase: newKNNBase(options...)}
}

// Fit stores the training data.
func (c *KNeighborsClassifier) Fit(X, y mat.Matrix) error {
	return c.fit("KNeighborsClassifier.Fit", X, y)
}

// Predict returns the predicted label for each row of X as a column vector.
func (c *KNeighborsClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := c.checkPredictInput("KNeighborsClassifier", X); err != nil {
		return nil, err
	}
	rows, _ := X.Dims()
	predictions := mat.NewDense(rows, 1, nil)

	parallel.Parallelize(rows, func(start, end int) {
		for i := start; i < end; i++ {
			predictions.Set(i, 0, c.predictRow(X, i))
		}
	})
	return predictions, nil
}

func (c *KNeighborsClassifier) predictRow(X mat.Matrix, row int) float64 {
	votes := make(map[float64]float64)
	for _, nb := range c.kNearest(X, row) {
		votes[c.y_[nb.index]] += c.voteWeight(nb.distance)
	}

	best := math.NaN()
	bestWeight := math.Inf(-1)
	for label, weight := range votes {
		if weight > bestWeight || (weight == bestWeight && label < best) {
			best = label
			bestWeight = weight
		}
	}
	return best
}

// Score returns the accuracy on the given data.
func (c *KNeighborsClassifier) Score(X, y mat.Matrix) (float64, error) {
	predictions, err := c.Predict(X)
	if err != nil {
		return 0, err
	}
	return metrics.AccuracyMatrix(y, predictions)
}

// Clone returns an unfitted copy with the same hyperparameters.
func (c *KNeighborsClassifier) Clone() model.Estimator {
	return NewKNeighborsClassifier(
		WithKNNNeighbors(c.nNeighbors),
		WithKNNWeights(c.weights),
	)
}

// KNeighborsRegressor predicts the weighted mean target among the k nearest
// training points.
type KNeighborsRegressor struct {
	knnBase
}

// NewKNeighborsRegressor creates a regressor with 5 uniform-weight neighbors
// by default.
func NewKNeighborsRegressor(options ...KNNOption) *KNeighborsRegressor {
	return &KNeighborsRegressor{knnBase: newKNNBase(options...)}
}

// Fit stores the training data.
func (r *KNeighborsRegressor) Fit(X, y mat.Matrix) error {
	return r.fit("KNeighborsRegressor.Fit", X, y)
}

// Predict returns the predicted target for each row of X as a column vector.
func (r *KNeighborsRegressor) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := r.checkPredictInput("KNeighborsRegressor", X); err != nil {
		return nil, err
	}
	rows, _ := X.Dims()
	predictions := mat.NewDense(rows, 1, nil)

	parallel.Parallelize(rows, func(start, end int) {
		for i := start; i < end; i++ {
			predictions.Set(i, 0, r.predictRow(X, i))
		}
	})
	return predictions, nil
}

func (r *KNeighborsRegressor) predictRow(X mat.Matrix, row int) float64 {
	neighbors := r.kNearest(X, row)

	// With distance weighting an exact match dominates: average only the
	// coincident points so the weights stay finite.
	if r.weights == WeightsDistance {
		var exactSum float64
		exactCount := 0
		for _, nb := range neighbors {
			if nb.distance == 0 {
				exactSum += r.y_[nb.index]
				exactCount++
			}
		}
		if exactCount > 0 {
			return exactSum / float64(exactCount)
		}
	}

	var weightedSum, totalWeight float64
	for _, nb := range neighbors {
		w := r.voteWeight(nb.distance)
		weightedSum += w * r.y_[nb.index]
		totalWeight += w
	}
	return weightedSum / totalWeight
}

// Score returns the coefficient of determination R² on the given data.
func (r *KNeighborsRegressor) Score(X, y mat.Matrix) (float64, error) {
	predictions, err := r.Predict(X)
	if err != nil {
		return 0, err
	}
	return metrics.R2ScoreMatrix(y, predictions)
}

// Clone returns an unfitted copy with the same hyperparameters.
func (r *KNeighborsRegressor) Clone() model.Estimator {
	return NewKNeighborsRegressor(
		WithKNNNeighbors(r.nNeighbors),
		WithKNNWeights(r.weights),
	)
}
