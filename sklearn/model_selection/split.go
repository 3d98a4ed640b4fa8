// Package model_selection provides utilities for splitting datasets and
// validating models, compatible with scikit-learn's model_selection module.
package model_selection

import (
	"math"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/miku/skgo/pkg/errors"
)

// SplitResult holds the index partition produced by TrainTestSplitIndices.
// TrainIndices and TestIndices are disjoint and together cover [0, N).
// The slices are owned by the result and never reused by the splitter.
type SplitResult struct {
	TrainIndices []int
	TestIndices  []int
}

// splitConfig collects the functional options for a split.
type splitConfig struct {
	trainSize float64
	stratify  bool
	seed      int64
	classes   []int // optional pinned class set for stratification
}

// SplitOption configures TrainTestSplit.
type SplitOption func(*splitConfig)

// WithTrainSize sets the fraction of samples assigned to the train subset.
// Must be strictly between 0 and 1. Default: 0.75.
func WithTrainSize(f float64) SplitOption {
	return func(c *splitConfig) {
		c.trainSize = f
	}
}

// WithStratify enables per-class proportional splitting.
func WithStratify(stratify bool) SplitOption {
	return func(c *splitConfig) {
		c.stratify = stratify
	}
}

// WithSeed sets the random seed. The same seed always produces the same
// partition; there is no hidden global random state.
func WithSeed(seed int64) SplitOption {
	return func(c *splitConfig) {
		c.seed = seed
	}
}

// WithClasses pins the expected class label set for a stratified split.
// If any pinned class has no members in the labels, the split fails with
// a validation error. Without this option classes are derived from the
// labels themselves.
func WithClasses(classes []int) SplitOption {
	return func(c *splitConfig) {
		c.classes = classes
	}
}

// TrainTestSplitIndices partitions the index range [0, nSamples) into train
// and test index sets. labels is required when stratification is enabled and
// may be nil otherwise.
//
// The train subset receives round(f·N) samples. Without stratification the
// indices are shuffled uniformly with the seeded generator before
// partitioning, so label order in the source data does not bias the split.
// With stratification each class's indices are shuffled and split
// independently in proportion f, with leftover slots assigned by largest
// fractional remainder so the totals come out exactly; both subsets are
// shuffled once more at the end.
func TrainTestSplitIndices(nSamples int, labels []int, opts ...SplitOption) (*SplitResult, error) {
	cfg := &splitConfig{
		trainSize: 0.75,
		seed:      0,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if nSamples == 0 {
		return nil, errors.NewValueError("TrainTestSplit", "empty dataset")
	}
	if cfg.trainSize <= 0 || cfg.trainSize >= 1 || math.IsNaN(cfg.trainSize) {
		return nil, errors.NewValidationError("train_size", "must be strictly between 0 and 1", cfg.trainSize)
	}
	if labels != nil && len(labels) != nSamples {
		return nil, errors.NewDimensionError("TrainTestSplit", nSamples, len(labels), 0)
	}
	if cfg.stratify && labels == nil {
		return nil, errors.NewValidationError("stratify", "stratification requires labels", nil)
	}

	rng := rand.New(rand.NewPCG(uint64(cfg.seed), uint64(cfg.seed)))
	nTrain := int(math.Round(cfg.trainSize * float64(nSamples)))

	if !cfg.stratify {
		perm := rng.Perm(nSamples)
		res := &SplitResult{
			TrainIndices: append([]int(nil), perm[:nTrain]...),
			TestIndices:  append([]int(nil), perm[nTrain:]...),
		}
		return res, nil
	}

	return stratifiedSplit(nSamples, nTrain, labels, cfg, rng)
}

// stratifiedSplit distributes round(f·N) train slots over the classes so
// that each class's share of the train subset matches its share of the
// whole dataset to within one sample.
func stratifiedSplit(nSamples, nTrain int, labels []int, cfg *splitConfig, rng *rand.Rand) (*SplitResult, error) {
	byClass := make(map[int][]int)
	for i, label := range labels {
		byClass[label] = append(byClass[label], i)
	}

	if cfg.classes != nil {
		for _, class := range cfg.classes {
			if len(byClass[class]) == 0 {
				return nil, errors.NewValidationError("classes", "class has zero members in the dataset", class)
			}
		}
	}

	// Deterministic class order regardless of map iteration.
	classes := make([]int, 0, len(byClass))
	for class := range byClass {
		classes = append(classes, class)
	}
	sort.Ints(classes)

	// Per-class train quota by largest fractional remainder.
	quota := make([]int, len(classes))
	type remainder struct {
		class int
		frac  float64
	}
	remainders := make([]remainder, len(classes))
	assigned := 0
	for i, class := range classes {
		exact := cfg.trainSize * float64(len(byClass[class]))
		quota[i] = int(math.Floor(exact))
		remainders[i] = remainder{class: i, frac: exact - math.Floor(exact)}
		assigned += quota[i]
	}
	sort.SliceStable(remainders, func(a, b int) bool {
		return remainders[a].frac > remainders[b].frac
	})
	for i := 0; assigned < nTrain && i < len(remainders); i++ {
		quota[remainders[i].class]++
		assigned++
	}

	train := make([]int, 0, nTrain)
	test := make([]int, 0, nSamples-nTrain)
	for i, class := range classes {
		indices := append([]int(nil), byClass[class]...)
		rng.Shuffle(len(indices), func(a, b int) {
			indices[a], indices[b] = indices[b], indices[a]
		})
		if quota[i] == 0 || quota[i] == len(indices) {
			errors.Warn(errors.NewStratificationWarning(class, len(indices), nTrain))
		}
		train = append(train, indices[:quota[i]]...)
		test = append(test, indices[quota[i]:]...)
	}

	rng.Shuffle(len(train), func(a, b int) { train[a], train[b] = train[b], train[a] })
	rng.Shuffle(len(test), func(a, b int) { test[a], test[b] = test[b], test[a] })

	return &SplitResult{TrainIndices: train, TestIndices: test}, nil
}

// TrainTestSplit splits the rows of X and y into train and test matrices.
// y must be a column vector with as many rows as X. Stratification uses the
// values of y truncated to int as class labels.
func TrainTestSplit(X, y mat.Matrix, opts ...SplitOption) (XTrain, XTest, yTrain, yTest *mat.Dense, err error) {
	nSamples, nFeatures := X.Dims()
	yRows, yCols := y.Dims()
	if yRows != nSamples {
		return nil, nil, nil, nil, errors.NewDimensionError("TrainTestSplit", nSamples, yRows, 0)
	}
	if yCols != 1 {
		return nil, nil, nil, nil, errors.NewValueError("TrainTestSplit", "y must be a column vector")
	}

	labels := make([]int, nSamples)
	for i := 0; i < nSamples; i++ {
		labels[i] = int(y.At(i, 0))
	}

	res, err := TrainTestSplitIndices(nSamples, labels, opts...)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	XTrain, yTrain = takeRows(X, y, nFeatures, res.TrainIndices)
	XTest, yTest = takeRows(X, y, nFeatures, res.TestIndices)
	return XTrain, XTest, yTrain, yTest, nil
}

// takeRows materializes the selected rows of X and y into fresh matrices.
func takeRows(X, y mat.Matrix, nFeatures int, indices []int) (*mat.Dense, *mat.Dense) {
	sub := mat.NewDense(len(indices), nFeatures, nil)
	labels := mat.NewDense(len(indices), 1, nil)
	for i, idx := range indices {
		for j := 0; j < nFeatures; j++ {
			sub.Set(i, j, X.At(idx, j))
		}
		labels.Set(i, 0, y.At(idx, 0))
	}
	return sub, labels
}
