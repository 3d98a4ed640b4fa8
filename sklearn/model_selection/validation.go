package model_selection

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/miku/skgo/core/model"
	"github.com/miku/skgo/core/parallel"
	"github.com/miku/skgo/pkg/errors"
	"github.com/miku/skgo/pkg/log"
)

// CVScores holds the per-fold test scores of a cross-validation run.
type CVScores []float64

// Mean returns the mean test score.
func (s CVScores) Mean() float64 {
	if len(s) == 0 {
		return 0.0
	}
	sum := 0.0
	for _, score := range s {
		sum += score
	}
	return sum / float64(len(s))
}

// Std returns the standard deviation of the test scores.
func (s CVScores) Std() float64 {
	if len(s) <= 1 {
		return 0.0
	}
	mean := s.Mean()
	sum := 0.0
	for _, score := range s {
		diff := score - mean
		sum += diff * diff
	}
	return math.Sqrt(sum / float64(len(s)))
}

// CrossValScore evaluates an estimator with cross-validation. The estimator
// must implement model.Cloner so every fold trains an independent copy; the
// folds run in parallel. The score of each fold is whatever the estimator's
// Score method reports (accuracy for classifiers, R² for regressors).
func CrossValScore(est model.Estimator, X, y mat.Matrix, splitter Splitter) (CVScores, error) {
	cloner, ok := est.(model.Cloner)
	if !ok {
		return nil, errors.NewValidationError("estimator", "must implement Clone() for cross-validation", est)
	}
	if splitter == nil {
		splitter = NewKFold(5, true, 0)
	}

	nSamples, nFeatures := X.Dims()
	yRows, _ := y.Dims()
	if yRows != nSamples {
		return nil, errors.NewDimensionError("CrossValScore", nSamples, yRows, 0)
	}

	folds := splitter.Split(X, y)
	scores := make(CVScores, len(folds))
	errs := make([]error, len(folds))

	logger := log.GetLoggerWithName("model_selection")

	parallel.Parallelize(len(folds), func(start, end int) {
		for f := start; f < end; f++ {
			fold := folds[f]
			XTrain, yTrain := takeRows(X, y, nFeatures, fold.TrainIndices)
			XTest, yTest := takeRows(X, y, nFeatures, fold.TestIndices)

			clone := cloner.Clone()
			if err := clone.Fit(XTrain, yTrain); err != nil {
				errs[f] = errors.Wrapf(err, "fold %d: fit failed", f)
				continue
			}
			score, err := clone.Score(XTest, yTest)
			if err != nil {
				errs[f] = errors.Wrapf(err, "fold %d: score failed", f)
				continue
			}
			scores[f] = score
		}
	})

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	logger.Debug("cross-validation finished",
		log.OperationKey, "score",
		log.SamplesKey, nSamples,
		log.ScoreKey, scores.Mean(),
	)
	return scores, nil
}
