package linear_model

import (
	"math"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/miku/skgo/core/model"
	"github.com/miku/skgo/metrics"
	"github.com/miku/skgo/pkg/errors"
)

// LogisticRegression implements logistic regression for classification.
// Binary problems are solved with full-batch gradient descent; problems
// with more classes train one binary model per class (one-vs-rest).
type LogisticRegression struct {
	state *model.StateManager

	// Hyperparameters
	c            float64 // inverse L2 regularization strength
	penalty      string  // "l2" or "none"
	fitIntercept bool
	maxIter      int
	tol          float64
	learningRate float64
	randomState  int64

	// Model parameters
	coef_      [][]float64 // one row per trained binary model
	intercept_ []float64
	classes_   []int
	nFeatures_ int
	nIter_     []int
}

// LogisticRegressionOption is a functional option for LogisticRegression.
type LogisticRegressionOption func(*LogisticRegression)

// NewLogisticRegression creates a classifier with L2 penalty, C=1 and at
// most 100 gradient descent iterations.
func NewLogisticRegression(opts ...LogisticRegressionOption) *LogisticRegression {
	lr := &LogisticRegression{
		state:        model.NewStateManager(),
		c:            1.0,
		penalty:      "l2",
		fitIntercept: true,
		maxIter:      100,
		tol:          1e-4,
		learningRate: 1.0,
		randomState:  -1,
	}
	for _, opt := range opts {
		opt(lr)
	}
	return lr
}

// WithLRC sets the inverse regularization strength.
func WithLRC(c float64) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.c = c
	}
}

// WithLRPenalty sets the regularization type, "l2" or "none".
func WithLRPenalty(penalty string) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.penalty = penalty
	}
}

// WithLRFitIntercept sets whether an intercept term is trained.
func WithLRFitIntercept(fit bool) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.fitIntercept = fit
	}
}

// WithLRMaxIter sets the maximum number of gradient descent iterations.
func WithLRMaxIter(maxIter int) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.maxIter = maxIter
	}
}

// WithLRTol sets the gradient norm below which training stops.
func WithLRTol(tol float64) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.tol = tol
	}
}

// WithLRRandomState sets the seed for weight initialization. Negative
// seeds initialize all weights to zero.
func WithLRRandomState(seed int64) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.randomState = seed
	}
}

// Fit trains the model. y must be a column vector of integer class labels.
func (lr *LogisticRegression) Fit(X, y mat.Matrix) error {
	nSamples, nFeatures := X.Dims()
	yRows, yCols := y.Dims()
	if nSamples == 0 {
		return errors.NewValueError("LogisticRegression.Fit", "empty training set")
	}
	if yRows != nSamples {
		return errors.NewDimensionError("LogisticRegression.Fit", nSamples, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewDimensionError("LogisticRegression.Fit", 1, yCols, 1)
	}
	if lr.penalty != "l2" && lr.penalty != "none" {
		return errors.NewValidationError("penalty", "must be l2 or none", lr.penalty)
	}
	if lr.penalty == "l2" && lr.c <= 0 {
		return errors.NewValidationError("C", "must be positive", lr.c)
	}

	lr.classes_ = uniqueLabels(y)
	if len(lr.classes_) < 2 {
		return errors.NewValueError("LogisticRegression.Fit", "need at least two classes")
	}
	lr.nFeatures_ = nFeatures

	nModels := len(lr.classes_)
	if nModels == 2 {
		nModels = 1
	}
	lr.coef_ = make([][]float64, nModels)
	lr.intercept_ = make([]float64, nModels)
	lr.nIter_ = make([]int, nModels)
	lr.initWeights(nFeatures)

	if len(lr.classes_) == 2 {
		// A single model separating classes_[1] from classes_[0].
		return lr.fitOne(X, binaryTargets(y, lr.classes_[1]), 0)
	}
	for idx, class := range lr.classes_ {
		if err := lr.fitOne(X, binaryTargets(y, class), idx); err != nil {
			return errors.Wrapf(err, "one-vs-rest model for class %d", class)
		}
	}
	return nil
}

func (lr *LogisticRegression) initWeights(nFeatures int) {
	var rng *rand.Rand
	if lr.randomState >= 0 {
		rng = rand.New(rand.NewPCG(uint64(lr.randomState), uint64(lr.randomState)))
	}
	for i := range lr.coef_ {
		lr.coef_[i] = make([]float64, nFeatures)
		if rng != nil {
			for j := range lr.coef_[i] {
				lr.coef_[i][j] = rng.NormFloat64() * 0.01
			}
		}
	}
}

// fitOne runs gradient descent for a single binary model. targets must be
// 0/1 values.
func (lr *LogisticRegression) fitOne(X mat.Matrix, targets []float64, modelIdx int) error {
	nSamples, nFeatures := X.Dims()
	weights := lr.coef_[modelIdx]
	intercept := &lr.intercept_[modelIdx]

	gradWeights := make([]float64, nFeatures)
	converged := false

	for iter := 0; iter < lr.maxIter; iter++ {
		for j := range gradWeights {
			gradWeights[j] = 0
		}
		gradIntercept := 0.0

		for i := 0; i < nSamples; i++ {
			z := *intercept
			for j := 0; j < nFeatures; j++ {
				z += X.At(i, j) * weights[j]
			}
			residual := sigmoid(z) - targets[i]
			gradIntercept += residual
			for j := 0; j < nFeatures; j++ {
				gradWeights[j] += residual * X.At(i, j)
			}
		}

		gradIntercept /= float64(nSamples)
		for j := range gradWeights {
			gradWeights[j] /= float64(nSamples)
		}
		if lr.penalty == "l2" {
			lambda := 1.0 / lr.c
			for j := range weights {
				gradWeights[j] += lambda * weights[j] / float64(nSamples)
			}
		}

		step := lr.learningRate / (1.0 + 0.1*float64(iter))
		for j := range weights {
			weights[j] -= step * gradWeights[j]
		}
		if lr.fitIntercept {
			*intercept -= step * gradIntercept
		}

		lr.nIter_[modelIdx] = iter + 1

		// Diverged weights would otherwise be stored silently and poison
		// every later Predict call.
		if err := errors.CheckNumericalStability("LogisticRegression.Fit", weights, iter+1); err != nil {
			return err
		}
		if math.IsNaN(*intercept) || math.IsInf(*intercept, 0) {
			return errors.NewNumericalInstabilityError("LogisticRegression.Fit", []float64{*intercept}, iter+1)
		}

		maxGrad := math.Abs(gradIntercept)
		for _, g := range gradWeights {
			if math.Abs(g) > maxGrad {
				maxGrad = math.Abs(g)
			}
		}
		if maxGrad < lr.tol {
			converged = true
			break
		}
	}

	if !converged {
		errors.Warn(&errors.ConvergenceWarning{
			Algorithm:  "LogisticRegression",
			Iterations: lr.nIter_[modelIdx],
			Message:    "gradient did not fall below tol",
		})
	}
	lr.state.SetFitted()
	return nil
}

// decision computes the linear score of model modelIdx for row i of X.
func (lr *LogisticRegression) decision(X mat.Matrix, i, modelIdx int) float64 {
	z := lr.intercept_[modelIdx]
	for j := 0; j < lr.nFeatures_; j++ {
		z += X.At(i, j) * lr.coef_[modelIdx][j]
	}
	return z
}

func (lr *LogisticRegression) checkPredictInput(X mat.Matrix) error {
	if !lr.state.IsFitted() {
		return errors.NewNotFittedError("LogisticRegression", "Predict")
	}
	_, cols := X.Dims()
	if cols != lr.nFeatures_ {
		return errors.NewDimensionError("LogisticRegression.Predict", lr.nFeatures_, cols, 1)
	}
	return nil
}

// Predict returns the predicted class label for each row of X.
func (lr *LogisticRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := lr.checkPredictInput(X); err != nil {
		return nil, err
	}
	nSamples, _ := X.Dims()
	predictions := mat.NewDense(nSamples, 1, nil)

	if len(lr.classes_) == 2 {
		for i := 0; i < nSamples; i++ {
			if sigmoid(lr.decision(X, i, 0)) >= 0.5 {
				predictions.Set(i, 0, float64(lr.classes_[1]))
			} else {
				predictions.Set(i, 0, float64(lr.classes_[0]))
			}
		}
		return predictions, nil
	}

	for i := 0; i < nSamples; i++ {
		best := 0
		bestScore := math.Inf(-1)
		for idx := range lr.classes_ {
			if score := lr.decision(X, i, idx); score > bestScore {
				bestScore = score
				best = idx
			}
		}
		predictions.Set(i, 0, float64(lr.classes_[best]))
	}
	return predictions, nil
}

// PredictProba returns per-class probability estimates, one column per
// class in ascending label order. Multiclass scores are normalized with a
// softmax over the one-vs-rest decision values.
func (lr *LogisticRegression) PredictProba(X mat.Matrix) (*mat.Dense, error) {
	if err := lr.checkPredictInput(X); err != nil {
		return nil, err
	}
	nSamples, _ := X.Dims()
	probas := mat.NewDense(nSamples, len(lr.classes_), nil)

	if len(lr.classes_) == 2 {
		for i := 0; i < nSamples; i++ {
			p := sigmoid(lr.decision(X, i, 0))
			probas.Set(i, 0, 1.0-p)
			probas.Set(i, 1, p)
		}
		return probas, nil
	}

	scores := make([]float64, len(lr.classes_))
	for i := 0; i < nSamples; i++ {
		maxScore := math.Inf(-1)
		for idx := range lr.classes_ {
			scores[idx] = lr.decision(X, i, idx)
			if scores[idx] > maxScore {
				maxScore = scores[idx]
			}
		}
		var sum float64
		for idx := range scores {
			scores[idx] = math.Exp(scores[idx] - maxScore)
			sum += scores[idx]
		}
		for idx := range scores {
			probas.Set(i, idx, scores[idx]/sum)
		}
	}
	return probas, nil
}

// Score returns the mean accuracy on the given data.
func (lr *LogisticRegression) Score(X, y mat.Matrix) (float64, error) {
	predictions, err := lr.Predict(X)
	if err != nil {
		return 0, err
	}
	return metrics.AccuracyMatrix(y, predictions)
}

// Coef returns the trained coefficient rows, one per binary model.
func (lr *LogisticRegression) Coef() ([][]float64, error) {
	if !lr.state.IsFitted() {
		return nil, errors.NewNotFittedError("LogisticRegression", "Coef")
	}
	out := make([][]float64, len(lr.coef_))
	for i, row := range lr.coef_ {
		out[i] = append([]float64(nil), row...)
	}
	return out, nil
}

// Intercept returns the trained intercept terms.
func (lr *LogisticRegression) Intercept() ([]float64, error) {
	if !lr.state.IsFitted() {
		return nil, errors.NewNotFittedError("LogisticRegression", "Intercept")
	}
	return append([]float64(nil), lr.intercept_...), nil
}

// Classes returns the class labels seen during Fit, in ascending order.
func (lr *LogisticRegression) Classes() []int {
	return append([]int(nil), lr.classes_...)
}

// NIter returns the number of gradient descent iterations each binary
// model actually ran.
func (lr *LogisticRegression) NIter() []int {
	return append([]int(nil), lr.nIter_...)
}

// FeatureImportances reports the mean absolute coefficient per feature,
// so the classifier can drive model-based feature selection.
func (lr *LogisticRegression) FeatureImportances() ([]float64, error) {
	if !lr.state.IsFitted() {
		return nil, errors.NewNotFittedError("LogisticRegression", "FeatureImportances")
	}
	importances := make([]float64, lr.nFeatures_)
	for _, row := range lr.coef_ {
		for j, w := range row {
			importances[j] += math.Abs(w)
		}
	}
	for j := range importances {
		importances[j] /= float64(len(lr.coef_))
	}
	return importances, nil
}

// Clone returns an unfitted copy with the same hyperparameters.
func (lr *LogisticRegression) Clone() model.Estimator {
	return NewLogisticRegression(
		WithLRC(lr.c),
		WithLRPenalty(lr.penalty),
		WithLRFitIntercept(lr.fitIntercept),
		WithLRMaxIter(lr.maxIter),
		WithLRTol(lr.tol),
		WithLRRandomState(lr.randomState),
	)
}

// uniqueLabels extracts the sorted set of integer labels from a column
// vector.
func uniqueLabels(y mat.Matrix) []int {
	rows, _ := y.Dims()
	seen := make(map[int]bool)
	for i := 0; i < rows; i++ {
		seen[int(y.At(i, 0))] = true
	}
	labels := make([]int, 0, len(seen))
	for label := range seen {
		labels = append(labels, label)
	}
	sort.Ints(labels)
	return labels
}

// binaryTargets maps y to 1.0 where the label equals positive, else 0.0.
func binaryTargets(y mat.Matrix, positive int) []float64 {
	rows, _ := y.Dims()
	targets := make([]float64, rows)
	for i := 0; i < rows; i++ {
		if int(y.At(i, 0)) == positive {
			targets[i] = 1.0
		}
	}
	return targets
}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}
