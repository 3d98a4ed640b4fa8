// Package linear_model provides linear estimators for regression and
// classification.
package linear_model

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/miku/skgo/core/model"
	"github.com/miku/skgo/core/parallel"
	"github.com/miku/skgo/metrics"
	"github.com/miku/skgo/pkg/errors"
)

// LinearRegression fits an ordinary least squares model by solving the
// normal equations w = (XᵀX)⁻¹ Xᵀy.
type LinearRegression struct {
	model.BaseEstimator

	fitIntercept bool

	coef_      *mat.VecDense
	intercept_ float64
	nFeatures_ int
}

// LinearRegressionOption is a functional option for LinearRegression.
type LinearRegressionOption func(*LinearRegression)

// WithLinRegFitIntercept sets whether an intercept term is estimated.
func WithLinRegFitIntercept(fit bool) LinearRegressionOption {
	return func(lr *LinearRegression) {
		lr.fitIntercept = fit
	}
}

// NewLinearRegression creates an ordinary least squares regressor.
func NewLinearRegression(opts ...LinearRegressionOption) *LinearRegression {
	lr := &LinearRegression{fitIntercept: true}
	for _, opt := range opts {
		opt(lr)
	}
	return lr
}

// Fit estimates the coefficients from the training data.
func (lr *LinearRegression) Fit(X, y mat.Matrix) error {
	r, c := X.Dims()
	ry, cy := y.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("LinearRegression.Fit", "empty data", errors.ErrEmptyData)
	}
	if ry != r {
		return errors.NewDimensionError("LinearRegression.Fit", r, ry, 0)
	}
	if cy != 1 {
		return errors.NewValueError("LinearRegression.Fit", "y must be a column vector")
	}
	lr.nFeatures_ = c

	// Design matrix, with a leading column of ones when fitting an
	// intercept.
	cols := c
	offset := 0
	if lr.fitIntercept {
		cols++
		offset = 1
	}
	design := mat.NewDense(r, cols, nil)

	const parallelThreshold = 1000
	parallel.ParallelizeWithThreshold(r, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			if lr.fitIntercept {
				design.Set(i, 0, 1.0)
			}
			for j := 0; j < c; j++ {
				design.Set(i, j+offset, X.At(i, j))
			}
		}
	})

	var dt mat.Dense
	dt.CloneFrom(design.T())

	var gram mat.Dense
	gram.Mul(&dt, design)

	// gonum panics rather than erroring on some degenerate inputs, so
	// the inversion runs behind a recovery wrapper.
	var gramInv mat.Dense
	if err := errors.SafeExecute("LinearRegression.Fit", func() error {
		if err := gramInv.Inverse(&gram); err != nil {
			return errors.NewModelError("LinearRegression.Fit", "singular matrix", errors.ErrSingularMatrix)
		}
		return nil
	}); err != nil {
		return err
	}

	yVec := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		yVec.SetVec(i, y.At(i, 0))
	}

	var moment mat.VecDense
	moment.MulVec(&dt, yVec)

	solution := mat.NewVecDense(cols, nil)
	solution.MulVec(&gramInv, &moment)

	if lr.fitIntercept {
		lr.intercept_ = solution.AtVec(0)
	} else {
		lr.intercept_ = 0
	}
	lr.coef_ = mat.NewVecDense(c, nil)
	for j := 0; j < c; j++ {
		lr.coef_.SetVec(j, solution.AtVec(j+offset))
	}

	lr.SetFitted()
	return nil
}

// Predict returns the fitted values for each row of X as a column vector.
func (lr *LinearRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !lr.IsFitted() {
		return nil, errors.NewNotFittedError("LinearRegression", "Predict")
	}
	r, c := X.Dims()
	if c != lr.nFeatures_ {
		return nil, errors.NewDimensionError("LinearRegression.Predict", lr.nFeatures_, c, 1)
	}

	predictions := mat.NewDense(r, 1, nil)
	const parallelThreshold = 1000
	parallel.ParallelizeWithThreshold(r, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			v := lr.intercept_
			for j := 0; j < c; j++ {
				v += X.At(i, j) * lr.coef_.AtVec(j)
			}
			predictions.Set(i, 0, v)
		}
	})
	return predictions, nil
}

// Score returns the coefficient of determination R² on the given data.
func (lr *LinearRegression) Score(X, y mat.Matrix) (float64, error) {
	predictions, err := lr.Predict(X)
	if err != nil {
		return 0, err
	}
	return metrics.R2ScoreMatrix(y, predictions)
}

// Coef returns a copy of the fitted coefficients.
func (lr *LinearRegression) Coef() ([]float64, error) {
	if !lr.IsFitted() {
		return nil, errors.NewNotFittedError("LinearRegression", "Coef")
	}
	out := make([]float64, lr.nFeatures_)
	for j := range out {
		out[j] = lr.coef_.AtVec(j)
	}
	return out, nil
}

// Intercept returns the fitted intercept.
func (lr *LinearRegression) Intercept() (float64, error) {
	if !lr.IsFitted() {
		return 0, errors.NewNotFittedError("LinearRegression", "Intercept")
	}
	return lr.intercept_, nil
}

// FeatureImportances reports the absolute value of each coefficient, so
// the regressor can drive model-based feature selection.
func (lr *LinearRegression) FeatureImportances() ([]float64, error) {
	coef, err := lr.Coef()
	if err != nil {
		return nil, err
	}
	for j := range coef {
		coef[j] = math.Abs(coef[j])
	}
	return coef, nil
}

// Clone returns an unfitted copy with the same hyperparameters.
func (lr *LinearRegression) Clone() model.Estimator {
	return NewLinearRegression(WithLinRegFitIntercept(lr.fitIntercept))
}
