// Package model provides the shared interfaces implemented by estimators,
// transformers and selectors across the library.
package model

import (
	"gonum.org/v1/gonum/mat"
)

// Fitter は学習可能なモデルのインターフェース
type Fitter interface {
	// Fit はモデルを訓練データで学習させる
	Fit(X, y mat.Matrix) error
}

// Predictor は予測可能なモデルのインターフェース
type Predictor interface {
	// Predict は入力データに対する予測を行う
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Scorer is the interface for models that can compute a score.
// Classifiers report accuracy, regressors report R².
type Scorer interface {
	Score(X mat.Matrix, y mat.Matrix) (float64, error)
}

// Estimator combines fitting, prediction and scoring. Cross-validation and
// hyperparameter search operate on this interface.
type Estimator interface {
	Fitter
	Predictor
	Scorer
}

// Cloner is implemented by estimators that can produce a fresh, unfitted
// copy of themselves with identical hyperparameters. Cross-validation
// requires it so each fold trains an independent model.
type Cloner interface {
	Clone() Estimator
}

// Transformer はデータ変換のインターフェース
type Transformer interface {
	// Fit は変換に必要なパラメータを学習する
	Fit(X mat.Matrix) error

	// Transform はデータを変換する
	Transform(X mat.Matrix) (mat.Matrix, error)

	// FitTransform はFitとTransformを同時に実行する
	FitTransform(X mat.Matrix) (mat.Matrix, error)
}

// SupervisedTransformer is the interface for transformers whose parameters
// depend on labels, such as feature selectors.
type SupervisedTransformer interface {
	Fit(X, y mat.Matrix) error
	Transform(X mat.Matrix) (mat.Matrix, error)
	FitTransform(X, y mat.Matrix) (mat.Matrix, error)
}

// FeatureImporter is implemented by estimators that expose a per-feature
// importance measure. Model-based feature selection drives this interface.
type FeatureImporter interface {
	FeatureImportances() ([]float64, error)
}
