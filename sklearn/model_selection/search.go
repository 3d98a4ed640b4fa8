package model_selection

import (
	"sort"

	"github.com/c-bata/goptuna"
	"github.com/c-bata/goptuna/tpe"
	"gonum.org/v1/gonum/mat"

	"github.com/miku/skgo/core/model"
	"github.com/miku/skgo/pkg/errors"
	"github.com/miku/skgo/pkg/log"
)

// ParamGrid maps a hyperparameter name to its candidate values.
type ParamGrid map[string][]any

// EstimatorFactory builds a fresh estimator from a concrete parameter
// assignment. The returned estimator must implement model.Cloner.
type EstimatorFactory func(params map[string]any) (model.Estimator, error)

// SearchResult records one evaluated parameter assignment.
type SearchResult struct {
	Params    map[string]any
	MeanScore float64
	StdScore  float64
}

// GridSearchCV exhaustively evaluates every combination of a parameter grid
// with cross-validation and keeps the best-scoring assignment.
type GridSearchCV struct {
	factory  EstimatorFactory
	grid     ParamGrid
	splitter Splitter

	BestParams map[string]any
	BestScore  float64
	Results    []SearchResult

	fitted bool
}

// NewGridSearchCV creates a grid search over the given parameter grid.
// A nil splitter defaults to shuffled 5-fold.
func NewGridSearchCV(factory EstimatorFactory, grid ParamGrid, splitter Splitter) *GridSearchCV {
	if splitter == nil {
		splitter = NewKFold(5, true, 0)
	}
	return &GridSearchCV{
		factory:  factory,
		grid:     grid,
		splitter: splitter,
	}
}

// Fit evaluates all grid points against (X, y).
func (gs *GridSearchCV) Fit(X, y mat.Matrix) error {
	if gs.factory == nil {
		return errors.NewValidationError("factory", "estimator factory is required", nil)
	}
	combos := gs.grid.combinations()
	if len(combos) == 0 {
		return errors.NewValueError("GridSearchCV.Fit", "empty parameter grid")
	}

	logger := log.GetLoggerWithName("model_selection")

	gs.Results = gs.Results[:0]
	gs.BestScore = 0
	gs.BestParams = nil
	for _, params := range combos {
		est, err := gs.factory(params)
		if err != nil {
			return errors.Wrap(err, "building estimator from grid point")
		}
		scores, err := CrossValScore(est, X, y, gs.splitter)
		if err != nil {
			return err
		}
		result := SearchResult{Params: params, MeanScore: scores.Mean(), StdScore: scores.Std()}
		gs.Results = append(gs.Results, result)
		if gs.BestParams == nil || result.MeanScore > gs.BestScore {
			gs.BestScore = result.MeanScore
			gs.BestParams = params
		}
	}
	gs.fitted = true

	logger.Info("grid search finished",
		log.OperationKey, "fit",
		"n_candidates", len(combos),
		log.ScoreKey, gs.BestScore,
	)
	return nil
}

// BestEstimator refits an estimator with the best parameters on (X, y).
func (gs *GridSearchCV) BestEstimator(X, y mat.Matrix) (model.Estimator, error) {
	if !gs.fitted {
		return nil, errors.NewNotFittedError("GridSearchCV", "BestEstimator")
	}
	est, err := gs.factory(gs.BestParams)
	if err != nil {
		return nil, err
	}
	if err := est.Fit(X, y); err != nil {
		return nil, err
	}
	return est, nil
}

// combinations expands the grid into the cross product of all values, with
// deterministic ordering over parameter names.
func (g ParamGrid) combinations() []map[string]any {
	names := make([]string, 0, len(g))
	for name := range g {
		names = append(names, name)
	}
	sort.Strings(names)

	combos := []map[string]any{{}}
	for _, name := range names {
		values := g[name]
		next := make([]map[string]any, 0, len(combos)*len(values))
		for _, combo := range combos {
			for _, v := range values {
				expanded := make(map[string]any, len(combo)+1)
				for k, cv := range combo {
					expanded[k] = cv
				}
				expanded[name] = v
				next = append(next, expanded)
			}
		}
		combos = next
	}
	if len(g) == 0 {
		return nil
	}
	return combos
}

// TrialFactory builds an estimator from a goptuna trial, calling the
// trial's Suggest methods for each hyperparameter.
type TrialFactory func(trial goptuna.Trial) (model.Estimator, error)

// TPESearchCV searches hyperparameters with goptuna's tree-structured
// Parzen estimator sampler, maximizing the mean cross-validation score.
type TPESearchCV struct {
	factory  TrialFactory
	splitter Splitter
	nTrials  int

	BestParams map[string]any
	BestScore  float64
}

// NewTPESearchCV creates a TPE-based hyperparameter search running the
// given number of trials.
func NewTPESearchCV(factory TrialFactory, splitter Splitter, nTrials int) *TPESearchCV {
	if splitter == nil {
		splitter = NewKFold(5, true, 0)
	}
	if nTrials <= 0 {
		nTrials = 20
	}
	return &TPESearchCV{
		factory:  factory,
		splitter: splitter,
		nTrials:  nTrials,
	}
}

// Fit runs the study against (X, y).
func (ts *TPESearchCV) Fit(X, y mat.Matrix) error {
	if ts.factory == nil {
		return errors.NewValidationError("factory", "trial factory is required", nil)
	}

	objective := func(trial goptuna.Trial) (float64, error) {
		est, err := ts.factory(trial)
		if err != nil {
			return 0, err
		}
		scores, err := CrossValScore(est, X, y, ts.splitter)
		if err != nil {
			return 0, err
		}
		return scores.Mean(), nil
	}

	study, err := goptuna.CreateStudy("skgo-tpe-search",
		goptuna.StudyOptionDirection(goptuna.StudyDirectionMaximize),
		goptuna.StudyOptionSampler(tpe.NewSampler()))
	if err != nil {
		return errors.Wrap(err, "creating goptuna study")
	}
	if err := study.Optimize(objective, ts.nTrials); err != nil {
		return errors.Wrap(err, "optimizing goptuna study")
	}

	ts.BestScore, err = study.GetBestValue()
	if err != nil {
		return errors.Wrap(err, "reading best value")
	}
	ts.BestParams, err = study.GetBestParams()
	if err != nil {
		return errors.Wrap(err, "reading best params")
	}
	return nil
}
