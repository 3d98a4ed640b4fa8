package model_selection

import (
	"math"
	"testing"

	"github.com/c-bata/goptuna"

	"github.com/miku/skgo/core/model"
)

func TestGridSearchCV_FindsBestThreshold(t *testing.T) {
	X, y := separableData(40)

	factory := func(params map[string]any) (model.Estimator, error) {
		return &thresholdClassifier{threshold: params["threshold"].(float64)}, nil
	}
	grid := ParamGrid{
		"threshold": {-10.0, 0.0, 10.0},
	}

	gs := NewGridSearchCV(factory, grid, NewStratifiedKFold(4, true, 1))
	if err := gs.Fit(X, y); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gs.BestScore != 1.0 {
		t.Errorf("BestScore = %v, want 1.0", gs.BestScore)
	}
	if got := gs.BestParams["threshold"].(float64); got != 0.0 {
		t.Errorf("best threshold = %v, want 0.0", got)
	}
	if len(gs.Results) != 3 {
		t.Errorf("got %d results, want 3", len(gs.Results))
	}

	best, err := gs.BestEstimator(X, y)
	if err != nil {
		t.Fatalf("BestEstimator: %v", err)
	}
	score, err := best.Score(X, y)
	if err != nil {
		t.Fatalf("scoring refit estimator: %v", err)
	}
	if score != 1.0 {
		t.Errorf("refit score = %v, want 1.0", score)
	}
}

func TestGridSearchCV_EmptyGrid(t *testing.T) {
	X, y := separableData(10)
	gs := NewGridSearchCV(func(map[string]any) (model.Estimator, error) {
		return &thresholdClassifier{}, nil
	}, ParamGrid{}, nil)
	if err := gs.Fit(X, y); err == nil {
		t.Error("expected error for empty grid")
	}
}

func TestGridSearchCV_BestEstimatorBeforeFit(t *testing.T) {
	gs := NewGridSearchCV(nil, ParamGrid{}, nil)
	if _, err := gs.BestEstimator(nil, nil); err == nil {
		t.Error("expected not-fitted error")
	}
}

func TestParamGrid_Combinations(t *testing.T) {
	grid := ParamGrid{
		"a": {1, 2},
		"b": {"x", "y", "z"},
	}
	combos := grid.combinations()
	if len(combos) != 6 {
		t.Fatalf("got %d combinations, want 6", len(combos))
	}
	seen := make(map[[2]any]bool)
	for _, combo := range combos {
		seen[[2]any{combo["a"], combo["b"]}] = true
	}
	if len(seen) != 6 {
		t.Errorf("combinations are not distinct: %v", combos)
	}
}

func TestTPESearchCV_ConvergesTowardOptimum(t *testing.T) {
	X, y := separableData(40)

	factory := func(trial goptuna.Trial) (model.Estimator, error) {
		threshold, err := trial.SuggestFloat("threshold", -5, 5)
		if err != nil {
			return nil, err
		}
		return &thresholdClassifier{threshold: threshold}, nil
	}

	ts := NewTPESearchCV(factory, NewStratifiedKFold(4, true, 1), 20)
	if err := ts.Fit(X, y); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Any threshold in (-1, 1) separates the data perfectly; sampling 20
	// candidates from [-5, 5] finds one with overwhelming probability.
	if ts.BestScore < 0.75 {
		t.Errorf("BestScore = %v, want >= 0.75", ts.BestScore)
	}
	if _, ok := ts.BestParams["threshold"]; !ok {
		t.Errorf("BestParams missing threshold: %v", ts.BestParams)
	}
	if math.IsNaN(ts.BestScore) {
		t.Error("BestScore is NaN")
	}
}
