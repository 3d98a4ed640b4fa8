package feature_selection

import (
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/miku/skgo/pkg/errors"
)

// columnMeanImporter reports each feature's mean value as its importance.
// It makes elimination order fully predictable in tests.
type columnMeanImporter struct {
	importances []float64
}

func (c *columnMeanImporter) Fit(X, y mat.Matrix) error {
	rows, cols := X.Dims()
	c.importances = make([]float64, cols)
	for j := 0; j < cols; j++ {
		var sum float64
		for i := 0; i < rows; i++ {
			sum += X.At(i, j)
		}
		c.importances[j] = sum / float64(rows)
	}
	return nil
}

func (c *columnMeanImporter) FeatureImportances() ([]float64, error) {
	if c.importances == nil {
		return nil, errors.NewNotFittedError("columnMeanImporter", "FeatureImportances")
	}
	return c.importances, nil
}

// meanData has four features with column means 1, 4, 2, 8.
func meanData() (*mat.Dense, *mat.Dense) {
	X := mat.NewDense(2, 4, []float64{
		1, 3, 2, 8,
		1, 5, 2, 8,
	})
	y := mat.NewDense(2, 1, []float64{0, 1})
	return X, y
}

func TestVarianceThreshold(t *testing.T) {
	X := mat.NewDense(4, 3, []float64{
		1, 0, 1,
		2, 0, 1,
		3, 0, 1,
		4, 0, 1,
	})

	vt := NewVarianceThreshold(0)
	reduced, err := vt.FitTransform(X)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rows, cols := reduced.Dims()
	if rows != 4 || cols != 1 {
		t.Fatalf("reduced shape = (%d, %d), want (4, 1)", rows, cols)
	}
	for i := 0; i < 4; i++ {
		if reduced.At(i, 0) != float64(i+1) {
			t.Errorf("row %d = %v, want %v", i, reduced.At(i, 0), float64(i+1))
		}
	}
	if vt.Variances[1] != 0 || vt.Variances[2] != 0 {
		t.Errorf("constant columns should have zero variance, got %v", vt.Variances)
	}
}

func TestVarianceThreshold_AllConstant(t *testing.T) {
	X := mat.NewDense(3, 2, []float64{
		7, 7,
		7, 7,
		7, 7,
	})
	vt := NewVarianceThreshold(0)
	if err := vt.Fit(X); err == nil {
		t.Error("expected error when every feature is constant")
	}
}

func TestVarianceThreshold_NegativeThreshold(t *testing.T) {
	vt := NewVarianceThreshold(-1)
	if err := vt.Fit(mat.NewDense(2, 1, []float64{1, 2})); err == nil {
		t.Error("expected error for negative threshold")
	}
}

func TestSelectFromModel_MeanThreshold(t *testing.T) {
	X, y := meanData()

	// Column means 1, 4, 2, 8; mean importance 3.75 keeps features 1 and 3.
	sfm := NewSelectFromModel(&columnMeanImporter{})
	reduced, err := sfm.FitTransform(X, y)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, cols := reduced.Dims()
	if cols != 2 {
		t.Fatalf("kept %d features, want 2", cols)
	}

	mask, err := sfm.SupportMask()
	if err != nil {
		t.Fatalf("SupportMask: %v", err)
	}
	want := []bool{false, true, false, true}
	for i := range want {
		if mask[i] != want[i] {
			t.Errorf("mask[%d] = %v, want %v", i, mask[i], want[i])
		}
	}
}

func TestSelectFromModel_ExplicitThresholdAndCap(t *testing.T) {
	X, y := meanData()

	sfm := NewSelectFromModel(&columnMeanImporter{})
	sfm.Threshold = 2
	sfm.MaxFeatures = 2
	if err := sfm.Fit(X, y); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Threshold 2 admits features 1, 2, 3; the cap keeps the two most
	// important: features 1 and 3.
	support, err := sfm.GetSupport()
	if err != nil {
		t.Fatalf("GetSupport: %v", err)
	}
	if support.Count() != 2 || !support.Test(1) || !support.Test(3) {
		t.Errorf("unexpected support: %v", support)
	}
}

func TestSelectFromModel_ThresholdTooHigh(t *testing.T) {
	X, y := meanData()
	sfm := NewSelectFromModel(&columnMeanImporter{})
	sfm.Threshold = 100
	if err := sfm.Fit(X, y); err == nil {
		t.Error("expected error when nothing reaches the threshold")
	}
}

func TestRFE(t *testing.T) {
	X, y := meanData()

	rfe := NewRFE(&columnMeanImporter{}, 2, 1)
	reduced, err := rfe.FitTransform(X, y)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Elimination order by lowest mean: feature 0 (mean 1), then feature 2
	// (mean 2). Features 1 and 3 survive.
	_, cols := reduced.Dims()
	if cols != 2 {
		t.Fatalf("kept %d features, want 2", cols)
	}
	mask, err := rfe.SupportMask()
	if err != nil {
		t.Fatalf("SupportMask: %v", err)
	}
	want := []bool{false, true, false, true}
	for i := range want {
		if mask[i] != want[i] {
			t.Errorf("mask[%d] = %v, want %v", i, mask[i], want[i])
		}
	}

	// Survivors rank 1; feature 2 was eliminated last of the two, so it
	// ranks closer to the survivors than feature 0.
	wantRanking := []int{3, 1, 2, 1}
	for i := range wantRanking {
		if rfe.Ranking[i] != wantRanking[i] {
			t.Errorf("Ranking[%d] = %d, want %d", i, rfe.Ranking[i], wantRanking[i])
		}
	}
}

func TestRFE_StepLargerThanRemainder(t *testing.T) {
	X, y := meanData()

	// Step 3 would overshoot: only 2 features may be dropped.
	rfe := NewRFE(&columnMeanImporter{}, 2, 3)
	if err := rfe.Fit(X, y); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rfe.NSelected() != 2 {
		t.Errorf("NSelected() = %d, want 2", rfe.NSelected())
	}
}

func TestRFE_InvalidTarget(t *testing.T) {
	X, y := meanData()
	for _, n := range []int{0, 5} {
		rfe := NewRFE(&columnMeanImporter{}, n, 1)
		if err := rfe.Fit(X, y); err == nil {
			t.Errorf("n=%d: expected error, got nil", n)
		}
	}
}
