package plotting

import (
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestScatterClasses(t *testing.T) {
	X := mat.NewDense(4, 2, []float64{
		0, 0,
		1, 1,
		5, 5,
		6, 6,
	})
	labels := []int{0, 0, 1, 1}

	path := filepath.Join(t.TempDir(), "scatter.png")
	if err := ScatterClasses(X, labels, "clusters", path); err != nil {
		t.Fatalf("ScatterClasses: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("output file missing: %v", err)
	}
	if info.Size() == 0 {
		t.Error("output file is empty")
	}
}

func TestScatterClasses_Errors(t *testing.T) {
	t.Run("single feature", func(t *testing.T) {
		X := mat.NewDense(2, 1, []float64{0, 1})
		err := ScatterClasses(X, []int{0, 1}, "", filepath.Join(t.TempDir(), "out.png"))
		if err == nil {
			t.Error("expected error, got nil")
		}
	})
	t.Run("label mismatch", func(t *testing.T) {
		X := mat.NewDense(2, 2, []float64{0, 0, 1, 1})
		err := ScatterClasses(X, []int{0}, "", filepath.Join(t.TempDir(), "out.png"))
		if err == nil {
			t.Error("expected error, got nil")
		}
	})
}

func TestMisclassifications(t *testing.T) {
	X := mat.NewDense(4, 2, []float64{
		0, 0,
		1, 1,
		5, 5,
		6, 6,
	})
	yTrue := []int{0, 0, 1, 1}
	yPred := []int{0, 1, 1, 1}

	path := filepath.Join(t.TempDir(), "errors.png")
	if err := Misclassifications(X, yTrue, yPred, "mistakes", path); err != nil {
		t.Fatalf("Misclassifications: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("output file missing: %v", err)
	}
}

func TestMisclassifications_AllCorrect(t *testing.T) {
	X := mat.NewDense(2, 2, []float64{0, 0, 5, 5})
	labels := []int{0, 1}

	path := filepath.Join(t.TempDir(), "clean.png")
	if err := Misclassifications(X, labels, labels, "clean", path); err != nil {
		t.Fatalf("Misclassifications: %v", err)
	}
}
