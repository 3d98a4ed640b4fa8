package model_test

import (
	"bytes"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/miku/skgo/core/model"
	"github.com/miku/skgo/preprocessing"
)

func TestSaveLoadModel(t *testing.T) {
	X := mat.NewDense(3, 2, []float64{
		1, 10,
		2, 20,
		3, 30,
	})
	scaler := preprocessing.NewStandardScalerDefault()
	if err := scaler.Fit(X); err != nil {
		t.Fatalf("Fit: %v", err)
	}

	path := filepath.Join(t.TempDir(), "scaler.gob")
	if err := model.SaveModel(scaler, path); err != nil {
		t.Fatalf("SaveModel: %v", err)
	}

	restored := &preprocessing.StandardScaler{}
	if err := model.LoadModel(restored, path); err != nil {
		t.Fatalf("LoadModel: %v", err)
	}

	if !restored.IsFitted() {
		t.Error("restored scaler should report fitted")
	}
	if restored.NFeatures != scaler.NFeatures {
		t.Errorf("NFeatures = %d, want %d", restored.NFeatures, scaler.NFeatures)
	}
	for j := range scaler.Mean {
		if restored.Mean[j] != scaler.Mean[j] {
			t.Errorf("Mean[%d] = %v, want %v", j, restored.Mean[j], scaler.Mean[j])
		}
		if restored.Scale[j] != scaler.Scale[j] {
			t.Errorf("Scale[%d] = %v, want %v", j, restored.Scale[j], scaler.Scale[j])
		}
	}
}

func TestSaveLoadModel_Writer(t *testing.T) {
	scaler := preprocessing.NewMinMaxScalerDefault()
	if err := scaler.Fit(mat.NewDense(2, 1, []float64{0, 10})); err != nil {
		t.Fatalf("Fit: %v", err)
	}

	var buf bytes.Buffer
	if err := model.SaveModelToWriter(scaler, &buf); err != nil {
		t.Fatalf("SaveModelToWriter: %v", err)
	}

	restored := &preprocessing.MinMaxScaler{}
	if err := model.LoadModelFromReader(restored, &buf); err != nil {
		t.Fatalf("LoadModelFromReader: %v", err)
	}
	if restored.Min[0] != 0 || restored.Max[0] != 10 {
		t.Errorf("restored range = [%v, %v], want [0, 10]", restored.Min[0], restored.Max[0])
	}
}

func TestLoadModel_MissingFile(t *testing.T) {
	restored := &preprocessing.StandardScaler{}
	if err := model.LoadModel(restored, filepath.Join(t.TempDir(), "absent.gob")); err == nil {
		t.Error("expected error for missing file")
	}
}
