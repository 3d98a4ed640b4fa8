// Package datasets provides small bundled datasets and synthetic data
// generators for tests, examples and benchmarks.
package datasets

import (
	_ "embed"
	"encoding/csv"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/miku/skgo/pkg/errors"
)

//go:embed iris.csv
var irisCSV string

// Dataset bundles a feature matrix with its targets and metadata.
type Dataset struct {
	// X holds one sample per row.
	X *mat.Dense
	// Y holds the target per sample as a column vector.
	Y *mat.Dense
	// FeatureNames names the columns of X.
	FeatureNames []string
	// TargetNames names the class labels, indexed by label value. Empty
	// for regression targets.
	TargetNames []string
}

// NSamples returns the number of rows in the dataset.
func (d *Dataset) NSamples() int {
	r, _ := d.X.Dims()
	return r
}

// NFeatures returns the number of columns in the dataset.
func (d *Dataset) NFeatures() int {
	_, c := d.X.Dims()
	return c
}

// Labels returns the targets as an int slice, for APIs that take class
// labels rather than a target matrix.
func (d *Dataset) Labels() []int {
	r, _ := d.Y.Dims()
	labels := make([]int, r)
	for i := 0; i < r; i++ {
		labels[i] = int(d.Y.At(i, 0))
	}
	return labels
}

// LoadIris returns Fisher's iris dataset: 150 samples, 4 features, 3
// balanced classes.
func LoadIris() (*Dataset, error) {
	reader := csv.NewReader(strings.NewReader(irisCSV))
	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "datasets: parsing bundled iris data")
	}
	if len(records) < 2 {
		return nil, errors.New("datasets: bundled iris data is empty")
	}

	header := records[0]
	nFeatures := len(header) - 1
	rows := records[1:]

	X := mat.NewDense(len(rows), nFeatures, nil)
	Y := mat.NewDense(len(rows), 1, nil)
	for i, record := range rows {
		if len(record) != nFeatures+1 {
			return nil, errors.Newf("datasets: iris row %d has %d fields, want %d", i+1, len(record), nFeatures+1)
		}
		for j := 0; j < nFeatures; j++ {
			v, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				return nil, errors.Wrapf(err, "datasets: iris row %d field %d", i+1, j)
			}
			X.Set(i, j, v)
		}
		label, err := strconv.Atoi(record[nFeatures])
		if err != nil {
			return nil, errors.Wrapf(err, "datasets: iris row %d label", i+1)
		}
		Y.Set(i, 0, float64(label))
	}

	return &Dataset{
		X:            X,
		Y:            Y,
		FeatureNames: header[:nFeatures],
		TargetNames:  []string{"setosa", "versicolor", "virginica"},
	}, nil
}
