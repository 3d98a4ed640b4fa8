package model_selection

import (
	"math"
	"sort"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// sortedLabels returns n0 zeros, n1 ones, n2 twos in order, mimicking a
// dataset stored grouped by class.
func sortedLabels(n0, n1, n2 int) []int {
	labels := make([]int, 0, n0+n1+n2)
	for i := 0; i < n0; i++ {
		labels = append(labels, 0)
	}
	for i := 0; i < n1; i++ {
		labels = append(labels, 1)
	}
	for i := 0; i < n2; i++ {
		labels = append(labels, 2)
	}
	return labels
}

func classCounts(labels []int, indices []int) map[int]int {
	counts := make(map[int]int)
	for _, idx := range indices {
		counts[labels[idx]]++
	}
	return counts
}

// checkPartition verifies |train|+|test| = N with no duplicates or omissions.
func checkPartition(t *testing.T, res *SplitResult, n int) {
	t.Helper()
	if len(res.TrainIndices)+len(res.TestIndices) != n {
		t.Fatalf("|train|+|test| = %d, want %d", len(res.TrainIndices)+len(res.TestIndices), n)
	}
	seen := make(map[int]bool, n)
	for _, idx := range append(append([]int(nil), res.TrainIndices...), res.TestIndices...) {
		if idx < 0 || idx >= n {
			t.Fatalf("index %d out of range [0, %d)", idx, n)
		}
		if seen[idx] {
			t.Fatalf("index %d appears twice", idx)
		}
		seen[idx] = true
	}
}

func TestTrainTestSplitIndices_Partition(t *testing.T) {
	tests := []struct {
		name      string
		nSamples  int
		trainSize float64
		wantTrain int
	}{
		{name: "three quarters of 100", nSamples: 100, trainSize: 0.75, wantTrain: 75},
		{name: "half of 151", nSamples: 151, trainSize: 0.5, wantTrain: 76},
		{name: "tiny dataset", nSamples: 3, trainSize: 0.5, wantTrain: 2},
		{name: "single test sample", nSamples: 10, trainSize: 0.9, wantTrain: 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := TrainTestSplitIndices(tt.nSamples, nil,
				WithTrainSize(tt.trainSize), WithSeed(42))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			checkPartition(t, res, tt.nSamples)
			if len(res.TrainIndices) != tt.wantTrain {
				t.Errorf("|train| = %d, want %d", len(res.TrainIndices), tt.wantTrain)
			}
		})
	}
}

func TestTrainTestSplitIndices_InvalidArguments(t *testing.T) {
	tests := []struct {
		name     string
		nSamples int
		labels   []int
		opts     []SplitOption
	}{
		{name: "empty dataset", nSamples: 0},
		{name: "train size zero", nSamples: 10, opts: []SplitOption{WithTrainSize(0)}},
		{name: "train size one", nSamples: 10, opts: []SplitOption{WithTrainSize(1)}},
		{name: "train size above one", nSamples: 10, opts: []SplitOption{WithTrainSize(1.5)}},
		{name: "negative train size", nSamples: 10, opts: []SplitOption{WithTrainSize(-0.2)}},
		{
			name:     "labels length mismatch",
			nSamples: 10,
			labels:   []int{0, 1},
		},
		{
			name:     "stratify without labels",
			nSamples: 10,
			opts:     []SplitOption{WithStratify(true)},
		},
		{
			name:     "pinned class with zero members",
			nSamples: 4,
			labels:   []int{0, 0, 1, 1},
			opts:     []SplitOption{WithStratify(true), WithClasses([]int{0, 1, 2})},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := TrainTestSplitIndices(tt.nSamples, tt.labels, tt.opts...)
			if err == nil {
				t.Error("expected invalid-argument error, got nil")
			}
		})
	}
}

func TestTrainTestSplitIndices_Deterministic(t *testing.T) {
	labels := sortedLabels(20, 20, 20)
	for _, stratify := range []bool{false, true} {
		first, err := TrainTestSplitIndices(60, labels,
			WithTrainSize(0.6), WithStratify(stratify), WithSeed(7))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		second, err := TrainTestSplitIndices(60, labels,
			WithTrainSize(0.6), WithStratify(stratify), WithSeed(7))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for i := range first.TrainIndices {
			if first.TrainIndices[i] != second.TrainIndices[i] {
				t.Fatalf("stratify=%v: train index %d differs between runs", stratify, i)
			}
		}
		for i := range first.TestIndices {
			if first.TestIndices[i] != second.TestIndices[i] {
				t.Fatalf("stratify=%v: test index %d differs between runs", stratify, i)
			}
		}
	}
}

func TestTrainTestSplitIndices_DifferentSeeds(t *testing.T) {
	first, err := TrainTestSplitIndices(100, nil, WithSeed(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := TrainTestSplitIndices(100, nil, WithSeed(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	same := true
	for i := range first.TrainIndices {
		if first.TrainIndices[i] != second.TrainIndices[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds produced identical train sets")
	}
}

// A stratified split of 150 samples sorted as 50×0, 50×1, 50×2 at f=0.5
// must put exactly 25 of each class in train and 25 in test.
func TestTrainTestSplitIndices_StratifiedExact(t *testing.T) {
	labels := sortedLabels(50, 50, 50)
	res, err := TrainTestSplitIndices(150, labels,
		WithTrainSize(0.5), WithStratify(true), WithSeed(123))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	checkPartition(t, res, 150)

	trainCounts := classCounts(labels, res.TrainIndices)
	testCounts := classCounts(labels, res.TestIndices)
	for class := 0; class < 3; class++ {
		if trainCounts[class] != 25 {
			t.Errorf("class %d: train count = %d, want 25", class, trainCounts[class])
		}
		if testCounts[class] != 25 {
			t.Errorf("class %d: test count = %d, want 25", class, testCounts[class])
		}
	}
}

// Stratified proportions stay within 1/|train| of the full dataset
// proportions even for uneven class sizes and fractions.
func TestTrainTestSplitIndices_StratifiedProportions(t *testing.T) {
	labels := sortedLabels(37, 61, 13)
	n := len(labels)
	res, err := TrainTestSplitIndices(n, labels,
		WithTrainSize(0.7), WithStratify(true), WithSeed(99))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	checkPartition(t, res, n)

	total := classCounts(labels, allIndices(n))
	trainCounts := classCounts(labels, res.TrainIndices)
	nTrain := float64(len(res.TrainIndices))
	for class, count := range total {
		want := float64(count) / float64(n)
		got := float64(trainCounts[class]) / nTrain
		if math.Abs(got-want) > 1/nTrain {
			t.Errorf("class %d: train proportion %.4f deviates from %.4f by more than %.4f",
				class, got, want, 1/nTrain)
		}
	}
}

// Without stratification a grouped dataset can lose an entire class to the
// test subset. Scanning a window of seeds must surface such a split for a
// dataset whose smallest class has a single member.
func TestTrainTestSplitIndices_UnstratifiedCanDropClass(t *testing.T) {
	labels := []int{0, 1, 2, 2, 2, 2}
	found := false
	for seed := int64(0); seed < 64; seed++ {
		res, err := TrainTestSplitIndices(len(labels), labels,
			WithTrainSize(0.5), WithSeed(seed))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		counts := classCounts(labels, res.TrainIndices)
		if counts[0] == 0 || counts[1] == 0 {
			found = true
			break
		}
	}
	if !found {
		t.Error("expected at least one seed to produce a train set missing a class")
	}
}

// The stratified path never loses a class that has at least one sample per
// subset's worth of members.
func TestTrainTestSplitIndices_StratifiedKeepsAllClasses(t *testing.T) {
	labels := sortedLabels(50, 50, 50)
	for seed := int64(0); seed < 16; seed++ {
		res, err := TrainTestSplitIndices(150, labels,
			WithTrainSize(0.5), WithStratify(true), WithSeed(seed))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		trainCounts := classCounts(labels, res.TrainIndices)
		testCounts := classCounts(labels, res.TestIndices)
		for class := 0; class < 3; class++ {
			if trainCounts[class] == 0 || testCounts[class] == 0 {
				t.Fatalf("seed %d: class %d missing from a subset", seed, class)
			}
		}
	}
}

func TestTrainTestSplit_Matrices(t *testing.T) {
	// Encode the row identity in the single feature so rows can be traced
	// back through the split.
	n := 30
	data := make([]float64, n)
	labels := make([]float64, n)
	for i := 0; i < n; i++ {
		data[i] = float64(i)
		labels[i] = float64(i % 3)
	}
	X := mat.NewDense(n, 1, data)
	y := mat.NewDense(n, 1, labels)

	XTrain, XTest, yTrain, yTest, err := TrainTestSplit(X, y,
		WithTrainSize(0.8), WithStratify(true), WithSeed(5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	trainRows, _ := XTrain.Dims()
	testRows, _ := XTest.Dims()
	if trainRows != 24 || testRows != 6 {
		t.Fatalf("got %d/%d rows, want 24/6", trainRows, testRows)
	}

	// Every original row appears exactly once, with its label attached.
	seen := make(map[int]bool, n)
	check := func(Xs, ys *mat.Dense, rows int) {
		for i := 0; i < rows; i++ {
			idx := int(Xs.At(i, 0))
			if seen[idx] {
				t.Fatalf("row %d appears twice", idx)
			}
			seen[idx] = true
			if got, want := ys.At(i, 0), float64(idx%3); got != want {
				t.Errorf("row %d: label %v, want %v", idx, got, want)
			}
		}
	}
	check(XTrain, yTrain, trainRows)
	check(XTest, yTest, testRows)
	if len(seen) != n {
		t.Errorf("saw %d distinct rows, want %d", len(seen), n)
	}
}

func TestTrainTestSplit_DimensionMismatch(t *testing.T) {
	X := mat.NewDense(4, 2, nil)
	y := mat.NewDense(3, 1, nil)
	if _, _, _, _, err := TrainTestSplit(X, y); err == nil {
		t.Error("expected dimension error, got nil")
	}
}

func allIndices(n int) []int {
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	return indices
}

// Guard against accidental reuse of shared backing arrays between calls.
func TestTrainTestSplitIndices_ResultIsStable(t *testing.T) {
	res, err := TrainTestSplitIndices(20, nil, WithSeed(3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snapshot := append([]int(nil), res.TrainIndices...)
	if _, err := TrainTestSplitIndices(20, nil, WithSeed(4)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sort.Ints(snapshot)
	current := append([]int(nil), res.TrainIndices...)
	sort.Ints(current)
	for i := range snapshot {
		if snapshot[i] != current[i] {
			t.Fatal("split result mutated by a later invocation")
		}
	}
}
