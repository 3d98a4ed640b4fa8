// Package log defines standard attribute keys for machine learning operations.
//
// Using these standard keys enables consistent log analysis and filtering
// across the supervised learning workflow: splitting, fitting, scoring and
// feature selection.

package log

// Model and Operation Context
const (
	// ModelNameKey identifies the type of machine learning model.
	// Examples: "KNeighborsClassifier", "LogisticRegression", "StandardScaler"
	ModelNameKey = "model.name"

	// OperationKey specifies the machine learning operation being performed.
	// Standard values: "fit", "predict", "transform", "split", "score"
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is performing the operation.
	// Examples: "model_selection", "feature_selection", "metrics"
	ComponentKey = "ml.component"
)

// Data Shape and Characteristics
const (
	// SamplesKey indicates the number of samples (rows) in the dataset.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of features (columns) in the dataset.
	FeaturesKey = "data.features"

	// ClassesKey indicates the number of distinct class labels.
	ClassesKey = "data.classes"

	// TrainSizeKey indicates the number of samples in a train subset.
	TrainSizeKey = "split.train_size"

	// TestSizeKey indicates the number of samples in a test subset.
	TestSizeKey = "split.test_size"

	// StratifyKey indicates whether a split preserved class proportions.
	StratifyKey = "split.stratify"

	// SeedKey records the random seed used for a deterministic operation.
	SeedKey = "split.seed"

	// FoldKey identifies a cross-validation fold index.
	FoldKey = "cv.fold"

	// SelectedKey indicates the number of features kept by a selector.
	SelectedKey = "selection.n_selected"
)

// Performance Metrics
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// ScoreKey records an evaluation score (accuracy, R², mean CV score).
	ScoreKey = "eval.score"
)
