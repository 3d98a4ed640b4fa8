// Package skgo is a machine learning toolkit for Go centered on the
// supervised learning workflow: splitting data, training estimators,
// selecting features and evaluating the result.
//
// The API follows scikit-learn conventions so the translation from a
// Python notebook to Go stays mechanical: estimators expose Fit, Predict
// and Score, transformers expose Fit, Transform and FitTransform.
//
// # Quick Start
//
//	iris, _ := datasets.LoadIris()
//
//	XTrain, XTest, yTrain, yTest, err := model_selection.TrainTestSplit(
//	    iris.X, iris.Y,
//	    model_selection.WithTrainSize(0.75),
//	    model_selection.WithStratify(true),
//	    model_selection.WithSeed(42),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	clf := neighbors.NewKNeighborsClassifier(neighbors.WithKNNNeighbors(5))
//	if err := clf.Fit(XTrain, yTrain); err != nil {
//	    log.Fatal(err)
//	}
//	accuracy, _ := clf.Score(XTest, yTest)
//	fmt.Printf("accuracy: %.3f\n", accuracy)
//
// # Packages
//
//   - sklearn/model_selection: train/test splitting, k-fold cross-validation,
//     grid search and TPE hyperparameter search
//   - sklearn/feature_selection: variance threshold, univariate F-tests,
//     model-based selection and recursive feature elimination
//   - sklearn/neighbors: k-nearest neighbor classification and regression
//   - sklearn/linear_model: logistic regression and ordinary least squares
//   - sklearn/datasets: the bundled iris dataset and synthetic generators
//   - metrics: classification and regression metrics
//   - preprocessing: standard and min-max feature scaling
//   - plotting: scatter plots of datasets and classification mistakes
//   - core/model: shared estimator interfaces and gob persistence
//   - core/parallel: worker-pool helpers used by the estimators
package skgo
