package model

import "gonum.org/v1/gonum/mat"

// Fitter is the interface for estimators that learn from data.
type Fitter interface {
	// Fit trains the estimator on the given data.
	Fit(X, y mat.Matrix) error
}

// Predictor is the interface for estimators that produce predictions.
type Predictor interface {
	// Predict returns predictions for the input data.
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Scorer is the interface for estimators that can score themselves.
type Scorer interface {
	// Score returns an estimator-defined quality score for the prediction.
	Score(X, y mat.Matrix) (float64, error)
}

// Classifier combines the interfaces a classification model satisfies.
type Classifier interface {
	Fitter
	Predictor
	Scorer

	// PredictProba returns probability estimates for each class.
	PredictProba(X mat.Matrix) (mat.Matrix, error)

	// Classes returns the unique classes seen during fitting.
	Classes() []int
}

// Persistable is the interface for estimators that can be saved and loaded.
type Persistable interface {
	// Save writes the estimator to a file.
	Save(path string) error

	// Load restores the estimator from a file.
	Load(path string) error
}
