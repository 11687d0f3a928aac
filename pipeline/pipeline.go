// Package pipeline wires the churn workflow end to end: validate the raw
// dataset, coerce the known-dirty numeric columns, encode features against
// a frozen schema, train the gradient-boosted classifier, and record the
// run with its schema and model artifacts.
package pipeline

import (
	"log/slog"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/churnpipe/boosting"
	"github.com/YuminosukeSato/churnpipe/dataset"
	"github.com/YuminosukeSato/churnpipe/experiment"
	"github.com/YuminosukeSato/churnpipe/metrics"
	"github.com/YuminosukeSato/churnpipe/pkg/errors"
	"github.com/YuminosukeSato/churnpipe/pkg/log"
	"github.com/YuminosukeSato/churnpipe/preprocessing"
	"github.com/YuminosukeSato/churnpipe/validation"
)

// Artifact file names within a run's artifact directory.
const (
	SchemaArtifact = "feature_schema.json"
	ModelArtifact  = "model.gob"
)

// Config controls a training run. The zero value is not usable; start
// from DefaultConfig.
type Config struct {
	// TargetColumn is the binary outcome column.
	TargetColumn string

	// IDColumns are identifier columns dropped before encoding.
	IDColumns []string

	// CoerceColumns are text columns coerced to numeric before encoding
	// (the telco TotalCharges column ships as text with blank cells). The
	// coercion is frozen into the feature schema, so serving batches get
	// the same treatment.
	CoerceColumns []string

	// MissingIndicator adds explicit missing-indicator columns for
	// expanded categoricals instead of folding missing into the
	// reference category.
	MissingIndicator bool

	// Validator checks the raw dataset before any transformation. A nil
	// validator skips the check.
	Validator *validation.Validator

	TestSize float64
	Seed     int

	NumIterations int
	LearningRate  float64
	MaxDepth      int
}

// DefaultConfig returns the standard telco churn configuration.
func DefaultConfig() Config {
	return Config{
		TargetColumn:  preprocessing.DefaultTargetColumn,
		IDColumns:     []string{"customerID"},
		CoerceColumns: []string{"TotalCharges"},
		Validator:     validation.NewTelco(),
		TestSize:      0.2,
		Seed:          42,
		NumIterations: 300,
		LearningRate:  0.1,
		MaxDepth:      6,
	}
}

// TrainResult holds everything a training run produced.
type TrainResult struct {
	RunID     string
	Schema    *preprocessing.FeatureSchema
	Model     *boosting.GBTClassifier
	Accuracy  float64
	Recall    float64
	Report    string
	Confusion *metrics.ConfusionMatrix
}

// Train runs the full training workflow on a raw dataset and records the
// run in the tracker. The input dataset is not modified.
func Train(cfg Config, tracker *experiment.Tracker, ds *dataset.Dataset, datasetRef string) (*TrainResult, error) {
	start := time.Now()

	if cfg.Validator != nil {
		slog.Info("validating dataset",
			log.StageKey, "validate",
			log.RowsKey, ds.NumRows(),
			log.ColumnsKey, ds.NumCols(),
		)
		ok, failed := cfg.Validator.Validate(ds)
		if !ok {
			return nil, errors.Newf("churnpipe: dataset validation failed: %v", failed)
		}
	}

	work := ds.Clone()
	for _, name := range cfg.IDColumns {
		if work.HasColumn(name) {
			if err := work.DropColumn(name); err != nil {
				return nil, err
			}
		}
	}

	slog.Info("encoding features", log.StageKey, "encode", log.ColumnKey, cfg.TargetColumn)
	encoder := preprocessing.NewFeatureEncoder().
		WithTargetColumn(cfg.TargetColumn).
		WithMissingIndicator(cfg.MissingIndicator).
		WithCoerceColumns(cfg.CoerceColumns...)
	encoded, err := encoder.FitTransform(work)
	if err != nil {
		return nil, err
	}
	schema, err := encoder.Schema()
	if err != nil {
		return nil, err
	}

	X, err := encoded.Matrix(schema.FeatureNames())
	if err != nil {
		return nil, err
	}
	y, err := preprocessing.TargetVector(encoded, cfg.TargetColumn)
	if err != nil {
		return nil, err
	}

	split, err := boosting.TrainTestSplit(X, y, cfg.TestSize, cfg.Seed)
	if err != nil {
		return nil, err
	}

	run, err := tracker.StartRun()
	if err != nil {
		return nil, err
	}
	run.LogInput(datasetRef)
	run.SetTag("model", "gbt_classifier")

	clf := boosting.NewGBTClassifier().
		WithNumIterations(cfg.NumIterations).
		WithLearningRate(cfg.LearningRate).
		WithMaxDepth(cfg.MaxDepth).
		WithRandomState(cfg.Seed)
	run.LogParams(clf.GetParams())
	run.LogParam("test_size", cfg.TestSize)
	run.LogParam("missing_indicator", cfg.MissingIndicator)

	slog.Info("training classifier",
		log.StageKey, "train",
		log.ModelNameKey, "GBTClassifier",
		log.RowsKey, split.YTrain.Len(),
		log.ColumnsKey, len(schema.FeatureNames()),
	)
	if err := clf.Fit(split.XTrain, split.YTrain); err != nil {
		return nil, err
	}

	pred, err := clf.Predict(split.XTest)
	if err != nil {
		return nil, err
	}
	result, err := evaluate(split.YTest, pred)
	if err != nil {
		return nil, err
	}
	result.RunID = run.ID
	result.Schema = schema
	result.Model = clf

	run.LogMetric("accuracy", result.Accuracy)
	run.LogMetric("recall", result.Recall)

	if err := schema.Save(run.ArtifactPath(SchemaArtifact)); err != nil {
		return nil, err
	}
	if err := clf.Save(run.ArtifactPath(ModelArtifact)); err != nil {
		return nil, err
	}
	if err := run.End(); err != nil {
		return nil, err
	}

	slog.Info("training run complete",
		log.StageKey, "train",
		log.RunIDKey, run.ID,
		log.AccuracyKey, result.Accuracy,
		log.RecallKey, result.Recall,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return result, nil
}

// evaluate computes the test-set report from true and predicted labels.
func evaluate(yTrue *mat.VecDense, yPred mat.Matrix) (*TrainResult, error) {
	predVec, err := toVec(yPred)
	if err != nil {
		return nil, err
	}

	acc, err := metrics.Accuracy(yTrue, predVec)
	if err != nil {
		return nil, err
	}
	rec, err := metrics.Recall(yTrue, predVec)
	if err != nil {
		return nil, err
	}
	report, err := metrics.ClassificationReport(yTrue, predVec)
	if err != nil {
		return nil, err
	}
	cm, err := metrics.NewConfusionMatrix(yTrue, predVec)
	if err != nil {
		return nil, err
	}
	return &TrainResult{Accuracy: acc, Recall: rec, Report: report, Confusion: cm}, nil
}

// toVec extracts the first column of an n x 1 prediction matrix.
func toVec(m mat.Matrix) (*mat.VecDense, error) {
	if v, ok := m.(*mat.VecDense); ok {
		return v, nil
	}
	rows, cols := m.Dims()
	if cols != 1 {
		return nil, errors.NewDimensionError("pipeline.toVec", 1, cols, 1)
	}
	v := mat.NewVecDense(rows, nil)
	for i := 0; i < rows; i++ {
		v.SetVec(i, m.At(i, 0))
	}
	return v, nil
}
