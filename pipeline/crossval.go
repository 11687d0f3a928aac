package pipeline

import (
	"log/slog"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/churnpipe/boosting"
	"github.com/YuminosukeSato/churnpipe/dataset"
	"github.com/YuminosukeSato/churnpipe/metrics"
	"github.com/YuminosukeSato/churnpipe/pkg/log"
	"github.com/YuminosukeSato/churnpipe/preprocessing"
)

// CrossValidate evaluates the configured classifier with k-fold cross
// validation and returns the per-fold test accuracies. Folds are shuffled
// with the config seed, so repeat runs score identical partitions.
func CrossValidate(cfg Config, ds *dataset.Dataset, folds int) ([]float64, error) {
	work := ds.Clone()
	for _, name := range cfg.IDColumns {
		if work.HasColumn(name) {
			if err := work.DropColumn(name); err != nil {
				return nil, err
			}
		}
	}

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

	kf := boosting.NewKFold(folds, true, cfg.Seed)
	scores := make([]float64, 0, kf.NSplits)
	for i, fold := range kf.Split(y.Len()) {
		XTrain, yTrain := takeRows(X, y, fold.TrainIndices)
		XTest, yTest := takeRows(X, y, fold.TestIndices)

		clf := boosting.NewGBTClassifier().
			WithNumIterations(cfg.NumIterations).
			WithLearningRate(cfg.LearningRate).
			WithMaxDepth(cfg.MaxDepth).
			WithRandomState(cfg.Seed)
		if err := clf.Fit(XTrain, yTrain); err != nil {
			return nil, err
		}

		pred, err := clf.Predict(XTest)
		if err != nil {
			return nil, err
		}
		predVec, err := toVec(pred)
		if err != nil {
			return nil, err
		}
		acc, err := metrics.Accuracy(yTest, predVec)
		if err != nil {
			return nil, err
		}
		scores = append(scores, acc)

		slog.Debug("cross-validation fold scored",
			log.StageKey, "evaluate",
			"fold", i,
			log.AccuracyKey, acc,
		)
	}
	return scores, nil
}

// takeRows gathers the given rows of X and y into fresh matrices.
func takeRows(X *mat.Dense, y *mat.VecDense, rows []int) (*mat.Dense, *mat.VecDense) {
	_, cols := X.Dims()
	xs := mat.NewDense(len(rows), cols, nil)
	ys := mat.NewVecDense(len(rows), nil)
	for out, i := range rows {
		for j := 0; j < cols; j++ {
			xs.Set(out, j, X.At(i, j))
		}
		ys.SetVec(out, y.AtVec(i))
	}
	return xs, ys
}
