package boosting

import (
	"log/slog"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/churnpipe/core/model"
	"github.com/YuminosukeSato/churnpipe/core/parallel"
	"github.com/YuminosukeSato/churnpipe/metrics"
	"github.com/YuminosukeSato/churnpipe/pkg/errors"
	"github.com/YuminosukeSato/churnpipe/pkg/log"
)

// GBTClassifier is a gradient-boosted tree binary classifier. Labels are
// 0/1; probabilities are for the positive class.
type GBTClassifier struct {
	model.BaseEstimator

	Params TrainingParams

	// Fitted state.
	Trees     []Tree
	InitScore float64
	NFeatures int
}

// NewGBTClassifier creates a classifier with the pipeline's fixed training
// configuration: 300 rounds at learning rate 0.1, depth 6, seed 42.
func NewGBTClassifier() *GBTClassifier {
	return &GBTClassifier{
		Params: TrainingParams{
			NumIterations:   300,
			LearningRate:    0.1,
			MaxDepth:        6,
			MinChildSamples: 20,
			MinSplitGain:    0.0,
			Lambda:          1.0,
			Subsample:       1.0,
			RandomState:     42,
		},
	}
}

// WithNumIterations sets the number of boosting rounds.
func (c *GBTClassifier) WithNumIterations(n int) *GBTClassifier {
	c.Params.NumIterations = n
	return c
}

// WithLearningRate sets the shrinkage rate.
func (c *GBTClassifier) WithLearningRate(lr float64) *GBTClassifier {
	c.Params.LearningRate = lr
	return c
}

// WithMaxDepth sets the maximum tree depth.
func (c *GBTClassifier) WithMaxDepth(d int) *GBTClassifier {
	c.Params.MaxDepth = d
	return c
}

// WithMinChildSamples sets the minimum samples per leaf.
func (c *GBTClassifier) WithMinChildSamples(n int) *GBTClassifier {
	c.Params.MinChildSamples = n
	return c
}

// WithSubsample sets the per-iteration row sampling ratio.
func (c *GBTClassifier) WithSubsample(ratio float64) *GBTClassifier {
	c.Params.Subsample = ratio
	return c
}

// WithRandomState sets the random seed used for row subsampling.
func (c *GBTClassifier) WithRandomState(seed int) *GBTClassifier {
	c.Params.RandomState = seed
	return c
}

// Fit trains the boosted forest on X and binary labels y (n×1).
func (c *GBTClassifier) Fit(X, y mat.Matrix) error {
	rows, cols := X.Dims()
	yRows, _ := y.Dims()
	if rows == 0 || cols == 0 {
		return errors.NewModelError("GBTClassifier.Fit", "empty data", errors.ErrEmptyData)
	}
	if yRows != rows {
		return errors.NewDimensionError("GBTClassifier.Fit", rows, yRows, 0)
	}

	labels := make([]float64, rows)
	for i := 0; i < rows; i++ {
		v := y.At(i, 0)
		if v != 0 && v != 1 {
			return errors.NewValueError("GBTClassifier.Fit", "labels must be 0 or 1")
		}
		labels[i] = v
	}

	dense := mat.DenseCopyOf(X)
	tr := newTrainer(c.Params, dense, labels)
	tr.train()

	c.Trees = tr.trees
	c.InitScore = tr.initScore
	c.NFeatures = cols
	c.SetFitted()

	slog.Info("classifier training complete",
		log.StageKey, "train",
		log.ModelNameKey, "GBTClassifier",
		log.OperationKey, "fit",
		log.RowsKey, rows,
		log.ColumnsKey, cols,
		"trees", len(c.Trees),
	)
	return nil
}

// rawScores computes the margin for every row of X.
// Scoring batches below this size are not worth the goroutine overhead.
const minParallelRows = 512

func (c *GBTClassifier) rawScores(X mat.Matrix) ([]float64, error) {
	if !c.IsFitted() {
		return nil, errors.NewNotFittedError("GBTClassifier", "Predict")
	}
	rows, cols := X.Dims()
	if cols != c.NFeatures {
		return nil, errors.NewDimensionError("GBTClassifier.Predict", c.NFeatures, cols, 1)
	}

	dense := mat.DenseCopyOf(X)
	scores := make([]float64, rows)
	// Rows score independently, so the parallel schedule cannot change
	// the result.
	parallel.WithThreshold(rows, minParallelRows, func(start, end int) {
		for i := start; i < end; i++ {
			s := c.InitScore
			row := dense.RawRowView(i)
			for _, t := range c.Trees {
				s += c.Params.LearningRate * t.Predict(row)
			}
			scores[i] = s
		}
	})
	return scores, nil
}

// PredictProba returns the positive-class probability per row as an n×1
// matrix.
func (c *GBTClassifier) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	scores, err := c.rawScores(X)
	if err != nil {
		return nil, err
	}
	out := mat.NewDense(len(scores), 1, nil)
	for i, s := range scores {
		out.Set(i, 0, sigmoid(s))
	}
	return out, nil
}

// Predict returns 0/1 labels per row as an n×1 matrix, thresholding the
// probability at 0.5.
func (c *GBTClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	scores, err := c.rawScores(X)
	if err != nil {
		return nil, err
	}
	out := mat.NewDense(len(scores), 1, nil)
	for i, s := range scores {
		if sigmoid(s) >= 0.5 {
			out.Set(i, 0, 1)
		}
	}
	return out, nil
}

// Score returns accuracy on X against labels y.
func (c *GBTClassifier) Score(X, y mat.Matrix) (float64, error) {
	pred, err := c.Predict(X)
	if err != nil {
		return 0, err
	}
	return metrics.AccuracyMatrix(y, pred)
}

// Classes returns the label values the classifier distinguishes.
func (c *GBTClassifier) Classes() []int {
	return []int{0, 1}
}

// GetParams returns the training hyperparameters.
func (c *GBTClassifier) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"num_iterations":    c.Params.NumIterations,
		"learning_rate":     c.Params.LearningRate,
		"max_depth":         c.Params.MaxDepth,
		"min_child_samples": c.Params.MinChildSamples,
		"min_split_gain":    c.Params.MinSplitGain,
		"lambda_l2":         c.Params.Lambda,
		"subsample":         c.Params.Subsample,
		"random_state":      c.Params.RandomState,
	}
}

// Save writes the fitted classifier to a file.
func (c *GBTClassifier) Save(path string) error {
	if !c.IsFitted() {
		return errors.NewNotFittedError("GBTClassifier", "Save")
	}
	return model.SaveModel(c, path)
}

// Load restores a classifier saved with Save and marks it fitted.
func (c *GBTClassifier) Load(path string) error {
	if err := model.LoadModel(c, path); err != nil {
		return err
	}
	c.SetFitted()
	return nil
}
