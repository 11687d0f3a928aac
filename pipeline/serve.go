package pipeline

import (
	"log/slog"
	"path/filepath"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/churnpipe/boosting"
	"github.com/YuminosukeSato/churnpipe/dataset"
	"github.com/YuminosukeSato/churnpipe/pkg/log"
	"github.com/YuminosukeSato/churnpipe/preprocessing"
)

// Scorer applies a frozen feature schema and a trained classifier to raw
// serving batches. Batches of any size work, single rows included: the
// schema fixes every output column, so serving never re-derives anything
// from the batch itself.
type Scorer struct {
	encoder *preprocessing.FeatureEncoder
	model   *boosting.GBTClassifier
}

// NewScorer builds a scorer from an already-loaded schema and model.
func NewScorer(schema *preprocessing.FeatureSchema, model *boosting.GBTClassifier) (*Scorer, error) {
	encoder, err := preprocessing.NewFeatureEncoderFromSchema(schema)
	if err != nil {
		return nil, err
	}
	return &Scorer{encoder: encoder, model: model}, nil
}

// LoadScorer reads the schema and model artifacts a training run saved.
func LoadScorer(artifactDir string) (*Scorer, error) {
	schema, err := preprocessing.LoadSchema(filepath.Join(artifactDir, SchemaArtifact))
	if err != nil {
		return nil, err
	}
	model := boosting.NewGBTClassifier()
	if err := model.Load(filepath.Join(artifactDir, ModelArtifact)); err != nil {
		return nil, err
	}
	return NewScorer(schema, model)
}

// Schema returns the frozen feature schema the scorer encodes with.
func (s *Scorer) Schema() *preprocessing.FeatureSchema {
	schema, _ := s.encoder.Schema()
	return schema
}

// Encode transforms a raw serving batch into the aligned feature matrix
// without scoring it.
func (s *Scorer) Encode(ds *dataset.Dataset) (*mat.Dense, error) {
	encoded, err := s.encoder.Transform(ds)
	if err != nil {
		return nil, err
	}
	return encoded.Matrix(s.Schema().FeatureNames())
}

// Predict scores a raw serving batch and returns 0/1 labels.
func (s *Scorer) Predict(ds *dataset.Dataset) (*mat.VecDense, error) {
	X, err := s.Encode(ds)
	if err != nil {
		return nil, err
	}
	pred, err := s.model.Predict(X)
	if err != nil {
		return nil, err
	}
	slog.Debug("scored batch", log.StageKey, "serve", log.RowsKey, ds.NumRows())
	return toVec(pred)
}

// PredictProba scores a raw serving batch and returns churn probabilities.
func (s *Scorer) PredictProba(ds *dataset.Dataset) (*mat.VecDense, error) {
	X, err := s.Encode(ds)
	if err != nil {
		return nil, err
	}
	proba, err := s.model.PredictProba(X)
	if err != nil {
		return nil, err
	}
	return toVec(proba)
}
