package boosting

import (
	"math"
	"path/filepath"
	"reflect"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/churnpipe/pkg/errors"
)

// separableData builds a toy problem where the label depends on a single
// threshold of the first feature.
func separableData(n int) (*mat.Dense, *mat.Dense) {
	X := mat.NewDense(n, 2, nil)
	y := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		x1 := float64(i) / float64(n)
		x2 := float64(i%7) / 7.0
		X.Set(i, 0, x1)
		X.Set(i, 1, x2)
		if x1 > 0.5 {
			y.Set(i, 0, 1)
		}
	}
	return X, y
}

func TestGBTClassifierLearnsSeparableProblem(t *testing.T) {
	X, y := separableData(200)

	clf := NewGBTClassifier().
		WithNumIterations(20).
		WithMaxDepth(3).
		WithMinChildSamples(5)
	if err := clf.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	if len(clf.Trees) != 20 {
		t.Errorf("got %d trees, want 20", len(clf.Trees))
	}

	acc, err := clf.Score(X, y)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if acc < 0.95 {
		t.Errorf("training accuracy = %v, want >= 0.95", acc)
	}
}

func TestGBTClassifierPredictProbaRange(t *testing.T) {
	X, y := separableData(100)
	clf := NewGBTClassifier().WithNumIterations(5).WithMaxDepth(3).WithMinChildSamples(5)
	if err := clf.Fit(X, y); err != nil {
		t.Fatal(err)
	}

	proba, err := clf.PredictProba(X)
	if err != nil {
		t.Fatal(err)
	}
	rows, cols := proba.Dims()
	if rows != 100 || cols != 1 {
		t.Fatalf("proba dims = %dx%d, want 100x1", rows, cols)
	}
	for i := 0; i < rows; i++ {
		p := proba.At(i, 0)
		if p < 0 || p > 1 || math.IsNaN(p) {
			t.Fatalf("proba[%d] = %v out of [0,1]", i, p)
		}
	}
}

// The same data and seed must grow the same forest, including with row
// subsampling enabled.
func TestGBTClassifierDeterminism(t *testing.T) {
	X, y := separableData(150)

	fit := func() *GBTClassifier {
		clf := NewGBTClassifier().
			WithNumIterations(10).
			WithMaxDepth(3).
			WithMinChildSamples(5).
			WithSubsample(0.8).
			WithRandomState(42)
		if err := clf.Fit(X, y); err != nil {
			t.Fatal(err)
		}
		return clf
	}

	clf1 := fit()
	clf2 := fit()
	if !reflect.DeepEqual(clf1.Trees, clf2.Trees) {
		t.Error("two runs with the same seed grew different forests")
	}
}

func TestGBTClassifierInputValidation(t *testing.T) {
	clf := NewGBTClassifier().WithNumIterations(2)

	// Predict before fit.
	if _, err := clf.Predict(mat.NewDense(1, 2, nil)); err == nil {
		t.Error("Predict before Fit accepted")
	}

	// Non-binary labels.
	X := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	y := mat.NewDense(4, 1, []float64{0, 1, 2, 0})
	if err := clf.Fit(X, y); err == nil {
		t.Error("non-binary labels accepted")
	}

	// Row mismatch.
	y2 := mat.NewDense(3, 1, []float64{0, 1, 0})
	if err := clf.Fit(X, y2); err == nil {
		t.Error("row mismatch accepted")
	}

	// Feature-count mismatch at prediction time.
	yOK := mat.NewDense(4, 1, []float64{0, 0, 1, 1})
	mini := NewGBTClassifier().WithNumIterations(1).WithMinChildSamples(1)
	if err := mini.Fit(X, yOK); err != nil {
		t.Fatal(err)
	}
	_, err := mini.Predict(mat.NewDense(2, 3, nil))
	var de *errors.DimensionError
	if !errors.As(err, &de) {
		t.Errorf("got %v, want DimensionError", err)
	}
}

func TestGBTClassifierSaveLoad(t *testing.T) {
	X, y := separableData(100)
	clf := NewGBTClassifier().WithNumIterations(5).WithMaxDepth(3).WithMinChildSamples(5)
	if err := clf.Fit(X, y); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "model.gob")
	if err := clf.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded := &GBTClassifier{}
	if err := loaded.Load(path); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !loaded.IsFitted() {
		t.Error("loaded model not marked fitted")
	}

	p1, err := clf.Predict(X)
	if err != nil {
		t.Fatal(err)
	}
	p2, err := loaded.Predict(X)
	if err != nil {
		t.Fatal(err)
	}
	if !mat.Equal(p1, p2) {
		t.Error("loaded model predicts differently")
	}
}
