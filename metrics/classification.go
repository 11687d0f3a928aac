// Package metrics implements the binary-classification evaluation metrics
// the pipeline reports: accuracy and recall for experiment tracking, plus
// the confusion matrix and textual classification report produced by the
// evaluator.
package metrics

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/churnpipe/pkg/errors"
)

// validateBinary checks the inputs share a length and carry only 0/1
// labels, returning the length.
func validateBinary(op string, yTrue, yPred *mat.VecDense) (int, error) {
	if yTrue == nil || yPred == nil {
		return 0, errors.NewValueError(op, "nil input vector")
	}
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError(op, "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError(op, n, yPred.Len(), 0)
	}
	for i := 0; i < n; i++ {
		if v := yTrue.AtVec(i); v != 0 && v != 1 {
			return 0, errors.NewValueError(op, "labels must be 0 or 1")
		}
		if v := yPred.AtVec(i); v != 0 && v != 1 {
			return 0, errors.NewValueError(op, "predictions must be 0 or 1")
		}
	}
	return n, nil
}

// Accuracy computes the fraction of predictions equal to the labels.
func Accuracy(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := validateBinary("Accuracy", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	correct := 0
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) == yPred.AtVec(i) {
			correct++
		}
	}
	return float64(correct) / float64(n), nil
}

// Recall computes TP / (TP + FN) for the positive class. When no positive
// labels exist the metric is ill-defined: it returns 0 and raises an
// UndefinedMetricWarning.
func Recall(yTrue, yPred *mat.VecDense) (float64, error) {
	if _, err := validateBinary("Recall", yTrue, yPred); err != nil {
		return 0, err
	}
	cm, err := NewConfusionMatrix(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	if cm.TP+cm.FN == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("recall", "no positive labels", 0))
		return 0, nil
	}
	return float64(cm.TP) / float64(cm.TP+cm.FN), nil
}

// Precision computes TP / (TP + FP) for the positive class. When nothing
// was predicted positive the metric is ill-defined: it returns 0 and
// raises an UndefinedMetricWarning.
func Precision(yTrue, yPred *mat.VecDense) (float64, error) {
	if _, err := validateBinary("Precision", yTrue, yPred); err != nil {
		return 0, err
	}
	cm, err := NewConfusionMatrix(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	if cm.TP+cm.FP == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("precision", "no positive predictions", 0))
		return 0, nil
	}
	return float64(cm.TP) / float64(cm.TP+cm.FP), nil
}

// F1Score computes the harmonic mean of precision and recall, 0 when both
// are 0.
func F1Score(yTrue, yPred *mat.VecDense) (float64, error) {
	p, err := Precision(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	r, err := Recall(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	if p+r == 0 {
		return 0, nil
	}
	return 2 * p * r / (p + r), nil
}

// ConfusionMatrix holds the four binary outcome counts.
type ConfusionMatrix struct {
	TN int
	FP int
	FN int
	TP int
}

// NewConfusionMatrix counts outcomes for binary labels and predictions.
func NewConfusionMatrix(yTrue, yPred *mat.VecDense) (*ConfusionMatrix, error) {
	n, err := validateBinary("ConfusionMatrix", yTrue, yPred)
	if err != nil {
		return nil, err
	}
	cm := &ConfusionMatrix{}
	for i := 0; i < n; i++ {
		switch {
		case yTrue.AtVec(i) == 0 && yPred.AtVec(i) == 0:
			cm.TN++
		case yTrue.AtVec(i) == 0 && yPred.AtVec(i) == 1:
			cm.FP++
		case yTrue.AtVec(i) == 1 && yPred.AtVec(i) == 0:
			cm.FN++
		default:
			cm.TP++
		}
	}
	return cm, nil
}

// String renders the matrix with true classes as rows and predicted
// classes as columns.
func (cm *ConfusionMatrix) String() string {
	return fmt.Sprintf("[[%d %d]\n [%d %d]]", cm.TN, cm.FP, cm.FN, cm.TP)
}

// ClassificationReport renders per-class precision, recall, f1-score, and
// support plus overall accuracy, in the familiar sklearn text layout.
func ClassificationReport(yTrue, yPred *mat.VecDense) (string, error) {
	n, err := validateBinary("ClassificationReport", yTrue, yPred)
	if err != nil {
		return "", err
	}
	cm, err := NewConfusionMatrix(yTrue, yPred)
	if err != nil {
		return "", err
	}

	// Per-class stats: class 0 treats 0 as the positive outcome.
	type classStat struct {
		label     string
		precision float64
		recall    float64
		f1        float64
		support   int
	}
	safeDiv := func(num, den int) float64 {
		if den == 0 {
			return 0
		}
		return float64(num) / float64(den)
	}
	f1 := func(p, r float64) float64 {
		if p+r == 0 {
			return 0
		}
		return 2 * p * r / (p + r)
	}

	neg := classStat{
		label:     "0",
		precision: safeDiv(cm.TN, cm.TN+cm.FN),
		recall:    safeDiv(cm.TN, cm.TN+cm.FP),
		support:   cm.TN + cm.FP,
	}
	neg.f1 = f1(neg.precision, neg.recall)
	pos := classStat{
		label:     "1",
		precision: safeDiv(cm.TP, cm.TP+cm.FP),
		recall:    safeDiv(cm.TP, cm.TP+cm.FN),
		support:   cm.TP + cm.FN,
	}
	pos.f1 = f1(pos.precision, pos.recall)
	accuracy := float64(cm.TN+cm.TP) / float64(n)

	var b strings.Builder
	fmt.Fprintf(&b, "%14s %9s %9s %9s %9s\n", "", "precision", "recall", "f1-score", "support")
	b.WriteString("\n")
	for _, c := range []classStat{neg, pos} {
		fmt.Fprintf(&b, "%14s %9.2f %9.2f %9.2f %9d\n", c.label, c.precision, c.recall, c.f1, c.support)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "%14s %9s %9s %9.2f %9d\n", "accuracy", "", "", accuracy, n)
	return b.String(), nil
}

// AccuracyMatrix is the matrix-input variant of Accuracy; it uses the
// first column of each input.
func AccuracyMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	t, err := firstColumn("AccuracyMatrix", yTrue)
	if err != nil {
		return 0, err
	}
	p, err := firstColumn("AccuracyMatrix", yPred)
	if err != nil {
		return 0, err
	}
	return Accuracy(t, p)
}

// RecallMatrix is the matrix-input variant of Recall; it uses the first
// column of each input.
func RecallMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	t, err := firstColumn("RecallMatrix", yTrue)
	if err != nil {
		return 0, err
	}
	p, err := firstColumn("RecallMatrix", yPred)
	if err != nil {
		return 0, err
	}
	return Recall(t, p)
}

func firstColumn(op string, m mat.Matrix) (*mat.VecDense, error) {
	if m == nil {
		return nil, errors.NewValueError(op, "nil matrix")
	}
	r, c := m.Dims()
	if r == 0 || c == 0 {
		return nil, errors.NewValueError(op, "empty matrix")
	}
	out := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		out.SetVec(i, m.At(i, 0))
	}
	return out, nil
}
