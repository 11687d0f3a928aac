package boosting

import (
	"reflect"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestTrainTestSplitShape(t *testing.T) {
	X := mat.NewDense(10, 2, nil)
	for i := 0; i < 10; i++ {
		X.Set(i, 0, float64(i))
		X.Set(i, 1, float64(i)*10)
	}
	y := mat.NewVecDense(10, []float64{0, 1, 0, 1, 0, 1, 0, 1, 0, 1})

	res, err := TrainTestSplit(X, y, 0.2, 42)
	if err != nil {
		t.Fatal(err)
	}

	trainRows, _ := res.XTrain.Dims()
	testRows, _ := res.XTest.Dims()
	if trainRows != 8 || testRows != 2 {
		t.Errorf("split = %d/%d, want 8/2", trainRows, testRows)
	}
	if res.YTrain.Len() != 8 || res.YTest.Len() != 2 {
		t.Error("label split does not match feature split")
	}

	// Rows stay intact: x2 is always 10*x1 and y matches x1's parity.
	for i := 0; i < trainRows; i++ {
		x1 := res.XTrain.At(i, 0)
		if res.XTrain.At(i, 1) != x1*10 {
			t.Fatalf("row %d scrambled", i)
		}
		if res.YTrain.AtVec(i) != float64(int(x1)%2) {
			t.Fatalf("label for row %d scrambled", i)
		}
	}
}

func TestTrainTestSplitDeterminism(t *testing.T) {
	X := mat.NewDense(20, 1, nil)
	y := mat.NewVecDense(20, nil)
	for i := 0; i < 20; i++ {
		X.Set(i, 0, float64(i))
		y.SetVec(i, float64(i%2))
	}

	r1, err := TrainTestSplit(X, y, 0.25, 42)
	if err != nil {
		t.Fatal(err)
	}
	r2, err := TrainTestSplit(X, y, 0.25, 42)
	if err != nil {
		t.Fatal(err)
	}
	if !mat.Equal(r1.XTest, r2.XTest) {
		t.Error("same seed produced different test sets")
	}

	r3, err := TrainTestSplit(X, y, 0.25, 7)
	if err != nil {
		t.Fatal(err)
	}
	if mat.Equal(r1.XTest, r3.XTest) {
		t.Error("different seeds produced identical test sets")
	}
}

func TestTrainTestSplitValidation(t *testing.T) {
	X := mat.NewDense(4, 1, nil)
	y := mat.NewVecDense(4, nil)

	if _, err := TrainTestSplit(X, y, 0, 42); err == nil {
		t.Error("testSize 0 accepted")
	}
	if _, err := TrainTestSplit(X, y, 1, 42); err == nil {
		t.Error("testSize 1 accepted")
	}
	if _, err := TrainTestSplit(X, mat.NewVecDense(3, nil), 0.5, 42); err == nil {
		t.Error("length mismatch accepted")
	}
}

func TestKFoldCoversAllSamples(t *testing.T) {
	kf := NewKFold(3, true, 42)
	folds := kf.Split(10)

	if len(folds) != 3 {
		t.Fatalf("got %d folds, want 3", len(folds))
	}
	seen := make(map[int]int)
	for _, f := range folds {
		for _, i := range f.TestIndices {
			seen[i]++
		}
		if len(f.TrainIndices)+len(f.TestIndices) != 10 {
			t.Error("fold does not partition the samples")
		}
	}
	for i := 0; i < 10; i++ {
		if seen[i] != 1 {
			t.Errorf("sample %d appears in %d test folds, want 1", i, seen[i])
		}
	}
}

func TestKFoldDeterminism(t *testing.T) {
	f1 := NewKFold(4, true, 42).Split(21)
	f2 := NewKFold(4, true, 42).Split(21)
	if !reflect.DeepEqual(f1, f2) {
		t.Error("same seed produced different folds")
	}
}
