package boosting

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/churnpipe/pkg/errors"
)

// SplitResult holds the train/test partition of a dataset.
type SplitResult struct {
	XTrain *mat.Dense
	XTest  *mat.Dense
	YTrain *mat.VecDense
	YTest  *mat.VecDense
}

// TrainTestSplit shuffles the rows with a seeded PCG stream and splits
// them into train and test partitions. The same seed always produces the
// same partition, which is what makes the reported metrics reproducible.
func TrainTestSplit(X mat.Matrix, y *mat.VecDense, testSize float64, seed int) (*SplitResult, error) {
	rows, cols := X.Dims()
	if rows == 0 || cols == 0 {
		return nil, errors.NewModelError("TrainTestSplit", "empty data", errors.ErrEmptyData)
	}
	if y.Len() != rows {
		return nil, errors.NewDimensionError("TrainTestSplit", rows, y.Len(), 0)
	}
	if testSize <= 0 || testSize >= 1 {
		return nil, errors.NewValidationError("testSize", "must be in (0, 1)", testSize)
	}

	indices := make([]int, rows)
	for i := range indices {
		indices[i] = i
	}
	r := rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
	r.Shuffle(len(indices), func(i, j int) {
		indices[i], indices[j] = indices[j], indices[i]
	})

	nTest := int(float64(rows) * testSize)
	if nTest < 1 {
		nTest = 1
	}
	if nTest >= rows {
		nTest = rows - 1
	}
	testIdx := indices[:nTest]
	trainIdx := indices[nTest:]

	take := func(idx []int) (*mat.Dense, *mat.VecDense) {
		xs := mat.NewDense(len(idx), cols, nil)
		ys := mat.NewVecDense(len(idx), nil)
		for out, i := range idx {
			for j := 0; j < cols; j++ {
				xs.Set(out, j, X.At(i, j))
			}
			ys.SetVec(out, y.AtVec(i))
		}
		return xs, ys
	}

	res := &SplitResult{}
	res.XTrain, res.YTrain = take(trainIdx)
	res.XTest, res.YTest = take(testIdx)
	return res, nil
}

// CVFold represents a single fold in cross-validation.
type CVFold struct {
	TrainIndices []int
	TestIndices  []int
}

// KFold implements k-fold cross-validation splitting.
type KFold struct {
	NSplits    int
	Shuffle    bool
	RandomSeed int
}

// NewKFold creates a new k-fold splitter.
func NewKFold(nSplits int, shuffle bool, randomSeed int) *KFold {
	if nSplits < 2 {
		nSplits = 5
	}
	return &KFold{
		NSplits:    nSplits,
		Shuffle:    shuffle,
		RandomSeed: randomSeed,
	}
}

// Split generates train/test indices for each fold.
func (kf *KFold) Split(nSamples int) []CVFold {
	indices := make([]int, nSamples)
	for i := range indices {
		indices[i] = i
	}
	if kf.Shuffle {
		r := rand.New(rand.NewPCG(uint64(kf.RandomSeed), uint64(kf.RandomSeed)))
		r.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
	}

	folds := make([]CVFold, kf.NSplits)
	foldSize := nSamples / kf.NSplits
	remainder := nSamples % kf.NSplits

	currentIdx := 0
	for i := 0; i < kf.NSplits; i++ {
		testSize := foldSize
		if i < remainder {
			testSize++
		}

		testIndices := make([]int, testSize)
		copy(testIndices, indices[currentIdx:currentIdx+testSize])

		trainIndices := make([]int, 0, nSamples-testSize)
		trainIndices = append(trainIndices, indices[:currentIdx]...)
		trainIndices = append(trainIndices, indices[currentIdx+testSize:]...)

		folds[i] = CVFold{TrainIndices: trainIndices, TestIndices: testIndices}
		currentIdx += testSize
	}
	return folds
}
