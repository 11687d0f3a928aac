package boosting

import (
	"math"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// TrainingParams contains the boosting hyperparameters.
type TrainingParams struct {
	NumIterations   int     `json:"num_iterations"`
	LearningRate    float64 `json:"learning_rate"`
	MaxDepth        int     `json:"max_depth"`
	MinChildSamples int     `json:"min_child_samples"`
	MinSplitGain    float64 `json:"min_split_gain"`
	Lambda          float64 `json:"lambda_l2"`
	Subsample       float64 `json:"subsample"`
	RandomState     int     `json:"random_state"`
}

// trainer holds the state of one boosting run.
type trainer struct {
	params TrainingParams

	X *mat.Dense
	y []float64

	scores    []float64 // raw margin per sample
	gradients []float64
	hessians  []float64

	initScore float64
	trees     []Tree
}

func newTrainer(params TrainingParams, X *mat.Dense, y []float64) *trainer {
	n := len(y)
	return &trainer{
		params:    params,
		X:         X,
		y:         y,
		scores:    make([]float64, n),
		gradients: make([]float64, n),
		hessians:  make([]float64, n),
	}
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// train runs the boosting loop: initial score from the class prior, then
// one tree per iteration fitted to the logistic-loss gradients.
func (t *trainer) train() {
	pos := 0.0
	for _, v := range t.y {
		pos += v
	}
	prior := pos / float64(len(t.y))
	// Clamp so a single-class training set keeps a finite margin.
	prior = math.Min(math.Max(prior, 1e-12), 1-1e-12)
	t.initScore = math.Log(prior / (1 - prior))
	for i := range t.scores {
		t.scores[i] = t.initScore
	}

	for iter := 0; iter < t.params.NumIterations; iter++ {
		t.computeGradients()
		indices := t.sampleRows(iter)
		tree := t.buildTree(indices)
		t.trees = append(t.trees, tree)

		rows, _ := t.X.Dims()
		for i := 0; i < rows; i++ {
			t.scores[i] += t.params.LearningRate * tree.Predict(t.X.RawRowView(i))
		}
	}
}

// computeGradients fills the first and second order logistic-loss
// derivatives for every sample.
func (t *trainer) computeGradients() {
	for i, yi := range t.y {
		p := sigmoid(t.scores[i])
		t.gradients[i] = p - yi
		t.hessians[i] = math.Max(p*(1-p), 1e-16)
	}
}

// sampleRows returns the row set for this iteration. With Subsample < 1 a
// deterministic per-iteration PCG stream draws the subset, so the same
// seed always grows the same forest.
func (t *trainer) sampleRows(iteration int) []int {
	rows, _ := t.X.Dims()
	if t.params.Subsample >= 1.0 {
		indices := make([]int, rows)
		for i := range indices {
			indices[i] = i
		}
		return indices
	}

	r := rand.New(rand.NewPCG(uint64(t.params.RandomState), uint64(iteration)))
	keep := int(float64(rows) * t.params.Subsample)
	if keep < 1 {
		keep = 1
	}
	perm := r.Perm(rows)
	indices := perm[:keep]
	sort.Ints(indices)
	return indices
}

// buildTree grows one depth-wise tree on the current gradients.
func (t *trainer) buildTree(indices []int) Tree {
	tree := Tree{}
	t.buildNode(&tree, indices, 0)
	return tree
}

// buildNode appends the subtree covering indices and returns its node
// index within the tree.
func (t *trainer) buildNode(tree *Tree, indices []int, depth int) int {
	idx := len(tree.Nodes)
	tree.Nodes = append(tree.Nodes, TreeNode{LeftChild: -1, RightChild: -1})

	if depth >= t.params.MaxDepth || len(indices) < 2*t.params.MinChildSamples {
		tree.Nodes[idx].LeafValue = t.leafValue(indices)
		return idx
	}

	split := t.findBestSplit(indices)
	if !split.valid {
		tree.Nodes[idx].LeafValue = t.leafValue(indices)
		return idx
	}

	var left, right []int
	for _, i := range indices {
		if t.X.At(i, split.feature) <= split.threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	tree.Nodes[idx].SplitFeature = split.feature
	tree.Nodes[idx].Threshold = split.threshold
	tree.Nodes[idx].LeftChild = t.buildNode(tree, left, depth+1)
	tree.Nodes[idx].RightChild = t.buildNode(tree, right, depth+1)
	return idx
}

// leafValue is the regularized Newton step for the samples in the leaf.
func (t *trainer) leafValue(indices []int) float64 {
	var g, h float64
	for _, i := range indices {
		g += t.gradients[i]
		h += t.hessians[i]
	}
	return -g / (h + t.params.Lambda)
}

type splitInfo struct {
	valid     bool
	feature   int
	threshold float64
	gain      float64
}

// findBestSplit scans every feature with an exact greedy search. Features
// are visited in index order and only a strictly better gain replaces the
// incumbent, so the chosen split never depends on iteration order.
func (t *trainer) findBestSplit(indices []int) splitInfo {
	best := splitInfo{}
	_, cols := t.X.Dims()
	for feature := 0; feature < cols; feature++ {
		if s := t.findBestSplitForFeature(indices, feature); s.valid && (!best.valid || s.gain > best.gain) {
			best = s
		}
	}
	return best
}

func (t *trainer) findBestSplitForFeature(indices []int, feature int) splitInfo {
	sorted := make([]int, len(indices))
	copy(sorted, indices)
	sort.Slice(sorted, func(a, b int) bool {
		va := t.X.At(sorted[a], feature)
		vb := t.X.At(sorted[b], feature)
		if va != vb {
			return va < vb
		}
		// Tie-break on row index to keep the order deterministic.
		return sorted[a] < sorted[b]
	})

	var totalG, totalH float64
	for _, i := range sorted {
		totalG += t.gradients[i]
		totalH += t.hessians[i]
	}
	parentScore := totalG * totalG / (totalH + t.params.Lambda)

	best := splitInfo{feature: feature}
	var leftG, leftH float64
	for pos := 0; pos < len(sorted)-1; pos++ {
		i := sorted[pos]
		leftG += t.gradients[i]
		leftH += t.hessians[i]

		v := t.X.At(i, feature)
		next := t.X.At(sorted[pos+1], feature)
		if v == next {
			continue // cannot split between equal values
		}
		if pos+1 < t.params.MinChildSamples || len(sorted)-pos-1 < t.params.MinChildSamples {
			continue
		}

		rightG := totalG - leftG
		rightH := totalH - leftH
		gain := leftG*leftG/(leftH+t.params.Lambda) +
			rightG*rightG/(rightH+t.params.Lambda) -
			parentScore
		if gain > t.params.MinSplitGain && (!best.valid || gain > best.gain) {
			best.valid = true
			best.gain = gain
			best.threshold = (v + next) / 2
		}
	}
	return best
}
