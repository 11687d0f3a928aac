// Package boosting implements the gradient-boosted tree classifier the
// training pipeline fits on the encoded feature matrix: logistic loss,
// exact greedy splits, depth-wise growth, deterministic for a fixed seed.
package boosting

// TreeNode is a single node in a regression tree. Non-leaf nodes route on
// SplitFeature/Threshold; leaves carry the output value.
type TreeNode struct {
	LeftChild    int // node index, -1 for leaf
	RightChild   int // node index, -1 for leaf
	SplitFeature int
	Threshold    float64
	LeafValue    float64
}

// IsLeaf reports whether the node is a leaf.
func (n *TreeNode) IsLeaf() bool {
	return n.LeftChild == -1 && n.RightChild == -1
}

// Tree is one boosting round's regression tree, stored as a flat node
// array with index links.
type Tree struct {
	Nodes []TreeNode
}

// Predict routes a single sample to its leaf value. Values strictly
// greater than the threshold go right.
func (t *Tree) Predict(x []float64) float64 {
	if len(t.Nodes) == 0 {
		return 0
	}
	idx := 0
	for {
		node := &t.Nodes[idx]
		if node.IsLeaf() {
			return node.LeafValue
		}
		if x[node.SplitFeature] <= node.Threshold {
			idx = node.LeftChild
		} else {
			idx = node.RightChild
		}
	}
}
