// Package preprocessing implements the deterministic feature-encoding
// pipeline: column classification, binary encoding, boolean normalization,
// indicator expansion, and the frozen FeatureSchema artifact that keeps the
// training and serving encodings bit-for-bit identical.
package preprocessing

import (
	"github.com/YuminosukeSato/churnpipe/dataset"
)

// ColumnPartition is the result of classifying a dataset's columns. The
// four sets are disjoint; a categorical column with fewer than two distinct
// non-missing values belongs to none of them and is left unencoded.
type ColumnPartition struct {
	Numeric []string
	Binary  []string
	Multi   []string
	Boolean []string
}

// Classify partitions the dataset's columns by encoding treatment. The
// target column, when named and present, is excluded from every set
// regardless of its type. Cardinality is computed over non-missing values
// only. Classification is a pure read: it derives everything from cell
// types and value sets, never from row order, so two runs over the same
// data always partition identically.
func Classify(ds *dataset.Dataset, target string) ColumnPartition {
	var p ColumnPartition
	for i := 0; i < ds.NumCols(); i++ {
		c := ds.ColumnAt(i)
		if c.Name() == target {
			continue
		}
		switch c.Kind() {
		case dataset.KindNumeric:
			p.Numeric = append(p.Numeric, c.Name())
		case dataset.KindBool:
			p.Boolean = append(p.Boolean, c.Name())
		case dataset.KindString:
			switch n := len(c.DistinctStrings()); {
			case n == 2:
				p.Binary = append(p.Binary, c.Name())
			case n > 2:
				p.Multi = append(p.Multi, c.Name())
			}
			// n < 2: constant or entirely missing. Neither encoding rule
			// is well-defined, so the column falls through unencoded.
		}
	}
	return p
}
