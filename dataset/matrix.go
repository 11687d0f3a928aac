package dataset

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/churnpipe/pkg/errors"
)

// Matrix converts the named columns to a gonum dense matrix in the given
// column order. Numeric cells are copied as-is and boolean cells become
// 0/1. A missing cell or a text column is an error: the encoder is
// responsible for producing fully-numeric data before training.
func (ds *Dataset) Matrix(names []string) (*mat.Dense, error) {
	if ds.NumRows() == 0 || len(names) == 0 {
		return nil, errors.NewModelError("Dataset.Matrix", "empty data", errors.ErrEmptyData)
	}

	out := mat.NewDense(ds.NumRows(), len(names), nil)
	for j, name := range names {
		c, err := ds.Column(name)
		if err != nil {
			return nil, err
		}
		for i := 0; i < c.Len(); i++ {
			if c.IsMissing(i) {
				return nil, errors.NewValueError("Dataset.Matrix",
					"missing value in column "+name+"; run the encoder cleanup first")
			}
			switch c.Kind() {
			case KindNumeric:
				out.Set(i, j, c.Float(i))
			case KindBool:
				if c.Bool(i) {
					out.Set(i, j, 1)
				}
			default:
				return nil, errors.NewValueError("Dataset.Matrix",
					"column "+name+" is not numeric; run the encoder first")
			}
		}
	}
	return out, nil
}

// ColumnVec converts a single numeric column to a gonum column vector.
func (ds *Dataset) ColumnVec(name string) (*mat.VecDense, error) {
	c, err := ds.Column(name)
	if err != nil {
		return nil, err
	}
	if c.Kind() != KindNumeric {
		return nil, errors.NewValueError("Dataset.ColumnVec", "column "+name+" is not numeric")
	}
	out := mat.NewVecDense(c.Len(), nil)
	for i := 0; i < c.Len(); i++ {
		if c.IsMissing(i) {
			return nil, errors.NewValueError("Dataset.ColumnVec", "missing value in column "+name)
		}
		out.SetVec(i, c.Float(i))
	}
	return out, nil
}
