package preprocessing

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/churnpipe/dataset"
	"github.com/YuminosukeSato/churnpipe/pkg/errors"
)

// TargetVector binary-encodes the outcome column into a 0/1 label vector.
// String labels are mapped with the same vocabulary rules features use
// (so Yes/No becomes 1/0 regardless of which label appears first), bool
// labels become 0/1, and numeric labels must already be 0 or 1.
func TargetVector(ds *dataset.Dataset, name string) (*mat.VecDense, error) {
	c, err := ds.Column(name)
	if err != nil {
		return nil, err
	}

	n := c.Len()
	v := mat.NewVecDense(n, nil)
	switch c.Kind() {
	case dataset.KindString:
		m, err := MappingFor(c.DistinctStrings())
		if err != nil {
			return nil, errors.Wrapf(err, "target column %q", name)
		}
		for i := 0; i < n; i++ {
			if c.IsMissing(i) {
				return nil, errors.NewValueError("TargetVector", "missing label in target column "+name)
			}
			if c.String(i) == m.One {
				v.SetVec(i, 1)
			}
		}
	case dataset.KindBool:
		for i := 0; i < n; i++ {
			if c.Bool(i) {
				v.SetVec(i, 1)
			}
		}
	case dataset.KindNumeric:
		for i := 0; i < n; i++ {
			if c.IsMissing(i) {
				return nil, errors.NewValueError("TargetVector", "missing label in target column "+name)
			}
			f := c.Float(i)
			if f != 0 && f != 1 {
				return nil, errors.NewValueError("TargetVector", "target column "+name+" must hold binary labels")
			}
			v.SetVec(i, f)
		}
	}
	return v, nil
}
