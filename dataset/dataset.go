package dataset

import (
	"github.com/YuminosukeSato/churnpipe/pkg/errors"
)

// Dataset is an ordered sequence of named columns. All columns have the
// same length. Column lookup by name is constant time; iteration follows
// insertion order.
type Dataset struct {
	cols  []*Column
	index map[string]int
}

// New creates an empty dataset.
func New() *Dataset {
	return &Dataset{index: make(map[string]int)}
}

// FromColumns creates a dataset from the given columns, preserving their
// order. All columns must have the same length and distinct names.
func FromColumns(cols ...*Column) (*Dataset, error) {
	ds := New()
	for _, c := range cols {
		if err := ds.AddColumn(c); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

// NumRows returns the number of rows.
func (ds *Dataset) NumRows() int {
	if len(ds.cols) == 0 {
		return 0
	}
	return ds.cols[0].Len()
}

// NumCols returns the number of columns.
func (ds *Dataset) NumCols() int { return len(ds.cols) }

// Names returns the column names in order.
func (ds *Dataset) Names() []string {
	names := make([]string, len(ds.cols))
	for i, c := range ds.cols {
		names[i] = c.name
	}
	return names
}

// HasColumn reports whether a column with the given name exists.
func (ds *Dataset) HasColumn(name string) bool {
	_, ok := ds.index[name]
	return ok
}

// Column returns the column with the given name.
func (ds *Dataset) Column(name string) (*Column, error) {
	i, ok := ds.index[name]
	if !ok {
		return nil, errors.Wrapf(errors.ErrColumnNotFound, "column %q", name)
	}
	return ds.cols[i], nil
}

// ColumnAt returns the column at position i.
func (ds *Dataset) ColumnAt(i int) *Column { return ds.cols[i] }

// AddColumn appends a column. The name must be unused and the length must
// match the dataset's row count (unless the dataset is empty).
func (ds *Dataset) AddColumn(c *Column) error {
	if _, ok := ds.index[c.name]; ok {
		return errors.NewValidationError("column", "duplicate column name", c.name)
	}
	if len(ds.cols) > 0 && c.Len() != ds.NumRows() {
		return errors.NewDimensionError("Dataset.AddColumn", ds.NumRows(), c.Len(), 0)
	}
	ds.index[c.name] = len(ds.cols)
	ds.cols = append(ds.cols, c)
	return nil
}

// ReplaceColumn swaps the column with the given name for a new column at
// the same position. The new column keeps its own name.
func (ds *Dataset) ReplaceColumn(name string, c *Column) error {
	i, ok := ds.index[name]
	if !ok {
		return errors.Wrapf(errors.ErrColumnNotFound, "column %q", name)
	}
	if c.Len() != ds.NumRows() {
		return errors.NewDimensionError("Dataset.ReplaceColumn", ds.NumRows(), c.Len(), 0)
	}
	if c.name != name {
		if _, dup := ds.index[c.name]; dup {
			return errors.NewValidationError("column", "duplicate column name", c.name)
		}
		delete(ds.index, name)
		ds.index[c.name] = i
	}
	ds.cols[i] = c
	return nil
}

// DropColumn removes the column with the given name, closing the gap so
// the surviving columns keep their relative order.
func (ds *Dataset) DropColumn(name string) error {
	i, ok := ds.index[name]
	if !ok {
		return errors.Wrapf(errors.ErrColumnNotFound, "column %q", name)
	}
	ds.cols = append(ds.cols[:i], ds.cols[i+1:]...)
	delete(ds.index, name)
	for j := i; j < len(ds.cols); j++ {
		ds.index[ds.cols[j].name] = j
	}
	return nil
}

// Clone returns a deep copy of the dataset.
func (ds *Dataset) Clone() *Dataset {
	out := New()
	for _, c := range ds.cols {
		// AddColumn cannot fail here: names and lengths come from a
		// consistent dataset.
		_ = out.AddColumn(c.Clone())
	}
	return out
}

// SelectRows returns a new dataset with only the given rows, in the given
// order. Column identity and order are unchanged.
func (ds *Dataset) SelectRows(rows []int) (*Dataset, error) {
	out := New()
	for _, c := range ds.cols {
		sub, err := c.selectRows(rows)
		if err != nil {
			return nil, err
		}
		if err := out.AddColumn(sub); err != nil {
			return nil, err
		}
	}
	return out, nil
}
