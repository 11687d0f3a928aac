// Package validation implements the rule-based dataset validator that runs
// upstream of the encoder. Each check is an explicit predicate over the
// dataset with a stable rule identifier; the validator reports which rules
// failed instead of raising, and the caller decides whether to proceed.
package validation

import (
	"fmt"
	"math"

	"github.com/YuminosukeSato/churnpipe/dataset"
)

// Rule is a single validation predicate with a stable identifier. Check
// returns nil when the dataset satisfies the rule.
type Rule interface {
	ID() string
	Check(ds *dataset.Dataset) error
}

// ColumnExists requires the named column to be present.
type ColumnExists struct {
	Column string
}

func (r ColumnExists) ID() string { return fmt.Sprintf("column_exists(%s)", r.Column) }

func (r ColumnExists) Check(ds *dataset.Dataset) error {
	if !ds.HasColumn(r.Column) {
		return fmt.Errorf("column %q not present", r.Column)
	}
	return nil
}

// ColumnNotNull requires every cell of the named column to be non-missing.
type ColumnNotNull struct {
	Column string
}

func (r ColumnNotNull) ID() string { return fmt.Sprintf("column_not_null(%s)", r.Column) }

func (r ColumnNotNull) Check(ds *dataset.Dataset) error {
	c, err := ds.Column(r.Column)
	if err != nil {
		return err
	}
	for i := 0; i < c.Len(); i++ {
		if c.IsMissing(i) {
			return fmt.Errorf("column %q has a missing value at row %d", r.Column, i)
		}
	}
	return nil
}

// ValuesInSet requires every non-missing cell of a text column to be one
// of the allowed values.
type ValuesInSet struct {
	Column  string
	Allowed []string
}

func (r ValuesInSet) ID() string { return fmt.Sprintf("values_in_set(%s)", r.Column) }

func (r ValuesInSet) Check(ds *dataset.Dataset) error {
	c, err := ds.Column(r.Column)
	if err != nil {
		return err
	}
	if c.Kind() != dataset.KindString {
		return fmt.Errorf("column %q is not textual", r.Column)
	}
	allowed := make(map[string]struct{}, len(r.Allowed))
	for _, v := range r.Allowed {
		allowed[v] = struct{}{}
	}
	for i := 0; i < c.Len(); i++ {
		if c.IsMissing(i) {
			continue
		}
		if _, ok := allowed[c.String(i)]; !ok {
			return fmt.Errorf("column %q has unexpected value %q at row %d", r.Column, c.String(i), i)
		}
	}
	return nil
}

// ValuesBetween requires every non-missing cell of a numeric column to lie
// in [Min, Max]. Use -Inf/+Inf for one-sided bounds.
type ValuesBetween struct {
	Column string
	Min    float64
	Max    float64
}

func (r ValuesBetween) ID() string { return fmt.Sprintf("values_between(%s)", r.Column) }

func (r ValuesBetween) Check(ds *dataset.Dataset) error {
	c, err := ds.Column(r.Column)
	if err != nil {
		return err
	}
	if c.Kind() != dataset.KindNumeric {
		return fmt.Errorf("column %q is not numeric", r.Column)
	}
	for i := 0; i < c.Len(); i++ {
		if c.IsMissing(i) {
			continue
		}
		v := c.Float(i)
		if v < r.Min || v > r.Max || math.IsNaN(v) {
			return fmt.Errorf("column %q has out-of-range value %v at row %d", r.Column, v, i)
		}
	}
	return nil
}
