// Package dataset provides the in-memory columnar table the encoding
// pipeline operates on: ordered named columns of numeric, text, or boolean
// cells with an explicit per-cell missing mask.
//
// Row order is not semantically meaningful to the encoder, but column order
// and column identity are, so every operation that adds or replaces columns
// preserves ordering deterministically.
package dataset

import (
	"sort"

	"github.com/YuminosukeSato/churnpipe/pkg/errors"
)

// Kind identifies the cell type of a column.
type Kind int

const (
	// KindNumeric holds float64 cells. Integer-coded columns use this kind
	// with integral values.
	KindNumeric Kind = iota
	// KindString holds text cells.
	KindString
	// KindBool holds boolean cells.
	KindBool
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	default:
		return "unknown"
	}
}

// Column is a single named column. Cells are stored in one of three typed
// slices depending on Kind; the missing mask is valid for every kind.
type Column struct {
	name    string
	kind    Kind
	floats  []float64
	strings []string
	bools   []bool
	missing []bool
}

// NewNumericColumn creates a fully-populated numeric column.
func NewNumericColumn(name string, values []float64) *Column {
	return &Column{
		name:    name,
		kind:    KindNumeric,
		floats:  append([]float64(nil), values...),
		missing: make([]bool, len(values)),
	}
}

// NewNumericColumnWithMissing creates a numeric column with the given
// missing mask. The mask must have the same length as values.
func NewNumericColumnWithMissing(name string, values []float64, missing []bool) *Column {
	c := NewNumericColumn(name, values)
	copy(c.missing, missing)
	return c
}

// NewStringColumn creates a fully-populated text column.
func NewStringColumn(name string, values []string) *Column {
	return &Column{
		name:    name,
		kind:    KindString,
		strings: append([]string(nil), values...),
		missing: make([]bool, len(values)),
	}
}

// NewStringColumnWithMissing creates a text column with the given missing
// mask. The mask must have the same length as values.
func NewStringColumnWithMissing(name string, values []string, missing []bool) *Column {
	c := NewStringColumn(name, values)
	copy(c.missing, missing)
	return c
}

// NewBoolColumn creates a fully-populated boolean column.
func NewBoolColumn(name string, values []bool) *Column {
	return &Column{
		name:    name,
		kind:    KindBool,
		bools:   append([]bool(nil), values...),
		missing: make([]bool, len(values)),
	}
}

// Name returns the column name.
func (c *Column) Name() string { return c.name }

// Kind returns the column's cell type.
func (c *Column) Kind() Kind { return c.kind }

// Len returns the number of cells.
func (c *Column) Len() int { return len(c.missing) }

// IsMissing reports whether cell i is missing.
func (c *Column) IsMissing(i int) bool { return c.missing[i] }

// HasMissing reports whether any cell is missing.
func (c *Column) HasMissing() bool {
	for _, m := range c.missing {
		if m {
			return true
		}
	}
	return false
}

// SetMissing marks cell i as missing.
func (c *Column) SetMissing(i int) { c.missing[i] = true }

// Float returns the numeric value of cell i. Only valid for KindNumeric.
func (c *Column) Float(i int) float64 { return c.floats[i] }

// SetFloat sets the numeric value of cell i and clears its missing flag.
func (c *Column) SetFloat(i int, v float64) {
	c.floats[i] = v
	c.missing[i] = false
}

// String returns the text value of cell i. Only valid for KindString.
func (c *Column) String(i int) string { return c.strings[i] }

// Bool returns the boolean value of cell i. Only valid for KindBool.
func (c *Column) Bool(i int) bool { return c.bools[i] }

// Clone returns a deep copy of the column.
func (c *Column) Clone() *Column {
	return &Column{
		name:    c.name,
		kind:    c.kind,
		floats:  append([]float64(nil), c.floats...),
		strings: append([]string(nil), c.strings...),
		bools:   append([]bool(nil), c.bools...),
		missing: append([]bool(nil), c.missing...),
	}
}

// Rename returns a copy of the column under a new name.
func (c *Column) Rename(name string) *Column {
	out := c.Clone()
	out.name = name
	return out
}

// NonMissingCount returns the number of non-missing cells.
func (c *Column) NonMissingCount() int {
	n := 0
	for _, m := range c.missing {
		if !m {
			n++
		}
	}
	return n
}

// DistinctStrings returns the distinct non-missing text values in ascending
// order. The sort makes the result independent of row order, which the
// encoding rules rely on. Only valid for KindString.
func (c *Column) DistinctStrings() []string {
	seen := make(map[string]struct{})
	for i, v := range c.strings {
		if c.missing[i] {
			continue
		}
		seen[v] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// selectRows returns a copy of the column containing only the given rows,
// in the given order.
func (c *Column) selectRows(rows []int) (*Column, error) {
	out := &Column{name: c.name, kind: c.kind, missing: make([]bool, len(rows))}
	switch c.kind {
	case KindNumeric:
		out.floats = make([]float64, len(rows))
	case KindString:
		out.strings = make([]string, len(rows))
	case KindBool:
		out.bools = make([]bool, len(rows))
	}
	for j, i := range rows {
		if i < 0 || i >= c.Len() {
			return nil, errors.NewValueError("Column.selectRows", "row index out of range")
		}
		out.missing[j] = c.missing[i]
		switch c.kind {
		case KindNumeric:
			out.floats[j] = c.floats[i]
		case KindString:
			out.strings[j] = c.strings[i]
		case KindBool:
			out.bools[j] = c.bools[i]
		}
	}
	return out, nil
}
