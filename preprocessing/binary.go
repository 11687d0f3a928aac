package preprocessing

import (
	"sort"

	"github.com/YuminosukeSato/churnpipe/dataset"
	"github.com/YuminosukeSato/churnpipe/pkg/errors"
)

// BinaryMapping fixes the two-value association for a binary-categorical
// column: Zero encodes to 0 and One encodes to 1. The mapping is derived
// from value identity, not from which value a batch happens to show first,
// so it is identical whether the column appears in a training batch or a
// single serving row.
type BinaryMapping struct {
	Zero string `json:"zero"`
	One  string `json:"one"`
}

// knownVocabularies hardcodes domain vocabularies so that the semantic
// meaning of 0 stays stable and human-interpretable: 0 = absence, 0 =
// Female. Checked in priority order; first match wins.
var knownVocabularies = []BinaryMapping{
	{Zero: "No", One: "Yes"},
	{Zero: "Female", One: "Male"},
}

// MappingFor returns the deterministic mapping for a two-value vocabulary.
// Known vocabularies map by domain rule; any other pair falls back to
// lexicographic order, smaller value to 0. The fallback guarantees the
// same two values always map the same way but offers no semantic guarantee
// about which becomes 0.
func MappingFor(values []string) (BinaryMapping, error) {
	if len(values) != 2 || values[0] == values[1] {
		return BinaryMapping{}, errors.NewValueError("MappingFor",
			"binary mapping requires exactly 2 distinct values")
	}

	set := map[string]struct{}{values[0]: {}, values[1]: {}}
	for _, known := range knownVocabularies {
		if _, ok := set[known.Zero]; !ok {
			continue
		}
		if _, ok := set[known.One]; ok {
			return known, nil
		}
	}

	sorted := []string{values[0], values[1]}
	sort.Strings(sorted)
	return BinaryMapping{Zero: sorted[0], One: sorted[1]}, nil
}

// encodeBinary applies a frozen mapping to a text column, producing a
// numeric column of the same length. Missing cells stay missing; they are
// imputed by the final cleanup step, not here. A non-missing value outside
// the mapping means the serving vocabulary drifted from the fit-time one:
// the cell becomes missing (hence 0 after cleanup) and a
// VocabularyDriftWarning is raised per drifted value.
func encodeBinary(c *dataset.Column, m BinaryMapping) *dataset.Column {
	n := c.Len()
	vals := make([]float64, n)
	missing := make([]bool, n)
	drifted := make(map[string]int)

	for i := 0; i < n; i++ {
		if c.IsMissing(i) {
			missing[i] = true
			continue
		}
		switch c.String(i) {
		case m.Zero:
			vals[i] = 0
		case m.One:
			vals[i] = 1
		default:
			missing[i] = true
			drifted[c.String(i)]++
		}
	}

	for v, count := range drifted {
		errors.Warn(errors.NewVocabularyDriftWarning(c.Name(), v, count))
	}
	return dataset.NewNumericColumnWithMissing(c.Name(), vals, missing)
}

// normalizeBool rewrites a boolean column to 0/1 integers, preserving name
// and row order.
func normalizeBool(c *dataset.Column) *dataset.Column {
	n := c.Len()
	vals := make([]float64, n)
	for i := 0; i < n; i++ {
		if !c.IsMissing(i) && c.Bool(i) {
			vals[i] = 1
		}
	}
	return dataset.NewNumericColumn(c.Name(), vals)
}

// cleanupBinary imputes the remaining missing entries of an encoded binary
// column to 0. This is an explicit, lossy decision: missingness becomes
// indistinguishable from the value mapped to 0, because downstream training
// requires fully-populated integer inputs.
func cleanupBinary(c *dataset.Column) *dataset.Column {
	n := c.Len()
	vals := make([]float64, n)
	for i := 0; i < n; i++ {
		if !c.IsMissing(i) {
			vals[i] = c.Float(i)
		}
	}
	return dataset.NewNumericColumn(c.Name(), vals)
}
