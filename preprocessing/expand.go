package preprocessing

import (
	"github.com/YuminosukeSato/churnpipe/dataset"
	"github.com/YuminosukeSato/churnpipe/pkg/errors"
)

// IndicatorName returns the output column name for one category of an
// expanded column. The source column and category value are joined with an
// underscore, identically at fit and serve time.
func IndicatorName(column, category string) string {
	return column + "_" + category
}

// MissingIndicatorName returns the output column name of the dedicated
// missing indicator, when that option is enabled.
func MissingIndicatorName(column string) string {
	return column + "_missing"
}

// expandColumn expands a multi-categorical text column against a frozen,
// ascending-ordered category list. The first category is the reference: it
// is dropped and represented by all indicators being 0. The result has one
// 0/1 column per remaining category, in category order, plus a trailing
// missing indicator when missingIndicator is set.
//
// Rows whose value is missing get 0 in every indicator (the reference
// treatment) unless the missing indicator is enabled. Rows whose value is
// absent from the category list are vocabulary drift: they encode as the
// reference and raise a VocabularyDriftWarning per drifted value.
func expandColumn(c *dataset.Column, categories []string, missingIndicator bool) []*dataset.Column {
	n := c.Len()
	index := make(map[string]int, len(categories))
	for i, cat := range categories {
		index[cat] = i
	}

	// indicator j covers categories[j+1]
	indicators := make([][]float64, len(categories)-1)
	for j := range indicators {
		indicators[j] = make([]float64, n)
	}
	var missingVals []float64
	if missingIndicator {
		missingVals = make([]float64, n)
	}

	drifted := make(map[string]int)
	for i := 0; i < n; i++ {
		if c.IsMissing(i) {
			if missingIndicator {
				missingVals[i] = 1
			}
			continue
		}
		pos, ok := index[c.String(i)]
		if !ok {
			drifted[c.String(i)]++
			continue
		}
		if pos > 0 {
			indicators[pos-1][i] = 1
		}
	}
	for v, count := range drifted {
		errors.Warn(errors.NewVocabularyDriftWarning(c.Name(), v, count))
	}

	out := make([]*dataset.Column, 0, len(indicators)+1)
	for j, vals := range indicators {
		out = append(out, dataset.NewNumericColumn(IndicatorName(c.Name(), categories[j+1]), vals))
	}
	if missingIndicator {
		out = append(out, dataset.NewNumericColumn(MissingIndicatorName(c.Name()), missingVals))
	}
	return out
}
