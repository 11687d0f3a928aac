package preprocessing

import (
	"strconv"
	"strings"

	"github.com/YuminosukeSato/churnpipe/dataset"
	"github.com/YuminosukeSato/churnpipe/pkg/errors"
)

// CoerceNumeric converts a naturally-textual numeric column (TotalCharges
// arrives as text with stray whitespace) into a fully-populated numeric
// column, in place. Unparsable values become missing and missing values
// are then imputed to zero: robustness over strictness, since the rule
// suite is the designated place to reject genuinely bad data. A
// DataConversionWarning is raised when any value needed coercion.
//
// Columns named in FeatureEncoder.CoerceColumns get this treatment inside
// Fit and Transform, so training and serving coerce identically.
func CoerceNumeric(ds *dataset.Dataset, column string) error {
	c, err := ds.Column(column)
	if err != nil {
		return err
	}

	n := c.Len()
	vals := make([]float64, n)
	coerced := 0

	switch c.Kind() {
	case dataset.KindNumeric:
		for i := 0; i < n; i++ {
			if c.IsMissing(i) {
				coerced++
				continue
			}
			vals[i] = c.Float(i)
		}
	case dataset.KindString:
		for i := 0; i < n; i++ {
			if c.IsMissing(i) {
				coerced++
				continue
			}
			v, perr := strconv.ParseFloat(strings.TrimSpace(c.String(i)), 64)
			if perr != nil {
				coerced++
				continue
			}
			vals[i] = v
		}
	default:
		return errors.NewValueError("CoerceNumeric", "column "+column+" is boolean")
	}

	if coerced > 0 {
		errors.Warn(errors.NewDataConversionWarning(
			c.Kind().String(), "numeric",
			strconv.Itoa(coerced)+" values in "+column+" coerced to 0"))
	}
	return ds.ReplaceColumn(column, dataset.NewNumericColumn(column, vals))
}
