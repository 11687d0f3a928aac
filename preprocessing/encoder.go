package preprocessing

import (
	"log/slog"

	"github.com/YuminosukeSato/churnpipe/core/model"
	"github.com/YuminosukeSato/churnpipe/dataset"
	"github.com/YuminosukeSato/churnpipe/pkg/errors"
	"github.com/YuminosukeSato/churnpipe/pkg/log"
)

// DefaultTargetColumn is the conventional churn outcome column name.
const DefaultTargetColumn = "Churn"

// FeatureEncoder converts a raw dataset into the fully-numeric feature
// matrix a classifier trains and serves on. Fit derives a FeatureSchema
// from a training batch; Transform applies a frozen schema, so two
// independently invoked runs produce identically-shaped, identically-coded
// matrices even when they see different row subsets or missing-value
// patterns.
//
// The encoder is stateless across invocations apart from the schema: it
// caches no batch data and no prior run's vocabularies.
type FeatureEncoder struct {
	model.BaseEstimator

	// TargetColumn is excluded from encoding and passed through untouched.
	TargetColumn string

	// MissingIndicator makes missing values in expanded columns an explicit
	// indicator column instead of folding them into the reference category.
	MissingIndicator bool

	// CoerceColumns names columns coerced to numeric before encoding.
	// The columns actually found at fit time are frozen into the schema,
	// so serving batches are coerced identically.
	CoerceColumns []string

	schema *FeatureSchema
}

// NewFeatureEncoder creates an encoder with the default target column and
// missing values treated as the reference category.
func NewFeatureEncoder() *FeatureEncoder {
	return &FeatureEncoder{TargetColumn: DefaultTargetColumn}
}

// NewFeatureEncoderFromSchema creates an already-fitted encoder that
// applies a previously frozen schema. This is the serving path: load the
// schema produced at training time and call Transform.
func NewFeatureEncoderFromSchema(s *FeatureSchema) (*FeatureEncoder, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}
	e := &FeatureEncoder{
		TargetColumn:     s.TargetColumn,
		MissingIndicator: s.MissingIndicator,
		CoerceColumns:    s.CoerceColumns,
		schema:           s,
	}
	e.SetFitted()
	return e, nil
}

// WithTargetColumn sets the target column name.
func (e *FeatureEncoder) WithTargetColumn(name string) *FeatureEncoder {
	e.TargetColumn = name
	return e
}

// WithMissingIndicator enables dedicated missing-indicator columns for
// expanded features.
func (e *FeatureEncoder) WithMissingIndicator(on bool) *FeatureEncoder {
	e.MissingIndicator = on
	return e
}

// WithCoerceColumns sets the columns coerced to numeric before encoding.
func (e *FeatureEncoder) WithCoerceColumns(names ...string) *FeatureEncoder {
	e.CoerceColumns = names
	return e
}

// coerce applies the numeric coercion to every named column present in
// the batch, on a copy. With no coerce columns the batch is returned
// as is.
func coerce(ds *dataset.Dataset, names []string) (*dataset.Dataset, []string, error) {
	var applied []string
	for _, n := range names {
		if ds.HasColumn(n) {
			applied = append(applied, n)
		}
	}
	if len(applied) == 0 {
		return ds, nil, nil
	}

	work := ds.Clone()
	for _, n := range applied {
		if err := CoerceNumeric(work, n); err != nil {
			return nil, nil, err
		}
	}
	return work, applied, nil
}

// Schema returns the frozen schema. The encoder must be fitted.
func (e *FeatureEncoder) Schema() (*FeatureSchema, error) {
	if !e.IsFitted() {
		return nil, errors.NewNotFittedError("FeatureEncoder", "Schema")
	}
	return e.schema, nil
}

// Fit derives the feature schema from a training batch. The derivation is
// a pure function of column identity, cell types, and non-missing value
// sets: permuting the batch's rows yields an identical schema.
func (e *FeatureEncoder) Fit(ds *dataset.Dataset) error {
	if ds.NumCols() == 0 || ds.NumRows() == 0 {
		return errors.NewModelError("FeatureEncoder.Fit", "empty data", errors.ErrEmptyData)
	}

	ds, coerced, err := coerce(ds, e.CoerceColumns)
	if err != nil {
		return err
	}

	part := Classify(ds, e.TargetColumn)
	slog.Debug("column classification complete",
		log.StageKey, "classify",
		log.NumericColsKey, len(part.Numeric),
		log.BinaryColsKey, len(part.Binary),
		log.MultiColsKey, len(part.Multi),
		log.BooleanColsKey, len(part.Boolean),
	)

	roles := make(map[string]ColumnRole, ds.NumCols())
	for _, n := range part.Binary {
		roles[n] = RoleBinary
	}
	for _, n := range part.Multi {
		roles[n] = RoleExpand
	}
	for _, n := range part.Boolean {
		roles[n] = RoleBoolean
	}

	schema := &FeatureSchema{
		TargetColumn:     e.TargetColumn,
		MissingIndicator: e.MissingIndicator,
		CoerceColumns:    coerced,
	}
	for i := 0; i < ds.NumCols(); i++ {
		c := ds.ColumnAt(i)
		cs := ColumnSchema{Name: c.Name()}
		switch {
		case c.Name() == e.TargetColumn:
			cs.Role = RoleTarget
		case roles[c.Name()] == RoleBinary:
			cs.Role = RoleBinary
			mapping, err := MappingFor(c.DistinctStrings())
			if err != nil {
				return err
			}
			cs.Mapping = &mapping
		case roles[c.Name()] == RoleExpand:
			cs.Role = RoleExpand
			cs.Categories = c.DistinctStrings()
		case roles[c.Name()] == RoleBoolean:
			cs.Role = RoleBoolean
		default:
			// Numeric columns and degenerate categoricals (fewer than two
			// distinct non-missing values) pass through unencoded.
			cs.Role = RolePassthrough
		}
		schema.Columns = append(schema.Columns, cs)
	}

	e.schema = schema
	e.SetFitted()
	return nil
}

// Transform applies the frozen schema to a batch. Every non-target schema
// column must be present; the target is optional (serving batches carry no
// label) and passes through untouched when present. Categories absent from
// the batch still produce their zero indicator columns and categories
// unseen at fit time encode as the reference with a drift warning, so the
// output column set and order are always exactly Schema().OutputNames().
func (e *FeatureEncoder) Transform(ds *dataset.Dataset) (*dataset.Dataset, error) {
	if !e.IsFitted() {
		return nil, errors.NewNotFittedError("FeatureEncoder", "Transform")
	}

	// Frozen coercion runs first, exactly as it did at fit time: a blank
	// or unparsable cell in a coerced column encodes as 0 at serving time
	// too, rather than failing the batch.
	ds, _, err := coerce(ds, e.schema.CoerceColumns)
	if err != nil {
		return nil, err
	}

	out := dataset.New()
	var expansions []*dataset.Column
	var binaryCols []string

	for _, cs := range e.schema.Columns {
		c, err := ds.Column(cs.Name)
		if err != nil {
			if cs.Role == RoleTarget {
				continue
			}
			return nil, errors.NewSchemaMismatchError(cs.Name, "transform", "column missing from batch")
		}

		switch cs.Role {
		case RoleTarget, RolePassthrough:
			err = out.AddColumn(c.Clone())
		case RoleBoolean:
			switch c.Kind() {
			case dataset.KindBool:
				err = out.AddColumn(normalizeBool(c))
			case dataset.KindNumeric:
				err = out.AddColumn(c.Clone())
			default:
				return nil, errors.NewSchemaMismatchError(cs.Name, "transform", "expected a boolean column")
			}
		case RoleBinary:
			if c.Kind() != dataset.KindString {
				return nil, errors.NewSchemaMismatchError(cs.Name, "transform", "expected a text column")
			}
			err = out.AddColumn(encodeBinary(c, *cs.Mapping))
			binaryCols = append(binaryCols, cs.Name)
		case RoleExpand:
			if c.Kind() != dataset.KindString {
				return nil, errors.NewSchemaMismatchError(cs.Name, "transform", "expected a text column")
			}
			expansions = append(expansions, expandColumn(c, cs.Categories, e.schema.MissingIndicator)...)
		}
		if err != nil {
			return nil, err
		}
	}

	// Indicator columns are appended after the surviving columns,
	// identically at fit and serve time.
	for _, c := range expansions {
		if err := out.AddColumn(c); err != nil {
			return nil, err
		}
	}

	// Final cleanup: encoded binary columns lose their nullable
	// representation, with missing entries imputed to 0.
	for _, name := range binaryCols {
		c, err := out.Column(name)
		if err != nil {
			return nil, err
		}
		if err := out.ReplaceColumn(name, cleanupBinary(c)); err != nil {
			return nil, err
		}
	}

	slog.Debug("feature encoding complete",
		log.StageKey, "encode",
		log.OperationKey, "transform",
		log.RowsKey, out.NumRows(),
		log.ColumnsKey, out.NumCols(),
	)
	return out, nil
}

// FitTransform fits the encoder on a batch and encodes the same batch.
// This is the batch-local training path; the serving path must use
// NewFeatureEncoderFromSchema with the saved schema instead.
func (e *FeatureEncoder) FitTransform(ds *dataset.Dataset) (*dataset.Dataset, error) {
	if err := e.Fit(ds); err != nil {
		return nil, err
	}
	return e.Transform(ds)
}

// BuildFeatures is the one-shot convenience used by the training pipeline:
// fit an encoder on the batch and return the encoded batch together with
// the frozen schema to persist for serving.
func BuildFeatures(ds *dataset.Dataset, target string) (*dataset.Dataset, *FeatureSchema, error) {
	enc := NewFeatureEncoder().WithTargetColumn(target)
	encoded, err := enc.FitTransform(ds)
	if err != nil {
		return nil, nil, err
	}
	return encoded, enc.schema, nil
}
