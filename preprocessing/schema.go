package preprocessing

import (
	"encoding/json"
	"io"
	"os"

	"github.com/YuminosukeSato/churnpipe/pkg/errors"
)

// ColumnRole describes how one source column is treated by the encoder.
type ColumnRole string

const (
	// RoleTarget marks the target/label column; it passes through
	// untouched and may be absent at serving time.
	RoleTarget ColumnRole = "target"
	// RolePassthrough marks columns carried over unchanged: numeric
	// columns and categorical columns with fewer than two distinct values.
	RolePassthrough ColumnRole = "passthrough"
	// RoleBinary marks binary-categorical columns encoded via a fixed
	// two-value mapping.
	RoleBinary ColumnRole = "binary"
	// RoleBoolean marks boolean columns normalized to 0/1.
	RoleBoolean ColumnRole = "boolean"
	// RoleExpand marks multi-categorical columns expanded into indicator
	// columns.
	RoleExpand ColumnRole = "expand"
)

// ColumnSchema is the frozen encoding rule for one source column.
type ColumnSchema struct {
	Name string     `json:"name"`
	Role ColumnRole `json:"role"`

	// Mapping is the value association for RoleBinary columns.
	Mapping *BinaryMapping `json:"mapping,omitempty"`

	// Categories is the full ordered category list for RoleExpand columns,
	// ascending by text value. The first entry is the reference category.
	Categories []string `json:"categories,omitempty"`
}

// FeatureSchema is the serializable artifact that freezes the encoding
// derived at training time. The serving path loads and applies it instead
// of recomputing a fresh classification from its own batch, which removes
// the train/serve vocabulary-drift risk of batch-local encoding.
type FeatureSchema struct {
	// TargetColumn is the label column name, excluded from encoding.
	TargetColumn string `json:"target_column"`

	// MissingIndicator selects the treatment of missing values in expanded
	// columns: false encodes missing as the reference category, true adds
	// a dedicated missing indicator column per expanded column.
	MissingIndicator bool `json:"missing_indicator"`

	// CoerceColumns names the columns coerced to numeric before encoding
	// (unparsable becomes missing, missing becomes 0). Recorded at fit
	// time so serving batches get the identical treatment.
	CoerceColumns []string `json:"coerce_columns,omitempty"`

	// Columns holds one entry per source column, in source column order.
	Columns []ColumnSchema `json:"columns"`
}

// OutputNames returns the encoded dataset's column names in their final
// order: surviving columns in source order, then the indicator columns of
// each expanded column, in source order and category order. The result
// depends only on the schema, never on a batch.
func (s *FeatureSchema) OutputNames() []string {
	var names []string
	for _, c := range s.Columns {
		if c.Role != RoleExpand {
			names = append(names, c.Name)
		}
	}
	for _, c := range s.Columns {
		if c.Role != RoleExpand {
			continue
		}
		for _, cat := range c.Categories[1:] {
			names = append(names, IndicatorName(c.Name, cat))
		}
		if s.MissingIndicator {
			names = append(names, MissingIndicatorName(c.Name))
		}
	}
	return names
}

// FeatureNames returns OutputNames without the target column: the exact
// column set, in order, a model is trained and served on.
func (s *FeatureSchema) FeatureNames() []string {
	var names []string
	for _, n := range s.OutputNames() {
		if n != s.TargetColumn {
			names = append(names, n)
		}
	}
	return names
}

// column returns the schema entry for a source column.
func (s *FeatureSchema) column(name string) (ColumnSchema, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnSchema{}, false
}

// WriteTo serializes the schema as JSON.
func (s *FeatureSchema) WriteTo(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return errors.Wrap(err, "encoding feature schema")
	}
	return nil
}

// Save writes the schema to a JSON file. The artifact is deliberately
// human-readable so a schema produced at training time can be reviewed and
// diffed before the serving path adopts it.
func (s *FeatureSchema) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating schema file")
	}
	defer f.Close()
	return s.WriteTo(f)
}

// ReadSchema deserializes a schema from JSON.
func ReadSchema(r io.Reader) (*FeatureSchema, error) {
	var s FeatureSchema
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, errors.Wrap(err, "decoding feature schema")
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadSchema reads a schema from a JSON file written by Save.
func LoadSchema(path string) (*FeatureSchema, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening schema file")
	}
	defer f.Close()
	return ReadSchema(f)
}

// validate rejects schemas whose frozen rules are internally inconsistent.
func (s *FeatureSchema) validate() error {
	seen := make(map[string]struct{}, len(s.Columns))
	for _, c := range s.Columns {
		if _, dup := seen[c.Name]; dup {
			return errors.NewValidationError("schema", "duplicate column", c.Name)
		}
		seen[c.Name] = struct{}{}
		switch c.Role {
		case RoleBinary:
			if c.Mapping == nil || c.Mapping.Zero == c.Mapping.One {
				return errors.NewSchemaMismatchError(c.Name, "fit", "binary column without a valid mapping")
			}
		case RoleExpand:
			if len(c.Categories) < 3 {
				return errors.NewSchemaMismatchError(c.Name, "fit", "expanded column needs more than 2 categories")
			}
		case RoleTarget, RolePassthrough, RoleBoolean:
		default:
			return errors.NewSchemaMismatchError(c.Name, "fit", "unknown column role "+string(c.Role))
		}
	}
	for _, name := range s.CoerceColumns {
		if _, ok := seen[name]; !ok {
			return errors.NewSchemaMismatchError(name, "fit", "coerce column not in schema")
		}
	}
	return nil
}
