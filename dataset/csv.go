package dataset

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/YuminosukeSato/churnpipe/pkg/errors"
)

// defaultMissingTokens are the cell values treated as missing during CSV
// ingestion. Leading/trailing whitespace is stripped before comparison.
var defaultMissingTokens = map[string]struct{}{
	"":     {},
	"NA":   {},
	"N/A":  {},
	"nan":  {},
	"NaN":  {},
	"null": {},
}

// CSVOption configures CSV ingestion.
type CSVOption func(*csvConfig)

type csvConfig struct {
	missingTokens map[string]struct{}
	comma         rune
}

// WithMissingTokens replaces the set of cell values treated as missing.
func WithMissingTokens(tokens ...string) CSVOption {
	return func(cfg *csvConfig) {
		cfg.missingTokens = make(map[string]struct{}, len(tokens))
		for _, t := range tokens {
			cfg.missingTokens[t] = struct{}{}
		}
	}
}

// WithComma sets the field delimiter.
func WithComma(c rune) CSVOption {
	return func(cfg *csvConfig) { cfg.comma = c }
}

// ReadCSV reads a dataset from CSV. The first record is the header. Column
// types are probed from the data: a column whose every non-missing cell
// parses as a float becomes numeric, a column whose every non-missing cell
// is True/False becomes boolean, everything else stays text. Probing looks
// at values only, never at row order, so the inferred types are stable
// across row permutations.
func ReadCSV(r io.Reader, opts ...CSVOption) (*Dataset, error) {
	cfg := &csvConfig{missingTokens: defaultMissingTokens, comma: ','}
	for _, opt := range opts {
		opt(cfg)
	}

	reader := csv.NewReader(r)
	reader.Comma = cfg.comma
	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "reading csv")
	}
	if len(records) < 1 {
		return nil, errors.NewModelError("ReadCSV", "empty input", errors.ErrEmptyData)
	}

	header := records[0]
	rows := records[1:]
	ds := New()

	for j, name := range header {
		cells := make([]string, len(rows))
		missing := make([]bool, len(rows))
		for i, rec := range rows {
			if j >= len(rec) {
				return nil, errors.NewValueError("ReadCSV", "short record at row "+strconv.Itoa(i+1))
			}
			v := strings.TrimSpace(rec[j])
			if _, miss := cfg.missingTokens[v]; miss {
				missing[i] = true
				continue
			}
			cells[i] = v
		}
		col := probeColumn(name, cells, missing)
		if err := ds.AddColumn(col); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

// probeColumn infers the strongest type every non-missing cell supports.
func probeColumn(name string, cells []string, missing []bool) *Column {
	isNumeric := true
	isBool := true
	sawValue := false
	for i, v := range cells {
		if missing[i] {
			continue
		}
		sawValue = true
		if isNumeric {
			if _, err := strconv.ParseFloat(v, 64); err != nil {
				isNumeric = false
			}
		}
		if isBool {
			switch v {
			case "True", "False", "true", "false":
			default:
				isBool = false
			}
		}
		if !isNumeric && !isBool {
			break
		}
	}

	switch {
	case sawValue && isBool:
		vals := make([]bool, len(cells))
		for i, v := range cells {
			if !missing[i] {
				vals[i] = v == "True" || v == "true"
			}
		}
		c := NewBoolColumn(name, vals)
		copy(c.missing, missing)
		return c
	case sawValue && isNumeric:
		vals := make([]float64, len(cells))
		for i, v := range cells {
			if !missing[i] {
				vals[i], _ = strconv.ParseFloat(v, 64)
			}
		}
		return NewNumericColumnWithMissing(name, vals, missing)
	default:
		return NewStringColumnWithMissing(name, cells, missing)
	}
}
