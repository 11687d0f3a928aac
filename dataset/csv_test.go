package dataset

import (
	"strings"
	"testing"
)

func TestReadCSVTypeProbing(t *testing.T) {
	input := strings.Join([]string{
		"customerID,tenure,Partner,SeniorCitizen,TotalCharges",
		"0001,1,Yes,False,29.85",
		"0002,34,No,True,1889.5",
		"0003,2,Yes,False, ",
	}, "\n")

	ds, err := ReadCSV(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		column string
		want   Kind
	}{
		{"customerID", KindNumeric}, // zero-padded IDs still parse as floats
		{"tenure", KindNumeric},
		{"Partner", KindString},
		{"SeniorCitizen", KindBool},
		{"TotalCharges", KindNumeric},
	}
	for _, tt := range tests {
		c, err := ds.Column(tt.column)
		if err != nil {
			t.Fatalf("column %s: %v", tt.column, err)
		}
		if c.Kind() != tt.want {
			t.Errorf("column %s kind = %v, want %v", tt.column, c.Kind(), tt.want)
		}
	}

	// The whitespace-only TotalCharges cell is missing, not zero.
	tc, _ := ds.Column("TotalCharges")
	if !tc.IsMissing(2) {
		t.Error("blank cell not marked missing")
	}
	if tc.Float(0) != 29.85 {
		t.Errorf("TotalCharges[0] = %v, want 29.85", tc.Float(0))
	}
}

func TestReadCSVMissingTokens(t *testing.T) {
	input := "a,b\nNA,1\nx,2\n"
	ds, err := ReadCSV(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	a, _ := ds.Column("a")
	if !a.IsMissing(0) {
		t.Error("NA not treated as missing by default")
	}

	// Custom token set: NA becomes a literal value.
	ds, err = ReadCSV(strings.NewReader(input), WithMissingTokens("?"))
	if err != nil {
		t.Fatal(err)
	}
	a, _ = ds.Column("a")
	if a.IsMissing(0) || a.String(0) != "NA" {
		t.Error("custom missing tokens not honored")
	}
}

func TestReadCSVEmptyInput(t *testing.T) {
	if _, err := ReadCSV(strings.NewReader("")); err == nil {
		t.Error("empty input accepted")
	}
}

func TestMatrixConversion(t *testing.T) {
	ds, err := FromColumns(
		NewNumericColumn("a", []float64{1, 2}),
		NewBoolColumn("b", []bool{true, false}),
	)
	if err != nil {
		t.Fatal(err)
	}

	m, err := ds.Matrix([]string{"a", "b"})
	if err != nil {
		t.Fatal(err)
	}
	r, c := m.Dims()
	if r != 2 || c != 2 {
		t.Fatalf("dims = %dx%d, want 2x2", r, c)
	}
	if m.At(0, 1) != 1 || m.At(1, 1) != 0 {
		t.Error("bool column not converted to 0/1")
	}
}

func TestMatrixRejectsMissingAndText(t *testing.T) {
	ds, err := FromColumns(
		NewNumericColumnWithMissing("a", []float64{1, 0}, []bool{false, true}),
		NewStringColumn("s", []string{"x", "y"}),
	)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := ds.Matrix([]string{"a"}); err == nil {
		t.Error("missing value accepted")
	}
	if _, err := ds.Matrix([]string{"s"}); err == nil {
		t.Error("text column accepted")
	}
}
