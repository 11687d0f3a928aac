package preprocessing

import (
	"testing"

	"github.com/YuminosukeSato/churnpipe/dataset"
)

func TestMappingFor(t *testing.T) {
	tests := []struct {
		name    string
		values  []string
		want    BinaryMapping
		wantErr bool
	}{
		{
			name:   "yes/no vocabulary",
			values: []string{"Yes", "No"},
			want:   BinaryMapping{Zero: "No", One: "Yes"},
		},
		{
			name:   "yes/no regardless of order",
			values: []string{"No", "Yes"},
			want:   BinaryMapping{Zero: "No", One: "Yes"},
		},
		{
			name:   "gender vocabulary",
			values: []string{"Male", "Female"},
			want:   BinaryMapping{Zero: "Female", One: "Male"},
		},
		{
			name:   "fallback alphabetical",
			values: []string{"B", "A"},
			want:   BinaryMapping{Zero: "A", One: "B"},
		},
		{
			name:   "fallback symmetry",
			values: []string{"X", "Y"},
			want:   BinaryMapping{Zero: "X", One: "Y"},
		},
		{
			name:    "one value",
			values:  []string{"Yes"},
			wantErr: true,
		},
		{
			name:    "duplicate values",
			values:  []string{"Yes", "Yes"},
			wantErr: true,
		},
		{
			name:    "three values",
			values:  []string{"A", "B", "C"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MappingFor(tt.values)
			if (err != nil) != tt.wantErr {
				t.Fatalf("MappingFor() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("MappingFor() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

// Encoding the same vocabulary twice must yield the same mapping both
// times: the rule depends on value identity only.
func TestMappingForStability(t *testing.T) {
	first, err := MappingFor([]string{"DSL", "Cable"})
	if err != nil {
		t.Fatal(err)
	}
	second, err := MappingFor([]string{"Cable", "DSL"})
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("mapping unstable: %+v vs %+v", first, second)
	}
}

func TestEncodeBinaryGenderScenario(t *testing.T) {
	col := dataset.NewStringColumn("gender", []string{"Male", "Female", "Female", "Male"})
	m, err := MappingFor(col.DistinctStrings())
	if err != nil {
		t.Fatal(err)
	}
	got := encodeBinary(col, m)

	want := []float64{1, 0, 0, 1}
	for i, w := range want {
		if got.IsMissing(i) || got.Float(i) != w {
			t.Errorf("row %d = %v (missing=%v), want %v", i, got.Float(i), got.IsMissing(i), w)
		}
	}
}

func TestEncodeBinaryPartnerScenario(t *testing.T) {
	col := dataset.NewStringColumn("Partner", []string{"Yes", "No", "Yes"})
	got := encodeBinary(col, BinaryMapping{Zero: "No", One: "Yes"})

	want := []float64{1, 0, 1}
	for i, w := range want {
		if got.Float(i) != w {
			t.Errorf("row %d = %v, want %v", i, got.Float(i), w)
		}
	}
}

func TestEncodeBinaryPropagatesMissing(t *testing.T) {
	col := dataset.NewStringColumnWithMissing("Partner",
		[]string{"Yes", "", "No"},
		[]bool{false, true, false})
	got := encodeBinary(col, BinaryMapping{Zero: "No", One: "Yes"})

	if !got.IsMissing(1) {
		t.Error("missing cell was not propagated")
	}
	if got.IsMissing(0) || got.IsMissing(2) {
		t.Error("present cells became missing")
	}

	// Cleanup imputes missing to 0 and drops the nullable representation.
	clean := cleanupBinary(got)
	if clean.HasMissing() {
		t.Error("cleanup left missing entries")
	}
	if clean.Float(1) != 0 {
		t.Errorf("imputed value = %v, want 0", clean.Float(1))
	}
	if clean.Float(0) != 1 || clean.Float(2) != 0 {
		t.Error("cleanup changed present values")
	}
}

func TestNormalizeBool(t *testing.T) {
	col := dataset.NewBoolColumn("SeniorCitizen", []bool{true, false, true})
	got := normalizeBool(col)

	if got.Kind() != dataset.KindNumeric {
		t.Fatalf("kind = %v, want numeric", got.Kind())
	}
	want := []float64{1, 0, 1}
	for i, w := range want {
		if got.Float(i) != w {
			t.Errorf("row %d = %v, want %v", i, got.Float(i), w)
		}
	}
}
