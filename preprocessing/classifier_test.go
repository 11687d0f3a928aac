package preprocessing

import (
	"reflect"
	"testing"

	"github.com/YuminosukeSato/churnpipe/dataset"
)

func buildRawDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.FromColumns(
		dataset.NewStringColumn("gender", []string{"Male", "Female", "Female", "Male"}),
		dataset.NewStringColumn("Partner", []string{"Yes", "No", "Yes", "No"}),
		dataset.NewStringColumn("Contract", []string{"Month-to-month", "One year", "Two year", "Month-to-month"}),
		dataset.NewNumericColumn("tenure", []float64{1, 34, 2, 45}),
		dataset.NewBoolColumn("SeniorCitizen", []bool{false, true, false, false}),
		dataset.NewStringColumn("Churn", []string{"No", "No", "Yes", "No"}),
	)
	if err != nil {
		t.Fatalf("building dataset: %v", err)
	}
	return ds
}

func TestClassify(t *testing.T) {
	ds := buildRawDataset(t)
	part := Classify(ds, "Churn")

	if !reflect.DeepEqual(part.Binary, []string{"gender", "Partner"}) {
		t.Errorf("Binary = %v, want [gender Partner]", part.Binary)
	}
	if !reflect.DeepEqual(part.Multi, []string{"Contract"}) {
		t.Errorf("Multi = %v, want [Contract]", part.Multi)
	}
	if !reflect.DeepEqual(part.Numeric, []string{"tenure"}) {
		t.Errorf("Numeric = %v, want [tenure]", part.Numeric)
	}
	if !reflect.DeepEqual(part.Boolean, []string{"SeniorCitizen"}) {
		t.Errorf("Boolean = %v, want [SeniorCitizen]", part.Boolean)
	}
}

func TestClassifyExcludesTarget(t *testing.T) {
	ds := buildRawDataset(t)
	part := Classify(ds, "Churn")

	for _, set := range [][]string{part.Numeric, part.Binary, part.Multi, part.Boolean} {
		for _, name := range set {
			if name == "Churn" {
				t.Fatal("target column leaked into a partition set")
			}
		}
	}

	// Without a target name, Churn is an ordinary binary column.
	part = Classify(ds, "")
	found := false
	for _, name := range part.Binary {
		if name == "Churn" {
			found = true
		}
	}
	if !found {
		t.Error("Churn should classify as binary when not named as target")
	}
}

func TestClassifyDegenerateColumns(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		miss   []bool
	}{
		{
			name:   "constant column",
			values: []string{"same", "same", "same"},
			miss:   []bool{false, false, false},
		},
		{
			name:   "entirely missing column",
			values: []string{"", "", ""},
			miss:   []bool{true, true, true},
		},
		{
			name:   "one distinct value plus missing",
			values: []string{"only", "", "only"},
			miss:   []bool{false, true, false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := dataset.FromColumns(
				dataset.NewStringColumnWithMissing("c", tt.values, tt.miss),
			)
			if err != nil {
				t.Fatalf("building dataset: %v", err)
			}
			part := Classify(ds, "")
			if len(part.Binary) != 0 || len(part.Multi) != 0 {
				t.Errorf("degenerate column classified for encoding: %+v", part)
			}
		})
	}
}

func TestClassifyCardinalityIgnoresMissing(t *testing.T) {
	// Two distinct values plus missing cells is still binary: missing never
	// counts toward the 2-vs->2 threshold.
	ds, err := dataset.FromColumns(
		dataset.NewStringColumnWithMissing("c",
			[]string{"A", "", "B", "", "A"},
			[]bool{false, true, false, true, false}),
	)
	if err != nil {
		t.Fatalf("building dataset: %v", err)
	}
	part := Classify(ds, "")
	if !reflect.DeepEqual(part.Binary, []string{"c"}) {
		t.Errorf("Binary = %v, want [c]", part.Binary)
	}
}
