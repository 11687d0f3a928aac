package pipeline

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/churnpipe/dataset"
	"github.com/YuminosukeSato/churnpipe/experiment"
	"github.com/YuminosukeSato/churnpipe/validation"
)

// churnDataset builds a raw batch shaped like the telco export: an ID
// column, text categoricals, a dirty numeric shipped as text, and a
// Yes/No outcome that is a deterministic function of tenure.
func churnDataset(t *testing.T, n int) *dataset.Dataset {
	t.Helper()

	ids := make([]string, n)
	gender := make([]string, n)
	partner := make([]string, n)
	contract := make([]string, n)
	tenure := make([]float64, n)
	total := make([]string, n)
	churn := make([]string, n)
	contracts := []string{"Month-to-month", "One year", "Two year"}

	for i := 0; i < n; i++ {
		ids[i] = fmt.Sprintf("C%04d", i)
		if i%2 == 0 {
			gender[i] = "Female"
		} else {
			gender[i] = "Male"
		}
		if i%3 == 0 {
			partner[i] = "Yes"
		} else {
			partner[i] = "No"
		}
		contract[i] = contracts[i%3]
		tenure[i] = float64((i * 7) % 60)
		total[i] = fmt.Sprintf("%.2f", tenure[i]*29.85)
		if tenure[i] < 10 {
			churn[i] = "Yes"
		} else {
			churn[i] = "No"
		}
	}

	ds, err := dataset.FromColumns(
		dataset.NewStringColumn("customerID", ids),
		dataset.NewStringColumn("gender", gender),
		dataset.NewStringColumn("Partner", partner),
		dataset.NewStringColumn("Contract", contract),
		dataset.NewNumericColumn("tenure", tenure),
		dataset.NewStringColumn("TotalCharges", total),
		dataset.NewStringColumn("Churn", churn),
	)
	require.NoError(t, err)
	return ds
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Validator = validation.New(
		validation.ColumnExists{Column: "Churn"},
		validation.ColumnExists{Column: "tenure"},
	)
	cfg.NumIterations = 30
	cfg.MaxDepth = 3
	return cfg
}

func TestTrainRecordsRun(t *testing.T) {
	tracker, err := experiment.NewTracker(t.TempDir())
	require.NoError(t, err)
	ds := churnDataset(t, 60)

	result, err := Train(testConfig(), tracker, ds, "synthetic")
	require.NoError(t, err)

	// The outcome is a deterministic function of tenure, so the model
	// should separate the held-out rows almost perfectly.
	assert.GreaterOrEqual(t, result.Accuracy, 0.9)
	assert.NotEmpty(t, result.Report)
	require.NotNil(t, result.Confusion)
	assert.NotNil(t, result.Schema)

	run, err := tracker.LoadRun(result.RunID)
	require.NoError(t, err)
	assert.Equal(t, result.Accuracy, run.Metrics["accuracy"])
	assert.Equal(t, result.Recall, run.Metrics["recall"])
	assert.Equal(t, "synthetic", run.DatasetRef)
	assert.FileExists(t, run.ArtifactPath(SchemaArtifact))
	assert.FileExists(t, run.ArtifactPath(ModelArtifact))

	// The ID column never reaches the schema.
	for _, name := range result.Schema.FeatureNames() {
		assert.NotEqual(t, "customerID", name)
	}
}

func TestTrainValidationFailure(t *testing.T) {
	tracker, err := experiment.NewTracker(t.TempDir())
	require.NoError(t, err)
	ds := churnDataset(t, 30)
	require.NoError(t, ds.DropColumn("tenure"))

	_, err = Train(testConfig(), tracker, ds, "synthetic")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestTrainDoesNotModifyInput(t *testing.T) {
	tracker, err := experiment.NewTracker(t.TempDir())
	require.NoError(t, err)
	ds := churnDataset(t, 60)
	wantCols := ds.NumCols()

	_, err = Train(testConfig(), tracker, ds, "synthetic")
	require.NoError(t, err)

	assert.Equal(t, wantCols, ds.NumCols())
	assert.True(t, ds.HasColumn("customerID"))
	c, err := ds.Column("TotalCharges")
	require.NoError(t, err)
	assert.Equal(t, dataset.KindString, c.Kind())
}

func TestTrainThenServe(t *testing.T) {
	tracker, err := experiment.NewTracker(t.TempDir())
	require.NoError(t, err)
	ds := churnDataset(t, 60)

	result, err := Train(testConfig(), tracker, ds, "synthetic")
	require.NoError(t, err)

	run, err := tracker.LoadRun(result.RunID)
	require.NoError(t, err)
	scorer, err := LoadScorer(run.ArtifactDir)
	require.NoError(t, err)

	// A single-row serving batch: no target column, an extraneous ID
	// column, and only one of the three fit-time contract categories.
	churner, err := dataset.FromColumns(
		dataset.NewStringColumn("customerID", []string{"C9999"}),
		dataset.NewStringColumn("gender", []string{"Female"}),
		dataset.NewStringColumn("Partner", []string{"No"}),
		dataset.NewStringColumn("Contract", []string{"Month-to-month"}),
		dataset.NewNumericColumn("tenure", []float64{1}),
		dataset.NewNumericColumn("TotalCharges", []float64{29.85}),
	)
	require.NoError(t, err)

	pred, err := scorer.Predict(churner)
	require.NoError(t, err)
	assert.Equal(t, 1.0, pred.AtVec(0))

	proba, err := scorer.PredictProba(churner)
	require.NoError(t, err)
	assert.Greater(t, proba.AtVec(0), 0.5)

	loyal, err := dataset.FromColumns(
		dataset.NewStringColumn("customerID", []string{"C9998"}),
		dataset.NewStringColumn("gender", []string{"Male"}),
		dataset.NewStringColumn("Partner", []string{"Yes"}),
		dataset.NewStringColumn("Contract", []string{"Two year"}),
		dataset.NewNumericColumn("tenure", []float64{55}),
		dataset.NewNumericColumn("TotalCharges", []float64{1641.75}),
	)
	require.NoError(t, err)

	pred, err = scorer.Predict(loyal)
	require.NoError(t, err)
	assert.Equal(t, 0.0, pred.AtVec(0))
}

func TestServeCoercesDirtyTotalCharges(t *testing.T) {
	tracker, err := experiment.NewTracker(t.TempDir())
	require.NoError(t, err)

	// Raw training batch whose TotalCharges column carries a blank cell,
	// as the telco export does. Training imputes it to 0.
	ds := churnDataset(t, 60)
	charges, err := ds.Column("TotalCharges")
	require.NoError(t, err)
	dirty := make([]string, 60)
	missing := make([]bool, 60)
	for i := 0; i < 60; i++ {
		dirty[i] = charges.String(i)
	}
	dirty[3], missing[3] = "", true
	dirty[7] = "not-a-number"
	require.NoError(t, ds.ReplaceColumn("TotalCharges",
		dataset.NewStringColumnWithMissing("TotalCharges", dirty, missing)))

	result, err := Train(testConfig(), tracker, ds, "synthetic")
	require.NoError(t, err)
	assert.Contains(t, result.Schema.CoerceColumns, "TotalCharges")

	// Serving the same raw rows, dirty cells included, must succeed with
	// the frozen schema applying the identical coercion.
	run, err := tracker.LoadRun(result.RunID)
	require.NoError(t, err)
	scorer, err := LoadScorer(run.ArtifactDir)
	require.NoError(t, err)

	pred, err := scorer.Predict(ds)
	require.NoError(t, err)
	assert.Equal(t, ds.NumRows(), pred.Len())

	// And a fresh single-row batch with a blank charge scores too.
	blank, err := dataset.FromColumns(
		dataset.NewStringColumn("customerID", []string{"C9997"}),
		dataset.NewStringColumn("gender", []string{"Female"}),
		dataset.NewStringColumn("Partner", []string{"No"}),
		dataset.NewStringColumn("Contract", []string{"Month-to-month"}),
		dataset.NewNumericColumn("tenure", []float64{2}),
		dataset.NewStringColumnWithMissing("TotalCharges", []string{""}, []bool{true}),
	)
	require.NoError(t, err)
	pred, err = scorer.Predict(blank)
	require.NoError(t, err)
	assert.Equal(t, 1, pred.Len())
}

func TestServeAlignedColumns(t *testing.T) {
	tracker, err := experiment.NewTracker(t.TempDir())
	require.NoError(t, err)
	ds := churnDataset(t, 60)

	result, err := Train(testConfig(), tracker, ds, "synthetic")
	require.NoError(t, err)

	scorer, err := NewScorer(result.Schema, result.Model)
	require.NoError(t, err)

	batch, err := dataset.FromColumns(
		dataset.NewStringColumn("gender", []string{"Female", "Male"}),
		dataset.NewStringColumn("Partner", []string{"Yes", "No"}),
		dataset.NewStringColumn("Contract", []string{"One year", "Month-to-month"}),
		dataset.NewNumericColumn("tenure", []float64{5, 40}),
		dataset.NewNumericColumn("TotalCharges", []float64{149.25, 1194.0}),
	)
	require.NoError(t, err)

	X, err := scorer.Encode(batch)
	require.NoError(t, err)
	rows, cols := X.Dims()
	assert.Equal(t, 2, rows)
	assert.Equal(t, len(result.Schema.FeatureNames()), cols)
}
