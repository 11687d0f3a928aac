// Package log defines standard attribute keys for pipeline log events.
//
// Using these keys consistently across stages keeps the train and serve
// paths comparable in log analysis: the same stage names, the same shape
// keys, the same metric keys.

package log

// Pipeline stage and operation context.
const (
	// StageKey identifies the pipeline stage emitting the event.
	// Standard values: "validate", "classify", "encode", "split", "train",
	// "evaluate", "serve"
	StageKey = "pipeline.stage"

	// OperationKey specifies the estimator operation being performed.
	// Standard values: "fit", "transform", "fit_transform", "predict", "score"
	OperationKey = "ml.operation"

	// ModelNameKey identifies the estimator type.
	// Examples: "FeatureEncoder", "GBTClassifier"
	ModelNameKey = "model.name"

	// RunIDKey carries the experiment run identifier once a run is open.
	RunIDKey = "run.id"
)

// Data shape and characteristics.
const (
	// RowsKey indicates the number of rows in the dataset being processed.
	RowsKey = "data.rows"

	// ColumnsKey indicates the number of columns in the dataset.
	ColumnsKey = "data.columns"

	// ColumnKey names a single column when an event concerns one column.
	ColumnKey = "data.column"

	// BinaryColsKey indicates how many columns were classified as
	// binary-categorical.
	BinaryColsKey = "data.binary_columns"

	// MultiColsKey indicates how many columns were classified as
	// multi-categorical.
	MultiColsKey = "data.multi_columns"

	// BooleanColsKey indicates how many columns were classified as boolean.
	BooleanColsKey = "data.boolean_columns"

	// NumericColsKey indicates how many columns were classified as numeric.
	NumericColsKey = "data.numeric_columns"
)

// Metrics and timing.
const (
	// AccuracyKey records classification accuracy on the held-out split.
	AccuracyKey = "metric.accuracy"

	// RecallKey records classification recall on the held-out split.
	RecallKey = "metric.recall"

	// DurationMsKey records the execution time of a stage in milliseconds.
	DurationMsKey = "perf.duration_ms"
)
