// Package churnpipe implements a deterministic feature-encoding and
// training pipeline for customer churn prediction.
//
// The pipeline takes the telco customer export, validates it against a
// rule suite, encodes every column into a fully-numeric feature matrix,
// and trains a gradient-boosted tree classifier. The encoding is frozen
// into a serializable feature schema at training time, so a serving
// process applying the same schema produces byte-identical feature
// matrices regardless of batch size, row order, or which category values
// happen to appear in the batch.
//
// # Quick Start
//
//	package main
//
//	import (
//	    "log"
//	    "os"
//
//	    "github.com/YuminosukeSato/churnpipe/dataset"
//	    "github.com/YuminosukeSato/churnpipe/experiment"
//	    "github.com/YuminosukeSato/churnpipe/pipeline"
//	)
//
//	func main() {
//	    f, err := os.Open("telco.csv")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    defer f.Close()
//
//	    ds, err := dataset.ReadCSV(f)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    tracker, err := experiment.NewTracker("mlruns")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    result, err := pipeline.Train(pipeline.DefaultConfig(), tracker, ds, "telco.csv")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    log.Printf("accuracy=%.4f recall=%.4f", result.Accuracy, result.Recall)
//	}
//
// # Packages
//
//   - dataset: columnar in-memory dataset with CSV loading and gonum
//     matrix conversion
//   - validation: rule-based dataset checks and numeric coercion
//   - preprocessing: the feature encoder and the frozen FeatureSchema
//   - boosting: the gradient-boosted tree classifier and data splitting
//   - metrics: binary classification metrics and reports
//   - experiment: file-backed run tracking with artifact storage
//   - pipeline: end-to-end train and serve orchestration
package churnpipe
