// Package model provides the base estimator plumbing shared by churnpipe's
// transformers and classifiers: fitted-state tracking, the common
// interfaces, and artifact persistence helpers.
package model

// EstimatorState represents the fitted state of an estimator.
type EstimatorState int

const (
	// NotFitted means the estimator has not been fitted yet.
	NotFitted EstimatorState = iota
	// Fitted means the estimator has been fitted.
	Fitted
)

// BaseEstimator is the base struct embedded by all estimators.
type BaseEstimator struct {
	state EstimatorState
}

// IsFitted reports whether the estimator has been fitted.
func (e *BaseEstimator) IsFitted() bool {
	return e.state == Fitted
}

// SetFitted marks the estimator as fitted.
func (e *BaseEstimator) SetFitted() {
	e.state = Fitted
}

// Reset returns the estimator to its initial, unfitted state.
func (e *BaseEstimator) Reset() {
	e.state = NotFitted
}

// GobEncode implements gob.GobEncoder. Without it gob refuses to encode
// estimators, since BaseEstimator exports no fields.
func (e *BaseEstimator) GobEncode() ([]byte, error) {
	return []byte{byte(e.state)}, nil
}

// GobDecode implements gob.GobDecoder.
func (e *BaseEstimator) GobDecode(data []byte) error {
	if len(data) > 0 {
		e.state = EstimatorState(data[0])
	}
	return nil
}
