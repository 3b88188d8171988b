// Package model provides the core abstractions shared by every estimator.
//
// This package defines:
//
//   - BaseEstimator: fitted-state tracking embedded by every transformer
//   - Transformer: the Fit/Transform contract over gonum matrices
//   - Persistence: save and load fitted estimators with encoding/gob
//   - Export: a versioned JSON envelope describing fitted parameters
//
// Example usage:
//
//	type MyTransformer struct {
//		model.BaseEstimator
//		// fitted statistics
//	}
//
//	func (m *MyTransformer) Fit(X mat.Matrix) error {
//		// learn statistics
//		m.SetFitted()
//		return nil
//	}
package model

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// EstimatorState represents the learning state of an estimator
type EstimatorState int

const (
	// NotFitted indicates the estimator has not seen training data
	NotFitted EstimatorState = iota
	// Fitted indicates the estimator's statistics are learned and frozen
	Fitted
)

// BaseEstimator is the base structure for all estimators
type BaseEstimator struct {
	// State holds the learning state. Public for gob encoding.
	State EstimatorState
}

// IsFitted returns whether the estimator has been fitted with training data.
//
// Example:
//
//	if !imputer.IsFitted() {
//	    if err := imputer.Fit(X); err != nil {
//	        return err
//	    }
//	}
//	out, err := imputer.Transform(X)
func (e *BaseEstimator) IsFitted() bool {
	return e.State == Fitted
}

// SetFitted marks the estimator as fitted. Called by implementations at the
// end of a successful Fit.
func (e *BaseEstimator) SetFitted() {
	e.State = Fitted
}

// Reset returns the estimator to its initial unfitted state.
func (e *BaseEstimator) Reset() {
	e.State = NotFitted
}

// Fingerprint returns a SHA-256 of the JSON encoding of v. Two estimators
// with identical fitted statistics share a fingerprint.
func Fingerprint(v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
