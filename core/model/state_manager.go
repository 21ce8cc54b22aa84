// Package model provides state management for fitted estimators.
package model

import (
	"github.com/YuminosukeSato/linearize/pkg/errors"
)

// StateManager manages the fitted state of an estimator. It is used by
// composition: estimators hold a StateManager and consult it before any
// operation that requires fitted parameters.
type StateManager struct {
	fitted bool

	// Optional metadata recorded at fit time.
	nSamples  int
	nFeatures int
}

// NewStateManager creates a new StateManager in the unfitted state.
func NewStateManager() *StateManager {
	return &StateManager{}
}

// IsFitted returns whether the estimator has been fitted.
func (s *StateManager) IsFitted() bool {
	return s.fitted
}

// SetFitted marks the estimator as fitted.
func (s *StateManager) SetFitted() {
	s.fitted = true
}

// Reset returns the estimator to the unfitted state.
func (s *StateManager) Reset() {
	s.fitted = false
	s.nSamples = 0
	s.nFeatures = 0
}

// SetDimensions records the data shape seen during fitting.
func (s *StateManager) SetDimensions(nFeatures, nSamples int) {
	s.nFeatures = nFeatures
	s.nSamples = nSamples
}

// Dimensions returns the data shape seen during fitting.
func (s *StateManager) Dimensions() (nFeatures, nSamples int) {
	return s.nFeatures, s.nSamples
}

// RequireFitted returns a NotFittedError naming the estimator and method if
// the estimator has not been fitted.
func (s *StateManager) RequireFitted(modelName, method string) error {
	if !s.fitted {
		return errors.NewNotFittedError(modelName, method)
	}
	return nil
}
