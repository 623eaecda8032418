package transform

import (
	"fmt"

	"github.com/rgehrsitz/premcast/internal/domain"
)

// ScenarioTransform derives a scenario from another one. Implementations must
// leave their input untouched; Apply always works on a deep copy.
type ScenarioTransform interface {
	Apply(base *domain.Scenario) (*domain.Scenario, error)

	// Name is the identifier accepted by ParseTransformSpec, e.g. "shift_inflation".
	Name() string

	// Description is a one-line summary shown in comparison reports.
	Description() string

	Validate(base *domain.Scenario) error
}

// ApplyTransforms runs transforms left to right, each one seeing the output of
// the previous step. The first failing step aborts the chain and is reported
// as a *TransformError carrying its position.
func ApplyTransforms(base *domain.Scenario, transforms []ScenarioTransform) (*domain.Scenario, error) {
	if base == nil {
		return nil, &TransformError{TransformName: "chain", Operation: "apply", Reason: "base scenario cannot be nil"}
	}

	current := base.DeepCopy()
	for i, t := range transforms {
		if t == nil {
			return nil, &TransformError{Operation: "apply", Step: i, Reason: "transform is nil"}
		}
		if err := t.Validate(current); err != nil {
			return nil, &TransformError{TransformName: t.Name(), Operation: "validate", Step: i, Reason: "rejected", Err: err}
		}
		next, err := t.Apply(current)
		if err != nil {
			return nil, &TransformError{TransformName: t.Name(), Operation: "apply", Step: i, Reason: "failed", Err: err}
		}
		current = next
	}
	return current, nil
}

// TransformError reports a transform that could not be validated or applied.
// Without a cause it unwraps to domain.ErrInvalidRequest.
type TransformError struct {
	TransformName string
	Operation     string
	Step          int
	Reason        string
	Err           error
}

func (e *TransformError) Error() string {
	name := e.TransformName
	if name == "" {
		name = "#" + fmt.Sprint(e.Step)
	}
	if e.Err != nil {
		return fmt.Sprintf("transform %s (%s): %s: %v", name, e.Operation, e.Reason, e.Err)
	}
	return fmt.Sprintf("transform %s (%s): %s", name, e.Operation, e.Reason)
}

func (e *TransformError) Unwrap() error {
	if e.Err == nil {
		return domain.ErrInvalidRequest
	}
	return e.Err
}

// NewTransformError builds the error a transform returns from Validate or Apply.
func NewTransformError(transformName, operation, reason string, err error) error {
	return &TransformError{TransformName: transformName, Operation: operation, Reason: reason, Err: err}
}
