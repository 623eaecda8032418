package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDataUnavailable means a required historical series is missing, empty,
	// or does not reach back far enough.
	ErrDataUnavailable = errors.New("data unavailable")
	// ErrUnknownSegment means a segment has no base rate.
	ErrUnknownSegment = errors.New("unknown segment")
	// ErrInvalidCoverage means coverage resolved to zero or negative units.
	ErrInvalidCoverage = errors.New("invalid coverage")
	// ErrNoMatchingSegments means the filters selected nothing with positive weight.
	ErrNoMatchingSegments = errors.New("no matching segments")
	// ErrNoForecastData means every scenario in a comparison failed.
	ErrNoForecastData = errors.New("no forecast data")

	ErrUnknownScenario  = errors.New("unknown scenario")
	ErrDuplicateSegment = errors.New("duplicate segment")
	ErrInvalidHorizon   = errors.New("invalid forecast horizon")
	ErrInvalidRequest   = errors.New("invalid request")
)

// ForecastError adds call context to one of the sentinel errors above.
type ForecastError struct {
	Op       string
	Scenario string
	Year     int
	Segment  *Segment
	Reason   string
	Err      error
}

func (e *ForecastError) Error() string {
	var parts []string
	if e.Scenario != "" {
		parts = append(parts, fmt.Sprintf("scenario %s", e.Scenario))
	}
	if e.Year != 0 {
		parts = append(parts, fmt.Sprintf("year %d", e.Year))
	}
	if e.Segment != nil {
		parts = append(parts, fmt.Sprintf("segment %s", e.Segment))
	}
	msg := e.Op
	if len(parts) > 0 {
		msg += " (" + strings.Join(parts, ", ") + ")"
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ForecastError) Unwrap() error {
	return e.Err
}

// NewForecastError creates a ForecastError for an operation.
func NewForecastError(op, scenario, reason string, err error) *ForecastError {
	return &ForecastError{Op: op, Scenario: scenario, Reason: reason, Err: err}
}
