package breakeven

import (
	"errors"

	"github.com/rgehrsitz/premcast/internal/domain"
	"github.com/shopspring/decimal"
)

// Goal defines which forecast outcome the solver matches against Target.
type Goal string

const (
	GoalTargetPremium Goal = "target_premium" // Final-year average premium equals Target
	GoalTargetGrowth  Goal = "target_growth"  // Growth over the horizon, in percent, equals Target
)

// ErrUnreachable means the target lies outside what the parameter range can produce.
var ErrUnreachable = errors.New("target not reachable")

// SolveRequest asks for the parameter value at which a forecast hits a target.
type SolveRequest struct {
	Request   domain.ForecastRequest
	Parameter string
	Goal      Goal
	Target    decimal.Decimal
	// Min and Max override the parameter's default sweep range.
	Min *decimal.Decimal
	Max *decimal.Decimal

	MaxIterations int             // Maximum bisection steps
	Tolerance     decimal.Decimal // Accepted distance from Target, in Goal units
}

// SolveResult is the parameter value found and the forecast it produces.
type SolveResult struct {
	ScenarioID      string          `json:"scenarioId"`
	Parameter       string          `json:"parameter"`
	Unit            string          `json:"unit"`
	Goal            Goal            `json:"goal"`
	Target          decimal.Decimal `json:"target"`
	Success         bool            `json:"success"`
	Iterations      int             `json:"iterations"`
	ConvergenceInfo string          `json:"convergenceInfo"`

	Value        decimal.Decimal `json:"value"`
	BaseValue    decimal.Decimal `json:"baseValue"`
	FirstPremium decimal.Decimal `json:"firstPremium"`
	FinalPremium decimal.Decimal `json:"finalPremium"`
	GrowthPct    decimal.Decimal `json:"growthPct"`

	BaseFinalPremium decimal.Decimal `json:"baseFinalPremium"`
	BaseGrowthPct    decimal.Decimal `json:"baseGrowthPct"`
}

// MultiResult solves the same target for several parameters.
type MultiResult struct {
	Goal            Goal              `json:"goal"`
	Target          decimal.Decimal   `json:"target"`
	Results         []SolveResult     `json:"results"`
	Unreachable     map[string]string `json:"unreachable,omitempty"`
	Recommendations []string          `json:"recommendations"`
}

// SolverOptions configures the bisection.
type SolverOptions struct {
	Tolerance     decimal.Decimal
	MaxIterations int
}

// DefaultSolverOptions returns a tolerance of 0.01 in goal units and 60 steps.
func DefaultSolverOptions() SolverOptions {
	return SolverOptions{
		Tolerance:     decimal.NewFromFloat(0.01),
		MaxIterations: 60,
	}
}

// Validate checks the request before any forecast runs.
func (r *SolveRequest) Validate() error {
	if _, ok := domain.SensitivityParameters[r.Parameter]; !ok {
		return &BreakEvenError{Operation: "validate", Message: "unknown parameter " + r.Parameter, Cause: domain.ErrInvalidRequest}
	}
	switch r.Goal {
	case GoalTargetPremium:
		if !r.Target.IsPositive() {
			return &BreakEvenError{Operation: "validate", Message: "target premium must be positive", Cause: domain.ErrInvalidRequest}
		}
	case GoalTargetGrowth:
	default:
		return &BreakEvenError{Operation: "validate", Message: "unknown goal " + string(r.Goal), Cause: domain.ErrInvalidRequest}
	}
	if r.Min != nil && r.Max != nil && r.Min.GreaterThanOrEqual(*r.Max) {
		return &BreakEvenError{Operation: "validate", Message: "min must be below max", Cause: domain.ErrInvalidRequest}
	}
	return nil
}

// BreakEvenError represents errors from the solver
type BreakEvenError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *BreakEvenError) Error() string {
	if e.Cause != nil {
		return e.Operation + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Operation + ": " + e.Message
}

func (e *BreakEvenError) Unwrap() error {
	return e.Cause
}
