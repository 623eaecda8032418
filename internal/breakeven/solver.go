package breakeven

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/premcast/internal/calculation"
	"github.com/rgehrsitz/premcast/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	two     = decimal.NewFromInt(2)
	hundred = decimal.NewFromInt(100)
	// minWidth stops the bisection once the bracket no longer moves the forecast.
	minWidth = decimal.New(1, -9)
)

// Solver finds the scenario parameter value at which a forecast reaches a target.
type Solver struct {
	Forecaster *calculation.Forecaster
	Options    SolverOptions
}

// NewSolver creates a new break-even solver
func NewSolver(f *calculation.Forecaster, options SolverOptions) *Solver {
	return &Solver{Forecaster: f, Options: options}
}

// NewDefaultSolver creates a solver with default options
func NewDefaultSolver(f *calculation.Forecaster) *Solver {
	return NewSolver(f, DefaultSolverOptions())
}

// evaluation is one forecast at one parameter value.
type evaluation struct {
	value  decimal.Decimal
	first  decimal.Decimal
	final  decimal.Decimal
	growth decimal.Decimal
	metric decimal.Decimal
}

// Solve bisects the parameter range for the value whose forecast lands within
// Tolerance of Target. The metric must be monotone in the parameter.
func (s *Solver) Solve(ctx context.Context, req SolveRequest) (*SolveResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.MaxIterations == 0 {
		req.MaxIterations = s.Options.MaxIterations
	}
	if req.Tolerance.IsZero() {
		req.Tolerance = s.Options.Tolerance
	}

	param := domain.SensitivityParameters[req.Parameter]
	lo, hi := param.MinValue, param.MaxValue
	if req.Min != nil {
		lo = *req.Min
	}
	if req.Max != nil {
		hi = *req.Max
	}
	if lo.GreaterThanOrEqual(hi) {
		return nil, &BreakEvenError{Operation: "solve", Message: fmt.Sprintf("empty range [%s, %s]", lo, hi), Cause: domain.ErrInvalidRequest}
	}

	scenario, ok := s.Forecaster.Scenario(req.Request.ScenarioID)
	if !ok {
		return nil, &domain.ForecastError{Op: "breakeven", Scenario: req.Request.ScenarioID, Err: domain.ErrUnknownScenario}
	}
	baseValue, err := calculation.ScenarioParameter(&scenario, req.Parameter)
	if err != nil {
		return nil, err
	}
	baseRes, err := s.Forecaster.Forecast(req.Request)
	if err != nil {
		return nil, &BreakEvenError{Operation: "solve", Message: "failed to forecast base scenario", Cause: err}
	}
	base := measure(req.Goal, baseValue, baseRes)

	result := &SolveResult{
		ScenarioID:       scenario.ID,
		Parameter:        req.Parameter,
		Unit:             param.Unit,
		Goal:             req.Goal,
		Target:           req.Target,
		BaseValue:        baseValue,
		BaseFinalPremium: base.final,
		BaseGrowthPct:    base.growth,
	}

	low, err := s.evaluate(ctx, req, &scenario, lo)
	if err != nil {
		return nil, err
	}
	high, err := s.evaluate(ctx, req, &scenario, hi)
	if err != nil {
		return nil, err
	}
	result.Iterations = 2

	if !between(req.Target, low.metric, high.metric) {
		return nil, &BreakEvenError{
			Operation: "solve",
			Message: fmt.Sprintf("%s between %s and %s produces %s to %s, target is %s",
				req.Parameter, lo, hi, low.metric.StringFixed(2), high.metric.StringFixed(2), req.Target),
			Cause: ErrUnreachable,
		}
	}

	best := closest(req.Target, low, high)
	for result.Iterations < req.MaxIterations {
		if best.metric.Sub(req.Target).Abs().LessThanOrEqual(req.Tolerance) {
			result.Success = true
			result.ConvergenceInfo = fmt.Sprintf("Converged within %s of the target", req.Tolerance)
			break
		}
		if high.value.Sub(low.value).LessThan(minWidth) {
			result.Success = true
			result.ConvergenceInfo = "Bisection converged"
			break
		}

		mid, err := s.evaluate(ctx, req, &scenario, low.value.Add(high.value).Div(two))
		if err != nil {
			return nil, err
		}
		result.Iterations++
		best = closest(req.Target, best, mid)

		// Keep the half whose endpoints still straddle the target.
		if mid.metric.LessThan(req.Target) == low.metric.LessThan(req.Target) {
			low = mid
		} else {
			high = mid
		}
	}
	if !result.Success {
		result.ConvergenceInfo = fmt.Sprintf("Max iterations (%d) reached", req.MaxIterations)
	}

	result.Value = best.value
	result.FirstPremium = best.first
	result.FinalPremium = best.final
	result.GrowthPct = best.growth
	s.Forecaster.Logger.Debugf("breakeven %s: %s=%s after %d forecasts", scenario.ID, req.Parameter, best.value, result.Iterations)
	return result, nil
}

func (s *Solver) evaluate(ctx context.Context, req SolveRequest, scenario *domain.Scenario, value decimal.Decimal) (evaluation, error) {
	if err := ctx.Err(); err != nil {
		return evaluation{}, err
	}
	modified := scenario.DeepCopy()
	if err := calculation.SetScenarioParameter(modified, req.Parameter, value); err != nil {
		return evaluation{}, err
	}
	modified.ID = fmt.Sprintf("%s_solve_%s_%s", scenario.ID, req.Parameter, value.String())

	stepReq := req.Request
	stepReq.ScenarioID = modified.ID
	res, err := s.Forecaster.WithScenarios(*modified).Forecast(stepReq)
	if err != nil {
		return evaluation{}, &BreakEvenError{
			Operation: "solve",
			Message:   fmt.Sprintf("failed to forecast %s=%s", req.Parameter, value),
			Cause:     err,
		}
	}
	return measure(req.Goal, value, res), nil
}

func measure(goal Goal, value decimal.Decimal, res *domain.ForecastResult) evaluation {
	e := evaluation{value: value}
	if len(res.Points) > 0 {
		e.first = res.Points[0].AveragePremium
		e.final = res.Points[len(res.Points)-1].AveragePremium
	}
	if !e.first.IsZero() {
		e.growth = e.final.Sub(e.first).Div(e.first).Mul(hundred)
	}
	if goal == GoalTargetGrowth {
		e.metric = e.growth
	} else {
		e.metric = e.final
	}
	return e
}

func between(target, a, b decimal.Decimal) bool {
	return target.GreaterThanOrEqual(decimal.Min(a, b)) && target.LessThanOrEqual(decimal.Max(a, b))
}

func closest(target decimal.Decimal, a, b evaluation) evaluation {
	if b.metric.Sub(target).Abs().LessThan(a.metric.Sub(target).Abs()) {
		return b
	}
	return a
}
