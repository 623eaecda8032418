package calculation

import (
	"fmt"

	"github.com/rgehrsitz/premcast/internal/domain"
	"github.com/shopspring/decimal"
)

// SensitivityAnalyzer performs parameter sweep analysis
type SensitivityAnalyzer struct {
	forecaster *Forecaster
}

// NewSensitivityAnalyzer creates a new sensitivity analyzer
func NewSensitivityAnalyzer(f *Forecaster) *SensitivityAnalyzer {
	return &SensitivityAnalyzer{forecaster: f}
}

// AnalyzeParameter sweeps one scenario parameter over [MinValue, MaxValue] and
// forecasts the request at each step.
func (sa *SensitivityAnalyzer) AnalyzeParameter(req domain.ForecastRequest, parameter domain.SensitivityParameter) (*domain.SensitivityAnalysis, error) {
	scenario, ok := sa.forecaster.Scenario(req.ScenarioID)
	if !ok {
		return nil, &domain.ForecastError{Op: "sensitivity", Scenario: req.ScenarioID, Err: domain.ErrUnknownScenario}
	}
	baseValue, err := ScenarioParameter(&scenario, parameter.Name)
	if err != nil {
		return nil, err
	}

	baseResult, err := sa.forecaster.Forecast(req)
	if err != nil {
		return nil, fmt.Errorf("failed to run base scenario: %w", err)
	}
	baseFirst, baseFinal := endpoints(baseResult)

	values := generateParameterValues(parameter, baseValue)
	results := make([]domain.SensitivityResult, 0, len(values))
	for _, value := range values {
		modified := scenario.DeepCopy()
		if err := SetScenarioParameter(modified, parameter.Name, value); err != nil {
			return nil, err
		}
		modified.ID = fmt.Sprintf("%s_%s_%s", scenario.ID, parameter.Name, value.String())

		stepReq := req
		stepReq.ScenarioID = modified.ID
		res, err := sa.forecaster.WithScenarios(*modified).Forecast(stepReq)
		if err != nil {
			return nil, fmt.Errorf("failed to run scenario for %s=%s: %w", parameter.Name, value, err)
		}

		first, final := endpoints(res)
		change := final.Sub(baseFinal)
		results = append(results, domain.SensitivityResult{
			ParameterValue: value,
			ScenarioID:     modified.ID,
			FirstPremium:   first,
			FinalPremium:   final,
			GrowthPct:      percentChange(first, final),
			ChangeFromBase: change,
			ChangePct:      percentChange(baseFinal, final),
		})
	}

	sa.forecaster.Logger.Debugf("sensitivity %s: %d steps around base first=%s final=%s", parameter.Name, len(results), baseFirst, baseFinal)

	return &domain.SensitivityAnalysis{
		BaseScenarioID: scenario.ID,
		Parameter:      parameter,
		BaseValue:      baseValue,
		BaseFinal:      baseFinal,
		Results:        results,
		Summary:        calculateSensitivitySummary(results, parameter, baseFinal),
	}, nil
}

// generateParameterValues generates values for a parameter sweep
func generateParameterValues(param domain.SensitivityParameter, baseValue decimal.Decimal) []decimal.Decimal {
	if param.Steps <= 1 {
		return []decimal.Decimal{baseValue}
	}

	stepSize := param.MaxValue.Sub(param.MinValue).Div(decimal.NewFromInt(int64(param.Steps - 1)))
	values := make([]decimal.Decimal, 0, param.Steps)
	for i := 0; i < param.Steps; i++ {
		values = append(values, param.MinValue.Add(stepSize.Mul(decimal.NewFromInt(int64(i)))))
	}
	return values
}

// ScenarioParameter reads a sweepable parameter from a scenario.
func ScenarioParameter(sc *domain.Scenario, name string) (decimal.Decimal, error) {
	switch name {
	case "inflation_target":
		return sc.Inflation.Target, nil
	case "interest_target":
		return sc.Interest.Target, nil
	case "gdp_target":
		return sc.GDPGrowth.Target, nil
	case "mortality_improvement":
		return sc.MortalityImprovement, nil
	case "longevity_gain":
		return sc.LifeExpectancyGain, nil
	}
	return decimal.Zero, fmt.Errorf("unknown sensitivity parameter %q", name)
}

// SetScenarioParameter writes a sweepable parameter into a scenario.
func SetScenarioParameter(sc *domain.Scenario, name string, value decimal.Decimal) error {
	switch name {
	case "inflation_target":
		sc.Inflation.Target = value
	case "interest_target":
		sc.Interest.Target = value
	case "gdp_target":
		sc.GDPGrowth.Target = value
	case "mortality_improvement":
		sc.MortalityImprovement = value
	case "longevity_gain":
		sc.LifeExpectancyGain = value
	default:
		return fmt.Errorf("unknown sensitivity parameter %q", name)
	}
	return nil
}

func endpoints(res *domain.ForecastResult) (decimal.Decimal, decimal.Decimal) {
	if len(res.Points) == 0 {
		return decimal.Zero, decimal.Zero
	}
	return res.Points[0].AveragePremium, res.Points[len(res.Points)-1].AveragePremium
}

// percentChange returns (to-from)/from in percent, or zero when from is zero.
func percentChange(from, to decimal.Decimal) decimal.Decimal {
	if from.IsZero() {
		return decimal.Zero
	}
	return to.Sub(from).Div(from).Mul(decimal.NewFromInt(100))
}

// calculateSensitivitySummary calculates overall sensitivity summary
func calculateSensitivitySummary(results []domain.SensitivityResult, parameter domain.SensitivityParameter, baseFinal decimal.Decimal) domain.SensitivitySummary {
	if len(results) == 0 {
		return domain.SensitivitySummary{}
	}

	summary := domain.SensitivitySummary{
		MinFinalPremium: results[0].FinalPremium,
		MaxFinalPremium: results[0].FinalPremium,
	}
	maxSwing := decimal.Zero
	for _, r := range results {
		if r.FinalPremium.LessThan(summary.MinFinalPremium) {
			summary.MinFinalPremium = r.FinalPremium
		}
		if r.FinalPremium.GreaterThan(summary.MaxFinalPremium) {
			summary.MaxFinalPremium = r.FinalPremium
		}
		if r.ChangePct.Abs().GreaterThan(maxSwing) {
			maxSwing = r.ChangePct.Abs()
		}
	}

	first, last := results[0], results[len(results)-1]
	span := last.ParameterValue.Sub(first.ParameterValue)
	if !span.IsZero() && !baseFinal.IsZero() {
		pct := last.FinalPremium.Sub(first.FinalPremium).Div(baseFinal).Mul(decimal.NewFromInt(100))
		summary.Elasticity = pct.Div(span)
	}

	switch {
	case maxSwing.GreaterThan(decimal.NewFromInt(20)):
		summary.RiskLevel = "HIGH"
		summary.Recommendations = []string{
			fmt.Sprintf("High sensitivity to %s: final premium moves up to %s%% across the range", parameter.Name, maxSwing.StringFixed(1)),
			"Price with a margin or stress test against the extremes",
		}
	case maxSwing.GreaterThan(decimal.NewFromInt(5)):
		summary.RiskLevel = "MEDIUM"
		summary.Recommendations = []string{
			fmt.Sprintf("Moderate sensitivity to %s", parameter.Name),
			"Review the assumption when new data arrives",
		}
	default:
		summary.RiskLevel = "LOW"
		summary.Recommendations = []string{
			fmt.Sprintf("Low sensitivity to %s", parameter.Name),
		}
	}
	return summary
}
