package domain

import (
	"github.com/shopspring/decimal"
)

// SensitivityParameter represents a scenario parameter to sweep
type SensitivityParameter struct {
	Name        string          `yaml:"name" json:"name"`
	MinValue    decimal.Decimal `yaml:"min_value" json:"minValue"`
	MaxValue    decimal.Decimal `yaml:"max_value" json:"maxValue"`
	Steps       int             `yaml:"steps" json:"steps"`
	Unit        string          `yaml:"unit" json:"unit"` // "fraction" or "years"
	Description string          `yaml:"description" json:"description"`
}

// SensitivityResult is the forecast outcome at one parameter value
type SensitivityResult struct {
	ParameterValue decimal.Decimal `json:"parameterValue"`
	ScenarioID     string          `json:"scenarioId"`
	FirstPremium   decimal.Decimal `json:"firstPremium"`
	FinalPremium   decimal.Decimal `json:"finalPremium"`
	GrowthPct      decimal.Decimal `json:"growthPct"`
	ChangeFromBase decimal.Decimal `json:"changeFromBase"`
	ChangePct      decimal.Decimal `json:"changePct"`
}

// SensitivityAnalysis is a complete one-parameter sweep
type SensitivityAnalysis struct {
	BaseScenarioID string               `json:"baseScenarioId"`
	Parameter      SensitivityParameter `json:"parameter"`
	BaseValue      decimal.Decimal      `json:"baseValue"`
	BaseFinal      decimal.Decimal      `json:"baseFinal"`
	Results        []SensitivityResult  `json:"results"`
	Summary        SensitivitySummary   `json:"summary"`
}

// SensitivitySummary provides overall sweep summary
type SensitivitySummary struct {
	MinFinalPremium decimal.Decimal `json:"minFinalPremium"`
	MaxFinalPremium decimal.Decimal `json:"maxFinalPremium"`
	// Elasticity is the percent change in final premium per unit change of the parameter.
	Elasticity      decimal.Decimal `json:"elasticity"`
	RiskLevel       string          `json:"riskLevel"` // "LOW", "MEDIUM", "HIGH"
	Recommendations []string        `json:"recommendations"`
}

// Common sensitivity parameters
var (
	InflationTargetParameter = SensitivityParameter{
		Name:        "inflation_target",
		MinValue:    decimal.NewFromFloat(0.02),
		MaxValue:    decimal.NewFromFloat(0.08),
		Steps:       7,
		Unit:        "fraction",
		Description: "Long-run inflation target",
	}

	InterestTargetParameter = SensitivityParameter{
		Name:        "interest_target",
		MinValue:    decimal.NewFromFloat(0.04),
		MaxValue:    decimal.NewFromFloat(0.09),
		Steps:       6,
		Unit:        "fraction",
		Description: "Long-run interest rate target",
	}

	GDPTargetParameter = SensitivityParameter{
		Name:        "gdp_target",
		MinValue:    decimal.NewFromFloat(0.02),
		MaxValue:    decimal.NewFromFloat(0.08),
		Steps:       7,
		Unit:        "fraction",
		Description: "Long-run GDP growth target",
	}

	MortalityImprovementParameter = SensitivityParameter{
		Name:        "mortality_improvement",
		MinValue:    decimal.NewFromFloat(0.005),
		MaxValue:    decimal.NewFromFloat(0.025),
		Steps:       5,
		Unit:        "fraction",
		Description: "Annual mortality improvement",
	}

	LongevityGainParameter = SensitivityParameter{
		Name:        "longevity_gain",
		MinValue:    decimal.Zero,
		MaxValue:    decimal.NewFromFloat(0.3),
		Steps:       4,
		Unit:        "years",
		Description: "Life expectancy gain per year",
	}
)

// SensitivityParameters lists the sweepable parameters by name.
var SensitivityParameters = map[string]SensitivityParameter{
	InflationTargetParameter.Name:      InflationTargetParameter,
	InterestTargetParameter.Name:       InterestTargetParameter,
	GDPTargetParameter.Name:            GDPTargetParameter,
	MortalityImprovementParameter.Name: MortalityImprovementParameter,
	LongevityGainParameter.Name:        LongevityGainParameter,
}
