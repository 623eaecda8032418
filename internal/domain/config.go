package domain

import (
	"github.com/shopspring/decimal"
)

// Configuration is the complete model configuration loaded from YAML.
type Configuration struct {
	Scenarios     []Scenario     `yaml:"scenarios" json:"scenarios"`
	Rating        RatingConfig   `yaml:"rating" json:"rating"`
	Sensitivities Sensitivities  `yaml:"sensitivities" json:"sensitivities"`
	Engine        EngineSettings `yaml:"engine" json:"engine"`
}

// Scenario returns the scenario with the given id.
func (c *Configuration) Scenario(id string) (*Scenario, bool) {
	for i := range c.Scenarios {
		if c.Scenarios[i].ID == id {
			return &c.Scenarios[i], true
		}
	}
	return nil, false
}

// ScenarioIDs returns scenario ids in configuration order.
func (c *Configuration) ScenarioIDs() []string {
	ids := make([]string, len(c.Scenarios))
	for i, s := range c.Scenarios {
		ids[i] = s.ID
	}
	return ids
}

// RatingConfig holds the coefficients of the risk-factor chain.
type RatingConfig struct {
	// Age factor is AgeBase^((age - ReferenceAge) / AgeStep).
	AgeBase      decimal.Decimal `yaml:"age_base" json:"ageBase"`
	ReferenceAge int             `yaml:"reference_age" json:"referenceAge"`
	AgeStep      int             `yaml:"age_step" json:"ageStep"`

	MaleFactor   decimal.Decimal `yaml:"male_factor" json:"maleFactor"`
	FemaleFactor decimal.Decimal `yaml:"female_factor" json:"femaleFactor"`

	// Smoker factor grows linearly with age and is clamped to [SmokerMin, SmokerMax].
	SmokerBase      decimal.Decimal `yaml:"smoker_base" json:"smokerBase"`
	SmokerSlope     decimal.Decimal `yaml:"smoker_slope" json:"smokerSlope"`
	SmokerPivotAge  int             `yaml:"smoker_pivot_age" json:"smokerPivotAge"`
	SmokerMin       decimal.Decimal `yaml:"smoker_min" json:"smokerMin"`
	SmokerMax       decimal.Decimal `yaml:"smoker_max" json:"smokerMax"`
	NonSmokerFactor decimal.Decimal `yaml:"non_smoker_factor" json:"nonSmokerFactor"`

	IndividualFactor decimal.Decimal `yaml:"individual_factor" json:"individualFactor"`
	FamilyFactor     decimal.Decimal `yaml:"family_factor" json:"familyFactor"`
	CorporateFactor  decimal.Decimal `yaml:"corporate_factor" json:"corporateFactor"`

	TermFactor  decimal.Decimal `yaml:"term_factor" json:"termFactor"`
	WholeFactor decimal.Decimal `yaml:"whole_factor" json:"wholeFactor"`
}

// Sensitivities are the coefficients of the year-over-base premium adjustments.
type Sensitivities struct {
	Interest       decimal.Decimal `yaml:"interest" json:"interest"`
	Mortality      decimal.Decimal `yaml:"mortality" json:"mortality"`
	TermLongevity  decimal.Decimal `yaml:"term_longevity" json:"termLongevity"`
	WholeLongevity decimal.Decimal `yaml:"whole_longevity" json:"wholeLongevity"`
	GDPGrowth      decimal.Decimal `yaml:"gdp_growth" json:"gdpGrowth"`
}

// EngineSettings are defaults applied to requests that leave them unset.
type EngineSettings struct {
	CoverageUnit   decimal.Decimal `yaml:"coverage_unit" json:"coverageUnit"`
	DefaultCountry string          `yaml:"default_country" json:"defaultCountry"`
	RampYears      int             `yaml:"ramp_years" json:"rampYears"`
	Fallback       FallbackPolicy  `yaml:"fallback" json:"fallback"`
}

// DefaultRatingConfig returns the standard factor coefficients.
func DefaultRatingConfig() RatingConfig {
	return RatingConfig{
		AgeBase:          decimal.NewFromFloat(1.08),
		ReferenceAge:     25,
		AgeStep:          5,
		MaleFactor:       decimal.NewFromFloat(1.2),
		FemaleFactor:     decimal.NewFromInt(1),
		SmokerBase:       decimal.NewFromFloat(2.5),
		SmokerSlope:      decimal.NewFromFloat(0.015),
		SmokerPivotAge:   20,
		SmokerMin:        decimal.NewFromFloat(2.5),
		SmokerMax:        decimal.NewFromInt(3),
		NonSmokerFactor:  decimal.NewFromInt(1),
		IndividualFactor: decimal.NewFromInt(1),
		FamilyFactor:     decimal.NewFromFloat(0.92),
		CorporateFactor:  decimal.NewFromFloat(0.80),
		TermFactor:       decimal.NewFromInt(1),
		WholeFactor:      decimal.NewFromInt(4),
	}
}

// DefaultSensitivities returns the standard adjustment coefficients.
func DefaultSensitivities() Sensitivities {
	return Sensitivities{
		Interest:       decimal.NewFromFloat(-0.12),
		Mortality:      decimal.NewFromFloat(0.3),
		TermLongevity:  decimal.NewFromFloat(-0.005),
		WholeLongevity: decimal.NewFromFloat(0.003),
		GDPGrowth:      decimal.NewFromFloat(-0.05),
	}
}

// DefaultEngineSettings returns a coverage unit of 100 000, a three year ramp
// and no fallback.
func DefaultEngineSettings() EngineSettings {
	return EngineSettings{
		CoverageUnit: decimal.NewFromInt(100000),
		RampYears:    3,
	}
}
