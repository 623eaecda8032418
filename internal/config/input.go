package config

import (
	"fmt"
	"os"
	"regexp"

	"github.com/rgehrsitz/premcast/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

var scenarioIDPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_\-]*$`)

// InputParser handles parsing of model configuration files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads configuration from a YAML file. Sections the file leaves
// out keep their defaults.
func (ip *InputParser) LoadFromFile(filename string) (*domain.Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.LoadFromBytes(data)
}

// LoadFromBytes parses YAML configuration over DefaultConfiguration and validates it.
func (ip *InputParser) LoadFromBytes(data []byte) (*domain.Configuration, error) {
	config := DefaultConfiguration()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidateConfiguration(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// ValidateConfiguration validates the loaded configuration
func (ip *InputParser) ValidateConfiguration(config *domain.Configuration) error {
	if err := ip.validateScenarios(config.Scenarios); err != nil {
		return fmt.Errorf("scenario validation failed: %w", err)
	}
	if err := ip.validateRating(&config.Rating); err != nil {
		return fmt.Errorf("rating validation failed: %w", err)
	}
	if err := ip.validateSensitivities(&config.Sensitivities); err != nil {
		return fmt.Errorf("sensitivity validation failed: %w", err)
	}
	if err := ip.validateEngine(&config.Engine); err != nil {
		return fmt.Errorf("engine settings validation failed: %w", err)
	}
	return nil
}

func (ip *InputParser) validateScenarios(scenarios []domain.Scenario) error {
	if len(scenarios) == 0 {
		return fmt.Errorf("no scenarios provided")
	}

	seen := make(map[string]bool, len(scenarios))
	for i := range scenarios {
		sc := &scenarios[i]
		if sc.ID == "" {
			return fmt.Errorf("scenario %d: id is required", i)
		}
		if !scenarioIDPattern.MatchString(sc.ID) {
			return fmt.Errorf("scenario %d: id %q must be lowercase letters, digits, '_' or '-'", i, sc.ID)
		}
		if seen[sc.ID] {
			return fmt.Errorf("scenario %q is defined more than once", sc.ID)
		}
		seen[sc.ID] = true

		if err := ip.validateScenario(sc); err != nil {
			return fmt.Errorf("scenario %s: %w", sc.ID, err)
		}
	}
	return nil
}

// validateScenario validates a single scenario
func (ip *InputParser) validateScenario(sc *domain.Scenario) error {
	if sc.MortalityImprovement.LessThan(decimal.Zero) || sc.MortalityImprovement.GreaterThanOrEqual(decimal.NewFromFloat(0.2)) {
		return fmt.Errorf("mortality improvement must be in [0, 0.2), got %s", sc.MortalityImprovement)
	}
	if sc.LifeExpectancyGain.LessThan(decimal.Zero) || sc.LifeExpectancyGain.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("life expectancy gain must be between 0 and 1 year per year, got %s", sc.LifeExpectancyGain)
	}
	if err := ip.validatePath("inflation", sc.Inflation, decimal.NewFromFloat(-0.1), decimal.NewFromFloat(0.5)); err != nil {
		return err
	}
	if err := ip.validatePath("interest", sc.Interest, decimal.NewFromFloat(-0.05), decimal.NewFromFloat(0.5)); err != nil {
		return err
	}
	if err := ip.validatePath("gdp_growth", sc.GDPGrowth, decimal.NewFromFloat(-0.3), decimal.NewFromFloat(0.3)); err != nil {
		return err
	}
	return nil
}

// validatePath checks an economic path's target and explicit values against [lo, hi]
func (ip *InputParser) validatePath(name string, path domain.EconomicPath, lo, hi decimal.Decimal) error {
	if path.RampYears < 0 {
		return fmt.Errorf("%s ramp_years cannot be negative", name)
	}
	if path.Target.LessThan(lo) || path.Target.GreaterThan(hi) {
		return fmt.Errorf("%s target %s is outside [%s, %s]", name, path.Target, lo, hi)
	}
	for year, v := range path.Values {
		if v.LessThan(lo) || v.GreaterThan(hi) {
			return fmt.Errorf("%s value for %d (%s) is outside [%s, %s]", name, year, v, lo, hi)
		}
	}
	return nil
}

func (ip *InputParser) validateRating(r *domain.RatingConfig) error {
	if !r.AgeBase.IsPositive() {
		return fmt.Errorf("age_base must be positive")
	}
	if r.AgeStep <= 0 {
		return fmt.Errorf("age_step must be positive")
	}
	positive := map[string]decimal.Decimal{
		"male_factor":       r.MaleFactor,
		"female_factor":     r.FemaleFactor,
		"smoker_min":        r.SmokerMin,
		"smoker_max":        r.SmokerMax,
		"non_smoker_factor": r.NonSmokerFactor,
		"individual_factor": r.IndividualFactor,
		"family_factor":     r.FamilyFactor,
		"corporate_factor":  r.CorporateFactor,
		"term_factor":       r.TermFactor,
		"whole_factor":      r.WholeFactor,
	}
	for name, v := range positive {
		if !v.IsPositive() {
			return fmt.Errorf("%s must be positive, got %s", name, v)
		}
	}
	if r.SmokerMin.GreaterThan(r.SmokerMax) {
		return fmt.Errorf("smoker_min %s exceeds smoker_max %s", r.SmokerMin, r.SmokerMax)
	}
	return nil
}

func (ip *InputParser) validateSensitivities(s *domain.Sensitivities) error {
	if s.TermLongevity.IsPositive() {
		return fmt.Errorf("term_longevity cannot be positive: longer lives do not make term cover dearer")
	}
	if s.WholeLongevity.IsNegative() {
		return fmt.Errorf("whole_longevity cannot be negative")
	}
	one := decimal.NewFromInt(1)
	for name, v := range map[string]decimal.Decimal{
		"interest":   s.Interest,
		"mortality":  s.Mortality,
		"gdp_growth": s.GDPGrowth,
	} {
		if v.Abs().GreaterThan(one) {
			return fmt.Errorf("%s sensitivity %s must be within [-1, 1]", name, v)
		}
	}
	return nil
}

func (ip *InputParser) validateEngine(e *domain.EngineSettings) error {
	if !e.CoverageUnit.IsPositive() {
		return fmt.Errorf("coverage_unit must be positive")
	}
	if e.RampYears < 0 {
		return fmt.Errorf("ramp_years cannot be negative")
	}
	if e.Fallback.Economics != nil && !e.Fallback.AllowFallback {
		return fmt.Errorf("fallback economics are set but allow_fallback is false")
	}
	return nil
}
