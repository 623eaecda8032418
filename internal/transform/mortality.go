package transform

import (
	"fmt"

	"github.com/rgehrsitz/premcast/internal/domain"
	"github.com/shopspring/decimal"
)

var maxImprovement = decimal.NewFromFloat(0.2)

// SetMortalityImprovement replaces the annual mortality improvement rate.
type SetMortalityImprovement struct {
	Rate decimal.Decimal // e.g. 0.015 for 1.5% lower mortality each year
}

func (s *SetMortalityImprovement) Name() string {
	return "set_mortality_improvement"
}

func (s *SetMortalityImprovement) Description() string {
	return fmt.Sprintf("Set mortality improvement to %s%% per year", pct(s.Rate))
}

func (s *SetMortalityImprovement) Validate(base *domain.Scenario) error {
	if base == nil {
		return NewTransformError(s.Name(), "validate", "base scenario cannot be nil", nil)
	}
	if s.Rate.IsNegative() || s.Rate.GreaterThanOrEqual(maxImprovement) {
		return NewTransformError(s.Name(), "validate", fmt.Sprintf("mortality improvement must be in [0, 0.2), got %s", s.Rate), nil)
	}
	return nil
}

func (s *SetMortalityImprovement) Apply(base *domain.Scenario) (*domain.Scenario, error) {
	modified := base.DeepCopy()
	modified.MortalityImprovement = s.Rate
	return modified, nil
}

// ScaleMortalityImprovement multiplies the improvement rate, so 0.5 halves
// the pace at which mortality falls.
type ScaleMortalityImprovement struct {
	Factor decimal.Decimal
}

func (s *ScaleMortalityImprovement) Name() string {
	return "scale_mortality_improvement"
}

func (s *ScaleMortalityImprovement) Description() string {
	return fmt.Sprintf("Scale mortality improvement by %sx", s.Factor.StringFixed(2))
}

func (s *ScaleMortalityImprovement) Validate(base *domain.Scenario) error {
	if base == nil {
		return NewTransformError(s.Name(), "validate", "base scenario cannot be nil", nil)
	}
	if s.Factor.IsNegative() {
		return NewTransformError(s.Name(), "validate", fmt.Sprintf("factor cannot be negative, got %s", s.Factor), nil)
	}
	if scaled := base.MortalityImprovement.Mul(s.Factor); scaled.GreaterThanOrEqual(maxImprovement) {
		return NewTransformError(s.Name(), "validate", fmt.Sprintf("scaled improvement %s reaches 0.2", scaled), nil)
	}
	return nil
}

func (s *ScaleMortalityImprovement) Apply(base *domain.Scenario) (*domain.Scenario, error) {
	modified := base.DeepCopy()
	modified.MortalityImprovement = base.MortalityImprovement.Mul(s.Factor)
	return modified, nil
}

// SetLongevityGain replaces the years of life expectancy added per projected year.
type SetLongevityGain struct {
	Years decimal.Decimal
}

func (s *SetLongevityGain) Name() string {
	return "set_longevity_gain"
}

func (s *SetLongevityGain) Description() string {
	return fmt.Sprintf("Add %s years of life expectancy per year", s.Years.StringFixed(2))
}

func (s *SetLongevityGain) Validate(base *domain.Scenario) error {
	if base == nil {
		return NewTransformError(s.Name(), "validate", "base scenario cannot be nil", nil)
	}
	if s.Years.IsNegative() || s.Years.GreaterThan(decimal.NewFromInt(1)) {
		return NewTransformError(s.Name(), "validate", fmt.Sprintf("longevity gain must be between 0 and 1, got %s", s.Years), nil)
	}
	return nil
}

func (s *SetLongevityGain) Apply(base *domain.Scenario) (*domain.Scenario, error) {
	modified := base.DeepCopy()
	modified.LifeExpectancyGain = s.Years
	return modified, nil
}
