package transform

import (
	"fmt"

	"github.com/rgehrsitz/premcast/internal/domain"
	"github.com/shopspring/decimal"
)

// Indicator names one economic path of a scenario.
type Indicator string

const (
	IndicatorInflation Indicator = "inflation"
	IndicatorInterest  Indicator = "interest"
	IndicatorGDP       Indicator = "gdp_growth"
	// IndicatorAll is accepted by SetRamp only.
	IndicatorAll Indicator = "all"
)

var hundred = decimal.NewFromInt(100)

// indicatorBounds are the plausible ranges for each indicator, as fractions.
var indicatorBounds = map[Indicator][2]decimal.Decimal{
	IndicatorInflation: {decimal.NewFromFloat(-0.1), decimal.NewFromFloat(0.5)},
	IndicatorInterest:  {decimal.NewFromFloat(-0.05), decimal.NewFromFloat(0.5)},
	IndicatorGDP:       {decimal.NewFromFloat(-0.3), decimal.NewFromFloat(0.3)},
}

// ParseIndicator accepts an indicator name, "gdp" included.
func ParseIndicator(s string) (Indicator, error) {
	switch s {
	case "inflation":
		return IndicatorInflation, nil
	case "interest":
		return IndicatorInterest, nil
	case "gdp", "gdp_growth":
		return IndicatorGDP, nil
	case "all", "":
		return IndicatorAll, nil
	}
	return "", fmt.Errorf("unknown indicator %q (want inflation, interest, gdp_growth or all)", s)
}

func path(sc *domain.Scenario, ind Indicator) *domain.EconomicPath {
	switch ind {
	case IndicatorInflation:
		return &sc.Inflation
	case IndicatorInterest:
		return &sc.Interest
	case IndicatorGDP:
		return &sc.GDPGrowth
	}
	return nil
}

func checkBounds(name string, ind Indicator, v decimal.Decimal) error {
	b, ok := indicatorBounds[ind]
	if !ok {
		return NewTransformError(name, "validate", fmt.Sprintf("indicator %q cannot be set", ind), nil)
	}
	if v.LessThan(b[0]) || v.GreaterThan(b[1]) {
		return NewTransformError(name, "validate",
			fmt.Sprintf("%s %s%% is outside [%s%%, %s%%]", ind, pct(v), pct(b[0]), pct(b[1])), nil)
	}
	return nil
}

func pct(v decimal.Decimal) string {
	return v.Mul(hundred).StringFixed(2)
}

// ShiftRate moves an indicator's target, and every pinned year, by Delta.
type ShiftRate struct {
	Indicator Indicator
	Delta     decimal.Decimal // e.g. 0.01 for +1 percentage point
}

func (sr *ShiftRate) Name() string {
	return "shift_" + string(sr.Indicator)
}

func (sr *ShiftRate) Description() string {
	sign := ""
	if sr.Delta.IsPositive() {
		sign = "+"
	}
	return fmt.Sprintf("Shift %s by %s%s percentage points", sr.Indicator, sign, pct(sr.Delta))
}

func (sr *ShiftRate) Validate(base *domain.Scenario) error {
	if base == nil {
		return NewTransformError(sr.Name(), "validate", "base scenario cannot be nil", nil)
	}
	p := path(base, sr.Indicator)
	if p == nil {
		return NewTransformError(sr.Name(), "validate", fmt.Sprintf("unknown indicator %q", sr.Indicator), nil)
	}
	if err := checkBounds(sr.Name(), sr.Indicator, p.Target.Add(sr.Delta)); err != nil {
		return err
	}
	for _, v := range p.Values {
		if err := checkBounds(sr.Name(), sr.Indicator, v.Add(sr.Delta)); err != nil {
			return err
		}
	}
	return nil
}

func (sr *ShiftRate) Apply(base *domain.Scenario) (*domain.Scenario, error) {
	modified := base.DeepCopy()
	p := path(modified, sr.Indicator)
	p.Target = p.Target.Add(sr.Delta)
	for year, v := range p.Values {
		p.Values[year] = v.Add(sr.Delta)
	}
	return modified, nil
}

// SetRate replaces an indicator's target and drops its pinned years.
type SetRate struct {
	Indicator Indicator
	Rate      decimal.Decimal
}

func (s *SetRate) Name() string {
	return "set_" + string(s.Indicator)
}

func (s *SetRate) Description() string {
	return fmt.Sprintf("Set %s target to %s%%", s.Indicator, pct(s.Rate))
}

func (s *SetRate) Validate(base *domain.Scenario) error {
	if base == nil {
		return NewTransformError(s.Name(), "validate", "base scenario cannot be nil", nil)
	}
	return checkBounds(s.Name(), s.Indicator, s.Rate)
}

func (s *SetRate) Apply(base *domain.Scenario) (*domain.Scenario, error) {
	modified := base.DeepCopy()
	p := path(modified, s.Indicator)
	p.Target = s.Rate
	p.Values = nil
	return modified, nil
}

// SetRamp changes how many years an indicator takes to reach its target.
type SetRamp struct {
	Indicator Indicator
	Years     int
}

func (s *SetRamp) Name() string {
	return "set_ramp"
}

func (s *SetRamp) Description() string {
	if s.Indicator == IndicatorAll {
		return fmt.Sprintf("Reach every economic target over %d years", s.Years)
	}
	return fmt.Sprintf("Reach the %s target over %d years", s.Indicator, s.Years)
}

func (s *SetRamp) Validate(base *domain.Scenario) error {
	if base == nil {
		return NewTransformError(s.Name(), "validate", "base scenario cannot be nil", nil)
	}
	if s.Years < 0 || s.Years > 50 {
		return NewTransformError(s.Name(), "validate", fmt.Sprintf("ramp years must be between 0 and 50, got %d", s.Years), nil)
	}
	if s.Indicator != IndicatorAll && path(base, s.Indicator) == nil {
		return NewTransformError(s.Name(), "validate", fmt.Sprintf("unknown indicator %q", s.Indicator), nil)
	}
	return nil
}

func (s *SetRamp) Apply(base *domain.Scenario) (*domain.Scenario, error) {
	modified := base.DeepCopy()
	targets := []Indicator{s.Indicator}
	if s.Indicator == IndicatorAll {
		targets = []Indicator{IndicatorInflation, IndicatorInterest, IndicatorGDP}
	}
	for _, ind := range targets {
		path(modified, ind).RampYears = s.Years
	}
	return modified, nil
}

// SetBaseline points the scenario at a named alternative economic table.
type SetBaseline struct {
	Baseline string
}

func (s *SetBaseline) Name() string {
	return "set_baseline"
}

func (s *SetBaseline) Description() string {
	if s.Baseline == "" {
		return "Use the default economic history"
	}
	return fmt.Sprintf("Use the %s economic history", s.Baseline)
}

func (s *SetBaseline) Validate(base *domain.Scenario) error {
	if base == nil {
		return NewTransformError(s.Name(), "validate", "base scenario cannot be nil", nil)
	}
	return nil
}

func (s *SetBaseline) Apply(base *domain.Scenario) (*domain.Scenario, error) {
	modified := base.DeepCopy()
	modified.EconomicBaseline = s.Baseline
	return modified, nil
}
