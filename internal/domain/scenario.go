package domain

import (
	"github.com/shopspring/decimal"
)

// PathFunc computes an indicator value yearsAhead years past the last
// historical observation, given that observation as seed.
type PathFunc func(seed decimal.Decimal, yearsAhead int) decimal.Decimal

// EconomicPath describes how one macro indicator evolves after the historical
// data ends. Values pins explicit years and wins over everything else; Fn, when
// set, replaces the default ramp; otherwise the indicator moves linearly from
// the last observation to Target over RampYears and then holds.
type EconomicPath struct {
	Target    decimal.Decimal         `yaml:"target" json:"target"`
	RampYears int                     `yaml:"ramp_years,omitempty" json:"rampYears,omitempty"`
	Values    map[int]decimal.Decimal `yaml:"values,omitempty" json:"values,omitempty"`
	Fn        PathFunc                `yaml:"-" json:"-"`
}

// Copy returns an independent copy of the path.
func (p EconomicPath) Copy() EconomicPath {
	out := p
	if p.Values != nil {
		out.Values = make(map[int]decimal.Decimal, len(p.Values))
		for y, v := range p.Values {
			out.Values[y] = v
		}
	}
	return out
}

// Scenario is a named set of forward assumptions.
type Scenario struct {
	ID                   string          `yaml:"id" json:"id"`
	Name                 string          `yaml:"name" json:"name"`
	Description          string          `yaml:"description,omitempty" json:"description,omitempty"`
	MortalityImprovement decimal.Decimal `yaml:"mortality_improvement" json:"mortalityImprovement"`
	// LifeExpectancyGain is years of life expectancy added per projected year.
	LifeExpectancyGain decimal.Decimal `yaml:"life_expectancy_gain" json:"lifeExpectancyGain"`
	Inflation          EconomicPath    `yaml:"inflation" json:"inflation"`
	Interest           EconomicPath    `yaml:"interest" json:"interest"`
	GDPGrowth          EconomicPath    `yaml:"gdp_growth" json:"gdpGrowth"`
	// EconomicBaseline names an alternative economic table; empty uses the default one.
	EconomicBaseline string `yaml:"economic_baseline,omitempty" json:"economicBaseline,omitempty"`
}

// DeepCopy returns a scenario that shares no mutable state with s.
func (s *Scenario) DeepCopy() *Scenario {
	out := *s
	out.Inflation = s.Inflation.Copy()
	out.Interest = s.Interest.Copy()
	out.GDPGrowth = s.GDPGrowth.Copy()
	return &out
}

// DisplayName returns Name, falling back to ID.
func (s *Scenario) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return s.ID
}
