package calculation

import (
	"fmt"
	"math"

	"github.com/rgehrsitz/premcast/internal/domain"
	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// RiskFactor is one named multiplier of the segment risk chain.
type RiskFactor struct {
	Name  string
	Apply func(domain.Segment) decimal.Decimal
}

// DefaultRiskFactors builds the age, gender, smoking, group and policy type
// factors, in that order.
func DefaultRiskFactors(cfg domain.RatingConfig) []RiskFactor {
	return []RiskFactor{
		AgeFactor(cfg),
		GenderFactor(cfg),
		SmokingFactor(cfg),
		GroupFactor(cfg),
		PolicyTypeFactor(cfg),
	}
}

// AgeFactor grows geometrically with age: AgeBase^((age-ReferenceAge)/AgeStep).
func AgeFactor(cfg domain.RatingConfig) RiskFactor {
	base := cfg.AgeBase.InexactFloat64()
	step := float64(cfg.AgeStep)
	if step <= 0 {
		step = 1
	}
	return RiskFactor{
		Name: "age",
		Apply: func(s domain.Segment) decimal.Decimal {
			exp := float64(s.Age-cfg.ReferenceAge) / step
			return decimal.NewFromFloat(math.Pow(base, exp))
		},
	}
}

// GenderFactor loads male lives relative to female lives.
func GenderFactor(cfg domain.RatingConfig) RiskFactor {
	return RiskFactor{
		Name: "gender",
		Apply: func(s domain.Segment) decimal.Decimal {
			if s.Gender == domain.GenderMale {
				return cfg.MaleFactor
			}
			return cfg.FemaleFactor
		},
	}
}

// SmokingFactor is flat for non-smokers and rises with age for smokers,
// clamped to [SmokerMin, SmokerMax].
func SmokingFactor(cfg domain.RatingConfig) RiskFactor {
	return RiskFactor{
		Name: "smoking",
		Apply: func(s domain.Segment) decimal.Decimal {
			if s.SmokingStatus != domain.Smoker {
				return cfg.NonSmokerFactor
			}
			f := cfg.SmokerBase.Add(cfg.SmokerSlope.Mul(decimal.NewFromInt(int64(s.Age - cfg.SmokerPivotAge))))
			if f.LessThan(cfg.SmokerMin) {
				return cfg.SmokerMin
			}
			if f.GreaterThan(cfg.SmokerMax) {
				return cfg.SmokerMax
			}
			return f
		},
	}
}

// GroupFactor discounts family and corporate business.
func GroupFactor(cfg domain.RatingConfig) RiskFactor {
	return RiskFactor{
		Name: "group",
		Apply: func(s domain.Segment) decimal.Decimal {
			switch s.GroupType {
			case domain.GroupFamily:
				return cfg.FamilyFactor
			case domain.GroupCorporate:
				return cfg.CorporateFactor
			default:
				return cfg.IndividualFactor
			}
		},
	}
}

// PolicyTypeFactor loads whole-life cover relative to term.
func PolicyTypeFactor(cfg domain.RatingConfig) RiskFactor {
	return RiskFactor{
		Name: "policy_type",
		Apply: func(s domain.Segment) decimal.Decimal {
			if s.PolicyType == domain.PolicyWhole {
				return cfg.WholeFactor
			}
			return cfg.TermFactor
		},
	}
}

// YearValues are the projected series values a premium depends on in one year.
type YearValues struct {
	Year      int
	Mortality domain.MortalityPoint
	Economics domain.EconomicPoint
}

// Adjustments are the year-over-base multipliers applied to a base premium.
type Adjustments struct {
	Inflation decimal.Decimal `json:"inflation"`
	Interest  decimal.Decimal `json:"interest"`
	Mortality decimal.Decimal `json:"mortality"`
	Longevity decimal.Decimal `json:"longevity"`
	GDP       decimal.Decimal `json:"gdp"`
}

// Combined returns the product of every multiplier.
func (a Adjustments) Combined() decimal.Decimal {
	return a.Inflation.Mul(a.Interest).Mul(a.Mortality).Mul(a.Longevity).Mul(a.GDP)
}

// Premium is the calculator output for one segment and year.
type Premium struct {
	PerUnit     decimal.Decimal
	Total       decimal.Decimal
	Adjustments Adjustments
}

// PremiumCalculator prices one segment in one year.
type PremiumCalculator struct {
	rates         *domain.RateTable
	factors       []RiskFactor
	sensitivities domain.Sensitivities
}

// NewPremiumCalculator creates a calculator over a rate table and factor chain.
func NewPremiumCalculator(rates *domain.RateTable, factors []RiskFactor, sens domain.Sensitivities) *PremiumCalculator {
	return &PremiumCalculator{rates: rates, factors: factors, sensitivities: sens}
}

// RiskMultiplier is the product of every factor in the chain.
func (pc *PremiumCalculator) RiskMultiplier(seg domain.Segment) decimal.Decimal {
	m := one
	for _, f := range pc.factors {
		m = m.Mul(f.Apply(seg))
	}
	return m
}

// BasePerUnit is the segment's base rate times its risk multiplier.
func (pc *PremiumCalculator) BasePerUnit(seg domain.Segment) (decimal.Decimal, error) {
	rate, ok := pc.rates.Lookup(seg)
	if !ok {
		return decimal.Zero, fmt.Errorf("no base rate for %s: %w", seg, domain.ErrUnknownSegment)
	}
	return rate.Mul(pc.RiskMultiplier(seg)), nil
}

// Adjust computes the year multipliers of current against base.
func (pc *PremiumCalculator) Adjust(policy domain.PolicyType, base, current YearValues, cumulativeInflation decimal.Decimal) Adjustments {
	s := pc.sensitivities

	interest := one.Add(s.Interest.Mul(current.Economics.Interest.Sub(base.Economics.Interest)))

	mortality := one
	if base.Mortality.RatePer1000.IsPositive() {
		ratio := current.Mortality.RatePer1000.Div(base.Mortality.RatePer1000)
		mortality = one.Add(s.Mortality.Mul(ratio.Sub(one)))
	}

	leGain := current.Mortality.LifeExpectancy.Sub(base.Mortality.LifeExpectancy)
	longevity := one.Add(LongevityCoefficient(policy, s).Mul(leGain))

	gdp := one.Add(s.GDPGrowth.Mul(current.Economics.GDPGrowth.Sub(base.Economics.GDPGrowth)))

	return Adjustments{
		Inflation: cumulativeInflation,
		Interest:  interest,
		Mortality: mortality,
		Longevity: longevity,
		GDP:       gdp,
	}
}

// LongevityCoefficient returns the effect of one extra year of life
// expectancy for a policy type. Term is negative, whole life positive.
func LongevityCoefficient(policy domain.PolicyType, s domain.Sensitivities) decimal.Decimal {
	if policy == domain.PolicyWhole {
		return s.WholeLongevity
	}
	return s.TermLongevity
}

// Calculate prices a segment for the given coverage units.
func (pc *PremiumCalculator) Calculate(seg domain.Segment, base, current YearValues, cumulativeInflation, coverageUnits decimal.Decimal) (Premium, error) {
	if !coverageUnits.IsPositive() {
		return Premium{}, fmt.Errorf("%s coverage units: %w", coverageUnits, domain.ErrInvalidCoverage)
	}
	perUnit, err := pc.BasePerUnit(seg)
	if err != nil {
		return Premium{}, err
	}
	adj := pc.Adjust(seg.PolicyType, base, current, cumulativeInflation)
	perUnit = perUnit.Mul(adj.Combined())
	return Premium{
		PerUnit:     perUnit,
		Total:       perUnit.Mul(coverageUnits),
		Adjustments: adj,
	}, nil
}

// CoverageUnits converts a sum insured to coverage units.
func CoverageUnits(sumInsured, unit decimal.Decimal) (decimal.Decimal, error) {
	if !unit.IsPositive() {
		return decimal.Zero, fmt.Errorf("coverage unit %s is not positive: %w", unit, domain.ErrInvalidCoverage)
	}
	units := sumInsured.Div(unit)
	if !units.IsPositive() {
		return decimal.Zero, fmt.Errorf("sum insured %s gives %s units: %w", sumInsured, units, domain.ErrInvalidCoverage)
	}
	return units, nil
}

// CumulativeInflation compounds inflation from the base year to year. Years
// after the base multiply (1+inflation[t]) for t in (base, year]; years before
// divide by the same product over (year, base]. The base year itself is 1.
func CumulativeInflation(byYear map[int]domain.EconomicPoint, baseYear, year int) (decimal.Decimal, error) {
	lo, hi := baseYear, year
	if year < baseYear {
		lo, hi = year, baseYear
	}
	product := one
	for t := lo + 1; t <= hi; t++ {
		pt, ok := byYear[t]
		if !ok {
			return decimal.Zero, fmt.Errorf("no inflation for %d: %w", t, domain.ErrDataUnavailable)
		}
		product = product.Mul(one.Add(pt.Inflation))
	}
	if year < baseYear {
		return one.Div(product), nil
	}
	return product, nil
}
