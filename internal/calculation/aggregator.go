package calculation

import (
	"fmt"

	"github.com/rgehrsitz/premcast/internal/domain"
	"github.com/shopspring/decimal"
)

// PricedCell is a population cell with its premium for one year.
type PricedCell struct {
	Cell                domain.PopulationCell
	SumInsured          decimal.Decimal // the sum insured actually priced
	PerUnit             decimal.Decimal
	Premium             decimal.Decimal
	Mortality           domain.MortalityPoint
	Economics           domain.EconomicPoint
	CumulativeInflation decimal.Decimal
}

// Aggregate is the weighted average over a set of priced cells.
type Aggregate struct {
	AveragePremium        decimal.Decimal
	AveragePremiumPerUnit decimal.Decimal
	AverageSumInsured     decimal.Decimal
	TotalWeight           decimal.Decimal
	AvgLifeExpectancy     decimal.Decimal
	AvgMortalityRate      decimal.Decimal
	Inflation             decimal.Decimal
	Interest              decimal.Decimal
	GDPGrowth             decimal.Decimal
	CumulativeInflation   decimal.Decimal
	Count                 int
}

// sharePrecision is the number of decimal places kept per weight share.
const sharePrecision = 28

// NormalizedWeights returns each cell's share of the total weight and the
// total. The last share absorbs the rounding residue, so the shares sum to
// exactly one.
func NormalizedWeights(cells []PricedCell) ([]decimal.Decimal, decimal.Decimal, error) {
	total := decimal.Zero
	for _, c := range cells {
		if c.Cell.Weight.IsNegative() {
			return nil, decimal.Zero, fmt.Errorf("segment %s has negative weight %s", c.Cell.Segment, c.Cell.Weight)
		}
		total = total.Add(c.Cell.Weight)
	}
	if !total.IsPositive() {
		return nil, total, fmt.Errorf("total weight of %d segments is zero: %w", len(cells), domain.ErrNoMatchingSegments)
	}
	shares := make([]decimal.Decimal, len(cells))
	assigned := decimal.Zero
	last := len(cells) - 1
	for i, c := range cells[:last] {
		shares[i] = c.Cell.Weight.DivRound(total, sharePrecision)
		assigned = assigned.Add(shares[i])
	}
	shares[last] = one.Sub(assigned)
	return shares, total, nil
}

// AggregatePremiums keeps the cells that match filters, renormalizes their
// weights to shares summing to one and returns the share-weighted averages.
func AggregatePremiums(cells []PricedCell, filters domain.Filters) (Aggregate, error) {
	selected := make([]PricedCell, 0, len(cells))
	for _, c := range cells {
		if filters.Matches(c.Cell) {
			selected = append(selected, c)
		}
	}
	if len(selected) == 0 {
		return Aggregate{}, fmt.Errorf("%s: %w", filters.Describe(), domain.ErrNoMatchingSegments)
	}

	shares, total, err := NormalizedWeights(selected)
	if err != nil {
		return Aggregate{}, err
	}

	agg := Aggregate{TotalWeight: total, Count: len(selected)}
	for i, c := range selected {
		s := shares[i]
		agg.AveragePremium = agg.AveragePremium.Add(c.Premium.Mul(s))
		agg.AveragePremiumPerUnit = agg.AveragePremiumPerUnit.Add(c.PerUnit.Mul(s))
		agg.AverageSumInsured = agg.AverageSumInsured.Add(c.SumInsured.Mul(s))
		agg.AvgLifeExpectancy = agg.AvgLifeExpectancy.Add(c.Mortality.LifeExpectancy.Mul(s))
		agg.AvgMortalityRate = agg.AvgMortalityRate.Add(c.Mortality.RatePer1000.Mul(s))
		agg.Inflation = agg.Inflation.Add(c.Economics.Inflation.Mul(s))
		agg.Interest = agg.Interest.Add(c.Economics.Interest.Mul(s))
		agg.GDPGrowth = agg.GDPGrowth.Add(c.Economics.GDPGrowth.Mul(s))
		agg.CumulativeInflation = agg.CumulativeInflation.Add(c.CumulativeInflation.Mul(s))
	}
	return agg, nil
}
