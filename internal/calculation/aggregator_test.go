package calculation

import (
	"errors"
	"testing"

	"github.com/rgehrsitz/premcast/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pricedCells() []PricedCell {
	mk := func(seg domain.Segment, weight, premium, si string) PricedCell {
		return PricedCell{
			Cell:       domain.PopulationCell{Segment: seg, SumInsured: dec(si), Weight: dec(weight)},
			SumInsured: dec(si),
			PerUnit:    dec(premium).Div(dec(si)).Mul(dec("100000")),
			Premium:    dec(premium),
			Mortality:  domain.MortalityPoint{RatePer1000: dec("2"), LifeExpectancy: dec("40")},
			Economics:  domain.EconomicPoint{Inflation: dec("0.05"), Interest: dec("0.065"), GDPGrowth: dec("0.06")},
		}
	}
	return []PricedCell{
		mk(youngMaleTerm, "3", "600", "500000"),
		mk(femaleSmokerWhole, "7", "4200", "1000000"),
		mk(seniorMaleTerm, "11", "2500", "200000"),
	}
}

func TestNormalizedWeights_SumToOne(t *testing.T) {
	cells := pricedCells()
	subsets := [][]PricedCell{cells, cells[:1], cells[1:], {cells[0], cells[2]}}
	for _, subset := range subsets {
		shares, _, err := NormalizedWeights(subset)
		require.NoError(t, err)
		sum := decimal.Zero
		for _, s := range shares {
			sum = sum.Add(s)
		}
		assert.True(t, sum.Sub(decimal.NewFromInt(1)).Abs().LessThan(dec("1e-9")), "sum %s", sum)
	}
}

func TestNormalizedWeights_ExactlyOne(t *testing.T) {
	// thirds cannot be represented exactly; the residue lands on the last share
	cells := pricedCells()
	for i := range cells {
		cells[i].Cell.Weight = dec("1")
	}
	shares, total, err := NormalizedWeights(cells)
	require.NoError(t, err)
	assert.True(t, dec("3").Equal(total))

	sum := decimal.Zero
	for _, s := range shares {
		sum = sum.Add(s)
	}
	assert.True(t, decimal.NewFromInt(1).Equal(sum), "sum %s", sum)
	assert.True(t, shares[0].Equal(shares[1]))
}

func TestAggregatePremiums_UsesShares(t *testing.T) {
	cells := pricedCells()
	scaled := pricedCells()
	for i := range scaled {
		scaled[i].Cell.Weight = scaled[i].Cell.Weight.Mul(dec("1000"))
	}

	a, err := AggregatePremiums(cells, domain.Filters{})
	require.NoError(t, err)
	b, err := AggregatePremiums(scaled, domain.Filters{})
	require.NoError(t, err)

	assert.True(t, a.AveragePremium.Equal(b.AveragePremium), "%s != %s", a.AveragePremium, b.AveragePremium)
	assert.True(t, dec("21000").Equal(b.TotalWeight))
	// identical values average to themselves
	assert.True(t, dec("0.05").Equal(a.Inflation), "got %s", a.Inflation)
	assert.True(t, dec("40").Equal(a.AvgLifeExpectancy))
}

func TestAggregatePremiums_WithinRange(t *testing.T) {
	filters := []domain.Filters{
		{},
		{PolicyType: domain.PolicyTerm},
		{Gender: domain.GenderMale},
		{AgeMin: intPtr(40)},
	}
	for _, f := range filters {
		agg, err := AggregatePremiums(pricedCells(), f)
		require.NoError(t, err, f.Describe())

		lo, hi := decimal.Zero, decimal.Zero
		first := true
		for _, c := range pricedCells() {
			if !f.Matches(c.Cell) {
				continue
			}
			if first || c.Premium.LessThan(lo) {
				lo = c.Premium
			}
			if first || c.Premium.GreaterThan(hi) {
				hi = c.Premium
			}
			first = false
		}
		assert.True(t, agg.AveragePremium.GreaterThanOrEqual(lo), "%s: %s < %s", f.Describe(), agg.AveragePremium, lo)
		assert.True(t, agg.AveragePremium.LessThanOrEqual(hi), "%s: %s > %s", f.Describe(), agg.AveragePremium, hi)
	}
}

func TestAggregatePremiums_WeightedAverage(t *testing.T) {
	agg, err := AggregatePremiums(pricedCells(), domain.Filters{PolicyType: domain.PolicyTerm})
	require.NoError(t, err)

	// (600×3 + 2500×11) / 14
	want := dec("29300").Div(dec("14"))
	assert.True(t, want.Sub(agg.AveragePremium).Abs().LessThan(dec("1e-9")), "want %s got %s", want, agg.AveragePremium)
	assert.True(t, dec("14").Equal(agg.TotalWeight))
	assert.Equal(t, 2, agg.Count)
	assert.True(t, dec("0.05").Equal(agg.Inflation))
	assert.True(t, dec("40").Equal(agg.AvgLifeExpectancy))
}

func TestAggregatePremiums_NoMatchingSegments(t *testing.T) {
	_, err := AggregatePremiums(pricedCells(), domain.Filters{GroupType: domain.GroupCorporate, SmokingStatus: domain.Smoker, AgeBand: "71+"})
	assert.True(t, errors.Is(err, domain.ErrNoMatchingSegments))

	_, err = AggregatePremiums(nil, domain.Filters{})
	assert.True(t, errors.Is(err, domain.ErrNoMatchingSegments))

	zero := pricedCells()
	for i := range zero {
		zero[i].Cell.Weight = decimal.Zero
	}
	_, err = AggregatePremiums(zero, domain.Filters{})
	assert.True(t, errors.Is(err, domain.ErrNoMatchingSegments))
}
