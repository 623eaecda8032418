package compare

import (
	"context"
	"errors"
	"testing"

	"github.com/rgehrsitz/premcast/internal/calculation"
	"github.com/rgehrsitz/premcast/internal/config"
	"github.com/rgehrsitz/premcast/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestEngine prices one Indian term segment with 2023-2024 history. The
// imf baseline only covers Nepal, so pessimistic cannot be forecast.
func newTestEngine(t *testing.T) *CompareEngine {
	t.Helper()

	seg := domain.Segment{Age: 35, Gender: domain.GenderMale, GroupType: domain.GroupIndividual,
		PolicyType: domain.PolicyTerm, SmokingStatus: domain.NonSmoker, Country: "India"}

	rates, err := domain.NewRateTable([]domain.BaseRate{{Segment: seg, PremiumPerUnit: decimal.NewFromInt(100)}})
	require.NoError(t, err)

	mt, err := domain.NewMortalityTable([]domain.MortalityRecord{
		{Key: seg.MortalityKey(), Point: domain.MortalityPoint{Year: 2023, RatePer1000: decimal.NewFromFloat(1.8), LifeExpectancy: decimal.NewFromInt(40)}},
		{Key: seg.MortalityKey(), Point: domain.MortalityPoint{Year: 2024, RatePer1000: decimal.NewFromFloat(1.79), LifeExpectancy: decimal.NewFromInt(40)}},
	})
	require.NoError(t, err)

	econ := func(country string, year int) domain.EconomicRecord {
		return domain.EconomicRecord{Country: country, Point: domain.EconomicPoint{
			Year: year, Inflation: decimal.NewFromFloat(0.05), Interest: decimal.NewFromFloat(0.065), GDPGrowth: decimal.NewFromFloat(0.06),
		}}
	}
	et, err := domain.NewEconomicTable([]domain.EconomicRecord{econ("India", 2023), econ("India", 2024)})
	require.NoError(t, err)
	imf, err := domain.NewEconomicTable([]domain.EconomicRecord{econ("Nepal", 2024)})
	require.NoError(t, err)

	ds := &domain.Dataset{
		Rates:        rates,
		Population:   []domain.PopulationCell{{Segment: seg, SumInsured: decimal.NewFromInt(1000000), Weight: decimal.NewFromInt(10)}},
		Mortality:    mt,
		Economics:    et,
		AltEconomics: map[string]*domain.EconomicTable{"imf": imf},
	}

	cfg := config.DefaultConfiguration()
	for i := range cfg.Scenarios {
		if cfg.Scenarios[i].ID == "pessimistic" {
			cfg.Scenarios[i].EconomicBaseline = "imf"
		}
	}

	f, err := calculation.NewForecaster(ds, cfg)
	require.NoError(t, err)
	return NewCompareEngine(f)
}

func compareRequest() domain.CompareRequest {
	return domain.CompareRequest{StartYear: 2024, EndYear: 2028}
}

func TestCompareEngine_Compare(t *testing.T) {
	engine := newTestEngine(t)

	compSet, err := engine.Compare(context.Background(), CompareOptions{
		BaseScenarioID: "base",
		Scenarios:      []string{"optimistic"},
		Templates:      []string{"high_inflation"},
		Request:        compareRequest(),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, compSet.RunID)
	assert.Equal(t, "base", compSet.BaseScenarioID)
	assert.Equal(t, "all segments", compSet.Filters)
	require.NotNil(t, compSet.BaseResult)
	assert.Equal(t, 2028, compSet.BaseResult.FinalYear)

	require.Len(t, compSet.AlternativeResults, 2)
	assert.Equal(t, "optimistic", compSet.AlternativeResults[0].ScenarioID)
	hi := compSet.AlternativeResults[1]
	assert.Equal(t, "base+high_inflation", hi.ScenarioID)
	assert.Equal(t, "Base Case + high_inflation", hi.ScenarioName)
	assert.NotEmpty(t, hi.Description)
	assert.True(t, hi.FinalDiffFromBase.IsPositive(), "higher inflation raises the final premium")

	// 5 years x 3 scenarios, ordered by year then request order
	require.Len(t, compSet.Points, 15)
	assert.Equal(t, "base", compSet.Points[0].ScenarioID)
	assert.Equal(t, "optimistic", compSet.Points[1].ScenarioID)
	assert.Equal(t, "base+high_inflation", compSet.Points[2].ScenarioID)
	assert.Equal(t, 2028, compSet.Points[14].Year)
}

func TestCompareEngine_AlternativeFailureIsReported(t *testing.T) {
	engine := newTestEngine(t)

	compSet, err := engine.Compare(context.Background(), CompareOptions{
		BaseScenarioID: "base",
		Scenarios:      []string{"optimistic", "pessimistic"},
		Request:        compareRequest(),
	})
	require.NoError(t, err)

	require.Len(t, compSet.AlternativeResults, 1)
	require.Len(t, compSet.Failures, 1)
	assert.Equal(t, "pessimistic", compSet.Failures[0].ScenarioID)
	assert.True(t, errors.Is(compSet.Failures[0].Err, domain.ErrDataUnavailable))
	assert.Contains(t, compSet.Recommendations, "Incomplete: 1 scenario(s) could not be forecast")
}

func TestCompareEngine_BaseFailureReanchors(t *testing.T) {
	engine := newTestEngine(t)

	compSet, err := engine.Compare(context.Background(), CompareOptions{
		BaseScenarioID: "pessimistic",
		Scenarios:      []string{"base", "optimistic"},
		Request:        compareRequest(),
	})
	require.NoError(t, err)

	require.Len(t, compSet.Failures, 1)
	assert.Equal(t, "pessimistic", compSet.Failures[0].ScenarioID)
	assert.True(t, errors.Is(compSet.Failures[0].Err, domain.ErrDataUnavailable))

	assert.Equal(t, "base", compSet.BaseScenarioID)
	assert.Equal(t, "pessimistic", compSet.RequestedBaseID)
	require.NotNil(t, compSet.BaseResult)
	assert.Equal(t, "base", compSet.BaseResult.ScenarioID)
	require.Len(t, compSet.AlternativeResults, 1)
	assert.Equal(t, "optimistic", compSet.AlternativeResults[0].ScenarioID)
	assert.True(t, compSet.AlternativeResults[0].FinalDiffFromBase.LessThan(decimal.Zero),
		"optimistic is measured against base")
	assert.Len(t, compSet.Points, 10)
	assert.Contains(t, compSet.Recommendations, "Re-anchored: base pessimistic failed, differences are measured against base")

	table := (&TableFormatter{}).Format(compSet)
	assert.Contains(t, table, "requested pessimistic could not be forecast")
}

func TestCompareEngine_EveryScenarioFails(t *testing.T) {
	engine := newTestEngine(t)

	_, err := engine.Compare(context.Background(), CompareOptions{
		BaseScenarioID: "pessimistic",
		Request:        compareRequest(),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNoForecastData))
}

func TestCompareEngine_Errors(t *testing.T) {
	engine := newTestEngine(t)

	_, err := engine.Compare(context.Background(), CompareOptions{BaseScenarioID: "missing", Request: compareRequest()})
	assert.True(t, errors.Is(err, domain.ErrUnknownScenario))

	_, err = engine.Compare(context.Background(), CompareOptions{
		BaseScenarioID: "base",
		Templates:      []string{"no_such_template"},
		Request:        compareRequest(),
	})
	assert.EqualError(t, err, "template no_such_template not found")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = engine.Compare(ctx, CompareOptions{BaseScenarioID: "base", Request: compareRequest()})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestCompareEngine_DuplicateScenariosCollapse(t *testing.T) {
	engine := newTestEngine(t)

	compSet, err := engine.Compare(context.Background(), CompareOptions{
		BaseScenarioID: "base",
		Scenarios:      []string{"base", "optimistic", "optimistic"},
		Templates:      []string{"rate_cut", "rate_cut"},
		Request:        compareRequest(),
	})
	require.NoError(t, err)
	assert.Len(t, compSet.AlternativeResults, 2)
}
