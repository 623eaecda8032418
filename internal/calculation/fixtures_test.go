package calculation

import (
	"testing"

	"github.com/rgehrsitz/premcast/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var (
	youngMaleTerm = domain.Segment{Age: 35, Gender: domain.GenderMale, GroupType: domain.GroupIndividual,
		PolicyType: domain.PolicyTerm, SmokingStatus: domain.NonSmoker, Country: "India"}
	femaleSmokerWhole = domain.Segment{Age: 45, Gender: domain.GenderFemale, GroupType: domain.GroupFamily,
		PolicyType: domain.PolicyWhole, SmokingStatus: domain.Smoker, Country: "India"}
	seniorMaleTerm = domain.Segment{Age: 72, Gender: domain.GenderMale, GroupType: domain.GroupIndividual,
		PolicyType: domain.PolicyTerm, SmokingStatus: domain.NonSmoker, Country: "India"}
)

// newTestDataset builds a three-segment Indian book with 2022-2024 history.
func newTestDataset(t *testing.T) *domain.Dataset {
	t.Helper()

	rates, err := domain.NewRateTable([]domain.BaseRate{
		{Segment: youngMaleTerm, PremiumPerUnit: dec("100")},
		{Segment: femaleSmokerWhole, PremiumPerUnit: dec("150")},
		{Segment: seniorMaleTerm, PremiumPerUnit: dec("300")},
	})
	require.NoError(t, err)

	var mortality []domain.MortalityRecord
	for _, s := range []struct {
		seg  domain.Segment
		rate string
		le   string
	}{
		{youngMaleTerm, "1.8", "40.5"},
		{femaleSmokerWhole, "4.2", "31.0"},
		{seniorMaleTerm, "45.0", "11.2"},
	} {
		for i, year := range []int{2022, 2023, 2024} {
			mortality = append(mortality, domain.MortalityRecord{
				Key: s.seg.MortalityKey(),
				Point: domain.MortalityPoint{
					Year:           year,
					RatePer1000:    dec(s.rate).Sub(decimal.NewFromInt(int64(2 - i)).Mul(dec("0.01"))),
					LifeExpectancy: dec(s.le),
				},
			})
		}
	}
	mt, err := domain.NewMortalityTable(mortality)
	require.NoError(t, err)

	var econ []domain.EconomicRecord
	for _, year := range []int{2022, 2023, 2024} {
		econ = append(econ, domain.EconomicRecord{Country: "India", Point: domain.EconomicPoint{
			Year: year, Inflation: dec("0.05"), Interest: dec("0.065"), GDPGrowth: dec("0.06"),
		}})
	}
	et, err := domain.NewEconomicTable(econ)
	require.NoError(t, err)

	imf, err := domain.NewEconomicTable([]domain.EconomicRecord{
		{Country: "Nepal", Point: domain.EconomicPoint{Year: 2024, Inflation: dec("0.06"), Interest: dec("0.07"), GDPGrowth: dec("0.04")}},
	})
	require.NoError(t, err)

	return &domain.Dataset{
		Rates: rates,
		Population: []domain.PopulationCell{
			{Segment: youngMaleTerm, SumInsured: dec("500000"), Weight: dec("100")},
			{Segment: femaleSmokerWhole, SumInsured: dec("1000000"), Weight: dec("50")},
			{Segment: seniorMaleTerm, SumInsured: dec("200000"), Weight: dec("20")},
		},
		Mortality:    mt,
		Economics:    et,
		AltEconomics: map[string]*domain.EconomicTable{"imf": imf},
	}
}

func testScenarios() []domain.Scenario {
	return []domain.Scenario{
		{
			ID: "base", Name: "Base Case",
			MortalityImprovement: dec("0.015"), LifeExpectancyGain: dec("0.15"),
			Inflation: domain.EconomicPath{Target: dec("0.05")},
			Interest:  domain.EconomicPath{Target: dec("0.065")},
			GDPGrowth: domain.EconomicPath{Target: dec("0.06")},
		},
		{
			ID: "optimistic", Name: "Optimistic",
			MortalityImprovement: dec("0.02"), LifeExpectancyGain: dec("0.15"),
			Inflation: domain.EconomicPath{Target: dec("0.04")},
			Interest:  domain.EconomicPath{Target: dec("0.075")},
			GDPGrowth: domain.EconomicPath{Target: dec("0.07")},
		},
		{
			ID: "pessimistic", Name: "Pessimistic",
			MortalityImprovement: dec("0.01"), LifeExpectancyGain: dec("0.15"),
			Inflation:        domain.EconomicPath{Target: dec("0.06")},
			Interest:         domain.EconomicPath{Target: dec("0.055")},
			GDPGrowth:        domain.EconomicPath{Target: dec("0.045")},
			EconomicBaseline: "imf",
		},
	}
}

func testConfiguration() *domain.Configuration {
	engine := domain.DefaultEngineSettings()
	engine.DefaultCountry = "India"
	return &domain.Configuration{
		Scenarios:     testScenarios(),
		Rating:        domain.DefaultRatingConfig(),
		Sensitivities: domain.DefaultSensitivities(),
		Engine:        engine,
	}
}

func newTestForecaster(t *testing.T) *Forecaster {
	t.Helper()
	f, err := NewForecaster(newTestDataset(t), testConfiguration())
	require.NoError(t, err)
	return f
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decimalPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

func intPtr(v int) *int {
	return &v
}

// TestLogger is a simple logger for testing
type TestLogger struct {
	messages []string
}

func (tl *TestLogger) Debugf(format string, args ...interface{}) {
	tl.messages = append(tl.messages, "DEBUG: "+format)
}

func (tl *TestLogger) Infof(format string, args ...interface{}) {
	tl.messages = append(tl.messages, "INFO: "+format)
}

func (tl *TestLogger) Warnf(format string, args ...interface{}) {
	tl.messages = append(tl.messages, "WARN: "+format)
}

func (tl *TestLogger) Errorf(format string, args ...interface{}) {
	tl.messages = append(tl.messages, "ERROR: "+format)
}
