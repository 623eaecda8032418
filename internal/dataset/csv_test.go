package dataset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rgehrsitz/premcast/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	mortalityCSV = `year,country,gender,age,smoking_status,mortality_rate,life_expectancy
2023,India,Male,35,Non-Smoker,1.0,30.0
2023,India,Male,40,Non-Smoker,2.0,26.0
2024,India,Male,35,Non-Smoker,0.9,30.2
2024,India,Male,40,Non-Smoker,1.9,26.2
2023,India,Female,45,Smoker,4.0,15.0
2024,India,Female,45,Smoker,3.9,15.2
`
	economicCSV = `year,country,inflation_rate,interest_rate,gdp_growth
2023,India,5.5,6.5,7.0
2024,India,4.8,6.25,6.8
`
	economicIMFCSV = `year,country,inflation_rate,interest_rate,gdp_growth
2024,Nepal,6.0,7.0,4.0
`
	ratesCSV = `country,group,gender,age,policy_type,smoking_status,premium_per_unit
India,Individual,Male,35,Term Life,Non-Smoker,65.5
India,Family,Female,45,Whole Life,Smoker,880.25
`
	populationCSV = `country,group,gender,age,policy_type,smoking_status,sum_insured,policy_count
India,Individual,Male,35,Term Life,Non-Smoker,2500000,120
India,Family,Female,45,Whole Life,Smoker,5000000,30
`
)

func TestCSVSource_Load(t *testing.T) {
	dir := writeDataDir(t, map[string]string{
		MortalityFile:           mortalityCSV,
		EconomicFile:            economicCSV,
		"economic_data_imf.csv": economicIMFCSV,
		RatesFile:               ratesCSV,
		PopulationFile:          populationCSV,
	})

	ds, err := NewCSVSource(dir).Load(context.Background())
	require.NoError(t, err)

	// ages 35 and 40 share a band and are averaged
	key := domain.MortalityKey{AgeBand: domain.AgeBand31To40, Gender: domain.GenderMale, SmokingStatus: domain.NonSmoker, Country: "India"}
	series := ds.Mortality.Series(key)
	require.Len(t, series, 2)
	assert.Equal(t, 2023, series[0].Year)
	assert.True(t, decimal.NewFromFloat(1.5).Equal(series[0].RatePer1000), "got %s", series[0].RatePer1000)
	assert.True(t, decimal.NewFromInt(28).Equal(series[0].LifeExpectancy))
	assert.Equal(t, 2, ds.Mortality.Len())

	// percent columns become fractions
	econ := ds.Economics.Series("India")
	require.Len(t, econ, 2)
	assert.True(t, decimal.NewFromFloat(0.055).Equal(econ[0].Inflation))
	assert.True(t, decimal.NewFromFloat(0.0625).Equal(econ[1].Interest))
	assert.True(t, decimal.NewFromFloat(0.068).Equal(econ[1].GDPGrowth))

	imf, ok := ds.EconomicsFor("imf")
	require.True(t, ok)
	assert.Equal(t, []string{"Nepal"}, imf.Countries())

	rate, ok := ds.Rates.Lookup(domain.Segment{
		Age: 35, Gender: domain.GenderMale, GroupType: domain.GroupIndividual,
		PolicyType: domain.PolicyTerm, SmokingStatus: domain.NonSmoker, Country: "India",
	})
	require.True(t, ok)
	assert.True(t, decimal.NewFromFloat(65.5).Equal(rate))

	require.Len(t, ds.Population, 2)
	assert.True(t, decimal.NewFromInt(2500000).Equal(ds.Population[0].SumInsured))
	assert.True(t, decimal.NewFromInt(120).Equal(ds.Population[0].Weight))
	assert.Equal(t, domain.AgeBand41To50, ds.Population[1].Segment.AgeBand)
}

func TestCSVSource_LegacyColumns(t *testing.T) {
	dir := writeDataDir(t, map[string]string{
		MortalityFile: mortalityCSV,
		EconomicFile:  economicCSV,
		RatesFile: `country,group,gender,age,policy_type,base_premium
India,Individual,Male,35,Term,655
`,
		PopulationFile: `country,group,gender,age,policy_type,policy_count
India,Individual,Male,35,Term,10
`,
	})

	ds, err := NewCSVSource(dir).Load(context.Background())
	require.NoError(t, err)

	seg := domain.Segment{Age: 35, Gender: domain.GenderMale, GroupType: domain.GroupIndividual, PolicyType: domain.PolicyTerm, SmokingStatus: domain.NonSmoker, Country: "India"}
	rate, ok := ds.Rates.Lookup(seg)
	require.True(t, ok, "missing smoking_status means non-smoker")
	assert.True(t, decimal.NewFromFloat(65.5).Equal(rate), "base_premium quotes ten units")

	require.Len(t, ds.Population, 1)
	assert.True(t, DefaultSumInsured.Equal(ds.Population[0].SumInsured))
	assert.Empty(t, ds.AltEconomics)
}

func TestCSVSource_Errors(t *testing.T) {
	tests := []struct {
		name     string
		files    map[string]string
		contains string
	}{
		{
			name:     "missing file",
			files:    map[string]string{MortalityFile: mortalityCSV},
			contains: EconomicFile,
		},
		{
			name: "missing column",
			files: map[string]string{
				MortalityFile:  "year,country,gender,age,mortality_rate,life_expectancy\n",
				EconomicFile:   economicCSV,
				RatesFile:      ratesCSV,
				PopulationFile: populationCSV,
			},
			contains: "smoking_status",
		},
		{
			name: "bad number",
			files: map[string]string{
				MortalityFile:  mortalityCSV,
				EconomicFile:   "year,country,inflation_rate,interest_rate,gdp_growth\n2024,India,high,6,7\n",
				RatesFile:      ratesCSV,
				PopulationFile: populationCSV,
			},
			contains: "economic_data.csv row 1: inflation_rate",
		},
		{
			name: "duplicate rate",
			files: map[string]string{
				MortalityFile:  mortalityCSV,
				EconomicFile:   economicCSV,
				RatesFile:      ratesCSV + "India,Individual,Male,35,Term Life,Non-Smoker,70\n",
				PopulationFile: populationCSV,
			},
			contains: "duplicate",
		},
		{
			name: "unknown gender",
			files: map[string]string{
				MortalityFile:  mortalityCSV,
				EconomicFile:   economicCSV,
				RatesFile:      ratesCSV,
				PopulationFile: "country,group,gender,age,policy_type,policy_count\nIndia,Individual,Other,35,Term,1\n",
			},
			contains: "demographic_distribution.csv row 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeDataDir(t, tt.files)
			ds, err := NewCSVSource(dir).Load(context.Background())
			require.Error(t, err)
			assert.Nil(t, ds)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestCSVSource_EmptyFile(t *testing.T) {
	dir := writeDataDir(t, map[string]string{MortalityFile: ""})
	_, err := NewCSVSource(dir).Load(context.Background())
	assert.True(t, errors.Is(err, domain.ErrDataUnavailable))
}

func TestCSVSource_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewCSVSource(t.TempDir()).Load(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
}

func writeDataDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}
