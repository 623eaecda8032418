package output

import (
	"encoding/csv"
	"errors"
	"os"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/rgehrsitz/premcast/internal/compare"
	"github.com/rgehrsitz/premcast/internal/dataset"
	"github.com/rgehrsitz/premcast/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSegment = domain.Segment{Age: 35, Gender: domain.GenderMale, GroupType: domain.GroupIndividual,
	PolicyType: domain.PolicyTerm, SmokingStatus: domain.NonSmoker, Country: "India"}

func buildTestForecast() *domain.ForecastResult {
	return &domain.ForecastResult{
		ScenarioID:   "base",
		ScenarioName: "Base Case",
		BaseYear:     2024,
		Points: []domain.ForecastPoint{
			{Year: 2024, ScenarioID: "base", AveragePremium: decimal.NewFromInt(1000), Inflation: decimal.NewFromFloat(0.05), CumulativeInflation: decimal.NewFromInt(1), SegmentCount: 2},
			{Year: 2025, ScenarioID: "base", AveragePremium: decimal.NewFromFloat(1052.5), Inflation: decimal.NewFromFloat(0.05), CumulativeInflation: decimal.NewFromFloat(1.05), SegmentCount: 1},
		},
		Issues: []domain.SegmentIssue{
			{Year: 2025, Segment: testSegment, SumInsured: decimal.NewFromInt(500000), Reason: "no mortality series"},
		},
	}
}

func buildTestComparison() *compare.ComparisonSet {
	base := compare.ComparisonResult{ScenarioID: "base", ScenarioName: "Base Case", FinalYearPremium: decimal.NewFromInt(1100)}
	return &compare.ComparisonSet{
		RunID:              "cmp-1",
		BaseScenarioID:     "base",
		StartYear:          2024,
		EndYear:            2025,
		Filters:            "all segments",
		BaseResult:         &base,
		AlternativeResults: []compare.ComparisonResult{{ScenarioID: "optimistic", ScenarioName: "Optimistic", FinalYearPremium: decimal.NewFromInt(1050)}},
		Failures:           []domain.ScenarioFailure{{ScenarioID: "pessimistic", Reason: "no economic history for India"}},
		Points: []domain.ForecastPoint{
			{Year: 2024, ScenarioID: "base", AveragePremium: decimal.NewFromInt(1000)},
			{Year: 2024, ScenarioID: "optimistic", AveragePremium: decimal.NewFromInt(1000)},
		},
	}
}

func buildTestSensitivity() *domain.SensitivityAnalysis {
	return &domain.SensitivityAnalysis{
		BaseScenarioID: "base",
		Parameter:      domain.InflationTargetParameter,
		BaseValue:      decimal.NewFromFloat(0.05),
		Results: []domain.SensitivityResult{
			{ParameterValue: decimal.NewFromFloat(0.04), FinalPremium: decimal.NewFromInt(1080), ChangeFromBase: decimal.NewFromInt(-20), ChangePct: decimal.NewFromFloat(-1.82)},
			{ParameterValue: decimal.NewFromFloat(0.05), FinalPremium: decimal.NewFromInt(1100)},
		},
		Summary: domain.SensitivitySummary{RiskLevel: "MEDIUM", Recommendations: []string{"Reprice annually"}},
	}
}

func TestFormatterFunc_Format(t *testing.T) {
	called := false
	var received *Report

	formatter := FormatterFunc{
		ID: "test-formatter",
		F: func(r *Report) ([]byte, error) {
			called = true
			received = r
			return []byte("test output"), nil
		},
	}

	report := NewForecastReport(buildTestForecast(), domain.Filters{})
	out, err := formatter.Format(report)

	assert.NoError(t, err, "Should not error")
	assert.True(t, called, "Should call the function")
	assert.Equal(t, report, received, "Should pass the report")
	assert.Equal(t, []byte("test output"), out, "Should return the function output")
	assert.Equal(t, "test-formatter", formatter.Name(), "Should return the ID")
}

func TestWriteFormatted(t *testing.T) {
	chdirForTest(t, t.TempDir())

	formatter := FormatterFunc{
		ID: "test-formatter",
		F: func(r *Report) ([]byte, error) {
			return []byte("test output content"), nil
		},
	}

	filename, err := WriteFormatted(formatter, NewForecastReport(buildTestForecast(), domain.Filters{}), "txt")

	require.NoError(t, err)
	assert.Contains(t, filename, "premium_report_", "Should have correct prefix")
	assert.True(t, strings.HasSuffix(filename, ".txt"), "Should have correct extension")

	content, err := os.ReadFile(filename)
	require.NoError(t, err, "Should be able to read the file")
	assert.Equal(t, "test output content", string(content))
}

func TestWriteFormatted_FormatterError(t *testing.T) {
	formatter := FormatterFunc{
		ID: "failing",
		F: func(r *Report) ([]byte, error) {
			return nil, errors.New("formatter error")
		},
	}

	filename, err := WriteFormatted(formatter, NewForecastReport(buildTestForecast(), domain.Filters{}), "txt")

	assert.Error(t, err, "Should error when formatter fails")
	assert.Empty(t, filename, "Should return empty filename on error")
	assert.Contains(t, err.Error(), "formatter error")
}

func TestGetFormatterByName(t *testing.T) {
	for _, name := range FormatterNames() {
		f, ok := GetFormatterByName(name)
		require.True(t, ok, name)
		assert.Equal(t, name, f.Name())
	}

	_, ok := GetFormatterByName("pdf")
	assert.False(t, ok)
	assert.Equal(t, []string{"console", "csv", "html", "json", "plain"}, FormatterNames())
}

func TestConsoleFormatter_Forecast(t *testing.T) {
	min := 30
	out, err := ConsoleFormatter{Plain: true}.Format(NewForecastReport(buildTestForecast(), domain.Filters{AgeMin: &min}))
	require.NoError(t, err)

	content := string(out)
	assert.Contains(t, content, "PREMIUM FORECAST: BASE CASE")
	assert.Contains(t, content, "age >= 30")
	assert.Contains(t, content, "Base year: 2024")
	assert.Contains(t, content, "1052.50")
	assert.Contains(t, content, "5.00%")
	assert.Contains(t, content, "1 segment(s) were left out of the averages:")
	assert.Contains(t, content, "In 2025, India/35/Male/Individual/Term/NonSmoker (sum insured 500000.00) was skipped: no mortality series.")
}

func TestConsoleFormatter_IssueOverflow(t *testing.T) {
	res := buildTestForecast()
	issue := res.Issues[0]
	res.Issues = nil
	for i := 0; i < maxIssueLines+5; i++ {
		res.Issues = append(res.Issues, issue)
	}

	out, err := ConsoleFormatter{Plain: true}.Format(NewForecastReport(res, domain.Filters{}))
	require.NoError(t, err)
	assert.Contains(t, string(out), "... and 5 more.")
	assert.Equal(t, maxIssueLines, strings.Count(string(out), "was skipped"))
}

func TestConsoleFormatter_Comparison(t *testing.T) {
	out, err := ConsoleFormatter{Plain: true}.Format(NewComparisonReport(buildTestComparison()))
	require.NoError(t, err)

	content := string(out)
	assert.Contains(t, content, "PREMIUM SCENARIO COMPARISON")
	assert.Contains(t, content, "Optimistic")
	assert.Contains(t, content, "Scenario pessimistic could not be forecast: no economic history for India.")
}

func TestConsoleFormatter_Sensitivity(t *testing.T) {
	out, err := ConsoleFormatter{Plain: true}.Format(NewSensitivityReport(buildTestSensitivity(), domain.Filters{}))
	require.NoError(t, err)

	content := string(out)
	assert.Contains(t, content, "SENSITIVITY ANALYSIS: INFLATION TARGET")
	assert.Contains(t, content, "Base Case: inflation_target = 5.00%")
	assert.Contains(t, content, "5.00% ←")
	assert.Contains(t, content, "-20.00")
	assert.Contains(t, content, "RISK LEVEL: MEDIUM")
	assert.Contains(t, content, "Reprice annually")
}

func TestConsoleFormatter_Summary(t *testing.T) {
	s := &dataset.Summary{
		Countries:     []string{"India"},
		Baselines:     []dataset.BaselineSummary{{Name: "default", Countries: map[string]dataset.YearRange{"India": {From: 2020, To: 2024}}}},
		QualityIssues: []string{"1 population cells have no base rate"},
	}
	out, err := ConsoleFormatter{Plain: true}.Format(NewSummaryReport(s))
	require.NoError(t, err)

	content := string(out)
	assert.Contains(t, content, "DATASET SUMMARY")
	assert.Contains(t, content, "India 2020-2024")
	assert.Contains(t, content, "1 data quality issue(s):")

	s.QualityIssues = nil
	out, err = ConsoleFormatter{}.Format(NewSummaryReport(s))
	require.NoError(t, err)
	assert.Contains(t, string(out), "No data quality issues found.")
}

func TestConsoleFormatter_MissingPayload(t *testing.T) {
	for _, kind := range []ReportKind{KindForecast, KindComparison, KindSensitivity, KindSummary, "bogus"} {
		_, err := ConsoleFormatter{}.Format(&Report{Kind: kind})
		assert.Error(t, err, kind)
	}
}

func TestCSVFormatter_Format(t *testing.T) {
	tests := []struct {
		name   string
		report *Report
		header string
		rows   int
	}{
		{"forecast", NewForecastReport(buildTestForecast(), domain.Filters{}), "year", 3},
		{"comparison", NewComparisonReport(buildTestComparison()), "year", 3},
		{"sensitivity", NewSensitivityReport(buildTestSensitivity(), domain.Filters{}), "parameter", 3},
		{"summary", NewSummaryReport(&dataset.Summary{QualityIssues: []string{"a", "b"}}), "quality_issue", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := CSVFormatter{}.Format(tt.report)
			require.NoError(t, err)

			rows, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
			require.NoError(t, err)
			assert.Len(t, rows, tt.rows)
			assert.Equal(t, tt.header, rows[0][0])
		})
	}
}

func TestJSONFormatter_Format(t *testing.T) {
	report := NewComparisonReport(buildTestComparison())
	out, err := JSONFormatter{Pretty: true}.Format(report)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "cmp-1", decoded["id"], "comparison run id is the report id")
	assert.Equal(t, "comparison", decoded["kind"])
	assert.Contains(t, decoded, "comparison")
	assert.NotContains(t, decoded, "forecast")
}

func TestHTMLFormatter_Format(t *testing.T) {
	out, err := HTMLFormatter{}.Format(NewForecastReport(buildTestForecast(), domain.Filters{}))
	require.NoError(t, err)

	content := string(out)
	assert.Contains(t, content, "<h2>Base Case (base)</h2>")
	assert.Contains(t, content, "1052.50")
	assert.Contains(t, content, "1 segment issue(s)")

	out, err = HTMLFormatter{}.Format(NewComparisonReport(buildTestComparison()))
	require.NoError(t, err)
	assert.Contains(t, string(out), "Scenario pessimistic could not be forecast")
}

func TestNewReport_UniqueIDs(t *testing.T) {
	a := NewSummaryReport(&dataset.Summary{})
	b := NewSummaryReport(&dataset.Summary{})
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, KindSummary, a.Kind)
}

// chdirForTest changes the working directory for the duration of the test,
// restoring it on cleanup (equivalent of testing.T.Chdir from Go 1.24).
func chdirForTest(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
