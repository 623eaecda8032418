package compare

import (
	"fmt"
	"math"
	"time"

	"github.com/rgehrsitz/premcast/internal/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ComparisonResult represents a single scenario forecast with calculated metrics
type ComparisonResult struct {
	ScenarioID   string                 `json:"scenarioId"`
	ScenarioName string                 `json:"scenarioName"`
	Description  string                 `json:"description,omitempty"`
	Result       *domain.ForecastResult `json:"-"`

	// Key Metrics
	FirstYear        int             `json:"firstYear"`
	FinalYear        int             `json:"finalYear"`
	FirstYearPremium decimal.Decimal `json:"firstYearPremium"`
	FinalYearPremium decimal.Decimal `json:"finalYearPremium"`
	PeakPremium      decimal.Decimal `json:"peakPremium"`
	PeakYear         int             `json:"peakYear"`
	TotalGrowthPct   decimal.Decimal `json:"totalGrowthPct"`
	CAGRPct          decimal.Decimal `json:"cagrPct"`
	AverageInflation decimal.Decimal `json:"averageInflation"`
	IssueCount       int             `json:"issueCount"`

	// Comparison to Base
	FinalDiffFromBase  decimal.Decimal `json:"finalDiffFromBase"`
	FinalPctFromBase   decimal.Decimal `json:"finalPctFromBase"`
	GrowthDiffFromBase decimal.Decimal `json:"growthDiffFromBase"`
}

// ComparisonSet represents a collection of scenario comparisons
type ComparisonSet struct {
	RunID              string                   `json:"runId"`
	GeneratedAt        time.Time                `json:"generatedAt"`
	BaseScenarioID     string                   `json:"baseScenarioId"`
	RequestedBaseID    string                   `json:"requestedBaseId,omitempty"` // set when the requested base failed
	StartYear          int                      `json:"startYear"`
	EndYear            int                      `json:"endYear"`
	Filters            string                   `json:"filters"`
	BaseResult         *ComparisonResult        `json:"baseResult"`
	AlternativeResults []ComparisonResult       `json:"alternativeResults"`
	Failures           []domain.ScenarioFailure `json:"failures,omitempty"`
	Points             []domain.ForecastPoint   `json:"points"`
	Recommendations    []string                 `json:"recommendations"`
}

// MetricsCalculator extracts key metrics from forecast results
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// CalculateMetrics computes all comparison metrics for a forecast result
func (mc *MetricsCalculator) CalculateMetrics(res *domain.ForecastResult) ComparisonResult {
	result := ComparisonResult{
		ScenarioID:   res.ScenarioID,
		ScenarioName: res.ScenarioName,
		Result:       res,
		IssueCount:   len(res.Issues),
	}
	if result.ScenarioName == "" {
		result.ScenarioName = res.ScenarioID
	}
	if len(res.Points) == 0 {
		return result
	}

	first := res.Points[0]
	last := res.Points[len(res.Points)-1]
	result.FirstYear = first.Year
	result.FinalYear = last.Year
	result.FirstYearPremium = first.AveragePremium
	result.FinalYearPremium = last.AveragePremium

	inflation := decimal.Zero
	for _, p := range res.Points {
		if p.AveragePremium.GreaterThan(result.PeakPremium) {
			result.PeakPremium = p.AveragePremium
			result.PeakYear = p.Year
		}
		inflation = inflation.Add(p.Inflation)
	}
	result.AverageInflation = inflation.Div(decimal.NewFromInt(int64(len(res.Points))))

	if first.AveragePremium.IsPositive() {
		result.TotalGrowthPct = last.AveragePremium.Sub(first.AveragePremium).
			Div(first.AveragePremium).
			Mul(hundred)
		result.CAGRPct = mc.cagr(first.AveragePremium, last.AveragePremium, last.Year-first.Year)
	}
	return result
}

// cagr returns the compound annual growth rate in percent over years.
func (mc *MetricsCalculator) cagr(first, last decimal.Decimal, years int) decimal.Decimal {
	if years <= 0 || !first.IsPositive() || !last.IsPositive() {
		return decimal.Zero
	}
	ratio := last.Div(first).InexactFloat64()
	rate := math.Pow(ratio, 1/float64(years)) - 1
	return decimal.NewFromFloat(rate * 100).Round(4)
}

// CalculateComparison computes comparison metrics between a scenario and a base
func (mc *MetricsCalculator) CalculateComparison(scenario, base ComparisonResult) ComparisonResult {
	scenario.FinalDiffFromBase = scenario.FinalYearPremium.Sub(base.FinalYearPremium)

	if !base.FinalYearPremium.IsZero() {
		scenario.FinalPctFromBase = scenario.FinalDiffFromBase.
			Div(base.FinalYearPremium).
			Mul(hundred)
	}

	scenario.GrowthDiffFromBase = scenario.TotalGrowthPct.Sub(base.TotalGrowthPct)
	return scenario
}

// GenerateRecommendations creates recommendations based on comparison results
func GenerateRecommendations(compSet *ComparisonSet) []string {
	recommendations := []string{}

	if compSet.BaseResult == nil {
		return recommendations
	}
	base := compSet.BaseResult

	if len(compSet.AlternativeResults) > 0 {
		// Cheapest final-year premium
		cheapest := base
		for i := range compSet.AlternativeResults {
			alt := &compSet.AlternativeResults[i]
			if alt.FinalYearPremium.LessThan(cheapest.FinalYearPremium) {
				cheapest = alt
			}
		}
		if cheapest != base {
			recommendations = append(recommendations,
				fmt.Sprintf("Lowest Premium: %s ends %s below the base in %d (%s%%)",
					cheapest.ScenarioName, cheapest.FinalDiffFromBase.Abs().StringFixed(2),
					cheapest.FinalYear, cheapest.FinalPctFromBase.StringFixed(1)))
		}

		// Largest exposure
		dearest := base
		for i := range compSet.AlternativeResults {
			alt := &compSet.AlternativeResults[i]
			if alt.FinalYearPremium.GreaterThan(dearest.FinalYearPremium) {
				dearest = alt
			}
		}
		if dearest != base {
			recommendations = append(recommendations,
				fmt.Sprintf("Highest Exposure: %s ends %s above the base in %d (+%s%%)",
					dearest.ScenarioName, dearest.FinalDiffFromBase.StringFixed(2),
					dearest.FinalYear, dearest.FinalPctFromBase.StringFixed(1)))
		}

		// Widest spread between scenarios
		if cheapest != dearest && cheapest.FinalYearPremium.IsPositive() {
			spread := dearest.FinalYearPremium.Sub(cheapest.FinalYearPremium).
				Div(cheapest.FinalYearPremium).Mul(hundred)
			if spread.GreaterThan(decimal.NewFromInt(10)) {
				recommendations = append(recommendations,
					fmt.Sprintf("Pricing Risk: final premiums differ by %s%% across scenarios; review rate adequacy under %s",
						spread.StringFixed(1), dearest.ScenarioName))
			}
		}
	}

	if base.TotalGrowthPct.GreaterThan(decimal.NewFromInt(50)) {
		recommendations = append(recommendations,
			fmt.Sprintf("Affordability: base premiums grow %s%% over the horizon", base.TotalGrowthPct.StringFixed(1)))
	}

	issues := base.IssueCount
	for _, alt := range compSet.AlternativeResults {
		issues += alt.IssueCount
	}
	if issues > 0 {
		recommendations = append(recommendations,
			fmt.Sprintf("Data Coverage: %d segment issues were excluded from the averages", issues))
	}

	if len(compSet.Failures) > 0 {
		recommendations = append(recommendations,
			fmt.Sprintf("Incomplete: %d scenario(s) could not be forecast", len(compSet.Failures)))
	}
	if compSet.RequestedBaseID != "" {
		recommendations = append(recommendations,
			fmt.Sprintf("Re-anchored: base %s failed, differences are measured against %s",
				compSet.RequestedBaseID, compSet.BaseScenarioID))
	}

	return recommendations
}
