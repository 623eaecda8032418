package compare

import (
	"encoding/csv"
	"strconv"
	"strings"
)

// CSVFormatter formats comparison results as CSV
type CSVFormatter struct{}

// Format generates CSV output for comparison results
func (cf *CSVFormatter) Format(compSet *ComparisonSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{
		"Scenario ID",
		"Scenario",
		"Type",
		"First Year",
		"Final Year",
		"First Year Premium",
		"Final Year Premium",
		"Peak Premium",
		"Peak Year",
		"Total Growth %",
		"CAGR %",
		"Average Inflation",
		"Segment Issues",
		"Final Diff from Base",
		"Final % Change",
		"Growth Diff from Base",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	if compSet.BaseResult != nil {
		if err := writer.Write(cf.formatRow(compSet.BaseResult, "base")); err != nil {
			return "", err
		}
	}

	for _, alt := range compSet.AlternativeResults {
		if err := writer.Write(cf.formatRow(&alt, "alternative")); err != nil {
			return "", err
		}
	}

	for _, f := range compSet.Failures {
		row := make([]string, len(header))
		row[0] = f.ScenarioID
		row[1] = f.Reason
		row[2] = "failed"
		if err := writer.Write(row); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	return sb.String(), nil
}

// FormatPoints writes the joined year-by-scenario table.
func (cf *CSVFormatter) FormatPoints(compSet *ComparisonSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	if err := writer.Write([]string{
		"year", "scenario", "average_premium", "average_premium_per_unit",
		"inflation", "interest", "gdp_growth", "cumulative_inflation",
		"avg_mortality_rate", "avg_life_expectancy", "segments",
	}); err != nil {
		return "", err
	}
	for _, p := range compSet.Points {
		if err := writer.Write([]string{
			strconv.Itoa(p.Year),
			p.ScenarioID,
			p.AveragePremium.StringFixed(2),
			p.AveragePremiumPerUnit.StringFixed(4),
			p.Inflation.StringFixed(4),
			p.Interest.StringFixed(4),
			p.GDPGrowth.StringFixed(4),
			p.CumulativeInflation.StringFixed(4),
			p.AvgMortalityRate.StringFixed(4),
			p.AvgLifeExpectancy.StringFixed(2),
			strconv.Itoa(p.SegmentCount),
		}); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// formatRow formats a comparison result as a CSV row
func (cf *CSVFormatter) formatRow(result *ComparisonResult, scenarioType string) []string {
	return []string{
		result.ScenarioID,
		result.ScenarioName,
		scenarioType,
		strconv.Itoa(result.FirstYear),
		strconv.Itoa(result.FinalYear),
		result.FirstYearPremium.StringFixed(2),
		result.FinalYearPremium.StringFixed(2),
		result.PeakPremium.StringFixed(2),
		strconv.Itoa(result.PeakYear),
		result.TotalGrowthPct.StringFixed(2),
		result.CAGRPct.StringFixed(2),
		result.AverageInflation.StringFixed(4),
		strconv.Itoa(result.IssueCount),
		result.FinalDiffFromBase.StringFixed(2),
		result.FinalPctFromBase.StringFixed(2),
		result.GrowthDiffFromBase.StringFixed(2),
	}
}
