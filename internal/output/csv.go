package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/rgehrsitz/premcast/internal/compare"
)

// CSVFormatter writes the tabular part of a report: forecast points, the
// joined comparison points, sweep results or summary quality issues.
type CSVFormatter struct{}

func (CSVFormatter) Name() string { return "csv" }

func (CSVFormatter) Format(r *Report) ([]byte, error) {
	switch r.Kind {
	case KindComparison:
		if r.Comparison == nil {
			return nil, fmt.Errorf("comparison report has no comparison")
		}
		out, err := (&compare.CSVFormatter{}).FormatPoints(r.Comparison)
		return []byte(out), err
	}

	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	var rows [][]string

	switch r.Kind {
	case KindForecast:
		if r.Forecast == nil {
			return nil, fmt.Errorf("forecast report has no forecast")
		}
		rows = append(rows, []string{
			"year", "scenario", "average_premium", "average_premium_per_unit", "total_weight",
			"average_sum_insured", "inflation", "interest", "gdp_growth", "cumulative_inflation",
			"avg_mortality_rate", "avg_life_expectancy", "segments",
		})
		for _, p := range r.Forecast.Points {
			rows = append(rows, []string{
				strconv.Itoa(p.Year),
				p.ScenarioID,
				p.AveragePremium.StringFixed(2),
				p.AveragePremiumPerUnit.StringFixed(4),
				p.TotalWeight.String(),
				p.AverageSumInsured.StringFixed(2),
				p.Inflation.StringFixed(4),
				p.Interest.StringFixed(4),
				p.GDPGrowth.StringFixed(4),
				p.CumulativeInflation.StringFixed(4),
				p.AvgMortalityRate.StringFixed(4),
				p.AvgLifeExpectancy.StringFixed(2),
				strconv.Itoa(p.SegmentCount),
			})
		}
	case KindSensitivity:
		if r.Sensitivity == nil {
			return nil, fmt.Errorf("sensitivity report has no analysis")
		}
		rows = append(rows, []string{
			"parameter", "value", "first_premium", "final_premium", "growth_pct", "change_from_base", "change_pct",
		})
		for _, res := range r.Sensitivity.Results {
			rows = append(rows, []string{
				r.Sensitivity.Parameter.Name,
				res.ParameterValue.String(),
				res.FirstPremium.StringFixed(2),
				res.FinalPremium.StringFixed(2),
				res.GrowthPct.StringFixed(2),
				res.ChangeFromBase.StringFixed(2),
				res.ChangePct.StringFixed(2),
			})
		}
	case KindSummary:
		if r.Summary == nil {
			return nil, fmt.Errorf("summary report has no summary")
		}
		rows = append(rows, []string{"quality_issue"})
		for _, issue := range r.Summary.QualityIssues {
			rows = append(rows, []string{issue})
		}
	default:
		return nil, fmt.Errorf("unsupported report kind: %q", r.Kind)
	}

	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
