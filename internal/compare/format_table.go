package compare

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// TableFormatter formats comparison results as a console table
type TableFormatter struct{}

// Format generates a formatted table comparing scenarios
func (tf *TableFormatter) Format(compSet *ComparisonSet) string {
	var sb strings.Builder

	// Header
	sb.WriteString("PREMIUM SCENARIO COMPARISON\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Base Scenario: %s\n", compSet.BaseScenarioID))
	if compSet.RequestedBaseID != "" {
		sb.WriteString(fmt.Sprintf("               (requested %s could not be forecast)\n", compSet.RequestedBaseID))
	}
	sb.WriteString(fmt.Sprintf("Horizon:       %d-%d\n", compSet.StartYear, compSet.EndYear))
	sb.WriteString(fmt.Sprintf("Segments:      %s\n", compSet.Filters))
	sb.WriteString("\n")

	nameWidth := 25
	numWidth := 13

	sb.WriteString(fmt.Sprintf("%-*s %*s %*s %*s %*s\n",
		nameWidth, "Scenario",
		numWidth, "First Year",
		numWidth, "Final Year",
		numWidth, "Growth",
		numWidth, "CAGR"))
	sb.WriteString(strings.Repeat("-", 80) + "\n")

	if base := compSet.BaseResult; base != nil {
		sb.WriteString(tf.formatRow(base, nameWidth, numWidth, true))
	}

	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, alt := range compSet.AlternativeResults {
			sb.WriteString(tf.formatRow(&alt, nameWidth, numWidth, false))
		}
	}

	sb.WriteString(strings.Repeat("=", 80) + "\n")

	// Comparison details (deltas from base)
	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString("\nCOMPARISON TO BASE\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")

		for _, alt := range compSet.AlternativeResults {
			sb.WriteString(fmt.Sprintf("\n%s:\n", alt.ScenarioName))
			if alt.Description != "" {
				sb.WriteString(fmt.Sprintf("  %s\n", alt.Description))
			}
			sb.WriteString(fmt.Sprintf("  Final Premium:    %s%s (%s%s%%)\n",
				tf.deltaSymbol(alt.FinalDiffFromBase),
				tf.formatDecimal(alt.FinalDiffFromBase),
				tf.deltaSymbol(alt.FinalPctFromBase),
				alt.FinalPctFromBase.StringFixed(1)))
			if !alt.GrowthDiffFromBase.IsZero() {
				sb.WriteString(fmt.Sprintf("  Total Growth:     %s%s pts\n",
					tf.deltaSymbol(alt.GrowthDiffFromBase),
					alt.GrowthDiffFromBase.StringFixed(1)))
			}
		}
		sb.WriteString("\n")
	}

	sb.WriteString(tf.formatYearGrid(compSet))

	if len(compSet.Failures) > 0 {
		sb.WriteString("\nFAILED SCENARIOS\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, f := range compSet.Failures {
			sb.WriteString(fmt.Sprintf("%s: %s\n", f.ScenarioID, f.Reason))
		}
	}

	if len(compSet.Recommendations) > 0 {
		sb.WriteString("\nRECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, rec := range compSet.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// formatYearGrid lays the average premium out with one row per year and one
// column per scenario.
func (tf *TableFormatter) formatYearGrid(compSet *ComparisonSet) string {
	if len(compSet.Points) == 0 {
		return ""
	}
	var columns []string
	seen := make(map[string]bool)
	var years []int
	values := make(map[int]map[string]decimal.Decimal)
	for _, p := range compSet.Points {
		if !seen[p.ScenarioID] {
			seen[p.ScenarioID] = true
			columns = append(columns, p.ScenarioID)
		}
		if _, ok := values[p.Year]; !ok {
			values[p.Year] = make(map[string]decimal.Decimal)
			years = append(years, p.Year)
		}
		values[p.Year][p.ScenarioID] = p.AveragePremium
	}

	const colWidth = 16
	var sb strings.Builder
	sb.WriteString("AVERAGE PREMIUM BY YEAR\n")
	sb.WriteString(fmt.Sprintf("%-6s", "Year"))
	for _, c := range columns {
		sb.WriteString(fmt.Sprintf(" %*s", colWidth, tf.truncate(c, colWidth)))
	}
	sb.WriteString("\n")
	for _, year := range years {
		sb.WriteString(fmt.Sprintf("%-6d", year))
		for _, c := range columns {
			cell := "-"
			if v, ok := values[year][c]; ok {
				cell = v.StringFixed(2)
			}
			sb.WriteString(fmt.Sprintf(" %*s", colWidth, cell))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// formatRow formats a single scenario row
func (tf *TableFormatter) formatRow(result *ComparisonResult, nameWidth, numWidth int, isBase bool) string {
	name := result.ScenarioName
	if isBase {
		name += " (base)"
	}

	return fmt.Sprintf("%-*s %*s %*s %*s %*s\n",
		nameWidth, tf.truncate(name, nameWidth),
		numWidth, tf.formatDecimal(result.FirstYearPremium),
		numWidth, tf.formatDecimal(result.FinalYearPremium),
		numWidth, result.TotalGrowthPct.StringFixed(1)+"%",
		numWidth, result.CAGRPct.StringFixed(2)+"%")
}

// formatDecimal formats a premium for display, abbreviating large amounts
func (tf *TableFormatter) formatDecimal(d decimal.Decimal) string {
	if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000000)) {
		millions := d.Div(decimal.NewFromInt(1000000))
		return millions.StringFixed(2) + "M"
	} else if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(10000)) {
		thousands := d.Div(decimal.NewFromInt(1000))
		return thousands.StringFixed(1) + "K"
	}
	return d.StringFixed(2)
}

// deltaSymbol returns "+" for increases; negative values carry their own sign
func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	}
	return ""
}

// truncate truncates a string to maxLen
func (tf *TableFormatter) truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// FormatCompact creates a compact single-line summary for each scenario
func (tf *TableFormatter) FormatCompact(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Base: %s | ", compSet.BaseScenarioID))

	for i, alt := range compSet.AlternativeResults {
		if i > 0 {
			sb.WriteString(" | ")
		}
		change := "="
		if !alt.FinalDiffFromBase.IsZero() {
			change = tf.deltaSymbol(alt.FinalDiffFromBase) + tf.formatDecimal(alt.FinalDiffFromBase)
		}

		sb.WriteString(fmt.Sprintf("%s: %s", alt.ScenarioName, change))
	}

	return sb.String()
}
