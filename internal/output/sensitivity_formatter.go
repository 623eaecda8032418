package output

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/rgehrsitz/premcast/internal/domain"
	"github.com/shopspring/decimal"
)

// formatParameterValue renders a sweep value in the parameter's unit.
func formatParameterValue(param domain.SensitivityParameter, v decimal.Decimal) string {
	if param.Unit == "years" {
		return v.StringFixed(2) + "y"
	}
	return fmt.Sprintf("%.2f%%", v.Mul(decimal.NewFromInt(100)).InexactFloat64())
}

func writeSensitivity(buf *bytes.Buffer, st consoleStyles, analysis *domain.SensitivityAnalysis) {
	param := analysis.Parameter

	fmt.Fprintln(buf, st.title.Render(fmt.Sprintf("SENSITIVITY ANALYSIS: %s", strings.ToUpper(strings.ReplaceAll(param.Name, "_", " ")))))
	fmt.Fprintln(buf, strings.Repeat("=", 65))
	fmt.Fprintf(buf, "Scenario: %s\n", analysis.BaseScenarioID)
	fmt.Fprintf(buf, "Base Case: %s = %s\n", param.Name, formatParameterValue(param, analysis.BaseValue))
	fmt.Fprintf(buf, "Range: %s to %s (%d steps)\n",
		formatParameterValue(param, param.MinValue),
		formatParameterValue(param, param.MaxValue),
		param.Steps)
	fmt.Fprintf(buf, "Description: %s\n", param.Description)
	fmt.Fprintln(buf)

	fmt.Fprintf(buf, "%-14s %14s %14s %10s %12s %10s\n",
		param.Name, "First Premium", "Final Premium", "Growth", "vs Base", "Change")
	fmt.Fprintln(buf, strings.Repeat("-", 80))

	for _, result := range analysis.Results {
		value := formatParameterValue(param, result.ParameterValue)
		if result.ParameterValue.Equal(analysis.BaseValue) {
			value += " ←"
		}
		fmt.Fprintf(buf, "%-14s %14s %14s %10s %12s %10s\n",
			value,
			FormatCurrency(result.FirstPremium),
			FormatCurrency(result.FinalPremium),
			FormatPercentage(result.GrowthPct),
			signed(result.ChangeFromBase),
			FormatPercentage(result.ChangePct))
	}
	fmt.Fprintln(buf)

	fmt.Fprintf(buf, "Final premium range: %s to %s\n",
		FormatCurrency(analysis.Summary.MinFinalPremium),
		FormatCurrency(analysis.Summary.MaxFinalPremium))
	fmt.Fprintf(buf, "Elasticity: %s%% per unit\n", analysis.Summary.Elasticity.StringFixed(2))

	risk := st.muted
	switch analysis.Summary.RiskLevel {
	case "MEDIUM":
		risk = st.warning
	case "HIGH":
		risk = st.danger
	}
	fmt.Fprintf(buf, "RISK LEVEL: %s\n", risk.Render(analysis.Summary.RiskLevel))

	if len(analysis.Summary.Recommendations) > 0 {
		fmt.Fprintln(buf)
		fmt.Fprintln(buf, "RECOMMENDATIONS:")
		for _, rec := range analysis.Summary.Recommendations {
			fmt.Fprintf(buf, "  • %s\n", rec)
		}
	}
}

func signed(d decimal.Decimal) string {
	if d.IsPositive() {
		return "+" + FormatCurrency(d)
	}
	return FormatCurrency(d)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
