package breakeven

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

// FormatValue renders a parameter value in its unit: fractions as percent.
func FormatValue(unit string, v decimal.Decimal) string {
	if unit == "years" {
		return v.StringFixed(3) + " years"
	}
	return v.Mul(hundred).StringFixed(2) + "%"
}

func formatTarget(goal Goal, target decimal.Decimal) string {
	if goal == GoalTargetGrowth {
		return target.StringFixed(2) + "% growth"
	}
	return target.StringFixed(2) + " final-year premium"
}

// TableFormatter formats solver results for the console
type TableFormatter struct{}

// Format renders a single solve.
func (tf *TableFormatter) Format(result *SolveResult) string {
	var sb strings.Builder

	sb.WriteString("BREAK-EVEN ANALYSIS\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Scenario:    %s\n", result.ScenarioID))
	sb.WriteString(fmt.Sprintf("Parameter:   %s\n", result.Parameter))
	sb.WriteString(fmt.Sprintf("Target:      %s\n", formatTarget(result.Goal, result.Target)))
	sb.WriteString(fmt.Sprintf("Status:      %s\n", formatStatus(result.Success)))
	sb.WriteString(fmt.Sprintf("Iterations:  %d\n", result.Iterations))
	if result.ConvergenceInfo != "" {
		sb.WriteString(fmt.Sprintf("Convergence: %s\n", result.ConvergenceInfo))
	}
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("%-22s %16s %16s\n", "", "Current", "Break-even"))
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	sb.WriteString(fmt.Sprintf("%-22s %16s %16s\n", result.Parameter, FormatValue(result.Unit, result.BaseValue), FormatValue(result.Unit, result.Value)))
	sb.WriteString(fmt.Sprintf("%-22s %16s %16s\n", "Final-year premium", result.BaseFinalPremium.StringFixed(2), result.FinalPremium.StringFixed(2)))
	sb.WriteString(fmt.Sprintf("%-22s %15s%% %15s%%\n", "Growth", result.BaseGrowthPct.StringFixed(2), result.GrowthPct.StringFixed(2)))
	return sb.String()
}

// FormatMulti renders one line per parameter plus recommendations.
func (tf *TableFormatter) FormatMulti(m *MultiResult) string {
	var sb strings.Builder

	sb.WriteString("BREAK-EVEN ANALYSIS\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Target: %s\n\n", formatTarget(m.Goal, m.Target)))

	sb.WriteString(fmt.Sprintf("%-24s %16s %16s %14s\n", "Parameter", "Current", "Break-even", "Final Premium"))
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	for _, r := range m.Results {
		sb.WriteString(fmt.Sprintf("%-24s %16s %16s %14s\n", r.Parameter,
			FormatValue(r.Unit, r.BaseValue), FormatValue(r.Unit, r.Value), r.FinalPremium.StringFixed(2)))
	}
	for _, name := range sortedKeys(m.Unreachable) {
		sb.WriteString(fmt.Sprintf("%-24s %16s %16s %14s\n", name, "", "unreachable", ""))
	}

	if len(m.Recommendations) > 0 {
		sb.WriteString("\nRECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, rec := range m.Recommendations {
			sb.WriteString("• " + rec + "\n")
		}
	}
	return sb.String()
}

func formatStatus(success bool) string {
	if success {
		return "✓ Converged"
	}
	return "✗ Did not converge"
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// JSONFormatter formats solver results as JSON
type JSONFormatter struct {
	Pretty bool
}

// Format marshals a SolveResult or MultiResult.
func (jf *JSONFormatter) Format(v any) (string, error) {
	var (
		data []byte
		err  error
	)
	if jf.Pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return "", fmt.Errorf("failed to marshal break-even result: %w", err)
	}
	return string(data) + "\n", nil
}
