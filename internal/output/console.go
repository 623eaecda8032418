package output

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rgehrsitz/premcast/internal/compare"
	"github.com/rgehrsitz/premcast/internal/dataset"
	"github.com/rgehrsitz/premcast/internal/domain"
)

// maxIssueLines caps how many segment issues are spelled out.
const maxIssueLines = 20

// ConsoleFormatter renders reports for a terminal. Plain drops all styling.
type ConsoleFormatter struct {
	Plain bool
}

func (c ConsoleFormatter) Name() string {
	if c.Plain {
		return "plain"
	}
	return "console"
}

func (c ConsoleFormatter) Format(r *Report) ([]byte, error) {
	var buf bytes.Buffer
	st := newConsoleStyles(c.Plain)

	switch r.Kind {
	case KindForecast:
		if r.Forecast == nil {
			return nil, fmt.Errorf("forecast report has no forecast")
		}
		c.writeForecast(&buf, st, r)
	case KindComparison:
		if r.Comparison == nil {
			return nil, fmt.Errorf("comparison report has no comparison")
		}
		c.writeComparison(&buf, st, r.Comparison)
	case KindSensitivity:
		if r.Sensitivity == nil {
			return nil, fmt.Errorf("sensitivity report has no analysis")
		}
		writeSensitivity(&buf, st, r.Sensitivity)
	case KindSummary:
		if r.Summary == nil {
			return nil, fmt.Errorf("summary report has no summary")
		}
		c.writeSummary(&buf, st, r.Summary)
	default:
		return nil, fmt.Errorf("unsupported report kind: %q", r.Kind)
	}
	return buf.Bytes(), nil
}

func (c ConsoleFormatter) writeForecast(buf *bytes.Buffer, st consoleStyles, r *Report) {
	res := r.Forecast
	fmt.Fprintln(buf, st.title.Render(fmt.Sprintf("PREMIUM FORECAST: %s", strings.ToUpper(displayName(res)))))
	fmt.Fprintf(buf, "%s %s\n", st.label.Render("Scenario: "), res.ScenarioID)
	fmt.Fprintf(buf, "%s %s\n", st.label.Render("Segments: "), r.Filters)
	fmt.Fprintf(buf, "%s %d\n", st.label.Render("Base year:"), res.BaseYear)
	fmt.Fprintln(buf)

	rows := make([][]string, 0, len(res.Points))
	for _, p := range res.Points {
		rows = append(rows, []string{
			strconv.Itoa(p.Year),
			FormatCurrency(p.AveragePremium),
			p.AveragePremiumPerUnit.StringFixed(4),
			FormatRate(p.Inflation),
			FormatRate(p.Interest),
			FormatRate(p.GDPGrowth),
			p.CumulativeInflation.StringFixed(4),
			p.AvgMortalityRate.StringFixed(3),
			p.AvgLifeExpectancy.StringFixed(1),
			strconv.Itoa(p.SegmentCount),
		})
	}
	fmt.Fprintln(buf, c.table(st, []string{
		"Year", "Avg Premium", "Per Unit", "Inflation", "Interest", "GDP", "Cum. Infl", "Mortality", "Life Exp", "Segments",
	}, rows))

	writeIssues(buf, st, res.Issues)
}

func (c ConsoleFormatter) writeComparison(buf *bytes.Buffer, st consoleStyles, cs *compare.ComparisonSet) {
	tf := &compare.TableFormatter{}
	text := tf.Format(cs)
	title, rest, _ := strings.Cut(text, "\n")
	fmt.Fprintln(buf, st.title.Render(title))
	buf.WriteString(rest)

	for _, alt := range cs.AlternativeResults {
		if alt.Result != nil && len(alt.Result.Issues) > 0 {
			fmt.Fprintln(buf, st.heading.Render(alt.ScenarioName))
			writeIssues(buf, st, alt.Result.Issues)
		}
	}
	if cs.BaseResult != nil && cs.BaseResult.Result != nil && len(cs.BaseResult.Result.Issues) > 0 {
		fmt.Fprintln(buf, st.heading.Render(cs.BaseResult.ScenarioName))
		writeIssues(buf, st, cs.BaseResult.Result.Issues)
	}
	for _, f := range cs.Failures {
		fmt.Fprintln(buf, st.danger.Render(fmt.Sprintf("Scenario %s could not be forecast: %s.", f.ScenarioID, f.Reason)))
	}
}

func (c ConsoleFormatter) writeSummary(buf *bytes.Buffer, st consoleStyles, s *dataset.Summary) {
	fmt.Fprintln(buf, st.title.Render("DATASET SUMMARY"))
	fmt.Fprintf(buf, "%s %s\n", st.label.Render("Countries:        "), strings.Join(s.Countries, ", "))
	fmt.Fprintf(buf, "%s %d (%s)\n", st.label.Render("Mortality series: "), s.MortalitySeries, s.MortalityYears)
	fmt.Fprintf(buf, "%s %d\n", st.label.Render("Rated segments:   "), s.RatedSegments)
	fmt.Fprintf(buf, "%s %d (weight %s)\n", st.label.Render("Population cells: "), s.PopulationCells, s.TotalWeight.String())
	fmt.Fprintln(buf)

	fmt.Fprintln(buf, st.heading.Render("Economic baselines"))
	for _, b := range s.Baselines {
		countries := make([]string, 0, len(b.Countries))
		for _, country := range sortedKeys(b.Countries) {
			countries = append(countries, fmt.Sprintf("%s %s", country, b.Countries[country]))
		}
		fmt.Fprintf(buf, "  %-10s %s\n", b.Name, strings.Join(countries, ", "))
	}

	fmt.Fprintln(buf)
	if len(s.QualityIssues) == 0 {
		fmt.Fprintln(buf, "No data quality issues found.")
		return
	}
	fmt.Fprintln(buf, st.warning.Render(fmt.Sprintf("%d data quality issue(s):", len(s.QualityIssues))))
	for _, issue := range s.QualityIssues {
		fmt.Fprintf(buf, "  • %s\n", issue)
	}
}

func (c ConsoleFormatter) table(st consoleStyles, headers []string, rows [][]string) string {
	border := lipgloss.NormalBorder()
	if c.Plain {
		border = lipgloss.HiddenBorder()
	}
	return table.New().
		Border(border).
		BorderStyle(st.border).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().PaddingRight(1)
			if row == table.HeaderRow {
				return s.Inherit(st.heading)
			}
			if col > 0 {
				return s.Align(lipgloss.Right)
			}
			return s
		}).
		Headers(headers...).
		Rows(rows...).
		String()
}

// writeIssues spells out which segments were left out of which year.
func writeIssues(buf *bytes.Buffer, st consoleStyles, issues []domain.SegmentIssue) {
	if len(issues) == 0 {
		return
	}
	fmt.Fprintln(buf)
	fmt.Fprintln(buf, st.warning.Render(fmt.Sprintf("%d segment(s) were left out of the averages:", len(issues))))
	for i, issue := range issues {
		if i == maxIssueLines {
			fmt.Fprintln(buf, st.muted.Render(fmt.Sprintf("  ... and %d more.", len(issues)-maxIssueLines)))
			break
		}
		fmt.Fprintf(buf, "  In %d, %s (sum insured %s) was skipped: %s.\n",
			issue.Year, issue.Segment, FormatCurrency(issue.SumInsured), issue.Reason)
	}
}

func displayName(res *domain.ForecastResult) string {
	if res.ScenarioName != "" {
		return res.ScenarioName
	}
	return res.ScenarioID
}
