package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rgehrsitz/premcast/internal/domain"
	"github.com/rgehrsitz/premcast/internal/transform"
	"github.com/spf13/cobra"
)

func newScenariosCmd(root *rootOptions) *cobra.Command {
	var templates bool
	cmd := &cobra.Command{
		Use:   "scenarios",
		Short: "List configured scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if templates {
				fmt.Fprint(out, transform.GetTemplateHelp(transform.CreateBuiltInTemplates()))
				return nil
			}
			s, err := root.loadSettings()
			if err != nil {
				return err
			}
			cfg, err := loadConfiguration(s)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, scenarioTable(cfg.Scenarios))
			return nil
		},
	}
	cmd.Flags().BoolVar(&templates, "templates", false, "List the built-in scenario templates instead")
	return cmd
}

func scenarioTable(scenarios []domain.Scenario) string {
	rows := make([][]string, 0, len(scenarios))
	for i := range scenarios {
		sc := &scenarios[i]
		baseline := sc.EconomicBaseline
		if baseline == "" {
			baseline = "default"
		}
		rows = append(rows, []string{
			sc.ID,
			sc.DisplayName(),
			pathSummary(sc.Inflation),
			pathSummary(sc.Interest),
			sc.MortalityImprovement.Mul(hundred).StringFixed(2) + "%",
			baseline,
		})
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "Name", "Inflation", "Interest", "Mortality Impr.", "Baseline").
		Rows(rows...).
		String()
}

// pathSummary renders an economic path as "4.00% over 5y (+2 pinned)".
func pathSummary(p domain.EconomicPath) string {
	out := p.Target.Mul(hundred).StringFixed(2) + "%"
	if p.RampYears > 0 {
		out += fmt.Sprintf(" over %dy", p.RampYears)
	}
	if n := len(p.Values); n > 0 {
		out += fmt.Sprintf(" (+%d pinned)", n)
	}
	return out
}
