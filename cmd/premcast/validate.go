package main

import (
	"fmt"

	"github.com/rgehrsitz/premcast/internal/dataset"
	"github.com/rgehrsitz/premcast/internal/domain"
	"github.com/spf13/cobra"
)

func newValidateCmd(root *rootOptions) *cobra.Command {
	var withData bool
	cmd := &cobra.Command{
		Use:   "validate [config-file]",
		Short: "Validate a model configuration and optionally the dataset",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := root.loadSettings()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				s.Config = args[0]
			}
			cfg, err := loadConfiguration(s)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			source := s.Config
			if source == "" {
				source = "built-in defaults"
			}
			fmt.Fprintf(out, "Configuration is valid (%s): %d scenario(s)\n", source, len(cfg.Scenarios))

			if !withData {
				return nil
			}
			ds, err := loadDataset(cmd.Context(), s)
			if err != nil {
				return fmt.Errorf("failed to load dataset: %w", err)
			}
			summary := dataset.Summarize(ds)
			fmt.Fprintf(out, "Dataset loaded: %d population cells, %d rated segments, %d mortality series\n",
				summary.PopulationCells, summary.RatedSegments, summary.MortalitySeries)
			summary.QualityIssues = append(summary.QualityIssues, baselineIssues(cfg, ds)...)
			if len(summary.QualityIssues) == 0 {
				fmt.Fprintln(out, "No data quality issues found.")
				return nil
			}
			fmt.Fprintf(out, "%d data quality issue(s):\n", len(summary.QualityIssues))
			for _, issue := range summary.QualityIssues {
				fmt.Fprintf(out, "  - %s\n", issue)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&withData, "data", false, "Also load the dataset and report quality issues")
	return cmd
}

// baselineIssues flags scenarios that name an economic baseline the dataset lacks.
func baselineIssues(cfg *domain.Configuration, ds *domain.Dataset) []string {
	var issues []string
	for _, sc := range cfg.Scenarios {
		if sc.EconomicBaseline == "" {
			continue
		}
		if _, ok := ds.EconomicsFor(sc.EconomicBaseline); !ok {
			issues = append(issues, fmt.Sprintf("scenario %s uses economic baseline %s, which is not in the dataset", sc.ID, sc.EconomicBaseline))
		}
	}
	return issues
}
