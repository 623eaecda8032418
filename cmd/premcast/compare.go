package main

import (
	"fmt"

	"github.com/rgehrsitz/premcast/internal/compare"
	"github.com/rgehrsitz/premcast/internal/output"
	"github.com/rgehrsitz/premcast/internal/transform"
	"github.com/spf13/cobra"
)

var compareFormats = []string{"table", "compact", "csv", "points", "json", "console", "plain", "html"}

func newCompareCmd(root *rootOptions) *cobra.Command {
	var (
		rf            requestFlags
		baseID        string
		scenarios     []string
		with          string
		format        string
		save          bool
		listTemplates bool
		transforms    []string
	)
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare scenarios against a base scenario",
		Long: `Forecast the base scenario and each alternative over the same horizon and
segments, then report how far each alternative ends from the base.

Without --scenarios or --with, every configured scenario is compared.
--with derives extra scenarios by applying built-in templates to the base.`,
		Example: `  premcast compare --start 2025 --end 2035
  premcast compare --scenarios optimistic,pessimistic --format csv
  premcast compare --with high_inflation,rate_cut --gender Male
  premcast compare --transform shift_inflation:delta=0.02
  premcast compare --list-templates`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if listTemplates {
				fmt.Fprint(cmd.OutOrStdout(), transform.GetTemplateHelp(transform.CreateBuiltInTemplates()))
				return nil
			}
			if !contains(compareFormats, format) {
				return unknownChoice("output format", format, compareFormats)
			}
			req, err := rf.compareRequest(cmd)
			if err != nil {
				return err
			}

			a, err := root.newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			ids := a.forecaster.ScenarioIDs()
			if _, ok := a.forecaster.Scenario(baseID); !ok {
				return unknownScenario(baseID, ids)
			}
			for _, id := range scenarios {
				if _, ok := a.forecaster.Scenario(id); !ok {
					return unknownScenario(id, ids)
				}
			}

			f := a.forecaster
			alternatives := scenarios
			if len(transforms) > 0 {
				derived, custom, err := customScenario(f, baseID, transforms)
				if err != nil {
					return err
				}
				f = derived
				alternatives = append(append([]string(nil), scenarios...), custom.ID)
			}

			engine := compare.NewCompareEngine(f)
			templates := transform.ParseTemplateList(with)
			for _, name := range templates {
				if _, ok := engine.TemplateRegistry.Get(name); !ok {
					return unknownChoice("template", name, engine.TemplateRegistry.List())
				}
			}
			if len(alternatives) == 0 && len(templates) == 0 {
				alternatives = ids
			}

			cs, err := engine.Compare(cmd.Context(), compare.CompareOptions{
				BaseScenarioID: baseID,
				Scenarios:      alternatives,
				Templates:      templates,
				Request:        req,
			})
			if err != nil {
				return err
			}
			for _, failure := range cs.Failures {
				a.logger.Warnf("scenario %s failed: %s", failure.ScenarioID, failure.Reason)
			}
			if cs.RequestedBaseID != "" {
				a.logger.Warnf("base %s failed, measuring against %s", cs.RequestedBaseID, cs.BaseScenarioID)
			}
			return emitComparison(cmd, format, save, cs)
		},
	}
	rf.register(cmd)
	cmd.Flags().StringVarP(&baseID, "base", "b", "base", "Scenario every alternative is measured against")
	cmd.Flags().StringSliceVar(&scenarios, "scenarios", nil, "Configured scenarios to compare (comma separated)")
	cmd.Flags().StringVar(&with, "with", "", "Templates to apply to the base scenario (comma separated)")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format (table, compact, csv, points, json, console, plain, html)")
	cmd.Flags().BoolVar(&save, "save", false, "Write console, plain or html output to a file")
	cmd.Flags().StringArrayVarP(&transforms, "transform", "t", nil, "Transform the base into a custom alternative, as name:key=value,... (repeatable)")
	cmd.Flags().BoolVar(&listTemplates, "list-templates", false, "List the built-in scenario templates and exit")
	return cmd
}

func emitComparison(cmd *cobra.Command, format string, save bool, cs *compare.ComparisonSet) error {
	var (
		text string
		err  error
	)
	switch format {
	case "table":
		text = (&compare.TableFormatter{}).Format(cs)
	case "compact":
		text = (&compare.TableFormatter{}).FormatCompact(cs) + "\n"
	case "csv":
		text, err = (&compare.CSVFormatter{}).Format(cs)
	case "points":
		text, err = (&compare.CSVFormatter{}).FormatPoints(cs)
	case "json":
		text, err = (&compare.JSONFormatter{Pretty: true}).Format(cs)
	default:
		return emit(cmd, format, save, output.NewComparisonReport(cs))
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), text)
	return err
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
