package main

import (
	"github.com/rgehrsitz/premcast/internal/domain"
	"github.com/rgehrsitz/premcast/internal/output"
	"github.com/spf13/cobra"
)

func newForecastCmd(root *rootOptions) *cobra.Command {
	var (
		rf         requestFlags
		scenarioID string
		format     string
		save       bool
		transforms []string
	)
	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Forecast average premiums for one scenario",
		Example: `  premcast forecast --scenario base --start 2025 --end 2035
  premcast forecast --gender Female --smoking NonSmoker --format json
  premcast forecast --coverage 1000000 --allow-fallback --format html --save
  premcast forecast --transform shift_inflation:delta=0.01 --transform set_ramp:indicator=inflation,years=5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := rf.forecastRequest(cmd, scenarioID)
			if err != nil {
				return err
			}
			a, err := root.newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()
			if _, ok := a.forecaster.Scenario(scenarioID); !ok {
				return unknownScenario(scenarioID, a.forecaster.ScenarioIDs())
			}

			var res *domain.ForecastResult
			if len(transforms) > 0 {
				f, custom, err := customScenario(a.forecaster, scenarioID, transforms)
				if err != nil {
					return err
				}
				req.ScenarioID = custom.ID
				res, err = f.Forecast(req)
				if err != nil {
					return err
				}
			} else if res, err = a.cached.Forecast(req); err != nil {
				return err
			}
			a.logger.Infof("forecast %s: %d years, %d segment issues", scenarioID, len(res.Points), len(res.Issues))
			return emit(cmd, format, save, output.NewForecastReport(res, req.Filters))
		},
	}
	rf.register(cmd)
	cmd.Flags().StringVarP(&scenarioID, "scenario", "s", "base", "Scenario to forecast")
	cmd.Flags().StringVarP(&format, "format", "f", "console", "Output format (console, plain, csv, json, html)")
	cmd.Flags().BoolVar(&save, "save", false, "Write the report to a file instead of stdout")
	cmd.Flags().StringArrayVarP(&transforms, "transform", "t", nil, "Transform to apply to the scenario, as name:key=value,... (repeatable)")
	return cmd
}
